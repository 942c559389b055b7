// seehuhn.de/go/pdfpages - extract and merge pages of PDF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package pdfpages

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"seehuhn.de/go/pdfpages/pagetree"
	"seehuhn.de/go/pdfpages/pdf"
)

var quiet = &Options{
	Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
}

// makeDoc returns a document with n pages.  The content stream of page i
// contains the string prefix+i.  Pages inherit their media box and their
// resources from the root of the page tree, and all pages use the same
// font.  Page 1 has a link to page 2, and page 2 has an annotation which
// refers back to page 2.
func makeDoc(prefix string, n int, v pdf.Version) *pdf.Data {
	doc := pdf.NewData(v)

	font := doc.Add(pdf.Dict{
		"Type":     pdf.Name("Font"),
		"Subtype":  pdf.Name("Type1"),
		"BaseFont": pdf.Name("Helvetica"),
	})
	resources := doc.Add(pdf.Dict{
		"Font": pdf.Dict{"F1": font},
	})

	rootRef := doc.Alloc()
	midRef := doc.Alloc()
	pageRefs := make([]pdf.Reference, n)
	for i := range pageRefs {
		pageRefs[i] = doc.Alloc()
	}

	kids := make(pdf.Array, n)
	for i, ref := range pageRefs {
		kids[i] = ref
		content := doc.Add(&pdf.Stream{
			Dict: pdf.Dict{},
			Data: []byte(fmt.Sprintf("%s%d", prefix, i+1)),
		})
		page := pdf.Dict{
			"Type":     pdf.Name("Page"),
			"Parent":   midRef,
			"Contents": content,
		}
		switch {
		case i == 0 && n > 1:
			link := doc.Add(pdf.Dict{
				"Type":    pdf.Name("Annot"),
				"Subtype": pdf.Name("Link"),
				"Dest":    pdf.Array{pageRefs[1], pdf.Name("Fit")},
			})
			page["Annots"] = pdf.Array{link}
		case i == 1:
			note := doc.Add(pdf.Dict{
				"Type":    pdf.Name("Annot"),
				"Subtype": pdf.Name("Text"),
				"P":       ref,
			})
			page["Annots"] = pdf.Array{note}
		}
		doc.Put(ref, page)
	}

	doc.Put(midRef, pdf.Dict{
		"Type":   pdf.Name("Pages"),
		"Parent": rootRef,
		"Kids":   kids,
		"Count":  pdf.Integer(n),
	})
	doc.Put(rootRef, pdf.Dict{
		"Type":      pdf.Name("Pages"),
		"Kids":      pdf.Array{midRef},
		"Count":     pdf.Integer(n),
		"MediaBox":  pdf.Array{pdf.Integer(0), pdf.Integer(0), pdf.Integer(595), pdf.Integer(842)},
		"Resources": resources,
	})

	catalog := doc.Add(pdf.Dict{
		"Type":  pdf.Name("Catalog"),
		"Pages": rootRef,
		"Lang":  pdf.TextString("en-GB"),
	})
	doc.SetRoot(catalog)
	doc.GetMeta().Trailer["Info"] = doc.Add(pdf.Dict{
		"Title":  pdf.TextString("document " + prefix),
		"Author": pdf.TextString("Ann Author"),
	})

	return doc
}

func pages(t *testing.T, doc pdf.Getter) []pdf.Reference {
	t.Helper()
	res, err := pagetree.FindPages(doc)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

// contents returns the content streams of all pages of doc.
func contents(t *testing.T, doc pdf.Getter) []string {
	t.Helper()
	var res []string
	for _, ref := range pages(t, doc) {
		page, err := pdf.GetDict(doc, ref)
		if err != nil {
			t.Fatal(err)
		}
		stm, err := pdf.GetStream(doc, page["Contents"])
		if err != nil {
			t.Fatal(err)
		}
		res = append(res, string(stm.Data))
	}
	return res
}

// snapshot records the serialised form of all objects and of the trailer.
func snapshot(doc *pdf.Data) map[string]string {
	res := make(map[string]string)
	for _, ref := range doc.Refs() {
		obj, _ := doc.Get(ref)
		res[ref.String()] = pdf.Format(obj)
	}
	meta := doc.GetMeta()
	res["trailer"] = pdf.Format(meta.Trailer)
	res["version"] = meta.Version.String()
	return res
}

// checkTree verifies that all /Count entries of the page tree of doc are
// correct, and that every node points back to its parent.
func checkTree(t *testing.T, doc pdf.Getter) {
	t.Helper()
	catalog, err := pdf.GetCatalog(doc)
	if err != nil {
		t.Fatal(err)
	}
	root, ok := catalog["Pages"].(pdf.Reference)
	if !ok {
		t.Fatal("no page tree")
	}
	checkNode(t, doc, root, nil)
}

func checkNode(t *testing.T, doc pdf.Getter, ref pdf.Reference, parent pdf.Object) int {
	t.Helper()
	node, err := pdf.GetDict(doc, ref)
	if err != nil {
		t.Fatal(err)
	}
	if node["Parent"] != parent {
		t.Errorf("%s: wrong parent %v, expected %v", ref, node["Parent"], parent)
	}
	isPage, err := pagetree.IsPage(doc, node)
	if err != nil {
		t.Fatal(err)
	}
	if isPage {
		return 1
	}

	kids, err := pdf.GetArray(doc, node["Kids"])
	if err != nil {
		t.Fatal(err)
	}
	total := 0
	for _, kid := range kids {
		total += checkNode(t, doc, kid.(pdf.Reference), ref)
	}
	count, err := pdf.GetInt(doc, node["Count"])
	if err != nil {
		t.Fatal(err)
	}
	if int(count) != total {
		t.Errorf("%s: /Count is %d, but node has %d pages", ref, count, total)
	}
	return total
}

// checkClosed verifies that all references in doc can be resolved.
func checkClosed(t *testing.T, doc *pdf.Data) {
	t.Helper()
	var walk func(obj pdf.Object)
	walk = func(obj pdf.Object) {
		switch x := obj.(type) {
		case pdf.Reference:
			if _, err := doc.Get(x); err != nil {
				t.Error(err)
			}
		case pdf.Dict:
			for _, val := range x {
				walk(val)
			}
		case pdf.Array:
			for _, val := range x {
				walk(val)
			}
		case *pdf.Stream:
			walk(x.Dict)
		}
	}
	for _, ref := range doc.Refs() {
		obj, _ := doc.Get(ref)
		walk(obj)
	}
	walk(doc.GetMeta().Trailer)
}

// roundTrip writes doc to a buffer and reads it back.
func roundTrip(t *testing.T, doc *pdf.Data) *pdf.Data {
	t.Helper()
	buf := &bytes.Buffer{}
	err := doc.Write(buf)
	if err != nil {
		t.Fatal(err)
	}
	res, err := pdf.Read(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}
	return res
}
