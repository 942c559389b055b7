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
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/pdfpages/pagetree"
	"seehuhn.de/go/pdfpages/pdf"
)

func TestExtract(t *testing.T) {
	src := makeDoc("A", 5, pdf.V1_6)
	all := pages(t, src)

	res, err := Extract(src, []pdf.Reference{all[3], all[0], all[4]}, quiet)
	if err != nil {
		t.Fatal(err)
	}
	checkTree(t, res)
	checkClosed(t, res)

	res = roundTrip(t, res)
	checkTree(t, res)

	if diff := cmp.Diff([]string{"A4", "A1", "A5"}, contents(t, res)); diff != "" {
		t.Errorf("wrong pages (-want +got):\n%s", diff)
	}
	if v := res.GetMeta().Version; v != pdf.V1_6 {
		t.Errorf("wrong version %s", v)
	}

	for _, ref := range pages(t, res) {
		page, err := pdf.GetDict(res, ref)
		if err != nil {
			t.Fatal(err)
		}
		if page["Resources"] == nil {
			t.Errorf("page %s: inherited /Resources missing", ref)
		}
		box, err := pagetree.MediaBox(res, ref)
		if err != nil {
			t.Fatal(err)
		}
		if box.Dx() != 595 || box.Dy() != 842 {
			t.Errorf("page %s: wrong media box %v", ref, box)
		}
	}

	catalog, err := pdf.GetCatalog(res)
	if err != nil {
		t.Fatal(err)
	}
	lang, err := pdf.GetString(res, catalog["Lang"])
	if err != nil {
		t.Fatal(err)
	}
	if lang.AsTextString() != "en-GB" {
		t.Errorf("wrong /Lang %q", lang.AsTextString())
	}

	info, err := pdf.GetInfo(res)
	if err != nil {
		t.Fatal(err)
	}
	title, err := pdf.GetString(res, info["Title"])
	if err != nil {
		t.Fatal(err)
	}
	if title.AsTextString() != "document A" {
		t.Errorf("wrong title %q", title.AsTextString())
	}
}

// TestExtractSharing checks that objects used by several pages are copied
// only once.
func TestExtractSharing(t *testing.T) {
	src := makeDoc("A", 3, pdf.V1_7)
	all := pages(t, src)

	res, err := Extract(src, all, quiet)
	if err != nil {
		t.Fatal(err)
	}

	resources := map[pdf.Object]bool{}
	for _, ref := range pages(t, res) {
		page, err := pdf.GetDict(res, ref)
		if err != nil {
			t.Fatal(err)
		}
		resources[page["Resources"]] = true
	}
	if len(resources) != 1 {
		t.Errorf("resources copied %d times", len(resources))
	}

	fonts := 0
	for _, ref := range res.Refs() {
		dict, _ := pdf.GetDict(res, ref)
		if dict["Type"] == pdf.Name("Font") {
			fonts++
		}
	}
	if fonts != 1 {
		t.Errorf("font copied %d times", fonts)
	}
}

// TestExtractUnselected checks that references to pages which are not
// selected are replaced by null, rather than pulling in the page.
func TestExtractUnselected(t *testing.T) {
	src := makeDoc("A", 4, pdf.V1_7)
	all := pages(t, src)

	res, err := Extract(src, all[:1], quiet)
	if err != nil {
		t.Fatal(err)
	}
	checkClosed(t, res)

	if diff := cmp.Diff([]string{"A1"}, contents(t, res)); diff != "" {
		t.Errorf("wrong pages (-want +got):\n%s", diff)
	}
	for _, ref := range res.Refs() {
		dict, _ := pdf.GetDict(res, ref)
		if dict["Type"] == pdf.Name("Page") && ref != pages(t, res)[0] {
			t.Errorf("unselected page %s was copied", ref)
		}
	}

	page, err := pdf.GetDict(res, pages(t, res)[0])
	if err != nil {
		t.Fatal(err)
	}
	annots, err := pdf.GetArray(res, page["Annots"])
	if err != nil {
		t.Fatal(err)
	}
	link, err := pdf.GetDict(res, annots[0])
	if err != nil {
		t.Fatal(err)
	}
	dest, err := pdf.GetArray(res, link["Dest"])
	if err != nil {
		t.Fatal(err)
	}
	if len(dest) != 2 || dest[0] != nil {
		t.Errorf("wrong link destination %s", pdf.Format(dest))
	}
}

// TestExtractCycle checks that a page which is referenced by its own
// annotation is copied once, and the cycle is kept.
func TestExtractCycle(t *testing.T) {
	src := makeDoc("A", 3, pdf.V1_7)
	all := pages(t, src)

	res, err := Extract(src, all[1:2], quiet)
	if err != nil {
		t.Fatal(err)
	}
	pageRef := pages(t, res)[0]
	page, err := pdf.GetDict(res, pageRef)
	if err != nil {
		t.Fatal(err)
	}
	annots, err := pdf.GetArray(res, page["Annots"])
	if err != nil {
		t.Fatal(err)
	}
	note, err := pdf.GetDict(res, annots[0])
	if err != nil {
		t.Fatal(err)
	}
	if note["P"] != pageRef {
		t.Errorf("annotation points to %v, expected %s", note["P"], pageRef)
	}
}

func TestExtractNoMutation(t *testing.T) {
	src := makeDoc("A", 4, pdf.V1_7)
	all := pages(t, src)
	before := snapshot(src)

	_, err := Extract(src, []pdf.Reference{all[2], all[1]},
		&Options{Logger: quiet.Logger, Title: "Extracted"})
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(before, snapshot(src)); diff != "" {
		t.Errorf("source was modified (-before +after):\n%s", diff)
	}
}

func TestExtractErrors(t *testing.T) {
	src := makeDoc("A", 3, pdf.V1_7)
	all := pages(t, src)
	catalogRef := src.GetMeta().Trailer["Root"].(pdf.Reference)

	cases := []struct {
		name    string
		pages   []pdf.Reference
		missing bool
	}{
		{"empty", nil, false},
		{"duplicate", []pdf.Reference{all[0], all[1], all[0]}, false},
		{"not a page", []pdf.Reference{catalogRef}, false},
		{"missing", []pdf.Reference{all[0], pdf.NewReference(999, 0)}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res, err := Extract(src, c.pages, quiet)
			if res != nil {
				t.Error("result returned on error")
			}
			if !IsInputError(err) {
				t.Errorf("expected input error, got %v", err)
			}
			if IsMissingObject(err) != c.missing {
				t.Errorf("IsMissingObject(%v) = %t", err, !c.missing)
			}
		})
	}
}

func TestExtractRange(t *testing.T) {
	src := makeDoc("A", 5, pdf.V1_7)

	res, err := ExtractRange(src, 2, 4, quiet)
	if err != nil {
		t.Fatal(err)
	}
	checkTree(t, res)
	if diff := cmp.Diff([]string{"A2", "A3", "A4"}, contents(t, res)); diff != "" {
		t.Errorf("wrong pages (-want +got):\n%s", diff)
	}

	for _, r := range [][2]int{{0, 2}, {3, 2}, {4, 6}, {6, 6}} {
		res, err := ExtractRange(src, r[0], r[1], quiet)
		if res != nil || !IsInputError(err) {
			t.Errorf("ExtractRange(%d, %d): expected input error, got %v", r[0], r[1], err)
		}
	}
}

func TestExtractFile(t *testing.T) {
	src := makeDoc("A", 3, pdf.V1_7)
	dir := t.TempDir()

	out := filepath.Join(dir, "out.pdf")
	err := ExtractRangeFile(src, 3, 3, out, quiet)
	if err != nil {
		t.Fatal(err)
	}
	res, err := pdf.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"A3"}, contents(t, res)); diff != "" {
		t.Errorf("wrong pages (-want +got):\n%s", diff)
	}

	bad := filepath.Join(dir, "missing", "out.pdf")
	err = ExtractFile(src, pages(t, src)[:1], bad, quiet)
	var saveErr *SaveError
	if !errors.As(err, &saveErr) {
		t.Fatalf("expected SaveError, got %v", err)
	}
	if saveErr.Path != bad {
		t.Errorf("wrong path %q", saveErr.Path)
	}

	noPages := filepath.Join(dir, "none.pdf")
	err = ExtractFile(src, nil, noPages, quiet)
	if !IsInputError(err) {
		t.Errorf("expected input error, got %v", err)
	}
	if _, err := os.Stat(noPages); !os.IsNotExist(err) {
		t.Error("output written despite error")
	}
}

func TestExtractConcurrent(t *testing.T) {
	const n = 8

	docs := make([]*pdf.Data, n)
	for i := range docs {
		docs[i] = makeDoc(string(rune('A'+i)), 6, pdf.V1_7)
	}

	results := make([][]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range docs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := ExtractRange(docs[i], 2, 5, quiet)
			if err != nil {
				errs[i] = err
				return
			}
			all, err := pagetree.FindPages(res)
			if err != nil {
				errs[i] = err
				return
			}
			for _, ref := range all {
				page, _ := pdf.GetDict(res, ref)
				stm, _ := pdf.GetStream(res, page["Contents"])
				results[i] = append(results[i], string(stm.Data))
			}
		}(i)
	}
	wg.Wait()

	for i := range docs {
		if errs[i] != nil {
			t.Fatal(errs[i])
		}
		p := string(rune('A' + i))
		want := []string{p + "2", p + "3", p + "4", p + "5"}
		if diff := cmp.Diff(want, results[i]); diff != "" {
			t.Errorf("document %s (-want +got):\n%s", p, diff)
		}
	}
}
