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
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/pdfpages/pagetree"
	"seehuhn.de/go/pdfpages/pdf"
)

func TestMerge(t *testing.T) {
	a := makeDoc("A", 2, pdf.V1_5)
	b := makeDoc("B", 3, pdf.V1_7)

	res, err := Merge([]*pdf.Data{a, b}, quiet)
	if err != nil {
		t.Fatal(err)
	}
	checkTree(t, res)
	checkClosed(t, res)

	res = roundTrip(t, res)
	checkTree(t, res)

	want := []string{"A1", "A2", "B1", "B2", "B3"}
	if diff := cmp.Diff(want, contents(t, res)); diff != "" {
		t.Errorf("wrong pages (-want +got):\n%s", diff)
	}
	if v := res.GetMeta().Version; v != pdf.V1_7 {
		t.Errorf("wrong version %s", v)
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

// TestMergeSame checks that a document can be merged with itself.
func TestMergeSame(t *testing.T) {
	a := makeDoc("A", 2, pdf.V1_7)

	res, err := Merge([]*pdf.Data{a, a, a}, quiet)
	if err != nil {
		t.Fatal(err)
	}
	checkTree(t, res)
	checkClosed(t, res)

	want := []string{"A1", "A2", "A1", "A2", "A1", "A2"}
	if diff := cmp.Diff(want, contents(t, res)); diff != "" {
		t.Errorf("wrong pages (-want +got):\n%s", diff)
	}

	seen := map[pdf.Reference]bool{}
	for _, ref := range pages(t, res) {
		if seen[ref] {
			t.Errorf("page %s used twice", ref)
		}
		seen[ref] = true
	}
}

func TestMergeSingle(t *testing.T) {
	a := makeDoc("A", 3, pdf.V1_7)

	res, err := Merge([]*pdf.Data{a}, quiet)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(snapshot(a), snapshot(res)); diff != "" {
		t.Errorf("document changed (-want +got):\n%s", diff)
	}
}

func TestMergeNoMutation(t *testing.T) {
	a := makeDoc("A", 2, pdf.V1_4)
	b := makeDoc("B", 2, pdf.V1_6)
	beforeA := snapshot(a)
	beforeB := snapshot(b)

	_, err := Merge([]*pdf.Data{a, b}, &Options{Logger: quiet.Logger, Title: "Merged"})
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(beforeA, snapshot(a)); diff != "" {
		t.Errorf("first document was modified (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff(beforeB, snapshot(b)); diff != "" {
		t.Errorf("second document was modified (-before +after):\n%s", diff)
	}
}

func TestMergeEmpty(t *testing.T) {
	for _, docs := range [][]*pdf.Data{nil, {}, {makeDoc("A", 1, pdf.V1_7), nil}} {
		res, err := Merge(docs, quiet)
		if res != nil || !IsInputError(err) {
			t.Errorf("expected input error, got %v", err)
		}
	}
}

// TestMergeRecount checks that a missing /Count in the first document is
// recomputed.
func TestMergeRecount(t *testing.T) {
	a := makeDoc("A", 2, pdf.V1_7)
	b := makeDoc("B", 1, pdf.V1_7)

	catalog, err := pdf.GetCatalog(a)
	if err != nil {
		t.Fatal(err)
	}
	rootRef := catalog["Pages"].(pdf.Reference)
	root, err := pdf.GetDict(a, rootRef)
	if err != nil {
		t.Fatal(err)
	}
	delete(root, "Count")

	buf := &bytes.Buffer{}
	opt := &Options{Logger: slog.New(slog.NewTextHandler(buf, nil))}
	res, err := Merge([]*pdf.Data{a, b}, opt)
	if err != nil {
		t.Fatal(err)
	}
	checkTree(t, res)
	if n := len(pages(t, res)); n != 3 {
		t.Errorf("expected 3 pages, got %d", n)
	}
	if !strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("missing warning, log is %q", buf.String())
	}
}

// TestMergeRootAttributes checks that appended pages do not pick up
// inheritable attributes from the page tree root of the first document.
func TestMergeRootAttributes(t *testing.T) {
	a := makeDoc("A", 2, pdf.V1_7)
	b := makeDoc("B", 3, pdf.V1_7)

	catalog, err := pdf.GetCatalog(a)
	if err != nil {
		t.Fatal(err)
	}
	rootRef := catalog["Pages"].(pdf.Reference)
	root, err := pdf.GetDict(a, rootRef)
	if err != nil {
		t.Fatal(err)
	}
	root["Rotate"] = pdf.Integer(90)
	root["CropBox"] = pdf.Array{pdf.Integer(0), pdf.Integer(0), pdf.Integer(100), pdf.Integer(100)}

	res, err := Merge([]*pdf.Data{a, b}, quiet)
	if err != nil {
		t.Fatal(err)
	}
	res = roundTrip(t, res)
	checkTree(t, res)

	// effective returns the value of an inheritable attribute of a page.
	effective := func(ref pdf.Reference, key pdf.Name) string {
		page, err := pdf.GetDict(res, ref)
		if err != nil {
			t.Fatal(err)
		}
		val, present := page[key]
		if !present {
			inherited, err := pagetree.Inherited(res, ref)
			if err != nil {
				t.Fatal(err)
			}
			val = inherited[key]
		}
		val, err = pdf.Resolve(res, val)
		if err != nil {
			t.Fatal(err)
		}
		return pdf.Format(val)
	}

	for i, ref := range pages(t, res) {
		rotate := effective(ref, "Rotate")
		cropBox := effective(ref, "CropBox")
		box, err := pagetree.MediaBox(res, ref)
		if err != nil {
			t.Fatal(err)
		}
		if box.Dx() != 595 || box.Dy() != 842 {
			t.Errorf("page %d: wrong media box %v", i+1, box)
		}

		if i < 2 {
			if rotate != "90" || cropBox != "[0 0 100 100]" {
				t.Errorf("page %d: Rotate=%s CropBox=%s, expected attributes of A",
					i+1, rotate, cropBox)
			}
			continue
		}
		if rotate != "0" {
			t.Errorf("page %d: Rotate=%s, expected 0", i+1, rotate)
		}
		if cropBox != "[0 0 595 842]" {
			t.Errorf("page %d: CropBox=%s, expected the media box", i+1, cropBox)
		}
	}
}

func TestMergeFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdf")
	b := filepath.Join(dir, "b.pdf")
	for name, doc := range map[string]*pdf.Data{
		a: makeDoc("A", 2, pdf.V1_7),
		b: makeDoc("B", 3, pdf.V2_0),
	} {
		err := doc.WriteFile(name)
		if err != nil {
			t.Fatal(err)
		}
	}

	out := filepath.Join(dir, "out.pdf")
	err := MergeFiles([]string{b, a}, out, quiet)
	if err != nil {
		t.Fatal(err)
	}
	res, err := pdf.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	checkTree(t, res)
	want := []string{"B1", "B2", "B3", "A1", "A2"}
	if diff := cmp.Diff(want, contents(t, res)); diff != "" {
		t.Errorf("wrong pages (-want +got):\n%s", diff)
	}
	if v := res.GetMeta().Version; v != pdf.V2_0 {
		t.Errorf("wrong version %s", v)
	}
}

func TestMergeFilesErrors(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdf")
	err := makeDoc("A", 2, pdf.V1_7).WriteFile(a)
	if err != nil {
		t.Fatal(err)
	}
	junk := filepath.Join(dir, "junk.pdf")
	err = os.WriteFile(junk, []byte("this is not a PDF file"), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing.pdf")
	out := filepath.Join(dir, "out.pdf")

	err = MergeFiles([]string{a, missing}, out, quiet)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) || loadErr.Path != missing {
		t.Errorf("expected LoadError for %s, got %v", missing, err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}

	err = MergeFiles([]string{junk, a}, out, quiet)
	var malformed *pdf.MalformedFileError
	if !errors.As(err, &loadErr) || loadErr.Path != junk {
		t.Errorf("expected LoadError for %s, got %v", junk, err)
	}
	if !errors.As(err, &malformed) {
		t.Errorf("expected MalformedFileError, got %v", err)
	}

	err = MergeFiles(nil, out, quiet)
	if !IsInputError(err) {
		t.Errorf("expected input error, got %v", err)
	}

	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("output written despite error")
	}
}
