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
	"fmt"

	"seehuhn.de/go/pdfpages/pagetree"
	"seehuhn.de/go/pdfpages/pdf"
	"seehuhn.de/go/pdfpages/pdfcopy"
)

// copyPage copies the page srcRef, together with everything it refers to,
// into dst and attaches the copy to the page tree node parent.
//
// Attributes which the page inherits from its ancestors in the source page
// tree are stored in the copy, since the source ancestors are not copied.
// shadowed lists the inheritable attributes which the new parent (or one
// of its ancestors) carries.  If the page has no value of its own for one
// of these, the default value is stored explicitly, so that the page does
// not pick up the attribute of its new parent.
func copyPage(c *pdfcopy.Copier, src pdf.Getter, dst *pdf.Data, srcRef, parent pdf.Reference, shadowed []pdf.Name) (pdf.Reference, error) {
	inherited, err := pagetree.Inherited(src, srcRef)
	if err != nil {
		return 0, err
	}

	ref, err := c.CopyReference(srcRef)
	if err != nil {
		return 0, err
	}

	obj, err := dst.Get(ref)
	if err != nil {
		return 0, err
	}
	page, ok := obj.(pdf.Dict)
	if !ok {
		return 0, fmt.Errorf("page %s: expected pdf.Dict but got %T", srcRef, obj)
	}

	for key, val := range inherited {
		if _, present := page[key]; present {
			continue
		}
		val, err = c.Copy(val)
		if err != nil {
			return 0, err
		}
		if val != nil {
			page[key] = val
		}
	}
	for _, key := range shadowed {
		if _, present := page[key]; present {
			continue
		}
		switch key {
		case "Resources":
			page[key] = pdf.Dict{}
		case "MediaBox":
			page[key] = letterBox()
		case "CropBox":
			if box, ok := page["MediaBox"]; ok {
				page[key] = box
			} else {
				page[key] = letterBox()
			}
		case "Rotate":
			page[key] = pdf.Integer(0)
		}
	}
	page["Parent"] = parent

	return ref, nil
}

// inheritableKeys returns the inheritable page attributes present in
// the page tree node.
func inheritableKeys(node pdf.Dict) []pdf.Name {
	var res []pdf.Name
	for _, key := range pagetree.InheritableKeys {
		if _, present := node[key]; present {
			res = append(res, key)
		}
	}
	return res
}

// letterBox returns the media box used when no media box is given.
func letterBox() pdf.Array {
	b := pagetree.Letter
	return pdf.Array{pdf.Real(b.LLx), pdf.Real(b.LLy), pdf.Real(b.URx), pdf.Real(b.URy)}
}

// checkPage verifies that ref is a page object of r.
func checkPage(r pdf.Getter, ref pdf.Reference) error {
	obj, err := r.Get(ref)
	if err != nil {
		return err
	}
	dict, ok := obj.(pdf.Dict)
	if !ok {
		return fmt.Errorf("%s is not a dictionary", ref)
	}
	tp, err := pdf.GetName(r, dict["Type"])
	if err != nil {
		return err
	}
	if tp != "Page" {
		return fmt.Errorf("%s is not a page", ref)
	}
	return nil
}
