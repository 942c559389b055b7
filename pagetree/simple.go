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

package pagetree

import (
	"errors"
	"math"

	"seehuhn.de/go/pdfpages/pdf"
)

// NumPages returns the number of pages in the document, as recorded in the
// /Count entry of the root of the page tree.
func NumPages(r pdf.Getter) (int, error) {
	root, err := rootNode(r)
	if err != nil {
		return 0, err
	}
	pageTreeNode, err := pdf.GetDict(r, root)
	if err != nil {
		return 0, err
	}

	count, err := pdf.GetInt(r, pageTreeNode["Count"])
	if err != nil {
		return 0, err
	}

	if count < 0 || count > math.MaxInt32 {
		return 0, errInvalidPageTree
	}

	return int(count), nil
}

// GetPage returns the dictionary of the page with the given (0-based) page
// number.  Inheritable attributes are filled in from the page's ancestors.
// The returned dictionary is a copy and can be modified by the caller.
func GetPage(r pdf.Getter, pageNo int) (pdf.Dict, error) {
	if pageNo < 0 {
		return nil, errors.New("invalid page number")
	}

	pages, err := FindPages(r)
	if err != nil {
		return nil, err
	}
	if pageNo >= len(pages) {
		return nil, errors.New("page not found")
	}
	ref := pages[pageNo]

	pageDict, err := pdf.GetDict(r, ref)
	if err != nil {
		return nil, err
	}
	inherited, err := Inherited(r, ref)
	if err != nil {
		return nil, err
	}

	res := make(pdf.Dict, len(pageDict)+len(inherited))
	for key, val := range pageDict {
		res[key] = val
	}
	for key, val := range inherited {
		res[key] = val
	}
	return res, nil
}
