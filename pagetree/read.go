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

// Package pagetree reads the page tree of a PDF document.
package pagetree

import (
	"errors"
	"fmt"

	"seehuhn.de/go/pdfpages/pdf"
)

var errInvalidPageTree = errors.New("invalid page tree")

// FindPages returns the references of all pages in the document, in the
// order in which they are displayed.
//
// An error is returned if the page tree contains a loop, if a node is
// not an indirect dictionary, or if a node is neither a page nor an
// intermediate page tree node.
func FindPages(r pdf.Getter) ([]pdf.Reference, error) {
	root, err := rootNode(r)
	if err != nil {
		return nil, err
	}

	var res []pdf.Reference
	todo := []pdf.Reference{root}
	seen := map[pdf.Reference]bool{
		root: true,
	}
	for len(todo) > 0 {
		k := len(todo) - 1
		ref := todo[k]
		todo = todo[:k]

		node, err := pdf.GetDict(r, ref)
		if err != nil {
			return nil, err
		}
		if node == nil {
			return nil, fmt.Errorf("page tree node %s: %w", ref, errInvalidPageTree)
		}

		isPage, err := IsPage(r, node)
		if err != nil {
			return nil, err
		}
		if isPage {
			res = append(res, ref)
			continue
		}

		kids, err := pdf.GetArray(r, node["Kids"])
		if err != nil {
			return nil, err
		}
		for i := len(kids) - 1; i >= 0; i-- {
			kidRef, ok := kids[i].(pdf.Reference)
			if !ok {
				return nil, fmt.Errorf("page tree node %s: kid %d is not a reference: %w",
					ref, i, errInvalidPageTree)
			}
			if seen[kidRef] {
				return nil, fmt.Errorf("page tree node %s: %s visited twice: %w",
					ref, kidRef, errInvalidPageTree)
			}
			seen[kidRef] = true
			todo = append(todo, kidRef)
		}
	}

	return res, nil
}

// IsPage reports whether node is a page object.  Intermediate nodes of the
// page tree are recognised by /Type /Pages or, if the type is missing, by
// the presence of /Kids.
func IsPage(r pdf.Getter, node pdf.Dict) (bool, error) {
	tp, err := pdf.GetName(r, node["Type"])
	if err != nil {
		return false, err
	}
	switch tp {
	case "Page":
		return true, nil
	case "Pages":
		return false, nil
	case "":
		_, hasKids := node["Kids"]
		return !hasKids, nil
	default:
		return false, fmt.Errorf("unexpected page tree node type %q: %w",
			tp, errInvalidPageTree)
	}
}

func rootNode(r pdf.Getter) (pdf.Reference, error) {
	catalog, err := pdf.GetCatalog(r)
	if err != nil {
		return 0, err
	}
	root, ok := catalog["Pages"].(pdf.Reference)
	if !ok {
		return 0, fmt.Errorf("missing /Pages in catalog: %w", errInvalidPageTree)
	}
	return root, nil
}
