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
	"fmt"

	"seehuhn.de/go/pdfpages/pdf"
)

// InheritableKeys lists the page attributes which a page inherits from its
// ancestors in the page tree, if it does not specify them itself.
var InheritableKeys = []pdf.Name{"Resources", "MediaBox", "CropBox", "Rotate"}

// maxTreeDepth limits the length of /Parent chains.
const maxTreeDepth = 1024

// Inherited returns the inheritable attributes which the page pageRef
// does not carry itself, taken from its nearest ancestor which does.
// The values are returned as found in the ancestor dictionaries;
// they may be indirect references.
func Inherited(r pdf.Getter, pageRef pdf.Reference) (pdf.Dict, error) {
	page, err := pdf.GetDict(r, pageRef)
	if err != nil {
		return nil, err
	}

	var missing []pdf.Name
	for _, key := range InheritableKeys {
		if _, ok := page[key]; !ok {
			missing = append(missing, key)
		}
	}

	res := pdf.Dict{}
	seen := map[pdf.Reference]bool{pageRef: true}
	parent := page["Parent"]
	for depth := 0; len(missing) > 0 && parent != nil; depth++ {
		ref, isRef := parent.(pdf.Reference)
		if !isRef || seen[ref] || depth >= maxTreeDepth {
			return nil, fmt.Errorf("page %s: invalid /Parent chain: %w",
				pageRef, errInvalidPageTree)
		}
		seen[ref] = true

		node, err := pdf.GetDict(r, ref)
		if err != nil {
			return nil, err
		}

		k := 0
		for _, key := range missing {
			if val, ok := node[key]; ok {
				res[key] = val
			} else {
				missing[k] = key
				k++
			}
		}
		missing = missing[:k]

		parent = node["Parent"]
	}

	return res, nil
}
