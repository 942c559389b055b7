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

// Package pdfcopy copies object graphs between PDF documents.
package pdfcopy

import (
	"fmt"

	"seehuhn.de/go/pdfpages/pdf"
)

// A Copier is used to copy objects from one PDF file to another. The Copier
// keeps track of the objects that have already been copied and ensures that
// each object is copied only once.
//
// Indirect objects are allocated in the target file as needed, and references
// are translated accordingly.  Reference cycles in the source are reproduced
// in the target.
//
// All "Parent" entries of dictionaries are omitted from the copy.  It is the
// caller's responsibility to attach copied objects to their new parent.
//
// A Copier is tied to one source document, since references are only
// meaningful within the document they belong to.  Use a new Copier for
// every source.
type Copier struct {
	trans    map[pdf.Reference]pdf.Reference
	excluded map[pdf.Reference]bool
	r        pdf.Getter
	w        pdf.Putter
}

// NewCopier creates a new Copier.
func NewCopier(w pdf.Putter, r pdf.Getter) *Copier {
	c := &Copier{
		trans:    make(map[pdf.Reference]pdf.Reference),
		excluded: make(map[pdf.Reference]bool),
		w:        w,
		r:        r,
	}
	return c
}

// Copy copies an object from the source file to the target file, recursively.
//
// The returned object is the same type as the input object, except that
// references to excluded objects are replaced by null.
func (c *Copier) Copy(obj pdf.Object) (pdf.Object, error) {
	switch x := obj.(type) {
	case pdf.Dict:
		return c.CopyDict(x)
	case pdf.Array:
		return c.CopyArray(x)
	case *pdf.Stream:
		dict, err := c.CopyDict(x.Dict)
		if err != nil {
			return nil, err
		}
		res := &pdf.Stream{
			Dict: dict,
			Data: x.Data,
		}
		return res, nil
	case pdf.Reference:
		if c.excluded[x] {
			return nil, nil
		}
		return c.CopyReference(x)
	default:
		return obj, nil
	}
}

// CopyDict copies a dictionary from the source file to the target file.
// The "Parent" entry, and entries which refer to excluded objects, are
// omitted.
func (c *Copier) CopyDict(obj pdf.Dict) (pdf.Dict, error) {
	res := pdf.Dict{}
	for key, val := range obj {
		if key == "Parent" {
			continue
		}
		repl, err := c.Copy(val)
		if err != nil {
			return nil, err
		}
		if repl != nil {
			res[key] = repl
		}
	}

	return res, nil
}

// CopyArray copies an array from the source file to the target file.
func (c *Copier) CopyArray(obj pdf.Array) (pdf.Array, error) {
	res := make(pdf.Array, 0, len(obj))
	for _, val := range obj {
		repl, err := c.Copy(val)
		if err != nil {
			return nil, err
		}
		res = append(res, repl)
	}
	return res, nil
}

// CopyReference copies an indirect object from the source file to the target
// file, and returns the reference of the copy.
//
// The mapping from old to new reference is recorded before the object is
// copied, so that objects which (directly or indirectly) refer to themselves
// are copied only once.
func (c *Copier) CopyReference(obj pdf.Reference) (pdf.Reference, error) {
	newRef, ok := c.trans[obj]
	if ok {
		return newRef, nil
	}
	if c.excluded[obj] {
		return 0, fmt.Errorf("object %s is excluded from copying", obj)
	}

	newRef = c.w.Alloc()
	c.trans[obj] = newRef

	val, err := c.r.Get(obj)
	if err != nil {
		return 0, err
	}
	trans, err := c.Copy(val)
	if err != nil {
		return 0, err
	}
	err = c.w.Put(newRef, trans)
	if err != nil {
		return 0, err
	}

	return newRef, nil
}

// Redirect replaces an indirect object in the old file with one in the new file.
func (c *Copier) Redirect(origRef, newRef pdf.Reference) {
	c.trans[origRef] = newRef
}

// Exclude marks an object of the source file as not to be copied.
// References to the object are replaced by null in all copies.
func (c *Copier) Exclude(ref pdf.Reference) {
	if _, done := c.trans[ref]; done {
		return
	}
	c.excluded[ref] = true
}

// Len returns the number of objects which have been copied or redirected.
func (c *Copier) Len() int {
	return len(c.trans)
}
