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

package pdf

import (
	"sort"

	"golang.org/x/exp/maps"
)

// Data is an in-memory representation of a PDF document.
//
// A Data value is not safe for concurrent use.
type Data struct {
	meta    MetaInfo
	objects map[Reference]Object
	lastRef uint32

	repaired bool
}

// NewData returns a new, empty document with the given PDF version.
func NewData(v Version) *Data {
	res := &Data{
		meta: MetaInfo{
			Version: v,
			Trailer: Dict{},
		},
		objects: map[Reference]Object{},
	}
	return res
}

// GetMeta implements the [Getter] and [Putter] interfaces.
func (d *Data) GetMeta() *MetaInfo {
	return &d.meta
}

// Alloc allocates a new object number for an indirect object.
func (d *Data) Alloc() Reference {
	for {
		d.lastRef++
		ref := NewReference(d.lastRef, 0)
		if _, ok := d.objects[ref]; !ok {
			return ref
		}
	}
}

// Get returns the object stored under ref.
// If there is no such object, a [*LookupError] is returned.
func (d *Data) Get(ref Reference) (Object, error) {
	obj, ok := d.objects[ref]
	if !ok {
		return nil, &LookupError{Ref: ref}
	}
	return obj, nil
}

// Put stores obj under ref, replacing any previous object.
// Putting nil removes the object.
func (d *Data) Put(ref Reference, obj Object) error {
	if obj == nil {
		delete(d.objects, ref)
		return nil
	}
	d.objects[ref] = obj
	if n := ref.Number(); n > d.lastRef {
		d.lastRef = n
	}
	return nil
}

// Add stores obj as a new indirect object and returns its reference.
func (d *Data) Add(obj Object) Reference {
	ref := d.Alloc()
	d.Put(ref, obj)
	return ref
}

// SetRoot sets the document catalog.
func (d *Data) SetRoot(ref Reference) {
	if d.meta.Trailer == nil {
		d.meta.Trailer = Dict{}
	}
	d.meta.Trailer["Root"] = ref
}

// Repaired reports whether the document was loaded from a file with
// damaged cross-reference information.
func (d *Data) Repaired() bool {
	return d.repaired
}

// Len returns the number of indirect objects in the document.
func (d *Data) Len() int {
	return len(d.objects)
}

// Refs returns the references of all objects in the document,
// ordered by object number.
func (d *Data) Refs() []Reference {
	refs := make([]Reference, 0, len(d.objects))
	for ref := range d.objects {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Number() != refs[j].Number() {
			return refs[i].Number() < refs[j].Number()
		}
		return refs[i].Generation() < refs[j].Generation()
	})
	return refs
}

// Clone returns a shallow copy of the document.
//
// The new document has its own object table and trailer, so that objects
// can be added, replaced or removed without affecting d.  The objects
// themselves are shared: callers must replace, not modify, objects
// they have obtained from a clone.
func (d *Data) Clone() *Data {
	res := &Data{
		meta:    d.meta,
		objects: maps.Clone(d.objects),
		lastRef: d.lastRef,

		repaired: d.repaired,
	}
	res.meta.Trailer = maps.Clone(d.meta.Trailer)
	if d.meta.ID != nil {
		res.meta.ID = append([][]byte{}, d.meta.ID...)
	}
	if res.objects == nil {
		res.objects = map[Reference]Object{}
	}
	if res.meta.Trailer == nil {
		res.meta.Trailer = Dict{}
	}
	return res
}
