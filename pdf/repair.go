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
	"bytes"
	"errors"
)

// reconstruct rebuilds the cross-reference information by scanning the
// whole file for "N G obj" headers.  If an object number occurs more than
// once, the last occurrence wins.
//
// The trailer is taken from the last "trailer" dictionaries and
// cross-reference streams in the file.  If this does not give a usable
// catalog, the first dictionary with /Type /Catalog is used.
func (r *reader) reconstruct() (map[uint32]*xRefEntry, Dict, error) {
	xref := make(map[uint32]*xRefEntry)
	r.xref = xref
	r.objStm = make(map[Reference]*objStm)

	data := r.data
	pos := 0
	for {
		idx := bytes.Index(data[pos:], []byte("obj"))
		if idx < 0 {
			break
		}
		kw := pos + idx
		pos = kw + 3

		if kw >= 3 && string(data[kw-3:kw]) == "end" {
			continue
		}
		if kw+3 < len(data) && !isSpace[data[kw+3]] && !isDelimiter[data[kw+3]] {
			continue
		}

		start, number, generation, ok := objectHeaderBefore(data, kw)
		if !ok {
			continue
		}
		xref[number] = &xRefEntry{
			Pos:        int64(start),
			Generation: generation,
		}
	}

	trailer := Dict{}
	pos = 0
	for {
		idx := bytes.Index(data[pos:], []byte("trailer"))
		if idx < 0 {
			break
		}
		s := r.scannerAt(int64(pos + idx + len("trailer")))
		pos += idx + len("trailer")
		s.SkipWhiteSpace()
		dict, err := s.ReadDict()
		if err != nil {
			continue
		}
		for _, key := range []Name{"Root", "Encrypt", "Info", "ID"} {
			if val, ok := dict[key]; ok {
				trailer[key] = val
			}
		}
	}

	// Look inside cross-reference streams and object streams.
	var catalog Reference
	numbers := make([]uint32, 0, len(xref))
	for number := range xref {
		numbers = append(numbers, number)
	}
	for _, number := range numbers {
		entry := xref[number]
		ref := NewReference(number, entry.Generation)
		obj, err := r.Get(ref)
		if err != nil {
			continue
		}

		switch obj := obj.(type) {
		case *Stream:
			switch obj.Dict["Type"] {
			case Name("XRef"):
				for _, key := range []Name{"Root", "Encrypt", "Info", "ID"} {
					if val, ok := obj.Dict[key]; ok && trailer[key] == nil {
						trailer[key] = val
					}
				}
			case Name("ObjStm"):
				contents, err := r.getObjStm(ref)
				if err != nil {
					continue
				}
				for i, n := range contents.numbers {
					if xref[n] == nil {
						xref[n] = &xRefEntry{InStream: ref, Pos: int64(i)}
					}
				}
			}
		case Dict:
			if obj["Type"] == Name("Catalog") && obj["Pages"] != nil {
				if catalog == 0 || ref.Number() < catalog.Number() {
					catalog = ref
				}
			}
		}
	}

	if !r.isCatalog(trailer["Root"]) {
		delete(trailer, "Root")
		if catalog == 0 {
			// The catalog may be inside an object stream.
			for number, entry := range xref {
				if entry.InStream == 0 {
					continue
				}
				ref := NewReference(number, 0)
				if r.isCatalog(ref) && (catalog == 0 || number < catalog.Number()) {
					catalog = ref
				}
			}
		}
		if catalog != 0 {
			trailer["Root"] = catalog
		}
	}
	if trailer["Root"] == nil {
		return nil, nil, &MalformedFileError{
			Err: errors.New("cannot repair file: no document catalog found"),
		}
	}

	return xref, trailer, nil
}

func (r *reader) isCatalog(obj Object) bool {
	catalog, err := GetDict(r, obj)
	return err == nil && catalog != nil && catalog["Pages"] != nil
}

// objectHeaderBefore checks whether the keyword "obj" at position kw is
// preceded by an object number and a generation number.
func objectHeaderBefore(data []byte, kw int) (int, uint32, uint16, bool) {
	i := kw
	skipSpace := func() bool {
		j := i
		for i > 0 && isSpace[data[i-1]] {
			i--
		}
		return i < j
	}
	readDigits := func() (uint64, bool) {
		end := i
		for i > 0 && data[i-1] >= '0' && data[i-1] <= '9' && end-i < 10 {
			i--
		}
		if i == end {
			return 0, false
		}
		var x uint64
		for _, c := range data[i:end] {
			x = 10*x + uint64(c-'0')
		}
		return x, true
	}

	if !skipSpace() {
		return 0, 0, 0, false
	}
	gen, ok := readDigits()
	if !ok || gen > 0xFFFF {
		return 0, 0, 0, false
	}
	if !skipSpace() {
		return 0, 0, 0, false
	}
	number, ok := readDigits()
	if !ok || number == 0 || number > 0xFFFFFFFF {
		return 0, 0, 0, false
	}
	if i > 0 && !isSpace[data[i-1]] && !isDelimiter[data[i-1]] {
		return 0, 0, 0, false
	}
	return i, uint32(number), uint16(gen), true
}
