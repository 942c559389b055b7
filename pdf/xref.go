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
	"fmt"
)

type xRefEntry struct {
	// InStream is the object stream which contains the object,
	// or 0 if the object is stored directly in the file.
	InStream Reference

	// Pos is the byte offset of the object, or the index within the
	// object stream.  Free entries have Pos < 0.
	Pos        int64
	Generation uint16
}

func (entry *xRefEntry) IsFree() bool {
	return entry == nil || entry.Pos < 0
}

type xRefSubSection struct {
	Start, Size int
}

func (r *reader) findXRef() (int64, error) {
	pos := bytes.LastIndex(r.data, []byte("startxref"))
	if pos < 0 {
		return 0, &MalformedFileError{Err: errors.New("startxref not found")}
	}
	s := r.scannerAt(int64(pos) + 9)
	s.SkipWhiteSpace()

	xRefPos, err := s.ReadInteger()
	if err != nil {
		return 0, err
	}

	if xRefPos <= 0 || int64(xRefPos) >= int64(len(r.data)) {
		return 0, &MalformedFileError{
			Pos: s.filePos(),
			Err: errors.New("invalid xref position"),
		}
	}

	return int64(xRefPos), nil
}

// readXRef reads the chain of cross-reference sections, starting at the
// last one in the file.  Entries from later sections take precedence.
func (r *reader) readXRef() (map[uint32]*xRefEntry, Dict, error) {
	start, err := r.findXRef()
	if err != nil {
		return nil, nil, err
	}

	xref := make(map[uint32]*xRefEntry)
	trailer := Dict{}
	first := true
	seen := make(map[int64]bool)
	for {
		// avoid xref loops
		if seen[start] {
			break
		}
		seen[start] = true

		s := r.scannerAt(start)
		s.SkipWhiteSpace()

		var dict Dict
		if s.hasKeyword("xref") {
			dict, err = readXRefTable(xref, s)
			if err != nil {
				return nil, nil, err
			}

			if xRefStm, ok := dict["XRefStm"]; ok {
				zStart, ok := xRefStm.(Integer)
				if !ok || zStart <= 0 || int64(zStart) >= int64(len(r.data)) {
					return nil, nil, &MalformedFileError{
						Pos: start,
						Err: errors.New("invalid /XRefStm value"),
					}
				}
				_, err = r.readXRefStream(xref, r.scannerAt(int64(zStart)))
				if err != nil {
					return nil, nil, err
				}
			}
		} else {
			dict, err = r.readXRefStream(xref, s)
			if err != nil {
				return nil, nil, err
			}
		}

		for _, key := range []Name{"Root", "Encrypt", "Info", "ID"} {
			val, ok := dict[key]
			if ok && (first || trailer[key] == nil) {
				trailer[key] = val
			}
		}
		first = false

		prev := dict["Prev"]
		if prev == nil {
			break
		}
		prevStart, ok := prev.(Integer)
		if !ok || prevStart <= 0 || int64(prevStart) >= int64(len(r.data)) {
			return nil, nil, &MalformedFileError{
				Pos: start,
				Err: fmt.Errorf("invalid /Prev value %s", Format(prev)),
			}
		}
		start = int64(prevStart)
	}

	return xref, trailer, nil
}

func readXRefTable(xref map[uint32]*xRefEntry, s *scanner) (Dict, error) {
	err := s.SkipString("xref")
	if err != nil {
		return nil, err
	}

	for {
		s.SkipWhiteSpace()
		if s.hasKeyword("trailer") {
			break
		}

		start, err := s.ReadInteger()
		if err != nil {
			return nil, err
		}
		s.SkipWhiteSpace()
		size, err := s.ReadInteger()
		if err != nil {
			return nil, err
		}
		if start < 0 || size < 0 || start+size > 0xFFFFFFFF {
			return nil, s.malformed(errors.New("invalid xref subsection"))
		}

		err = decodeXRefSection(xref, s, uint32(start), uint32(size))
		if err != nil {
			return nil, err
		}
	}

	s.pos += len("trailer")
	s.SkipWhiteSpace()
	return s.ReadDict()
}

func decodeXRefSection(xref map[uint32]*xRefEntry, s *scanner, start, size uint32) error {
	for i := start; i < start+size; i++ {
		s.SkipWhiteSpace()
		pos, err := s.ReadInteger()
		if err != nil {
			return err
		}
		s.SkipWhiteSpace()
		gen, err := s.ReadInteger()
		if err != nil {
			return err
		}
		s.SkipWhiteSpace()
		if s.pos >= len(s.data) {
			return s.malformed(errors.New("truncated xref table"))
		}
		tp := s.data[s.pos]
		s.pos++

		if xref[i] != nil {
			continue
		}
		switch tp {
		case 'n':
			if pos <= 0 {
				// Some writers list missing objects with offset 0.
				xref[i] = &xRefEntry{Pos: -1}
				continue
			}
			xref[i] = &xRefEntry{
				Pos:        int64(pos),
				Generation: uint16(gen),
			}
		case 'f':
			xref[i] = &xRefEntry{
				Pos:        -1,
				Generation: uint16(gen),
			}
		default:
			return s.malformed(fmt.Errorf("invalid xref entry type %q", tp))
		}
	}
	return nil
}

func (r *reader) readXRefStream(xref map[uint32]*xRefEntry, s *scanner) (Dict, error) {
	_, obj, err := s.ReadIndirectObject()
	if err != nil {
		return nil, err
	}
	stream, ok := obj.(*Stream)
	if !ok {
		return nil, &MalformedFileError{
			Pos: s.filePos(),
			Err: errors.New("invalid xref stream"),
		}
	}
	dict := stream.Dict

	w, ss, err := checkXRefStreamDict(dict)
	if err != nil {
		return nil, err
	}
	data, err := stream.Decode(nil)
	if err != nil {
		return nil, err
	}
	err = decodeXRefStream(xref, data, w, ss)
	if err != nil {
		return nil, err
	}

	return dict, nil
}

var errXRefStream = errors.New("malformed xref stream dictionary")

func checkXRefStreamDict(dict Dict) ([]int, []*xRefSubSection, error) {
	size, ok := dict["Size"].(Integer)
	if !ok || size < 0 {
		return nil, nil, &MalformedFileError{Err: errXRefStream}
	}
	W, ok := dict["W"].(Array)
	if !ok || len(W) < 3 {
		return nil, nil, &MalformedFileError{Err: errXRefStream}
	}
	var w []int
	for i, Wi := range W {
		wi, ok := Wi.(Integer)
		if !ok || i < 3 && (wi < 0 || wi > 8) || wi < 0 {
			return nil, nil, &MalformedFileError{Err: errXRefStream}
		}
		w = append(w, int(wi))
	}

	Index := dict["Index"]
	var ss []*xRefSubSection
	if Index == nil {
		ss = append(ss, &xRefSubSection{0, int(size)})
	} else {
		ind, ok := Index.(Array)
		if !ok || len(ind)%2 != 0 {
			return nil, nil, &MalformedFileError{Err: errXRefStream}
		}
		for i := 0; i < len(ind); i += 2 {
			start, ok1 := ind[i].(Integer)
			size, ok2 := ind[i+1].(Integer)
			if !ok1 || !ok2 || start < 0 || size < 0 {
				return nil, nil, &MalformedFileError{Err: errXRefStream}
			}
			ss = append(ss, &xRefSubSection{int(start), int(size)})
		}
	}
	return w, ss, nil
}

func decodeXRefStream(xref map[uint32]*xRefEntry, data []byte, w []int, ss []*xRefSubSection) error {
	wTotal := 0
	for _, wi := range w {
		wTotal += wi
	}
	if wTotal == 0 {
		return &MalformedFileError{Err: errXRefStream}
	}

	w0 := w[0]
	w1 := w[1]
	w2 := w[2]
	for _, sec := range ss {
		for i := sec.Start; i < sec.Start+sec.Size; i++ {
			if len(data) < wTotal {
				return &MalformedFileError{Err: errors.New("xref stream too short")}
			}
			buf := data[:wTotal]
			data = data[wTotal:]

			number := uint32(i)
			if xref[number] != nil {
				continue
			}

			tp := decodeInt(buf[:w0])
			if w0 == 0 {
				tp = 1
			}
			a := decodeInt(buf[w0 : w0+w1])
			b := decodeInt(buf[w0+w1 : w0+w1+w2])
			switch tp {
			case 0:
				// free/deleted object
				// a = next free object
				// b = generation number to be used if the object is resurrected
				xref[number] = &xRefEntry{
					Pos:        -1,
					Generation: uint16(b),
				}
			case 1:
				// used object, not compressed
				// a = byte offset of the object
				// b = generation number
				xref[number] = &xRefEntry{
					Pos:        a,
					Generation: uint16(b),
				}
			case 2:
				// used object, compressed
				// a = object number of the compressed stream (generation number 0)
				// b = index within the stream
				xref[number] = &xRefEntry{
					Pos:      b,
					InStream: NewReference(uint32(a), 0),
				}
			}
		}
	}
	return nil
}

func decodeInt(buf []byte) (res int64) {
	for _, x := range buf {
		res = res<<8 | int64(x)
	}
	return res
}
