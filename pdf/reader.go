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
	"io"
	"os"
)

// Read reads a complete PDF document into memory.
//
// If the cross-reference information of the file is damaged, Read tries to
// reconstruct it by scanning the file for object headers.  Use
// [Data.Repaired] to find out whether this was necessary.
func Read(r io.ReaderAt, size int64) (*Data, error) {
	buf := make([]byte, size)
	n, err := r.ReadAt(buf, 0)
	if err != nil && !(err == io.EOF && int64(n) == size) {
		return nil, err
	}
	return readBytes(buf)
}

// ReadFile reads the named PDF file into memory.
func ReadFile(path string) (*Data, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return readBytes(buf)
}

// reader holds the state while a file is loaded.
// It implements the [Getter] interface.
type reader struct {
	data []byte
	base int64

	meta    MetaInfo
	xref    map[uint32]*xRefEntry
	trailer Dict

	objStm    map[Reference]*objStm
	resolving map[Reference]bool
}

type objStm struct {
	data    []byte
	numbers []uint32
	offsets []int
}

func readBytes(buf []byte) (*Data, error) {
	// Some files have junk before the header.  Offsets in the file are
	// relative to the start of the header.
	headerWindow := buf[:min(len(buf), 1024)]
	idx := bytes.Index(headerWindow, []byte("%PDF-"))
	if idx < 0 {
		return nil, &MalformedFileError{Err: errors.New("PDF header not found")}
	}

	r := &reader{
		data:      buf[idx:],
		base:      int64(idx),
		objStm:    make(map[Reference]*objStm),
		resolving: make(map[Reference]bool),
	}

	version, err := r.readHeaderVersion()
	if err != nil {
		return nil, err
	}
	r.meta.Version = version

	repaired := false
	xref, trailer, err := r.readXRef()
	if err == nil && trailer["Root"] == nil {
		err = &MalformedFileError{Err: errNoCatalog}
	}
	if err != nil {
		xref, trailer, err = r.reconstruct()
		if err != nil {
			return nil, err
		}
		repaired = true
	}

	if _, isEncrypted := trailer["Encrypt"]; isEncrypted {
		return nil, &MalformedFileError{Err: ErrEncrypted}
	}

	r.xref = xref
	r.trailer = trailer
	res, err := r.load(repaired)
	if err != nil && !repaired {
		// The xref table points to the wrong places.  Try again, without it.
		xref, trailer, err2 := r.reconstruct()
		if err2 != nil {
			return nil, err
		}
		if _, isEncrypted := trailer["Encrypt"]; isEncrypted {
			return nil, &MalformedFileError{Err: ErrEncrypted}
		}
		r.xref = xref
		r.trailer = trailer
		r.objStm = make(map[Reference]*objStm)
		repaired = true
		res, err = r.load(repaired)
	}
	if err != nil {
		return nil, err
	}
	res.repaired = repaired
	return res, nil
}

func (r *reader) readHeaderVersion() (Version, error) {
	buf := r.data[5:min(len(r.data), 8)]
	version, err := ParseVersion(string(buf))
	if err != nil {
		return 0, &MalformedFileError{Pos: r.base + 5, Err: err}
	}
	return version, nil
}

// load reads all objects listed in the xref table into a new [Data] value.
// If skipBroken is set, objects which cannot be read are omitted.
func (r *reader) load(skipBroken bool) (*Data, error) {
	res := &Data{
		meta: MetaInfo{
			Version: r.meta.Version,
			Trailer: Dict{},
		},
		objects: make(map[Reference]Object, len(r.xref)),
	}

	isObjectStream := make(map[uint32]bool)
	for _, entry := range r.xref {
		if !entry.IsFree() && entry.InStream != 0 {
			isObjectStream[entry.InStream.Number()] = true
		}
	}

	for number, entry := range r.xref {
		if entry.IsFree() || number == 0 || isObjectStream[number] {
			continue
		}
		ref := NewReference(number, entry.Generation)

		obj, err := r.Get(ref)
		if err != nil {
			if skipBroken {
				continue
			}
			return nil, err
		}

		if s, isStream := obj.(*Stream); isStream {
			tp, _ := s.Dict["Type"].(Name)
			if tp == "XRef" || tp == "ObjStm" {
				continue
			}
			s.Dict["Length"] = Integer(len(s.Data))
		}
		if obj != nil {
			res.objects[ref] = obj
			if number > res.lastRef {
				res.lastRef = number
			}
		}
	}

	for _, key := range []Name{"Root", "Info"} {
		if val, ok := r.trailer[key]; ok {
			res.meta.Trailer[key] = val
		}
	}
	if ID, ok := r.trailer["ID"].(Array); ok && len(ID) >= 2 {
		for i := 0; i < 2; i++ {
			s, ok := ID[i].(String)
			if !ok {
				break
			}
			res.meta.ID = append(res.meta.ID, []byte(s))
		}
		if len(res.meta.ID) != 2 {
			res.meta.ID = nil
		}
	}

	catalog, err := GetCatalog(res)
	if err != nil {
		return nil, err
	}
	if verName, ok := catalog["Version"].(Name); ok {
		ver, err := ParseVersion(string(verName))
		if err == nil && ver > res.meta.Version {
			res.meta.Version = ver
		}
	}

	return res, nil
}

// GetMeta implements the [Getter] interface.
func (r *reader) GetMeta() *MetaInfo {
	return &r.meta
}

// Get implements the [Getter] interface.  References to free or missing
// objects resolve to null.
func (r *reader) Get(ref Reference) (Object, error) {
	entry := r.xref[ref.Number()]
	if entry.IsFree() || entry.InStream == 0 && entry.Generation != ref.Generation() {
		return nil, nil
	}

	if r.resolving[ref] {
		return nil, &MalformedFileError{
			Err: fmt.Errorf("object %s refers to itself", ref),
		}
	}
	r.resolving[ref] = true
	defer delete(r.resolving, ref)

	if entry.InStream != 0 {
		return r.getFromObjectStream(ref.Number(), entry)
	}

	if entry.Pos >= int64(len(r.data)) {
		return nil, &MalformedFileError{
			Pos: r.base + entry.Pos,
			Err: fmt.Errorf("object %s: offset beyond end of file", ref),
		}
	}
	s := r.scannerAt(entry.Pos)
	gotRef, obj, err := s.ReadIndirectObject()
	if err != nil {
		return nil, err
	}
	if gotRef.Number() != ref.Number() {
		return nil, &MalformedFileError{
			Pos: r.base + entry.Pos,
			Err: fmt.Errorf("expected object %s but found %s", ref, gotRef),
		}
	}
	return obj, nil
}

func (r *reader) getFromObjectStream(number uint32, entry *xRefEntry) (Object, error) {
	contents, err := r.getObjStm(entry.InStream)
	if err != nil {
		return nil, err
	}

	i := int(entry.Pos)
	if i < 0 || i >= len(contents.numbers) || contents.numbers[i] != number {
		i = -1
		for j, n := range contents.numbers {
			if n == number {
				i = j
				break
			}
		}
	}
	if i < 0 {
		return nil, &MalformedFileError{
			Err: fmt.Errorf("object %d missing from object stream %s",
				number, entry.InStream),
		}
	}

	s := newScanner(contents.data, contents.offsets[i], nil)
	return s.ReadObject()
}

func (r *reader) getObjStm(ref Reference) (*objStm, error) {
	if contents, ok := r.objStm[ref]; ok {
		return contents, nil
	}

	stream, err := GetStream(r, ref)
	if err != nil {
		return nil, err
	}
	if stream == nil {
		return nil, &MalformedFileError{
			Err: fmt.Errorf("object stream %s not found", ref),
		}
	}

	N, ok := stream.Dict["N"].(Integer)
	if !ok || N < 0 || N > 100000 {
		return nil, &MalformedFileError{
			Err: fmt.Errorf("object stream %s: invalid /N", ref),
		}
	}
	first, ok := stream.Dict["First"].(Integer)
	if !ok || first < 0 {
		return nil, &MalformedFileError{
			Err: fmt.Errorf("object stream %s: invalid /First", ref),
		}
	}

	decoded, err := stream.Decode(r)
	if err != nil {
		return nil, err
	}
	if int(first) > len(decoded) {
		return nil, &MalformedFileError{
			Err: fmt.Errorf("object stream %s: invalid /First", ref),
		}
	}

	contents := &objStm{data: decoded}
	s := newScanner(decoded[:first], 0, nil)
	for i := 0; i < int(N); i++ {
		s.SkipWhiteSpace()
		no, err := s.ReadInteger()
		if err != nil {
			return nil, err
		}
		s.SkipWhiteSpace()
		offs, err := s.ReadInteger()
		if err != nil {
			return nil, err
		}
		if no < 0 || no > 0xFFFFFFFF || offs < 0 || int(first+offs) > len(decoded) {
			return nil, &MalformedFileError{
				Err: fmt.Errorf("object stream %s: invalid index", ref),
			}
		}
		contents.numbers = append(contents.numbers, uint32(no))
		contents.offsets = append(contents.offsets, int(first+offs))
	}

	r.objStm[ref] = contents
	return contents, nil
}

// getInt resolves stream lengths while the file is being read.
func (r *reader) getInt(obj Object) (Integer, error) {
	x, err := GetInt(r, obj)
	if err != nil {
		return 0, err
	}
	if obj == nil {
		return 0, &MalformedFileError{Err: errors.New("missing stream length")}
	}
	return x, nil
}

func (r *reader) scannerAt(pos int64) *scanner {
	if pos < 0 || pos > int64(len(r.data)) {
		pos = int64(len(r.data))
	}
	s := newScanner(r.data, int(pos), r.getInt)
	s.base = r.base
	return s
}
