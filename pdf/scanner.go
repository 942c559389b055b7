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
	"strconv"
)

// maxDepth limits the nesting of arrays and dictionaries.
const maxDepth = 256

var errTooDeep = errors.New("objects nested too deeply")

// scanner reads PDF objects from an in-memory copy of a file.
type scanner struct {
	data []byte
	pos  int

	// base is the file offset of data[0].
	base int64

	// getInt is used to resolve indirect stream lengths.  If getInt is nil,
	// only direct lengths are used.
	getInt func(Object) (Integer, error)

	depth int
}

func newScanner(data []byte, pos int, getInt func(Object) (Integer, error)) *scanner {
	return &scanner{
		data:   data,
		pos:    pos,
		getInt: getInt,
	}
}

func (s *scanner) filePos() int64 {
	return s.base + int64(s.pos)
}

func (s *scanner) malformed(err error) error {
	return &MalformedFileError{Pos: s.filePos(), Err: err}
}

// ReadIndirectObject reads an object of the form "N G obj ... endobj".
// A missing "endobj" is tolerated.
func (s *scanner) ReadIndirectObject() (Reference, Object, error) {
	// Some files point the xref entries at the end of the previous line.
	// Try to fix this up by skipping any leading white space.
	s.SkipWhiteSpace()

	number, err := s.ReadInteger()
	if err != nil {
		return 0, nil, err
	}
	s.SkipWhiteSpace()
	generation, err := s.ReadInteger()
	if err != nil {
		return 0, nil, err
	}
	if number < 0 || number > 0xFFFFFFFF || generation < 0 || generation > 0xFFFF {
		return 0, nil, s.malformed(fmt.Errorf("invalid object id %d %d", number, generation))
	}
	s.SkipWhiteSpace()
	err = s.SkipString("obj")
	if err != nil {
		return 0, nil, err
	}
	s.SkipWhiteSpace()

	obj, err := s.ReadObject()
	if err != nil {
		return 0, nil, err
	}

	s.SkipWhiteSpace()
	if bytes.HasPrefix(s.data[s.pos:], []byte("endobj")) {
		s.pos += 6
	}

	ref := NewReference(uint32(number), uint16(generation))
	return ref, obj, nil
}

// ReadObject reads the next object from the input.  Integers followed by
// a second integer and the keyword "R" are returned as a [Reference].
func (s *scanner) ReadObject() (Object, error) {
	s.SkipWhiteSpace()
	buf := s.data[s.pos:]

	switch {
	case len(buf) == 0:
		return nil, s.malformed(io.ErrUnexpectedEOF)
	case s.hasKeyword("null"):
		s.pos += 4
		return nil, nil
	case s.hasKeyword("true"):
		s.pos += 4
		return Bool(true), nil
	case s.hasKeyword("false"):
		s.pos += 5
		return Bool(false), nil
	case buf[0] == '/':
		return s.ReadName()
	case buf[0] >= '0' && buf[0] <= '9', buf[0] == '+', buf[0] == '-', buf[0] == '.':
		obj, err := s.ReadNumber()
		if err != nil {
			return nil, err
		}
		if a, isInt := obj.(Integer); isInt && a >= 0 {
			if ref, ok := s.tryReference(a); ok {
				return ref, nil
			}
		}
		return obj, nil
	case bytes.HasPrefix(buf, []byte("<<")):
		dict, err := s.ReadDict()
		if err != nil {
			return nil, err
		}

		// check whether this is the start of a stream
		save := s.pos
		s.SkipWhiteSpace()
		if !s.hasKeyword("stream") {
			s.pos = save
			return dict, nil
		}
		return s.ReadStreamData(dict)
	case buf[0] == '(':
		s.pos++
		return s.ReadQuotedString()
	case buf[0] == '<':
		s.pos++
		return s.ReadHexString()
	case buf[0] == '[':
		s.pos++
		return s.ReadArray()
	}

	return nil, s.malformed(fmt.Errorf("unexpected input %q", abbrev(buf)))
}

// tryReference checks whether the integer a just read is the start of
// a reference "a b R".  If not, the input position is left unchanged.
func (s *scanner) tryReference(a Integer) (Reference, bool) {
	if a > 0xFFFFFFFF {
		return 0, false
	}
	save := s.pos
	s.SkipWhiteSpace()
	start := s.pos
	for s.pos < len(s.data) && s.data[s.pos] >= '0' && s.data[s.pos] <= '9' {
		s.pos++
	}
	if s.pos == start || s.pos-start > 5 {
		s.pos = save
		return 0, false
	}
	b, err := strconv.ParseUint(string(s.data[start:s.pos]), 10, 16)
	if err != nil {
		s.pos = save
		return 0, false
	}
	s.SkipWhiteSpace()
	if !s.hasKeyword("R") {
		s.pos = save
		return 0, false
	}
	s.pos++
	return NewReference(uint32(a), uint16(b)), true
}

// hasKeyword checks whether the input continues with the given keyword,
// followed by white space, a delimiter or the end of input.
func (s *scanner) hasKeyword(kw string) bool {
	buf := s.data[s.pos:]
	if !bytes.HasPrefix(buf, []byte(kw)) {
		return false
	}
	if len(buf) == len(kw) {
		return true
	}
	c := buf[len(kw)]
	return isSpace[c] || isDelimiter[c]
}

// ReadInteger reads an integer.
func (s *scanner) ReadInteger() (Integer, error) {
	start := s.pos
	if s.pos < len(s.data) && (s.data[s.pos] == '+' || s.data[s.pos] == '-') {
		s.pos++
	}
	for s.pos < len(s.data) && s.data[s.pos] >= '0' && s.data[s.pos] <= '9' {
		s.pos++
	}

	x, err := strconv.ParseInt(string(s.data[start:s.pos]), 10, 64)
	if err != nil {
		s.pos = start
		return 0, s.malformed(fmt.Errorf("invalid integer %q", abbrev(s.data[start:])))
	}
	return Integer(x), nil
}

// ReadNumber reads an integer or real number.
func (s *scanner) ReadNumber() (Object, error) {
	start := s.pos
	hasDot := false
	first := true
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		if !hasDot && c == '.' {
			hasDot = true
		} else if first && (c == '+' || c == '-') {
			// sign
		} else if c < '0' || c > '9' {
			break
		}
		first = false
		s.pos++
	}
	res := string(s.data[start:s.pos])

	if hasDot {
		if res == "." || res == "-." || res == "+." {
			return Real(0), nil
		}
		x, err := strconv.ParseFloat(res, 64)
		if err != nil {
			return nil, &MalformedFileError{Pos: s.base + int64(start), Err: err}
		}
		return Real(x), nil
	}

	x, err := strconv.ParseInt(res, 10, 64)
	if err != nil {
		// Some writers emit integers which do not fit into 64 bits.
		f, err2 := strconv.ParseFloat(res, 64)
		if err2 != nil {
			return nil, &MalformedFileError{Pos: s.base + int64(start), Err: err}
		}
		return Real(f), nil
	}
	return Integer(x), nil
}

// ReadQuotedString reads a ()-delimited string, starting after the opening
// bracket.
func (s *scanner) ReadQuotedString() (String, error) {
	res := []byte{}
	parenCount := 0
	for {
		if s.pos >= len(s.data) {
			return nil, s.malformed(io.ErrUnexpectedEOF)
		}
		c := s.data[s.pos]
		s.pos++

		switch c {
		case '\\':
			if s.pos >= len(s.data) {
				return nil, s.malformed(io.ErrUnexpectedEOF)
			}
			c = s.data[s.pos]
			s.pos++
			switch c {
			case 'n':
				res = append(res, '\n')
			case 'r':
				res = append(res, '\r')
			case 't':
				res = append(res, '\t')
			case 'b':
				res = append(res, '\b')
			case 'f':
				res = append(res, '\f')
			case '\r':
				// line continuation
				if s.pos < len(s.data) && s.data[s.pos] == '\n' {
					s.pos++
				}
			case '\n':
				// line continuation
			case '0', '1', '2', '3', '4', '5', '6', '7':
				val := c - '0'
				for i := 0; i < 2 && s.pos < len(s.data); i++ {
					d := s.data[s.pos]
					if d < '0' || d > '7' {
						break
					}
					val = val*8 + (d - '0')
					s.pos++
				}
				res = append(res, val)
			default:
				res = append(res, c)
			}
		case '(':
			parenCount++
			res = append(res, c)
		case ')':
			if parenCount == 0 {
				return String(res), nil
			}
			parenCount--
			res = append(res, c)
		case '\r':
			if s.pos < len(s.data) && s.data[s.pos] == '\n' {
				s.pos++
			}
			res = append(res, '\n')
		default:
			res = append(res, c)
		}
	}
}

// ReadHexString reads a <>-delimited string, starting after the opening
// angled bracket.
func (s *scanner) ReadHexString() (String, error) {
	res := []byte{}
	var hexVal byte
	first := true
	for {
		if s.pos >= len(s.data) {
			// The trailing ">" is missing.
			break
		}
		c := s.data[s.pos]
		s.pos++
		if c == '>' {
			break
		}
		d, ok := hexDigit(c)
		if !ok {
			if isSpace[c] {
				continue
			}
			return nil, s.malformed(fmt.Errorf("invalid character %q in hex string", c))
		}
		if first {
			hexVal = d
		} else {
			res = append(res, 16*hexVal+d)
		}
		first = !first
	}
	if !first {
		res = append(res, 16*hexVal)
	}
	return String(res), nil
}

// ReadName reads a PDF name object.
func (s *scanner) ReadName() (Name, error) {
	err := s.SkipString("/")
	if err != nil {
		return "", err
	}

	var res []byte
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		if isSpace[c] || isDelimiter[c] {
			break
		}
		s.pos++
		if c == '#' && s.pos+1 < len(s.data) {
			hi, ok1 := hexDigit(s.data[s.pos])
			lo, ok2 := hexDigit(s.data[s.pos+1])
			if ok1 && ok2 {
				res = append(res, 16*hi+lo)
				s.pos += 2
				continue
			}
		}
		res = append(res, c)
	}
	return Name(res), nil
}

// ReadArray reads an array, starting after the opening "[".
func (s *scanner) ReadArray() (Array, error) {
	s.depth++
	defer func() { s.depth-- }()
	if s.depth > maxDepth {
		return nil, s.malformed(errTooDeep)
	}

	array := Array{}
	for {
		s.SkipWhiteSpace()
		if s.pos >= len(s.data) {
			return nil, s.malformed(io.ErrUnexpectedEOF)
		}
		if s.data[s.pos] == ']' {
			s.pos++
			return array, nil
		}

		obj, err := s.ReadObject()
		if err != nil {
			return nil, err
		}
		array = append(array, obj)
	}
}

// ReadDict reads a PDF dictionary.
func (s *scanner) ReadDict() (Dict, error) {
	err := s.SkipString("<<")
	if err != nil {
		return nil, err
	}

	s.depth++
	defer func() { s.depth-- }()
	if s.depth > maxDepth {
		return nil, s.malformed(errTooDeep)
	}

	dict := Dict{}
	for {
		s.SkipWhiteSpace()
		if s.pos >= len(s.data) {
			return nil, s.malformed(io.ErrUnexpectedEOF)
		}
		if bytes.HasPrefix(s.data[s.pos:], []byte(">>")) {
			s.pos += 2
			return dict, nil
		}

		key, err := s.ReadName()
		if err != nil {
			return nil, err
		}

		val, err := s.ReadObject()
		if err != nil {
			return nil, err
		}
		if val != nil {
			dict[key] = val
		}
	}
}

// ReadStreamData reads the data of a PDF Stream, starting after the Dict.
//
// If the /Length entry of dict cannot be used, the stream data is taken to
// extend to the next "endstream" keyword.
func (s *scanner) ReadStreamData(dict Dict) (*Stream, error) {
	s.SkipWhiteSpace()
	err := s.SkipString("stream")
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(s.data[s.pos:], []byte("\r\n")) {
		s.pos += 2
	} else if s.pos < len(s.data) && (s.data[s.pos] == '\n' || s.data[s.pos] == '\r') {
		s.pos++
	}
	start := s.pos

	length := -1
	if s.getInt != nil {
		l, err := s.getInt(dict["Length"])
		if err == nil {
			length = int(l)
		}
	} else if l, ok := dict["Length"].(Integer); ok {
		length = int(l)
	}

	if length >= 0 && length <= len(s.data)-start {
		s.pos = start + length
		s.SkipWhiteSpace()
		if s.hasKeyword("endstream") {
			s.pos += len("endstream")
			return &Stream{Dict: dict, Data: s.data[start : start+length]}, nil
		}
	}

	// Fall back to searching for the end of the stream.
	idx := bytes.Index(s.data[start:], []byte("endstream"))
	if idx < 0 {
		s.pos = start
		return nil, s.malformed(errors.New("missing endstream"))
	}
	end := start + idx
	s.pos = end + len("endstream")
	if end > start && s.data[end-1] == '\n' {
		end--
	}
	if end > start && s.data[end-1] == '\r' {
		end--
	}
	return &Stream{Dict: dict, Data: s.data[start:end]}, nil
}

// SkipWhiteSpace skips white space and comments.
func (s *scanner) SkipWhiteSpace() {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		if c == '%' {
			for s.pos < len(s.data) && s.data[s.pos] != '\r' && s.data[s.pos] != '\n' {
				s.pos++
			}
		} else if isSpace[c] {
			s.pos++
		} else {
			return
		}
	}
}

// SkipString skips the given literal string.
func (s *scanner) SkipString(pat string) error {
	if !bytes.HasPrefix(s.data[s.pos:], []byte(pat)) {
		return s.malformed(fmt.Errorf("expected %q but found %q",
			pat, abbrev(s.data[s.pos:])))
	}
	s.pos += len(pat)
	return nil
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}

func abbrev(buf []byte) []byte {
	if len(buf) > 10 {
		return buf[:10]
	}
	return buf
}

var isSpace, isDelimiter [256]bool

func init() {
	for _, c := range []byte{0, 9, 10, 12, 13, 32} {
		isSpace[c] = true
	}
	for _, c := range []byte("()<>[]{}/%") {
		isDelimiter[c] = true
	}
}
