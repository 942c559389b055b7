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
	"compress/flate"
	"compress/zlib"
	"encoding/ascii85"
	"errors"
	"fmt"
	"io"
)

// maxDecodedSize limits the size of decoded stream data.
const maxDecodedSize = 1 << 30

// Decode returns the stream data with all filters removed.
//
// Indirect filter names and parameters are resolved using r.  If r is nil,
// only direct objects are used.  FlateDecode (including PNG predictors),
// ASCIIHexDecode, ASCII85Decode and RunLengthDecode are supported; other
// filters lead to an error.
func (x *Stream) Decode(r Getter) ([]byte, error) {
	names, parms, err := x.filters(r)
	if err != nil {
		return nil, err
	}

	data := x.Data
	for i, name := range names {
		switch name {
		case "FlateDecode", "Fl":
			data, err = flateDecode(data, parms[i])
		case "ASCIIHexDecode", "AHx":
			data, err = asciiHexDecode(data)
		case "ASCII85Decode", "A85":
			data, err = ascii85Decode(data)
		case "RunLengthDecode", "RL":
			data, err = runLengthDecode(data)
		default:
			err = fmt.Errorf("unsupported filter %q", name)
		}
		if err != nil {
			return nil, &MalformedFileError{Err: fmt.Errorf("%s: %w", name, err)}
		}
	}
	return data, nil
}

func (x *Stream) filters(r Getter) ([]Name, []Dict, error) {
	get := func(obj Object) (Object, error) {
		if r == nil {
			return obj, nil
		}
		return Resolve(r, obj)
	}

	filter, err := get(x.Dict["Filter"])
	if err != nil {
		return nil, nil, err
	}
	parms, err := get(x.Dict["DecodeParms"])
	if err != nil {
		return nil, nil, err
	}

	var names []Name
	var dicts []Dict
	switch filter := filter.(type) {
	case nil:
		return nil, nil, nil
	case Name:
		names = append(names, filter)
		p, _ := parms.(Dict)
		if a, ok := parms.(Array); ok && len(a) > 0 {
			p, _ = a[0].(Dict)
		}
		dicts = append(dicts, p)
	case Array:
		parmArray, _ := parms.(Array)
		for i, f := range filter {
			f, err := get(f)
			if err != nil {
				return nil, nil, err
			}
			name, ok := f.(Name)
			if !ok {
				return nil, nil, &MalformedFileError{
					Err: fmt.Errorf("invalid filter %s", Format(f)),
				}
			}
			names = append(names, name)

			var p Dict
			if i < len(parmArray) {
				obj, err := get(parmArray[i])
				if err != nil {
					return nil, nil, err
				}
				p, _ = obj.(Dict)
			}
			dicts = append(dicts, p)
		}
	default:
		return nil, nil, &MalformedFileError{
			Err: fmt.Errorf("invalid filter %s", Format(filter)),
		}
	}
	return names, dicts, nil
}

func flateDecode(data []byte, parms Dict) ([]byte, error) {
	var zr io.ReadCloser
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		// Some writers omit the zlib header.
		zr = flate.NewReader(bytes.NewReader(data))
	}
	defer zr.Close()

	out, err := io.ReadAll(io.LimitReader(zr, maxDecodedSize))
	if err != nil && !(errors.Is(err, io.ErrUnexpectedEOF) && len(out) > 0) {
		return nil, err
	}

	return undoPredictor(out, parms)
}

func undoPredictor(data []byte, parms Dict) ([]byte, error) {
	get := func(key Name, def int) int {
		if val, ok := parms[key].(Integer); ok {
			return int(val)
		}
		return def
	}
	predictor := get("Predictor", 1)
	colors := get("Colors", 1)
	bpc := get("BitsPerComponent", 8)
	columns := get("Columns", 1)

	switch {
	case predictor == 1:
		return data, nil
	case predictor >= 10 && predictor <= 15:
		// PNG predictors, handled below
	default:
		return nil, fmt.Errorf("unsupported predictor %d", predictor)
	}
	if colors < 1 || colors > 256 || columns < 1 || columns > 1<<20 {
		return nil, errors.New("invalid predictor parameters")
	}
	switch bpc {
	case 1, 2, 4, 8, 16:
	default:
		return nil, fmt.Errorf("invalid BitsPerComponent %d", bpc)
	}

	bpp := (colors*bpc + 7) / 8
	rowLen := (colors*bpc*columns + 7) / 8

	prev := make([]byte, rowLen)
	var out []byte
	for len(data) > 0 {
		tag := data[0]
		n := min(rowLen, len(data)-1)
		row := make([]byte, rowLen)
		copy(row, data[1:1+n])
		data = data[1+n:]

		for i := 0; i < rowLen; i++ {
			var left, upLeft byte
			if i >= bpp {
				left = row[i-bpp]
				upLeft = prev[i-bpp]
			}
			up := prev[i]
			switch tag {
			case 0: // None
			case 1: // Sub
				row[i] += left
			case 2: // Up
				row[i] += up
			case 3: // Average
				row[i] += byte((int(left) + int(up)) / 2)
			case 4: // Paeth
				row[i] += paeth(left, up, upLeft)
			default:
				return nil, fmt.Errorf("invalid PNG predictor tag %d", tag)
			}
		}
		out = append(out, row[:n]...)
		prev = row
	}
	return out, nil
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))
	if pa <= pb && pa <= pc {
		return a
	} else if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func asciiHexDecode(data []byte) ([]byte, error) {
	var res []byte
	var hexVal byte
	first := true
	for _, c := range data {
		if c == '>' {
			break
		}
		d, ok := hexDigit(c)
		if !ok {
			if isSpace[c] {
				continue
			}
			return nil, fmt.Errorf("invalid character %q", c)
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
	return res, nil
}

func ascii85Decode(data []byte) ([]byte, error) {
	data = bytes.TrimSpace(data)
	data = bytes.TrimPrefix(data, []byte("<~"))
	if idx := bytes.Index(data, []byte("~>")); idx >= 0 {
		data = data[:idx]
	}

	dst := make([]byte, 4*len(data)+4)
	ndst, _, err := ascii85.Decode(dst, data, true)
	if err != nil {
		return nil, err
	}
	return dst[:ndst], nil
}

func runLengthDecode(data []byte) ([]byte, error) {
	var res []byte
	for len(data) > 0 {
		length := data[0]
		data = data[1:]
		switch {
		case length == 128:
			return res, nil
		case length < 128:
			n := int(length) + 1
			if n > len(data) {
				return nil, io.ErrUnexpectedEOF
			}
			res = append(res, data[:n]...)
			data = data[n:]
		default:
			if len(data) == 0 {
				return nil, io.ErrUnexpectedEOF
			}
			res = append(res, bytes.Repeat(data[:1], 257-int(length))...)
			data = data[1:]
		}
		if len(res) > maxDecodedSize {
			return nil, errors.New("decoded data too large")
		}
	}
	return res, nil
}
