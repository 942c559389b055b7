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
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

var (
	utf16Encoding = unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	utf16Decoding = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)
)

// TextString encodes s as a PDF text string.
//
// Strings which consist only of printable ASCII characters, tabs and
// newlines are stored verbatim.  All other strings are stored in UTF-16BE
// encoding, preceded by a byte order mark.
func TextString(s string) String {
	plain := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 0x20 || c >= 0x7f) && c != '\t' && c != '\n' && c != '\r' {
			plain = false
			break
		}
	}
	if plain {
		return String(s)
	}

	res, err := utf16Encoding.NewEncoder().Bytes([]byte(s))
	if err != nil {
		// s is not valid UTF-8; keep what we can.
		return String(bytes.ToValidUTF8([]byte(s), nil))
	}
	return String(res)
}

// AsTextString interprets x as a PDF text string and returns the
// corresponding utf-8 encoded string.
func (x String) AsTextString() string {
	if isUTF16(x) {
		res, err := utf16Decoding.NewDecoder().Bytes(x)
		if err == nil {
			return string(res)
		}
	}
	if bytes.HasPrefix(x, []byte{0xEF, 0xBB, 0xBF}) && utf8.Valid(x[3:]) {
		return string(x[3:])
	}
	return pdfDocDecode(x)
}

func isUTF16(s String) bool {
	return len(s) >= 2 && s[0] == 0xFE && s[1] == 0xFF
}

func pdfDocDecode(s String) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			goto Decode
		}
	}
	return string(s)

Decode:
	r := make([]rune, 0, len(s))
	for _, c := range s {
		switch {
		case c < 0x80:
			r = append(r, rune(c))
		case c <= 0xA0:
			if rr := pdfDocHigh[c-0x80]; rr != 0 {
				r = append(r, rr)
			} else {
				r = append(r, utf8.RuneError)
			}
		default:
			r = append(r, rune(c))
		}
	}
	return string(r)
}

// pdfDocHigh gives the code points for bytes 0x80 to 0xA0 in PDFDocEncoding.
// Bytes 0xA1 to 0xFF coincide with ISO Latin 1.
var pdfDocHigh = [33]rune{
	0x2022, 0x2020, 0x2021, 0x2026, 0x2014, 0x2013, 0x0192, 0x2044,
	0x2039, 0x203A, 0x2212, 0x2030, 0x201E, 0x201C, 0x201D, 0x2018,
	0x2019, 0x201A, 0x2122, 0xFB01, 0xFB02, 0x0141, 0x0152, 0x0160,
	0x0178, 0x017D, 0x0131, 0x0142, 0x0153, 0x0161, 0x017E, 0,
	0x20AC,
}
