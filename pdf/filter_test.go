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
	"compress/zlib"
	"encoding/ascii85"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func compress(data []byte) []byte {
	buf := &bytes.Buffer{}
	zw := zlib.NewWriter(buf)
	zw.Write(data)
	zw.Close()
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	hello := []byte("Hello, World!")

	a85 := make([]byte, ascii85.MaxEncodedLen(len(hello)))
	n := ascii85.Encode(a85, hello)
	a85 = append(a85[:n], "~>"...)

	cases := []struct {
		name   string
		stream *Stream
		want   []byte
	}{
		{
			name:   "none",
			stream: &Stream{Dict: Dict{}, Data: hello},
			want:   hello,
		},
		{
			name: "flate",
			stream: &Stream{
				Dict: Dict{"Filter": Name("FlateDecode")},
				Data: compress(hello),
			},
			want: hello,
		},
		{
			name: "hex",
			stream: &Stream{
				Dict: Dict{"Filter": Name("ASCIIHexDecode")},
				Data: []byte("48 65 6c6C 6f7>"),
			},
			want: []byte("Hellop"),
		},
		{
			name: "ascii85",
			stream: &Stream{
				Dict: Dict{"Filter": Name("ASCII85Decode")},
				Data: a85,
			},
			want: hello,
		},
		{
			name: "runlength",
			stream: &Stream{
				Dict: Dict{"Filter": Name("RunLengthDecode")},
				Data: []byte{2, 'a', 'b', 'c', 253, 'x', 0, 'y', 128, 'z'},
			},
			want: []byte("abcxxxxy"),
		},
		{
			name: "chain",
			stream: &Stream{
				Dict: Dict{"Filter": Array{Name("ASCIIHexDecode"), Name("FlateDecode")}},
				Data: []byte(hexString(compress(hello)) + ">"),
			},
			want: hello,
		},
		{
			name: "png-up",
			stream: &Stream{
				Dict: Dict{
					"Filter":      Name("FlateDecode"),
					"DecodeParms": Dict{"Predictor": Integer(12), "Columns": Integer(3)},
				},
				Data: compress([]byte{2, 1, 2, 3, 2, 3, 3, 3}),
			},
			want: []byte{1, 2, 3, 4, 5, 6},
		},
		{
			name: "png-sub-paeth",
			stream: &Stream{
				Dict: Dict{
					"Filter":      Name("FlateDecode"),
					"DecodeParms": Dict{"Predictor": Integer(15), "Columns": Integer(2)},
				},
				Data: compress([]byte{1, 10, 5, 4, 1, 2}),
			},
			want: []byte{10, 15, 11, 17},
		},
	}
	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			got, err := test.stream.Decode(nil)
			if err != nil {
				t.Fatal(err)
			}
			if d := cmp.Diff(test.want, got); d != "" {
				t.Errorf("unexpected data (-want +got):\n%s", d)
			}
		})
	}
}

func hexString(data []byte) string {
	const digits = "0123456789abcdef"
	res := make([]byte, 0, 2*len(data))
	for _, c := range data {
		res = append(res, digits[c>>4], digits[c&15])
	}
	return string(res)
}

func TestDecodeUnsupported(t *testing.T) {
	stream := &Stream{
		Dict: Dict{"Filter": Name("DCTDecode")},
		Data: []byte{0xFF, 0xD8},
	}
	_, err := stream.Decode(nil)
	if _, ok := err.(*MalformedFileError); !ok {
		t.Errorf("expected MalformedFileError, got %v", err)
	}
}

func TestDecodeIndirectParms(t *testing.T) {
	doc := NewData(V1_7)
	parms := doc.Add(Dict{"Predictor": Integer(12), "Columns": Integer(1)})
	stream := &Stream{
		Dict: Dict{"Filter": Name("FlateDecode"), "DecodeParms": parms},
		Data: compress([]byte{2, 7, 2, 1}),
	}
	got, err := stream.Decode(doc)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]byte{7, 8}, got); d != "" {
		t.Errorf("unexpected data (-want +got):\n%s", d)
	}
}
