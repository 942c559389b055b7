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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReadObject(t *testing.T) {
	cases := []struct {
		in   string
		want Object
	}{
		{"null", nil},
		{"true", Bool(true)},
		{"false", Bool(false)},
		{"12", Integer(12)},
		{"-1.5", Real(-1.5)},
		{".5", Real(0.5)},
		{`(a\(b\)c)`, String("a(b)c")},
		{`(x(y)z)`, String("x(y)z")},
		{`(x\101y)`, String("xAy")},
		{`(\5a)`, String("\x05a")},
		{"(a\\\nb)", String("ab")},
		{"(a\r\nb)", String("a\nb")},
		{"<48 65 6c6c 6f>", String("Hello")},
		{"<123>", String{0x12, 0x30}},
		{"/A#20B", Name("A B")},
		{"/Type", Name("Type")},
		{"[1 2 R 3]", Array{NewReference(1, 2), Integer(3)}},
		{"[1 2 3]", Array{Integer(1), Integer(2), Integer(3)}},
		{"[1 % comment\n 2]", Array{Integer(1), Integer(2)}},
		{"[]", Array{}},
		{"12 0 R", NewReference(12, 0)},
		{
			"<</A 1 0 R /B [/C] /D null>>",
			Dict{"A": NewReference(1, 0), "B": Array{Name("C")}},
		},
		{"<</A<</B 2>>>>", Dict{"A": Dict{"B": Integer(2)}}},
		{
			"<</Length 3>>\nstream\nabc\nendstream",
			&Stream{Dict: Dict{"Length": Integer(3)}, Data: []byte("abc")},
		},
		{
			"<</Length 10>>\nstream\r\nabc\nendstream",
			&Stream{Dict: Dict{"Length": Integer(10)}, Data: []byte("abc")},
		},
		{
			"<<>>stream\nabc\r\nendstream",
			&Stream{Dict: Dict{}, Data: []byte("abc")},
		},
	}
	for _, test := range cases {
		s := newScanner([]byte(test.in), 0, nil)
		got, err := s.ReadObject()
		if err != nil {
			t.Errorf("%q: %v", test.in, err)
			continue
		}
		if d := cmp.Diff(test.want, got); d != "" {
			t.Errorf("%q: unexpected object (-want +got):\n%s", test.in, d)
		}
	}
}

func TestReadObjectErrors(t *testing.T) {
	cases := []string{
		"",
		"(unterminated",
		"<</A 1",
		"[1 2",
		"<zz>",
		"foo",
	}
	for _, in := range cases {
		s := newScanner([]byte(in), 0, nil)
		_, err := s.ReadObject()
		if _, ok := err.(*MalformedFileError); !ok {
			t.Errorf("%q: expected MalformedFileError, got %v", in, err)
		}
	}
}

func TestReadDeeplyNested(t *testing.T) {
	in := make([]byte, 0, 2*maxDepth+10)
	for i := 0; i < maxDepth+5; i++ {
		in = append(in, '[')
	}
	s := newScanner(in, 0, nil)
	_, err := s.ReadObject()
	if err == nil {
		t.Fatal("deeply nested arrays were accepted")
	}
}

func TestReadIndirectObject(t *testing.T) {
	cases := []struct {
		in      string
		wantRef Reference
		want    Object
	}{
		{"7 0 obj\n<</A 1>>\nendobj", NewReference(7, 0), Dict{"A": Integer(1)}},
		{"  3 1 obj 5 endobj", NewReference(3, 1), Integer(5)},
		{"3 0 obj 1 0 R endobj", NewReference(3, 0), NewReference(1, 0)},
		{"4 0 obj (no endobj)", NewReference(4, 0), String("no endobj")},
	}
	for _, test := range cases {
		s := newScanner([]byte(test.in), 0, nil)
		ref, obj, err := s.ReadIndirectObject()
		if err != nil {
			t.Errorf("%q: %v", test.in, err)
			continue
		}
		if ref != test.wantRef {
			t.Errorf("%q: got reference %s, want %s", test.in, ref, test.wantRef)
		}
		if d := cmp.Diff(test.want, obj); d != "" {
			t.Errorf("%q: unexpected object (-want +got):\n%s", test.in, d)
		}
	}
}

func TestNameRoundTrip(t *testing.T) {
	names := []Name{"A", "A B", "x#y", "(paren)", "\x80\xff", ""}
	for _, name := range names {
		s := newScanner([]byte(Format(name)), 0, nil)
		got, err := s.ReadName()
		if err != nil {
			t.Errorf("%q: %v", name, err)
			continue
		}
		if got != name {
			t.Errorf("got %q, want %q", got, name)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	strs := []String{
		String("hello"),
		String("a(b"),
		String("a)b("),
		String("back\\slash"),
		String("\r\n\t"),
		String{0, 1, 2, 255},
		String(""),
	}
	for _, str := range strs {
		s := newScanner([]byte(Format(str)), 0, nil)
		got, err := s.ReadObject()
		if err != nil {
			t.Errorf("%q: %v", str, err)
			continue
		}
		if d := cmp.Diff(str, got); d != "" {
			t.Errorf("unexpected string (-want +got):\n%s", d)
		}
	}
}
