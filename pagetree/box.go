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

package pagetree

import (
	"errors"
	"math"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdfpages/pdf"
)

// Letter is the page size used when a page does not specify a media box.
var Letter = rect.Rect{URx: 612, URy: 792}

var errNoRectangle = errors.New("invalid rectangle")

// MediaBox returns the media box of the page pageRef, taking inheritance
// into account.  The rectangle is normalised so that the lower left corner
// comes first.
func MediaBox(r pdf.Getter, pageRef pdf.Reference) (rect.Rect, error) {
	page, err := pdf.GetDict(r, pageRef)
	if err != nil {
		return rect.Rect{}, err
	}
	box, ok := page["MediaBox"]
	if !ok {
		inherited, err := Inherited(r, pageRef)
		if err != nil {
			return rect.Rect{}, err
		}
		box, ok = inherited["MediaBox"]
	}
	if !ok {
		return Letter, nil
	}

	a, err := pdf.GetArray(r, box)
	if err != nil {
		return rect.Rect{}, err
	}
	return asRectangle(r, a)
}

// asRectangle converts an array of 4 numbers to a rectangle.
func asRectangle(r pdf.Getter, a pdf.Array) (rect.Rect, error) {
	if len(a) != 4 {
		return rect.Rect{}, errNoRectangle
	}
	values := [4]float64{}
	for i, obj := range a {
		xi, err := pdf.GetNumber(r, obj)
		if err != nil {
			return rect.Rect{}, err
		}
		values[i] = xi
	}
	return rect.Rect{
		LLx: math.Min(values[0], values[2]),
		LLy: math.Min(values[1], values[3]),
		URx: math.Max(values[0], values[2]),
		URy: math.Max(values[1], values[3]),
	}, nil
}
