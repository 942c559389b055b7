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

package pdfpages

import (
	"errors"

	"seehuhn.de/go/pdfpages/pdf"
)

// InputError indicates that the arguments of an operation were invalid,
// for example an empty page selection or a page number out of range.
type InputError struct {
	Msg string
	Err error
}

func (err *InputError) Error() string {
	msg := "invalid input: " + err.Msg
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	return msg
}

func (err *InputError) Unwrap() error {
	return err.Err
}

// LoadError indicates that an input file could not be read.
type LoadError struct {
	Path string
	Err  error
}

func (err *LoadError) Error() string {
	return "cannot load " + err.Path + ": " + err.Err.Error()
}

func (err *LoadError) Unwrap() error {
	return err.Err
}

// SaveError indicates that the result could not be written.
// No output file is left behind in this case.
type SaveError struct {
	Path string
	Err  error
}

func (err *SaveError) Error() string {
	return "cannot save " + err.Path + ": " + err.Err.Error()
}

func (err *SaveError) Unwrap() error {
	return err.Err
}

// IsInputError reports whether err was caused by invalid arguments.
func IsInputError(err error) bool {
	var e *InputError
	return errors.As(err, &e)
}

// IsMissingObject reports whether err was caused by a reference to
// an object which does not exist in the source document.
func IsMissingObject(err error) bool {
	var e *pdf.LookupError
	return errors.As(err, &e)
}
