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
	"log/slog"
)

// Options controls the behaviour of [Extract] and [Merge].
// A nil *Options is equivalent to the zero value.
type Options struct {
	// Logger receives debug messages for every copied page and warnings
	// about damaged input.  If this is nil, [slog.Default] is used.
	Logger *slog.Logger

	// Title, if set, is stored as the document title of the result, both
	// in the document information dictionary and as an XMP metadata
	// stream.
	Title string
}

func (opt *Options) logger() *slog.Logger {
	if opt == nil || opt.Logger == nil {
		return slog.Default()
	}
	return opt.Logger
}

func (opt *Options) title() string {
	if opt == nil {
		return ""
	}
	return opt.Title
}
