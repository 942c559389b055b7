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

// Package pdf provides an in-memory object model for PDF files.
//
// A PDF file is a graph of objects.  Indirect objects are identified by a
// [Reference], and refer to each other using the same type.  The whole graph
// of a document is held in a [Data] value, which can be loaded from a file
// and written back:
//
//	doc, err := pdf.ReadFile("in.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	catalog, err := pdf.GetCatalog(doc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	... inspect or modify objects ...
//	err = doc.WriteFile("out.pdf")
//
// The following types implement the native PDF object types.
// All of these implement the [Object] interface:
//
//	Array
//	Bool
//	Dict
//	Integer
//	Name
//	Real
//	Reference
//	*Stream
//	String
//
// The PDF null object is represented by the Go value nil.
//
// Stream filters are only decoded where this is needed to load a file
// (object streams and cross-reference streams).  Page content is kept
// exactly as it was found in the input.  Encrypted files are not supported.
package pdf
