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

// Package pdfpages extracts pages from PDF documents and merges documents.
//
// Both operations work on the in-memory object graph provided by package
// [seehuhn.de/go/pdfpages/pdf].  Pages are copied together with everything
// they reference (content streams, fonts, images, annotations), objects
// which are shared between pages are copied only once, and a fresh page
// tree is built for the result:
//
//	doc, err := pdf.ReadFile("in.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := pdfpages.ExtractRange(doc, 2, 5, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = out.WriteFile("out.pdf")
//
// The input documents are never modified.  A single call is not safe for
// concurrent use with other calls on the same document, but calls on
// different documents may run in parallel.
package pdfpages
