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
	"bytes"
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/text/language"
	"seehuhn.de/go/xmp"

	"seehuhn.de/go/pdfpages/pdf"
)

// setTitle stores title in the document information dictionary of doc and
// attaches a new XMP metadata stream with the title to the catalog.
//
// Objects are replaced, not modified, since doc may share them with
// another document.
func setTitle(doc *pdf.Data, title string) error {
	meta := doc.GetMeta()

	info, err := pdf.GetInfo(doc)
	if err != nil {
		return err
	}
	info = maps.Clone(info)
	if info == nil {
		info = pdf.Dict{}
	}
	info["Title"] = pdf.TextString(title)
	if ref, isRef := meta.Trailer["Info"].(pdf.Reference); isRef {
		err = doc.Put(ref, info)
		if err != nil {
			return err
		}
	} else {
		meta.Trailer["Info"] = doc.Add(info)
	}

	rootRef, isRef := meta.Trailer["Root"].(pdf.Reference)
	if !isRef {
		return &pdf.MalformedFileError{Err: fmt.Errorf("missing document catalog")}
	}
	catalog, err := pdf.GetCatalog(doc)
	if err != nil {
		return err
	}

	lang := language.Und
	if s, err := pdf.GetString(doc, catalog["Lang"]); err == nil && s != nil {
		if tag, err := language.Parse(s.AsTextString()); err == nil {
			lang = tag
		}
	}
	var author string
	if s, err := pdf.GetString(doc, info["Author"]); err == nil && s != nil {
		author = s.AsTextString()
	}

	data, err := xmpTitle(title, author, lang)
	if err != nil {
		return err
	}
	metaRef := doc.Add(&pdf.Stream{
		Dict: pdf.Dict{
			"Type":    pdf.Name("Metadata"),
			"Subtype": pdf.Name("XML"),
		},
		Data: data,
	})

	// Drop the metadata stream inherited from the first input document.
	if oldRef, isRef := catalog["Metadata"].(pdf.Reference); isRef {
		err = doc.Put(oldRef, nil)
		if err != nil {
			return err
		}
	}

	catalog = maps.Clone(catalog)
	catalog["Metadata"] = metaRef
	err = doc.Put(rootRef, catalog)
	if err != nil {
		return err
	}

	// XMP metadata streams were introduced in PDF 1.4.
	if meta.Version < pdf.V1_4 {
		meta.Version = pdf.V1_4
	}
	return nil
}

// xmpTitle returns an XMP packet with the Dublin Core title and,
// if author is not empty, creator.
func xmpTitle(title, author string, lang language.Tag) ([]byte, error) {
	packet := xmp.NewPacket()
	dc := &xmp.DublinCore{}
	dc.Title.Set(lang, title)
	if author != "" {
		dc.Creator.Append(xmp.NewProperName(author))
	}
	err := packet.Set(dc)
	if err != nil {
		return nil, fmt.Errorf("XMP metadata: %w", err)
	}

	buf := &bytes.Buffer{}
	err = packet.Write(buf, nil)
	if err != nil {
		return nil, fmt.Errorf("XMP metadata: %w", err)
	}
	return buf.Bytes(), nil
}
