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
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/text/language"

	"seehuhn.de/go/pdfpages/pagetree"
	"seehuhn.de/go/pdfpages/pdf"
	"seehuhn.de/go/pdfpages/pdfcopy"
)

// Extract creates a new document which contains the given pages of src,
// in the given order.
//
// Every element of pages must refer to a page object of src, and no page
// can be selected more than once.  Objects which are used by several of
// the selected pages are copied only once.  References from the copied
// pages to pages which are not selected, for example link destinations,
// are replaced by null.
//
// The document information dictionary and the document language are
// copied from src.  The source document is not modified.
func Extract(src pdf.Getter, pages []pdf.Reference, opt *Options) (*pdf.Data, error) {
	if len(pages) == 0 {
		return nil, &InputError{Msg: "no pages selected"}
	}
	selected := make(map[pdf.Reference]bool, len(pages))
	for i, ref := range pages {
		if selected[ref] {
			return nil, &InputError{Msg: fmt.Sprintf("page %s selected twice", ref)}
		}
		selected[ref] = true

		err := checkPage(src, ref)
		if err != nil {
			return nil, &InputError{
				Msg: fmt.Sprintf("selection %d", i+1),
				Err: err,
			}
		}
	}

	ctx := context.Background()
	logger := opt.logger()

	meta := src.GetMeta()
	dst := pdf.NewData(meta.Version)
	c := pdfcopy.NewCopier(dst, src)

	all, err := pagetree.FindPages(src)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelWarn, "cannot enumerate source pages",
			slog.Any("error", err))
	}
	for _, ref := range all {
		if !selected[ref] {
			c.Exclude(ref)
		}
	}

	pagesRef := dst.Alloc()
	kids := make(pdf.Array, 0, len(pages))
	for i, ref := range pages {
		newRef, err := copyPage(c, src, dst, ref, pagesRef, nil)
		if err != nil {
			return nil, fmt.Errorf("copying page %s: %w", ref, err)
		}
		kids = append(kids, newRef)

		logger.LogAttrs(ctx, slog.LevelDebug, "copied page",
			slog.Int("page", i+1),
			slog.String("src", ref.String()),
			slog.String("dst", newRef.String()),
			slog.Int("objects", c.Len()))
	}
	err = dst.Put(pagesRef, pdf.Dict{
		"Type":  pdf.Name("Pages"),
		"Kids":  kids,
		"Count": pdf.Integer(len(kids)),
	})
	if err != nil {
		return nil, err
	}

	catalog := pdf.Dict{
		"Type":  pdf.Name("Catalog"),
		"Pages": pagesRef,
	}
	if srcCatalog, err := pdf.GetCatalog(src); err == nil {
		if lang, err := pdf.GetString(src, srcCatalog["Lang"]); err == nil && lang != nil {
			if tag, err := language.Parse(lang.AsTextString()); err == nil {
				catalog["Lang"] = pdf.TextString(tag.String())
			}
		}
	}
	dst.SetRoot(dst.Add(catalog))

	if info, err := pdf.GetInfo(src); err != nil {
		logger.LogAttrs(ctx, slog.LevelWarn, "ignoring document information dictionary",
			slog.Any("error", err))
	} else if info != nil {
		infoCopy, err := c.CopyDict(info)
		if err != nil {
			return nil, fmt.Errorf("copying document information: %w", err)
		}
		dst.GetMeta().Trailer["Info"] = dst.Add(infoCopy)
	}

	if title := opt.title(); title != "" {
		err := setTitle(dst, title)
		if err != nil {
			return nil, err
		}
	}

	logger.LogAttrs(ctx, slog.LevelDebug, "extracted pages",
		slog.Int("pages", len(kids)),
		slog.Int("objects", dst.Len()))

	return dst, nil
}

// ExtractRange creates a new document which contains the pages first to
// last (1-based, inclusive) of src.
func ExtractRange(src pdf.Getter, first, last int, opt *Options) (*pdf.Data, error) {
	all, err := pagetree.FindPages(src)
	if err != nil {
		return nil, err
	}
	n := len(all)
	if first < 1 || last > n || first > last {
		return nil, &InputError{
			Msg: fmt.Sprintf("page range %d-%d not in 1-%d", first, last, n),
		}
	}
	return Extract(src, all[first-1:last], opt)
}

// ExtractFile extracts the given pages of src and writes the result to
// the file path.  If an error occurs, no file is written.
func ExtractFile(src pdf.Getter, pages []pdf.Reference, path string, opt *Options) error {
	res, err := Extract(src, pages, opt)
	if err != nil {
		return err
	}
	return save(res, path)
}

// ExtractRangeFile extracts the pages first to last (1-based, inclusive)
// of src and writes the result to the file path.
func ExtractRangeFile(src pdf.Getter, first, last int, path string, opt *Options) error {
	res, err := ExtractRange(src, first, last, opt)
	if err != nil {
		return err
	}
	return save(res, path)
}

func save(doc *pdf.Data, path string) error {
	err := doc.WriteFile(path)
	if err != nil {
		return &SaveError{Path: path, Err: err}
	}
	return nil
}
