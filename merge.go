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

	"golang.org/x/exp/maps"

	"seehuhn.de/go/pdfpages/pagetree"
	"seehuhn.de/go/pdfpages/pdf"
	"seehuhn.de/go/pdfpages/pdfcopy"
)

// Merge concatenates the pages of several documents.
//
// The result is based on the first document: its catalog, document
// information and page tree are kept, and the pages of all further
// documents are appended to the root node of its page tree, in order.
// The PDF version of the result is the highest version among the inputs.
//
// None of the input documents is modified.
func Merge(docs []*pdf.Data, opt *Options) (*pdf.Data, error) {
	if len(docs) == 0 {
		return nil, &InputError{Msg: "no documents to merge"}
	}
	for i, doc := range docs {
		if doc == nil {
			return nil, &InputError{Msg: fmt.Sprintf("document %d is nil", i+1)}
		}
	}

	ctx := context.Background()
	logger := opt.logger()

	for i, doc := range docs {
		if doc.Repaired() {
			logger.LogAttrs(ctx, slog.LevelWarn, "input was repaired",
				slog.Int("document", i+1))
		}
	}

	dst := docs[0].Clone()
	rootRef, root, err := pageTreeRoot(dst)
	if err != nil {
		return nil, fmt.Errorf("document 1: %w", err)
	}
	kids, err := pdf.GetArray(dst, root["Kids"])
	if err != nil {
		return nil, fmt.Errorf("document 1: %w", err)
	}
	kids = append(pdf.Array{}, kids...)
	shadowed := inheritableKeys(root)

	count, err := pdf.GetInt(dst, root["Count"])
	if _, present := root["Count"]; err != nil || !present || count < 0 {
		pages, err := pagetree.FindPages(dst)
		if err != nil {
			return nil, fmt.Errorf("document 1: %w", err)
		}
		logger.LogAttrs(ctx, slog.LevelWarn, "invalid page count, recounting",
			slog.Any("count", root["Count"]),
			slog.Int("pages", len(pages)))
		count = pdf.Integer(len(pages))
	}

	version := dst.GetMeta().Version
	for i, doc := range docs[1:] {
		docNo := i + 2

		if v := doc.GetMeta().Version; v > version {
			version = v
		}

		pages, err := pagetree.FindPages(doc)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", docNo, err)
		}

		c := pdfcopy.NewCopier(dst, doc)
		for j, ref := range pages {
			newRef, err := copyPage(c, doc, dst, ref, rootRef, shadowed)
			if err != nil {
				return nil, fmt.Errorf("document %d, page %d: %w", docNo, j+1, err)
			}
			kids = append(kids, newRef)
			count++

			logger.LogAttrs(ctx, slog.LevelDebug, "copied page",
				slog.Int("document", docNo),
				slog.Int("page", j+1),
				slog.String("dst", newRef.String()),
				slog.Int("objects", c.Len()))
		}
	}

	root["Kids"] = kids
	root["Count"] = count
	err = dst.Put(rootRef, root)
	if err != nil {
		return nil, err
	}
	dst.GetMeta().Version = version

	if title := opt.title(); title != "" {
		err := setTitle(dst, title)
		if err != nil {
			return nil, err
		}
	}

	logger.LogAttrs(ctx, slog.LevelDebug, "merged documents",
		slog.Int("documents", len(docs)),
		slog.Int("pages", int(count)),
		slog.Int("objects", dst.Len()))

	return dst, nil
}

// pageTreeRoot returns the root node of the page tree of doc.  The returned
// dictionary is a copy, which the caller can modify and store back
// under the returned reference.
func pageTreeRoot(doc *pdf.Data) (pdf.Reference, pdf.Dict, error) {
	catalog, err := pdf.GetCatalog(doc)
	if err != nil {
		return 0, nil, err
	}
	ref, ok := catalog["Pages"].(pdf.Reference)
	if !ok {
		return 0, nil, &pdf.MalformedFileError{
			Err: fmt.Errorf("catalog has no /Pages reference"),
		}
	}
	root, err := pdf.GetDict(doc, ref)
	if err != nil {
		return 0, nil, err
	}
	if root == nil {
		return 0, nil, &pdf.LookupError{Ref: ref}
	}
	return ref, maps.Clone(root), nil
}

// MergeFile merges the given documents and writes the result to the file
// path.  If an error occurs, no file is written.
func MergeFile(docs []*pdf.Data, path string, opt *Options) error {
	res, err := Merge(docs, opt)
	if err != nil {
		return err
	}
	return save(res, path)
}

// MergeFiles reads the PDF files inputs, merges them and writes the result
// to the file path.
func MergeFiles(inputs []string, path string, opt *Options) error {
	if len(inputs) == 0 {
		return &InputError{Msg: "no input files"}
	}
	docs := make([]*pdf.Data, len(inputs))
	for i, name := range inputs {
		doc, err := pdf.ReadFile(name)
		if err != nil {
			return &LoadError{Path: name, Err: err}
		}
		docs[i] = doc
	}
	return MergeFile(docs, path, opt)
}
