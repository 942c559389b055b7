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

// Pdf-concat concatenates PDF files.
//
// The catalog, document information and page tree of the first file are
// kept, and the pages of all further files are appended.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"seehuhn.de/go/pdfpages"
	"seehuhn.de/go/pdfpages/pdf"

	"seehuhn.de/go/pdfpages/tools/internal/buildinfo"
	"seehuhn.de/go/pdfpages/tools/internal/output"
	"seehuhn.de/go/pdfpages/tools/internal/profile"
)

func main() {
	out := flag.String("o", "out.pdf", "output `file`, or - for standard output")
	force := flag.Bool("f", false, "overwrite output file if it exists")
	title := flag.String("title", "", "set the document `title` of the output")
	verbose := flag.Bool("v", false, "show progress messages")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to `file`")
	memprofile := flag.String("memprofile", "", "write memory profile to `file`")

	flag.Usage = func() {
		w := flag.CommandLine.Output()
		fmt.Fprintf(w, "pdf-concat - concatenate PDF files\n")
		fmt.Fprintf(w, "%s\n\n", buildinfo.Short("pdf-concat"))
		fmt.Fprintf(w, "Usage:\n")
		fmt.Fprintf(w, "  pdf-concat [options] <in1.pdf> <in2.pdf> ...\n\n")
		fmt.Fprintf(w, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "pdf-concat: no input files given")
		flag.Usage()
		os.Exit(1)
	}

	logger := output.NewLogger(*verbose)
	logger.Debug("starting", buildinfo.Attr("pdf-concat"))

	stop, err := profile.Start(*cpuprofile, *memprofile, logger)
	if err == nil {
		err = output.Check(*out, *force)
	}
	if err == nil {
		err = concatFiles(*out, flag.Args(), *title, logger)
	}
	if stop != nil {
		stop()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "pdf-concat:", err)
		os.Exit(1)
	}
}

func concatFiles(out string, in []string, title string, logger *slog.Logger) error {
	docs := make([]*pdf.Data, len(in))
	for i, fname := range in {
		doc, err := pdf.ReadFile(fname)
		if err != nil {
			return &pdfpages.LoadError{Path: fname, Err: err}
		}
		if doc.Repaired() {
			logger.Warn("damaged cross-reference information, file was repaired",
				slog.String("file", fname))
		}
		logger.Debug("loaded input",
			slog.String("file", fname),
			slog.String("version", doc.GetMeta().Version.String()),
			slog.Int("objects", doc.Len()))
		docs[i] = doc
	}

	opt := &pdfpages.Options{
		Logger: logger,
		Title:  title,
	}
	res, err := pdfpages.Merge(docs, opt)
	if err != nil {
		return err
	}
	return output.Write(res, out, logger)
}
