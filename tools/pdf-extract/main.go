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

package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"seehuhn.de/go/pdfpages"
	"seehuhn.de/go/pdfpages/pagetree"
	"seehuhn.de/go/pdfpages/pdf"

	"seehuhn.de/go/pdfpages/tools/internal/buildinfo"
	"seehuhn.de/go/pdfpages/tools/internal/output"
	"seehuhn.de/go/pdfpages/tools/internal/profile"
)

// config holds all command-line flag values.
type config struct {
	output  string
	force   bool
	title   string
	list    bool
	verbose bool

	cpuprofile string
	memprofile string
}

func main() {
	var cfg config
	flag.StringVar(&cfg.output, "o", "out.pdf", "output `file`, or - for standard output")
	flag.BoolVar(&cfg.force, "f", false, "overwrite output file if it exists")
	flag.StringVar(&cfg.title, "title", "", "set the document `title` of the output")
	flag.BoolVar(&cfg.list, "list", false, "list the pages of the input file and exit")
	flag.BoolVar(&cfg.verbose, "v", false, "show progress messages")
	flag.StringVar(&cfg.cpuprofile, "cpuprofile", "", "write cpu profile to `file`")
	flag.StringVar(&cfg.memprofile, "memprofile", "", "write memory profile to `file`")

	flag.Usage = func() {
		w := flag.CommandLine.Output()
		fmt.Fprintf(w, "pdf-extract - extract pages from a PDF file\n")
		fmt.Fprintf(w, "%s\n\n", buildinfo.Short("pdf-extract"))
		fmt.Fprintf(w, "Usage:\n")
		fmt.Fprintf(w, "  pdf-extract [options] <file.pdf> [pages...]\n\n")
		fmt.Fprintf(w, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(w, "\nPage selections (1-based, default all):\n")
		fmt.Fprintf(w, "  N          page N\n")
		fmt.Fprintf(w, "  N-M        pages N through M\n")
		fmt.Fprintf(w, "  N-         page N to the end\n")
		fmt.Fprintf(w, "  -M         first page to page M\n")
		fmt.Fprintf(w, "  odd, even  odd or even pages\n")
		fmt.Fprintf(w, "  all        all pages\n")
		fmt.Fprintf(w, "\nExamples:\n")
		fmt.Fprintf(w, "  pdf-extract -o intro.pdf book.pdf 1-12\n")
		fmt.Fprintf(w, "  pdf-extract -o - doc.pdf 3,5,7- | lpr\n")
		fmt.Fprintf(w, "  pdf-extract -list doc.pdf\n")
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	logger := output.NewLogger(cfg.verbose)
	logger.Debug("starting", buildinfo.Attr("pdf-extract"))

	err := run(cfg, flag.Arg(0), flag.Args()[1:], logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "pdf-extract:", err)
		os.Exit(1)
	}
}

func run(cfg config, inName string, selection []string, logger *slog.Logger) error {
	stop, err := profile.Start(cfg.cpuprofile, cfg.memprofile, logger)
	if err != nil {
		return err
	}
	defer stop()

	if !cfg.list {
		err = output.Check(cfg.output, cfg.force)
		if err != nil {
			return err
		}
	}

	doc, err := pdf.ReadFile(inName)
	if err != nil {
		return &pdfpages.LoadError{Path: inName, Err: err}
	}
	if doc.Repaired() {
		logger.Warn("damaged cross-reference information, file was repaired",
			slog.String("file", inName))
	}

	all, err := pagetree.FindPages(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", inName, err)
	}

	if cfg.list {
		count, err := pagetree.NumPages(doc)
		if err != nil || count != len(all) {
			logger.Warn("page tree /Count does not match the number of pages",
				slog.Int("count", count),
				slog.Int("pages", len(all)))
		}
		return listPages(os.Stdout, doc, all)
	}

	sel := "all"
	if len(selection) > 0 {
		sel = strings.Join(selection, ",")
	}
	numbers, err := pdfpages.ParsePageRanges(sel, len(all))
	if err != nil {
		return err
	}
	refs, err := pdfpages.SelectPages(doc, numbers)
	if err != nil {
		return err
	}

	opt := &pdfpages.Options{
		Logger: logger,
		Title:  cfg.title,
	}
	res, err := pdfpages.Extract(doc, refs, opt)
	if err != nil {
		return err
	}

	err = output.Write(res, cfg.output, logger)
	if err != nil {
		return err
	}
	logger.Info("extracted pages",
		slog.String("input", inName),
		slog.Int("pages", len(refs)))
	return nil
}

// listPages prints the number of pages and the size of every page.
func listPages(w io.Writer, doc pdf.Getter, pages []pdf.Reference) error {
	fmt.Fprintf(w, "%d pages\n", len(pages))
	for i, ref := range pages {
		box, err := pagetree.MediaBox(doc, ref)
		if err != nil {
			return fmt.Errorf("page %d: %w", i+1, err)
		}
		fmt.Fprintf(w, "%5d  %g x %g\n", i+1, box.Dx(), box.Dy())
	}
	return nil
}
