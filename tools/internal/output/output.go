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

// Package output writes the results of the command line tools.
package output

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"golang.org/x/term"

	"seehuhn.de/go/pdfpages"
	"seehuhn.de/go/pdfpages/pdf"
)

// Stdout is the file name which selects standard output.
const Stdout = "-"

var errTerminal = errors.New("refusing to write PDF data to a terminal")

// Check verifies that the result can be written to path, before any work
// is done.  Existing files are only overwritten if force is set.
func Check(path string, force bool) error {
	if path == Stdout {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return errTerminal
		}
		return nil
	}
	if force {
		return nil
	}
	_, err := os.Stat(path)
	if err == nil {
		return fmt.Errorf("output file %q already exists (use -f to overwrite)", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Write writes doc to path, or to standard output if path is [Stdout].
// Files are replaced atomically, so that no partial output is left behind
// on failure.
func Write(doc *pdf.Data, path string, logger *slog.Logger) error {
	var err error
	if path == Stdout {
		err = doc.Write(os.Stdout)
	} else {
		err = doc.WriteFile(path)
	}
	if err != nil {
		return &pdfpages.SaveError{Path: path, Err: err}
	}

	logger.Info("wrote output",
		slog.String("file", path),
		slog.Int("objects", doc.Len()),
		slog.String("version", doc.GetMeta().Version.String()))
	return nil
}

// NewLogger returns a logger which writes to standard error.
// Debug messages are only shown if verbose is set.
func NewLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}
