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

package pdf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriterOptions allows to influence the way a PDF file is written.
type WriterOptions struct {
	// Version, if non-zero, overrides the PDF version of the document.
	Version Version
}

// Write writes the PDF document to w.
func (d *Data) Write(w io.Writer) error {
	return Write(w, d, nil)
}

// WriteFile writes the PDF document to the named file.
//
// The data is first written to a temporary file in the same directory,
// which is then renamed.  If an error occurs, the temporary file is
// removed and an existing file of the same name is left unchanged.
func (d *Data) WriteFile(path string) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	fd, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := fd.Name()
	defer func() {
		if err != nil {
			fd.Close()
			os.Remove(tmpName)
		}
	}()

	err = Write(fd, d, nil)
	if err != nil {
		return err
	}
	err = fd.Chmod(0o644)
	if err != nil {
		return err
	}
	err = fd.Close()
	if err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Write writes the document d to w, using a classic cross-reference table.
// Objects are written in order of increasing object number.
func Write(w io.Writer, d *Data, opt *WriterOptions) error {
	if opt == nil {
		opt = &WriterOptions{}
	}
	meta := d.GetMeta()

	version := meta.Version
	if opt.Version != 0 {
		version = opt.Version
	}
	versionString, err := version.ToString()
	if err != nil {
		return err
	}

	root, ok := meta.Trailer["Root"].(Reference)
	if !ok {
		return errors.New("missing /Root in trailer")
	}
	if _, err := d.Get(root); err != nil {
		return fmt.Errorf("document catalog: %w", err)
	}

	buf := bufio.NewWriter(w)
	pw := &posWriter{w: buf}

	_, err = fmt.Fprintf(pw, "%%PDF-%s\n%%\x80\x80\x80\x80\n", versionString)
	if err != nil {
		return err
	}

	refs := d.Refs()
	offsets := make(map[uint32]*xRefEntry, len(refs))
	var size uint32 = 1
	for _, ref := range refs {
		number := ref.Number()
		if _, seen := offsets[number]; seen {
			return fmt.Errorf("duplicate object number %d", number)
		}
		offsets[number] = &xRefEntry{Pos: pw.pos, Generation: ref.Generation()}
		if number >= size {
			size = number + 1
		}

		_, err = fmt.Fprintf(pw, "%d %d obj\n", number, ref.Generation())
		if err != nil {
			return err
		}
		err = d.objects[ref].PDF(pw)
		if err != nil {
			return fmt.Errorf("object %s: %w", ref, err)
		}
		_, err = pw.Write([]byte("\nendobj\n"))
		if err != nil {
			return err
		}
	}

	xRefPos := pw.pos
	_, err = fmt.Fprintf(pw, "xref\n0 %d\n", size)
	if err != nil {
		return err
	}
	for i := uint32(0); i < size; i++ {
		entry := offsets[i]
		if entry == nil {
			_, err = pw.Write([]byte("0000000000 65535 f\r\n"))
		} else {
			_, err = fmt.Fprintf(pw, "%010d %05d n\r\n", entry.Pos, entry.Generation)
		}
		if err != nil {
			return err
		}
	}

	trailer := Dict{
		"Size": Integer(size),
		"Root": root,
	}
	if info := meta.Trailer["Info"]; info != nil {
		trailer["Info"] = info
	}
	if len(meta.ID) == 2 {
		trailer["ID"] = Array{String(meta.ID[0]), String(meta.ID[1])}
	}
	_, err = pw.Write([]byte("trailer\n"))
	if err != nil {
		return err
	}
	err = trailer.PDF(pw)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(pw, "\nstartxref\n%d\n%%%%EOF\n", xRefPos)
	if err != nil {
		return err
	}

	return buf.Flush()
}

type posWriter struct {
	w   io.Writer
	pos int64
}

func (w *posWriter) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.pos += int64(n)
	return n, err
}
