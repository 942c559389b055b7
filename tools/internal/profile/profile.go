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

// Package profile sets up CPU and memory profiling for the command line
// tools.
package profile

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"
)

// Start begins CPU profiling if cpuprofile is non-empty.  The returned
// function stops CPU profiling and, if memprofile is non-empty, writes a
// heap allocation profile.  Problems while writing the memory profile are
// reported to logger, since they happen after the main work is done.
func Start(cpuprofile, memprofile string, logger *slog.Logger) (stop func(), err error) {
	var cpuFile *os.File
	if cpuprofile != "" {
		cpuFile, err = os.Create(cpuprofile)
		if err != nil {
			return nil, fmt.Errorf("cannot create CPU profile: %w", err)
		}
		err = pprof.StartCPUProfile(cpuFile)
		if err != nil {
			cpuFile.Close()
			return nil, fmt.Errorf("cannot start CPU profile: %w", err)
		}
	}

	stop = func() {
		if cpuFile != nil {
			pprof.StopCPUProfile()
			cpuFile.Close()
		}
		if memprofile != "" {
			err := writeHeapProfile(memprofile)
			if err != nil {
				logger.LogAttrs(context.Background(), slog.LevelError,
					"memory profile not written",
					slog.String("file", memprofile),
					slog.Any("error", err))
			}
		}
	}
	return stop, nil
}

func writeHeapProfile(fname string) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	runtime.GC()
	allocs := pprof.Lookup("allocs")
	if allocs == nil {
		f.Close()
		return fmt.Errorf("allocs profile not available")
	}
	err = allocs.WriteTo(f, 0)
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
