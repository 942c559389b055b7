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

// Package buildinfo reports the version of the command line tools.
package buildinfo

import (
	"log/slog"
	"runtime/debug"
)

// Version returns the module path and version of the running binary.
// For development builds, the version is the (shortened) VCS revision,
// with a "+dirty" suffix for modified working trees.  If no information
// is available, both strings are empty.
func Version() (path, version string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}

	path = info.Main.Path
	version = info.Main.Version
	if version != "" && version != "(devel)" {
		return path, version
	}

	var rev string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if rev == "" {
		return path, ""
	}
	if len(rev) > 8 {
		rev = rev[:8]
	}
	if dirty {
		rev += "+dirty"
	}
	return path, rev
}

// Short returns a short version string for a tool, e.g.
// "pdf-concat (seehuhn.de/go/pdfpages v0.1.0)".
func Short(toolName string) string {
	path, version := Version()
	if version == "" {
		return toolName
	}
	return toolName + " (" + path + " " + version + ")"
}

// Attr returns the version information as a log attribute.
func Attr(toolName string) slog.Attr {
	path, version := Version()
	return slog.Group("build",
		slog.String("tool", toolName),
		slog.String("module", path),
		slog.String("version", version))
}
