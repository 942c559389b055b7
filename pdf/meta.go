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
	"strconv"
)

// MetaInfo represents the meta information of a PDF file.
type MetaInfo struct {
	// Version is the PDF version used in this file.
	Version Version

	// The ID of the file.  This is either a slice of two byte slices (the
	// original ID of the file, and the ID of the current version), or nil if
	// the file does not specify an ID.
	ID [][]byte

	// Trailer is the trailer dictionary for the file.
	// This excludes entries related to the cross-reference table.
	// The "Root" entry refers to the document catalog and the optional
	// "Info" entry refers to the document information dictionary.
	Trailer Dict
}

// Version represents a version of PDF standard.
// Later versions compare greater than earlier ones.
type Version int

// PDF versions supported by this library.
const (
	_ Version = iota
	V1_0
	V1_1
	V1_2
	V1_3
	V1_4
	V1_5
	V1_6
	V1_7
	V2_0
)

// versionNames gives the header string for every supported version.
var versionNames = [...]string{
	V1_0: "1.0",
	V1_1: "1.1",
	V1_2: "1.2",
	V1_3: "1.3",
	V1_4: "1.4",
	V1_5: "1.5",
	V1_6: "1.6",
	V1_7: "1.7",
	V2_0: "2.0",
}

// ParseVersion parses a version string like "1.7", as found in the file
// header and in the /Version entry of the catalog.
func ParseVersion(verString string) (Version, error) {
	for v := V1_0; v <= V2_0; v++ {
		if versionNames[v] == verString {
			return v, nil
		}
	}
	return 0, errVersion
}

// ToString returns the string representation of ver, e.g. "1.7".
func (ver Version) ToString() (string, error) {
	if ver < V1_0 || ver > V2_0 {
		return "", errVersion
	}
	return versionNames[ver], nil
}

func (ver Version) String() string {
	if s, err := ver.ToString(); err == nil {
		return s
	}
	return "pdf.Version(" + strconv.Itoa(int(ver)) + ")"
}
