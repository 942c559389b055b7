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
	"fmt"
	"strconv"
	"strings"

	"seehuhn.de/go/pdfpages/pagetree"
	"seehuhn.de/go/pdfpages/pdf"
)

// PageRange selects a range of pages.
//
// Page numbers are 1-based and inclusive.  A zero First means "from the
// first page", a zero Last means "to the last page".  If Odd or Even is set,
// only odd or even page numbers within the range are selected.
type PageRange struct {
	First int
	Last  int
	Odd   bool
	Even  bool
}

func (pr PageRange) String() string {
	var res string
	switch {
	case pr.First == 0 && pr.Last == 0:
		res = "all"
	case pr.First == pr.Last:
		res = strconv.Itoa(pr.First)
	case pr.First == 0:
		res = "-" + strconv.Itoa(pr.Last)
	case pr.Last == 0:
		res = strconv.Itoa(pr.First) + "-"
	default:
		res = strconv.Itoa(pr.First) + "-" + strconv.Itoa(pr.Last)
	}
	if pr.Odd {
		res = strings.TrimSuffix(res, "all") + "odd"
	} else if pr.Even {
		res = strings.TrimSuffix(res, "all") + "even"
	}
	return res
}

// Pages returns the page numbers selected by pr, for a document with n pages.
// An [*InputError] is returned if the range does not fit the document.
func (pr PageRange) Pages(n int) ([]int, error) {
	first, last := pr.First, pr.Last
	if first == 0 {
		first = 1
	}
	if last == 0 {
		last = n
	}
	if first < 1 || last > n || first > last {
		return nil, &InputError{
			Msg: fmt.Sprintf("pages %s not in 1-%d", pr, n),
		}
	}

	var res []int
	for p := first; p <= last; p++ {
		if pr.Odd && p%2 == 0 || pr.Even && p%2 == 1 {
			continue
		}
		res = append(res, p)
	}
	return res, nil
}

// ParsePageRange parses a single page selection.  The accepted forms are
// "N", "N-M", "N-", "-M", "all", "odd" and "even".
func ParsePageRange(s string) (PageRange, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "all":
		return PageRange{}, nil
	case "odd":
		return PageRange{Odd: true}, nil
	case "even":
		return PageRange{Even: true}, nil
	}

	invalid := func() (PageRange, error) {
		return PageRange{}, &InputError{Msg: fmt.Sprintf("invalid page range %q", s)}
	}

	before, after, isRange := strings.Cut(s, "-")
	first, err := parsePageNumber(before, isRange)
	if err != nil {
		return invalid()
	}
	if !isRange {
		return PageRange{First: first, Last: first}, nil
	}
	last, err := parsePageNumber(after, true)
	if err != nil || first == 0 && last == 0 {
		return invalid()
	}
	if last != 0 && first > last {
		return invalid()
	}
	return PageRange{First: first, Last: last}, nil
}

// parsePageNumber parses a positive page number, given as a string of
// decimal digits.  The empty string is accepted as zero if optional is set.
func parsePageNumber(s string, optional bool) (int, error) {
	if s == "" && optional {
		return 0, nil
	}
	for _, c := range []byte(s) {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid page number %q", s)
		}
	}
	x, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if x < 1 {
		return 0, fmt.Errorf("invalid page number %d", x)
	}
	return x, nil
}

// ParsePageRanges parses a comma-separated list of page selections, such as
// "1-3,5,8-", and returns the selected page numbers in order, for a
// document with n pages.
func ParsePageRanges(s string, n int) ([]int, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})
	if len(parts) == 0 {
		return nil, &InputError{Msg: "no pages selected"}
	}

	var res []int
	for _, part := range parts {
		pr, err := ParsePageRange(part)
		if err != nil {
			return nil, err
		}
		pages, err := pr.Pages(n)
		if err != nil {
			return nil, err
		}
		res = append(res, pages...)
	}
	return res, nil
}

// SelectPages returns the page objects of r for the given 1-based page
// numbers.
func SelectPages(r pdf.Getter, pageNumbers []int) ([]pdf.Reference, error) {
	all, err := pagetree.FindPages(r)
	if err != nil {
		return nil, err
	}
	res := make([]pdf.Reference, len(pageNumbers))
	for i, p := range pageNumbers {
		if p < 1 || p > len(all) {
			return nil, &InputError{
				Msg: fmt.Sprintf("page %d not in 1-%d", p, len(all)),
			}
		}
		res[i] = all[p-1]
	}
	return res, nil
}
