package core

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Filter matches rows against a keyword. Matching is case-insensitive: both
// the cell text and the query are upper-cased with full Unicode case mapping
// (so "straße" matches "STRASSE").
//
// A Filter is not safe for concurrent use.
type Filter struct {
	query string
	upper cases.Caser
}

// NewFilter prepares query for matching.
func NewFilter(query string) *Filter {
	f := &Filter{upper: cases.Upper(language.Und)}
	f.query = f.upper.String(query)
	return f
}

// Match reports whether any cell of row contains the query. The empty
// query matches every row, including rows with no cells.
func (f *Filter) Match(row Row) bool {
	if f.query == "" {
		return true
	}
	for _, cell := range row {
		if strings.Contains(f.upper.String(cell), f.query) {
			return true
		}
	}
	return false
}

// IsVisible reports whether row should be shown for query.
func IsVisible(row Row, query string) bool {
	return NewFilter(query).Match(row)
}

// Visibility returns one decision per row, in row order.
func Visibility(rows []Row, query string) []bool {
	f := NewFilter(query)
	out := make([]bool, len(rows))
	for i, r := range rows {
		out[i] = f.Match(r)
	}
	return out
}
