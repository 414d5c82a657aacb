package core

import "strings"

// Row is one table line: an ordered sequence of cell values.
type Row []string

// Cell returns the value at column i, or "" when the row is too short.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// Clone returns a copy of the row that shares no storage with r.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// Table is a header row plus the data rows in their current order.
// A Table with a nil Header and no Rows is the empty table.
type Table struct {
	Header Row
	Rows   []Row
}

// Empty reports whether the table has neither a header nor data rows.
func (t Table) Empty() bool {
	return len(t.Header) == 0 && len(t.Rows) == 0
}

// Len returns the number of rows including the header.
func (t Table) Len() int {
	if t.Header == nil {
		return len(t.Rows)
	}
	return len(t.Rows) + 1
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := Table{Header: t.Header.Clone()}
	if t.Rows != nil {
		out.Rows = make([]Row, len(t.Rows))
		for i, r := range t.Rows {
			out.Rows[i] = r.Clone()
		}
	}
	return out
}

// String joins cells with commas and rows with newlines, the inverse of the
// naive loader for tables without embedded commas or newlines.
func (t Table) String() string {
	lines := make([]string, 0, t.Len())
	if t.Header != nil {
		lines = append(lines, strings.Join(t.Header, ","))
	}
	for _, r := range t.Rows {
		lines = append(lines, strings.Join(r, ","))
	}
	return strings.Join(lines, "\n")
}

// TableStore holds the one table a page works on. The header stays at
// position 0; data rows follow in load or last-sort order.
//
// TableStore is not safe for concurrent use; the owning Controller
// serializes access.
type TableStore struct {
	table Table
}

// NewTableStore returns an empty store.
func NewTableStore() *TableStore {
	return &TableStore{}
}

// Replace swaps in a freshly loaded table, discarding the previous one.
func (s *TableStore) Replace(t Table) {
	s.table = t
}

// Header returns the header row.
func (s *TableStore) Header() Row {
	return s.table.Header
}

// DataRows returns the data rows in their current order. The slice is the
// store's own; sorting it in place reorders the store.
func (s *TableStore) DataRows() []Row {
	return s.table.Rows
}

// Snapshot returns a deep copy of the current table.
func (s *TableStore) Snapshot() Table {
	return s.table.Clone()
}

// Len returns the number of rows including the header.
func (s *TableStore) Len() int {
	return s.table.Len()
}
