package core

// ViewRow is one data row as the renderer sees it.
type ViewRow struct {
	Cells  Row  `json:"cells"`
	Hidden bool `json:"hidden"`
}

// View is everything a renderer needs to paint the table: the header, the
// data rows in current order with their visibility, and the active controls.
// Hidden rows are included so a renderer can suppress them without changing
// row order.
type View struct {
	FileName   string    `json:"file_name,omitempty"`
	Header     Row       `json:"header"`
	Rows       []ViewRow `json:"rows"`
	Query      string    `json:"query"`
	Sort       *SortKey  `json:"sort,omitempty"`
	SortColumn int       `json:"sort_column"`
	Visible    int       `json:"visible"`
}

// NewView combines a table with a filter query.
func NewView(t Table, query string) View {
	v := View{
		Header: t.Header.Clone(),
		Rows:   make([]ViewRow, len(t.Rows)),
		Query:  query,
	}

	f := NewFilter(query)
	for i, r := range t.Rows {
		show := f.Match(r)
		v.Rows[i] = ViewRow{Cells: r.Clone(), Hidden: !show}
		if show {
			v.Visible++
		}
	}
	return v
}

// Empty reports whether there is nothing to paint.
func (v View) Empty() bool {
	return len(v.Header) == 0 && len(v.Rows) == 0
}

// VisibleRows returns the rows that are not hidden, in order.
func (v View) VisibleRows() []Row {
	out := make([]Row, 0, v.Visible)
	for _, r := range v.Rows {
		if !r.Hidden {
			out = append(out, r.Cells)
		}
	}
	return out
}

// Columns returns the widest row length, header included.
func (v View) Columns() int {
	n := len(v.Header)
	for _, r := range v.Rows {
		if len(r.Cells) > n {
			n = len(r.Cells)
		}
	}
	return n
}
