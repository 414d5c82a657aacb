// Package textview prints a table view to a terminal.
package textview

import (
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/csvtable/internal/core"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-runewidth"
)

// Output formats.
const (
	FormatTable    = "table"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
)

// Options controls rendering.
type Options struct {
	// Format is one of FormatTable (default), FormatCSV or FormatMarkdown.
	Format string

	// MaxCellWidth truncates wider cells by display width; 0 means no limit.
	// CSV output is never truncated.
	MaxCellWidth int
}

// Render writes the header and the visible rows of v to w. Hidden rows are
// skipped; the order of the rest is kept.
func Render(w io.Writer, v core.View, opts Options) error {
	switch strings.ToLower(opts.Format) {
	case "", FormatTable:
		return renderTable(w, v, opts, false)
	case FormatMarkdown, "md":
		return renderTable(w, v, opts, true)
	case FormatCSV:
		return renderCSV(w, v)
	default:
		return fmt.Errorf("unknown format %q", opts.Format)
	}
}

func renderTable(w io.Writer, v core.View, opts Options, markdown bool) error {
	if v.Empty() {
		_, err := fmt.Fprintln(w, "(0 rows)")
		return err
	}

	t := table.NewWriter()
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	t.SetStyle(style)

	if len(v.Header) > 0 {
		t.AppendHeader(toPretty(v.Header, opts.MaxCellWidth))
	}
	for _, r := range v.VisibleRows() {
		t.AppendRow(toPretty(r, opts.MaxCellWidth))
	}

	var out string
	if markdown {
		out = t.RenderMarkdown()
	} else {
		out = t.Render()
	}
	_, err := fmt.Fprintf(w, "%s\n(%d of %d rows)\n", out, v.Visible, len(v.Rows))
	return err
}

func renderCSV(w io.Writer, v core.View) error {
	t := core.Table{Header: v.Header, Rows: v.VisibleRows()}
	s := t.String()
	if s == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, s)
	return err
}

// toPretty converts a row for go-pretty, truncating cells to limit columns.
func toPretty(r core.Row, limit int) table.Row {
	out := make(table.Row, len(r))
	for i, cell := range r {
		out[i] = Truncate(cell, limit)
	}
	return out
}

// Truncate shortens s to at most limit display columns, ending in an
// ellipsis when cut. A non-positive limit leaves s unchanged.
func Truncate(s string, limit int) string {
	if limit <= 0 || runewidth.StringWidth(s) <= limit {
		return s
	}
	return runewidth.Truncate(s, limit, "…")
}
