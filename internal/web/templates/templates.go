// Package templates renders the table page and its fragments.
//
// Components implement templ.Component so handlers can render them into a
// response or hand them to a datastar patch. Every piece of user data goes
// through templ.EscapeString.
package templates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/csvtable/internal/core"
	"github.com/a-h/templ"
)

// Element IDs targeted by datastar patches.
const (
	TableID = "data-table"
	AlertID = "alert"
)

// DatastarScript is the client bundle loaded by the page.
const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

const pageStyle = `body{font-family:system-ui,sans-serif;margin:2rem;color:#222}
form{display:inline-block;margin:0 1rem 1rem 0}
table{border-collapse:collapse;margin-top:.5rem}
th,td{border:1px solid #ccc;padding:.25rem .5rem;text-align:left}
th.sorted{background:#eef}
.status{color:#555;font-size:.9rem}
.alert{border:1px solid #c33;background:#fee;padding:.5rem;margin-bottom:1rem}`

// Page renders the full document for v.
func Page(v core.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
		b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		b.WriteString(`<title>CSV Table</title>`)
		fmt.Fprintf(&b, `<script type="module" src="%s"></script>`, DatastarScript)
		fmt.Fprintf(&b, `<style>%s</style></head><body><main><h1>CSV Table</h1>`, pageStyle)
		fmt.Fprintf(&b, `<div id="%s"></div>`, AlertID)

		b.WriteString(`<form method="post" action="/load" enctype="multipart/form-data"`)
		b.WriteString(` data-on:submit__prevent="@post('/load', {contentType: 'form'})">`)
		b.WriteString(`<input type="file" name="file" accept=".csv,text/csv">`)
		b.WriteString(`<button type="submit">Load</button></form>`)

		fmt.Fprintf(&b, `<form method="get" action="/filter" data-signals:query="%s">`, templ.EscapeString(jsString(v.Query)))
		fmt.Fprintf(&b, `<input type="search" name="q" value="%s" placeholder="Search" aria-label="Search rows"`, templ.EscapeString(v.Query))
		b.WriteString(` data-bind:query data-on:input__debounce.200ms="@get('/filter')">`)
		b.WriteString(`<noscript><button type="submit">Filter</button></noscript></form>`)

		b.WriteString(`<form method="post" action="/sort">`)
		b.WriteString(`<button type="submit" name="dir" value="asc" data-on:click__prevent="@post('/sort?dir=asc')">Sort ascending</button> `)
		b.WriteString(`<button type="submit" name="dir" value="desc" data-on:click__prevent="@post('/sort?dir=desc')">Sort descending</button>`)
		b.WriteString(`</form>`)

		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := TablePartial(v).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

// TablePartial renders the status line and the table. It is the element
// replaced after every load, sort and filter.
func TablePartial(v core.View) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, `<div id="%s">`, TableID)
		fmt.Fprintf(&b, `<p class="status">%s</p>`, templ.EscapeString(Status(v)))
		writeTable(&b, v)
		b.WriteString(`</div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// writeTable emits every data row in order. Rows that fail the filter stay
// in the markup with display:none.
func writeTable(b *strings.Builder, v core.View) {
	b.WriteString(`<table>`)

	if len(v.Header) > 0 {
		sorted := -1
		if v.Sort != nil {
			sorted = v.Sort.Column
		}
		b.WriteString(`<thead><tr>`)
		for i, h := range v.Header {
			if i == sorted {
				fmt.Fprintf(b, `<th class="sorted" aria-sort="%s">%s</th>`, directionWord(v.Sort.Direction), templ.EscapeString(h))
				continue
			}
			fmt.Fprintf(b, `<th>%s</th>`, templ.EscapeString(h))
		}
		b.WriteString(`</tr></thead>`)
	}

	b.WriteString(`<tbody>`)
	for _, r := range v.Rows {
		if r.Hidden {
			b.WriteString(`<tr style="display:none">`)
		} else {
			b.WriteString(`<tr>`)
		}
		for _, cell := range r.Cells {
			fmt.Fprintf(b, `<td>%s</td>`, templ.EscapeString(cell))
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table>`)
}

// Status describes what the table currently shows.
func Status(v core.View) string {
	if v.Empty() {
		return "No file loaded."
	}

	var parts []string
	if v.FileName != "" {
		parts = append(parts, v.FileName)
	}
	parts = append(parts, fmt.Sprintf("showing %d of %d rows", v.Visible, len(v.Rows)))
	if v.Query != "" {
		parts = append(parts, fmt.Sprintf("matching %q", v.Query))
	}
	if v.Sort != nil {
		parts = append(parts, fmt.Sprintf("sorted by %s %s", columnName(v, v.Sort.Column), directionWord(v.Sort.Direction)))
	}
	return strings.Join(parts, ", ")
}

// ErrorAlert renders a user-facing error in the alert slot.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, `<div id="%s" class="alert" role="alert"><strong>%s</strong>`, AlertID, templ.EscapeString(message))
		if code != "" {
			fmt.Fprintf(&b, ` <small>(Code: %s)</small>`, templ.EscapeString(code))
		}
		if action != "" {
			fmt.Fprintf(&b, `<p>%s</p>`, templ.EscapeString(action))
		}
		b.WriteString(`</div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// ClearAlert renders the empty alert slot.
func ClearAlert() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div id="%s"></div>`, AlertID)
		return err
	})
}

func columnName(v core.View, col int) string {
	if name := v.Header.Cell(col); name != "" {
		return name
	}
	return fmt.Sprintf("column %d", col)
}

func directionWord(d core.Direction) string {
	if d == core.Descending {
		return "descending"
	}
	return "ascending"
}

// jsString quotes s as a JavaScript string literal for a datastar expression.
func jsString(s string) string {
	out, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(out)
}
