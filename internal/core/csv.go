package core

// csv.go turns raw CSV text into a Table.
//
// The default loader is deliberately naive: lines are split on '\n' and cells
// on ',' with no quoting rules, so a comma inside a quoted field is mis-split.
// QuotedLoader is the opt-in alternative for files that need RFC 4180 quoting.

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrFileTooLarge is returned by ReadText when the input exceeds its limit.
var ErrFileTooLarge = errors.New("file too large")

// utf8BOM is the byte order mark some Windows programs put at the start of a file.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Loader converts raw CSV text into a Table. Implementations never fail:
// malformed input degrades to an empty or partial table.
type Loader interface {
	Load(raw string) Table
}

// Parser names accepted by NewLoader.
const (
	ParserNaive  = "naive"
	ParserQuoted = "quoted"
)

// NewLoader returns the loader registered under name.
func NewLoader(name string) (Loader, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ParserNaive:
		return NaiveLoader{}, nil
	case ParserQuoted:
		return QuotedLoader{}, nil
	default:
		return nil, fmt.Errorf("unknown csv parser %q", name)
	}
}

// NaiveLoader splits on newlines and commas.
type NaiveLoader struct{}

// Load implements Loader.
func (NaiveLoader) Load(raw string) Table {
	return Parse(raw)
}

// Parse splits raw into a header row and data rows.
//
// The first line always becomes the header, even when blank: a blank first
// line is a header of one empty cell. Each following line becomes a data
// row; empty data lines split into zero cells and are skipped. Carriage
// returns are kept as cell content. Empty input yields the empty table.
func Parse(raw string) Table {
	if raw == "" {
		return Table{}
	}

	lines := strings.Split(raw, "\n")
	t := Table{Header: Row(strings.Split(lines[0], ","))}

	for _, line := range lines[1:] {
		cells := splitCells(line)
		if len(cells) == 0 {
			continue
		}
		t.Rows = append(t.Rows, cells)
	}

	return t
}

// splitCells splits one data line on commas. An empty line has no cells.
func splitCells(line string) Row {
	if line == "" {
		return nil
	}
	return Row(strings.Split(line, ","))
}

// QuotedLoader parses with encoding/csv: quoted fields, embedded commas and
// CRLF line endings are honoured. Rows may have differing lengths. Parsing
// stops at the first malformed record, keeping the rows read so far.
type QuotedLoader struct{}

// Load implements Loader.
func (QuotedLoader) Load(raw string) Table {
	if raw == "" {
		return Table{}
	}

	r := csv.NewReader(strings.NewReader(raw))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var t Table
	for {
		rec, err := r.Read()
		if err != nil {
			// io.EOF or a parse error; either way keep what we have.
			break
		}
		if t.Header == nil {
			t.Header = Row(rec)
			continue
		}
		t.Rows = append(t.Rows, Row(rec))
	}
	return t
}

// ReadText reads an uploaded file into a string. A leading UTF-8 BOM is
// dropped and invalid UTF-8 sequences are replaced with U+FFFD. When limit is
// positive and the input is longer, ErrFileTooLarge is returned.
func ReadText(r io.Reader, limit int64) (string, error) {
	br := bufio.NewReader(r)

	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return "", fmt.Errorf("skip bom: %w", err)
		}
	}

	var src io.Reader = br
	if limit > 0 {
		src = io.LimitReader(br, limit+1)
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("read csv: %w", err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return "", fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, limit)
	}

	return strings.ToValidUTF8(string(data), "\uFFFD"), nil
}
