package core

// sort.go implements the numeric row sort.
//
// Rows are ordered by the float value of one column using an in-place
// partition-exchange sort with the last element of each range as pivot.
// Descending order is produced by reversing the ascending result, so equal
// keys also swap their relative order. The sort is not stable.

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidDirection is returned by ParseDirection for unknown values.
var ErrInvalidDirection = errors.New("invalid sort direction")

// DefaultSortColumn is the column sorted when none is configured: the 4th.
const DefaultSortColumn = 3

// Direction is a sort order.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection accepts exactly "asc" or "desc".
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Ascending, Descending:
		return Direction(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}

// SortKey selects the column and direction of a sort.
type SortKey struct {
	Column    int       `json:"column"`
	Direction Direction `json:"direction"`
}

// numberPrefix matches the longest leading decimal literal, the way a
// browser's parseFloat reads "3.5 stars" as 3.5.
var numberPrefix = regexp.MustCompile(`^[+-]?(?:Infinity|(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?)`)

// ParseNumber reads the leading number of s. Leading whitespace is ignored
// and trailing text after the number is discarded. Text without a leading
// number yields NaN. Out-of-range values saturate to ±Inf.
func ParseNumber(s string) float64 {
	m := numberPrefix.FindString(strings.TrimLeftFunc(s, isLeadingSpace))
	if m == "" {
		return math.NaN()
	}
	m = strings.Replace(m, "Infinity", "Inf", 1)

	v, err := strconv.ParseFloat(m, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return v
}

// isLeadingSpace matches what parseFloat skips: Unicode spaces, line and
// paragraph separators and the byte order mark, but not U+0085.
func isLeadingSpace(r rune) bool {
	if r == '\uFEFF' {
		return true
	}
	return r != '\u0085' && unicode.IsSpace(r)
}

// NumericKey returns the sort key of row for column. Missing cells count as 0.
func NumericKey(row Row, column int) float64 {
	if column < 0 || column >= len(row) {
		return 0
	}
	return ParseNumber(row[column])
}

// keyLE is the partition comparison. NaN on the left never compares
// less-or-equal; any number compares less-or-equal to a NaN pivot. Together
// these place every NaN key after every number.
func keyLE(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a <= b
}

// SortRows orders rows in place by the numeric value of column. The header
// must not be part of rows. Whole rows move together.
func SortRows(rows []Row, column int, dir Direction) {
	if len(rows) > 1 {
		keys := make([]float64, len(rows))
		for i, r := range rows {
			keys[i] = NumericKey(r, column)
		}
		quickSort(rows, keys, 0, len(rows)-1)
	}

	if dir == Descending {
		reverseRows(rows)
	}
}

// quickSort sorts rows[low..high] inclusive. keys[i] always belongs to
// rows[i]; both slices are swapped together. It recurses into the smaller
// side and iterates over the larger one.
func quickSort(rows []Row, keys []float64, low, high int) {
	for low < high {
		p := partition(rows, keys, low, high)

		if p-low < high-p {
			quickSort(rows, keys, low, p-1)
			low = p + 1
		} else {
			quickSort(rows, keys, p+1, high)
			high = p - 1
		}
	}
}

// partition uses rows[high] as pivot. On return rows[low..p-1] have keys
// <= pivot, rows[p+1..high] have keys > pivot and the pivot row is at p.
func partition(rows []Row, keys []float64, low, high int) int {
	pivot := keys[high]
	i := low - 1

	for j := low; j < high; j++ {
		if keyLE(keys[j], pivot) {
			i++
			swapRows(rows, keys, i, j)
		}
	}

	swapRows(rows, keys, i+1, high)
	return i + 1
}

func swapRows(rows []Row, keys []float64, i, j int) {
	rows[i], rows[j] = rows[j], rows[i]
	keys[i], keys[j] = keys[j], keys[i]
}

func reverseRows(rows []Row) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}
