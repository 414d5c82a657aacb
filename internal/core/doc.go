// Package core holds the table logic behind the CSV viewer, independent of
// HTTP or terminal output.
//
// # Model
//
// A [Table] is a header [Row] followed by data rows. A [TableStore] keeps the
// table a page works on; a [Controller] owns one store together with the
// page's filter query and last sort, and a [Service] keeps one controller per
// browser session.
//
// # Loading
//
// [Parse] splits text on newlines and commas with no quoting rules: a comma
// inside a quoted field is split like any other. [QuotedLoader] is available
// for files that need real CSV quoting. Loading never fails; bad input gives
// an empty or partial table.
//
// # Sorting
//
// [SortRows] orders data rows by the numeric value of one column with an
// in-place quicksort that always pivots on the last element of the range.
// Cells that do not start with a number sort after every numeric cell;
// missing cells count as 0. Descending order is the ascending result
// reversed. The sort is not stable.
//
// # Filtering
//
// [IsVisible] matches a keyword against every cell, ignoring case. Filtering
// only decides visibility; it never reorders rows.
package core
