package view

import (
	"fmt"
	"slices"
	"strings"

	"timecapsule/internal/records"
)

// Column identifies a displayed column of the dates table.
type Column int

const (
	ColumnEvent Column = iota
	ColumnDate
	ColumnElapsed
	ColumnNotes
	ColumnCategory
)

// Columns lists every column in display order.
var Columns = []Column{ColumnEvent, ColumnDate, ColumnElapsed, ColumnNotes, ColumnCategory}

func (c Column) String() string {
	switch c {
	case ColumnEvent:
		return "Event"
	case ColumnDate:
		return "Date"
	case ColumnElapsed:
		return "Time Since"
	case ColumnNotes:
		return "Notes"
	case ColumnCategory:
		return "Category"
	}
	return "Unknown"
}

// ParseColumn maps a column name (event, date, elapsed, notes, category) to a Column.
func ParseColumn(name string) (Column, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "event", "name":
		return ColumnEvent, nil
	case "date":
		return ColumnDate, nil
	case "elapsed", "since", "time since":
		return ColumnElapsed, nil
	case "notes":
		return ColumnNotes, nil
	case "category":
		return ColumnCategory, nil
	}
	return 0, fmt.Errorf("unknown column %q (event, date, elapsed, notes, category)", name)
}

// Text returns the displayed text of column c in r.
func (r Row) Text(c Column) string {
	switch c {
	case ColumnEvent:
		return r.Name
	case ColumnDate:
		return r.Date
	case ColumnElapsed:
		return r.Elapsed
	case ColumnNotes:
		return r.Notes
	case ColumnCategory:
		return r.Category
	}
	return ""
}

// SortMode selects how SortRows compares rows.
type SortMode string

const (
	// SortText compares the displayed text of every column, so "10 days"
	// sorts before "2 days" and dates sort month first.
	SortText SortMode = "text"
	// SortTyped compares the Date and Time Since columns by the underlying date.
	SortTyped SortMode = "typed"
)

// ParseSortMode validates a sort mode name. Empty means SortText.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(s) {
	case "", SortText:
		return SortText, nil
	case SortTyped:
		return SortTyped, nil
	}
	return "", fmt.Errorf("unknown sort mode %q (text, typed)", s)
}

// SortBy orders rows by the displayed text of column. Rows with equal text
// keep their relative order. The input slice is not modified.
func SortBy(rows []Row, column Column, descending bool) []Row {
	return sortRows(rows, descending, func(a, b Row) int {
		return strings.Compare(a.Text(column), b.Text(column))
	})
}

// SortTypedBy orders Date and Time Since by calendar date; other columns as SortBy.
// In ascending order, rows whose date does not parse come after all valid dates.
func SortTypedBy(rows []Row, column Column, descending bool) []Row {
	switch column {
	case ColumnDate:
		return sortRows(rows, descending, func(a, b Row) int {
			return compareDates(a, b, false)
		})
	case ColumnElapsed:
		// Older dates have more time elapsed.
		return sortRows(rows, descending, func(a, b Row) int {
			return compareDates(a, b, true)
		})
	}
	return SortBy(rows, column, descending)
}

// SortRows dispatches on mode.
func SortRows(rows []Row, column Column, descending bool, mode SortMode) []Row {
	if mode == SortTyped {
		return SortTypedBy(rows, column, descending)
	}
	return SortBy(rows, column, descending)
}

func sortRows(rows []Row, descending bool, cmp func(a, b Row) int) []Row {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b Row) int {
		if descending {
			return cmp(b, a)
		}
		return cmp(a, b)
	})
	return out
}

func compareDates(a, b Row, newestFirst bool) int {
	ta, errA := records.ParseDate(a.Date)
	tb, errB := records.ParseDate(b.Date)
	switch {
	case errA != nil && errB != nil:
		return strings.Compare(a.Date, b.Date)
	case errA != nil:
		return 1
	case errB != nil:
		return -1
	}
	if newestFirst {
		return tb.Compare(ta)
	}
	return ta.Compare(tb)
}
