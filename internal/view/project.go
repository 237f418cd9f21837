package view

import (
	"strings"
	"time"

	"golang.org/x/text/cases"

	"timecapsule/internal/records"
)

// InvalidDate is shown in place of the elapsed time when a stored date does not parse.
const InvalidDate = "invalid date"

// Row is one projected, display-ready record.
type Row struct {
	Name     string
	Date     string
	Elapsed  string
	Notes    string
	Category string
	Color    string
}

var fold = cases.Fold()

// Matches reports whether query is a case-insensitive substring of the
// record's name, notes or category. An empty query matches everything.
func Matches(rec records.DateRecord, query string) bool {
	if query == "" {
		return true
	}
	q := fold.String(query)
	return strings.Contains(fold.String(rec.Name), q) ||
		strings.Contains(fold.String(rec.Notes), q) ||
		strings.Contains(fold.String(rec.Category), q)
}

// Filter projects the matching records into rows, in insertion order.
// Categories that do not exist render with records.DefaultColor.
func Filter(recs *records.Records, cats *records.Categories, query string, now time.Time) []Row {
	rows := []Row{}
	for _, rec := range recs.All() {
		if !Matches(rec, query) {
			continue
		}
		rows = append(rows, ProjectRecord(rec, cats, now))
	}
	return rows
}

// ProjectRecord builds the row for a single record.
func ProjectRecord(rec records.DateRecord, cats *records.Categories, now time.Time) Row {
	elapsed, err := Elapsed(rec.Date, now)
	if err != nil {
		elapsed = InvalidDate
	}
	color := records.DefaultColor
	if cats != nil {
		color = cats.Color(rec.Category)
	}
	return Row{
		Name:     rec.Name,
		Date:     rec.Date,
		Elapsed:  elapsed,
		Notes:    rec.Notes,
		Category: rec.Category,
		Color:    color,
	}
}
