package view

import (
	"fmt"
	"strings"
	"time"

	"timecapsule/internal/records"
)

// Span is a calendar difference in whole years, months and days.
type Span struct {
	Years  int
	Months int
	Days   int
}

// Between decomposes the interval from -> to into calendar units, borrowing
// across month ends: Jan 31 -> Mar 1 is 1 month, 1 day. Times of day are
// ignored. If to is before from the span of the reversed interval is returned
// with future set.
func Between(from, to time.Time) (span Span, future bool) {
	from, to = civil(from), civil(to)
	if to.Before(from) {
		from, to = to, from
		future = true
	}

	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	anchor := addMonths(from, months)
	if anchor.After(to) {
		months--
		anchor = addMonths(from, months)
	}

	span.Years = months / 12
	span.Months = months % 12
	span.Days = int(to.Sub(anchor).Hours() / 24)
	return span, future
}

// ElapsedSince renders the calendar time from date to now,
// e.g. "2 years, 1 month, 5 days". Equal dates give "0 days".
func ElapsedSince(date, now time.Time) string {
	span, future := Between(date, now)
	text := span.String()
	if future {
		return "in " + text
	}
	return text
}

// Elapsed parses a MM-DD-YYYY date and renders ElapsedSince for it.
func Elapsed(date string, now time.Time) (string, error) {
	d, err := records.ParseDate(date)
	if err != nil {
		return "", err
	}
	return ElapsedSince(d, now), nil
}

func (s Span) String() string {
	var parts []string
	if s.Years != 0 {
		parts = append(parts, plural(s.Years, "year"))
	}
	if s.Months != 0 {
		parts = append(parts, plural(s.Months, "month"))
	}
	if s.Days != 0 {
		parts = append(parts, plural(s.Days, "day"))
	}
	if len(parts) == 0 {
		return "0 days"
	}
	return strings.Join(parts, ", ")
}

func plural(n int, unit string) string {
	if n > 1 {
		return fmt.Sprintf("%d %ss", n, unit)
	}
	return fmt.Sprintf("%d %s", n, unit)
}

// civil drops the time of day, keeping the calendar date as seen in t's location.
func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// addMonths adds n months to t, clamping the day to the end of the target month.
func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	lastDay := time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}
