package records

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the fixed textual form of every stored date (MM-DD-YYYY).
const DateLayout = "01-02-2006"

// DateRecord is one named date with its notes and category.
type DateRecord struct {
	Name     string `json:"-" yaml:"name"`
	Date     string `json:"date" yaml:"date"`
	Notes    string `json:"notes" yaml:"notes"`
	Category string `json:"category" yaml:"category"`
}

// ParseDate parses a MM-DD-YYYY date. The result is midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use MM-DD-YYYY", s)
	}
	return t, nil
}

// FormatDate formats t as MM-DD-YYYY.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Time returns the parsed record date.
func (r DateRecord) Time() (time.Time, error) {
	return ParseDate(r.Date)
}

func (r DateRecord) String() string {
	s := fmt.Sprintf("%s (%s)", r.Name, r.Date)
	if r.Category != "" {
		s += " [" + r.Category + "]"
	}
	return s
}

// Records is an insertion-ordered mapping of event name to DateRecord.
type Records struct {
	names  []string
	byName map[string]DateRecord
}

// NewRecords returns an empty collection.
func NewRecords() *Records {
	return &Records{byName: make(map[string]DateRecord)}
}

// Len returns the number of records.
func (r *Records) Len() int {
	return len(r.names)
}

// Has reports whether a record named name exists.
func (r *Records) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Get returns the record stored under name.
func (r *Records) Get(name string) (DateRecord, bool) {
	rec, ok := r.byName[name]
	return rec, ok
}

// Upsert inserts rec, or replaces the record with the same name in place.
func (r *Records) Upsert(rec DateRecord) {
	if _, exists := r.byName[rec.Name]; !exists {
		r.names = append(r.names, rec.Name)
	}
	r.byName[rec.Name] = rec
}

// Delete removes the record named name. Missing names are ignored.
func (r *Records) Delete(name string) bool {
	if _, ok := r.byName[name]; !ok {
		return false
	}
	delete(r.byName, name)
	for i, n := range r.names {
		if n == name {
			r.names = append(r.names[:i], r.names[i+1:]...)
			break
		}
	}
	return true
}

// Names returns the record names in insertion order.
func (r *Records) Names() []string {
	return append([]string(nil), r.names...)
}

// All returns the records in insertion order.
func (r *Records) All() []DateRecord {
	out := make([]DateRecord, 0, len(r.names))
	for _, n := range r.names {
		out = append(out, r.byName[n])
	}
	return out
}

// Merge upserts every record of other into r, in other's order.
func (r *Records) Merge(other *Records) {
	for _, rec := range other.All() {
		r.Upsert(rec)
	}
}

// Clone returns a deep copy.
func (r *Records) Clone() *Records {
	c := NewRecords()
	c.Merge(r)
	return c
}
