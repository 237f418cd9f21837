package view

import (
	"testing"
	"time"

	"timecapsule/internal/records"
)

var fixedNow = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func sampleData() (*records.Records, *records.Categories) {
	recs := records.NewRecords()
	recs.Upsert(records.DateRecord{Name: "Wedding", Date: "01-31-2024", Notes: "Lake house", Category: "Family"})
	recs.Upsert(records.DateRecord{Name: "First job", Date: "03-01-2021", Notes: "", Category: "Work"})
	recs.Upsert(records.DateRecord{Name: "Moved to Berlin", Date: "bad-date", Notes: "STRASSE", Category: "Gone"})
	recs.Upsert(records.DateRecord{Name: "Quit smoking", Date: "02-20-2024"})

	cats := records.NewCategories()
	cats.Set("Family", "#ff0000")
	cats.Set("Work", "#0000ff")
	return recs, cats
}

func rowNames(rows []Row) []string {
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	return names
}

func TestFilter_EmptyQueryReturnsAllInOrder(t *testing.T) {
	recs, cats := sampleData()

	rows := Filter(recs, cats, "", fixedNow)
	if len(rows) != recs.Len() {
		t.Fatalf("expected %d rows, got %d", recs.Len(), len(rows))
	}
	for i, name := range recs.Names() {
		if rows[i].Name != name {
			t.Errorf("row %d: expected %q, got %q", i, name, rows[i].Name)
		}
	}
}

func TestFilter_NoMatch(t *testing.T) {
	recs, cats := sampleData()

	rows := Filter(recs, cats, "xyz", fixedNow)
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %v", rowNames(rows))
	}
}

func TestFilter_MatchesAnyField(t *testing.T) {
	recs, cats := sampleData()

	tests := []struct {
		query string
		want  []string
	}{
		{"wedding", []string{"Wedding"}},
		{"LAKE", []string{"Wedding"}},
		{"work", []string{"First job"}},
		{"straße", []string{"Moved to Berlin"}},
		{"i", []string{"Wedding", "First job", "Moved to Berlin", "Quit smoking"}},
	}

	for _, tt := range tests {
		got := rowNames(Filter(recs, cats, tt.query, fixedNow))
		if len(got) != len(tt.want) {
			t.Errorf("query %q: expected %v, got %v", tt.query, tt.want, got)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("query %q: expected %v, got %v", tt.query, tt.want, got)
				break
			}
		}
	}
}

func TestFilter_RowContents(t *testing.T) {
	recs, cats := sampleData()
	rows := Filter(recs, cats, "", fixedNow)

	wedding := rows[0]
	if wedding.Elapsed != "1 month, 1 day" {
		t.Errorf("expected elapsed \"1 month, 1 day\", got %q", wedding.Elapsed)
	}
	if wedding.Color != "#ff0000" {
		t.Errorf("expected category color, got %q", wedding.Color)
	}

	moved := rows[2]
	if moved.Elapsed != InvalidDate {
		t.Errorf("expected %q for unparsable date, got %q", InvalidDate, moved.Elapsed)
	}
	if moved.Color != records.DefaultColor {
		t.Errorf("expected default color for dangling category, got %q", moved.Color)
	}
	if moved.Category != "Gone" {
		t.Errorf("expected category text kept, got %q", moved.Category)
	}

	if rows[3].Color != records.DefaultColor {
		t.Errorf("expected default color for uncategorized, got %q", rows[3].Color)
	}
}

func TestFilter_NilCategories(t *testing.T) {
	recs, _ := sampleData()
	rows := Filter(recs, nil, "", fixedNow)
	for _, r := range rows {
		if r.Color != records.DefaultColor {
			t.Errorf("expected default color, got %q", r.Color)
		}
	}
}
