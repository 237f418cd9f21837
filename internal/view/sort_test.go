package view

import (
	"reflect"
	"testing"
)

func elapsedRows() []Row {
	return []Row{
		{Name: "b", Date: "01-10-2024", Elapsed: "10 days"},
		{Name: "a", Date: "01-18-2024", Elapsed: "2 days"},
		{Name: "c", Date: "12-25-2023", Elapsed: "26 days"},
		{Name: "d", Date: "oops", Elapsed: InvalidDate},
	}
}

func TestSortBy_TextIsLexicographic(t *testing.T) {
	rows := elapsedRows()

	got := rowNames(SortBy(rows, ColumnElapsed, false))
	// "10 days" < "2 days" < "26 days" < "invalid date" as strings.
	want := []string{"b", "a", "c", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	got = rowNames(SortBy(rows, ColumnDate, false))
	want = []string{"b", "a", "c", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("date text sort: expected %v, got %v", want, got)
	}
}

func TestSortBy_Descending(t *testing.T) {
	got := rowNames(SortBy(elapsedRows(), ColumnEvent, true))
	want := []string{"d", "c", "b", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSortBy_StableAndDoesNotMutate(t *testing.T) {
	rows := []Row{
		{Name: "x", Category: "Work"},
		{Name: "y", Category: ""},
		{Name: "z", Category: "Work"},
	}
	before := append([]Row(nil), rows...)

	got := rowNames(SortBy(rows, ColumnCategory, false))
	want := []string{"y", "x", "z"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if !reflect.DeepEqual(rows, before) {
		t.Error("input slice was modified")
	}
}

func TestSortTypedBy(t *testing.T) {
	rows := elapsedRows()

	got := rowNames(SortTypedBy(rows, ColumnElapsed, false))
	want := []string{"a", "b", "c", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("elapsed typed sort: expected %v, got %v", want, got)
	}

	got = rowNames(SortTypedBy(rows, ColumnDate, false))
	want = []string{"c", "b", "a", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("date typed sort: expected %v, got %v", want, got)
	}

	got = rowNames(SortRows(rows, ColumnEvent, false, SortTyped))
	want = []string{"a", "b", "c", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("event typed sort: expected %v, got %v", want, got)
	}
}

func TestParseColumn(t *testing.T) {
	for _, c := range Columns {
		name := c.String()
		if c == ColumnElapsed {
			name = "elapsed"
		}
		got, err := ParseColumn(name)
		if err != nil || got != c {
			t.Errorf("ParseColumn(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseColumn("color"); err == nil {
		t.Error("expected error for unknown column")
	}
}

func TestParseSortMode(t *testing.T) {
	if m, err := ParseSortMode(""); err != nil || m != SortText {
		t.Errorf("expected text default, got %q, %v", m, err)
	}
	if m, err := ParseSortMode("typed"); err != nil || m != SortTyped {
		t.Errorf("expected typed, got %q, %v", m, err)
	}
	if _, err := ParseSortMode("numeric"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
