package records

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	store := NewDateStore(filepath.Join(t.TempDir(), "important_dates.json"))

	recs, err := store.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recs.Len() != 0 {
		t.Errorf("expected empty records, got %d", recs.Len())
	}
}

func TestLoad_LegacyUpcast(t *testing.T) {
	path := filepath.Join(t.TempDir(), "important_dates.json")
	writeFile(t, path, `{"Birthday": "01-01-2000"}`)

	recs, err := NewDateStore(path).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := recs.Get("Birthday")
	if !ok {
		t.Fatal("expected Birthday record")
	}
	want := DateRecord{Name: "Birthday", Date: "01-01-2000", Notes: "", Category: ""}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	// The upcast is in memory only until the next save.
	raw, _ := os.ReadFile(path)
	if string(raw) != `{"Birthday": "01-01-2000"}` {
		t.Errorf("load must not rewrite the file, got %s", raw)
	}
}

func TestLoad_MixedShapesKeepOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "important_dates.json")
	writeFile(t, path, `{
    "Wedding": {"date": "06-15-2015", "notes": "Lake house", "category": "Family"},
    "Birthday": "01-01-2000",
    "First job": {"date": "09-01-2010", "notes": ""}
}`)

	recs, err := NewDateStore(path).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"Wedding", "Birthday", "First job"}
	if !reflect.DeepEqual(recs.Names(), want) {
		t.Errorf("expected order %v, got %v", want, recs.Names())
	}
	job, _ := recs.Get("First job")
	if job.Category != "" {
		t.Errorf("expected missing category to default to empty, got %q", job.Category)
	}
}

func TestLoad_Corrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed", `{"Birthday": `},
		{"empty file", ``},
		{"array", `["01-01-2000"]`},
		{"number value", `{"Birthday": 12}`},
		{"object without date", `{"Birthday": {"notes": "x"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "important_dates.json")
			writeFile(t, path, tt.content)

			_, err := NewDateStore(path).Load()
			if !errors.Is(err, ErrCorrupt) {
				t.Fatalf("expected ErrCorrupt, got %v", err)
			}
			var ce *CorruptError
			if !errors.As(err, &ce) || ce.Path != path {
				t.Errorf("expected CorruptError for %s, got %v", path, err)
			}
		})
	}
}

func TestSave_WritesIndentedFullShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "important_dates.json")
	recs := NewRecords()
	recs.Upsert(DateRecord{Name: "Birthday", Date: "01-01-2000"})

	if err := NewDateStore(path).Save(recs); err != nil {
		t.Fatalf("save error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	want := `{
    "Birthday": {
        "date": "01-01-2000",
        "notes": "",
        "category": ""
    }
}
`
	if string(raw) != want {
		t.Errorf("unexpected file content:\n%s", raw)
	}
}

func TestSave_UpsertKeepsPosition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "important_dates.json")
	store := NewDateStore(path)

	recs := NewRecords()
	recs.Upsert(DateRecord{Name: "A", Date: "01-01-2001"})
	recs.Upsert(DateRecord{Name: "B", Date: "01-01-2002"})
	recs.Upsert(DateRecord{Name: "A", Date: "02-02-2001", Notes: "changed"})

	if err := store.Save(recs); err != nil {
		t.Fatalf("save error: %v", err)
	}
	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if !reflect.DeepEqual(loaded.Names(), []string{"A", "B"}) {
		t.Errorf("expected [A B], got %v", loaded.Names())
	}
	a, _ := loaded.Get("A")
	if a.Notes != "changed" || a.Date != "02-02-2001" {
		t.Errorf("expected replaced record, got %+v", a)
	}
}

func TestSave_UnwritableDestination(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	writeFile(t, blocker, "x")

	// A regular file where a directory is expected.
	err := NewDateStore(filepath.Join(blocker, "important_dates.json")).Save(NewRecords())
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestQuarantine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "important_dates.json")
	writeFile(t, path, "{broken")

	moved, err := Quarantine(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(moved, path+".corrupt-") {
		t.Errorf("unexpected quarantine path %q", moved)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected original to be gone, got %v", err)
	}

	recs, err := NewDateStore(path).Load()
	if err != nil || recs.Len() != 0 {
		t.Errorf("expected empty store after quarantine, got %d, %v", recs.Len(), err)
	}
}

func TestCategoryStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.json")
	store := NewCategoryStore(path)

	cats := NewCategories()
	cats.Set("Family", "#ff8800")
	cats.Set("Work", "#0000FF")
	if err := store.Save(cats); err != nil {
		t.Fatalf("save error: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if !reflect.DeepEqual(loaded, cats) {
		t.Errorf("expected %+v, got %+v", cats.All(), loaded.All())
	}
}

func TestCategoryStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.json")
	writeFile(t, path, `{"Family": {"color": "#ffffff"}}`)

	if _, err := NewCategoryStore(path).Load(); !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}

func dateGen() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		m := rapid.IntRange(1, 12).Draw(t, "month")
		d := rapid.IntRange(1, 28).Draw(t, "day")
		y := rapid.IntRange(1900, 2100).Draw(t, "year")
		return fmt.Sprintf("%02d-%02d-%04d", m, d, y)
	})
}

func TestSaveLoadRoundTrip_Properties(t *testing.T) {
	dir := t.TempDir()
	run := 0

	rapid.Check(t, func(rt *rapid.T) {
		run++
		path := filepath.Join(dir, fmt.Sprintf("dates-%d.json", run))

		recs := NewRecords()
		n := rapid.IntRange(0, 8).Draw(rt, "n")
		for i := 0; i < n; i++ {
			recs.Upsert(DateRecord{
				Name:     rapid.StringMatching(`[A-Za-z0-9 '"<>&\\é]{1,20}`).Draw(rt, "name"),
				Date:     dateGen().Draw(rt, "date"),
				Notes:    rapid.StringMatching(`[A-Za-z0-9 ,.\n"]{0,40}`).Draw(rt, "notes"),
				Category: rapid.SampledFrom([]string{"", "Family", "Work"}).Draw(rt, "category"),
			})
		}

		store := NewDateStore(path)
		if err := store.Save(recs); err != nil {
			rt.Fatalf("save error: %v", err)
		}
		loaded, err := store.Load()
		if err != nil {
			rt.Fatalf("load error: %v", err)
		}
		if !reflect.DeepEqual(loaded.All(), recs.All()) {
			rt.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", recs.All(), loaded.All())
		}
	})
}
