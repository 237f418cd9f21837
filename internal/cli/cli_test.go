package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"timecapsule/internal/config"
	"timecapsule/internal/service"
)

type harness struct {
	svc service.DatesService
	cfg *config.Config
	out bytes.Buffer
	err bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		DataDir:        dir,
		DatesFile:      filepath.Join(dir, config.DefaultDatesFile),
		CategoriesFile: filepath.Join(dir, config.DefaultCategoriesFile),
		ExportFile:     filepath.Join(dir, config.DefaultExportFile),
		ImportFile:     filepath.Join(dir, config.DefaultImportFile),
		BackupFile:     filepath.Join(dir, config.DefaultBackupFile),
		SortMode:       "text",
	}
	svc, err := service.Open(service.Options{
		DatesFile:      cfg.DatesFile,
		CategoriesFile: cfg.CategoriesFile,
		Now:            func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("open service: %v", err)
	}
	return &harness{svc: svc, cfg: cfg}
}

func (h *harness) run(input string, args ...string) int {
	h.out.Reset()
	h.err.Reset()
	return RunWith(args, h.svc, h.cfg, Streams{In: strings.NewReader(input), Out: &h.out, Err: &h.err})
}

func TestAddAndList(t *testing.T) {
	h := newHarness(t)

	if code := h.run("", "add", "-n", "Birthday", "-d", "01-31-2024", "--notes", "cake"); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, h.err.String())
	}
	if !strings.Contains(h.out.String(), "Added: Birthday") {
		t.Errorf("unexpected output %q", h.out.String())
	}

	if code := h.run("", "list"); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	out := h.out.String()
	for _, want := range []string{"Event", "Time Since", "Birthday", "01-31-2024", "1 month, 1 day", "cake", "1 event(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected list output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestAddValidation(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing name", []string{"add", "-d", "01-01-2000"}},
		{"bad date", []string{"add", "-n", "X", "-d", "2000-01-01"}},
		{"unknown category", []string{"add", "-n", "X", "-d", "01-01-2000", "-c", "Nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := h.run("", tt.args...); code != 1 {
				t.Errorf("expected exit 1, got %d", code)
			}
			if !strings.HasPrefix(h.err.String(), "Error: ") {
				t.Errorf("expected error message, got %q", h.err.String())
			}
		})
	}
	if h.svc.Records().Len() != 0 {
		t.Errorf("expected nothing stored, got %d records", h.svc.Records().Len())
	}
}

func TestEditOnlyGivenFields(t *testing.T) {
	h := newHarness(t)
	h.run("", "add", "-n", "Trip", "-d", "05-01-2020", "--notes", "Rome")

	if code := h.run("", "edit", "Trip", "-n", "Italy trip", "--notes", ""); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, h.err.String())
	}
	if h.svc.Records().Has("Trip") {
		t.Error("expected old name removed")
	}
	rec, err := h.svc.Get("Italy trip")
	if err != nil {
		t.Fatalf("expected renamed record: %v", err)
	}
	if rec.Date != "05-01-2020" {
		t.Errorf("expected date kept, got %q", rec.Date)
	}
	if rec.Notes != "" {
		t.Errorf("expected notes cleared, got %q", rec.Notes)
	}

	if code := h.run("", "edit", "Missing", "-d", "01-01-2000"); code != 1 {
		t.Errorf("expected exit 1 for missing event, got %d", code)
	}
}

func TestEditWithDeletedCategory(t *testing.T) {
	h := newHarness(t)
	h.run("", "category", "add", "Family", "#FF8800")
	h.run("", "add", "-n", "Birthday", "-d", "01-01-2000", "-c", "Family")
	h.run("y\n", "category", "rm", "Family")

	if code := h.run("", "edit", "Birthday", "--notes", "cake"); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, h.err.String())
	}
	rec, _ := h.svc.Get("Birthday")
	if rec.Notes != "cake" || rec.Category != "Family" {
		t.Errorf("expected notes saved and category kept, got %+v", rec)
	}

	if code := h.run("", "edit", "Birthday", "-c", "Nope"); code != 1 {
		t.Errorf("expected exit 1 for unknown category, got %d", code)
	}
}

func TestDeleteConfirmation(t *testing.T) {
	h := newHarness(t)
	h.run("", "add", "-n", "Trip", "-d", "05-01-2020")

	h.run("n\n", "rm", "Trip")
	if !h.svc.Records().Has("Trip") {
		t.Fatal("expected declined delete to keep the event")
	}
	if !strings.Contains(h.out.String(), "Cancelled.") {
		t.Errorf("unexpected output %q", h.out.String())
	}

	h.run("y\n", "rm", "Trip")
	if h.svc.Records().Has("Trip") {
		t.Error("expected confirmed delete to remove the event")
	}

	if code := h.run("", "rm", "Trip", "-y"); code != 0 {
		t.Errorf("expected deleting a missing event to succeed, got %d", code)
	}
}

func TestExportImport(t *testing.T) {
	h := newHarness(t)
	h.run("", "add", "-n", "Trip", "-d", "05-01-2020")

	if code := h.run("", "export"); code != 0 {
		t.Fatalf("export failed: %s", h.err.String())
	}
	data, err := os.ReadFile(h.cfg.ExportFile)
	if err != nil {
		t.Fatalf("expected export file: %v", err)
	}
	if !strings.HasPrefix(string(data), "Event,Date,Notes,Category\n") {
		t.Errorf("unexpected export %q", data)
	}

	csv := "Event,Date\nParty,12-31-1999\nBroken,31-12-1999\n"
	if err := os.WriteFile(h.cfg.ImportFile, []byte(csv), 0644); err != nil {
		t.Fatal(err)
	}
	if code := h.run("", "import"); code != 0 {
		t.Fatalf("import failed: %s", h.err.String())
	}
	if !h.svc.Records().Has("Party") || h.svc.Records().Has("Broken") {
		t.Errorf("unexpected records after import: %v", h.svc.Records().Names())
	}
	if !strings.Contains(h.err.String(), "line 3") {
		t.Errorf("expected rejected row reported, got %q", h.err.String())
	}

	if code := h.run("", "import", "-i", filepath.Join(h.cfg.DataDir, "missing.csv")); code != 1 {
		t.Errorf("expected exit 1 for missing import file, got %d", code)
	}
}

func TestYAMLBackup(t *testing.T) {
	h := newHarness(t)
	h.run("", "category", "add", "Family", "#FF8800")
	h.run("", "add", "-n", "Birthday", "-d", "01-01-2000", "-c", "Family")

	if code := h.run("", "export", "--format", "yaml"); code != 0 {
		t.Fatalf("export failed: %s", h.err.String())
	}
	if _, err := os.Stat(h.cfg.BackupFile); err != nil {
		t.Fatalf("expected backup file: %v", err)
	}

	other := newHarness(t)
	if code := other.run("", "import", "-i", h.cfg.BackupFile); code != 0 {
		t.Fatalf("import failed: %s", other.err.String())
	}
	if other.svc.Categories().Color("Family") != "#FF8800" {
		t.Errorf("expected category restored")
	}
	if !other.svc.Records().Has("Birthday") {
		t.Errorf("expected event restored")
	}
}

func TestCategoryCommands(t *testing.T) {
	h := newHarness(t)

	if code := h.run("", "category", "add", "Work", "orange"); code != 1 {
		t.Errorf("expected bad color rejected, got %d", code)
	}
	if code := h.run("", "category", "add", "Work", "#00AAFF"); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, h.err.String())
	}
	h.run("", "category", "list")
	if !strings.Contains(h.out.String(), "#00AAFF  Work") {
		t.Errorf("unexpected list output %q", h.out.String())
	}

	h.run("y\n", "category", "rm", "Work")
	if h.svc.Categories().Has("Work") {
		t.Error("expected category deleted")
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		format, path, want string
		wantErr            bool
	}{
		{"", "", "csv", false},
		{"", "backup.yml", "yaml", false},
		{"CSV", "backup.yaml", "csv", false},
		{"yaml", "", "yaml", false},
		{"xml", "", "", true},
	}
	for _, tt := range tests {
		got, err := resolveFormat(tt.format, tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("resolveFormat(%q, %q): unexpected error %v", tt.format, tt.path, err)
		}
		if got != tt.want {
			t.Errorf("resolveFormat(%q, %q): expected %q, got %q", tt.format, tt.path, tt.want, got)
		}
	}
}

func TestUnknownCommand(t *testing.T) {
	h := newHarness(t)
	if code := h.run("", "frobnicate"); code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	if code := h.run("", "help"); code != 0 {
		t.Errorf("expected exit 0, got %d", code)
	}
}
