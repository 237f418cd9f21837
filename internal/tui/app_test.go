package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"timecapsule/internal/config"
	"timecapsule/internal/records"
	"timecapsule/internal/service"
	datesview "timecapsule/internal/tui/dates"
)

func newTestApp(t *testing.T) (AppModel, service.DatesService, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		DataDir:        dir,
		DatesFile:      filepath.Join(dir, config.DefaultDatesFile),
		CategoriesFile: filepath.Join(dir, config.DefaultCategoriesFile),
		ExportFile:     filepath.Join(dir, config.DefaultExportFile),
		ImportFile:     filepath.Join(dir, config.DefaultImportFile),
	}
	svc, err := service.Open(service.Options{
		DatesFile:      cfg.DatesFile,
		CategoriesFile: cfg.CategoriesFile,
		Now:            func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("open service: %v", err)
	}
	m := NewAppModel(cfg, svc)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return next.(AppModel), svc, cfg
}

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

func TestApp_SaveRequestPersists(t *testing.T) {
	m, svc, _ := newTestApp(t)

	m, _ = update(t, m, datesview.SaveRequestMsg{Record: records.DateRecord{Name: "Trip", Date: "05-01-2020"}})
	if !svc.Records().Has("Trip") {
		t.Fatal("expected record stored")
	}
	if m.statusErr || !strings.Contains(m.status, "Trip") {
		t.Errorf("unexpected status %q", m.status)
	}
	if len(m.datesView.Rows()) != 1 {
		t.Errorf("expected table refreshed, got %d rows", len(m.datesView.Rows()))
	}
}

func TestApp_DeleteRequest(t *testing.T) {
	m, svc, _ := newTestApp(t)
	if err := svc.Add(records.DateRecord{Name: "Trip", Date: "05-01-2020"}); err != nil {
		t.Fatal(err)
	}

	m, _ = update(t, m, datesview.DeleteRequestMsg{Name: "Trip"})
	if svc.Records().Has("Trip") {
		t.Error("expected record deleted")
	}
	if len(m.datesView.Rows()) != 0 {
		t.Error("expected table refreshed")
	}
}

func TestApp_ImportMissingFile(t *testing.T) {
	m, _, _ := newTestApp(t)

	m, _ = update(t, m, datesview.TransferMsg{Import: true})
	if !m.statusErr || !strings.Contains(m.status, "not found") {
		t.Errorf("unexpected status %q", m.status)
	}
}

func TestApp_ExportThenImport(t *testing.T) {
	m, svc, cfg := newTestApp(t)
	if err := svc.Add(records.DateRecord{Name: "Trip", Date: "05-01-2020"}); err != nil {
		t.Fatal(err)
	}

	m, _ = update(t, m, datesview.TransferMsg{Import: false})
	if m.statusErr {
		t.Fatalf("export failed: %s", m.status)
	}
	data, err := os.ReadFile(cfg.ExportFile)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfg.ImportFile, append(data, []byte("Party,12-31-1999,,\n")...), 0644); err != nil {
		t.Fatal(err)
	}

	m, _ = update(t, m, datesview.TransferMsg{Import: true})
	if m.statusErr {
		t.Fatalf("import failed: %s", m.status)
	}
	if !svc.Records().Has("Party") {
		t.Error("expected imported record")
	}
}

func TestApp_CategoriesKeyAndQuit(t *testing.T) {
	m, _, _ := newTestApp(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	if m.currentView != ViewCategories {
		t.Fatalf("expected categories view, got %v", m.currentView)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	if !m.showHelp {
		t.Fatal("expected help overlay")
	}
	if !strings.Contains(m.View(), "Time Capsule") {
		t.Error("expected about text in the help overlay")
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if m.showHelp {
		t.Error("expected any key to close the help overlay")
	}

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestApp_SearchKeepsQuitKey(t *testing.T) {
	m, _, _ := newTestApp(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !m.datesView.IsInModalState() {
		t.Error("expected q to be typed into the search, not quit")
	}
}
