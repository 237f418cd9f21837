package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"timecapsule/internal/config"
	"timecapsule/internal/interchange"
	"timecapsule/internal/logs"
	"timecapsule/internal/service"
	categoryview "timecapsule/internal/tui/categories"
	datesview "timecapsule/internal/tui/dates"
	"timecapsule/internal/tui/messages"
	"timecapsule/internal/tui/shared"
)

// AppModel is the root model that dispatches to child views and performs
// every mutation through the service.
type AppModel struct {
	cfg            *config.Config
	svc            service.DatesService
	currentView    ViewType
	datesView      datesview.DatesModel
	categoriesView categoryview.CategoriesModel
	status         string
	statusErr      bool
	showHelp       bool
	width          int
	height         int
	ready          bool
}

// NewAppModel creates the root application model
func NewAppModel(cfg *config.Config, svc service.DatesService) AppModel {
	m := AppModel{
		cfg:            cfg,
		svc:            svc,
		currentView:    ViewDates,
		datesView:      datesview.NewDatesModel(svc, cfg.DefaultSort),
		categoriesView: categoryview.NewCategoriesModel(svc),
	}
	if recovered := svc.Recovered(); len(recovered) > 0 {
		m.status = fmt.Sprintf("Unreadable data moved to %s; started empty", recovered[0])
		m.statusErr = true
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		contentHeight := msg.Height - 3 // Reserve space for status bar
		m.datesView.SetSize(msg.Width, contentHeight)
		m.categoriesView.SetSize(msg.Width, contentHeight)
		return m, nil

	case SwitchViewMsg:
		m.currentView = msg.View
		m.refresh()
		return m, nil

	case DataRefreshMsg:
		if err := m.svc.Reload(); err != nil {
			return m, messages.StatusError(err)
		}
		m.refresh()
		return m, nil

	case StatusMsg:
		m.status = msg.Text
		m.statusErr = msg.Err
		return m, nil

	case datesview.SaveRequestMsg:
		err := m.save(msg)
		if err != nil {
			logs.Logger.Printf("Error saving %q: %v", msg.Record.Name, err)
		} else {
			m.setStatus(fmt.Sprintf("Saved %s", msg.Record.Name), false)
		}
		m.categoriesView.SetData(m.svc)
		var cmd tea.Cmd
		m.datesView, cmd = m.datesView.Update(datesview.SaveResultMsg{Err: err})
		return m, cmd

	case datesview.DeleteRequestMsg:
		if _, err := m.svc.Delete(msg.Name); err != nil {
			logs.Logger.Printf("Error deleting %q: %v", msg.Name, err)
			m.setStatus(err.Error(), true)
		} else {
			m.setStatus(fmt.Sprintf("Deleted %s", msg.Name), false)
		}
		m.refresh()
		return m, nil

	case datesview.TransferMsg:
		m.transfer(msg.Import)
		m.refresh()
		return m, nil

	case categoryview.SetRequestMsg:
		if err := m.svc.SetCategory(msg.Name, msg.Color); err != nil {
			m.setStatus(err.Error(), true)
		} else {
			m.setStatus(fmt.Sprintf("Saved category %s", msg.Name), false)
		}
		m.refresh()
		return m, nil

	case categoryview.DeleteRequestMsg:
		if _, err := m.svc.DeleteCategory(msg.Name); err != nil {
			m.setStatus(err.Error(), true)
		} else {
			m.setStatus(fmt.Sprintf("Deleted category %s", msg.Name), false)
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		// Global keys: ctrl+c always quits
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		// Dismiss help overlay on any key
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		if !m.childIsModal() {
			m.status = ""
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "?":
				m.showHelp = true
				return m, nil
			case "c":
				if m.currentView == ViewDates {
					m.currentView = ViewCategories
					m.categoriesView.SetData(m.svc)
					return m, nil
				}
			case "ctrl+r":
				return m, func() tea.Msg { return DataRefreshMsg{} }
			}
		}
	}

	// Dispatch to current child view
	var cmd tea.Cmd
	switch m.currentView {
	case ViewDates:
		m.datesView, cmd = m.datesView.Update(msg)
	case ViewCategories:
		m.categoriesView, cmd = m.categoriesView.Update(msg)
	}
	return m, cmd
}

func (m *AppModel) childIsModal() bool {
	switch m.currentView {
	case ViewDates:
		return m.datesView.IsInModalState()
	case ViewCategories:
		return m.categoriesView.IsInModalState()
	}
	return false
}

func (m *AppModel) save(req datesview.SaveRequestMsg) error {
	if req.Original == "" {
		return m.svc.Add(req.Record)
	}
	return m.svc.Edit(req.Original, req.Record)
}

func (m *AppModel) transfer(isImport bool) {
	if !isImport {
		if err := m.svc.ExportCSV(m.cfg.ExportFile); err != nil {
			logs.Logger.Printf("Error exporting: %v", err)
			m.setStatus(fmt.Sprintf("Export failed: %v", err), true)
			return
		}
		m.setStatus(fmt.Sprintf("Exported %d event(s) to %s", m.svc.Records().Len(), m.cfg.ExportFile), false)
		return
	}

	report, err := m.svc.ImportCSV(m.cfg.ImportFile)
	switch {
	case errors.Is(err, interchange.ErrNotFound):
		m.setStatus(fmt.Sprintf("Import file %s not found", m.cfg.ImportFile), true)
	case err != nil:
		logs.Logger.Printf("Error importing: %v", err)
		m.setStatus(fmt.Sprintf("Import failed: %v", err), true)
	case len(report.Rejected) > 0:
		m.setStatus(fmt.Sprintf("Imported %d event(s), skipped %d (first: %v)",
			report.Imported, len(report.Rejected), report.Rejected[0]), true)
	default:
		m.setStatus(fmt.Sprintf("Imported %d event(s) from %s", report.Imported, m.cfg.ImportFile), false)
	}
}

func (m *AppModel) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *AppModel) refresh() {
	m.datesView.SetData(m.svc)
	m.categoriesView.SetData(m.svc)
}

func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelpOverlay()
	}

	var content string
	switch m.currentView {
	case ViewDates:
		content = m.datesView.View()
	case ViewCategories:
		content = m.categoriesView.View()
	}

	statusText := HelpStyle.Render("?:help | c:categories | q:quit")
	if m.status != "" {
		style := StatusOkStyle
		if m.statusErr {
			style = StatusErrorStyle
		}
		statusText = style.Render(m.status)
	}
	statusBar := StatusBarStyle.Width(m.width).Render(statusText)

	return lipgloss.JoinVertical(lipgloss.Left, content, statusBar)
}

func (m AppModel) renderHelpOverlay() string {
	intro := TitleStyle.Render("Time Capsule") + "\n" +
		"Important dates and the time since them.\n" +
		HelpStyle.Render("Data: "+m.cfg.DataDir)

	sections := []shared.HelpSection{
		{Title: "Events", Binds: []shared.HelpBind{
			{Key: "j / k", Desc: "Navigate"},
			{Key: "n", Desc: "New event"},
			{Key: "enter", Desc: "Edit event"},
			{Key: "D", Desc: "Delete event"},
			{Key: "/", Desc: "Search name, notes, category"},
			{Key: "1-5", Desc: "Sort by column (again to reverse)"},
			{Key: "0", Desc: "Insertion order"},
			{Key: "e / i", Desc: "Export / import CSV"},
		}},
		{Title: "Editor", Binds: []shared.HelpBind{
			{Key: "tab", Desc: "Next field"},
			{Key: "enter", Desc: "Pick category"},
			{Key: "ctrl+s", Desc: "Save"},
			{Key: "esc", Desc: "Cancel"},
		}},
		{Title: "Global", Binds: []shared.HelpBind{
			{Key: "c", Desc: "Categories"},
			{Key: "ctrl+r", Desc: "Reload from disk"},
			{Key: "?", Desc: "Show this help"},
			{Key: "q", Desc: "Quit"},
		}},
	}
	return shared.RenderHelpPopup(intro, sections, m.width, m.height)
}
