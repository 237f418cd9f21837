package dates

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"timecapsule/internal/records"
	"timecapsule/internal/service"
	"timecapsule/internal/tui/messages"
	"timecapsule/internal/tui/shared"
	"timecapsule/internal/tui/theme"
	"timecapsule/internal/view"
)

var (
	searchStyle = theme.Subtitle
	hintStyle   = theme.HelpHint
	emptyStyle  = theme.Muted
)

// SaveRequestMsg asks the app to persist an added or edited record.
type SaveRequestMsg struct {
	Original string
	Record   records.DateRecord
}

// SaveResultMsg reports the outcome of a SaveRequestMsg back to the view.
type SaveResultMsg struct {
	Err error
}

// DeleteRequestMsg asks the app to delete a confirmed record.
type DeleteRequestMsg struct {
	Name string
}

// TransferMsg asks the app to run a CSV import or export.
type TransferMsg struct {
	Import bool
}

// DatesModel is the main table of events.
type DatesModel struct {
	svc service.DatesService

	rows []view.Row

	// Navigation
	cursor       int
	scrollOffset int

	// Sort
	sortActive bool
	sortCol    view.Column
	sortDesc   bool

	// Inline search
	searchActive     bool
	searchFilterMode bool
	searchInput      textinput.Model
	query            string

	// Sub-components
	editor            *DateEditorModel
	confirmationModal *shared.ConfirmationModal
	pendingDelete     string

	width  int
	height int
}

// NewDatesModel creates the table. defaultSort may be empty for insertion order.
func NewDatesModel(svc service.DatesService, defaultSort string) DatesModel {
	m := DatesModel{svc: svc}
	if defaultSort != "" {
		if col, err := view.ParseColumn(defaultSort); err == nil {
			m.sortActive = true
			m.sortCol = col
		}
	}
	m.refreshRows()
	return m
}

func (m *DatesModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.editor != nil {
		m.editor.SetWidth(min(width, 80))
	}
	m.ensureCursorVisible()
}

// SetData reloads rows from the service, keeping the cursor on the same event
// when it still exists.
func (m *DatesModel) SetData(svc service.DatesService) {
	m.svc = svc
	selected := m.selectedName()
	m.refreshRows()
	m.focusName(selected)
}

// IsInModalState reports whether keys should go to this view unfiltered.
func (m *DatesModel) IsInModalState() bool {
	return m.editor != nil || m.confirmationModal != nil || m.searchActive
}

// Rows returns the rows currently displayed.
func (m DatesModel) Rows() []view.Row {
	return m.rows
}

func (m DatesModel) Update(msg tea.Msg) (DatesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case DateEditorResultMsg:
		if msg.Cancelled {
			m.editor = nil
			return m, nil
		}
		return m, func() tea.Msg {
			return SaveRequestMsg{Original: msg.Original, Record: msg.Record}
		}
	case SaveResultMsg:
		if m.editor == nil {
			return m, nil
		}
		if msg.Err != nil {
			m.editor.SetError(msg.Err)
			return m, nil
		}
		name := strings.TrimSpace(m.editor.Record().Name)
		m.editor = nil
		m.refreshRows()
		m.focusName(name)
		return m, nil
	case shared.ConfirmationResultMsg:
		return m.handleConfirmationResult(msg)
	}

	if m.confirmationModal != nil {
		if key, ok := msg.(tea.KeyMsg); ok {
			return m, m.confirmationModal.Update(key)
		}
		return m, nil
	}
	if m.editor != nil {
		return m, m.editor.Update(msg)
	}
	if m.searchActive {
		if key, ok := msg.(tea.KeyMsg); ok {
			return m.handleSearchMode(key)
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		return m.handleNormalMode(key)
	}
	return m, nil
}

func (m DatesModel) handleNormalMode(msg tea.KeyMsg) (DatesModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "g", "home":
		m.cursor = 0
		m.ensureCursorVisible()
	case "G", "end":
		m.cursor = len(m.rows) - 1
		m.moveCursor(0)
	case "/":
		return m.startSearch()
	case "1", "2", "3", "4", "5":
		m.toggleSort(view.Columns[msg.String()[0]-'1'])
	case "0":
		m.sortActive = false
		m.sortDesc = false
		m.refreshRows()
	case "n":
		return m.openEditor(records.DateRecord{}, "")
	case "enter":
		if row, ok := m.selectedRow(); ok {
			rec, err := m.svc.Get(row.Name)
			if err != nil {
				return m, messages.StatusError(err)
			}
			return m.openEditor(rec, rec.Name)
		}
	case "D", "delete":
		return m.startDelete()
	case "e":
		return m, func() tea.Msg { return TransferMsg{Import: false} }
	case "i":
		return m, func() tea.Msg { return TransferMsg{Import: true} }
	case "esc":
		if m.query != "" {
			m.query = ""
			m.refreshRows()
		}
	}
	return m, nil
}

func (m DatesModel) handleSearchMode(msg tea.KeyMsg) (DatesModel, tea.Cmd) {
	if m.searchFilterMode {
		switch msg.String() {
		case "enter":
			m.searchFilterMode = false
			m.searchInput.Blur()
			if m.query == "" {
				m.searchActive = false
			}
			return m, nil

		case "esc":
			m.searchInput.SetValue("")
			m.query = ""
			m.searchFilterMode = false
			m.searchActive = false
			m.searchInput.Blur()
			m.refreshRows()
			return m, nil

		default:
			var cmd tea.Cmd
			m.searchInput, cmd = m.searchInput.Update(msg)
			// Live filter on every keystroke
			m.query = m.searchInput.Value()
			m.refreshRows()
			return m, cmd
		}
	}

	// Navigation within the filtered rows
	switch msg.String() {
	case "/":
		m.searchFilterMode = true
		return m, m.searchInput.Focus()
	case "esc":
		m.searchInput.SetValue("")
		m.query = ""
		m.searchActive = false
		m.refreshRows()
		return m, nil
	}
	m.searchActive = false
	m, cmd := m.handleNormalMode(msg)
	m.searchActive = m.query != ""
	return m, cmd
}

func (m DatesModel) startSearch() (DatesModel, tea.Cmd) {
	m.searchInput = textinput.New()
	m.searchInput.Placeholder = "search events, notes, categories..."
	m.searchInput.CharLimit = 256
	m.searchInput.Width = 40
	m.searchInput.SetValue(m.query)
	m.searchActive = true
	m.searchFilterMode = true
	return m, m.searchInput.Focus()
}

// toggleSort sorts by col, flipping the direction when col is already active.
func (m *DatesModel) toggleSort(col view.Column) {
	if m.sortActive && m.sortCol == col {
		m.sortDesc = !m.sortDesc
	} else {
		m.sortActive = true
		m.sortCol = col
		m.sortDesc = false
	}
	selected := m.selectedName()
	m.refreshRows()
	m.focusName(selected)
}

func (m DatesModel) openEditor(rec records.DateRecord, original string) (DatesModel, tea.Cmd) {
	m.editor = NewDateEditor(rec, original, m.svc.Categories())
	m.editor.SetWidth(min(max(m.width, 40), 80))
	return m, textinput.Blink
}

func (m DatesModel) startDelete() (DatesModel, tea.Cmd) {
	row, ok := m.selectedRow()
	if !ok {
		return m, nil
	}
	m.pendingDelete = row.Name
	m.confirmationModal = shared.NewConfirmationModal(
		fmt.Sprintf("Delete %q?", row.Name),
		fmt.Sprintf("%s  %s", row.Date, row.Elapsed),
		50,
	)
	return m, nil
}

func (m DatesModel) handleConfirmationResult(msg shared.ConfirmationResultMsg) (DatesModel, tea.Cmd) {
	name := m.pendingDelete
	m.confirmationModal = nil
	m.pendingDelete = ""
	if !msg.Confirmed || name == "" {
		return m, nil
	}
	return m, func() tea.Msg { return DeleteRequestMsg{Name: name} }
}

// Helpers

func (m *DatesModel) refreshRows() {
	rows := m.svc.Project(m.query)
	if m.sortActive {
		rows = m.svc.Sort(rows, m.sortCol, m.sortDesc)
	}
	m.rows = rows
	m.moveCursor(0)
}

func (m *DatesModel) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureCursorVisible()
}

func (m *DatesModel) focusName(name string) {
	for i, row := range m.rows {
		if row.Name == name {
			m.cursor = i
			m.ensureCursorVisible()
			return
		}
	}
}

func (m DatesModel) selectedRow() (view.Row, bool) {
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		return m.rows[m.cursor], true
	}
	return view.Row{}, false
}

func (m DatesModel) selectedName() string {
	row, _ := m.selectedRow()
	return row.Name
}

// visibleRows returns the number of table lines that fit: title (2),
// header (1), hints (1) and the search line when shown.
func (m *DatesModel) visibleRows() int {
	used := 4
	if m.searchActive {
		used++
	}
	return max(1, m.height-used)
}

func (m *DatesModel) ensureCursorVisible() {
	visible := m.visibleRows()
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+visible {
		m.scrollOffset = m.cursor - visible + 1
	}
}

func (m DatesModel) View() string {
	if m.confirmationModal != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.confirmationModal.View())
	}
	if m.editor != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.editor.View())
	}

	var b strings.Builder
	title := theme.Title.Render("Time Capsule")
	count := theme.Muted.Render(fmt.Sprintf("  %d of %d events", len(m.rows), m.svc.Records().Len()))
	b.WriteString(title + count + "\n\n")

	if m.searchActive {
		b.WriteString(searchStyle.Render("/") + m.searchInput.View() + "\n")
	}

	widths := columnWidths(m.width)
	b.WriteString(m.renderHeader(widths) + "\n")

	if len(m.rows) == 0 {
		if m.query != "" {
			b.WriteString(emptyStyle.Render("  No events match the search."))
		} else {
			b.WriteString(emptyStyle.Render("  No events yet. Press n to add one."))
		}
	}

	end := min(m.scrollOffset+m.visibleRows(), len(m.rows))
	for i := m.scrollOffset; i < end; i++ {
		b.WriteString(m.renderRow(m.rows[i], i == m.cursor, widths) + "\n")
	}

	var hints string
	switch {
	case m.searchActive && m.searchFilterMode:
		hints = "[enter] done  [esc] clear"
	case m.searchActive:
		hints = "[/] filter  [j/k] navigate  [enter] edit  [esc] clear"
	default:
		hints = "[n] new  [enter] edit  [D] delete  [/] search  [1-5] sort  [e/i] export/import  [c] categories  [?] help"
	}
	hints = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, hintStyle.Render(hints))

	return shared.TopWithBottomHints(b.String(), hints, m.height)
}
