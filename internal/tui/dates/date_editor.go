package dates

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"timecapsule/internal/records"
	"timecapsule/internal/tui/shared"
	"timecapsule/internal/tui/theme"
)

var (
	editorLabelStyle   = lipgloss.NewStyle().Foreground(theme.Secondary).Width(10)
	editorFocusedStyle = lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Width(10)
	editorErrorStyle   = lipgloss.NewStyle().Foreground(theme.Danger)
)

type editorField int

const (
	fieldName editorField = iota
	fieldDate
	fieldNotes
	fieldCategory
	fieldCount
)

// DateEditorModel edits every field of one record. An empty original means
// the record is new.
type DateEditorModel struct {
	original   string
	name       textinput.Model
	date       textinput.Model
	notes      textarea.Model
	category   string
	categories *records.Categories
	picker     *CategoryPickerModel
	focus      editorField
	err        string
	Width      int
}

// DateEditorResultMsg is sent when the editor is submitted or dismissed.
type DateEditorResultMsg struct {
	Original  string
	Record    records.DateRecord
	Cancelled bool
}

func NewDateEditor(rec records.DateRecord, original string, cats *records.Categories) *DateEditorModel {
	name := textinput.New()
	name.Placeholder = "Event name"
	name.CharLimit = 256
	name.SetValue(rec.Name)

	date := textinput.New()
	date.Placeholder = "MM-DD-YYYY"
	date.CharLimit = 10
	date.SetValue(rec.Date)

	notes := textarea.New()
	notes.Placeholder = "Notes (markdown)"
	notes.ShowLineNumbers = false
	notes.SetHeight(4)
	notes.SetValue(rec.Notes)

	m := &DateEditorModel{
		original:   original,
		name:       name,
		date:       date,
		notes:      notes,
		category:   rec.Category,
		categories: cats,
		Width:      60,
	}
	m.SetWidth(m.Width)
	m.focusField(fieldName)
	return m
}

// IsNew reports whether the editor creates a record rather than editing one.
func (m *DateEditorModel) IsNew() bool {
	return m.original == ""
}

// SetError shows a save failure and keeps the editor open.
func (m *DateEditorModel) SetError(err error) {
	m.err = err.Error()
}

func (m *DateEditorModel) SetWidth(w int) {
	m.Width = w
	inner := w - 4 - 4 - 10
	if inner < 10 {
		inner = 10
	}
	m.name.Width = inner
	m.date.Width = inner
	m.notes.SetWidth(inner)
}

// Record returns the record as currently entered.
func (m *DateEditorModel) Record() records.DateRecord {
	return records.DateRecord{
		Name:     m.name.Value(),
		Date:     m.date.Value(),
		Notes:    m.notes.Value(),
		Category: m.category,
	}
}

func (m *DateEditorModel) focusField(f editorField) tea.Cmd {
	m.focus = f
	m.name.Blur()
	m.date.Blur()
	m.notes.Blur()
	switch f {
	case fieldName:
		return m.name.Focus()
	case fieldDate:
		return m.date.Focus()
	case fieldNotes:
		return m.notes.Focus()
	}
	return nil
}

func (m *DateEditorModel) Update(msg tea.Msg) tea.Cmd {
	if picked, ok := msg.(CategoryPickedMsg); ok {
		m.picker = nil
		if !picked.Cancelled {
			m.category = picked.Name
		}
		return nil
	}
	if m.picker != nil {
		return m.picker.Update(msg)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateFocused(msg)
	}

	switch key.String() {
	case "esc":
		return func() tea.Msg { return DateEditorResultMsg{Original: m.original, Cancelled: true} }
	case "ctrl+s":
		return m.submit()
	case "tab", "down":
		if key.String() == "down" && m.focus == fieldNotes {
			break
		}
		return m.focusField((m.focus + 1) % fieldCount)
	case "shift+tab", "up":
		if key.String() == "up" && m.focus == fieldNotes {
			break
		}
		return m.focusField((m.focus + fieldCount - 1) % fieldCount)
	case "enter":
		switch m.focus {
		case fieldName:
			return m.focusField(fieldDate)
		case fieldDate:
			if err := shared.ValidateDate(m.date.Value()); err != nil {
				m.err = err.Error()
				return nil
			}
			m.err = ""
			return m.focusField(fieldNotes)
		case fieldCategory:
			m.picker = NewCategoryPicker(m.categories, m.category)
			m.picker.Width = m.Width
			return nil
		}
	case "backspace", "delete":
		if m.focus == fieldCategory {
			m.category = ""
			return nil
		}
	}

	return m.updateFocused(msg)
}

func (m *DateEditorModel) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case fieldName:
		m.name, cmd = m.name.Update(msg)
	case fieldDate:
		m.date, cmd = m.date.Update(msg)
	case fieldNotes:
		m.notes, cmd = m.notes.Update(msg)
	}
	if _, ok := msg.(tea.KeyMsg); ok {
		m.err = ""
	}
	return cmd
}

// submit checks the required fields locally; the service re-validates.
func (m *DateEditorModel) submit() tea.Cmd {
	rec := m.Record()
	if strings.TrimSpace(rec.Name) == "" {
		m.err = "event name is required"
		m.focusField(fieldName)
		return nil
	}
	if err := shared.ValidateDate(rec.Date); err != nil {
		m.err = err.Error()
		m.focusField(fieldDate)
		return nil
	}
	original := m.original
	return func() tea.Msg { return DateEditorResultMsg{Original: original, Record: rec} }
}

func (m *DateEditorModel) View() string {
	if m.picker != nil {
		return m.picker.View()
	}

	label := func(f editorField, text string) string {
		if m.focus == f {
			return editorFocusedStyle.Render(text)
		}
		return editorLabelStyle.Render(text)
	}

	title := "Edit Event"
	if m.IsNew() {
		title = "New Event"
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(title) + "\n\n")
	b.WriteString(label(fieldName, "Event") + m.name.View() + "\n")
	b.WriteString(label(fieldDate, "Date") + m.date.View() + "\n")
	b.WriteString(label(fieldNotes, "Notes") + "\n" + m.notes.View() + "\n")

	cat := theme.Muted.Render(noCategory)
	if m.category != "" {
		cat = shared.Swatch(m.categories.Color(m.category), m.category)
	}
	b.WriteString(label(fieldCategory, "Category") + cat + "\n")

	if m.err != "" {
		b.WriteString("\n" + editorErrorStyle.Render("Error: "+m.err) + "\n")
	}

	b.WriteString("\n" + theme.ModalHelp.Render("[tab] next field  [enter] pick category  [ctrl+s] save  [esc] cancel"))
	return theme.ModalBox.Width(m.Width).Render(b.String())
}
