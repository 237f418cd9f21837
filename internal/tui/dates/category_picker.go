package dates

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"timecapsule/internal/records"
	"timecapsule/internal/tui/shared"
	"timecapsule/internal/tui/theme"
)

const noCategory = "(none)"

// CategoryPickerModel is a fuzzy-searchable single-select list of categories.
type CategoryPickerModel struct {
	names    []string
	colors   map[string]string
	filtered []string
	cursor   int
	input    textinput.Model
	Width    int
}

// CategoryPickedMsg is sent when the picker closes.
type CategoryPickedMsg struct {
	Name      string
	Cancelled bool
}

func NewCategoryPicker(cats *records.Categories, current string) *CategoryPickerModel {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.CharLimit = 50
	ti.Width = 30
	ti.Focus()

	m := &CategoryPickerModel{
		names:  append([]string{noCategory}, cats.Names()...),
		colors: map[string]string{},
		input:  ti,
		Width:  40,
	}
	for _, c := range cats.All() {
		m.colors[c.Name] = c.Color
	}
	m.filter()
	for i, name := range m.filtered {
		if name == current {
			m.cursor = i
		}
	}
	return m
}

func (m *CategoryPickerModel) filter() {
	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		m.filtered = m.names
	} else {
		matches := fuzzy.Find(query, m.names)
		m.filtered = make([]string, len(matches))
		for i, match := range matches {
			m.filtered[i] = m.names[match.Index]
		}
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
}

// Selected returns the highlighted category, "" for none.
func (m *CategoryPickerModel) Selected() (string, bool) {
	if len(m.filtered) == 0 {
		return "", false
	}
	name := m.filtered[m.cursor]
	if name == noCategory {
		return "", true
	}
	return name, true
}

func (m *CategoryPickerModel) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}

	switch key.String() {
	case "esc":
		return func() tea.Msg { return CategoryPickedMsg{Cancelled: true} }
	case "enter":
		name, ok := m.Selected()
		if !ok {
			return nil
		}
		return func() tea.Msg { return CategoryPickedMsg{Name: name} }
	case "up", "ctrl+p":
		if m.cursor > 0 {
			m.cursor--
		}
		return nil
	case "down", "ctrl+n":
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.filter()
	return cmd
}

func (m *CategoryPickerModel) View() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Select Category") + "\n\n")
	b.WriteString(theme.Subtitle.Render("/") + m.input.View() + "\n\n")

	if len(m.filtered) == 0 {
		b.WriteString(theme.Muted.Render("No matching categories.") + "\n")
	}
	for i, name := range m.filtered {
		prefix := "  "
		if i == m.cursor {
			prefix = theme.Cursor.Render("> ")
		}
		var label string
		if name != noCategory {
			label = shared.Swatch(m.colors[name], name)
		} else {
			label = theme.Muted.Render(name)
		}
		b.WriteString(prefix + label + "\n")
	}

	b.WriteString("\n" + theme.ModalHelp.Render("[↑/↓] move  [enter] select  [esc] cancel"))
	return theme.ModalBox.Width(m.Width).Render(b.String())
}
