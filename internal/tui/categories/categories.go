package categories

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"timecapsule/internal/records"
	"timecapsule/internal/service"
	"timecapsule/internal/tui/messages"
	"timecapsule/internal/tui/shared"
	"timecapsule/internal/tui/theme"
)

// SetRequestMsg asks the app to add or recolor a category.
type SetRequestMsg struct {
	Name  string
	Color string
}

// DeleteRequestMsg asks the app to delete a confirmed category.
type DeleteRequestMsg struct {
	Name string
}

type inputStep int

const (
	stepNone inputStep = iota
	stepName
	stepColor
)

// CategoriesModel lists categories with their swatch and usage count.
type CategoriesModel struct {
	svc    service.DatesService
	items  []records.Category
	usage  map[string]int
	cursor int

	input         *shared.TextInputModel
	step          inputStep
	pendingName   string
	confirmation  *shared.ConfirmationModal
	pendingDelete string

	width  int
	height int
}

func NewCategoriesModel(svc service.DatesService) CategoriesModel {
	m := CategoriesModel{svc: svc}
	m.load()
	return m
}

func (m *CategoriesModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *CategoriesModel) SetData(svc service.DatesService) {
	m.svc = svc
	m.load()
}

// IsInModalState reports whether a prompt or confirmation is open.
func (m *CategoriesModel) IsInModalState() bool {
	return m.input != nil || m.confirmation != nil
}

func (m *CategoriesModel) load() {
	m.items = m.svc.Categories().All()
	m.usage = map[string]int{}
	for _, rec := range m.svc.Records().All() {
		m.usage[rec.Category]++
	}
	if m.cursor >= len(m.items) {
		m.cursor = max(0, len(m.items)-1)
	}
}

func (m CategoriesModel) Update(msg tea.Msg) (CategoriesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case shared.TextInputResultMsg:
		return m.handleInputResult(msg)
	case shared.ConfirmationResultMsg:
		name := m.pendingDelete
		m.confirmation = nil
		m.pendingDelete = ""
		if !msg.Confirmed || name == "" {
			return m, nil
		}
		return m, func() tea.Msg { return DeleteRequestMsg{Name: name} }
	}

	if m.confirmation != nil {
		if key, ok := msg.(tea.KeyMsg); ok {
			return m, m.confirmation.Update(key)
		}
		return m, nil
	}
	if m.input != nil {
		_, cmd := m.input.Update(msg)
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "j", "down":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "n", "a":
		m.step = stepName
		m.input = shared.NewTextInput("Category name", "e.g. Family", nil)
		m.input.SetWidth(min(max(m.width, 40), 60))
		return m, m.input.Focus()
	case "enter":
		// Recolor the selected category.
		if cat, ok := m.selected(); ok {
			m.pendingName = cat.Name
			return m.promptColor(cat.Color)
		}
	case "D", "delete":
		if cat, ok := m.selected(); ok {
			m.pendingDelete = cat.Name
			details := "No events use it."
			if n := m.usage[cat.Name]; n > 0 {
				details = fmt.Sprintf("%d event(s) will become uncategorized.", n)
			}
			m.confirmation = shared.NewConfirmationModal(fmt.Sprintf("Delete category %q?", cat.Name), details, 50)
		}
	case "esc", "c":
		return m, messages.SwitchView(messages.ViewDates)
	}
	return m, nil
}

func (m CategoriesModel) promptColor(current string) (CategoriesModel, tea.Cmd) {
	m.step = stepColor
	m.input = shared.NewColorInput(fmt.Sprintf("Color for %s", m.pendingName))
	m.input.SetValue(current)
	m.input.SetWidth(min(max(m.width, 40), 60))
	return m, m.input.Focus()
}

func (m CategoriesModel) handleInputResult(msg shared.TextInputResultMsg) (CategoriesModel, tea.Cmd) {
	step := m.step
	m.input = nil
	m.step = stepNone
	if msg.Cancelled {
		m.pendingName = ""
		return m, nil
	}

	switch step {
	case stepName:
		name := strings.TrimSpace(msg.Value)
		if name == "" {
			return m, nil
		}
		m.pendingName = name
		return m.promptColor(m.svc.Categories().Color(name))
	case stepColor:
		name := m.pendingName
		m.pendingName = ""
		color := strings.ToUpper(strings.TrimSpace(msg.Value))
		return m, func() tea.Msg { return SetRequestMsg{Name: name, Color: color} }
	}
	return m, nil
}

func (m CategoriesModel) selected() (records.Category, bool) {
	if m.cursor >= 0 && m.cursor < len(m.items) {
		return m.items[m.cursor], true
	}
	return records.Category{}, false
}

func (m CategoriesModel) View() string {
	if m.confirmation != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.confirmation.View())
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("Categories") + "\n\n")

	if m.input != nil {
		b.WriteString(m.input.View() + "\n")
	} else if len(m.items) == 0 {
		b.WriteString(theme.Muted.Render("No categories yet. Press n to add one.") + "\n")
	}

	if m.input == nil {
		for i, cat := range m.items {
			prefix := "  "
			if i == m.cursor {
				prefix = theme.Cursor.Render("> ")
			}
			b.WriteString(fmt.Sprintf("%s%s %s  %s\n",
				prefix,
				shared.Swatch(cat.Color, "  "),
				lipgloss.NewStyle().Width(24).Render(cat.Name),
				theme.Muted.Render(fmt.Sprintf("%s  %d event(s)", cat.Color, m.usage[cat.Name])),
			))
		}
	}

	hints := theme.HelpHint.Render("[n] new  [enter] recolor  [D] delete  [esc] back to events")
	hints = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, hints)
	return shared.TopWithBottomHints(b.String(), hints, m.height)
}
