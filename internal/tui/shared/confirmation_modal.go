package shared

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"timecapsule/internal/tui/theme"
)

// ConfirmationModal displays a yes/no question before a destructive action.
type ConfirmationModal struct {
	Message string
	Details string
	Width   int
}

// ConfirmationResultMsg is sent when the user answers the modal.
type ConfirmationResultMsg struct {
	Confirmed bool
}

func NewConfirmationModal(message, details string, width int) *ConfirmationModal {
	return &ConfirmationModal{
		Message: message,
		Details: details,
		Width:   width,
	}
}

// Update handles key events for the confirmation modal
func (m *ConfirmationModal) Update(msg tea.KeyMsg) tea.Cmd {
	var confirmed bool
	switch msg.String() {
	case "y", "Y":
		confirmed = true
	case "n", "N", "esc":
	default:
		return nil
	}
	return func() tea.Msg {
		return ConfirmationResultMsg{Confirmed: confirmed}
	}
}

func (m *ConfirmationModal) View() string {
	var b strings.Builder

	b.WriteString(theme.ModalTitle.Render(m.Message) + "\n")
	if m.Details != "" {
		b.WriteString("\n" + m.Details + "\n")
	}
	b.WriteString("\n")
	b.WriteString(theme.Ok.Render("[y]") + " Yes  ")
	b.WriteString(theme.Error.Render("[n/esc]") + " No")

	return theme.ModalBox.Width(m.Width).Render(b.String())
}
