package messages

import tea "github.com/charmbracelet/bubbletea"

// ViewType represents the different views in the application
type ViewType int

const (
	ViewDates ViewType = iota
	ViewCategories
)

// SwitchViewMsg is sent by child views to switch to a different view
type SwitchViewMsg struct {
	View ViewType
}

// DataRefreshMsg signals that data should be reloaded from the service
type DataRefreshMsg struct{}

// StatusMsg sets the one-line status shown above the key hints.
type StatusMsg struct {
	Text string
	Err  bool
}

func SwitchView(v ViewType) tea.Cmd {
	return func() tea.Msg {
		return SwitchViewMsg{View: v}
	}
}

// Status returns a command reporting text in the status line.
func Status(text string) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Text: text}
	}
}

// StatusError returns a command reporting err in the status line.
func StatusError(err error) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Text: err.Error(), Err: true}
	}
}
