package tui

import (
	"github.com/charmbracelet/lipgloss"

	"timecapsule/internal/tui/theme"
)

var (
	TitleStyle = theme.Title

	// Status bar
	StatusBarStyle = theme.StatusBar

	StatusOkStyle    = lipgloss.NewStyle().Foreground(theme.Success)
	StatusErrorStyle = lipgloss.NewStyle().Foreground(theme.Danger)

	// Help text
	HelpStyle = theme.HelpHint
)
