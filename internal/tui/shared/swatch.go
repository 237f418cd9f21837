package shared

import (
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"timecapsule/internal/records"
)

// ReadableForeground picks black or white text for the given background,
// whichever reads better. Unparsable colors fall back to black on the
// default white.
func ReadableForeground(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return "#000000"
	}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return "#000000"
	}
	return "#FFFFFF"
}

// Swatch renders label on the category color.
func Swatch(hex, label string) string {
	if hex == "" {
		hex = records.DefaultColor
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(hex)).
		Foreground(lipgloss.Color(ReadableForeground(hex))).
		Padding(0, 1).
		Render(label)
}
