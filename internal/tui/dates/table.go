package dates

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"timecapsule/internal/tui/shared"
	"timecapsule/internal/tui/theme"
	"timecapsule/internal/view"
)

// columnWidths splits the available width over the five columns. Event and
// Notes take what is left after the fixed-size columns.
func columnWidths(total int) [5]int {
	const (
		dateWidth     = 10
		elapsedWidth  = 26
		categoryWidth = 16
		gaps          = 4 * 2
		cursorWidth   = 2
	)
	rest := total - dateWidth - elapsedWidth - categoryWidth - gaps - cursorWidth
	if rest < 20 {
		rest = 20
	}
	event := rest * 2 / 5
	return [5]int{event, dateWidth, elapsedWidth, rest - event, categoryWidth}
}

func cell(text string, width int, style lipgloss.Style) string {
	return style.Width(width).Render(shared.Fit(text, width))
}

func (m DatesModel) renderHeader(widths [5]int) string {
	cells := make([]string, len(view.Columns))
	for i, c := range view.Columns {
		title := c.String()
		style := theme.ColumnHeader
		if m.sortActive && c == m.sortCol {
			arrow := " ▲"
			if m.sortDesc {
				arrow = " ▼"
			}
			title += arrow
			style = theme.SortedHeader
		}
		cells[i] = cell(title, widths[i], style)
	}
	return "  " + strings.Join(cells, "  ")
}

func (m DatesModel) renderRow(row view.Row, selected bool, widths [5]int) string {
	base := lipgloss.NewStyle()
	if selected {
		base = theme.SelectedBg
	}

	elapsedStyle := theme.Elapsed
	if row.Elapsed == view.InvalidDate {
		elapsedStyle = theme.Invalid
	}
	if selected {
		elapsedStyle = elapsedStyle.Background(theme.Surface)
	}

	category := ""
	if row.Category != "" {
		category = shared.Swatch(row.Color, shared.Fit(row.Category, widths[4]-2))
	}

	cells := []string{
		cell(row.Name, widths[0], base),
		cell(row.Date, widths[1], base),
		cell(row.Elapsed, widths[2], elapsedStyle),
		cell(view.NotesPreview(row.Notes, widths[3]), widths[3], base),
		category,
	}

	prefix := "  "
	if selected {
		prefix = theme.Cursor.Render("> ")
	}
	return prefix + strings.Join(cells, base.Render("  "))
}
