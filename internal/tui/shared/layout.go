package shared

import (
	"strings"
	"unicode/utf8"
)

// TopWithBottomHints keeps content at the top and pins hints to the last line.
func TopWithBottomHints(content, hints string, height int) string {
	content = strings.TrimRight(content, "\n")
	used := strings.Count(content, "\n") + 1 + strings.Count(hints, "\n") + 1
	if used >= height {
		return content + "\n" + hints
	}
	return content + strings.Repeat("\n", height-used+1) + hints
}

// Fit cuts s to at most width runes, marking the cut with an ellipsis.
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-1]) + "…"
}
