package format

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// Truncate shortens s to at most width terminal cells, ending in an
// ellipsis when anything was cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, ellipsis)
}

// Fit truncates or right-pads s to exactly width cells.
func Fit(s string, width int) string {
	s = Truncate(s, width)
	if pad := width - runewidth.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// FitLeft truncates or left-pads s to exactly width cells.
func FitLeft(s string, width int) string {
	s = Truncate(s, width)
	if pad := width - runewidth.StringWidth(s); pad > 0 {
		s = strings.Repeat(" ", pad) + s
	}
	return s
}
