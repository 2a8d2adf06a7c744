package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/bizdeck/internal/prefs"
)

// Color palette.
const (
	ColorOK      = lipgloss.Color("42")
	ColorWarning = lipgloss.Color("214")
	ColorError   = lipgloss.Color("196")
	ColorMuted   = lipgloss.Color("241")
	ColorAccent  = lipgloss.Color("63")
)

// Status icons.
const (
	IconOK      = "✓"
	IconWarning = "!"
	IconError   = "✗"
	IconLoading = "…"
)

//nolint:gochecknoglobals // Shared render styles.
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	mutedStyle    = lipgloss.NewStyle().Foreground(ColorMuted)
	okStyle       = lipgloss.NewStyle().Foreground(ColorOK)
	warningStyle  = lipgloss.NewStyle().Foreground(ColorWarning)
	errorStyle    = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	nameStyle     = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	markerStyle   = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
)

// backgroundColors maps preference names to page backgrounds. The default
// background leaves the terminal's own colour untouched.
//
//nolint:gochecknoglobals // Fixed palette.
var backgroundColors = map[string]lipgloss.Color{
	prefs.BackgroundSlate:    lipgloss.Color("236"),
	prefs.BackgroundPaper:    lipgloss.Color("254"),
	prefs.BackgroundMidnight: lipgloss.Color("17"),
}

// BackgroundStyle returns the page style for a background preference.
func BackgroundStyle(name string) lipgloss.Style {
	style := lipgloss.NewStyle()
	if c, ok := backgroundColors[name]; ok {
		style = style.Background(c)
	}
	return style
}
