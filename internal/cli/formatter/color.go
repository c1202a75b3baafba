package formatter

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/zapponejosh/tehillim-tracker/internal/tracker"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusStyle returns the style for a month grid cell.
func StatusStyle(status tracker.DayStatus) lipgloss.Style {
	switch status {
	case tracker.StatusDone:
		return StyleGreen
	case tracker.StatusMissed:
		return StyleRed
	case tracker.StatusToday:
		return StyleYellow.Bold(true)
	default:
		return StyleDim
	}
}

// Header renders a section title.
func Header(s string) string {
	return StyleHeader.Render(s)
}

// Dim renders secondary text.
func Dim(s string) string {
	return StyleDim.Render(s)
}

// Bold renders emphasized text.
func Bold(s string) string {
	return StyleBold.Render(s)
}
