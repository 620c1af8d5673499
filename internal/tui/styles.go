package tui

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	ColorHeader    = lipgloss.Color("42")
	ColorLabel     = lipgloss.Color("245")
	ColorValue     = lipgloss.Color("255")
	ColorHighlight = lipgloss.Color("214")
	ColorMuted     = lipgloss.Color("240")
	ColorGood      = lipgloss.Color("34")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(ColorHeader).
			Bold(true).
			MarginBottom(1)
	labelStyle    = lipgloss.NewStyle().Foreground(ColorLabel)
	valueStyle    = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(ColorMuted)
	goodStyle     = lipgloss.NewStyle().Foreground(ColorGood).Bold(true)
	boxStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)
)
