package tui

import "github.com/charmbracelet/lipgloss"

// Color palette, kept to the default ANSI range so it degrades well.
var (
	ColorAccent    = lipgloss.Color("205")
	ColorHighlight = lipgloss.Color("170")
	ColorDim       = lipgloss.Color("241")
	ColorOK        = lipgloss.Color("78")
	ColorError     = lipgloss.Color("203")
)

var (
	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true)

	SelectedStyle = lipgloss.NewStyle().
			Reverse(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorDim)

	DownloadedMarkStyle = lipgloss.NewStyle().
				Foreground(ColorOK)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDim).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorDim).
			Width(12)
)
