package ui

import "github.com/charmbracelet/lipgloss"

// Palette. Catppuccin Mocha, same family the exporter uses so terminal and
// rendered charts look related.
var (
	ColorBg          = lipgloss.Color("#1e1e2e")
	ColorBgDark      = lipgloss.Color("#181825")
	ColorBgHighlight = lipgloss.Color("#313244")
	ColorText        = lipgloss.Color("#cdd6f4")
	ColorSubtext     = lipgloss.Color("#a6adc8")
	ColorPrimary     = lipgloss.Color("#89b4fa")
	ColorSecondary   = lipgloss.Color("#cba6f7")
	ColorGrid        = lipgloss.Color("#45475a")

	ColorPlanned    = lipgloss.Color("#74c7ec")
	ColorInProgress = lipgloss.Color("#f9e2af")
	ColorBlocked    = lipgloss.Color("#f38ba8")
	ColorDone       = lipgloss.Color("#a6e3a1")
	ColorCancelled  = lipgloss.Color("#6c7086")
	ColorMilestone  = lipgloss.Color("#cba6f7")
	ColorPeriod     = lipgloss.Color("#94e2d5")
	ColorToday      = lipgloss.Color("#f38ba8")
)

var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorGrid)

	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary)

	SelectedRowStyle = lipgloss.NewStyle().
				Background(ColorBgHighlight).
				Foreground(ColorText).
				Bold(true)

	RowStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext)

	TickStyle = lipgloss.NewStyle().
			Foreground(ColorGrid)
)
