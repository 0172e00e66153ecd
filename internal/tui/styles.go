package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/cybrain/reportbuilder/internal/severity"
)

// Severity colors
var (
	colorCritical = lipgloss.Color("#FF0000")
	colorHigh     = lipgloss.Color("#FF8800")
	colorMedium   = lipgloss.Color("#FFFF00")
	colorLow      = lipgloss.Color("#00FF00")
	colorInfo     = lipgloss.Color("#5FAFFF")
	colorMuted    = lipgloss.Color("#888888")
	colorAccent   = lipgloss.Color("#7B68EE")
	colorBorder   = lipgloss.Color("#444444")
	colorWarning  = lipgloss.Color("#FFD75F")
)

// Panel styles
var (
	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder)

	styleDetailPanel = lipgloss.NewStyle().
				Padding(0, 1).
				BorderStyle(lipgloss.NormalBorder()).
				BorderTop(true).
				BorderForeground(colorBorder)

	styleFooter = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	styleSearchPrompt = lipgloss.NewStyle().
				Foreground(colorAccent).Bold(true)

	styleWarning = lipgloss.NewStyle().Foreground(colorWarning)

	styleLabel = lipgloss.NewStyle().Foreground(colorMuted)
)

// severityStyle returns the lipgloss style for a severity or risk level.
func severityStyle(level severity.Level) lipgloss.Style {
	switch level {
	case severity.Critical:
		return lipgloss.NewStyle().Foreground(colorCritical).Bold(true)
	case severity.High:
		return lipgloss.NewStyle().Foreground(colorHigh).Bold(true)
	case severity.Medium:
		return lipgloss.NewStyle().Foreground(colorMedium)
	case severity.Low:
		return lipgloss.NewStyle().Foreground(colorLow)
	case severity.Info:
		return lipgloss.NewStyle().Foreground(colorInfo)
	default:
		return lipgloss.NewStyle()
	}
}
