package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/bigcalc/internal/ui"
)

// Style variables for the dashboard, rebuilt from the ui theme by
// initTUIStyles.
var (
	panelStyle     lipgloss.Style
	headerStyle    lipgloss.Style
	titleStyle     lipgloss.Style
	dimStyle       lipgloss.Style
	accentStyle    lipgloss.Style
	labelStyle     lipgloss.Style
	valueStyle     lipgloss.Style
	resultStyle    lipgloss.Style
	successStyle   lipgloss.Style
	warningStyle   lipgloss.Style
	errorStyle     lipgloss.Style
	progressStyle  lipgloss.Style
	sparklineStyle lipgloss.Style
	selectedAlgo   lipgloss.Style
	unselectedAlgo lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all styles from the current ui palette.
// Run calls it again after the theme has been initialised.
func initTUIStyles() {
	p := ui.CurrentPalette()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Foreground(p.Text).
		Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Accent)
	dimStyle = lipgloss.NewStyle().Foreground(p.Dim)
	accentStyle = lipgloss.NewStyle().Foreground(p.Accent)
	labelStyle = lipgloss.NewStyle().Foreground(p.Dim)
	valueStyle = lipgloss.NewStyle().Foreground(p.Accent).Bold(true)
	resultStyle = lipgloss.NewStyle().Foreground(p.Result)
	successStyle = lipgloss.NewStyle().Foreground(p.Success)
	warningStyle = lipgloss.NewStyle().Foreground(p.Warning).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(p.Error).Bold(true)
	progressStyle = lipgloss.NewStyle().Foreground(p.Accent)
	sparklineStyle = lipgloss.NewStyle().Foreground(p.Warning)

	selectedAlgo = lipgloss.NewStyle().
		Foreground(p.Success).
		Bold(true).
		Underline(true)
	unselectedAlgo = lipgloss.NewStyle().Foreground(p.Dim)
}
