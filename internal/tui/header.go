package tui

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HeaderModel renders the top bar: title, version and environment.
type HeaderModel struct {
	version string
	width   int
}

func NewHeaderModel(version string) HeaderModel {
	return HeaderModel{version: version}
}

func (h *HeaderModel) SetWidth(w int) { h.width = w }

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "bigcalc"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	left := titleStyle.Render(titleText) + dimStyle.Render(" | base 10⁹ arbitrary precision")
	right := dimStyle.Render(fmt.Sprintf("%d CPU · %s", runtime.NumCPU(), runtime.Version()))

	gap := max(h.width-2-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return headerStyle.Width(h.width).Render(left + strings.Repeat(" ", gap) + right)
}
