package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
)

func TestDefaultKeyMap_AllBindingsDefined(t *testing.T) {
	km := DefaultKeyMap()

	bindings := []struct {
		name    string
		binding key.Binding
	}{
		{"Run", km.Run},
		{"Cancel", km.Cancel},
		{"ToggleAlgo", km.ToggleAlgo},
		{"ClearHistory", km.ClearHistory},
		{"HistoryPrev", km.HistoryPrev},
		{"HistoryNext", km.HistoryNext},
		{"Quit", km.Quit},
	}

	for _, b := range bindings {
		t.Run(b.name, func(t *testing.T) {
			if !b.binding.Enabled() {
				t.Errorf("expected %s binding to be enabled", b.name)
			}
			if len(b.binding.Keys()) == 0 {
				t.Errorf("expected %s binding to have keys", b.name)
			}
		})
	}

	if len(km.ShortHelp()) == 0 || len(km.FullHelp()) != 1 {
		t.Error("help bindings are missing")
	}
}
