package ui

import (
	"os"
	"testing"
)

// Theme state is global, so these tests do not run in parallel.

func TestSetTheme(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	for _, name := range []string{"dark", "light", "none"} {
		if !SetTheme(name) {
			t.Fatalf("SetTheme(%q) rejected", name)
		}
		if got := GetCurrentTheme().Name; got != name {
			t.Errorf("active theme = %q, want %q", got, name)
		}
	}
	if SetTheme("solarized") {
		t.Error("unknown theme accepted")
	}
	if GetCurrentTheme().Name != "none" {
		t.Error("unknown theme changed the active theme")
	}
}

func TestInitTheme(t *testing.T) {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		t.Skip("NO_COLOR is set in the environment")
	}
	defer SetCurrentTheme(GetCurrentTheme())

	InitTheme(true)
	if ColorRed() != "" || ColorReset() != "" {
		t.Error("--no-color should disable escape sequences")
	}
	if CurrentPalette() != NoColorPalette {
		t.Error("no-color theme should select the no-color palette")
	}

	t.Setenv("BIGCALC_THEME", "light")
	InitTheme(false)
	if GetCurrentTheme().Name != "light" {
		t.Errorf("BIGCALC_THEME ignored: %q", GetCurrentTheme().Name)
	}
	if ColorGreen() != LightTheme.Success || CurrentPalette() != AdaptivePalette {
		t.Error("color helpers do not follow the active theme")
	}

	t.Setenv("NO_COLOR", "")
	InitTheme(false)
	if GetCurrentTheme().Name != "none" {
		t.Error("NO_COLOR should disable colors even when empty")
	}
}
