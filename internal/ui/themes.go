package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme maps semantic roles to ANSI escape sequences.
type Theme struct {
	Name      string
	Accent    string // headings, prompts, operands
	Muted     string // secondary text
	Success   string
	Warning   string
	Error     string
	Info      string // figures such as digit counts and durations
	Highlight string // results
	Bold      string
	Underline string
	Reset     string
}

var (
	// DarkTheme suits dark terminal backgrounds.
	DarkTheme = Theme{
		Name:      "dark",
		Accent:    "\033[38;5;44m",
		Muted:     "\033[38;5;246m",
		Success:   "\033[38;5;114m",
		Warning:   "\033[38;5;221m",
		Error:     "\033[38;5;203m",
		Info:      "\033[38;5;111m",
		Highlight: "\033[38;5;183m",
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// LightTheme suits light terminal backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Accent:    "\033[38;5;30m",
		Muted:     "\033[38;5;242m",
		Success:   "\033[38;5;28m",
		Warning:   "\033[38;5;136m",
		Error:     "\033[38;5;160m",
		Info:      "\033[38;5;25m",
		Highlight: "\033[38;5;90m",
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// NoColorTheme emits no escape sequences at all.
	NoColorTheme = Theme{Name: "none"}

	themeMu      sync.RWMutex
	currentTheme = DarkTheme
)

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// SetCurrentTheme replaces the active theme. Tests use it to restore state.
func SetCurrentTheme(t Theme) {
	themeMu.Lock()
	defer themeMu.Unlock()
	currentTheme = t
}

// SetTheme activates a theme by name ("dark", "light", "none"). It returns
// false and leaves the theme unchanged for unknown names.
func SetTheme(name string) bool {
	var t Theme
	switch name {
	case "dark":
		t = DarkTheme
	case "light":
		t = LightTheme
	case "none":
		t = NoColorTheme
	default:
		return false
	}
	SetCurrentTheme(t)
	return true
}

// InitTheme selects the theme at startup. Colors are disabled by noColor,
// by the NO_COLOR convention (https://no-color.org) or when BIGCALC_THEME
// names the "none" theme.
func InitTheme(noColor bool) {
	if _, set := os.LookupEnv("NO_COLOR"); noColor || set {
		SetCurrentTheme(NoColorTheme)
		return
	}
	if name := os.Getenv("BIGCALC_THEME"); name != "" && SetTheme(name) {
		return
	}
	SetCurrentTheme(DarkTheme)
}

func ColorReset() string     { return GetCurrentTheme().Reset }
func ColorBold() string      { return GetCurrentTheme().Bold }
func ColorUnderline() string { return GetCurrentTheme().Underline }
func ColorRed() string       { return GetCurrentTheme().Error }
func ColorGreen() string     { return GetCurrentTheme().Success }
func ColorYellow() string    { return GetCurrentTheme().Warning }
func ColorBlue() string      { return GetCurrentTheme().Info }
func ColorMagenta() string   { return GetCurrentTheme().Highlight }
func ColorCyan() string      { return GetCurrentTheme().Accent }
func ColorGrey() string      { return GetCurrentTheme().Muted }

// Palette is the lipgloss rendition of a theme, used by the TUI.
type Palette struct {
	Text    lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
	Result  lipgloss.TerminalColor
}

var (
	// AdaptivePalette follows the terminal background.
	AdaptivePalette = Palette{
		Text:    lipgloss.AdaptiveColor{Light: "#1F2328", Dark: "#E6EDF3"},
		Border:  lipgloss.AdaptiveColor{Light: "#0E7C86", Dark: "#1FB5C2"},
		Accent:  lipgloss.AdaptiveColor{Light: "#0E7C86", Dark: "#3DD6E0"},
		Success: lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#7EE787"},
		Warning: lipgloss.AdaptiveColor{Light: "#9A6700", Dark: "#F2CC60"},
		Error:   lipgloss.AdaptiveColor{Light: "#CF222E", Dark: "#FF7B72"},
		Dim:     lipgloss.AdaptiveColor{Light: "#6E7781", Dark: "#8B949E"},
		Result:  lipgloss.AdaptiveColor{Light: "#8250DF", Dark: "#D2A8FF"},
	}

	// NoColorPalette renders with the terminal defaults.
	NoColorPalette = Palette{
		Text: lipgloss.NoColor{}, Border: lipgloss.NoColor{}, Accent: lipgloss.NoColor{},
		Success: lipgloss.NoColor{}, Warning: lipgloss.NoColor{}, Error: lipgloss.NoColor{},
		Dim: lipgloss.NoColor{}, Result: lipgloss.NoColor{},
	}
)

// CurrentPalette returns the palette matching the active theme.
func CurrentPalette() Palette {
	if GetCurrentTheme().Name == NoColorTheme.Name {
		return NoColorPalette
	}
	return AdaptivePalette
}
