package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The TUI must remain readable on both light and dark terminal backgrounds.
// We use lipgloss.AdaptiveColor where possible and only apply "faint" styling
// on dark backgrounds (faint text on light terminals often becomes illegible).

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted      lipgloss.TerminalColor = ac("240", "243")
	colorAccent     lipgloss.TerminalColor = ac("27", "62") // blue
	colorError      lipgloss.TerminalColor = ac("124", "203")
	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")
	colorChromeFg   lipgloss.TerminalColor = ac("240", "245")
	colorTagFg      lipgloss.TerminalColor = ac("28", "114") // green chips
	colorMarkedFg   lipgloss.TerminalColor = ac("130", "179")
)

var (
	styleTitle = lipgloss.NewStyle().Bold(true)
	styleHint  = lipgloss.NewStyle().Foreground(colorChromeFg)
	styleError = lipgloss.NewStyle().Foreground(colorError)
	styleTag   = lipgloss.NewStyle().Foreground(colorTagFg)
)

// glyphSet keeps the UI usable on terminals without good Unicode fonts.
type glyphSet struct {
	Marked string
	Bullet string
}

func glyphsFor(name string) glyphSet {
	if name == "ascii" {
		return glyphSet{Marked: "*", Bullet: "-"}
	}
	return glyphSet{Marked: "●", Bullet: "•"}
}

// applyColorProfilePreference sets Lip Gloss's color profile for the TUI.
//
// termenv.EnvColorProfile respects CLICOLOR/CLICOLOR_FORCE, which is useful
// for non-interactive CLI output but can accidentally disable colors in a
// TUI. Here we only honor NO_COLOR and otherwise follow the terminal.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	}
	lipgloss.SetColorProfile(profile)
}
