// Package tui is the interactive terminal browser: paged tags and objects
// listings, multi-select delete, and a read-only object detail view with
// rendered markdown. All data access goes through the thunks runtime, so the
// TUI sees exactly the state the CLI commands see.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"curio-cli/internal/config"
	"curio-cli/internal/thunks"
)

// Run starts the interactive browser and blocks until the user quits.
func Run(rt *thunks.Runtime, prefs *config.TUIConfig) error {
	applyColorProfilePreference()

	glyphs := glyphsFor("")
	if prefs != nil {
		if prefs.Profile != "" {
			lipgloss.SetColorProfile(namedProfile(prefs.Profile))
		}
		glyphs = glyphsFor(prefs.Glyphs)
	}

	m := newAppModel(rt, glyphs)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func namedProfile(name string) termenv.Profile {
	switch name {
	case "ascii", "none":
		return termenv.Ascii
	case "ansi":
		return termenv.ANSI
	case "ansi256", "256":
		return termenv.ANSI256
	case "truecolor", "24bit":
		return termenv.TrueColor
	}
	return termenv.ColorProfile()
}
