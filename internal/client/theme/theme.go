// Package theme holds the light/dark/system preference and the terminal
// styles derived from it.
package theme

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Theme string

const (
	Light  Theme = "light"
	Dark   Theme = "dark"
	System Theme = "system"

	Default = Light
)

var ErrUnknownTheme = errors.New("unknown theme")

// All lists the accepted themes in display order.
func All() []Theme {
	return []Theme{Light, Dark, System}
}

// Parse accepts a theme name, ignoring case and surrounding spaces.
func Parse(s string) (Theme, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case Light, Dark, System:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTheme, s)
}

// Resolve maps System onto Light or Dark using darkBackground.
func (t Theme) Resolve(darkBackground func() bool) Theme {
	if t != System {
		return t
	}
	if darkBackground != nil && darkBackground() {
		return Dark
	}
	return Light
}

// Styles is the palette used by the terminal client.
type Styles struct {
	Title  lipgloss.Style
	Error  lipgloss.Style
	Info   lipgloss.Style
	Prompt lipgloss.Style
	Muted  lipgloss.Style
}

type palette struct {
	accent, danger, success, muted string
}

var palettes = map[Theme]palette{
	Light: {accent: "#1D4ED8", danger: "#B91C1C", success: "#047857", muted: "#6B7280"},
	Dark:  {accent: "#93C5FD", danger: "#FCA5A5", success: "#6EE7B7", muted: "#9CA3AF"},
}

// StylesFor returns the styles of t. System follows the terminal background.
func StylesFor(t Theme) Styles {
	p, ok := palettes[t.Resolve(lipgloss.HasDarkBackground)]
	if !ok {
		p = palettes[Default]
	}
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.accent)),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.danger)),
		Info:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.success)),
		Prompt: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.accent)),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.muted)),
	}
}
