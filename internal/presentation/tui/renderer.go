package tui

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// Styles accepted by NewRenderer. "auto" detects a light or dark background.
const (
	StyleAuto  = "auto"
	StyleDark  = "dark"
	StyleLight = "light"
	StyleNoTTY = "notty"
)

// NewRenderer returns a function that renders markdown using glamour.
// A zero wrap keeps glamour's default width.
func NewRenderer(style string, wrap int) (func(string) (string, error), error) {
	opts := []glamour.TermRendererOption{}
	switch style {
	case "", StyleAuto:
		opts = append(opts, glamour.WithAutoStyle())
	case StyleDark, StyleLight, StyleNoTTY:
		opts = append(opts, glamour.WithStandardStyle(style))
	default:
		return nil, fmt.Errorf("unknown style %q", style)
	}
	if wrap > 0 {
		opts = append(opts, glamour.WithWordWrap(wrap))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}
