package cli

import (
	"os"

	"github.com/ts1257/acme-blogs/internal/presentation/tui"
	"github.com/ts1257/acme-blogs/pkg/runner"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// Renderer returns the glamour renderer for out, or nil when out is not a terminal
// and plain Markdown should be written instead. force skips the terminal check.
func (a *App) Renderer(out *os.File, force bool) (runner.ContentRenderer, error) {
	if !force && !IsTerminal(out) {
		return nil, nil
	}
	style := a.Config.Display.Style
	if style == tui.StyleAuto && !IsTerminal(out) {
		style = tui.StyleNoTTY
	}
	render, err := tui.NewRenderer(style, a.Config.Display.Wrap)
	if err != nil {
		return nil, err
	}
	return render, nil
}
