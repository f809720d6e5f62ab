package runner

import (
	"context"

	"github.com/ts1257/acme-blogs/pkg/domain"
)

// View is what the runner shows after every command.
type View struct {
	Session  *domain.Session `json:"session"`
	Markdown string          `json:"markdown"`
	// Skipped lists the posts left out of the last refresh, if any.
	Skipped []domain.SkippedPost `json:"skipped,omitempty"`
}

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents the board.
	Output(ctx context.Context, view View) error

	// Input reads the next command line.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (errors, employee lists, help).
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)
