package ports

import (
	"context"
	"io"

	"github.com/ts1257/acme-blogs/pkg/domain"
)

// Board is the driving port used by the HTTP and MCP adapters.
// It is implemented by the root package's Board.
type Board interface {
	// InitPage fills the selection control with the available employees.
	InitPage(ctx context.Context) error

	// Select handles a change of the selection control.
	Select(ctx context.Context, value string) (*domain.SelectionResult, error)

	// Click delivers a click to the toggle control of postID.
	Click(ctx context.Context, postID int) (*domain.ToggleResult, error)

	// Render writes the current document as HTML.
	Render(w io.Writer) error

	// Snapshot describes what the board currently shows.
	Snapshot() *domain.Session
}
