package ports

import (
	"context"

	"github.com/ts1257/acme-blogs/pkg/domain"
)

// SessionStore defines the interface for persisting viewer sessions.
// This allows a board to be rebuilt after a restart or on another replica.
type SessionStore interface {
	// Save persists the session under its ID.
	Save(ctx context.Context, session *domain.Session) error

	// Load retrieves the session for a given ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Session, error)

	// Delete removes the session for a given ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all known sessions.
	List(ctx context.Context) ([]string, error)
}
