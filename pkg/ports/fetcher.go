package ports

import (
	"context"

	"github.com/ts1257/acme-blogs/pkg/domain"
)

// Fetcher retrieves entities from the remote source.
// Every call is a single request: no retry, no caching.
// Implementations return domain.ErrInvalidID for ids <= 0 without issuing a request.
type Fetcher interface {
	// FetchUsers returns every user.
	FetchUsers(ctx context.Context) ([]domain.User, error)

	// FetchUser returns a single user. Missing users yield domain.ErrNotFound.
	FetchUser(ctx context.Context, id int) (*domain.User, error)

	// FetchPostsByUser returns the posts written by userID.
	FetchPostsByUser(ctx context.Context, userID int) ([]domain.Post, error)

	// FetchCommentsByPost returns the comments attached to postID.
	FetchCommentsByPost(ctx context.Context, postID int) ([]domain.Comment, error)
}
