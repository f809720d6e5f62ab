package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/ts1257/acme-blogs/pkg/domain"
	"github.com/ts1257/acme-blogs/pkg/ports"
)

// Fixture is the dataset every Fetcher under contract test must serve.
type Fixture struct {
	Users    []domain.User
	Posts    []domain.Post
	Comments []domain.Comment
}

// NewFixture returns two users, three posts and a handful of comments.
// Post 12 has no comments.
func NewFixture() Fixture {
	return Fixture{
		Users: []domain.User{
			{ID: 1, Name: "Leanne Graham", Username: "Bret", Email: "Sincere@april.biz",
				Company: domain.Company{Name: "Romaguera-Crona", CatchPhrase: "Multi-layered client-server neural-net"}},
			{ID: 3, Name: "Clementine Bauch", Username: "Samantha", Email: "Nathan@yesenia.net",
				Company: domain.Company{Name: "Romaguera-Jacobson", CatchPhrase: "Face to face bifurcated interface"}},
		},
		Posts: []domain.Post{
			{ID: 1, UserID: 1, Title: "sunt aut facere", Body: "quia et suscipit"},
			{ID: 10, UserID: 3, Title: "optio molestias", Body: "quo et expedita"},
			{ID: 11, UserID: 3, Title: "et ea vero quia", Body: "delectus reiciendis"},
			{ID: 12, UserID: 3, Title: "in quibusdam tempore", Body: "itaque id aut"},
		},
		Comments: []domain.Comment{
			{ID: 1, PostID: 1, Name: "id labore ex", Email: "Eliseo@gardner.biz", Body: "laudantium enim"},
			{ID: 46, PostID: 10, Name: "dolorem", Email: "Jaylen@tony.info", Body: "et iste"},
			{ID: 47, PostID: 10, Name: "vel aut", Email: "Ari@anabel.io", Body: "eos quae"},
			{ID: 51, PostID: 11, Name: "quo omnis", Email: "Kevon@lauren.org", Body: "ut voluptatem"},
		},
	}
}

// FetcherContractTest is a reusable test suite that verifies if an adapter complies with ports.Fetcher.
// The adapter must serve the data returned by NewFixture.
func FetcherContractTest(t *testing.T, f ports.Fetcher) {
	t.Helper()
	ctx := context.Background()
	fx := NewFixture()

	t.Run("FetchUsers", func(t *testing.T) {
		users, err := f.FetchUsers(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(users) != len(fx.Users) {
			t.Fatalf("expected %d users, got %d", len(fx.Users), len(users))
		}
		if users[1].Company.CatchPhrase != fx.Users[1].Company.CatchPhrase {
			t.Errorf("company not decoded: %+v", users[1].Company)
		}
	})

	t.Run("FetchUser", func(t *testing.T) {
		u, err := f.FetchUser(ctx, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if u.Name != "Clementine Bauch" || u.Company.Name != "Romaguera-Jacobson" {
			t.Errorf("unexpected user: %+v", u)
		}
	})

	t.Run("FetchUser_NotFound", func(t *testing.T) {
		_, err := f.FetchUser(ctx, 999)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("FetchPostsByUser", func(t *testing.T) {
		posts, err := f.FetchPostsByUser(ctx, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(posts) != 3 || posts[0].ID != 10 || posts[1].ID != 11 {
			t.Errorf("unexpected posts: %+v", posts)
		}
	})

	t.Run("FetchPostsByUser_Unknown", func(t *testing.T) {
		posts, err := f.FetchPostsByUser(ctx, 999)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if posts == nil || len(posts) != 0 {
			t.Errorf("expected an empty, non-nil list, got %#v", posts)
		}
	})

	t.Run("FetchCommentsByPost", func(t *testing.T) {
		comments, err := f.FetchCommentsByPost(ctx, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(comments) != 2 || comments[0].Email != "Jaylen@tony.info" {
			t.Errorf("unexpected comments: %+v", comments)
		}
	})

	t.Run("InvalidID", func(t *testing.T) {
		if _, err := f.FetchUser(ctx, 0); !errors.Is(err, domain.ErrInvalidID) {
			t.Errorf("FetchUser(0): expected ErrInvalidID, got %v", err)
		}
		if _, err := f.FetchPostsByUser(ctx, -1); !errors.Is(err, domain.ErrInvalidID) {
			t.Errorf("FetchPostsByUser(-1): expected ErrInvalidID, got %v", err)
		}
		if _, err := f.FetchCommentsByPost(ctx, 0); !errors.Is(err, domain.ErrInvalidID) {
			t.Errorf("FetchCommentsByPost(0): expected ErrInvalidID, got %v", err)
		}
	})
}
