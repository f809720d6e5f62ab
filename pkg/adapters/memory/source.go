package memory

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ts1257/acme-blogs/pkg/domain"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures/default.yaml
var defaultFixture []byte

// Fixture is the on-disk shape of a fixture file.
type Fixture struct {
	Users    []domain.User    `yaml:"users"`
	Posts    []domain.Post    `yaml:"posts"`
	Comments []domain.Comment `yaml:"comments"`
}

// Source implements ports.Fetcher over fixture data.
// Failures and latency can be injected per entity, which makes it the
// fetcher of choice for tests and offline runs.
// Safe for concurrent use.
type Source struct {
	mu       sync.Mutex
	users    []domain.User
	posts    []domain.Post
	comments []domain.Comment

	failures map[string]error
	delays   map[string]time.Duration
	calls    map[string]int
}

// NewSource creates a source serving the given records.
func NewSource(users []domain.User, posts []domain.Post, comments []domain.Comment) *Source {
	return &Source{
		users:    users,
		posts:    posts,
		comments: comments,
		failures: make(map[string]error),
		delays:   make(map[string]time.Duration),
		calls:    make(map[string]int),
	}
}

// ParseSource decodes a YAML fixture.
func ParseSource(data []byte) (*Source, error) {
	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	return NewSource(fx.Users, fx.Posts, fx.Comments), nil
}

// LoadSource reads a YAML fixture file.
func LoadSource(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	return ParseSource(data)
}

// DefaultSource returns the built-in fixture used by offline mode.
func DefaultSource() *Source {
	s, err := ParseSource(defaultFixture)
	if err != nil {
		panic(fmt.Sprintf("embedded fixture is invalid: %v", err))
	}
	return s
}

func key(resource string, id int) string {
	return fmt.Sprintf("%s:%d", resource, id)
}

// Fail makes every request for (resource, id) return err.
// Use id 0 for the users collection.
func (s *Source) Fail(resource string, id int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[key(resource, id)] = err
}

// Delay makes every request for (resource, id) wait d before answering.
func (s *Source) Delay(resource string, id int, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays[key(resource, id)] = d
}

// Calls returns how many requests were issued for resource, across all ids.
func (s *Source) Calls(resource string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[resource]
}

// request records the call and applies injected latency and failures.
func (s *Source) request(ctx context.Context, resource string, id int) error {
	s.mu.Lock()
	s.calls[resource]++
	delay := s.delays[key(resource, id)]
	failure := s.failures[key(resource, id)]
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s %d: %w: %w", resource, id, domain.ErrFetchFailed, ctx.Err())
		case <-time.After(delay):
		}
	}
	if failure != nil {
		return fmt.Errorf("%s %d: %w: %w", resource, id, domain.ErrFetchFailed, failure)
	}
	return nil
}

// FetchUsers returns every user.
func (s *Source) FetchUsers(ctx context.Context) ([]domain.User, error) {
	if err := s.request(ctx, domain.ResourceUsers, 0); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.User{}, s.users...), nil
}

// FetchUser returns a single user.
func (s *Source) FetchUser(ctx context.Context, id int) (*domain.User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrInvalidID)
	}
	if err := s.request(ctx, domain.ResourceUser, id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			found := u
			return &found, nil
		}
	}
	return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
}

// FetchPostsByUser returns the posts written by userID.
func (s *Source) FetchPostsByUser(ctx context.Context, userID int) ([]domain.Post, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("posts of user %d: %w", userID, domain.ErrInvalidID)
	}
	if err := s.request(ctx, domain.ResourcePosts, userID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Post{}
	for _, p := range s.posts {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

// FetchCommentsByPost returns the comments attached to postID.
func (s *Source) FetchCommentsByPost(ctx context.Context, postID int) ([]domain.Comment, error) {
	if postID <= 0 {
		return nil, fmt.Errorf("comments of post %d: %w", postID, domain.ErrInvalidID)
	}
	if err := s.request(ctx, domain.ResourceComments, postID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Comment{}
	for _, c := range s.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}
