package jsonplaceholder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"github.com/ts1257/acme-blogs/internal/logging"
	"github.com/ts1257/acme-blogs/pkg/domain"
)

// DefaultBaseURL is the public JSONPlaceholder API.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com"

// maxBodySize caps how much of a response is decoded.
const maxBodySize = 4 << 20

// Client implements ports.Fetcher against a JSONPlaceholder-compatible REST API.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The client is copied, never modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every request, including reading the body. It applies
// whichever HTTP client ends up in use, regardless of option order.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLifecycleHooks registers observability hooks (OnFetch).
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Client) {
		c.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// BreakerConfig configures the circuit breaker guarding the remote source.
type BreakerConfig struct {
	// MaxRequests allowed through while half-open.
	MaxRequests uint32
	// Interval after which closed-state counts are reset.
	Interval time.Duration
	// Timeout spent open before probing again.
	Timeout time.Duration
	// ConsecutiveFailures that trip the breaker.
	ConsecutiveFailures uint32
}

// DefaultBreakerConfig returns a conservative breaker configuration.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:         1,
		Interval:            30 * time.Second,
		Timeout:             15 * time.Second,
		ConsecutiveFailures: 5,
	}
}

// WithBreaker makes the client fail fast once the remote source keeps failing.
// A missing entity (404) does not count as a failure.
func WithBreaker(cfg BreakerConfig) Option {
	return func(c *Client) {
		c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "jsonplaceholder",
			MaxRequests: cfg.MaxRequests,
			Interval:    cfg.Interval,
			Timeout:     cfg.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
			},
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, domain.ErrNotFound) || errors.Is(err, context.Canceled)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				c.logger.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			},
		})
	}
}

// New creates a client for baseURL (DefaultBaseURL when empty).
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	hc := *c.http
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	c.http = &hc
	return c
}

// FetchUsers returns every user.
func (c *Client) FetchUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.get(ctx, domain.ResourceUsers, 0, "/users", nil, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// FetchUser returns a single user.
func (c *Client) FetchUser(ctx context.Context, id int) (*domain.User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrInvalidID)
	}
	var user domain.User
	if err := c.get(ctx, domain.ResourceUser, id, "/users/"+strconv.Itoa(id), nil, &user); err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return &user, nil
}

// FetchPostsByUser returns the posts written by userID.
func (c *Client) FetchPostsByUser(ctx context.Context, userID int) ([]domain.Post, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("posts of user %d: %w", userID, domain.ErrInvalidID)
	}
	var posts []domain.Post
	q := url.Values{"userId": {strconv.Itoa(userID)}}
	if err := c.get(ctx, domain.ResourcePosts, userID, "/posts", q, &posts); err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	return posts, nil
}

// FetchCommentsByPost returns the comments attached to postID.
func (c *Client) FetchCommentsByPost(ctx context.Context, postID int) ([]domain.Comment, error) {
	if postID <= 0 {
		return nil, fmt.Errorf("comments of post %d: %w", postID, domain.ErrInvalidID)
	}
	var comments []domain.Comment
	q := url.Values{"postId": {strconv.Itoa(postID)}}
	if err := c.get(ctx, domain.ResourceComments, postID, "/comments", q, &comments); err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	return comments, nil
}

// get issues a single GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, resource string, id int, path string, query url.Values, out any) error {
	start := time.Now()
	err := c.execute(func() error {
		return c.do(ctx, path, query, out)
	})
	if err != nil {
		err = fmt.Errorf("%s %d: %w", resource, id, err)
	}

	if c.hooks.OnFetch != nil {
		ev := &domain.FetchEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventFetch},
			Resource:  resource,
			ID:        id,
			Duration:  time.Since(start),
		}
		if err != nil {
			ev.Error = err.Error()
		}
		c.hooks.OnFetch(ctx, ev)
	}
	return err
}

func (c *Client) execute(fn func() error) error {
	if c.breaker == nil {
		return fn()
	}
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	return err
}

func (c *Client) do(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return domain.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: unexpected status %d", domain.ErrFetchFailed, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %w", domain.ErrFetchFailed, err)
	}
	return nil
}
