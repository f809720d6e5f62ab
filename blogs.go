package blogs

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ts1257/acme-blogs/internal/builder"
	"github.com/ts1257/acme-blogs/internal/runtime"
	"github.com/ts1257/acme-blogs/pkg/dom"
	"github.com/ts1257/acme-blogs/pkg/domain"
	"github.com/ts1257/acme-blogs/pkg/ports"
)

// FailurePolicy decides what a refresh does with a post whose author or comments cannot be fetched.
type FailurePolicy = builder.FailurePolicy

const (
	// SkipPost renders the other posts and reports the failing one.
	SkipPost = builder.SkipPost
	// AbortAll fails the whole refresh.
	AbortAll = builder.AbortAll
)

// ParseFailurePolicy maps "skip" (or "") and "abort" to a FailurePolicy.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	return builder.ParseFailurePolicy(s)
}

// DefaultTitle is the page title used when none is configured.
const DefaultTitle = "Acme Blogs"

// Board is the high-level entry point of the library: one page, one viewer.
// It owns its document and wraps the refresh orchestrator behind ports.Board.
type Board struct {
	doc     *dom.Document
	orch    *runtime.Orchestrator
	fetcher ports.Fetcher

	title         string
	policy        FailurePolicy
	concurrency   int
	defaultUserID int
	hooks         domain.LifecycleHooks
	logger        *slog.Logger
}

var _ ports.Board = (*Board)(nil)

// Option defines a functional option for configuring the Board.
type Option func(*Board)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(b *Board) {
		b.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the board.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Board) {
		b.logger = logger
	}
}

// WithFailurePolicy sets what happens when a single post cannot be resolved (default SkipPost).
func WithFailurePolicy(p FailurePolicy) Option {
	return func(b *Board) {
		b.policy = p
	}
}

// WithConcurrency bounds how many posts are resolved in parallel.
func WithConcurrency(n int) Option {
	return func(b *Board) {
		b.concurrency = n
	}
}

// WithDefaultUserID sets the user shown when the selection names nobody (default 1).
func WithDefaultUserID(id int) Option {
	return func(b *Board) {
		b.defaultUserID = id
	}
}

// WithTitle sets the page title.
func WithTitle(title string) Option {
	return func(b *Board) {
		b.title = title
	}
}

// New creates a board that reads from fetcher.
func New(fetcher ports.Fetcher, opts ...Option) (*Board, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("a fetcher is required")
	}
	b := &Board{
		fetcher:       fetcher,
		title:         DefaultTitle,
		policy:        SkipPost,
		concurrency:   builder.DefaultConcurrency,
		defaultUserID: domain.DefaultUserID,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	b.doc = dom.New(b.title)
	b.orch = runtime.NewOrchestrator(b.doc, fetcher,
		runtime.WithLifecycleHooks(b.hooks),
		runtime.WithLogger(b.logger),
		runtime.WithFailurePolicy(b.policy),
		runtime.WithConcurrency(b.concurrency),
		runtime.WithDefaultUserID(b.defaultUserID),
	)
	return b, nil
}

// InitPage fills the employee selector and shows the default text.
func (b *Board) InitPage(ctx context.Context) error {
	return b.orch.InitPage(ctx)
}

// Select handles a change of the employee selector. value is the selected
// option's value; anything that does not name a user shows the default user.
// A refresh overtaken by a newer one returns domain.ErrStaleRefresh.
func (b *Board) Select(ctx context.Context, value string) (*domain.SelectionResult, error) {
	return b.orch.HandleSelection(ctx, value)
}

// Click toggles the comments of postID through its rendered control.
func (b *Board) Click(ctx context.Context, postID int) (*domain.ToggleResult, error) {
	return b.orch.Click(ctx, postID)
}

// Render writes the page as HTML.
func (b *Board) Render(w io.Writer) error {
	return b.orch.Render(w)
}

// View runs fn with exclusive access to the page. fn must not keep references to nodes.
func (b *Board) View(fn func(doc *dom.Document) error) error {
	return b.orch.View(fn)
}

// Snapshot returns what the viewer currently sees. The session id is empty.
func (b *Board) Snapshot() *domain.Session {
	return b.orch.Snapshot()
}

// Users lists the employees available for selection.
func (b *Board) Users(ctx context.Context) ([]domain.User, error) {
	return b.fetcher.FetchUsers(ctx)
}

// Title returns the page title.
func (b *Board) Title() string {
	return b.title
}
