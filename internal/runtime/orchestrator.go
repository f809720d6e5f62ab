package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ts1257/acme-blogs/internal/builder"
	"github.com/ts1257/acme-blogs/internal/comments"
	"github.com/ts1257/acme-blogs/internal/listeners"
	"github.com/ts1257/acme-blogs/internal/logging"
	"github.com/ts1257/acme-blogs/pkg/dom"
	"github.com/ts1257/acme-blogs/pkg/domain"
	"github.com/ts1257/acme-blogs/pkg/ports"
	"golang.org/x/net/html"
)

// Orchestrator drives the refresh cycle of a document: it fetches posts,
// rebuilds the rendered subtree under <main> and keeps the toggle controls bound.
//
// All document mutations happen while holding mu. Rebuilding a fragment does
// not, so a slow upstream never blocks toggles or rendering.
type Orchestrator struct {
	mu         sync.Mutex
	doc        *dom.Document
	fetcher    ports.Fetcher
	builder    *builder.Builder
	controller *comments.Controller
	listeners  *listeners.Manager

	generation uint64
	inflight   int
	userID     int
	mounted    bool
	lastToggle *domain.ToggleResult

	policy        builder.FailurePolicy
	concurrency   int
	defaultUserID int
	hooks         domain.LifecycleHooks
	logger        *slog.Logger
}

// Option configures the Orchestrator.
type Option func(*Orchestrator)

// WithLifecycleHooks registers observability hooks (OnRefresh, OnToggle).
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *Orchestrator) {
		o.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithFailurePolicy sets how a post whose author or comments cannot be fetched affects a refresh.
func WithFailurePolicy(p builder.FailurePolicy) Option {
	return func(o *Orchestrator) {
		o.policy = p
	}
}

// WithConcurrency bounds how many posts are resolved in parallel.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		o.concurrency = n
	}
}

// WithDefaultUserID sets the user shown when the selection names nobody.
func WithDefaultUserID(id int) Option {
	return func(o *Orchestrator) {
		if id > 0 {
			o.defaultUserID = id
		}
	}
}

// NewOrchestrator creates an orchestrator rendering into doc with data from fetcher.
func NewOrchestrator(doc *dom.Document, fetcher ports.Fetcher, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		doc:           doc,
		fetcher:       fetcher,
		policy:        builder.SkipPost,
		concurrency:   builder.DefaultConcurrency,
		defaultUserID: domain.DefaultUserID,
		logger:        logging.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}

	o.builder = builder.New(fetcher,
		builder.WithFailurePolicy(o.policy),
		builder.WithConcurrency(o.concurrency),
		builder.WithLogger(o.logger),
	)
	o.controller = comments.New(doc.Main())
	o.listeners = listeners.New(doc, o.toggleLocked, listeners.WithLogger(o.logger))
	return o
}

// ResolveUserID maps the value of the selection control to a user id.
// The placeholder, an empty value, or anything that is not a positive integer
// resolves to fallback.
func ResolveUserID(value string, fallback int) int {
	v := strings.TrimSpace(value)
	if v == "" || v == domain.SelectPlaceholder {
		return fallback
	}
	id, err := strconv.Atoi(v)
	if err != nil || id <= 0 {
		return fallback
	}
	return id
}

// InitPage fills the selection control with one option per user and shows the
// default text until the first refresh. A failed user fetch leaves the page as is.
func (o *Orchestrator) InitPage(ctx context.Context) error {
	users, err := o.fetcher.FetchUsers(ctx)
	list := domain.Some(users...)
	if err != nil {
		o.logger.Warn("Failed to fetch users", "error", err)
		list = domain.None[domain.User]()
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.mounted {
		main := dom.ClearChildren(o.doc.Main())
		dom.Append(main, dom.NewElement("p", domain.DefaultText, "default-text"))
	}
	if list.IsAbsent() {
		return nil
	}

	menu := o.doc.SelectMenu()
	for _, opt := range dom.Children(menu) {
		if v, _ := dom.Attr(opt, "value"); v != domain.SelectPlaceholder {
			menu.RemoveChild(opt)
		}
	}
	for _, u := range list.Items() {
		opt := dom.NewElement("option", u.Name, "")
		dom.SetAttr(opt, "value", strconv.Itoa(u.ID))
		dom.Append(menu, opt)
	}
	o.markSelected()
	o.logger.Debug("Page initialized", "users", list.Len())
	return nil
}

// HandleSelection shows the posts of the user named by value. The selection
// control is disabled until every in-flight selection has finished, whatever
// the exit path.
func (o *Orchestrator) HandleSelection(ctx context.Context, value string) (*domain.SelectionResult, error) {
	userID := ResolveUserID(value, o.defaultUserID)

	o.disableSelect()
	defer o.enableSelect()

	posts := domain.None[domain.Post]()
	fetched, err := o.fetcher.FetchPostsByUser(ctx, userID)
	if err != nil {
		o.logger.Warn("Failed to fetch posts", "user_id", userID, "error", err)
	} else {
		posts = domain.Some(fetched...)
	}

	res := &domain.SelectionResult{UserID: userID, Posts: posts}
	refresh, err := o.Refresh(ctx, posts)
	res.Refresh = refresh
	if err == nil && refresh != nil {
		o.mu.Lock()
		o.userID = userID
		o.markSelected()
		o.mu.Unlock()
	}
	return res, err
}

// Refresh replaces the rendered subtree with posts. Absent or empty posts are a
// no-op and yield a nil result. A cycle overtaken by a newer one while it was
// rebuilding discards its work and returns domain.ErrStaleRefresh.
func (o *Orchestrator) Refresh(ctx context.Context, posts domain.List[domain.Post]) (*domain.RefreshResult, error) {
	start := time.Now()
	if posts.State() != domain.Present {
		o.logger.Debug("Nothing to refresh", "posts", posts.State().String())
		o.emitRefresh(ctx, 0, nil, domain.OutcomeNoop, start)
		return nil, nil
	}

	o.mu.Lock()
	o.generation++
	gen := o.generation
	detached := len(o.listeners.DetachAll())
	dom.ClearChildren(o.doc.Main())
	o.mu.Unlock()

	frag, err := o.builder.Posts(ctx, posts)
	if err != nil {
		o.logger.Error("Refresh failed", "generation", gen, "error", err)
		o.emitRefresh(ctx, gen, nil, domain.OutcomeFailed, start)
		return nil, fmt.Errorf("refresh %d: %w", gen, err)
	}

	o.mu.Lock()
	if gen != o.generation {
		latest := o.generation
		o.mu.Unlock()
		o.logger.Info("Discarding stale refresh", "generation", gen, "latest", latest)
		o.emitRefresh(ctx, gen, nil, domain.OutcomeStale, start)
		return nil, fmt.Errorf("refresh %d: %w", gen, domain.ErrStaleRefresh)
	}
	dom.Append(o.doc.Main(), frag.Node)
	attached := len(o.listeners.AttachAll())
	o.mounted = true
	o.mu.Unlock()

	res := &domain.RefreshResult{
		Generation: gen,
		Rendered:   frag.Rendered,
		Skipped:    frag.Skipped,
		Detached:   detached,
		Attached:   attached,
	}
	o.logger.Debug("Refresh mounted", "generation", gen, "rendered", len(res.Rendered), "skipped", len(res.Skipped))
	o.emitRefresh(ctx, gen, res, domain.OutcomeMounted, start)
	return res, nil
}

// Click delivers a click to the toggle control of postID, exactly as a user would.
// Found is false when no such control is displayed.
func (o *Orchestrator) Click(ctx context.Context, postID int) (*domain.ToggleResult, error) {
	if postID <= 0 {
		return nil, fmt.Errorf("post %d: %w", postID, domain.ErrInvalidID)
	}

	o.mu.Lock()
	o.lastToggle = nil
	button := dom.Find(o.doc.Main(), dom.TagWithAttr("button", domain.AttrPostID, strconv.Itoa(postID)))
	o.doc.Dispatch(button, dom.EventClick)
	res := o.lastToggle
	o.lastToggle = nil
	o.mu.Unlock()

	if res == nil {
		return &domain.ToggleResult{PostID: postID}, nil
	}
	if o.hooks.OnToggle != nil {
		o.hooks.OnToggle(ctx, &domain.ToggleEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventToggle},
			PostID:    postID,
			Visible:   res.Visible,
		})
	}
	return res, nil
}

// toggleLocked is the handler bound to every toggle control. It runs inside
// Dispatch, so mu is already held.
func (o *Orchestrator) toggleLocked(postID int) {
	section, button := o.controller.Toggle(postID)
	if section == nil {
		return
	}
	o.lastToggle = &domain.ToggleResult{
		PostID:  postID,
		Found:   true,
		Visible: !dom.HasClass(section, domain.ClassHidden),
		Caption: dom.TextContent(button),
	}
}

// Render writes the whole page as HTML.
func (o *Orchestrator) Render(w io.Writer) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.doc.Render(w)
}

// View runs fn with exclusive access to the document. fn must not retain nodes.
func (o *Orchestrator) View(fn func(doc *dom.Document) error) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return fn(o.doc)
}

// Snapshot returns the selected user, the expanded posts and the current generation.
// The session id is left empty.
func (o *Orchestrator) Snapshot() *domain.Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return &domain.Session{
		UserID:     o.userID,
		Expanded:   o.controller.Visible(),
		Generation: o.generation,
		UpdatedAt:  time.Now(),
	}
}

// Generation returns the number of refresh cycles started so far.
func (o *Orchestrator) Generation() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.generation
}

// Bindings returns how many toggle controls are currently bound.
func (o *Orchestrator) Bindings() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.listeners.Count()
}

// SelectDisabled reports whether the selection control is currently disabled.
func (o *Orchestrator) SelectDisabled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := dom.Attr(o.doc.SelectMenu(), "disabled")
	return ok
}

func (o *Orchestrator) disableSelect() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.inflight++
	dom.SetAttr(o.doc.SelectMenu(), "disabled", "disabled")
}

func (o *Orchestrator) enableSelect() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.inflight--
	if o.inflight <= 0 {
		o.inflight = 0
		dom.RemoveAttr(o.doc.SelectMenu(), "disabled")
	}
}

// markSelected flags the option of the current user. Callers hold mu.
func (o *Orchestrator) markSelected() {
	want := strconv.Itoa(o.userID)
	for _, opt := range dom.Children(o.doc.SelectMenu()) {
		if opt.Type != html.ElementNode {
			continue
		}
		if v, _ := dom.Attr(opt, "value"); v == want {
			dom.SetAttr(opt, "selected", "selected")
		} else {
			dom.RemoveAttr(opt, "selected")
		}
	}
}

func (o *Orchestrator) emitRefresh(ctx context.Context, gen uint64, res *domain.RefreshResult, outcome domain.RefreshOutcome, start time.Time) {
	if o.hooks.OnRefresh == nil {
		return
	}
	ev := &domain.RefreshEvent{
		EventBase:  domain.EventBase{Timestamp: time.Now(), Type: domain.EventRefresh},
		Generation: gen,
		Outcome:    outcome,
		Duration:   time.Since(start),
	}
	if res != nil {
		ev.Rendered = res.Rendered
		for _, s := range res.Skipped {
			ev.Skipped = append(ev.Skipped, s.PostID)
		}
	}
	o.hooks.OnRefresh(ctx, ev)
}

// IsStale reports whether err comes from a refresh overtaken by a newer one.
func IsStale(err error) bool {
	return errors.Is(err, domain.ErrStaleRefresh)
}
