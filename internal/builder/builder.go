package builder

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ts1257/acme-blogs/internal/logging"
	"github.com/ts1257/acme-blogs/pkg/dom"
	"github.com/ts1257/acme-blogs/pkg/domain"
	"github.com/ts1257/acme-blogs/pkg/ports"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
)

// FailurePolicy decides what happens to a batch when one post cannot be resolved.
type FailurePolicy int

const (
	// SkipPost leaves the failing post out and renders the rest.
	SkipPost FailurePolicy = iota
	// AbortAll cancels the whole batch on the first failure.
	AbortAll
)

func (p FailurePolicy) String() string {
	if p == AbortAll {
		return "abort"
	}
	return "skip"
}

// ParseFailurePolicy maps "skip" and "abort" to a policy.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch s {
	case "", "skip":
		return SkipPost, nil
	case "abort":
		return AbortAll, nil
	default:
		return SkipPost, fmt.Errorf("unknown failure policy %q", s)
	}
}

// DefaultConcurrency bounds how many posts are resolved at once.
const DefaultConcurrency = 4

// Builder turns posts and comments into detached node trees.
// It never touches a live document.
type Builder struct {
	fetcher     ports.Fetcher
	policy      FailurePolicy
	concurrency int
	logger      *slog.Logger
}

// Option configures the Builder.
type Option func(*Builder)

// WithFailurePolicy sets how a failing post affects the batch.
func WithFailurePolicy(p FailurePolicy) Option {
	return func(b *Builder) {
		b.policy = p
	}
}

// WithConcurrency bounds the number of posts resolved in parallel. Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// New creates a Builder backed by fetcher.
func New(fetcher ports.Fetcher, opts ...Option) *Builder {
	b := &Builder{
		fetcher:     fetcher,
		policy:      SkipPost,
		concurrency: DefaultConcurrency,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Fragment is the result of building a batch of posts.
type Fragment struct {
	// Node is a fragment holding one <article> per rendered post, in input order.
	Node     *html.Node
	Rendered []int
	Skipped  []domain.SkippedPost
}

// Comments builds one <article> per comment.
// An Absent list yields nil; an Empty list yields an empty fragment.
func Comments(list domain.List[domain.Comment]) *html.Node {
	if list.IsAbsent() {
		return nil
	}
	frag := dom.NewFragment()
	for _, c := range list.Items() {
		article := dom.NewElement("article", "", "")
		dom.Append(article,
			dom.NewElement("h3", c.Name, ""),
			dom.NewElement("p", c.Body, ""),
			dom.NewElement("p", "From: "+c.Email, ""),
		)
		dom.Append(frag, article)
	}
	return frag
}

// CommentSection fetches the comments of postID and wraps them in a hidden section.
func (b *Builder) CommentSection(ctx context.Context, postID int) (*html.Node, error) {
	comments, err := b.fetcher.FetchCommentsByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("comments of post %d: %w", postID, err)
	}

	section := dom.NewElement("section", "", "")
	dom.AddClass(section, domain.ClassComments, domain.ClassHidden)
	dom.SetPostID(section, postID)
	dom.Append(section, Comments(domain.Some(comments...)))
	return section, nil
}

// Article resolves the author and comments of post and assembles its <article>.
func (b *Builder) Article(ctx context.Context, post domain.Post) (*html.Node, error) {
	author, err := b.fetcher.FetchUser(ctx, post.UserID)
	if err != nil {
		return nil, fmt.Errorf("author of post %d: %w", post.ID, err)
	}
	section, err := b.CommentSection(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	button := dom.NewElement("button", domain.ShowCommentsLabel, "")
	dom.SetPostID(button, post.ID)

	article := dom.NewElement("article", "", "")
	dom.Append(article,
		dom.NewElement("h2", post.Title, ""),
		dom.NewElement("p", post.Body, ""),
		dom.NewElement("p", "Post ID: "+strconv.Itoa(post.ID), ""),
		dom.NewElement("p", author.Byline(), ""),
		dom.NewElement("p", author.Company.CatchPhrase, ""),
		button,
		section,
	)
	return article, nil
}

// Posts builds the articles of every post. Authors and comments are fetched
// concurrently, and all of them have settled before Posts returns.
// An Absent list yields a nil Fragment.
func (b *Builder) Posts(ctx context.Context, list domain.List[domain.Post]) (*Fragment, error) {
	if list.IsAbsent() {
		return nil, nil
	}
	posts := list.Items()
	articles := make([]*html.Node, len(posts))
	failures := make([]error, len(posts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for i, post := range posts {
		g.Go(func() error {
			article, err := b.Article(gctx, post)
			if err != nil {
				if b.policy == AbortAll {
					return err
				}
				failures[i] = err
				return nil
			}
			articles[i] = article
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		b.logger.Warn("Post batch aborted", "posts", len(posts), "error", err)
		return nil, err
	}

	frag := &Fragment{Node: dom.NewFragment(), Rendered: make([]int, 0, len(posts))}
	for i, post := range posts {
		if failures[i] != nil {
			b.logger.Warn("Skipping post", "post_id", post.ID, "error", failures[i])
			frag.Skipped = append(frag.Skipped, domain.SkippedPost{PostID: post.ID, Reason: failures[i].Error()})
			continue
		}
		dom.Append(frag.Node, articles[i])
		frag.Rendered = append(frag.Rendered, post.ID)
	}
	return frag, nil
}
