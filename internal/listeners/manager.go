package listeners

import (
	"log/slog"
	"sort"

	"github.com/ts1257/acme-blogs/internal/logging"
	"github.com/ts1257/acme-blogs/pkg/dom"
	"github.com/ts1257/acme-blogs/pkg/domain"
	"golang.org/x/net/html"
)

// ToggleFunc is invoked with the post id of a clicked toggle control.
type ToggleFunc func(postID int)

type binding struct {
	node    *html.Node
	handler *dom.Handler
}

// Manager binds click handlers to the toggle controls rendered under the
// document's mount point and removes exactly the handlers it installed.
type Manager struct {
	doc      *dom.Document
	onToggle ToggleFunc
	bindings map[int]binding
	logger   *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// New creates a manager for doc. onToggle runs for every click on a bound control.
func New(doc *dom.Document, onToggle ToggleFunc, opts ...Option) *Manager {
	m := &Manager{
		doc:      doc,
		onToggle: onToggle,
		bindings: make(map[int]binding),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AttachAll binds every toggle control currently under the mount point and
// returns the controls it bound. Controls that are already bound are left alone.
func (m *Manager) AttachAll() []*html.Node {
	var attached []*html.Node
	for _, button := range dom.FindAll(m.doc.Main(), dom.TagHasAttr("button", domain.AttrPostID)) {
		postID, ok := dom.PostID(button)
		if !ok {
			m.logger.Debug("Ignoring control with invalid post id")
			continue
		}
		if b, exists := m.bindings[postID]; exists {
			if b.node == button {
				continue
			}
			// A control from an older rendering still holds the id.
			m.doc.RemoveEventListener(b.node, dom.EventClick, b.handler)
		}

		h := dom.NewHandler(func(dom.Event) {
			if m.onToggle != nil {
				m.onToggle(postID)
			}
		})
		m.doc.AddEventListener(button, dom.EventClick, h)
		m.bindings[postID] = binding{node: button, handler: h}
		attached = append(attached, button)
	}
	return attached
}

// DetachAll removes every handler installed by AttachAll and forgets the bindings.
// It returns the controls that were unbound, ordered by post id.
func (m *Manager) DetachAll() []*html.Node {
	ids := make([]int, 0, len(m.bindings))
	for id := range m.bindings {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	detached := make([]*html.Node, 0, len(ids))
	for _, id := range ids {
		b := m.bindings[id]
		if m.doc.RemoveEventListener(b.node, dom.EventClick, b.handler) {
			detached = append(detached, b.node)
		}
		delete(m.bindings, id)
	}
	return detached
}

// Count returns the number of live bindings.
func (m *Manager) Count() int {
	return len(m.bindings)
}

// Bound reports whether a handler is installed for postID.
func (m *Manager) Bound(postID int) bool {
	_, ok := m.bindings[postID]
	return ok
}
