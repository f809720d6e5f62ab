package dom

import "golang.org/x/net/html"

// EventClick is the event type delivered to toggle controls.
const EventClick = "click"

// Event is delivered to handlers by Document.Dispatch.
type Event struct {
	Type   string
	Target *html.Node
}

// Handler wraps a callback with a stable identity. Two handlers are the same
// listener only if they are the same pointer, so a caller that wants to remove
// a listener later must keep the *Handler it registered.
type Handler struct {
	fn func(Event)
}

// NewHandler creates a listener.
func NewHandler(fn func(Event)) *Handler {
	return &Handler{fn: fn}
}

// Handle invokes the callback.
func (h *Handler) Handle(e Event) {
	if h != nil && h.fn != nil {
		h.fn(e)
	}
}
