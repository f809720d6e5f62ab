package dom

import (
	"fmt"
	"io"
	"slices"

	"golang.org/x/net/html"
)

// Document is the render target: a page skeleton with a select menu and a
// <main> mount point, plus the event listeners bound to its nodes.
//
// A Document is not safe for concurrent use. Callers serialize access.
type Document struct {
	root       *html.Node
	body       *html.Node
	main       *html.Node
	selectMenu *html.Node

	listeners map[*html.Node]map[string][]*Handler
}

// New builds an empty page titled title.
func New(title string) *Document {
	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	htmlEl := NewElement("html", "", "")
	SetAttr(htmlEl, "lang", "en")
	head := NewElement("head", "", "")
	meta := NewElement("meta", "", "")
	SetAttr(meta, "charset", "utf-8")
	Append(head, meta, NewElement("title", title, ""))

	body := NewElement("body", "", "")
	header := NewElement("header", "", "")
	selectMenu := NewElement("select", "", "")
	SetAttr(selectMenu, "id", "selectMenu")
	placeholder := NewElement("option", "Employees", "")
	SetAttr(placeholder, "value", "Employees")
	Append(selectMenu, placeholder)
	Append(header, NewElement("h1", title, ""), selectMenu)
	main := NewElement("main", "", "")
	Append(body, header, main)

	Append(htmlEl, head, body)
	root.AppendChild(htmlEl)

	return &Document{
		root:       root,
		body:       body,
		main:       main,
		selectMenu: selectMenu,
		listeners:  make(map[*html.Node]map[string][]*Handler),
	}
}

// Root returns the document node.
func (d *Document) Root() *html.Node { return d.root }

// Body returns the <body> element.
func (d *Document) Body() *html.Node { return d.body }

// Main returns the mount point where the post list lives.
func (d *Document) Main() *html.Node { return d.main }

// SelectMenu returns the employee selection control.
func (d *Document) SelectMenu() *html.Node { return d.selectMenu }

// GetElementByID returns the element with the given id attribute, or nil.
func (d *Document) GetElementByID(id string) *html.Node {
	return Find(d.root, func(n *html.Node) bool {
		v, ok := Attr(n, "id")
		return n.Type == html.ElementNode && ok && v == id
	})
}

// AddEventListener binds h to events of type typ on n.
// Adding the same handler twice is a no-op, as in a browser.
func (d *Document) AddEventListener(n *html.Node, typ string, h *Handler) {
	if n == nil || h == nil {
		return
	}
	byType, ok := d.listeners[n]
	if !ok {
		byType = make(map[string][]*Handler)
		d.listeners[n] = byType
	}
	if slices.Contains(byType[typ], h) {
		return
	}
	byType[typ] = append(byType[typ], h)
}

// RemoveEventListener unbinds h and reports whether it was bound.
// Only the identical *Handler passed to AddEventListener matches.
func (d *Document) RemoveEventListener(n *html.Node, typ string, h *Handler) bool {
	byType, ok := d.listeners[n]
	if !ok {
		return false
	}
	i := slices.Index(byType[typ], h)
	if i < 0 {
		return false
	}
	byType[typ] = slices.Delete(byType[typ], i, i+1)
	if len(byType[typ]) == 0 {
		delete(byType, typ)
	}
	if len(byType) == 0 {
		delete(d.listeners, n)
	}
	return true
}

// Listeners returns how many handlers are bound to n for typ.
func (d *Document) Listeners(n *html.Node, typ string) int {
	return len(d.listeners[n][typ])
}

// ListenerCount returns how many handlers of type typ are bound across the document,
// including handlers on nodes that are no longer attached.
func (d *Document) ListenerCount(typ string) int {
	total := 0
	for _, byType := range d.listeners {
		total += len(byType[typ])
	}
	return total
}

// Dispatch delivers an event of type typ to every handler bound on target and
// returns how many handlers ran. Handlers may add or remove listeners while running.
func (d *Document) Dispatch(target *html.Node, typ string) int {
	if target == nil {
		return 0
	}
	handlers := slices.Clone(d.listeners[target][typ])
	for _, h := range handlers {
		h.Handle(Event{Type: typ, Target: target})
	}
	return len(handlers)
}

// Render serializes the whole page as HTML.
func (d *Document) Render(w io.Writer) error {
	if err := html.Render(w, d.root); err != nil {
		return fmt.Errorf("failed to render document: %w", err)
	}
	return nil
}
