package dom

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NewElement creates a detached element with optional text content and class list.
func NewElement(tag, text, className string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
	if className != "" {
		SetAttr(n, "class", className)
	}
	return n
}

// NewFragment creates an empty fragment. Appending a fragment moves its children, not the fragment itself.
func NewFragment() *html.Node {
	return &html.Node{Type: html.DocumentNode}
}

// IsFragment reports whether n was created by NewFragment.
func IsFragment(n *html.Node) bool {
	return n != nil && n.Type == html.DocumentNode && n.Parent == nil
}

// Append adds children to parent in order. Fragments are unpacked, nil children are skipped
// and already-attached children are moved.
func Append(parent *html.Node, children ...*html.Node) {
	for _, c := range children {
		if c == nil {
			continue
		}
		if IsFragment(c) {
			for c.FirstChild != nil {
				gc := c.FirstChild
				c.RemoveChild(gc)
				parent.AppendChild(gc)
			}
			continue
		}
		if c.Parent != nil {
			c.Parent.RemoveChild(c)
		}
		parent.AppendChild(c)
	}
}

// ClearChildren removes every child of n and returns n. A nil node yields nil.
func ClearChildren(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	for n.LastChild != nil {
		n.RemoveChild(n.LastChild)
	}
	return n
}

// Children returns the direct children of n.
func Children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// TextContent concatenates all text below n.
func TextContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(TextContent(c))
	}
	return sb.String()
}

// SetText replaces the children of n with a single text node.
func SetText(n *html.Node, text string) {
	ClearChildren(n)
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

// Attr returns the value of the attribute and whether it is set.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces an attribute.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes an attribute if present.
func RemoveAttr(n *html.Node, key string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

// SetPostID tags n with the data-post-id attribute.
func SetPostID(n *html.Node, postID int) {
	SetAttr(n, "data-post-id", strconv.Itoa(postID))
}

// PostID reads the data-post-id attribute. It returns false when missing or not a positive integer.
func PostID(n *html.Node) (int, bool) {
	v, ok := Attr(n, "data-post-id")
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(v)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func classes(n *html.Node) []string {
	v, _ := Attr(n, "class")
	return strings.Fields(v)
}

// HasClass reports whether class is in the class list of n.
func HasClass(n *html.Node, class string) bool {
	for _, c := range classes(n) {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass appends classes that are not already present.
func AddClass(n *html.Node, add ...string) {
	list := classes(n)
	for _, c := range add {
		if !HasClass(n, c) {
			list = append(list, c)
			SetAttr(n, "class", strings.Join(list, " "))
		}
	}
}

// RemoveClass drops class from the class list.
func RemoveClass(n *html.Node, class string) {
	var kept []string
	for _, c := range classes(n) {
		if c != class {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		RemoveAttr(n, "class")
		return
	}
	SetAttr(n, "class", strings.Join(kept, " "))
}

// ToggleClass flips class and reports whether it is now present.
func ToggleClass(n *html.Node, class string) bool {
	if HasClass(n, class) {
		RemoveClass(n, class)
		return false
	}
	AddClass(n, class)
	return true
}
