package dom

import "golang.org/x/net/html"

// Matcher selects nodes during a query.
type Matcher func(*html.Node) bool

// Tag matches elements by tag name.
func Tag(tag string) Matcher {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag
	}
}

// TagWithAttr matches elements by tag name and exact attribute value,
// the equivalent of the selector tag[key="val"].
func TagWithAttr(tag, key, val string) Matcher {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != tag {
			return false
		}
		v, ok := Attr(n, key)
		return ok && v == val
	}
}

// TagHasAttr matches elements by tag name that carry the attribute, whatever its value.
func TagHasAttr(tag, key string) Matcher {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != tag {
			return false
		}
		_, ok := Attr(n, key)
		return ok
	}
}

// Find returns the first descendant of root (document order) that matches, or nil.
func Find(root *html.Node, m Matcher) *html.Node {
	if root == nil {
		return nil
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if m(c) {
			return c
		}
		if found := Find(c, m); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every descendant of root that matches, in document order.
func FindAll(root *html.Node, m Matcher) []*html.Node {
	var out []*html.Node
	if root == nil {
		return out
	}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if m(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(root)
	return out
}
