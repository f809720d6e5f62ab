package tui

import (
	"fmt"
	"strings"

	"github.com/ts1257/acme-blogs/pkg/dom"
	"github.com/ts1257/acme-blogs/pkg/domain"
	"golang.org/x/net/html"
)

// Markdown renders the page as Markdown: the selected employee, then every
// post under <main>. Hidden comment sections collapse to a one-line note.
func Markdown(doc *dom.Document) string {
	var b strings.Builder

	if h1 := dom.Find(doc.Body(), dom.Tag("h1")); h1 != nil {
		fmt.Fprintf(&b, "# %s\n\n", dom.TextContent(h1))
	}
	if opt := dom.Find(doc.SelectMenu(), dom.TagWithAttr("option", "selected", "selected")); opt != nil {
		fmt.Fprintf(&b, "Employee: **%s**\n\n", dom.TextContent(opt))
	}

	first := true
	for _, n := range dom.Children(doc.Main()) {
		if n.Type != html.ElementNode {
			continue
		}
		if n.Data == "article" {
			if !first {
				b.WriteString("---\n\n")
			}
			first = false
		}
		writeNode(&b, n)
	}
	return b.String()
}

func writeNode(b *strings.Builder, n *html.Node) {
	if n.Type != html.ElementNode {
		return
	}
	switch n.Data {
	case "h2":
		fmt.Fprintf(b, "## %s\n\n", dom.TextContent(n))
	case "h3":
		fmt.Fprintf(b, "#### %s\n\n", dom.TextContent(n))
	case "p":
		fmt.Fprintf(b, "%s\n\n", dom.TextContent(n))
	case "button":
		id, _ := dom.PostID(n)
		fmt.Fprintf(b, "`[%s]` (post %d)\n\n", dom.TextContent(n), id)
	case "section":
		count := 0
		for _, c := range dom.Children(n) {
			if c.Type == html.ElementNode {
				count++
			}
		}
		if dom.HasClass(n, domain.ClassHidden) {
			fmt.Fprintf(b, "_%d comment(s) hidden_\n\n", count)
			return
		}
		if count == 0 {
			b.WriteString("_No comments_\n\n")
			return
		}
		b.WriteString("### Comments\n\n")
		for _, c := range dom.Children(n) {
			writeNode(b, c)
		}
	default:
		for _, c := range dom.Children(n) {
			writeNode(b, c)
		}
	}
}
