package dom

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func render(t *testing.T, n *html.Node) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, html.Render(&buf, n))
	return buf.String()
}

func TestNewElement(t *testing.T) {
	p := NewElement("p", "hello", "default-text")
	assert.Equal(t, `<p class="default-text">hello</p>`, render(t, p))

	empty := NewElement("section", "", "")
	assert.Nil(t, empty.FirstChild)
	_, hasClass := Attr(empty, "class")
	assert.False(t, hasClass)
}

func TestAppend_UnpacksFragments(t *testing.T) {
	frag := NewFragment()
	Append(frag, NewElement("h3", "a", ""), NewElement("h3", "b", ""))
	require.True(t, IsFragment(frag))

	parent := NewElement("div", "", "")
	Append(parent, frag, nil)

	assert.Len(t, Children(parent), 2)
	assert.Nil(t, frag.FirstChild, "fragment is emptied once mounted")
	assert.Equal(t, "ab", TextContent(parent))
}

func TestAppend_MovesAttachedNode(t *testing.T) {
	a := NewElement("div", "", "")
	b := NewElement("div", "", "")
	child := NewElement("span", "x", "")
	Append(a, child)
	Append(b, child)

	assert.Empty(t, Children(a))
	assert.Len(t, Children(b), 1)
}

func TestClearChildren(t *testing.T) {
	n := NewElement("main", "", "")
	Append(n, NewElement("p", "1", ""), NewElement("p", "2", ""))

	assert.Same(t, n, ClearChildren(n))
	assert.Nil(t, n.FirstChild)
	assert.Nil(t, ClearChildren(nil))
}

func TestClassList(t *testing.T) {
	n := NewElement("section", "", "comments")
	AddClass(n, "hide", "comments")
	v, _ := Attr(n, "class")
	assert.Equal(t, "comments hide", v)

	assert.False(t, ToggleClass(n, "hide"))
	assert.False(t, HasClass(n, "hide"))
	assert.True(t, ToggleClass(n, "hide"))
	assert.True(t, HasClass(n, "hide"))

	RemoveClass(n, "hide")
	RemoveClass(n, "comments")
	_, ok := Attr(n, "class")
	assert.False(t, ok, "empty class list drops the attribute")
}

func TestPostID(t *testing.T) {
	n := NewElement("button", "Show Comments", "")
	_, ok := PostID(n)
	assert.False(t, ok)

	SetPostID(n, 10)
	id, ok := PostID(n)
	assert.True(t, ok)
	assert.Equal(t, 10, id)

	SetAttr(n, "data-post-id", "abc")
	_, ok = PostID(n)
	assert.False(t, ok)
}

func TestSetText(t *testing.T) {
	n := NewElement("button", "Show Comments", "")
	SetText(n, "Hide Comments")
	assert.Equal(t, "Hide Comments", TextContent(n))
	assert.Len(t, Children(n), 1)
}

func TestFind(t *testing.T) {
	root := NewElement("main", "", "")
	b1 := NewElement("button", "", "")
	SetPostID(b1, 1)
	b2 := NewElement("button", "", "")
	SetPostID(b2, 2)
	article := NewElement("article", "", "")
	Append(article, b1)
	Append(root, article, b2, NewElement("button", "no id", ""))

	assert.Same(t, b2, Find(root, TagWithAttr("button", "data-post-id", "2")))
	assert.Nil(t, Find(root, TagWithAttr("section", "data-post-id", "2")))
	assert.Equal(t, []*html.Node{b1, b2}, FindAll(root, TagHasAttr("button", "data-post-id")))
	assert.Len(t, FindAll(root, Tag("button")), 3)
	assert.Empty(t, FindAll(nil, Tag("button")))
}
