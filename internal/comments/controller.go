package comments

import (
	"strconv"

	"github.com/ts1257/acme-blogs/pkg/dom"
	"github.com/ts1257/acme-blogs/pkg/domain"
	"golang.org/x/net/html"
)

// State is the visibility of a comment section.
type State int

const (
	Hidden State = iota
	Visible
)

func (s State) String() string {
	if s == Visible {
		return "visible"
	}
	return "hidden"
}

// Controller flips comment sections under a mount point.
// Nodes are looked up on every call, so it never holds on to a rendered tree.
type Controller struct {
	mount *html.Node
}

// New creates a controller for the sections rendered below mount.
func New(mount *html.Node) *Controller {
	return &Controller{mount: mount}
}

func (c *Controller) lookup(postID int) (section, button *html.Node) {
	if postID <= 0 || c.mount == nil {
		return nil, nil
	}
	id := strconv.Itoa(postID)
	section = dom.Find(c.mount, dom.TagWithAttr("section", domain.AttrPostID, id))
	button = dom.Find(c.mount, dom.TagWithAttr("button", domain.AttrPostID, id))
	if section == nil || button == nil {
		return nil, nil
	}
	return section, button
}

// Toggle flips the section of postID between hidden and visible and updates
// its button caption to match. It returns nil nodes, and changes nothing,
// when the post is not displayed.
func (c *Controller) Toggle(postID int) (section, button *html.Node) {
	section, button = c.lookup(postID)
	if section == nil {
		return nil, nil
	}
	if dom.ToggleClass(section, domain.ClassHidden) {
		dom.SetText(button, domain.ShowCommentsLabel)
	} else {
		dom.SetText(button, domain.HideCommentsLabel)
	}
	return section, button
}

// State reports the visibility of postID's section. ok is false when it is not displayed.
func (c *Controller) State(postID int) (State, bool) {
	section, _ := c.lookup(postID)
	if section == nil {
		return Hidden, false
	}
	if dom.HasClass(section, domain.ClassHidden) {
		return Hidden, true
	}
	return Visible, true
}

// Visible returns the ids of every displayed post whose comments are shown, in document order.
func (c *Controller) Visible() []int {
	var ids []int
	for _, section := range dom.FindAll(c.mount, dom.TagHasAttr("section", domain.AttrPostID)) {
		if dom.HasClass(section, domain.ClassHidden) {
			continue
		}
		if id, ok := dom.PostID(section); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
