package domain

import (
	"slices"
	"time"
)

// Session captures what one viewer is looking at, so the board can be rebuilt
// (re-selected and re-expanded) from a store.
type Session struct {
	ID string `json:"id"`

	// UserID is the last resolved selection. Zero means nothing was selected yet.
	UserID int `json:"user_id"`

	// Expanded holds the post IDs whose comment sections are visible, sorted ascending.
	Expanded []int `json:"expanded"`

	// Generation is the refresh generation that produced the current rendering.
	Generation uint64 `json:"generation"`

	// Version counts saves. A holder whose version differs from the stored one
	// is looking at a stale copy.
	Version uint64 `json:"version"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates an empty session.
func NewSession(id string) *Session {
	return &Session{
		ID:       id,
		Expanded: []int{},
	}
}

// SetExpanded records the visibility of a post's comment section.
func (s *Session) SetExpanded(postID int, visible bool) {
	i, found := slices.BinarySearch(s.Expanded, postID)
	switch {
	case visible && !found:
		s.Expanded = slices.Insert(s.Expanded, i, postID)
	case !visible && found:
		s.Expanded = slices.Delete(s.Expanded, i, i+1)
	}
}

// IsExpanded reports whether the post's comments are visible.
func (s *Session) IsExpanded(postID int) bool {
	_, found := slices.BinarySearch(s.Expanded, postID)
	return found
}

// Snapshot returns a deep copy of the session.
func (s *Session) Snapshot() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Expanded = slices.Clone(s.Expanded)
	if c.Expanded == nil {
		c.Expanded = []int{}
	}
	return &c
}
