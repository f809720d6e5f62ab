package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSession_SetExpanded(t *testing.T) {
	s := NewSession("sess-1")

	s.SetExpanded(11, true)
	s.SetExpanded(10, true)
	s.SetExpanded(10, true) // idempotent
	assert.Equal(t, []int{10, 11}, s.Expanded)
	assert.True(t, s.IsExpanded(10))

	s.SetExpanded(10, false)
	s.SetExpanded(99, false) // unknown id is a no-op
	assert.Equal(t, []int{11}, s.Expanded)
	assert.False(t, s.IsExpanded(10))
}

func TestSession_Snapshot(t *testing.T) {
	s := NewSession("sess-1")
	s.SetExpanded(1, true)

	c := s.Snapshot()
	c.SetExpanded(2, true)

	assert.Equal(t, []int{1}, s.Expanded, "snapshot must not share the expanded slice")
	assert.Equal(t, []int{1, 2}, c.Expanded)

	var nilSession *Session
	assert.Nil(t, nilSession.Snapshot())
}

func TestUser_Byline(t *testing.T) {
	u := User{Name: "Leanne Graham", Company: Company{Name: "Romaguera-Crona"}}
	assert.Equal(t, "Author: Leanne Graham with Romaguera-Crona", u.Byline())
}
