package domain

import "slices"

// SessionDiff represents the changes between two session snapshots.
// It is designed to be serialized to JSON and pushed to subscribed clients.
type SessionDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	UserID     *int    `json:"user_id,omitempty"`
	Generation *uint64 `json:"generation,omitempty"`

	// Expanded lists post IDs whose comments became visible.
	Expanded []int `json:"expanded,omitempty"`
	// Collapsed lists post IDs whose comments became hidden.
	Collapsed []int `json:"collapsed,omitempty"`
}

// Diff calculates the difference between oldSession and newSession.
// If oldSession is nil, it returns a diff representing the entire newSession (initial load).
// It returns nil when nothing changed.
func Diff(oldSession, newSession *Session) *SessionDiff {
	if newSession == nil {
		return nil
	}

	diff := &SessionDiff{SessionID: newSession.ID}

	if oldSession == nil || oldSession.UserID != newSession.UserID {
		diff.UserID = &newSession.UserID
	}
	if oldSession == nil || oldSession.Generation != newSession.Generation {
		diff.Generation = &newSession.Generation
	}

	var before []int
	if oldSession != nil {
		before = oldSession.Expanded
	}
	for _, id := range newSession.Expanded {
		if !slices.Contains(before, id) {
			diff.Expanded = append(diff.Expanded, id)
		}
	}
	for _, id := range before {
		if !slices.Contains(newSession.Expanded, id) {
			diff.Collapsed = append(diff.Collapsed, id)
		}
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SessionDiff) IsEmpty() bool {
	return d.UserID == nil &&
		d.Generation == nil &&
		len(d.Expanded) == 0 &&
		len(d.Collapsed) == 0
}
