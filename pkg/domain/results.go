package domain

// SkippedPost records a post left out of a rendering because its author or
// comments could not be resolved.
type SkippedPost struct {
	PostID int    `json:"post_id"`
	Reason string `json:"reason"`
}

// RefreshResult describes a completed refresh cycle.
type RefreshResult struct {
	Generation uint64        `json:"generation"`
	Rendered   []int         `json:"rendered"`
	Skipped    []SkippedPost `json:"skipped,omitempty"`
	// Detached and Attached count the toggle bindings removed and installed by the cycle.
	Detached int `json:"detached"`
	Attached int `json:"attached"`
}

// SelectionResult is returned after handling a change of the selection control.
type SelectionResult struct {
	UserID int        `json:"user_id"`
	Posts  List[Post] `json:"-"`
	// Refresh is nil when there were no posts to show.
	Refresh *RefreshResult `json:"refresh,omitempty"`
}

// ToggleResult is returned after a click on a toggle control.
type ToggleResult struct {
	PostID int `json:"post_id"`
	// Found is false when no control for PostID is displayed.
	Found   bool `json:"found"`
	Visible bool `json:"visible"`
	// Caption is the control's text after the click.
	Caption string `json:"caption,omitempty"`
}
