package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventFetch   EventType = "fetch"
	EventRefresh EventType = "refresh"
	EventToggle  EventType = "toggle"
)

// RefreshOutcome describes how a refresh cycle ended.
type RefreshOutcome string

const (
	OutcomeMounted RefreshOutcome = "mounted"
	OutcomeNoop    RefreshOutcome = "noop"
	OutcomeStale   RefreshOutcome = "stale"
	OutcomeFailed  RefreshOutcome = "failed"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// FetchEvent is emitted after every remote request, successful or not.
type FetchEvent struct {
	EventBase
	Resource string        `json:"resource"` // users, user, posts, comments
	ID       int           `json:"id,omitempty"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// RefreshEvent is emitted once per refresh cycle.
type RefreshEvent struct {
	EventBase
	Generation uint64         `json:"generation"`
	Rendered   []int          `json:"rendered,omitempty"`
	Skipped    []int          `json:"skipped,omitempty"`
	Outcome    RefreshOutcome `json:"outcome"`
	Duration   time.Duration  `json:"duration"`
}

// ToggleEvent is emitted when a comment section changes visibility.
type ToggleEvent struct {
	EventBase
	PostID  int  `json:"post_id"`
	Visible bool `json:"visible"`
}

// LifecycleHooks defines callbacks for pipeline observability.
type LifecycleHooks struct {
	OnFetch   func(context.Context, *FetchEvent)
	OnRefresh func(context.Context, *RefreshEvent)
	OnToggle  func(context.Context, *ToggleEvent)
}

// MergeHooks fans every event out to all the given hooks, in order.
func MergeHooks(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnFetch: func(ctx context.Context, e *FetchEvent) {
			for _, h := range hooks {
				if h.OnFetch != nil {
					h.OnFetch(ctx, e)
				}
			}
		},
		OnRefresh: func(ctx context.Context, e *RefreshEvent) {
			for _, h := range hooks {
				if h.OnRefresh != nil {
					h.OnRefresh(ctx, e)
				}
			}
		},
		OnToggle: func(ctx context.Context, e *ToggleEvent) {
			for _, h := range hooks {
				if h.OnToggle != nil {
					h.OnToggle(ctx, e)
				}
			}
		},
	}
}
