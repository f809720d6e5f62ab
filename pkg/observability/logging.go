package observability

import (
	"context"
	"log/slog"

	"github.com/ts1257/acme-blogs/pkg/domain"
)

// LogHooks returns lifecycle hooks that log every event at debug level,
// and failed fetches and refreshes at warn level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnFetch: func(ctx context.Context, e *domain.FetchEvent) {
			if e.Error != "" {
				logger.WarnContext(ctx, "fetch", "resource", e.Resource, "id", e.ID, "duration", e.Duration, "error", e.Error)
				return
			}
			logger.DebugContext(ctx, "fetch", "resource", e.Resource, "id", e.ID, "duration", e.Duration)
		},
		OnRefresh: func(ctx context.Context, e *domain.RefreshEvent) {
			level := slog.LevelDebug
			if e.Outcome == domain.OutcomeFailed {
				level = slog.LevelWarn
			}
			logger.Log(ctx, level, "refresh",
				"generation", e.Generation,
				"outcome", e.Outcome,
				"rendered", len(e.Rendered),
				"skipped", e.Skipped,
				"duration", e.Duration,
			)
		},
		OnToggle: func(ctx context.Context, e *domain.ToggleEvent) {
			logger.DebugContext(ctx, "toggle", "post_id", e.PostID, "visible", e.Visible)
		},
	}
}
