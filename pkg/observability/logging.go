package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/nfalab/pkg/domain"
)

// LogHooks returns lifecycle hooks that write every event to logger.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCompile: func(ctx context.Context, e *domain.CompileEvent) {
			if e.Err != nil {
				logger.InfoContext(ctx, "compile_rejected",
					"session_id", e.SessionID,
					"pattern", e.Pattern,
					"kind", e.Kind,
					"error", e.Err,
				)
				return
			}
			logger.InfoContext(ctx, "compile",
				"session_id", e.SessionID,
				"pattern", e.Pattern,
				"postfix", e.Postfix,
				"states", e.States,
				"transitions", e.Transitions,
				"duration", e.Duration,
			)
		},
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			logger.InfoContext(ctx, "step",
				"session_id", e.SessionID,
				"direction", e.Direction,
				"index", e.Index,
				"length", e.Length,
				"symbol", e.Symbol,
				"active", e.Active,
				"accepted", e.Accepted,
			)
		},
	}
}
