package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/viability/pkg/domain"
)

// LogHooks returns lifecycle hooks that write structured logs.
// Trial events are logged at debug level only, as there is one per trajectory.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTrialEnd: func(ctx context.Context, e *domain.TrialEvent) {
			logger.DebugContext(ctx, "trial_end",
				"rho", e.Rho,
				"trial", e.Trial,
				"outcome", string(e.Outcome.Kind),
				"lifetime", e.Outcome.Lifetime(),
			)
		},
		OnPointDone: func(ctx context.Context, e *domain.PointEvent) {
			logger.InfoContext(ctx, "point_done",
				"index", e.Index,
				"rho", e.Estimate.Rho,
				"mean_lifetime", e.Estimate.Mean,
				"std_err", e.Estimate.StdErr,
				"duration", e.Duration,
			)
		},
	}
}
