package runtime

import (
	"context"
	"time"

	"github.com/aretw0/viability/pkg/domain"
	"github.com/aretw0/viability/pkg/ports"
)

// Sweep estimates the mean lifetime for every rho in grid, in grid order.
// Each grid position draws from its own family of streams, so duplicated rho
// values are still independent estimates. All configurations are validated
// before the first trial runs.
func (e *Engine) Sweep(ctx context.Context, grid domain.Grid, base domain.Config, factory ports.SourceFactory) (*domain.Curve, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	for _, rho := range grid {
		if err := base.WithRho(rho).Validate(); err != nil {
			return nil, err
		}
	}

	points := make([]domain.Point, 0, len(grid))
	for i, rho := range grid {
		start := time.Now()
		est, err := e.estimate(ctx, base.WithRho(rho), factory, i)
		if err != nil {
			return nil, err
		}
		points = append(points, domain.PointFrom(est))

		elapsed := time.Since(start)
		e.logger.Debug("point estimated",
			"index", i,
			"rho", rho,
			"mean_lifetime", est.Mean,
			"std_err", est.StdErr,
			"timed_out", est.TimedOut,
			"duration", elapsed,
		)
		if e.hooks.OnPointDone != nil {
			e.hooks.OnPointDone(ctx, &domain.PointEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventPointDone},
				Index:     i,
				Estimate:  est,
				Duration:  elapsed,
			})
		}
	}

	return &domain.Curve{Base: base, Points: points}, nil
}
