package ports

import (
	"context"

	"github.com/aretw0/viability/pkg/domain"
)

// Simulator is the stateless simulation surface used by adapters (e.g., HTTP, MCP).
type Simulator interface {
	// Trace runs one trajectory and returns its step-by-step record.
	Trace(ctx context.Context, cfg domain.Config) (*domain.Trace, error)

	// Estimate runs cfg.Trials trajectories and returns their mean lifetime.
	Estimate(ctx context.Context, cfg domain.Config) (domain.Estimate, error)

	// Sweep estimates the mean lifetime for every rho in grid, in order.
	Sweep(ctx context.Context, grid domain.Grid, base domain.Config) (*domain.Curve, error)
}
