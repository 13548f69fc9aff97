package runtime_test

import (
	"context"
	"math"
	"testing"

	"github.com/aretw0/viability/internal/runtime"
	"github.com/aretw0/viability/pkg/domain"
	"github.com/aretw0/viability/pkg/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweep_PreservesGridOrder(t *testing.T) {
	ctx := context.Background()
	grid := domain.Grid{0.7, 0.1, 0.7, 0, 1, 0.1}
	base := domain.DefaultConfig().WithTrials(20)

	curve, err := runtime.NewEngine().Sweep(ctx, grid, base, rng.New(5))
	require.NoError(t, err)

	require.Len(t, curve.Points, len(grid))
	assert.Equal(t, []float64(grid), curve.Rhos())
	assert.Equal(t, base, curve.Base)
	for _, p := range curve.Points {
		assert.GreaterOrEqual(t, p.MeanLifetime, 1.0)
		assert.LessOrEqual(t, p.MeanLifetime, float64(base.MaxSteps))
	}
}

func TestSweep_DefaultGrid(t *testing.T) {
	ctx := context.Background()
	base := domain.DefaultConfig().WithTrials(10)

	curve, err := runtime.NewEngine().Sweep(ctx, domain.DefaultGrid(), base, rng.New(5))
	require.NoError(t, err)
	require.Len(t, curve.Points, 21)
	assert.Equal(t, 0.0, curve.Points[0].Rho)
	assert.Equal(t, 1.0, curve.Points[20].Rho)
}

func TestSweep_PointsMatchIndependentEstimates(t *testing.T) {
	ctx := context.Background()
	engine := runtime.NewEngine()
	base := domain.DefaultConfig().WithTrials(50)
	f := rng.New(31)

	curve, err := engine.Sweep(ctx, domain.Grid{0.25}, base, f)
	require.NoError(t, err)

	// The first grid point uses the same streams as a plain estimate.
	est, err := engine.Estimate(ctx, base.WithRho(0.25), f)
	require.NoError(t, err)
	assert.Equal(t, est.Mean, curve.Points[0].MeanLifetime)
}

func TestSweep_Idempotent(t *testing.T) {
	ctx := context.Background()
	grid := domain.Linspace(0, 1, 5)
	base := domain.DefaultConfig().WithTrials(100)

	a, err := runtime.NewEngine().Sweep(ctx, grid, base, rng.New(8))
	require.NoError(t, err)
	b, err := runtime.NewEngine(runtime.WithWorkers(4)).Sweep(ctx, grid, base, rng.New(8))
	require.NoError(t, err)

	assert.Equal(t, a.Points, b.Points)
}

func TestSweep_InvalidInput(t *testing.T) {
	ctx := context.Background()
	engine := runtime.NewEngine()

	_, err := engine.Sweep(ctx, domain.Grid{}, domain.DefaultConfig(), rng.New(1))
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)

	_, err = engine.Sweep(ctx, domain.Grid{0.5, 2}, domain.DefaultConfig(), rng.New(1))
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)

	_, err = engine.Sweep(ctx, domain.Grid{0.5}, domain.DefaultConfig().WithTrials(0), rng.New(1))
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestSweep_PointHooks(t *testing.T) {
	ctx := context.Background()
	var indexes []int
	engine := runtime.NewEngine(runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnPointDone: func(_ context.Context, e *domain.PointEvent) {
			indexes = append(indexes, e.Index)
		},
	}))

	_, err := engine.Sweep(ctx, domain.Grid{0.2, 0.4, 0.6}, domain.DefaultConfig().WithTrials(5), rng.New(1))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, indexes)
}

// With default parameters, partially reducing the system should not shorten
// survival beyond a generous statistical band, while full reduction
// (a nearly powerless controller with a constant cost) must.
func TestSweep_ViabilitySanity(t *testing.T) {
	if testing.Short() {
		t.Skip("statistical property test")
	}
	ctx := context.Background()
	base := domain.DefaultConfig()

	curve, err := runtime.NewEngine(runtime.WithWorkers(4)).Sweep(ctx, domain.Grid{0, 0.25, 1}, base, rng.New(2025))
	require.NoError(t, err)

	w0, w25, w1 := curve.Points[0], curve.Points[1], curve.Points[2]
	band := 0.1*w0.MeanLifetime + 4*math.Hypot(w0.StdErr, w25.StdErr)
	assert.GreaterOrEqual(t, w25.MeanLifetime, w0.MeanLifetime-band,
		"W(0.25)=%.1f dropped more than %.1f below W(0)=%.1f", w25.MeanLifetime, band, w0.MeanLifetime)

	assert.Less(t, w1.MeanLifetime, w0.MeanLifetime)
	assert.Equal(t, 0.0, w1.StdErr, "full reduction removes all noise")
}
