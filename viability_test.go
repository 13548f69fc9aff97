package viability_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/aretw0/viability"
	"github.com/aretw0/viability/internal/testutils"
	"github.com/aretw0/viability/pkg/adapters/memory"
	"github.com/aretw0/viability/pkg/domain"
	"github.com/aretw0/viability/pkg/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallConfig() domain.Config {
	return domain.DefaultConfig().WithTrials(50)
}

func TestEngine_SweepPersistsCurve(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	eng := viability.New(viability.WithSeed(7), viability.WithStore(store))

	curve, err := eng.Sweep(ctx, domain.Grid{0, 0.5, 1}, smallConfig())
	require.NoError(t, err)

	assert.NotEmpty(t, curve.ID)
	assert.Equal(t, uint64(7), curve.Seed)
	assert.False(t, curve.CreatedAt.IsZero())
	assert.Equal(t, []float64{0, 0.5, 1}, curve.Rhos())

	loaded, err := eng.Curves().Load(ctx, curve.ID)
	require.NoError(t, err)
	assert.Equal(t, curve.Points, loaded.Points)
}

func TestEngine_SeedReplays(t *testing.T) {
	ctx := context.Background()
	grid := domain.Grid{0, 0.25}

	a, err := viability.New(viability.WithSeed(99)).Sweep(ctx, grid, smallConfig())
	require.NoError(t, err)
	b, err := viability.New(viability.WithSeed(99), viability.WithWorkers(4)).Sweep(ctx, grid, smallConfig())
	require.NoError(t, err)

	assert.Equal(t, a.Points, b.Points)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestEngine_RandomSeedIsRecorded(t *testing.T) {
	ctx := context.Background()
	curve, err := viability.New().Sweep(ctx, domain.Grid{0}, smallConfig())
	require.NoError(t, err)

	replay, err := viability.New(viability.WithSeed(curve.Seed)).Sweep(ctx, domain.Grid{0}, smallConfig())
	require.NoError(t, err)
	assert.Equal(t, curve.Points, replay.Points)
}

func TestEngine_EstimateMatchesFirstSweepPoint(t *testing.T) {
	ctx := context.Background()
	eng := viability.New(viability.WithSeed(3))

	est, err := eng.Estimate(ctx, smallConfig().WithRho(0.4))
	require.NoError(t, err)
	curve, err := eng.Sweep(ctx, domain.Grid{0.4}, smallConfig())
	require.NoError(t, err)

	assert.Equal(t, est.Mean, curve.Points[0].MeanLifetime)
}

func TestEngine_SimulateAgreesWithTrace(t *testing.T) {
	ctx := context.Background()
	eng := viability.New(viability.WithSeed(11))

	outcome, err := eng.Simulate(ctx, domain.DefaultConfig())
	require.NoError(t, err)
	trace, err := eng.Trace(ctx, domain.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, outcome, trace.Outcome)
	assert.Len(t, trace.Steps, outcome.Lifetime())
}

func TestEngine_InjectedSource(t *testing.T) {
	cfg := testutils.DeterministicConfig()
	eng := viability.New(viability.WithSourceFactory(rng.NewReplayFactory()))
	outcome, err := eng.Simulate(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, testutils.DeterministicLifetime, outcome.Lifetime())
}

func TestEngine_InvalidConfiguration(t *testing.T) {
	ctx := context.Background()
	eng := viability.New()

	_, err := eng.Simulate(ctx, smallConfig().WithTrials(0))
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	_, err = eng.Trace(ctx, smallConfig().WithRho(2))
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	_, err = eng.Estimate(ctx, smallConfig().WithTrials(0))
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	_, err = eng.Sweep(ctx, domain.Grid{}, smallConfig())
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)

	ids, err := eng.Curves().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids, "failed sweeps are not stored")
}

func TestEngine_Hooks(t *testing.T) {
	var trials, points atomic.Int64
	eng := viability.New(
		viability.WithSeed(1),
		viability.WithLifecycleHooks(domain.LifecycleHooks{
			OnTrialEnd: func(context.Context, *domain.TrialEvent) { trials.Add(1) },
		}),
		viability.WithLifecycleHooks(domain.LifecycleHooks{
			OnPointDone: func(context.Context, *domain.PointEvent) { points.Add(1) },
		}),
	)

	_, err := eng.Sweep(context.Background(), domain.Grid{0, 1}, smallConfig())
	require.NoError(t, err)
	assert.Equal(t, int64(100), trials.Load())
	assert.Equal(t, int64(2), points.Load())
}
