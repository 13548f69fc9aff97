package runtime_test

import (
	"context"
	"math"
	"sync/atomic"
	"testing"

	"github.com/aretw0/viability/internal/runtime"
	"github.com/aretw0/viability/pkg/domain"
	"github.com/aretw0/viability/pkg/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimate_SingleTrialEqualsLifetime(t *testing.T) {
	ctx := context.Background()
	f := rng.New(11)
	cfg := domain.DefaultConfig().WithTrials(1)

	est, err := runtime.NewEngine().Estimate(ctx, cfg, f)
	require.NoError(t, err)

	want := runtime.Simulate(cfg, f.Stream(0, 0)).Lifetime()
	assert.Equal(t, float64(want), est.Mean)
	assert.Equal(t, 1, est.Trials)
	assert.Equal(t, 0.0, est.StdDev)
	assert.Equal(t, 0.0, est.StdErr)
	assert.False(t, math.IsNaN(est.Mean))
}

func TestEstimate_IsMeanOfTrials(t *testing.T) {
	ctx := context.Background()
	f := rng.New(12)
	cfg := domain.DefaultConfig().WithRho(0.4).WithTrials(37)

	est, err := runtime.NewEngine().Estimate(ctx, cfg, f)
	require.NoError(t, err)

	sum, lo, hi := 0, math.MaxInt, 0
	lifetimes := make([]float64, cfg.Trials)
	for i := 0; i < cfg.Trials; i++ {
		l := runtime.Simulate(cfg, f.Stream(0, i)).Lifetime()
		lifetimes[i] = float64(l)
		sum += l
		lo = min(lo, l)
		hi = max(hi, l)
	}
	mean := float64(sum) / 37
	var ss float64
	for _, l := range lifetimes {
		ss += (l - mean) * (l - mean)
	}
	assert.Equal(t, mean, est.Mean)
	assert.InDelta(t, math.Sqrt(ss/36), est.StdDev, 1e-9)
	assert.Equal(t, lo, est.Min)
	assert.Equal(t, hi, est.Max)
	assert.Equal(t, 0.4, est.Rho)
}

func TestEstimate_Idempotent(t *testing.T) {
	ctx := context.Background()
	cfg := domain.DefaultConfig().WithTrials(500)
	engine := runtime.NewEngine()

	a, err := engine.Estimate(ctx, cfg, rng.New(42))
	require.NoError(t, err)
	b, err := engine.Estimate(ctx, cfg, rng.New(42))
	require.NoError(t, err)

	assert.Equal(t, a, b, "same seed must give identical output")
}

func TestEstimate_ParallelMatchesSequential(t *testing.T) {
	ctx := context.Background()
	cfg := domain.DefaultConfig().WithRho(0.2).WithTrials(1000)

	seq, err := runtime.NewEngine().Estimate(ctx, cfg, rng.New(77))
	require.NoError(t, err)

	for _, workers := range []int{2, 3, 8, 2000} {
		par, err := runtime.NewEngine(runtime.WithWorkers(workers)).Estimate(ctx, cfg, rng.New(77))
		require.NoError(t, err)
		assert.Equal(t, seq, par, "workers=%d", workers)
	}
}

func TestEstimate_InvalidConfigurationRunsNothing(t *testing.T) {
	ctx := context.Background()
	var trials atomic.Int64
	engine := runtime.NewEngine(runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnTrialEnd: func(context.Context, *domain.TrialEvent) { trials.Add(1) },
	}))

	for _, cfg := range []domain.Config{
		domain.DefaultConfig().WithTrials(0),
		func() domain.Config { c := domain.DefaultConfig(); c.MaxSteps = 0; return c }(),
		func() domain.Config { c := domain.DefaultConfig(); c.Sigma0 = -1; return c }(),
	} {
		_, err := engine.Estimate(ctx, cfg, rng.New(1))
		assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	}
	assert.Zero(t, trials.Load())
}

func TestEstimate_DegenerateWarnsAndRuns(t *testing.T) {
	ctx := context.Background()
	var events []*domain.DegenerateEvent
	engine := runtime.NewEngine(runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnDegenerate: func(_ context.Context, e *domain.DegenerateEvent) { events = append(events, e) },
	}))

	cfg := domain.DefaultConfig().WithRho(1).WithTrials(20)
	cfg.Alpha = 1

	est, err := engine.Estimate(ctx, cfg, rng.New(3))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 1.0, events[0].Rho)
	assert.True(t, est.Degenerate)

	// No authority and no environment: every trial decays by c per step.
	assert.Equal(t, 14.0, est.Mean)
	assert.Equal(t, 0.0, est.StdDev)
}

func TestEstimate_FullReductionIsDeterministic(t *testing.T) {
	ctx := context.Background()
	cfg := domain.DefaultConfig().WithRho(1).WithTrials(50)

	est, err := runtime.NewEngine().Estimate(ctx, cfg, rng.New(9))
	require.NoError(t, err)

	single := runtime.Simulate(cfg, rng.NewSource(0, 0)).Lifetime()
	assert.Equal(t, float64(single), est.Mean)
	assert.Equal(t, single, est.Min)
	assert.Equal(t, single, est.Max)
	assert.False(t, est.Degenerate)
}

func TestEstimate_CountsTimeouts(t *testing.T) {
	ctx := context.Background()
	cfg := noiseless().WithTrials(5)
	cfg.MaxSteps = 50

	est, err := runtime.NewEngine().Estimate(ctx, cfg, rng.New(1))
	require.NoError(t, err)
	assert.Equal(t, 5, est.TimedOut)
	assert.Equal(t, 50.0, est.Mean)
}

func TestEstimate_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := domain.DefaultConfig().WithTrials(10)
	for _, workers := range []int{1, 4} {
		_, err := runtime.NewEngine(runtime.WithWorkers(workers)).Estimate(ctx, cfg, rng.New(1))
		assert.ErrorIs(t, err, context.Canceled, "workers=%d", workers)
	}
}

func TestEstimate_StatisticsSpanBlocks(t *testing.T) {
	ctx := context.Background()
	f := rng.New(21)
	cfg := domain.DefaultConfig().WithRho(0.3).WithTrials(1031)

	est, err := runtime.NewEngine(runtime.WithWorkers(3)).Estimate(ctx, cfg, f)
	require.NoError(t, err)

	var sum float64
	lifetimes := make([]float64, cfg.Trials)
	for i := range lifetimes {
		lifetimes[i] = float64(runtime.Simulate(cfg, f.Stream(0, i)).Lifetime())
		sum += lifetimes[i]
	}
	mean := sum / float64(cfg.Trials)
	var ss float64
	for _, l := range lifetimes {
		ss += (l - mean) * (l - mean)
	}
	assert.Equal(t, cfg.Trials, est.Trials)
	assert.Equal(t, mean, est.Mean)
	assert.InDelta(t, math.Sqrt(ss/float64(cfg.Trials-1)), est.StdDev, 1e-9)
}

func TestEstimate_CanceledMidRun(t *testing.T) {
	for _, workers := range []int{1, 4} {
		ctx, cancel := context.WithCancel(context.Background())
		var ran atomic.Int64
		engine := runtime.NewEngine(
			runtime.WithWorkers(workers),
			runtime.WithLifecycleHooks(domain.LifecycleHooks{
				OnTrialEnd: func(context.Context, *domain.TrialEvent) {
					ran.Add(1)
					cancel()
				},
			}),
		)

		_, err := engine.Estimate(ctx, domain.DefaultConfig().WithTrials(5000), rng.New(1))
		assert.ErrorIs(t, err, context.Canceled, "workers=%d", workers)
		assert.Less(t, ran.Load(), int64(5000), "workers=%d", workers)
		cancel()
	}
}

func TestEstimate_TrialHooks(t *testing.T) {
	ctx := context.Background()
	var count atomic.Int64
	engine := runtime.NewEngine(
		runtime.WithWorkers(4),
		runtime.WithLifecycleHooks(domain.LifecycleHooks{
			OnTrialEnd: func(_ context.Context, e *domain.TrialEvent) {
				count.Add(1)
				assert.Equal(t, domain.EventTrialEnd, e.Type)
			},
		}),
	)

	_, err := engine.Estimate(ctx, domain.DefaultConfig().WithTrials(64), rng.New(1))
	require.NoError(t, err)
	assert.Equal(t, int64(64), count.Load())
}
