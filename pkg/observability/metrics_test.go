package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/viability/pkg/domain"
	"github.com/aretw0/viability/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnTrialEnd(ctx, &domain.TrialEvent{Outcome: domain.Died(3)})
	hooks.OnTrialEnd(ctx, &domain.TrialEvent{Outcome: domain.Died(9)})
	hooks.OnTrialEnd(ctx, &domain.TrialEvent{Outcome: domain.TimedOut(400)})
	hooks.OnPointDone(ctx, &domain.PointEvent{Duration: 250 * time.Millisecond})
	hooks.OnDegenerate(ctx, &domain.DegenerateEvent{Rho: 1, Alpha: 1})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Trials.WithLabelValues("died")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Trials.WithLabelValues("timed_out")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Points))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Degenerate))

	count, err := testutil.GatherAndCount(reg, "viability_trial_lifetime_steps")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewMetrics_Unregistered(t *testing.T) {
	assert.NotPanics(t, func() {
		observability.NewMetrics(nil)
		observability.NewMetrics(nil)
	})
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	hooks := observability.LogHooks(logger)
	ctx := context.Background()

	hooks.OnTrialEnd(ctx, &domain.TrialEvent{Outcome: domain.Died(0)})
	assert.Empty(t, buf.String(), "trial events stay below info")

	hooks.OnPointDone(ctx, &domain.PointEvent{Index: 2, Estimate: domain.Estimate{Rho: 0.1, Mean: 42}})
	assert.Contains(t, buf.String(), "point_done")
	assert.Contains(t, buf.String(), "mean_lifetime=42")
}
