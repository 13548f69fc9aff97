package observability

import (
	"context"

	"github.com/aretw0/viability/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors fed by the simulation hooks.
type Metrics struct {
	Trials        *prometheus.CounterVec
	Lifetimes     prometheus.Histogram
	PointDuration prometheus.Histogram
	Points        prometheus.Counter
	Degenerate    prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// A nil registerer leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Trials: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "viability_trials_total",
				Help: "Total number of simulated trajectories by outcome",
			},
			[]string{"outcome"},
		),
		Lifetimes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "viability_trial_lifetime_steps",
			Help:    "Lifetime of simulated trajectories in steps",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		PointDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "viability_point_duration_seconds",
			Help: "Wall time spent estimating one rho value",
		}),
		Points: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "viability_points_total",
			Help: "Total number of rho values estimated in sweeps",
		}),
		Degenerate: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "viability_degenerate_estimates_total",
			Help: "Estimates run with alpha*rho >= 1",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Trials, m.Lifetimes, m.PointDuration, m.Points, m.Degenerate)
	}
	return m
}

// Hooks returns lifecycle hooks that record into the collectors.
// Collectors are safe for concurrent use, so trials may run on several workers.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTrialEnd: func(_ context.Context, e *domain.TrialEvent) {
			m.Trials.WithLabelValues(string(e.Outcome.Kind)).Inc()
			m.Lifetimes.Observe(float64(e.Outcome.Lifetime()))
		},
		OnPointDone: func(_ context.Context, e *domain.PointEvent) {
			m.Points.Inc()
			m.PointDuration.Observe(e.Duration.Seconds())
		},
		OnDegenerate: func(_ context.Context, _ *domain.DegenerateEvent) {
			m.Degenerate.Inc()
		},
	}
}
