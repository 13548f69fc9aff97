package viability

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/viability/internal/logging"
	"github.com/aretw0/viability/internal/runtime"
	"github.com/aretw0/viability/pkg/adapters/memory"
	"github.com/aretw0/viability/pkg/domain"
	"github.com/aretw0/viability/pkg/ports"
	"github.com/aretw0/viability/pkg/rng"
	"github.com/google/uuid"
)

// Engine is the high-level entry point for the viability library.
// It wraps the internal runtime, owns the random seeding policy and
// persists every swept curve in its CurveStore.
type Engine struct {
	runtime *runtime.Engine
	store   ports.CurveStore
	factory ports.SourceFactory
	seed    uint64
	seeded  bool
	workers int
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	now     func() time.Time
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithStore sets where swept curves are persisted (default: in memory).
func WithStore(store ports.CurveStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithWorkers runs the trials of each estimate on n goroutines.
// Results are identical to the sequential run for the same seed.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithSeed fixes the root seed so every operation replays exactly.
// Without it each operation draws a fresh random seed, recorded on the curve.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.seed = seed
		e.seeded = true
	}
}

// WithSourceFactory injects the random streams directly, bypassing seeding.
func WithSourceFactory(f ports.SourceFactory) Option {
	return func(e *Engine) {
		e.factory = f
	}
}

// New initializes a new Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}

	eng.runtime = runtime.NewEngine(
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithWorkers(eng.workers),
	)
	return eng
}

// sources returns the stream factory for one operation and the seed it replays from.
func (e *Engine) sources() (ports.SourceFactory, uint64) {
	if e.factory != nil {
		if s, ok := e.factory.(interface{ Seed() uint64 }); ok {
			return e.factory, s.Seed()
		}
		return e.factory, 0
	}
	if e.seeded {
		return rng.New(e.seed), e.seed
	}
	f := rng.NewRandom()
	return f, f.Seed()
}

// Simulate runs a single trajectory and returns how it ended.
func (e *Engine) Simulate(ctx context.Context, cfg domain.Config) (domain.Outcome, error) {
	if err := cfg.Validate(); err != nil {
		return domain.Outcome{}, err
	}
	factory, _ := e.sources()
	return runtime.Simulate(cfg, factory.Stream(0, 0)), nil
}

// Trace runs a single trajectory and records every step.
// It draws from the same stream as Simulate, so both agree on the outcome.
func (e *Engine) Trace(ctx context.Context, cfg domain.Config) (*domain.Trace, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	factory, _ := e.sources()
	return runtime.Trace(cfg, factory.Stream(0, 0)), nil
}

// Estimate runs cfg.Trials independent trajectories and returns their mean lifetime.
func (e *Engine) Estimate(ctx context.Context, cfg domain.Config) (domain.Estimate, error) {
	factory, _ := e.sources()
	return e.runtime.Estimate(ctx, cfg, factory)
}

// Sweep estimates the viability curve over grid and persists it.
// The returned curve carries a fresh ID, the seed it replays from and its creation time.
func (e *Engine) Sweep(ctx context.Context, grid domain.Grid, base domain.Config) (*domain.Curve, error) {
	factory, seed := e.sources()
	curve, err := e.runtime.Sweep(ctx, grid, base, factory)
	if err != nil {
		return nil, err
	}

	curve.ID = uuid.NewString()
	curve.Seed = seed
	curve.CreatedAt = e.now().UTC()

	if err := e.store.Save(ctx, curve); err != nil {
		return nil, fmt.Errorf("failed to persist curve: %w", err)
	}
	e.logger.Info("sweep complete", "curve_id", curve.ID, "points", len(curve.Points), "seed", seed)
	return curve, nil
}

// Curves returns the store holding swept curves.
func (e *Engine) Curves() ports.CurveStore {
	return e.store
}

var _ ports.Simulator = (*Engine)(nil)
