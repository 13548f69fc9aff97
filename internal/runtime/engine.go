package runtime

import (
	"log/slog"

	"github.com/aretw0/viability/internal/logging"
	"github.com/aretw0/viability/pkg/domain"
)

// Engine runs estimates and sweeps over the trajectory simulator.
// It holds no per-run state and is safe for concurrent use.
type Engine struct {
	workers int
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithWorkers sets how many goroutines run trials of one estimate.
// Values below 2 run trials sequentially. The result does not depend on it.
func WithWorkers(n int) EngineOption {
	return func(e *Engine) {
		e.workers = n
	}
}

// NewEngine creates a new engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		workers: 1,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Workers returns the configured trial parallelism.
func (e *Engine) Workers() int {
	if e.workers < 1 {
		return 1
	}
	return e.workers
}
