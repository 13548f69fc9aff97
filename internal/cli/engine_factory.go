package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/viability"
	"github.com/aretw0/viability/internal/adapters/file"
	"github.com/aretw0/viability/internal/adapters/redis"
	"github.com/aretw0/viability/internal/adapters/sqlite"
	"github.com/aretw0/viability/internal/config"
	"github.com/aretw0/viability/pkg/adapters/memory"
	"github.com/aretw0/viability/pkg/observability"
	"github.com/aretw0/viability/pkg/ports"
)

// Runtime bundles an engine with the store it persists to.
type Runtime struct {
	Engine *viability.Engine
	Store  ports.CurveStore
	close  func() error
}

// Close releases the store connection, if any.
func (r *Runtime) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// OpenStore creates the curve store selected by the configuration.
// The returned close function is never nil.
func OpenStore(cfg config.StoreConfig) (ports.CurveStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case "", config.StoreMemory:
		return memory.NewStore(), noop, nil
	case config.StoreFile:
		return file.New(cfg.Path), noop, nil
	case config.StoreRedis:
		if cfg.RedisAddr == "" {
			return nil, noop, fmt.Errorf("store driver redis requires redis_addr")
		}
		store := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, redis.WithTTL(cfg.TTL))
		return store, store.Close, nil
	case config.StoreSQLite:
		path := cfg.Path
		if path == "" {
			path = "viability.db"
		}
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	}
	return nil, noop, fmt.Errorf("invalid store driver: %s", cfg.Driver)
}

// createEngine initializes an engine with standard CLI conventions:
// configured store, seed and workers, log hooks and optional metrics.
func createEngine(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*Runtime, error) {
	store, closeStore, err := OpenStore(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("error opening store: %w", err)
	}

	hooks := observability.LogHooks(logger)
	if metrics != nil {
		hooks = hooks.Merge(metrics.Hooks())
	}

	opts := []viability.Option{
		viability.WithLogger(logger),
		viability.WithStore(store),
		viability.WithWorkers(cfg.Run.Workers),
		viability.WithLifecycleHooks(hooks),
	}
	if cfg.Run.Seed != 0 {
		opts = append(opts, viability.WithSeed(cfg.Run.Seed))
	}

	return &Runtime{
		Engine: viability.New(opts...),
		Store:  store,
		close:  closeStore,
	}, nil
}

// NewRuntime validates the configuration and builds the engine for it.
func NewRuntime(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return createEngine(cfg, logger, metrics)
}

