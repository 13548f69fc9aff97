package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "VIABILITY_"

// envOverrides mirrors the overridable settings. Nil fields were not set.
type envOverrides struct {
	Rho      *float64 `env:"RHO"`
	Trials   *int     `env:"TRIALS"`
	MaxSteps *int     `env:"MAX_STEPS"`
	GammaRef *float64 `env:"GAMMA_REF"`
	GammaMin *float64 `env:"GAMMA_MIN"`
	K0       *float64 `env:"K0"`
	Alpha    *float64 `env:"ALPHA"`
	Mu       *float64 `env:"MU"`
	Sigma0   *float64 `env:"SIGMA0"`
	C        *float64 `env:"C"`
	U0       *float64 `env:"U0"`

	Grid       []float64 `env:"GRID" envSeparator:","`
	GridPoints *int      `env:"GRID_POINTS"`

	Seed    *uint64 `env:"SEED"`
	Workers *int    `env:"WORKERS"`

	StoreDriver   *string        `env:"STORE"`
	StorePath     *string        `env:"STORE_PATH"`
	RedisAddr     *string        `env:"REDIS_ADDR"`
	RedisPassword *string        `env:"REDIS_PASSWORD"`
	RedisDB       *int           `env:"REDIS_DB"`
	StoreTTL      *time.Duration `env:"STORE_TTL"`

	ServerAddr   *string `env:"ADDR"`
	Metrics      *bool   `env:"METRICS"`
	MaxBodyBytes *int64  `env:"MAX_BODY_BYTES"`
	WorkLimit    *int64  `env:"WORK_LIMIT"`

	LogLevel *string `env:"LOG_LEVEL"`
}

// ApplyEnv overrides cfg with the VIABILITY_* environment variables that are set.
func ApplyEnv(cfg *Config) error {
	var o envOverrides
	if err := env.ParseWithOptions(&o, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	sim := &cfg.Simulation
	set(&sim.Rho, o.Rho)
	set(&sim.Trials, o.Trials)
	set(&sim.MaxSteps, o.MaxSteps)
	set(&sim.GammaRef, o.GammaRef)
	set(&sim.GammaMin, o.GammaMin)
	set(&sim.K0, o.K0)
	set(&sim.Alpha, o.Alpha)
	set(&sim.Mu, o.Mu)
	set(&sim.Sigma0, o.Sigma0)
	set(&sim.C, o.C)
	set(&sim.U0, o.U0)

	if len(o.Grid) > 0 {
		cfg.Sweep.Grid = o.Grid
	}
	set(&cfg.Sweep.GridPoints, o.GridPoints)

	set(&cfg.Run.Seed, o.Seed)
	set(&cfg.Run.Workers, o.Workers)

	set(&cfg.Store.Driver, o.StoreDriver)
	set(&cfg.Store.Path, o.StorePath)
	set(&cfg.Store.RedisAddr, o.RedisAddr)
	set(&cfg.Store.RedisPassword, o.RedisPassword)
	set(&cfg.Store.RedisDB, o.RedisDB)
	set(&cfg.Store.TTL, o.StoreTTL)

	set(&cfg.Server.Addr, o.ServerAddr)
	set(&cfg.Server.Metrics, o.Metrics)
	set(&cfg.Server.MaxBodyBytes, o.MaxBodyBytes)
	set(&cfg.Server.WorkLimit, o.WorkLimit)

	set(&cfg.Logging.Level, o.LogLevel)
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
