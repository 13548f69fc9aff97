// Package config provides unified configuration loading for viability.
// It supports loading from YAML/JSON files, environment variables and
// loosely typed override maps (HTTP and MCP request bodies).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/viability/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// Config contains all viability configuration settings.
type Config struct {
	// Simulation is the base configuration every estimate starts from.
	Simulation domain.Config `json:"simulation" yaml:"simulation"`

	// Sweep selects the rho grid.
	Sweep SweepConfig `json:"sweep" yaml:"sweep"`

	// Run controls seeding and parallelism.
	Run RunConfig `json:"run" yaml:"run"`

	// Store selects where curves are persisted.
	Store StoreConfig `json:"store" yaml:"store"`

	// Server configures the HTTP adapter.
	Server ServerConfig `json:"server" yaml:"server"`

	// Logging contains settings for operational logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// SweepConfig selects the rho grid.
type SweepConfig struct {
	// Grid lists explicit rho values. When empty, GridPoints evenly spaced
	// values over [0, 1] are used.
	Grid []float64 `json:"grid,omitempty" yaml:"grid,omitempty"`

	// GridPoints is the size of the default evenly spaced grid.
	GridPoints int `json:"grid_points" yaml:"grid_points"`
}

// RunConfig controls seeding and parallelism.
type RunConfig struct {
	// Seed is the root seed. 0 draws a fresh seed for every run.
	Seed uint64 `json:"seed" yaml:"seed"`

	// Workers is the number of goroutines running the trials of one estimate.
	Workers int `json:"workers" yaml:"workers"`
}

// StoreConfig selects where curves are persisted.
type StoreConfig struct {
	// Driver is one of "memory", "file", "redis" or "sqlite".
	Driver string `json:"driver" yaml:"driver"`

	// Path is the directory (file) or database file (sqlite).
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// RedisAddr is the host:port of the Redis server.
	RedisAddr string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty"`

	// RedisPassword supports ${VAR} syntax for env vars.
	RedisPassword string `json:"redis_password,omitempty" yaml:"redis_password,omitempty"`

	// RedisDB is the Redis logical database.
	RedisDB int `json:"redis_db,omitempty" yaml:"redis_db,omitempty"`

	// TTL expires stored curves (Redis only). 0 keeps them forever.
	TTL time.Duration `json:"ttl,omitempty" yaml:"ttl,omitempty"`
}

// ServerConfig configures the HTTP adapter.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `json:"addr" yaml:"addr"`

	// Metrics exposes /metrics when true.
	Metrics bool `json:"metrics" yaml:"metrics"`

	// MaxBodyBytes caps request bodies. 0 disables the cap.
	MaxBodyBytes int64 `json:"max_body_bytes" yaml:"max_body_bytes"`

	// WorkLimit caps the simulated steps (grid x trials x max_steps) of one
	// request. 0 disables the check.
	WorkLimit int64 `json:"work_limit" yaml:"work_limit"`
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "debug", "info" (default), "warn" or "error".
	Level string `json:"level" yaml:"level"`
}

// Default returns a Config with the reference model and sensible defaults.
func Default() *Config {
	return &Config{
		Simulation: domain.DefaultConfig(),
		Sweep: SweepConfig{
			GridPoints: domain.DefaultGridPoints,
		},
		Run: RunConfig{
			Seed:    0,
			Workers: 1,
		},
		Store: StoreConfig{
			Driver: StoreMemory,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			Metrics:      true,
			MaxBodyBytes: 1 << 20,
			WorkLimit:    1_000_000_000,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, an optional file and the environment.
// Order: defaults -> file (path, or $VIABILITY_CONFIG) -> environment variables.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("VIABILITY_CONFIG")
	}

	cfg := Default()
	if path != "" {
		fileConfig, err := LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		cfg = fileConfig
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a YAML or JSON (by extension) configuration file on top of the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.Store.RedisPassword = os.ExpandEnv(cfg.Store.RedisPassword)
	return cfg, nil
}

// Grid returns the rho grid selected by the sweep settings.
func (c *Config) Grid() domain.Grid {
	if len(c.Sweep.Grid) > 0 {
		return append(domain.Grid(nil), c.Sweep.Grid...)
	}
	return domain.Linspace(0, 1, c.Sweep.GridPoints)
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := c.Simulation.Validate(); err != nil {
		return err
	}
	if err := c.Grid().Validate(); err != nil {
		return err
	}
	if c.Server.MaxBodyBytes < 0 || c.Server.WorkLimit < 0 {
		return fmt.Errorf("%w: server limits must be non-negative", domain.ErrInvalidConfiguration)
	}
	if c.Run.Workers < 0 {
		return fmt.Errorf("%w: workers must be non-negative, got %d", domain.ErrInvalidConfiguration, c.Run.Workers)
	}

	validDrivers := map[string]bool{StoreMemory: true, StoreFile: true, StoreRedis: true, StoreSQLite: true}
	if !validDrivers[c.Store.Driver] {
		return fmt.Errorf("invalid store driver: %s (valid: memory, file, redis, sqlite)", c.Store.Driver)
	}
	if c.Store.Driver == StoreRedis && c.Store.RedisAddr == "" {
		return fmt.Errorf("store driver redis requires redis_addr")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error, or empty for default)", c.Logging.Level)
	}
	return nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
