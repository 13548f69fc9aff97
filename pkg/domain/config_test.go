package domain_test

import (
	"math"
	"testing"

	"github.com/aretw0/viability/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := domain.DefaultConfig()

	assert.Equal(t, 0.0, cfg.Rho)
	assert.Equal(t, 5000, cfg.Trials)
	assert.Equal(t, 400, cfg.MaxSteps)
	assert.Equal(t, 1.0, cfg.GammaRef)
	assert.Equal(t, 0.2, cfg.GammaMin)
	assert.Equal(t, 0.25, cfg.K0)
	assert.Equal(t, 0.9, cfg.Alpha)
	assert.Equal(t, 0.01, cfg.Mu)
	assert.Equal(t, 0.18, cfg.Sigma0)
	assert.Equal(t, 0.06, cfg.C)
	assert.Equal(t, 0.4, cfg.U0)
	require.NoError(t, cfg.Validate())
}

func TestConfig_WithRhoDoesNotMutate(t *testing.T) {
	base := domain.DefaultConfig()
	next := base.WithRho(0.35)

	assert.Equal(t, 0.0, base.Rho)
	assert.Equal(t, 0.35, next.Rho)
	assert.Equal(t, base.Params, next.Params)
}

func TestConfig_EffectiveControl(t *testing.T) {
	cfg := domain.DefaultConfig().WithRho(0.5)

	assert.InDelta(t, 0.25*0.55, cfg.Gain(), 1e-15)
	assert.InDelta(t, 0.4*0.55, cfg.Saturation(), 1e-15)
	assert.False(t, cfg.Degenerate())

	cfg.Alpha = 1
	assert.False(t, cfg.WithRho(0.99).Degenerate())
	assert.True(t, cfg.WithRho(1).Degenerate())
	assert.Equal(t, 0.0, cfg.WithRho(1).Gain())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Config)
	}{
		{"zero trials", func(c *domain.Config) { c.Trials = 0 }},
		{"negative trials", func(c *domain.Config) { c.Trials = -3 }},
		{"zero budget", func(c *domain.Config) { c.MaxSteps = 0 }},
		{"negative sigma", func(c *domain.Config) { c.Sigma0 = -0.1 }},
		{"rho above one", func(c *domain.Config) { c.Rho = 1.01 }},
		{"rho below zero", func(c *domain.Config) { c.Rho = -0.01 }},
		{"nan rho", func(c *domain.Config) { c.Rho = math.NaN() }},
		{"threshold above target", func(c *domain.Config) { c.GammaMin = 1.5 }},
		{"threshold equals target", func(c *domain.Config) { c.GammaMin = c.GammaRef }},
		{"infinite gain", func(c *domain.Config) { c.K0 = math.Inf(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := domain.DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
		})
	}

	t.Run("degenerate is valid", func(t *testing.T) {
		cfg := domain.DefaultConfig().WithRho(1)
		cfg.Alpha = 1.2
		assert.True(t, cfg.Degenerate())
		assert.NoError(t, cfg.Validate())
	})

	t.Run("zero sigma is valid", func(t *testing.T) {
		cfg := domain.DefaultConfig()
		cfg.Sigma0 = 0
		assert.NoError(t, cfg.Validate())
	})
}
