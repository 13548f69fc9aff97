package domain

import (
	"fmt"
	"math"
)

// Params holds the fixed constants of the energy dynamics.
type Params struct {
	// GammaRef is the target energy the controller steers towards.
	GammaRef float64 `json:"gamma_ref" yaml:"gamma_ref" mapstructure:"gamma_ref"`
	// GammaMin is the death threshold.
	GammaMin float64 `json:"gamma_min" yaml:"gamma_min" mapstructure:"gamma_min"`
	// K0 is the nominal proportional gain.
	K0 float64 `json:"k0" yaml:"k0" mapstructure:"k0"`
	// Alpha attenuates both gain and saturation as rho grows.
	Alpha float64 `json:"alpha" yaml:"alpha" mapstructure:"alpha"`
	// Mu is the mean (drift) of the environmental input.
	Mu float64 `json:"mu" yaml:"mu" mapstructure:"mu"`
	// Sigma0 is the standard deviation of the environmental noise.
	Sigma0 float64 `json:"sigma0" yaml:"sigma0" mapstructure:"sigma0"`
	// C is the constant decay cost paid every step.
	C float64 `json:"c" yaml:"c" mapstructure:"c"`
	// U0 is the nominal control saturation bound.
	U0 float64 `json:"u0" yaml:"u0" mapstructure:"u0"`
}

// DefaultParams returns the reference model constants.
func DefaultParams() Params {
	return Params{
		GammaRef: DefaultGammaRef,
		GammaMin: DefaultGammaMin,
		K0:       DefaultK0,
		Alpha:    DefaultAlpha,
		Mu:       DefaultMu,
		Sigma0:   DefaultSigma0,
		C:        DefaultC,
		U0:       DefaultU0,
	}
}

// Config is an immutable simulation configuration.
// Methods have value receivers and never mutate the receiver.
type Config struct {
	// Rho is the systemic reduction degree in [0, 1].
	Rho float64 `json:"rho" yaml:"rho" mapstructure:"rho"`
	// Trials is the number of independent trajectories per estimate (N).
	Trials int `json:"trials" yaml:"trials" mapstructure:"trials"`
	// MaxSteps is the step budget of a single trajectory (T_max).
	MaxSteps int `json:"max_steps" yaml:"max_steps" mapstructure:"max_steps"`

	Params `yaml:",inline" mapstructure:",squash"`
}

// DefaultConfig returns the reference configuration at rho = 0.
func DefaultConfig() Config {
	return Config{
		Rho:      0,
		Trials:   DefaultTrials,
		MaxSteps: DefaultMaxSteps,
		Params:   DefaultParams(),
	}
}

// WithRho returns a copy of the configuration with rho substituted.
func (c Config) WithRho(rho float64) Config {
	c.Rho = rho
	return c
}

// WithTrials returns a copy of the configuration with the trial count substituted.
func (c Config) WithTrials(n int) Config {
	c.Trials = n
	return c
}

// Reduction returns the attenuation factor 1 - alpha*rho shared by gain and saturation.
func (c Config) Reduction() float64 {
	return 1 - c.Alpha*c.Rho
}

// Gain returns the effective proportional gain k_eff.
func (c Config) Gain() float64 {
	return c.K0 * (1 - c.Alpha*c.Rho)
}

// Saturation returns the effective control bound U_max.
func (c Config) Saturation() float64 {
	return c.U0 * (1 - c.Alpha*c.Rho)
}

// Degenerate reports whether the controller has lost all authority (alpha*rho >= 1).
// A degenerate configuration is valid and still simulated.
func (c Config) Degenerate() bool {
	return c.Alpha*c.Rho >= 1
}

// Validate checks the configuration and returns an error wrapping
// ErrInvalidConfiguration for the first violated constraint.
func (c Config) Validate() error {
	if c.Trials < 1 {
		return invalid("trials must be at least 1, got %d", c.Trials)
	}
	if c.MaxSteps < 1 {
		return invalid("max_steps must be at least 1, got %d", c.MaxSteps)
	}
	if math.IsNaN(c.Rho) || c.Rho < 0 || c.Rho > 1 {
		return invalid("rho must be within [0, 1], got %v", c.Rho)
	}
	return c.Params.Validate()
}

// Validate checks the model constants.
func (p Params) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"gamma_ref", p.GammaRef},
		{"gamma_min", p.GammaMin},
		{"k0", p.K0},
		{"alpha", p.Alpha},
		{"mu", p.Mu},
		{"sigma0", p.Sigma0},
		{"c", p.C},
		{"u0", p.U0},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return invalid("%s must be finite, got %v", f.name, f.value)
		}
	}

	if p.Sigma0 < 0 {
		return invalid("sigma0 must be non-negative, got %v", p.Sigma0)
	}
	if p.GammaMin >= p.GammaRef {
		return invalid("gamma_min (%v) must be below gamma_ref (%v)", p.GammaMin, p.GammaRef)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}
