package domain

// Default model constants.
const (
	DefaultGammaRef = 1.0
	DefaultGammaMin = 0.2
	DefaultK0       = 0.25
	DefaultAlpha    = 0.9
	DefaultMu       = 0.01
	DefaultSigma0   = 0.18
	DefaultC        = 0.06
	DefaultU0       = 0.4
)

// Default run sizes.
const (
	DefaultTrials     = 5000
	DefaultMaxSteps   = 400
	DefaultGridPoints = 21
)

// InitialGamma is the energy every trajectory starts with.
const InitialGamma = 1.0
