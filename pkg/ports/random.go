package ports

// GaussianSource supplies Gaussian deviates to a single trajectory.
// A source is confined to one goroutine; it need not be safe for concurrent use.
type GaussianSource interface {
	// Normal draws one sample from Normal(mean, stddev).
	Normal(mean, stddev float64) float64
}

// SourceFactory hands out independent random streams.
// Stream must be safe for concurrent use and must return the same sequence
// for the same (point, trial) pair, so that results replay under a fixed seed.
type SourceFactory interface {
	// Stream returns the source for trial number trial of grid point number point.
	Stream(point, trial int) GaussianSource
}
