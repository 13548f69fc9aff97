// Package rng provides seeded Gaussian sources for the simulator.
//
// Every (point, trial) pair gets its own PCG generator derived from a single
// root seed, so trials never share generator state and a fixed seed replays
// the same draws regardless of execution order.
package rng

import (
	"math/rand/v2"

	"github.com/aretw0/viability/pkg/ports"
)

// Source is a GaussianSource backed by a private generator.
// It is not safe for concurrent use.
type Source struct {
	r *rand.Rand
}

// NewSource creates a source seeded with the two PCG seed words.
func NewSource(seed1, seed2 uint64) *Source {
	return &Source{r: rand.New(rand.NewPCG(seed1, seed2))}
}

// Normal draws one sample from Normal(mean, stddev).
func (s *Source) Normal(mean, stddev float64) float64 {
	return mean + stddev*s.r.NormFloat64()
}

// Factory derives independent streams from a root seed.
// It holds no mutable state and is safe for concurrent use.
type Factory struct {
	seed uint64
}

var _ ports.SourceFactory = (*Factory)(nil)

// New creates a factory for the given root seed.
func New(seed uint64) *Factory {
	return &Factory{seed: seed}
}

// NewRandom creates a factory with a seed drawn from the runtime's entropy.
// Use Seed to record it for replay.
func NewRandom() *Factory {
	return New(rand.Uint64())
}

// Seed returns the root seed.
func (f *Factory) Seed() uint64 {
	return f.seed
}

// Stream returns the source for trial number trial of grid point number point.
func (f *Factory) Stream(point, trial int) ports.GaussianSource {
	seq := uint64(uint32(point))<<32 | uint64(uint32(trial))
	return NewSource(splitmix64(f.seed), splitmix64(f.seed^splitmix64(seq)))
}

// splitmix64 scrambles x so that neighbouring indices give unrelated seeds.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
