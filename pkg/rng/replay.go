package rng

import "github.com/aretw0/viability/pkg/ports"

// Replay is a GaussianSource that returns a fixed sequence of standard
// deviates, scaled to the requested distribution. Once the sequence is
// exhausted it keeps returning the mean.
type Replay struct {
	z    []float64
	next int
}

// NewReplay creates a source replaying the standard normal values z.
func NewReplay(z ...float64) *Replay {
	return &Replay{z: append([]float64(nil), z...)}
}

// Normal returns mean + stddev*z[i] for the next recorded z.
func (r *Replay) Normal(mean, stddev float64) float64 {
	if r.next >= len(r.z) {
		r.next++
		return mean
	}
	v := mean + stddev*r.z[r.next]
	r.next++
	return v
}

// Draws reports how many samples have been requested so far.
func (r *Replay) Draws() int {
	return r.next
}

// ReplayFactory hands every stream a fresh Replay over the same values.
type ReplayFactory struct {
	z []float64
}

var _ ports.SourceFactory = (*ReplayFactory)(nil)

// NewReplayFactory creates a factory whose streams all replay z.
func NewReplayFactory(z ...float64) *ReplayFactory {
	return &ReplayFactory{z: append([]float64(nil), z...)}
}

// Stream returns a new Replay, independent of point and trial.
func (f *ReplayFactory) Stream(point, trial int) ports.GaussianSource {
	return NewReplay(f.z...)
}
