package domain

import (
	"fmt"
	"math"
	"time"
)

// Estimate is the Monte Carlo estimate of W(rho) for one configuration.
type Estimate struct {
	Rho    float64 `json:"rho"`
	Trials int     `json:"trials"`
	// Mean is the arithmetic mean of the trial lifetimes.
	Mean float64 `json:"mean"`
	// StdDev is the sample standard deviation of the lifetimes (0 when Trials == 1).
	StdDev float64 `json:"std_dev"`
	// StdErr is StdDev / sqrt(Trials).
	StdErr float64 `json:"std_err"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	// TimedOut counts the trials that survived the whole budget.
	TimedOut   int  `json:"timed_out"`
	Degenerate bool `json:"degenerate,omitempty"`
}

// Point is one sample of the viability curve.
type Point struct {
	Rho          float64 `json:"rho" yaml:"rho"`
	MeanLifetime float64 `json:"mean_lifetime" yaml:"mean_lifetime"`
	StdErr       float64 `json:"std_err,omitempty" yaml:"std_err,omitempty"`
	TimedOut     int     `json:"timed_out,omitempty" yaml:"timed_out,omitempty"`
}

// PointFrom builds a curve point from an estimate.
func PointFrom(e Estimate) Point {
	return Point{
		Rho:          e.Rho,
		MeanLifetime: e.Mean,
		StdErr:       e.StdErr,
		TimedOut:     e.TimedOut,
	}
}

// Curve is the ordered sequence of (rho, mean lifetime) pairs produced by a sweep.
// Points are in the order rho was sampled.
type Curve struct {
	ID        string    `json:"id" yaml:"id"`
	Seed      uint64    `json:"seed" yaml:"seed"`
	Base      Config    `json:"base" yaml:"base"`
	Points    []Point   `json:"points" yaml:"points"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Rhos returns the sampled rho values in order.
func (c *Curve) Rhos() []float64 {
	out := make([]float64, len(c.Points))
	for i, p := range c.Points {
		out[i] = p.Rho
	}
	return out
}

// Means returns the mean lifetimes in order.
func (c *Curve) Means() []float64 {
	out := make([]float64, len(c.Points))
	for i, p := range c.Points {
		out[i] = p.MeanLifetime
	}
	return out
}

// Clone returns a deep copy of the curve.
func (c *Curve) Clone() *Curve {
	cp := *c
	cp.Points = append([]Point(nil), c.Points...)
	return &cp
}

// Grid is an ordered sequence of rho values to sample.
type Grid []float64

// Linspace returns n evenly spaced values over [start, stop], both inclusive.
// The last value is exactly stop.
func Linspace(start, stop float64, n int) Grid {
	if n <= 0 {
		return Grid{}
	}
	if n == 1 {
		return Grid{start}
	}
	step := (stop - start) / float64(n-1)
	g := make(Grid, n)
	for i := range g {
		g[i] = start + float64(i)*step
	}
	g[n-1] = stop
	return g
}

// DefaultGrid returns 21 evenly spaced rho values over [0, 1] (step 0.05).
func DefaultGrid() Grid {
	return Linspace(0, 1, DefaultGridPoints)
}

// Validate checks that the grid is non-empty and every rho lies in [0, 1].
// Order and duplicates are preserved as given.
func (g Grid) Validate() error {
	if len(g) == 0 {
		return fmt.Errorf("%w: rho grid is empty", ErrInvalidConfiguration)
	}
	for i, rho := range g {
		if math.IsNaN(rho) || rho < 0 || rho > 1 {
			return fmt.Errorf("%w: grid[%d] = %v is outside [0, 1]", ErrInvalidConfiguration, i, rho)
		}
	}
	return nil
}
