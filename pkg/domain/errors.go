package domain

import "errors"

// ErrInvalidConfiguration is returned when a configuration cannot be simulated.
// It is raised before any simulation work begins.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ErrCurveNotFound is returned when a curve ID cannot be found in the store.
var ErrCurveNotFound = errors.New("curve not found")
