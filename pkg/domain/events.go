package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTrialEnd   EventType = "trial_end"
	EventPointDone  EventType = "point_done"
	EventDegenerate EventType = "degenerate"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// TrialEvent is emitted when a single trajectory terminates.
type TrialEvent struct {
	EventBase
	Rho     float64 `json:"rho"`
	Trial   int     `json:"trial"`
	Outcome Outcome `json:"outcome"`
}

// PointEvent is emitted when the estimate for one rho is complete.
type PointEvent struct {
	EventBase
	Index    int           `json:"index"`
	Estimate Estimate      `json:"estimate"`
	Duration time.Duration `json:"duration"`
}

// DegenerateEvent is emitted when an estimate runs with alpha*rho >= 1.
type DegenerateEvent struct {
	EventBase
	Rho   float64 `json:"rho"`
	Alpha float64 `json:"alpha"`
}

// LifecycleHooks defines callbacks for simulation observability.
// OnTrialEnd may be called concurrently when trials run on several workers.
type LifecycleHooks struct {
	OnTrialEnd   func(context.Context, *TrialEvent)
	OnPointDone  func(context.Context, *PointEvent)
	OnDegenerate func(context.Context, *DegenerateEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTrialEnd:   chain(h.OnTrialEnd, other.OnTrialEnd),
		OnPointDone:  chain(h.OnPointDone, other.OnPointDone),
		OnDegenerate: chain(h.OnDegenerate, other.OnDegenerate),
	}
}

func chain[E any](a, b func(context.Context, *E)) func(context.Context, *E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *E) {
		a(ctx, e)
		b(ctx, e)
	}
}
