package domain

import "fmt"

// OutcomeKind tells how a trajectory ended.
type OutcomeKind string

const (
	// OutcomeDied means gamma fell below gamma_min before the budget ran out.
	OutcomeDied OutcomeKind = "died"
	// OutcomeTimedOut means the agent survived the whole step budget.
	OutcomeTimedOut OutcomeKind = "timed_out"
)

// Outcome is the terminal result of one trajectory.
// Exactly one of the two cases applies: Died at a 0-based Step, or TimedOut at MaxSteps.
type Outcome struct {
	Kind OutcomeKind `json:"kind"`
	// Step is the 0-based index of the step at which the agent died.
	// Only meaningful when Kind is OutcomeDied.
	Step int `json:"step,omitempty"`
	// MaxSteps is the exhausted budget. Only meaningful when Kind is OutcomeTimedOut.
	MaxSteps int `json:"max_steps,omitempty"`
}

// Died builds the outcome of a trajectory that died during step t (0-based).
func Died(t int) Outcome {
	return Outcome{Kind: OutcomeDied, Step: t}
}

// TimedOut builds the outcome of a trajectory that survived all maxSteps steps.
func TimedOut(maxSteps int) Outcome {
	return Outcome{Kind: OutcomeTimedOut, MaxSteps: maxSteps}
}

// Lifetime returns the number of steps survived, in [1, T_max].
// Dying during step t reports t+1; surviving the budget reports exactly T_max.
func (o Outcome) Lifetime() int {
	if o.Kind == OutcomeTimedOut {
		return o.MaxSteps
	}
	return o.Step + 1
}

// Censored reports whether the lifetime was cut off by the step budget.
func (o Outcome) Censored() bool {
	return o.Kind == OutcomeTimedOut
}

func (o Outcome) String() string {
	if o.Kind == OutcomeTimedOut {
		return fmt.Sprintf("timed out after %d steps", o.MaxSteps)
	}
	return fmt.Sprintf("died at step %d", o.Step+1)
}
