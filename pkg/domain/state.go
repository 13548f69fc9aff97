package domain

// Trajectory is the transient state of a single trial.
// It is created with InitialGamma, mutated once per step and discarded
// once the trial terminates.
type Trajectory struct {
	// Step is the 0-based index of the step about to be executed.
	Step int
	// Gamma is the current energy.
	Gamma float64
}

// NewTrajectory creates a trajectory at the fixed initial condition.
func NewTrajectory() *Trajectory {
	return &Trajectory{Step: 0, Gamma: InitialGamma}
}

// Alive reports whether gamma is still at or above the death threshold.
func (t *Trajectory) Alive(gammaMin float64) bool {
	return !(t.Gamma < gammaMin)
}

// StepRecord captures the quantities computed during one step of a trajectory.
type StepRecord struct {
	// T is the 0-based step index.
	T int `json:"t"`
	// Gain is k_eff for this step.
	Gain float64 `json:"k_eff"`
	// Saturation is U_max for this step.
	Saturation float64 `json:"u_max"`
	// Control is the clamped control u.
	Control float64 `json:"u"`
	// Noise is the raw Gaussian draw eta.
	Noise float64 `json:"eta"`
	// Environment is the attenuated environmental input e_red.
	Environment float64 `json:"e_red"`
	// Gamma is the energy after the update.
	Gamma float64 `json:"gamma"`
}

// Trace is the full step-by-step record of one trajectory.
type Trace struct {
	Config  Config       `json:"config"`
	Steps   []StepRecord `json:"steps"`
	Outcome Outcome      `json:"outcome"`
}

// Lifetime returns the lifetime of the traced trajectory.
func (t Trace) Lifetime() int {
	return t.Outcome.Lifetime()
}
