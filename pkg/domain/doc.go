/*
Package domain contains the core domain models for the viability simulator.

It defines the configuration of the controlled agent, the explicit outcome of a
single trajectory and the curve produced by sweeping the systemic reduction
parameter rho. This package is kept pure and free of external dependencies
like I/O, persistence or randomness.

# Key Entities

  - Params: the model constants of the energy dynamics (gamma_ref, gamma_min, k0, ...).
  - Config: an immutable simulation configuration (rho, trials, step budget, params).
  - Trajectory: the transient state of one trial (step index and gamma).
  - Outcome: how a trial ended, either Died at a step or TimedOut at the budget.
  - Curve: the ordered (rho, mean lifetime) pairs of a sweep.
*/
package domain
