/*
Package viability estimates, by Monte Carlo simulation, how long an agent
survives as a function of the systemic reduction degree rho.

The agent's energy gamma evolves under a saturated proportional controller,
Gaussian environmental noise and a constant decay cost:

	k_eff = K0 * (1 - alpha*rho)
	U_max = U0 * (1 - alpha*rho)
	u     = clamp(k_eff * (gamma_ref - gamma), -U_max, U_max)
	e_red = (1 - rho) * (mu + eta),  eta ~ Normal(0, sigma0)
	gamma = gamma + u + e_red - c

A trajectory dies in the first step where gamma falls below gamma_min and
otherwise times out after T_max steps. Averaging the lifetimes of many
independent trajectories yields W(rho); sweeping rho over a grid yields the
viability curve.

# Usage

	eng := viability.New(viability.WithSeed(42), viability.WithWorkers(4))

	curve, err := eng.Sweep(ctx, domain.DefaultGrid(), domain.DefaultConfig())
	if err != nil {
		log.Fatal(err)
	}
	for _, p := range curve.Points {
		fmt.Printf("rho = %.2f, W(rho) = %.1f steps\n", p.Rho, p.MeanLifetime)
	}

Random numbers come from per-trial streams derived from one root seed, so a
fixed seed replays the same curve regardless of the number of workers.

# Architecture

  - pkg/domain: configuration, outcomes, curves and lifecycle events.
  - pkg/ports: the Gaussian source, curve store and simulator interfaces.
  - internal/runtime: the trajectory simulator, lifetime estimator and rho sweep.
  - pkg/adapters: HTTP and MCP front-ends plus the in-memory store.
  - cmd/viability: the command line tool.
*/
package viability
