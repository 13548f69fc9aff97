/*
Package ports defines the driven ports (interfaces) for the viability simulator.

These interfaces decouple the simulation core from external implementations,
allowing it to work with various random sources and storage backends.

# Key Interfaces

  - GaussianSource: supplies Normal(mean, stddev) deviates to a single trajectory.
  - SourceFactory: hands out an independent GaussianSource per (point, trial) pair.
  - CurveStore: persists sweep results (memory, file, Redis or SQLite).
  - Simulator: the stateless simulation surface consumed by adapters (HTTP, MCP).
*/
package ports
