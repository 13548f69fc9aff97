package runtime

import (
	"math"

	"github.com/aretw0/viability/pkg/domain"
	"github.com/aretw0/viability/pkg/ports"
)

// Simulate runs one trajectory of cfg to termination, drawing one Gaussian
// sample per executed step from src. The caller is responsible for passing a
// validated configuration.
func Simulate(cfg domain.Config, src ports.GaussianSource) domain.Outcome {
	traj := domain.NewTrajectory()
	for ; traj.Step < cfg.MaxSteps; traj.Step++ {
		rec := advance(cfg, traj.Step, traj.Gamma, src)
		traj.Gamma = rec.Gamma
		if !traj.Alive(cfg.GammaMin) {
			return domain.Died(traj.Step)
		}
	}
	return domain.TimedOut(cfg.MaxSteps)
}

// Trace runs one trajectory like Simulate and records every step.
func Trace(cfg domain.Config, src ports.GaussianSource) *domain.Trace {
	tr := &domain.Trace{Config: cfg}
	traj := domain.NewTrajectory()
	for ; traj.Step < cfg.MaxSteps; traj.Step++ {
		rec := advance(cfg, traj.Step, traj.Gamma, src)
		tr.Steps = append(tr.Steps, rec)
		traj.Gamma = rec.Gamma
		if !traj.Alive(cfg.GammaMin) {
			tr.Outcome = domain.Died(traj.Step)
			return tr
		}
	}
	tr.Outcome = domain.TimedOut(cfg.MaxSteps)
	return tr
}

// advance computes step t of the control law from the current gamma.
// Gain and saturation are derived from rho on every step.
func advance(cfg domain.Config, t int, gamma float64, src ports.GaussianSource) domain.StepRecord {
	kEff := cfg.K0 * (1 - cfg.Alpha*cfg.Rho)
	uMax := cfg.U0 * (1 - cfg.Alpha*cfg.Rho)

	uRaw := kEff * (cfg.GammaRef - gamma)
	u := math.Max(math.Min(uRaw, uMax), -uMax)

	eta := src.Normal(0, cfg.Sigma0)
	eT := cfg.Mu + eta
	eRed := (1 - cfg.Rho) * eT

	return domain.StepRecord{
		T:           t,
		Gain:        kEff,
		Saturation:  uMax,
		Control:     u,
		Noise:       eta,
		Environment: eRed,
		Gamma:       gamma + u + eRed - cfg.C,
	}
}
