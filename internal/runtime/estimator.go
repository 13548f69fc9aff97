package runtime

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/aretw0/viability/pkg/domain"
	"github.com/aretw0/viability/pkg/ports"
	"golang.org/x/sync/errgroup"
)

// blockSize is the number of consecutive trials reduced into one partial.
// Block boundaries depend only on the trial count, never on the worker count,
// so merging partials in block order gives the same estimate for any pool size.
// Context cancellation is checked between blocks.
const blockSize = 256

// Estimate runs cfg.Trials independent trajectories and returns their mean lifetime.
// It fails with domain.ErrInvalidConfiguration before any work if cfg is invalid.
func (e *Engine) Estimate(ctx context.Context, cfg domain.Config, factory ports.SourceFactory) (domain.Estimate, error) {
	if err := cfg.Validate(); err != nil {
		return domain.Estimate{}, err
	}
	return e.estimate(ctx, cfg, factory, 0)
}

// estimate runs the trials of grid point number point. cfg must be valid.
func (e *Engine) estimate(ctx context.Context, cfg domain.Config, factory ports.SourceFactory, point int) (domain.Estimate, error) {
	if cfg.Degenerate() {
		e.logger.Warn("controller has no authority (alpha*rho >= 1)",
			"rho", cfg.Rho,
			"alpha", cfg.Alpha,
			"k_eff", cfg.Gain(),
			"u_max", cfg.Saturation(),
		)
		if e.hooks.OnDegenerate != nil {
			e.hooks.OnDegenerate(ctx, &domain.DegenerateEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventDegenerate},
				Rho:       cfg.Rho,
				Alpha:     cfg.Alpha,
			})
		}
	}

	parts := make([]partial, (cfg.Trials+blockSize-1)/blockSize)

	var err error
	if w := e.Workers(); w > 1 && len(parts) > 1 {
		err = e.runParallel(ctx, cfg, factory, point, parts, w)
	} else {
		err = e.runSequential(ctx, cfg, factory, point, parts)
	}
	if err != nil {
		return domain.Estimate{}, fmt.Errorf("estimate at rho=%v: %w", cfg.Rho, err)
	}

	var total partial
	for _, p := range parts {
		total.merge(p)
	}
	est := total.estimate()
	est.Rho = cfg.Rho
	est.Degenerate = cfg.Degenerate()
	return est, nil
}

func (e *Engine) runSequential(ctx context.Context, cfg domain.Config, factory ports.SourceFactory, point int, parts []partial) error {
	for b := range parts {
		if err := ctx.Err(); err != nil {
			return err
		}
		parts[b] = e.block(ctx, cfg, factory, point, b)
	}
	return nil
}

// runParallel runs blocks on at most workers goroutines. Each block writes
// only its own slot.
func (e *Engine) runParallel(ctx context.Context, cfg domain.Config, factory ports.SourceFactory, point int, parts []partial, workers int) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for b := range parts {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			parts[b] = e.block(ctx, cfg, factory, point, b)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// block runs trials [b*blockSize, min((b+1)*blockSize, cfg.Trials)).
func (e *Engine) block(ctx context.Context, cfg domain.Config, factory ports.SourceFactory, point, b int) partial {
	var p partial
	for i := b * blockSize; i < min((b+1)*blockSize, cfg.Trials); i++ {
		p.add(e.trial(ctx, cfg, factory, point, i))
	}
	return p
}

func (e *Engine) trial(ctx context.Context, cfg domain.Config, factory ports.SourceFactory, point, i int) domain.Outcome {
	outcome := Simulate(cfg, factory.Stream(point, i))
	if e.hooks.OnTrialEnd != nil {
		e.hooks.OnTrialEnd(ctx, &domain.TrialEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventTrialEnd},
			Rho:       cfg.Rho,
			Trial:     i,
			Outcome:   outcome,
		})
	}
	return outcome
}

// partial holds the running statistics of a run of trials. The lifetime sum
// is exact; the squared deviations are accumulated with Welford's update and
// combined with Chan's pairwise formula.
type partial struct {
	n        int
	sum      int64
	min, max int
	timedOut int
	mean     float64
	m2       float64
}

func (p *partial) add(o domain.Outcome) {
	l := o.Lifetime()
	if p.n == 0 || l < p.min {
		p.min = l
	}
	if l > p.max {
		p.max = l
	}
	if o.Censored() {
		p.timedOut++
	}
	p.n++
	p.sum += int64(l)
	d := float64(l) - p.mean
	p.mean += d / float64(p.n)
	p.m2 += d * (float64(l) - p.mean)
}

func (p *partial) merge(q partial) {
	switch {
	case q.n == 0:
		return
	case p.n == 0:
		*p = q
		return
	}
	n := p.n + q.n
	d := q.mean - p.mean
	p.m2 += q.m2 + d*d*float64(p.n)*float64(q.n)/float64(n)
	p.mean += d * float64(q.n) / float64(n)
	p.n = n
	p.sum += q.sum
	p.min = min(p.min, q.min)
	p.max = max(p.max, q.max)
	p.timedOut += q.timedOut
}

// estimate reports the mean as the exact integer sum divided by the count.
func (p partial) estimate() domain.Estimate {
	est := domain.Estimate{Trials: p.n, Min: p.min, Max: p.max, TimedOut: p.timedOut}
	if p.n == 0 {
		return est
	}
	est.Mean = float64(p.sum) / float64(p.n)
	if p.n > 1 {
		est.StdDev = math.Sqrt(max(p.m2, 0) / float64(p.n-1))
		est.StdErr = est.StdDev / math.Sqrt(float64(p.n))
	}
	return est
}
