package calculation

import (
	"context"

	"github.com/rpgo/networth-projector/internal/domain"
)

const (
	maxBisectionIterations = 20
	bisectionWidth         = 1e-4
)

// solveLegacy finds the largest die-with-zero scale in [0,1] whose terminal
// estate still meets the legacy target. Terminal net worth is assumed to be
// non-increasing in scale. When even scale 0 falls short, the scale-0 run is
// returned and the shortfall shows up as a lower estate.
func (pe *ProjectionEngine) solveLegacy(ctx context.Context, plan *domain.Plan, path MarketPath) (*domain.CalculationResult, error) {
	target := plan.LegacyAmount
	run := func(scale float64) (*domain.CalculationResult, error) {
		return pe.runWithPolicy(ctx, plan, path, PolicyFor(plan, scale))
	}

	full, err := run(1)
	if err != nil {
		return nil, err
	}
	steps := 1
	if full.TerminalEstate.GreaterThanOrEqual(target) {
		full.BisectionSteps = steps
		return full, nil
	}

	var best *domain.CalculationResult
	lo, hi := 0.0, 1.0
	for i := 0; i < maxBisectionIterations; i++ {
		mid := (lo + hi) / 2
		res, err := run(mid)
		if err != nil {
			return nil, err
		}
		steps++

		if res.TerminalEstate.GreaterThanOrEqual(target) {
			best = res
			lo = mid
		} else {
			hi = mid
		}

		delta, _ := res.TerminalEstate.Sub(target).Abs().Float64()
		if hi-lo < bisectionWidth || (best == res && delta < 1) {
			break
		}
	}

	if best == nil {
		pe.Logger.Warnf("plan %q: legacy target %s unreachable, using scale 0", plan.Name, target.StringFixed(2))
		best, err = run(0)
		if err != nil {
			return nil, err
		}
		steps++
	}
	best.BisectionSteps = steps
	pe.Logger.Debugf("plan %q: die-with-zero scale %s after %d runs", plan.Name, best.WithdrawalScale.StringFixed(5), steps)
	return best, nil
}
