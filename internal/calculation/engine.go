package calculation

import (
	"context"
	"errors"
	"fmt"

	"github.com/rpgo/networth-projector/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrNilPlan is returned when a run is requested without a plan
var ErrNilPlan = errors.New("calculation: nil plan")

// ProjectionEngine advances a household plan one simulated year at a time
type ProjectionEngine struct {
	TaxCalc        *TaxCalculator
	SocialSecurity *SocialSecurityEstimator
	Debug          bool // Emit a per-year trace through Logger
	Logger         Logger
}

// NewProjectionEngine creates an engine over the built-in tax and benefit tables
func NewProjectionEngine() *ProjectionEngine {
	return &ProjectionEngine{
		TaxCalc:        NewTaxCalculator(),
		SocialSecurity: NewSocialSecurityEstimator(),
		Logger:         NopLogger{},
	}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (pe *ProjectionEngine) SetLogger(l Logger) {
	if l == nil {
		pe.Logger = NopLogger{}
		return
	}
	pe.Logger = l
}

// RunProjection projects the plan year by year. A nil path runs the
// deterministic average-return mode. Die-with-zero plans with a positive
// legacy target are back-solved for the largest withdrawal scale that still
// leaves the target. The caller's plan is never modified.
func (pe *ProjectionEngine) RunProjection(ctx context.Context, plan *domain.Plan, path MarketPath) (*domain.CalculationResult, error) {
	if plan == nil {
		return nil, ErrNilPlan
	}
	p := plan.Clone()

	if p.DieWithZero && p.LegacyAmount.IsPositive() {
		return pe.solveLegacy(ctx, p, path)
	}
	return pe.runWithPolicy(ctx, p, path, PolicyFor(p, 1))
}

// runWithPolicy runs a single pass and derives its summary
func (pe *ProjectionEngine) runWithPolicy(ctx context.Context, plan *domain.Plan, path MarketPath, policy WithdrawalPolicy) (*domain.CalculationResult, error) {
	out, err := pe.simulate(ctx, plan, path, policy)
	if err != nil {
		return nil, fmt.Errorf("projection %q: %w", plan.Name, err)
	}
	result := summarize(plan, out)
	if dz, ok := policy.(DieWithZero); ok {
		result.WithdrawalScale = dz.Scale
	}
	return result, nil
}

// summarize derives the retirement-period statistics from a complete run
func summarize(plan *domain.Plan, out runOutput) *domain.CalculationResult {
	years := out.years
	result := &domain.CalculationResult{
		PlanName:       plan.Name,
		Years:          years,
		TerminalEstate: out.estate,
		Legacy: domain.LegacySummary{
			Target:       nonNegative(plan.LegacyAmount),
			EstateBefore: out.estate,
		},
	}
	result.Legacy.TargetMet = out.estate.GreaterThanOrEqual(result.Legacy.Target)
	if len(years) == 0 {
		return result
	}

	inflation := pct(plan.InflationRatePct)
	var net, netToday, gross, federal, state decimal.Decimal
	for i := range years {
		yp := &years[i]
		if !yp.IsRetired {
			continue
		}
		result.YearsInRetirement++
		net = net.Add(yp.NetIncome)
		netToday = netToday.Add(safeDiv(yp.NetIncome, growthFactor(inflation, yp.Year)))
		gross = gross.Add(yp.GrossIncome)
		federal = federal.Add(yp.FederalTax)
		state = state.Add(yp.StateTax)
		if yp.HasShortfall() {
			result.ShortfallYears++
		}
	}

	if result.YearsInRetirement > 0 {
		months := decimal.NewFromInt(int64(result.YearsInRetirement) * 12)
		result.AvgMonthlyNetIncome = cents(net.Div(months))
		result.AvgMonthlyNetIncomeToday = cents(netToday.Div(months))
	}
	result.EffectiveFederalRatePct = safeDiv(federal, gross).Mul(hundred).Round(2)
	result.EffectiveStateRatePct = safeDiv(state, gross).Mul(hundred).Round(2)

	final := result.Final()
	result.FinalNetWorth = final.NetWorth
	result.FinalNetWorthToday = cents(safeDiv(final.NetWorth, growthFactor(inflation, final.Year)))
	result.Legacy.TotalDisbursed = final.LegacyOutflow
	result.Legacy.Distributions = final.LegacyDistributions
	return result
}
