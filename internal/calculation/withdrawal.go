package calculation

import (
	"math"

	"github.com/rpgo/networth-projector/internal/domain"
	"github.com/shopspring/decimal"
)

const maxGrossUpIterations = 20

// WithdrawalContext is the per-year input every policy plans against
type WithdrawalContext struct {
	Year           int
	TotalAssets    decimal.Decimal
	Shortfall      decimal.Decimal // expenses not covered by after-tax fixed income
	YearsRemaining int             // years left for the longest-lived survivor, including this one
}

// WithdrawalPolicy decides how much to take from the accounts each year
type WithdrawalPolicy interface {
	// Planned returns the pre-tax amount the policy wants before RMD floors and caps
	Planned(wc WithdrawalContext) decimal.Decimal
	// Reserve returns the amount withheld from spending for the year (legacy present value)
	Reserve(wc WithdrawalContext) decimal.Decimal
	// MarginalBounds clamps the probed marginal rate used by the gross-up loop
	MarginalBounds() (lo, hi decimal.Decimal)
	GetStrategyName() string
}

// FixedRate withdraws a fixed fraction of assets, or the expense shortfall when larger
type FixedRate struct {
	Rate decimal.Decimal // fraction, e.g. 0.04
}

func (f FixedRate) Planned(wc WithdrawalContext) decimal.Decimal {
	return decimal.Max(wc.Shortfall, wc.TotalAssets.Mul(f.Rate))
}

func (FixedRate) Reserve(WithdrawalContext) decimal.Decimal { return decimal.Zero }

func (FixedRate) MarginalBounds() (decimal.Decimal, decimal.Decimal) {
	return decimal.NewFromFloat(0.15), decimal.NewFromFloat(0.90)
}

func (FixedRate) GetStrategyName() string { return "fixed_rate" }

// DieWithZero amortizes spendable assets over the remaining lifetime so that
// only the discounted legacy target is left at the end.
type DieWithZero struct {
	Legacy    decimal.Decimal
	Return    decimal.Decimal // nominal, fraction
	Inflation decimal.Decimal // fraction
	Scale     decimal.Decimal
}

// realRateEpsilon treats smaller real rates as zero for amortization
var realRateEpsilon = decimal.NewFromFloat(1e-6)

// Reserve discounts the legacy target over the growth periods still ahead;
// this year's growth has already been applied when it is called.
func (dz DieWithZero) Reserve(wc WithdrawalContext) decimal.Decimal {
	if dz.Legacy.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return cents(safeDiv(dz.Legacy, growthFactor(dz.Return, wc.YearsRemaining-1)))
}

// Annuity returns the level annual withdrawal that spends the spendable base over the remaining years
func (dz DieWithZero) Annuity(wc WithdrawalContext) decimal.Decimal {
	n := wc.YearsRemaining
	if n < 1 {
		n = 1
	}
	spendable := nonNegative(wc.TotalAssets.Sub(dz.Reserve(wc)))
	realRate := safeDiv(one.Add(dz.Return), one.Add(dz.Inflation)).Sub(one)
	if realRate.Abs().LessThan(realRateEpsilon) {
		return spendable.Div(decimal.NewFromInt(int64(n)))
	}
	g := growthFactor(realRate, n)
	return cents(safeDiv(spendable.Mul(realRate).Mul(g), g.Sub(one)))
}

func (dz DieWithZero) Planned(wc WithdrawalContext) decimal.Decimal {
	return decimal.Max(wc.Shortfall, dz.Annuity(wc).Mul(dz.Scale))
}

func (DieWithZero) MarginalBounds() (decimal.Decimal, decimal.Decimal) {
	return decimal.Zero, decimal.NewFromFloat(0.99)
}

func (DieWithZero) GetStrategyName() string { return "die_with_zero" }

// PolicyFor builds the withdrawal policy a plan asks for at the given scale
func PolicyFor(plan *domain.Plan, scale float64) WithdrawalPolicy {
	if plan.DieWithZero {
		return DieWithZero{
			Legacy:    nonNegative(plan.LegacyAmount),
			Return:    pct(plan.AverageReturnPct),
			Inflation: pct(plan.InflationRatePct),
			Scale:     decimal.NewFromFloat(math.Max(0, scale)),
		}
	}
	return FixedRate{Rate: pct(plan.WithdrawalRatePct)}
}

// grossUpInput is one year's withdrawal problem
type grossUpInput struct {
	Planned      decimal.Decimal // already floored at RMD and capped
	Cap          decimal.Decimal
	TaxableFixed decimal.Decimal
	GrossFixed   decimal.Decimal
	Expenses     decimal.Decimal
	Jurisdiction string
	Status       domain.FilingStatus
}

// grossUp raises the withdrawal until after-tax income covers expenses, using a
// probed marginal rate clamped to the policy bounds. It returns the withdrawal
// and the number of iterations spent.
func grossUp(tc *TaxCalculator, policy WithdrawalPolicy, in grossUpInput) (decimal.Decimal, int) {
	lo, hi := policy.MarginalBounds()
	w := decimal.Min(in.Planned, in.Cap)
	iterations := 0
	for iterations < maxGrossUpIterations {
		iterations++
		taxable := in.TaxableFixed.Add(w)
		tax := tc.Calculate(taxable, in.Jurisdiction, in.Status)
		net := in.GrossFixed.Add(w).Sub(tax.Total())
		shortfall := in.Expenses.Sub(net)
		if shortfall.LessThan(tolerance) || w.GreaterThanOrEqual(in.Cap) {
			break
		}
		m := clamp(tc.MarginalRate(taxable, in.Jurisdiction, in.Status), lo, hi)
		w = cents(decimal.Min(w.Add(safeDiv(shortfall, one.Sub(m))), in.Cap))
	}
	return w, iterations
}
