package calculation

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
	one     = decimal.NewFromInt(1)

	// tolerance is the one-currency-unit convergence threshold
	tolerance = decimal.NewFromInt(1)

	// probeIncrement is added to income when estimating the marginal tax rate
	probeIncrement = decimal.NewFromInt(1000)
)

// pct converts a user-facing percentage (3 = 3%) into a fraction
func pct(d decimal.Decimal) decimal.Decimal { return d.Div(hundred) }

// safeDiv returns a/b, or zero when b is zero
func safeDiv(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Div(b)
}

func cents(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// growthFactor returns (1+rate)^years for a fractional rate
func growthFactor(rate decimal.Decimal, years int) decimal.Decimal {
	f := one
	base := one.Add(rate)
	for i := 0; i < years; i++ {
		f = f.Mul(base).Round(16)
	}
	return f
}

func clamp(d, lo, hi decimal.Decimal) decimal.Decimal {
	if d.LessThan(lo) {
		return lo
	}
	if d.GreaterThan(hi) {
		return hi
	}
	return d
}
