package calculation

import (
	"sort"

	"github.com/shopspring/decimal"
)

// sortDecimals sorts values in ascending order in place
func sortDecimals(values []decimal.Decimal) {
	sort.Slice(values, func(i, j int) bool { return values[i].LessThan(values[j]) })
}

// Percentile returns the p-th percentile (0..100) of sorted values using
// linear interpolation between order statistics.
func Percentile(sorted []decimal.Decimal, p float64) decimal.Decimal {
	n := len(sorted)
	if n == 0 {
		return decimal.Zero
	}
	if n == 1 || p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[n-1]
	}
	rank := p / 100 * float64(n-1)
	lo := int(rank)
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := decimal.NewFromFloat(rank - float64(lo))
	return cents(sorted[lo].Add(sorted[lo+1].Sub(sorted[lo]).Mul(frac)))
}
