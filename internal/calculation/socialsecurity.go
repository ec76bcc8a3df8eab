package calculation

import (
	"github.com/shopspring/decimal"
)

// Claiming-age adjustment factors relative to full retirement age 67
var ssClaimingFactors = map[int]decimal.Decimal{
	62: decimal.NewFromFloat(0.70),
	63: decimal.NewFromFloat(0.75),
	64: decimal.NewFromFloat(0.80),
	65: decimal.NewFromFloat(0.8667),
	66: decimal.NewFromFloat(0.9333),
	67: decimal.NewFromFloat(1.00),
	68: decimal.NewFromFloat(1.08),
	69: decimal.NewFromFloat(1.16),
	70: decimal.NewFromFloat(1.24),
}

const (
	ssEarliestClaimingAge = 62
	ssLatestClaimingAge   = 70
	// survivors may draw the deceased spouse's benefit from this age
	ssSurvivorMinAge = 60
)

// SocialSecurityEstimator approximates a monthly benefit from current salary.
// Monthly salary stands in for average indexed monthly earnings.
type SocialSecurityEstimator struct {
	BendPoint1 decimal.Decimal
	BendPoint2 decimal.Decimal
	// MaxBenefitAtFRA caps the benefit before the claiming-age factor is applied
	MaxBenefitAtFRA decimal.Decimal
}

// NewSocialSecurityEstimator returns an estimator using 2025 bend points
func NewSocialSecurityEstimator() *SocialSecurityEstimator {
	return &SocialSecurityEstimator{
		BendPoint1:      decimal.NewFromInt(1226),
		BendPoint2:      decimal.NewFromInt(7391),
		MaxBenefitAtFRA: decimal.NewFromInt(4018),
	}
}

// ClaimingFactor returns the adjustment factor for a claiming age, clamped to 62..70
func ClaimingFactor(claimingAge int) decimal.Decimal {
	if claimingAge < ssEarliestClaimingAge {
		claimingAge = ssEarliestClaimingAge
	}
	if claimingAge > ssLatestClaimingAge {
		claimingAge = ssLatestClaimingAge
	}
	return ssClaimingFactors[claimingAge]
}

// PrimaryInsuranceAmount applies the 90/32/15 bend-point formula to monthly earnings
func (e *SocialSecurityEstimator) PrimaryInsuranceAmount(monthlyEarnings decimal.Decimal) decimal.Decimal {
	if monthlyEarnings.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	tier1 := decimal.Min(monthlyEarnings, e.BendPoint1)
	tier2 := decimal.Min(nonNegative(monthlyEarnings.Sub(e.BendPoint1)), e.BendPoint2.Sub(e.BendPoint1))
	tier3 := nonNegative(monthlyEarnings.Sub(e.BendPoint2))

	return tier1.Mul(decimal.NewFromFloat(0.90)).
		Add(tier2.Mul(decimal.NewFromFloat(0.32))).
		Add(tier3.Mul(decimal.NewFromFloat(0.15)))
}

// MonthlyBenefit estimates the monthly benefit in today's dollars.
// Returns zero when salary is not positive or the claiming age is unset.
func (e *SocialSecurityEstimator) MonthlyBenefit(annualSalary decimal.Decimal, claimingAge int) decimal.Decimal {
	if annualSalary.LessThanOrEqual(decimal.Zero) || claimingAge <= 0 {
		return decimal.Zero
	}
	factor := ClaimingFactor(claimingAge)
	benefit := e.PrimaryInsuranceAmount(annualSalary.Div(twelve)).Mul(factor)
	return cents(decimal.Min(benefit, e.MaxBenefitAtFRA.Mul(factor)))
}

// ssClaim describes one person's Social Security position in a given year
type ssClaim struct {
	alive   bool
	age     int
	benefit decimal.Decimal // own benefit at the claiming age, whether or not claimed yet
	claimed bool            // alive, at or past claiming age, and benefit > 0
}

// resolveSocialSecurity applies the household truth table:
//
//	both alive           each receives own benefit once claimed, else 0
//	one alive, claimed   survivor receives max(own, deceased's benefit)
//	one alive, unclaimed survivor receives max(own, deceased's) from age 60, else 0
//	neither alive        0, 0
//
// Survivor rules apply only when couple is true.
func resolveSocialSecurity(p1, p2 ssClaim, couple bool) (ss1, ss2 decimal.Decimal) {
	ss1, ss2 = decimal.Zero, decimal.Zero
	if p1.claimed {
		ss1 = p1.benefit
	}
	if p2.claimed && couple {
		ss2 = p2.benefit
	}
	if !couple || (p1.alive && p2.alive) {
		return ss1, ss2
	}

	survivor := func(self, deceased ssClaim) decimal.Decimal {
		if !self.claimed && self.age < ssSurvivorMinAge {
			return decimal.Zero
		}
		return decimal.Max(self.benefit, deceased.benefit)
	}
	switch {
	case p1.alive && !p2.alive:
		ss1 = survivor(p1, p2)
	case p2.alive && !p1.alive:
		ss2 = survivor(p2, p1)
	}
	return ss1, ss2
}
