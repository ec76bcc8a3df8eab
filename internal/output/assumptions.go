package output

import (
	"fmt"
	"strings"

	"github.com/rpgo/networth-projector/internal/domain"
)

// StaticAssumptions are modeling rules that do not depend on the plan.
var StaticAssumptions = []string{
	"Social Security: 85% of benefits treated as taxable income",
	"Tax brackets: current-year levels held constant (no inflation indexing)",
	"Withdrawals: investment accounts drawn before retirement accounts; all withdrawals taxable",
	"Surplus income is spent, not reinvested",
}

// GenerateAssumptions lists the plan-driven assumptions followed by the static ones
func GenerateAssumptions(plan *domain.Plan) []string {
	if plan == nil {
		return append([]string(nil), StaticAssumptions...)
	}
	policy := fmt.Sprintf("Withdrawals: fixed %s of prior-year balances", FormatPercentage(plan.WithdrawalRatePct))
	if plan.DieWithZero {
		policy = "Withdrawals: die-with-zero annuity over remaining lifespan"
		if plan.LegacyAmount.IsPositive() {
			policy += fmt.Sprintf(", preserving a legacy of %s", FormatCurrency(plan.LegacyAmount))
		}
	}
	jurisdiction := strings.ToUpper(strings.TrimSpace(plan.Jurisdiction))
	if jurisdiction == "" {
		jurisdiction = "none"
	}
	out := []string{
		fmt.Sprintf("Inflation: %s annually", FormatPercentage(plan.InflationRatePct)),
		fmt.Sprintf("Average portfolio return: %s annually", FormatPercentage(plan.AverageReturnPct)),
		policy,
		fmt.Sprintf("State tax jurisdiction: %s", jurisdiction),
	}
	if ac := plan.AssetClasses; ac != nil {
		out = append(out, fmt.Sprintf("Asset classes: stocks %s (sd %s), bonds %s (sd %s)",
			FormatPercentage(ac.StockMeanPct), FormatPercentage(ac.StockStdDevPct),
			FormatPercentage(ac.BondMeanPct), FormatPercentage(ac.BondStdDevPct)))
	}
	if ft := plan.FatTails; ft != nil && ft.Enabled {
		out = append(out, fmt.Sprintf("Fat tails: Student's t with %.1f degrees of freedom", ft.DegreesOfFreedom))
	}
	return append(out, StaticAssumptions...)
}
