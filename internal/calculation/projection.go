package calculation

import (
	"context"

	"github.com/rpgo/networth-projector/internal/domain"
	"github.com/shopspring/decimal"
)

// ssTaxablePortion is the share of Social Security included in taxable income
var ssTaxablePortion = decimal.NewFromFloat(0.85)

// accountState is the per-run working copy of one account
type accountState struct {
	name         string
	kind         domain.AccountKind
	owner        domain.Owner
	roth         bool
	balance      decimal.Decimal
	contribution decimal.Decimal
	match        decimal.Decimal // fraction of contribution
	stocks       decimal.Decimal
	bonds        decimal.Decimal
}

// runOutput is the raw product of one pass through the year loop
type runOutput struct {
	years  []domain.YearlyProjection
	estate decimal.Decimal // final net worth before legacy disbursements
}

// incomeYear is the aggregated fixed income and spending for a retired year
type incomeYear struct {
	ss1, ss2 decimal.Decimal
	pension  decimal.Decimal
	survivor decimal.Decimal
	other    decimal.Decimal
	taxable  decimal.Decimal
	gross    decimal.Decimal
	expenses decimal.Decimal
}

// ownerIndex maps an owner to 0 or 1; individual plans fold everything onto person1
func ownerIndex(o domain.Owner, couple bool) int {
	if couple && o == domain.Person2 {
		return 1
	}
	return 0
}

func newAccountStates(plan *domain.Plan, couple bool) []accountState {
	owner := func(o domain.Owner) domain.Owner {
		if ownerIndex(o, couple) == 1 {
			return domain.Person2
		}
		return domain.Person1
	}

	accounts := make([]accountState, 0, len(plan.RetirementAccounts)+len(plan.InvestmentAccounts))
	for _, a := range plan.RetirementAccounts {
		accounts = append(accounts, accountState{
			name:         a.Name,
			kind:         domain.KindRetirement,
			owner:        owner(a.Owner),
			roth:         a.Type.IsRoth(),
			balance:      cents(nonNegative(a.Balance)),
			contribution: nonNegative(a.AnnualContribution),
			match:        pct(a.EmployerMatchPct),
		})
	}
	for _, a := range plan.InvestmentAccounts {
		s, b := a.Allocation()
		accounts = append(accounts, accountState{
			name:         a.Name,
			kind:         domain.KindInvestment,
			owner:        owner(a.Owner),
			balance:      cents(nonNegative(a.Balance)),
			contribution: nonNegative(a.AnnualContribution),
			stocks:       s,
			bonds:        b,
		})
	}
	return accounts
}

func totalBalance(accounts []accountState) decimal.Decimal {
	var total decimal.Decimal
	for i := range accounts {
		total = total.Add(accounts[i].balance)
	}
	return total
}

// rmdBases returns each owner's non-Roth retirement balance
func rmdBases(accounts []accountState) [2]decimal.Decimal {
	var bases [2]decimal.Decimal
	for i := range accounts {
		a := &accounts[i]
		if a.kind != domain.KindRetirement || a.roth {
			continue
		}
		oi := ownerIndex(a.owner, true)
		bases[oi] = bases[oi].Add(a.balance)
	}
	return bases
}

// retitle moves every account to the surviving spouse
func retitle(accounts []accountState, survivor domain.Owner) {
	for i := range accounts {
		accounts[i].owner = survivor
	}
}

// growAccounts credits pre-retirement contributions and compounds each account.
// classes are already recentered on planAverage; a different yearly average
// shifts both class means by the same offset.
func growAccounts(accounts []accountState, yr YearReturns, classes AssetClassParams, planAverage decimal.Decimal, alive, retired [2]bool) {
	offset := yr.Average.Sub(planAverage)
	retirementRate := yr.Average
	if yr.ByClass {
		retirementRate = baseStockWeight.Mul(yr.Stocks).Add(baseBondWeight.Mul(yr.Bonds))
	}

	for i := range accounts {
		a := &accounts[i]
		oi := ownerIndex(a.owner, true)
		if alive[oi] && !retired[oi] {
			a.balance = a.balance.Add(a.contribution)
			if a.kind == domain.KindRetirement {
				a.balance = a.balance.Add(a.contribution.Mul(a.match))
			}
		}

		rate := retirementRate
		if a.kind == domain.KindInvestment {
			if yr.ByClass {
				rate = a.stocks.Mul(yr.Stocks).Add(a.bonds.Mul(yr.Bonds))
			} else {
				rate = a.stocks.Mul(classes.StockMean).Add(a.bonds.Mul(classes.BondMean)).Add(offset)
			}
		}
		a.balance = cents(nonNegative(a.balance.Mul(one.Add(rate))))
	}
}

// debit removes amount from investment accounts first, then retirement
// accounts, pro-rata by balance within each group. It returns what was taken.
func debit(accounts []accountState, amount decimal.Decimal) decimal.Decimal {
	remaining := cents(nonNegative(amount))
	for _, kind := range []domain.AccountKind{domain.KindInvestment, domain.KindRetirement} {
		if !remaining.IsPositive() {
			break
		}
		remaining = remaining.Sub(debitGroup(accounts, kind, remaining))
	}
	return cents(nonNegative(amount)).Sub(remaining)
}

func debitGroup(accounts []accountState, kind domain.AccountKind, amount decimal.Decimal) decimal.Decimal {
	var total decimal.Decimal
	var idx []int
	for i := range accounts {
		if accounts[i].kind == kind && accounts[i].balance.IsPositive() {
			total = total.Add(accounts[i].balance)
			idx = append(idx, i)
		}
	}
	if total.IsZero() {
		return decimal.Zero
	}
	if amount.GreaterThanOrEqual(total) {
		for _, i := range idx {
			accounts[i].balance = decimal.Zero
		}
		return total
	}

	var taken decimal.Decimal
	for n, i := range idx {
		a := &accounts[i]
		share := cents(amount.Mul(a.balance).Div(total))
		if n == len(idx)-1 {
			share = amount.Sub(taken)
		}
		share = decimal.Min(share, a.balance)
		a.balance = a.balance.Sub(share)
		taken = taken.Add(share)
	}
	return taken
}

func snapshot(accounts []accountState) ([]domain.AccountBalance, decimal.Decimal, decimal.Decimal) {
	out := make([]domain.AccountBalance, len(accounts))
	var retirement, investment decimal.Decimal
	for i := range accounts {
		a := &accounts[i]
		out[i] = domain.AccountBalance{Name: a.name, Kind: a.kind, Owner: a.owner, Balance: a.balance}
		if a.kind == domain.KindRetirement {
			retirement = retirement.Add(a.balance)
		} else {
			investment = investment.Add(a.balance)
		}
	}
	return out, retirement, investment
}

// yearsRemaining counts the years left for the longest-lived survivor, this year included
func yearsRemaining(people [2]domain.Person, ages [2]int, alive [2]bool) int {
	n := 1
	for i := range people {
		if alive[i] {
			if r := people[i].LifeExpectancy - ages[i] + 1; r > n {
				n = r
			}
		}
	}
	return n
}

// aggregateIncome sums Social Security, pensions, other income and expenses for a retired year
func (pe *ProjectionEngine) aggregateIncome(plan *domain.Plan, year int, ages [2]int, alive [2]bool, ssMonthly [2]decimal.Decimal, inflation decimal.Decimal) incomeYear {
	couple := plan.IsCouple()
	people := [2]domain.Person{plan.Person1, plan.Person2}
	inflate := growthFactor(inflation, year)
	var inc incomeYear

	var claims [2]ssClaim
	for i := range people {
		claimAge := people[i].SSClaimingAge
		claims[i] = ssClaim{
			alive:   alive[i],
			age:     ages[i],
			benefit: ssMonthly[i],
			claimed: alive[i] && claimAge > 0 && ages[i] >= claimAge && ssMonthly[i].IsPositive(),
		}
	}
	ss1, ss2 := resolveSocialSecurity(claims[0], claims[1], couple)
	inc.ss1 = cents(ss1.Mul(twelve).Mul(inflate))
	inc.ss2 = cents(ss2.Mul(twelve).Mul(inflate))
	inc.taxable = inc.ss1.Add(inc.ss2).Mul(ssTaxablePortion)

	for _, p := range plan.Pensions {
		oi := ownerIndex(p.Owner, couple)
		age := ages[oi]
		if age < p.StartAge || (p.EndAge > 0 && age > p.EndAge) {
			continue
		}
		amount := p.MonthlyAmount.Mul(twelve).Mul(growthFactor(pct(p.COLAPct), age-p.StartAge))
		switch {
		case alive[oi]:
			amount = cents(amount)
			inc.pension = inc.pension.Add(amount)
		case couple && alive[1-oi] && p.SurvivorPct.IsPositive():
			amount = cents(amount.Mul(pct(p.SurvivorPct)))
			inc.survivor = inc.survivor.Add(amount)
		default:
			continue
		}
		if p.Taxable {
			inc.taxable = inc.taxable.Add(amount)
		}
	}

	for _, o := range plan.OtherIncome {
		oi := ownerIndex(o.Owner, couple)
		age := ages[oi]
		if !alive[oi] || age < o.StartAge || (o.EndAge > 0 && age > o.EndAge) {
			continue
		}
		amount := cents(o.MonthlyAmount.Mul(twelve).Mul(growthFactor(pct(o.COLAPct), age-o.StartAge)))
		inc.other = inc.other.Add(amount)
		if o.Taxable {
			inc.taxable = inc.taxable.Add(amount)
		}
	}

	var monthly decimal.Decimal
	for _, e := range plan.ExpensePeriods {
		startAge := ages[ownerIndex(e.StartAgeRef, couple)]
		endAge := ages[ownerIndex(e.EndAgeRef, couple)]
		if startAge < e.StartAge || (e.EndAge > 0 && endAge > e.EndAge) {
			continue
		}
		monthly = monthly.Add(nonNegative(e.MonthlyAmount))
	}
	inc.expenses = cents(monthly.Mul(twelve).Mul(inflate))

	inc.taxable = cents(inc.taxable)
	inc.gross = inc.ss1.Add(inc.ss2).Add(inc.pension).Add(inc.survivor).Add(inc.other)
	return inc
}

// applyGifts debits the gifts due this year and returns the amount actually transferred
func applyGifts(accounts []accountState, plan *domain.Plan, year int, ages [2]int, alive [2]bool, inflation decimal.Decimal) decimal.Decimal {
	couple := plan.IsCouple()
	var due decimal.Decimal
	for _, g := range plan.Gifts {
		oi := ownerIndex(g.Owner, couple)
		if !alive[oi] || !g.AppliesAt(ages[oi]) {
			continue
		}
		amount := nonNegative(g.Amount)
		if g.InflationAdjusted {
			amount = amount.Mul(growthFactor(inflation, year))
		}
		due = due.Add(amount)
	}
	if !due.IsPositive() {
		return decimal.Zero
	}
	return debit(accounts, decimal.Min(due, totalBalance(accounts)))
}

// disburseLegacy splits the final estate among beneficiaries. Amounts are
// computed from the pre-floor estate; net worth is floored at zero.
func disburseLegacy(final *domain.YearlyProjection, disbursements []domain.LegacyDisbursement) {
	estate := final.NetWorth
	var total decimal.Decimal
	dist := make([]domain.LegacyDistribution, 0, len(disbursements))
	for _, ld := range disbursements {
		amount := estate.Mul(pct(ld.Percentage)).Round(0)
		dist = append(dist, domain.LegacyDistribution{Beneficiary: ld.Beneficiary, Percentage: ld.Percentage, Amount: amount})
		total = total.Add(amount)
	}

	after := nonNegative(estate.Sub(total))
	ratio := safeDiv(after, estate)
	for i := range final.Accounts {
		final.Accounts[i].Balance = cents(final.Accounts[i].Balance.Mul(ratio))
	}
	final.RetirementBalance = cents(final.RetirementBalance.Mul(ratio))
	final.InvestmentBalance = cents(final.InvestmentBalance.Mul(ratio))
	final.NetWorth = after
	final.LegacyOutflow = total
	final.LegacyDistributions = dist
}

// simulate is the year-advancement loop for one pass over a plan
func (pe *ProjectionEngine) simulate(ctx context.Context, plan *domain.Plan, path MarketPath, policy WithdrawalPolicy) (runOutput, error) {
	couple := plan.IsCouple()
	startYear := plan.StartYear
	if startYear == 0 {
		startYear = nowFunc().Year()
	}

	people := [2]domain.Person{plan.Person1, plan.Person2}
	var rmdStart [2]int
	var ssMonthly [2]decimal.Decimal
	for i := range people {
		rmdStart[i] = rmdStartAge(plan.RMDStartAge, startYear, people[i].CurrentAge)
		ssMonthly[i] = pe.SocialSecurity.MonthlyBenefit(people[i].CurrentSalary, people[i].SSClaimingAge)
	}

	accounts := newAccountStates(plan, couple)
	classes := RecenteredMeans(plan)
	average := pct(plan.AverageReturnPct)
	inflation := pct(plan.InflationRatePct)
	bases := rmdBases(accounts)

	horizon := plan.HorizonYears()
	years := make([]domain.YearlyProjection, 0, horizon+1)

	for y := 0; y <= horizon; y++ {
		if err := ctx.Err(); err != nil {
			return runOutput{}, err
		}

		// 1. ages, liveness, filing status
		var ages [2]int
		var alive, retired [2]bool
		for i := range people {
			ages[i] = people[i].AgeAt(y)
			alive[i] = people[i].AliveAt(ages[i])
			retired[i] = people[i].RetiredAt(ages[i])
		}
		if !couple {
			alive[1], retired[1] = false, false
		}
		status := domain.FilingSingle
		if couple && alive[0] && alive[1] {
			status = domain.FilingMarriedJoint
		}
		isRetired := (alive[0] || alive[1]) && (retired[0] || retired[1])
		if couple && alive[0] != alive[1] {
			survivor := domain.Person1
			if alive[1] {
				survivor = domain.Person2
			}
			retitle(accounts, survivor)
			bases = rmdBases(accounts)
		}

		// 2. RMD from last year's ending balances
		rmd := decimal.Zero
		for i := range people {
			if alive[i] {
				rmd = rmd.Add(CalculateRMD(bases[i], ages[i], rmdStart[i]))
			}
		}

		// 3. growth
		yr := YearReturns{Average: average}
		if path != nil {
			yr = path.Year(y)
		}
		growAccounts(accounts, yr, classes, average, alive, retired)

		yp := domain.YearlyProjection{
			Year:         y,
			CalendarYear: startYear + y,
			Age1:         ages[0],
			Person1Alive: alive[0],
			Person2Alive: alive[1],
			IsRetired:    isRetired,
			FilingStatus: status,
		}
		if couple {
			yp.Age2 = ages[1]
		}

		// 4. income and expenses
		var inc incomeYear
		if isRetired {
			inc = pe.aggregateIncome(plan, y, ages, alive, ssMonthly, inflation)
		}

		// 5. gifts
		yp.Gifts = applyGifts(accounts, plan, y, ages, alive, inflation)

		// 6. withdrawal
		assets := totalBalance(accounts)
		withdrawal := decimal.Min(rmd, assets)
		if isRetired {
			fixedTax := pe.TaxCalc.Calculate(inc.taxable, plan.Jurisdiction, status)
			wc := WithdrawalContext{
				Year:           y,
				TotalAssets:    assets,
				Shortfall:      nonNegative(inc.expenses.Sub(inc.gross.Sub(fixedTax.Total()))),
				YearsRemaining: yearsRemaining(people, ages, alive),
			}
			planned := decimal.Min(decimal.Max(policy.Planned(wc), rmd), assets)
			withdrawal, yp.GrossUpIterations = grossUp(pe.TaxCalc, policy, grossUpInput{
				Planned:      planned,
				Cap:          assets,
				TaxableFixed: inc.taxable,
				GrossFixed:   inc.gross,
				Expenses:     inc.expenses,
				Jurisdiction: plan.Jurisdiction,
				Status:       status,
			})
			if reserve := policy.Reserve(wc); reserve.IsPositive() {
				withdrawal = decimal.Min(withdrawal, nonNegative(assets.Sub(reserve)))
				withdrawal = decimal.Max(withdrawal, decimal.Min(rmd, assets))
			}
		}

		// 7. debit
		withdrawal = debit(accounts, withdrawal)

		// 8. final taxes and record
		taxable := inc.taxable.Add(withdrawal)
		gross := inc.gross.Add(withdrawal)
		tax := pe.TaxCalc.Calculate(taxable, plan.Jurisdiction, status)
		yp.SocialSecurity1 = inc.ss1
		yp.SocialSecurity2 = inc.ss2
		yp.PensionIncome = inc.pension
		yp.SurvivorPension = inc.survivor
		yp.OtherIncome = inc.other
		yp.TaxableIncome = taxable
		yp.GrossIncome = gross
		yp.FederalTax = cents(tax.Federal)
		yp.StateTax = cents(tax.State)
		yp.NetIncome = gross.Sub(yp.FederalTax).Sub(yp.StateTax)
		yp.Expenses = inc.expenses
		yp.Withdrawal = withdrawal
		yp.RMD = rmd
		yp.Surplus = yp.NetIncome.Sub(yp.Expenses)
		yp.Accounts, yp.RetirementBalance, yp.InvestmentBalance = snapshot(accounts)
		yp.NetWorth = yp.RetirementBalance.Add(yp.InvestmentBalance)

		if pe.Debug {
			pe.Logger.Debugf("year %d (%d) ages %d/%d: gross=%s tax=%s expenses=%s withdrawal=%s rmd=%s net_worth=%s",
				y, yp.CalendarYear, yp.Age1, yp.Age2, gross.StringFixed(2), tax.Total().StringFixed(2),
				yp.Expenses.StringFixed(2), withdrawal.StringFixed(2), rmd.StringFixed(2), yp.NetWorth.StringFixed(2))
		}
		years = append(years, yp)

		// 9. carry forward the RMD basis
		bases = rmdBases(accounts)
	}

	out := runOutput{years: years}
	if len(years) == 0 {
		return out, nil
	}
	final := &years[len(years)-1]
	out.estate = final.NetWorth
	if len(plan.LegacyDisbursements) > 0 {
		disburseLegacy(final, plan.LegacyDisbursements)
	}
	return out, nil
}
