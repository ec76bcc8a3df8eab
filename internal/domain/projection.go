package domain

import (
	"github.com/shopspring/decimal"
)

// AccountKind separates retirement from taxable investment accounts in output
type AccountKind string

const (
	KindRetirement AccountKind = "retirement"
	KindInvestment AccountKind = "investment"
)

// AccountBalance is the end-of-year balance of one account
type AccountBalance struct {
	Name    string          `json:"name"`
	Kind    AccountKind     `json:"kind"`
	Owner   Owner           `json:"owner"`
	Balance decimal.Decimal `json:"balance"`
}

// LegacyDistribution is one beneficiary's share of the terminal estate
type LegacyDistribution struct {
	Beneficiary string          `json:"beneficiary"`
	Percentage  decimal.Decimal `json:"percentage"`
	Amount      decimal.Decimal `json:"amount"`
}

// YearlyProjection is the record of a single simulated year.
// Records are never mutated after creation except the final record's legacy fields.
type YearlyProjection struct {
	Year         int          `json:"year"`
	CalendarYear int          `json:"calendar_year"`
	Age1         int          `json:"age1"`
	Age2         int          `json:"age2"`
	Person1Alive bool         `json:"person1_alive"`
	Person2Alive bool         `json:"person2_alive"`
	IsRetired    bool         `json:"is_retired"`
	FilingStatus FilingStatus `json:"filing_status"`

	// Income
	SocialSecurity1 decimal.Decimal `json:"social_security1"`
	SocialSecurity2 decimal.Decimal `json:"social_security2"`
	PensionIncome   decimal.Decimal `json:"pension_income"`
	SurvivorPension decimal.Decimal `json:"survivor_pension"`
	OtherIncome     decimal.Decimal `json:"other_income"`
	TaxableIncome   decimal.Decimal `json:"taxable_income"`
	GrossIncome     decimal.Decimal `json:"gross_income"`
	FederalTax      decimal.Decimal `json:"federal_tax"`
	StateTax        decimal.Decimal `json:"state_tax"`
	NetIncome       decimal.Decimal `json:"net_income"`

	// Outflows
	Expenses          decimal.Decimal `json:"expenses"`
	Withdrawal        decimal.Decimal `json:"withdrawal"`
	RMD               decimal.Decimal `json:"rmd"`
	Gifts             decimal.Decimal `json:"gifts"`
	Surplus           decimal.Decimal `json:"surplus"`
	GrossUpIterations int             `json:"gross_up_iterations"`

	// Balances (end of year)
	RetirementBalance decimal.Decimal  `json:"retirement_balance"`
	InvestmentBalance decimal.Decimal  `json:"investment_balance"`
	Accounts          []AccountBalance `json:"accounts"`
	NetWorth          decimal.Decimal  `json:"net_worth"`

	// Final year only
	LegacyOutflow       decimal.Decimal      `json:"legacy_outflow"`
	LegacyDistributions []LegacyDistribution `json:"legacy_distributions,omitempty"`
}

// TotalSocialSecurity returns the household's Social Security for the year
func (yp *YearlyProjection) TotalSocialSecurity() decimal.Decimal {
	return yp.SocialSecurity1.Add(yp.SocialSecurity2)
}

// HasShortfall reports whether net income failed to cover expenses
func (yp *YearlyProjection) HasShortfall() bool {
	return yp.NetIncome.LessThan(yp.Expenses)
}

// LegacySummary describes the terminal estate and how it was split
type LegacySummary struct {
	Target         decimal.Decimal      `json:"target"`
	EstateBefore   decimal.Decimal      `json:"estate_before"`
	TotalDisbursed decimal.Decimal      `json:"total_disbursed"`
	Distributions  []LegacyDistribution `json:"distributions,omitempty"`
	TargetMet      bool                 `json:"target_met"`
}

// CalculationResult is the output of one projection run. It is derived from
// the complete Years sequence and is only valid once that sequence exists.
type CalculationResult struct {
	PlanName string             `json:"plan_name"`
	Years    []YearlyProjection `json:"years"`

	YearsInRetirement        int             `json:"years_in_retirement"`
	AvgMonthlyNetIncome      decimal.Decimal `json:"avg_monthly_net_income"`
	AvgMonthlyNetIncomeToday decimal.Decimal `json:"avg_monthly_net_income_today"`
	FinalNetWorth            decimal.Decimal `json:"final_net_worth"`
	FinalNetWorthToday       decimal.Decimal `json:"final_net_worth_today"`
	EffectiveFederalRatePct  decimal.Decimal `json:"effective_federal_rate_pct"`
	EffectiveStateRatePct    decimal.Decimal `json:"effective_state_rate_pct"`
	ShortfallYears           int             `json:"shortfall_years"`
	Legacy                   LegacySummary   `json:"legacy"`

	// Die-with-zero back-solve details (zero values for fixed-rate plans)
	WithdrawalScale decimal.Decimal `json:"withdrawal_scale"`
	BisectionSteps  int             `json:"bisection_steps"`

	// TerminalEstate is the final net worth before legacy disbursements
	TerminalEstate decimal.Decimal `json:"terminal_estate"`
}

// Final returns the last yearly record, or nil for an empty run
func (cr *CalculationResult) Final() *YearlyProjection {
	if len(cr.Years) == 0 {
		return nil
	}
	return &cr.Years[len(cr.Years)-1]
}

// NetWorthPath returns the net worth of every year in order
func (cr *CalculationResult) NetWorthPath() []decimal.Decimal {
	path := make([]decimal.Decimal, len(cr.Years))
	for i := range cr.Years {
		path[i] = cr.Years[i].NetWorth
	}
	return path
}
