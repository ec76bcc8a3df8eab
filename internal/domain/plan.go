package domain

import (
	"github.com/shopspring/decimal"
)

// PlanType distinguishes single-person plans from couples
type PlanType string

const (
	PlanIndividual PlanType = "individual"
	PlanCouple     PlanType = "couple"
)

// Owner identifies which person of the household an account or stream belongs to
type Owner string

const (
	Person1 Owner = "person1"
	Person2 Owner = "person2"
)

// Spouse returns the other person of the household
func (o Owner) Spouse() Owner {
	if o == Person2 {
		return Person1
	}
	return Person2
}

// FilingStatus is the tax filing status used for a simulated year
type FilingStatus string

const (
	FilingSingle       FilingStatus = "single"
	FilingMarriedJoint FilingStatus = "married_joint"
)

// Person holds the age and earnings profile of one member of the household.
// Ages advance by exactly one per simulated year; death occurs the year age exceeds LifeExpectancy.
type Person struct {
	Name           string          `yaml:"name" json:"name"`
	CurrentAge     int             `yaml:"current_age" json:"current_age"`
	RetirementAge  int             `yaml:"retirement_age" json:"retirement_age"`
	LifeExpectancy int             `yaml:"life_expectancy" json:"life_expectancy"`
	CurrentSalary  decimal.Decimal `yaml:"current_salary" json:"current_salary"`
	SSClaimingAge  int             `yaml:"ss_claiming_age" json:"ss_claiming_age"`
}

// AgeAt returns the person's age in simulated year index y
func (p Person) AgeAt(year int) int { return p.CurrentAge + year }

// AliveAt reports whether the person is alive at the given age
func (p Person) AliveAt(age int) bool { return age <= p.LifeExpectancy }

// RetiredAt reports whether the person has reached retirement age
func (p Person) RetiredAt(age int) bool { return age >= p.RetirementAge }

// RetirementAccountType enumerates tax-deferred and Roth account kinds
type RetirementAccountType string

const (
	AccountTraditional RetirementAccountType = "traditional"
	Account401k        RetirementAccountType = "401k"
	Account403b        RetirementAccountType = "403b"
	AccountIRA         RetirementAccountType = "ira"
	AccountRoth        RetirementAccountType = "roth"
	AccountRoth401k    RetirementAccountType = "roth_401k"
)

// IsRoth reports whether the account type is exempt from RMDs
func (t RetirementAccountType) IsRoth() bool {
	return t == AccountRoth || t == AccountRoth401k
}

// RetirementAccount is a tax-advantaged account (401k, IRA, Roth...)
type RetirementAccount struct {
	Name               string                `yaml:"name" json:"name"`
	Owner              Owner                 `yaml:"owner" json:"owner"`
	Type               RetirementAccountType `yaml:"type" json:"type"`
	Balance            decimal.Decimal       `yaml:"balance" json:"balance"`
	AnnualContribution decimal.Decimal       `yaml:"annual_contribution" json:"annual_contribution"`
	EmployerMatchPct   decimal.Decimal       `yaml:"employer_match_pct" json:"employer_match_pct"`
}

// InvestmentAccount is a taxable brokerage account split between stocks and bonds
type InvestmentAccount struct {
	Name               string          `yaml:"name" json:"name"`
	Owner              Owner           `yaml:"owner" json:"owner"`
	Balance            decimal.Decimal `yaml:"balance" json:"balance"`
	AnnualContribution decimal.Decimal `yaml:"annual_contribution" json:"annual_contribution"`
	StockAllocationPct decimal.Decimal `yaml:"stock_allocation_pct" json:"stock_allocation_pct"`
	BondAllocationPct  decimal.Decimal `yaml:"bond_allocation_pct" json:"bond_allocation_pct"`
}

// Allocation returns the stock and bond weights as fractions, defaulting to 60/40
func (a InvestmentAccount) Allocation() (stocks, bonds decimal.Decimal) {
	if a.StockAllocationPct.IsZero() && a.BondAllocationPct.IsZero() {
		return decimal.NewFromFloat(0.6), decimal.NewFromFloat(0.4)
	}
	hundred := decimal.NewFromInt(100)
	return a.StockAllocationPct.Div(hundred), a.BondAllocationPct.Div(hundred)
}

// Pension is a defined-benefit income stream with an optional survivor benefit
type Pension struct {
	Name          string          `yaml:"name" json:"name"`
	Owner         Owner           `yaml:"owner" json:"owner"`
	StartAge      int             `yaml:"start_age" json:"start_age"`
	EndAge        int             `yaml:"end_age,omitempty" json:"end_age,omitempty"`
	MonthlyAmount decimal.Decimal `yaml:"monthly_amount" json:"monthly_amount"`
	COLAPct       decimal.Decimal `yaml:"cola_pct" json:"cola_pct"`
	Taxable       bool            `yaml:"taxable" json:"taxable"`
	SurvivorPct   decimal.Decimal `yaml:"survivor_pct" json:"survivor_pct"`
}

// OtherIncome is any other recurring income (rental, annuity, part-time work)
type OtherIncome struct {
	Name          string          `yaml:"name" json:"name"`
	Owner         Owner           `yaml:"owner" json:"owner"`
	StartAge      int             `yaml:"start_age" json:"start_age"`
	EndAge        int             `yaml:"end_age,omitempty" json:"end_age,omitempty"`
	MonthlyAmount decimal.Decimal `yaml:"monthly_amount" json:"monthly_amount"`
	COLAPct       decimal.Decimal `yaml:"cola_pct" json:"cola_pct"`
	Taxable       bool            `yaml:"taxable" json:"taxable"`
}

// ExpensePeriod is a spending band bounded by ages. Start and end bounds can
// reference different people. EndAge 0 leaves the band open-ended.
type ExpensePeriod struct {
	Name          string          `yaml:"name" json:"name"`
	MonthlyAmount decimal.Decimal `yaml:"monthly_amount" json:"monthly_amount"`
	StartAge      int             `yaml:"start_age" json:"start_age"`
	StartAgeRef   Owner           `yaml:"start_age_ref" json:"start_age_ref"`
	EndAge        int             `yaml:"end_age,omitempty" json:"end_age,omitempty"`
	EndAgeRef     Owner           `yaml:"end_age_ref" json:"end_age_ref"`
}

// GiftRecurrence says whether a gift is paid once or every year in a window
type GiftRecurrence string

const (
	GiftOneTime GiftRecurrence = "one_time"
	GiftAnnual  GiftRecurrence = "annual"
)

// Gift is a transfer out of the accounts during life
type Gift struct {
	Name              string          `yaml:"name" json:"name"`
	Owner             Owner           `yaml:"owner" json:"owner"`
	Amount            decimal.Decimal `yaml:"amount" json:"amount"`
	Recurrence        GiftRecurrence  `yaml:"recurrence" json:"recurrence"`
	Age               int             `yaml:"age,omitempty" json:"age,omitempty"`
	StartAge          int             `yaml:"start_age,omitempty" json:"start_age,omitempty"`
	EndAge            int             `yaml:"end_age,omitempty" json:"end_age,omitempty"`
	InflationAdjusted bool            `yaml:"inflation_adjusted" json:"inflation_adjusted"`
}

// AppliesAt reports whether the gift is due when the owner is the given age
func (g Gift) AppliesAt(age int) bool {
	switch g.Recurrence {
	case GiftAnnual:
		if age < g.StartAge {
			return false
		}
		return g.EndAge == 0 || age <= g.EndAge
	default:
		return age == g.Age
	}
}

// LegacyDisbursement splits a percentage of the terminal estate to a beneficiary
type LegacyDisbursement struct {
	Beneficiary string          `yaml:"beneficiary" json:"beneficiary"`
	Percentage  decimal.Decimal `yaml:"percentage" json:"percentage"`
}

// AssetClassAssumptions overrides the default stock/bond means and volatilities (percent)
type AssetClassAssumptions struct {
	StockMeanPct   decimal.Decimal `yaml:"stock_mean_pct" json:"stock_mean_pct"`
	StockStdDevPct decimal.Decimal `yaml:"stock_std_dev_pct" json:"stock_std_dev_pct"`
	BondMeanPct    decimal.Decimal `yaml:"bond_mean_pct" json:"bond_mean_pct"`
	BondStdDevPct  decimal.Decimal `yaml:"bond_std_dev_pct" json:"bond_std_dev_pct"`
}

// FatTailAssumptions enables Student's-t sampling with the given degrees of freedom
type FatTailAssumptions struct {
	Enabled          bool    `yaml:"enabled" json:"enabled"`
	DegreesOfFreedom float64 `yaml:"degrees_of_freedom" json:"degrees_of_freedom"`
}

// Plan is the household configuration for one simulation pass
type Plan struct {
	Name     string   `yaml:"name" json:"name"`
	PlanType PlanType `yaml:"plan_type" json:"plan_type"`
	// StartYear is the calendar year of simulated year 0 (0 means the current year)
	StartYear int    `yaml:"start_year,omitempty" json:"start_year,omitempty"`
	Person1   Person `yaml:"person1" json:"person1"`
	Person2   Person `yaml:"person2" json:"person2"`

	RetirementAccounts  []RetirementAccount  `yaml:"retirement_accounts" json:"retirement_accounts"`
	InvestmentAccounts  []InvestmentAccount  `yaml:"investment_accounts" json:"investment_accounts"`
	Pensions            []Pension            `yaml:"pensions" json:"pensions"`
	OtherIncome         []OtherIncome        `yaml:"other_income" json:"other_income"`
	ExpensePeriods      []ExpensePeriod      `yaml:"expense_periods" json:"expense_periods"`
	Gifts               []Gift               `yaml:"gifts" json:"gifts"`
	LegacyDisbursements []LegacyDisbursement `yaml:"legacy_disbursements" json:"legacy_disbursements"`

	InflationRatePct  decimal.Decimal `yaml:"inflation_rate_pct" json:"inflation_rate_pct"`
	AverageReturnPct  decimal.Decimal `yaml:"average_return_pct" json:"average_return_pct"`
	WithdrawalRatePct decimal.Decimal `yaml:"withdrawal_rate_pct" json:"withdrawal_rate_pct"`
	DieWithZero       bool            `yaml:"die_with_zero" json:"die_with_zero"`
	LegacyAmount      decimal.Decimal `yaml:"legacy_amount" json:"legacy_amount"`
	Jurisdiction      string          `yaml:"jurisdiction" json:"jurisdiction"`
	// RMDStartAge overrides the birth-year derived RMD age when non-zero
	RMDStartAge int `yaml:"rmd_start_age,omitempty" json:"rmd_start_age,omitempty"`

	AssetClasses *AssetClassAssumptions `yaml:"asset_classes,omitempty" json:"asset_classes,omitempty"`
	FatTails     *FatTailAssumptions    `yaml:"fat_tails,omitempty" json:"fat_tails,omitempty"`
}

// IsCouple reports whether person2 participates in the plan
func (p *Plan) IsCouple() bool { return p.PlanType == PlanCouple }

// Person returns the person record for an owner reference
func (p *Plan) Person(o Owner) Person {
	if o == Person2 {
		return p.Person2
	}
	return p.Person1
}

// HorizonYears returns the index of the last simulated year: the latest life
// expectancy minus the youngest current age. For a couple the tail years can
// have nobody alive.
func (p *Plan) HorizonYears() int {
	le, age := p.Person1.LifeExpectancy, p.Person1.CurrentAge
	if p.IsCouple() {
		le = max(le, p.Person2.LifeExpectancy)
		age = min(age, p.Person2.CurrentAge)
	}
	return max(le-age, 0)
}

// Clone returns a deep copy so a run can never alias the caller's slices
func (p *Plan) Clone() *Plan {
	c := *p
	c.RetirementAccounts = append([]RetirementAccount(nil), p.RetirementAccounts...)
	c.InvestmentAccounts = append([]InvestmentAccount(nil), p.InvestmentAccounts...)
	c.Pensions = append([]Pension(nil), p.Pensions...)
	c.OtherIncome = append([]OtherIncome(nil), p.OtherIncome...)
	c.ExpensePeriods = append([]ExpensePeriod(nil), p.ExpensePeriods...)
	c.Gifts = append([]Gift(nil), p.Gifts...)
	c.LegacyDisbursements = append([]LegacyDisbursement(nil), p.LegacyDisbursements...)
	if p.AssetClasses != nil {
		ac := *p.AssetClasses
		c.AssetClasses = &ac
	}
	if p.FatTails != nil {
		ft := *p.FatTails
		c.FatTails = &ft
	}
	return &c
}
