package calculation

import (
	"sort"
	"strings"

	"github.com/rpgo/networth-projector/internal/domain"
	"github.com/shopspring/decimal"
)

// TaxBracket represents one marginal bracket of a schedule
type TaxBracket struct {
	Min  decimal.Decimal
	Max  decimal.Decimal
	Rate decimal.Decimal
}

// TaxSchedule is a standard deduction plus its bracket list
type TaxSchedule struct {
	StandardDeduction decimal.Decimal
	Brackets          []TaxBracket
}

// Tax applies the schedule to gross taxable income
func (s TaxSchedule) Tax(grossIncome decimal.Decimal) decimal.Decimal {
	taxableIncome := grossIncome.Sub(s.StandardDeduction)
	if taxableIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	var totalTax decimal.Decimal
	for _, bracket := range s.Brackets {
		if taxableIncome.LessThanOrEqual(bracket.Min) {
			break
		}
		incomeInBracket := decimal.Min(taxableIncome, bracket.Max).Sub(bracket.Min)
		if incomeInBracket.GreaterThan(decimal.Zero) {
			totalTax = totalTax.Add(incomeInBracket.Mul(bracket.Rate))
		}
	}
	return totalTax
}

// Jurisdiction is a state tax authority with per-filing-status schedules
type Jurisdiction struct {
	Code      string
	Name      string
	Schedules map[domain.FilingStatus]TaxSchedule
}

// TaxResult holds the federal and state tax for one year
type TaxResult struct {
	Federal decimal.Decimal `json:"federal"`
	State   decimal.Decimal `json:"state"`
}

// Total returns federal plus state tax
func (r TaxResult) Total() decimal.Decimal { return r.Federal.Add(r.State) }

// TaxCalculator computes federal and state income tax from static tables.
// It holds no mutable state and is safe for concurrent use.
type TaxCalculator struct {
	federal map[domain.FilingStatus]TaxSchedule
	states  map[string]Jurisdiction
}

// NewTaxCalculator creates a calculator over the built-in 2025 tables
func NewTaxCalculator() *TaxCalculator {
	return &TaxCalculator{federal: federal2025, states: stateTables}
}

// NewTaxCalculatorWithTables creates a calculator over caller-supplied tables
func NewTaxCalculatorWithTables(federal map[domain.FilingStatus]TaxSchedule, states map[string]Jurisdiction) *TaxCalculator {
	return &TaxCalculator{federal: federal, states: states}
}

func normalizeJurisdiction(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Calculate returns federal and state tax on gross taxable income.
// An unknown jurisdiction yields zero state tax; use KnownJurisdiction to validate codes up front.
func (tc *TaxCalculator) Calculate(income decimal.Decimal, jurisdiction string, status domain.FilingStatus) TaxResult {
	income = nonNegative(income)
	result := TaxResult{Federal: decimal.Zero, State: decimal.Zero}
	if sched, ok := tc.federal[status]; ok {
		result.Federal = sched.Tax(income)
	}
	if j, ok := tc.states[normalizeJurisdiction(jurisdiction)]; ok {
		if sched, ok := j.Schedules[status]; ok && len(sched.Brackets) > 0 {
			result.State = sched.Tax(income)
		}
	}
	return result
}

// MarginalRate estimates the combined marginal rate at income by probing a $1,000 increment
func (tc *TaxCalculator) MarginalRate(income decimal.Decimal, jurisdiction string, status domain.FilingStatus) decimal.Decimal {
	base := tc.Calculate(income, jurisdiction, status).Total()
	probe := tc.Calculate(income.Add(probeIncrement), jurisdiction, status).Total()
	return probe.Sub(base).Div(probeIncrement)
}

// KnownJurisdiction reports whether code has a table (including no-income-tax states).
// The empty code is treated as "no state tax" and is known.
func (tc *TaxCalculator) KnownJurisdiction(code string) bool {
	code = normalizeJurisdiction(code)
	if code == "" {
		return true
	}
	_, ok := tc.states[code]
	return ok
}

// Jurisdictions lists every supported jurisdiction sorted by code
func (tc *TaxCalculator) Jurisdictions() []Jurisdiction {
	out := make([]Jurisdiction, 0, len(tc.states))
	for _, j := range tc.states {
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Code < out[k].Code })
	return out
}
