package calculation

import (
	"github.com/rpgo/networth-projector/internal/domain"
	"github.com/shopspring/decimal"
)

// TAX TABLE ASSUMPTIONS:
//
// 1. Federal: 2025 brackets and standard deductions for every projection year
//    - No inflation indexing of brackets
//    - No age 65+ additional deduction, no itemizing
//
// 2. States: one standard deduction per filing status and a bracket schedule.
//    Flat-tax states are a single open-ended bracket. States without an income
//    tax are listed with empty schedules so they validate as known codes.

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func bracket(rate, min, max float64) TaxBracket {
	return TaxBracket{Rate: dec(rate), Min: dec(min), Max: dec(max)}
}

// unbounded is the upper bound of a top bracket
const unbounded = 1e12

func flat(rate, dedSingle, dedJoint float64) map[domain.FilingStatus]TaxSchedule {
	return map[domain.FilingStatus]TaxSchedule{
		domain.FilingSingle:       {StandardDeduction: dec(dedSingle), Brackets: []TaxBracket{bracket(rate, 0, unbounded)}},
		domain.FilingMarriedJoint: {StandardDeduction: dec(dedJoint), Brackets: []TaxBracket{bracket(rate, 0, unbounded)}},
	}
}

// federal2025 holds the 2025 federal schedules
var federal2025 = map[domain.FilingStatus]TaxSchedule{
	domain.FilingSingle: {
		StandardDeduction: dec(15000),
		Brackets: []TaxBracket{
			bracket(0.10, 0, 11925),
			bracket(0.12, 11925, 48475),
			bracket(0.22, 48475, 103350),
			bracket(0.24, 103350, 197300),
			bracket(0.32, 197300, 250525),
			bracket(0.35, 250525, 626350),
			bracket(0.37, 626350, unbounded),
		},
	},
	domain.FilingMarriedJoint: {
		StandardDeduction: dec(30000),
		Brackets: []TaxBracket{
			bracket(0.10, 0, 23850),
			bracket(0.12, 23850, 96950),
			bracket(0.22, 96950, 206700),
			bracket(0.24, 206700, 394600),
			bracket(0.32, 394600, 501050),
			bracket(0.35, 501050, 751600),
			bracket(0.37, 751600, unbounded),
		},
	},
}

var noIncomeTax = map[domain.FilingStatus]TaxSchedule{}

// stateTables is keyed by upper-case postal code
var stateTables = map[string]Jurisdiction{
	"CA": {Code: "CA", Name: "California", Schedules: map[domain.FilingStatus]TaxSchedule{
		domain.FilingSingle: {StandardDeduction: dec(5540), Brackets: []TaxBracket{
			bracket(0.01, 0, 10756),
			bracket(0.02, 10756, 25499),
			bracket(0.04, 25499, 40245),
			bracket(0.06, 40245, 55866),
			bracket(0.08, 55866, 70606),
			bracket(0.093, 70606, 360659),
			bracket(0.103, 360659, 432787),
			bracket(0.113, 432787, 721314),
			bracket(0.123, 721314, unbounded),
		}},
		domain.FilingMarriedJoint: {StandardDeduction: dec(11080), Brackets: []TaxBracket{
			bracket(0.01, 0, 21512),
			bracket(0.02, 21512, 50998),
			bracket(0.04, 50998, 80490),
			bracket(0.06, 80490, 111732),
			bracket(0.08, 111732, 141212),
			bracket(0.093, 141212, 721318),
			bracket(0.103, 721318, 865574),
			bracket(0.113, 865574, 1442628),
			bracket(0.123, 1442628, unbounded),
		}},
	}},
	"NY": {Code: "NY", Name: "New York", Schedules: map[domain.FilingStatus]TaxSchedule{
		domain.FilingSingle: {StandardDeduction: dec(8000), Brackets: []TaxBracket{
			bracket(0.04, 0, 8500),
			bracket(0.045, 8500, 11700),
			bracket(0.0525, 11700, 13900),
			bracket(0.055, 13900, 80650),
			bracket(0.06, 80650, 215400),
			bracket(0.0685, 215400, 1077550),
			bracket(0.0965, 1077550, 5000000),
			bracket(0.103, 5000000, 25000000),
			bracket(0.109, 25000000, unbounded),
		}},
		domain.FilingMarriedJoint: {StandardDeduction: dec(16050), Brackets: []TaxBracket{
			bracket(0.04, 0, 17150),
			bracket(0.045, 17150, 23600),
			bracket(0.0525, 23600, 27900),
			bracket(0.055, 27900, 161550),
			bracket(0.06, 161550, 323200),
			bracket(0.0685, 323200, 2155350),
			bracket(0.0965, 2155350, 5000000),
			bracket(0.103, 5000000, 25000000),
			bracket(0.109, 25000000, unbounded),
		}},
	}},
	"PA": {Code: "PA", Name: "Pennsylvania", Schedules: flat(0.0307, 0, 0)},
	"IL": {Code: "IL", Name: "Illinois", Schedules: flat(0.0495, 2775, 5550)},
	"CO": {Code: "CO", Name: "Colorado", Schedules: flat(0.044, 15000, 30000)},
	"NC": {Code: "NC", Name: "North Carolina", Schedules: flat(0.0425, 12750, 25500)},
	"GA": {Code: "GA", Name: "Georgia", Schedules: flat(0.0539, 12000, 24000)},

	"AK": {Code: "AK", Name: "Alaska", Schedules: noIncomeTax},
	"FL": {Code: "FL", Name: "Florida", Schedules: noIncomeTax},
	"NV": {Code: "NV", Name: "Nevada", Schedules: noIncomeTax},
	"NH": {Code: "NH", Name: "New Hampshire", Schedules: noIncomeTax},
	"SD": {Code: "SD", Name: "South Dakota", Schedules: noIncomeTax},
	"TN": {Code: "TN", Name: "Tennessee", Schedules: noIncomeTax},
	"TX": {Code: "TX", Name: "Texas", Schedules: noIncomeTax},
	"WA": {Code: "WA", Name: "Washington", Schedules: noIncomeTax},
	"WY": {Code: "WY", Name: "Wyoming", Schedules: noIncomeTax},
}
