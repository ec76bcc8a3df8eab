package domain

import (
	"github.com/shopspring/decimal"
)

// PercentileBand is the spread of net worth across trials for one simulated year
type PercentileBand struct {
	Year int             `json:"year"`
	P10  decimal.Decimal `json:"p10"`
	P50  decimal.Decimal `json:"p50"`
	P90  decimal.Decimal `json:"p90"`
}

// MonteCarloSummary aggregates many projection runs of the same plan
type MonteCarloSummary struct {
	RunID          string            `json:"run_id"`
	NumSimulations int               `json:"num_simulations"`
	Completed      int               `json:"completed"`
	FailedTrials   int               `json:"failed_trials"`
	Cancelled      bool              `json:"cancelled"`
	Mode           string            `json:"mode"`
	SuccessRate    decimal.Decimal   `json:"success_rate"` // percent, 0..100
	Outcomes       []decimal.Decimal `json:"outcomes"`
	Percentiles    []PercentileBand  `json:"percentiles"`
	RunoutByYear   []decimal.Decimal `json:"runout_by_year"` // fraction 0..1 per year
}
