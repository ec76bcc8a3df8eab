package calculation

import (
	"github.com/rpgo/networth-projector/internal/domain"
	"github.com/shopspring/decimal"
)

// YearReturns is the market outcome applied to one simulated year. Average
// drives retirement accounts and recenters the class means for investment
// accounts; when ByClass is set the realised Stocks and Bonds returns are used instead.
type YearReturns struct {
	Average decimal.Decimal
	Stocks  decimal.Decimal
	Bonds   decimal.Decimal
	ByClass bool
}

// MarketPath supplies the returns for each simulated year of a run
type MarketPath interface {
	Year(year int) YearReturns
}

// ConstantReturn overrides the plan's average return for every year
type ConstantReturn struct {
	Rate decimal.Decimal // fraction
}

func (c ConstantReturn) Year(int) YearReturns { return YearReturns{Average: c.Rate} }

// SampledPath is a pre-drawn sequence of yearly returns. Years past the end
// repeat the last entry.
type SampledPath []YearReturns

func (s SampledPath) Year(year int) YearReturns {
	if len(s) == 0 {
		return YearReturns{}
	}
	if year >= len(s) {
		year = len(s) - 1
	}
	return s[year]
}

// AssetClassParams are the fractional class means and volatilities of a plan
type AssetClassParams struct {
	StockMean   decimal.Decimal
	StockStdDev decimal.Decimal
	BondMean    decimal.Decimal
	BondStdDev  decimal.Decimal
}

// DefaultAssetClasses are used when a plan does not override them
var DefaultAssetClasses = AssetClassParams{
	StockMean:   decimal.NewFromFloat(0.08),
	StockStdDev: decimal.NewFromFloat(0.15),
	BondMean:    decimal.NewFromFloat(0.03),
	BondStdDev:  decimal.NewFromFloat(0.06),
}

var (
	baseStockWeight = decimal.NewFromFloat(0.6)
	baseBondWeight  = decimal.NewFromFloat(0.4)
)

// assetClassesFor returns the plan's class assumptions as fractions
func assetClassesFor(plan *domain.Plan) AssetClassParams {
	ac := plan.AssetClasses
	if ac == nil {
		return DefaultAssetClasses
	}
	p := DefaultAssetClasses
	if !ac.StockMeanPct.IsZero() {
		p.StockMean = pct(ac.StockMeanPct)
	}
	if !ac.StockStdDevPct.IsZero() {
		p.StockStdDev = pct(ac.StockStdDevPct)
	}
	if !ac.BondMeanPct.IsZero() {
		p.BondMean = pct(ac.BondMeanPct)
	}
	if !ac.BondStdDevPct.IsZero() {
		p.BondStdDev = pct(ac.BondStdDevPct)
	}
	return p
}

// portfolioBaseReturn is the balance-weighted class-mean return of the
// investment accounts, or the 60/40 mix when they hold nothing.
func portfolioBaseReturn(plan *domain.Plan, ac AssetClassParams) decimal.Decimal {
	var weighted, total decimal.Decimal
	for _, a := range plan.InvestmentAccounts {
		if a.Balance.LessThanOrEqual(decimal.Zero) {
			continue
		}
		s, b := a.Allocation()
		weighted = weighted.Add(a.Balance.Mul(s.Mul(ac.StockMean).Add(b.Mul(ac.BondMean))))
		total = total.Add(a.Balance)
	}
	if total.IsZero() {
		return baseStockWeight.Mul(ac.StockMean).Add(baseBondWeight.Mul(ac.BondMean))
	}
	return weighted.Div(total)
}

// RecenteredMeans shifts both class means by one offset so the investment
// portfolio's weighted mean equals the plan's average return.
func RecenteredMeans(plan *domain.Plan) AssetClassParams {
	ac := assetClassesFor(plan)
	delta := pct(plan.AverageReturnPct).Sub(portfolioBaseReturn(plan, ac))
	ac.StockMean = ac.StockMean.Add(delta)
	ac.BondMean = ac.BondMean.Add(delta)
	return ac
}
