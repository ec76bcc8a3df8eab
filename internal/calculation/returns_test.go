package calculation

import (
	"testing"

	"github.com/rpgo/networth-projector/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRecenteredMeans(t *testing.T) {
	tests := []struct {
		name      string
		plan      *domain.Plan
		wantStock string
		wantBond  string
	}{
		{
			name:      "defaults already match",
			plan:      &domain.Plan{AverageReturnPct: money(6)},
			wantStock: "0.08",
			wantBond:  "0.03",
		},
		{
			name:      "higher average shifts both",
			plan:      &domain.Plan{AverageReturnPct: money(7)},
			wantStock: "0.09",
			wantBond:  "0.04",
		},
		{
			name: "all-stock portfolio",
			plan: &domain.Plan{
				AverageReturnPct:   money(6),
				InvestmentAccounts: []domain.InvestmentAccount{{Balance: money(100), StockAllocationPct: money(100)}},
			},
			wantStock: "0.06",
			wantBond:  "0.01",
		},
		{
			name: "overridden class means",
			plan: &domain.Plan{
				AverageReturnPct: money(5),
				AssetClasses:     &domain.AssetClassAssumptions{StockMeanPct: money(10), BondMeanPct: money(5)},
			},
			wantStock: "0.07",
			wantBond:  "0.02",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecenteredMeans(tt.plan)
			assert.True(t, got.StockMean.Equal(decimal.RequireFromString(tt.wantStock)), "stock got %s", got.StockMean)
			assert.True(t, got.BondMean.Equal(decimal.RequireFromString(tt.wantBond)), "bond got %s", got.BondMean)
		})
	}
}

func TestRecenteredMeans_KeepsVolatilities(t *testing.T) {
	plan := &domain.Plan{AverageReturnPct: money(6), AssetClasses: &domain.AssetClassAssumptions{StockStdDevPct: money(20)}}
	got := RecenteredMeans(plan)
	assert.True(t, got.StockStdDev.Equal(decimal.NewFromFloat(0.2)))
	assert.True(t, got.BondStdDev.Equal(DefaultAssetClasses.BondStdDev))
}

func TestSampledPath(t *testing.T) {
	var empty SampledPath
	assert.True(t, empty.Year(3).Average.IsZero())

	path := SampledPath{
		{Average: decimal.NewFromFloat(0.1)},
		{Average: decimal.NewFromFloat(-0.2)},
	}
	assert.True(t, path.Year(0).Average.Equal(decimal.NewFromFloat(0.1)))
	assert.True(t, path.Year(1).Average.Equal(decimal.NewFromFloat(-0.2)))
	assert.True(t, path.Year(5).Average.Equal(decimal.NewFromFloat(-0.2)), "years past the end repeat the last entry")
}

func TestConstantReturn(t *testing.T) {
	c := ConstantReturn{Rate: decimal.NewFromFloat(0.04)}
	yr := c.Year(17)
	assert.True(t, yr.Average.Equal(decimal.NewFromFloat(0.04)))
	assert.False(t, yr.ByClass)
}

func TestClassYear(t *testing.T) {
	yr := classYear(decimal.NewFromFloat(0.1), decimal.NewFromFloat(0.05))
	assert.True(t, yr.ByClass)
	assert.True(t, yr.Average.Equal(decimal.NewFromFloat(0.08)), "got %s", yr.Average)
}
