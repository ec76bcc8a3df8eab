package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPercentile(t *testing.T) {
	values := make([]decimal.Decimal, 0, 10)
	for i := int64(10); i >= 1; i-- {
		values = append(values, decimal.NewFromInt(i))
	}
	sortDecimals(values)

	tests := []struct {
		p    float64
		want string
	}{
		{0, "1"},
		{10, "1.9"},
		{50, "5.5"},
		{90, "9.1"},
		{100, "10"},
	}
	for _, tt := range tests {
		got := Percentile(values, tt.p)
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "p%.0f: got %s want %s", tt.p, got, tt.want)
	}
}

func TestPercentile_EdgeCases(t *testing.T) {
	assert.True(t, Percentile(nil, 50).IsZero())
	single := []decimal.Decimal{decimal.NewFromInt(42)}
	assert.True(t, Percentile(single, 10).Equal(decimal.NewFromInt(42)))
	assert.True(t, Percentile(single, 90).Equal(decimal.NewFromInt(42)))
}
