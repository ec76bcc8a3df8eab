package calculation

import (
	"testing"

	"github.com/rpgo/networth-projector/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTaxCalculator_Calculate(t *testing.T) {
	tc := NewTaxCalculator()

	tests := []struct {
		name         string
		income       float64
		jurisdiction string
		status       domain.FilingStatus
		federal      string
		state        string
	}{
		{"single below deduction", 12000, "PA", domain.FilingSingle, "0", "368.4"},
		{"single two brackets", 50000, "", domain.FilingSingle, "3961.5", "0"},
		{"joint two brackets", 100000, "TX", domain.FilingMarriedJoint, "7923", "0"},
		{"pennsylvania flat", 100000, "pa", domain.FilingSingle, "13614", "3070"},
		{"california progressive", 50000, "CA", domain.FilingSingle, "3961.5", "1245.16"},
		{"unknown jurisdiction", 50000, "ZZ", domain.FilingSingle, "3961.5", "0"},
		{"zero income", 0, "CA", domain.FilingMarriedJoint, "0", "0"},
		{"negative income floors", -500, "CA", domain.FilingSingle, "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tc.Calculate(decimal.NewFromFloat(tt.income), tt.jurisdiction, tt.status)
			assert.True(t, got.Federal.Equal(decimal.RequireFromString(tt.federal)), "federal: got %s want %s", got.Federal, tt.federal)
			assert.True(t, got.State.Equal(decimal.RequireFromString(tt.state)), "state: got %s want %s", got.State, tt.state)
		})
	}
}

func TestTaxCalculator_MarginalRate(t *testing.T) {
	tc := NewTaxCalculator()

	// taxable 35,000 sits in the 12% federal bracket; PA adds 3.07%
	rate := tc.MarginalRate(decimal.NewFromInt(50000), "PA", domain.FilingSingle)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.1507")), "got %s", rate)

	// below the standard deduction nothing is owed at the margin
	rate = tc.MarginalRate(decimal.NewFromInt(1000), "", domain.FilingMarriedJoint)
	assert.True(t, rate.IsZero(), "got %s", rate)
}

func TestTaxCalculator_KnownJurisdiction(t *testing.T) {
	tc := NewTaxCalculator()

	assert.True(t, tc.KnownJurisdiction("CA"))
	assert.True(t, tc.KnownJurisdiction(" fl "))
	assert.True(t, tc.KnownJurisdiction(""))
	assert.False(t, tc.KnownJurisdiction("XX"))

	js := tc.Jurisdictions()
	assert.NotEmpty(t, js)
	for i := 1; i < len(js); i++ {
		assert.Less(t, js[i-1].Code, js[i].Code)
	}
}
