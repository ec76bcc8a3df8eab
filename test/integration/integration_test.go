package integration

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/networth-projector/internal/calculation"
	"github.com/rpgo/networth-projector/internal/config"
)

func TestEndToEndProjection(t *testing.T) {
	// Test that we can load a plan and run a projection
	parser := config.NewInputParser()
	plan, err := parser.LoadFromFile("../../testdata/example_plan.yaml")
	require.NoError(t, err)
	assert.True(t, plan.IsCouple())

	engine := calculation.NewProjectionEngine()
	result, err := engine.RunProjection(context.Background(), plan, nil)
	require.NoError(t, err)

	// one record per year until the younger spouse's life expectancy
	assert.Len(t, result.Years, 36)
	assert.Equal(t, 2025, result.Years[0].CalendarYear)
	assert.Equal(t, 2060, result.Final().CalendarYear)

	for i, y := range result.Years {
		assert.False(t, y.NetWorth.IsNegative(), "year %d net worth negative", y.Year)
		if i < len(result.Years)-1 {
			assert.True(t, y.NetWorth.Equal(y.RetirementBalance.Add(y.InvestmentBalance)), "year %d net worth mismatch", y.Year)
		}
	}
	assert.True(t, result.TerminalEstate.GreaterThanOrEqual(result.FinalNetWorth))
}

func TestExamplePlanMatchesBuiltInExample(t *testing.T) {
	parser := config.NewInputParser()
	fromFile, err := parser.LoadFromFile("../../testdata/example_plan.yaml")
	require.NoError(t, err)
	builtIn := parser.CreateExamplePlan()

	engine := calculation.NewProjectionEngine()
	a, err := engine.RunProjection(context.Background(), fromFile, nil)
	require.NoError(t, err)
	b, err := engine.RunProjection(context.Background(), builtIn, nil)
	require.NoError(t, err)
	assert.True(t, a.FinalNetWorth.Equal(b.FinalNetWorth), "file %s, built-in %s", a.FinalNetWorth, b.FinalNetWorth)
}

func TestDieWithZeroIndividual(t *testing.T) {
	parser := config.NewInputParser()
	plan, err := parser.LoadFromFile("../../testdata/individual_dwz_plan.yaml")
	require.NoError(t, err)

	result, err := calculation.NewProjectionEngine().RunProjection(context.Background(), plan, nil)
	require.NoError(t, err)

	assert.Len(t, result.Years, 24)
	assert.GreaterOrEqual(t, result.BisectionSteps, 1)
	assert.True(t, result.WithdrawalScale.GreaterThanOrEqual(decimal.Zero) && result.WithdrawalScale.LessThanOrEqual(decimal.NewFromInt(1)))
	if result.WithdrawalScale.IsPositive() {
		assert.True(t, result.TerminalEstate.GreaterThanOrEqual(decimal.NewFromInt(199999)), "estate %s below target", result.TerminalEstate)
	}
	for _, y := range result.Years {
		assert.Equal(t, 0, y.Age2)
		assert.False(t, y.Person2Alive)
	}
}

func TestPlanValidation(t *testing.T) {
	parser := config.NewInputParser()

	// Test valid plan
	plan, err := parser.LoadFromFile("../../testdata/example_plan.yaml")
	require.NoError(t, err)

	// Test that validation works
	assert.NoError(t, parser.ValidatePlan(plan))
	plan.Jurisdiction = "ZZ"
	assert.ErrorIs(t, parser.ValidatePlan(plan), config.ErrUnknownJurisdiction)
}
