package calculation

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "returns.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestHistoricalDataManager_LoadAllData(t *testing.T) {
	path := writeCSV(t, "year,stocks,bonds\n2001,-0.10,0.05\n2000,0.20,0.03\n2003,25%,1.5%\n")
	hdm := NewHistoricalDataManager(path)
	require.NoError(t, hdm.LoadAllData())

	assert.True(t, hdm.IsLoaded)
	require.Len(t, hdm.Years, 3)
	assert.Equal(t, 2000, hdm.Years[0].Year, "rows are sorted by year")

	minYear, maxYear, err := hdm.GetAvailableYears()
	require.NoError(t, err)
	assert.Equal(t, 2000, minYear)
	assert.Equal(t, 2003, maxYear)

	hy, err := hdm.GetReturns(2003)
	require.NoError(t, err)
	assert.True(t, hy.Stocks.Equal(decimal.NewFromFloat(0.25)), "percent suffix converts to a fraction")
	assert.True(t, hy.Bonds.Equal(decimal.NewFromFloat(0.015)))

	_, err = hdm.GetReturns(2002)
	assert.Error(t, err)

	assert.Equal(t, []int{2002}, hdm.StockStats.MissingYears)
	assert.Equal(t, 3, hdm.StockStats.Count)
	assert.True(t, hdm.StockStats.Min.Equal(decimal.NewFromFloat(-0.10)))
	assert.True(t, hdm.StockStats.Max.Equal(decimal.NewFromFloat(0.25)))
	assert.True(t, hdm.StockStats.Median.Equal(decimal.NewFromFloat(0.2)))
}

func TestHistoricalDataManager_SkipsMalformedRows(t *testing.T) {
	hdm := NewHistoricalDataManager("")
	err := hdm.Load(strings.NewReader("year,stocks,bonds\n1990,abc,0.02\nnope,0.1,0.1\n1991,0.3,0.07\n"))
	require.NoError(t, err)
	assert.Len(t, hdm.Years, 1)
	assert.Equal(t, 2, hdm.SkippedRows)

	issues, err := hdm.ValidateDataQuality()
	require.NoError(t, err)
	assert.Contains(t, issues, "2 malformed rows skipped")
}

func TestHistoricalDataManager_Errors(t *testing.T) {
	hdm := NewHistoricalDataManager(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, hdm.LoadAllData())

	_, err := hdm.GetReturns(2000)
	assert.ErrorIs(t, err, ErrHistoricalNotLoaded)
	_, err = hdm.RandomYear(rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrHistoricalNotLoaded)
	_, _, err = hdm.GetAvailableYears()
	assert.ErrorIs(t, err, ErrHistoricalNotLoaded)
	_, err = hdm.ValidateDataQuality()
	assert.ErrorIs(t, err, ErrHistoricalNotLoaded)

	assert.Error(t, NewHistoricalDataManager("").Load(strings.NewReader("year,stocks\n2000,0.1\n")))
	assert.Error(t, NewHistoricalDataManager("").Load(strings.NewReader("year,stocks,bonds\n")))
}

func TestHistoricalDataManager_RandomYearDeterministic(t *testing.T) {
	hdm := NewHistoricalDataManager("../../testdata/historical_returns.csv")
	require.NoError(t, hdm.LoadAllData())

	a := rand.New(rand.NewSource(3))
	b := rand.New(rand.NewSource(3))
	for i := 0; i < 20; i++ {
		ya, err := hdm.RandomYear(a)
		require.NoError(t, err)
		yb, err := hdm.RandomYear(b)
		require.NoError(t, err)
		assert.Equal(t, ya.Year, yb.Year)
		assert.GreaterOrEqual(t, ya.Year, hdm.MinYear)
		assert.LessOrEqual(t, ya.Year, hdm.MaxYear)
	}
}

func TestHistoricalDataManager_BundledDataQuality(t *testing.T) {
	hdm := NewHistoricalDataManager("../../testdata/historical_returns.csv")
	require.NoError(t, hdm.LoadAllData())
	assert.Equal(t, 1970, hdm.MinYear)
	assert.Equal(t, 2024, hdm.MaxYear)
	assert.Empty(t, hdm.StockStats.MissingYears)
	assert.Zero(t, hdm.SkippedRows)
}
