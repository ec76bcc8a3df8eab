package calculation

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrHistoricalNotLoaded is returned when historical returns are requested before loading
var ErrHistoricalNotLoaded = errors.New("historical data not loaded")

// HistoricalYear is one calendar year of realised stock and bond returns (fractions)
type HistoricalYear struct {
	Year   int             `json:"year"`
	Stocks decimal.Decimal `json:"stocks"`
	Bonds  decimal.Decimal `json:"bonds"`
}

// HistoricalStatistics provides a statistical summary of one return series
type HistoricalStatistics struct {
	Mean         decimal.Decimal `json:"mean"`
	Median       decimal.Decimal `json:"median"`
	StdDev       decimal.Decimal `json:"std_dev"`
	Min          decimal.Decimal `json:"min"`
	Max          decimal.Decimal `json:"max"`
	Count        int             `json:"count"`
	MissingYears []int           `json:"missing_years"`
}

// HistoricalDataManager loads and serves historical annual returns for bootstrap sampling
type HistoricalDataManager struct {
	DataPath    string               `json:"data_path"`
	Years       []HistoricalYear     `json:"years"`
	StockStats  HistoricalStatistics `json:"stock_stats"`
	BondStats   HistoricalStatistics `json:"bond_stats"`
	MinYear     int                  `json:"min_year"`
	MaxYear     int                  `json:"max_year"`
	IsLoaded    bool                 `json:"is_loaded"`
	SkippedRows int                  `json:"skipped_rows"`
}

// NewHistoricalDataManager creates a manager for a CSV file with columns year,stocks,bonds
func NewHistoricalDataManager(dataPath string) *HistoricalDataManager {
	return &HistoricalDataManager{DataPath: dataPath}
}

// LoadAllData reads the CSV file once
func (hdm *HistoricalDataManager) LoadAllData() error {
	if hdm.IsLoaded {
		return nil
	}
	file, err := os.Open(hdm.DataPath)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", hdm.DataPath, err)
	}
	defer file.Close()

	if err := hdm.Load(file); err != nil {
		return fmt.Errorf("failed to load %s: %w", hdm.DataPath, err)
	}
	return nil
}

// Load parses historical returns from r. Values are fractions unless suffixed with "%".
func (hdm *HistoricalDataManager) Load(r io.Reader) error {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < 3 {
		return fmt.Errorf("invalid CSV format: expected year,stocks,bonds columns")
	}

	var years []HistoricalYear
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read data row: %w", err)
		}
		row, ok := parseHistoricalRow(record)
		if !ok {
			skipped++
			continue
		}
		years = append(years, row)
	}
	if len(years) == 0 {
		return fmt.Errorf("no valid data points found")
	}

	sort.Slice(years, func(i, j int) bool { return years[i].Year < years[j].Year })
	hdm.Years = years
	hdm.MinYear = years[0].Year
	hdm.MaxYear = years[len(years)-1].Year
	hdm.SkippedRows = skipped

	stocks := make([]decimal.Decimal, len(years))
	bonds := make([]decimal.Decimal, len(years))
	for i, y := range years {
		stocks[i] = y.Stocks
		bonds[i] = y.Bonds
	}
	missing := hdm.missingYears()
	hdm.StockStats = calculateStatistics(stocks, missing)
	hdm.BondStats = calculateStatistics(bonds, missing)
	hdm.IsLoaded = true
	return nil
}

func parseHistoricalRow(record []string) (HistoricalYear, bool) {
	if len(record) < 3 {
		return HistoricalYear{}, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(record[0]))
	if err != nil {
		return HistoricalYear{}, false
	}
	stocks, err := parseReturn(record[1])
	if err != nil {
		return HistoricalYear{}, false
	}
	bonds, err := parseReturn(record[2])
	if err != nil {
		return HistoricalYear{}, false
	}
	return HistoricalYear{Year: year, Stocks: stocks, Bonds: bonds}, true
}

func parseReturn(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	percent := strings.HasSuffix(s, "%")
	v, err := decimal.NewFromString(strings.TrimSuffix(s, "%"))
	if err != nil {
		return decimal.Zero, err
	}
	if percent {
		v = v.Div(hundred)
	}
	return v, nil
}

func (hdm *HistoricalDataManager) missingYears() []int {
	var missing []int
	for i := 1; i < len(hdm.Years); i++ {
		for y := hdm.Years[i-1].Year + 1; y < hdm.Years[i].Year; y++ {
			missing = append(missing, y)
		}
	}
	return missing
}

// calculateStatistics calculates summary measures for a return series
func calculateStatistics(values []decimal.Decimal, missing []int) HistoricalStatistics {
	if len(values) == 0 {
		return HistoricalStatistics{}
	}
	n := decimal.NewFromInt(int64(len(values)))

	var sum decimal.Decimal
	for _, v := range values {
		sum = sum.Add(v)
	}
	mean := sum.Div(n)

	var varianceSum decimal.Decimal
	for _, v := range values {
		diff := v.Sub(mean)
		varianceSum = varianceSum.Add(diff.Mul(diff))
	}
	variance, _ := varianceSum.Div(n).Float64()

	sorted := append([]decimal.Decimal(nil), values...)
	sortDecimals(sorted)

	return HistoricalStatistics{
		Mean:         mean,
		Median:       Percentile(sorted, 50),
		StdDev:       decimal.NewFromFloat(math.Sqrt(variance)),
		Min:          sorted[0],
		Max:          sorted[len(sorted)-1],
		Count:        len(values),
		MissingYears: missing,
	}
}

// GetReturns returns the stock and bond returns of a calendar year
func (hdm *HistoricalDataManager) GetReturns(year int) (HistoricalYear, error) {
	if !hdm.IsLoaded {
		return HistoricalYear{}, ErrHistoricalNotLoaded
	}
	i := sort.Search(len(hdm.Years), func(i int) bool { return hdm.Years[i].Year >= year })
	if i < len(hdm.Years) && hdm.Years[i].Year == year {
		return hdm.Years[i], nil
	}
	return HistoricalYear{}, fmt.Errorf("no historical returns for year %d", year)
}

// RandomYear draws one historical year uniformly with replacement
func (hdm *HistoricalDataManager) RandomYear(rng *rand.Rand) (HistoricalYear, error) {
	if !hdm.IsLoaded || len(hdm.Years) == 0 {
		return HistoricalYear{}, ErrHistoricalNotLoaded
	}
	return hdm.Years[rng.Intn(len(hdm.Years))], nil
}

// GetAvailableYears returns the range of available years
func (hdm *HistoricalDataManager) GetAvailableYears() (int, int, error) {
	if !hdm.IsLoaded {
		return 0, 0, ErrHistoricalNotLoaded
	}
	return hdm.MinYear, hdm.MaxYear, nil
}

// ValidateDataQuality reports gaps and extreme values in the loaded series
func (hdm *HistoricalDataManager) ValidateDataQuality() ([]string, error) {
	if !hdm.IsLoaded {
		return nil, ErrHistoricalNotLoaded
	}

	var issues []string
	if len(hdm.StockStats.MissingYears) > 0 {
		issues = append(issues, fmt.Sprintf("Missing years in return data: %v", hdm.StockStats.MissingYears))
	}
	limitLow := decimal.NewFromFloat(-0.5)
	for _, y := range hdm.Years {
		if y.Stocks.GreaterThan(one) {
			issues = append(issues, fmt.Sprintf("Extreme positive stock return for year %d: %s", y.Year, y.Stocks.String()))
		}
		if y.Stocks.LessThan(limitLow) {
			issues = append(issues, fmt.Sprintf("Extreme negative stock return for year %d: %s", y.Year, y.Stocks.String()))
		}
		if y.Bonds.LessThan(limitLow) {
			issues = append(issues, fmt.Sprintf("Extreme negative bond return for year %d: %s", y.Year, y.Bonds.String()))
		}
	}
	if hdm.SkippedRows > 0 {
		issues = append(issues, fmt.Sprintf("%d malformed rows skipped", hdm.SkippedRows))
	}
	return issues, nil
}
