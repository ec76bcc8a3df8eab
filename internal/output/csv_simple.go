package output

import (
	"bytes"
	"encoding/csv"
	"errors"
)

// ErrNoProjection is returned by formatters that need a projection result
var ErrNoProjection = errors.New("report has no projection result")

// CSVYearlyExporter writes one row per simulated year.
type CSVYearlyExporter struct{}

func (c CSVYearlyExporter) Name() string      { return "csv" }
func (c CSVYearlyExporter) Extension() string { return "csv" }

func (c CSVYearlyExporter) Format(report *Report) ([]byte, error) {
	if report == nil || report.Result == nil {
		return nil, ErrNoProjection
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Year", "CalendarYear", "Age1", "Age2", "Person1Alive", "Person2Alive", "IsRetired", "FilingStatus",
		"SocialSecurity", "Pension", "SurvivorPension", "OtherIncome", "Withdrawal", "RMD", "GrossIncome", "TaxableIncome",
		"FederalTax", "StateTax", "NetIncome", "Expenses", "Gifts", "Surplus",
		"RetirementBalance", "InvestmentBalance", "NetWorth", "LegacyOutflow"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for i := range report.Result.Years {
		y := &report.Result.Years[i]
		row := []string{
			intToString(y.Year),
			intToString(y.CalendarYear),
			intToString(y.Age1),
			intToString(y.Age2),
			boolToString(y.Person1Alive),
			boolToString(y.Person2Alive),
			boolToString(y.IsRetired),
			string(y.FilingStatus),
			y.TotalSocialSecurity().StringFixed(2),
			y.PensionIncome.StringFixed(2),
			y.SurvivorPension.StringFixed(2),
			y.OtherIncome.StringFixed(2),
			y.Withdrawal.StringFixed(2),
			y.RMD.StringFixed(2),
			y.GrossIncome.StringFixed(2),
			y.TaxableIncome.StringFixed(2),
			y.FederalTax.StringFixed(2),
			y.StateTax.StringFixed(2),
			y.NetIncome.StringFixed(2),
			y.Expenses.StringFixed(2),
			y.Gifts.StringFixed(2),
			y.Surplus.StringFixed(2),
			y.RetirementBalance.StringFixed(2),
			y.InvestmentBalance.StringFixed(2),
			y.NetWorth.StringFixed(2),
			y.LegacyOutflow.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
