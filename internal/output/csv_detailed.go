package output

import (
	"bytes"
	"encoding/csv"
)

// CSVDetailedExporter writes the end-of-year balance of every account, one row per account and year.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string      { return "detailed-csv" }
func (c CSVDetailedExporter) Extension() string { return "csv" }

func (c CSVDetailedExporter) Format(report *Report) ([]byte, error) {
	if report == nil || report.Result == nil {
		return nil, ErrNoProjection
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Year", "CalendarYear", "Account", "Kind", "Owner", "Balance"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, yr := range report.Result.Years {
		for _, a := range yr.Accounts {
			row := []string{
				intToString(yr.Year),
				intToString(yr.CalendarYear),
				a.Name,
				string(a.Kind),
				string(a.Owner),
				a.Balance.StringFixed(2),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
