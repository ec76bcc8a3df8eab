package output

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rpgo/networth-projector/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrNoMonteCarlo is returned by formatters that need a Monte Carlo summary
var ErrNoMonteCarlo = errors.New("report has no monte carlo summary")

// MonteCarloCSVFormatter writes the per-year percentile bands and runout probability.
type MonteCarloCSVFormatter struct{}

func (m MonteCarloCSVFormatter) Name() string      { return "montecarlo-csv" }
func (m MonteCarloCSVFormatter) Extension() string { return "csv" }

func (m MonteCarloCSVFormatter) Format(report *Report) ([]byte, error) {
	if report == nil || report.MonteCarlo == nil {
		return nil, ErrNoMonteCarlo
	}
	buf := &bytes.Buffer{}
	if err := writePercentiles(buf, report.MonteCarlo); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MonteCarloCSVReport generates CSV exports for a Monte Carlo run
type MonteCarloCSVReport struct {
	Summary *domain.MonteCarloSummary
}

// GenerateSummaryCSV creates a summary CSV with aggregate statistics
func (m *MonteCarloCSVReport) GenerateSummaryCSV(outputPath string) error {
	return writeFile(outputPath, m.writeSummary)
}

// GeneratePercentileCSV creates a CSV with the per-year net worth bands
func (m *MonteCarloCSVReport) GeneratePercentileCSV(outputPath string) error {
	return writeFile(outputPath, func(w io.Writer) error { return writePercentiles(w, m.Summary) })
}

// GenerateOutcomesCSV creates a CSV with the terminal estate of every completed trial
func (m *MonteCarloCSVReport) GenerateOutcomesCSV(outputPath string) error {
	return writeFile(outputPath, m.writeOutcomes)
}

// GenerateAllCSVReports creates all CSV reports in a single directory
func (m *MonteCarloCSVReport) GenerateAllCSVReports(outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := m.GenerateSummaryCSV(filepath.Join(outputDir, "monte_carlo_summary.csv")); err != nil {
		return fmt.Errorf("failed to generate summary CSV: %w", err)
	}
	if err := m.GeneratePercentileCSV(filepath.Join(outputDir, "monte_carlo_percentiles.csv")); err != nil {
		return fmt.Errorf("failed to generate percentile CSV: %w", err)
	}
	if err := m.GenerateOutcomesCSV(filepath.Join(outputDir, "monte_carlo_outcomes.csv")); err != nil {
		return fmt.Errorf("failed to generate outcomes CSV: %w", err)
	}
	return nil
}

func (m *MonteCarloCSVReport) writeSummary(out io.Writer) error {
	s := m.Summary
	writer := csv.NewWriter(out)
	if err := writer.Write([]string{"Metric", "Value", "Description"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	rows := [][]string{
		{"Run ID", s.RunID, "Identifier of this Monte Carlo run"},
		{"Mode", s.Mode, "How market paths were drawn"},
		{"Number of Simulations", strconv.Itoa(s.NumSimulations), "Trials requested"},
		{"Completed", strconv.Itoa(s.Completed), "Trials that produced a result"},
		{"Failed Trials", strconv.Itoa(s.FailedTrials), "Trials that errored and were excluded"},
		{"Cancelled", strconv.FormatBool(s.Cancelled), "Whether the run stopped early"},
		{"Success Rate", FormatPercentage(s.SuccessRate), "Completed trials whose terminal estate met the legacy target"},
	}
	if n := len(s.Percentiles); n > 0 {
		last := s.Percentiles[n-1]
		rows = append(rows,
			[]string{"Final P10 Net Worth", "$" + last.P10.StringFixed(0), "10th percentile of final-year net worth"},
			[]string{"Final Median Net Worth", "$" + last.P50.StringFixed(0), "Median final-year net worth"},
			[]string{"Final P90 Net Worth", "$" + last.P90.StringFixed(0), "90th percentile of final-year net worth"},
		)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write data row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func (m *MonteCarloCSVReport) writeOutcomes(out io.Writer) error {
	writer := csv.NewWriter(out)
	if err := writer.Write([]string{"Trial", "TerminalEstate"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, v := range m.Summary.Outcomes {
		if err := writer.Write([]string{strconv.Itoa(i), v.StringFixed(2)}); err != nil {
			return fmt.Errorf("failed to write outcome row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func writePercentiles(out io.Writer, s *domain.MonteCarloSummary) error {
	writer := csv.NewWriter(out)
	if err := writer.Write([]string{"Year", "P10", "P50", "P90", "RunoutProbability"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, band := range s.Percentiles {
		runout := decimal.Zero
		if i < len(s.RunoutByYear) {
			runout = s.RunoutByYear[i]
		}
		row := []string{
			strconv.Itoa(band.Year),
			band.P10.StringFixed(2),
			band.P50.StringFixed(2),
			band.P90.StringFixed(2),
			runout.StringFixed(4),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write percentile row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()
	return write(file)
}
