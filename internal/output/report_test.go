package output_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	stddec "github.com/shopspring/decimal"

	"github.com/rpgo/networth-projector/internal/config"
	"github.com/rpgo/networth-projector/internal/domain"
	"github.com/rpgo/networth-projector/internal/output"
)

func TestFormatters(t *testing.T) {
	if got := output.FormatCurrency(stddec.NewFromFloat(123.45)); got != "$123.45" {
		t.Fatalf("FormatCurrency = %q", got)
	}
	if got := output.FormatPercentage(stddec.NewFromFloat(12.34)); got != "12.34%" {
		t.Fatalf("FormatPercentage = %q", got)
	}
}

func TestSavePlan_RoundTrip(t *testing.T) {
	parser := config.NewInputParser()
	plan := parser.CreateExamplePlan()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := output.SavePlan(plan, path); err != nil {
		t.Fatalf("SavePlan error: %v", err)
	}
	loaded, err := parser.LoadFromFile(path)
	if err != nil {
		t.Fatalf("reload saved plan: %v", err)
	}
	if loaded.Name != plan.Name || !loaded.LegacyAmount.Equal(plan.LegacyAmount) || len(loaded.RetirementAccounts) != len(plan.RetirementAccounts) {
		t.Fatalf("round trip lost data: %+v", loaded)
	}
}

func TestWritePlan(t *testing.T) {
	var buf bytes.Buffer
	if err := output.WritePlan(config.NewInputParser().CreateExamplePlan(), &buf); err != nil {
		t.Fatalf("WritePlan error: %v", err)
	}
	if !strings.Contains(buf.String(), "plan_type: couple") {
		t.Fatalf("expected yaml keys, got: %s", buf.String())
	}
}

func TestGenerateReport_JSON_CSV(t *testing.T) {
	report := &output.Report{Result: &domain.CalculationResult{
		PlanName: "Baseline",
		Years:    []domain.YearlyProjection{{Year: 0, CalendarYear: 2025, NetWorth: stddec.NewFromInt(10)}},
	}}

	var buf bytes.Buffer
	if err := output.GenerateReport(report, "json", &buf); err != nil {
		t.Fatalf("GenerateReport json error: %v", err)
	}
	buf.Reset()
	if err := output.GenerateReport(report, "csv", &buf); err != nil {
		t.Fatalf("GenerateReport csv error: %v", err)
	}
	if !strings.Contains(buf.String(), "0,2025,") {
		t.Fatalf("csv output missing year row: %s", buf.String())
	}
	if err := output.GenerateReport(report, "montecarlo-csv", &buf); !errors.Is(err, output.ErrNoMonteCarlo) {
		t.Fatalf("expected ErrNoMonteCarlo, got %v", err)
	}
}

func TestUnknownFormatErrorIncludesSuggestions(t *testing.T) {
	err := output.GenerateReport(&output.Report{}, "definitely-not-a-format", &bytes.Buffer{})
	if err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if !errors.Is(err, output.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "unsupported report format") || !strings.Contains(msg, "Try one of:") {
		t.Fatalf("error message missing suggestions: %s", msg)
	}
}

func TestGenerateAll_SkipsInapplicableFormatters(t *testing.T) {
	dir := t.TempDir()
	report := &output.Report{Result: &domain.CalculationResult{PlanName: "Baseline"}}
	files, err := output.GenerateAll(report, dir)
	if err != nil {
		t.Fatalf("GenerateAll error: %v", err)
	}
	if len(files) != 5 {
		t.Fatalf("expected every formatter except montecarlo-csv, got %v", files)
	}
	for _, f := range files {
		if strings.Contains(f, "montecarlo") {
			t.Fatalf("montecarlo-csv written without a summary: %s", f)
		}
	}
}

func TestMonteCarloCSVReport_GenerateAll(t *testing.T) {
	summary := &domain.MonteCarloSummary{
		RunID: "abc", Mode: "scalar", NumSimulations: 2, Completed: 2, SuccessRate: stddec.NewFromInt(50),
		Outcomes:     []stddec.Decimal{stddec.NewFromInt(0), stddec.NewFromInt(300000)},
		Percentiles:  []domain.PercentileBand{{Year: 0, P10: stddec.NewFromInt(1), P50: stddec.NewFromInt(2), P90: stddec.NewFromInt(3)}},
		RunoutByYear: []stddec.Decimal{stddec.NewFromFloat(0.5)},
	}
	dir := filepath.Join(t.TempDir(), "mc")
	rep := &output.MonteCarloCSVReport{Summary: summary}
	if err := rep.GenerateAllCSVReports(dir); err != nil {
		t.Fatalf("GenerateAllCSVReports error: %v", err)
	}
	expect := map[string]string{
		"monte_carlo_summary.csv":     "Success Rate,50.00%",
		"monte_carlo_percentiles.csv": "0,1.00,2.00,3.00,0.5000",
		"monte_carlo_outcomes.csv":    "1,300000.00",
	}
	for name, want := range expect {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if !strings.Contains(string(data), want) {
			t.Fatalf("%s missing %q:\n%s", name, want, data)
		}
	}
}
