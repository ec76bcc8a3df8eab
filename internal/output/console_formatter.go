package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rpgo/networth-projector/internal/domain"
)

// ConsoleFormatter provides a concise console summary with a yearly net worth table.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string      { return "console" }
func (c ConsoleFormatter) Extension() string { return "txt" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	if report == nil {
		return buf.Bytes(), nil
	}
	if r := report.Result; r != nil {
		writeResultSummary(&buf, r)
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "%-6s %-9s %14s %14s %14s %16s\n", "Year", "Ages", "Net Income", "Expenses", "Withdrawal", "Net Worth")
		fmt.Fprintln(&buf, strings.Repeat("-", 78))
		for i := range r.Years {
			y := &r.Years[i]
			marker := ""
			if y.HasShortfall() {
				marker = " *"
			}
			fmt.Fprintf(&buf, "%-6d %-9s %14s %14s %14s %16s%s\n",
				y.CalendarYear, ages(y), FormatWholeCurrency(y.NetIncome), FormatWholeCurrency(y.Expenses),
				FormatWholeCurrency(y.Withdrawal), FormatWholeCurrency(y.NetWorth), marker)
		}
		if r.ShortfallYears > 0 {
			fmt.Fprintln(&buf, "* net income below expenses")
		}
	}
	if mc := report.MonteCarlo; mc != nil {
		if report.Result != nil {
			fmt.Fprintln(&buf)
		}
		writeMonteCarloSummary(&buf, mc)
	}
	return buf.Bytes(), nil
}

func writeResultSummary(buf *bytes.Buffer, r *domain.CalculationResult) {
	fmt.Fprintln(buf, "NET WORTH PROJECTION SUMMARY")
	fmt.Fprintln(buf, "================================")
	if r.PlanName != "" {
		fmt.Fprintf(buf, "Plan: %s\n", r.PlanName)
	}
	fmt.Fprintf(buf, "Years in retirement:        %d\n", r.YearsInRetirement)
	fmt.Fprintf(buf, "Avg monthly net income:     %s (%s today)\n", FormatCurrency(r.AvgMonthlyNetIncome), FormatCurrency(r.AvgMonthlyNetIncomeToday))
	fmt.Fprintf(buf, "Final net worth:            %s (%s today)\n", FormatCurrency(r.FinalNetWorth), FormatCurrency(r.FinalNetWorthToday))
	fmt.Fprintf(buf, "Effective tax rates:        federal %s, state %s\n", FormatPercentage(r.EffectiveFederalRatePct), FormatPercentage(r.EffectiveStateRatePct))
	fmt.Fprintf(buf, "Shortfall years:            %d\n", r.ShortfallYears)
	if r.BisectionSteps > 0 {
		fmt.Fprintf(buf, "Withdrawal scale:           %s (%d bisection steps)\n", r.WithdrawalScale.StringFixed(4), r.BisectionSteps)
	}
	if r.Legacy.Target.IsPositive() || len(r.Legacy.Distributions) > 0 {
		status := "met"
		if !r.Legacy.TargetMet {
			status = "missed"
		}
		fmt.Fprintf(buf, "Legacy:                     estate %s, target %s (%s)\n", FormatCurrency(r.Legacy.EstateBefore), FormatCurrency(r.Legacy.Target), status)
		for _, d := range r.Legacy.Distributions {
			fmt.Fprintf(buf, "  %s: %s (%s)\n", d.Beneficiary, FormatCurrency(d.Amount), FormatPercentage(d.Percentage))
		}
	}
}

func writeMonteCarloSummary(buf *bytes.Buffer, mc *domain.MonteCarloSummary) {
	fmt.Fprintln(buf, "MONTE CARLO SUMMARY")
	fmt.Fprintln(buf, "================================")
	fmt.Fprintf(buf, "Run: %s (%s)\n", mc.RunID, mc.Mode)
	fmt.Fprintf(buf, "Trials: %d of %d completed, %d failed\n", mc.Completed, mc.NumSimulations, mc.FailedTrials)
	if mc.Cancelled {
		fmt.Fprintln(buf, "Run was cancelled before all trials finished")
	}
	fmt.Fprintf(buf, "Success rate: %s\n", FormatPercentage(mc.SuccessRate))
	if n := len(mc.Percentiles); n > 0 {
		last := mc.Percentiles[n-1]
		fmt.Fprintf(buf, "Final-year net worth: p10 %s, p50 %s, p90 %s\n",
			FormatWholeCurrency(last.P10), FormatWholeCurrency(last.P50), FormatWholeCurrency(last.P90))
	}
}

func ages(y *domain.YearlyProjection) string {
	if y.Age2 == 0 {
		return intToString(y.Age1)
	}
	return intToString(y.Age1) + "/" + intToString(y.Age2)
}
