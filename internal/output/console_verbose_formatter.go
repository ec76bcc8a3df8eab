package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rpgo/networth-projector/internal/domain"
)

// ConsoleVerboseFormatter renders the assumptions and a full per-year breakdown.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string      { return "console-verbose" }
func (c ConsoleVerboseFormatter) Extension() string { return "txt" }

func (c ConsoleVerboseFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 81))
	fmt.Fprintln(&buf, "DETAILED HOUSEHOLD NET WORTH PROJECTION")
	fmt.Fprintln(&buf, strings.Repeat("=", 81))
	fmt.Fprintln(&buf)
	if report == nil {
		return buf.Bytes(), nil
	}

	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range GenerateAssumptions(report.Plan) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	if r := report.Result; r != nil {
		writeResultSummary(&buf, r)
		fmt.Fprintln(&buf)
		for i := range r.Years {
			writeYearDetail(&buf, &r.Years[i])
		}
	}
	if report.MonteCarlo != nil {
		writeMonteCarloSummary(&buf, report.MonteCarlo)
	}
	return buf.Bytes(), nil
}

func writeYearDetail(buf *bytes.Buffer, y *domain.YearlyProjection) {
	fmt.Fprintf(buf, "YEAR %d (%d), ages %s, filing %s\n", y.Year, y.CalendarYear, ages(y), y.FilingStatus)
	fmt.Fprintln(buf, strings.Repeat("-", 50))
	if !y.Person1Alive || (y.Age2 != 0 && !y.Person2Alive) {
		fmt.Fprintf(buf, "  Alive:            person1=%t person2=%t\n", y.Person1Alive, y.Person2Alive)
	}
	fmt.Fprintf(buf, "  Social Security:  %s\n", FormatCurrency(y.TotalSocialSecurity()))
	fmt.Fprintf(buf, "  Pensions:         %s", FormatCurrency(y.PensionIncome))
	if y.SurvivorPension.IsPositive() {
		fmt.Fprintf(buf, " (survivor %s)", FormatCurrency(y.SurvivorPension))
	}
	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "  Other income:     %s\n", FormatCurrency(y.OtherIncome))
	fmt.Fprintf(buf, "  Withdrawal:       %s (RMD %s, %d gross-up passes)\n", FormatCurrency(y.Withdrawal), FormatCurrency(y.RMD), y.GrossUpIterations)
	fmt.Fprintf(buf, "  Gross income:     %s (taxable %s)\n", FormatCurrency(y.GrossIncome), FormatCurrency(y.TaxableIncome))
	fmt.Fprintf(buf, "  Taxes:            federal %s, state %s\n", FormatCurrency(y.FederalTax), FormatCurrency(y.StateTax))
	fmt.Fprintf(buf, "  Net income:       %s\n", FormatCurrency(y.NetIncome))
	fmt.Fprintf(buf, "  Expenses:         %s\n", FormatCurrency(y.Expenses))
	if y.Gifts.IsPositive() {
		fmt.Fprintf(buf, "  Gifts:            %s\n", FormatCurrency(y.Gifts))
	}
	if y.Surplus.IsPositive() {
		fmt.Fprintf(buf, "  Surplus:          %s\n", FormatCurrency(y.Surplus))
	}
	for _, a := range y.Accounts {
		fmt.Fprintf(buf, "    %-28s %-10s %-8s %16s\n", a.Name, a.Kind, a.Owner, FormatCurrency(a.Balance))
	}
	fmt.Fprintf(buf, "  Net worth:        %s\n", FormatCurrency(y.NetWorth))
	if y.LegacyOutflow.IsPositive() {
		fmt.Fprintf(buf, "  Legacy outflow:   %s\n", FormatCurrency(y.LegacyOutflow))
		for _, d := range y.LegacyDistributions {
			fmt.Fprintf(buf, "    %s: %s\n", d.Beneficiary, FormatCurrency(d.Amount))
		}
	}
	fmt.Fprintln(buf)
}
