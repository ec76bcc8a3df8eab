package output

import (
	"fmt"
	"io"
	"os"

	"github.com/rpgo/networth-projector/internal/domain"
	"gopkg.in/yaml.v3"
)

// GenerateReport renders the report in the named format and writes it to w.
func GenerateReport(report *Report, format string, w io.Writer) error {
	f, err := Lookup(format)
	if err != nil {
		return err
	}
	data, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("format %s: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

// GenerateAll writes every formatter whose required data is present into dir
// and returns the created file names.
func GenerateAll(report *Report, dir string) ([]string, error) {
	var files []string
	for _, f := range builtInFormatters {
		if !applicable(f, report) {
			continue
		}
		name, err := WriteFormatted(f, report, dir)
		if err != nil {
			return files, fmt.Errorf("write %s: %w", f.Name(), err)
		}
		files = append(files, name)
	}
	return files, nil
}

func applicable(f Formatter, report *Report) bool {
	switch f.(type) {
	case CSVYearlyExporter, CSVDetailedExporter:
		return report.Result != nil
	case MonteCarloCSVFormatter:
		return report.MonteCarlo != nil
	default:
		return true
	}
}

// SavePlan writes the plan as YAML
func SavePlan(plan *domain.Plan, filename string) error {
	b, err := yaml.Marshal(plan)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0644)
}

// WritePlan encodes the plan as YAML to w
func WritePlan(plan *domain.Plan, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(plan); err != nil {
		return err
	}
	return enc.Close()
}
