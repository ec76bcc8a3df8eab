package output

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rpgo/networth-projector/internal/domain"
)

// ErrUnsupportedFormat is returned when no formatter matches a requested name
var ErrUnsupportedFormat = errors.New("unsupported report format")

// Report bundles what a formatter can render. Result and MonteCarlo are both
// optional; formatters skip sections whose data is missing.
type Report struct {
	Plan       *domain.Plan              `json:"plan,omitempty"`
	Result     *domain.CalculationResult `json:"result,omitempty"`
	MonteCarlo *domain.MonteCarloSummary `json:"monte_carlo,omitempty"`
}

// Formatter defines a pluggable output formatter that returns a byte slice.
// Implementations should be pure (no side effects besides deterministic formatting).
type Formatter interface {
	Format(report *Report) ([]byte, error)
	// Name returns a short identifier for logging / debugging.
	Name() string
	// Extension is the file extension used when the output is written to disk.
	Extension() string
}

// FormatterFunc adapter to allow ordinary functions to act as a Formatter.
type FormatterFunc struct {
	ID  string
	Ext string
	F   func(*Report) ([]byte, error)
}

func (ff FormatterFunc) Format(r *Report) ([]byte, error) { return ff.F(r) }
func (ff FormatterFunc) Name() string                     { return ff.ID }
func (ff FormatterFunc) Extension() string                { return ff.Ext }

// WriteFormatted runs a formatter and writes output to a timestamped file in dir.
func WriteFormatted(f Formatter, report *Report, dir string) (string, error) {
	data, err := f.Format(report)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("networth_report_%s_%s.%s", f.Name(), time.Now().Format("20060102_150405"), f.Extension())
	if dir != "" {
		filename = dir + string(os.PathSeparator) + filename
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", err
	}
	return filename, nil
}

// builtInFormatters stores available formatters.
var builtInFormatters = []Formatter{
	ConsoleFormatter{},
	ConsoleVerboseFormatter{},
	CSVYearlyExporter{},
	CSVDetailedExporter{},
	JSONFormatter{},
	MonteCarloCSVFormatter{},
}

// GetFormatterByName fetches a registered formatter.
func GetFormatterByName(name string) Formatter {
	n := NormalizeFormatName(name)
	for _, f := range builtInFormatters {
		if f.Name() == n {
			return f
		}
	}
	return nil
}

// aliasMap provides user-friendly synonyms for format names.
var aliasMap = map[string]string{
	"text":         "console",
	"table":        "console",
	"verbose":      "console-verbose",
	"csv-yearly":   "csv",
	"csv-detailed": "detailed-csv",
	"accounts-csv": "detailed-csv",
	"json-pretty":  "json",
	"mc-csv":       "montecarlo-csv",
}

// NormalizeFormatName lowers and resolves aliases.
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if mapped, ok := aliasMap[n]; ok {
		return mapped
	}
	return n
}

// AvailableFormatterNames returns the canonical formatter names.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(builtInFormatters))
	for _, f := range builtInFormatters {
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases returns the supported alias keys.
func AvailableFormatAliases() []string {
	keys := make([]string, 0, len(aliasMap))
	for k := range aliasMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup resolves a format name or returns an error listing the alternatives
func Lookup(format string) (Formatter, error) {
	if f := GetFormatterByName(format); f != nil {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format,
		strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
}
