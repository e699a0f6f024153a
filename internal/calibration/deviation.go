// internal/calibration/deviation.go
package calibration

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"unicode"
	"unicode/utf8"
)

// DeviationFloor keeps zero-deviation bars visible on the chart.
const DeviationFloor = 0.0049

var (
	// ErrValueNotFound is returned when a metric has no final result for a dataset.
	ErrValueNotFound = errors.New("final result not found")
	// ErrUndefinedDeviation marks a deviation that is not a finite number,
	// typically because the Official value is zero.
	ErrUndefinedDeviation = errors.New("deviation is undefined")
)

// comparedSources are the datasets measured against Official, in insertion order.
var comparedSources = []string{SourceCPS, SourceCalibratedCPS, SourceEnhancedCPS}

// Lookup returns the value of the first row matching variable and source.
func (f FinalResults) Lookup(variable, source string) (float64, error) {
	for _, row := range f {
		if row.Variable == variable && row.SourceDataset == source {
			return row.Value, nil
		}
	}
	return 0, fmt.Errorf("%w: variable %q, source dataset %q", ErrValueNotFound, variable, source)
}

// Deviation is the absolute error of value relative to official. A zero
// official value yields +Inf (or NaN when value is zero too).
func Deviation(value, official float64) float64 {
	return math.Abs((value - official) / official)
}

// BuildPerformance compares CPS, Calibrated CPS and Enhanced CPS against the
// Official value of every metric. Rows are ordered by source dataset label,
// descending; metric names are capitalised for display.
func BuildPerformance(results FinalResults, metrics []string) (PerformanceTable, error) {
	table := make(PerformanceTable, 0, len(metrics)*len(comparedSources))
	for _, name := range metrics {
		official, err := results.Lookup(name, SourceOfficial)
		if err != nil {
			return nil, err
		}
		values := make(map[string]float64, len(comparedSources))
		for _, source := range []string{SourceCalibratedCPS, SourceEnhancedCPS, SourceCPS} {
			v, err := results.Lookup(name, source)
			if err != nil {
				return nil, err
			}
			values[source] = v
		}
		for _, source := range comparedSources {
			table = append(table, PerformanceRow{
				Metric:        name,
				SourceDataset: source,
				Value:         values[source],
				Official:      official,
				Deviation:     Deviation(values[source], official),
			})
		}
	}

	sort.SliceStable(table, func(i, j int) bool {
		return table[i].SourceDataset > table[j].SourceDataset
	})

	for i := range table {
		table[i].DeviationText = FormatPercent(table[i].Deviation)
		table[i].DisplayDeviation = math.Max(table[i].Deviation, DeviationFloor)
		table[i].Metric = Capitalize(table[i].Metric)
	}
	return table, nil
}

// CheckFinite reports the first row whose deviation is infinite or NaN,
// naming the input that caused it.
func (t PerformanceTable) CheckFinite() error {
	for _, row := range t {
		if !Missing(row.Deviation) {
			continue
		}
		err := fmt.Errorf("%w: %s for %s is %v", ErrUndefinedDeviation, row.Metric, row.SourceDataset, row.Deviation)
		if cause := undefinedCause(row); cause != "" {
			err = fmt.Errorf("%w (%s)", err, cause)
		}
		return err
	}
	return nil
}

func undefinedCause(row PerformanceRow) string {
	switch {
	case Missing(row.Official):
		return "official value is missing"
	case Missing(row.Value):
		return fmt.Sprintf("%s value is missing", row.SourceDataset)
	case row.Official == 0:
		return "official value is zero"
	}
	return ""
}

// Sources returns the distinct source datasets in first-appearance order.
func (t PerformanceTable) Sources() []string {
	var out []string
	seen := make(map[string]struct{})
	for _, row := range t {
		if _, ok := seen[row.SourceDataset]; ok {
			continue
		}
		seen[row.SourceDataset] = struct{}{}
		out = append(out, row.SourceDataset)
	}
	return out
}

// ForSource returns the rows of one source dataset, keeping their order.
func (t PerformanceTable) ForSource(source string) PerformanceTable {
	var out PerformanceTable
	for _, row := range t {
		if row.SourceDataset == source {
			out = append(out, row)
		}
	}
	return out
}

// Capitalize upper-cases the first character of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// FormatPercent renders a ratio as a percentage with one decimal, e.g. 0.1 -> "10.0%".
func FormatPercent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}
