// internal/calibration/selector.go
package calibration

import "strings"

// DefaultMetrics is shown when nothing is selected.
var DefaultMetrics = []string{"employment income aggregate", "federal income tax", "SSI"}

// AvailableMetrics lists the distinct training-log metric names in order of
// first appearance, leaving out population counts.
func AvailableMetrics(log TrainingLog) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, row := range log {
		if _, ok := seen[row.Name]; ok {
			continue
		}
		seen[row.Name] = struct{}{}
		if strings.Contains(row.Name, "population") {
			continue
		}
		names = append(names, row.Name)
	}
	return names
}

// ResolveSelection returns selected unchanged, or the fallback set when the
// selection is empty. An empty fallback means DefaultMetrics.
func ResolveSelection(selected, fallback []string) []string {
	if len(selected) > 0 {
		return append([]string(nil), selected...)
	}
	if len(fallback) > 0 {
		return append([]string(nil), fallback...)
	}
	return append([]string(nil), DefaultMetrics...)
}

// FocusMetric is the metric the loss and final-value charts describe: the last
// one of the resolved selection.
func FocusMetric(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return names[len(names)-1]
}
