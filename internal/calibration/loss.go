// internal/calibration/loss.go
package calibration

import (
	"fmt"
	"math"
	"sort"

	"github.com/dustin/go-humanize"
)

// lossAnnotationOrder is the order in which final-value annotations are placed.
var lossAnnotationOrder = []string{SourcePUFExtendedCPS, SourceCPS, SourceOfficial}

// LossSeries is the training trajectory of one metric for one source dataset.
type LossSeries struct {
	SourceDataset string  `json:"source_dataset"`
	Epochs        []int   `json:"epochs"`
	Values        Numbers `json:"values"`
}

// LossAnnotation marks the final value of a series at the last epoch.
type LossAnnotation struct {
	SourceDataset string `json:"source_dataset"`
	Epoch         int    `json:"epoch"`
	Value         Number `json:"value"`
	Text          string `json:"text"`
}

// LossCurve holds everything the training-loss chart shows for one metric.
type LossCurve struct {
	Metric      string           `json:"metric"`
	Series      []LossSeries     `json:"series"`
	Annotations []LossAnnotation `json:"annotations"`
}

// ForMetric returns the rows recorded for name, in load order.
func (l TrainingLog) ForMetric(name string) TrainingLog {
	var out TrainingLog
	for _, row := range l {
		if row.Name == name {
			out = append(out, row)
		}
	}
	return out
}

// LossCurveFor groups the rows of metric by source dataset and annotates the
// last value of each source at the metric's highest epoch. Every source of the
// annotation order must have at least one row.
func LossCurveFor(log TrainingLog, metric string) (LossCurve, error) {
	rows := log.ForMetric(metric)
	curve := LossCurve{Metric: metric}

	index := make(map[string]int)
	maxEpoch := math.MinInt
	for _, row := range rows {
		i, ok := index[row.SourceDataset]
		if !ok {
			i = len(curve.Series)
			index[row.SourceDataset] = i
			curve.Series = append(curve.Series, LossSeries{SourceDataset: row.SourceDataset})
		}
		curve.Series[i].Epochs = append(curve.Series[i].Epochs, row.Epoch)
		curve.Series[i].Values = append(curve.Series[i].Values, row.Value)
		if row.Epoch > maxEpoch {
			maxEpoch = row.Epoch
		}
	}

	for _, source := range lossAnnotationOrder {
		i, ok := index[source]
		if !ok {
			return LossCurve{}, fmt.Errorf("no training log rows for metric %q in source dataset %q", metric, source)
		}
		values := curve.Series[i].Values
		final := values[len(values)-1]
		curve.Annotations = append(curve.Annotations, LossAnnotation{
			SourceDataset: source,
			Epoch:         maxEpoch,
			Value:         Number(final),
			Text:          FormatWhole(final),
		})
	}
	return curve, nil
}

// FinalValuesFor returns the final results of one variable, sorted ascending by value.
func FinalValuesFor(results FinalResults, variable string) FinalResults {
	var out FinalResults
	for _, row := range results {
		if row.Variable == variable {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

// FormatWhole rounds v to an integer and groups thousands, e.g. 1234567.8 -> "1,234,568".
func FormatWhole(v float64) string {
	if Missing(v) {
		return fmt.Sprintf("%v", v)
	}
	return humanize.Comma(int64(math.Round(v)))
}
