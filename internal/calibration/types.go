// internal/calibration/types.go
package calibration

// Dataset labels used across the training logs and the final-results table.
const (
	SourceOfficial       = "Official"
	SourceCalibratedCPS  = "Calibrated CPS"
	SourceEnhancedCPS    = "Enhanced CPS"
	SourceCPS            = "CPS"
	SourcePUFExtendedCPS = "PUF-extended CPS"
)

// TrainingLogRow is one recorded step of the upstream reweighting run for a single metric.
type TrainingLogRow struct {
	Name          string  `json:"name"`
	Epoch         int     `json:"epoch"`
	Value         float64 `json:"value"`
	Target        float64 `json:"target"`
	SourceDataset string  `json:"source_dataset"`
}

// TrainingLog is the union of every training-log source, in load order.
type TrainingLog []TrainingLogRow

// FinalResultRow holds the final value of one variable for one dataset.
type FinalResultRow struct {
	Variable      string  `json:"variable"`
	SourceDataset string  `json:"source_dataset"`
	Value         float64 `json:"value"`
}

// FinalResults is the final-results table.
type FinalResults []FinalResultRow

// PerformanceRow compares one dataset against the Official value of a metric.
// Deviation is the raw relative error; DisplayDeviation is floored so that
// zero-length bars stay visible.
type PerformanceRow struct {
	Metric           string  `json:"metric"`
	SourceDataset    string  `json:"source_dataset"`
	Value            float64 `json:"value"`
	Official         float64 `json:"official"`
	Deviation        float64 `json:"deviation"`
	DisplayDeviation float64 `json:"display_deviation"`
	DeviationText    string  `json:"deviation_text"`
}

// PerformanceTable is the flat comparison table behind the deviation charts.
type PerformanceTable []PerformanceRow

// Dataset bundles everything one render needs.
type Dataset struct {
	TrainingLog  TrainingLog
	FinalResults FinalResults
}
