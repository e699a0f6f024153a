// internal/calibration/number.go
package calibration

import (
	"encoding/json"
	"math"
)

// Missing reports whether v is NaN or infinite.
func Missing(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// Number is a float64 that encodes as JSON null when it is NaN or infinite.
// Empty cells load as NaN, and Plotly draws a null as a gap.
type Number float64

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	if Missing(float64(n)) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(n))
}

// Numbers is a float64 slice whose elements encode like Number.
type Numbers []float64

// MarshalJSON implements json.Marshaler.
func (s Numbers) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	out := make([]Number, len(s))
	for i, v := range s {
		out[i] = Number(v)
	}
	return json.Marshal(out)
}

// MarshalJSON encodes the row with a nullable value.
func (r FinalResultRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Variable      string `json:"variable"`
		SourceDataset string `json:"source_dataset"`
		Value         Number `json:"value"`
	}{r.Variable, r.SourceDataset, Number(r.Value)})
}
