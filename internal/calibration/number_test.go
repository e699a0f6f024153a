package calibration

import (
	"encoding/json"
	"math"
	"testing"
)

func TestNumbersEncodeMissingAsNull(t *testing.T) {
	data, err := json.Marshal(Numbers{1.5, math.NaN(), math.Inf(1), math.Inf(-1), 2})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got := string(data); got != "[1.5,null,null,null,2]" {
		t.Fatalf("unexpected encoding %s", got)
	}

	data, err = json.Marshal(Numbers(nil))
	if err != nil || string(data) != "null" {
		t.Fatalf("expected null for a nil slice, got %s (%v)", data, err)
	}
}

func TestLossCurveWithEmptyCellEncodes(t *testing.T) {
	log := WithOfficialSeries(TrainingLog{
		{Name: "SSI", Epoch: 0, Value: 80, Target: 100, SourceDataset: SourcePUFExtendedCPS},
		{Name: "SSI", Epoch: 1, Value: math.NaN(), Target: 100, SourceDataset: SourcePUFExtendedCPS},
		{Name: "SSI", Epoch: 0, Value: 70, Target: 100, SourceDataset: SourceCPS},
		{Name: "SSI", Epoch: 1, Value: 90, Target: 100, SourceDataset: SourceCPS},
	})
	curve, err := LossCurveFor(log, "SSI")
	if err != nil {
		t.Fatalf("LossCurveFor error: %v", err)
	}
	data, err := json.Marshal(curve)
	if err != nil {
		t.Fatalf("marshal loss curve: %v", err)
	}
	var decoded struct {
		Series []struct {
			Values []*float64 `json:"values"`
		} `json:"series"`
		Annotations []struct {
			Value *float64 `json:"value"`
		} `json:"annotations"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v := decoded.Series[0].Values; len(v) != 2 || v[0] == nil || *v[0] != 80 || v[1] != nil {
		t.Fatalf("expected [80,null] for the PUF series, got %s", data)
	}
	if decoded.Annotations[0].Value != nil {
		t.Fatalf("expected a null final value annotation, got %s", data)
	}
}

func TestFinalResultRowEncodesMissingValue(t *testing.T) {
	data, err := json.Marshal(FinalResults{{Variable: "SSI", SourceDataset: SourceCPS, Value: math.NaN()}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `[{"variable":"SSI","source_dataset":"CPS","value":null}]`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}
}
