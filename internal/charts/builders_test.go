package charts

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/mwiater/calview/internal/calibration"
)

func samplePerformance(t *testing.T) calibration.PerformanceTable {
	t.Helper()
	results := calibration.FinalResults{
		{Variable: "SSI", SourceDataset: calibration.SourceOfficial, Value: 100},
		{Variable: "SSI", SourceDataset: calibration.SourceCPS, Value: 90},
		{Variable: "SSI", SourceDataset: calibration.SourceCalibratedCPS, Value: 100},
		{Variable: "SSI", SourceDataset: calibration.SourceEnhancedCPS, Value: 99},
	}
	table, err := calibration.BuildPerformance(results, []string{"SSI"})
	if err != nil {
		t.Fatalf("BuildPerformance error: %v", err)
	}
	return table
}

func TestDeviationBar(t *testing.T) {
	fig := DeviationBar(samplePerformance(t))
	if fig.ID != DeviationBarID {
		t.Fatalf("unexpected id %s", fig.ID)
	}
	var names []string
	for _, tr := range fig.Data {
		names = append(names, tr.Name)
		if tr.Type != "bar" || tr.Orientation != "h" {
			t.Fatalf("expected horizontal bars, got %+v", tr)
		}
	}
	want := []string{calibration.SourceEnhancedCPS, calibration.SourceCalibratedCPS, calibration.SourceCPS}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("unexpected trace order %v", names)
	}
	if fig.Data[0].Marker.Color != Blue || fig.Data[1].Marker.Color != Gray || fig.Data[2].Marker.Color != DarkGray {
		t.Fatalf("unexpected colors: %+v", fig.Data)
	}

	calibrated := fig.Data[1]
	if x := calibrated.X.([]float64); x[0] != calibration.DeviationFloor {
		t.Fatalf("expected floored bar length, got %v", x)
	}
	if calibrated.Text[0] != "0.0%" {
		t.Fatalf("expected literal label 0.0%%, got %v", calibrated.Text)
	}

	l := fig.Layout
	if l.XAxis.TickFormat != ".0%" || !reflect.DeepEqual(l.XAxis.Range, []float64{0, 1}) {
		t.Fatalf("unexpected x axis: %+v", l.XAxis)
	}
	if l.Legend.TraceOrder != "reversed" || l.UniformText.MinSize != 12 || l.BarMode != "group" {
		t.Fatalf("unexpected layout: %+v", l)
	}
	if l.Title.Text != "Deviation from official values, by dataset" {
		t.Fatalf("unexpected title %q", l.Title.Text)
	}
}

func TestDeviationScatterHasNoColorOverrides(t *testing.T) {
	fig := DeviationScatter(samplePerformance(t))
	if len(fig.Data) != 3 {
		t.Fatalf("expected one trace per source, got %d", len(fig.Data))
	}
	for _, tr := range fig.Data {
		if tr.Marker != nil {
			t.Fatalf("scatter traces must use default colors: %+v", tr)
		}
		if tr.Mode != "markers" {
			t.Fatalf("expected markers, got %s", tr.Mode)
		}
	}
	if fig.Layout.Font != nil {
		t.Fatal("scatter view is not house styled")
	}
}

func TestLossLine(t *testing.T) {
	curve := calibration.LossCurve{
		Metric: "SSI",
		Series: []calibration.LossSeries{
			{SourceDataset: calibration.SourcePUFExtendedCPS, Epochs: []int{0, 1}, Values: []float64{1, 2}},
			{SourceDataset: calibration.SourceCPS, Epochs: []int{0, 1}, Values: []float64{1, 3}},
			{SourceDataset: calibration.SourceOfficial, Epochs: []int{0, 1}, Values: []float64{4, 4}},
		},
		Annotations: []calibration.LossAnnotation{
			{SourceDataset: calibration.SourcePUFExtendedCPS, Epoch: 1, Value: 2, Text: "2"},
			{SourceDataset: calibration.SourceCPS, Epoch: 1, Value: 3, Text: "3"},
			{SourceDataset: calibration.SourceOfficial, Epoch: 1, Value: 4, Text: "4"},
		},
	}
	fig := LossLine(curve)
	if fig.Layout.Title.Text != "SSI during reweighting, by source dataset" {
		t.Fatalf("unexpected title %q", fig.Layout.Title.Text)
	}
	if fig.Layout.YAxis.Title.Text != "Relative loss change" || fig.Layout.XAxis.Title.Text != "Epoch" {
		t.Fatalf("unexpected axis titles: %+v %+v", fig.Layout.XAxis, fig.Layout.YAxis)
	}
	if len(fig.Layout.Annotations) != 3 {
		t.Fatalf("expected 3 annotations, got %d", len(fig.Layout.Annotations))
	}
	a := fig.Layout.Annotations[2]
	if a.X != 1 || a.Y != 4 || a.AY != -20 || a.YShift != 10 || a.BGColor != "white" {
		t.Fatalf("unexpected annotation: %+v", a)
	}
	if fig.Data[0].Line.Color != Blue || fig.Data[2].Line.Color != DarkGray {
		t.Fatalf("unexpected line colors")
	}
}

func TestFinalValuesBarKeepsOrder(t *testing.T) {
	rows := calibration.FinalResults{
		{Variable: "SSI", SourceDataset: calibration.SourceCPS, Value: 90},
		{Variable: "SSI", SourceDataset: calibration.SourceOfficial, Value: 100},
	}
	fig := FinalValuesBar("SSI", rows)
	if len(fig.Data) != 2 || fig.Data[0].Name != calibration.SourceCPS {
		t.Fatalf("unexpected traces: %+v", fig.Data)
	}
	if fig.Data[1].Marker.Color != DarkGray {
		t.Fatalf("expected official bar in dark gray")
	}
	if !strings.HasPrefix(fig.Layout.Title.Text, "SSI after reweighting") {
		t.Fatalf("unexpected title %q", fig.Layout.Title.Text)
	}
}

func TestFigureJSON(t *testing.T) {
	data, err := json.Marshal(DeviationBar(samplePerformance(t)))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(data)
	for _, want := range []string{`"tickformat":".0%"`, `"traceorder":"reversed"`, `"minsize":12`, `"orientation":"h"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
}
