package staticchart

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwiater/calview/internal/calibration"
)

func sampleInput(t *testing.T) Input {
	t.Helper()
	results := calibration.FinalResults{
		{Variable: "SSI", SourceDataset: calibration.SourceOfficial, Value: 100},
		{Variable: "SSI", SourceDataset: calibration.SourceCPS, Value: 90},
		{Variable: "SSI", SourceDataset: calibration.SourceCalibratedCPS, Value: 95},
		{Variable: "SSI", SourceDataset: calibration.SourceEnhancedCPS, Value: 99},
	}
	perf, err := calibration.BuildPerformance(results, []string{"SSI"})
	if err != nil {
		t.Fatalf("BuildPerformance error: %v", err)
	}
	log := calibration.WithOfficialSeries(calibration.TrainingLog{
		{Name: "SSI", Epoch: 0, Value: 80, Target: 100, SourceDataset: calibration.SourcePUFExtendedCPS},
		{Name: "SSI", Epoch: 1, Value: 95, Target: 100, SourceDataset: calibration.SourcePUFExtendedCPS},
		{Name: "SSI", Epoch: 0, Value: 70, Target: 100, SourceDataset: calibration.SourceCPS},
		{Name: "SSI", Epoch: 1, Value: 90, Target: 100, SourceDataset: calibration.SourceCPS},
	})
	loss, err := calibration.LossCurveFor(log, "SSI")
	if err != nil {
		t.Fatalf("LossCurveFor error: %v", err)
	}
	return Input{
		Performance: perf,
		Loss:        loss,
		Focus:       "SSI",
		FinalValues: calibration.FinalValuesFor(results, "SSI"),
	}
}

func TestRenderersProduceSVG(t *testing.T) {
	in := sampleInput(t)
	renderers := map[string]func(*bytes.Buffer) error{
		"deviation bars":    func(b *bytes.Buffer) error { return DeviationBars(b, in.Performance) },
		"deviation scatter": func(b *bytes.Buffer) error { return DeviationScatter(b, in.Performance) },
		"loss lines":        func(b *bytes.Buffer) error { return LossLines(b, in.Loss) },
		"final values":      func(b *bytes.Buffer) error { return FinalValueBars(b, in.Focus, in.FinalValues) },
	}
	for name, render := range renderers {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := render(&buf); err != nil {
				t.Fatalf("render error: %v", err)
			}
			if !strings.Contains(buf.String(), "<svg") {
				t.Fatalf("expected SVG output, got %q", buf.String())
			}
		})
	}
}

func TestWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	paths, err := WriteAll(dir, sampleInput(t))
	if err != nil {
		t.Fatalf("WriteAll error: %v", err)
	}
	if len(paths) != 4 {
		t.Fatalf("expected 4 files, got %v", paths)
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("stat %s: %v", p, err)
		}
		if info.Size() == 0 {
			t.Fatalf("%s is empty", p)
		}
	}
	if filepath.Base(paths[2]) != "loss_ssi.svg" {
		t.Fatalf("unexpected loss chart name %s", paths[2])
	}
}

func TestFinalValueBarsRequiresRows(t *testing.T) {
	var buf bytes.Buffer
	if err := FinalValueBars(&buf, "SSI", nil); err == nil {
		t.Fatal("expected error for empty rows")
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"employment income aggregate": "employment_income_aggregate",
		"SSI":                         "ssi",
		"  a/b  c ":                   "a_b_c",
		"":                            "metric",
	}
	for in, want := range tests {
		if got := slugify(in); got != want {
			t.Fatalf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPaddedRange(t *testing.T) {
	r := paddedRange(5, 5)
	if r.Min != 4 || r.Max != 6 {
		t.Fatalf("unexpected range for a single value: %+v", r)
	}
	r = paddedRange(0, 100)
	if r.Min != -5 || r.Max != 105 {
		t.Fatalf("unexpected padded range: %+v", r)
	}
}
