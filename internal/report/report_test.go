package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mwiater/calview/internal/calibration"
)

const (
	fixtureTrainingLog = `name,epoch,value,target
SSI,0,80,100
federal income tax,0,900,1000
population under 5,0,19,20
SSI,1,95,100
federal income tax,1,990,1000
`
	fixtureTrainingLogCPS = `name,epoch,value,target
SSI,0,70,100
federal income tax,0,850,1000
SSI,1,90,100
federal income tax,1,940,1000
`
	fixtureFinalResults = `Variable,Source dataset,Value
SSI,Official,100
SSI,CPS,90
SSI,Calibrated CPS,95
SSI,Enhanced CPS,99
federal income tax,Official,1000
federal income tax,CPS,940
federal income tax,Calibrated CPS,1000
federal income tax,Enhanced CPS,990
capital gains,Official,0
capital gains,CPS,5
capital gains,Calibrated CPS,0
capital gains,Enhanced CPS,1
`
)

func writeFixtures(t *testing.T) calibration.Paths {
	t.Helper()
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return path
	}
	return calibration.Paths{
		TrainingLog:    write("training_log.csv", fixtureTrainingLog),
		TrainingLogCPS: write("training_log_cps.csv", fixtureTrainingLogCPS),
		FinalResults:   write("calibration_final_results.csv", fixtureFinalResults),
	}
}

func loadFixtures(t *testing.T) calibration.Dataset {
	t.Helper()
	ds, err := calibration.Load(writeFixtures(t))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	return ds
}

func TestBuildUsesLastSelectedMetricAsFocus(t *testing.T) {
	dash, err := Build(loadFixtures(t), []string{"federal income tax", "SSI"}, nil)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if dash.Focus != "SSI" {
		t.Fatalf("expected focus SSI, got %s", dash.Focus)
	}
	if dash.Loss.Metric != "SSI" || len(dash.FinalValues) != 4 {
		t.Fatalf("focus charts built for the wrong metric: %+v", dash.Loss)
	}
	if len(dash.Performance) != 6 {
		t.Fatalf("expected 6 performance rows, got %d", len(dash.Performance))
	}
	if !reflect.DeepEqual(dash.Available, []string{"SSI", "federal income tax"}) {
		t.Fatalf("unexpected available metrics: %v", dash.Available)
	}
	if ids := dash.FigureIDs(); len(ids) != 4 || ids[0] != "deviation-bar" || ids[3] != "final-values-bar" {
		t.Fatalf("unexpected figures: %v", ids)
	}
}

func TestBuildFallsBackToConfiguredDefaults(t *testing.T) {
	dash, err := Build(loadFixtures(t), nil, []string{"SSI"})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if !reflect.DeepEqual(dash.Selected, []string{"SSI"}) {
		t.Fatalf("expected configured fallback, got %v", dash.Selected)
	}
}

func TestBuildFailsOnUnknownMetric(t *testing.T) {
	// The built-in defaults are not all present in the fixtures.
	_, err := Build(loadFixtures(t), nil, nil)
	if !errors.Is(err, calibration.ErrValueNotFound) {
		t.Fatalf("expected ErrValueNotFound, got %v", err)
	}
}

func TestBuildSurfacesUndefinedDeviation(t *testing.T) {
	_, err := Build(loadFixtures(t), []string{"capital gains"}, nil)
	if !errors.Is(err, calibration.ErrUndefinedDeviation) {
		t.Fatalf("expected ErrUndefinedDeviation, got %v", err)
	}
}

func TestGenerateHTML(t *testing.T) {
	dash, err := Build(loadFixtures(t), []string{"SSI"}, nil)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	html, err := GenerateHTML(dash)
	if err != nil {
		t.Fatalf("GenerateHTML error: %v", err)
	}
	for _, want := range []string{
		"<title>PolicyEngine US calibration</title>",
		PlotlyScriptURL,
		`<option value="SSI" selected>SSI</option>`,
		`<option value="federal income tax">federal income tax</option>`,
		`<div id="loss-line"></div>`,
		"Deviation from official values, by dataset",
		"SSI during reweighting, by source dataset",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in HTML output", want)
		}
	}
	if strings.Contains(html, "population under 5") {
		t.Fatal("population metrics must not be offered")
	}
	if !strings.Contains(html, `class="form-select metric-select" multiple disabled>`) || strings.Contains(html, "<form") {
		t.Fatal("the standalone report shows the selection read-only")
	}
}

func TestNewErrorPage(t *testing.T) {
	var buf bytes.Buffer
	err := PageTemplate.Execute(&buf, NewErrorPage(Title, errors.New(`variable "<script>"`)))
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, "&lt;script&gt;") || strings.Contains(html, "<script>\"") {
		t.Fatalf("expected escaped error text:\n%s", html)
	}
	if strings.Contains(html, "Plotly.newPlot") || strings.Contains(html, `<select`) {
		t.Fatalf("error page must not render charts:\n%s", html)
	}
}

func TestGenerateWritesArtifacts(t *testing.T) {
	outDir := t.TempDir()
	opts := Options{
		Paths:        writeFixtures(t),
		Metrics:      []string{"SSI", "federal income tax"},
		HTMLPath:     filepath.Join(outDir, "reports", "dashboard.html"),
		AnalysisPath: filepath.Join(outDir, "analysis.json"),
		SVGDir:       filepath.Join(outDir, "svg"),
		SQLitePath:   filepath.Join(outDir, "snapshot.db"),
		Summary:      true,
	}
	var out bytes.Buffer
	dash, err := Generate(context.Background(), opts, &out)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if dash.Focus != "federal income tax" {
		t.Fatalf("unexpected focus %s", dash.Focus)
	}

	for _, p := range []string{opts.HTMLPath, opts.AnalysisPath, opts.SQLitePath, filepath.Join(opts.SVGDir, "final_values_federal_income_tax.svg")} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected %s to exist: %v", p, err)
		}
	}

	raw, err := os.ReadFile(opts.AnalysisPath)
	if err != nil {
		t.Fatalf("read analysis: %v", err)
	}
	var decoded struct {
		Focus       string                       `json:"focus_metric"`
		Performance calibration.PerformanceTable `json:"performance"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode analysis: %v", err)
	}
	if decoded.Focus != "federal income tax" || len(decoded.Performance) != 6 {
		t.Fatalf("unexpected analysis content: %+v", decoded)
	}

	text := out.String()
	for _, want := range []string{"Report written to", "SQLite snapshot written to", "10.0%", "Federal income tax"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output, got %s", want, text)
		}
	}
}

func TestGenerateWithEmptyValueCell(t *testing.T) {
	paths := writeFixtures(t)
	log := strings.Replace(fixtureTrainingLog, "SSI,1,95,100", "SSI,1,,100", 1)
	if err := os.WriteFile(paths.TrainingLog, []byte(log), 0o644); err != nil {
		t.Fatalf("rewrite training log: %v", err)
	}

	outDir := t.TempDir()
	opts := Options{
		Paths:        paths,
		Metrics:      []string{"SSI"},
		HTMLPath:     filepath.Join(outDir, "dashboard.html"),
		AnalysisPath: filepath.Join(outDir, "analysis.json"),
		SVGDir:       filepath.Join(outDir, "svg"),
	}
	if _, err := Generate(context.Background(), opts, &bytes.Buffer{}); err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	html, err := os.ReadFile(opts.HTMLPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(html), `"x":[0,1],"y":[80,null]`) {
		t.Fatalf("expected the empty cell as a null point in the loss chart")
	}

	raw, err := os.ReadFile(opts.AnalysisPath)
	if err != nil {
		t.Fatalf("read analysis: %v", err)
	}
	var decoded struct {
		Loss struct {
			Series []struct {
				SourceDataset string     `json:"source_dataset"`
				Values        []*float64 `json:"values"`
			} `json:"series"`
		} `json:"loss"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode analysis: %v", err)
	}
	puf := decoded.Loss.Series[0]
	if puf.SourceDataset != calibration.SourcePUFExtendedCPS || len(puf.Values) != 2 || puf.Values[1] != nil {
		t.Fatalf("expected a null loss value for the empty cell, got %+v", puf)
	}
	if _, err := os.Stat(filepath.Join(opts.SVGDir, "loss_ssi.svg")); err != nil {
		t.Fatalf("expected loss SVG: %v", err)
	}
}

func TestGenerateFromIgnoresPaths(t *testing.T) {
	ds := loadFixtures(t)
	opts := Options{
		Paths:    calibration.Paths{TrainingLog: filepath.Join(t.TempDir(), "gone.csv")},
		Metrics:  []string{"SSI"},
		HTMLPath: filepath.Join(t.TempDir(), "r.html"),
	}
	dash, err := GenerateFrom(context.Background(), ds, opts, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("GenerateFrom error: %v", err)
	}
	if dash.Focus != "SSI" {
		t.Fatalf("unexpected focus %s", dash.Focus)
	}
	if _, err := os.Stat(opts.HTMLPath); err != nil {
		t.Fatalf("expected report: %v", err)
	}
}

func TestGenerateMissingInput(t *testing.T) {
	paths := writeFixtures(t)
	paths.TrainingLogCPS = filepath.Join(t.TempDir(), "missing.csv.gz")
	_, err := Generate(context.Background(), Options{Paths: paths, HTMLPath: filepath.Join(t.TempDir(), "r.html")}, &bytes.Buffer{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected missing file error, got %v", err)
	}
}
