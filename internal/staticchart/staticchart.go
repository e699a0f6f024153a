// internal/staticchart/staticchart.go
// Package staticchart renders the dashboard charts as standalone SVG files
// for places where a browser is not available (CI artifacts, e-mail).
package staticchart

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/mwiater/calview/internal/calibration"
)

const (
	chartWidth  = 1024
	chartHeight = 576
)

var (
	blue     = drawing.ColorFromHex("2C6496")
	gray     = drawing.ColorFromHex("BDBDBD")
	darkGray = drawing.ColorFromHex("616161")

	deviationColors = map[string]drawing.Color{
		calibration.SourceEnhancedCPS:   blue,
		calibration.SourceCalibratedCPS: gray,
		calibration.SourceCPS:           darkGray,
	}
	lossColors = map[string]drawing.Color{
		calibration.SourcePUFExtendedCPS: blue,
		calibration.SourceCPS:            gray,
		calibration.SourceOfficial:       darkGray,
	}
	finalValueColors = map[string]drawing.Color{
		calibration.SourceEnhancedCPS:   blue,
		calibration.SourceCalibratedCPS: gray,
		calibration.SourceCPS:           gray,
		calibration.SourceOfficial:      darkGray,
	}
	// scatterColors follow Plotly's default qualitative sequence.
	scatterColors = []drawing.Color{
		drawing.ColorFromHex("636EFA"),
		drawing.ColorFromHex("EF553B"),
		drawing.ColorFromHex("00CC96"),
	}
)

// Input is what the four static charts are drawn from.
type Input struct {
	Performance calibration.PerformanceTable
	Loss        calibration.LossCurve
	Focus       string
	FinalValues calibration.FinalResults
}

// WriteAll renders every chart into dir and returns the written paths.
func WriteAll(dir string, in Input) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create chart directory %s: %w", dir, err)
	}

	slug := slugify(in.Focus)
	jobs := []struct {
		name   string
		render func(io.Writer) error
	}{
		{"deviation.svg", func(w io.Writer) error { return DeviationBars(w, in.Performance) }},
		{"deviation_scatter.svg", func(w io.Writer) error { return DeviationScatter(w, in.Performance) }},
		{"loss_" + slug + ".svg", func(w io.Writer) error { return LossLines(w, in.Loss) }},
		{"final_values_" + slug + ".svg", func(w io.Writer) error { return FinalValueBars(w, in.Focus, in.FinalValues) }},
	}

	var written []string
	for _, job := range jobs {
		path := filepath.Join(dir, job.name)
		if err := writeFile(path, job.render); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeFile(path string, render func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create %s: %w", path, err)
	}
	if err := render(file); err != nil {
		_ = file.Close()
		return fmt.Errorf("unable to render %s: %w", path, err)
	}
	return file.Close()
}

// DeviationBars draws one bar per performance row, floored deviations on a 0-100% axis.
func DeviationBars(w io.Writer, perf calibration.PerformanceTable) error {
	bars := make([]chart.Value, 0, len(perf))
	for _, row := range perf {
		color := deviationColors[row.SourceDataset]
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s · %s (%s)", row.Metric, row.SourceDataset, row.DeviationText),
			Value: row.DisplayDeviation,
			Style: chart.Style{FillColor: color, StrokeColor: color},
		})
	}

	bc := chart.BarChart{
		Title:      "Deviation from official values, by dataset",
		Width:      chartWidth,
		Height:     chartHeight,
		BarWidth:   48,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		YAxis: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: 0, Max: 1},
			ValueFormatter: chart.PercentValueFormatter,
		},
		Bars: bars,
	}
	return bc.Render(chart.SVG, w)
}

// DeviationScatter draws the deviations as points, one row per metric.
func DeviationScatter(w io.Writer, perf calibration.PerformanceTable) error {
	position := make(map[string]float64)
	var ticks []chart.Tick
	for _, row := range perf {
		if _, ok := position[row.Metric]; ok {
			continue
		}
		p := float64(len(ticks))
		position[row.Metric] = p
		ticks = append(ticks, chart.Tick{Value: p, Label: row.Metric})
	}

	var series []chart.Series
	for i, source := range perf.Sources() {
		rows := perf.ForSource(source)
		xs := make([]float64, len(rows))
		ys := make([]float64, len(rows))
		for j, row := range rows {
			xs[j] = row.DisplayDeviation
			ys[j] = position[row.Metric]
		}
		color := scatterColors[i%len(scatterColors)]
		series = append(series, chart.ContinuousSeries{
			Name:    source,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    5,
				DotColor:    color,
				StrokeColor: color,
			},
		})
	}

	ch := chart.Chart{
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 160, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           "Deviation",
			Range:          &chart.ContinuousRange{Min: 0, Max: 1},
			ValueFormatter: chart.PercentValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:  "Metric",
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(ticks)) - 0.5},
			Ticks: ticks,
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(chart.SVG, w)
}

// LossLines draws the training trajectory of one metric per source dataset
// and annotates each source's final value.
func LossLines(w io.Writer, curve calibration.LossCurve) error {
	var (
		series     []chart.Series
		xMin, xMax = math.Inf(1), math.Inf(-1)
		yMin, yMax = math.Inf(1), math.Inf(-1)
	)
	for _, s := range curve.Series {
		// Missing values are left out of the line.
		xs := make([]float64, 0, len(s.Epochs))
		ys := make([]float64, 0, len(s.Values))
		for i, e := range s.Epochs {
			v := s.Values[i]
			if calibration.Missing(v) {
				continue
			}
			x := float64(e)
			xs, ys = append(xs, x), append(ys, v)
			xMin, xMax = math.Min(xMin, x), math.Max(xMax, x)
			yMin, yMax = math.Min(yMin, v), math.Max(yMax, v)
		}
		if len(xs) == 0 {
			continue
		}
		color := lossColors[s.SourceDataset]
		series = append(series, chart.ContinuousSeries{
			Name:    s.SourceDataset,
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: color, StrokeWidth: 2},
		})
	}
	if len(series) == 0 {
		return fmt.Errorf("no training log series for metric %q", curve.Metric)
	}

	annotations := make([]chart.Value2, 0, len(curve.Annotations))
	for _, a := range curve.Annotations {
		if calibration.Missing(float64(a.Value)) {
			continue
		}
		annotations = append(annotations, chart.Value2{
			XValue: float64(a.Epoch),
			YValue: float64(a.Value),
			Label:  a.Text,
		})
	}
	series = append(series, chart.AnnotationSeries{Annotations: annotations})

	xr := paddedRange(xMin, xMax)
	yr := paddedRange(yMin, yMax)
	ch := chart.Chart{
		Title:      fmt.Sprintf("%s during reweighting, by source dataset", curve.Metric),
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 48, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "Epoch", Range: &xr},
		YAxis:      chart.YAxis{Name: "Relative loss change", Range: &yr, ValueFormatter: wholeValueFormatter},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(chart.SVG, w)
}

// FinalValueBars draws the final value of metric per dataset, in the given order.
func FinalValueBars(w io.Writer, metric string, rows calibration.FinalResults) error {
	if len(rows) == 0 {
		return fmt.Errorf("no final results for metric %q", metric)
	}
	bars := make([]chart.Value, 0, len(rows))
	lo, hi := 0.0, 0.0
	for _, row := range rows {
		if calibration.Missing(row.Value) {
			continue
		}
		color := finalValueColors[row.SourceDataset]
		bars = append(bars, chart.Value{
			Label: row.SourceDataset,
			Value: row.Value,
			Style: chart.Style{FillColor: color, StrokeColor: color},
		})
		lo, hi = math.Min(lo, row.Value), math.Max(hi, row.Value)
	}
	if len(bars) == 0 {
		return fmt.Errorf("no final values to draw for metric %q", metric)
	}
	if hi <= lo {
		hi = lo + 1
	}

	bc := chart.BarChart{
		Title:      fmt.Sprintf("%s after reweighting, by source dataset", metric),
		Width:      chartWidth,
		Height:     chartHeight,
		BarWidth:   96,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		YAxis: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: lo, Max: hi * 1.1},
			ValueFormatter: wholeValueFormatter,
		},
		Bars: bars,
	}
	return bc.Render(chart.SVG, w)
}

func wholeValueFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return calibration.FormatWhole(f)
	}
	return fmt.Sprintf("%v", v)
}

// paddedRange widens [lo, hi] by 5% on each side, or by one unit when the
// range is empty, so single-value series still render.
func paddedRange(lo, hi float64) chart.ContinuousRange {
	if hi <= lo {
		return chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	pad := (hi - lo) * 0.05
	return chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func slugify(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore && b.Len() > 0 {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	out := strings.TrimSuffix(b.String(), "_")
	if out == "" {
		return "metric"
	}
	return out
}
