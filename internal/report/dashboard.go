// internal/report/dashboard.go
// Package report assembles the calibration dashboard and writes its artifacts.
package report

import (
	"encoding/json"
	"fmt"

	"github.com/mwiater/calview/internal/calibration"
	"github.com/mwiater/calview/internal/charts"
	"github.com/mwiater/calview/internal/logging"
)

// Title heads every rendering of the dashboard.
const Title = "PolicyEngine US calibration"

// Dashboard is the fully-resolved input of every renderer.
type Dashboard struct {
	Title       string                       `json:"title"`
	Available   []string                     `json:"available_metrics"`
	Selected    []string                     `json:"selected_metrics"`
	Focus       string                       `json:"focus_metric"`
	Performance calibration.PerformanceTable `json:"performance"`
	Loss        calibration.LossCurve        `json:"loss"`
	FinalValues calibration.FinalResults     `json:"final_values"`
	Figures     []charts.Figure              `json:"-"`
}

// Build runs the selector and the aggregator over a loaded dataset and
// prepares the four figures. selected may be empty, in which case fallback
// (or the built-in default metrics) is used. The loss and final-value charts
// describe the last metric of the resolved selection.
func Build(ds calibration.Dataset, selected, fallback []string) (Dashboard, error) {
	names := calibration.ResolveSelection(selected, fallback)
	logging.LogStage("select", "", names)

	perf, err := calibration.BuildPerformance(ds.FinalResults, names)
	if err != nil {
		return Dashboard{}, err
	}
	if err := perf.CheckFinite(); err != nil {
		return Dashboard{}, err
	}
	logging.LogStage("aggregate", "", fmt.Sprintf("%d performance rows", len(perf)))

	focus := calibration.FocusMetric(names)
	loss, err := calibration.LossCurveFor(ds.TrainingLog, focus)
	if err != nil {
		return Dashboard{}, err
	}
	finals := calibration.FinalValuesFor(ds.FinalResults, focus)
	logging.LogStage("render", focus, fmt.Sprintf("%d loss series, %d final values", len(loss.Series), len(finals)))

	return Dashboard{
		Title:       Title,
		Available:   calibration.AvailableMetrics(ds.TrainingLog),
		Selected:    names,
		Focus:       focus,
		Performance: perf,
		Loss:        loss,
		FinalValues: finals,
		Figures: []charts.Figure{
			charts.DeviationBar(perf),
			charts.DeviationScatter(perf),
			charts.LossLine(loss),
			charts.FinalValuesBar(focus, finals),
		},
	}, nil
}

// FiguresJSON encodes the figures for the browser. json.Marshal escapes
// <, > and &, so the result can be placed inside a script element.
func (d Dashboard) FiguresJSON() ([]byte, error) {
	data, err := json.Marshal(d.Figures)
	if err != nil {
		return nil, fmt.Errorf("unable to encode figures: %w", err)
	}
	return data, nil
}

// FigureIDs lists the DOM ids of the figures in page order.
func (d Dashboard) FigureIDs() []string {
	ids := make([]string, len(d.Figures))
	for i, f := range d.Figures {
		ids[i] = f.ID
	}
	return ids
}

// IsSelected reports whether name is part of the resolved selection.
func (d Dashboard) IsSelected(name string) bool {
	for _, s := range d.Selected {
		if s == name {
			return true
		}
	}
	return false
}
