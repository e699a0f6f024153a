// internal/charts/builders.go
package charts

import (
	"fmt"

	"github.com/mwiater/calview/internal/calibration"
)

// DOM ids of the four dashboard figures.
const (
	DeviationBarID     = "deviation-bar"
	DeviationScatterID = "deviation-scatter"
	LossLineID         = "loss-line"
	FinalValuesBarID   = "final-values-bar"
)

var deviationColors = map[string]string{
	calibration.SourceEnhancedCPS:   Blue,
	calibration.SourceCalibratedCPS: Gray,
	calibration.SourceCPS:           DarkGray,
}

var lossColors = map[string]string{
	calibration.SourcePUFExtendedCPS: Blue,
	calibration.SourceCPS:            Gray,
	calibration.SourceOfficial:       DarkGray,
}

var finalValueColors = map[string]string{
	calibration.SourceEnhancedCPS:   Blue,
	calibration.SourceCalibratedCPS: Gray,
	calibration.SourceCPS:           Gray,
	calibration.SourceOfficial:      DarkGray,
}

// DeviationBar is the grouped horizontal bar chart of deviation by metric.
func DeviationBar(table calibration.PerformanceTable) Figure {
	fig := Figure{ID: DeviationBarID}
	for _, source := range table.Sources() {
		rows := table.ForSource(source)
		x := make([]float64, len(rows))
		y := make([]string, len(rows))
		text := make([]string, len(rows))
		for i, row := range rows {
			x[i] = row.DisplayDeviation
			y[i] = row.Metric
			text[i] = row.DeviationText
		}
		fig.Data = append(fig.Data, Trace{
			Type:         "bar",
			Name:         source,
			Orientation:  "h",
			X:            x,
			Y:            y,
			Text:         text,
			TextPosition: "auto",
			LegendGroup:  source,
			Marker:       &Marker{Color: deviationColors[source]},
		})
	}

	fig.Layout = Layout{
		Title:       &Title{Text: "Deviation from official values, by dataset"},
		XAxis:       Axis{Title: &Title{Text: "Deviation"}, TickFormat: ".0%", Range: []float64{0, 1}},
		YAxis:       Axis{Title: &Title{Text: "Metric"}},
		BarMode:     "group",
		Legend:      &Legend{Title: &Title{Text: "Source dataset"}, TraceOrder: "reversed"},
		UniformText: &UniformText{Mode: "show", MinSize: 12},
	}
	applyHouseStyle(&fig.Layout)
	return fig
}

// DeviationScatter shows the same deviations as points, with Plotly's default colors.
func DeviationScatter(table calibration.PerformanceTable) Figure {
	fig := Figure{ID: DeviationScatterID}
	for _, source := range table.Sources() {
		rows := table.ForSource(source)
		x := make([]float64, len(rows))
		y := make([]string, len(rows))
		for i, row := range rows {
			x[i] = row.DisplayDeviation
			y[i] = row.Metric
		}
		fig.Data = append(fig.Data, Trace{
			Type:        "scatter",
			Mode:        "markers",
			Name:        source,
			X:           x,
			Y:           y,
			LegendGroup: source,
		})
	}
	fig.Layout = Layout{
		XAxis:  Axis{Title: &Title{Text: "Deviation"}},
		YAxis:  Axis{Title: &Title{Text: "Metric"}},
		Legend: &Legend{Title: &Title{Text: "Source dataset"}},
	}
	return fig
}

// LossLine plots a metric's training trajectory per source dataset with its
// final values annotated.
func LossLine(curve calibration.LossCurve) Figure {
	fig := Figure{ID: LossLineID}
	for _, series := range curve.Series {
		fig.Data = append(fig.Data, Trace{
			Type: "scatter",
			Mode: "lines",
			Name: series.SourceDataset,
			X:    series.Epochs,
			Y:    series.Values,
			Line: &Line{Color: lossColors[series.SourceDataset]},
		})
	}

	fig.Layout = Layout{
		Title:  &Title{Text: fmt.Sprintf("%s during reweighting, by source dataset", curve.Metric)},
		XAxis:  Axis{Title: &Title{Text: "Epoch"}},
		YAxis:  Axis{Title: &Title{Text: "Relative loss change"}},
		Legend: &Legend{Title: &Title{Text: ""}},
	}
	for _, a := range curve.Annotations {
		fig.Layout.Annotations = append(fig.Layout.Annotations, Annotation{
			X:         float64(a.Epoch),
			Y:         a.Value,
			Text:      a.Text,
			ShowArrow: true,
			ArrowHead: 1,
			YShift:    10,
			AX:        0,
			AY:        -20,
			BGColor:   "white",
		})
	}
	applyHouseStyle(&fig.Layout)
	return fig
}

// FinalValuesBar plots the final value of one metric for every dataset,
// in the order given (ascending by value).
func FinalValuesBar(metric string, rows calibration.FinalResults) Figure {
	fig := Figure{ID: FinalValuesBarID}
	for _, row := range rows {
		fig.Data = append(fig.Data, Trace{
			Type:        "bar",
			Name:        row.SourceDataset,
			X:           []string{row.SourceDataset},
			Y:           calibration.Numbers{row.Value},
			LegendGroup: row.SourceDataset,
			Marker:      &Marker{Color: finalValueColors[row.SourceDataset]},
		})
	}
	fig.Layout = Layout{
		Title:   &Title{Text: fmt.Sprintf("%s after reweighting, by source dataset", metric)},
		XAxis:   Axis{Title: &Title{Text: "Source dataset"}, Type: "category"},
		YAxis:   Axis{Title: &Title{Text: "Value"}},
		BarMode: "relative",
		Legend:  &Legend{Title: &Title{Text: "Source dataset"}},
	}
	applyHouseStyle(&fig.Layout)
	return fig
}
