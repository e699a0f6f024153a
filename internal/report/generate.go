// internal/report/generate.go
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/mwiater/calview/internal/calibration"
	"github.com/mwiater/calview/internal/export"
	"github.com/mwiater/calview/internal/logging"
	"github.com/mwiater/calview/internal/staticchart"
	"github.com/mwiater/calview/internal/util"
)

// DefaultHTMLPath is where the dashboard is written when no path is given.
const DefaultHTMLPath = "calview-report.html"

// Options captures the inputs and outputs of one report run.
type Options struct {
	Paths          calibration.Paths
	Metrics        []string
	DefaultMetrics []string
	HTMLPath       string
	AnalysisPath   string
	SVGDir         string
	SQLitePath     string
	Summary        bool
}

var okColor = color.New(color.FgGreen)

// Generate loads the input tables, builds the dashboard and writes every
// requested artifact. Status lines go to out.
func Generate(ctx context.Context, opts Options, out io.Writer) (Dashboard, error) {
	ds, err := calibration.Load(opts.Paths)
	if err != nil {
		return Dashboard{}, err
	}
	return GenerateFrom(ctx, ds, opts, out)
}

// GenerateFrom is Generate over tables that are already loaded; opts.Paths
// is ignored.
func GenerateFrom(ctx context.Context, ds calibration.Dataset, opts Options, out io.Writer) (Dashboard, error) {
	logging.LogStage("load", "", fmt.Sprintf("%d training log rows, %d final results", len(ds.TrainingLog), len(ds.FinalResults)))

	dash, err := Build(ds, opts.Metrics, opts.DefaultMetrics)
	if err != nil {
		return Dashboard{}, err
	}

	if opts.AnalysisPath != "" {
		if err := writeAnalysisJSON(opts.AnalysisPath, dash); err != nil {
			return dash, err
		}
		okColor.Fprintf(out, "Analysis JSON written to %s\n", opts.AnalysisPath)
	}

	html, err := GenerateHTML(dash)
	if err != nil {
		return dash, fmt.Errorf("failed generating HTML report: %w", err)
	}
	if opts.HTMLPath == "" {
		opts.HTMLPath = DefaultHTMLPath
	}
	if err := util.WriteFile(opts.HTMLPath, []byte(html)); err != nil {
		return dash, fmt.Errorf("unable to write HTML report: %w", err)
	}
	okColor.Fprintf(out, "Report written to %s\n", opts.HTMLPath)

	if opts.SVGDir != "" {
		paths, err := staticchart.WriteAll(opts.SVGDir, staticchart.Input{
			Performance: dash.Performance,
			Loss:        dash.Loss,
			Focus:       dash.Focus,
			FinalValues: dash.FinalValues,
		})
		if err != nil {
			return dash, err
		}
		okColor.Fprintf(out, "%d SVG charts written to %s\n", len(paths), opts.SVGDir)
	}

	if opts.SQLitePath != "" {
		snap := export.Snapshot{
			Selected:     dash.Selected,
			Focus:        dash.Focus,
			Performance:  dash.Performance,
			FinalResults: ds.FinalResults,
		}
		if err := export.WriteSQLite(ctx, opts.SQLitePath, snap); err != nil {
			return dash, err
		}
		okColor.Fprintf(out, "SQLite snapshot written to %s\n", opts.SQLitePath)
	}

	if opts.Summary {
		PrintSummary(out, dash)
	}
	return dash, nil
}

func writeAnalysisJSON(path string, dash Dashboard) error {
	data, err := json.MarshalIndent(dash, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to marshal analysis JSON: %w", err)
	}

	if err := util.WriteFile(path, data); err != nil {
		return fmt.Errorf("unable to write analysis JSON: %w", err)
	}
	return nil
}
