// internal/commands/report.go
package calview

import (
	"github.com/mwiater/calview/internal/report"
	"github.com/spf13/cobra"
)

var reportOpts report.Options

// reportCmd renders the dashboard once and writes the requested artifacts.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the calibration dashboard to HTML",
	Long: `Load the training logs and final results, compute each dataset's deviation
from the official values for the selected metrics and write a self-contained
HTML dashboard. Optional flags add an analysis JSON, static SVG charts, a
SQLite snapshot and a terminal summary.

Repeat --metric to select several metrics; the last one drives the loss and
final-value charts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd, reportOpts, reportOpts.Metrics)
	},
}

// runReport generates the report for metrics from the configured inputs.
func runReport(cmd *cobra.Command, opts report.Options, metrics []string) error {
	dash, err := report.Generate(cmd.Context(), withConfig(opts, metrics), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	debugDump(cmd.ErrOrStderr(), "performance", dash.Performance)
	return nil
}

// withConfig fills in the configured inputs and defaults.
func withConfig(opts report.Options, metrics []string) report.Options {
	cfg := GetConfig()
	opts.Paths = cfg.InputPaths()
	opts.DefaultMetrics = cfg.DefaultMetricNames()
	opts.Metrics = metrics
	return opts
}

// addOutputFlags registers the artifact flags shared by report and select.
func addOutputFlags(cmd *cobra.Command, opts *report.Options) {
	cmd.Flags().StringVar(&opts.HTMLPath, "html-output", report.DefaultHTMLPath, "Destination HTML report path")
	cmd.Flags().StringVar(&opts.AnalysisPath, "analysis-output", "", "Optional path to write the analysis JSON")
	cmd.Flags().StringVar(&opts.SVGDir, "svg-dir", "", "Optional directory for static SVG charts")
	cmd.Flags().StringVar(&opts.SQLitePath, "sqlite-output", "", "Optional path of a SQLite snapshot of the tables")
	cmd.Flags().BoolVar(&opts.Summary, "summary", false, "Print the performance table to the terminal")
}

func init() {
	reportCmd.Flags().StringArrayVarP(&reportOpts.Metrics, "metric", "m", nil, "Metric to include (repeatable, order is kept)")
	addOutputFlags(reportCmd, &reportOpts)

	rootCmd.AddCommand(reportCmd)
}
