// internal/commands/select.go
package calview

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/mwiater/calview/internal/calibration"
	"github.com/mwiater/calview/internal/report"
	"github.com/mwiater/calview/internal/tui"
	"github.com/spf13/cobra"
)

var (
	selectOpts  report.Options
	pickMetrics = tui.Pick
)

// selectCmd lets the user pick metrics in the terminal, then renders the report.
var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Pick metrics interactively, then render the report",
	Long: `Open a terminal list of every metric in the training log. Space toggles a
metric, enter confirms and esc or q cancels. The metric checked last drives
the loss and final-value charts. Confirming with nothing checked uses the
default metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}

		picked, err := pickMetrics(cmd.Context(), calibration.AvailableMetrics(ds.TrainingLog), GetConfig().DefaultMetricNames())
		if errors.Is(err, tui.ErrCancelled) {
			fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("Selection cancelled."))
			return nil
		}
		if err != nil {
			return err
		}

		// Render the tables the list was built from.
		dash, err := report.GenerateFrom(cmd.Context(), ds, withConfig(selectOpts, picked), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		debugDump(cmd.ErrOrStderr(), "performance", dash.Performance)
		return nil
	},
}

// loadDataset reads the configured input tables.
func loadDataset() (calibration.Dataset, error) {
	return calibration.Load(GetConfig().InputPaths())
}

func init() {
	addOutputFlags(selectCmd, &selectOpts)
	rootCmd.AddCommand(selectCmd)
}
