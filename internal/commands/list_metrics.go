// internal/commands/list_metrics.go
package calview

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/mwiater/calview/internal/calibration"
	"github.com/spf13/cobra"
)

// metricsCmd prints every selectable metric in training-log order.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "List the metrics found in the training log",
	Long:  `List every metric in the training logs that can be selected for the dashboard. Population targets are omitted. Default metrics are marked with *.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}

		defaults := make(map[string]bool)
		for _, name := range GetConfig().DefaultMetricNames() {
			defaults[name] = true
		}

		out := cmd.OutOrStdout()
		metrics := calibration.AvailableMetrics(ds.TrainingLog)
		fmt.Fprintf(out, "%d metrics:\n", len(metrics))
		marker := color.New(color.FgGreen, color.Bold)
		for _, name := range metrics {
			if defaults[name] {
				fmt.Fprintf(out, "  %s %s\n", marker.Sprint("*"), name)
				continue
			}
			fmt.Fprintf(out, "    %s\n", name)
		}
		return nil
	},
}

func init() {
	listCmd.AddCommand(metricsCmd)
}
