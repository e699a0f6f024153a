package calview

import (
	"github.com/mwiater/calview/internal/appconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// showConfigCmd implements the 'show config' command, which displays the current configuration settings.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON configs are loaded properly and overridden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		fallback := appconfig.Config{
			Debug:          viper.GetBool("debug"),
			LogFile:        viper.GetString("logFile"),
			TrainingLog:    viper.GetString("trainingLog"),
			TrainingLogCPS: viper.GetString("trainingLogCPS"),
			FinalResults:   viper.GetString("finalResults"),
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), viper.ConfigFileUsed(), currentConfig, fallback)
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
}
