// internal/commands/show.go
package calview

import (
	"github.com/spf13/cobra"
)

// showCmd groups the inspection subcommands.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
}

func init() {
	rootCmd.AddCommand(showCmd)
}
