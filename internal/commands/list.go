// internal/commands/list.go
package calview

import (
	"github.com/spf13/cobra"
)

// listCmd groups the listing subcommands.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List metrics or commands",
}

func init() {
	rootCmd.AddCommand(listCmd)
}
