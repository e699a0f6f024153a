// internal/commands/list_commands.go
package calview

import (
	"github.com/spf13/cobra"
)

// commandsCmd implements 'list commands', which prints the command tree.
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List all commands and subcommands",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ListCommands(cmd.OutOrStdout(), collectCommandData(rootCmd, "", ""))
	},
}

func init() {
	listCmd.AddCommand(commandsCmd)
}

// collectCommandData walks the command tree depth-first, indenting each
// level by two spaces. Hidden commands, help and completion are skipped.
func collectCommandData(cmd *cobra.Command, parentPath, indent string) []CommandInfo {
	path := cmd.Name()
	if parentPath != "" {
		path = parentPath + " " + cmd.Name()
	}

	all := []CommandInfo{{Path: indent + path, Description: cmd.Short}}
	for _, sub := range cmd.Commands() {
		if sub.Hidden || sub.Name() == "help" || sub.Name() == "completion" {
			continue
		}
		all = append(all, collectCommandData(sub, path, indent+"  ")...)
	}
	return all
}
