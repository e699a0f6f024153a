package calview

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// CommandInfo holds the path and description of a command for display.
type CommandInfo struct {
	Path        string
	Description string
}

var commandPathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2C6496")).PaddingRight(2)

// ListCommands prints the command tree as a borderless two-column table.
func ListCommands(out io.Writer, commands []CommandInfo) {
	t := table.New().
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return commandPathStyle
			}
			return lipgloss.NewStyle()
		})
	for _, data := range commands {
		t.Row(data.Path, data.Description)
	}

	fmt.Fprintln(out, "Commands and Subcommands:")
	fmt.Fprintln(out, t.Render())
}
