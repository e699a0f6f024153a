// internal/report/summary.go
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mwiater/calview/internal/calibration"
)

var (
	summaryHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	summaryCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	summaryTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2C6496"))
)

// PrintSummary writes the performance table and the focus metric's final
// values as terminal tables.
func PrintSummary(out io.Writer, d Dashboard) {
	fmt.Fprintln(out, summaryTitleStyle.Render("Deviation from official values, by dataset"))
	perf := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Metric", "Source dataset", "Deviation").
		StyleFunc(summaryStyle)
	for _, row := range d.Performance {
		perf.Row(row.Metric, row.SourceDataset, row.DeviationText)
	}
	fmt.Fprintln(out, perf.Render())

	fmt.Fprintln(out, summaryTitleStyle.Render(fmt.Sprintf("%s after reweighting, by source dataset", d.Focus)))
	finals := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Source dataset", "Value").
		StyleFunc(summaryStyle)
	for _, row := range d.FinalValues {
		finals.Row(row.SourceDataset, calibration.FormatWhole(row.Value))
	}
	fmt.Fprintln(out, finals.Render())
}

func summaryStyle(row, col int) lipgloss.Style {
	if row == table.HeaderRow {
		return summaryHeaderStyle
	}
	return summaryCellStyle
}
