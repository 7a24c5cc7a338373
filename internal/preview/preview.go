// Package preview prints a generated report to the terminal.
package preview

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"redminereport/internal/report"
)

var (
	captionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5f9fb0"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1).Align(lipgloss.Center)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c757d"))
)

// Section is one captioned table of the report.
type Section struct {
	Caption string
	Records []report.Record
}

// Render writes every section as a bordered table with the given column
// labels. Empty sections keep their header row.
func Render(w io.Writer, labels []string, sections ...Section) error {
	for i, s := range sections {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, captionStyle.Render(s.Caption)); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, renderTable(labels, s.Records)); err != nil {
			return err
		}
		if len(s.Records) == 0 {
			if _, err := fmt.Fprintln(w, mutedStyle.Render("нет задач")); err != nil {
				return err
			}
		}
	}
	return nil
}

func renderTable(labels []string, records []report.Record) string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, r.Values())
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(labels...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}
