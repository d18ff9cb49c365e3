package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// WriteTable prints one table per non-empty kind with since, until and delta
// columns.
func WriteTable(w io.Writer, doc Document) error {
	sections := []struct {
		title   string
		entries []Entry
	}{
		{"Lines", doc.Lines},
		{"Bytes", doc.Bytes},
	}

	for _, section := range sections {
		if len(section.entries) == 0 {
			continue
		}

		tbl := table.NewWriter()
		tbl.SetStyle(table.StyleLight)
		tbl.Style().Format.Footer = text.FormatDefault
		tbl.SetTitle(section.title)
		tbl.AppendHeader(table.Row{"Author", "Since", "Until", "Delta"})
		tbl.SetColumnConfigs([]table.ColumnConfig{
			{Number: 2, Align: text.AlignRight},
			{Number: 3, Align: text.AlignRight},
			{Number: 4, Align: text.AlignRight},
		})

		total := 0

		for _, e := range section.entries {
			tbl.AppendRow(table.Row{e.Author, e.Since, e.Until, fmt.Sprintf("%+d", e.Delta)})

			total += e.Delta
		}

		tbl.AppendFooter(table.Row{fmt.Sprintf("%d authors", len(section.entries)), "", "", fmt.Sprintf("%+d", total)})

		_, err := fmt.Fprintln(w, tbl.Render())
		if err != nil {
			return fmt.Errorf("write table: %w", err)
		}
	}

	return nil
}
