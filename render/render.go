// Package render draws tables for the terminal.
package render

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/LeeLupton/fmp-dcf/engine"
)

// Table writes t as an ASCII grid. Headers keep the table's exact column
// names and order; null or absent cells render empty.
func Table(w io.Writer, t *engine.Table) {
	if len(t.Columns) == 0 {
		return
	}

	grid := tablewriter.NewWriter(w)
	grid.SetHeader(t.Columns)
	grid.SetAutoFormatHeaders(false)
	grid.SetAutoWrapText(false)

	for _, row := range t.Rows {
		cells := make([]string, 0, len(t.Columns))
		for _, column := range t.Columns {
			cell := ""
			value, pres := row.Get(column)
			if pres {
				if canonical, present := engine.Canonical(value); present {
					cell = canonical
				}
			}
			cells = append(cells, cell)
		}
		grid.Append(cells)
	}

	grid.Render()
}
