package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/LeeLupton/fmp-dcf/engine"
)

// WriteXLSX writes the table to a spreadsheet: headers on row one, then
// one row per record. Cells keep their scalar types where possible; null
// or absent cells stay empty.
func WriteXLSX(path string, table *engine.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	for i, column := range table.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("writing header %s: %w", column, err)
		}
		if err := f.SetCellValue(sheet, cell, column); err != nil {
			return fmt.Errorf("writing header %s: %w", column, err)
		}
	}

	for r, row := range table.Rows {
		for c, column := range table.Columns {
			value, pres := row.Get(column)
			if !pres || value == nil {
				continue
			}

			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("writing cell %s: %w", column, err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("writing cell %s: %w", column, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
