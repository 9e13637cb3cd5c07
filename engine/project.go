package engine

import (
	"github.com/Velocidex/ordereddict"
)

// Project returns a new Table restricted to the requested fields, in the
// requested order, preserving row order. Fields not in the request are
// dropped; a requested field missing from the table returns
// InvalidFieldError. An empty request yields a zero-column Table with the
// same row count — how to render that is the display layer's problem.
func Project(t *Table, fields []string) (*Table, error) {
	for _, f := range fields {
		if !t.HasColumn(f) {
			return nil, &InvalidFieldError{Field: f}
		}
	}

	rows := make([]Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		projected := ordereddict.NewDict()
		for _, f := range fields {
			value, pres := row.Get(f)
			if pres {
				projected.Set(f, value)
			}
		}
		rows = append(rows, projected)
	}

	return &Table{Columns: append([]string(nil), fields...), Rows: rows}, nil
}
