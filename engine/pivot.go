package engine

import (
	"fmt"
	"sort"

	"github.com/Velocidex/ordereddict"
)

// ============================================================================
// PIVOT AGGREGATOR — cross-tabulation
// ============================================================================
// Pipeline: validate spec → bucket rows by (index, columns) canonical value
// → aggregate each bucket → emit one output row per distinct index value.
//
// Rows whose index or columns field is null are excluded from the
// cross-tabulation entirely. Null entries in the values field are dropped
// before aggregating; a bucket left empty produces an absent cell (the key
// is simply not set on the output Record), never a zero.
// ============================================================================

// pivotCell is one (index, columns) bucket before aggregation.
type pivotCell struct {
	values []interface{} // non-null values-field entries
	count  int           // matching records, values ignored
}

// Pivot reshapes a Table into a cross-tabulation described by spec. The
// output's leading column carries the index field's value and keeps the
// index field's name; the remaining columns are the distinct canonical
// values of the columns field, sorted ascending — flat string headers only.
// The input Table is not mutated and the result is deterministic.
func Pivot(t *Table, spec PivotSpec) (*Table, error) {
	if err := validateSpec(t, spec); err != nil {
		return nil, err
	}

	// Bucket rows by canonical (index, columns) value.
	cells := make(map[string]map[string]*pivotCell)
	indexKeys := []string{}
	columnKeys := []string{}
	columnSeen := make(map[string]bool)

	for _, row := range t.Rows {
		indexValue, ok := CanonicalField(row, spec.Index)
		if !ok {
			continue
		}
		columnValue, ok := CanonicalField(row, spec.Columns)
		if !ok {
			continue
		}

		byColumn, pres := cells[indexValue]
		if !pres {
			byColumn = make(map[string]*pivotCell)
			cells[indexValue] = byColumn
			indexKeys = append(indexKeys, indexValue)
		}
		if !columnSeen[columnValue] {
			columnSeen[columnValue] = true
			columnKeys = append(columnKeys, columnValue)
		}

		cell, pres := byColumn[columnValue]
		if !pres {
			cell = &pivotCell{}
			byColumn[columnValue] = cell
		}
		cell.count++

		value, pres := row.Get(spec.Values)
		if pres && value != nil {
			cell.values = append(cell.values, value)
		}
	}

	// Same lexicographic-on-canonical ordering as UniqueValues.
	sort.Strings(indexKeys)
	sort.Strings(columnKeys)

	// min/max order numerically only when the whole values field parses.
	numeric := valuesAllNumeric(cells)

	rows := make([]Record, 0, len(indexKeys))
	for _, indexValue := range indexKeys {
		out := ordereddict.NewDict().Set(spec.Index, indexValue)
		for _, columnValue := range columnKeys {
			cell, pres := cells[indexValue][columnValue]
			if !pres {
				continue
			}
			result, set, err := aggregateCell(cell, spec, numeric)
			if err != nil {
				return nil, err
			}
			if set {
				out.Set(columnValue, result)
			}
		}
		rows = append(rows, out)
	}

	columns := append([]string{spec.Index}, columnKeys...)
	return &Table{Columns: columns, Rows: rows}, nil
}

func validateSpec(t *Table, spec PivotSpec) error {
	if spec.Index == spec.Columns || spec.Index == spec.Values ||
		spec.Columns == spec.Values {
		return &PivotError{
			Reason: fmt.Sprintf(
				"index, columns and values fields must be distinct (got %q, %q, %q)",
				spec.Index, spec.Columns, spec.Values),
		}
	}

	for _, field := range []string{spec.Index, spec.Columns, spec.Values} {
		if !t.HasColumn(field) {
			return &PivotError{
				Reason: "field resolution failed",
				Err:    &InvalidFieldError{Field: field},
			}
		}
	}

	for _, agg := range AggFuncs {
		if spec.Aggregation == agg {
			return nil
		}
	}
	return &PivotError{
		Reason: fmt.Sprintf("unsupported aggregation %q", spec.Aggregation),
	}
}

// valuesAllNumeric reports whether every collected values-field entry can
// be interpreted as a number. Decides the ordering used by min and max.
func valuesAllNumeric(cells map[string]map[string]*pivotCell) bool {
	for _, byColumn := range cells {
		for _, cell := range byColumn {
			for _, v := range cell.values {
				if _, ok := Number(v); !ok {
					return false
				}
			}
		}
	}
	return true
}

// aggregateCell reduces one bucket. The second return value is false when
// the cell should be absent from the output row.
func aggregateCell(cell *pivotCell, spec PivotSpec, numeric bool) (interface{}, bool, error) {
	if spec.Aggregation == "count" {
		return cell.count, true, nil
	}

	if len(cell.values) == 0 {
		return nil, false, nil
	}

	switch spec.Aggregation {
	case "sum", "mean":
		total := 0.0
		for _, v := range cell.values {
			f, ok := Number(v)
			if !ok {
				canonical, _ := Canonical(v)
				return nil, false, &PivotError{
					Reason: fmt.Sprintf(
						"cannot apply %q to non-numeric value %q in field %q",
						spec.Aggregation, canonical, spec.Values),
				}
			}
			total += f
		}
		if spec.Aggregation == "mean" {
			return total / float64(len(cell.values)), true, nil
		}
		return total, true, nil

	case "min":
		return pickExtreme(cell.values, numeric, true), true, nil

	case "max":
		return pickExtreme(cell.values, numeric, false), true, nil
	}

	// Unreachable: validateSpec rejected unknown aggregations.
	return nil, false, &PivotError{
		Reason: fmt.Sprintf("unsupported aggregation %q", spec.Aggregation),
	}
}

// pickExtreme returns the smallest (or largest) value of a bucket, keeping
// the original scalar. Numeric ordering when the values field is numeric
// throughout, lexicographic on canonical form otherwise.
func pickExtreme(values []interface{}, numeric bool, smallest bool) interface{} {
	best := values[0]
	for _, v := range values[1:] {
		cmp := compareValues(v, best, numeric)
		if (smallest && cmp < 0) || (!smallest && cmp > 0) {
			best = v
		}
	}
	return best
}

func compareValues(a, b interface{}, numeric bool) int {
	if numeric {
		x, _ := Number(a)
		y, _ := Number(b)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}

	x, _ := Canonical(a)
	y, _ := Canonical(b)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}
