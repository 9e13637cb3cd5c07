package engine

import (
	"testing"

	"github.com/Velocidex/ordereddict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPivotSum(t *testing.T) {
	table := sampleTable()

	pivoted, err := Pivot(table, PivotSpec{
		Index: "year", Columns: "metric", Values: "value",
		Aggregation: "sum",
	})
	require.NoError(t, err)

	// Leading column keeps the index field's name; the rest are the
	// distinct metric values sorted ascending.
	assert.Equal(t, []string{"year", "ebit", "rev"}, pivoted.Columns)
	require.Equal(t, 2, pivoted.RowCount())

	year, _ := pivoted.Rows[0].GetString("year")
	assert.Equal(t, "2023", year)
	rev, _ := pivoted.Rows[0].Get("rev")
	assert.Equal(t, 10.0, rev)
	ebit, _ := pivoted.Rows[0].Get("ebit")
	assert.Equal(t, 3.0, ebit)

	year, _ = pivoted.Rows[1].GetString("year")
	assert.Equal(t, "2024", year)
	rev, _ = pivoted.Rows[1].Get("rev")
	assert.Equal(t, 12.0, rev)

	// No 2024 ebit records: the cell is absent, not zero.
	_, pres := pivoted.Rows[1].Get("ebit")
	assert.False(t, pres)
}

func TestPivotCountInvariant(t *testing.T) {
	table := NewTable(
		[]string{"year", "metric", "value"},
		ordereddict.NewDict().Set("year", "2023").Set("metric", "rev").Set("value", "1"),
		ordereddict.NewDict().Set("year", "2023").Set("metric", "rev").Set("value", nil),
		ordereddict.NewDict().Set("year", "2024").Set("metric", "ebit").Set("value", "2"),
		ordereddict.NewDict().Set("year", nil).Set("metric", "rev").Set("value", "3"),
		ordereddict.NewDict().Set("year", "2024").Set("metric", nil).Set("value", "4"),
	)

	pivoted, err := Pivot(table, PivotSpec{
		Index: "year", Columns: "metric", Values: "value",
		Aggregation: "count",
	})
	require.NoError(t, err)

	// Sum of all cells equals the records with non-null index AND columns.
	total := 0
	for _, row := range pivoted.Rows {
		for _, k := range row.Keys() {
			if k == "year" {
				continue
			}
			n, pres := row.Get(k)
			if pres {
				total += n.(int)
			}
		}
	}
	assert.Equal(t, 3, total)
}

func TestPivotMean(t *testing.T) {
	table := NewTable(
		[]string{"year", "metric", "value"},
		ordereddict.NewDict().Set("year", "2023").Set("metric", "rev").Set("value", float64(10)),
		ordereddict.NewDict().Set("year", "2023").Set("metric", "rev").Set("value", float64(14)),
	)

	pivoted, err := Pivot(table, PivotSpec{
		Index: "year", Columns: "metric", Values: "value",
		Aggregation: "mean",
	})
	require.NoError(t, err)

	rev, _ := pivoted.Rows[0].Get("rev")
	assert.Equal(t, 12.0, rev)
}

func TestPivotMinMaxNumeric(t *testing.T) {
	table := NewTable(
		[]string{"year", "metric", "value"},
		ordereddict.NewDict().Set("year", "2023").Set("metric", "rev").Set("value", "2"),
		ordereddict.NewDict().Set("year", "2023").Set("metric", "rev").Set("value", "10"),
	)

	// Every entry parses, so ordering is numeric: min is 2, not "10".
	pivoted, err := Pivot(table, PivotSpec{
		Index: "year", Columns: "metric", Values: "value",
		Aggregation: "min",
	})
	require.NoError(t, err)
	low, _ := pivoted.Rows[0].Get("rev")
	assert.Equal(t, "2", low)

	pivoted, err = Pivot(table, PivotSpec{
		Index: "year", Columns: "metric", Values: "value",
		Aggregation: "max",
	})
	require.NoError(t, err)
	high, _ := pivoted.Rows[0].Get("rev")
	assert.Equal(t, "10", high)
}

func TestPivotMinLexicographicFallback(t *testing.T) {
	table := NewTable(
		[]string{"year", "metric", "value"},
		ordereddict.NewDict().Set("year", "2023").Set("metric", "rev").Set("value", "10"),
		ordereddict.NewDict().Set("year", "2023").Set("metric", "rev").Set("value", "2"),
		ordereddict.NewDict().Set("year", "2024").Set("metric", "rev").Set("value", "n/a"),
	)

	// One non-numeric entry anywhere in the values field switches the
	// whole ordering to lexicographic: "10" < "2".
	pivoted, err := Pivot(table, PivotSpec{
		Index: "year", Columns: "metric", Values: "value",
		Aggregation: "min",
	})
	require.NoError(t, err)
	low, _ := pivoted.Rows[0].Get("rev")
	assert.Equal(t, "10", low)
}

func TestPivotDuplicateFields(t *testing.T) {
	_, err := Pivot(sampleTable(), PivotSpec{
		Index: "year", Columns: "year", Values: "value",
		Aggregation: "sum",
	})
	require.Error(t, err)

	var pivotErr *PivotError
	assert.ErrorAs(t, err, &pivotErr)
}

func TestPivotMissingField(t *testing.T) {
	_, err := Pivot(sampleTable(), PivotSpec{
		Index: "year", Columns: "metric", Values: "nonexistent",
		Aggregation: "sum",
	})
	require.Error(t, err)

	// Field resolution failures are PivotErrors wrapping InvalidFieldError.
	var pivotErr *PivotError
	require.ErrorAs(t, err, &pivotErr)
	var fieldErr *InvalidFieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "nonexistent", fieldErr.Field)
}

func TestPivotUnknownAggregation(t *testing.T) {
	_, err := Pivot(sampleTable(), PivotSpec{
		Index: "year", Columns: "metric", Values: "value",
		Aggregation: "median",
	})
	require.Error(t, err)

	var pivotErr *PivotError
	assert.ErrorAs(t, err, &pivotErr)
}

func TestPivotSumNonNumeric(t *testing.T) {
	table := NewTable(
		[]string{"year", "metric", "value"},
		ordereddict.NewDict().Set("year", "2023").Set("metric", "rev").Set("value", "lots"),
	)

	_, err := Pivot(table, PivotSpec{
		Index: "year", Columns: "metric", Values: "value",
		Aggregation: "sum",
	})
	require.Error(t, err)

	var pivotErr *PivotError
	assert.ErrorAs(t, err, &pivotErr)
}

func TestPivotDeterministic(t *testing.T) {
	table := sampleTable()
	spec := PivotSpec{
		Index: "year", Columns: "metric", Values: "value",
		Aggregation: "sum",
	}

	first, err := Pivot(table, spec)
	require.NoError(t, err)
	second, err := Pivot(table, spec)
	require.NoError(t, err)

	assert.Equal(t, first.Columns, second.Columns)
	require.Equal(t, first.RowCount(), second.RowCount())
	for i := range first.Rows {
		assert.Equal(t, first.Rows[i].Keys(), second.Rows[i].Keys())
	}

	// Pivoting does not touch the source table.
	assert.Equal(t, 3, table.RowCount())
	assert.Equal(t, []string{"symbol", "year", "metric", "value"}, table.Columns)
}
