package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTableArray(t *testing.T) {
	body := []byte(`[
		{"symbol": "AAPL", "year": "2023", "revenue": 383285000000},
		{"symbol": "AAPL", "year": "2024", "revenue": 391035000000, "ebitda": 134661000000}
	]`)

	table, err := ParseTable(body)
	require.NoError(t, err)

	// Columns follow first appearance across all rows.
	assert.Equal(t, []string{"symbol", "year", "revenue", "ebitda"}, table.Columns)
	require.Equal(t, 2, table.RowCount())

	year, _ := table.Rows[0].GetString("year")
	assert.Equal(t, "2023", year)

	// ebitda only exists on the second row.
	_, pres := table.Rows[0].Get("ebitda")
	assert.False(t, pres)
}

func TestParseTableSingleObject(t *testing.T) {
	body := []byte(`{"Error Message": "Invalid API KEY."}`)

	table, err := ParseTable(body)
	require.NoError(t, err)
	require.Equal(t, 1, table.RowCount())

	msg, _ := table.Rows[0].GetString("Error Message")
	assert.Equal(t, "Invalid API KEY.", msg)
}

func TestParseTableScalarFallback(t *testing.T) {
	table, err := ParseTable([]byte(`"Limit Reach"`))
	require.NoError(t, err)

	assert.Equal(t, []string{"response"}, table.Columns)
	msg, _ := table.Rows[0].GetString("response")
	assert.Equal(t, "Limit Reach", msg)
}

func TestParseTableSkipsNonObjectElements(t *testing.T) {
	body := []byte(`[{"year": "2023"}, 42, {"year": "2024"}]`)

	table, err := ParseTable(body)
	require.NoError(t, err)
	assert.Equal(t, 2, table.RowCount())
}

func TestParseTableEmptyBody(t *testing.T) {
	_, err := ParseTable([]byte("   "))
	require.Error(t, err)
}

func TestParseTableMalformedArray(t *testing.T) {
	_, err := ParseTable([]byte(`[{"year": `))
	require.Error(t, err)
}

func TestParseTableEmptyArray(t *testing.T) {
	table, err := ParseTable([]byte(`[]`))
	require.NoError(t, err)
	assert.Equal(t, 0, table.RowCount())
	assert.Empty(t, table.Columns)
}
