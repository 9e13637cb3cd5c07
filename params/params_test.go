package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildKeepsCatalogOrder(t *testing.T) {
	p, err := Build(map[string]string{
		"taxRate":          "0.21",
		"symbol":           "AAPL",
		"revenueGrowthPct": "0.05",
	})
	require.NoError(t, err)

	// Map iteration order never leaks into the query: the catalog decides.
	assert.Equal(t, []string{"symbol", "revenueGrowthPct", "taxRate"}, p.Keys())
}

func TestBuildRequiresSymbol(t *testing.T) {
	_, err := Build(map[string]string{"taxRate": "0.21"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "symbol")

	_, err = Build(map[string]string{"symbol": "   "})
	require.Error(t, err)
}

func TestBuildRejectsUnknownParameter(t *testing.T) {
	_, err := Build(map[string]string{"symbol": "AAPL", "bogus": "1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestBuildRejectsNonNumericRate(t *testing.T) {
	_, err := Build(map[string]string{"symbol": "AAPL", "beta": "high"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "beta")
}

func TestBuildDropsBlankOptionals(t *testing.T) {
	p, err := Build(map[string]string{"symbol": "AAPL", "taxRate": ""})
	require.NoError(t, err)
	assert.Equal(t, []string{"symbol"}, p.Keys())
}

func TestFilenameItems(t *testing.T) {
	p, err := Build(map[string]string{
		"symbol":             "AAPL",
		"taxRate":            "0.21",
		"longTermGrowthRate": "0.03",
	})
	require.NoError(t, err)

	// Sorted by key, symbol excluded.
	assert.Equal(t,
		[]string{"longTermGrowthRate-0.03", "taxRate-0.21"},
		FilenameItems(p))
}

func TestSanitizeStripsUnsafeCharacters(t *testing.T) {
	assert.Equal(t, "0.21", sanitize("0.21"))
	assert.Equal(t, "a-b.c", sanitize("a/-b_.c "))
}

func TestCatalogCopy(t *testing.T) {
	first := Catalog()
	first[0].Name = "mutated"
	assert.Equal(t, "symbol", Catalog()[0].Name)
}
