// =============================================================================
// VALUATION PARAMETER CATALOG
// =============================================================================
// The custom DCF endpoint accepts a fixed set of tuning parameters next to
// the required ticker symbol. The catalog drives form/flag generation,
// validation, and export filename construction, so there is exactly one
// place that knows which parameters exist.

package params

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Velocidex/ordereddict"
)

// Field describes a single query parameter.
type Field struct {
	Name     string
	Label    string
	Required bool
	Rate     bool // numeric rate or percentage override
}

// catalog lists every accepted parameter in submission order. The symbol
// comes first; the rest are optional model overrides passed through to the
// endpoint verbatim.
var catalog = []Field{
	{Name: "symbol", Label: "Ticker symbol (required).", Required: true},
	{Name: "revenueGrowthPct", Label: "Revenue growth percentage override.", Rate: true},
	{Name: "ebitdaPct", Label: "EBITDA percentage override.", Rate: true},
	{Name: "depreciationAndAmortizationPct", Label: "Depreciation and amortization percentage override.", Rate: true},
	{Name: "cashAndShortTermInvestmentsPct", Label: "Cash and short term investments percentage override.", Rate: true},
	{Name: "receivablesPct", Label: "Receivables percentage override.", Rate: true},
	{Name: "inventoriesPct", Label: "Inventories percentage override.", Rate: true},
	{Name: "payablePct", Label: "Payables percentage override.", Rate: true},
	{Name: "ebitPct", Label: "EBIT percentage override.", Rate: true},
	{Name: "capitalExpenditurePct", Label: "Capital expenditure percentage override.", Rate: true},
	{Name: "operatingCashFlowPct", Label: "Operating cash flow percentage override.", Rate: true},
	{Name: "sellingGeneralAndAdministrativeExpensesPct", Label: "SG&A expenses percentage override.", Rate: true},
	{Name: "taxRate", Label: "Tax rate override.", Rate: true},
	{Name: "longTermGrowthRate", Label: "Long term growth rate override.", Rate: true},
	{Name: "costOfDebt", Label: "Cost of debt override.", Rate: true},
	{Name: "costOfEquity", Label: "Cost of equity override.", Rate: true},
	{Name: "marketRiskPremium", Label: "Market risk premium override.", Rate: true},
	{Name: "beta", Label: "Beta override.", Rate: true},
	{Name: "riskFreeRate", Label: "Risk free rate override.", Rate: true},
}

// Catalog returns the accepted parameters in submission order.
func Catalog() []Field {
	result := make([]Field, len(catalog))
	copy(result, catalog)
	return result
}

func lookup(name string) (Field, bool) {
	for _, f := range catalog {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Build validates raw form values and assembles the query parameter set in
// catalog order. Blank optional values are dropped rather than sent as
// empty strings.
func Build(values map[string]string) (*ordereddict.Dict, error) {
	for name := range values {
		if _, ok := lookup(name); !ok {
			return nil, fmt.Errorf("unknown parameter %q", name)
		}
	}

	result := ordereddict.NewDict()
	for _, f := range catalog {
		raw := strings.TrimSpace(values[f.Name])
		if raw == "" {
			if f.Required {
				return nil, fmt.Errorf("%s is required (e.g. AAPL)", f.Name)
			}
			continue
		}
		if f.Rate {
			if _, err := strconv.ParseFloat(raw, 64); err != nil {
				return nil, fmt.Errorf("%s must be numeric, got %q", f.Name, raw)
			}
		}
		result.Set(f.Name, raw)
	}
	return result, nil
}

// FilenameItems renders the optional parameters as key-value fragments for
// export filenames. Keys are sorted, symbol and apikey are excluded, and
// values keep only characters safe on every filesystem.
func FilenameItems(p *ordereddict.Dict) []string {
	keys := p.Keys()
	sort.Strings(keys)

	items := []string{}
	for _, k := range keys {
		if k == "symbol" || k == "apikey" {
			continue
		}
		v, _ := p.GetString(k)
		if v == "" {
			continue
		}
		items = append(items, k+"-"+sanitize(v))
	}
	return items
}

func sanitize(v string) string {
	var b strings.Builder
	for _, c := range v {
		switch {
		case c >= '0' && c <= '9',
			c >= 'a' && c <= 'z',
			c >= 'A' && c <= 'Z',
			c == '.', c == '-':
			b.WriteRune(c)
		}
	}
	return b.String()
}
