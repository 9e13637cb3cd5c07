// =============================================================================
// FINANCIAL MODELING PREP CLIENT
// =============================================================================

// Package client fetches custom discounted cash flow valuations from the
// Financial Modeling Prep API and decodes them into tables.
package client

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/Velocidex/ordereddict"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/LeeLupton/fmp-dcf/engine"
	"github.com/LeeLupton/fmp-dcf/helpers"
)

// DefaultEndpoint is the custom DCF valuation endpoint.
const DefaultEndpoint = "https://financialmodelingprep.com/stable/custom-discounted-cash-flow"

const defaultTimeout = 10 * time.Second

// Config controls how the client talks to the API. Zero values fall back
// to sensible defaults; only APIKey has no default.
type Config struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
	RetryMax int
}

// Client issues valuation queries against a single endpoint.
type Client struct {
	config Config
	http   *http.Client
}

// New builds a client with retrying transport. Transient network errors
// and 5xx responses are retried; 4xx responses are returned as-is.
func New(config Config) *Client {
	if config.Endpoint == "" {
		config.Endpoint = DefaultEndpoint
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}

	retrying := retryablehttp.NewClient()
	retrying.RetryMax = config.RetryMax
	retrying.Logger = nil
	retrying.HTTPClient.Timeout = config.Timeout

	return &Client{
		config: config,
		http:   retrying.StandardClient(),
	}
}

// Fetch submits the query parameters and decodes the response into a
// Table. The parameter set must include a symbol and the client must hold
// an API key. Query string order follows the parameter set's own order,
// with the key appended last.
func (self *Client) Fetch(p *ordereddict.Dict) (*engine.Table, error) {
	if self.config.APIKey == "" {
		return nil, fmt.Errorf("no API key: set FMP_API_KEY or pass --apikey")
	}

	symbol, _ := p.GetString("symbol")
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required (e.g. AAPL)")
	}

	// url.Values.Encode would sort the keys; the query string keeps the
	// parameter set's own order, with the key appended last.
	pairs := make([]string, 0, len(p.Keys())+1)
	for _, k := range p.Keys() {
		v, _ := p.GetString(k)
		pairs = append(pairs, url.QueryEscape(k)+"="+url.QueryEscape(v))
	}
	pairs = append(pairs, "apikey="+url.QueryEscape(self.config.APIKey))

	request := self.config.Endpoint + "?" + strings.Join(pairs, "&")
	logrus.WithField("symbol", symbol).Debug("Querying custom DCF endpoint")

	resp, err := self.http.Get(request)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response for %s: %w", symbol, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("querying %s: status %d: %s",
			symbol, resp.StatusCode, snippet(body))
	}

	table, err := helpers.ParseTable(body)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"symbol": symbol,
		"rows":   table.RowCount(),
	}).Debug("Decoded valuation response")

	return table, nil
}

// LoadAPIKey resolves the API key from a .env file in the working
// directory, falling back to the process environment. Existing environment
// variables win over the file.
func LoadAPIKey() string {
	_ = godotenv.Load()
	return os.Getenv("FMP_API_KEY")
}

func snippet(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
