// =============================================================================
// JSON RESPONSE DECODING
// =============================================================================
// The valuation endpoint normally answers with an array of objects, but
// error payloads and some single-period queries come back as a bare object
// or even a plain string. Everything is coerced into rows so the rest of
// the pipeline only ever sees a Table.

package helpers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Velocidex/ordereddict"

	"github.com/LeeLupton/fmp-dcf/engine"
)

// ParseRows decodes a response body into ordered records.
//
// An array decodes element by element, skipping entries that are not
// objects. A single object becomes a one-row result. Anything else is
// wrapped in a single record under the "response" key so the payload stays
// visible to the user instead of vanishing into an error.
func ParseRows(body []byte) ([]engine.Record, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("parsing response: empty body")
	}

	switch trimmed[0] {
	case '[':
		var rawRows []json.RawMessage
		if err := json.Unmarshal(trimmed, &rawRows); err != nil {
			return nil, fmt.Errorf("parsing response array: %w", err)
		}

		rows := make([]engine.Record, 0, len(rawRows))
		for _, raw := range rawRows {
			row := ordereddict.NewDict()
			if err := json.Unmarshal(raw, row); err != nil {
				continue
			}
			rows = append(rows, row)
		}
		return rows, nil

	case '{':
		row := ordereddict.NewDict()
		if err := json.Unmarshal(trimmed, row); err != nil {
			return nil, fmt.Errorf("parsing response object: %w", err)
		}
		return []engine.Record{row}, nil

	default:
		row := ordereddict.NewDict().
			Set("response", strings.Trim(string(trimmed), `"`))
		return []engine.Record{row}, nil
	}
}

// FieldOrder returns the union of the rows' keys in first-seen order.
func FieldOrder(rows []engine.Record) []string {
	seen := map[string]bool{}
	order := []string{}
	for _, row := range rows {
		for _, k := range row.Keys() {
			if !seen[k] {
				seen[k] = true
				order = append(order, k)
			}
		}
	}
	return order
}

// ParseTable decodes a response body straight into a Table whose column
// order matches the order fields first appeared in the payload.
func ParseTable(body []byte) (*engine.Table, error) {
	rows, err := ParseRows(body)
	if err != nil {
		return nil, err
	}
	return engine.NewTable(FieldOrder(rows), rows...), nil
}
