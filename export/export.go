// =============================================================================
// JSON ARCHIVE EXPORT
// =============================================================================

// Package export writes and reads valuation archives. An archive is a
// single JSON document {"params": ..., "data": ...} so a saved table can
// be reloaded later together with the query that produced it.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Velocidex/ordereddict"

	"github.com/LeeLupton/fmp-dcf/engine"
	"github.com/LeeLupton/fmp-dcf/helpers"
	"github.com/LeeLupton/fmp-dcf/json"
	"github.com/LeeLupton/fmp-dcf/params"
)

// Marshal renders the archive document. The API key never reaches disk.
// Every row is written against the table's full column set, with explicit
// nulls for absent cells, so the archive reloads with identical column
// order even when leading rows are sparse.
func Marshal(p *ordereddict.Dict, table *engine.Table) ([]byte, error) {
	doc := ordereddict.NewDict().
		Set("params", withoutAPIKey(p)).
		Set("data", uniformRows(table))

	serialized, err := json.MarshalIndent(doc)
	if err != nil {
		return nil, fmt.Errorf("marshaling archive: %w", err)
	}
	return serialized, nil
}

// WriteJSON writes the archive document to w.
func WriteJSON(w io.Writer, p *ordereddict.Dict, table *engine.Table) error {
	serialized, err := Marshal(p, table)
	if err != nil {
		return err
	}
	_, err = w.Write(serialized)
	return err
}

// ReadArchive decodes an archive document back into its query parameters
// and table. Archives missing the params section still load; the
// parameters just come back empty.
func ReadArchive(data []byte) (*ordereddict.Dict, *engine.Table, error) {
	var outer struct {
		Params json.RawMessage `json:"params"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &outer); err != nil {
		return nil, nil, fmt.Errorf("parsing archive: %w", err)
	}

	p := ordereddict.NewDict()
	if len(outer.Params) > 0 {
		if err := json.Unmarshal(outer.Params, p); err != nil {
			return nil, nil, fmt.Errorf("parsing archive params: %w", err)
		}
	}

	if len(outer.Data) == 0 {
		return nil, nil, fmt.Errorf("parsing archive: no data section")
	}
	table, err := helpers.ParseTable(outer.Data)
	if err != nil {
		return nil, nil, err
	}

	return p, table, nil
}

// Filename builds the archive name: uppercased symbol, the sorted
// key-value fragments of the remaining parameters, and a timestamp.
func Filename(p *ordereddict.Dict, now time.Time) string {
	symbol, _ := p.GetString("symbol")
	if symbol == "" {
		symbol = "data"
	}

	parts := []string{strings.ToUpper(symbol)}
	parts = append(parts, params.FilenameItems(p)...)
	parts = append(parts, now.Format("20060102150405"))

	return strings.Join(parts, "_") + ".json"
}

// WriteFile writes the archive under dir, creating it if needed, and
// returns the full path.
func WriteFile(dir string, p *ordereddict.Dict, table *engine.Table) (string, error) {
	serialized, err := Marshal(p, table)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	path := filepath.Join(dir, Filename(p, time.Now()))
	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return "", fmt.Errorf("writing archive: %w", err)
	}
	return path, nil
}

// uniformRows re-keys each row against the table's column order. Absent
// cells become explicit nulls, which the engine already treats the same
// as absent keys.
func uniformRows(table *engine.Table) []engine.Record {
	rows := make([]engine.Record, 0, len(table.Rows))
	for _, row := range table.Rows {
		uniform := ordereddict.NewDict()
		for _, column := range table.Columns {
			value, _ := row.Get(column)
			uniform.Set(column, value)
		}
		rows = append(rows, uniform)
	}
	return rows
}

func withoutAPIKey(p *ordereddict.Dict) *ordereddict.Dict {
	result := ordereddict.NewDict()
	for _, k := range p.Keys() {
		if k == "apikey" {
			continue
		}
		v, _ := p.Get(k)
		result.Set(k, v)
	}
	return result
}
