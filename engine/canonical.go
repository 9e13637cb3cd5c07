package engine

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ============================================================================
// CANONICALIZATION — one string form for every scalar
// ============================================================================
// The API returns heterogeneous scalars (strings, numbers, booleans, nulls).
// Every comparison and sort in the engine goes through Canonical so that a
// value selected from the unique-value enumeration always matches the row
// it came from, regardless of its original JSON type.
// ============================================================================

// Canonical returns the canonical string form of a scalar value, and false
// when the value is null. Numbers render in their minimal decimal form
// ("10", not "10.000000"), so a float64 10 and the string "10" compare
// equal everywhere in the pipeline.
func Canonical(value interface{}) (string, bool) {
	switch t := value.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	default:
		return fmt.Sprintf("%v", t), true
	}
}

// CanonicalField returns the canonical form of row's value for field, and
// false when the field is absent or null.
func CanonicalField(row Record, field string) (string, bool) {
	value, pres := row.Get(field)
	if !pres {
		return "", false
	}
	return Canonical(value)
}

// Number interprets a scalar as a float64. Strings are parsed; null and
// non-numeric text report false.
func Number(value interface{}) (float64, bool) {
	switch t := value.(type) {
	case nil:
		return 0, false
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
