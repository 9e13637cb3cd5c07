package engine

import (
	"sort"
)

// ============================================================================
// FILTERS — multi-valued membership predicates, AND-combined
// ============================================================================
// Single pass: each row is checked against every applied filter. Inert
// filters (no selection made yet) are skipped, never treated as reject-all.
// Matching is always on canonical string form, so a value picked from
// UniqueValues is guaranteed to match the rows it was enumerated from.
// ============================================================================

// ApplyFilters returns a new Table containing only the rows that satisfy
// every applied filter. An applied filter naming a field that is not in the
// table returns InvalidFieldError. Filter order does not affect the result.
func ApplyFilters(t *Table, filters []Filter) (*Table, error) {
	applied := make([]Filter, 0, len(filters))
	for _, f := range filters {
		if !f.Selection.Applied() {
			continue
		}
		if !t.HasColumn(f.Field) {
			return nil, &InvalidFieldError{Field: f.Field}
		}
		applied = append(applied, f)
	}

	rows := make([]Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		pass := true
		for _, f := range applied {
			// Null and absent values canonicalize to "" — they only
			// match when "" was explicitly selected.
			canonical, _ := CanonicalField(row, f.Field)
			if !f.Selection.Matches(canonical) {
				pass = false
				break
			}
		}
		if pass {
			rows = append(rows, row)
		}
	}

	return &Table{Columns: append([]string(nil), t.Columns...), Rows: rows}, nil
}

// UniqueValues returns the distinct non-null values of a field in canonical
// string form, sorted ascending. This is the candidate set offered to the
// user when configuring a Filter on that field.
//
// The sort is lexicographic on the canonical form even for numeric fields,
// so "10" sorts before "2". That matches the observed behavior of the
// selection list this feeds; do not "fix" it without updating the filters
// that store the selected strings.
func UniqueValues(t *Table, field string) ([]string, error) {
	if !t.HasColumn(field) {
		return nil, &InvalidFieldError{Field: field}
	}

	seen := make(map[string]bool)
	result := []string{}
	for _, row := range t.Rows {
		canonical, pres := CanonicalField(row, field)
		if !pres || seen[canonical] {
			continue
		}
		seen[canonical] = true
		result = append(result, canonical)
	}

	sort.Strings(result)
	return result, nil
}
