package engine

import (
	"fmt"
	"sort"

	"github.com/Velocidex/ordereddict"
)

// ============================================================================
// ENGINE TYPES — Tabular Data Model
// ============================================================================
// A Table is an ordered sequence of Records plus the ordered field names
// defining column order. Records are ordered field→scalar mappings; values
// are whatever the JSON decoder produced (string, float64, bool or nil).
//
// All engine operations are pure: they read the input Table and return a
// new one. Nothing in this package logs or mutates its inputs.
// ============================================================================

// Record is a single data row: an ordered mapping from field name to a
// scalar value. A key may be absent, which the engine treats the same as
// an explicit null.
type Record = *ordereddict.Dict

// Table is an ordered collection of Records sharing a field schema.
// Invariant: every Record's keys are a subset of Columns.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Record `json:"rows"`
}

// NewTable creates a Table from a column list and rows.
func NewTable(columns []string, rows ...Record) *Table {
	return &Table{Columns: columns, Rows: rows}
}

// HasColumn reports whether name is one of the Table's fields.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// RowCount returns the number of Records in the Table.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ============================================================================
// FILTER — (field, allowed-value-set) predicate
// ============================================================================

// Selection is the two-state value behind a Filter: either no choice has
// been made yet (the filter is inert and matches everything), or a set of
// allowed canonical strings has been chosen (an empty set matches nothing).
// The distinction is explicit so "not configured" can never be confused
// with "excludes everything".
type Selection struct {
	applied bool
	allowed map[string]bool
}

// NewSelection creates an applied Selection from the allowed values.
// NewSelection() with no values matches nothing.
func NewSelection(values ...string) Selection {
	allowed := make(map[string]bool, len(values))
	for _, v := range values {
		allowed[v] = true
	}
	return Selection{applied: true, allowed: allowed}
}

// Unselected returns the inert Selection: the filter exists but no choice
// has been made, so it matches everything and is skipped on application.
func Unselected() Selection {
	return Selection{}
}

// Applied reports whether a choice has been made.
func (s Selection) Applied() bool {
	return s.applied
}

// Matches reports whether the canonical string form of a value is allowed.
// An inert Selection matches everything.
func (s Selection) Matches(canonical string) bool {
	if !s.applied {
		return true
	}
	return s.allowed[canonical]
}

// Values returns the allowed values in sorted order.
func (s Selection) Values() []string {
	result := make([]string, 0, len(s.allowed))
	for v := range s.allowed {
		result = append(result, v)
	}
	sort.Strings(result)
	return result
}

// Filter restricts a Table to rows whose field value is in the allowed set.
// Filters compose by logical AND and are commutative.
type Filter struct {
	Field     string
	Selection Selection
}

// ============================================================================
// PIVOT SPEC — cross-tabulation configuration
// ============================================================================

// AggFuncs lists the supported pivot aggregation functions.
var AggFuncs = []string{"sum", "mean", "count", "min", "max"}

// PivotSpec defines a cross-tabulation: distinct Index values become rows,
// distinct Columns values become columns, and the Values entries of each
// (row, column) bucket are reduced with Aggregation.
type PivotSpec struct {
	Index       string `json:"index"`
	Columns     string `json:"columns"`
	Values      string `json:"values"`
	Aggregation string `json:"aggregation"`
}

// ============================================================================
// ERRORS
// ============================================================================

// InvalidFieldError is returned when a requested field does not exist in
// the Table. Raised by the projector, filter application, unique-value
// enumeration and pivot field resolution.
type InvalidFieldError struct {
	Field string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("field %q does not exist in the table", e.Field)
}

// PivotError is returned for an invalid PivotSpec: duplicate fields, an
// unknown aggregation, an unsupported aggregation on non-numeric data, or a
// field missing from the table (in which case it wraps InvalidFieldError).
type PivotError struct {
	Reason string
	Err    error
}

func (e *PivotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pivot: %s: %v", e.Reason, e.Err)
	}
	return "pivot: " + e.Reason
}

func (e *PivotError) Unwrap() error {
	return e.Err
}
