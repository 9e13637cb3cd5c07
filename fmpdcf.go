// Package fmpdcf provides a query, pivot and export toolkit for Financial
// Modeling Prep custom discounted cash flow valuations.
//
// Usage:
//
//	import "github.com/LeeLupton/fmp-dcf/engine"
//
//	table, err := engine.ApplyFilters(current, filters)
//	pivoted, err := engine.Pivot(table, engine.PivotSpec{
//	    Index:       "year",
//	    Columns:     "symbol",
//	    Values:      "equityValue",
//	    Aggregation: "sum",
//	})
//
// The engine takes a Table (ordered rows of named fields, as returned by the
// FMP API) and produces derived Tables: column projections, filtered views
// and pivot cross-tabulations. All engine operations are pure and in-memory.
//
// Fetching is handled separately by the client package. The engine never
// calls any external service — all computation is local.
package fmpdcf
