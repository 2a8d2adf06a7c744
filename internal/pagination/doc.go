// Package pagination provides utilities for paging and sorting catalog listings.
//
// This package contains shared pagination logic used by the CLI and the
// console, including:
//   - Params: flag parsing and validation
//   - Meta: response metadata for paginated results
//   - Sorter: field validation and SQL ordering for sortable listings
//
// The console's incremental loading and the catalog list command page through
// the same parameters, so both see identical ordering.
package pagination
