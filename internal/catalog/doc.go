// Package catalog provides the SQLite-backed product inventory shown by the
// console and the catalog commands.
//
// Listing is paged through pagination.Params so the console can
// request the next page when its list reaches the end. Sort fields are mapped
// to columns through a whitelist; user input never reaches the SQL text.
package catalog
