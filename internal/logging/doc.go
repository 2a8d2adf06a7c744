// Package logging builds the zerolog loggers used across bizdeck.
//
// Loggers are constructed from a Config that selects level, format (json or
// console) and destination (stderr or a file). When a file cannot be opened the
// logger falls back to stderr and the result records why, so the CLI can warn
// the user once. Request-scoped values such as the trace ID and the logger
// itself travel in context.Context.
package logging
