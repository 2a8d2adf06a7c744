// Package format renders numbers, prices and byte sizes for display, and
// fits text into terminal cell widths.
package format
