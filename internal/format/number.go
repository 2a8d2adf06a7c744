package format

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Size thresholds for FormatBytes.
const (
	kib = 1024
	mib = kib * 1024
	gib = mib * 1024
)

const centsPerUnit = 100

// printer is the locale-aware message printer for number formatting.
// Uses English locale for consistent thousand separators.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// FormatNumber formats an integer with thousand separators.
// Example: FormatNumber(18248) returns "18,248".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatPrice formats an amount in cents as dollars.
// Example: FormatPrice(123456) returns "$1,234.56".
func FormatPrice(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%s.%02d", sign, FormatNumber(cents/centsPerUnit), cents%centsPerUnit)
}

// FormatBytes formats a byte count with a binary unit.
// Example: FormatBytes(1536) returns "1.5 KiB".
func FormatBytes(n int64) string {
	switch {
	case n >= gib:
		return fmt.Sprintf("%.1f GiB", float64(n)/gib)
	case n >= mib:
		return fmt.Sprintf("%.1f MiB", float64(n)/mib)
	case n >= kib:
		return fmt.Sprintf("%.1f KiB", float64(n)/kib)
	default:
		return FormatNumber(n) + " B"
	}
}
