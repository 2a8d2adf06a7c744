package cache

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Expiry bounds for cached resources.
const (
	MinTTLSeconds = 60
	MaxTTLSeconds = 7 * 24 * 60 * 60
)

// ErrInvalidTTL is returned for a TTL outside [MinTTLSeconds, MaxTTLSeconds].
var ErrInvalidTTL = fmt.Errorf("TTL must be between %d and %d seconds", MinTTLSeconds, MaxTTLSeconds)

// ValidateTTL checks that seconds is within the supported expiry bounds.
func ValidateTTL(seconds int) error {
	if seconds < MinTTLSeconds || seconds > MaxTTLSeconds {
		return fmt.Errorf("%w: got %d", ErrInvalidTTL, seconds)
	}
	return nil
}

var durationUnits = []struct {
	size   time.Duration
	suffix string
}{
	{24 * time.Hour, "d"},
	{time.Hour, "h"},
	{time.Minute, "m"},
	{time.Second, "s"},
}

// FormatDuration renders d with at most its two most significant units,
// e.g. "45s", "1h30m", "1d1h".
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d <= 0 {
		return "0s"
	}

	var b strings.Builder
	parts := 0
	for _, u := range durationUnits {
		n := d / u.size
		if n == 0 {
			if parts > 0 {
				break
			}
			continue
		}
		b.WriteString(strconv.FormatInt(int64(n), 10))
		b.WriteString(u.suffix)
		d -= n * u.size
		if parts++; parts == 2 || d == 0 {
			break
		}
	}
	return b.String()
}
