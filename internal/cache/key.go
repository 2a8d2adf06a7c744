package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Key returns the cache key for a resource reference. References that differ
// only in surrounding whitespace share a key.
func Key(ref string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(ref)))
	return hex.EncodeToString(sum[:])
}
