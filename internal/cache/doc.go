// Package cache provides file-based caching with TTL expiration for fetched resources.
//
// Remote thumbnails are fetched once and kept on disk so scrolling back through
// the inventory, or reopening the console, does not refetch them. Key features:
//   - File-based storage in ~/.bizdeck/cache/ (one JSON file per entry)
//   - Configurable TTL (default 1 hour) via config file or environment variable
//   - Automatic expiration and cleanup of stale entries
//   - Size cap enforced by evicting the oldest entries
//   - SHA256-based cache keys derived from the resource reference
package cache
