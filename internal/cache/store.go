package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// cacheFileExtension is the file extension used for cache entries.
const cacheFileExtension = ".json"

const bytesPerMB = 1 << 20

// Common cache errors.
var (
	ErrCacheNotFound   = errors.New("cache entry not found")
	ErrCacheExpired    = errors.New("cache entry expired")
	ErrInvalidCacheKey = errors.New("cache reference cannot be empty")
	ErrCacheDisabled   = errors.New("cache is disabled")
)

// FileStore provides file-based caching with TTL expiration.
// It stores each entry as a JSON file named by its key.
// Thread-safe for concurrent access.
type FileStore struct {
	// directory is the cache directory path.
	directory string

	// enabled controls whether caching is active.
	enabled bool

	// ttlSeconds is the default TTL for cache entries.
	ttlSeconds int

	// maxSizeMB is the maximum cache size in megabytes (0 = unlimited).
	maxSizeMB int

	// mu protects concurrent access to file operations.
	mu sync.RWMutex
}

// Stats summarizes the cache contents.
type Stats struct {
	Directory string `json:"directory"`
	Entries   int    `json:"entries"`
	Expired   int    `json:"expired"`
	Bytes     int64  `json:"bytes"`
	TTL       int    `json:"ttl_seconds"`
}

// NewFileStore creates a new file-based cache store.
// The directory will be created if it doesn't exist.
func NewFileStore(directory string, enabled bool, ttlSeconds, maxSizeMB int) (*FileStore, error) {
	if !enabled {
		return &FileStore{enabled: false}, nil
	}

	if directory == "" {
		return nil, errors.New("cache directory cannot be empty")
	}

	if err := os.MkdirAll(directory, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &FileStore{
		directory:  directory,
		enabled:    true,
		ttlSeconds: ttlSeconds,
		maxSizeMB:  maxSizeMB,
	}, nil
}

// Enabled reports whether the store caches anything.
func (s *FileStore) Enabled() bool {
	return s.enabled
}

// Get retrieves the entry for ref.
// Returns ErrCacheNotFound if the entry doesn't exist.
// Returns ErrCacheExpired if the entry has expired; the file is removed.
func (s *FileStore) Get(ref string) (*Entry, error) {
	if !s.enabled {
		return nil, ErrCacheDisabled
	}

	if ref == "" {
		return nil, ErrInvalidCacheKey
	}

	s.mu.RLock()
	filePath := s.keyToFilePath(Key(ref))
	entry, err := readEntry(filePath)
	s.mu.RUnlock()

	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCacheNotFound
		}
		return nil, err
	}

	if entry.IsExpired() {
		s.mu.Lock()
		_ = os.Remove(filePath)
		s.mu.Unlock()
		return nil, ErrCacheExpired
	}

	return entry, nil
}

// Set stores data for ref, overwriting any previous entry, and then trims the
// cache to its size cap.
func (s *FileStore) Set(ref, contentType string, data []byte) error {
	if !s.enabled {
		return ErrCacheDisabled
	}

	if ref == "" {
		return ErrInvalidCacheKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := NewEntry(ref, contentType, data, s.ttlSeconds)
	entryData, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	filePath := s.keyToFilePath(entry.Key)

	// Write to temporary file first, then rename for atomicity
	tempPath := filePath + ".tmp"
	if writeErr := os.WriteFile(tempPath, entryData, 0600); writeErr != nil {
		return fmt.Errorf("failed to write cache file: %w", writeErr)
	}

	if renameErr := os.Rename(tempPath, filePath); renameErr != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename cache file: %w", renameErr)
	}

	return s.evictLocked(filePath)
}

// Delete removes the entry for ref.
// Returns nil if the entry doesn't exist (idempotent).
func (s *FileStore) Delete(ref string) error {
	if !s.enabled {
		return ErrCacheDisabled
	}

	if ref == "" {
		return ErrInvalidCacheKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.keyToFilePath(Key(ref)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cache file: %w", err)
	}

	return nil
}

// Clear removes all cache entries from the store and returns how many were removed.
func (s *FileStore) Clear() (int, error) {
	if !s.enabled {
		return 0, ErrCacheDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.listLocked()
	if err != nil {
		return 0, err
	}

	for i, f := range files {
		if removeErr := os.Remove(f.path); removeErr != nil {
			return i, fmt.Errorf("failed to remove cache file %s: %w", filepath.Base(f.path), removeErr)
		}
	}

	return len(files), nil
}

// CleanupExpired removes all expired cache entries and returns how many were removed.
func (s *FileStore) CleanupExpired() (int, error) {
	if !s.enabled {
		return 0, ErrCacheDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.listLocked()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, f := range files {
		entry, readErr := readEntry(f.path)
		if readErr != nil {
			continue // Skip files we can't read
		}
		if entry.IsExpired() && os.Remove(f.path) == nil {
			removed++
		}
	}

	return removed, nil
}

// Stats returns entry counts and the total size of the cache.
func (s *FileStore) Stats() (Stats, error) {
	if !s.enabled {
		return Stats{}, ErrCacheDisabled
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := s.listLocked()
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Directory: s.directory, Entries: len(files), TTL: s.ttlSeconds}
	for _, f := range files {
		stats.Bytes += f.size
		if entry, readErr := readEntry(f.path); readErr == nil && entry.IsExpired() {
			stats.Expired++
		}
	}

	return stats, nil
}

// GetDirectory returns the cache directory path.
func (s *FileStore) GetDirectory() string {
	return s.directory
}

// GetTTL returns the default TTL in seconds.
func (s *FileStore) GetTTL() int {
	return s.ttlSeconds
}

type cacheFile struct {
	path    string
	size    int64
	modUnix int64
}

// listLocked returns the cache files in the directory. Must be called with mu held.
func (s *FileStore) listLocked() ([]cacheFile, error) {
	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}

	files := make([]cacheFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != cacheFileExtension {
			continue
		}
		info, infoErr := entry.Info()
		if infoErr != nil {
			continue
		}
		files = append(files, cacheFile{
			path:    filepath.Join(s.directory, entry.Name()),
			size:    info.Size(),
			modUnix: info.ModTime().UnixNano(),
		})
	}
	return files, nil
}

// evictLocked removes the oldest entries until the cache fits maxSizeMB.
// The just-written file is kept. Must be called with mu held.
func (s *FileStore) evictLocked(keep string) error {
	if s.maxSizeMB <= 0 {
		return nil
	}

	files, err := s.listLocked()
	if err != nil {
		return err
	}

	var total int64
	for _, f := range files {
		total += f.size
	}

	limit := int64(s.maxSizeMB) * bytesPerMB
	if total <= limit {
		return nil
	}

	sort.Slice(files, func(i, j int) bool { return files[i].modUnix < files[j].modUnix })
	for _, f := range files {
		if total <= limit {
			break
		}
		if f.path == keep {
			continue
		}
		if removeErr := os.Remove(f.path); removeErr == nil {
			total -= f.size
		}
	}
	return nil
}

// keyToFilePath converts a cache key to a file path.
func (s *FileStore) keyToFilePath(key string) string {
	return filepath.Join(s.directory, key+cacheFileExtension)
}

func readEntry(path string) (*Entry, error) {
	//nolint:gosec // Path is derived from a hex key inside the cache directory.
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var entry Entry
	if unmarshalErr := json.Unmarshal(data, &entry); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", unmarshalErr)
	}
	return &entry, nil
}
