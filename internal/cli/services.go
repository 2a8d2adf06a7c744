package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rshade/bizdeck/internal/cache"
	"github.com/rshade/bizdeck/internal/catalog"
	"github.com/rshade/bizdeck/internal/config"
	"github.com/rshade/bizdeck/internal/resource"
)

// openCatalog opens the configured catalog database, creating its directory.
func openCatalog(ctx context.Context) (*catalog.Store, error) {
	if err := config.EnsureConfigDir(); err != nil {
		return nil, err
	}
	path := config.GetCatalogPath()
	store, err := catalog.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog %s: %w", path, err)
	}
	return store, nil
}

// openCacheStore opens the configured thumbnail cache.
func openCacheStore() (*cache.FileStore, error) {
	cfg := config.GetCacheConfig()
	store, err := cache.NewFileStore(cfg.Directory, cfg.Enabled, cfg.TTLSeconds, cfg.MaxSizeMB)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	return store, nil
}

// newResourceService builds the cached thumbnail loader. Relative file refs
// resolve against the config directory.
func newResourceService() (*resource.Service, *cache.FileStore, error) {
	store, err := openCacheStore()
	if err != nil {
		return nil, nil, err
	}
	dir, err := config.GetConfigDir()
	if err != nil {
		return nil, nil, err
	}
	fetcher := resource.NewFetcher(resource.WithBaseDir(dir))
	return resource.NewService(fetcher, store), store, nil
}

// defaultImageDir is where seeded thumbnails are written.
func defaultImageDir() (string, error) {
	dir, err := config.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "images"), nil
}
