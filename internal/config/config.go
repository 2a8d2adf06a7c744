package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/rshade/bizdeck/internal/cache"
)

// SchemaVersion is the config schema version written by this build.
const SchemaVersion = "1.0"

// supportedSchema is the range of schema versions this build can read.
const supportedSchema = "^1.0"

const outputTypeFile = "file"

// Validation errors.
var (
	ErrUnsupportedVersion = errors.New("unsupported config version")
	ErrInvalidValue       = errors.New("invalid config value")
)

// Config is the bizdeck configuration file.
type Config struct {
	Version string        `yaml:"version"`
	Logging LoggingConfig `yaml:"logging"`
	Console ConsoleConfig `yaml:"console"`
	Loader  LoaderConfig  `yaml:"loader"`
	Cache   CacheConfig   `yaml:"cache"`
	Catalog CatalogConfig `yaml:"catalog"`
	Prefs   PrefsConfig   `yaml:"prefs"`

	configPath string
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"  env:"BIZDECK_LOG_LEVEL"`
	Format string `yaml:"format" env:"BIZDECK_LOG_FORMAT"`
	File   string `yaml:"file"   env:"BIZDECK_LOG_FILE"`
}

// ConsoleConfig controls the interactive inventory list.
type ConsoleConfig struct {
	// ItemHeight is the height of one product row, in terminal rows.
	ItemHeight int `yaml:"item_height" env:"BIZDECK_CONSOLE_ITEM_HEIGHT"`
	// Overscan is the number of rows rendered beyond each viewport edge.
	Overscan int `yaml:"overscan" env:"BIZDECK_CONSOLE_OVERSCAN"`
	// EndThreshold is the distance from the bottom, in items, that requests the next page.
	EndThreshold int  `yaml:"end_threshold" env:"BIZDECK_CONSOLE_END_THRESHOLD"`
	PageSize     int  `yaml:"page_size"     env:"BIZDECK_CONSOLE_PAGE_SIZE"`
	Scrollbar    bool `yaml:"scrollbar"     env:"BIZDECK_CONSOLE_SCROLLBAR"`
}

// LoaderConfig controls deferred thumbnail loading.
type LoaderConfig struct {
	// Threshold is the visible fraction of a thumbnail that triggers its load.
	Threshold float64 `yaml:"threshold" env:"BIZDECK_LOADER_THRESHOLD"`
	// RootMargin grows the viewport by this many rows when testing visibility.
	RootMargin  int           `yaml:"root_margin"  env:"BIZDECK_LOADER_ROOT_MARGIN"`
	Timeout     time.Duration `yaml:"timeout"      env:"BIZDECK_LOADER_TIMEOUT"`
	ThumbWidth  int           `yaml:"thumb_width"  env:"BIZDECK_LOADER_THUMB_WIDTH"`
	ThumbHeight int           `yaml:"thumb_height" env:"BIZDECK_LOADER_THUMB_HEIGHT"`
}

// CacheConfig controls the fetched resource cache.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"     env:"BIZDECK_CACHE_ENABLED"`
	Directory  string `yaml:"directory"   env:"BIZDECK_CACHE_DIR"`
	TTLSeconds int    `yaml:"ttl_seconds" env:"BIZDECK_CACHE_TTL_SECONDS"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"BIZDECK_CACHE_MAX_SIZE_MB"`
}

// CatalogConfig locates the inventory database.
type CatalogConfig struct {
	Database string `yaml:"database" env:"BIZDECK_CATALOG_DB"`
}

// PrefsConfig locates the persisted preferences file.
type PrefsConfig struct {
	File string `yaml:"file" env:"BIZDECK_PREFS_FILE"`
}

// Defaults.
const (
	DefaultItemHeight      = 3
	DefaultOverscan        = 5
	DefaultEndThreshold    = 2
	DefaultPageSize        = 50
	DefaultLoaderThreshold = 0.1
	DefaultRootMargin      = 6
	DefaultLoaderTimeout   = 10 * time.Second
	DefaultThumbWidth      = 8
	DefaultThumbHeight     = 3
	DefaultCacheTTLSeconds = 3600
	DefaultCacheMaxSizeMB  = 64
)

// Default returns a configuration with every default applied, rooted at the
// bizdeck home directory.
func Default() *Config {
	dir, err := GetConfigDir()
	if err != nil {
		dir = filepath.Join(os.TempDir(), ".bizdeck")
	}

	return &Config{
		Version: SchemaVersion,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			File:   filepath.Join(dir, "logs", "bizdeck.log"),
		},
		Console: ConsoleConfig{
			ItemHeight:   DefaultItemHeight,
			Overscan:     DefaultOverscan,
			EndThreshold: DefaultEndThreshold,
			PageSize:     DefaultPageSize,
			Scrollbar:    true,
		},
		Loader: LoaderConfig{
			Threshold:   DefaultLoaderThreshold,
			RootMargin:  DefaultRootMargin,
			Timeout:     DefaultLoaderTimeout,
			ThumbWidth:  DefaultThumbWidth,
			ThumbHeight: DefaultThumbHeight,
		},
		Cache: CacheConfig{
			Enabled:    true,
			Directory:  filepath.Join(dir, "cache"),
			TTLSeconds: DefaultCacheTTLSeconds,
			MaxSizeMB:  DefaultCacheMaxSizeMB,
		},
		Catalog:    CatalogConfig{Database: filepath.Join(dir, "catalog.db")},
		Prefs:      PrefsConfig{File: filepath.Join(dir, "prefs.yaml")},
		configPath: filepath.Join(dir, "config.yaml"),
	}
}

// New returns the defaults overlaid with the config file, if one exists, and
// then with environment overrides. Load errors are ignored so a broken file
// never prevents the CLI from starting; use Load to surface them.
func New() *Config {
	cfg := Default()
	_ = cfg.Load()
	_ = ApplyEnv(cfg)
	return cfg
}

// ConfigPath returns the file the configuration is loaded from and saved to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath changes the file the configuration is loaded from and saved to.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Load reads the config file onto c. A missing file is not an error.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", c.configPath, err)
	}

	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", c.configPath, err)
	}
	return nil
}

// Save writes c to its config path, creating the directory if needed.
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err = os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", c.configPath, err)
	}
	return nil
}

// Validate checks the schema version and the value ranges of every section.
func (c *Config) Validate() error {
	if err := checkVersion(c.Version); err != nil {
		return err
	}

	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidValue}, args...)...))
		}
	}

	switch c.Logging.Format {
	case "", "json", "console":
	default:
		check(false, "logging.format %q must be json or console", c.Logging.Format)
	}
	check(c.Console.ItemHeight > 0, "console.item_height must be positive, got %d", c.Console.ItemHeight)
	check(c.Console.Overscan >= 0, "console.overscan cannot be negative, got %d", c.Console.Overscan)
	check(c.Console.EndThreshold >= 0, "console.end_threshold cannot be negative, got %d", c.Console.EndThreshold)
	check(c.Console.PageSize > 0, "console.page_size must be positive, got %d", c.Console.PageSize)
	check(c.Loader.Threshold >= 0 && c.Loader.Threshold <= 1,
		"loader.threshold must be between 0 and 1, got %v", c.Loader.Threshold)
	check(c.Loader.Timeout >= 0, "loader.timeout cannot be negative, got %s", c.Loader.Timeout)
	check(c.Loader.ThumbWidth > 0 && c.Loader.ThumbHeight > 0,
		"loader thumbnail size must be positive, got %dx%d", c.Loader.ThumbWidth, c.Loader.ThumbHeight)
	if c.Cache.Enabled {
		if err := cache.ValidateTTL(c.Cache.TTLSeconds); err != nil {
			errs = append(errs, fmt.Errorf("%w: cache.ttl_seconds: %w", ErrInvalidValue, err))
		}
	}
	check(c.Catalog.Database != "", "catalog.database is required")

	return errors.Join(errs...)
}

// checkVersion accepts an empty version (pre-versioned files) or any version
// inside the supported schema range.
func checkVersion(version string) error {
	if version == "" {
		return nil
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrUnsupportedVersion, version, err)
	}

	constraint, err := semver.NewConstraint(supportedSchema)
	if err != nil {
		return fmt.Errorf("parsing schema constraint: %w", err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("%w: %s (supported %s)", ErrUnsupportedVersion, version, supportedSchema)
	}
	return nil
}
