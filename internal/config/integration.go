package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// GlobalConfig holds the global configuration instance.
var GlobalConfig *Config        //nolint:gochecknoglobals // Singleton pattern for configuration
var globalConfigMu sync.RWMutex //nolint:gochecknoglobals // Protects globalConfigInit flag
var globalConfigInit bool       //nolint:gochecknoglobals // Tracks if global config has been initialized

// InitGlobalConfig initializes the global configuration.
func InitGlobalConfig() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()

	if globalConfigInit {
		return
	}

	GlobalConfig = New()
	globalConfigInit = true
}

// ResetGlobalConfigForTest resets the global config for testing purposes.
func ResetGlobalConfigForTest() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()

	GlobalConfig = nil
	globalConfigInit = false
}

// GetGlobalConfig returns the global configuration, initializing it if needed.
func GetGlobalConfig() *Config {
	InitGlobalConfig()
	return GlobalConfig
}

// GetConsoleConfig returns the console section of the global configuration.
func GetConsoleConfig() ConsoleConfig {
	return GetGlobalConfig().Console
}

// GetLoaderConfig returns the loader section of the global configuration.
func GetLoaderConfig() LoaderConfig {
	return GetGlobalConfig().Loader
}

// GetCacheConfig returns the cache section of the global configuration.
func GetCacheConfig() CacheConfig {
	return GetGlobalConfig().Cache
}

// GetCatalogPath returns the configured inventory database path.
func GetCatalogPath() string {
	return GetGlobalConfig().Catalog.Database
}

// GetPrefsPath returns the configured preferences file path.
func GetPrefsPath() string {
	return GetGlobalConfig().Prefs.File
}

// EnsureConfigDir ensures the bizdeck configuration directory exists.
func EnsureConfigDir() error {
	dir, err := GetConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// EnsureLogDir ensures the directory for the configured log file exists.
// If no log file is configured, it does nothing.
func EnsureLogDir() error {
	cfg := GetGlobalConfig()
	if cfg.Logging.File == "" {
		return nil
	}
	logDir := filepath.Dir(cfg.Logging.File)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}
	return nil
}

// GetConfigDir returns the bizdeck home: $BIZDECK_HOME, or ~/.bizdeck.
func GetConfigDir() (string, error) {
	if home := os.Getenv("BIZDECK_HOME"); home != "" {
		return home, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".bizdeck"), nil
}
