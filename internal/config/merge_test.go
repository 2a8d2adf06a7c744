package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/bizdeck/internal/config"
)

// newDefaultTarget returns a Config with known non-zero values so tests can
// verify that absent overlay keys leave the original values intact.
func newDefaultTarget() *config.Config {
	return &config.Config{
		Version: "1.0",
		Logging: config.LoggingConfig{Level: "info", Format: "json"},
		Console: config.ConsoleConfig{ItemHeight: 3, Overscan: 5, PageSize: 50, Scrollbar: true},
		Loader:  config.LoaderConfig{Threshold: 0.1, RootMargin: 6, ThumbWidth: 8, ThumbHeight: 3},
		Cache:   config.CacheConfig{Enabled: true, TTLSeconds: 3600, MaxSizeMB: 100},
		Catalog: config.CatalogConfig{Database: "/data/catalog.db"},
	}
}

// writeOverlay writes YAML content to a temp file and returns its path.
func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestShallowMergeYAML_SingleKeyOverride(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
console:
  item_height: 4
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, 4, target.Console.ItemHeight)
	assert.Zero(t, target.Console.Overscan, "section replaced, not merged")
	assert.False(t, target.Console.Scrollbar)
	assert.Equal(t, "info", target.Logging.Level, "absent sections untouched")
	assert.InDelta(t, 0.1, target.Loader.Threshold, 1e-9)
}

func TestShallowMergeYAML_MultipleSections(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
version: "1.2"
logging:
  level: debug
loader:
  threshold: 0.5
  timeout: 3s
catalog:
  database: /tmp/other.db
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, "1.2", target.Version)
	assert.Equal(t, "debug", target.Logging.Level)
	assert.InDelta(t, 0.5, target.Loader.Threshold, 1e-9)
	assert.Equal(t, "3s", target.Loader.Timeout.String())
	assert.Equal(t, "/tmp/other.db", target.Catalog.Database)
	assert.Equal(t, 3600, target.Cache.TTLSeconds)
}

func TestShallowMergeYAML_UnknownKeysIgnored(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
plugins:
  aws: {}
prefs:
  file: /tmp/prefs.yaml
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))
	assert.Equal(t, "/tmp/prefs.yaml", target.Prefs.File)
}

func TestShallowMergeYAML_EmptyFile(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, "# nothing here\n")

	require.NoError(t, config.ShallowMergeYAML(target, overlay))
	assert.Equal(t, newDefaultTarget(), target)
}

func TestShallowMergeYAML_Errors(t *testing.T) {
	require.Error(t, config.ShallowMergeYAML(nil, "x.yaml"))
	require.Error(t, config.ShallowMergeYAML(newDefaultTarget(), filepath.Join(t.TempDir(), "missing.yaml")))

	invalid := writeOverlay(t, "console: [unclosed")
	require.Error(t, config.ShallowMergeYAML(newDefaultTarget(), invalid))

	mistyped := writeOverlay(t, "console:\n  item_height: tall\n")
	require.Error(t, config.ShallowMergeYAML(newDefaultTarget(), mistyped))
}
