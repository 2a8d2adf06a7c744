package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keyVersion = "version"
	keyLogging = "logging"
	keyConsole = "console"
	keyLoader  = "loader"
	keyCache   = "cache"
	keyCatalog = "catalog"
	keyPrefs   = "prefs"
)

// knownTopLevelKeys lists the YAML keys that correspond to exported Config fields.
// Keys not in this list are silently ignored during merge.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var knownTopLevelKeys = map[string]bool{
	keyVersion: true,
	keyLogging: true,
	keyConsole: true,
	keyLoader:  true,
	keyCache:   true,
	keyCatalog: true,
	keyPrefs:   true,
}

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// the target Config. Keys present in the overlay replace entire sections
// in the target. Keys absent in the overlay are left unchanged.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	for key, node := range overlay {
		if !knownTopLevelKeys[key] {
			continue
		}
		if err = unmarshalSection(target, key, &node); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}

	return nil
}

// unmarshalSection decodes one overlay section into a fresh zero value and
// assigns it, so the section is replaced rather than merged field by field.
func unmarshalSection(target *Config, key string, node *yaml.Node) error {
	switch key {
	case keyVersion:
		var v string
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Version = v
	case keyLogging:
		return decodeInto(node, &target.Logging)
	case keyConsole:
		return decodeInto(node, &target.Console)
	case keyLoader:
		return decodeInto(node, &target.Loader)
	case keyCache:
		return decodeInto(node, &target.Cache)
	case keyCatalog:
		return decodeInto(node, &target.Catalog)
	case keyPrefs:
		return decodeInto(node, &target.Prefs)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func decodeInto[T any](node *yaml.Node, dst *T) error {
	var v T
	if err := node.Decode(&v); err != nil {
		return err
	}
	*dst = v
	return nil
}
