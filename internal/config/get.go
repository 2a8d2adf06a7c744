package config

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownKey is returned by Get for a key that names no config value.
var ErrUnknownKey = errors.New("unknown config key")

// Get returns the value at a dotted YAML path, e.g. "loader.threshold".
// Sections are returned as YAML.
func (c *Config) Get(key string) (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}

	var tree map[string]any
	if err = yaml.Unmarshal(data, &tree); err != nil {
		return "", fmt.Errorf("decoding config: %w", err)
	}

	var current any = tree
	for _, part := range strings.Split(key, ".") {
		section, ok := current.(map[string]any)
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
		}
		if current, ok = section[part]; !ok {
			return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
		}
	}

	if section, ok := current.(map[string]any); ok {
		out, marshalErr := yaml.Marshal(section)
		if marshalErr != nil {
			return "", fmt.Errorf("encoding %s: %w", key, marshalErr)
		}
		return strings.TrimRight(string(out), "\n"), nil
	}
	return fmt.Sprint(current), nil
}
