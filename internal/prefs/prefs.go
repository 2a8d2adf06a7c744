package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Preference errors.
var (
	ErrClosed            = errors.New("preferences store is closed")
	ErrUnknownBackground = errors.New("unknown background")
)

// Background names.
const (
	BackgroundDefault  = "default"
	BackgroundSlate    = "slate"
	BackgroundPaper    = "paper"
	BackgroundMidnight = "midnight"
)

//nolint:gochecknoglobals // fixed cycle order
var backgrounds = []string{BackgroundDefault, BackgroundSlate, BackgroundPaper, BackgroundMidnight}

// Backgrounds returns the selectable background names in cycle order.
func Backgrounds() []string {
	return slices.Clone(backgrounds)
}

// NextBackground returns the background after name, wrapping around.
// Unknown names restart the cycle.
func NextBackground(name string) string {
	i := slices.Index(backgrounds, name)
	return backgrounds[(i+1)%len(backgrounds)]
}

// Preferences is the persisted document.
type Preferences struct {
	Background string `yaml:"background"`
}

// Store reads and writes preferences backed by a YAML file.
// Writes are saved immediately.
type Store struct {
	path   string
	mu     sync.RWMutex
	prefs  Preferences
	closed bool
}

// Open loads preferences from path. A missing file yields defaults.
// An empty path keeps preferences in memory only.
func Open(path string) (*Store, error) {
	s := &Store{path: strings.TrimSpace(path), prefs: Preferences{Background: BackgroundDefault}}
	if s.path == "" {
		return s, nil
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading preferences: %w", err)
	}

	var loaded Preferences
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parsing preferences %s: %w", s.path, err)
	}
	if slices.Contains(backgrounds, loaded.Background) {
		s.prefs.Background = loaded.Background
	}
	return s, nil
}

// Path returns the backing file, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// Background returns the selected background name.
func (s *Store) Background() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs.Background
}

// SetBackground selects and persists a background.
func (s *Store) SetBackground(name string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if !slices.Contains(backgrounds, name) {
		return fmt.Errorf("%w: %q (valid: %s)", ErrUnknownBackground, name, strings.Join(backgrounds, ", "))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	prev := s.prefs
	s.prefs.Background = name
	if err := s.saveLocked(); err != nil {
		s.prefs = prev
		return err
	}
	return nil
}

// Close releases the store. Later writes fail with ErrClosed; reads keep
// returning the last value.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Store) saveLocked() error {
	if s.path == "" {
		return nil
	}
	data, err := yaml.Marshal(s.prefs)
	if err != nil {
		return fmt.Errorf("marshaling preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating preferences directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}
	return nil
}
