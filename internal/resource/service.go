package resource

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rshade/bizdeck/internal/cache"
	"github.com/rshade/bizdeck/internal/logging"
)

// Service loads references through the cache and renders them as cell art.
// It satisfies the lazy loader's Source capability.
type Service struct {
	fetcher *Fetcher
	store   *cache.FileStore
}

// NewService creates a Service. A nil store disables caching.
func NewService(fetcher *Fetcher, store *cache.FileStore) *Service {
	return &Service{fetcher: fetcher, store: store}
}

// Load fetches ref (from cache when fresh) and renders it into width x height cells.
func (s *Service) Load(ctx context.Context, ref string, width, height int) (string, error) {
	data, err := s.Bytes(ctx, ref)
	if err != nil {
		return "", err
	}

	art, err := Render(data, width, height)
	if err != nil {
		return "", fmt.Errorf("%s: %w", ref, err)
	}
	return art, nil
}

// Bytes returns the raw body of ref, consulting and filling the cache.
func (s *Service) Bytes(ctx context.Context, ref string) ([]byte, error) {
	log := logging.FromContext(ctx)

	if entry, ok := s.cached(log, ref); ok {
		return entry.Data, nil
	}

	data, contentType, err := s.fetcher.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}

	if s.store != nil && s.store.Enabled() {
		if setErr := s.store.Set(ref, contentType, data); setErr != nil {
			log.Warn().
				Str("component", "resource").
				Str("ref", ref).
				Err(setErr).
				Msg("caching resource failed")
		}
	}
	return data, nil
}

// Warm fetches ref into the cache unless a fresh entry exists. It reports
// whether a fetch happened.
func (s *Service) Warm(ctx context.Context, ref string) (bool, error) {
	if s.store == nil || !s.store.Enabled() {
		return false, cache.ErrCacheDisabled
	}
	if _, ok := s.cached(logging.FromContext(ctx), ref); ok {
		return false, nil
	}
	if _, err := s.Bytes(ctx, ref); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) cached(log *zerolog.Logger, ref string) (*cache.Entry, bool) {
	if s.store == nil || !s.store.Enabled() {
		return nil, false
	}

	entry, err := s.store.Get(ref)
	switch {
	case err == nil:
		log.Debug().
			Str("component", "resource").
			Str("ref", ref).
			Dur("fresh_for", entry.Remaining()).
			Msg("cache hit")
		return entry, true
	case errors.Is(err, cache.ErrCacheNotFound), errors.Is(err, cache.ErrCacheExpired):
	default:
		log.Debug().
			Str("component", "resource").
			Str("ref", ref).
			Err(err).
			Msg("cache read failed")
	}
	return nil, false
}
