package cachedstore

import (
	"context"

	"github.com/discochess/kibitz/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store wraps another Store with caching.
type Store struct {
	underlying store.Store
	backend    Backend
}

// New creates a new cached store wrapping the given store.
func New(underlying store.Store, backend Backend) *Store {
	return &Store{
		underlying: underlying,
		backend:    backend,
	}
}

// ReadReport reads a report, checking the cache first.
func (s *Store) ReadReport(ctx context.Context, id string) ([]byte, error) {
	// Check cache first.
	if data, ok := s.backend.Get(id); ok {
		return data, nil
	}

	// Cache miss - read from underlying store.
	data, err := s.underlying.ReadReport(ctx, id)
	if err != nil {
		return nil, err
	}

	// Cache the result.
	s.backend.Set(id, data)

	return data, nil
}

// WriteReport writes through to the underlying store and refreshes the
// cache entry on success.
func (s *Store) WriteReport(ctx context.Context, id string, data []byte) error {
	if err := s.underlying.WriteReport(ctx, id, data); err != nil {
		return err
	}
	s.backend.Set(id, data)
	return nil
}

// Close closes the underlying store.
func (s *Store) Close() error {
	return s.underlying.Close()
}

// Stats returns cache statistics.
func (s *Store) Stats() Stats {
	return s.backend.Stats()
}
