// Package memstore provides an in-memory store implementation for
// testing.
package memstore

import (
	"context"
	"sync"

	"github.com/discochess/kibitz/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store is an in-memory store for testing.
type Store struct {
	mu      sync.RWMutex
	reports map[string][]byte
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		reports: make(map[string][]byte),
	}
}

// ReadReport reads a report from memory.
func (s *Store) ReadReport(ctx context.Context, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.reports[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return data, nil
}

// WriteReport stores a report in memory.
// The data is copied to prevent caller mutations from affecting the
// store.
func (s *Store) WriteReport(ctx context.Context, id string, data []byte) error {
	if !store.ValidID(id) {
		return store.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]byte, len(data))
	copy(copied, data)
	s.reports[id] = copied
	return nil
}

// Close is a no-op for the memory store.
func (s *Store) Close() error {
	return nil
}
