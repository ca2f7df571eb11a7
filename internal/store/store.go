// Package store defines the storage backend interface for analysis
// reports.
package store

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned when a report does not exist in the store.
var ErrNotFound = errors.New("store: report not found")

// ErrInvalidID is returned when a report ID cannot be used as a storage
// key.
var ErrInvalidID = errors.New("store: invalid report id")

// Store defines the interface for storage backends.
// Implementations handle key formats and storage details internally.
type Store interface {
	// ReadReport reads the content of the report with the given ID.
	ReadReport(ctx context.Context, id string) ([]byte, error)

	// WriteReport stores the report under the given ID, replacing any
	// previous content.
	WriteReport(ctx context.Context, id string, data []byte) error

	// Close releases any resources held by the store.
	Close() error
}

// ValidID reports whether id is usable as a storage key: non-empty,
// no path separators, no traversal.
func ValidID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, "/\\")
}
