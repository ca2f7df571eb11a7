// Package diskstore implements a disk-based filesystem storage backend.
package diskstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/discochess/kibitz/internal/codec"
	"github.com/discochess/kibitz/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store is a disk-based filesystem storage backend.
type Store struct {
	root  string
	codec codec.Codec
}

// New creates a new disk store rooted at the given directory.
// The directory must exist; the reports subdirectory is created on
// demand. The codec handles compression/decompression.
func New(root string, codec codec.Codec) (*Store, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	return &Store{
		root:  root,
		codec: codec,
	}, nil
}

// ReadReport reads and decompresses the report with the given ID.
func (s *Store) ReadReport(ctx context.Context, id string) ([]byte, error) {
	// Check for cancellation before starting I/O.
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if !store.ValidID(id) {
		return nil, store.ErrInvalidID
	}

	compressed, err := os.ReadFile(s.reportPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("reading report: %w", err)
	}

	reader, err := s.codec.Reader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("creating decompressor: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("decompressing report: %w", err)
	}

	return data, nil
}

// WriteReport compresses and stores the report under the given ID.
// The write goes to a temporary file first so a crash never leaves a
// partially written report behind the final name.
func (s *Store) WriteReport(ctx context.Context, id string, data []byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !store.ValidID(id) {
		return store.ErrInvalidID
	}

	path := s.reportPath(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating reports directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	writer, err := s.codec.Writer(tmp)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("creating compressor: %w", err)
	}
	if _, err := writer.Write(data); err != nil {
		writer.Close()
		tmp.Close()
		return fmt.Errorf("compressing report: %w", err)
	}
	if err := writer.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("flushing compressor: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("publishing report: %w", err)
	}
	return nil
}

// Close releases any resources held by the store.
func (s *Store) Close() error {
	return nil
}

// reportPath returns the filesystem path for a report.
func (s *Store) reportPath(id string) string {
	return filepath.Join(s.root, "reports", s.reportName(id))
}

// reportName returns the filename for a report ID.
func (s *Store) reportName(id string) string {
	name := id
	if ext := s.codec.Extension(); ext != "" {
		name += "." + ext
	}
	return name
}
