// Package gcsstore implements a Google Cloud Storage backend.
package gcsstore

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/discochess/kibitz/internal/codec"
	"github.com/discochess/kibitz/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store is a Google Cloud Storage backend.
type Store struct {
	client *storage.Client
	bucket *storage.BucketHandle
	prefix string
	codec  codec.Codec
}

// New creates a new GCS store.
// The bucket must already exist.
// The codec handles compression/decompression.
func New(ctx context.Context, bucketName string, c codec.Codec, opts ...Option) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating GCS client: %w", err)
	}

	s := &Store{
		client: client,
		bucket: client.Bucket(bucketName),
		codec:  c,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets a key prefix for all operations.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = strings.TrimSuffix(prefix, "/")
		if s.prefix != "" {
			s.prefix += "/"
		}
	}
}

// ReadReport reads and decompresses the report with the given ID.
func (s *Store) ReadReport(ctx context.Context, id string) ([]byte, error) {
	// Check for cancellation before starting.
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if !store.ValidID(id) {
		return nil, store.ErrInvalidID
	}

	obj := s.bucket.Object(s.reportKey(id))

	reader, err := obj.NewReader(ctx)
	if err != nil {
		if err == storage.ErrObjectNotExist {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("creating reader: %w", err)
	}
	defer reader.Close()

	decompressor, err := s.codec.Reader(reader)
	if err != nil {
		return nil, fmt.Errorf("creating decompressor: %w", err)
	}
	defer decompressor.Close()

	data, err := io.ReadAll(decompressor)
	if err != nil {
		return nil, fmt.Errorf("decompressing report: %w", err)
	}

	return data, nil
}

// WriteReport compresses and stores the report under the given ID.
func (s *Store) WriteReport(ctx context.Context, id string, data []byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !store.ValidID(id) {
		return store.ErrInvalidID
	}

	obj := s.bucket.Object(s.reportKey(id))
	writer := obj.NewWriter(ctx)

	compressor, err := s.codec.Writer(writer)
	if err != nil {
		writer.Close()
		return fmt.Errorf("creating compressor: %w", err)
	}
	if _, err := compressor.Write(data); err != nil {
		compressor.Close()
		writer.Close()
		return fmt.Errorf("compressing report: %w", err)
	}
	if err := compressor.Close(); err != nil {
		writer.Close()
		return fmt.Errorf("flushing compressor: %w", err)
	}
	// The object is committed by the writer's Close.
	if err := writer.Close(); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *Store) Close() error {
	return s.client.Close()
}

// reportKey returns the full object key for a report.
func (s *Store) reportKey(id string) string {
	return s.prefix + "reports/" + s.reportName(id)
}

// reportName returns the object name for a report ID.
func (s *Store) reportName(id string) string {
	name := id
	if ext := s.codec.Extension(); ext != "" {
		name += "." + ext
	}
	return name
}
