package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/discochess/kibitz/internal/store"
)

func TestStore_WriteReadRoundTrip(t *testing.T) {
	s := New()
	defer s.Close()

	ctx := context.Background()
	data := []byte("report body")

	if err := s.WriteReport(ctx, "r1", data); err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}

	got, err := s.ReadReport(ctx, "r1")
	if err != nil {
		t.Fatalf("ReadReport() error = %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("ReadReport() = %q, want %q", got, data)
	}
}

func TestStore_WriteCopiesData(t *testing.T) {
	s := New()
	defer s.Close()

	ctx := context.Background()
	data := []byte("original")
	if err := s.WriteReport(ctx, "r1", data); err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}

	// Mutating the caller's slice must not affect the stored copy.
	data[0] = 'X'

	got, err := s.ReadReport(ctx, "r1")
	if err != nil {
		t.Fatalf("ReadReport() error = %v", err)
	}
	if string(got) != "original" {
		t.Errorf("ReadReport() = %q, want %q", got, "original")
	}
}

func TestStore_NotFound(t *testing.T) {
	s := New()
	defer s.Close()

	_, err := s.ReadReport(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("ReadReport() error = %v, want ErrNotFound", err)
	}
}
