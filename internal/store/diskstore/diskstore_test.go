package diskstore

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/discochess/kibitz/internal/codec/noopcodec"
	"github.com/discochess/kibitz/internal/codec/zstdcodec"
	"github.com/discochess/kibitz/internal/store"
)

func TestStore_WriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, zstdcodec.New())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	data := []byte(`{"ply":1,"move":"e4"}` + "\n" + `{"ply":2,"move":"e5"}`)

	if err := s.WriteReport(ctx, "magnus-2024-01", data); err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}

	got, err := s.ReadReport(ctx, "magnus-2024-01")
	if err != nil {
		t.Fatalf("ReadReport() error = %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("ReadReport() = %q, want %q", got, data)
	}
}

func TestStore_WriteReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, noopcodec.New())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.WriteReport(ctx, "r1", []byte("old")); err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}
	if err := s.WriteReport(ctx, "r1", []byte("new")); err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}

	got, err := s.ReadReport(ctx, "r1")
	if err != nil {
		t.Fatalf("ReadReport() error = %v", err)
	}
	if string(got) != "new" {
		t.Errorf("ReadReport() = %q, want %q", got, "new")
	}
}

func TestStore_ReadReportNotFound(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, noopcodec.New())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	_, err = s.ReadReport(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("ReadReport() error = %v, want ErrNotFound", err)
	}
}

func TestStore_InvalidID(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, noopcodec.New())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	for _, id := range []string{"", "..", "a/b", `a\b`} {
		if err := s.WriteReport(ctx, id, []byte("x")); !errors.Is(err, store.ErrInvalidID) {
			t.Errorf("WriteReport(%q) error = %v, want ErrInvalidID", id, err)
		}
		if _, err := s.ReadReport(ctx, id); !errors.Is(err, store.ErrInvalidID) {
			t.Errorf("ReadReport(%q) error = %v, want ErrInvalidID", id, err)
		}
	}
}

func TestNew_InvalidPath(t *testing.T) {
	_, err := New("/nonexistent/path", noopcodec.New())
	if err == nil {
		t.Error("New() with invalid path should return error")
	}
}

func TestNew_NotDirectory(t *testing.T) {
	// Create a file, not a directory.
	f, err := os.CreateTemp("", "test")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	defer os.Remove(f.Name())

	_, err = New(f.Name(), noopcodec.New())
	if err == nil {
		t.Error("New() with file (not directory) should return error")
	}
}
