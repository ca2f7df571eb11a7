package zstdcodec

import (
	"bytes"
	"io"
	"testing"
)

func TestCodec_Extension(t *testing.T) {
	c := New()
	if got := c.Extension(); got != "zst" {
		t.Errorf("Extension() = %q, want %q", got, "zst")
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	c := New()
	original := []byte(`{"ply":1,"move":"e4","lines":[{"rank":1,"score":"+0.31"}]}`)

	var compressed bytes.Buffer
	writer, err := c.Writer(&compressed)
	if err != nil {
		t.Fatalf("Writer() error = %v", err)
	}
	if _, err := writer.Write(original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reader, err := c.Reader(&compressed)
	if err != nil {
		t.Fatalf("Reader() error = %v", err)
	}
	decompressed, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if err := reader.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if !bytes.Equal(decompressed, original) {
		t.Errorf("Round-trip failed: got %q, want %q", decompressed, original)
	}
}

func TestCodec_RoundTrip_LargeData(t *testing.T) {
	c := New()
	original := bytes.Repeat([]byte(`{"rank":1,"move":"Nf3","score":"+0.22"}`+"\n"), 5000)

	var compressed bytes.Buffer
	writer, err := c.Writer(&compressed)
	if err != nil {
		t.Fatalf("Writer() error = %v", err)
	}
	if _, err := writer.Write(original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Repetitive report rows should compress well.
	if compressed.Len() >= len(original) {
		t.Errorf("Expected compression, got %d bytes from %d bytes", compressed.Len(), len(original))
	}

	reader, err := c.Reader(&compressed)
	if err != nil {
		t.Fatalf("Reader() error = %v", err)
	}
	decompressed, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	reader.Close()

	if !bytes.Equal(decompressed, original) {
		t.Error("Round-trip failed for large data")
	}
}
