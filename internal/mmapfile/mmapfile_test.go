package mmapfile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payload.bin")
	want := []byte("mapped file contents")
	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	if r.Size() != int64(len(want)) {
		t.Errorf("Size() = %d, want %d", r.Size(), len(want))
	}
	if !bytes.Equal(r.Bytes(), want) {
		t.Errorf("Bytes() = %q, want %q", r.Bytes(), want)
	}
}

func TestCloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payload.bin")
	if err := os.WriteFile(path, []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if r.Bytes() != nil {
		t.Error("Bytes() after Close should be nil")
	}
}

func TestOpenMissing(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "absent.bin")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestOpenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.bin")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := Open(path); err == nil {
		t.Fatal("expected error for empty file")
	}
}
