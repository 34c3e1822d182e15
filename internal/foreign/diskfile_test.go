package foreign

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiskFileOpener_WritesAndFlushesOnClose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wrapper.v")

	w, err := DiskFileOpener{}.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := w.Write([]byte("hello\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "hello\n" {
		t.Errorf("file contents = %q, want %q", got, "hello\n")
	}
}

func TestDiskFileOpener_TruncatesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wrapper.v")
	if err := os.WriteFile(path, []byte("stale content that is much longer"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	w, err := DiskFileOpener{}.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := w.Write([]byte("new\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "new\n" {
		t.Errorf("file contents = %q, want %q", got, "new\n")
	}
}
