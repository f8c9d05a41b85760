package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewStore_CreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	s, err := NewStore(root)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	info, err := os.Stat(s.Root())
	if err != nil || !info.IsDir() {
		t.Fatalf("root not created: %v", err)
	}
}

func TestStore_RejectsInvalidNames(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	for _, name := range []string{"", "  ", "../escape.txt", "a/../../b", "/etc/passwd"} {
		if err := s.SaveBytes(name, []byte("x")); !errors.Is(err, ErrInvalidName) {
			t.Fatalf("SaveBytes(%q): expected ErrInvalidName, got %v", name, err)
		}
		if _, err := s.Path(name); !errors.Is(err, ErrInvalidName) {
			t.Fatalf("Path(%q): expected ErrInvalidName, got %v", name, err)
		}
		if s.Exists(name) {
			t.Fatalf("Exists(%q): expected false", name)
		}
	}
}

func TestStore_SaveAndOpen(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if err := s.Save("images/p1/photo.jpg", strings.NewReader("jpeg-bytes")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !s.Exists("images/p1/photo.jpg") {
		t.Fatalf("saved file not found")
	}

	rc, err := s.Open("images/p1/photo.jpg")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "jpeg-bytes" {
		t.Fatalf("unexpected content %q", b)
	}
}

func TestStore_SaveBytesAndPath(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if err := s.SaveBytes("agreements/a1.pdf", []byte("%PDF-stub")); err != nil {
		t.Fatalf("save bytes: %v", err)
	}
	p, err := s.Path("agreements/a1.pdf")
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if !strings.HasPrefix(p, s.Root()) {
		t.Fatalf("path %q escapes root %q", p, s.Root())
	}
	if _, err := os.Stat(p); err != nil {
		t.Fatalf("stat: %v", err)
	}
}

func TestStore_Remove(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if err := s.SaveBytes("doc.pdf", []byte("x")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Remove("doc.pdf"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if s.Exists("doc.pdf") {
		t.Fatalf("file still present after remove")
	}

	// Removing a missing file is not an error.
	if err := s.Remove("doc.pdf"); err != nil {
		t.Fatalf("remove missing: %v", err)
	}
}
