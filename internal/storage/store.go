// Package storage persists uploaded images and generated agreement documents
// on the local filesystem under a single root directory. Names are always
// resolved relative to the root and rejected when they escape it.
package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidName is returned when a file name is empty or resolves outside
// the store root.
var ErrInvalidName = errors.New("invalid file name")

// Store is a local-filesystem blob store rooted at a directory.
type Store struct {
	root string
}

// NewStore creates the root directory if needed and returns a Store.
func NewStore(root string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: abs}, nil
}

// Root returns the absolute root directory.
func (s *Store) Root() string { return s.root }

// resolve maps a stored name onto an absolute path inside the root,
// rejecting traversal attempts.
func (s *Store) resolve(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.Contains(name, "..") || filepath.IsAbs(name) {
		return "", ErrInvalidName
	}
	p := filepath.Join(s.root, filepath.FromSlash(name))
	if !strings.HasPrefix(p, s.root+string(filepath.Separator)) {
		return "", ErrInvalidName
	}
	return p, nil
}

// Save streams r into the named file, creating parent directories as needed.
func (s *Store) Save(name string, r io.Reader) error {
	p, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.Create(p)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(p)
		return err
	}
	return f.Close()
}

// SaveBytes writes b into the named file.
func (s *Store) SaveBytes(name string, b []byte) error {
	p, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o644)
}

// Exists reports whether the named file is present.
func (s *Store) Exists(name string) bool {
	p, err := s.resolve(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

// Open opens the named file for reading.
func (s *Store) Open(name string) (io.ReadCloser, error) {
	p, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

// Path returns the absolute path of the named file without touching disk.
func (s *Store) Path(name string) (string, error) {
	return s.resolve(name)
}

// Remove deletes the named file; missing files are not an error.
func (s *Store) Remove(name string) error {
	p, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
