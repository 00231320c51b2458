package storage

import (
	"context"       // Request-scoped context
	"errors"        // Error matching
	"fmt"           // Error wrapping
	"io"            // Blob streams
	"io/fs"         // Not-exist errors
	"os"            // File operations
	"path/filepath" // Path joining
	"strings"       // Key validation
)

var _ BlobStore = (*DiskStore)(nil)

// DiskStore keeps blobs as files under a root directory
type DiskStore struct {
	root string // Upload directory
}

// NewDiskStore creates the root directory if needed
func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) path(key string) (string, error) {
	// Keys are flat file names, never paths
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return filepath.Join(s.root, key), nil
}

// Put writes the blob through a temp file so readers never see a partial file
func (s *DiskStore) Put(_ context.Context, key, _ string, r io.Reader) error {
	dst, err := s.path(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close blob: %w", err)
	}
	return os.Rename(tmp.Name(), dst) // Atomic on the same filesystem
}

func (s *DiskStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound // Unknown key
	}
	return f, err
}

// Delete removes the blob; a missing blob is not an error
func (s *DiskStore) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
