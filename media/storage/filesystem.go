package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/imagio/imagio/media/domain"
)

var _ Store = (*FilesystemStore)(nil)

// FilesystemStore keeps objects as files under a root directory. Keys
// map to relative paths; intermediate directories are created on write.
type FilesystemStore struct {
	root string
}

// NewFilesystemStore creates a store rooted at an absolute directory,
// creating it if needed.
func NewFilesystemStore(root string) (*FilesystemStore, error) {
	if root == "" {
		return nil, domain.ConfigErrorf("filesystem store requires a root path")
	}
	if !filepath.IsAbs(root) {
		return nil, domain.ConfigErrorf("filesystem store root %q must be absolute", root)
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, domain.ConfigErrorf("failed to create store root %q: %v", root, err)
	}
	return &FilesystemStore{root: root}, nil
}

func (s *FilesystemStore) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

func (s *FilesystemStore) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.NotFoundf("key %q", key)
	}
	if err != nil {
		return nil, domain.BackendErrorf("failed to read %q: %v", key, err)
	}
	return data, nil
}

func (s *FilesystemStore) Write(ctx context.Context, key string, data []byte) error {
	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return domain.BackendErrorf("failed to create directory for %q: %v", key, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return domain.BackendErrorf("failed to write %q: %v", key, err)
	}
	return nil
}

func (s *FilesystemStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, domain.BackendErrorf("failed to stat %q: %v", key, err)
	}
	return true, nil
}

func (s *FilesystemStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return domain.NotFoundf("key %q", key)
	}
	if err != nil {
		return domain.BackendErrorf("failed to delete %q: %v", key, err)
	}
	return nil
}
