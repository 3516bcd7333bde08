package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
	"github.com/xvierd/focus-smile/internal/ports"
)

// fileStore implements ports.KeyValueStore with one file per key on an
// afero filesystem.
type fileStore struct {
	fs  afero.Fs
	dir string
	mu  sync.Mutex
}

// Ensure fileStore implements ports.KeyValueStore.
var _ ports.KeyValueStore = (*fileStore)(nil)

// NewFile creates a store that keeps each key in <dir>/<key>.json on the
// operating system filesystem.
func NewFile(dir string) (ports.KeyValueStore, error) {
	return NewFileOn(afero.NewOsFs(), dir)
}

// NewMemory creates an ephemeral store backed by an in-memory filesystem.
func NewMemory() ports.KeyValueStore {
	store, _ := NewFileOn(afero.NewMemMapFs(), "/")
	return store
}

// NewFileOn creates a file store on an arbitrary afero filesystem.
func NewFileOn(fsys afero.Fs, dir string) (ports.KeyValueStore, error) {
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &fileStore{fs: fsys, dir: dir}, nil
}

func (s *fileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get reads the files for keys. Missing files are skipped.
func (s *fileStore) Get(ctx context.Context, keys ...string) (map[string][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make(map[string][]byte, len(keys))
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := afero.ReadFile(s.fs, s.path(key))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", key, err)
		}
		result[key] = data
	}
	return result, nil
}

// Set writes each value to a temporary file and renames it into place.
func (s *fileStore) Set(ctx context.Context, values map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range values {
		if err := ctx.Err(); err != nil {
			return err
		}
		target := s.path(key)
		tmp := target + ".tmp"
		if err := afero.WriteFile(s.fs, tmp, value, 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
		if err := s.fs.Rename(tmp, target); err != nil {
			_ = s.fs.Remove(tmp)
			return fmt.Errorf("failed to store %s: %w", key, err)
		}
	}
	return nil
}

// Remove deletes the files for keys.
func (s *fileStore) Remove(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		err := s.fs.Remove(s.path(key))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", key, err)
		}
	}
	return nil
}

// Close is a no-op; files are not held open between calls.
func (s *fileStore) Close() error {
	return nil
}
