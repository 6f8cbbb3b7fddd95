package kvstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore persists each key as one JSON document under a state
// directory. This is the default backend and the closest analog of the
// browser's local storage.
type FileStore struct {
	dir string
}

// NewFileStore ensures the state directory exists and returns the store.
func NewFileStore(dir string) (*FileStore, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, errors.New("state directory is required")
	}
	if err := os.MkdirAll(trimmed, 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	return &FileStore{dir: trimmed}, nil
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *FileStore) Read(key string) ([]byte, bool) {
	raw, err := os.ReadFile(f.path(key))
	if err != nil {
		return nil, false
	}
	return raw, true
}

// Write replaces the key's document atomically via a temp-file rename.
func (f *FileStore) Write(key string, raw []byte) error {
	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}

func (f *FileStore) Remove(key string) error {
	if err := os.Remove(f.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
