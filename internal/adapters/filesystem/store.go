// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/zeebo/xxh3"

	"github.com/example/crudkit/internal/ports/secondary"
)

// Store implements secondary.FileStore on the local filesystem.
// Writes go through a temporary file and a rename, so readers never observe
// a half-written route table.
type Store struct {
	dirMode  os.FileMode
	fileMode os.FileMode
}

// NewStore creates a new filesystem store.
func NewStore() *Store {
	return &Store{dirMode: 0755, fileMode: 0644}
}

// WriteFile writes data to path, creating parent directories. Content whose
// hash matches the existing file is not rewritten.
func (s *Store) WriteFile(ctx context.Context, path string, data []byte) (secondary.WriteResult, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	created := false
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		if len(existing) == len(data) && xxh3.Hash(existing) == xxh3.Hash(data) {
			return secondary.WriteUnchanged, nil
		}
	case errors.Is(err, fs.ErrNotExist):
		created = true
	default:
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, s.dirMode); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(s.fileMode); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("failed to replace %s: %w", path, err)
	}

	if created {
		return secondary.WriteCreated, nil
	}
	return secondary.WriteUpdated, nil
}

// ReadFile returns the content at path.
func (s *Store) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// Exists checks if a file or directory exists at path.
func (s *Store) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", path, err)
	}
	return true, nil
}

var _ secondary.FileStore = (*Store)(nil)
