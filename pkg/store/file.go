package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/jsonlens/pkg/errors"
)

// File keeps the document in a single file on disk.
type File struct {
	mu   sync.RWMutex
	path string
}

// NewFile returns a file-backed document. The parent directory is created
// if needed; the file itself is created on the first write.
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "file store needs a path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "create document dir")
	}
	return &File{path: path}, nil
}

// Path returns the file location.
func (f *File) Path() string { return f.path }

func (f *File) Text(context.Context) (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", notFound(f.path)
		}
		return "", errors.Wrap(errors.ErrCodeStore, err, "read document file")
	}
	return string(data), nil
}

// SetContents writes to a temporary file in the same directory and renames it
// over the document, so readers never observe a partial write.
func (f *File) SetContents(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".jsonlens-*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "create temp file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeStore, err, "write temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "close temp file")
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "chmod temp file")
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return errors.Wrap(errors.ErrCodeStore, fmt.Errorf("rename %s: %w", tmpName, err), "replace document file")
	}
	return nil
}

func (f *File) Close() error { return nil }
