// Package filesystem provides a local directory bucket for the relay.
// Writes are atomic using temp files, and deletes of missing keys are no-ops
// so that it behaves like an S3 bucket during development and tests.
package filesystem

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/bananamirror/relay"
)

// Store provides file system bucket operations.
type Store struct {
	root *os.Root
}

// NewFileStorage creates a new Store with the given root directory.
// The root provides sandboxed file operations preventing path traversal.
func NewFileStorage(root *os.Root) *Store {
	return &Store{root: root}
}

// Open creates dir if needed and returns a Store rooted at it.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create bucket directory: %w", err)
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("open bucket directory: %w", err)
	}

	return NewFileStorage(root), nil
}

// Close releases the underlying root.
func (s *Store) Close() error {
	return s.root.Close()
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (n int, err error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

// Put atomically writes data under key using a temp file and rename, replacing any
// existing object. Intermediate directories are created for keys containing '/'.
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if err := checkKey(key); err != nil {
		return err
	}

	tmpFile := tmpFileName()
	t, createErr := s.root.Create(tmpFile)
	if createErr != nil {
		return fmt.Errorf("could not open temp file: %w", createErr)
	}

	success := false
	defer func() {
		if closeErr := t.Close(); closeErr != nil {
			slog.Warn("failed to close tmp file", "err", closeErr)
		}
		if !success {
			if rmErr := s.root.Remove(tmpFile); rmErr != nil {
				slog.Warn("failed to remove tmp file", "err", rmErr)
			}
		}
	}()

	if _, err := io.Copy(t, &ctxReader{ctx: ctx, r: bytes.NewReader(data)}); err != nil {
		return fmt.Errorf("could not copy file contents: %w", err)
	}

	if err := t.Sync(); err != nil {
		return fmt.Errorf("could not sync written file: %w", err)
	}

	destDir := filepath.Dir(key)
	if destDir != "." {
		if err := s.root.MkdirAll(destDir, 0o755); err != nil {
			return fmt.Errorf("could not create intermediate directories: %w", err)
		}
	}

	if renameErr := s.root.Rename(tmpFile, key); renameErr != nil {
		return fmt.Errorf("failed to rename file: %w", renameErr)
	}

	success = true
	return nil
}

// Delete removes every key. Missing keys are skipped. All keys are checked before
// anything is removed.
func (s *Store) Delete(ctx context.Context, keys []string) error {
	for _, key := range keys {
		if err := checkKey(key); err != nil {
			return err
		}
	}

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := s.root.Remove(key)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("could not delete %s: %w", key, err)
		}
	}
	return nil
}

func checkKey(key string) error {
	if !filepath.IsLocal(key) {
		return fmt.Errorf("key %q: %w", key, relay.ErrInvalidInput)
	}
	return nil
}

func tmpFileName() string {
	return fmt.Sprintf(".t%s", uuid.New().String())
}
