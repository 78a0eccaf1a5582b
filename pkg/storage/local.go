package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"
)

// LocalStore writes media into a directory on disk
type LocalStore struct {
	root      string // directory on disk, e.g. "./uploads"
	urlPrefix string // prefix of the returned reference, e.g. "uploads"
	now       func() time.Time
}

// NewLocalStore creates the upload directory if needed
func NewLocalStore(root, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", root, err)
	}
	return &LocalStore{root: root, urlPrefix: urlPrefix, now: time.Now}, nil
}

// Root returns the directory media is written to
func (s *LocalStore) Root() string {
	return s.root
}

// Save implements Store
func (s *LocalStore) Save(ctx context.Context, body io.Reader, originalName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := UniqueName(originalName, s.now())
	full := filepath.Join(s.root, name)

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}

	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		_ = os.Remove(full)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("close %s: %w", name, err)
	}

	return path.Join(s.urlPrefix, name), nil
}
