// AngelaMos | 2026
// local.go

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStore keeps images on disk. The directory is served statically at
// urlPrefix.
type LocalStore struct {
	dir       string
	urlPrefix string
	maxSize   int64
}

func NewLocalStore(dir, urlPrefix string, maxSize int64) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}

	return &LocalStore{
		dir:       dir,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		maxSize:   maxSize,
	}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) URLPrefix() string {
	return s.urlPrefix
}

func (s *LocalStore) Save(
	_ context.Context,
	originalName, _ string,
	r io.Reader,
) (string, error) {
	key, err := NewKey(originalName)
	if err != nil {
		return "", err
	}

	data, err := readLimited(r, s.maxSize)
	if err != nil {
		return "", err
	}

	//nolint:gosec // G306: uploaded images are served publicly
	f, err := os.OpenFile(filepath.Join(s.dir, key), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		//nolint:errcheck // best-effort cleanup of a partial write
		_ = f.Close()
		//nolint:errcheck // best-effort cleanup of a partial write
		_ = os.Remove(filepath.Join(s.dir, key))
		return "", fmt.Errorf("write image file: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close image file: %w", err)
	}

	return key, nil
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	if key == "" {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, filepath.Base(key)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete image file: %w", err)
	}

	return nil
}

func (s *LocalStore) URL(key string) string {
	if key == "" {
		return ""
	}
	return path.Join(s.urlPrefix, key)
}

func (s *LocalStore) Ping(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("stat uploads dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("uploads path %q is not a directory", s.dir)
	}
	return nil
}
