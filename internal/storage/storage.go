// AngelaMos | 2026
// storage.go

package storage

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"path/filepath"
	"strings"
	"time"

	"github.com/carterperez-dev/volunteer-hub/internal/config"
)

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("image exceeds size limit")
)

// ImageStore persists uploaded project images under generated keys.
type ImageStore interface {
	Save(ctx context.Context, originalName, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
	Ping(ctx context.Context) error
}

var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

var suffixSpace = big.NewInt(1_000_000_000)

func New(ctx context.Context, cfg config.UploadsConfig) (ImageStore, error) {
	switch cfg.Driver {
	case "local":
		return NewLocalStore(cfg.Dir, cfg.URLPrefix, cfg.MaxSizeBytes)
	case "s3":
		return NewS3Store(ctx, cfg.S3, cfg.MaxSizeBytes)
	default:
		return nil, fmt.Errorf("unknown uploads driver %q", cfg.Driver)
	}
}

// NewKey returns "<unix millis>-<9 random digits><ext>" for an allowed image
// extension taken from originalName.
func NewKey(originalName string) (string, error) {
	ext, err := Extension(originalName)
	if err != nil {
		return "", err
	}

	n, err := rand.Int(rand.Reader, suffixSpace)
	if err != nil {
		return "", fmt.Errorf("generate key suffix: %w", err)
	}

	return fmt.Sprintf("%d-%09d%s", time.Now().UnixMilli(), n.Int64(), ext), nil
}

func Extension(originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", fmt.Errorf("%q: %w", ext, ErrUnsupportedType)
	}
	return ext, nil
}

func contentTypeFor(key, declared string) string {
	if strings.HasPrefix(declared, "image/") {
		return declared
	}
	return allowedExtensions[strings.ToLower(filepath.Ext(key))]
}

// readLimited reads all of r, failing with ErrTooLarge past limit bytes.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, ErrTooLarge
	}
	return data, nil
}
