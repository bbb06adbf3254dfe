package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	assetapp "github.com/storefront/backend/internal/application/asset"
)

// Ensure LocalBlobStorage implements BlobStorage
var _ assetapp.BlobStorage = (*LocalBlobStorage)(nil)

// LocalBlobStorage implements BlobStorage on the local filesystem. Files
// live under a root directory served statically at a base URL path.
type LocalBlobStorage struct {
	root    string
	baseURL string
	logger  *zap.Logger
}

// NewLocalBlobStorage creates a filesystem-backed blob storage rooted at
// dir and publicly served under baseURL (e.g. "/uploads").
func NewLocalBlobStorage(dir, baseURL string, logger *zap.Logger) (*LocalBlobStorage, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalBlobStorage{
		root:    filepath.Clean(dir),
		baseURL: "/" + strings.Trim(baseURL, "/"),
		logger:  logger,
	}, nil
}

// path resolves a storage key to a filesystem path, rejecting keys that
// would escape the root.
func (l *LocalBlobStorage) path(key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	p := filepath.Join(l.root, filepath.FromSlash(key))
	if !strings.HasPrefix(p, l.root+string(filepath.Separator)) {
		return "", fmt.Errorf("storage key %q escapes the storage root", key)
	}
	return p, nil
}

// Upload writes data to disk under key
func (l *LocalBlobStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Delete removes the file stored under key. A missing file is not an
// error; the object is gone either way.
func (l *LocalBlobStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// List returns the keys stored under prefix
func (l *LocalBlobStorage) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var keys []string
	err := filepath.WalkDir(l.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(l.root, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return keys, nil
}

// URL returns the public URL path serving key
func (l *LocalBlobStorage) URL(key string) string {
	return l.baseURL + "/" + key
}

// KeyFromURL maps a public URL back to its storage key. Local assets
// are recognized by the base URL path prefix; absolute URLs pointing at
// other hosts are rejected.
func (l *LocalBlobStorage) KeyFromURL(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	// Local URLs are generated path-only; a host means the asset lives
	// somewhere else, even if the path happens to match.
	if u.Host != "" {
		return "", false
	}
	if !strings.HasPrefix(u.Path, l.baseURL+"/") {
		return "", false
	}
	key := strings.TrimPrefix(u.Path, l.baseURL+"/")
	if key == "" || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}

// Root returns the filesystem root assets are stored under
func (l *LocalBlobStorage) Root() string {
	return l.root
}
