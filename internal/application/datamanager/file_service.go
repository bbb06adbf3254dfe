// Package datamanager serves the admin data-manager surface: exported
// table snapshots stored as JSON files on either storage platform.
package datamanager

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	assetapp "github.com/storefront/backend/internal/application/asset"
	"github.com/storefront/backend/internal/domain/asset"
	"github.com/storefront/backend/internal/domain/shared"
)

// exportPrefix is where snapshot files live within a storage backend
const exportPrefix = "exports/"

// SnapshotSource produces JSON snapshots of persisted tables.
// Implemented by the persistence layer.
type SnapshotSource interface {
	// Tables lists the table names available for export
	Tables() []string

	// Snapshot renders the current contents of table as JSON
	Snapshot(ctx context.Context, table string) ([]byte, error)
}

// FileInfo describes one stored snapshot file
type FileInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
	URL  string `json:"url"`
}

// FileService lists, deletes and produces snapshot files. The data
// source is chosen per request, so an admin can inspect local files
// even when uploads run against cloud storage.
type FileService struct {
	stores   map[asset.Platform]assetapp.BlobStorage
	platform asset.Platform
	source   SnapshotSource
	logger   *zap.Logger
}

// NewFileService creates a new FileService. platform is the default
// data source when a request names none.
func NewFileService(
	stores map[asset.Platform]assetapp.BlobStorage,
	platform asset.Platform,
	source SnapshotSource,
	logger *zap.Logger,
) *FileService {
	return &FileService{
		stores:   stores,
		platform: platform,
		source:   source,
		logger:   logger,
	}
}

// store resolves the backend for a dataSource query value
func (s *FileService) store(dataSource string) (assetapp.BlobStorage, asset.Platform, error) {
	platform := asset.ParsePlatform(dataSource, s.platform)
	st, ok := s.stores[platform]
	if !ok {
		return nil, platform, shared.ErrNotConfigured
	}
	return st, platform, nil
}

// List returns the snapshot files stored on the given data source
func (s *FileService) List(ctx context.Context, dataSource string) ([]FileInfo, error) {
	st, _, err := s.store(dataSource)
	if err != nil {
		return nil, err
	}
	keys, err := st.List(ctx, exportPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshot files: %w", err)
	}
	files := make([]FileInfo, 0, len(keys))
	for _, key := range keys {
		files = append(files, FileInfo{
			Name: path.Base(key),
			Path: key,
			URL:  st.URL(key),
		})
	}
	return files, nil
}

// Delete removes one snapshot file by name from the given data source.
// Only files under the export prefix are reachable.
func (s *FileService) Delete(ctx context.Context, dataSource, name string) error {
	name = path.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." {
		return shared.NewDomainError("INVALID_FILE_NAME", "A snapshot file name is required")
	}
	st, platform, err := s.store(dataSource)
	if err != nil {
		return err
	}
	if err := st.Delete(ctx, exportPrefix+name); err != nil {
		return fmt.Errorf("failed to delete snapshot file: %w", err)
	}
	s.logger.Info("deleted snapshot file",
		zap.String("name", name),
		zap.String("platform", string(platform)))
	return nil
}

// Export snapshots one table to a timestamped JSON file on the default
// platform and returns its descriptor.
func (s *FileService) Export(ctx context.Context, table string) (*FileInfo, error) {
	if !s.exportable(table) {
		return nil, shared.NewDomainError("INVALID_TABLE", "Unknown table for export")
	}
	data, err := s.source.Snapshot(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot table %s: %w", table, err)
	}

	st, _, err := s.store("")
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%s%s_%s.json", exportPrefix, table, time.Now().UTC().Format("20060102T150405"))
	if err := st.Upload(ctx, key, data, "application/json"); err != nil {
		return nil, fmt.Errorf("failed to store snapshot file: %w", err)
	}

	s.logger.Info("exported table snapshot",
		zap.String("table", table),
		zap.String("path", key),
		zap.Int("bytes", len(data)))
	return &FileInfo{Name: path.Base(key), Path: key, URL: st.URL(key)}, nil
}

func (s *FileService) exportable(table string) bool {
	for _, t := range s.source.Tables() {
		if t == table {
			return true
		}
	}
	return false
}
