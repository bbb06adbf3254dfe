package datamanager

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	assetapp "github.com/storefront/backend/internal/application/asset"
	"github.com/storefront/backend/internal/domain/asset"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	objects      map[string][]byte
	contentTypes map[string]string
	baseURL      string
}

func newFakeStore(baseURL string) *fakeStore {
	return &fakeStore{
		objects:      make(map[string][]byte),
		contentTypes: make(map[string]string),
		baseURL:      baseURL,
	}
}

func (f *fakeStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	f.objects[key] = data
	f.contentTypes[key] = contentType
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for key := range f.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (f *fakeStore) URL(key string) string { return f.baseURL + "/" + key }

func (f *fakeStore) KeyFromURL(rawURL string) (string, bool) {
	if !strings.HasPrefix(rawURL, f.baseURL+"/") {
		return "", false
	}
	return strings.TrimPrefix(rawURL, f.baseURL+"/"), true
}

type fakeSnapshotSource struct {
	tables    map[string][]byte
	snapshots int
}

func (f *fakeSnapshotSource) Tables() []string {
	names := make([]string, 0, len(f.tables))
	for name := range f.tables {
		names = append(names, name)
	}
	return names
}

func (f *fakeSnapshotSource) Snapshot(ctx context.Context, table string) ([]byte, error) {
	f.snapshots++
	return f.tables[table], nil
}

func newFileFixture() (*FileService, *fakeStore, *fakeStore, *fakeSnapshotSource) {
	local := newFakeStore("/uploads")
	cloud := newFakeStore("https://cdn.example.com")
	source := &fakeSnapshotSource{tables: map[string][]byte{
		"cart_sessions": []byte(`[{"id":"1"}]`),
	}}
	svc := NewFileService(map[asset.Platform]assetapp.BlobStorage{
		asset.PlatformLocal: local,
		asset.PlatformCloud: cloud,
	}, asset.PlatformLocal, source, zap.NewNop())
	return svc, local, cloud, source
}

func TestFileServiceList(t *testing.T) {
	t.Run("lists only export files with their URLs", func(t *testing.T) {
		svc, local, _, _ := newFileFixture()
		local.objects["exports/cart_sessions_20260101T000000.json"] = []byte("{}")
		local.objects["banner/hero_1.png"] = []byte("png")

		files, err := svc.List(context.Background(), "")

		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "cart_sessions_20260101T000000.json", files[0].Name)
		assert.Equal(t, "exports/cart_sessions_20260101T000000.json", files[0].Path)
		assert.Equal(t, "/uploads/exports/cart_sessions_20260101T000000.json", files[0].URL)
	})

	t.Run("routes to the requested data source", func(t *testing.T) {
		svc, _, cloud, _ := newFileFixture()
		cloud.objects["exports/snapshot.json"] = []byte("{}")

		files, err := svc.List(context.Background(), "cloud")

		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "https://cdn.example.com/exports/snapshot.json", files[0].URL)
	})

	t.Run("an unknown data source falls back to the default platform", func(t *testing.T) {
		svc, local, _, _ := newFileFixture()
		local.objects["exports/snapshot.json"] = []byte("{}")

		files, err := svc.List(context.Background(), "ftp")

		require.NoError(t, err)
		assert.Len(t, files, 1)
	})

	t.Run("fails when the platform has no backend", func(t *testing.T) {
		svc := NewFileService(map[asset.Platform]assetapp.BlobStorage{}, asset.PlatformLocal, &fakeSnapshotSource{}, zap.NewNop())

		_, err := svc.List(context.Background(), "")

		assert.ErrorIs(t, err, shared.ErrNotConfigured)
	})
}

func TestFileServiceDelete(t *testing.T) {
	t.Run("deletes a file by name under the export prefix", func(t *testing.T) {
		svc, local, _, _ := newFileFixture()
		local.objects["exports/snapshot.json"] = []byte("{}")

		require.NoError(t, svc.Delete(context.Background(), "", "snapshot.json"))

		assert.Empty(t, local.objects)
	})

	t.Run("path components in the name are stripped", func(t *testing.T) {
		svc, local, _, _ := newFileFixture()
		local.objects["exports/snapshot.json"] = []byte("{}")

		require.NoError(t, svc.Delete(context.Background(), "", "../../exports/snapshot.json"))

		assert.Empty(t, local.objects, "only the base name may address a file")
	})

	t.Run("rejects empty and dot names", func(t *testing.T) {
		svc, _, _, _ := newFileFixture()

		for _, name := range []string{"", " ", ".", ".."} {
			assert.Error(t, svc.Delete(context.Background(), "", name), "name %q", name)
		}
	})
}

func TestFileServiceExport(t *testing.T) {
	t.Run("writes a timestamped JSON snapshot to the default platform", func(t *testing.T) {
		svc, local, _, source := newFileFixture()

		info, err := svc.Export(context.Background(), "cart_sessions")

		require.NoError(t, err)
		assert.Equal(t, 1, source.snapshots)
		assert.True(t, strings.HasPrefix(info.Path, "exports/cart_sessions_"))
		assert.True(t, strings.HasSuffix(info.Path, ".json"))
		assert.Equal(t, []byte(`[{"id":"1"}]`), local.objects[info.Path])
		assert.Equal(t, "application/json", local.contentTypes[info.Path])
	})

	t.Run("rejects a table outside the allow-list", func(t *testing.T) {
		svc, local, _, _ := newFileFixture()

		_, err := svc.Export(context.Background(), "pg_catalog.pg_tables")

		assert.Error(t, err)
		assert.Empty(t, local.objects)
	})
}
