package asset

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	domain "github.com/storefront/backend/internal/domain/asset"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBlobStorage is an in-memory BlobStorage for exercising the service
// without a filesystem or network.
type fakeBlobStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	baseURL string

	failKeys   map[string]bool
	failDelete bool
	listErr    error
}

func newFakeBlobStorage(baseURL string) *fakeBlobStorage {
	return &fakeBlobStorage{
		objects:  make(map[string][]byte),
		baseURL:  baseURL,
		failKeys: make(map[string]bool),
	}
}

func (f *fakeBlobStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for pattern := range f.failKeys {
		if strings.Contains(key, pattern) {
			return errors.New("simulated upload failure")
		}
	}
	f.objects[key] = data
	return nil
}

func (f *fakeBlobStorage) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return errors.New("simulated delete failure")
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeBlobStorage) List(ctx context.Context, prefix string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var keys []string
	for key := range f.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (f *fakeBlobStorage) URL(key string) string {
	return f.baseURL + "/" + key
}

func (f *fakeBlobStorage) KeyFromURL(rawURL string) (string, bool) {
	if !strings.HasPrefix(rawURL, f.baseURL+"/") {
		return "", false
	}
	return strings.TrimPrefix(rawURL, f.baseURL+"/"), true
}

func (f *fakeBlobStorage) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func newTestService(store *fakeBlobStorage) *Service {
	return NewService(
		map[domain.Platform]BlobStorage{domain.PlatformLocal: store},
		domain.PlatformLocal,
		zap.NewNop(),
	)
}

func pngPayload(n int) []byte {
	return make([]byte, n)
}

func TestServiceUpload(t *testing.T) {
	t.Run("uploads a banner and returns its public URL", func(t *testing.T) {
		store := newFakeBlobStorage("/uploads")
		svc := newTestService(store)

		result, err := svc.Upload(context.Background(), UploadInput{
			Category:    domain.CategoryBanner,
			OwnerKey:    "summer-sale",
			Ext:         "png",
			ContentType: "image/png",
			Data:        pngPayload(512),
		})

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(result.Path, "banner/summer-sale_"))
		assert.Equal(t, "/uploads/"+result.Path, result.URL)
		assert.Equal(t, 1, store.count())
	})

	t.Run("rejects oversized payload without touching storage", func(t *testing.T) {
		store := newFakeBlobStorage("/uploads")
		svc := newTestService(store)

		_, err := svc.Upload(context.Background(), UploadInput{
			Category:    domain.CategoryUserAvatar,
			OwnerKey:    "user-1",
			ContentType: "image/png",
			Data:        pngPayload(6 << 20),
		})

		assert.ErrorIs(t, err, shared.ErrPayloadTooLarge)
		assert.Zero(t, store.count())
	})

	t.Run("rejects disallowed content type without touching storage", func(t *testing.T) {
		store := newFakeBlobStorage("/uploads")
		svc := newTestService(store)

		_, err := svc.Upload(context.Background(), UploadInput{
			Category:    domain.CategoryBanner,
			OwnerKey:    "summer-sale",
			ContentType: "text/html",
			Data:        pngPayload(512),
		})

		assert.ErrorIs(t, err, shared.ErrUnsupportedMediaType)
		assert.Zero(t, store.count())
	})

	t.Run("product images upload three renditions under one salt", func(t *testing.T) {
		store := newFakeBlobStorage("/uploads")
		svc := newTestService(store)

		result, err := svc.Upload(context.Background(), UploadInput{
			Category:    domain.CategoryProduct,
			OwnerKey:    "STYLE-100",
			Ext:         "jpg",
			ContentType: "image/jpeg",
			Data:        pngPayload(2048),
		})

		require.NoError(t, err)
		require.Len(t, result.Paths, 3)
		assert.Equal(t, 3, store.count())

		// All three renditions share everything up to the size suffix.
		stem := strings.TrimSuffix(result.Paths[0], "_l.jpg")
		assert.Equal(t, stem+"_l.jpg", result.Paths[0])
		assert.Equal(t, stem+"_m.jpg", result.Paths[1])
		assert.Equal(t, stem+"_s.jpg", result.Paths[2])
		assert.Equal(t, result.URLs[0], result.URL)
	})

	t.Run("re-uploading a product image replaces the previous salted set", func(t *testing.T) {
		store := newFakeBlobStorage("/uploads")
		svc := newTestService(store)
		in := UploadInput{
			Category:    domain.CategoryProduct,
			OwnerKey:    "STYLE-100",
			Ext:         "jpg",
			ContentType: "image/jpeg",
			Data:        pngPayload(2048),
		}

		first, err := svc.Upload(context.Background(), in)
		require.NoError(t, err)

		second, err := svc.Upload(context.Background(), in)
		require.NoError(t, err)

		assert.Equal(t, 3, store.count(), "only the fresh renditions remain")
		for _, path := range first.Paths {
			_, remains := store.objects[path]
			assert.False(t, remains, "stale rendition %s must be gone", path)
		}
		for _, path := range second.Paths {
			_, remains := store.objects[path]
			assert.True(t, remains)
		}
	})

	t.Run("replacing one product leaves other owners untouched", func(t *testing.T) {
		store := newFakeBlobStorage("/uploads")
		store.objects["product/STYLE-200_333333_l.jpg"] = pngPayload(1)
		svc := newTestService(store)

		_, err := svc.Upload(context.Background(), UploadInput{
			Category:    domain.CategoryProduct,
			OwnerKey:    "STYLE-100",
			Ext:         "jpg",
			ContentType: "image/jpeg",
			Data:        pngPayload(2048),
		})

		require.NoError(t, err)
		assert.Equal(t, 4, store.count())
		_, remains := store.objects["product/STYLE-200_333333_l.jpg"]
		assert.True(t, remains)
	})

	t.Run("a failed rendition rolls back its uploaded siblings", func(t *testing.T) {
		store := newFakeBlobStorage("/uploads")
		store.failKeys["_m."] = true
		svc := newTestService(store)

		_, err := svc.Upload(context.Background(), UploadInput{
			Category:    domain.CategoryProduct,
			OwnerKey:    "STYLE-100",
			Ext:         "jpg",
			ContentType: "image/jpeg",
			Data:        pngPayload(2048),
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "UPLOAD_FAILED", domainErr.Code)
		assert.Zero(t, store.count(), "surviving renditions must be cleaned up")
	})

	t.Run("fails when no backend is configured for the platform", func(t *testing.T) {
		svc := NewService(map[domain.Platform]BlobStorage{}, domain.PlatformCloud, zap.NewNop())

		_, err := svc.Upload(context.Background(), UploadInput{
			Category:    domain.CategoryBanner,
			OwnerKey:    "summer-sale",
			ContentType: "image/png",
			Data:        pngPayload(512),
		})

		assert.ErrorIs(t, err, shared.ErrNotConfigured)
	})
}

func TestServiceDelete(t *testing.T) {
	t.Run("deletes by URL via the owning backend", func(t *testing.T) {
		store := newFakeBlobStorage("/uploads")
		svc := newTestService(store)

		result, err := svc.Upload(context.Background(), UploadInput{
			Category:    domain.CategoryBanner,
			OwnerKey:    "summer-sale",
			ContentType: "image/png",
			Data:        pngPayload(512),
		})
		require.NoError(t, err)

		assert.True(t, svc.Delete(context.Background(), result.URL))
		assert.Zero(t, store.count())
	})

	t.Run("routes a cloud-shaped URL to the cloud backend", func(t *testing.T) {
		local := newFakeBlobStorage("/uploads")
		cloud := newFakeBlobStorage("https://cdn.example.com")
		cloud.objects["banner/old_1.png"] = pngPayload(1)
		svc := NewService(map[domain.Platform]BlobStorage{
			domain.PlatformLocal: local,
			domain.PlatformCloud: cloud,
		}, domain.PlatformLocal, zap.NewNop())

		assert.True(t, svc.Delete(context.Background(), "https://cdn.example.com/banner/old_1.png"))
		assert.Zero(t, cloud.count())
	})

	t.Run("unrecognized URL is reported as not deleted, not as an error", func(t *testing.T) {
		svc := newTestService(newFakeBlobStorage("/uploads"))

		assert.False(t, svc.Delete(context.Background(), "https://elsewhere.example.com/x.png"))
	})

	t.Run("backend failure is reported as not deleted", func(t *testing.T) {
		store := newFakeBlobStorage("/uploads")
		store.objects["banner/x_1.png"] = pngPayload(1)
		store.failDelete = true
		svc := newTestService(store)

		assert.False(t, svc.Delete(context.Background(), "/uploads/banner/x_1.png"))
	})
}

func TestServiceDeleteOldVersions(t *testing.T) {
	t.Run("removes every salt and size of the asset, leaving others alone", func(t *testing.T) {
		store := newFakeBlobStorage("/uploads")
		store.objects["product/STYLE-100_111111_l.jpg"] = pngPayload(1)
		store.objects["product/STYLE-100_111111_m.jpg"] = pngPayload(1)
		store.objects["product/STYLE-100_222222_l.jpg"] = pngPayload(1)
		store.objects["product/STYLE-200_333333_l.jpg"] = pngPayload(1)
		svc := newTestService(store)

		err := svc.DeleteOldVersions(context.Background(), domain.CategoryProduct, "STYLE-100", "")

		require.NoError(t, err)
		assert.Equal(t, 1, store.count())
		_, remains := store.objects["product/STYLE-200_333333_l.jpg"]
		assert.True(t, remains)
	})

	t.Run("zero matches is a no-op", func(t *testing.T) {
		store := newFakeBlobStorage("/uploads")
		svc := newTestService(store)

		assert.NoError(t, svc.DeleteOldVersions(context.Background(), domain.CategoryProduct, "STYLE-999", ""))
	})

	t.Run("list failure is swallowed", func(t *testing.T) {
		store := newFakeBlobStorage("/uploads")
		store.listErr = errors.New("simulated list failure")
		svc := newTestService(store)

		assert.NoError(t, svc.DeleteOldVersions(context.Background(), domain.CategoryProduct, "STYLE-100", ""))
	})
}
