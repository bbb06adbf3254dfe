package asset

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domain "github.com/storefront/backend/internal/domain/asset"
	"github.com/storefront/backend/internal/domain/shared"
)

// BlobStorage is the storage backend contract implemented by the
// infrastructure layer (S3-compatible cloud storage and local disk).
type BlobStorage interface {
	// Upload writes data under key with the given content type
	Upload(ctx context.Context, key string, data []byte, contentType string) error

	// Delete removes the object stored under key
	Delete(ctx context.Context, key string) error

	// List returns the keys stored under prefix
	List(ctx context.Context, prefix string) ([]string, error)

	// URL returns the public URL serving key
	URL(key string) string

	// KeyFromURL maps a public URL back to its storage key. The second
	// return is false when the URL does not belong to this backend.
	KeyFromURL(rawURL string) (string, bool)
}

// Service uploads and deletes assets against the resolved platform. The
// active platform is fixed at construction; deletes route by URL shape
// so assets uploaded under a previous platform remain deletable.
type Service struct {
	stores   map[domain.Platform]BlobStorage
	platform domain.Platform
	logger   *zap.Logger
}

// NewService creates an asset service. stores must contain an entry for
// the default platform.
func NewService(stores map[domain.Platform]BlobStorage, platform domain.Platform, logger *zap.Logger) *Service {
	return &Service{
		stores:   stores,
		platform: platform,
		logger:   logger,
	}
}

// Platform returns the platform uploads are routed to
func (s *Service) Platform() domain.Platform {
	return s.platform
}

// store returns the backend for a platform, falling back to the default
func (s *Service) store(platform domain.Platform) (BlobStorage, error) {
	if st, ok := s.stores[platform]; ok {
		return st, nil
	}
	if st, ok := s.stores[s.platform]; ok {
		return st, nil
	}
	return nil, shared.ErrNotConfigured
}

// Upload validates the payload against the category policy and writes
// it to the active platform. Multi-size categories upload the three
// renditions concurrently under one shared salt; if any of them fails,
// already-uploaded siblings are deleted best-effort before the error is
// returned, so partial sets don't leak to callers.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	policy, err := domain.PolicyFor(in.Category)
	if err != nil {
		return nil, err
	}
	if err := policy.Validate(int64(len(in.Data)), in.ContentType); err != nil {
		return nil, err
	}

	st, err := s.store(s.platform)
	if err != nil {
		return nil, err
	}

	keyIn := domain.KeyInput{
		Category:      in.Category,
		OwnerKey:      in.OwnerKey,
		Disambiguator: in.Disambiguator,
		Ext:           in.Ext,
	}

	if !policy.MultiSize {
		key, err := domain.Key(keyIn)
		if err != nil {
			return nil, err
		}
		if err := st.Upload(ctx, key, in.Data, in.ContentType); err != nil {
			s.logger.Error("asset upload failed",
				zap.String("category", string(in.Category)),
				zap.String("key", key),
				zap.Error(err))
			return nil, shared.NewDomainError("UPLOAD_FAILED", "Failed to store asset")
		}
		return &UploadResult{URL: st.URL(key), Path: key}, nil
	}

	// Renditions are pre-scaled upstream; this layer only guarantees the
	// shared-salt key set.
	keyIn.Salt = domain.NewSalt(in.Category)
	keys := make([]string, len(domain.SizeVariants))
	for i, size := range domain.SizeVariants {
		keys[i], err = domain.SizedKey(keyIn, size)
		if err != nil {
			return nil, err
		}
	}

	uploaded := make([]bool, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		g.Go(func() error {
			if err := st.Upload(gctx, key, in.Data, in.ContentType); err != nil {
				return err
			}
			uploaded[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.compensate(ctx, st, keys, uploaded)
		s.logger.Error("multi-size asset upload failed",
			zap.String("category", string(in.Category)),
			zap.String("owner", in.OwnerKey),
			zap.Error(err))
		return nil, shared.NewDomainError("UPLOAD_FAILED", "Failed to store asset renditions")
	}

	// The new set replaces any earlier one for this asset. Pruning runs
	// only after every rendition is stored, so a failed upload never
	// destroys the version still being served.
	if prefix, perr := domain.Prefix(in.Category, in.OwnerKey, in.Disambiguator); perr == nil {
		s.pruneVersions(ctx, st, prefix, keys)
	}

	result := &UploadResult{URL: st.URL(keys[0]), Path: keys[0]}
	for _, key := range keys {
		result.URLs = append(result.URLs, st.URL(key))
		result.Paths = append(result.Paths, key)
	}
	return result, nil
}

// compensate removes renditions that made it to storage before a
// sibling failed. Failures here are logged and swallowed; the upload
// error is what the caller needs to see.
func (s *Service) compensate(ctx context.Context, st BlobStorage, keys []string, uploaded []bool) {
	for i, key := range keys {
		if !uploaded[i] {
			continue
		}
		if err := st.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to clean up orphaned rendition",
				zap.String("key", key),
				zap.Error(err))
		}
	}
}

// Delete removes the asset behind a public URL. The originating
// platform is inferred from the URL shape; an unrecognized URL or any
// backend error yields false rather than an error, so callers can treat
// cleanup as best-effort and carry on with their primary operation.
func (s *Service) Delete(ctx context.Context, rawURL string) bool {
	for platform, st := range s.stores {
		key, ok := st.KeyFromURL(rawURL)
		if !ok {
			continue
		}
		if err := st.Delete(ctx, key); err != nil {
			s.logger.Warn("asset delete failed",
				zap.String("platform", string(platform)),
				zap.String("key", key),
				zap.Error(err))
			return false
		}
		return true
	}
	s.logger.Debug("asset delete skipped: URL not recognized", zap.String("url", rawURL))
	return false
}

// DeleteOldVersions removes every stored version of a logical asset,
// disregarding salt and size suffix. Called when an asset is retired
// outright, with no replacement to keep. Zero matches is a no-op;
// individual delete failures are logged and skipped.
func (s *Service) DeleteOldVersions(ctx context.Context, category domain.Category, ownerKey, disambiguator string) error {
	prefix, err := domain.Prefix(category, ownerKey, disambiguator)
	if err != nil {
		return err
	}

	st, err := s.store(s.platform)
	if err != nil {
		return err
	}

	s.pruneVersions(ctx, st, prefix, nil)
	return nil
}

// pruneVersions deletes every stored version under prefix except the
// keys in keep. Best-effort: listing or delete failures are logged and
// skipped, never propagated, since the fresh upload already succeeded.
func (s *Service) pruneVersions(ctx context.Context, st BlobStorage, prefix string, keep []string) {
	keys, err := st.List(ctx, prefix)
	if err != nil {
		s.logger.Warn("failed to list old asset versions",
			zap.String("prefix", prefix),
			zap.Error(err))
		return
	}

	fresh := make(map[string]bool, len(keep))
	for _, key := range keep {
		fresh[key] = true
	}
	for _, key := range keys {
		if fresh[key] {
			continue
		}
		if err := st.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to delete old asset version",
				zap.String("key", key),
				zap.Error(err))
		}
	}
}
