// Package storage provides the blob storage backends for asset files.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	assetapp "github.com/storefront/backend/internal/application/asset"
	infraconfig "github.com/storefront/backend/internal/infrastructure/config"
)

// Ensure S3BlobStorage implements BlobStorage
var _ assetapp.BlobStorage = (*S3BlobStorage)(nil)

// S3BlobStorage implements BlobStorage using AWS S3 SDK v2. It is
// compatible with any S3-compatible storage (AWS S3, MinIO, etc.)
type S3BlobStorage struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
	logger        *zap.Logger
}

// S3BlobStorageOption is a functional option for configuring S3BlobStorage
type S3BlobStorageOption func(*S3BlobStorage)

// WithLogger sets a custom logger for S3BlobStorage
func WithLogger(logger *zap.Logger) S3BlobStorageOption {
	return func(s *S3BlobStorage) {
		s.logger = logger
	}
}

// NewS3BlobStorage creates a new S3BlobStorage from configuration.
func NewS3BlobStorage(cfg *infraconfig.StorageConfig, opts ...S3BlobStorageOption) (*S3BlobStorage, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "http://localhost:9000"
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if cfg.UseSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid storage endpoint: %w", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		o.BaseEndpoint = aws.String(endpoint)
	})

	publicBaseURL := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if publicBaseURL == "" {
		publicBaseURL = endpoint + "/" + cfg.Bucket
	}

	storage := &S3BlobStorage{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: publicBaseURL,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(storage)
	}
	return storage, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
// Call this during application startup to ensure the bucket is ready.
func (s *S3BlobStorage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating storage bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		// Ignore "BucketAlreadyOwnedByYou" error (race condition)
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Upload writes data to the bucket under key
func (s *S3BlobStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

// Delete removes an object from the bucket
func (s *S3BlobStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// List returns the keys stored under prefix
func (s *S3BlobStorage) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys, nil
}

// URL returns the public URL serving key
func (s *S3BlobStorage) URL(key string) string {
	return s.publicBaseURL + "/" + key
}

// KeyFromURL maps a public URL back to its object key. It matches on
// the configured public host, so URLs minted by other backends (or
// arbitrary external URLs) are rejected.
func (s *S3BlobStorage) KeyFromURL(rawURL string) (string, bool) {
	base, err := url.Parse(s.publicBaseURL)
	if err != nil {
		return "", false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	if u.Host == "" || !strings.EqualFold(u.Host, base.Host) {
		return "", false
	}
	key := strings.TrimPrefix(strings.TrimPrefix(u.Path, base.Path), "/")
	if key == "" {
		return "", false
	}
	return key, true
}
