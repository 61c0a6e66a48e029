package providers

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOProvider implements the ObjectStore interface for MinIO.
type MinIOProvider struct {
	client *minio.Client
	config *StoreConfig
}

// NewMinIOProvider creates a new MinIO provider.
func NewMinIOProvider(cfg *StoreConfig) (*MinIOProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid MinIO config: %w", err)
	}

	// Extract endpoint without protocol for the MinIO client.
	endpoint := cfg.Endpoint
	if strings.HasPrefix(endpoint, "http://") {
		endpoint = strings.TrimPrefix(endpoint, "http://")
		cfg.UseSSL = false
	} else if strings.HasPrefix(endpoint, "https://") {
		endpoint = strings.TrimPrefix(endpoint, "https://")
		cfg.UseSSL = true
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, NewStoreError("minio", "configure", "", "", err)
	}

	return &MinIOProvider{
		client: client,
		config: cfg,
	}, nil
}

// Upload writes data under key with upsert disabled: an existence probe runs
// before the PUT and an occupied key is an error.
func (p *MinIOProvider) Upload(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	if bucket == "" {
		return ErrMissingBucket
	}
	if len(data) == 0 {
		return ErrEmptyObject
	}

	uploadCtx, cancel := context.WithTimeout(ctx, p.config.UploadTimeout)
	defer cancel()

	_, err := p.client.StatObject(uploadCtx, bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return NewStoreError("minio", "upload", bucket, key, ErrObjectExists)
	}
	// Probe failures other than 404 must not block the write.

	_, err = p.client.PutObject(uploadCtx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return NewStoreError("minio", "upload", bucket, key, err)
	}

	return nil
}

// PublicURL returns the public URL for accessing the object.
func (p *MinIOProvider) PublicURL(bucket, key string) string {
	return p.config.ObjectURL(bucket, key)
}

// SignedURL returns a presigned GET URL with the given expiry.
func (p *MinIOProvider) SignedURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	u, err := p.client.PresignedGetObject(ctx, bucket, key, expiry, url.Values{})
	if err != nil {
		return "", NewStoreError("minio", "presign_get", bucket, key, err)
	}

	return u.String(), nil
}

// SignedUploadURL returns a presigned PUT URL with the given expiry.
func (p *MinIOProvider) SignedUploadURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	u, err := p.client.PresignedPutObject(ctx, bucket, key, expiry)
	if err != nil {
		return "", NewStoreError("minio", "presign_put", bucket, key, err)
	}

	return u.String(), nil
}

// ObjectInfo retrieves metadata about an object.
func (p *MinIOProvider) ObjectInfo(ctx context.Context, bucket, key string) (*ObjectInfo, error) {
	stat, err := p.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return nil, NewStoreError("minio", "stat_object", bucket, key, ErrObjectNotFound)
		}
		return nil, NewStoreError("minio", "stat_object", bucket, key, err)
	}

	return &ObjectInfo{
		Key:          key,
		Size:         stat.Size,
		ETag:         stat.ETag,
		ContentType:  stat.ContentType,
		LastModified: stat.LastModified,
		Metadata:     stat.UserMetadata,
	}, nil
}

// DeleteObject removes an object from storage.
func (p *MinIOProvider) DeleteObject(ctx context.Context, bucket, key string) error {
	err := p.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return NewStoreError("minio", "delete", bucket, key, err)
	}

	return nil
}

// HealthCheck verifies bucket access.
func (p *MinIOProvider) HealthCheck(ctx context.Context, bucket string) error {
	exists, err := p.client.BucketExists(ctx, bucket)
	if err != nil {
		return NewStoreError("minio", "health_check", bucket, "", err)
	}
	if !exists {
		return NewStoreError("minio", "health_check", bucket, "", ErrBucketNotFound)
	}

	return nil
}
