package providers

import (
	"context"
	"strings"
	"time"
)

// ObjectStore defines the interface for all S3-compatible storage backends.
// Buckets are addressed per call: the marketplace keeps books, audio and
// avatars in separate buckets chosen by the request.
type ObjectStore interface {
	// Upload writes data under key. Uploads never overwrite: an existing
	// object at the same key is an error, not a silent replacement.
	Upload(ctx context.Context, bucket, key string, data []byte, contentType string) error

	// PublicURL returns the unauthenticated URL for accessing the object.
	PublicURL(bucket, key string) string

	// SignedURL returns a time-limited read URL for the object.
	SignedURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)

	// SignedUploadURL returns a time-limited URL a client can PUT to directly,
	// bypassing the server.
	SignedUploadURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)

	// ObjectInfo retrieves metadata about an object.
	ObjectInfo(ctx context.Context, bucket, key string) (*ObjectInfo, error)

	// DeleteObject removes an object from storage.
	DeleteObject(ctx context.Context, bucket, key string) error

	// HealthCheck verifies the backend connection and bucket access.
	HealthCheck(ctx context.Context, bucket string) error
}

// ObjectInfo contains metadata about a stored object.
type ObjectInfo struct {
	Key          string            `json:"key"`
	Size         int64             `json:"size"`
	ETag         string            `json:"etag"`
	ContentType  string            `json:"content_type"`
	LastModified time.Time         `json:"last_modified"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// MaxPresignExpiry is the hard ceiling SigV4 places on presigned URLs.
// Callers asking for longer-lived signed URLs are clamped to this.
const MaxPresignExpiry = 7 * 24 * time.Hour

// ProviderType represents the supported storage backend types.
type ProviderType string

const (
	ProviderAWS          ProviderType = "aws"
	ProviderMinIO        ProviderType = "minio"
	ProviderCloudflare   ProviderType = "cloudflare"
	ProviderDigitalOcean ProviderType = "digitalocean"
	ProviderWasabi       ProviderType = "wasabi"
)

// StoreConfig contains configuration for object store backends.
type StoreConfig struct {
	// Provider type (aws, minio, cloudflare, ...).
	Provider ProviderType `json:"provider"`

	// Endpoint URL (e.g. https://s3.amazonaws.com). Required for
	// S3-compatible vendors; optional for plain AWS.
	Endpoint string `json:"endpoint"`

	// PublicEndpoint for generating public URLs (CDN or public bucket host).
	PublicEndpoint string `json:"public_endpoint"`

	// Region for AWS and compatible services.
	Region string `json:"region"`

	// AccessKey and SecretKey for authentication.
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`

	// UseSSL determines if HTTPS should be used.
	UseSSL bool `json:"use_ssl"`

	// PathStyle forces path-style URLs (for MinIO compatibility).
	PathStyle bool `json:"path_style"`

	// UploadTimeout bounds individual upload operations.
	UploadTimeout time.Duration `json:"upload_timeout"`
}

// Validate checks if the StoreConfig is usable and fills defaults.
func (c *StoreConfig) Validate() error {
	if c.Provider == "" {
		return ErrInvalidProvider
	}
	if c.AccessKey == "" {
		return ErrMissingAccessKey
	}
	if c.SecretKey == "" {
		return ErrMissingSecretKey
	}
	if c.Provider != ProviderAWS && c.Endpoint == "" {
		return ErrMissingEndpoint
	}

	if c.UploadTimeout == 0 {
		c.UploadTimeout = time.Minute
	}

	return nil
}

// ObjectURL generates a public URL for the given bucket and key.
func (c *StoreConfig) ObjectURL(bucket, key string) string {
	if c.PublicEndpoint != "" {
		return strings.TrimSuffix(c.PublicEndpoint, "/") + "/" + bucket + "/" + key
	}

	if c.Endpoint != "" {
		endpoint := strings.TrimSuffix(c.Endpoint, "/")
		if c.PathStyle {
			return endpoint + "/" + bucket + "/" + key
		}
		// Virtual-hosted style on a custom endpoint.
		scheme, host, found := strings.Cut(endpoint, "://")
		if found {
			return scheme + "://" + bucket + "." + host + "/" + key
		}
		return "https://" + bucket + "." + endpoint + "/" + key
	}

	return "https://" + bucket + ".s3." + c.Region + ".amazonaws.com/" + key
}
