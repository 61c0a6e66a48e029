package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"agrobooks-api/internal/providers"
)

// StorageConfiguration holds all object-storage settings
type StorageConfiguration struct {
	// Provider configuration
	Provider       providers.ProviderType `json:"provider"`
	Endpoint       string                 `json:"endpoint"`
	PublicEndpoint string                 `json:"public_endpoint"`
	Region         string                 `json:"region"`
	AccessKey      string                 `json:"access_key"`
	SecretKey      string                 `json:"secret_key"`

	// Connection settings
	UseSSL    bool `json:"use_ssl"`
	PathStyle bool `json:"path_style"`

	// Default buckets for entity uploads
	BooksBucket   string `json:"books_bucket"`
	AudioBucket   string `json:"audio_bucket"`
	AvatarsBucket string `json:"avatars_bucket"`

	// AllowedBuckets restricts request-supplied bucket names (empty = any)
	AllowedBuckets []string `json:"allowed_buckets"`

	// URL lifetimes. SignedURLTTL covers private buckets: long-lived read
	// URLs handed to downstream consumers. UploadURLTTL covers pre-signed
	// direct-upload URLs handed to clients.
	SignedURLTTL time.Duration `json:"signed_url_ttl"`
	UploadURLTTL time.Duration `json:"upload_url_ttl"`

	// Upload behavior
	UploadTimeout time.Duration `json:"upload_timeout"`
	MaxFileSize   int64         `json:"max_file_size"`
}

// LoadStorageConfig loads storage configuration from environment variables
func LoadStorageConfig() *StorageConfiguration {
	return &StorageConfiguration{
		Provider:       providers.ProviderType(getEnv("STORAGE_PROVIDER", "aws")),
		Endpoint:       getEnv("STORAGE_ENDPOINT", ""),
		PublicEndpoint: getEnv("STORAGE_PUBLIC_ENDPOINT", ""),
		Region:         getEnv("STORAGE_REGION", "us-east-1"),
		AccessKey:      getEnv("STORAGE_ACCESS_KEY", ""),
		SecretKey:      getEnv("STORAGE_SECRET_KEY", ""),
		UseSSL:         getBool("STORAGE_USE_SSL", true),
		PathStyle:      getBool("STORAGE_PATH_STYLE", false),

		BooksBucket:   getEnv("STORAGE_BOOKS_BUCKET", "books"),
		AudioBucket:   getEnv("STORAGE_AUDIO_BUCKET", "audio-books"),
		AvatarsBucket: getEnv("STORAGE_AVATARS_BUCKET", "avatars"),

		AllowedBuckets: getStringSlice("STORAGE_ALLOWED_BUCKETS", []string{}),

		SignedURLTTL: getDuration("STORAGE_SIGNED_URL_TTL", 365*24*time.Hour),
		UploadURLTTL: getDuration("STORAGE_UPLOAD_URL_TTL", time.Hour),

		UploadTimeout: getDuration("STORAGE_UPLOAD_TIMEOUT", time.Minute),
		MaxFileSize:   getInt64("STORAGE_MAX_FILE_SIZE", 0), // 0 = no limit
	}
}

// ToStoreConfig converts StorageConfiguration to providers.StoreConfig
func (c *StorageConfiguration) ToStoreConfig() *providers.StoreConfig {
	return &providers.StoreConfig{
		Provider:       c.Provider,
		Endpoint:       c.Endpoint,
		PublicEndpoint: c.PublicEndpoint,
		Region:         c.Region,
		AccessKey:      c.AccessKey,
		SecretKey:      c.SecretKey,
		UseSSL:         c.UseSSL,
		PathStyle:      c.PathStyle,
		UploadTimeout:  c.UploadTimeout,
	}
}

// Validate checks if the storage configuration is valid
func (c *StorageConfiguration) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("STORAGE_PROVIDER is required")
	}
	if !providers.IsProviderSupported(c.Provider) {
		return fmt.Errorf("unsupported STORAGE_PROVIDER: %s", c.Provider)
	}
	if c.AccessKey == "" {
		return fmt.Errorf("STORAGE_ACCESS_KEY is required")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("STORAGE_SECRET_KEY is required")
	}
	if c.Provider != providers.ProviderAWS && c.Endpoint == "" {
		return fmt.Errorf("STORAGE_ENDPOINT is required for %s provider", c.Provider)
	}

	if c.SignedURLTTL <= 0 {
		c.SignedURLTTL = 365 * 24 * time.Hour
	}
	if c.UploadURLTTL <= 0 {
		c.UploadURLTTL = time.Hour
	}
	if c.UploadTimeout <= 0 {
		c.UploadTimeout = time.Minute
	}

	return nil
}

// IsBucketAllowed checks a request-supplied bucket against the allowlist
func (c *StorageConfiguration) IsBucketAllowed(bucket string) bool {
	if len(c.AllowedBuckets) == 0 {
		return true
	}
	for _, allowed := range c.AllowedBuckets {
		if strings.EqualFold(allowed, bucket) {
			return true
		}
	}
	return false
}

// IsFileSizeAllowed checks if a file size is within allowed limits
func (c *StorageConfiguration) IsFileSizeAllowed(size int64) bool {
	if c.MaxFileSize == 0 {
		return true
	}
	return size <= c.MaxFileSize
}

// PrintStorageConfig logs the current storage configuration (without sensitive data)
func (c *StorageConfiguration) PrintStorageConfig() {
	log.Println("===========================================")
	log.Println("Object Storage Configuration")
	log.Println("===========================================")
	log.Printf("Provider:         %s", c.Provider)
	log.Printf("Endpoint:         %s", c.Endpoint)
	log.Printf("Region:           %s", c.Region)
	log.Printf("Public Endpoint:  %s", c.PublicEndpoint)
	log.Printf("Path Style:       %t", c.PathStyle)
	log.Printf("Books Bucket:     %s", c.BooksBucket)
	log.Printf("Audio Bucket:     %s", c.AudioBucket)
	log.Printf("Avatars Bucket:   %s", c.AvatarsBucket)
	log.Printf("Signed URL TTL:   %s", c.SignedURLTTL)
	log.Printf("Upload URL TTL:   %s", c.UploadURLTTL)
	log.Printf("Upload Timeout:   %s", c.UploadTimeout)
	log.Println("===========================================")
}
