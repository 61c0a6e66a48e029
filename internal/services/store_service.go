package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"agrobooks-api/internal/config"
	"agrobooks-api/internal/providers"
)

// StoreService manages object storage operations and provider lifecycle.
type StoreService struct {
	store  providers.ObjectStore
	config *config.StorageConfiguration
	stats  *StoreStats
}

// StoreStats tracks service statistics.
type StoreStats struct {
	TotalUploads      int64         `json:"total_uploads"`
	SuccessfulUploads int64         `json:"successful_uploads"`
	FailedUploads     int64         `json:"failed_uploads"`
	TotalBytes        int64         `json:"total_bytes"`
	TicketsIssued     int64         `json:"tickets_issued"`
	AverageUploadTime time.Duration `json:"average_upload_time"`
	LastUpload        time.Time     `json:"last_upload"`
	mu                sync.RWMutex
}

// UploadOutcome describes a completed upload.
type UploadOutcome struct {
	Bucket    string `json:"bucket"`
	Key       string `json:"key"`
	PublicURL string `json:"publicUrl"`
	SignedURL string `json:"signedUrl,omitempty"`
	Size      int64  `json:"size"`
}

// UploadTicket is a presigned PUT URL handed to a client for direct upload.
type UploadTicket struct {
	UploadURL string    `json:"uploadUrl"`
	Key       string    `json:"key"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// NewStoreService creates the service and its provider from configuration.
func NewStoreService(cfg *config.StorageConfiguration) (*StoreService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid storage configuration: %w", err)
	}

	store, err := providers.CreateStore(cfg.ToStoreConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create storage provider: %w", err)
	}

	log.Printf("Storage service initialized with provider: %s", cfg.Provider)

	return &StoreService{
		store:  store,
		config: cfg,
		stats:  &StoreStats{},
	}, nil
}

// NewStoreServiceWithStore wires an existing store, used by tests.
func NewStoreServiceWithStore(store providers.ObjectStore, cfg *config.StorageConfiguration) *StoreService {
	return &StoreService{
		store:  store,
		config: cfg,
		stats:  &StoreStats{},
	}
}

// Upload writes data under key and resolves its URLs. The public URL is
// always built; the signed URL is best-effort and its absence is not an
// upload failure.
func (s *StoreService) Upload(ctx context.Context, bucket, key string, data []byte, contentType string) (*UploadOutcome, error) {
	if bucket == "" {
		return nil, providers.ErrMissingBucket
	}
	if key == "" {
		return nil, providers.ErrMissingKey
	}
	if len(data) == 0 {
		return nil, providers.ErrEmptyObject
	}
	if !s.config.IsBucketAllowed(bucket) {
		return nil, fmt.Errorf("bucket not allowed: %s", bucket)
	}
	if !s.config.IsFileSizeAllowed(int64(len(data))) {
		return nil, fmt.Errorf("file size exceeds maximum allowed: %d bytes", len(data))
	}

	startTime := time.Now()

	err := s.store.Upload(ctx, bucket, key, data, contentType)
	s.updateStats(startTime, int64(len(data)), err == nil)
	if err != nil {
		return nil, err
	}

	outcome := &UploadOutcome{
		Bucket:    bucket,
		Key:       key,
		PublicURL: s.store.PublicURL(bucket, key),
		Size:      int64(len(data)),
	}

	signed, err := s.store.SignedURL(ctx, bucket, key, s.signedExpiry())
	if err != nil {
		log.Printf("Warning: signed URL generation failed for %s/%s: %v", bucket, key, err)
	} else {
		outcome.SignedURL = signed
	}

	return outcome, nil
}

// UploadTicket issues a presigned PUT URL so the client can upload directly.
func (s *StoreService) UploadTicket(ctx context.Context, bucket, key string) (*UploadTicket, error) {
	if bucket == "" {
		return nil, providers.ErrMissingBucket
	}
	if key == "" {
		return nil, providers.ErrMissingKey
	}
	if !s.config.IsBucketAllowed(bucket) {
		return nil, fmt.Errorf("bucket not allowed: %s", bucket)
	}

	uploadURL, err := s.store.SignedUploadURL(ctx, bucket, key, s.config.UploadURLTTL)
	if err != nil {
		return nil, err
	}

	s.stats.mu.Lock()
	s.stats.TicketsIssued++
	s.stats.mu.Unlock()

	return &UploadTicket{
		UploadURL: uploadURL,
		Key:       key,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.config.UploadURLTTL),
	}, nil
}

// SignedURL returns a presigned GET URL for an existing object.
func (s *StoreService) SignedURL(ctx context.Context, bucket, key string) (string, error) {
	return s.store.SignedURL(ctx, bucket, key, s.signedExpiry())
}

// PublicURL returns the public URL for an object.
func (s *StoreService) PublicURL(bucket, key string) string {
	return s.store.PublicURL(bucket, key)
}

// BestURL prefers the signed URL when one was produced.
func (s *StoreService) BestURL(outcome *UploadOutcome) string {
	if outcome.SignedURL != "" {
		return outcome.SignedURL
	}
	return outcome.PublicURL
}

// DeleteObject removes an object from storage.
func (s *StoreService) DeleteObject(ctx context.Context, bucket, key string) error {
	return s.store.DeleteObject(ctx, bucket, key)
}

// HealthCheck verifies access to the books bucket.
func (s *StoreService) HealthCheck(ctx context.Context) error {
	return s.store.HealthCheck(ctx, s.config.BooksBucket)
}

// Config returns the service configuration.
func (s *StoreService) Config() *config.StorageConfiguration {
	return s.config
}

// GetStats returns a copy of the service statistics.
func (s *StoreService) GetStats() *StoreStats {
	s.stats.mu.RLock()
	defer s.stats.mu.RUnlock()

	return &StoreStats{
		TotalUploads:      s.stats.TotalUploads,
		SuccessfulUploads: s.stats.SuccessfulUploads,
		FailedUploads:     s.stats.FailedUploads,
		TotalBytes:        s.stats.TotalBytes,
		TicketsIssued:     s.stats.TicketsIssued,
		AverageUploadTime: s.stats.AverageUploadTime,
		LastUpload:        s.stats.LastUpload,
	}
}

// signedExpiry clamps the configured TTL to the provider ceiling. SigV4
// rejects expiries past seven days, so a year-long TTL is clamped here.
func (s *StoreService) signedExpiry() time.Duration {
	expiry := s.config.SignedURLTTL
	if expiry > providers.MaxPresignExpiry {
		return providers.MaxPresignExpiry
	}
	return expiry
}

func (s *StoreService) updateStats(startTime time.Time, bytes int64, success bool) {
	s.stats.mu.Lock()
	defer s.stats.mu.Unlock()

	s.stats.TotalUploads++
	s.stats.LastUpload = time.Now()

	if success {
		s.stats.SuccessfulUploads++
		s.stats.TotalBytes += bytes

		uploadTime := time.Since(startTime)
		if s.stats.AverageUploadTime == 0 {
			s.stats.AverageUploadTime = uploadTime
		} else {
			// Simple moving average
			s.stats.AverageUploadTime = (s.stats.AverageUploadTime + uploadTime) / 2
		}
	} else {
		s.stats.FailedUploads++
	}
}

// GetSuccessRate returns the upload success rate as a percentage.
func (s *StoreStats) GetSuccessRate() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.TotalUploads == 0 {
		return 100.0
	}
	return (float64(s.SuccessfulUploads) / float64(s.TotalUploads)) * 100.0
}
