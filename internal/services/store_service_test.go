package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrobooks-api/internal/config"
	"agrobooks-api/internal/providers"
)

// fakeStore is an in-memory ObjectStore. Keys matching failPrefix fail their
// upload; signFails makes every presign call fail.
type fakeStore struct {
	mu         sync.Mutex
	objects    map[string][]byte
	failPrefix string
	signFails  bool

	lastExpiry time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) Upload(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failPrefix != "" && strings.HasPrefix(key, f.failPrefix) {
		return providers.NewStoreError("fake", "upload", bucket, key, providers.ErrUploadFailed)
	}

	full := bucket + "/" + key
	if _, exists := f.objects[full]; exists {
		return providers.NewStoreError("fake", "upload", bucket, key, providers.ErrObjectExists)
	}

	f.objects[full] = data
	return nil
}

func (f *fakeStore) PublicURL(bucket, key string) string {
	return fmt.Sprintf("https://cdn.example.com/%s/%s", bucket, key)
}

func (f *fakeStore) SignedURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	f.mu.Lock()
	f.lastExpiry = expiry
	f.mu.Unlock()

	if f.signFails {
		return "", providers.NewStoreError("fake", "presign_get", bucket, key, providers.ErrPresignFailed)
	}
	return fmt.Sprintf("https://cdn.example.com/%s/%s?signed=1", bucket, key), nil
}

func (f *fakeStore) SignedUploadURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	if f.signFails {
		return "", providers.NewStoreError("fake", "presign_put", bucket, key, providers.ErrPresignFailed)
	}
	return fmt.Sprintf("https://cdn.example.com/%s/%s?put=1", bucket, key), nil
}

func (f *fakeStore) ObjectInfo(ctx context.Context, bucket, key string) (*providers.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, providers.NewStoreError("fake", "stat_object", bucket, key, providers.ErrObjectNotFound)
	}
	return &providers.ObjectInfo{Key: key, Size: int64(len(data))}, nil
}

func (f *fakeStore) DeleteObject(ctx context.Context, bucket, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, bucket+"/"+key)
	return nil
}

func (f *fakeStore) HealthCheck(ctx context.Context, bucket string) error {
	return nil
}

func testStorageConfig() *config.StorageConfiguration {
	return &config.StorageConfiguration{
		Provider:     providers.ProviderMinIO,
		SignedURLTTL: 365 * 24 * time.Hour,
		UploadURLTTL: time.Hour,
	}
}

func TestUploadReturnsBothURLs(t *testing.T) {
	store := newFakeStore()
	svc := NewStoreServiceWithStore(store, testStorageConfig())

	outcome, err := svc.Upload(context.Background(), "books", "pdfs/1-a.pdf", []byte("pdf"), "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, "pdfs/1-a.pdf", outcome.Key)
	assert.Equal(t, "https://cdn.example.com/books/pdfs/1-a.pdf", outcome.PublicURL)
	assert.Contains(t, outcome.SignedURL, "signed=1")
	assert.Equal(t, int64(3), outcome.Size)
}

func TestUploadRejectsOccupiedKey(t *testing.T) {
	store := newFakeStore()
	svc := NewStoreServiceWithStore(store, testStorageConfig())

	_, err := svc.Upload(context.Background(), "books", "k", []byte("one"), "text/plain")
	require.NoError(t, err)

	_, err = svc.Upload(context.Background(), "books", "k", []byte("two"), "text/plain")
	require.Error(t, err)
	assert.True(t, providers.IsConflict(err))

	// The original object is untouched.
	info, err := store.ObjectInfo(context.Background(), "books", "k")
	require.NoError(t, err)
	assert.Equal(t, int64(3), info.Size)
}

func TestUploadToleratesSignedURLFailure(t *testing.T) {
	store := newFakeStore()
	store.signFails = true
	svc := NewStoreServiceWithStore(store, testStorageConfig())

	outcome, err := svc.Upload(context.Background(), "books", "k", []byte("data"), "text/plain")
	require.NoError(t, err)

	assert.NotEmpty(t, outcome.PublicURL)
	assert.Empty(t, outcome.SignedURL)
}

func TestUploadClampsSignedExpiry(t *testing.T) {
	store := newFakeStore()
	svc := NewStoreServiceWithStore(store, testStorageConfig())

	_, err := svc.Upload(context.Background(), "books", "k", []byte("data"), "text/plain")
	require.NoError(t, err)

	// The configured year-long TTL is clamped to the SigV4 ceiling.
	assert.Equal(t, providers.MaxPresignExpiry, store.lastExpiry)
}

func TestUploadValidation(t *testing.T) {
	svc := NewStoreServiceWithStore(newFakeStore(), testStorageConfig())

	_, err := svc.Upload(context.Background(), "", "k", []byte("x"), "")
	assert.ErrorIs(t, err, providers.ErrMissingBucket)

	_, err = svc.Upload(context.Background(), "b", "", []byte("x"), "")
	assert.ErrorIs(t, err, providers.ErrMissingKey)

	_, err = svc.Upload(context.Background(), "b", "k", nil, "")
	assert.ErrorIs(t, err, providers.ErrEmptyObject)
}

func TestUploadBucketAllowlist(t *testing.T) {
	cfg := testStorageConfig()
	cfg.AllowedBuckets = []string{"books", "avatars"}
	svc := NewStoreServiceWithStore(newFakeStore(), cfg)

	_, err := svc.Upload(context.Background(), "books", "k", []byte("x"), "")
	require.NoError(t, err)

	_, err = svc.Upload(context.Background(), "private", "k", []byte("x"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket not allowed")
}

func TestUploadTicket(t *testing.T) {
	svc := NewStoreServiceWithStore(newFakeStore(), testStorageConfig())

	before := time.Now()
	ticket, err := svc.UploadTicket(context.Background(), "books", "pdfs/1-a.pdf")
	require.NoError(t, err)

	assert.Contains(t, ticket.UploadURL, "put=1")
	assert.Equal(t, "pdfs/1-a.pdf", ticket.Key)
	assert.NotEmpty(t, ticket.Token)
	assert.True(t, ticket.ExpiresAt.After(before.Add(59*time.Minute)))
}

func TestUploadTicketPresignFailure(t *testing.T) {
	store := newFakeStore()
	store.signFails = true
	svc := NewStoreServiceWithStore(store, testStorageConfig())

	_, err := svc.UploadTicket(context.Background(), "books", "k")
	assert.True(t, errors.Is(err, providers.ErrPresignFailed))
}

func TestBestURLPrefersSigned(t *testing.T) {
	svc := NewStoreServiceWithStore(newFakeStore(), testStorageConfig())

	assert.Equal(t, "s", svc.BestURL(&UploadOutcome{PublicURL: "p", SignedURL: "s"}))
	assert.Equal(t, "p", svc.BestURL(&UploadOutcome{PublicURL: "p"}))
}

func TestStatsTrackUploads(t *testing.T) {
	store := newFakeStore()
	store.failPrefix = "bad/"
	svc := NewStoreServiceWithStore(store, testStorageConfig())

	_, _ = svc.Upload(context.Background(), "books", "ok/1", []byte("x"), "")
	_, _ = svc.Upload(context.Background(), "books", "bad/1", []byte("x"), "")

	stats := svc.GetStats()
	assert.Equal(t, int64(2), stats.TotalUploads)
	assert.Equal(t, int64(1), stats.SuccessfulUploads)
	assert.Equal(t, int64(1), stats.FailedUploads)
}
