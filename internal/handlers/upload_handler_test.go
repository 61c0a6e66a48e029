package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrobooks-api/internal/config"
	"agrobooks-api/internal/models"
	"agrobooks-api/internal/payload"
	"agrobooks-api/internal/pool"
	"agrobooks-api/internal/providers"
	"agrobooks-api/internal/services"
)

// memStore is an in-memory ObjectStore for handler tests. Keys under
// failPrefix reject uploads, simulating a partially unavailable backend.
type memStore struct {
	mu         sync.Mutex
	objects    map[string][]byte
	failPrefix string
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (m *memStore) Upload(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPrefix != "" && strings.HasPrefix(key, m.failPrefix) {
		return providers.NewStoreError("mem", "upload", bucket, key, providers.ErrUploadFailed)
	}
	full := bucket + "/" + key
	if _, exists := m.objects[full]; exists {
		return providers.NewStoreError("mem", "upload", bucket, key, providers.ErrObjectExists)
	}
	m.objects[full] = data
	return nil
}

func (m *memStore) PublicURL(bucket, key string) string {
	return fmt.Sprintf("https://cdn.example.com/%s/%s", bucket, key)
}

func (m *memStore) SignedURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("https://cdn.example.com/%s/%s?signed=1", bucket, key), nil
}

func (m *memStore) SignedUploadURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("https://cdn.example.com/%s/%s?put=1", bucket, key), nil
}

func (m *memStore) ObjectInfo(ctx context.Context, bucket, key string) (*providers.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[bucket+"/"+key]
	if !ok {
		return nil, providers.NewStoreError("mem", "stat_object", bucket, key, providers.ErrObjectNotFound)
	}
	return &providers.ObjectInfo{Key: key, Size: int64(len(data))}, nil
}

func (m *memStore) DeleteObject(ctx context.Context, bucket, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, bucket+"/"+key)
	return nil
}

func (m *memStore) HealthCheck(ctx context.Context, bucket string) error {
	return nil
}

func newUploadTestApp(store providers.ObjectStore) *fiber.App {
	cfg := &config.StorageConfiguration{
		Provider:     providers.ProviderMinIO,
		SignedURLTTL: 24 * time.Hour,
		UploadURLTTL: time.Hour,
	}
	svc := services.NewStoreServiceWithStore(store, cfg)
	normalizer := payload.NewNormalizer(pool.NewBufferPool(4, 1024), 0)

	app := fiber.New(fiber.Config{DisablePreParseMultipartForm: true})
	app.Post("/upload", NewUploadHandler(svc, normalizer, 10*time.Second).Upload)
	return app
}

func multipartUploadRequest(t *testing.T, fields map[string]string, fileField, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

func TestUploadMultipartBinary(t *testing.T) {
	store := newMemStore()
	app := newUploadTestApp(store)

	req := multipartUploadRequest(t, map[string]string{
		"bucket": "books",
		"folder": "pdfs",
	}, "file", "guide.pdf", []byte("0123456789"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeJSON[models.UploadResponse](t, resp)
	assert.True(t, body.Success)
	assert.Regexp(t, `^pdfs/\d+-guide\.pdf$`, body.Path)
	assert.NotEmpty(t, body.URL)

	// The bytes landed in the store under the returned path.
	store.mu.Lock()
	data, ok := store.objects["books/"+body.Path]
	store.mu.Unlock()
	require.True(t, ok)
	assert.Len(t, data, 10)
}

func TestUploadMultipartMissingBucket(t *testing.T) {
	app := newUploadTestApp(newMemStore())

	req := multipartUploadRequest(t, nil, "file", "a.pdf", []byte("x"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeJSON[models.ErrorResponse](t, resp)
	assert.Contains(t, body.Error, "bucket")
}

func TestUploadJSONGeneratesTicket(t *testing.T) {
	app := newUploadTestApp(newMemStore())

	reqBody := `{"fileName":"x.pdf","fileType":"application/pdf","bucket":"books","folder":"pdfs"}`
	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeJSON[models.UploadTicketResponse](t, resp)
	assert.Contains(t, body.UploadURL, "put=1")
	assert.Regexp(t, `^pdfs/\d+-x\.pdf$`, body.Path)
	assert.NotEmpty(t, body.Token)
	assert.True(t, body.ExpiresAt.After(time.Now()))
}

func TestUploadMultipartWithoutFileGeneratesTicket(t *testing.T) {
	app := newUploadTestApp(newMemStore())

	req := multipartUploadRequest(t, map[string]string{
		"fileName": "x.pdf",
		"bucket":   "books",
	}, "", "", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeJSON[models.UploadTicketResponse](t, resp)
	assert.NotEmpty(t, body.UploadURL)
}

func TestUploadJSONMissingFileName(t *testing.T) {
	app := newUploadTestApp(newMemStore())

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(`{"bucket":"books"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeJSON[models.ErrorResponse](t, resp)
	assert.Contains(t, body.Error, "fileName")
}

func TestUploadJSONWithMultipartContentType(t *testing.T) {
	app := newUploadTestApp(newMemStore())

	// The body decides the shape, not the declared content type.
	reqBody := `{"fileName":"x.pdf","bucket":"books"}`
	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=nope")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeJSON[models.UploadTicketResponse](t, resp)
	assert.NotEmpty(t, body.UploadURL)
}

func TestUploadMalformedBody(t *testing.T) {
	app := newUploadTestApp(newMemStore())

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("not json at all"))
	req.Header.Set("Content-Type", "text/plain")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
