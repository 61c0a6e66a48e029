package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrobooks-api/internal/payload"
	"agrobooks-api/internal/pool"
)

func newTestAttachmentService(t *testing.T, store *fakeStore) *AttachmentService {
	t.Helper()

	workers := pool.NewWorkerPool(4)
	require.NoError(t, workers.Start())
	t.Cleanup(workers.Stop)

	svc := NewStoreServiceWithStore(store, testStorageConfig())
	normalizer := payload.NewNormalizer(pool.NewBufferPool(4, 1024), 0)

	return NewAttachmentService(svc, normalizer, workers)
}

func TestUploadAllBothSucceed(t *testing.T) {
	store := newFakeStore()
	attachments := newTestAttachmentService(t, store)

	fields := docAndCoverFields()
	results, err := attachments.UploadAll(context.Background(), "books", fields)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.NotNil(t, results[0].Outcome)
	assert.NotNil(t, results[1].Outcome)
	assert.NotEmpty(t, attachments.URLFor(results[0]))
	assert.NotEmpty(t, attachments.URLFor(results[1]))
}

func TestUploadAllOptionalFailureTolerated(t *testing.T) {
	store := newFakeStore()
	store.failPrefix = "covers/"
	attachments := newTestAttachmentService(t, store)

	fields := docAndCoverFields()
	results, err := attachments.UploadAll(context.Background(), "books", fields)
	require.NoError(t, err)

	// The required document made it; the optional cover failed quietly.
	assert.NotNil(t, results[0].Outcome)
	assert.Nil(t, results[1].Outcome)
	assert.Error(t, results[1].Err)
	assert.Empty(t, attachments.URLFor(results[1]))
}

func TestUploadAllRequiredFailureFatal(t *testing.T) {
	store := newFakeStore()
	store.failPrefix = "pdfs/"
	attachments := newTestAttachmentService(t, store)

	fields := docAndCoverFields()
	_, err := attachments.UploadAll(context.Background(), "books", fields)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdfFile")
}

func TestUploadAllSkipsAbsentSources(t *testing.T) {
	attachments := newTestAttachmentService(t, newFakeStore())

	results, err := attachments.UploadAll(context.Background(), "books", []AttachmentField{
		{Name: "coverImage", Source: nil, Required: false},
	})
	require.NoError(t, err)
	assert.Nil(t, results[0].Outcome)
	assert.NoError(t, results[0].Err)
}

func TestReconcileCovers(t *testing.T) {
	covers, primary := ReconcileCovers("fresh.jpg", []string{"old1.jpg", "old2.jpg"})
	assert.Equal(t, []string{"fresh.jpg", "old1.jpg", "old2.jpg"}, covers)
	assert.Equal(t, "fresh.jpg", primary)
}

func TestReconcileCoversDedupes(t *testing.T) {
	covers, primary := ReconcileCovers("a.jpg", []string{"a.jpg", "b.jpg", "b.jpg", ""})
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, covers)
	assert.Equal(t, "a.jpg", primary)
}

func TestReconcileCoversNoFresh(t *testing.T) {
	covers, primary := ReconcileCovers("", []string{"old.jpg"})
	assert.Equal(t, []string{"old.jpg"}, covers)
	assert.Equal(t, "old.jpg", primary)
}

func TestReconcileCoversEmpty(t *testing.T) {
	covers, primary := ReconcileCovers("", nil)
	assert.Empty(t, covers)
	assert.Empty(t, primary)
}

// docAndCoverFields builds the standard document-plus-cover field pair.
func docAndCoverFields() []AttachmentField {
	return []AttachmentField{
		{
			Name:     "pdfFile",
			Source:   payload.InMemoryBytes{Data: []byte("pdf body"), Name: "doc.pdf"},
			MimeType: "application/pdf",
			Folder:   "pdfs",
			OwnerID:  "author-1",
			Required: true,
		},
		{
			Name:     "coverImage",
			Source:   payload.InMemoryBytes{Data: []byte("jpg body"), Name: "cover.jpg"},
			MimeType: "image/jpeg",
			Folder:   "covers",
			OwnerID:  "author-1",
			Required: false,
		},
	}
}
