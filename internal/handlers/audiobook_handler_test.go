package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrobooks-api/internal/config"
	"agrobooks-api/internal/model"
	"agrobooks-api/internal/models"
	"agrobooks-api/internal/payload"
	"agrobooks-api/internal/pool"
	"agrobooks-api/internal/providers"
	"agrobooks-api/internal/repository"
	"agrobooks-api/internal/services"
)

type fakeAudioBookRepo struct {
	audioBooks map[string]*model.AudioBook
}

func (r *fakeAudioBookRepo) Create(ctx context.Context, audioBook *model.AudioBook) error {
	r.audioBooks[audioBook.ID] = audioBook
	return nil
}

func (r *fakeAudioBookRepo) ByID(ctx context.Context, id string) (*model.AudioBook, error) {
	audioBook, ok := r.audioBooks[id]
	if !ok {
		return nil, repository.ErrAudioBookNotFound
	}
	copied := *audioBook
	return &copied, nil
}

func (r *fakeAudioBookRepo) List(ctx context.Context, filter repository.ListFilter) ([]model.AudioBook, error) {
	var out []model.AudioBook
	for _, audioBook := range r.audioBooks {
		if filter.AuthorID != "" && audioBook.AuthorID != filter.AuthorID {
			continue
		}
		out = append(out, *audioBook)
	}
	return out, nil
}

func (r *fakeAudioBookRepo) Update(ctx context.Context, audioBook *model.AudioBook) error {
	if _, ok := r.audioBooks[audioBook.ID]; !ok {
		return repository.ErrAudioBookNotFound
	}
	r.audioBooks[audioBook.ID] = audioBook
	return nil
}

func newAudioBookTestApp(t *testing.T, store *memStore) *fiber.App {
	t.Helper()

	workers := pool.NewWorkerPool(4)
	require.NoError(t, workers.Start())
	t.Cleanup(workers.Stop)

	cfg := &config.StorageConfiguration{
		Provider:     providers.ProviderMinIO,
		SignedURLTTL: 24 * time.Hour,
		UploadURLTTL: time.Hour,
	}
	storeSvc := services.NewStoreServiceWithStore(store, cfg)
	normalizer := payload.NewNormalizer(pool.NewBufferPool(4, 1024), 0)
	attachments := services.NewAttachmentService(storeSvc, normalizer, workers)

	audioBooks := &fakeAudioBookRepo{audioBooks: make(map[string]*model.AudioBook)}
	authors := &fakeAuthorRepo{ids: map[string]bool{"author-1": true}}
	categories := &fakeCategoryRepo{ids: map[string]bool{"cat-1": true}}
	handler := NewAudioBookHandler(audioBooks, authors, categories, attachments, "audio-books", 10*time.Second)

	app := fiber.New(fiber.Config{DisablePreParseMultipartForm: true})
	app.Post("/audio-books", handler.Create)
	app.Get("/audio-books", handler.List)
	app.Get("/audio-books/:id", handler.Get)
	app.Put("/audio-books/:id", handler.Update)
	return app
}

func TestCreateAudioBookMissingAudio(t *testing.T) {
	app := newAudioBookTestApp(t, newMemStore())

	resp, err := app.Test(jsonRequest(http.MethodPost, "/audio-books",
		`{"title":"Soil Science","author_id":"author-1","category_id":"cat-1"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeJSON[models.ErrorResponse](t, resp)
	assert.Contains(t, body.Error, "audioFile")
}

func TestCreateAudioBookResolvesNames(t *testing.T) {
	app := newAudioBookTestApp(t, newMemStore())

	resp, err := app.Test(jsonRequest(http.MethodPost, "/audio-books",
		`{"title":"Soil Science","author_id":"author-1","category_id":"cat-1","audio_url":"https://x/1.mp3"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeJSON[models.AudioBookResponse](t, resp)
	assert.Equal(t, "Soil Science", body.AudioBook.Title)
	assert.Equal(t, "https://x/1.mp3", body.AudioBook.AudioURL)
	assert.Equal(t, "Author", body.AudioBook.AuthorName)
	assert.Equal(t, "Category", body.AudioBook.CategoryName)
}
