package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"agrobooks-api/internal/model"
	"agrobooks-api/internal/models"
	"agrobooks-api/internal/payload"
	"agrobooks-api/internal/repository"
	"agrobooks-api/internal/services"
)

// AudioBookHandler handles the audio-book catalog endpoints.
type AudioBookHandler struct {
	audioBooks     repository.AudioBookRepository
	authors        repository.AuthorRepository
	categories     repository.CategoryRepository
	attachments    *services.AttachmentService
	bucket         string
	requestTimeout time.Duration
}

// NewAudioBookHandler creates a new audio-book handler.
func NewAudioBookHandler(
	audioBooks repository.AudioBookRepository,
	authors repository.AuthorRepository,
	categories repository.CategoryRepository,
	attachments *services.AttachmentService,
	bucket string,
	requestTimeout time.Duration,
) *AudioBookHandler {
	return &AudioBookHandler{
		audioBooks:     audioBooks,
		authors:        authors,
		categories:     categories,
		attachments:    attachments,
		bucket:         bucket,
		requestTimeout: requestTimeout,
	}
}

// Create godoc
// @Summary Create an audio-book
// @Description The audio recording is required (inline or as audio_url); the cover image is optional.
// @Tags AudioBooks
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} models.AudioBookResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /audio-books [post]
func (h *AudioBookHandler) Create(c fiber.Ctx) error {
	req, audioSrc, coverSrc, err := h.parseRequest(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(models.ErrorResponse{
			Error: err.Error(),
		})
	}

	if req.Title == "" {
		return requiredField(c, "title")
	}
	if req.AuthorID == "" {
		return requiredField(c, "author_id")
	}
	if req.CategoryID == "" {
		return requiredField(c, "category_id")
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.requestTimeout)
	defer cancel()

	author, err := h.authors.ByID(ctx, req.AuthorID)
	if err != nil {
		if errors.Is(err, repository.ErrAuthorNotFound) {
			return c.Status(http.StatusBadRequest).JSON(models.ErrorResponse{
				Error: "Author not found: " + req.AuthorID,
			})
		}
		return internalError(c, err)
	}
	category, err := h.categories.ByID(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.Status(http.StatusBadRequest).JSON(models.ErrorResponse{
				Error: "Category not found: " + req.CategoryID,
			})
		}
		return internalError(c, err)
	}

	if audioSrc == nil && req.AudioURL == "" {
		return requiredField(c, "audioFile")
	}

	fields := []services.AttachmentField{
		{
			Name:     "audioFile",
			Source:   audioSrc,
			MimeType: "audio/mpeg",
			Folder:   "audio",
			OwnerID:  req.AuthorID,
			Required: true,
		},
		{
			Name:     "coverImage",
			Source:   coverSrc,
			MimeType: "image/jpeg",
			Folder:   "covers",
			OwnerID:  req.AuthorID,
			Required: false,
		},
	}

	results, err := h.attachments.UploadAll(ctx, h.bucket, fields)
	if err != nil {
		if payload.IsUnsupportedPayload(err) {
			return c.Status(http.StatusBadRequest).JSON(models.ErrorResponse{
				Error:   "Invalid file payload",
				Details: err.Error(),
			})
		}
		return c.Status(http.StatusInternalServerError).JSON(models.ErrorResponse{
			Error:   "File upload failed",
			Details: err.Error(),
		})
	}

	audioURL := req.AudioURL
	if url := h.attachments.URLFor(results[0]); url != "" {
		audioURL = url
	}

	freshCover := h.attachments.URLFor(results[1])
	existing := req.CoverImages
	if req.CoverImageURL != nil && *req.CoverImageURL != "" {
		existing = append([]string{*req.CoverImageURL}, existing...)
	}
	covers, primary := services.ReconcileCovers(freshCover, existing)

	now := time.Now().UTC()
	audioBook := &model.AudioBook{
		ID:          uuid.NewString(),
		Title:       req.Title,
		AuthorID:    req.AuthorID,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Price:       req.Price,
		AudioURL:    audioURL,
		CoverImages: covers,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if primary != "" {
		audioBook.CoverImageURL = &primary
	}

	if err := h.audioBooks.Create(ctx, audioBook); err != nil {
		return internalError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(models.AudioBookResponse{
		AudioBook: models.AudioBookView{
			AudioBook:    *audioBook,
			AuthorName:   author.Name,
			CategoryName: category.Name,
		},
	})
}

// List godoc
// @Summary List audio-books
// @Tags AudioBooks
// @Produce json
// @Param author_id query string false "Filter by author"
// @Success 200 {object} models.AudioBookListResponse
// @Router /audio-books [get]
func (h *AudioBookHandler) List(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), h.requestTimeout)
	defer cancel()

	audioBooks, err := h.audioBooks.List(ctx, repository.ListFilter{
		AuthorID: c.Query("author_id"),
	})
	if err != nil {
		return internalError(c, err)
	}

	views := make([]models.AudioBookView, len(audioBooks))
	for i, audioBook := range audioBooks {
		views[i] = models.AudioBookView{AudioBook: audioBook}
	}

	return c.JSON(models.AudioBookListResponse{
		AudioBooks: views,
		Total:      len(views),
	})
}

// Get godoc
// @Summary Get an audio-book by ID
// @Tags AudioBooks
// @Produce json
// @Param id path string true "Audio-book ID"
// @Success 200 {object} models.AudioBookResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /audio-books/{id} [get]
func (h *AudioBookHandler) Get(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), h.requestTimeout)
	defer cancel()

	audioBook, err := h.audioBooks.ByID(ctx, c.Params("id"))
	if err != nil {
		if errors.Is(err, repository.ErrAudioBookNotFound) {
			return c.Status(http.StatusNotFound).JSON(models.ErrorResponse{
				Error: "Audio book not found",
			})
		}
		return internalError(c, err)
	}

	view := models.AudioBookView{AudioBook: *audioBook}
	if author, err := h.authors.ByID(ctx, audioBook.AuthorID); err == nil {
		view.AuthorName = author.Name
	}
	if category, err := h.categories.ByID(ctx, audioBook.CategoryID); err == nil {
		view.CategoryName = category.Name
	}

	return c.JSON(models.AudioBookResponse{AudioBook: view})
}

// Update godoc
// @Summary Update an audio-book
// @Description Fields present in the request replace the stored values; a fresh cover image is prepended to the cover list.
// @Tags AudioBooks
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Audio-book ID"
// @Success 200 {object} models.AudioBookResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /audio-books/{id} [put]
func (h *AudioBookHandler) Update(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), h.requestTimeout)
	defer cancel()

	audioBook, err := h.audioBooks.ByID(ctx, c.Params("id"))
	if err != nil {
		if errors.Is(err, repository.ErrAudioBookNotFound) {
			return c.Status(http.StatusNotFound).JSON(models.ErrorResponse{
				Error: "Audio book not found",
			})
		}
		return internalError(c, err)
	}

	req, audioSrc, coverSrc, err := h.parseRequest(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(models.ErrorResponse{
			Error: err.Error(),
		})
	}

	if req.Title != "" {
		audioBook.Title = req.Title
	}
	if req.Description != nil {
		audioBook.Description = req.Description
	}
	if req.Price > 0 {
		audioBook.Price = req.Price
	}
	if req.AudioURL != "" {
		audioBook.AudioURL = req.AudioURL
	}

	if audioSrc != nil {
		results, err := h.attachments.UploadAll(ctx, h.bucket, []services.AttachmentField{{
			Name:     "audioFile",
			Source:   audioSrc,
			MimeType: "audio/mpeg",
			Folder:   "audio",
			OwnerID:  audioBook.AuthorID,
			Required: true,
		}})
		if err != nil {
			if payload.IsUnsupportedPayload(err) {
				return c.Status(http.StatusBadRequest).JSON(models.ErrorResponse{
					Error:   "Invalid file payload",
					Details: err.Error(),
				})
			}
			return c.Status(http.StatusInternalServerError).JSON(models.ErrorResponse{
				Error:   "File upload failed",
				Details: err.Error(),
			})
		}
		if url := h.attachments.URLFor(results[0]); url != "" {
			audioBook.AudioURL = url
		}
	}

	if coverSrc != nil {
		results, err := h.attachments.UploadAll(ctx, h.bucket, []services.AttachmentField{{
			Name:     "coverImage",
			Source:   coverSrc,
			MimeType: "image/jpeg",
			Folder:   "covers",
			OwnerID:  audioBook.AuthorID,
			Required: false,
		}})
		if err == nil {
			if fresh := h.attachments.URLFor(results[0]); fresh != "" {
				covers, primary := services.ReconcileCovers(fresh, audioBook.CoverImages)
				audioBook.CoverImages = covers
				audioBook.CoverImageURL = &primary
			}
		}
	}

	audioBook.UpdatedAt = time.Now().UTC()

	if err := h.audioBooks.Update(ctx, audioBook); err != nil {
		return internalError(c, err)
	}

	view := models.AudioBookView{AudioBook: *audioBook}
	if author, err := h.authors.ByID(ctx, audioBook.AuthorID); err == nil {
		view.AuthorName = author.Name
	}
	if category, err := h.categories.ByID(ctx, audioBook.CategoryID); err == nil {
		view.CategoryName = category.Name
	}

	return c.JSON(models.AudioBookResponse{AudioBook: view})
}

func (h *AudioBookHandler) parseRequest(c fiber.Ctx) (*models.AudioBookPayload, payload.Source, payload.Source, error) {
	if form, err := c.MultipartForm(); err == nil {
		req := &models.AudioBookPayload{
			Title:      c.FormValue("title"),
			AuthorID:   c.FormValue("author_id"),
			CategoryID: c.FormValue("category_id"),
			AudioURL:   c.FormValue("audio_url"),
		}
		if v := c.FormValue("description"); v != "" {
			req.Description = &v
		}
		if v := c.FormValue("price"); v != "" {
			price, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, nil, nil, errors.New("Invalid price: " + v)
			}
			req.Price = price
		}

		return req, filePartSource(form.File["audioFile"]), filePartSource(form.File["coverImage"]), nil
	}

	var req models.AudioBookPayload
	if err := c.Bind().Body(&req); err != nil {
		return nil, nil, nil, errors.New("Invalid request body: " + err.Error())
	}

	var audioSrc, coverSrc payload.Source
	if req.AudioFile != nil {
		src, err := payload.FromValue(req.AudioFile)
		if err != nil {
			return nil, nil, nil, errors.New("Invalid audioFile payload: " + err.Error())
		}
		audioSrc = src
	}
	if req.CoverImage != nil {
		src, err := payload.FromValue(req.CoverImage)
		if err != nil {
			return nil, nil, nil, errors.New("Invalid coverImage payload: " + err.Error())
		}
		coverSrc = src
	}

	return &req, audioSrc, coverSrc, nil
}
