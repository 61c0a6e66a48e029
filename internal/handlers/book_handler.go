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

// BookHandler handles the book catalog endpoints.
type BookHandler struct {
	books          repository.BookRepository
	authors        repository.AuthorRepository
	categories     repository.CategoryRepository
	attachments    *services.AttachmentService
	bucket         string
	requestTimeout time.Duration
}

// NewBookHandler creates a new book handler.
func NewBookHandler(
	books repository.BookRepository,
	authors repository.AuthorRepository,
	categories repository.CategoryRepository,
	attachments *services.AttachmentService,
	bucket string,
	requestTimeout time.Duration,
) *BookHandler {
	return &BookHandler{
		books:          books,
		authors:        authors,
		categories:     categories,
		attachments:    attachments,
		bucket:         bucket,
		requestTimeout: requestTimeout,
	}
}

// Create godoc
// @Summary Create a book
// @Description Accepts metadata plus an embedded PDF and optional cover image, either as JSON payloads or multipart parts. The PDF is required (inline or as pdf_url); the cover is optional and its upload failure does not fail the request.
// @Tags Books
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} models.BookResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /books [post]
func (h *BookHandler) Create(c fiber.Ctx) error {
	req, sources, err := h.parseBookRequest(c)
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

	if sources.pdf == nil && req.PDFURL == "" {
		return requiredField(c, "pdfFile")
	}

	fields := []services.AttachmentField{
		{
			Name:     "pdfFile",
			Source:   sources.pdf,
			MimeType: "application/pdf",
			Folder:   "pdfs",
			OwnerID:  req.AuthorID,
			Required: true,
		},
		{
			Name:     "coverImage",
			Source:   sources.cover,
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

	pdfURL := req.PDFURL
	if url := h.attachments.URLFor(results[0]); url != "" {
		pdfURL = url
	}

	freshCover := h.attachments.URLFor(results[1])
	existing := req.CoverImages
	if req.CoverImageURL != nil && *req.CoverImageURL != "" {
		existing = append([]string{*req.CoverImageURL}, existing...)
	}
	covers, primary := services.ReconcileCovers(freshCover, existing)

	now := time.Now().UTC()
	book := &model.Book{
		ID:          uuid.NewString(),
		Title:       req.Title,
		AuthorID:    req.AuthorID,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Language:    req.Language,
		Price:       req.Price,
		PDFURL:      pdfURL,
		CoverImages: covers,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if primary != "" {
		book.CoverImageURL = &primary
	}

	if err := h.books.Create(ctx, book); err != nil {
		return internalError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(models.BookResponse{
		Book: models.BookView{
			Book:         *book,
			AuthorName:   author.Name,
			CategoryName: category.Name,
		},
	})
}

// List godoc
// @Summary List books
// @Tags Books
// @Produce json
// @Param author_id query string false "Filter by author"
// @Param category_id query string false "Filter by category"
// @Param limit query int false "Maximum number of results" default(50)
// @Param offset query int false "Result offset"
// @Success 200 {object} models.BookListResponse
// @Router /books [get]
func (h *BookHandler) List(c fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	ctx, cancel := context.WithTimeout(context.Background(), h.requestTimeout)
	defer cancel()

	books, err := h.books.List(ctx, repository.ListFilter{
		AuthorID:   c.Query("author_id"),
		CategoryID: c.Query("category_id"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return internalError(c, err)
	}

	views := make([]models.BookView, len(books))
	for i, book := range books {
		views[i] = models.BookView{Book: book}
	}

	return c.JSON(models.BookListResponse{
		Books: views,
		Total: len(views),
	})
}

// Get godoc
// @Summary Get a book by ID
// @Tags Books
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} models.BookResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /books/{id} [get]
func (h *BookHandler) Get(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), h.requestTimeout)
	defer cancel()

	book, err := h.books.ByID(ctx, c.Params("id"))
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return c.Status(http.StatusNotFound).JSON(models.ErrorResponse{
				Error: "Book not found",
			})
		}
		return internalError(c, err)
	}

	view := models.BookView{Book: *book}
	if author, err := h.authors.ByID(ctx, book.AuthorID); err == nil {
		view.AuthorName = author.Name
	}
	if category, err := h.categories.ByID(ctx, book.CategoryID); err == nil {
		view.CategoryName = category.Name
	}

	return c.JSON(models.BookResponse{Book: view})
}

// Update godoc
// @Summary Update a book
// @Description Replaces metadata and optionally uploads a new cover image. A fresh cover is prepended to the existing cover list.
// @Tags Books
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} models.BookResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /books/{id} [put]
func (h *BookHandler) Update(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), h.requestTimeout)
	defer cancel()

	book, err := h.books.ByID(ctx, c.Params("id"))
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return c.Status(http.StatusNotFound).JSON(models.ErrorResponse{
				Error: "Book not found",
			})
		}
		return internalError(c, err)
	}

	req, sources, err := h.parseBookRequest(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(models.ErrorResponse{
			Error: err.Error(),
		})
	}

	if req.Title != "" {
		book.Title = req.Title
	}
	if req.Description != nil {
		book.Description = req.Description
	}
	if req.Language != nil {
		book.Language = req.Language
	}
	if req.Price > 0 {
		book.Price = req.Price
	}
	if req.PDFURL != "" {
		book.PDFURL = req.PDFURL
	}

	if sources.cover != nil {
		results, err := h.attachments.UploadAll(ctx, h.bucket, []services.AttachmentField{{
			Name:     "coverImage",
			Source:   sources.cover,
			MimeType: "image/jpeg",
			Folder:   "covers",
			OwnerID:  book.AuthorID,
			Required: false,
		}})
		if err == nil {
			if fresh := h.attachments.URLFor(results[0]); fresh != "" {
				covers, primary := services.ReconcileCovers(fresh, book.CoverImages)
				book.CoverImages = covers
				book.CoverImageURL = &primary
			}
		}
	}

	book.UpdatedAt = time.Now().UTC()

	if err := h.books.Update(ctx, book); err != nil {
		return internalError(c, err)
	}

	return c.JSON(models.BookResponse{Book: models.BookView{Book: *book}})
}

// bookSources are the file payloads extracted from a book request.
type bookSources struct {
	pdf   payload.Source
	cover payload.Source
}

// parseBookRequest decodes either encoding of a book request. Multipart
// requests carry files as parts and metadata as form values; JSON requests
// embed file payloads in the body.
func (h *BookHandler) parseBookRequest(c fiber.Ctx) (*models.BookPayload, bookSources, error) {
	var sources bookSources

	if form, err := c.MultipartForm(); err == nil {
		req := &models.BookPayload{
			Title:      c.FormValue("title"),
			AuthorID:   c.FormValue("author_id"),
			CategoryID: c.FormValue("category_id"),
			PDFURL:     c.FormValue("pdf_url"),
		}
		if v := c.FormValue("description"); v != "" {
			req.Description = &v
		}
		if v := c.FormValue("language"); v != "" {
			req.Language = &v
		}
		if v := c.FormValue("cover_image_url"); v != "" {
			req.CoverImageURL = &v
		}
		req.CoverImages = form.Value["cover_images"]
		if v := c.FormValue("price"); v != "" {
			price, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, sources, errors.New("Invalid price: " + v)
			}
			req.Price = price
		}

		sources.pdf = filePartSource(form.File["pdfFile"])
		sources.cover = filePartSource(form.File["coverImage"])
		return req, sources, nil
	}

	var req models.BookPayload
	if err := c.Bind().Body(&req); err != nil {
		return nil, sources, errors.New("Invalid request body: " + err.Error())
	}

	if req.PDFFile != nil {
		src, err := payload.FromValue(req.PDFFile)
		if err != nil {
			return nil, sources, errors.New("Invalid pdfFile payload: " + err.Error())
		}
		sources.pdf = src
	}
	if req.CoverImage != nil {
		src, err := payload.FromValue(req.CoverImage)
		if err != nil {
			return nil, sources, errors.New("Invalid coverImage payload: " + err.Error())
		}
		sources.cover = src
	}

	return &req, sources, nil
}
