package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"agrobooks-api/internal/model"
	"agrobooks-api/internal/models"
	"agrobooks-api/internal/payload"
	"agrobooks-api/internal/repository"
	"agrobooks-api/internal/services"
)

// CurriculumHandler handles the curriculum document endpoints.
type CurriculumHandler struct {
	curricula      repository.CurriculumRepository
	attachments    *services.AttachmentService
	bucket         string
	requestTimeout time.Duration
}

// NewCurriculumHandler creates a new curriculum handler.
func NewCurriculumHandler(
	curricula repository.CurriculumRepository,
	attachments *services.AttachmentService,
	bucket string,
	requestTimeout time.Duration,
) *CurriculumHandler {
	return &CurriculumHandler{
		curricula:      curricula,
		attachments:    attachments,
		bucket:         bucket,
		requestTimeout: requestTimeout,
	}
}

// Create godoc
// @Summary Create a curriculum document
// @Description The document is required (inline or as pdf_url); the cover image is optional and its upload failure does not fail the request.
// @Tags Curriculum
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} models.CurriculumResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /curriculum [post]
func (h *CurriculumHandler) Create(c fiber.Ctx) error {
	req, pdfSrc, coverSrc, err := h.parseRequest(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(models.ErrorResponse{
			Error: err.Error(),
		})
	}

	if req.Title == "" {
		return requiredField(c, "title")
	}
	if req.Grade == "" {
		return requiredField(c, "grade")
	}
	if pdfSrc == nil && req.PDFURL == "" {
		return requiredField(c, "pdfFile")
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.requestTimeout)
	defer cancel()

	fields := []services.AttachmentField{
		{
			Name:     "pdfFile",
			Source:   pdfSrc,
			MimeType: "application/pdf",
			Folder:   "curriculum",
			Required: true,
		},
		{
			Name:     "coverImage",
			Source:   coverSrc,
			MimeType: "image/jpeg",
			Folder:   "covers",
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

	coverURL := req.CoverImageURL
	if url := h.attachments.URLFor(results[1]); url != "" {
		coverURL = &url
	}

	now := time.Now().UTC()
	curriculum := &model.Curriculum{
		ID:            uuid.NewString(),
		Title:         req.Title,
		Grade:         req.Grade,
		Description:   req.Description,
		PDFURL:        pdfURL,
		CoverImageURL: coverURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := h.curricula.Create(ctx, curriculum); err != nil {
		return internalError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(models.CurriculumResponse{
		Curriculum: *curriculum,
	})
}

// List godoc
// @Summary List curriculum documents
// @Tags Curriculum
// @Produce json
// @Param grade query string false "Filter by grade"
// @Success 200 {object} models.CurriculumListResponse
// @Router /curriculum [get]
func (h *CurriculumHandler) List(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), h.requestTimeout)
	defer cancel()

	curricula, err := h.curricula.List(ctx, c.Query("grade"))
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(models.CurriculumListResponse{
		Curricula: curricula,
		Total:     len(curricula),
	})
}

// Get godoc
// @Summary Get a curriculum document by ID
// @Tags Curriculum
// @Produce json
// @Param id path string true "Curriculum ID"
// @Success 200 {object} models.CurriculumResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /curriculum/{id} [get]
func (h *CurriculumHandler) Get(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), h.requestTimeout)
	defer cancel()

	curriculum, err := h.curricula.ByID(ctx, c.Params("id"))
	if err != nil {
		if errors.Is(err, repository.ErrCurriculumNotFound) {
			return c.Status(http.StatusNotFound).JSON(models.ErrorResponse{
				Error: "Curriculum not found",
			})
		}
		return internalError(c, err)
	}

	return c.JSON(models.CurriculumResponse{Curriculum: *curriculum})
}

// Update godoc
// @Summary Update a curriculum document
// @Description Fields present in the request replace the stored values; a fresh document replaces the stored URL.
// @Tags Curriculum
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Curriculum ID"
// @Success 200 {object} models.CurriculumResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /curriculum/{id} [put]
func (h *CurriculumHandler) Update(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), h.requestTimeout)
	defer cancel()

	curriculum, err := h.curricula.ByID(ctx, c.Params("id"))
	if err != nil {
		if errors.Is(err, repository.ErrCurriculumNotFound) {
			return c.Status(http.StatusNotFound).JSON(models.ErrorResponse{
				Error: "Curriculum not found",
			})
		}
		return internalError(c, err)
	}

	req, pdfSrc, coverSrc, err := h.parseRequest(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(models.ErrorResponse{
			Error: err.Error(),
		})
	}

	if req.Title != "" {
		curriculum.Title = req.Title
	}
	if req.Grade != "" {
		curriculum.Grade = req.Grade
	}
	if req.Description != nil {
		curriculum.Description = req.Description
	}
	if req.PDFURL != "" {
		curriculum.PDFURL = req.PDFURL
	}
	if req.CoverImageURL != nil && *req.CoverImageURL != "" {
		curriculum.CoverImageURL = req.CoverImageURL
	}

	if pdfSrc != nil {
		results, err := h.attachments.UploadAll(ctx, h.bucket, []services.AttachmentField{{
			Name:     "pdfFile",
			Source:   pdfSrc,
			MimeType: "application/pdf",
			Folder:   "curriculum",
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
			curriculum.PDFURL = url
		}
	}

	if coverSrc != nil {
		results, err := h.attachments.UploadAll(ctx, h.bucket, []services.AttachmentField{{
			Name:     "coverImage",
			Source:   coverSrc,
			MimeType: "image/jpeg",
			Folder:   "covers",
			Required: false,
		}})
		if err == nil {
			if url := h.attachments.URLFor(results[0]); url != "" {
				curriculum.CoverImageURL = &url
			}
		}
	}

	curriculum.UpdatedAt = time.Now().UTC()

	if err := h.curricula.Update(ctx, curriculum); err != nil {
		return internalError(c, err)
	}

	return c.JSON(models.CurriculumResponse{Curriculum: *curriculum})
}

func (h *CurriculumHandler) parseRequest(c fiber.Ctx) (*models.CurriculumPayload, payload.Source, payload.Source, error) {
	if form, err := c.MultipartForm(); err == nil {
		req := &models.CurriculumPayload{
			Title:  c.FormValue("title"),
			Grade:  c.FormValue("grade"),
			PDFURL: c.FormValue("pdf_url"),
		}
		if v := c.FormValue("description"); v != "" {
			req.Description = &v
		}
		if v := c.FormValue("cover_image_url"); v != "" {
			req.CoverImageURL = &v
		}
		return req, filePartSource(form.File["pdfFile"]), filePartSource(form.File["coverImage"]), nil
	}

	var req models.CurriculumPayload
	if err := c.Bind().Body(&req); err != nil {
		return nil, nil, nil, errors.New("Invalid request body: " + err.Error())
	}

	var pdfSrc, coverSrc payload.Source
	if req.PDFFile != nil {
		src, err := payload.FromValue(req.PDFFile)
		if err != nil {
			return nil, nil, nil, errors.New("Invalid pdfFile payload: " + err.Error())
		}
		pdfSrc = src
	}
	if req.CoverImage != nil {
		src, err := payload.FromValue(req.CoverImage)
		if err != nil {
			return nil, nil, nil, errors.New("Invalid coverImage payload: " + err.Error())
		}
		coverSrc = src
	}

	return &req, pdfSrc, coverSrc, nil
}
