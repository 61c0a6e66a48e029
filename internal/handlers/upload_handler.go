package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"

	"agrobooks-api/internal/models"
	"agrobooks-api/internal/payload"
	"agrobooks-api/internal/services"
	"agrobooks-api/internal/storage"
)

// requestShape classifies an upload request by its physical encoding rather
// than by trial and error: a multipart body carrying a file is a direct
// binary upload, everything else that parses is a URL-generation request.
type requestShape int

const (
	shapeBinaryUpload requestShape = iota
	shapeURLGeneration
	shapeMalformed
)

// UploadHandler handles the unified upload endpoint.
type UploadHandler struct {
	store          *services.StoreService
	normalizer     *payload.Normalizer
	requestTimeout time.Duration
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(store *services.StoreService, normalizer *payload.Normalizer, requestTimeout time.Duration) *UploadHandler {
	return &UploadHandler{
		store:          store,
		normalizer:     normalizer,
		requestTimeout: requestTimeout,
	}
}

// Upload godoc
// @Summary Upload a file or request a direct-upload URL
// @Description Multipart requests with a file part are uploaded server-side. Multipart requests without a file, and JSON requests, receive a presigned upload URL instead.
// @Tags Upload
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Param file formData file false "Binary file to upload"
// @Param bucket formData string true "Target bucket"
// @Param folder formData string false "Key prefix"
// @Param fileName formData string false "Filename override"
// @Param fileType formData string false "Content type override"
// @Param author_id formData string false "Owner identifier embedded in the key"
// @Success 200 {object} models.UploadResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /upload [post]
func (h *UploadHandler) Upload(c fiber.Ctx) error {
	switch h.classify(c) {
	case shapeBinaryUpload:
		return h.handleBinaryUpload(c)
	case shapeURLGeneration:
		return h.handleURLGeneration(c)
	default:
		return c.Status(http.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Unrecognized request body: expected multipart form-data or JSON",
		})
	}
}

func (h *UploadHandler) classify(c fiber.Ctx) requestShape {
	if form, err := c.MultipartForm(); err == nil {
		if len(form.File["file"]) > 0 {
			return shapeBinaryUpload
		}
		// Multipart without a file part carries URL-generation fields.
		return shapeURLGeneration
	}

	if json.Valid(c.Body()) {
		return shapeURLGeneration
	}

	return shapeMalformed
}

func (h *UploadHandler) handleBinaryUpload(c fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Failed to parse multipart form: " + err.Error(),
		})
	}

	bucket := c.FormValue("bucket")
	if bucket == "" {
		return c.Status(http.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Missing required field: bucket",
		})
	}

	fileHeader := form.File["file"][0]
	src, err := fileHeader.Open()
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(models.ErrorResponse{
			Error: "Failed to open uploaded file: " + err.Error(),
		})
	}
	defer src.Close()

	name := c.FormValue("fileName")
	if name == "" {
		name = fileHeader.Filename
	}
	contentType := c.FormValue("fileType")
	if contentType == "" {
		contentType = fileHeader.Header.Get("Content-Type")
	}

	file, err := h.normalizer.Normalize(payload.ChunkedStream{Reader: src}, name, contentType)
	if err != nil {
		return uploadError(c, err)
	}

	key := storage.BuildKey(c.FormValue("folder"), c.FormValue("author_id"), file.Filename)

	ctx, cancel := context.WithTimeout(context.Background(), h.requestTimeout)
	defer cancel()

	outcome, err := h.store.Upload(ctx, bucket, key, file.Bytes, file.MimeType)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(models.ErrorResponse{
			Error:   "Upload failed",
			Details: err.Error(),
		})
	}

	return c.JSON(models.UploadResponse{
		Success: true,
		Path:    outcome.Key,
		URL:     outcome.PublicURL,
	})
}

func (h *UploadHandler) handleURLGeneration(c fiber.Ctx) error {
	req := models.UploadURLRequest{
		FileName: c.FormValue("fileName"),
		FileType: c.FormValue("fileType"),
		Bucket:   c.FormValue("bucket"),
		Folder:   c.FormValue("folder"),
		AuthorID: c.FormValue("author_id"),
	}

	// JSON bodies carry the same fields; form values win when both exist.
	// Decoded directly since the declared content type is not trusted.
	if req.FileName == "" && req.Bucket == "" && json.Valid(c.Body()) {
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(models.ErrorResponse{
				Error: "Invalid JSON payload: " + err.Error(),
			})
		}
	}

	if req.FileName == "" {
		return c.Status(http.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Missing required field: fileName",
		})
	}
	if req.Bucket == "" {
		return c.Status(http.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Missing required field: bucket",
		})
	}

	key := storage.BuildKey(req.Folder, req.AuthorID, req.FileName)

	ctx, cancel := context.WithTimeout(context.Background(), h.requestTimeout)
	defer cancel()

	ticket, err := h.store.UploadTicket(ctx, req.Bucket, key)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(models.ErrorResponse{
			Error:   "Failed to generate upload URL",
			Details: err.Error(),
		})
	}

	return c.JSON(models.UploadTicketResponse{
		UploadURL: ticket.UploadURL,
		Path:      ticket.Key,
		Token:     ticket.Token,
		ExpiresAt: ticket.ExpiresAt,
	})
}

// uploadError maps normalization failures to 400 and everything else to 500.
func uploadError(c fiber.Ctx, err error) error {
	if payload.IsUnsupportedPayload(err) || errors.Is(err, payload.ErrEmptyPayload) {
		return c.Status(http.StatusBadRequest).JSON(models.ErrorResponse{
			Error:   "Invalid file payload",
			Details: err.Error(),
		})
	}
	return c.Status(http.StatusInternalServerError).JSON(models.ErrorResponse{
		Error:   "Failed to read file payload",
		Details: err.Error(),
	})
}
