package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"

	"agrobooks-api/internal/model"
	"agrobooks-api/internal/models"
	"agrobooks-api/internal/payload"
	"agrobooks-api/internal/repository"
	"agrobooks-api/internal/services"
)

// ProfileHandler handles the account profile endpoints.
type ProfileHandler struct {
	profiles       repository.ProfileRepository
	attachments    *services.AttachmentService
	bucket         string
	requestTimeout time.Duration
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(
	profiles repository.ProfileRepository,
	attachments *services.AttachmentService,
	bucket string,
	requestTimeout time.Duration,
) *ProfileHandler {
	return &ProfileHandler{
		profiles:       profiles,
		attachments:    attachments,
		bucket:         bucket,
		requestTimeout: requestTimeout,
	}
}

// Get godoc
// @Summary Get a profile by ID
// @Tags Profiles
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} models.ProfileResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /profiles/{id} [get]
func (h *ProfileHandler) Get(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), h.requestTimeout)
	defer cancel()

	profile, err := h.profiles.ByID(ctx, c.Params("id"))
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return c.Status(http.StatusNotFound).JSON(models.ErrorResponse{
				Error: "Profile not found",
			})
		}
		return internalError(c, err)
	}

	return c.JSON(models.ProfileResponse{Profile: *profile})
}

// Update godoc
// @Summary Create or update a profile
// @Description Upserts the profile. The avatar is optional and its upload failure does not fail the request.
// @Tags Profiles
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} models.ProfileResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /profiles/{id} [put]
func (h *ProfileHandler) Update(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return requiredField(c, "id")
	}

	req, avatarSrc, err := h.parseRequest(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(models.ErrorResponse{
			Error: err.Error(),
		})
	}

	if req.FullName == "" {
		return requiredField(c, "full_name")
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.requestTimeout)
	defer cancel()

	now := time.Now().UTC()
	profile := &model.Profile{
		ID:        id,
		FullName:  req.FullName,
		Email:     req.Email,
		Phone:     req.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if existing, err := h.profiles.ByID(ctx, id); err == nil {
		profile.CreatedAt = existing.CreatedAt
		profile.AvatarURL = existing.AvatarURL
	}

	if avatarSrc != nil {
		results, err := h.attachments.UploadAll(ctx, h.bucket, []services.AttachmentField{{
			Name:     "avatar",
			Source:   avatarSrc,
			MimeType: "image/jpeg",
			Folder:   "avatars",
			OwnerID:  id,
			Required: false,
		}})
		if err == nil {
			if url := h.attachments.URLFor(results[0]); url != "" {
				profile.AvatarURL = &url
			}
		}
	}

	if err := h.profiles.Upsert(ctx, profile); err != nil {
		return internalError(c, err)
	}

	return c.JSON(models.ProfileResponse{Profile: *profile})
}

func (h *ProfileHandler) parseRequest(c fiber.Ctx) (*models.ProfilePayload, payload.Source, error) {
	if form, err := c.MultipartForm(); err == nil {
		req := &models.ProfilePayload{
			FullName: c.FormValue("full_name"),
		}
		if v := c.FormValue("email"); v != "" {
			req.Email = &v
		}
		if v := c.FormValue("phone"); v != "" {
			req.Phone = &v
		}
		return req, filePartSource(form.File["avatar"]), nil
	}

	var req models.ProfilePayload
	if err := c.Bind().Body(&req); err != nil {
		return nil, nil, errors.New("Invalid request body: " + err.Error())
	}

	var avatarSrc payload.Source
	if req.Avatar != nil {
		src, err := payload.FromValue(req.Avatar)
		if err != nil {
			return nil, nil, errors.New("Invalid avatar payload: " + err.Error())
		}
		avatarSrc = src
	}

	return &req, avatarSrc, nil
}
