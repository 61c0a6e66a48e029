package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"agrobooks-api/internal/model"
	"agrobooks-api/internal/models"
	"agrobooks-api/internal/repository"
)

// PurchaseHandler records sales with their revenue split.
type PurchaseHandler struct {
	purchases      repository.PurchaseRepository
	requestTimeout time.Duration
}

// NewPurchaseHandler creates a new purchase handler.
func NewPurchaseHandler(purchases repository.PurchaseRepository, requestTimeout time.Duration) *PurchaseHandler {
	return &PurchaseHandler{
		purchases:      purchases,
		requestTimeout: requestTimeout,
	}
}

// Create godoc
// @Summary Record a purchase
// @Description Computes the GST and commission split once at creation time and stores the resulting amounts.
// @Tags Purchases
// @Accept json
// @Produce json
// @Param request body models.PurchasePayload true "Purchase to record"
// @Success 201 {object} models.PurchaseResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /purchases [post]
func (h *PurchaseHandler) Create(c fiber.Ctx) error {
	var req models.PurchasePayload
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
	}

	if req.BuyerID == "" {
		return requiredField(c, "buyer_id")
	}
	if req.ItemID == "" {
		return requiredField(c, "item_id")
	}
	if req.ItemType != "book" && req.ItemType != "audio_book" {
		return c.Status(http.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid item_type: must be book or audio_book",
		})
	}
	if req.Price < 0 {
		return c.Status(http.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid price: must not be negative",
		})
	}

	purchase := model.NewPurchase(req.BuyerID, req.ItemID, req.ItemType, req.Price)

	ctx, cancel := context.WithTimeout(context.Background(), h.requestTimeout)
	defer cancel()

	if err := h.purchases.Create(ctx, purchase); err != nil {
		return internalError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(models.PurchaseResponse{
		Purchase: *purchase,
	})
}

// List godoc
// @Summary List purchases
// @Tags Purchases
// @Produce json
// @Param buyer_id query string false "Filter by buyer"
// @Param item_id query string false "Filter by purchased item"
// @Param item_type query string false "Filter by item type"
// @Param limit query int false "Maximum number of results" default(50)
// @Param offset query int false "Result offset"
// @Success 200 {object} models.PurchaseListResponse
// @Router /purchases [get]
func (h *PurchaseHandler) List(c fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.requestTimeout)
	defer cancel()

	purchases, err := h.purchases.List(ctx, repository.PurchaseFilter{
		BuyerID:  c.Query("buyer_id"),
		ItemID:   c.Query("item_id"),
		ItemType: c.Query("item_type"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(models.PurchaseListResponse{
		Purchases: purchases,
		Total:     len(purchases),
	})
}
