package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"

	"agrobooks-api/internal/models"
	"agrobooks-api/internal/services"
)

// MetaHandler exposes informational endpoints about the API surface.
type MetaHandler struct {
	version   string
	startTime time.Time
	store     *services.StoreService
	dbPinger  func(context.Context) error
}

// NewMetaHandler constructs a metadata handler. dbPinger is nil when the
// database is disabled.
func NewMetaHandler(version string, store *services.StoreService, dbPinger func(context.Context) error) *MetaHandler {
	if version == "" {
		version = "1.0.0"
	}

	return &MetaHandler{
		version:   version,
		startTime: time.Now(),
		store:     store,
		dbPinger:  dbPinger,
	}
}

// APIInfo godoc
// @Summary API metadata
// @Description Provides API version and available endpoint catalogue.
// @Tags General
// @Produce json
// @Success 200 {object} models.APIInfo
// @Router /api [get]
func (h *MetaHandler) APIInfo(c fiber.Ctx) error {
	endpoints := map[string]string{
		"upload":      "/upload",
		"books":       "/books",
		"book":        "/books/{id}",
		"audio_books": "/audio-books",
		"audio_book":  "/audio-books/{id}",
		"curriculum":  "/curriculum",
		"profiles":    "/profiles/{id}",
		"purchases":   "/purchases",
		"health":      "/health",
		"stats":       "/stats",
	}

	return c.JSON(models.APIInfo{
		Service:   "AgroBooks Content API",
		Version:   h.version,
		Endpoints: endpoints,
	})
}

// Health godoc
// @Summary Service health
// @Description Probes the storage provider and the database, when configured.
// @Tags General
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 503 {object} models.HealthResponse
// @Router /health [get]
func (h *MetaHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	status := "healthy"
	servicesStatus := map[string]string{}

	if err := h.store.HealthCheck(ctx); err != nil {
		status = "degraded"
		servicesStatus["storage"] = "unhealthy: " + err.Error()
	} else {
		servicesStatus["storage"] = "healthy"
	}

	if h.dbPinger != nil {
		if err := h.dbPinger(ctx); err != nil {
			status = "degraded"
			servicesStatus["database"] = "unhealthy: " + err.Error()
		} else {
			servicesStatus["database"] = "healthy"
		}
	} else {
		servicesStatus["database"] = "disabled"
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}

	return c.Status(code).JSON(models.HealthResponse{
		Status:   status,
		Version:  h.version,
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
		Services: servicesStatus,
	})
}

// Stats godoc
// @Summary Upload and worker pool metrics
// @Tags General
// @Produce json
// @Success 200 {object} map[string]any
// @Router /stats [get]
func (h *MetaHandler) Stats(extra func() map[string]any) fiber.Handler {
	return func(c fiber.Ctx) error {
		stats := map[string]any{
			"storage": h.store.GetStats(),
			"uptime":  time.Since(h.startTime).Round(time.Second).String(),
		}
		if extra != nil {
			for k, v := range extra() {
				stats[k] = v
			}
		}
		return c.JSON(stats)
	}
}
