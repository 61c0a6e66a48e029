package handlers

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"agrobooks-api/internal/models"
	"agrobooks-api/internal/payload"
)

func requiredField(c fiber.Ctx, name string) error {
	return c.Status(http.StatusBadRequest).JSON(models.ErrorResponse{
		Error: "Missing required field: " + name,
	})
}

func internalError(c fiber.Ctx, err error) error {
	return c.Status(http.StatusInternalServerError).JSON(models.ErrorResponse{
		Error:   "Internal server error",
		Details: err.Error(),
	})
}

// filePartSource materializes the first file part into a Source, or nil when
// the part is absent or unreadable.
func filePartSource(files []*multipart.FileHeader) payload.Source {
	if len(files) == 0 {
		return nil
	}

	f, err := files[0].Open()
	if err != nil {
		return nil
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil
	}

	return payload.InMemoryBytes{
		Data:     data,
		Name:     files[0].Filename,
		MimeType: files[0].Header.Get("Content-Type"),
	}
}
