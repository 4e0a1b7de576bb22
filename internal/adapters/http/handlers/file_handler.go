package handlers

import (
	"errors"
	"mime"
	"path/filepath"

	"tunehub/internal/pkg/response"
	"tunehub/internal/pkg/storage"

	"github.com/gofiber/fiber/v2"
)

// FileHandler serves stored media files
type FileHandler struct {
	store *storage.Store
}

// NewFileHandler creates a new file handler
func NewFileHandler(store *storage.Store) *FileHandler {
	return &FileHandler{store: store}
}

// ServeFile serves one file from the storage root
// @Summary Serve media file
// @Description Serve an uploaded media file by its storage path
// @Tags Files
// @Produce octet-stream
// @Param path path string true "Storage path"
// @Success 200 {file} binary
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /files/{path} [get]
func (h *FileHandler) ServeFile(c *fiber.Ctx) error {
	path := c.Params("*")
	if path == "" {
		return response.BadRequest(c, "File path is required")
	}

	full, _, err := h.store.Open(path)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrOutsideRoot):
			return response.BadRequest(c, "Invalid file path")
		case errors.Is(err, storage.ErrNotFound):
			return response.NotFound(c, "File not found")
		default:
			return response.InternalServerError(c, "Failed to open file")
		}
	}

	if contentType := mime.TypeByExtension(filepath.Ext(full)); contentType != "" {
		c.Set("Content-Type", contentType)
	}
	return c.SendFile(full)
}
