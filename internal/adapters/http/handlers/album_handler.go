package handlers

import (
	"errors"
	"mime"
	"path/filepath"

	"tunehub/internal/core/services"
	"tunehub/internal/pkg/response"
	"tunehub/internal/pkg/storage"

	"github.com/gofiber/fiber/v2"
)

// AlbumHandler handles album bulk operations against the legacy catalog
type AlbumHandler struct {
	albumService *services.AlbumService
	store        *storage.Store
}

// NewAlbumHandler creates a new album handler
func NewAlbumHandler(albumService *services.AlbumService, store *storage.Store) *AlbumHandler {
	return &AlbumHandler{
		albumService: albumService,
		store:        store,
	}
}

// RenameAlbumRequest represents an album rename request body
type RenameAlbumRequest struct {
	NewName string `json:"newName" validate:"required,min=1,max=200"`
}

// RenameAlbum handles album renames
// @Summary Rename album
// @Description Rename an album and the album field of every member song (Admin only)
// @Tags Albums
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param name path string true "Album name"
// @Param body body RenameAlbumRequest true "New name"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /albums/{name} [put]
func (h *AlbumHandler) RenameAlbum(c *fiber.Ctx) error {
	var req RenameAlbumRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	updated, err := h.albumService.RenameAlbum(c.Context(), c.Params("name"), req.NewName)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBadAlbumName):
			return response.BadRequest(c, "New album name is required")
		case errors.Is(err, services.ErrAlbumNotFound):
			return response.NotFound(c, "Album not found")
		default:
			return response.InternalServerError(c, "Failed to rename album")
		}
	}

	return response.Success(c, "Album renamed successfully", fiber.Map{
		"updated": updated,
	})
}

// DeleteAlbum handles album deletion
// @Summary Delete album
// @Description Delete an album, its member songs and their files (Admin only)
// @Tags Albums
// @Produce json
// @Security BearerAuth
// @Param name path string true "Album name"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /albums/{name} [delete]
func (h *AlbumHandler) DeleteAlbum(c *fiber.Ctx) error {
	removed, err := h.albumService.DeleteAlbum(c.Context(), c.Params("name"))
	if err != nil {
		if errors.Is(err, services.ErrAlbumNotFound) {
			return response.NotFound(c, "Album not found")
		}
		return response.InternalServerError(c, "Failed to delete album")
	}

	return response.Success(c, "Album deleted successfully", fiber.Map{
		"removed": removed,
	})
}

// AlbumCover serves an album's cover image
// @Summary Album cover
// @Description Serve the album's cover image, falling back to the default cover
// @Tags Albums
// @Produce octet-stream
// @Param name path string true "Album name"
// @Success 200 {file} binary
// @Failure 404 {object} response.Response
// @Router /albums/{name}/cover [get]
func (h *AlbumHandler) AlbumCover(c *fiber.Ctx) error {
	coverPath, err := h.albumService.CoverPath(c.Context(), c.Params("name"))
	if err != nil {
		if errors.Is(err, services.ErrAlbumNotFound) {
			return response.NotFound(c, "Album not found")
		}
		return response.InternalServerError(c, "Failed to load album")
	}

	full, _, err := h.store.Open(coverPath)
	if err != nil {
		return response.NotFound(c, "Cover image not found")
	}

	if contentType := mime.TypeByExtension(filepath.Ext(full)); contentType != "" {
		c.Set("Content-Type", contentType)
	}
	return c.SendFile(full)
}
