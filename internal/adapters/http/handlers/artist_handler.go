package handlers

import (
	"errors"

	"tunehub/internal/core/services"
	"tunehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ArtistHandler handles artist endpoints
type ArtistHandler struct {
	artistService *services.ArtistService
}

// NewArtistHandler creates a new artist handler
func NewArtistHandler(artistService *services.ArtistService) *ArtistHandler {
	return &ArtistHandler{
		artistService: artistService,
	}
}

// DeleteArtist handles artist deletion
// @Summary Delete artist
// @Description Unlink songs, albums and videos from the artist, then delete it (Admin only)
// @Tags Artists
// @Produce json
// @Security BearerAuth
// @Param id path string true "Artist ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /artists/{id} [delete]
func (h *ArtistHandler) DeleteArtist(c *fiber.Ctx) error {
	err := h.artistService.DeleteArtist(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrArtistNotFound) {
			return response.NotFound(c, "Artist not found")
		}
		return response.InternalServerError(c, "Failed to delete artist")
	}

	return response.Success(c, "Artist deleted successfully", nil)
}
