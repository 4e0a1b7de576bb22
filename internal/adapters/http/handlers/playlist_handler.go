package handlers

import (
	"errors"

	"tunehub/internal/adapters/http/middleware"
	"tunehub/internal/core/services"
	"tunehub/internal/pkg/response"
	"tunehub/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// PlaylistHandler handles playlist endpoints
type PlaylistHandler struct {
	playlistService *services.PlaylistService
}

// NewPlaylistHandler creates a new playlist handler
func NewPlaylistHandler(playlistService *services.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{
		playlistService: playlistService,
	}
}

// ListPlaylists handles playlist listing
// @Summary List playlists
// @Description Public playlists plus the caller's own; admins may request everything with admin_view=true
// @Tags Playlists
// @Produce json
// @Param status query string false "Filter by status (private, pending, public)"
// @Param admin_view query bool false "Admin review view"
// @Success 200 {object} response.Response
// @Router /playlists [get]
func (h *PlaylistHandler) ListPlaylists(c *fiber.Ctx) error {
	adminView := c.Query("admin_view") == "true"

	playlists, err := h.playlistService.ListPlaylists(
		c.Context(),
		middleware.UserID(c),
		middleware.Role(c),
		c.Query("status"),
		adminView,
	)
	if err != nil {
		if errors.Is(err, services.ErrBadPlaylistStatus) {
			return response.BadRequest(c, "Invalid playlist status")
		}
		return response.InternalServerError(c, "Failed to list playlists")
	}

	return response.Success(c, "Playlists retrieved successfully", fiber.Map{
		"playlists": playlists,
	})
}

// CreatePlaylist handles playlist creation
// @Summary Create playlist
// @Description Create a playlist; defaults to public for admins and private for users
// @Tags Playlists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreatePlaylistInput true "Playlist data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /playlists [post]
func (h *PlaylistHandler) CreatePlaylist(c *fiber.Ctx) error {
	var req services.CreatePlaylistInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	playlist, err := h.playlistService.CreatePlaylist(c.Context(), middleware.UserID(c), middleware.Role(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBadPlaylistStatus):
			return response.BadRequest(c, "Invalid playlist status")
		case errors.Is(err, services.ErrStatusNotPermitted):
			return response.Forbidden(c, "Only admins can publish playlists")
		default:
			return response.InternalServerError(c, "Failed to create playlist")
		}
	}

	return response.Created(c, "Playlist created successfully", fiber.Map{
		"playlist": playlist,
	})
}

// GetPlaylist handles fetching one playlist
// @Summary Get playlist
// @Description Get a playlist the caller may see: public, their own, or any for admins
// @Tags Playlists
// @Produce json
// @Param id path string true "Playlist ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /playlists/{id} [get]
func (h *PlaylistHandler) GetPlaylist(c *fiber.Ctx) error {
	playlist, err := h.playlistService.GetPlaylist(c.Context(), c.Params("id"), middleware.UserID(c), middleware.Role(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPlaylistNotFound):
			return response.NotFound(c, "Playlist not found")
		case errors.Is(err, services.ErrPlaylistForbidden):
			return response.Forbidden(c, "Not allowed to view this playlist")
		default:
			return response.InternalServerError(c, "Failed to load playlist")
		}
	}

	return response.Success(c, "Playlist retrieved successfully", fiber.Map{
		"playlist": playlist,
	})
}

// UpdatePlaylist handles playlist edits and the review workflow
// @Summary Update playlist
// @Description Edit content (owner or admin); submit for review (owner); publish (admin)
// @Tags Playlists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Playlist ID"
// @Param body body services.UpdatePlaylistInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /playlists/{id} [put]
func (h *PlaylistHandler) UpdatePlaylist(c *fiber.Ctx) error {
	var req services.UpdatePlaylistInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	playlist, err := h.playlistService.UpdatePlaylist(c.Context(), c.Params("id"), middleware.UserID(c), middleware.Role(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPlaylistNotFound):
			return response.NotFound(c, "Playlist not found")
		case errors.Is(err, services.ErrPlaylistForbidden):
			return response.Forbidden(c, "Not allowed to edit this playlist")
		case errors.Is(err, services.ErrBadPlaylistStatus):
			return response.BadRequest(c, "Invalid playlist status")
		case errors.Is(err, services.ErrStatusNotPermitted):
			return response.Forbidden(c, "Not allowed to set this status")
		default:
			return response.InternalServerError(c, "Failed to update playlist")
		}
	}

	return response.Success(c, "Playlist updated successfully", fiber.Map{
		"playlist": playlist,
	})
}

// DeletePlaylist handles playlist deletion
// @Summary Delete playlist
// @Description Delete a playlist (owner or admin)
// @Tags Playlists
// @Produce json
// @Security BearerAuth
// @Param id path string true "Playlist ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /playlists/{id} [delete]
func (h *PlaylistHandler) DeletePlaylist(c *fiber.Ctx) error {
	err := h.playlistService.DeletePlaylist(c.Context(), c.Params("id"), middleware.UserID(c), middleware.Role(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPlaylistNotFound):
			return response.NotFound(c, "Playlist not found")
		case errors.Is(err, services.ErrPlaylistForbidden):
			return response.Forbidden(c, "Not allowed to delete this playlist")
		default:
			return response.InternalServerError(c, "Failed to delete playlist")
		}
	}

	return response.Success(c, "Playlist deleted successfully", nil)
}
