package handlers

import (
	"errors"
	"strconv"

	"tunehub/internal/adapters/http/middleware"
	"tunehub/internal/core/services"
	"tunehub/internal/pkg/permissions"
	"tunehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SongHandler handles song catalog endpoints
type SongHandler struct {
	songService *services.SongService
	permService *services.PermissionService
}

// NewSongHandler creates a new song handler
func NewSongHandler(songService *services.SongService, permService *services.PermissionService) *SongHandler {
	return &SongHandler{
		songService: songService,
		permService: permService,
	}
}

// RandomSongs handles the random song feed
// @Summary Random songs
// @Description Get a random selection of songs
// @Tags Songs
// @Produce json
// @Param limit query int false "Number of songs" default(50)
// @Success 200 {object} response.Response
// @Router /songs/random [get]
func (h *SongHandler) RandomSongs(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "0"))

	songs, err := h.songService.RandomSongs(c.Context(), limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to load songs")
	}

	return response.Success(c, "Songs retrieved successfully", fiber.Map{
		"songs": songs,
	})
}

// GetSong handles fetching one song
// @Summary Get song
// @Description Get a song with its artist, album and decoded file document
// @Tags Songs
// @Produce json
// @Param id path string true "Song ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /songs/{id} [get]
func (h *SongHandler) GetSong(c *fiber.Ctx) error {
	song, err := h.songService.GetSong(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrSongNotFound) {
			return response.NotFound(c, "Song not found")
		}
		return response.InternalServerError(c, "Failed to load song")
	}

	return response.Success(c, "Song retrieved successfully", fiber.Map{
		"song": song,
	})
}

// UpdateSong handles song edits
// @Summary Update song
// @Description Update catalog fields; requires the edit permission
// @Tags Songs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Song ID"
// @Param body body services.UpdateSongInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /songs/{id} [put]
func (h *SongHandler) UpdateSong(c *fiber.Ctx) error {
	allowed, err := h.permService.Can(c.Context(), middleware.UserID(c), permissions.ActionEdit, "")
	if err != nil {
		return response.InternalServerError(c, "Failed to check permissions")
	}
	if !allowed {
		return response.Forbidden(c, "Edit permission required")
	}

	var req services.UpdateSongInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	song, err := h.songService.UpdateSong(c.Context(), c.Params("id"), &req)
	if err != nil {
		if errors.Is(err, services.ErrSongNotFound) {
			return response.NotFound(c, "Song not found")
		}
		return response.InternalServerError(c, "Failed to update song")
	}

	return response.Success(c, "Song updated successfully", fiber.Map{
		"song": song,
	})
}

// DeleteSong handles song deletion
// @Summary Delete song
// @Description Delete a song and its files, or just one sheet when sheetIndex is given; requires the delete permission
// @Tags Songs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Song ID"
// @Param sheetIndex query int false "Remove only this sheet"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /songs/{id} [delete]
func (h *SongHandler) DeleteSong(c *fiber.Ctx) error {
	// Songs carry no owner, so only the "all" delete policy passes here
	allowed, err := h.permService.Can(c.Context(), middleware.UserID(c), permissions.ActionDelete, "")
	if err != nil {
		return response.InternalServerError(c, "Failed to check permissions")
	}
	if !allowed {
		return response.Forbidden(c, "Delete permission required")
	}

	var sheetIndex *int
	if raw := c.Query("sheetIndex"); raw != "" {
		index, err := strconv.Atoi(raw)
		if err != nil {
			return response.BadRequest(c, "Invalid sheet index")
		}
		sheetIndex = &index
	}

	err = h.songService.DeleteSong(c.Context(), c.Params("id"), sheetIndex)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSongNotFound):
			return response.NotFound(c, "Song not found")
		case errors.Is(err, services.ErrBadSheetIndex):
			return response.BadRequest(c, "Sheet index out of range")
		default:
			return response.InternalServerError(c, "Failed to delete song")
		}
	}

	return response.Success(c, "Song deleted successfully", nil)
}

// BatchDeleteRequest represents a batch delete request body
type BatchDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

// BatchDelete handles deleting several songs at once
// @Summary Batch delete songs
// @Description Delete several songs and their files; requires the delete permission
// @Tags Songs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BatchDeleteRequest true "Song IDs"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /songs/batch-delete [post]
func (h *SongHandler) BatchDelete(c *fiber.Ctx) error {
	allowed, err := h.permService.Can(c.Context(), middleware.UserID(c), permissions.ActionDelete, "")
	if err != nil {
		return response.InternalServerError(c, "Failed to check permissions")
	}
	if !allowed {
		return response.Forbidden(c, "Delete permission required")
	}

	var req BatchDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if len(req.IDs) == 0 {
		return response.BadRequest(c, "At least one song ID is required")
	}

	deleted, err := h.songService.BatchDelete(c.Context(), req.IDs)
	if err != nil {
		return response.InternalServerError(c, "Failed to delete songs")
	}

	return response.Success(c, "Songs deleted successfully", fiber.Map{
		"deleted": deleted,
	})
}
