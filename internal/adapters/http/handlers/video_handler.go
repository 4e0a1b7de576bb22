package handlers

import (
	"errors"
	"strconv"

	"tunehub/internal/adapters/http/middleware"
	"tunehub/internal/adapters/persistence/repositories"
	"tunehub/internal/core/services"
	"tunehub/internal/pkg/permissions"
	"tunehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// VideoHandler handles music video endpoints
type VideoHandler struct {
	videoService *services.VideoService
	permService  *services.PermissionService
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(videoService *services.VideoService, permService *services.PermissionService) *VideoHandler {
	return &VideoHandler{
		videoService: videoService,
		permService:  permService,
	}
}

// ListVideos handles video listing
// @Summary List videos
// @Description Filter by artist, linked song or a free-text query
// @Tags Videos
// @Produce json
// @Param artistId query string false "Artist ID"
// @Param songId query string false "Song ID"
// @Param q query string false "Search query"
// @Param limit query int false "Max results" default(50)
// @Success 200 {object} response.Response
// @Router /videos [get]
func (h *VideoHandler) ListVideos(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "0"))

	videos, err := h.videoService.ListVideos(c.Context(), repositories.VideoFilter{
		ArtistID: c.Query("artistId"),
		SongID:   c.Query("songId"),
		Query:    c.Query("q"),
		Limit:    limit,
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to list videos")
	}

	return response.Success(c, "Videos retrieved successfully", fiber.Map{
		"videos": videos,
	})
}

// UploadVideo handles video uploads
// @Summary Upload video
// @Description Upload a music video with an optional cover image; requires the upload permission
// @Tags Videos
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string false "Video title (defaults to the file name)"
// @Param artist formData string false "Artist name"
// @Param songId formData string false "Linked song ID"
// @Param videoFile formData file true "Video file"
// @Param coverFile formData file false "Cover image"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /videos/upload [post]
func (h *VideoHandler) UploadVideo(c *fiber.Ctx) error {
	allowed, err := h.permService.Can(c.Context(), middleware.UserID(c), permissions.ActionUpload, "")
	if err != nil {
		return response.InternalServerError(c, "Failed to check permissions")
	}
	if !allowed {
		return response.Forbidden(c, "Upload permission required")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return response.BadRequest(c, "Invalid multipart form")
	}

	videoFile, err := formFile(form, "videoFile")
	if err != nil || videoFile == nil {
		return response.BadRequest(c, "Video file is required")
	}

	input := &services.UploadVideoInput{
		Title:     formValue(form, "title"),
		Artist:    formValue(form, "artist"),
		SongID:    formValue(form, "songId"),
		VideoName: videoFile.Name,
		VideoData: videoFile.Data,
	}

	if coverFile, err := formFile(form, "coverFile"); err == nil && coverFile != nil {
		input.CoverName = coverFile.Name
		input.CoverData = coverFile.Data
	}

	video, err := h.videoService.UploadVideo(c.Context(), input)
	if err != nil {
		if errors.Is(err, services.ErrVideoFileRequired) {
			return response.BadRequest(c, "Video file is required")
		}
		return response.InternalServerError(c, "Failed to upload video")
	}

	return response.Created(c, "Video uploaded successfully", fiber.Map{
		"video": video,
	})
}

// DeleteVideo handles video deletion
// @Summary Delete video
// @Description Delete a video and its files; requires the delete permission
// @Tags Videos
// @Produce json
// @Security BearerAuth
// @Param id path string true "Video ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /videos/{id} [delete]
func (h *VideoHandler) DeleteVideo(c *fiber.Ctx) error {
	allowed, err := h.permService.Can(c.Context(), middleware.UserID(c), permissions.ActionDelete, "")
	if err != nil {
		return response.InternalServerError(c, "Failed to check permissions")
	}
	if !allowed {
		return response.Forbidden(c, "Delete permission required")
	}

	err = h.videoService.DeleteVideo(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrVideoNotFound) {
			return response.NotFound(c, "Video not found")
		}
		return response.InternalServerError(c, "Failed to delete video")
	}

	return response.Success(c, "Video deleted successfully", nil)
}
