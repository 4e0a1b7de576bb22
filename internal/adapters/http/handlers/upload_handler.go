package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"tunehub/internal/adapters/http/middleware"
	"tunehub/internal/core/services"
	"tunehub/internal/pkg/permissions"
	"tunehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UploadHandler handles media upload endpoints
type UploadHandler struct {
	uploadService *services.UploadService
	permService   *services.PermissionService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService *services.UploadService, permService *services.PermissionService) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		permService:   permService,
	}
}

// readFormFile loads one multipart file into memory
func readFormFile(header *multipart.FileHeader) (*services.FilePayload, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &services.FilePayload{Name: header.Filename, Data: data}, nil
}

// formFile returns the first file under a field name, nil when absent
func formFile(form *multipart.Form, field string) (*services.FilePayload, error) {
	headers := form.File[field]
	if len(headers) == 0 {
		return nil, nil
	}
	return readFormFile(headers[0])
}

// formFiles returns every file under a field name
func formFiles(form *multipart.Form, field string) ([]services.FilePayload, error) {
	var payloads []services.FilePayload
	for _, header := range form.File[field] {
		payload, err := readFormFile(header)
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, *payload)
	}
	return payloads, nil
}

// formValue returns the first value under a field name
func formValue(form *multipart.Form, field string) string {
	values := form.Value[field]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// UploadSong handles song uploads
// @Summary Upload song
// @Description Upload song media (audio, cover image, lrc and sheet files); merges into an existing song with the same normalized title; requires the upload permission
// @Tags Upload
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string false "Song title (defaults to the audio file name)"
// @Param artist formData string false "Artist name"
// @Param album formData string false "Album name"
// @Param force formData bool false "Overwrite conflicting media"
// @Param audioFile formData file false "Audio file"
// @Param imageFile formData file false "Cover image"
// @Param lrcFile formData file false "Lyric files"
// @Param sheetFile formData file false "Sheet files"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /upload [post]
func (h *UploadHandler) UploadSong(c *fiber.Ctx) error {
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

	input := &services.SongUploadInput{
		Title:       formValue(form, "title"),
		Artist:      formValue(form, "artist"),
		Album:       formValue(form, "album"),
		Genre:       formValue(form, "genre"),
		Language:    formValue(form, "language"),
		ReleaseDate: formValue(form, "releaseDate"),
		Description: formValue(form, "description"),
		Category:    formValue(form, "category"),
		Force:       strings.EqualFold(formValue(form, "force"), "true"),
	}

	if input.Audio, err = formFile(form, "audioFile"); err != nil {
		return response.BadRequest(c, "Failed to read audio file")
	}
	if input.Image, err = formFile(form, "imageFile"); err != nil {
		return response.BadRequest(c, "Failed to read image file")
	}
	if input.Lrcs, err = formFiles(form, "lrcFile"); err != nil {
		return response.BadRequest(c, "Failed to read lrc files")
	}
	if input.Sheets, err = formFiles(form, "sheetFile"); err != nil {
		return response.BadRequest(c, "Failed to read sheet files")
	}

	result, err := h.uploadService.UploadSong(c.Context(), input)
	if err != nil {
		var conflict *services.UploadConflictError
		switch {
		case errors.As(err, &conflict):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success":   false,
				"error":     "Upload conflict",
				"song_id":   conflict.SongID,
				"conflicts": conflict.Types,
				"message":   "Retry with force=true to overwrite",
			})
		case errors.Is(err, services.ErrNoUploadFiles):
			return response.BadRequest(c, "At least one audio, lrc or sheet file is required")
		default:
			return response.InternalServerError(c, "Failed to upload song")
		}
	}

	if result.Merged {
		return response.Success(c, "Song merged successfully", result)
	}
	return response.Created(c, "Song uploaded successfully", result)
}

// UploadImage handles standalone image uploads
// @Summary Upload image
// @Description Upload a standalone image (playlist or album covers); requires the upload permission
// @Tags Upload
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param group formData string false "Folder name"
// @Param imageFile formData file true "Image file"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /upload/image [post]
func (h *UploadHandler) UploadImage(c *fiber.Ctx) error {
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

	file, err := formFile(form, "imageFile")
	if err != nil || file == nil {
		return response.BadRequest(c, "Image file is required")
	}

	group := formValue(form, "group")
	if group == "" {
		group = "covers"
	}

	path, err := h.uploadService.UploadImage(c.Context(), group, file)
	if err != nil {
		return response.InternalServerError(c, "Failed to upload image")
	}

	return response.Created(c, "Image uploaded successfully", fiber.Map{
		"path": path,
	})
}
