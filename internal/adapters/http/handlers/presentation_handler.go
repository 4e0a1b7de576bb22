package handlers

import (
	"tunehub/internal/adapters/persistence/jsonstore"
	"tunehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PresentationHandler handles the presentation settings document
type PresentationHandler struct {
	params *jsonstore.ParamsStore
}

// NewPresentationHandler creates a new presentation handler
func NewPresentationHandler(params *jsonstore.ParamsStore) *PresentationHandler {
	return &PresentationHandler{params: params}
}

// GetParams returns the presentation settings
// @Summary Get presentation params
// @Description Read the presentation settings document
// @Tags Presentation
// @Produce json
// @Success 200 {object} response.Response
// @Router /presentation/params [get]
func (h *PresentationHandler) GetParams(c *fiber.Ctx) error {
	params, err := h.params.Load()
	if err != nil {
		return response.InternalServerError(c, "Failed to load presentation params")
	}

	return response.Success(c, "Presentation params retrieved successfully", params)
}

// UpdateParams shallow-merges new settings into the document
// @Summary Update presentation params
// @Description Shallow-merge the request body into the presentation settings document (Admin only)
// @Tags Presentation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body map[string]interface{} true "Settings to merge"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /presentation/params [post]
func (h *PresentationHandler) UpdateParams(c *fiber.Ctx) error {
	var incoming map[string]interface{}
	if err := c.BodyParser(&incoming); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	merged, err := h.params.Merge(incoming)
	if err != nil {
		return response.InternalServerError(c, "Failed to save presentation params")
	}

	return response.Success(c, "Presentation params updated successfully", merged)
}
