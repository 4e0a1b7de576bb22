package handlers

import (
	"errors"

	"tunehub/internal/adapters/http/middleware"
	"tunehub/internal/core/services"
	"tunehub/internal/pkg/pagination"
	"tunehub/internal/pkg/response"
	"tunehub/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user management endpoints (admin only)
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers handles listing all users
// @Summary List all users
// @Description Get a paginated list of all users (Admin only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	users, total, err := h.userService.ListUsers(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list users")
	}

	return response.Success(c, "Users retrieved successfully", fiber.Map{
		"users":      users,
		"pagination": pagination.GetMeta(params, total),
	})
}

// CreateUser handles admin user creation
// @Summary Create user
// @Description Create a user with an explicit role and optional permission overrides (Admin only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.AdminCreateInput true "User data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users [post]
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req services.AdminCreateInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	user, err := h.userService.CreateUser(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRole):
			return response.BadRequest(c, "Role must be 'user' or 'admin'")
		case errors.Is(err, services.ErrBadOverrideDoc):
			return response.BadRequest(c, "Permissions must be a JSON object")
		case errors.Is(err, services.ErrUserConflict):
			return response.Conflict(c, "Username, email or phone already registered")
		default:
			return response.InternalServerError(c, "Failed to create user")
		}
	}

	return response.Created(c, "User created successfully", fiber.Map{
		"user": user,
	})
}

// UpdateUser handles patching a user's role and permissions
// @Summary Update user
// @Description Patch a user's role and/or permission override document (Admin only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param body body services.UpdateUserInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	var req services.UpdateUserInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.UpdateUser(c.Context(), c.Params("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRole):
			return response.BadRequest(c, "Role must be 'user' or 'admin'")
		case errors.Is(err, services.ErrBadOverrideDoc):
			return response.BadRequest(c, "Permissions must be a JSON object")
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to update user")
		}
	}

	return response.Success(c, "User updated successfully", fiber.Map{
		"user": user,
	})
}

// DeleteUser handles account deletion
// @Summary Delete user
// @Description Delete an account; admins cannot delete themselves (Admin only)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	err := h.userService.DeleteUser(c.Context(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCannotDeleteSelf):
			return response.BadRequest(c, "Cannot delete your own account")
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to delete user")
		}
	}

	return response.Success(c, "User deleted successfully", nil)
}
