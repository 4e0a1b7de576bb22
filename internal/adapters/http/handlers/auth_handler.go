package handlers

import (
	"errors"
	"strings"
	"time"

	"tunehub/internal/adapters/http/middleware"
	"tunehub/internal/config"
	"tunehub/internal/core/services"
	"tunehub/internal/pkg/response"
	"tunehub/internal/pkg/token"
	"tunehub/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// LoginRequest represents login request body
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Username   string `json:"username"`
	Password   string `json:"password" validate:"required"`
}

// ForgotPasswordRequest represents forgot-password request body
type ForgotPasswordRequest struct {
	Identifier string `json:"identifier" validate:"required"`
}

// ResetPasswordRequest represents reset-password request body
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// setSessionCookie writes the session token cookie with the same
// lifetime as the token itself
func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, sessionToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    sessionToken,
		Path:     "/",
		Domain:   h.cfg.Cookie.Domain,
		Expires:  time.Now().Add(token.Lifetime),
		HTTPOnly: true,
		Secure:   h.cfg.Cookie.Secure,
		SameSite: h.cfg.Cookie.SameSite,
	})
}

// clearSessionCookie expires the session token cookie
func (h *AuthHandler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Domain:   h.cfg.Cookie.Domain,
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.cfg.Cookie.Secure,
		SameSite: h.cfg.Cookie.SameSite,
	})
}

// Register handles user registration
// @Summary Register new user
// @Description Register a new account (always the user role, no auto-login)
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)

	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	user, err := h.authService.Register(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrContactRequired):
			return response.BadRequest(c, "Email or phone is required")
		case errors.Is(err, services.ErrWeakPassword):
			return response.BadRequest(c, "Password must be at least 6 characters")
		case errors.Is(err, services.ErrUserConflict):
			return response.Conflict(c, "Username, email or phone already registered")
		default:
			return response.InternalServerError(c, "Failed to register user")
		}
	}

	return response.Created(c, "User registered successfully", fiber.Map{
		"user": user,
	})
}

// Login handles user login
// @Summary Login user
// @Description Authenticate by username, email or phone and set the session cookie
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" {
		identifier = strings.TrimSpace(req.Username)
	}
	if identifier == "" || req.Password == "" {
		return response.BadRequest(c, "Identifier and password are required")
	}

	sessionToken, user, err := h.authService.Login(c.Context(), identifier, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return response.Unauthorized(c, "Invalid credentials")
		}
		return response.InternalServerError(c, "Failed to login")
	}

	h.setSessionCookie(c, sessionToken)

	return response.Success(c, "Login successful", fiber.Map{
		"user": user,
	})
}

// Logout handles user logout
// @Summary Logout user
// @Description Clear the session cookie (tokens are stateless, nothing is revoked server-side)
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.clearSessionCookie(c)
	return response.Success(c, "Logged out", nil)
}

// Me returns the current session's user
// @Summary Current session
// @Description Resolve the session cookie to a fresh user record; returns user null when there is no valid session
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return response.NoSession(c)
	}

	user, err := h.authService.GetUserByID(c.Context(), userID)
	if err != nil {
		// A stale session (deleted account) is still just "no session"
		return response.NoSession(c)
	}

	return c.JSON(fiber.Map{"user": user.ToResponse()})
}

// ForgotPassword issues a password reset ticket
// @Summary Request password reset
// @Description Always responds 200 with a neutral message so account existence is not revealed
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body ForgotPasswordRequest true "Account identifier"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	ticket, err := h.authService.ForgotPassword(c.Context(), strings.TrimSpace(req.Identifier))
	if err != nil {
		return response.InternalServerError(c, "Failed to process request")
	}

	data := fiber.Map{}
	if h.cfg.IsDev() && ticket != "" {
		data["debug_token"] = ticket
	}

	return response.Success(c, "If the account exists, a reset link has been sent", data)
}

// ResetPassword consumes a reset ticket
// @Summary Reset password
// @Description Consume a one-time reset ticket and set a new password
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body ResetPasswordRequest true "Reset ticket and new password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	err := h.authService.ResetPassword(c.Context(), req.Token, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrWeakPassword):
			return response.BadRequest(c, "Password must be at least 6 characters")
		case errors.Is(err, services.ErrInvalidResetTicket):
			return response.BadRequest(c, "Reset token is invalid or expired")
		default:
			return response.InternalServerError(c, "Failed to reset password")
		}
	}

	return response.Success(c, "Password reset successfully", nil)
}
