package middleware

import (
	"strings"

	"tunehub/internal/config"
	"tunehub/internal/pkg/response"
	"tunehub/internal/pkg/token"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the name of the session token cookie
const SessionCookie = "token"

// extractToken pulls the session token from the cookie or, failing
// that, a Bearer Authorization header
func extractToken(c *fiber.Ctx) string {
	if sessionToken := c.Cookies(SessionCookie); sessionToken != "" {
		return sessionToken
	}

	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionToken := extractToken(c)
		if sessionToken == "" {
			return response.Unauthorized(c, "Authentication required")
		}

		claims, err := token.Validate(sessionToken, cfg.JWT.Secret)
		if err != nil {
			if err == token.ErrTokenExpired {
				return response.Unauthorized(c, "Session expired")
			}
			return response.Unauthorized(c, "Invalid session")
		}

		c.Locals("userID", claims.UserID)
		c.Locals("username", claims.Username)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// RequireAdmin middleware allows only the admin role. Runs after
// AuthMiddleware.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		if role != "admin" {
			return response.Forbidden(c, "Admin access required")
		}
		return c.Next()
	}
}

// OptionalAuth middleware - doesn't require auth but sets user info if
// a valid token is present. Routes with public and private views
// (playlists, session lookup) run behind this.
func OptionalAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sessionToken := extractToken(c); sessionToken != "" {
			claims, err := token.Validate(sessionToken, cfg.JWT.Secret)
			if err == nil {
				c.Locals("userID", claims.UserID)
				c.Locals("username", claims.Username)
				c.Locals("role", claims.Role)
			}
		}

		return c.Next()
	}
}

// UserID returns the authenticated user's ID, empty when anonymous
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals("userID").(string)
	return id
}

// Role returns the authenticated user's role, empty when anonymous
func Role(c *fiber.Ctx) string {
	role, _ := c.Locals("role").(string)
	return role
}
