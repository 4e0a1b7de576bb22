package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaCacheHeader(t *testing.T) {
	app := fiber.New()
	app.Get("/file", MediaCache(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/file", nil))
	require.NoError(t, err)
	assert.Equal(t, "public, max-age=31536000, immutable", resp.Header.Get("Cache-Control"))
}

func TestPublicCacheHeader(t *testing.T) {
	app := fiber.New()
	app.Get("/list", PublicCache(5*time.Minute), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/list", nil))
	require.NoError(t, err)
	assert.Equal(t, "public, max-age=300", resp.Header.Get("Cache-Control"))
}

func TestPublicCacheSkipsErrors(t *testing.T) {
	app := fiber.New()
	app.Get("/missing", PublicCache(5*time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNotFound)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)
	assert.Empty(t, resp.Header.Get("Cache-Control"))
}

func TestNoCacheHeaders(t *testing.T) {
	app := fiber.New()
	app.Get("/me", NoCacheHeaders(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, "no-store, no-cache, must-revalidate", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "no-cache", resp.Header.Get("Pragma"))
}
