package validation

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func testApp() *fiber.App {
	app := fiber.New()
	validate := Middleware(Config{})
	app.Post("/projects/:id/analytics/compute", validate, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestMiddleware_ValidProjectID(t *testing.T) {
	app := testApp()

	req := httptest.NewRequest("POST", "/projects/proj_123-a/analytics/compute", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMiddleware_RejectsMalformedProjectID(t *testing.T) {
	app := testApp()

	req := httptest.NewRequest("POST", "/projects/p1%24drop/analytics/compute", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestMiddleware_RejectsUnsupportedContentType(t *testing.T) {
	app := testApp()

	req := httptest.NewRequest("POST", "/projects/p1/analytics/compute", nil)
	req.Header.Set("Content-Type", "text/xml")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestMiddleware_AllowsJSONContentType(t *testing.T) {
	app := testApp()

	req := httptest.NewRequest("POST", "/projects/p1/analytics/compute", nil)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
