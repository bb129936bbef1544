package presenters

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, app *fiber.App, path string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestEnvelope(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", func(c *fiber.Ctx) error {
		return SuccessResponse(c, fiber.Map{"n": 1}, fiber.StatusCreated, "done")
	})
	app.Get("/fail", func(c *fiber.Ctx) error {
		return ErrorResponse(c, fiber.StatusBadRequest, "failed to add", errors.New("bad date"))
	})
	app.Get("/empty", func(c *fiber.Ctx) error {
		return SuccessResponse(c, nil, fiber.StatusOK, "deleted")
	})

	status, body := decode(t, app, "/ok")
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "done", body["message"])
	assert.Equal(t, map[string]any{"n": float64(1)}, body["data"])

	status, body = decode(t, app, "/fail")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "failed to add: bad date", body["message"])
	assert.NotContains(t, body, "data")

	_, body = decode(t, app, "/empty")
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, body, "data")
}
