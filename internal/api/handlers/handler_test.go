package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"xianshiji/internal/utils"
)

// asUser stands in for AuthMiddleware: the X-User header becomes user_id.
func asUser(c *fiber.Ctx) error {
	if raw := c.Get("X-User"); raw != "" {
		id, _ := strconv.ParseUint(raw, 10, 64)
		c.Locals("user_id", uint(id))
	}
	return c.Next()
}

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Use(asUser)
	return app
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, app *fiber.App, method, path string, user uint, body any) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != 0 {
		req.Header.Set("X-User", strconv.FormatUint(uint64(user), 10))
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if resp.Header.Get("Content-Type") == fiber.MIMEApplicationJSON {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp, env
}

func testValidator() {
	utils.InitValidator()
}
