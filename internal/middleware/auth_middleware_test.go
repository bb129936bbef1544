package middleware

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwtService "xianshiji/pkg/jwt"
)

func newApp(svc jwtService.JWTService) *fiber.App {
	app := fiber.New()
	m := NewMiddleware("")
	app.Use(m.CORSMiddleware())
	app.Get("/me", m.AuthMiddleware(svc), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userId": c.Locals("user_id").(uint)})
	})
	return app
}

func call(t *testing.T, app *fiber.App, auth string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("GET", "/me", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestAuthMiddleware(t *testing.T) {
	svc := jwtService.NewJWTServiceWithSecret("secret")
	app := newApp(svc)

	token, err := svc.GenerateTokenUser(42)
	require.NoError(t, err)

	status, body := call(t, app, "Bearer "+token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(42), body["userId"])

	status, body = call(t, app, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, false, body["success"])

	status, _ = call(t, app, token)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = call(t, app, "Bearer not-a-token")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	other, err := jwtService.NewJWTServiceWithSecret("other").GenerateTokenUser(42)
	require.NoError(t, err)
	status, _ = call(t, app, "Bearer "+other)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestAuthMiddleware_Expired(t *testing.T) {
	svc := jwtService.NewJWTServiceWithSecret("secret")
	app := newApp(svc)

	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	status, body := call(t, app, "Bearer "+expired)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Contains(t, body["message"], "token expired")
}

func TestCORSPreflight(t *testing.T) {
	app := newApp(jwtService.NewJWTServiceWithSecret("secret"))

	req := httptest.NewRequest("OPTIONS", "/me", nil)
	req.Header.Set("Origin", "http://localhost:8081")
	req.Header.Set("Access-Control-Request-Method", "GET")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
