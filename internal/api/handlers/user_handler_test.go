package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xianshiji/domain"
	"xianshiji/internal/utils"
)

type stubUserService struct {
	avatarFor uint
}

func (s *stubUserService) Register(_ context.Context, req domain.RegisterRequest) (domain.UserResponse, error) {
	if req.Phone == "taken" {
		return domain.UserResponse{}, domain.ErrUserAlreadyExists
	}
	return domain.UserResponse{ID: 1, Nickname: req.Nickname, Phone: req.Phone}, nil
}

func (s *stubUserService) Login(_ context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	if req.Password != "right" {
		return domain.LoginResponse{}, domain.ErrCredentialsNotMatch
	}
	return domain.LoginResponse{User: domain.UserResponse{ID: 1}, Token: "t"}, nil
}

func (s *stubUserService) UpdateUser(_ context.Context, req domain.UpdateUserRequest) (domain.UserResponse, error) {
	return domain.UserResponse{ID: req.ID, Nickname: req.Nickname}, nil
}

func (s *stubUserService) UploadAvatar(_ context.Context, userID uint, _ *multipart.FileHeader) (domain.AvatarResponse, error) {
	s.avatarFor = userID
	return domain.AvatarResponse{AvatarURL: "https://cdn.test/a.png"}, nil
}

func (s *stubUserService) GetUser(_ context.Context, id uint) (domain.UserResponse, error) {
	return domain.UserResponse{ID: id}, nil
}

func newUserApp(svc *stubUserService) *fiber.App {
	testValidator()
	h := NewUserHandler(svc, utils.Validate)
	app := newTestApp()
	app.Post("/users/register", h.Register)
	app.Post("/users/login", h.Login)
	app.Get("/users/me", h.Me)
	app.Put("/users/update", h.UpdateUser)
	app.Post("/users/upload-avatar", h.UploadAvatar)
	return app
}

func TestUserHandler_Register(t *testing.T) {
	app := newUserApp(&stubUserService{})

	resp, env := doJSON(t, app, "POST", "/users/register", 0, map[string]any{"phone": "138", "password": "p", "nickname": "小王"})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.True(t, env.Success)

	resp, _ = doJSON(t, app, "POST", "/users/register", 0, map[string]any{"password": "p", "nickname": "小王"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, env = doJSON(t, app, "POST", "/users/register", 0, map[string]any{"phone": "taken", "password": "p", "nickname": "x"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Contains(t, env.Message, "user already exists")
}

func TestUserHandler_Login(t *testing.T) {
	app := newUserApp(&stubUserService{})

	resp, env := doJSON(t, app, "POST", "/users/login", 0, map[string]any{"account": "138", "password": "right"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(env.Data), `"token":"t"`)

	resp, env = doJSON(t, app, "POST", "/users/login", 0, map[string]any{"account": "138", "password": "wrong"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestUserHandler_UpdateOnlySelf(t *testing.T) {
	app := newUserApp(&stubUserService{})

	resp, _ := doJSON(t, app, "PUT", "/users/update", 1, map[string]any{"id": 1, "nickname": "新名字"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, "PUT", "/users/update", 2, map[string]any{"id": 1, "nickname": "新名字"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestUserHandler_UploadAvatar(t *testing.T) {
	svc := &stubUserService{}
	app := newUserApp(svc)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("userId", "4"))
	part, err := w.CreateFormFile("avatar", "me.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/users/upload-avatar", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("X-User", "4")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, uint(4), svc.avatarFor)
}
