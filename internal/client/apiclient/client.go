// Package apiclient is a typed client for the inventory REST API. Every
// call makes exactly one request and never retries.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"xianshiji/domain"
	"xianshiji/pkg/inventory"
)

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func New(baseURL string, timeout time.Duration) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// SetToken sets the bearer token sent with every later request.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}

	req, err := c.newRequest(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	op := req.Method + " " + req.URL.Path
	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	return decode(resp.StatusCode, raw, out)
}

func decode(status int, raw []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if status >= 400 {
			return &BackendError{Status: status, Message: http.StatusText(status)}
		}
		return fmt.Errorf("decode response: %w", err)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(status)
		}
		return &BackendError{Status: status, Message: msg}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

func idPath(format string, ids ...uint) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = strconv.FormatUint(uint64(id), 10)
	}
	return fmt.Sprintf(format, args...)
}

func (c *Client) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/api/ping", nil, nil)
}

// users

func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	var res domain.LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/users/login", req, &res)
	return res, err
}

func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error) {
	var res domain.UserResponse
	err := c.doJSON(ctx, http.MethodPost, "/users/register", req, &res)
	return res, err
}

func (c *Client) UpdateUser(ctx context.Context, req domain.UpdateUserRequest) (domain.UserResponse, error) {
	var res domain.UserResponse
	err := c.doJSON(ctx, http.MethodPut, "/users/update", req, &res)
	return res, err
}

func (c *Client) UploadAvatar(ctx context.Context, userID uint, fileName string, content io.Reader) (domain.AvatarResponse, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("userId", strconv.FormatUint(uint64(userID), 10)); err != nil {
		return domain.AvatarResponse{}, err
	}
	part, err := w.CreateFormFile("avatar", fileName)
	if err != nil {
		return domain.AvatarResponse{}, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return domain.AvatarResponse{}, err
	}
	if err := w.Close(); err != nil {
		return domain.AvatarResponse{}, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/users/upload-avatar", &buf, w.FormDataContentType())
	if err != nil {
		return domain.AvatarResponse{}, err
	}
	var res domain.AvatarResponse
	err = c.send(req, &res)
	return res, err
}

// families

func (c *Client) CreateFamily(ctx context.Context, req domain.CreateFamilyRequest) (domain.FamilyResponse, error) {
	var res domain.FamilyResponse
	err := c.doJSON(ctx, http.MethodPost, "/families/create", req, &res)
	return res, err
}

func (c *Client) JoinFamily(ctx context.Context, req domain.JoinFamilyRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/families/join", req, nil)
}

func (c *Client) MyFamilies(ctx context.Context, userID uint) ([]domain.FamilyResponse, error) {
	var res []domain.FamilyResponse
	err := c.doJSON(ctx, http.MethodGet, idPath("/families/my?userId=%s", userID), nil, &res)
	return res, err
}

// food items

func (c *Client) ListFoodItems(ctx context.Context, userID uint, query domain.FoodItemQuery) ([]inventory.Item, error) {
	path := idPath("/food-items/user/%s", userID)
	q := url.Values{}
	if query.Status != "" {
		q.Set("status", query.Status)
	}
	if query.Category != "" {
		q.Set("category", query.Category)
	}
	if query.Search != "" {
		q.Set("search", query.Search)
	}
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	res := []inventory.Item{}
	err := c.doJSON(ctx, http.MethodGet, path, nil, &res)
	return res, err
}

func (c *Client) FoodStatistics(ctx context.Context, userID uint) (inventory.Statistics, error) {
	var res inventory.Statistics
	err := c.doJSON(ctx, http.MethodGet, idPath("/food-items/user/%s/statistics", userID), nil, &res)
	return res, err
}

func (c *Client) FoodAlerts(ctx context.Context, userID uint) (inventory.Alerts, error) {
	res := inventory.ComposeAlerts(nil)
	err := c.doJSON(ctx, http.MethodGet, idPath("/food-items/user/%s/alerts", userID), nil, &res)
	return res, err
}

func (c *Client) AddFoodItem(ctx context.Context, req domain.FoodItemRequest) (inventory.Item, error) {
	var res inventory.Item
	err := c.doJSON(ctx, http.MethodPost, "/food-items", req, &res)
	return res, err
}

func (c *Client) UpdateFoodItem(ctx context.Context, id uint, req domain.FoodItemRequest) (inventory.Item, error) {
	var res inventory.Item
	err := c.doJSON(ctx, http.MethodPut, idPath("/food-items/%s", id), req, &res)
	return res, err
}

func (c *Client) UpdateQuantity(ctx context.Context, id uint, req domain.UpdateQuantityRequest) error {
	return c.doJSON(ctx, http.MethodPut, idPath("/food-items/%s/quantity", id), req, nil)
}

func (c *Client) UpdateMinQuantity(ctx context.Context, id uint, req domain.UpdateMinQuantityRequest) error {
	return c.doJSON(ctx, http.MethodPut, idPath("/food-items/%s/min-quantity", id), req, nil)
}

func (c *Client) DeleteFoodItem(ctx context.Context, id, userID uint) error {
	return c.doJSON(ctx, http.MethodDelete, idPath("/food-items/%s?userId=%s", id, userID), nil, nil)
}

// ExportFoodItems returns the xlsx workbook bytes.
func (c *Client) ExportFoodItems(ctx context.Context, userID uint) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, idPath("/food-items/user/%s/export", userID), nil, "")
	if err != nil {
		return nil, err
	}
	op := req.Method + " " + req.URL.Path
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, decode(resp.StatusCode, raw, nil)
	}
	return raw, nil
}

// recipes

func (c *Client) Recipes(ctx context.Context) ([]inventory.Recipe, error) {
	res := []inventory.Recipe{}
	err := c.doJSON(ctx, http.MethodGet, "/recipes", nil, &res)
	return res, err
}

func (c *Client) RecipesByCuisine(ctx context.Context, cuisineType string) ([]inventory.Recipe, error) {
	res := []inventory.Recipe{}
	err := c.doJSON(ctx, http.MethodGet, "/recipes/cuisine/"+url.PathEscape(cuisineType), nil, &res)
	return res, err
}

func (c *Client) SearchRecipes(ctx context.Context, keyword string) ([]inventory.Recipe, error) {
	res := []inventory.Recipe{}
	err := c.doJSON(ctx, http.MethodGet, "/recipes/search?keyword="+url.QueryEscape(keyword), nil, &res)
	return res, err
}

func (c *Client) RecipeDetail(ctx context.Context, id uint) (inventory.Recipe, error) {
	var res inventory.Recipe
	err := c.doJSON(ctx, http.MethodGet, idPath("/recipes/%s", id), nil, &res)
	return res, err
}

func (c *Client) AddRecipe(ctx context.Context, req domain.RecipeRequest) (inventory.Recipe, error) {
	var res inventory.Recipe
	err := c.doJSON(ctx, http.MethodPost, "/recipes", req, &res)
	return res, err
}
