// Package barcode looks products up in the OpenFoodFacts v0 API to prefill
// the add-food form.
package barcode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidBarcode  = errors.New("barcode must not be empty")
)

// Product is the part of a lookup used by the form.
type Product struct {
	Barcode  string
	Name     string
	Category string
	ImageURL string
}

type lookupResponse struct {
	Status  int `json:"status"`
	Product struct {
		ProductName string `json:"product_name"`
		Categories  string `json:"categories"`
		ImageURL    string `json:"image_url"`
	} `json:"product"`
}

type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// New returns a client allowing at most one lookup per second with a burst
// of three, which keeps repeated scans within the public API's fair use.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(time.Second), 3),
	}
}

func (c *Client) WithLimiter(l *rate.Limiter) *Client {
	c.limiter = l
	return c
}

func (c *Client) Lookup(ctx context.Context, code string) (Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Product{}, ErrInvalidBarcode
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return Product{}, fmt.Errorf("wait for lookup slot: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, url.PathEscape(code))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Product{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Product{}, fmt.Errorf("lookup %s: %w", code, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Product{}, ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return Product{}, fmt.Errorf("lookup %s: unexpected status %d", code, resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Product{}, fmt.Errorf("decode lookup %s: %w", code, err)
	}
	if body.Status != 1 {
		return Product{}, ErrProductNotFound
	}

	return Product{
		Barcode:  code,
		Name:     strings.TrimSpace(body.Product.ProductName),
		Category: strings.TrimSpace(body.Product.Categories),
		ImageURL: strings.TrimSpace(body.Product.ImageURL),
	}, nil
}
