package barcode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestLookup_Found(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v0/product/6901234567892.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":1,"product":{"product_name":" 纯牛奶 ","categories":"乳制品","image_url":"https://img.test/milk.jpg"}}`))
	}))
	defer srv.Close()

	p, err := New(srv.URL, time.Second).Lookup(context.Background(), "6901234567892")
	require.NoError(t, err)
	assert.Equal(t, Product{
		Barcode:  "6901234567892",
		Name:     "纯牛奶",
		Category: "乳制品",
		ImageURL: "https://img.test/milk.jpg",
	}, p)
}

func TestLookup_StatusZeroIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":0,"status_verbose":"product not found"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Lookup(context.Background(), "123")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestLookup_HTTPNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Lookup(context.Background(), "123")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestLookup_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Lookup(context.Background(), "123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrProductNotFound)
}

func TestLookup_EmptyBarcode(t *testing.T) {
	_, err := New("http://unused", time.Second).Lookup(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrInvalidBarcode)
}

func TestLookup_LimiterHonoursContext(t *testing.T) {
	c := New("http://unused", time.Second).WithLimiter(rate.NewLimiter(rate.Every(time.Hour), 1))
	require.True(t, c.limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := c.Lookup(ctx, "123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrProductNotFound)
}
