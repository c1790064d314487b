package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nguyentranbao-ct/sale-sailor/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCookieServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/set", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "store", Value: r.URL.Query().Get("postcode"), Path: "/"})
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/get", func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("store")
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(c.Value))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{Vendor: "T&T", BaseURL: "http://example.com"}.WithDefaults()
	assert.Equal(t, DefaultPageSize, cfg.PageSize)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
	assert.False(t, cfg.DisableCookies)
	assert.Zero(t, cfg.Retries)
	assert.Zero(t, cfg.Burst)

	cfg = Config{PageSize: 10, RequestsPerSecond: 2}.WithDefaults()
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, DefaultBurst, cfg.Burst)
}

func TestNewValidates(t *testing.T) {
	_, err := New(Config{BaseURL: "http://example.com"}, nil)
	assert.Error(t, err)

	_, err = New(Config{Vendor: "T&T", BaseURL: "not a url"}, nil)
	assert.Error(t, err)

	_, err = New(Config{Vendor: "T&T", BaseURL: "http://example.com", PageSize: -1}, nil)
	assert.Error(t, err)

	c, err := New(Config{Vendor: "T&T", BaseURL: "http://example.com"}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, c.PageSize())
}

func TestCookiesPersistAcrossRequests(t *testing.T) {
	srv := newCookieServer(t)
	c, err := New(Config{Vendor: "T&T", BaseURL: srv.URL}, nil)
	require.NoError(t, err)

	ctx := context.Background()
	resp, err := c.Get(ctx, models.PhaseHandshake, "/set", map[string]string{"postcode": "V6B"})
	require.NoError(t, err)
	assert.True(t, resp.IsSuccess())

	resp, err = c.Get(ctx, models.PhaseFetch, "/get", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "V6B", string(resp.Body))
}

func TestCookiesDisabled(t *testing.T) {
	srv := newCookieServer(t)
	c, err := New(Config{Vendor: "T&T", BaseURL: srv.URL, DisableCookies: true}, nil)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = c.Get(ctx, models.PhaseHandshake, "/set", map[string]string{"postcode": "V6B"})
	require.NoError(t, err)

	resp, err := c.Get(ctx, models.PhaseFetch, "/get", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, resp.IsSuccess())
}

func TestGetSendsHeadersAndQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "custom-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "25", r.URL.Query().Get("pageSize"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(Config{Vendor: "T&T", BaseURL: srv.URL, UserAgent: "custom-agent"}, nil)
	require.NoError(t, err)
	resp, err := c.Get(context.Background(), models.PhaseFetch, "/items", map[string]string{"page": "1", "pageSize": "25"})
	require.NoError(t, err)
	assert.True(t, resp.IsSuccess())
}

func TestGetTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(Config{Vendor: "T&T", BaseURL: url, Timeout: time.Second}, nil)
	require.NoError(t, err)

	_, err = c.Get(context.Background(), models.PhaseFetch, "/items", nil)
	require.Error(t, err)
	fe, ok := models.AsFetchError(err)
	require.True(t, ok)
	assert.Equal(t, models.KindTransport, fe.Kind)
	assert.Equal(t, models.PhaseFetch, fe.Phase)
	assert.Equal(t, "T&T", fe.Vendor)
}

func TestGetCanceled(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	c, err := New(Config{Vendor: "T&T", BaseURL: srv.URL}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Get(ctx, models.PhaseFetch, "/slow", nil)
	require.Error(t, err)
	fe, ok := models.AsFetchError(err)
	require.True(t, ok)
	assert.Equal(t, models.KindTransport, fe.Kind)
	assert.True(t, fe.Canceled())
}

func TestRateLimiterHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(Config{Vendor: "T&T", BaseURL: srv.URL, RequestsPerSecond: 0.001}, nil)
	require.NoError(t, err)

	_, err = c.Get(context.Background(), models.PhaseHandshake, "/", nil)
	require.NoError(t, err)

	// the next token is ~1000s away, so waiting must give up with the context
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Get(ctx, models.PhaseFetch, "/", nil)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindTransport))
}
