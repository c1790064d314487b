// Package session holds the stateful HTTP client a vendor adapter talks to its
// backend through. A Client keeps cookies between calls so a location chosen
// during the handshake applies to the following fetch.
package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/nguyentranbao-ct/sale-sailor/internal/models"
	"github.com/nguyentranbao-ct/sale-sailor/pkg/logger"
	"github.com/nguyentranbao-ct/sale-sailor/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultPageSize is the number of items requested per page.
	DefaultPageSize = 25
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 15 * time.Second
	// DefaultUserAgent is sent when Config.UserAgent is empty.
	DefaultUserAgent = "sale-sailor/1.0"
	// DefaultBurst is the limiter burst when RequestsPerSecond is set.
	DefaultBurst = 1
)

// Config configures a Client. Zero values take the documented defaults:
// PageSize 25, cookies persisted, Timeout 15s, no rate limit, no retries.
type Config struct {
	// Vendor labels errors, logs and metrics.
	Vendor  string `validate:"required"`
	BaseURL string `validate:"required,url"`

	PageSize int `validate:"gte=0,lte=500"`

	// DisableCookies turns off cookie persistence across requests.
	DisableCookies bool

	Timeout   time.Duration `validate:"gte=0"`
	UserAgent string

	// RequestsPerSecond paces requests; zero means unlimited.
	RequestsPerSecond float64 `validate:"gte=0"`
	Burst             int     `validate:"gte=0"`

	// Retries is the number of automatic retries for failed requests.
	Retries int `validate:"gte=0,lte=10"`
}

// WithDefaults returns a copy of c with zero fields set to their defaults.
func (c Config) WithDefaults() Config {
	if c.PageSize == 0 {
		c.PageSize = DefaultPageSize
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.RequestsPerSecond > 0 && c.Burst == 0 {
		c.Burst = DefaultBurst
	}
	return c
}

// Response is a fully read vendor response.
type Response struct {
	StatusCode int
	Body       []byte
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client is not safe for concurrent use by multiple logical sessions.
type Client struct {
	cfg     Config
	http    *resty.Client
	limiter *rate.Limiter
	log     *zap.SugaredLogger
	metrics *prometheus.HistogramVec
}

var validate = validator.New()

// New validates cfg after applying defaults and builds a Client.
func New(cfg Config, log *zap.SugaredLogger) (*Client, error) {
	cfg = cfg.WithDefaults()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid session config: %w", err)
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	metrics, err := util.GetHistogramVec("vendor_request_duration_seconds", "vendor", "phase", "code")
	if err != nil {
		return nil, fmt.Errorf("get histogram vec: %w", err)
	}

	httpClient := util.NewRestyClient(cfg.Retries, cfg.Timeout, log).
		SetBaseURL(cfg.BaseURL).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json")
	// resty attaches a cookie jar by default
	if cfg.DisableCookies {
		httpClient.SetCookieJar(nil)
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
	}

	return &Client{
		cfg:     cfg,
		http:    httpClient,
		limiter: limiter,
		log:     log,
		metrics: metrics,
	}, nil
}

func (c *Client) PageSize() int {
	return c.cfg.PageSize
}

// Get sends a GET for path relative to the base URL. Only a failure to send
// or read is returned as an error; status handling is left to the caller.
func (c *Client) Get(ctx context.Context, phase models.Phase, path string, query map[string]string) (*Response, error) {
	log := logger.Ctx(ctx, c.log)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, models.NewTransportError(c.cfg.Vendor, phase, "failed to wait for rate limiter", err)
		}
	}

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(path)
	elapsed := time.Since(start)

	if err != nil {
		c.metrics.WithLabelValues(c.cfg.Vendor, string(phase), "error").Observe(elapsed.Seconds())
		log.Debugw("vendor request failed",
			"vendor", c.cfg.Vendor,
			"phase", phase,
			"path", path,
			"latency_ms", elapsed.Milliseconds(),
			"error", err)
		return nil, models.NewTransportError(c.cfg.Vendor, phase, "failed to send request", err)
	}

	c.metrics.WithLabelValues(c.cfg.Vendor, string(phase), strconv.Itoa(resp.StatusCode())).Observe(elapsed.Seconds())
	log.Debugw("vendor request",
		"vendor", c.cfg.Vendor,
		"phase", phase,
		"url", resp.Request.URL,
		"status", resp.StatusCode(),
		"latency_ms", elapsed.Milliseconds())

	return &Response{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}, nil
}
