package middleware

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	"gopkg.in/alexcesaro/statsd.v2"
)

// ProfilerConfig sends per-route response timings to a statsd agent.
type ProfilerConfig struct {
	Log     Logger
	Skipper Skipper
	Address string
	Service string
}

var DefaultProfilerConfig = ProfilerConfig{
	Skipper: DefaultSkipper,
	Address: ":8125",
	Service: "sale-sailor",
}

// Profiler returns the middleware and the statsd client it writes to. The
// client must be closed on shutdown.
func Profiler(config ProfilerConfig) (echo.MiddlewareFunc, *statsd.Client, error) {
	if config.Skipper == nil {
		config.Skipper = DefaultProfilerConfig.Skipper
	}
	if config.Address == "" {
		config.Address = DefaultProfilerConfig.Address
	}
	if config.Service == "" {
		config.Service = DefaultProfilerConfig.Service
	}

	client, err := statsd.New(statsd.Address(config.Address), statsd.Prefix(config.Service))
	if err != nil {
		return nil, nil, fmt.Errorf("init statsd client: %w", err)
	}

	mw := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			if config.Skipper(c) {
				return next(c)
			}

			t := client.NewTiming()
			if err = next(c); err != nil {
				c.Error(err)
			}

			bucket := profilerBucket(c.Request().Method, c.Path(), c.Response().Status)
			if config.Log != nil {
				config.Log.Debugw("statsd timing", "bucket", bucket)
			}
			t.Send(bucket)

			return
		}
	}
	return mw, client, nil
}

// profilerBucket builds a statsd-safe bucket such as
// response.get.api_v1_vendors_vendor_sales.200.
func profilerBucket(method, path string, status int) string {
	path = strings.Trim(path, "/")
	path = strings.NewReplacer("/", "_", ":", "", ".", "_").Replace(path)
	if path == "" {
		path = "root"
	}
	return strings.ToLower(fmt.Sprintf("response.%s.%s.%d", method, path, status))
}
