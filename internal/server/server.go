package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nguyentranbao-ct/sale-sailor/internal/config"
	pkgmdw "github.com/nguyentranbao-ct/sale-sailor/internal/server/middleware"
	"github.com/nguyentranbao-ct/sale-sailor/pkg/logger"
	"go.uber.org/fx"
)

// NewEcho builds the HTTP API around handler.
func NewEcho(conf *config.Config, handler Controller) (*echo.Echo, error) {
	log := logger.MustNamed("http")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = pkgmdw.NewValidator()
	e.HTTPErrorHandler = pkgmdw.ErrorHandler(log)

	logConfig := pkgmdw.LogRequestConfig{
		Logger: log,
		Enabled: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path != "/health" && path != "/metrics"
		},
	}

	e.Use(pkgmdw.Metrics())
	e.Use(pkgmdw.RequestID())
	e.Use(pkgmdw.LogRequest(logConfig))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Ctx(c.Request().Context(), log).Errorw("PANIC RECOVER", "error", err, "stack", string(stack))
			return nil
		},
	}))

	if conf.Server.CORSOrigins != "" {
		pattern, err := regexp.Compile(conf.Server.CORSOrigins)
		if err != nil {
			return nil, fmt.Errorf("compile cors origins: %w", err)
		}
		e.Use(pkgmdw.CORS(pattern))
	}
	if conf.Server.PprofEnabled {
		pkgmdw.Pprof(e, "")
	}

	e.GET("/health", handler.Health)

	api := e.Group("/api/v1")
	api.GET("/vendors", pkgmdw.WrapHandler(handler.ListVendors))
	api.GET("/vendors/:vendor/sales", pkgmdw.WrapHandler(handler.GetVendorSales))
	api.GET("/sales", pkgmdw.WrapHandler(handler.SweepSales))

	return e, nil
}

func StartServer(
	lc fx.Lifecycle,
	sd fx.Shutdowner,
	conf *config.Config,
	e *echo.Echo,
) error {
	log := logger.MustNamed("http")

	if conf.Server.StatsdAddr != "" {
		profiler, client, err := pkgmdw.Profiler(pkgmdw.ProfilerConfig{
			Log:     log,
			Address: conf.Server.StatsdAddr,
		})
		if err != nil {
			return err
		}
		e.Use(profiler)
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				client.Close()
				return nil
			},
		})
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Infow("starting HTTP server", "addr", conf.Server.Addr)
				if err := e.Start(conf.Server.Addr); !errors.Is(err, http.ErrServerClosed) {
					log.Errorw("HTTP server stopped", "error", err)
					_ = sd.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
	return nil
}
