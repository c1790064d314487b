package app

import (
	"context"

	"github.com/nguyentranbao-ct/sale-sailor/internal/config"
	"github.com/nguyentranbao-ct/sale-sailor/internal/publisher"
	"github.com/nguyentranbao-ct/sale-sailor/internal/sailor/tnt"
	"github.com/nguyentranbao-ct/sale-sailor/internal/session"
	"github.com/nguyentranbao-ct/sale-sailor/internal/usecase"
	"github.com/nguyentranbao-ct/sale-sailor/pkg/logger"
	"go.uber.org/fx"
)

// TNTConfig maps the env settings onto the adapter configuration.
func TNTConfig(vc config.VendorConfig) tnt.Config {
	return tnt.Config{
		Session: session.Config{
			Vendor:            tnt.Vendor,
			BaseURL:           vc.BaseURL,
			PageSize:          vc.PageSize,
			DisableCookies:    !vc.Cookies,
			Timeout:           vc.Timeout,
			UserAgent:         vc.UserAgent,
			RequestsPerSecond: vc.RequestsPerSecond,
			Burst:             vc.Burst,
			Retries:           vc.Retries,
		},
		LocationPrefixLength: vc.LocationPrefixLength,
	}
}

// newVendors lists every adapter the service can fetch from.
func newVendors(cfg *config.Config) []usecase.Vendor {
	return []usecase.Vendor{
		{
			Key:  "tnt",
			Name: tnt.Vendor,
			New:  tnt.NewFactory(TNTConfig(cfg.TNT), logger.MustNamed("tnt")),
		},
	}
}

func newPublisher(lc fx.Lifecycle, cfg *config.Config) (usecase.Publisher, error) {
	p, err := publisher.NewPublisher(cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return p.Close()
		},
	})
	return p, nil
}
