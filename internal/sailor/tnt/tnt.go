// Package tnt finds sales at T&T Supermarket.
package tnt

import (
	"context"
	"strconv"

	"github.com/nguyentranbao-ct/sale-sailor/internal/models"
	"github.com/nguyentranbao-ct/sale-sailor/internal/sailor"
	"github.com/nguyentranbao-ct/sale-sailor/internal/session"
	"github.com/nguyentranbao-ct/sale-sailor/pkg/logger"
	"github.com/nguyentranbao-ct/sale-sailor/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	// Vendor is stamped on every product this adapter returns.
	Vendor = "T&T"

	DefaultBaseURL = "https://www.tntsupermarket.com/rest/V1"

	// DefaultLocationPrefixLength is how much of a postal code T&T needs to
	// pick a regional store: the forward sortation area, e.g. "V6B".
	DefaultLocationPrefixLength = 3

	storeCodePath     = "/tntzone/location/getpreferedstorecode"
	weeklySpecialPath = "/xmapi/app-weekly-special"

	bodySnippetLength = 256
)

type Config struct {
	// Session configures the vendor session. Vendor and BaseURL default to
	// the T&T values.
	Session session.Config

	// LocationPrefixLength is the number of leading characters of the
	// location hint submitted to the store picker. Zero means 3.
	LocationPrefixLength int
}

func (c Config) WithDefaults() Config {
	if c.Session.Vendor == "" {
		c.Session.Vendor = Vendor
	}
	if c.Session.BaseURL == "" {
		c.Session.BaseURL = DefaultBaseURL
	}
	if c.LocationPrefixLength == 0 {
		c.LocationPrefixLength = DefaultLocationPrefixLength
	}
	c.Session = c.Session.WithDefaults()
	return c
}

// Sailor implements sailor.Sailor for T&T. Each instance owns one session.
type Sailor struct {
	client    *session.Client
	prefixLen int
	log       *zap.SugaredLogger
	products  *prometheus.CounterVec
}

var _ sailor.Sailor = (*Sailor)(nil)

func New(cfg Config, log *zap.SugaredLogger) (*Sailor, error) {
	cfg = cfg.WithDefaults()
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	client, err := session.New(cfg.Session, log)
	if err != nil {
		return nil, err
	}

	products, err := util.GetCounterVec("vendor_products_total", "vendor", "outcome")
	if err != nil {
		return nil, err
	}

	return &Sailor{
		client:    client,
		prefixLen: cfg.LocationPrefixLength,
		log:       log,
		products:  products,
	}, nil
}

// NewFactory returns a sailor.Factory producing independent T&T sailors.
func NewFactory(cfg Config, log *zap.SugaredLogger) sailor.Factory {
	return func() (sailor.Sailor, error) {
		return New(cfg, log)
	}
}

func (s *Sailor) Vendor() string {
	return Vendor
}

func (s *Sailor) GetSaleProducts(ctx context.Context, location string) (*sailor.Products, error) {
	log := logger.Ctx(ctx, s.log)

	if err := s.setPreferredStore(ctx, log, location); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, models.NewTransportError(Vendor, models.PhaseFetch, "failed to get weekly specials", err)
	}

	body, err := s.weeklySpecials(ctx)
	if err != nil {
		return nil, err
	}

	records, err := parseRecords(body)
	if err != nil {
		return nil, err
	}

	products, report := sailor.NormalizeWithReport(log, Vendor, records)
	s.products.WithLabelValues(Vendor, "accepted").Add(float64(report.Accepted))
	for reason, n := range report.Rejected {
		s.products.WithLabelValues(Vendor, string(reason)).Add(float64(n))
	}
	log.Infow("fetched weekly specials",
		"vendor", Vendor,
		"items", report.Total(),
		"products", report.Accepted)

	return sailor.NewProducts(products), nil
}

// setPreferredStore tells T&T which regional store to price for. Only a
// failure to send is returned; a rejected location falls back to the store
// the session already has. T&T is never sent an empty postcode.
func (s *Sailor) setPreferredStore(ctx context.Context, log *zap.SugaredLogger, location string) error {
	postcode := sailor.LocationPrefix(location, s.prefixLen)
	if postcode == "" {
		log.Debugw("no location given, using default store", "vendor", Vendor)
		return nil
	}

	resp, err := s.client.Get(ctx, models.PhaseHandshake, storeCodePath, map[string]string{
		"postcode": postcode,
	})
	if err != nil {
		if fe, ok := models.AsFetchError(err); ok {
			fe.Message = "failed to set preferred store"
		}
		return err
	}
	if !resp.IsSuccess() {
		log.Warnw("failed to set preferred store",
			"vendor", Vendor,
			"postcode", postcode,
			"status", resp.StatusCode)
	}
	return nil
}

func (s *Sailor) weeklySpecials(ctx context.Context) ([]byte, error) {
	resp, err := s.client.Get(ctx, models.PhaseFetch, weeklySpecialPath, map[string]string{
		"page":     "1",
		"pageSize": strconv.Itoa(s.client.PageSize()),
	})
	if err != nil {
		if fe, ok := models.AsFetchError(err); ok {
			fe.Message = "failed to get weekly specials"
		}
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, models.NewUpstreamError(Vendor, models.PhaseFetch, "failed to get weekly specials",
			resp.StatusCode, util.Truncate(string(resp.Body), bodySnippetLength))
	}
	return resp.Body, nil
}
