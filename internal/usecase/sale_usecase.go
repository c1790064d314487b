package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nguyentranbao-ct/sale-sailor/internal/config"
	"github.com/nguyentranbao-ct/sale-sailor/internal/models"
	"github.com/nguyentranbao-ct/sale-sailor/internal/sailor"
	"github.com/nguyentranbao-ct/sale-sailor/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Vendor pairs a lookup key with the factory for its adapter.
type Vendor struct {
	Key  string
	Name string
	New  sailor.Factory
}

type saleUsecase struct {
	vendors         map[string]Vendor
	keys            []string
	publisher       Publisher
	defaultLocation string
	sweepTimeout    time.Duration
	log             *zap.SugaredLogger
	now             func() time.Time
}

func NewSaleUsecase(cfg *config.Config, vendors []Vendor, publisher Publisher) SaleUsecase {
	uc := &saleUsecase{
		vendors:         make(map[string]Vendor, len(vendors)),
		publisher:       publisher,
		defaultLocation: cfg.Sale.DefaultLocation,
		sweepTimeout:    cfg.Sale.SweepTimeout,
		log:             logger.MustNamed("sale_usecase"),
		now:             time.Now,
	}
	for _, v := range vendors {
		key := strings.ToLower(v.Key)
		uc.vendors[key] = v
		uc.keys = append(uc.keys, key)
	}
	sort.Strings(uc.keys)
	return uc
}

func (uc *saleUsecase) ListVendors() []models.VendorInfo {
	infos := make([]models.VendorInfo, 0, len(uc.keys))
	for _, key := range uc.keys {
		infos = append(infos, models.VendorInfo{Key: key, Name: uc.vendors[key].Name})
	}
	return infos
}

// GetSaleProducts builds a fresh adapter for vendor and fetches its current
// specials near location.
func (uc *saleUsecase) GetSaleProducts(ctx context.Context, vendor, location string) (*models.VendorSales, error) {
	key := strings.ToLower(strings.TrimSpace(vendor))
	v, ok := uc.vendors[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownVendor, vendor)
	}

	location = uc.resolveLocation(location)
	if location == "" {
		return nil, models.ErrMissingLocation
	}

	s, err := v.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create %s sailor: %w", key, err)
	}

	products, err := s.GetSaleProducts(ctx, location)
	if err != nil {
		return nil, err
	}

	return &models.VendorSales{
		Vendor:    s.Vendor(),
		Key:       key,
		Location:  location,
		FetchedAt: uc.now(),
		Products:  products.Collect(),
	}, nil
}

// SweepAll fetches every configured vendor concurrently. A vendor failure is
// recorded in its result and does not stop the others.
func (uc *saleUsecase) SweepAll(ctx context.Context, location string) ([]models.SweepResult, error) {
	location = uc.resolveLocation(location)
	if location == "" {
		return nil, models.ErrMissingLocation
	}

	if uc.sweepTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.sweepTimeout)
		defer cancel()
	}

	log := logger.Ctx(ctx, uc.log)
	results := make([]models.SweepResult, len(uc.keys))

	var g errgroup.Group
	for i, key := range uc.keys {
		g.Go(func() error {
			sales, err := uc.GetSaleProducts(ctx, key, location)
			results[i] = models.SweepResult{Key: key, Sales: sales, Err: err}
			if err != nil {
				results[i].Error = err.Error()
				log.Warnw("failed to sweep vendor", "vendor", key, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

func (uc *saleUsecase) Publish(ctx context.Context, sales *models.VendorSales) error {
	if sales == nil || len(sales.Products) == 0 {
		return nil
	}
	if err := uc.publisher.Publish(ctx, sales.Events()...); err != nil {
		return fmt.Errorf("failed to publish sale events: %w", err)
	}
	logger.Ctx(ctx, uc.log).Infow("published sale events",
		"vendor", sales.Vendor,
		"location", sales.Location,
		"count", len(sales.Products))
	return nil
}

func (uc *saleUsecase) resolveLocation(location string) string {
	location = strings.TrimSpace(location)
	if location == "" {
		return uc.defaultLocation
	}
	return location
}
