package usecase

import (
	"context"

	"github.com/nguyentranbao-ct/sale-sailor/internal/models"
)

type SaleUsecase interface {
	ListVendors() []models.VendorInfo
	GetSaleProducts(ctx context.Context, vendor, location string) (*models.VendorSales, error)
	SweepAll(ctx context.Context, location string) ([]models.SweepResult, error)
	Publish(ctx context.Context, sales *models.VendorSales) error
}

// Publisher delivers sale events downstream.
type Publisher interface {
	Publish(ctx context.Context, events ...models.SaleEvent) error
}
