package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleEvent announces one sale product found by a fetch. The price fields are
// derived from Product.Prices so consumers can alert without recomputing.
type SaleEvent struct {
	Vendor          string          `json:"vendor"`
	Location        string          `json:"location"`
	FetchedAt       time.Time       `json:"fetched_at"`
	Product         Product         `json:"product"`
	OnSale          bool            `json:"on_sale"`
	Price           decimal.Decimal `json:"price"`
	Discount        decimal.Decimal `json:"discount"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

func NewSaleEvent(vendor, location string, fetchedAt time.Time, p Product) SaleEvent {
	return SaleEvent{
		Vendor:          vendor,
		Location:        location,
		FetchedAt:       fetchedAt,
		Product:         p,
		OnSale:          p.Prices.OnSale(),
		Price:           p.Prices.Current(),
		Discount:        p.Prices.Discount(),
		DiscountPercent: p.Prices.DiscountPercent(),
	}
}

// Key identifies the product across runs.
func (e SaleEvent) Key() string {
	return e.Product.Vendor + ":" + e.Product.VendorSKU
}
