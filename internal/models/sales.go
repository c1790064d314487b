package models

import "time"

// VendorSales is the outcome of one fetch from a single vendor.
type VendorSales struct {
	Vendor    string    `json:"vendor"`
	Key       string    `json:"key"`
	Location  string    `json:"location"`
	FetchedAt time.Time `json:"fetched_at"`
	Products  []Product `json:"products"`
}

// Events converts the products into publishable sale events.
func (s *VendorSales) Events() []SaleEvent {
	events := make([]SaleEvent, 0, len(s.Products))
	for _, p := range s.Products {
		events = append(events, NewSaleEvent(s.Vendor, s.Location, s.FetchedAt, p))
	}
	return events
}

// SweepResult is one vendor's entry in an all-vendor sweep. Exactly one of
// Sales and Error is set.
type SweepResult struct {
	Key   string       `json:"key"`
	Sales *VendorSales `json:"sales,omitempty"`
	Error string       `json:"error,omitempty"`
	Err   error        `json:"-"`
}

type VendorInfo struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}
