package sailor

import (
	"github.com/nguyentranbao-ct/sale-sailor/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Record is one vendor item as received, before normalization.
type Record interface {
	// DisplayName identifies the record in logs, e.g. "Bok Choy (SKU: 123)".
	DisplayName() string
	Available() bool
	Saleable() bool
	// FinalPrice is the amount a shopper pays today.
	FinalPrice() decimal.Decimal
	// Product maps the record to a canonical product for vendor.
	Product(vendor string) models.Product
}

// RejectReason names the filter a record failed.
type RejectReason string

const (
	RejectUnavailable RejectReason = "unavailable"
	RejectUnsellable  RejectReason = "unsellable"
	RejectUnpriced    RejectReason = "unpriced"
)

// Report summarizes one normalization run.
type Report struct {
	Accepted int
	Rejected map[RejectReason]int
}

func (r Report) Total() int {
	n := r.Accepted
	for _, c := range r.Rejected {
		n += c
	}
	return n
}

// Reject returns why a record is ineligible, checking availability, then
// saleability, then a zero final price. ok is false for eligible records.
func Reject(r Record) (reason RejectReason, ok bool) {
	switch {
	case !r.Available():
		return RejectUnavailable, true
	case !r.Saleable():
		return RejectUnsellable, true
	case r.FinalPrice().IsZero():
		return RejectUnpriced, true
	}
	return "", false
}

// Normalize drops ineligible records and maps the rest to products. It does
// no I/O and preserves record order.
func Normalize[R Record](log *zap.SugaredLogger, vendor string, records []R) []models.Product {
	products, _ := NormalizeWithReport(log, vendor, records)
	return products
}

func NormalizeWithReport[R Record](log *zap.SugaredLogger, vendor string, records []R) ([]models.Product, Report) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	report := Report{Rejected: make(map[RejectReason]int)}
	products := make([]models.Product, 0, len(records))
	for _, r := range records {
		if reason, rejected := Reject(r); rejected {
			log.Infow("found an "+string(reason)+" product",
				"vendor", vendor,
				"product", r.DisplayName(),
				"reason", reason)
			report.Rejected[reason]++
			continue
		}
		products = append(products, r.Product(vendor))
		report.Accepted++
	}
	return products, report
}
