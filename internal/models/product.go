package models

import (
	"github.com/shopspring/decimal"
)

// Product is a vendor-agnostic sale record.
type Product struct {
	Name      string  `json:"name"`
	Units     *string `json:"units,omitempty"`
	Prices    Prices  `json:"prices"`
	Vendor    string  `json:"vendor"`
	VendorID  string  `json:"vendor_id"`
	VendorSKU string  `json:"vendor_sku"`
}

// Prices holds the monetary state of a product. Sale is set only when it
// differs from Original.
type Prices struct {
	Original decimal.Decimal  `json:"original"`
	Sale     *decimal.Decimal `json:"sale,omitempty"`
}

// NewPrices builds Prices from a vendor's pre-discount and final amounts.
func NewPrices(original, final decimal.Decimal) Prices {
	p := Prices{Original: original}
	if !final.Equal(original) {
		sale := final
		p.Sale = &sale
	}
	return p
}

func (p Prices) OnSale() bool {
	return p.Sale != nil
}

// Current returns the price a shopper pays today.
func (p Prices) Current() decimal.Decimal {
	if p.Sale != nil {
		return *p.Sale
	}
	return p.Original
}

// Discount returns Original minus Sale, or zero without a sale. A sale above
// the original price yields a negative discount.
func (p Prices) Discount() decimal.Decimal {
	if p.Sale == nil {
		return decimal.Zero
	}
	return p.Original.Sub(*p.Sale)
}

// DiscountPercent returns the discount as a percentage of Original rounded to
// two places.
func (p Prices) DiscountPercent() decimal.Decimal {
	if p.Sale == nil || p.Original.IsZero() {
		return decimal.Zero
	}
	return p.Discount().Div(p.Original).Mul(decimal.NewFromInt(100)).Round(2)
}
