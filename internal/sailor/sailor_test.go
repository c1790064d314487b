package sailor

import (
	"testing"

	"github.com/nguyentranbao-ct/sale-sailor/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeRecord struct {
	sku       string
	name      string
	available bool
	saleable  bool
	old       string
	final     string
	units     string
}

func (r fakeRecord) DisplayName() string { return r.name + " (SKU: " + r.sku + ")" }
func (r fakeRecord) Available() bool     { return r.available }
func (r fakeRecord) Saleable() bool      { return r.saleable }
func (r fakeRecord) FinalPrice() decimal.Decimal {
	return decimal.RequireFromString(r.final)
}

func (r fakeRecord) Product(vendor string) models.Product {
	p := models.Product{
		Name:      r.name,
		Prices:    models.NewPrices(decimal.RequireFromString(r.old), r.FinalPrice()),
		Vendor:    vendor,
		VendorID:  "id-" + r.sku,
		VendorSKU: r.sku,
	}
	if r.units != "" {
		units := r.units
		p.Units = &units
	}
	return p
}

func TestNormalizeScenario(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	records := []fakeRecord{
		{sku: "1", name: "Mango", available: true, saleable: true, old: "10.00", final: "8.00", units: "ea"},
		{sku: "2", name: "Durian", available: false, saleable: true, old: "5.00", final: "5.00"},
		{sku: "3", name: "Tofu", available: true, saleable: true, old: "3.00", final: "3.00"},
	}

	products, report := NormalizeWithReport(zap.New(core).Sugar(), "T&T", records)
	require.Len(t, products, 2)

	assert.Equal(t, "Mango", products[0].Name)
	assert.True(t, products[0].Prices.Original.Equal(decimal.RequireFromString("10.00")))
	require.NotNil(t, products[0].Prices.Sale)
	assert.True(t, products[0].Prices.Sale.Equal(decimal.RequireFromString("8.00")))
	require.NotNil(t, products[0].Units)
	assert.Equal(t, "ea", *products[0].Units)

	assert.Equal(t, "Tofu", products[1].Name)
	assert.True(t, products[1].Prices.Original.Equal(decimal.RequireFromString("3.00")))
	assert.Nil(t, products[1].Prices.Sale)
	assert.Nil(t, products[1].Units)

	for _, p := range products {
		assert.Equal(t, "T&T", p.Vendor)
	}

	assert.Equal(t, 2, report.Accepted)
	assert.Equal(t, 1, report.Rejected[RejectUnavailable])
	assert.Equal(t, 3, report.Total())

	entries := logs.FilterMessage("found an unavailable product").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "Durian (SKU: 2)", entries[0].ContextMap()["product"])
}

func TestRejectOrder(t *testing.T) {
	tests := []struct {
		name   string
		record fakeRecord
		want   RejectReason
		ok     bool
	}{
		{
			name:   "all filters fail reports availability first",
			record: fakeRecord{available: false, saleable: false, old: "1", final: "0"},
			want:   RejectUnavailable,
			ok:     true,
		},
		{
			name:   "unsellable before unpriced",
			record: fakeRecord{available: true, saleable: false, old: "1", final: "0"},
			want:   RejectUnsellable,
			ok:     true,
		},
		{
			name:   "zero final price",
			record: fakeRecord{available: true, saleable: true, old: "4.99", final: "0.00"},
			want:   RejectUnpriced,
			ok:     true,
		},
		{
			name:   "eligible",
			record: fakeRecord{available: true, saleable: true, old: "4.99", final: "0.01"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, ok := Reject(tt.record)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, reason)
		})
	}
}

func TestNormalizeNilLoggerAndEmpty(t *testing.T) {
	products := Normalize[fakeRecord](nil, "T&T", nil)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestProductsSingleUse(t *testing.T) {
	p := NewProducts([]models.Product{{Name: "a"}, {Name: "b"}, {Name: "c"}})
	assert.Equal(t, 3, p.Len())

	var names []string
	for prod := range p.All() {
		names = append(names, prod.Name)
		if prod.Name == "b" {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, names)
	assert.Equal(t, 1, p.Len())

	rest := p.Collect()
	require.Len(t, rest, 1)
	assert.Equal(t, "c", rest[0].Name)

	for range p.All() {
		t.Fatal("sequence must be exhausted")
	}
	assert.Empty(t, p.Collect())
}

func TestLocationPrefix(t *testing.T) {
	tests := []struct {
		hint string
		n    int
		want string
	}{
		{hint: "V6B 2K5", n: 3, want: "V6B"},
		{hint: "V6B2K5", n: 3, want: "V6B"},
		{hint: "  m5v 3l9 ", n: 3, want: "m5v"},
		{hint: "V6", n: 3, want: "V6"},
		{hint: "", n: 3, want: ""},
		{hint: "ÉÉÉÉ", n: 2, want: "ÉÉ"},
		{hint: "V6B 2K5", n: 0, want: "V6B 2K5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LocationPrefix(tt.hint, tt.n), tt.hint)
	}
}
