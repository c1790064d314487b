// Package sailor defines the uniform fetch capability implemented by every
// vendor adapter and the pipeline that turns vendor records into canonical
// products.
package sailor

import (
	"context"
	"iter"
	"strings"
	"sync"

	"github.com/nguyentranbao-ct/sale-sailor/internal/models"
)

// Sailor finds sale products at one vendor.
//
// An instance owns a single vendor session and must not be used by more than
// one caller at a time. Construct one instance per logical session.
type Sailor interface {
	// Vendor returns the human-readable vendor name stamped on products.
	Vendor() string

	// GetSaleProducts informs the vendor of the caller's location on a best
	// effort basis and returns one page of current specials. Failures are
	// returned as *models.FetchError and never as an empty result.
	GetSaleProducts(ctx context.Context, location string) (*Products, error)
}

// Factory builds a fresh Sailor with its own session.
type Factory func() (Sailor, error)

// Products is a finite sequence of products that can be consumed once.
type Products struct {
	mu    sync.Mutex
	items []models.Product
}

func NewProducts(items []models.Product) *Products {
	return &Products{items: items}
}

// All yields the products not yet consumed. Each product is yielded at most
// once across all calls, so iterating a drained sequence yields nothing.
// Stopping early leaves the unvisited products for a later call.
func (p *Products) All() iter.Seq[models.Product] {
	return func(yield func(models.Product) bool) {
		for {
			p.mu.Lock()
			if len(p.items) == 0 {
				p.mu.Unlock()
				return
			}
			next := p.items[0]
			p.items = p.items[1:]
			p.mu.Unlock()

			if !yield(next) {
				return
			}
		}
	}
}

// Collect drains the sequence into a slice.
func (p *Products) Collect() []models.Product {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.items
	p.items = nil
	if out == nil {
		out = []models.Product{}
	}
	return out
}

// Len reports how many products have not been consumed yet.
func (p *Products) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

// LocationPrefix trims hint and keeps its leading n characters. Vendors key
// regional pricing on a coarse prefix of the postal code. n <= 0 keeps the
// whole trimmed hint.
func LocationPrefix(hint string, n int) string {
	hint = strings.TrimSpace(hint)
	if n <= 0 {
		return hint
	}
	runes := []rune(hint)
	if len(runes) <= n {
		return hint
	}
	return string(runes[:n])
}
