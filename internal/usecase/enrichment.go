package usecase

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"kickshop/internal/clients"
	"kickshop/internal/domain"
)

var _ domain.CartView = (*cartView)(nil)

// cartView joins cart lines against full product records through a
// read-through cache. Each uncached product costs one independent detail
// fetch: N fetches for N distinct uncached products. That is acceptable for
// small carts and is the documented scalability limit of this resolver, not
// an accident.
type cartView struct {
	api clients.ShopAPI
	log *logrus.Logger

	mu       sync.Mutex
	items    []domain.CartItem
	products map[string]domain.Product
}

func NewCartView(api clients.ShopAPI, logger *logrus.Logger) domain.CartView {
	return &cartView{
		api:      api,
		log:      logger,
		products: make(map[string]domain.Product),
	}
}

func (v *cartView) Refresh(ctx context.Context, items []domain.CartItem) {
	v.mu.Lock()
	v.items = append([]domain.CartItem(nil), items...)
	missing := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if _, ok := v.products[item.ProductID]; ok {
			continue
		}
		if seen[item.ProductID] {
			continue
		}
		seen[item.ProductID] = true
		missing = append(missing, item.ProductID)
	}
	v.mu.Unlock()

	for _, productID := range missing {
		v.log.Debugf("CartView: Resolving product %s", productID)
		product, err := v.api.GetProduct(ctx, productID)
		if err != nil {
			// The line stays unresolved: omitted from display, zero
			// contribution to the total.
			v.log.Warnf("CartView: Failed to resolve product %s: %v", productID, err)
			continue
		}
		v.mu.Lock()
		v.products[product.ID] = *product
		v.mu.Unlock()
	}
}

func (v *cartView) Lines() []domain.EnrichedCartLine {
	v.mu.Lock()
	defer v.mu.Unlock()

	lines := make([]domain.EnrichedCartLine, 0, len(v.items))
	for _, item := range v.items {
		product, ok := v.products[item.ProductID]
		if !ok {
			continue
		}
		lines = append(lines, domain.EnrichedCartLine{Item: item, Product: product})
	}
	return lines
}

func (v *cartView) Total() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()

	var total float64
	for _, item := range v.items {
		product, ok := v.products[item.ProductID]
		if !ok {
			continue
		}
		total += product.Price * float64(item.Quantity)
	}
	return total
}

func (v *cartView) Product(productID string) (domain.Product, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	product, ok := v.products[productID]
	return product, ok
}

func (v *cartView) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	// Product records are immutable within a session, the cache stays warm.
	v.items = nil
}
