package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"kickshop/internal/clients"
	"kickshop/internal/domain"
)

var _ domain.CatalogService = (*catalogService)(nil)

// catalogService fetches the catalog once and derives the visible subset
// from the current filter criteria. The filtered view is a full recompute on
// every criterion change, fine at shoe-shop catalog sizes.
type catalogService struct {
	api clients.ShopAPI
	log *logrus.Logger

	mu       sync.Mutex
	products []domain.Product
	category string
	brand    string
	search   string
	visible  []domain.Product
}

func NewCatalogService(api clients.ShopAPI, logger *logrus.Logger) domain.CatalogService {
	return &catalogService{
		api:      api,
		log:      logger,
		category: domain.FilterAll,
		brand:    domain.FilterAll,
	}
}

func (c *catalogService) LoadCatalog(ctx context.Context) error {
	// Seeding is idempotent on the backend and tolerated to fail silently:
	// a shop that is already stocked simply keeps its products.
	if err := c.api.SeedCatalog(ctx); err != nil {
		c.log.Warnf("Catalog: Seed request failed (ignored): %v", err)
	}

	products, err := c.api.ListProducts(ctx)
	if err != nil {
		c.log.Errorf("Catalog: Failed to load products: %v", err)
		return fmt.Errorf("could not load product catalog: %w", err)
	}

	c.mu.Lock()
	c.products = products
	c.recomputeLocked()
	c.mu.Unlock()

	c.log.Infof("Catalog: Loaded %d products", len(products))
	return nil
}

func (c *catalogService) All() []domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Product(nil), c.products...)
}

func (c *catalogService) Visible() []domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Product(nil), c.visible...)
}

func (c *catalogService) SetCategory(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.category = category
	c.recomputeLocked()
}

func (c *catalogService) SetBrand(brand string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.brand = brand
	c.recomputeLocked()
}

func (c *catalogService) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = term
	c.recomputeLocked()
}

func (c *catalogService) Criteria() (string, string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.category, c.brand, c.search
}

func (c *catalogService) recomputeLocked() {
	c.visible = domain.FilterProducts(c.products, c.category, c.brand, c.search)
}
