package domain

import "context"

// CatalogService holds the full product set and the current filter criteria,
// recomputing the visible subset on every change. The catalog is fetched once
// per process lifetime.
type CatalogService interface {
	// LoadCatalog seeds the backing store (idempotent, failure ignored) and
	// fetches the full product list.
	LoadCatalog(ctx context.Context) error
	// All returns the unfiltered catalog.
	All() []Product
	// Visible returns the filtered view for the current criteria.
	Visible() []Product
	SetCategory(category string)
	SetBrand(brand string)
	SetSearch(term string)
	// Criteria returns the current category, brand and search term.
	Criteria() (category, brand, search string)
}
