package domain

import "time"

type ShoeCategory string

const (
	CategorySneakers ShoeCategory = "sneakers"
	CategoryBoots    ShoeCategory = "boots"
	CategoryCasual   ShoeCategory = "casual"
	CategoryAthletic ShoeCategory = "athletic"
	CategoryFormal   ShoeCategory = "formal"
)

type ShoeBrand string

const (
	BrandNike       ShoeBrand = "Nike"
	BrandAdidas     ShoeBrand = "Adidas"
	BrandPuma       ShoeBrand = "Puma"
	BrandConverse   ShoeBrand = "Converse"
	BrandVans       ShoeBrand = "Vans"
	BrandTimberland ShoeBrand = "Timberland"
)

// FilterAll is the wildcard criterion matching every category or brand.
const FilterAll = "all"

func KnownCategories() []ShoeCategory {
	return []ShoeCategory{CategorySneakers, CategoryBoots, CategoryCasual, CategoryAthletic, CategoryFormal}
}

func KnownBrands() []ShoeBrand {
	return []ShoeBrand{BrandNike, BrandAdidas, BrandPuma, BrandConverse, BrandVans, BrandTimberland}
}

// UserProfile is the server-sourced identity record. Read-only on the client.
type UserProfile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Product is immutable from the client's perspective within a session.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Brand       string    `json:"brand"`
	Category    string    `json:"category"`
	Sizes       []float64 `json:"sizes"`
	ImageURL    string    `json:"image_url"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
}

// CartItem is one server-tracked cart line. The id is server-assigned and
// uniquely identifies the line; the client never mutates items locally
// outside of round-tripped fetch results.
type CartItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Size      float64   `json:"size"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// EnrichedCartLine joins a cart item with its full product record for
// display and total computation.
type EnrichedCartLine struct {
	Item    CartItem
	Product Product
}
