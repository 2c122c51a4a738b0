package domain

import "context"

type CartState int

const (
	CartUninitialized CartState = iota
	CartLoading
	CartReady
)

func (s CartState) String() string {
	switch s {
	case CartUninitialized:
		return "uninitialized"
	case CartLoading:
		return "loading"
	case CartReady:
		return "ready"
	default:
		return "unknown"
	}
}

// CartEngine synchronizes the server-authoritative cart. All operations
// require an authenticated session; callers are responsible for not invoking
// them without a token.
type CartEngine interface {
	// FetchCart replaces the local item collection wholesale with the
	// server's current list. Failures are logged and swallowed: stale data
	// is preferred over an error surface, since this is also invoked
	// opportunistically after every mutation.
	FetchCart(ctx context.Context)
	// AddToCart sends the line to the server, then resynchronizes. There is
	// no optimistic local insert; quantity coalescing of duplicate
	// product+size pairs is entirely a server concern.
	AddToCart(ctx context.Context, productID string, size float64, quantity int) bool
	// RemoveFromCart deletes by server-assigned line id, then resynchronizes.
	RemoveFromCart(ctx context.Context, itemID string) bool
	// Items returns the current cart lines in server order.
	Items() []CartItem
	// Count is the sum of quantities over all lines, not the line count.
	Count() int
	State() CartState
	// Reset returns the engine to its uninitialized state on logout.
	Reset()
}

// CartView is the enrichment layer joining cart lines against full product
// records for display and total computation.
type CartView interface {
	// Refresh takes ownership of the new item list and resolves any product
	// not yet cached, one fetch per uncached product id.
	Refresh(ctx context.Context, items []CartItem)
	// Lines returns the resolved lines in cart order. Items whose product
	// has not resolved are omitted.
	Lines() []EnrichedCartLine
	// Total is the sum of price*quantity over resolved items; unresolved
	// items contribute zero.
	Total() float64
	// Product looks up a cached product record by id.
	Product(productID string) (Product, bool)
	// Clear drops the item list. The product cache survives, products are
	// immutable within a session.
	Clear()
}
