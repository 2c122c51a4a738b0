package usecase

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"kickshop/internal/clients"
	"kickshop/internal/domain"
	"kickshop/internal/notify"
)

var _ domain.CartEngine = (*cartEngine)(nil)

// cartEngine synchronizes the server-authoritative cart. Every mutation is a
// two-phase mutate-then-resync protocol with no optimistic local update.
//
// The mutex serializes mutations end to end (single-flight): without it two
// rapid mutations could complete their resync fetches out of order, leaving
// the visible cart reflecting the earlier mutation.
type cartEngine struct {
	api      clients.ShopAPI
	view     domain.CartView
	notifier notify.Notifier
	log      *logrus.Logger

	mu    sync.Mutex
	state domain.CartState
	items []domain.CartItem
	count int
}

func NewCartEngine(api clients.ShopAPI, view domain.CartView, notifier notify.Notifier, logger *logrus.Logger) domain.CartEngine {
	return &cartEngine{
		api:      api,
		view:     view,
		notifier: notifier,
		log:      logger,
		state:    domain.CartUninitialized,
	}
}

func (e *cartEngine) FetchCart(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == domain.CartUninitialized {
		e.state = domain.CartLoading
	}
	e.fetchLocked(ctx)
}

func (e *cartEngine) AddToCart(ctx context.Context, productID string, size float64, quantity int) bool {
	if productID == "" {
		e.log.Warn("Cart: Attempted to add item with empty product ID")
		e.notifier.Error("Could not add item to cart")
		return false
	}
	if quantity < 1 {
		e.log.Warnf("Cart: Attempted to add product %s with invalid quantity %d", productID, quantity)
		e.notifier.Error("Could not add item to cart")
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.log.Infof("Cart: Adding product %s (size %v, quantity %d)", productID, size, quantity)
	if err := e.api.AddToCart(ctx, productID, size, quantity); err != nil {
		e.log.Errorf("Cart: Failed to add product %s: %v", productID, err)
		e.notifier.Error("Could not add item to cart")
		return false
	}

	e.notifier.Success("Added to cart")

	// Resync only after the add round trip has completed. The server is the
	// sole source of truth for line identity and quantity coalescing.
	e.fetchLocked(ctx)
	return true
}

func (e *cartEngine) RemoveFromCart(ctx context.Context, itemID string) bool {
	if itemID == "" {
		e.log.Warn("Cart: Attempted to remove item with empty ID")
		e.notifier.Error("Could not remove item from cart")
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.log.Infof("Cart: Removing item %s", itemID)
	if err := e.api.RemoveFromCart(ctx, itemID); err != nil {
		e.log.Errorf("Cart: Failed to remove item %s: %v", itemID, err)
		e.notifier.Error("Could not remove item from cart")
		return false
	}

	e.notifier.Success("Item removed from cart")
	e.fetchLocked(ctx)
	return true
}

func (e *cartEngine) Items() []domain.CartItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.CartItem(nil), e.items...)
}

func (e *cartEngine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.count
}

func (e *cartEngine) State() domain.CartState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *cartEngine) Reset() {
	e.mu.Lock()
	e.state = domain.CartUninitialized
	e.items = nil
	e.count = 0
	e.mu.Unlock()

	e.view.Clear()
	e.log.Info("Cart: Reset to uninitialized")
}

// fetchLocked replaces the item collection wholesale with the server's
// current list. Failures are swallowed: this runs opportunistically after
// every mutation and stale data beats an error surface. Callers hold e.mu.
func (e *cartEngine) fetchLocked(ctx context.Context) {
	items, err := e.api.GetCart(ctx)
	if err != nil {
		e.log.Errorf("Cart: Failed to fetch cart, keeping stale data: %v", err)
		e.state = domain.CartReady
		return
	}

	e.items = items
	e.count = 0
	for _, item := range items {
		e.count += item.Quantity
	}
	e.state = domain.CartReady
	e.log.Infof("Cart: Synced %d lines (total quantity %d)", len(items), e.count)

	e.view.Refresh(ctx, items)
}
