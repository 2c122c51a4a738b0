package usecase

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"kickshop/internal/clients"
	"kickshop/internal/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeShopAPI implements clients.ShopAPI with overridable behavior and call
// counters. Unconfigured calls fail loudly so a test never silently walks a
// path it did not set up.
type fakeShopAPI struct {
	mu sync.Mutex

	loginFn       func(email, password string) (string, error)
	registerFn    func(email, password, fullName string) error
	currentUserFn func() (*domain.UserProfile, error)
	listFn        func() ([]domain.Product, error)
	seedFn        func() error
	getProductFn  func(productID string) (*domain.Product, error)
	getCartFn     func() ([]domain.CartItem, error)
	addToCartFn   func(productID string, size float64, quantity int) error
	removeFn      func(itemID string) error

	getCartCalls    int
	getProductCalls map[string]int
	addCalls        int
	removeCalls     int
}

var _ clients.ShopAPI = (*fakeShopAPI)(nil)

var errNotConfigured = errors.New("fakeShopAPI: call not configured")

func newFakeShopAPI() *fakeShopAPI {
	return &fakeShopAPI{getProductCalls: make(map[string]int)}
}

func (f *fakeShopAPI) Login(_ context.Context, email, password string) (string, error) {
	if f.loginFn == nil {
		return "", errNotConfigured
	}
	return f.loginFn(email, password)
}

func (f *fakeShopAPI) Register(_ context.Context, email, password, fullName string) error {
	if f.registerFn == nil {
		return errNotConfigured
	}
	return f.registerFn(email, password, fullName)
}

func (f *fakeShopAPI) CurrentUser(_ context.Context) (*domain.UserProfile, error) {
	if f.currentUserFn == nil {
		return nil, errNotConfigured
	}
	return f.currentUserFn()
}

func (f *fakeShopAPI) ListProducts(_ context.Context) ([]domain.Product, error) {
	if f.listFn == nil {
		return nil, errNotConfigured
	}
	return f.listFn()
}

func (f *fakeShopAPI) GetProduct(_ context.Context, productID string) (*domain.Product, error) {
	f.mu.Lock()
	f.getProductCalls[productID]++
	f.mu.Unlock()
	if f.getProductFn == nil {
		return nil, errNotConfigured
	}
	return f.getProductFn(productID)
}

func (f *fakeShopAPI) SeedCatalog(_ context.Context) error {
	if f.seedFn == nil {
		return errNotConfigured
	}
	return f.seedFn()
}

func (f *fakeShopAPI) GetCart(_ context.Context) ([]domain.CartItem, error) {
	f.mu.Lock()
	f.getCartCalls++
	f.mu.Unlock()
	if f.getCartFn == nil {
		return nil, errNotConfigured
	}
	return f.getCartFn()
}

func (f *fakeShopAPI) AddToCart(_ context.Context, productID string, size float64, quantity int) error {
	f.mu.Lock()
	f.addCalls++
	f.mu.Unlock()
	if f.addToCartFn == nil {
		return errNotConfigured
	}
	return f.addToCartFn(productID, size, quantity)
}

func (f *fakeShopAPI) RemoveFromCart(_ context.Context, itemID string) error {
	f.mu.Lock()
	f.removeCalls++
	f.mu.Unlock()
	if f.removeFn == nil {
		return errNotConfigured
	}
	return f.removeFn(itemID)
}

// noopCartView satisfies domain.CartView for cart engine tests that do not
// care about enrichment.
type noopCartView struct {
	refreshed [][]domain.CartItem
	cleared   int
}

var _ domain.CartView = (*noopCartView)(nil)

func (v *noopCartView) Refresh(_ context.Context, items []domain.CartItem) {
	v.refreshed = append(v.refreshed, items)
}

func (v *noopCartView) Lines() []domain.EnrichedCartLine { return nil }

func (v *noopCartView) Total() float64 { return 0 }

func (v *noopCartView) Product(string) (domain.Product, bool) { return domain.Product{}, false }

func (v *noopCartView) Clear() { v.cleared++ }
