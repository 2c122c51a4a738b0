package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"kickshop/internal/domain"
)

// TokenProvider returns the latest committed session token, or "" when
// logged out. It is consulted at send time for every authorized request so
// a logout between two calls is never papered over by a captured value.
type TokenProvider func() string

// ShopAPI is the client-side view of the KickShop REST API.
type ShopAPI interface {
	Login(ctx context.Context, email, password string) (token string, err error)
	Register(ctx context.Context, email, password, fullName string) error
	CurrentUser(ctx context.Context) (*domain.UserProfile, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	SeedCatalog(ctx context.Context) error
	GetCart(ctx context.Context) ([]domain.CartItem, error)
	AddToCart(ctx context.Context, productID string, size float64, quantity int) error
	RemoveFromCart(ctx context.Context, itemID string) error
}

type shopHTTPClient struct {
	baseURL string
	client  *http.Client
	token   TokenProvider
	log     *logrus.Logger
}

func NewShopHTTPClient(baseURL string, timeout time.Duration, token TokenProvider, logger *logrus.Logger) ShopAPI {
	return &shopHTTPClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
		token: token,
		log:   logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type addToCartRequest struct {
	ProductID string  `json:"product_id"`
	Size      float64 `json:"size"`
	Quantity  int     `json:"quantity"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (c *shopHTTPClient) Login(ctx context.Context, email, password string) (string, error) {
	c.log.Infof("ShopAPI: Authenticating user %s", email)
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, false, &resp)
	if err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("login response did not contain an access token")
	}
	return resp.AccessToken, nil
}

func (c *shopHTTPClient) Register(ctx context.Context, email, password, fullName string) error {
	c.log.Infof("ShopAPI: Registering user %s", email)
	return c.do(ctx, http.MethodPost, "/auth/register", registerRequest{Email: email, Password: password, FullName: fullName}, false, nil)
}

func (c *shopHTTPClient) CurrentUser(ctx context.Context) (*domain.UserProfile, error) {
	c.log.Debug("ShopAPI: Resolving current user profile")
	var profile domain.UserProfile
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, true, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *shopHTTPClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	c.log.Info("ShopAPI: Fetching product catalog")
	var products []domain.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, false, &products); err != nil {
		return nil, err
	}
	c.log.Infof("ShopAPI: Retrieved %d products", len(products))
	return products, nil
}

func (c *shopHTTPClient) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	c.log.Debugf("ShopAPI: Fetching product %s", productID)
	var product domain.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+productID, nil, false, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *shopHTTPClient) SeedCatalog(ctx context.Context) error {
	c.log.Info("ShopAPI: Seeding product catalog")
	return c.do(ctx, http.MethodPost, "/init-products", nil, false, nil)
}

func (c *shopHTTPClient) GetCart(ctx context.Context) ([]domain.CartItem, error) {
	c.log.Debug("ShopAPI: Fetching cart")
	var items []domain.CartItem
	if err := c.do(ctx, http.MethodGet, "/cart", nil, true, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *shopHTTPClient) AddToCart(ctx context.Context, productID string, size float64, quantity int) error {
	c.log.Infof("ShopAPI: Adding product %s (size %v, quantity %d) to cart", productID, size, quantity)
	return c.do(ctx, http.MethodPost, "/cart/add", addToCartRequest{ProductID: productID, Size: size, Quantity: quantity}, true, nil)
}

func (c *shopHTTPClient) RemoveFromCart(ctx context.Context, itemID string) error {
	c.log.Infof("ShopAPI: Removing cart item %s", itemID)
	return c.do(ctx, http.MethodDelete, "/cart/"+itemID, nil, true, nil)
}

// do runs one round trip against the API: marshals the optional body,
// attaches the bearer token when the endpoint requires auth, and decodes
// either the success payload into out or the backend's {"detail": ...}
// error envelope into an *APIError.
func (c *shopHTTPClient) do(ctx context.Context, method, path string, body interface{}, authorized bool, out interface{}) error {
	url := c.baseURL + path

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			c.log.Errorf("ShopAPI: Failed to marshal request body for %s %s: %v", method, path, err)
			return fmt.Errorf("failed to prepare request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		c.log.Errorf("ShopAPI: Failed to create request %s %s: %v", method, path, err)
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if authorized {
		// The token is read here, at send time, from the latest committed
		// session state.
		token := c.token()
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Errorf("ShopAPI: Request %s %s failed: %v", method, path, err)
		return fmt.Errorf("failed to reach shop API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{Status: resp.StatusCode}
		var errResp errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errResp); decodeErr == nil {
			apiErr.Detail = errResp.Detail
		}
		c.log.Warnf("ShopAPI: %s %s returned status %d (detail: %q)", method, path, resp.StatusCode, apiErr.Detail)
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.log.Errorf("ShopAPI: Failed to decode response of %s %s: %v", method, path, err)
			return fmt.Errorf("failed to decode shop API response: %w", err)
		}
	}
	return nil
}
