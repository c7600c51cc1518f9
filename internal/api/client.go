// Package api is the single point of outbound HTTP for the app. Two policies
// apply to every call it makes:
//
//   - request: when a bearer token exists in session storage it is attached
//     as an Authorization header, on every request, whatever the endpoint;
//   - response: a 401 (or a body complaining the JWT expired) fires the
//     OnSessionExpired hook before the error is returned to the caller.
//
// The hook is the only channel back to session state. This package holds no
// reference to the store and performs no navigation of its own; whoever owns
// the session decides what expiry means.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/siddharth-200231/foodapp-go/internal/models"
)

// DefaultTimeout bounds every call. There are no retries: a timed-out or
// failed call surfaces to its caller as an error, once.
const DefaultTimeout = 5 * time.Second

// TokenSource yields the current bearer token, or "" when anonymous.
// session.Storage satisfies this.
type TokenSource interface {
	Token() string
}

// Error is a non-2xx response from the backend, with whatever human-readable
// message the body carried.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (HTTP %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("api: HTTP %d", e.Status)
}

// SessionExpired reports whether this error means the session is no longer
// valid: either a plain 401 or the backend's "JWT expired" message.
func (e *Error) SessionExpired() bool {
	return e.Status == http.StatusUnauthorized || strings.Contains(e.Message, "JWT expired")
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient swaps the underlying http.Client entirely.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// Client talks to the food ordering backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource

	mu               sync.Mutex
	onSessionExpired func()
}

// New builds a client for the API at baseURL. Tokens are read from the given
// source on every request, so a login that lands mid-flight is picked up by
// the next call without reconstructing the client.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetOnSessionExpired registers the hook fired when any response reports an
// expired session. At most one hook; the store owns it.
func (c *Client) SetOnSessionExpired(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onSessionExpired = fn
}

func (c *Client) fireSessionExpired() {
	c.mu.Lock()
	fn := c.onSessionExpired
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", req.Method, req.URL.Path, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(data) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", req.Method, req.URL.Path, err)
		}
		return nil
	}

	apiErr := &Error{Status: resp.StatusCode, Message: extractMessage(data)}
	if apiErr.SessionExpired() {
		c.fireSessionExpired()
	}
	return apiErr
}

// extractMessage pulls the human-readable message out of an error body. The
// backend is not consistent: auth failures use "error", everything else uses
// "message". Accept both.
func extractMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Err     string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Err
}

type authResponse struct {
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
	Message string       `json:"message"`
}

// Login exchanges credentials for a token and user record. It does not touch
// session storage; persisting the pair is the caller's job.
func (c *Client) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/auth/login", nil, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", nil, err
	}

	var resp authResponse
	if err := c.do(req, &resp); err != nil {
		return "", nil, err
	}
	if resp.Token == "" || resp.User == nil {
		return "", nil, fmt.Errorf("login response missing token or user")
	}
	return resp.Token, resp.User, nil
}

// Register creates an account. It deliberately does not log in: the backend
// expects a separate login afterwards.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/auth/register", nil, map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// Products fetches the full catalog snapshot. No pagination exists on this
// API; the caller always gets everything.
func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/products", nil, nil)
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := c.do(req, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Product fetches a single catalog entry by id.
func (c *Client) Product(ctx context.Context, id int64) (*models.Product, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/product/"+strconv.FormatInt(id, 10), nil, nil)
	if err != nil {
		return nil, err
	}
	var product models.Product
	if err := c.do(req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Restaurants fetches the distinct restaurant names in the catalog.
func (c *Client) Restaurants(ctx context.Context) ([]string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/restaurants", nil, nil)
	if err != nil {
		return nil, err
	}
	var names []string
	if err := c.do(req, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// Cart fetches the authoritative cart for a user.
func (c *Client) Cart(ctx context.Context, userID int64) (*models.Cart, error) {
	query := url.Values{"isUserCart": {"true"}}
	req, err := c.newRequest(ctx, http.MethodGet, "/api/cart/"+strconv.FormatInt(userID, 10), query, nil)
	if err != nil {
		return nil, err
	}
	var cart models.Cart
	if err := c.do(req, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddCartItem asks the backend to add quantity units of a product to the
// user's cart. The response body is only a confirmation; callers re-fetch the
// cart for the authoritative contents.
func (c *Client) AddCartItem(ctx context.Context, userID, productID int64, quantity int) error {
	query := url.Values{
		"quantity":   {strconv.Itoa(quantity)},
		"isUserCart": {"true"},
	}
	path := "/api/cart/" + strconv.FormatInt(userID, 10) + "/add/" + strconv.FormatInt(productID, 10)
	req, err := c.newRequest(ctx, http.MethodPost, path, query, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// RemoveCartItem deletes a single cart item by its item id.
func (c *Client) RemoveCartItem(ctx context.Context, itemID int64) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/api/cart/item/"+strconv.FormatInt(itemID, 10), nil, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// Purchase checks out the user's cart and returns the order reference, when
// the backend supplies one.
func (c *Client) Purchase(ctx context.Context, userID int64) (string, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/cart/"+strconv.FormatInt(userID, 10)+"/purchase", nil, nil)
	if err != nil {
		return "", err
	}
	var resp struct {
		OrderID string `json:"orderId"`
		Message string `json:"message"`
	}
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	return resp.OrderID, nil
}
