package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticTokens is a TokenSource returning a fixed token.
type staticTokens string

func (s staticTokens) Token() string { return string(s) }

func TestAttachesBearerTokenWhenPresent(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	}))
	defer ts.Close()

	client := New(ts.URL, staticTokens("my-token"))
	_, err := client.Products(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer my-token", gotAuth)
}

func TestNoHeaderWhenAnonymous(t *testing.T) {
	var gotAuth string
	var hadHeader bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, hadHeader = r.Header["Authorization"]
		w.Write([]byte("[]"))
	}))
	defer ts.Close()

	client := New(ts.URL, staticTokens(""))
	_, err := client.Products(context.Background())
	require.NoError(t, err)
	assert.False(t, hadHeader, "no Authorization header expected, got %q", gotAuth)
}

func TestSessionExpiredHookFiresOn401(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "JWT expired or invalid"}`))
	}))
	defer ts.Close()

	client := New(ts.URL, staticTokens("stale"))
	fired := false
	client.SetOnSessionExpired(func() { fired = true })

	// The failing call is a cart fetch, but the hook is global: any endpoint
	// answering 401 trips it.
	_, err := client.Cart(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, fired)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.True(t, apiErr.SessionExpired())
}

func TestSessionExpiredHookFiresOnExpiryMessage(t *testing.T) {
	// Some gateways rewrite the status but keep the body; the client matches
	// the message too.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message": "JWT expired"}`))
	}))
	defer ts.Close()

	client := New(ts.URL, staticTokens("stale"))
	fired := false
	client.SetOnSessionExpired(func() { fired = true })

	_, err := client.Products(context.Background())
	require.Error(t, err)
	assert.True(t, fired)
}

func TestHookNotFiredOnOrdinaryErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "Invalid email or password"}`))
	}))
	defer ts.Close()

	client := New(ts.URL, staticTokens(""))
	fired := false
	client.SetOnSessionExpired(func() { fired = true })

	_, _, err := client.Login(context.Background(), "a@b.c", "nope")
	require.Error(t, err)
	assert.False(t, fired)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid email or password", apiErr.Message)
}

func TestLoginParsesTokenAndUser(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token": "tok-1", "user": {"id": 9, "username": "sid", "email": "sid@example.com"}, "message": "Login successful"}`))
	}))
	defer ts.Close()

	client := New(ts.URL, staticTokens(""))
	token, user, err := client.Login(context.Background(), "sid@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	require.NotNil(t, user)
	assert.Equal(t, int64(9), user.ID)
	assert.Equal(t, "sid", user.Username)
}

func TestProductFetchesSingleItem(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/product/5", r.URL.Path)
		w.Write([]byte(`{"id": 5, "name": "Pad Thai", "resturant": "Thai Garden", "price": 11}`))
	}))
	defer ts.Close()

	client := New(ts.URL, staticTokens(""))
	p, err := client.Product(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Pad Thai", p.Name)
	assert.Equal(t, "Thai Garden", p.Restaurant)
}

func TestCartQueryCarriesUserCartFlag(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"id": 1, "userId": 2, "items": []}`))
	}))
	defer ts.Close()

	client := New(ts.URL, staticTokens("tok"))
	cart, err := client.Cart(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "isUserCart=true", gotQuery)
	assert.Empty(t, cart.Items)
}

func TestTimeoutSurfacesAsNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer ts.Close()

	client := New(ts.URL, staticTokens(""), WithTimeout(20*time.Millisecond))
	_, err := client.Products(context.Background())
	require.Error(t, err)

	// A timeout is a transport failure, not a backend-reported one.
	var apiErr *Error
	assert.False(t, errors.As(err, &apiErr))
}
