package store_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siddharth-200231/foodapp-go/internal/api"
	"github.com/siddharth-200231/foodapp-go/internal/mockapi"
	"github.com/siddharth-200231/foodapp-go/internal/models"
	"github.com/siddharth-200231/foodapp-go/internal/session"
	"github.com/siddharth-200231/foodapp-go/internal/store"
)

// countingHandler wraps the mock API so tests can assert on whether a store
// operation issued any HTTP requests at all.
type countingHandler struct {
	inner http.Handler
	mu    sync.Mutex
	n     int
}

func (h *countingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.n++
	h.mu.Unlock()
	h.inner.ServeHTTP(w, r)
}

func (h *countingHandler) requests() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.n
}

type env struct {
	t       *testing.T
	db      *mockapi.Database
	url     string
	counter *countingHandler
	storage *session.MemoryStorage
	store   *store.Store
}

func (e *env) serverURL() string { return e.url }

func newEnv(t *testing.T) *env {
	db := mockapi.NewDatabase()
	db.SeedProducts(
		models.Product{Name: "Pizza", Restaurant: "Pizza Palace", Price: 12, StockQuantity: 10, Available: true},
		models.Product{Name: "Burger", Restaurant: "Burger Barn", Price: 9, StockQuantity: 10, Available: true},
	)

	counter := &countingHandler{inner: mockapi.New(db)}
	ts := httptest.NewServer(counter)
	t.Cleanup(ts.Close)

	storage := session.NewMemoryStorage()
	client := api.New(ts.URL, storage)

	return &env{
		t:       t,
		db:      db,
		url:     ts.URL,
		counter: counter,
		storage: storage,
		store:   store.New(client, storage),
	}
}

func (e *env) signupAndLogin(ctx context.Context) {
	e.t.Helper()
	require.NoError(e.t, e.store.Signup(ctx, "sid", "sid@example.com", "secret123"))
	require.NoError(e.t, e.store.Login(ctx, "sid@example.com", "secret123"))
}

func TestLoginLogoutReturnsToAnonymous(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	e.signupAndLogin(ctx)
	require.NoError(t, e.store.AddToCart(ctx, 1, 2))

	snap := e.store.Snapshot()
	require.True(t, snap.LoggedIn())
	require.NotEmpty(t, snap.Cart)
	require.NotEmpty(t, e.storage.Token())

	e.store.Logout()

	snap = e.store.Snapshot()
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.Cart)
	assert.Equal(t, "", e.storage.Token())
	assert.Nil(t, e.storage.User())
}

func TestLoginSyncsCartMirrorWithServer(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	require.NoError(t, e.store.Signup(ctx, "sid", "sid@example.com", "secret123"))

	// Put items into the server-side cart behind the store's back, so login
	// has something authoritative to mirror.
	require.NoError(t, e.db.AddItem(1, 1, 2))

	require.NoError(t, e.store.Login(ctx, "sid@example.com", "secret123"))

	snap := e.store.Snapshot()
	serverCart := e.db.Cart(1)
	require.Len(t, snap.Cart, len(serverCart.Items))
	assert.Equal(t, serverCart.Items[0].ID, snap.Cart[0].ID)
	assert.Equal(t, 2, snap.Cart[0].Quantity)
	assert.Equal(t, "Pizza", snap.Cart[0].Product.Name)
}

func TestAddToCartAnonymousMakesNoRequest(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	before := e.counter.requests()
	err := e.store.AddToCart(ctx, 1, 1)
	require.ErrorIs(t, err, store.ErrNotLoggedIn)
	assert.Equal(t, before, e.counter.requests(), "anonymous add must fail before any network call")
}

func TestAddToCartRejectsNonPositiveQuantity(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.signupAndLogin(ctx)

	before := e.counter.requests()
	require.ErrorIs(t, e.store.AddToCart(ctx, 1, 0), store.ErrBadQuantity)
	require.ErrorIs(t, e.store.AddToCart(ctx, 1, -3), store.ErrBadQuantity)
	assert.Equal(t, before, e.counter.requests())
}

func TestRemoveFromCartFiltersExactlyThatItem(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.signupAndLogin(ctx)

	require.NoError(t, e.store.AddToCart(ctx, 1, 2))
	require.NoError(t, e.store.AddToCart(ctx, 2, 3))

	snap := e.store.Snapshot()
	require.Len(t, snap.Cart, 2)
	first, second := snap.Cart[0], snap.Cart[1]

	require.NoError(t, e.store.RemoveFromCart(ctx, first.ID))

	snap = e.store.Snapshot()
	require.Len(t, snap.Cart, 1)
	assert.Equal(t, second.ID, snap.Cart[0].ID)
	assert.Equal(t, second.Quantity, snap.Cart[0].Quantity)
	assert.Equal(t, second.Product.Name, snap.Cart[0].Product.Name)
}

func TestRemoveFromCartFailureLeavesMirrorUntouched(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.signupAndLogin(ctx)

	require.NoError(t, e.store.AddToCart(ctx, 1, 2))
	before := e.store.Snapshot().Cart

	err := e.store.RemoveFromCart(ctx, 9999)
	require.Error(t, err)
	assert.Equal(t, before, e.store.Snapshot().Cart)
}

func TestExpiredTokenForcesAnonymous(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.signupAndLogin(ctx)
	require.NoError(t, e.store.AddToCart(ctx, 1, 1))

	// Sabotage the persisted token. The next authenticated call 401s, and
	// the expiry hook must drop the whole session, not just fail the call.
	require.NoError(t, e.storage.Save("not-a-jwt", e.storage.User()))

	err := e.store.AddToCart(ctx, 2, 1)
	require.Error(t, err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.SessionExpired())

	snap := e.store.Snapshot()
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.Cart)
	assert.Equal(t, "", e.storage.Token())
	assert.Nil(t, e.storage.User())
}

func TestSignupDoesNotEstablishSession(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	require.NoError(t, e.store.Signup(ctx, "sid", "sid@example.com", "secret123"))

	assert.Nil(t, e.store.Snapshot().User)
	assert.Equal(t, "", e.storage.Token())
}

func TestRefreshCatalogReplacesProducts(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	require.NoError(t, e.store.RefreshCatalog(ctx))

	snap := e.store.Snapshot()
	require.Len(t, snap.Products, 2)
	assert.Equal(t, "", snap.Err)
	assert.Equal(t, []string{"Pizza Palace", "Burger Barn"}, snap.Restaurants)
}

func TestRefreshCatalogFailureSetsErrorAndEmptiesList(t *testing.T) {
	ctx := context.Background()

	// A server that is already gone: every call is a network failure.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	storage := session.NewMemoryStorage()
	st := store.New(api.New(ts.URL, storage), storage)

	err := st.RefreshCatalog(ctx)
	require.Error(t, err)

	snap := st.Snapshot()
	assert.Empty(t, snap.Products)
	assert.Equal(t, "failed to fetch products", snap.Err)
}

func TestPurchaseEmptiesCartAndReturnsOrderRef(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.signupAndLogin(ctx)

	require.NoError(t, e.store.AddToCart(ctx, 1, 4))

	orderRef, err := e.store.Purchase(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, orderRef)

	snap := e.store.Snapshot()
	assert.Empty(t, snap.Cart)

	// Stock was decremented server-side.
	products := e.db.Products()
	assert.Equal(t, 6, products[0].StockQuantity)
}

func TestPurchaseValidatesLocally(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	before := e.counter.requests()
	_, err := e.store.Purchase(ctx)
	require.ErrorIs(t, err, store.ErrNotLoggedIn)

	e.signupAndLogin(ctx)
	before = e.counter.requests()
	_, err = e.store.Purchase(ctx)
	require.ErrorIs(t, err, store.ErrEmptyCart)
	assert.Equal(t, before, e.counter.requests())
}

func TestBootstrapRehydratesSession(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.signupAndLogin(ctx)
	require.NoError(t, e.store.AddToCart(ctx, 1, 1))

	// A second store over the same storage: the session and cart come back
	// without a fresh login, like a page reload.
	client := api.New(e.serverURL(), e.storage)
	st2 := store.New(client, e.storage)
	require.NoError(t, st2.Bootstrap(ctx))

	snap := st2.Snapshot()
	require.True(t, snap.LoggedIn())
	assert.Equal(t, "sid", snap.User.Username)
	assert.Len(t, snap.Cart, 1)
	assert.Len(t, snap.Products, 2)
}

func TestSubscribersGetNotified(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	var snaps []store.Snapshot
	cancel := e.store.Subscribe(func(s store.Snapshot) {
		snaps = append(snaps, s)
	})

	require.NoError(t, e.store.RefreshCatalog(ctx))
	require.NotEmpty(t, snaps)
	last := snaps[len(snaps)-1]
	assert.Len(t, last.Products, 2)

	seen := len(snaps)
	cancel()
	e.store.Logout()
	assert.Len(t, snaps, seen, "cancelled subscriber must not be notified")
}

func TestLoginFailureMutatesNothing(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	require.NoError(t, e.store.Signup(ctx, "sid", "sid@example.com", "secret123"))

	err := e.store.Login(ctx, "sid@example.com", "wrong-password")
	require.Error(t, err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid email or password", apiErr.Message)
	assert.False(t, errors.Is(err, store.ErrNotLoggedIn))

	assert.Nil(t, e.store.Snapshot().User)
	assert.Equal(t, "", e.storage.Token())
}
