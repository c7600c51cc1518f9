// Package store owns every piece of client-held mutable state: the current
// user, the cart mirror, the catalog snapshot and the loading/error flags.
// Views never talk to the API directly; they call the operations here and
// re-render from the snapshots the store pushes to subscribers.
//
// The store is an explicitly constructed, injected object, not ambient
// global state: build one with New, hand it to whoever renders.
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/siddharth-200231/foodapp-go/internal/api"
	"github.com/siddharth-200231/foodapp-go/internal/models"
	"github.com/siddharth-200231/foodapp-go/internal/session"
)

// Client-side validation failures. These are detected before any network
// call is made.
var (
	// ErrNotLoggedIn is returned by cart operations while anonymous.
	ErrNotLoggedIn = errors.New("please log in first")
	// ErrBadQuantity is returned when a cart add asks for zero or fewer units.
	ErrBadQuantity = errors.New("quantity must be positive")
	// ErrEmptyCart is returned by checkout when the cart mirror is empty.
	ErrEmptyCart = errors.New("cart is empty")
)

// Snapshot is the read-only view of store state handed to subscribers. The
// slices are copies; subscribers may keep them as long as they like.
type Snapshot struct {
	User        *models.User
	Cart        []models.CartItem
	Products    []models.Product
	Restaurants []string
	Loading     bool
	Err         string
}

// LoggedIn reports whether the snapshot was taken with an active session.
func (s Snapshot) LoggedIn() bool {
	return s.User != nil
}

// Store is the session/cart/catalog state container.
type Store struct {
	client  *api.Client
	storage session.Storage

	mu          sync.Mutex
	user        *models.User
	cart        []models.CartItem
	products    []models.Product
	restaurants []string
	loading     bool
	errMsg      string

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

// New wires a store to its API client and session storage. It also registers
// itself on the client's session-expiry hook, so a 401 from any in-flight
// call, whoever triggered it, lands back here and forces a logout.
func New(client *api.Client, storage session.Storage) *Store {
	s := &Store{
		client:  client,
		storage: storage,
		subs:    make(map[int]func(Snapshot)),
	}
	client.SetOnSessionExpired(s.handleSessionExpired)
	return s
}

// Subscribe registers fn to be called with a fresh snapshot after every
// committed state change, synchronously, in registration order. The returned
// function cancels the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Cart:        append([]models.CartItem(nil), s.cart...),
		Products:    append([]models.Product(nil), s.products...),
		Restaurants: append([]string(nil), s.restaurants...),
		Loading:     s.loading,
		Err:         s.errMsg,
	}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// notify snapshots under the lock, then invokes subscribers without it, so a
// subscriber may call back into the store.
func (s *Store) notify() {
	s.mu.Lock()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.subMu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Snapshot), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
	s.notify()
}

// Bootstrap rehydrates the session from storage and loads the catalog. The
// catalog load is unconditional: browsing works anonymously. When a session
// was rehydrated the user's cart is fetched as well, since the cart mirror
// follows the user identity.
func (s *Store) Bootstrap(ctx context.Context) error {
	token := s.storage.Token()
	user := s.storage.User()
	if token != "" && user != nil {
		s.mu.Lock()
		s.user = user
		s.mu.Unlock()
		s.notify()
	}

	err := s.RefreshCatalog(ctx)

	if s.Snapshot().LoggedIn() {
		s.refetchCart(ctx)
	}
	return err
}

// Login exchanges credentials for a session. On success the token and user
// record are persisted as a pair and the authoritative cart is fetched; on
// failure nothing is mutated.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	token, user, err := s.client.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	if err := s.storage.Save(token, user); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	s.notify()

	s.refetchCart(ctx)
	return nil
}

// Signup registers an account. It never establishes a session; the caller
// logs in separately, as the backend requires.
func (s *Store) Signup(ctx context.Context, username, email, password string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.client.Register(ctx, username, email, password); err != nil {
		return fmt.Errorf("signup: %w", err)
	}
	return nil
}

// Logout clears the session and the cart mirror. It is a purely local
// operation with no failure path: even if storage refuses to clear, the
// in-memory session is gone.
func (s *Store) Logout() {
	if err := s.storage.Clear(); err != nil {
		log.Printf("logout: clearing session storage: %v", err)
	}
	s.mu.Lock()
	s.user = nil
	s.cart = nil
	s.mu.Unlock()
	s.notify()
}

// handleSessionExpired is the externally triggered logout: the API client
// calls it when any response reports the token is no longer good.
func (s *Store) handleSessionExpired() {
	s.Logout()
}

// RefreshCatalog replaces the product list with the server snapshot and
// refreshes the restaurant list. On failure the error message is recorded
// and the product list emptied, mirroring what the views expect.
func (s *Store) RefreshCatalog(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	products, err := s.client.Products(ctx)
	if err != nil {
		s.mu.Lock()
		s.products = nil
		s.errMsg = errorMessage(err, "failed to fetch products")
		s.mu.Unlock()
		s.notify()
		return fmt.Errorf("refresh catalog: %w", err)
	}

	restaurants, rerr := s.client.Restaurants(ctx)
	if rerr != nil {
		// Restaurant names only drive a filter widget; a stale list is
		// better than failing the whole catalog refresh.
		log.Printf("refresh catalog: fetching restaurants: %v", rerr)
	}

	s.mu.Lock()
	s.products = products
	s.errMsg = ""
	if rerr == nil {
		s.restaurants = restaurants
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// refetchCart replaces the cart mirror with the server's authoritative cart
// for the current user. A fetch failure empties the mirror rather than
// leaving stale items around.
func (s *Store) refetchCart(ctx context.Context) {
	s.mu.Lock()
	user := s.user
	s.mu.Unlock()
	if user == nil {
		return
	}

	cart, err := s.client.Cart(ctx, user.ID)

	s.mu.Lock()
	if err != nil {
		log.Printf("fetch cart: %v", err)
		s.cart = nil
	} else {
		s.cart = cart.Items
	}
	s.mu.Unlock()
	s.notify()
}

// AddToCart adds quantity units of a product to the server cart, then does
// the mandatory full re-fetch. There is no optimistic local insert. While
// anonymous this fails before any network call.
func (s *Store) AddToCart(ctx context.Context, productID int64, quantity int) error {
	s.mu.Lock()
	user := s.user
	s.mu.Unlock()
	if user == nil {
		return ErrNotLoggedIn
	}
	if quantity <= 0 {
		return ErrBadQuantity
	}

	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.client.AddCartItem(ctx, user.ID, productID, quantity); err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}

	s.refetchCart(ctx)
	return nil
}

// RemoveFromCart deletes a cart item on the server, then filters it out of
// the local mirror. The removal is optimistic: the mirror is not re-verified
// against the server afterwards. On failure local state is untouched.
func (s *Store) RemoveFromCart(ctx context.Context, itemID int64) error {
	if err := s.client.RemoveCartItem(ctx, itemID); err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}

	s.mu.Lock()
	kept := s.cart[:0:0]
	for _, item := range s.cart {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	s.cart = kept
	s.mu.Unlock()
	s.notify()
	return nil
}

// Purchase checks out the current cart. On success the server empties the
// cart, so the mirror is re-fetched to match. Returns the order reference
// when the backend supplies one.
func (s *Store) Purchase(ctx context.Context) (string, error) {
	s.mu.Lock()
	user := s.user
	empty := len(s.cart) == 0
	s.mu.Unlock()
	if user == nil {
		return "", ErrNotLoggedIn
	}
	if empty {
		return "", ErrEmptyCart
	}

	s.setLoading(true)
	defer s.setLoading(false)

	orderRef, err := s.client.Purchase(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("purchase: %w", err)
	}

	s.refetchCart(ctx)
	return orderRef, nil
}

// errorMessage prefers the backend's human-readable message when there is
// one, falling back to a fixed caption for plain network failures.
func errorMessage(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
