package mockapi

import (
	"errors"
	"sync"

	"github.com/siddharth-200231/foodapp-go/internal/models"
)

// Domain errors the handlers translate into HTTP responses.
var (
	ErrEmailTaken        = errors.New("Email already registered")
	ErrBadCredentials    = errors.New("Invalid email or password")
	ErrProductNotFound   = errors.New("Product not found")
	ErrCartItemNotFound  = errors.New("Cart item not found")
	ErrInsufficientStock = errors.New("Insufficient stock")
	ErrCartEmpty         = errors.New("Cart is empty")
)

// Database holds the mock backend's tables in memory. It stands in for the
// real service's SQL store; everything vanishes when the process exits,
// which is exactly what a test double should do.
type Database struct {
	mu         sync.Mutex
	users      []*models.User
	products   []models.Product
	carts      map[int64]*models.Cart // keyed by user id
	nextUserID int64
	nextCartID int64
	nextItemID int64
}

func NewDatabase() *Database {
	return &Database{
		carts:      make(map[int64]*models.Cart),
		nextUserID: 1,
		nextCartID: 1,
		nextItemID: 1,
	}
}

// CreateUser registers an account. Emails are unique.
func (db *Database) CreateUser(username, email, passwordHash string) (*models.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Email == email {
			return nil, ErrEmailTaken
		}
	}

	user := &models.User{
		ID:           db.nextUserID,
		Username:     username,
		Email:        email,
		Role:         "customer",
		PasswordHash: passwordHash,
	}
	db.nextUserID++
	db.users = append(db.users, user)

	u := *user
	return &u, nil
}

// UserByEmail returns a copy of the account with that email, or nil.
func (db *Database) UserByEmail(email string) *models.User {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Email == email {
			copied := *u
			return &copied
		}
	}
	return nil
}

// SeedProducts appends products to the catalog, assigning ids when absent.
func (db *Database) SeedProducts(products ...models.Product) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, p := range products {
		if p.ID == 0 {
			p.ID = int64(len(db.products) + 1)
		}
		db.products = append(db.products, p)
	}
}

// Products returns the full catalog snapshot.
func (db *Database) Products() []models.Product {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]models.Product(nil), db.products...)
}

// ProductByID returns a copy of one product.
func (db *Database) ProductByID(id int64) (*models.Product, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, p := range db.products {
		if p.ID == id {
			copied := p
			return &copied, nil
		}
	}
	return nil, ErrProductNotFound
}

// Restaurants returns the distinct restaurant names, in catalog order.
func (db *Database) Restaurants() []string {
	db.mu.Lock()
	defer db.mu.Unlock()

	seen := make(map[string]bool)
	var names []string
	for _, p := range db.products {
		if p.Restaurant == "" || seen[p.Restaurant] {
			continue
		}
		seen[p.Restaurant] = true
		names = append(names, p.Restaurant)
	}
	return names
}

// cartForLocked finds or creates a user's cart. Callers hold db.mu.
func (db *Database) cartForLocked(userID int64) *models.Cart {
	cart, ok := db.carts[userID]
	if !ok {
		cart = &models.Cart{ID: db.nextCartID, UserID: userID}
		db.nextCartID++
		db.carts[userID] = cart
	}
	return cart
}

// Cart returns a copy of the user's cart, creating an empty one on first use.
func (db *Database) Cart(userID int64) models.Cart {
	db.mu.Lock()
	defer db.mu.Unlock()

	cart := db.cartForLocked(userID)
	copied := *cart
	copied.Items = append([]models.CartItem(nil), cart.Items...)
	return copied
}

// AddItem adds quantity units of a product to the user's cart, upserting the
// quantity when the product is already there. Stock is checked against the
// total quantity that would end up in the cart.
func (db *Database) AddItem(userID, productID int64, quantity int) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	var product *models.Product
	for i := range db.products {
		if db.products[i].ID == productID {
			product = &db.products[i]
			break
		}
	}
	if product == nil || !product.Available {
		return ErrProductNotFound
	}

	cart := db.cartForLocked(userID)
	for i := range cart.Items {
		if cart.Items[i].Product.ID == productID {
			if cart.Items[i].Quantity+quantity > product.StockQuantity {
				return ErrInsufficientStock
			}
			cart.Items[i].Quantity += quantity
			return nil
		}
	}

	if quantity > product.StockQuantity {
		return ErrInsufficientStock
	}
	cart.Items = append(cart.Items, models.CartItem{
		ID:       db.nextItemID,
		Quantity: quantity,
		Product:  *product,
	})
	db.nextItemID++
	return nil
}

// RemoveItem deletes one cart item from the user's cart by item id.
func (db *Database) RemoveItem(userID, itemID int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	cart := db.cartForLocked(userID)
	for i, item := range cart.Items {
		if item.ID == itemID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			return nil
		}
	}
	return ErrCartItemNotFound
}

// Purchase checks out the user's cart: stock is decremented and the cart
// emptied, atomically under the lock.
func (db *Database) Purchase(userID int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	cart := db.cartForLocked(userID)
	if len(cart.Items) == 0 {
		return ErrCartEmpty
	}

	// Verify all lines before mutating anything.
	for _, item := range cart.Items {
		for i := range db.products {
			if db.products[i].ID == item.Product.ID {
				if item.Quantity > db.products[i].StockQuantity {
					return ErrInsufficientStock
				}
			}
		}
	}

	for _, item := range cart.Items {
		for i := range db.products {
			if db.products[i].ID == item.Product.ID {
				db.products[i].StockQuantity -= item.Quantity
			}
		}
	}
	cart.Items = nil
	return nil
}
