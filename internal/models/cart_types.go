package models

// Cart is the authoritative cart as the backend reports it. The client only
// ever holds a mirror of this; it never computes cart contents locally.
type Cart struct {
	ID     int64      `json:"id"`
	UserID int64      `json:"userId"`
	Items  []CartItem `json:"items"`
}

// CartItem carries the joined product record, not just a product id, so the
// view layer never has to resolve the reference itself.
type CartItem struct {
	ID       int64   `json:"id"`
	Quantity int     `json:"quantity"`
	Product  Product `json:"product"`
}

// Total sums price*quantity over the items. Prices are whole currency units.
func (c *Cart) Total() int {
	total := 0
	for _, item := range c.Items {
		total += item.Product.Price * item.Quantity
	}
	return total
}
