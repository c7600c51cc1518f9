package store

import (
	"strings"

	"github.com/gosimple/slug"

	"github.com/siddharth-200231/foodapp-go/internal/models"
)

// FilterProducts narrows the current catalog snapshot client-side. Search is
// a case-insensitive substring match on the product name. Restaurant selects
// one restaurant; names are compared in slug form ("Pizza Palace" and
// "pizza-palace" select the same menu), which is what the CLI passes around.
// Either argument may be empty to skip that filter.
func (s *Store) FilterProducts(search, restaurant string) []models.Product {
	snap := s.Snapshot()
	return Filter(snap.Products, search, restaurant)
}

// Filter is the pure filtering core, exposed for views that already hold a
// product slice.
func Filter(products []models.Product, search, restaurant string) []models.Product {
	search = strings.ToLower(search)
	restaurantKey := ""
	if restaurant != "" {
		restaurantKey = slug.Make(restaurant)
	}

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if restaurantKey != "" && slug.Make(p.Restaurant) != restaurantKey {
			continue
		}
		out = append(out, p)
	}
	return out
}
