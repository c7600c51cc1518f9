package mockapi

import (
	"time"

	"github.com/siddharth-200231/foodapp-go/internal/models"
)

// DemoProducts is the catalog cmd/mockapi serves out of the box, enough to
// click through every screen of a frontend: several restaurants, one
// unavailable dish, one with low stock.
func DemoProducts() []models.Product {
	released := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	return []models.Product{
		{Name: "Margherita Pizza", Description: "Tomato, mozzarella, basil", Restaurant: "Pizza Palace", Brand: "Pizza Palace", Price: 12, StockQuantity: 40, Available: true, ReleaseDate: released},
		{Name: "Pepperoni Pizza", Description: "Double pepperoni", Restaurant: "Pizza Palace", Brand: "Pizza Palace", Price: 14, StockQuantity: 35, Available: true, ReleaseDate: released},
		{Name: "Classic Burger", Description: "Beef patty, cheddar, pickles", Restaurant: "Burger Barn", Brand: "Burger Barn", Price: 9, StockQuantity: 50, Available: true, ReleaseDate: released},
		{Name: "Veggie Burger", Description: "Grilled halloumi and portobello", Restaurant: "Burger Barn", Brand: "Burger Barn", Price: 8, StockQuantity: 3, Available: true, ReleaseDate: released},
		{Name: "Pad Thai", Description: "Rice noodles, peanuts, lime", Restaurant: "Thai Garden", Brand: "Thai Garden", Price: 11, StockQuantity: 25, Available: true, ReleaseDate: released},
		{Name: "Green Curry", Description: "Seasonal special", Restaurant: "Thai Garden", Brand: "Thai Garden", Price: 13, StockQuantity: 0, Available: false, ReleaseDate: released},
	}
}
