package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siddharth-200231/foodapp-go/internal/models"
	"github.com/siddharth-200231/foodapp-go/internal/store"
)

func TestFilterBySearchIsCaseInsensitive(t *testing.T) {
	products := []models.Product{
		{Name: "Pizza"},
		{Name: "Burger"},
	}

	got := store.Filter(products, "piz", "")
	require.Len(t, got, 1)
	assert.Equal(t, "Pizza", got[0].Name)

	got = store.Filter(products, "PIZZA", "")
	require.Len(t, got, 1)
	assert.Equal(t, "Pizza", got[0].Name)

	assert.Empty(t, store.Filter(products, "sushi", ""))
}

func TestFilterByRestaurantMatchesSlugForm(t *testing.T) {
	products := []models.Product{
		{Name: "Pizza", Restaurant: "Pizza Palace"},
		{Name: "Burger", Restaurant: "Burger Barn"},
	}

	// Display name and slug select the same menu.
	for _, key := range []string{"Pizza Palace", "pizza-palace"} {
		got := store.Filter(products, "", key)
		require.Len(t, got, 1, "key %q", key)
		assert.Equal(t, "Pizza", got[0].Name)
	}
}

func TestFilterCombinesSearchAndRestaurant(t *testing.T) {
	products := []models.Product{
		{Name: "Margherita Pizza", Restaurant: "Pizza Palace"},
		{Name: "Pepperoni Pizza", Restaurant: "Pizza Palace"},
		{Name: "Pizza Burger", Restaurant: "Burger Barn"},
	}

	got := store.Filter(products, "pizza", "Burger Barn")
	require.Len(t, got, 1)
	assert.Equal(t, "Pizza Burger", got[0].Name)
}

func TestFilterEmptyArgumentsReturnEverything(t *testing.T) {
	products := []models.Product{{Name: "Pizza"}, {Name: "Burger"}}
	assert.Len(t, store.Filter(products, "", ""), 2)
}
