package repository

import (
	"context"
	"testing"

	"feastly/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogRepository_GetMenuItem(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCatalogRepository(pool, zerolog.Nop())
	ctx := context.Background()

	restaurantID := seedRestaurant(t, pool, "Spice Garden", model.CountryIndia)
	itemID := seedMenuItem(t, pool, restaurantID, "Butter Chicken", "12.99")

	t.Run("returns seeded item with decimal price", func(t *testing.T) {
		item, err := repo.GetMenuItem(ctx, itemID)

		require.NoError(t, err)
		require.NotNil(t, item)
		assert.Equal(t, "Butter Chicken", item.Name)
		assert.Equal(t, restaurantID, item.RestaurantID)
		assert.True(t, item.Price.Equal(decimal.RequireFromString("12.99")))
	})

	t.Run("returns nil for unknown id", func(t *testing.T) {
		item, err := repo.GetMenuItem(ctx, uuid.New())

		require.NoError(t, err)
		assert.Nil(t, item)
	})
}

func TestCatalogRepository_GetMenuItems(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCatalogRepository(pool, zerolog.Nop())
	ctx := context.Background()

	restaurantID := seedRestaurant(t, pool, "Spice Garden", model.CountryIndia)
	butterChicken := seedMenuItem(t, pool, restaurantID, "Butter Chicken", "12.99")
	mangoLassi := seedMenuItem(t, pool, restaurantID, "Mango Lassi", "3.99")

	t.Run("returns all requested items", func(t *testing.T) {
		items, err := repo.GetMenuItems(ctx, []uuid.UUID{butterChicken, mangoLassi})

		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("silently omits unknown ids", func(t *testing.T) {
		items, err := repo.GetMenuItems(ctx, []uuid.UUID{butterChicken, uuid.New()})

		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("empty input yields empty result", func(t *testing.T) {
		items, err := repo.GetMenuItems(ctx, nil)

		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestCatalogRepository_Restaurants(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCatalogRepository(pool, zerolog.Nop())
	ctx := context.Background()

	spiceGarden := seedRestaurant(t, pool, "Spice Garden", model.CountryIndia)
	seedRestaurant(t, pool, "Burger Palace", model.CountryAmerica)
	seedMenuItem(t, pool, spiceGarden, "Butter Chicken", "12.99")
	seedMenuItem(t, pool, spiceGarden, "Mango Lassi", "3.99")

	t.Run("GetRestaurant", func(t *testing.T) {
		restaurant, err := repo.GetRestaurant(ctx, spiceGarden)

		require.NoError(t, err)
		require.NotNil(t, restaurant)
		assert.Equal(t, "Spice Garden", restaurant.Name)
		assert.Equal(t, model.CountryIndia, restaurant.Country)
	})

	t.Run("ListRestaurantsByCountry filters", func(t *testing.T) {
		restaurants, err := repo.ListRestaurantsByCountry(ctx, model.CountryIndia)

		require.NoError(t, err)
		require.Len(t, restaurants, 1)
		assert.Equal(t, spiceGarden, restaurants[0].ID)
	})

	t.Run("ListMenu returns the restaurant's items only", func(t *testing.T) {
		items, err := repo.ListMenu(ctx, spiceGarden)

		require.NoError(t, err)
		assert.Len(t, items, 2)
	})
}
