package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Restaurant groups menu items under a single kitchen in one country.
type Restaurant struct {
	ID      uuid.UUID `json:"id" db:"id"`
	Name    string    `json:"name" db:"name"`
	Country Country   `json:"country" db:"country"`
}

// MenuItem is read-only reference data. Prices are captured onto order lines
// at order-creation time; later menu edits never touch existing orders.
type MenuItem struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	RestaurantID uuid.UUID       `json:"restaurantId" db:"restaurant_id"`
	Name         string          `json:"name" db:"name"`
	Description  string          `json:"description" db:"description"`
	Price        decimal.Decimal `json:"price" db:"price"`
}

// RestaurantMenu is the response payload for a restaurant's menu listing.
type RestaurantMenu struct {
	Restaurant Restaurant `json:"restaurant"`
	MenuItems  []MenuItem `json:"menuItems"`
}
