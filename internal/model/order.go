package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Valid reports whether the status is one of the known states.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further administrative
// transition. COMPLETED is reached only through payment settlement.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransitionTo reports whether the administrative status-update path may
// move an order from s to next. Same-status updates are treated as a no-op
// by the service, not rejected here. The only real administrative transition
// is PENDING -> CANCELLED; PENDING -> COMPLETED belongs to settlement alone.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return s == OrderStatusPending && next == OrderStatusCancelled
}

// Order is a user's request for a set of menu items with a computed total
// and a lifecycle status. The total is frozen at creation.
type Order struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	UserID      uuid.UUID       `json:"userId" db:"user_id"`
	Status      OrderStatus     `json:"status" db:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount" db:"total_amount"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
	Items       []OrderItem     `json:"items,omitempty"`
	Payment     *Payment        `json:"payment,omitempty"`
}

// OrderItem is one line within an order. It captures the menu item's price
// at creation time and is never mutated afterwards.
type OrderItem struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	OrderID    uuid.UUID       `json:"-" db:"order_id"`
	MenuItemID uuid.UUID       `json:"menuItemId" db:"menu_item_id"`
	Name       string          `json:"name" db:"name"`
	Quantity   int             `json:"quantity" db:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice" db:"unit_price"`
	Subtotal   decimal.Decimal `json:"subtotal" db:"subtotal"`
}

// OrderRequest is the payload for creating an order.
type OrderRequest struct {
	UserID uuid.UUID          `json:"userId"`
	Items  []OrderItemRequest `json:"items"`
}

// OrderItemRequest is a single requested line.
type OrderItemRequest struct {
	MenuItemID uuid.UUID `json:"menuItemId"`
	Quantity   int       `json:"quantity"`
}

// OrderStatusRequest is the payload for the administrative status update.
type OrderStatusRequest struct {
	Status OrderStatus `json:"status"`
}
