package service

import (
	"context"

	"feastly/internal/model"

	"github.com/google/uuid"
)

// OrderService defines operations for the order lifecycle.
type OrderService interface {
	// Create validates the requested items, resolves prices through the
	// catalog, and persists the order with its lines as one atomic unit.
	Create(ctx context.Context, req *model.OrderRequest) (*model.Order, error)

	// GetByID retrieves an order with items and payment.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// List retrieves orders newest first, optionally filtered by status.
	List(ctx context.Context, status *model.OrderStatus) ([]model.Order, error)

	// ListByUser retrieves a user's orders newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	// UpdateStatus performs an administrative status transition. Requires
	// ADMIN or MANAGER. The only permitted transition is PENDING to
	// CANCELLED; a same-status update is a no-op success.
	UpdateStatus(ctx context.Context, actor model.AuthContext, orderID uuid.UUID, newStatus model.OrderStatus) (*model.Order, error)

	// Delete removes an order and its items. Requires ADMIN or MANAGER and
	// fails if the order has a payment.
	Delete(ctx context.Context, actor model.AuthContext, orderID uuid.UUID) error
}

// PaymentService defines settlement and payment method operations.
type PaymentService interface {
	// Settle records a payment against a pending order and completes the
	// order, atomically and at most once per order.
	Settle(ctx context.Context, req *model.PaymentRequest) (*model.Payment, error)

	// History retrieves all payments newest first with method and order.
	History(ctx context.Context) ([]model.Payment, error)

	// ListMethods retrieves all stored payment methods.
	ListMethods(ctx context.Context) ([]model.PaymentMethod, error)

	// ListMethodsByUser retrieves a user's stored payment methods.
	ListMethodsByUser(ctx context.Context, userID uuid.UUID) ([]model.PaymentMethod, error)

	// CreateMethod registers a stored payment method for a user.
	CreateMethod(ctx context.Context, req *model.PaymentMethodRequest) (*model.PaymentMethod, error)

	// UpdateMethod modifies a payment method that has no linked payments.
	UpdateMethod(ctx context.Context, id uuid.UUID, req *model.PaymentMethodUpdateRequest) (*model.PaymentMethod, error)

	// DeleteMethod removes a payment method that has no linked payments.
	DeleteMethod(ctx context.Context, id uuid.UUID) error
}

// CatalogService defines the read-only restaurant and menu listings.
type CatalogService interface {
	// RestaurantsByCountry lists restaurants for a country name.
	RestaurantsByCountry(ctx context.Context, country string) ([]model.Restaurant, error)

	// Menu lists a restaurant's menu items.
	Menu(ctx context.Context, restaurantID uuid.UUID) (*model.RestaurantMenu, error)
}
