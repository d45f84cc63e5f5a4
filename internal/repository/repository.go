package repository

import (
	"context"

	"feastly/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserRepository defines the interface for user lookups. Users are owned by
// the external identity subsystem; the core only reads them.
type UserRepository interface {
	// GetByID retrieves a user by id, or nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// CatalogRepository defines read-only access to restaurants and menu items.
type CatalogRepository interface {
	// GetMenuItem retrieves a menu item by id, or nil when absent.
	GetMenuItem(ctx context.Context, id uuid.UUID) (*model.MenuItem, error)

	// GetMenuItems retrieves multiple menu items by their ids.
	GetMenuItems(ctx context.Context, ids []uuid.UUID) ([]model.MenuItem, error)

	// GetRestaurant retrieves a restaurant by id, or nil when absent.
	GetRestaurant(ctx context.Context, id uuid.UUID) (*model.Restaurant, error)

	// ListRestaurantsByCountry retrieves all restaurants in a country.
	ListRestaurantsByCountry(ctx context.Context, country model.Country) ([]model.Restaurant, error)

	// ListMenu retrieves all menu items belonging to a restaurant.
	ListMenu(ctx context.Context, restaurantID uuid.UUID) ([]model.MenuItem, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order with its items and payment (if any),
	// or nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// List retrieves orders newest first, optionally filtered by status,
	// each with items and payment attached.
	List(ctx context.Context, status *model.OrderStatus) ([]model.Order, error)

	// ListByUser retrieves a user's orders newest first with items and
	// payment attached.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	// UpdateStatus performs a guarded status transition within the provided
	// transaction and returns the number of rows affected. Zero rows means
	// the order was not in the expected source status.
	UpdateStatus(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, from, to model.OrderStatus) (int64, error)

	// DeleteOrder removes an order and its items within the provided transaction.
	DeleteOrder(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) error
}

// PaymentRepository defines the interface for payments and stored payment
// methods.
type PaymentRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreatePayment inserts a payment within the provided transaction.
	// A duplicate order id surfaces as model.ErrOrderAlreadyPaid.
	CreatePayment(ctx context.Context, tx pgx.Tx, payment *model.Payment) error

	// GetByOrderID retrieves the payment linked to an order, or nil when absent.
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*model.Payment, error)

	// ListHistory retrieves all payments newest first with their method and
	// order attached.
	ListHistory(ctx context.Context) ([]model.Payment, error)

	// CountByMethod returns the number of payments made with a method.
	CountByMethod(ctx context.Context, methodID uuid.UUID) (int, error)

	// CreateMethod inserts a stored payment method.
	CreateMethod(ctx context.Context, method *model.PaymentMethod) error

	// GetMethod retrieves a payment method by id, or nil when absent.
	GetMethod(ctx context.Context, id uuid.UUID) (*model.PaymentMethod, error)

	// UpdateMethod persists changes to a payment method.
	UpdateMethod(ctx context.Context, method *model.PaymentMethod) error

	// DeleteMethod removes a payment method.
	DeleteMethod(ctx context.Context, id uuid.UUID) error

	// ListMethods retrieves all payment methods newest first.
	ListMethods(ctx context.Context) ([]model.PaymentMethod, error)

	// ListMethodsByUser retrieves a user's payment methods newest first.
	ListMethodsByUser(ctx context.Context, userID uuid.UUID) ([]model.PaymentMethod, error)
}
