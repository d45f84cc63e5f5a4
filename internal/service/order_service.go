package service

import (
	"context"
	"fmt"
	"time"

	"feastly/internal/catalog"
	"feastly/internal/events"
	"feastly/internal/model"
	"feastly/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	catalog   catalog.Accessor
	publisher events.Publisher
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	catalogAccessor catalog.Accessor,
	publisher events.Publisher,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		catalog:   catalogAccessor,
		publisher: publisher,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// Create validates the requested items, resolves prices through the catalog,
// and persists the order with its lines as one atomic unit.
func (s *orderService) Create(ctx context.Context, req *model.OrderRequest) (*model.Order, error) {
	if err := validateOrderRequest(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if user == nil {
		s.logger.Warn().Str("user_id", req.UserID.String()).Msg("order for unknown user rejected")
		return nil, model.ErrUserNotFound
	}

	menuItemIDs := make([]uuid.UUID, len(req.Items))
	for i, item := range req.Items {
		menuItemIDs[i] = item.MenuItemID
	}

	resolved, err := s.catalog.ResolveAll(ctx, menuItemIDs)
	if err != nil {
		return nil, err
	}

	// Prices are captured here; later catalog edits never change this order.
	now := time.Now()
	order := &model.Order{
		ID:        uuid.New(),
		UserID:    req.UserID,
		Status:    model.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	total := decimal.Zero
	items := make([]model.OrderItem, len(req.Items))
	for i, line := range req.Items {
		menuItem := resolved[line.MenuItemID]
		subtotal := menuItem.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items[i] = model.OrderItem{
			ID:         uuid.New(),
			OrderID:    order.ID,
			MenuItemID: line.MenuItemID,
			Name:       menuItem.Name,
			Quantity:   line.Quantity,
			UnitPrice:  menuItem.Price,
			Subtotal:   subtotal,
		}
		total = total.Add(subtotal)
	}
	order.TotalAmount = total

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	order.Items = items

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", order.UserID.String()).
		Str("total_amount", order.TotalAmount.String()).
		Int("item_count", len(items)).
		Msg("order created successfully")

	s.publish(ctx, events.RouteOrderCreated, order)

	return order, nil
}

// GetByID retrieves an order with items and payment.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

// List retrieves orders newest first, optionally filtered by status.
func (s *orderService) List(ctx context.Context, status *model.OrderStatus) ([]model.Order, error) {
	if status != nil && !status.Valid() {
		return nil, model.InvalidInput(fmt.Sprintf("unknown order status %q", string(*status)))
	}

	orders, err := s.orderRepo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListByUser retrieves a user's orders newest first.
func (s *orderService) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user orders: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus performs an administrative status transition. The role gate
// runs before any state is read.
func (s *orderService) UpdateStatus(ctx context.Context, actor model.AuthContext, orderID uuid.UUID, newStatus model.OrderStatus) (*model.Order, error) {
	if !actor.Role.CanManageOrders() {
		s.logger.Warn().
			Str("user_id", actor.UserID.String()).
			Str("role", string(actor.Role)).
			Msg("status update rejected for insufficient role")
		return nil, model.ErrForbidden
	}

	if !newStatus.Valid() {
		return nil, model.InvalidInput(fmt.Sprintf("unknown order status %q", string(newStatus)))
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	// Redundant transition policy: same-status updates succeed without
	// touching the row.
	if order.Status == newStatus {
		return order, nil
	}

	if order.Payment != nil {
		return nil, model.ErrOrderHasPayment
	}

	if !order.Status.CanTransitionTo(newStatus) {
		s.logger.Warn().
			Str("order_id", orderID.String()).
			Str("from", string(order.Status)).
			Str("to", string(newStatus)).
			Msg("illegal status transition rejected")
		return nil, model.ErrInvalidTransition
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	affected, err := s.orderRepo.UpdateStatus(ctx, tx, orderID, order.Status, newStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if affected == 0 {
		// A concurrent settlement or cancellation won the race.
		err = model.ErrInvalidTransition
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	order.Status = newStatus
	order.UpdatedAt = time.Now()

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("status", string(newStatus)).
		Str("actor_id", actor.UserID.String()).
		Msg("order status updated")

	if newStatus == model.OrderStatusCancelled {
		s.publish(ctx, events.RouteOrderCancelled, order)
	}

	return order, nil
}

// Delete removes an order and its items atomically. Orders with a payment
// are immutable and cannot be deleted.
func (s *orderService) Delete(ctx context.Context, actor model.AuthContext, orderID uuid.UUID) error {
	if !actor.Role.CanManageOrders() {
		s.logger.Warn().
			Str("user_id", actor.UserID.String()).
			Str("role", string(actor.Role)).
			Msg("order delete rejected for insufficient role")
		return model.ErrForbidden
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if order == nil {
		return model.ErrOrderNotFound
	}

	if order.Payment != nil {
		return model.ErrOrderHasPayment
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.DeleteOrder(ctx, tx, orderID); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("actor_id", actor.UserID.String()).
		Msg("order deleted")

	return nil
}

// publish emits an order event, logging failures without surfacing them.
func (s *orderService) publish(ctx context.Context, routingKey string, order *model.Order) {
	event := events.OrderEvent{
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount.String(),
		OccurredAt:  time.Now(),
	}
	if err := s.publisher.Publish(ctx, routingKey, event); err != nil {
		s.logger.Warn().Err(err).Str("routing_key", routingKey).Msg("event publish failed")
	}
}

// validateOrderRequest validates the order request.
func validateOrderRequest(req *model.OrderRequest) error {
	if req == nil {
		return model.InvalidInput("order request is required")
	}

	if req.UserID == uuid.Nil {
		return model.InvalidInput("userId is required")
	}

	if len(req.Items) == 0 {
		return model.InvalidInput("order must contain at least one item")
	}

	for i, item := range req.Items {
		if item.MenuItemID == uuid.Nil {
			return model.InvalidInput(fmt.Sprintf("item %d: menuItemId is required", i))
		}
		if item.Quantity <= 0 {
			return model.InvalidInput(fmt.Sprintf("item %d: quantity must be greater than zero", i))
		}
	}

	return nil
}
