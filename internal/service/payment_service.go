package service

import (
	"context"
	"fmt"
	"time"

	"feastly/internal/events"
	"feastly/internal/model"
	"feastly/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// paymentService implements PaymentService.
type paymentService struct {
	paymentRepo repository.PaymentRepository
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	publisher   events.Publisher
	logger      zerolog.Logger
}

// NewPaymentService creates a new payment service.
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	publisher events.Publisher,
	logger zerolog.Logger,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		publisher:   publisher,
		logger:      logger.With().Str("service", "payment").Logger(),
	}
}

// Settle records a payment against a pending order and completes the order
// as one atomic unit. The unique constraint on payments.order_id plus the
// guarded status update make the operation exactly-once per order even
// across concurrent service instances.
//
// The requested amount is deliberately not compared against the order total;
// see DESIGN.md for the policy decision.
func (s *paymentService) Settle(ctx context.Context, req *model.PaymentRequest) (*model.Payment, error) {
	if err := validatePaymentRequest(req); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to settle payment: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if order.Payment != nil {
		s.logger.Warn().Str("order_id", req.OrderID.String()).Msg("settlement rejected: order already paid")
		return nil, model.ErrOrderAlreadyPaid
	}

	if order.Status != model.OrderStatusPending {
		s.logger.Warn().
			Str("order_id", req.OrderID.String()).
			Str("status", string(order.Status)).
			Msg("settlement rejected: order not pending")
		return nil, model.ErrOrderNotPending
	}

	method, err := s.paymentRepo.GetMethod(ctx, req.PaymentMethodID)
	if err != nil {
		return nil, fmt.Errorf("failed to settle payment: %w", err)
	}
	if method == nil {
		return nil, model.ErrMethodNotFound
	}

	// The gateway is modeled as a deterministic success, so the payment is
	// written as COMPLETED directly.
	now := time.Now()
	payment := &model.Payment{
		ID:              uuid.New(),
		OrderID:         req.OrderID,
		PaymentMethodID: req.PaymentMethodID,
		Amount:          req.Amount,
		Status:          model.PaymentStatusCompleted,
		PaidAt:          now,
		CreatedAt:       now,
	}

	tx, err := s.paymentRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to settle payment: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.paymentRepo.CreatePayment(ctx, tx, payment); err != nil {
		return nil, err
	}

	var affected int64
	affected, err = s.orderRepo.UpdateStatus(ctx, tx, req.OrderID, model.OrderStatusPending, model.OrderStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to settle payment: %w", err)
	}
	if affected == 0 {
		// A concurrent cancellation won after our precondition read; abort
		// so the payment insert rolls back with it.
		err = model.ErrOrderNotPending
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", req.OrderID.String()).Msg("failed to commit settlement")
		return nil, fmt.Errorf("failed to settle payment: %w", err)
	}

	payment.Method = method

	s.logger.Info().
		Str("payment_id", payment.ID.String()).
		Str("order_id", req.OrderID.String()).
		Str("amount", payment.Amount.String()).
		Msg("payment settled")

	order.Status = model.OrderStatusCompleted
	s.publishSettled(ctx, order)

	return payment, nil
}

// History retrieves all payments newest first with method and order attached.
func (s *paymentService) History(ctx context.Context) ([]model.Payment, error) {
	payments, err := s.paymentRepo.ListHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment history: %w", err)
	}
	return payments, nil
}

// ListMethods retrieves all stored payment methods.
func (s *paymentService) ListMethods(ctx context.Context) ([]model.PaymentMethod, error) {
	methods, err := s.paymentRepo.ListMethods(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	return methods, nil
}

// ListMethodsByUser retrieves a user's stored payment methods.
func (s *paymentService) ListMethodsByUser(ctx context.Context, userID uuid.UUID) ([]model.PaymentMethod, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	methods, err := s.paymentRepo.ListMethodsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	return methods, nil
}

// CreateMethod registers a stored payment method for a user.
func (s *paymentService) CreateMethod(ctx context.Context, req *model.PaymentMethodRequest) (*model.PaymentMethod, error) {
	if req == nil {
		return nil, model.InvalidInput("payment method request is required")
	}
	if req.UserID == uuid.Nil {
		return nil, model.InvalidInput("userId is required")
	}
	if !req.Type.Valid() {
		return nil, model.InvalidInput(fmt.Sprintf("unknown payment method type %q", string(req.Type)))
	}
	if req.Details == "" {
		return nil, model.InvalidInput("details are required")
	}

	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment method: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	method := &model.PaymentMethod{
		ID:        uuid.New(),
		UserID:    req.UserID,
		Type:      req.Type,
		Details:   req.Details,
		CreatedAt: time.Now(),
	}

	if err := s.paymentRepo.CreateMethod(ctx, method); err != nil {
		return nil, fmt.Errorf("failed to create payment method: %w", err)
	}

	s.logger.Info().
		Str("method_id", method.ID.String()).
		Str("user_id", method.UserID.String()).
		Str("type", string(method.Type)).
		Msg("payment method created")

	return method, nil
}

// UpdateMethod modifies a payment method. Methods that have settled payments
// are frozen.
func (s *paymentService) UpdateMethod(ctx context.Context, id uuid.UUID, req *model.PaymentMethodUpdateRequest) (*model.PaymentMethod, error) {
	if req == nil || (req.Type == nil && req.Details == nil) {
		return nil, model.InvalidInput("at least one field must be provided")
	}
	if req.Type != nil && !req.Type.Valid() {
		return nil, model.InvalidInput(fmt.Sprintf("unknown payment method type %q", string(*req.Type)))
	}
	if req.Details != nil && *req.Details == "" {
		return nil, model.InvalidInput("details cannot be empty")
	}

	method, err := s.paymentRepo.GetMethod(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update payment method: %w", err)
	}
	if method == nil {
		return nil, model.ErrMethodNotFound
	}

	count, err := s.paymentRepo.CountByMethod(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update payment method: %w", err)
	}
	if count > 0 {
		return nil, model.ErrMethodInUse
	}

	if req.Type != nil {
		method.Type = *req.Type
	}
	if req.Details != nil {
		method.Details = *req.Details
	}

	if err := s.paymentRepo.UpdateMethod(ctx, method); err != nil {
		return nil, fmt.Errorf("failed to update payment method: %w", err)
	}

	s.logger.Info().Str("method_id", id.String()).Msg("payment method updated")

	return method, nil
}

// DeleteMethod removes a payment method with no linked payments.
func (s *paymentService) DeleteMethod(ctx context.Context, id uuid.UUID) error {
	method, err := s.paymentRepo.GetMethod(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete payment method: %w", err)
	}
	if method == nil {
		return model.ErrMethodNotFound
	}

	count, err := s.paymentRepo.CountByMethod(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete payment method: %w", err)
	}
	if count > 0 {
		return model.ErrMethodInUse
	}

	if err := s.paymentRepo.DeleteMethod(ctx, id); err != nil {
		return fmt.Errorf("failed to delete payment method: %w", err)
	}

	s.logger.Info().Str("method_id", id.String()).Msg("payment method deleted")

	return nil
}

// publishSettled emits the settlement event, logging failures without
// surfacing them.
func (s *paymentService) publishSettled(ctx context.Context, order *model.Order) {
	event := events.OrderEvent{
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount.String(),
		OccurredAt:  time.Now(),
	}
	if err := s.publisher.Publish(ctx, events.RoutePaymentSettled, event); err != nil {
		s.logger.Warn().Err(err).Str("order_id", order.ID.String()).Msg("event publish failed")
	}
}

// validatePaymentRequest validates the settlement request.
func validatePaymentRequest(req *model.PaymentRequest) error {
	if req == nil {
		return model.InvalidInput("payment request is required")
	}
	if req.OrderID == uuid.Nil {
		return model.InvalidInput("orderId is required")
	}
	if req.PaymentMethodID == uuid.Nil {
		return model.InvalidInput("paymentMethodId is required")
	}
	if !req.Amount.IsPositive() {
		return model.InvalidInput("amount must be greater than zero")
	}
	return nil
}
