package repository

import (
	"context"
	"errors"
	"fmt"

	"feastly/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// paymentRepository implements the PaymentRepository interface using PostgreSQL.
type paymentRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPaymentRepository creates a new PostgreSQL-backed payment repository.
func NewPaymentRepository(pool *pgxpool.Pool, logger zerolog.Logger) PaymentRepository {
	return &paymentRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "payment").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *paymentRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreatePayment inserts a payment within the provided transaction. The unique
// constraint on order_id is the settlement race arbiter: the losing writer
// gets a unique violation, surfaced as model.ErrOrderAlreadyPaid.
func (r *paymentRepository) CreatePayment(ctx context.Context, tx pgx.Tx, payment *model.Payment) error {
	query := `
		INSERT INTO payments (id, order_id, payment_method_id, amount, status, error_message, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := tx.Exec(ctx, query,
		payment.ID, payment.OrderID, payment.PaymentMethodID, payment.Amount,
		payment.Status, payment.ErrorMessage, payment.PaidAt, payment.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			r.logger.Warn().
				Str("order_id", payment.OrderID.String()).
				Msg("duplicate payment rejected by unique constraint")
			return model.ErrOrderAlreadyPaid
		}
		r.logger.Error().
			Err(err).
			Str("order_id", payment.OrderID.String()).
			Msg("failed to create payment")
		return fmt.Errorf("failed to create payment: %w", err)
	}

	r.logger.Debug().
		Str("payment_id", payment.ID.String()).
		Str("order_id", payment.OrderID.String()).
		Msg("payment created successfully")

	return nil
}

// GetByOrderID retrieves the payment linked to an order, or nil when absent.
func (r *paymentRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*model.Payment, error) {
	query := `
		SELECT id, order_id, payment_method_id, amount, status, error_message, paid_at, created_at
		FROM payments
		WHERE order_id = $1
	`

	var p model.Payment
	err := r.pool.QueryRow(ctx, query, orderID).Scan(
		&p.ID, &p.OrderID, &p.PaymentMethodID, &p.Amount, &p.Status,
		&p.ErrorMessage, &p.PaidAt, &p.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to query payment")
		return nil, fmt.Errorf("failed to query payment: %w", err)
	}

	return &p, nil
}

// ListHistory retrieves all payments newest first with method and order attached.
func (r *paymentRepository) ListHistory(ctx context.Context) ([]model.Payment, error) {
	query := `
		SELECT p.id, p.order_id, p.payment_method_id, p.amount, p.status,
		       p.error_message, p.paid_at, p.created_at,
		       m.id, m.user_id, m.type, m.details, m.created_at,
		       o.id, o.user_id, o.status, o.total_amount, o.created_at, o.updated_at
		FROM payments p
		JOIN payment_methods m ON m.id = p.payment_method_id
		JOIN orders o ON o.id = p.order_id
		ORDER BY p.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query payment history")
		return nil, fmt.Errorf("failed to query payment history: %w", err)
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		var p model.Payment
		var m model.PaymentMethod
		var o model.Order
		err := rows.Scan(&p.ID, &p.OrderID, &p.PaymentMethodID, &p.Amount, &p.Status,
			&p.ErrorMessage, &p.PaidAt, &p.CreatedAt,
			&m.ID, &m.UserID, &m.Type, &m.Details, &m.CreatedAt,
			&o.ID, &o.UserID, &o.Status, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan payment history row")
			return nil, fmt.Errorf("failed to scan payment history: %w", err)
		}
		p.Method = &m
		p.Order = &o
		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating payment history rows")
		return nil, fmt.Errorf("error iterating payment history: %w", err)
	}

	return payments, nil
}

// CountByMethod returns the number of payments made with a method.
func (r *paymentRepository) CountByMethod(ctx context.Context, methodID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM payments WHERE payment_method_id = $1`

	var count int
	if err := r.pool.QueryRow(ctx, query, methodID).Scan(&count); err != nil {
		r.logger.Error().Err(err).Str("method_id", methodID.String()).Msg("failed to count payments")
		return 0, fmt.Errorf("failed to count payments: %w", err)
	}

	return count, nil
}

// CreateMethod inserts a stored payment method.
func (r *paymentRepository) CreateMethod(ctx context.Context, method *model.PaymentMethod) error {
	query := `
		INSERT INTO payment_methods (id, user_id, type, details, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		method.ID, method.UserID, method.Type, method.Details, method.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", method.UserID.String()).Msg("failed to create payment method")
		return fmt.Errorf("failed to create payment method: %w", err)
	}

	return nil
}

// GetMethod retrieves a payment method by id, or nil when absent.
func (r *paymentRepository) GetMethod(ctx context.Context, id uuid.UUID) (*model.PaymentMethod, error) {
	query := `
		SELECT id, user_id, type, details, created_at
		FROM payment_methods
		WHERE id = $1
	`

	var m model.PaymentMethod
	err := r.pool.QueryRow(ctx, query, id).Scan(&m.ID, &m.UserID, &m.Type, &m.Details, &m.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("method_id", id.String()).Msg("payment method not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("method_id", id.String()).Msg("failed to query payment method")
		return nil, fmt.Errorf("failed to query payment method: %w", err)
	}

	return &m, nil
}

// UpdateMethod persists changes to a payment method.
func (r *paymentRepository) UpdateMethod(ctx context.Context, method *model.PaymentMethod) error {
	query := `
		UPDATE payment_methods
		SET type = $1, details = $2
		WHERE id = $3
	`

	_, err := r.pool.Exec(ctx, query, method.Type, method.Details, method.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("method_id", method.ID.String()).Msg("failed to update payment method")
		return fmt.Errorf("failed to update payment method: %w", err)
	}

	return nil
}

// DeleteMethod removes a payment method.
func (r *paymentRepository) DeleteMethod(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM payment_methods WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("method_id", id.String()).Msg("failed to delete payment method")
		return fmt.Errorf("failed to delete payment method: %w", err)
	}

	return nil
}

// ListMethods retrieves all payment methods newest first.
func (r *paymentRepository) ListMethods(ctx context.Context) ([]model.PaymentMethod, error) {
	query := `
		SELECT id, user_id, type, details, created_at
		FROM payment_methods
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query payment methods")
		return nil, fmt.Errorf("failed to query payment methods: %w", err)
	}
	defer rows.Close()

	return scanMethods(rows)
}

// ListMethodsByUser retrieves a user's payment methods newest first.
func (r *paymentRepository) ListMethodsByUser(ctx context.Context, userID uuid.UUID) ([]model.PaymentMethod, error) {
	query := `
		SELECT id, user_id, type, details, created_at
		FROM payment_methods
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query user payment methods")
		return nil, fmt.Errorf("failed to query user payment methods: %w", err)
	}
	defer rows.Close()

	return scanMethods(rows)
}

// scanMethods collects payment method rows.
func scanMethods(rows pgx.Rows) ([]model.PaymentMethod, error) {
	var methods []model.PaymentMethod
	for rows.Next() {
		var m model.PaymentMethod
		if err := rows.Scan(&m.ID, &m.UserID, &m.Type, &m.Details, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment method: %w", err)
		}
		methods = append(methods, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment methods: %w", err)
	}

	return methods, nil
}
