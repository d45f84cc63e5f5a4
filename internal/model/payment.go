package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethodType enumerates supported stored instruments.
type PaymentMethodType string

const (
	PaymentMethodCreditCard PaymentMethodType = "CREDIT_CARD"
	PaymentMethodDebitCard  PaymentMethodType = "DEBIT_CARD"
	PaymentMethodPaypal     PaymentMethodType = "PAYPAL"
)

// Valid reports whether the type is one of the known instrument kinds.
func (t PaymentMethodType) Valid() bool {
	switch t {
	case PaymentMethodCreditCard, PaymentMethodDebitCard, PaymentMethodPaypal:
		return true
	}
	return false
}

// PaymentStatus is the outcome of a settlement. The gateway is modeled as a
// deterministic success, so only COMPLETED is produced today.
type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
)

// PaymentMethod is a stored, reusable instrument belonging to a user.
// It is mutable and deletable only while it has zero linked payments.
type PaymentMethod struct {
	ID        uuid.UUID         `json:"id" db:"id"`
	UserID    uuid.UUID         `json:"userId" db:"user_id"`
	Type      PaymentMethodType `json:"type" db:"type"`
	Details   string            `json:"details" db:"details"`
	CreatedAt time.Time         `json:"createdAt" db:"created_at"`
}

// Payment records a settlement against an order. The order id is unique,
// enforcing at most one payment per order at the storage layer.
type Payment struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	OrderID         uuid.UUID       `json:"orderId" db:"order_id"`
	PaymentMethodID uuid.UUID       `json:"paymentMethodId" db:"payment_method_id"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	Status          PaymentStatus   `json:"status" db:"status"`
	ErrorMessage    *string         `json:"errorMessage,omitempty" db:"error_message"`
	PaidAt          time.Time       `json:"paidAt" db:"paid_at"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	Method          *PaymentMethod  `json:"paymentMethod,omitempty"`
	Order           *Order          `json:"order,omitempty"`
}

// PaymentRequest is the payload for settling an order.
type PaymentRequest struct {
	OrderID         uuid.UUID       `json:"orderId"`
	PaymentMethodID uuid.UUID       `json:"paymentMethodId"`
	Amount          decimal.Decimal `json:"amount"`
}

// PaymentMethodRequest is the payload for registering an instrument.
type PaymentMethodRequest struct {
	UserID  uuid.UUID         `json:"userId"`
	Type    PaymentMethodType `json:"type"`
	Details string            `json:"details"`
}

// PaymentMethodUpdateRequest carries optional fields for an instrument update.
type PaymentMethodUpdateRequest struct {
	Type    *PaymentMethodType `json:"type,omitempty"`
	Details *string            `json:"details,omitempty"`
}
