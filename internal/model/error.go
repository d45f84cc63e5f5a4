package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeMenuItemNotFound   = "MENU_ITEM_NOT_FOUND"
	ErrCodeRestaurantNotFound = "RESTAURANT_NOT_FOUND"
	ErrCodeOrderNotFound      = "ORDER_NOT_FOUND"
	ErrCodeMethodNotFound     = "PAYMENT_METHOD_NOT_FOUND"
	ErrCodeOrderAlreadyPaid   = "ORDER_ALREADY_PAID"
	ErrCodeOrderNotPending    = "ORDER_NOT_PENDING"
	ErrCodeInvalidTransition  = "INVALID_STATUS_TRANSITION"
	ErrCodeOrderHasPayment    = "ORDER_HAS_PAYMENT"
	ErrCodeMethodInUse        = "PAYMENT_METHOD_IN_USE"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// DomainError is a business-rule failure with a stable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrUserNotFound       = NewDomainError(ErrCodeUserNotFound, "User not found")
	ErrMenuItemNotFound   = NewDomainError(ErrCodeMenuItemNotFound, "Menu item not found")
	ErrRestaurantNotFound = NewDomainError(ErrCodeRestaurantNotFound, "Restaurant not found")
	ErrOrderNotFound      = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrMethodNotFound     = NewDomainError(ErrCodeMethodNotFound, "Payment method not found")
	ErrOrderAlreadyPaid   = NewDomainError(ErrCodeOrderAlreadyPaid, "Order already has a payment")
	ErrOrderNotPending    = NewDomainError(ErrCodeOrderNotPending, "Order is not in pending status")
	ErrInvalidTransition  = NewDomainError(ErrCodeInvalidTransition, "Status transition not permitted")
	ErrOrderHasPayment    = NewDomainError(ErrCodeOrderHasPayment, "Cannot modify an order with an existing payment")
	ErrMethodInUse        = NewDomainError(ErrCodeMethodInUse, "Cannot modify payment method with existing payments")
	ErrForbidden          = NewDomainError(ErrCodeForbidden, "Caller lacks the required role")
)

// InvalidInput builds an InvalidInput error with a caller-supplied message.
func InvalidInput(message string) *DomainError {
	return NewDomainError(ErrCodeInvalidInput, message)
}
