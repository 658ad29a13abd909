package services

import (
	"errors"
	"fmt"
)

// Checkout domain errors. Callers branch on these with errors.Is; the
// HTTP layer maps them through ServiceError status codes.
var (
	// ErrEmptyCart rejects order creation with no line items.
	ErrEmptyCart = errors.New("cart is empty, nothing to order")
	// ErrIntentCreationFailed means the processor refused or was unreachable
	// while creating a payment intent. The order is untouched.
	ErrIntentCreationFailed = errors.New("payment intent creation failed")
	// ErrPaymentDeclined means the processor processed the confirmation and
	// reported failure. The order stays pending and is safe to retry.
	ErrPaymentDeclined = errors.New("payment declined")
	// ErrPaymentIndeterminate means the confirmation outcome is unknown
	// (transport failure mid-call). Callers must check order state before
	// retrying to avoid double charges.
	ErrPaymentIndeterminate = errors.New("payment outcome indeterminate")
	// ErrReconciliation means the processor confirmed the charge but the
	// order update failed: money may have moved without the order
	// reflecting it. Never mapped to a plain payment failure.
	ErrReconciliation = errors.New("payment succeeded but order update failed")
)

// ServiceError is a typed error carrying the HTTP status the controller
// should respond with. Err, when set, carries the underlying domain error
// so errors.Is keeps working across the service boundary.
type ServiceError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func newServiceError(status int, message string, err error) *ServiceError {
	return &ServiceError{StatusCode: status, Message: message, Err: err}
}
