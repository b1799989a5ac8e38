package payment

import (
	"context"
	"errors"

	"food-ordering-api/pricing"
)

var (
	// ErrInvalidAmount means the intent amount is not positive. Not retryable.
	ErrInvalidAmount = errors.New("payment amount must be positive")
	// ErrGatewayUnavailable means the provider could not be reached or
	// answered with a server error. Retryable; the order is left untouched.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	// ErrSignatureMismatch means the provider signature failed verification.
	ErrSignatureMismatch = errors.New("payment signature verification failed")
)

// Intent is a gateway-issued token for an authorized pending charge.
type Intent struct {
	ID       string        `json:"intent_id"`
	Amount   pricing.Cents `json:"amount"`
	Currency string        `json:"currency"`
	OrderRef uint          `json:"order_id"`
}

// Gateway is the external payment provider boundary.
type Gateway interface {
	// CreateIntent registers a pending charge with the provider.
	CreateIntent(ctx context.Context, amount pricing.Cents, orderRef uint) (*Intent, error)
	// VerifySignature checks the provider's completion callback integrity.
	VerifySignature(intentID, paymentID, signature string) error
}
