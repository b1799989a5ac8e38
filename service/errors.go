package service

import "errors"

// Sentinel errors for the order lifecycle. Handlers dispatch on these with
// errors.Is and translate them into the {message, kind} wire envelope.
var (
	ErrValidation         = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("access denied")
	ErrInvalidCart        = errors.New("invalid cart")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrTransitionConflict = errors.New("order was modified concurrently")
	ErrPaymentRejected    = errors.New("payment verification rejected")
)
