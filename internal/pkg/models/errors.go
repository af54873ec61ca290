package models

import (
	"errors"
	"fmt"
)

// Payment errors
var (
	ErrInvalidPhoneNumber    = errors.New("invalid phone number")
	ErrUnsupportedCurrency   = errors.New("unsupported currency")
	ErrInvalidAmount         = errors.New("amount must be greater than zero")
	ErrUnknownProvider       = errors.New("unknown payment provider")
	ErrAuthenticationFailed  = errors.New("provider authentication failed")
	ErrUpstreamUnavailable   = errors.New("payment provider unavailable")
	ErrUpstreamRejected      = errors.New("payment provider rejected the request")
	ErrInvalidSignature      = errors.New("invalid callback signature")
	ErrMissingCorrelationKey = errors.New("callback carries no correlation key")
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrInvalidDateRange      = errors.New("invalid date range")
)

// ErrAmbiguousReference is reported when a bare order reference matches open attempts of
// more than one order; the callback is left unmatched for the operator
var ErrAmbiguousReference = fmt.Errorf("%w: reference is ambiguous", ErrTransactionNotFound)

// Informational conditions, reported but never returned to a provider
var (
	ErrDuplicateCallback = errors.New("callback already applied")
	ErrInvalidTransition = errors.New("status transition not allowed from current status")
)
