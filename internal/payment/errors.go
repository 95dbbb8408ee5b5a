package payment

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredentials is returned when gateway credentials are not configured.
	ErrMissingCredentials = errors.New("payment: missing gateway credentials")

	// ErrLinkNotFound is returned when no payment link exists for an order code.
	ErrLinkNotFound = errors.New("payment: payment link not found")

	// ErrDuplicateOrderCode is returned when the gateway already has a link
	// for the requested order code.
	ErrDuplicateOrderCode = errors.New("payment: order code already used")

	// ErrNoCheckoutURL is returned when the gateway response carries neither
	// a checkout URL nor a payment link ID to build one from.
	ErrNoCheckoutURL = errors.New("payment: gateway response contains no checkout URL")
)

// GatewayError wraps a non-success response from the payment gateway.
type GatewayError struct {
	Code          string // Gateway response code ("00" is success)
	Desc          string // Gateway-provided description
	HTTPStatus    int
	OriginalError error
}

func (e *GatewayError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("payos: %s (code: %s)", e.Desc, e.Code)
	}
	return fmt.Sprintf("payos: %s", e.Desc)
}

func (e *GatewayError) Unwrap() error {
	return e.OriginalError
}

// IsTemporary returns true if the error is likely transient and retryable.
func (e *GatewayError) IsTemporary() bool {
	return e.HTTPStatus == 429 || e.HTTPStatus >= 500
}
