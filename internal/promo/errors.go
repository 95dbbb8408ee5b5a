package promo

import "errors"

var (
	// ErrUnknownCode is returned when a promo code does not exist.
	ErrUnknownCode = errors.New("promo: unknown code")

	// ErrExpiredCode is returned when a promo code exists but has expired.
	ErrExpiredCode = errors.New("promo: code expired")
)
