package service

import (
	"github.com/lenshaus/atelier/internal/domain"
)

// Cart errors - use domain.ENOTFOUND / domain.EINVALID
var (
	ErrCartNotFound     = domain.Errorf(domain.ENOTFOUND, "", "Cart not found")
	ErrCartItemNotFound = domain.Errorf(domain.ENOTFOUND, "", "Cart item not found")
	ErrInvalidQuantity  = domain.Errorf(domain.EINVALID, "", "Quantity must be greater than 0")
	ErrEmptyCart        = domain.Errorf(domain.EINVALID, "", "Cart is empty")
)

// Checkout errors
var (
	ErrSessionNotFound      = domain.Errorf(domain.ENOTFOUND, "", "Checkout session not found")
	ErrSessionClosed        = domain.Errorf(domain.EINVALID, "", "Checkout session is no longer open")
	ErrCustomerInfoMissing  = domain.Errorf(domain.EINVALID, "", "Customer information has not been provided")
	ErrPaymentMethodMissing = domain.Errorf(domain.EINVALID, "", "Payment method has not been selected")
	ErrCashNotAllowed       = domain.Errorf(domain.EINVALID, "", "Cash on delivery is not available for custom lens orders")
	ErrInvalidPromoCode     = domain.Errorf(domain.EINVALID, "", "Promo code is not valid")
	ErrPaymentLinkInFlight  = domain.Errorf(domain.ECONFLICT, "", "A payment link is already being created for this checkout")
)

// Order and reconciliation errors
var (
	ErrOrderNotFound           = domain.Errorf(domain.ENOTFOUND, "", "Order not found")
	ErrPaymentNotConfirmed     = domain.Errorf(domain.EPAYMENT, "", "Payment has not been confirmed")
	ErrPaymentAlreadyProcessed = domain.Errorf(domain.ECONFLICT, "", "Payment already processed")
	ErrUnknownOrderCode        = domain.Errorf(domain.ENOTFOUND, "", "No payment attempt found for this order code")
	ErrContextMissing          = domain.Errorf(domain.EINTERNAL, "", "Checkout context missing for paid order")
)
