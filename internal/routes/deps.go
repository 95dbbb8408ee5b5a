package routes

import (
	"github.com/lenshaus/atelier/internal/handler/storefront"
)

// StorefrontDeps contains dependencies for storefront routes
type StorefrontDeps struct {
	// Cart
	CartHandler *storefront.CartHandler

	// Checkout
	CheckoutHandler *storefront.CheckoutHandler

	// Gateway return redirects
	PaymentReturnHandler *storefront.PaymentReturnHandler

	// Order confirmation
	OrderHandler *storefront.OrderHandler
}
