package routes

import (
	"github.com/lenshaus/atelier/internal/router"
)

// RegisterStorefrontRoutes registers all customer-facing storefront routes.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	// Shopping cart
	r.Get("/cart", deps.CartHandler.View)
	r.Post("/cart/items", deps.CartHandler.Add)
	r.Post("/cart/items/{id}/quantity", deps.CartHandler.SetQuantity)
	r.Post("/cart/items/{id}/remove", deps.CartHandler.Remove)

	// Checkout flow
	r.Post("/checkout/begin", deps.CheckoutHandler.Begin)
	r.Get("/checkout/{id}", deps.CheckoutHandler.GetSession)
	r.Post("/checkout/validate", deps.CheckoutHandler.Validate)
	r.Post("/checkout/customer-info", deps.CheckoutHandler.SetCustomerInfo)
	r.Post("/checkout/payment-method", deps.CheckoutHandler.SelectPaymentMethod)
	r.Post("/checkout/promo", deps.CheckoutHandler.ApplyPromo)
	r.Post("/checkout/submit", deps.CheckoutHandler.Submit)

	// Gateway return redirects. These are GETs because the gateway sends
	// the customer's browser here
	r.Get("/payment/return", deps.PaymentReturnHandler.Return)
	r.Get("/payment/cancel", deps.PaymentReturnHandler.Cancel)

	// Order confirmation
	r.Get("/orders/{orderCode}", deps.OrderHandler.Get)
}
