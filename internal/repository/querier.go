package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// Querier is the query surface services depend on. Tests swap in mocks,
// production wires *Queries backed by a pgx pool.
type Querier interface {
	// Carts
	CreateCart(ctx context.Context, sessionToken string) (Cart, error)
	GetCart(ctx context.Context, id pgtype.UUID) (Cart, error)
	GetCartBySessionToken(ctx context.Context, sessionToken string) (Cart, error)
	TouchCart(ctx context.Context, id pgtype.UUID) error
	InsertCartItem(ctx context.Context, arg InsertCartItemParams) (CartItem, error)
	UpdateCartItem(ctx context.Context, arg UpdateCartItemParams) (CartItem, error)
	UpdateCartItemQuantity(ctx context.Context, arg UpdateCartItemQuantityParams) (int64, error)
	ListCartItems(ctx context.Context, cartID pgtype.UUID) ([]CartItem, error)
	DeleteCartItem(ctx context.Context, arg DeleteCartItemParams) (int64, error)
	DeleteCartItems(ctx context.Context, cartID pgtype.UUID) error

	// Checkout sessions
	CreateCheckoutSession(ctx context.Context, arg CreateCheckoutSessionParams) (CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id pgtype.UUID) (CheckoutSession, error)
	GetOpenCheckoutSessionByCart(ctx context.Context, cartID pgtype.UUID) (CheckoutSession, error)
	UpdateCheckoutCustomerInfo(ctx context.Context, arg UpdateCheckoutCustomerInfoParams) (CheckoutSession, error)
	UpdateCheckoutPaymentMethod(ctx context.Context, arg UpdateCheckoutPaymentMethodParams) (CheckoutSession, error)
	UpdateCheckoutPromo(ctx context.Context, arg UpdateCheckoutPromoParams) (CheckoutSession, error)
	UpdateCheckoutShipping(ctx context.Context, arg UpdateCheckoutShippingParams) error
	UpdateCheckoutStatus(ctx context.Context, arg UpdateCheckoutStatusParams) error

	// Payment attempts
	CreatePaymentAttempt(ctx context.Context, arg CreatePaymentAttemptParams) (PaymentAttempt, error)
	GetPaymentAttemptByOrderCode(ctx context.Context, orderCode int64) (PaymentAttempt, error)
	GetLatestPaymentAttemptBySession(ctx context.Context, sessionID pgtype.UUID) (PaymentAttempt, error)
	UpdatePaymentAttemptStatus(ctx context.Context, arg UpdatePaymentAttemptStatusParams) error

	// Checkout contexts
	CreateCheckoutContext(ctx context.Context, arg CreateCheckoutContextParams) (CheckoutContext, error)
	GetCheckoutContext(ctx context.Context, orderCode int64) (CheckoutContext, error)
	DeleteCheckoutContext(ctx context.Context, orderCode int64) error

	// Orders
	CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error)
	GetOrderByCode(ctx context.Context, orderCode int64) (Order, error)
	CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error)
	ListOrderItems(ctx context.Context, orderID pgtype.UUID) ([]OrderItem, error)
}

var _ Querier = (*Queries)(nil)
