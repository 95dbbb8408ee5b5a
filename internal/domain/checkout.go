package domain

import (
	"context"

	"github.com/google/uuid"
)

// PaymentMethod identifies how the customer pays for an order.
type PaymentMethod string

const (
	// PaymentMethodCash is cash on delivery. Not allowed when the cart
	// contains custom lens items; those orders must be prepaid.
	PaymentMethodCash PaymentMethod = "COD"

	// PaymentMethodGateway is prepayment through the hosted payment page.
	PaymentMethodGateway PaymentMethod = "GATEWAY"
)

// CheckoutStatus tracks a checkout session through its lifetime.
type CheckoutStatus string

const (
	CheckoutStatusOpen      CheckoutStatus = "OPEN"
	CheckoutStatusSubmitted CheckoutStatus = "SUBMITTED"
	CheckoutStatusCompleted CheckoutStatus = "COMPLETED"
	CheckoutStatusAbandoned CheckoutStatus = "ABANDONED"
)

// CustomerInfo is the customer and shipping data collected during checkout.
// Validation rules follow the storefront form: one error per invalid field.
type CustomerInfo struct {
	FullName      string `json:"full_name" validate:"required,min=2,max=120"`
	Phone         string `json:"phone" validate:"required,numeric,min=10,max=11"`
	Email         string `json:"email" validate:"required,email"`
	Province      string `json:"province" validate:"required"`
	District      string `json:"district" validate:"required"`
	Ward          string `json:"ward" validate:"required"`
	StreetAddress string `json:"street_address" validate:"required,min=5"`
	Note          string `json:"note" validate:"max=500"`
}

// Discount is the result of a successful promo code lookup.
type Discount struct {
	Code   string `json:"code"`
	Amount int64  `json:"amount"`
}

// CheckoutSession is the state of one checkout attempt. It exists from
// beginCheckout until an order is created or the attempt is abandoned.
type CheckoutSession struct {
	ID            uuid.UUID
	CartID        uuid.UUID
	CustomerInfo  CustomerInfo
	ShippingCost  int64
	PaymentMethod PaymentMethod
	PromoCode     string
	Discount      int64
	Status        CheckoutStatus
}

// PayableTotal is the amount the customer actually pays: the cart grand
// total plus shipping minus the promo discount, clamped at zero.
func (s *CheckoutSession) PayableTotal(grandTotal int64) int64 {
	total := grandTotal + s.ShippingCost - s.Discount
	if total < 0 {
		total = 0
	}
	return total
}

// SubmitOutcome tells the caller what the submitted checkout resolved to.
type SubmitOutcome struct {
	// Kind is either OutcomeOrderCreated (cash path, order exists now) or
	// OutcomeAwaitingPayment (gateway path, redirect the customer).
	Kind OutcomeKind

	// Order is set when Kind == OutcomeOrderCreated.
	Order *Order

	// Attempt is set when Kind == OutcomeAwaitingPayment.
	Attempt *PaymentAttempt
}

// OutcomeKind enumerates the two submit paths.
type OutcomeKind string

const (
	OutcomeOrderCreated    OutcomeKind = "ORDER_CREATED"
	OutcomeAwaitingPayment OutcomeKind = "AWAITING_PAYMENT"
)

// PaymentAttempt is one gateway payment attempt for a checkout submission.
// Attempts are keyed by their own ID so that multiple concurrently open
// checkout flows never cross-contaminate each other's state.
type PaymentAttempt struct {
	ID          uuid.UUID
	SessionID   uuid.UUID
	OrderCode   int64
	CheckoutURL string
	Status      AttemptStatus
}

// AttemptStatus tracks a payment attempt to a terminal state.
type AttemptStatus string

const (
	AttemptStatusCreated   AttemptStatus = "CREATED"
	AttemptStatusPaid      AttemptStatus = "PAID"
	AttemptStatusCancelled AttemptStatus = "CANCELLED"
	AttemptStatusFailed    AttemptStatus = "FAILED"
)

// CheckoutService drives a checkout session from an aggregated cart to a
// submitted outcome.
type CheckoutService interface {
	// BeginCheckout opens a checkout session for a cart.
	// Fails with ErrCartEmpty when the cart has no items.
	BeginCheckout(ctx context.Context, cartID uuid.UUID) (*CheckoutSession, error)

	// GetSession loads an open checkout session with the payment-method
	// constraint re-applied against the current cart contents.
	GetSession(ctx context.Context, sessionID uuid.UUID) (*CheckoutSession, error)

	// Validate checks customer info and returns a ValidationError carrying
	// one message per invalid field, or nil when everything passes.
	Validate(info CustomerInfo) error

	// SetCustomerInfo validates and stores customer data on the session.
	SetCustomerInfo(ctx context.Context, sessionID uuid.UUID, info CustomerInfo) (*CheckoutSession, error)

	// SelectPaymentMethod picks the payment method, enforcing the lens
	// prepayment constraint.
	SelectPaymentMethod(ctx context.Context, sessionID uuid.UUID, method PaymentMethod) (*CheckoutSession, error)

	// ApplyPromoCode looks up a promo code and applies its flat discount.
	// The discounted total never drops below zero.
	ApplyPromoCode(ctx context.Context, sessionID uuid.UUID, code string) (*Discount, error)

	// Submit finalizes the session: the cash path creates the order
	// directly, the gateway path creates a hosted payment link.
	// Submission with unresolved validation errors fails with a
	// ValidationError and performs no side effect.
	Submit(ctx context.Context, sessionID uuid.UUID) (*SubmitOutcome, error)
}
