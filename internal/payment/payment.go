package payment

import (
	"context"
	"time"
)

// Provider defines the interface for hosted payment link creation.
// The production implementation talks to the PayOS merchant API; tests use
// MockProvider.
type Provider interface {
	// CreatePaymentLink creates a hosted payment page for one order.
	// The returned CheckoutURL is where the customer is redirected to pay.
	CreatePaymentLink(ctx context.Context, params CreateLinkParams) (*PaymentLink, error)

	// GetPaymentLink retrieves the gateway's view of a payment link.
	// Used to re-poll links whose return redirect reported PENDING.
	GetPaymentLink(ctx context.Context, orderCode int64) (*PaymentLink, error)

	// CancelPaymentLink cancels a link that has not been paid yet.
	CancelPaymentLink(ctx context.Context, orderCode int64, reason string) error
}

// CreateLinkParams contains parameters for creating a payment link.
type CreateLinkParams struct {
	// OrderCode is the merchant-side numeric identifier. It must be
	// unique per attempt; the gateway rejects duplicates.
	OrderCode int64

	// Amount in dong.
	Amount int64

	// Description appears on the hosted payment page and bank statement.
	// The gateway truncates long values, keep it short.
	Description string

	// Items are display lines for the hosted page.
	Items []LinkItem

	// BuyerName and BuyerPhone prefill the payment page.
	BuyerName  string
	BuyerPhone string
}

// LinkItem is a display line on the hosted payment page.
type LinkItem struct {
	Name     string `json:"name"`
	Quantity int32  `json:"quantity"`
	Price    int64  `json:"price"`
}

// PaymentLink is the gateway-side state of a hosted payment page.
type PaymentLink struct {
	PaymentLinkID string
	OrderCode     int64
	CheckoutURL   string
	Amount        int64
	AmountPaid    int64
	Status        string
	CreatedAt     time.Time
}

// Paid reports whether the gateway considers this link settled.
func (l *PaymentLink) Paid() bool {
	return l.Status == "PAID"
}
