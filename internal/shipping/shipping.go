package shipping

import "context"

// Calculator quotes the shipping cost for one order.
type Calculator interface {
	// Quote returns the shipping cost in dong for the given order shape.
	Quote(ctx context.Context, params QuoteParams) (int64, error)
}

// QuoteParams describes the order being shipped.
type QuoteParams struct {
	// Subtotal is the merchandise total before shipping and discounts.
	Subtotal int64

	// HasLensItems is true when the order contains custom-made lenses.
	HasLensItems bool

	// Province is the destination province, for future zone-based rates.
	Province string
}
