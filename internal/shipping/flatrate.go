package shipping

import "context"

// FlatRateCalculator charges one flat fee per order.
// Orders with custom lenses can ship free: lens jobs already carry lab
// margin and always ship from the lab, not the store.
type FlatRateCalculator struct {
	fee               int64
	freeForLensOrders bool
}

// NewFlatRateCalculator creates a new flat-rate shipping calculator.
func NewFlatRateCalculator(fee int64, freeForLensOrders bool) *FlatRateCalculator {
	return &FlatRateCalculator{
		fee:               fee,
		freeForLensOrders: freeForLensOrders,
	}
}

// Quote returns the flat fee, or zero for qualifying lens orders.
func (c *FlatRateCalculator) Quote(ctx context.Context, params QuoteParams) (int64, error) {
	if c.freeForLensOrders && params.HasLensItems {
		return 0, nil
	}
	return c.fee, nil
}

var _ Calculator = (*FlatRateCalculator)(nil)
