package domain

import "context"

// ReturnParams are the query parameters the payment gateway appends when it
// redirects the customer back to the storefront.
type ReturnParams struct {
	Code      string
	ID        string
	Status    string
	Cancel    bool
	OrderCode int64
}

// ReturnVerdict is the gateway's verdict decoded from return parameters.
type ReturnVerdict string

const (
	// VerdictPaid means code "00" and status "PAID".
	VerdictPaid ReturnVerdict = "PAID"
	// VerdictCancelled means the cancel flag was set.
	VerdictCancelled ReturnVerdict = "CANCELLED"
	// VerdictPending means the gateway has not settled the payment yet.
	VerdictPending ReturnVerdict = "PENDING"
	// VerdictFailed covers every other parameter combination.
	VerdictFailed ReturnVerdict = "FAILED"
)

// Classify maps raw return parameters onto a verdict. Cancellation wins
// over everything else, then a paid confirmation, then pending.
func (p ReturnParams) Classify() ReturnVerdict {
	switch {
	case p.Cancel:
		return VerdictCancelled
	case p.Code == "00" && p.Status == "PAID":
		return VerdictPaid
	case p.Status == "PENDING":
		return VerdictPending
	default:
		return VerdictFailed
	}
}

// ReconcileResult is the storefront-facing outcome of processing a return
// redirect.
type ReconcileResult struct {
	Verdict ReturnVerdict

	// Order is set when the verdict was PAID and order creation succeeded,
	// either during this call or a previous one for the same order code.
	Order *Order

	// Retryable is set on FAILED and CANCELLED verdicts: the cart and
	// checkout session survive, so the customer can submit again.
	Retryable bool
}

// ReconcileService turns gateway return redirects into order state.
type ReconcileService interface {
	// HandleReturn classifies the return parameters and, on a paid
	// verdict, creates the order exactly once per order code. A pending
	// verdict leaves the stored checkout context untouched so the same
	// order code can be re-polled.
	HandleReturn(ctx context.Context, params ReturnParams) (*ReconcileResult, error)
}
