package payment

import (
	"net/url"
	"strconv"

	"github.com/lenshaus/atelier/internal/domain"
)

// ParseReturnParams decodes the query string the gateway appends to the
// return and cancel redirects. Missing or malformed values never fail the
// parse: Classify treats them as a failed payment.
func ParseReturnParams(q url.Values) domain.ReturnParams {
	params := domain.ReturnParams{
		Code:   q.Get("code"),
		ID:     q.Get("id"),
		Status: q.Get("status"),
	}
	if cancel, err := strconv.ParseBool(q.Get("cancel")); err == nil {
		params.Cancel = cancel
	}
	if orderCode, err := strconv.ParseInt(q.Get("orderCode"), 10, 64); err == nil {
		params.OrderCode = orderCode
	}
	return params
}
