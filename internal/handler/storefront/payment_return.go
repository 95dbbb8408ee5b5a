package storefront

import (
	"net/http"

	"github.com/lenshaus/atelier/internal/domain"
	"github.com/lenshaus/atelier/internal/handler"
	"github.com/lenshaus/atelier/internal/payment"
	"github.com/lenshaus/atelier/internal/telemetry"
)

// PaymentReturnHandler receives the customer after the gateway redirect and
// reconciles the checkout into an order.
type PaymentReturnHandler struct {
	reconcileService domain.ReconcileService
	metrics          *telemetry.BusinessMetrics
}

// NewPaymentReturnHandler creates a new payment return handler
func NewPaymentReturnHandler(reconcileService domain.ReconcileService, metrics *telemetry.BusinessMetrics) *PaymentReturnHandler {
	return &PaymentReturnHandler{
		reconcileService: reconcileService,
		metrics:          metrics,
	}
}

// Return handles GET /payment/return
func (h *PaymentReturnHandler) Return(w http.ResponseWriter, r *http.Request) {
	h.reconcile(w, r, payment.ParseReturnParams(r.URL.Query()))
}

// Cancel handles GET /payment/cancel. The gateway sends cancellations to a
// separate URL; the cancel flag is forced so a tampered query string cannot
// turn a cancellation into anything else.
func (h *PaymentReturnHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	params := payment.ParseReturnParams(r.URL.Query())
	params.Cancel = true
	h.reconcile(w, r, params)
}

func (h *PaymentReturnHandler) reconcile(w http.ResponseWriter, r *http.Request, params domain.ReturnParams) {
	result, err := h.reconcileService.HandleReturn(r.Context(), params)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	h.metrics.PaymentOutcomes.WithLabelValues(string(result.Verdict)).Inc()

	switch result.Verdict {
	case domain.VerdictPaid:
		h.metrics.OrdersCreated.WithLabelValues(string(domain.PaymentMethodGateway)).Inc()
		h.metrics.OrderValue.Observe(float64(result.Order.Total))

		handler.JSON(w, http.StatusOK, map[string]interface{}{
			"verdict": result.Verdict,
			"order":   toOrderView(result.Order),
		})
	case domain.VerdictPending:
		// Not settled yet; the storefront should poll the same URL
		handler.JSON(w, http.StatusAccepted, map[string]interface{}{
			"verdict": result.Verdict,
		})
	default:
		handler.JSON(w, http.StatusOK, map[string]interface{}{
			"verdict":   result.Verdict,
			"retryable": result.Retryable,
		})
	}
}
