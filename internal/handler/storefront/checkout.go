package storefront

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/lenshaus/atelier/internal/domain"
	"github.com/lenshaus/atelier/internal/handler"
	"github.com/lenshaus/atelier/internal/telemetry"
)

// gatewayRedirectDelaySeconds tells the storefront how long to show the
// "redirecting to payment" notice before navigating to the checkout URL.
const gatewayRedirectDelaySeconds = 3

// CheckoutHandler drives the checkout flow from cart to submission.
type CheckoutHandler struct {
	checkoutService domain.CheckoutService
	cartService     domain.CartService
	metrics         *telemetry.BusinessMetrics
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService domain.CheckoutService, cartService domain.CartService, metrics *telemetry.BusinessMetrics) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		cartService:     cartService,
		metrics:         metrics,
	}
}

// Begin handles POST /checkout/begin
func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := GetCartTokenFromCookie(r)
	if token == "" {
		handler.ErrorResponse(w, r, domain.ErrCartNotFound)
		return
	}
	cart, newToken, err := h.cartService.GetOrCreateCart(ctx, token)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if newToken != token {
		handler.ErrorResponse(w, r, domain.ErrCartEmpty)
		return
	}

	session, err := h.checkoutService.BeginCheckout(ctx, cart.ID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if summary, err := h.cartService.GetCartSummary(ctx, cart.ID); err == nil {
		h.metrics.CartValue.Observe(float64(summary.GrandTotal))
	}
	h.metrics.CheckoutStarted.Inc()

	handler.JSON(w, http.StatusOK, toSessionView(session))
}

// GetSession handles GET /checkout/{id}
func (h *CheckoutHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := parseSessionID(w, r, r.PathValue("id"))
	if !ok {
		return
	}

	session, err := h.checkoutService.GetSession(r.Context(), sessionID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, toSessionView(session))
}

type customerInfoRequest struct {
	SessionID    string              `json:"session_id"`
	CustomerInfo domain.CustomerInfo `json:"customer_info"`
}

// Validate handles POST /checkout/validate. It checks customer info without
// persisting anything, so forms can validate as the customer types.
func (h *CheckoutHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req customerInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handler.BadRequestResponse(w, r, "Invalid request body")
		return
	}

	if err := h.checkoutService.Validate(req.CustomerInfo); err != nil {
		handler.ValidationErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, map[string]bool{"valid": true})
}

// SetCustomerInfo handles POST /checkout/customer-info
func (h *CheckoutHandler) SetCustomerInfo(w http.ResponseWriter, r *http.Request) {
	var req customerInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handler.BadRequestResponse(w, r, "Invalid request body")
		return
	}
	sessionID, ok := parseSessionID(w, r, req.SessionID)
	if !ok {
		return
	}

	session, err := h.checkoutService.SetCustomerInfo(r.Context(), sessionID, req.CustomerInfo)
	if err != nil {
		handler.ValidationErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, toSessionView(session))
}

type paymentMethodRequest struct {
	SessionID     string `json:"session_id"`
	PaymentMethod string `json:"payment_method"`
}

// SelectPaymentMethod handles POST /checkout/payment-method
func (h *CheckoutHandler) SelectPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req paymentMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handler.BadRequestResponse(w, r, "Invalid request body")
		return
	}
	sessionID, ok := parseSessionID(w, r, req.SessionID)
	if !ok {
		return
	}

	session, err := h.checkoutService.SelectPaymentMethod(r.Context(), sessionID, domain.PaymentMethod(req.PaymentMethod))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, toSessionView(session))
}

type promoRequest struct {
	SessionID string `json:"session_id"`
	Code      string `json:"code"`
}

// ApplyPromo handles POST /checkout/promo
func (h *CheckoutHandler) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	var req promoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handler.BadRequestResponse(w, r, "Invalid request body")
		return
	}
	sessionID, ok := parseSessionID(w, r, req.SessionID)
	if !ok {
		return
	}

	discount, err := h.checkoutService.ApplyPromoCode(r.Context(), sessionID, req.Code)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, map[string]interface{}{
		"code":   discount.Code,
		"amount": discount.Amount,
	})
}

type submitRequest struct {
	SessionID string `json:"session_id"`
}

// Submit handles POST /checkout/submit. Cash submissions answer with the
// created order; gateway submissions answer with the hosted payment link
// the customer must be redirected to.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handler.BadRequestResponse(w, r, "Invalid request body")
		return
	}
	sessionID, ok := parseSessionID(w, r, req.SessionID)
	if !ok {
		return
	}

	outcome, err := h.checkoutService.Submit(r.Context(), sessionID)
	if err != nil {
		handler.ValidationErrorResponse(w, r, err)
		return
	}

	switch outcome.Kind {
	case domain.OutcomeOrderCreated:
		h.metrics.CheckoutSubmitted.WithLabelValues(string(domain.PaymentMethodCash)).Inc()
		h.metrics.OrdersCreated.WithLabelValues(string(domain.PaymentMethodCash)).Inc()
		h.metrics.OrderValue.Observe(float64(outcome.Order.Total))

		handler.JSON(w, http.StatusCreated, map[string]interface{}{
			"outcome": outcome.Kind,
			"order":   toOrderView(outcome.Order),
		})
	case domain.OutcomeAwaitingPayment:
		h.metrics.CheckoutSubmitted.WithLabelValues(string(domain.PaymentMethodGateway)).Inc()
		h.metrics.PaymentLinksCreated.Inc()

		handler.JSON(w, http.StatusOK, map[string]interface{}{
			"outcome":                outcome.Kind,
			"order_code":             strconv.FormatInt(outcome.Attempt.OrderCode, 10),
			"checkout_url":           outcome.Attempt.CheckoutURL,
			"redirect_delay_seconds": gatewayRedirectDelaySeconds,
		})
	default:
		handler.InternalErrorResponse(w, r, domain.Errorf(domain.EINTERNAL, "checkout.submit", "unknown outcome %q", outcome.Kind))
	}
}

func parseSessionID(w http.ResponseWriter, r *http.Request, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		handler.BadRequestResponse(w, r, "Invalid session id")
		return uuid.Nil, false
	}
	return id, true
}
