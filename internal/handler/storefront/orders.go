package storefront

import (
	"net/http"
	"strconv"

	"github.com/lenshaus/atelier/internal/domain"
	"github.com/lenshaus/atelier/internal/handler"
)

// OrderHandler serves order confirmation lookups.
type OrderHandler struct {
	orderService domain.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService domain.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Get handles GET /orders/{orderCode}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderCode, err := strconv.ParseInt(r.PathValue("orderCode"), 10, 64)
	if err != nil || orderCode <= 0 {
		handler.BadRequestResponse(w, r, "Invalid order code")
		return
	}

	order, err := h.orderService.GetByOrderCode(r.Context(), orderCode)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, toOrderView(order))
}
