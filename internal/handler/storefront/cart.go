package storefront

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/lenshaus/atelier/internal/cookie"
	"github.com/lenshaus/atelier/internal/domain"
	"github.com/lenshaus/atelier/internal/handler"
	"github.com/lenshaus/atelier/internal/telemetry"
)

// CartHandler handles all cart-related storefront routes
type CartHandler struct {
	cartService domain.CartService
	cookies     *cookie.Config
	metrics     *telemetry.BusinessMetrics
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService domain.CartService, cookies *cookie.Config, metrics *telemetry.BusinessMetrics) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		cookies:     cookies,
		metrics:     metrics,
	}
}

// View handles GET /cart
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := GetCartTokenFromCookie(r)
	if token == "" {
		// No cart yet; an empty summary avoids minting carts for crawlers
		handler.JSON(w, http.StatusOK, cartSummaryView{Items: []cartItemView{}})
		return
	}

	cart, newToken, err := h.cartService.GetOrCreateCart(ctx, token)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if newToken != token {
		SetCartCookie(w, newToken, h.cookies)
	}

	summary, err := h.cartService.GetCartSummary(ctx, cart.ID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, toSummaryView(summary))
}

type addItemRequest struct {
	ProductID     string                `json:"product_id"`
	ProductName   string                `json:"product_name"`
	Quantity      int32                 `json:"quantity"`
	FramePrice    int64                 `json:"frame_price"`
	FrameDiscount int64                 `json:"frame_discount"`
	LensDetail    *domain.LensSelection `json:"lens_detail,omitempty"`
}

// Add handles POST /cart/items
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handler.BadRequestResponse(w, r, "Invalid request body")
		return
	}
	if req.ProductID == "" {
		handler.BadRequestResponse(w, r, "product_id is required")
		return
	}

	token := GetCartTokenFromCookie(r)
	cart, newToken, err := h.cartService.GetOrCreateCart(ctx, token)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if newToken != token {
		SetCartCookie(w, newToken, h.cookies)
	}

	summary, err := h.cartService.AddOrUpdateItem(ctx, cart.ID, domain.CartItem{
		ProductID:     req.ProductID,
		ProductName:   req.ProductName,
		Quantity:      req.Quantity,
		FramePrice:    req.FramePrice,
		FrameDiscount: req.FrameDiscount,
		LensDetail:    req.LensDetail,
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	itemType := "frame"
	if req.LensDetail != nil {
		itemType = "lens"
	}
	h.metrics.CartItemsAdded.WithLabelValues(itemType).Inc()

	handler.JSON(w, http.StatusOK, toSummaryView(summary))
}

type setQuantityRequest struct {
	Quantity int32 `json:"quantity"`
}

// SetQuantity handles POST /cart/items/{id}/quantity
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cartID, ok := h.requireCart(w, r)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handler.BadRequestResponse(w, r, "Invalid item id")
		return
	}

	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handler.BadRequestResponse(w, r, "Invalid request body")
		return
	}

	summary, err := h.cartService.SetQuantity(ctx, cartID, itemID, req.Quantity)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, toSummaryView(summary))
}

// Remove handles POST /cart/items/{id}/remove
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cartID, ok := h.requireCart(w, r)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handler.BadRequestResponse(w, r, "Invalid item id")
		return
	}

	summary, err := h.cartService.RemoveItem(ctx, cartID, itemID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, toSummaryView(summary))
}

// requireCart resolves the cart from the session cookie. A missing or stale
// cookie is a 404: mutations only make sense against an existing cart.
func (h *CartHandler) requireCart(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	token := GetCartTokenFromCookie(r)
	if token == "" {
		handler.ErrorResponse(w, r, domain.ErrCartNotFound)
		return uuid.Nil, false
	}

	cart, newToken, err := h.cartService.GetOrCreateCart(r.Context(), token)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return uuid.Nil, false
	}
	if newToken != token {
		// The token no longer matched a cart, so a fresh empty one was
		// created; the item being mutated cannot exist in it
		SetCartCookie(w, newToken, h.cookies)
		handler.ErrorResponse(w, r, domain.ErrCartItemNotFound)
		return uuid.Nil, false
	}

	return cart.ID, true
}
