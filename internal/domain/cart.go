package domain

import (
	"context"

	"github.com/google/uuid"
)

// All monetary amounts in this package are Vietnamese dong held as integer
// minor units. Summation stays in integers end to end; only the presentation
// layer does locale formatting.

// =============================================================================
// CART DOMAIN ERRORS
// =============================================================================

var (
	ErrCartNotFound     = &Error{Code: ENOTFOUND, Message: "Cart not found"}
	ErrCartItemNotFound = &Error{Code: ENOTFOUND, Message: "Cart item not found"}
	ErrCartEmpty        = &Error{Code: EINVALID, Message: "Cart is empty"}
	ErrNegativeAmount   = &Error{Code: EINVALID, Message: "Price amounts must not be negative"}
	ErrMissingRx        = &Error{Code: EINVALID, Message: "Prescription is required for custom lenses"}
)

// CartService provides business logic for shopping cart operations.
type CartService interface {
	// GetOrCreateCart retrieves an existing cart or creates a new one.
	// Returns the cart, session token (new or existing), and any error.
	GetOrCreateCart(ctx context.Context, sessionToken string) (*Cart, string, error)

	// AddOrUpdateItem upserts a line item by item identity and recomputes totals.
	AddOrUpdateItem(ctx context.Context, cartID uuid.UUID, item CartItem) (*CartSummary, error)

	// SetQuantity updates the quantity of a cart item.
	// A quantity of zero or less removes the item.
	SetQuantity(ctx context.Context, cartID uuid.UUID, itemID uuid.UUID, quantity int32) (*CartSummary, error)

	// RemoveItem removes a line item. A missing item is reported as
	// ENOTFOUND but leaves the cart intact.
	RemoveItem(ctx context.Context, cartID uuid.UUID, itemID uuid.UUID) (*CartSummary, error)

	// GetCartSummary retrieves a cart with all items and calculated totals.
	GetCartSummary(ctx context.Context, cartID uuid.UUID) (*CartSummary, error)

	// ClearCart removes all items from a cart.
	ClearCart(ctx context.Context, cartID uuid.UUID) error
}

// Cart represents a lightweight cart view model.
type Cart struct {
	ID           uuid.UUID
	SessionToken string
}

// EyeValues holds the optical correction values for a single eye.
type EyeValues struct {
	Sphere        float64  `json:"sphere"`
	Cylinder      *float64 `json:"cylinder,omitempty"`
	Axis          *int     `json:"axis,omitempty"`
	PupilDistance *float64 `json:"pupil_distance,omitempty"`
	AddPower      *float64 `json:"add_power,omitempty"`
}

// Prescription is the optical correction required to manufacture a custom
// lens. It is snapshotted onto the cart item and never mutated afterwards.
type Prescription struct {
	Left  EyeValues `json:"left"`
	Right EyeValues `json:"right"`
	Notes string    `json:"notes,omitempty"`
}

// hasValues reports whether any correction value was entered for this eye.
// A plano eye still records its pupil distance, so all-zero means empty.
func (e EyeValues) hasValues() bool {
	return e.Sphere != 0 || e.Cylinder != nil || e.Axis != nil ||
		e.PupilDistance != nil || e.AddPower != nil
}

// IsZero reports whether no correction values were entered for either eye.
func (p Prescription) IsZero() bool {
	return !p.Left.hasValues() && !p.Right.hasValues()
}

// LensAddon is a priced coating or tint applied to a lens.
type LensAddon struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// LensSelection describes the custom lens attached to a frame line item.
type LensSelection struct {
	LensVariantID string       `json:"lens_variant_id"`
	BasePrice     int64        `json:"base_price"`
	Coatings      []LensAddon  `json:"coatings,omitempty"`
	Tint          *LensAddon   `json:"tint,omitempty"`
	Prescription  Prescription `json:"prescription"`
}

// TotalLensPrice is the lens base price plus every coating and the tint.
func (l *LensSelection) TotalLensPrice() int64 {
	total := l.BasePrice
	for _, c := range l.Coatings {
		total += c.Price
	}
	if l.Tint != nil {
		total += l.Tint.Price
	}
	return total
}

// CartItem represents a cart line item: a frame, optionally with a custom
// lens selection.
type CartItem struct {
	ID            uuid.UUID
	ProductID     string
	ProductName   string
	Quantity      int32
	FramePrice    int64
	FrameDiscount int64
	LensDetail    *LensSelection
}

// TotalPrice is (framePrice - frameDiscount) * quantity plus the lens total.
// Never negative: the per-unit discount is clamped to the frame price.
func (i *CartItem) TotalPrice() int64 {
	unit := i.FramePrice - i.FrameDiscount
	if unit < 0 {
		unit = 0
	}
	total := unit * int64(i.Quantity)
	if i.LensDetail != nil {
		total += i.LensDetail.TotalLensPrice()
	}
	return total
}

// HasLens reports whether this item carries a custom lens selection.
func (i *CartItem) HasLens() bool {
	return i.LensDetail != nil
}

// Validate checks the item-level invariants before it enters a cart.
func (i *CartItem) Validate() error {
	if i.FramePrice < 0 || i.FrameDiscount < 0 {
		return ErrNegativeAmount
	}
	if i.LensDetail != nil {
		if i.LensDetail.Prescription.IsZero() {
			return ErrMissingRx
		}
		if i.LensDetail.BasePrice < 0 {
			return ErrNegativeAmount
		}
		for _, c := range i.LensDetail.Coatings {
			if c.Price < 0 {
				return ErrNegativeAmount
			}
		}
		if i.LensDetail.Tint != nil && i.LensDetail.Tint.Price < 0 {
			return ErrNegativeAmount
		}
	}
	return nil
}

// CartSummary aggregates cart information with items and calculated totals.
// It is derived state: recomputed on every cart mutation, never stored.
type CartSummary struct {
	Cart            Cart
	Items           []CartItem
	TotalFramePrice int64
	TotalLensPrice  int64
	TotalDiscount   int64
	GrandTotal      int64
	HasLensItems    bool
}

// ItemCount is the total unit count across all line items.
func (s *CartSummary) ItemCount() int {
	var n int
	for i := range s.Items {
		n += int(s.Items[i].Quantity)
	}
	return n
}

// ComputeSummary aggregates a set of cart items into a CartSummary.
// Pure and deterministic: the same items always produce the same summary,
// and GrandTotal always equals the sum of item totals.
func ComputeSummary(cart Cart, items []CartItem) *CartSummary {
	summary := &CartSummary{
		Cart:  cart,
		Items: items,
	}

	for i := range items {
		item := &items[i]
		qty := int64(item.Quantity)

		summary.TotalFramePrice += item.FramePrice * qty

		// Keep the reported discount consistent with TotalPrice, which
		// clamps the per-unit discount at the frame price.
		discount := item.FrameDiscount
		if discount > item.FramePrice {
			discount = item.FramePrice
		}
		summary.TotalDiscount += discount * qty

		if item.LensDetail != nil {
			summary.TotalLensPrice += item.LensDetail.TotalLensPrice()
			summary.HasLensItems = true
		}
	}

	summary.GrandTotal = summary.TotalFramePrice + summary.TotalLensPrice - summary.TotalDiscount
	return summary
}
