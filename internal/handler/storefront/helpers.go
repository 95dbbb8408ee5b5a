package storefront

import (
	"strconv"

	"github.com/lenshaus/atelier/internal/domain"
)

// JSON views of the domain types. Handlers never hand domain structs to the
// encoder directly so the wire format can evolve independently of the
// service layer.

type cartItemView struct {
	ID            string                `json:"id"`
	ProductID     string                `json:"product_id"`
	ProductName   string                `json:"product_name"`
	Quantity      int32                 `json:"quantity"`
	FramePrice    int64                 `json:"frame_price"`
	FrameDiscount int64                 `json:"frame_discount"`
	LensDetail    *domain.LensSelection `json:"lens_detail,omitempty"`
	LineTotal     int64                 `json:"line_total"`
}

type cartSummaryView struct {
	CartID          string         `json:"cart_id"`
	Items           []cartItemView `json:"items"`
	TotalFramePrice int64          `json:"total_frame_price"`
	TotalLensPrice  int64          `json:"total_lens_price"`
	TotalDiscount   int64          `json:"total_discount"`
	GrandTotal      int64          `json:"grand_total"`
	HasLensItems    bool           `json:"has_lens_items"`
}

func toSummaryView(s *domain.CartSummary) cartSummaryView {
	items := make([]cartItemView, 0, len(s.Items))
	for i := range s.Items {
		item := &s.Items[i]
		items = append(items, cartItemView{
			ID:            item.ID.String(),
			ProductID:     item.ProductID,
			ProductName:   item.ProductName,
			Quantity:      item.Quantity,
			FramePrice:    item.FramePrice,
			FrameDiscount: item.FrameDiscount,
			LensDetail:    item.LensDetail,
			LineTotal:     item.TotalPrice(),
		})
	}
	return cartSummaryView{
		CartID:          s.Cart.ID.String(),
		Items:           items,
		TotalFramePrice: s.TotalFramePrice,
		TotalLensPrice:  s.TotalLensPrice,
		TotalDiscount:   s.TotalDiscount,
		GrandTotal:      s.GrandTotal,
		HasLensItems:    s.HasLensItems,
	}
}

type sessionView struct {
	ID            string              `json:"id"`
	CartID        string              `json:"cart_id"`
	CustomerInfo  domain.CustomerInfo `json:"customer_info"`
	ShippingCost  int64               `json:"shipping_cost"`
	PaymentMethod string              `json:"payment_method,omitempty"`
	PromoCode     string              `json:"promo_code,omitempty"`
	Discount      int64               `json:"discount"`
	Status        string              `json:"status"`
}

func toSessionView(s *domain.CheckoutSession) sessionView {
	return sessionView{
		ID:            s.ID.String(),
		CartID:        s.CartID.String(),
		CustomerInfo:  s.CustomerInfo,
		ShippingCost:  s.ShippingCost,
		PaymentMethod: string(s.PaymentMethod),
		PromoCode:     s.PromoCode,
		Discount:      s.Discount,
		Status:        string(s.Status),
	}
}

type orderItemView struct {
	ProductID   string                `json:"product_id"`
	ProductName string                `json:"product_name"`
	Quantity    int32                 `json:"quantity"`
	UnitPrice   int64                 `json:"unit_price"`
	LensPrice   int64                 `json:"lens_price"`
	LineTotal   int64                 `json:"line_total"`
	LensDetail  *domain.LensSelection `json:"lens_detail,omitempty"`
}

type orderView struct {
	OrderCode     string              `json:"order_code"`
	Status        string              `json:"status"`
	PaymentMethod string              `json:"payment_method"`
	PaymentStatus string              `json:"payment_status"`
	CustomerInfo  domain.CustomerInfo `json:"customer_info"`
	Subtotal      int64               `json:"subtotal"`
	LensTotal     int64               `json:"lens_total"`
	ShippingCost  int64               `json:"shipping_cost"`
	Discount      int64               `json:"discount"`
	Total         int64               `json:"total"`
	PromoCode     string              `json:"promo_code,omitempty"`
	Items         []orderItemView     `json:"items"`
	CreatedAt     string              `json:"created_at"`
}

func toOrderView(o *domain.Order) orderView {
	items := make([]orderItemView, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items = append(items, orderItemView{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LensPrice:   item.LensPrice,
			LineTotal:   item.LineTotal,
			LensDetail:  item.LensDetail,
		})
	}
	return orderView{
		// Order codes are int64; strings keep them intact in JavaScript
		OrderCode:     strconv.FormatInt(o.OrderCode, 10),
		Status:        string(o.Status),
		PaymentMethod: string(o.PaymentMethod),
		PaymentStatus: string(o.PaymentStatus),
		CustomerInfo:  o.CustomerInfo,
		Subtotal:      o.Subtotal,
		LensTotal:     o.LensTotal,
		ShippingCost:  o.ShippingCost,
		Discount:      o.Discount,
		Total:         o.Total,
		PromoCode:     o.PromoCode,
		Items:         items,
		CreatedAt:     o.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
