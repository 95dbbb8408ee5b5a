package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ORDER DOMAIN ERRORS
// =============================================================================

var (
	ErrOrderNotFound       = &Error{Code: ENOTFOUND, Message: "Order not found"}
	ErrOrderAlreadyCreated = &Error{Code: ECONFLICT, Message: "An order already exists for this payment"}
)

// OrderStatus is the fulfilment status of a created order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// PaymentStatus is the payment state recorded on the order itself.
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "UNPAID"
	PaymentStatusPaid   PaymentStatus = "PAID"
)

// Order is a confirmed purchase. Item prices are snapshots taken at
// creation time; later catalog changes never alter an existing order.
type Order struct {
	ID            uuid.UUID
	OrderCode     int64
	Status        OrderStatus
	PaymentMethod PaymentMethod
	PaymentStatus PaymentStatus
	CustomerInfo  CustomerInfo
	Subtotal      int64
	LensTotal     int64
	ShippingCost  int64
	Discount      int64
	Total         int64
	PromoCode     string
	Items         []OrderItem
	CreatedAt     time.Time
}

// OrderItem is a priced line snapshot copied from the cart at order time.
type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   string
	ProductName string
	Quantity    int32
	UnitPrice   int64
	LensPrice   int64
	LineTotal   int64
	LensDetail  *LensSelection
}

// CheckoutContext is the durable snapshot written before redirecting to the
// payment gateway. It carries everything needed to build the order after
// the customer returns, keyed by the attempt's unique order code.
type CheckoutContext struct {
	OrderCode    int64
	SessionID    uuid.UUID
	CartID       uuid.UUID
	CustomerInfo CustomerInfo
	Summary      CartSummary
	ShippingCost int64
	Discount     int64
	PromoCode    string
	CreatedAt    time.Time
}

// OrderService creates and looks up orders.
type OrderService interface {
	// CreateFromContext builds an order from a stored checkout context.
	// Creation is idempotent on order code: a second call for the same
	// code returns the existing order with ErrOrderAlreadyCreated.
	CreateFromContext(ctx context.Context, cc *CheckoutContext, paymentStatus PaymentStatus, method PaymentMethod) (*Order, error)

	// GetByOrderCode loads an order for the confirmation page.
	GetByOrderCode(ctx context.Context, orderCode int64) (*Order, error)
}
