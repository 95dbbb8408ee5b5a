package repository

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Cart struct {
	ID           pgtype.UUID
	SessionToken string
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
}

type CartItem struct {
	ID            pgtype.UUID
	CartID        pgtype.UUID
	ProductID     string
	ProductName   string
	Quantity      int32
	FramePrice    int64
	FrameDiscount int64
	LensDetail    []byte
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}

type CheckoutSession struct {
	ID            pgtype.UUID
	CartID        pgtype.UUID
	CustomerInfo  []byte
	ShippingCost  int64
	PaymentMethod pgtype.Text
	PromoCode     pgtype.Text
	Discount      int64
	Status        string
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}

type PaymentAttempt struct {
	ID          pgtype.UUID
	SessionID   pgtype.UUID
	OrderCode   int64
	CheckoutUrl string
	Status      string
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

type CheckoutContext struct {
	OrderCode int64
	Payload   []byte
	CreatedAt pgtype.Timestamptz
}

type Order struct {
	ID            pgtype.UUID
	OrderCode     int64
	Status        string
	PaymentMethod string
	PaymentStatus string
	CustomerInfo  []byte
	Subtotal      int64
	LensTotal     int64
	ShippingCost  int64
	Discount      int64
	Total         int64
	PromoCode     pgtype.Text
	CreatedAt     pgtype.Timestamptz
}

type OrderItem struct {
	ID          pgtype.UUID
	OrderID     pgtype.UUID
	ProductID   string
	ProductName string
	Quantity    int32
	UnitPrice   int64
	LensPrice   int64
	LineTotal   int64
	LensDetail  []byte
}
