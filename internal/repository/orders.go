package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

type CreateOrderParams struct {
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
}

const createOrder = `
INSERT INTO orders (order_code, status, payment_method, payment_status, customer_info, subtotal, lens_total, shipping_cost, discount, total, promo_code)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING id, order_code, status, payment_method, payment_status, customer_info, subtotal, lens_total, shipping_cost, discount, total, promo_code, created_at
`

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder,
		arg.OrderCode,
		arg.Status,
		arg.PaymentMethod,
		arg.PaymentStatus,
		arg.CustomerInfo,
		arg.Subtotal,
		arg.LensTotal,
		arg.ShippingCost,
		arg.Discount,
		arg.Total,
		arg.PromoCode,
	)
	return scanOrder(row)
}

const getOrderByCode = `
SELECT id, order_code, status, payment_method, payment_status, customer_info, subtotal, lens_total, shipping_cost, discount, total, promo_code, created_at
FROM orders
WHERE order_code = $1
`

func (q *Queries) GetOrderByCode(ctx context.Context, orderCode int64) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrderByCode, orderCode))
}

func scanOrder(r row) (Order, error) {
	var i Order
	err := r.Scan(
		&i.ID,
		&i.OrderCode,
		&i.Status,
		&i.PaymentMethod,
		&i.PaymentStatus,
		&i.CustomerInfo,
		&i.Subtotal,
		&i.LensTotal,
		&i.ShippingCost,
		&i.Discount,
		&i.Total,
		&i.PromoCode,
		&i.CreatedAt,
	)
	return i, err
}

type CreateOrderItemParams struct {
	OrderID     pgtype.UUID
	ProductID   string
	ProductName string
	Quantity    int32
	UnitPrice   int64
	LensPrice   int64
	LineTotal   int64
	LensDetail  []byte
}

const createOrderItem = `
INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, lens_price, line_total, lens_detail)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, order_id, product_id, product_name, quantity, unit_price, lens_price, line_total, lens_detail
`

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error) {
	row := q.db.QueryRow(ctx, createOrderItem,
		arg.OrderID,
		arg.ProductID,
		arg.ProductName,
		arg.Quantity,
		arg.UnitPrice,
		arg.LensPrice,
		arg.LineTotal,
		arg.LensDetail,
	)
	var i OrderItem
	err := row.Scan(
		&i.ID,
		&i.OrderID,
		&i.ProductID,
		&i.ProductName,
		&i.Quantity,
		&i.UnitPrice,
		&i.LensPrice,
		&i.LineTotal,
		&i.LensDetail,
	)
	return i, err
}

const listOrderItems = `
SELECT id, order_id, product_id, product_name, quantity, unit_price, lens_price, line_total, lens_detail
FROM order_items
WHERE order_id = $1
ORDER BY product_name
`

func (q *Queries) ListOrderItems(ctx context.Context, orderID pgtype.UUID) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, listOrderItems, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OrderItem
	for rows.Next() {
		var i OrderItem
		if err := rows.Scan(
			&i.ID,
			&i.OrderID,
			&i.ProductID,
			&i.ProductName,
			&i.Quantity,
			&i.UnitPrice,
			&i.LensPrice,
			&i.LineTotal,
			&i.LensDetail,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
