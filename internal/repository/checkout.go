package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createCheckoutSession = `
INSERT INTO checkout_sessions (cart_id, shipping_cost, status)
VALUES ($1, $2, $3)
RETURNING id, cart_id, customer_info, shipping_cost, payment_method, promo_code, discount, status, created_at, updated_at
`

type CreateCheckoutSessionParams struct {
	CartID       pgtype.UUID
	ShippingCost int64
	Status       string
}

func (q *Queries) CreateCheckoutSession(ctx context.Context, arg CreateCheckoutSessionParams) (CheckoutSession, error) {
	row := q.db.QueryRow(ctx, createCheckoutSession, arg.CartID, arg.ShippingCost, arg.Status)
	return scanCheckoutSession(row)
}

const getCheckoutSession = `
SELECT id, cart_id, customer_info, shipping_cost, payment_method, promo_code, discount, status, created_at, updated_at
FROM checkout_sessions
WHERE id = $1
`

func (q *Queries) GetCheckoutSession(ctx context.Context, id pgtype.UUID) (CheckoutSession, error) {
	return scanCheckoutSession(q.db.QueryRow(ctx, getCheckoutSession, id))
}

const getOpenCheckoutSessionByCart = `
SELECT id, cart_id, customer_info, shipping_cost, payment_method, promo_code, discount, status, created_at, updated_at
FROM checkout_sessions
WHERE cart_id = $1 AND status = 'OPEN'
ORDER BY created_at DESC
LIMIT 1
`

func (q *Queries) GetOpenCheckoutSessionByCart(ctx context.Context, cartID pgtype.UUID) (CheckoutSession, error) {
	return scanCheckoutSession(q.db.QueryRow(ctx, getOpenCheckoutSessionByCart, cartID))
}

type UpdateCheckoutCustomerInfoParams struct {
	ID           pgtype.UUID
	CustomerInfo []byte
}

const updateCheckoutCustomerInfo = `
UPDATE checkout_sessions
SET customer_info = $2, updated_at = now()
WHERE id = $1
RETURNING id, cart_id, customer_info, shipping_cost, payment_method, promo_code, discount, status, created_at, updated_at
`

func (q *Queries) UpdateCheckoutCustomerInfo(ctx context.Context, arg UpdateCheckoutCustomerInfoParams) (CheckoutSession, error) {
	return scanCheckoutSession(q.db.QueryRow(ctx, updateCheckoutCustomerInfo, arg.ID, arg.CustomerInfo))
}

type UpdateCheckoutPaymentMethodParams struct {
	ID            pgtype.UUID
	PaymentMethod pgtype.Text
}

const updateCheckoutPaymentMethod = `
UPDATE checkout_sessions
SET payment_method = $2, updated_at = now()
WHERE id = $1
RETURNING id, cart_id, customer_info, shipping_cost, payment_method, promo_code, discount, status, created_at, updated_at
`

func (q *Queries) UpdateCheckoutPaymentMethod(ctx context.Context, arg UpdateCheckoutPaymentMethodParams) (CheckoutSession, error) {
	return scanCheckoutSession(q.db.QueryRow(ctx, updateCheckoutPaymentMethod, arg.ID, arg.PaymentMethod))
}

type UpdateCheckoutPromoParams struct {
	ID        pgtype.UUID
	PromoCode pgtype.Text
	Discount  int64
}

const updateCheckoutPromo = `
UPDATE checkout_sessions
SET promo_code = $2, discount = $3, updated_at = now()
WHERE id = $1
RETURNING id, cart_id, customer_info, shipping_cost, payment_method, promo_code, discount, status, created_at, updated_at
`

func (q *Queries) UpdateCheckoutPromo(ctx context.Context, arg UpdateCheckoutPromoParams) (CheckoutSession, error) {
	return scanCheckoutSession(q.db.QueryRow(ctx, updateCheckoutPromo, arg.ID, arg.PromoCode, arg.Discount))
}

type UpdateCheckoutShippingParams struct {
	ID           pgtype.UUID
	ShippingCost int64
}

const updateCheckoutShipping = `
UPDATE checkout_sessions
SET shipping_cost = $2, updated_at = now()
WHERE id = $1
`

func (q *Queries) UpdateCheckoutShipping(ctx context.Context, arg UpdateCheckoutShippingParams) error {
	_, err := q.db.Exec(ctx, updateCheckoutShipping, arg.ID, arg.ShippingCost)
	return err
}

type UpdateCheckoutStatusParams struct {
	ID     pgtype.UUID
	Status string
}

const updateCheckoutStatus = `
UPDATE checkout_sessions
SET status = $2, updated_at = now()
WHERE id = $1
`

func (q *Queries) UpdateCheckoutStatus(ctx context.Context, arg UpdateCheckoutStatusParams) error {
	_, err := q.db.Exec(ctx, updateCheckoutStatus, arg.ID, arg.Status)
	return err
}

type row interface {
	Scan(dest ...interface{}) error
}

func scanCheckoutSession(r row) (CheckoutSession, error) {
	var i CheckoutSession
	err := r.Scan(
		&i.ID,
		&i.CartID,
		&i.CustomerInfo,
		&i.ShippingCost,
		&i.PaymentMethod,
		&i.PromoCode,
		&i.Discount,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

// -----------------------------------------------------------------------------
// Payment attempts
// -----------------------------------------------------------------------------

type CreatePaymentAttemptParams struct {
	SessionID   pgtype.UUID
	OrderCode   int64
	CheckoutUrl string
	Status      string
}

const createPaymentAttempt = `
INSERT INTO payment_attempts (session_id, order_code, checkout_url, status)
VALUES ($1, $2, $3, $4)
RETURNING id, session_id, order_code, checkout_url, status, created_at, updated_at
`

func (q *Queries) CreatePaymentAttempt(ctx context.Context, arg CreatePaymentAttemptParams) (PaymentAttempt, error) {
	row := q.db.QueryRow(ctx, createPaymentAttempt, arg.SessionID, arg.OrderCode, arg.CheckoutUrl, arg.Status)
	return scanPaymentAttempt(row)
}

const getPaymentAttemptByOrderCode = `
SELECT id, session_id, order_code, checkout_url, status, created_at, updated_at
FROM payment_attempts
WHERE order_code = $1
`

func (q *Queries) GetPaymentAttemptByOrderCode(ctx context.Context, orderCode int64) (PaymentAttempt, error) {
	return scanPaymentAttempt(q.db.QueryRow(ctx, getPaymentAttemptByOrderCode, orderCode))
}

const getLatestPaymentAttemptBySession = `
SELECT id, session_id, order_code, checkout_url, status, created_at, updated_at
FROM payment_attempts
WHERE session_id = $1
ORDER BY created_at DESC
LIMIT 1
`

func (q *Queries) GetLatestPaymentAttemptBySession(ctx context.Context, sessionID pgtype.UUID) (PaymentAttempt, error) {
	return scanPaymentAttempt(q.db.QueryRow(ctx, getLatestPaymentAttemptBySession, sessionID))
}

type UpdatePaymentAttemptStatusParams struct {
	OrderCode int64
	Status    string
}

const updatePaymentAttemptStatus = `
UPDATE payment_attempts
SET status = $2, updated_at = now()
WHERE order_code = $1
`

func (q *Queries) UpdatePaymentAttemptStatus(ctx context.Context, arg UpdatePaymentAttemptStatusParams) error {
	_, err := q.db.Exec(ctx, updatePaymentAttemptStatus, arg.OrderCode, arg.Status)
	return err
}

func scanPaymentAttempt(r row) (PaymentAttempt, error) {
	var i PaymentAttempt
	err := r.Scan(
		&i.ID,
		&i.SessionID,
		&i.OrderCode,
		&i.CheckoutUrl,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

// -----------------------------------------------------------------------------
// Checkout contexts
// -----------------------------------------------------------------------------

type CreateCheckoutContextParams struct {
	OrderCode int64
	Payload   []byte
}

const createCheckoutContext = `
INSERT INTO checkout_contexts (order_code, payload)
VALUES ($1, $2)
RETURNING order_code, payload, created_at
`

func (q *Queries) CreateCheckoutContext(ctx context.Context, arg CreateCheckoutContextParams) (CheckoutContext, error) {
	row := q.db.QueryRow(ctx, createCheckoutContext, arg.OrderCode, arg.Payload)
	var i CheckoutContext
	err := row.Scan(&i.OrderCode, &i.Payload, &i.CreatedAt)
	return i, err
}

const getCheckoutContext = `
SELECT order_code, payload, created_at
FROM checkout_contexts
WHERE order_code = $1
`

func (q *Queries) GetCheckoutContext(ctx context.Context, orderCode int64) (CheckoutContext, error) {
	row := q.db.QueryRow(ctx, getCheckoutContext, orderCode)
	var i CheckoutContext
	err := row.Scan(&i.OrderCode, &i.Payload, &i.CreatedAt)
	return i, err
}

const deleteCheckoutContext = `
DELETE FROM checkout_contexts WHERE order_code = $1
`

func (q *Queries) DeleteCheckoutContext(ctx context.Context, orderCode int64) error {
	_, err := q.db.Exec(ctx, deleteCheckoutContext, orderCode)
	return err
}
