package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createCart = `
INSERT INTO carts (session_token)
VALUES ($1)
RETURNING id, session_token, created_at, updated_at
`

func (q *Queries) CreateCart(ctx context.Context, sessionToken string) (Cart, error) {
	row := q.db.QueryRow(ctx, createCart, sessionToken)
	var i Cart
	err := row.Scan(&i.ID, &i.SessionToken, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const getCart = `
SELECT id, session_token, created_at, updated_at
FROM carts
WHERE id = $1
`

func (q *Queries) GetCart(ctx context.Context, id pgtype.UUID) (Cart, error) {
	row := q.db.QueryRow(ctx, getCart, id)
	var i Cart
	err := row.Scan(&i.ID, &i.SessionToken, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const getCartBySessionToken = `
SELECT id, session_token, created_at, updated_at
FROM carts
WHERE session_token = $1
`

func (q *Queries) GetCartBySessionToken(ctx context.Context, sessionToken string) (Cart, error) {
	row := q.db.QueryRow(ctx, getCartBySessionToken, sessionToken)
	var i Cart
	err := row.Scan(&i.ID, &i.SessionToken, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const touchCart = `
UPDATE carts SET updated_at = now() WHERE id = $1
`

func (q *Queries) TouchCart(ctx context.Context, id pgtype.UUID) error {
	_, err := q.db.Exec(ctx, touchCart, id)
	return err
}

type InsertCartItemParams struct {
	CartID        pgtype.UUID
	ProductID     string
	ProductName   string
	Quantity      int32
	FramePrice    int64
	FrameDiscount int64
	LensDetail    []byte
}

const insertCartItem = `
INSERT INTO cart_items (cart_id, product_id, product_name, quantity, frame_price, frame_discount, lens_detail)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, cart_id, product_id, product_name, quantity, frame_price, frame_discount, lens_detail, created_at, updated_at
`

func (q *Queries) InsertCartItem(ctx context.Context, arg InsertCartItemParams) (CartItem, error) {
	row := q.db.QueryRow(ctx, insertCartItem,
		arg.CartID,
		arg.ProductID,
		arg.ProductName,
		arg.Quantity,
		arg.FramePrice,
		arg.FrameDiscount,
		arg.LensDetail,
	)
	var i CartItem
	err := row.Scan(
		&i.ID,
		&i.CartID,
		&i.ProductID,
		&i.ProductName,
		&i.Quantity,
		&i.FramePrice,
		&i.FrameDiscount,
		&i.LensDetail,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

type UpdateCartItemParams struct {
	ID            pgtype.UUID
	CartID        pgtype.UUID
	Quantity      int32
	FramePrice    int64
	FrameDiscount int64
	LensDetail    []byte
}

const updateCartItem = `
UPDATE cart_items
SET quantity = $3, frame_price = $4, frame_discount = $5, lens_detail = $6, updated_at = now()
WHERE id = $1 AND cart_id = $2
RETURNING id, cart_id, product_id, product_name, quantity, frame_price, frame_discount, lens_detail, created_at, updated_at
`

func (q *Queries) UpdateCartItem(ctx context.Context, arg UpdateCartItemParams) (CartItem, error) {
	row := q.db.QueryRow(ctx, updateCartItem,
		arg.ID,
		arg.CartID,
		arg.Quantity,
		arg.FramePrice,
		arg.FrameDiscount,
		arg.LensDetail,
	)
	var i CartItem
	err := row.Scan(
		&i.ID,
		&i.CartID,
		&i.ProductID,
		&i.ProductName,
		&i.Quantity,
		&i.FramePrice,
		&i.FrameDiscount,
		&i.LensDetail,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

type UpdateCartItemQuantityParams struct {
	ID       pgtype.UUID
	CartID   pgtype.UUID
	Quantity int32
}

const updateCartItemQuantity = `
UPDATE cart_items
SET quantity = $3, updated_at = now()
WHERE id = $1 AND cart_id = $2
`

func (q *Queries) UpdateCartItemQuantity(ctx context.Context, arg UpdateCartItemQuantityParams) (int64, error) {
	tag, err := q.db.Exec(ctx, updateCartItemQuantity, arg.ID, arg.CartID, arg.Quantity)
	return tag.RowsAffected(), err
}

const listCartItems = `
SELECT id, cart_id, product_id, product_name, quantity, frame_price, frame_discount, lens_detail, created_at, updated_at
FROM cart_items
WHERE cart_id = $1
ORDER BY created_at
`

func (q *Queries) ListCartItems(ctx context.Context, cartID pgtype.UUID) ([]CartItem, error) {
	rows, err := q.db.Query(ctx, listCartItems, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CartItem
	for rows.Next() {
		var i CartItem
		if err := rows.Scan(
			&i.ID,
			&i.CartID,
			&i.ProductID,
			&i.ProductName,
			&i.Quantity,
			&i.FramePrice,
			&i.FrameDiscount,
			&i.LensDetail,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

type DeleteCartItemParams struct {
	ID     pgtype.UUID
	CartID pgtype.UUID
}

const deleteCartItem = `
DELETE FROM cart_items WHERE id = $1 AND cart_id = $2
`

func (q *Queries) DeleteCartItem(ctx context.Context, arg DeleteCartItemParams) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteCartItem, arg.ID, arg.CartID)
	return tag.RowsAffected(), err
}

const deleteCartItems = `
DELETE FROM cart_items WHERE cart_id = $1
`

func (q *Queries) DeleteCartItems(ctx context.Context, cartID pgtype.UUID) error {
	_, err := q.db.Exec(ctx, deleteCartItems, cartID)
	return err
}
