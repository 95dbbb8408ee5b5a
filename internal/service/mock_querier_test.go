package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lenshaus/atelier/internal/repository"
)

// mockQuerier is an in-memory Querier for service tests. It mimics the
// store's behavior closely enough for business-logic assertions: generated
// IDs, not-found maps to pgx.ErrNoRows, rows are copied in and out.
type mockQuerier struct {
	carts    map[pgtype.UUID]repository.Cart
	items    map[pgtype.UUID]repository.CartItem
	sessions map[pgtype.UUID]repository.CheckoutSession
	attempts map[int64]repository.PaymentAttempt
	contexts map[int64]repository.CheckoutContext
	orders   map[int64]repository.Order
	ordItems map[pgtype.UUID][]repository.OrderItem

	// failures let individual tests force errors per method name
	failures map[string]error
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{
		carts:    make(map[pgtype.UUID]repository.Cart),
		items:    make(map[pgtype.UUID]repository.CartItem),
		sessions: make(map[pgtype.UUID]repository.CheckoutSession),
		attempts: make(map[int64]repository.PaymentAttempt),
		contexts: make(map[int64]repository.CheckoutContext),
		orders:   make(map[int64]repository.Order),
		ordItems: make(map[pgtype.UUID][]repository.OrderItem),
		failures: make(map[string]error),
	}
}

func newPgUUID() pgtype.UUID {
	return pgtype.UUID{Bytes: uuid.New(), Valid: true}
}

func nowTz() pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: time.Now(), Valid: true}
}

func (m *mockQuerier) fail(method string) error {
	return m.failures[method]
}

func (m *mockQuerier) CreateCart(ctx context.Context, sessionToken string) (repository.Cart, error) {
	if err := m.fail("CreateCart"); err != nil {
		return repository.Cart{}, err
	}
	cart := repository.Cart{ID: newPgUUID(), SessionToken: sessionToken, CreatedAt: nowTz(), UpdatedAt: nowTz()}
	m.carts[cart.ID] = cart
	return cart, nil
}

func (m *mockQuerier) GetCart(ctx context.Context, id pgtype.UUID) (repository.Cart, error) {
	if err := m.fail("GetCart"); err != nil {
		return repository.Cart{}, err
	}
	cart, ok := m.carts[id]
	if !ok {
		return repository.Cart{}, pgx.ErrNoRows
	}
	return cart, nil
}

func (m *mockQuerier) GetCartBySessionToken(ctx context.Context, sessionToken string) (repository.Cart, error) {
	for _, cart := range m.carts {
		if cart.SessionToken == sessionToken {
			return cart, nil
		}
	}
	return repository.Cart{}, pgx.ErrNoRows
}

func (m *mockQuerier) TouchCart(ctx context.Context, id pgtype.UUID) error {
	return nil
}

func (m *mockQuerier) InsertCartItem(ctx context.Context, arg repository.InsertCartItemParams) (repository.CartItem, error) {
	item := repository.CartItem{
		ID:            newPgUUID(),
		CartID:        arg.CartID,
		ProductID:     arg.ProductID,
		ProductName:   arg.ProductName,
		Quantity:      arg.Quantity,
		FramePrice:    arg.FramePrice,
		FrameDiscount: arg.FrameDiscount,
		LensDetail:    arg.LensDetail,
		CreatedAt:     nowTz(),
		UpdatedAt:     nowTz(),
	}
	m.items[item.ID] = item
	return item, nil
}

func (m *mockQuerier) UpdateCartItem(ctx context.Context, arg repository.UpdateCartItemParams) (repository.CartItem, error) {
	item, ok := m.items[arg.ID]
	if !ok || item.CartID != arg.CartID {
		return repository.CartItem{}, pgx.ErrNoRows
	}
	item.Quantity = arg.Quantity
	item.FramePrice = arg.FramePrice
	item.FrameDiscount = arg.FrameDiscount
	item.LensDetail = arg.LensDetail
	m.items[arg.ID] = item
	return item, nil
}

func (m *mockQuerier) UpdateCartItemQuantity(ctx context.Context, arg repository.UpdateCartItemQuantityParams) (int64, error) {
	item, ok := m.items[arg.ID]
	if !ok || item.CartID != arg.CartID {
		return 0, nil
	}
	item.Quantity = arg.Quantity
	m.items[arg.ID] = item
	return 1, nil
}

func (m *mockQuerier) ListCartItems(ctx context.Context, cartID pgtype.UUID) ([]repository.CartItem, error) {
	if err := m.fail("ListCartItems"); err != nil {
		return nil, err
	}
	var items []repository.CartItem
	for _, item := range m.items {
		if item.CartID == cartID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Time.Before(items[j].CreatedAt.Time)
	})
	return items, nil
}

func (m *mockQuerier) DeleteCartItem(ctx context.Context, arg repository.DeleteCartItemParams) (int64, error) {
	item, ok := m.items[arg.ID]
	if !ok || item.CartID != arg.CartID {
		return 0, nil
	}
	delete(m.items, arg.ID)
	return 1, nil
}

func (m *mockQuerier) DeleteCartItems(ctx context.Context, cartID pgtype.UUID) error {
	if err := m.fail("DeleteCartItems"); err != nil {
		return err
	}
	for id, item := range m.items {
		if item.CartID == cartID {
			delete(m.items, id)
		}
	}
	return nil
}

func (m *mockQuerier) CreateCheckoutSession(ctx context.Context, arg repository.CreateCheckoutSessionParams) (repository.CheckoutSession, error) {
	session := repository.CheckoutSession{
		ID:           newPgUUID(),
		CartID:       arg.CartID,
		ShippingCost: arg.ShippingCost,
		Status:       arg.Status,
		CreatedAt:    nowTz(),
		UpdatedAt:    nowTz(),
	}
	m.sessions[session.ID] = session
	return session, nil
}

func (m *mockQuerier) GetCheckoutSession(ctx context.Context, id pgtype.UUID) (repository.CheckoutSession, error) {
	session, ok := m.sessions[id]
	if !ok {
		return repository.CheckoutSession{}, pgx.ErrNoRows
	}
	return session, nil
}

func (m *mockQuerier) GetOpenCheckoutSessionByCart(ctx context.Context, cartID pgtype.UUID) (repository.CheckoutSession, error) {
	var found *repository.CheckoutSession
	for _, session := range m.sessions {
		if session.CartID == cartID && session.Status == "OPEN" {
			s := session
			if found == nil || s.CreatedAt.Time.After(found.CreatedAt.Time) {
				found = &s
			}
		}
	}
	if found == nil {
		return repository.CheckoutSession{}, pgx.ErrNoRows
	}
	return *found, nil
}

func (m *mockQuerier) UpdateCheckoutCustomerInfo(ctx context.Context, arg repository.UpdateCheckoutCustomerInfoParams) (repository.CheckoutSession, error) {
	session, ok := m.sessions[arg.ID]
	if !ok {
		return repository.CheckoutSession{}, pgx.ErrNoRows
	}
	session.CustomerInfo = arg.CustomerInfo
	m.sessions[arg.ID] = session
	return session, nil
}

func (m *mockQuerier) UpdateCheckoutPaymentMethod(ctx context.Context, arg repository.UpdateCheckoutPaymentMethodParams) (repository.CheckoutSession, error) {
	session, ok := m.sessions[arg.ID]
	if !ok {
		return repository.CheckoutSession{}, pgx.ErrNoRows
	}
	session.PaymentMethod = arg.PaymentMethod
	m.sessions[arg.ID] = session
	return session, nil
}

func (m *mockQuerier) UpdateCheckoutPromo(ctx context.Context, arg repository.UpdateCheckoutPromoParams) (repository.CheckoutSession, error) {
	session, ok := m.sessions[arg.ID]
	if !ok {
		return repository.CheckoutSession{}, pgx.ErrNoRows
	}
	session.PromoCode = arg.PromoCode
	session.Discount = arg.Discount
	m.sessions[arg.ID] = session
	return session, nil
}

func (m *mockQuerier) UpdateCheckoutShipping(ctx context.Context, arg repository.UpdateCheckoutShippingParams) error {
	session, ok := m.sessions[arg.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	session.ShippingCost = arg.ShippingCost
	m.sessions[arg.ID] = session
	return nil
}

func (m *mockQuerier) UpdateCheckoutStatus(ctx context.Context, arg repository.UpdateCheckoutStatusParams) error {
	session, ok := m.sessions[arg.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	session.Status = arg.Status
	m.sessions[arg.ID] = session
	return nil
}

func (m *mockQuerier) CreatePaymentAttempt(ctx context.Context, arg repository.CreatePaymentAttemptParams) (repository.PaymentAttempt, error) {
	if _, exists := m.attempts[arg.OrderCode]; exists {
		return repository.PaymentAttempt{}, &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
	}
	attempt := repository.PaymentAttempt{
		ID:          newPgUUID(),
		SessionID:   arg.SessionID,
		OrderCode:   arg.OrderCode,
		CheckoutUrl: arg.CheckoutUrl,
		Status:      arg.Status,
		CreatedAt:   nowTz(),
		UpdatedAt:   nowTz(),
	}
	m.attempts[arg.OrderCode] = attempt
	return attempt, nil
}

func (m *mockQuerier) GetPaymentAttemptByOrderCode(ctx context.Context, orderCode int64) (repository.PaymentAttempt, error) {
	attempt, ok := m.attempts[orderCode]
	if !ok {
		return repository.PaymentAttempt{}, pgx.ErrNoRows
	}
	return attempt, nil
}

func (m *mockQuerier) GetLatestPaymentAttemptBySession(ctx context.Context, sessionID pgtype.UUID) (repository.PaymentAttempt, error) {
	var found *repository.PaymentAttempt
	for _, attempt := range m.attempts {
		if attempt.SessionID == sessionID {
			a := attempt
			if found == nil || a.CreatedAt.Time.After(found.CreatedAt.Time) {
				found = &a
			}
		}
	}
	if found == nil {
		return repository.PaymentAttempt{}, pgx.ErrNoRows
	}
	return *found, nil
}

func (m *mockQuerier) UpdatePaymentAttemptStatus(ctx context.Context, arg repository.UpdatePaymentAttemptStatusParams) error {
	attempt, ok := m.attempts[arg.OrderCode]
	if !ok {
		return pgx.ErrNoRows
	}
	attempt.Status = arg.Status
	m.attempts[arg.OrderCode] = attempt
	return nil
}

func (m *mockQuerier) CreateCheckoutContext(ctx context.Context, arg repository.CreateCheckoutContextParams) (repository.CheckoutContext, error) {
	if err := m.fail("CreateCheckoutContext"); err != nil {
		return repository.CheckoutContext{}, err
	}
	cc := repository.CheckoutContext{OrderCode: arg.OrderCode, Payload: arg.Payload, CreatedAt: nowTz()}
	m.contexts[arg.OrderCode] = cc
	return cc, nil
}

func (m *mockQuerier) GetCheckoutContext(ctx context.Context, orderCode int64) (repository.CheckoutContext, error) {
	cc, ok := m.contexts[orderCode]
	if !ok {
		return repository.CheckoutContext{}, pgx.ErrNoRows
	}
	return cc, nil
}

func (m *mockQuerier) DeleteCheckoutContext(ctx context.Context, orderCode int64) error {
	delete(m.contexts, orderCode)
	return nil
}

func (m *mockQuerier) CreateOrder(ctx context.Context, arg repository.CreateOrderParams) (repository.Order, error) {
	if err := m.fail("CreateOrder"); err != nil {
		return repository.Order{}, err
	}
	if _, exists := m.orders[arg.OrderCode]; exists {
		return repository.Order{}, &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
	}
	order := repository.Order{
		ID:            newPgUUID(),
		OrderCode:     arg.OrderCode,
		Status:        arg.Status,
		PaymentMethod: arg.PaymentMethod,
		PaymentStatus: arg.PaymentStatus,
		CustomerInfo:  arg.CustomerInfo,
		Subtotal:      arg.Subtotal,
		LensTotal:     arg.LensTotal,
		ShippingCost:  arg.ShippingCost,
		Discount:      arg.Discount,
		Total:         arg.Total,
		PromoCode:     arg.PromoCode,
		CreatedAt:     nowTz(),
	}
	m.orders[arg.OrderCode] = order
	return order, nil
}

func (m *mockQuerier) GetOrderByCode(ctx context.Context, orderCode int64) (repository.Order, error) {
	order, ok := m.orders[orderCode]
	if !ok {
		return repository.Order{}, pgx.ErrNoRows
	}
	return order, nil
}

func (m *mockQuerier) CreateOrderItem(ctx context.Context, arg repository.CreateOrderItemParams) (repository.OrderItem, error) {
	item := repository.OrderItem{
		ID:          newPgUUID(),
		OrderID:     arg.OrderID,
		ProductID:   arg.ProductID,
		ProductName: arg.ProductName,
		Quantity:    arg.Quantity,
		UnitPrice:   arg.UnitPrice,
		LensPrice:   arg.LensPrice,
		LineTotal:   arg.LineTotal,
		LensDetail:  arg.LensDetail,
	}
	m.ordItems[arg.OrderID] = append(m.ordItems[arg.OrderID], item)
	return item, nil
}

func (m *mockQuerier) ListOrderItems(ctx context.Context, orderID pgtype.UUID) ([]repository.OrderItem, error) {
	return m.ordItems[orderID], nil
}

var _ repository.Querier = (*mockQuerier)(nil)
