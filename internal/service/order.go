package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lenshaus/atelier/internal/domain"
	"github.com/lenshaus/atelier/internal/repository"
)

// uniqueViolation is the Postgres error code for duplicate keys.
const uniqueViolation = "23505"

type orderService struct {
	repo        repository.Querier
	pool        *pgxpool.Pool
	cartService domain.CartService
	logger      *slog.Logger
}

// NewOrderService creates a new OrderService instance.
// pool is used for transaction support in CreateFromContext; it may be nil
// in tests, which degrades to non-transactional writes against repo.
func NewOrderService(repo repository.Querier, pool *pgxpool.Pool, cartService domain.CartService, logger *slog.Logger) domain.OrderService {
	return &orderService{
		repo:        repo,
		pool:        pool,
		cartService: cartService,
		logger:      logger,
	}
}

// CreateFromContext builds an order from a stored checkout context.
//
// Idempotency: the order code carries a unique constraint, so concurrent
// calls for the same code race safely. Whichever call loses the insert race
// loads the winner's order and reports ErrOrderAlreadyCreated, which callers
// treat as benign.
func (s *orderService) CreateFromContext(ctx context.Context, cc *domain.CheckoutContext, paymentStatus domain.PaymentStatus, method domain.PaymentMethod) (*domain.Order, error) {
	// Fast path: order already exists for this code
	if existing, err := s.GetByOrderCode(ctx, cc.OrderCode); err == nil {
		return existing, domain.ErrOrderAlreadyCreated
	} else if domain.ErrorCode(err) != domain.ENOTFOUND {
		return nil, err
	}

	if len(cc.Summary.Items) == 0 {
		return nil, ErrEmptyCart
	}

	infoJSON, err := json.Marshal(cc.CustomerInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to encode customer info: %w", err)
	}

	q := s.repo
	var tx pgx.Tx
	if s.pool != nil {
		tx, err = s.pool.BeginTx(ctx, pgx.TxOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback(ctx)
		q = repository.New(tx)
	}

	total := cc.Summary.GrandTotal + cc.ShippingCost - cc.Discount
	if total < 0 {
		total = 0
	}

	row, err := q.CreateOrder(ctx, repository.CreateOrderParams{
		OrderCode:     cc.OrderCode,
		Status:        string(domain.OrderStatusPending),
		PaymentMethod: string(method),
		PaymentStatus: string(paymentStatus),
		CustomerInfo:  infoJSON,
		Subtotal:      cc.Summary.GrandTotal,
		LensTotal:     cc.Summary.TotalLensPrice,
		ShippingCost:  cc.ShippingCost,
		Discount:      cc.Discount,
		Total:         total,
		PromoCode:     pgText(cc.PromoCode),
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			// Lost the race: another request created this order first
			existing, getErr := s.GetByOrderCode(ctx, cc.OrderCode)
			if getErr != nil {
				return nil, fmt.Errorf("failed to load concurrently created order: %w", getErr)
			}
			return existing, domain.ErrOrderAlreadyCreated
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	items := make([]domain.OrderItem, 0, len(cc.Summary.Items))
	for _, ci := range cc.Summary.Items {
		lensJSON, err := marshalLensDetail(ci.LensDetail)
		if err != nil {
			return nil, err
		}

		unit := ci.FramePrice - ci.FrameDiscount
		if unit < 0 {
			unit = 0
		}
		var lensPrice int64
		if ci.LensDetail != nil {
			lensPrice = ci.LensDetail.TotalLensPrice()
		}

		itemRow, err := q.CreateOrderItem(ctx, repository.CreateOrderItemParams{
			OrderID:     row.ID,
			ProductID:   ci.ProductID,
			ProductName: ci.ProductName,
			Quantity:    ci.Quantity,
			UnitPrice:   unit,
			LensPrice:   lensPrice,
			LineTotal:   ci.TotalPrice(),
			LensDetail:  lensJSON,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
		items = append(items, toDomainOrderItem(itemRow, ci.LensDetail))
	}

	// The context slot is consumed only once the order fully exists
	if err := q.DeleteCheckoutContext(ctx, cc.OrderCode); err != nil {
		return nil, fmt.Errorf("failed to consume checkout context: %w", err)
	}

	if tx != nil {
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to commit order: %w", err)
		}
	}

	// Cart cleanup is best effort: the order is already durable and a
	// leftover cart only costs the customer a manual empty.
	if err := s.cartService.ClearCart(ctx, cc.CartID); err != nil {
		s.logger.Warn("failed to clear cart after order creation",
			slog.Int64("order_code", cc.OrderCode),
			slog.String("error", err.Error()))
	}

	order := toDomainOrder(row)
	order.CustomerInfo = cc.CustomerInfo
	order.Items = items
	return order, nil
}

// GetByOrderCode loads an order for the confirmation page.
func (s *orderService) GetByOrderCode(ctx context.Context, orderCode int64) (*domain.Order, error) {
	row, err := s.repo.GetOrderByCode(ctx, orderCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	order := toDomainOrder(row)
	if len(row.CustomerInfo) > 0 {
		if err := json.Unmarshal(row.CustomerInfo, &order.CustomerInfo); err != nil {
			return nil, fmt.Errorf("failed to decode customer info: %w", err)
		}
	}

	itemRows, err := s.repo.ListOrderItems(ctx, row.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	for _, ir := range itemRows {
		var lens *domain.LensSelection
		if len(ir.LensDetail) > 0 {
			lens = &domain.LensSelection{}
			if err := json.Unmarshal(ir.LensDetail, lens); err != nil {
				return nil, fmt.Errorf("failed to decode lens detail: %w", err)
			}
		}
		order.Items = append(order.Items, toDomainOrderItem(ir, lens))
	}

	return order, nil
}

func toDomainOrder(row repository.Order) *domain.Order {
	return &domain.Order{
		ID:            fromPgUUID(row.ID),
		OrderCode:     row.OrderCode,
		Status:        domain.OrderStatus(row.Status),
		PaymentMethod: domain.PaymentMethod(row.PaymentMethod),
		PaymentStatus: domain.PaymentStatus(row.PaymentStatus),
		Subtotal:      row.Subtotal,
		LensTotal:     row.LensTotal,
		ShippingCost:  row.ShippingCost,
		Discount:      row.Discount,
		Total:         row.Total,
		PromoCode:     row.PromoCode.String,
		CreatedAt:     row.CreatedAt.Time,
	}
}

func toDomainOrderItem(row repository.OrderItem, lens *domain.LensSelection) domain.OrderItem {
	return domain.OrderItem{
		ID:          fromPgUUID(row.ID),
		OrderID:     fromPgUUID(row.OrderID),
		ProductID:   row.ProductID,
		ProductName: row.ProductName,
		Quantity:    row.Quantity,
		UnitPrice:   row.UnitPrice,
		LensPrice:   row.LensPrice,
		LineTotal:   row.LineTotal,
		LensDetail:  lens,
	}
}
