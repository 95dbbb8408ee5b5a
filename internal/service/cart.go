package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lenshaus/atelier/internal/domain"
	"github.com/lenshaus/atelier/internal/repository"
)

type cartService struct {
	repo repository.Querier
}

// NewCartService creates a new CartService instance
func NewCartService(repo repository.Querier) domain.CartService {
	return &cartService{repo: repo}
}

// GetOrCreateCart retrieves an existing cart or creates a new one.
// Returns the cart, session token (new or existing), and any error.
func (s *cartService) GetOrCreateCart(ctx context.Context, sessionToken string) (*domain.Cart, string, error) {
	if sessionToken != "" {
		cart, err := s.repo.GetCartBySessionToken(ctx, sessionToken)
		if err == nil {
			return &domain.Cart{
				ID:           fromPgUUID(cart.ID),
				SessionToken: cart.SessionToken,
			}, sessionToken, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, "", fmt.Errorf("failed to get cart by session token: %w", err)
		}
		// Stale cookie: fall through and mint a fresh cart
	}

	newToken, err := GenerateSessionToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate session token: %w", err)
	}

	cart, err := s.repo.CreateCart(ctx, newToken)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create cart: %w", err)
	}

	return &domain.Cart{
		ID:           fromPgUUID(cart.ID),
		SessionToken: cart.SessionToken,
	}, newToken, nil
}

// AddOrUpdateItem upserts a line item and recomputes totals. Two lines are
// the same item when they share a product and an identical lens selection;
// adding the same item again merges quantities instead of duplicating lines.
func (s *cartService) AddOrUpdateItem(ctx context.Context, cartID uuid.UUID, item domain.CartItem) (*domain.CartSummary, error) {
	if item.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}

	cartUUID := pgUUID(cartID)
	if _, err := s.repo.GetCart(ctx, cartUUID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	lensJSON, err := marshalLensDetail(item.LensDetail)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListCartItems(ctx, cartUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}

	var existing *repository.CartItem
	for i := range rows {
		if rows[i].ProductID == item.ProductID && bytes.Equal(rows[i].LensDetail, lensJSON) {
			existing = &rows[i]
			break
		}
	}

	if existing != nil {
		_, err = s.repo.UpdateCartItem(ctx, repository.UpdateCartItemParams{
			ID:            existing.ID,
			CartID:        cartUUID,
			Quantity:      existing.Quantity + item.Quantity,
			FramePrice:    item.FramePrice,
			FrameDiscount: item.FrameDiscount,
			LensDetail:    lensJSON,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	} else {
		_, err = s.repo.InsertCartItem(ctx, repository.InsertCartItemParams{
			CartID:        cartUUID,
			ProductID:     item.ProductID,
			ProductName:   item.ProductName,
			Quantity:      item.Quantity,
			FramePrice:    item.FramePrice,
			FrameDiscount: item.FrameDiscount,
			LensDetail:    lensJSON,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to insert cart item: %w", err)
		}
	}

	if err := s.repo.TouchCart(ctx, cartUUID); err != nil {
		return nil, fmt.Errorf("failed to touch cart: %w", err)
	}

	return s.GetCartSummary(ctx, cartID)
}

// SetQuantity updates the quantity of a cart item.
// A quantity of zero or less removes the item.
func (s *cartService) SetQuantity(ctx context.Context, cartID uuid.UUID, itemID uuid.UUID, quantity int32) (*domain.CartSummary, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, cartID, itemID)
	}

	affected, err := s.repo.UpdateCartItemQuantity(ctx, repository.UpdateCartItemQuantityParams{
		ID:       pgUUID(itemID),
		CartID:   pgUUID(cartID),
		Quantity: quantity,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update quantity: %w", err)
	}
	if affected == 0 {
		return nil, ErrCartItemNotFound
	}

	return s.GetCartSummary(ctx, cartID)
}

// RemoveItem removes a line item. A missing item is reported as ENOTFOUND
// but leaves the cart intact.
func (s *cartService) RemoveItem(ctx context.Context, cartID uuid.UUID, itemID uuid.UUID) (*domain.CartSummary, error) {
	affected, err := s.repo.DeleteCartItem(ctx, repository.DeleteCartItemParams{
		ID:     pgUUID(itemID),
		CartID: pgUUID(cartID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}
	if affected == 0 {
		return nil, ErrCartItemNotFound
	}

	return s.GetCartSummary(ctx, cartID)
}

// GetCartSummary retrieves a cart with all items and calculated totals.
func (s *cartService) GetCartSummary(ctx context.Context, cartID uuid.UUID) (*domain.CartSummary, error) {
	cartUUID := pgUUID(cartID)

	cart, err := s.repo.GetCart(ctx, cartUUID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	rows, err := s.repo.ListCartItems(ctx, cartUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}

	items := make([]domain.CartItem, 0, len(rows))
	for _, row := range rows {
		item, err := toDomainCartItem(row)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return domain.ComputeSummary(domain.Cart{
		ID:           fromPgUUID(cart.ID),
		SessionToken: cart.SessionToken,
	}, items), nil
}

// ClearCart removes all items from a cart.
func (s *cartService) ClearCart(ctx context.Context, cartID uuid.UUID) error {
	if err := s.repo.DeleteCartItems(ctx, pgUUID(cartID)); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
