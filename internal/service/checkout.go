package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lenshaus/atelier/internal/domain"
	"github.com/lenshaus/atelier/internal/payment"
	"github.com/lenshaus/atelier/internal/promo"
	"github.com/lenshaus/atelier/internal/repository"
	"github.com/lenshaus/atelier/internal/shipping"
)

type checkoutService struct {
	repo         repository.Querier
	cartService  domain.CartService
	orderService domain.OrderService
	provider     payment.Provider
	promos       promo.Lookup
	shipping     shipping.Calculator
	validate     *validator.Validate
	logger       *slog.Logger

	// inflight guards payment link creation per session: a double-click
	// on the submit button must never mint two gateway links.
	mu       sync.Mutex
	inflight map[uuid.UUID]struct{}
}

// NewCheckoutService creates a new CheckoutService instance.
func NewCheckoutService(
	repo repository.Querier,
	cartService domain.CartService,
	orderService domain.OrderService,
	provider payment.Provider,
	promos promo.Lookup,
	shippingCalc shipping.Calculator,
	logger *slog.Logger,
) domain.CheckoutService {
	v := validator.New()
	// Report field errors under their JSON names so the storefront can
	// attach them to form inputs directly
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &checkoutService{
		repo:         repo,
		cartService:  cartService,
		orderService: orderService,
		provider:     provider,
		promos:       promos,
		shipping:     shippingCalc,
		validate:     v,
		logger:       logger,
		inflight:     make(map[uuid.UUID]struct{}),
	}
}

// BeginCheckout opens a checkout session for a cart. Re-entering checkout
// for a cart with an open session resumes that session instead of forking.
func (s *checkoutService) BeginCheckout(ctx context.Context, cartID uuid.UUID) (*domain.CheckoutSession, error) {
	summary, err := s.cartService.GetCartSummary(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(summary.Items) == 0 {
		return nil, ErrEmptyCart
	}

	cartUUID := pgUUID(cartID)

	if row, err := s.repo.GetOpenCheckoutSessionByCart(ctx, cartUUID); err == nil {
		return s.refreshSession(ctx, row, summary)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up open session: %w", err)
	}

	cost, err := s.shipping.Quote(ctx, shipping.QuoteParams{
		Subtotal:     summary.GrandTotal,
		HasLensItems: summary.HasLensItems,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to quote shipping: %w", err)
	}

	row, err := s.repo.CreateCheckoutSession(ctx, repository.CreateCheckoutSessionParams{
		CartID:       cartUUID,
		ShippingCost: cost,
		Status:       string(domain.CheckoutStatusOpen),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return toDomainSession(row)
}

// GetSession loads an open checkout session with the payment-method
// constraint re-applied against the current cart contents.
func (s *checkoutService) GetSession(ctx context.Context, sessionID uuid.UUID) (*domain.CheckoutSession, error) {
	row, err := s.repo.GetCheckoutSession(ctx, pgUUID(sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get checkout session: %w", err)
	}

	summary, err := s.cartService.GetCartSummary(ctx, fromPgUUID(row.CartID))
	if err != nil {
		return nil, err
	}

	return s.refreshSession(ctx, row, summary)
}

// refreshSession re-derives cart-dependent session state: shipping cost
// follows the current cart, and a cash selection is dropped when lens items
// have since been added.
func (s *checkoutService) refreshSession(ctx context.Context, row repository.CheckoutSession, summary *domain.CartSummary) (*domain.CheckoutSession, error) {
	session, err := toDomainSession(row)
	if err != nil {
		return nil, err
	}

	cost, err := s.shipping.Quote(ctx, shipping.QuoteParams{
		Subtotal:     summary.GrandTotal,
		HasLensItems: summary.HasLensItems,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to quote shipping: %w", err)
	}
	if cost != session.ShippingCost {
		if err := s.repo.UpdateCheckoutShipping(ctx, repository.UpdateCheckoutShippingParams{
			ID:           row.ID,
			ShippingCost: cost,
		}); err != nil {
			return nil, fmt.Errorf("failed to update shipping cost: %w", err)
		}
		session.ShippingCost = cost
	}

	if session.PaymentMethod == domain.PaymentMethodCash && summary.HasLensItems {
		if _, err := s.repo.UpdateCheckoutPaymentMethod(ctx, repository.UpdateCheckoutPaymentMethodParams{
			ID:            row.ID,
			PaymentMethod: pgText(""),
		}); err != nil {
			return nil, fmt.Errorf("failed to reset payment method: %w", err)
		}
		session.PaymentMethod = ""
	}

	return session, nil
}

// Validate checks customer info and returns a ValidationError carrying one
// message per invalid field, or nil when everything passes.
func (s *checkoutService) Validate(info domain.CustomerInfo) error {
	err := s.validate.Struct(info)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return domain.Internal(err, "checkout.validate", "validation failed")
	}

	var ve error
	for _, fe := range invalid {
		ve = domain.AddFieldError(ve, fe.Field(), fieldMessage(fe))
	}
	return ve
}

// fieldMessage renders one human-readable message per failed rule.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "numeric":
		return "Must contain digits only"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	default:
		return "Invalid value"
	}
}

// SetCustomerInfo validates and stores customer data on the session.
func (s *checkoutService) SetCustomerInfo(ctx context.Context, sessionID uuid.UUID, info domain.CustomerInfo) (*domain.CheckoutSession, error) {
	if err := s.requireOpen(ctx, sessionID); err != nil {
		return nil, err
	}
	if err := s.Validate(info); err != nil {
		return nil, err
	}

	infoJSON, err := json.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("failed to encode customer info: %w", err)
	}

	row, err := s.repo.UpdateCheckoutCustomerInfo(ctx, repository.UpdateCheckoutCustomerInfoParams{
		ID:           pgUUID(sessionID),
		CustomerInfo: infoJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store customer info: %w", err)
	}

	return toDomainSession(row)
}

// SelectPaymentMethod picks the payment method, enforcing the lens
// prepayment constraint.
func (s *checkoutService) SelectPaymentMethod(ctx context.Context, sessionID uuid.UUID, method domain.PaymentMethod) (*domain.CheckoutSession, error) {
	if method != domain.PaymentMethodCash && method != domain.PaymentMethodGateway {
		return nil, domain.Invalid("checkout.selectPaymentMethod", "Unknown payment method")
	}

	row, err := s.repo.GetCheckoutSession(ctx, pgUUID(sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get checkout session: %w", err)
	}
	if row.Status != string(domain.CheckoutStatusOpen) {
		return nil, ErrSessionClosed
	}

	if method == domain.PaymentMethodCash {
		summary, err := s.cartService.GetCartSummary(ctx, fromPgUUID(row.CartID))
		if err != nil {
			return nil, err
		}
		if summary.HasLensItems {
			return nil, ErrCashNotAllowed
		}
	}

	updated, err := s.repo.UpdateCheckoutPaymentMethod(ctx, repository.UpdateCheckoutPaymentMethodParams{
		ID:            row.ID,
		PaymentMethod: pgText(string(method)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store payment method: %w", err)
	}

	return toDomainSession(updated)
}

// ApplyPromoCode looks up a promo code and applies its flat discount.
// An empty code clears any applied promo.
func (s *checkoutService) ApplyPromoCode(ctx context.Context, sessionID uuid.UUID, code string) (*domain.Discount, error) {
	if err := s.requireOpen(ctx, sessionID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(code) == "" {
		_, err := s.repo.UpdateCheckoutPromo(ctx, repository.UpdateCheckoutPromoParams{
			ID: pgUUID(sessionID),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to clear promo: %w", err)
		}
		return &domain.Discount{}, nil
	}

	p, err := s.promos.Resolve(ctx, code)
	if err != nil {
		if errors.Is(err, promo.ErrUnknownCode) || errors.Is(err, promo.ErrExpiredCode) {
			return nil, ErrInvalidPromoCode
		}
		return nil, fmt.Errorf("failed to resolve promo code: %w", err)
	}

	_, err = s.repo.UpdateCheckoutPromo(ctx, repository.UpdateCheckoutPromoParams{
		ID:        pgUUID(sessionID),
		PromoCode: pgText(p.Code),
		Discount:  p.Amount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store promo: %w", err)
	}

	return &domain.Discount{Code: p.Code, Amount: p.Amount}, nil
}

// Submit finalizes the session: the cash path creates the order directly,
// the gateway path creates a hosted payment link.
func (s *checkoutService) Submit(ctx context.Context, sessionID uuid.UUID) (*domain.SubmitOutcome, error) {
	row, err := s.repo.GetCheckoutSession(ctx, pgUUID(sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get checkout session: %w", err)
	}
	if row.Status != string(domain.CheckoutStatusOpen) {
		return nil, ErrSessionClosed
	}

	session, err := toDomainSession(row)
	if err != nil {
		return nil, err
	}
	if session.CustomerInfo.FullName == "" {
		return nil, ErrCustomerInfoMissing
	}
	if err := s.Validate(session.CustomerInfo); err != nil {
		return nil, err
	}
	if session.PaymentMethod == "" {
		return nil, ErrPaymentMethodMissing
	}

	summary, err := s.cartService.GetCartSummary(ctx, fromPgUUID(row.CartID))
	if err != nil {
		return nil, err
	}
	if len(summary.Items) == 0 {
		return nil, ErrEmptyCart
	}

	// Re-quote shipping against the final cart state
	cost, err := s.shipping.Quote(ctx, shipping.QuoteParams{
		Subtotal:     summary.GrandTotal,
		HasLensItems: summary.HasLensItems,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to quote shipping: %w", err)
	}
	session.ShippingCost = cost

	switch session.PaymentMethod {
	case domain.PaymentMethodCash:
		return s.submitCash(ctx, session, summary)
	case domain.PaymentMethodGateway:
		return s.submitGateway(ctx, session, summary)
	default:
		return nil, domain.Invalid("checkout.submit", "Unknown payment method")
	}
}

func (s *checkoutService) submitCash(ctx context.Context, session *domain.CheckoutSession, summary *domain.CartSummary) (*domain.SubmitOutcome, error) {
	if summary.HasLensItems {
		return nil, ErrCashNotAllowed
	}

	orderCode, err := GenerateOrderCode()
	if err != nil {
		return nil, err
	}

	cc := &domain.CheckoutContext{
		OrderCode:    orderCode,
		SessionID:    session.ID,
		CartID:       session.CartID,
		CustomerInfo: session.CustomerInfo,
		Summary:      *summary,
		ShippingCost: session.ShippingCost,
		Discount:     session.Discount,
		PromoCode:    session.PromoCode,
	}

	order, err := s.orderService.CreateFromContext(ctx, cc, domain.PaymentStatusUnpaid, domain.PaymentMethodCash)
	if err != nil && !errors.Is(err, domain.ErrOrderAlreadyCreated) {
		return nil, err
	}

	if err := s.repo.UpdateCheckoutStatus(ctx, repository.UpdateCheckoutStatusParams{
		ID:     pgUUID(session.ID),
		Status: string(domain.CheckoutStatusCompleted),
	}); err != nil {
		return nil, fmt.Errorf("failed to close checkout session: %w", err)
	}

	return &domain.SubmitOutcome{Kind: domain.OutcomeOrderCreated, Order: order}, nil
}

func (s *checkoutService) submitGateway(ctx context.Context, session *domain.CheckoutSession, summary *domain.CartSummary) (*domain.SubmitOutcome, error) {
	s.mu.Lock()
	if _, busy := s.inflight[session.ID]; busy {
		s.mu.Unlock()
		return nil, ErrPaymentLinkInFlight
	}
	s.inflight[session.ID] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.inflight, session.ID)
		s.mu.Unlock()
	}()

	// Resubmitting while a link is still live returns the same link
	if attempt, err := s.repo.GetLatestPaymentAttemptBySession(ctx, pgUUID(session.ID)); err == nil {
		if attempt.Status == string(domain.AttemptStatusCreated) {
			return &domain.SubmitOutcome{
				Kind:    domain.OutcomeAwaitingPayment,
				Attempt: toDomainAttempt(attempt),
			}, nil
		}
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up payment attempts: %w", err)
	}

	orderCode, err := GenerateOrderCode()
	if err != nil {
		return nil, err
	}

	cc := &domain.CheckoutContext{
		OrderCode:    orderCode,
		SessionID:    session.ID,
		CartID:       session.CartID,
		CustomerInfo: session.CustomerInfo,
		Summary:      *summary,
		ShippingCost: session.ShippingCost,
		Discount:     session.Discount,
		PromoCode:    session.PromoCode,
	}
	payload, err := json.Marshal(cc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode checkout context: %w", err)
	}

	// The context snapshot must be durable before the customer leaves for
	// the gateway, otherwise a paid return has nothing to build from
	if _, err := s.repo.CreateCheckoutContext(ctx, repository.CreateCheckoutContextParams{
		OrderCode: orderCode,
		Payload:   payload,
	}); err != nil {
		return nil, fmt.Errorf("failed to store checkout context: %w", err)
	}

	items := make([]payment.LinkItem, 0, len(summary.Items))
	for _, ci := range summary.Items {
		items = append(items, payment.LinkItem{
			Name:     ci.ProductName,
			Quantity: ci.Quantity,
			Price:    ci.TotalPrice() / int64(ci.Quantity),
		})
	}

	link, err := s.provider.CreatePaymentLink(ctx, payment.CreateLinkParams{
		OrderCode:   orderCode,
		Amount:      session.PayableTotal(summary.GrandTotal),
		Description: fmt.Sprintf("DH%d", orderCode),
		Items:       items,
		BuyerName:   session.CustomerInfo.FullName,
		BuyerPhone:  session.CustomerInfo.Phone,
	})
	if err != nil {
		// Roll back the context slot so the code is not burned
		if delErr := s.repo.DeleteCheckoutContext(ctx, orderCode); delErr != nil {
			s.logger.Warn("failed to roll back checkout context",
				slog.Int64("order_code", orderCode),
				slog.String("error", delErr.Error()))
		}
		return nil, domain.WrapError(err, domain.EPAYMENT, "checkout.submit", "Failed to create payment link")
	}

	attempt, err := s.repo.CreatePaymentAttempt(ctx, repository.CreatePaymentAttemptParams{
		SessionID:   pgUUID(session.ID),
		OrderCode:   orderCode,
		CheckoutUrl: link.CheckoutURL,
		Status:      string(domain.AttemptStatusCreated),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record payment attempt: %w", err)
	}

	if err := s.repo.UpdateCheckoutStatus(ctx, repository.UpdateCheckoutStatusParams{
		ID:     pgUUID(session.ID),
		Status: string(domain.CheckoutStatusSubmitted),
	}); err != nil {
		return nil, fmt.Errorf("failed to mark session submitted: %w", err)
	}

	s.logger.Info("payment link created",
		slog.Int64("order_code", orderCode),
		slog.String("session_id", session.ID.String()))

	return &domain.SubmitOutcome{
		Kind:    domain.OutcomeAwaitingPayment,
		Attempt: toDomainAttempt(attempt),
	}, nil
}

func (s *checkoutService) requireOpen(ctx context.Context, sessionID uuid.UUID) error {
	row, err := s.repo.GetCheckoutSession(ctx, pgUUID(sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to get checkout session: %w", err)
	}
	if row.Status != string(domain.CheckoutStatusOpen) {
		return ErrSessionClosed
	}
	return nil
}

func toDomainSession(row repository.CheckoutSession) (*domain.CheckoutSession, error) {
	session := &domain.CheckoutSession{
		ID:            fromPgUUID(row.ID),
		CartID:        fromPgUUID(row.CartID),
		ShippingCost:  row.ShippingCost,
		PaymentMethod: domain.PaymentMethod(row.PaymentMethod.String),
		PromoCode:     row.PromoCode.String,
		Discount:      row.Discount,
		Status:        domain.CheckoutStatus(row.Status),
	}
	if len(row.CustomerInfo) > 0 {
		if err := json.Unmarshal(row.CustomerInfo, &session.CustomerInfo); err != nil {
			return nil, fmt.Errorf("failed to decode customer info: %w", err)
		}
	}
	return session, nil
}

func toDomainAttempt(row repository.PaymentAttempt) *domain.PaymentAttempt {
	return &domain.PaymentAttempt{
		ID:          fromPgUUID(row.ID),
		SessionID:   fromPgUUID(row.SessionID),
		OrderCode:   row.OrderCode,
		CheckoutURL: row.CheckoutUrl,
		Status:      domain.AttemptStatus(row.Status),
	}
}
