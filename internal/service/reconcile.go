package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/lenshaus/atelier/internal/domain"
	"github.com/lenshaus/atelier/internal/payment"
	"github.com/lenshaus/atelier/internal/repository"
)

type reconcileService struct {
	repo         repository.Querier
	orderService domain.OrderService
	provider     payment.Provider
	logger       *slog.Logger

	// settling guards paid settlement per order code: the gateway redirect
	// and a customer refresh can land at the same time. The unique order
	// code index is the real idempotency barrier; this just keeps the two
	// requests from racing through order creation together.
	mu       sync.Mutex
	settling map[int64]struct{}
}

// NewReconcileService creates a new ReconcileService instance.
func NewReconcileService(repo repository.Querier, orderService domain.OrderService, provider payment.Provider, logger *slog.Logger) domain.ReconcileService {
	return &reconcileService{
		repo:         repo,
		orderService: orderService,
		provider:     provider,
		logger:       logger,
		settling:     make(map[int64]struct{}),
	}
}

// HandleReturn classifies the return parameters and drives the attempt to a
// terminal state. Paid verdicts create the order exactly once per order
// code; failed and cancelled verdicts release the session so the customer
// can submit again.
func (s *reconcileService) HandleReturn(ctx context.Context, params domain.ReturnParams) (*domain.ReconcileResult, error) {
	if params.OrderCode == 0 {
		return nil, ErrUnknownOrderCode
	}

	attempt, err := s.repo.GetPaymentAttemptByOrderCode(ctx, params.OrderCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnknownOrderCode
		}
		return nil, fmt.Errorf("failed to load payment attempt: %w", err)
	}

	verdict := params.Classify()

	// Redirect parameters are customer-controlled: anyone can paste a
	// success URL, and order codes are guessable, so a forged cancel or
	// failure hit cannot be trusted either. Every verdict is checked
	// against the gateway before any state is touched -- a release
	// deletes the checkout context, and doing that for a link the
	// gateway has already settled would strand captured money.
	link, err := s.provider.GetPaymentLink(ctx, params.OrderCode)
	if err != nil {
		return nil, domain.WrapError(err, domain.EPAYMENT, "reconcile.handleReturn", "Failed to verify payment with gateway")
	}
	switch {
	case link.Paid():
		verdict = domain.VerdictPaid
	case link.Status == "CANCELLED" || link.Status == "EXPIRED":
		if verdict != domain.VerdictCancelled {
			verdict = domain.VerdictFailed
		}
	case verdict == domain.VerdictCancelled:
		// The customer backed out of a link that is still open. Close it
		// gateway side before the release, so the stale payment page
		// cannot collect money after the checkout context is gone.
		if err := s.provider.CancelPaymentLink(ctx, params.OrderCode, "cancelled by customer"); err != nil {
			return nil, domain.WrapError(err, domain.EPAYMENT, "reconcile.handleReturn", "Failed to cancel payment with gateway")
		}
	default:
		// A failure redirect for a link the gateway still considers open
		// proves nothing; keep the attempt recoverable
		verdict = domain.VerdictPending
	}

	switch verdict {
	case domain.VerdictPaid:
		return s.settlePaid(ctx, attempt)
	case domain.VerdictCancelled:
		return s.release(ctx, attempt, domain.AttemptStatusCancelled, domain.VerdictCancelled)
	case domain.VerdictPending:
		// Leave everything in place: the same order code can be re-polled
		// until the gateway settles
		return &domain.ReconcileResult{Verdict: domain.VerdictPending}, nil
	default:
		return s.release(ctx, attempt, domain.AttemptStatusFailed, domain.VerdictFailed)
	}
}

// settlePaid turns a confirmed payment into an order.
func (s *reconcileService) settlePaid(ctx context.Context, attempt repository.PaymentAttempt) (*domain.ReconcileResult, error) {
	s.mu.Lock()
	if _, busy := s.settling[attempt.OrderCode]; busy {
		s.mu.Unlock()
		// Another request is creating this order right now; report pending
		// and let the caller poll again
		return &domain.ReconcileResult{Verdict: domain.VerdictPending}, nil
	}
	s.settling[attempt.OrderCode] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.settling, attempt.OrderCode)
		s.mu.Unlock()
	}()

	// A replayed success redirect lands here after the context was
	// consumed; the stored order answers it
	if existing, err := s.orderService.GetByOrderCode(ctx, attempt.OrderCode); err == nil {
		return &domain.ReconcileResult{Verdict: domain.VerdictPaid, Order: existing}, nil
	} else if domain.ErrorCode(err) != domain.ENOTFOUND {
		return nil, err
	}

	ccRow, err := s.repo.GetCheckoutContext(ctx, attempt.OrderCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Paid but no snapshot and no order: needs manual follow-up
			s.logger.Error("checkout context missing for paid order",
				slog.Int64("order_code", attempt.OrderCode))
			return nil, ErrContextMissing
		}
		return nil, fmt.Errorf("failed to load checkout context: %w", err)
	}

	var cc domain.CheckoutContext
	if err := json.Unmarshal(ccRow.Payload, &cc); err != nil {
		return nil, fmt.Errorf("failed to decode checkout context: %w", err)
	}

	order, err := s.orderService.CreateFromContext(ctx, &cc, domain.PaymentStatusPaid, domain.PaymentMethodGateway)
	if err != nil && !errors.Is(err, domain.ErrOrderAlreadyCreated) {
		// The context row survives, so the customer's next refresh or the
		// gateway's next redirect retries order creation
		return nil, err
	}

	if err := s.repo.UpdatePaymentAttemptStatus(ctx, repository.UpdatePaymentAttemptStatusParams{
		OrderCode: attempt.OrderCode,
		Status:    string(domain.AttemptStatusPaid),
	}); err != nil {
		s.logger.Warn("failed to mark payment attempt paid",
			slog.Int64("order_code", attempt.OrderCode),
			slog.String("error", err.Error()))
	}
	if err := s.repo.UpdateCheckoutStatus(ctx, repository.UpdateCheckoutStatusParams{
		ID:     attempt.SessionID,
		Status: string(domain.CheckoutStatusCompleted),
	}); err != nil {
		s.logger.Warn("failed to complete checkout session",
			slog.Int64("order_code", attempt.OrderCode),
			slog.String("error", err.Error()))
	}

	s.logger.Info("order created from paid return",
		slog.Int64("order_code", attempt.OrderCode))

	return &domain.ReconcileResult{Verdict: domain.VerdictPaid, Order: order}, nil
}

// release records a terminal non-paid attempt state and reopens the session
// so the cart survives for another try.
func (s *reconcileService) release(ctx context.Context, attempt repository.PaymentAttempt, status domain.AttemptStatus, verdict domain.ReturnVerdict) (*domain.ReconcileResult, error) {
	if err := s.repo.UpdatePaymentAttemptStatus(ctx, repository.UpdatePaymentAttemptStatusParams{
		OrderCode: attempt.OrderCode,
		Status:    string(status),
	}); err != nil {
		return nil, fmt.Errorf("failed to update payment attempt: %w", err)
	}

	if err := s.repo.UpdateCheckoutStatus(ctx, repository.UpdateCheckoutStatusParams{
		ID:     attempt.SessionID,
		Status: string(domain.CheckoutStatusOpen),
	}); err != nil {
		return nil, fmt.Errorf("failed to reopen checkout session: %w", err)
	}

	// The stale snapshot is removed; a future submit writes a fresh one
	// under a new order code
	if err := s.repo.DeleteCheckoutContext(ctx, attempt.OrderCode); err != nil {
		s.logger.Warn("failed to delete checkout context",
			slog.Int64("order_code", attempt.OrderCode),
			slog.String("error", err.Error()))
	}

	return &domain.ReconcileResult{Verdict: verdict, Retryable: true}, nil
}
