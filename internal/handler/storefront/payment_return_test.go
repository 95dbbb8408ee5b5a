package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lenshaus/atelier/internal/domain"
)

// mockReconcileService implements domain.ReconcileService for testing
type mockReconcileService struct {
	handleReturnFunc func(ctx context.Context, params domain.ReturnParams) (*domain.ReconcileResult, error)
}

func (m *mockReconcileService) HandleReturn(ctx context.Context, params domain.ReturnParams) (*domain.ReconcileResult, error) {
	if m.handleReturnFunc != nil {
		return m.handleReturnFunc(ctx, params)
	}
	return nil, nil
}

var _ domain.ReconcileService = (*mockReconcileService)(nil)

func TestPaymentReturnHandler_Return(t *testing.T) {
	t.Run("paid verdict returns the order", func(t *testing.T) {
		svc := &mockReconcileService{
			handleReturnFunc: func(ctx context.Context, params domain.ReturnParams) (*domain.ReconcileResult, error) {
				if params.Code != "00" || params.Status != "PAID" || params.OrderCode != 1756000000123 {
					t.Errorf("query params not parsed: %+v", params)
				}
				return &domain.ReconcileResult{
					Verdict: domain.VerdictPaid,
					Order: &domain.Order{
						OrderCode:     params.OrderCode,
						Status:        domain.OrderStatusPending,
						PaymentMethod: domain.PaymentMethodGateway,
						PaymentStatus: domain.PaymentStatusPaid,
						Total:         500000,
						CreatedAt:     time.Now(),
					},
				}, nil
			},
		}
		h := NewPaymentReturnHandler(svc, testMetrics)

		req := httptest.NewRequest(http.MethodGet, "/payment/return?code=00&status=PAID&orderCode=1756000000123", nil)
		rec := httptest.NewRecorder()
		h.Return(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Verdict string `json:"verdict"`
			Order   struct {
				PaymentStatus string `json:"payment_status"`
			} `json:"order"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Verdict != "PAID" || resp.Order.PaymentStatus != "PAID" {
			t.Errorf("unexpected response: %+v", resp)
		}
	})

	t.Run("pending verdict answers 202", func(t *testing.T) {
		svc := &mockReconcileService{
			handleReturnFunc: func(ctx context.Context, params domain.ReturnParams) (*domain.ReconcileResult, error) {
				return &domain.ReconcileResult{Verdict: domain.VerdictPending}, nil
			},
		}
		h := NewPaymentReturnHandler(svc, testMetrics)

		req := httptest.NewRequest(http.MethodGet, "/payment/return?status=PENDING&orderCode=1756000000123", nil)
		rec := httptest.NewRecorder()
		h.Return(rec, req)

		if rec.Code != http.StatusAccepted {
			t.Errorf("status = %d, want 202", rec.Code)
		}
	})

	t.Run("failed verdict is retryable", func(t *testing.T) {
		svc := &mockReconcileService{
			handleReturnFunc: func(ctx context.Context, params domain.ReturnParams) (*domain.ReconcileResult, error) {
				return &domain.ReconcileResult{Verdict: domain.VerdictFailed, Retryable: true}, nil
			},
		}
		h := NewPaymentReturnHandler(svc, testMetrics)

		req := httptest.NewRequest(http.MethodGet, "/payment/return?code=01&orderCode=1756000000123", nil)
		rec := httptest.NewRecorder()
		h.Return(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var resp struct {
			Verdict   string `json:"verdict"`
			Retryable bool   `json:"retryable"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Verdict != "FAILED" || !resp.Retryable {
			t.Errorf("unexpected response: %+v", resp)
		}
	})

	t.Run("unknown order code answers 404", func(t *testing.T) {
		svc := &mockReconcileService{
			handleReturnFunc: func(ctx context.Context, params domain.ReturnParams) (*domain.ReconcileResult, error) {
				return nil, domain.Errorf(domain.ENOTFOUND, "reconcile.handle_return", "No payment attempt matches this order code")
			},
		}
		h := NewPaymentReturnHandler(svc, testMetrics)

		req := httptest.NewRequest(http.MethodGet, "/payment/return?code=00&status=PAID&orderCode=42", nil)
		rec := httptest.NewRecorder()
		h.Return(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestPaymentReturnHandler_Cancel(t *testing.T) {
	// The cancel endpoint must report a cancellation even when the query
	// string claims a successful payment
	svc := &mockReconcileService{
		handleReturnFunc: func(ctx context.Context, params domain.ReturnParams) (*domain.ReconcileResult, error) {
			if !params.Cancel {
				t.Error("cancel flag was not forced on the cancel route")
			}
			return &domain.ReconcileResult{Verdict: domain.VerdictCancelled, Retryable: true}, nil
		},
	}
	h := NewPaymentReturnHandler(svc, testMetrics)

	req := httptest.NewRequest(http.MethodGet, "/payment/cancel?code=00&status=PAID&orderCode=1756000000123", nil)
	rec := httptest.NewRecorder()
	h.Cancel(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Verdict string `json:"verdict"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Verdict != "CANCELLED" {
		t.Errorf("verdict = %q, want CANCELLED", resp.Verdict)
	}
}
