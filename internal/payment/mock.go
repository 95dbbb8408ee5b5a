package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MockProvider is a mock payment provider for testing.
// Simulates hosted payment link creation without calling the gateway.
type MockProvider struct {
	// CreatePaymentLinkFunc allows customizing link creation behavior
	CreatePaymentLinkFunc func(ctx context.Context, params CreateLinkParams) (*PaymentLink, error)

	// GetPaymentLinkFunc allows customizing link retrieval behavior
	GetPaymentLinkFunc func(ctx context.Context, orderCode int64) (*PaymentLink, error)

	// CancelPaymentLinkFunc allows customizing cancellation behavior
	CancelPaymentLinkFunc func(ctx context.Context, orderCode int64, reason string) error

	// Links stores created payment links for retrieval
	Links map[int64]*PaymentLink

	// CallLog tracks method calls for test assertions
	CallLog []string
}

// NewMockProvider creates a new mock payment provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Links:   make(map[int64]*PaymentLink),
		CallLog: []string{},
	}
}

// CreatePaymentLink creates a mock payment link.
func (m *MockProvider) CreatePaymentLink(ctx context.Context, params CreateLinkParams) (*PaymentLink, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("CreatePaymentLink(%d, %d)", params.OrderCode, params.Amount))

	if m.CreatePaymentLinkFunc != nil {
		return m.CreatePaymentLinkFunc(ctx, params)
	}

	if _, exists := m.Links[params.OrderCode]; exists {
		return nil, ErrDuplicateOrderCode
	}

	link := &PaymentLink{
		PaymentLinkID: uuid.New().String(),
		OrderCode:     params.OrderCode,
		CheckoutURL:   fmt.Sprintf("https://pay.example.com/web/%d", params.OrderCode),
		Amount:        params.Amount,
		Status:        "PENDING",
		CreatedAt:     time.Now(),
	}
	m.Links[params.OrderCode] = link
	return link, nil
}

// GetPaymentLink retrieves a mock payment link.
func (m *MockProvider) GetPaymentLink(ctx context.Context, orderCode int64) (*PaymentLink, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("GetPaymentLink(%d)", orderCode))

	if m.GetPaymentLinkFunc != nil {
		return m.GetPaymentLinkFunc(ctx, orderCode)
	}

	link, exists := m.Links[orderCode]
	if !exists {
		return nil, ErrLinkNotFound
	}
	return link, nil
}

// CancelPaymentLink cancels a mock payment link.
func (m *MockProvider) CancelPaymentLink(ctx context.Context, orderCode int64, reason string) error {
	m.CallLog = append(m.CallLog, fmt.Sprintf("CancelPaymentLink(%d)", orderCode))

	if m.CancelPaymentLinkFunc != nil {
		return m.CancelPaymentLinkFunc(ctx, orderCode, reason)
	}

	link, exists := m.Links[orderCode]
	if !exists {
		return ErrLinkNotFound
	}
	link.Status = "CANCELLED"
	return nil
}

var _ Provider = (*MockProvider)(nil)
