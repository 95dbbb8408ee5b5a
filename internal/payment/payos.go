package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// PayOSConfig configures the PayOS merchant API client.
type PayOSConfig struct {
	ClientID    string
	APIKey      string
	ChecksumKey string
	BaseURL     string
	ReturnURL   string
	CancelURL   string
	Timeout     time.Duration
}

// PayOSProvider implements Provider against the PayOS merchant API.
type PayOSProvider struct {
	cfg    PayOSConfig
	client *http.Client
}

// NewPayOSProvider creates a new PayOS payment provider.
func NewPayOSProvider(cfg PayOSConfig) (*PayOSProvider, error) {
	if cfg.ClientID == "" || cfg.APIKey == "" || cfg.ChecksumKey == "" {
		return nil, ErrMissingCredentials
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api-merchant.payos.vn"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &PayOSProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type createLinkRequest struct {
	OrderCode   int64      `json:"orderCode"`
	Amount      int64      `json:"amount"`
	Description string     `json:"description"`
	BuyerName   string     `json:"buyerName,omitempty"`
	BuyerPhone  string     `json:"buyerPhone,omitempty"`
	Items       []LinkItem `json:"items,omitempty"`
	CancelUrl   string     `json:"cancelUrl"`
	ReturnUrl   string     `json:"returnUrl"`
	Signature   string     `json:"signature"`
}

// linkData mirrors the gateway's payment-request payload. Field presence
// varies between API revisions, every field is optional on decode.
type linkData struct {
	OrderCode     int64  `json:"orderCode"`
	Amount        int64  `json:"amount"`
	AmountPaid    int64  `json:"amountPaid"`
	Status        string `json:"status"`
	PaymentLinkID string `json:"paymentLinkId"`
	CheckoutUrl   string `json:"checkoutUrl"`
	CreatedAt     string `json:"createdAt"`
}

type gatewayResponse struct {
	Code        string    `json:"code"`
	Desc        string    `json:"desc"`
	Data        *linkData `json:"data"`
	CheckoutUrl string    `json:"checkoutUrl"`
	Signature   string    `json:"signature"`
}

// CreatePaymentLink creates a hosted payment page for one order.
func (p *PayOSProvider) CreatePaymentLink(ctx context.Context, params CreateLinkParams) (*PaymentLink, error) {
	body := createLinkRequest{
		OrderCode:   params.OrderCode,
		Amount:      params.Amount,
		Description: params.Description,
		BuyerName:   params.BuyerName,
		BuyerPhone:  params.BuyerPhone,
		Items:       params.Items,
		CancelUrl:   p.cfg.CancelURL,
		ReturnUrl:   p.cfg.ReturnURL,
	}
	body.Signature = p.sign(body)

	var resp gatewayResponse
	if err := p.do(ctx, http.MethodPost, "/v2/payment-requests", body, &resp); err != nil {
		return nil, err
	}
	if resp.Code != "00" {
		gwErr := &GatewayError{Code: resp.Code, Desc: resp.Desc}
		// 231 is PayOS's duplicate order code response
		if resp.Code == "231" {
			gwErr.OriginalError = ErrDuplicateOrderCode
		}
		return nil, gwErr
	}

	link, err := toPaymentLink(&resp)
	if err != nil {
		return nil, err
	}
	if link.OrderCode == 0 {
		link.OrderCode = params.OrderCode
	}
	if link.Amount == 0 {
		link.Amount = params.Amount
	}
	return link, nil
}

// GetPaymentLink retrieves the gateway's view of a payment link.
func (p *PayOSProvider) GetPaymentLink(ctx context.Context, orderCode int64) (*PaymentLink, error) {
	var resp gatewayResponse
	path := fmt.Sprintf("/v2/payment-requests/%d", orderCode)
	if err := p.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Code != "00" {
		if resp.Code == "101" {
			return nil, ErrLinkNotFound
		}
		return nil, &GatewayError{Code: resp.Code, Desc: resp.Desc}
	}
	return toPaymentLink(&resp)
}

// CancelPaymentLink cancels a link that has not been paid yet.
func (p *PayOSProvider) CancelPaymentLink(ctx context.Context, orderCode int64, reason string) error {
	body := map[string]string{"cancellationReason": reason}
	var resp gatewayResponse
	path := fmt.Sprintf("/v2/payment-requests/%d/cancel", orderCode)
	if err := p.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return err
	}
	if resp.Code != "00" {
		return &GatewayError{Code: resp.Code, Desc: resp.Desc}
	}
	return nil
}

// sign computes the request checksum: HMAC-SHA256 over the five standard
// fields in alphabetical key order, hex encoded.
func (p *PayOSProvider) sign(r createLinkRequest) string {
	payload := fmt.Sprintf("amount=%d&cancelUrl=%s&description=%s&orderCode=%d&returnUrl=%s",
		r.Amount, r.CancelUrl, r.Description, r.OrderCode, r.ReturnUrl)
	mac := hmac.New(sha256.New, []byte(p.cfg.ChecksumKey))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func (p *PayOSProvider) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.cfg.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("x-client-id", p.cfg.ClientID)
	req.Header.Set("x-api-key", p.cfg.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return &GatewayError{Desc: "request failed", OriginalError: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &GatewayError{Desc: "failed to read response", HTTPStatus: resp.StatusCode, OriginalError: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &GatewayError{Desc: string(raw), HTTPStatus: resp.StatusCode}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &GatewayError{Desc: "failed to decode response", HTTPStatus: resp.StatusCode, OriginalError: err}
	}
	return nil
}

// toPaymentLink extracts a PaymentLink from a gateway response. The checkout
// URL moved between fields across API revisions, so probe in order: the data
// object, the top-level field, then build it from the payment link ID.
func toPaymentLink(resp *gatewayResponse) (*PaymentLink, error) {
	link := &PaymentLink{}
	if resp.Data != nil {
		link.OrderCode = resp.Data.OrderCode
		link.Amount = resp.Data.Amount
		link.AmountPaid = resp.Data.AmountPaid
		link.Status = resp.Data.Status
		link.PaymentLinkID = resp.Data.PaymentLinkID
		link.CheckoutURL = resp.Data.CheckoutUrl
		if resp.Data.CreatedAt != "" {
			if t, err := time.Parse(time.RFC3339, resp.Data.CreatedAt); err == nil {
				link.CreatedAt = t
			}
		}
	}
	if link.CheckoutURL == "" {
		link.CheckoutURL = resp.CheckoutUrl
	}
	if link.CheckoutURL == "" && link.PaymentLinkID != "" {
		link.CheckoutURL = "https://pay.payos.vn/web/" + link.PaymentLinkID
	}
	if link.CheckoutURL == "" {
		return nil, ErrNoCheckoutURL
	}
	return link, nil
}
