package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/payment"
)

// tokenSkew is subtracted from the reported token lifetime so a token is
// refreshed before the provider actually rejects it.
const tokenSkew = 60 * time.Second

// PayPalAdapter implements payment.Gateway against the PayPal REST API
type PayPalAdapter struct {
	config     PayPalConfig
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

var _ payment.Gateway = (*PayPalAdapter)(nil)

// NewPayPalAdapter creates a new PayPal adapter
func NewPayPalAdapter(cfg PayPalConfig, logger *zap.Logger) (*PayPalAdapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PayPalAdapter{
		config:  cfg,
		baseURL: cfg.BaseURL(),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.Named("paypal"),
	}, nil
}

// CreatePayment opens a payment session and returns the approval handle
func (a *PayPalAdapter) CreatePayment(ctx context.Context, req *payment.CreatePaymentRequest) (*payment.CreatePaymentResponse, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("paypal: payment requires at least one item")
	}
	if !req.Total.IsPositive() {
		return nil, fmt.Errorf("paypal: payment total must be positive")
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	items := make([]paypalItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, paypalItem{
			Name:     it.Name,
			SKU:      it.SKU,
			Price:    it.UnitPrice.StringFixed(2),
			Currency: currency,
			Quantity: it.Quantity,
		})
	}

	body := paypalCreatePaymentRequest{
		Intent: "sale",
		Payer:  paypalPayer{PaymentMethod: "paypal"},
		Transactions: []paypalTransaction{{
			Amount: paypalAmount{
				Total:    req.Total.StringFixed(2),
				Currency: currency,
				Details: &paypalAmountDetails{
					Subtotal: req.Subtotal.StringFixed(2),
					Tax:      req.Tax.StringFixed(2),
					Shipping: req.Shipping.StringFixed(2),
				},
			},
			Description: req.Description,
			InvoiceNo:   req.ReferenceID,
			ItemList:    &paypalItemList{Items: items},
		}},
		RedirectURLs: paypalRedirectURLs{
			ReturnURL: a.config.ReturnURL,
			CancelURL: a.config.CancelURL,
		},
	}

	var resp paypalPaymentResponse
	if err := a.doJSON(ctx, http.MethodPost, "/v1/payments/payment", body, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("paypal: create payment returned no payment ID")
	}

	approvalURL := ""
	for _, link := range resp.Links {
		if link.Rel == "approval_url" {
			approvalURL = link.Href
			break
		}
	}

	a.logger.Info("created paypal payment",
		zap.String("payment_id", resp.ID),
		zap.String("reference", req.ReferenceID),
		zap.String("state", resp.State))

	return &payment.CreatePaymentResponse{
		PaymentID:   resp.ID,
		ApprovalURL: approvalURL,
		State:       resp.State,
	}, nil
}

// ExecutePayment captures an approved session
func (a *PayPalAdapter) ExecutePayment(ctx context.Context, req *payment.ExecutePaymentRequest) (*payment.ExecutePaymentResponse, error) {
	if req.PaymentID == "" || req.PayerID == "" {
		return nil, fmt.Errorf("paypal: payment ID and payer ID are required")
	}

	path := fmt.Sprintf("/v1/payments/payment/%s/execute", url.PathEscape(req.PaymentID))
	var resp paypalPaymentResponse
	if err := a.doJSON(ctx, http.MethodPost, path, paypalExecuteRequest{PayerID: req.PayerID}, &resp); err != nil {
		return nil, err
	}

	result := &payment.ExecutePaymentResponse{
		PaymentID: resp.ID,
		State:     strings.ToLower(resp.State),
	}
	if resp.Payer != nil && resp.Payer.PayerInfo != nil {
		result.PayerEmail = resp.Payer.PayerInfo.Email
	}
	for _, tx := range resp.Transactions {
		for _, rel := range tx.RelatedResources {
			if rel.Sale != nil {
				result.TransactionID = rel.Sale.ID
			}
		}
	}

	if !result.Approved() {
		a.logger.Warn("paypal payment not approved",
			zap.String("payment_id", req.PaymentID),
			zap.String("state", result.State))
		return result, fmt.Errorf("paypal: payment %s not approved, state %q", req.PaymentID, result.State)
	}

	a.logger.Info("executed paypal payment",
		zap.String("payment_id", result.PaymentID),
		zap.String("transaction_id", result.TransactionID))

	return result, nil
}

// ParseWebhookEvent decodes a provider notification payload
func (a *PayPalAdapter) ParseWebhookEvent(payload []byte) (*payment.WebhookEvent, error) {
	var envelope paypalWebhookEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("paypal: invalid webhook payload: %w", err)
	}
	if envelope.EventType == "" {
		return nil, fmt.Errorf("paypal: webhook payload missing event_type")
	}

	event := &payment.WebhookEvent{
		ID:          envelope.ID,
		EventType:   envelope.EventType,
		Summary:     envelope.Summary,
		RawResource: envelope.Resource,
	}
	var resource paypalWebhookResource
	if err := json.Unmarshal(envelope.Resource, &resource); err == nil {
		event.ResourceID = resource.ID
	}
	return event, nil
}

// token returns a cached OAuth2 access token, fetching a new one when
// the cached token is absent or near expiry.
func (a *PayPalAdapter) token(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.accessToken != "" && time.Now().Before(a.tokenExpiry) {
		return a.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("paypal: build token request: %w", err)
	}
	req.SetBasicAuth(a.config.ClientID, a.config.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("paypal: token request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("paypal: read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal: token request returned status %d", resp.StatusCode)
	}

	var tokenResp paypalTokenResponse
	if err := json.Unmarshal(data, &tokenResp); err != nil {
		return "", fmt.Errorf("paypal: decode token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("paypal: token response missing access_token")
	}

	a.accessToken = tokenResp.AccessToken
	a.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn)*time.Second - tokenSkew)

	return a.accessToken, nil
}

// doJSON performs an authenticated JSON request against the REST API
func (a *PayPalAdapter) doJSON(ctx context.Context, method, path string, body, out any) error {
	token, err := a.token(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("paypal: encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("paypal: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("paypal: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("paypal: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr paypalErrorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Name != "" {
			return fmt.Errorf("paypal: %s: %s (status %d, debug %s)",
				apiErr.Name, apiErr.Message, resp.StatusCode, apiErr.DebugID)
		}
		return fmt.Errorf("paypal: request returned status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("paypal: decode response: %w", err)
		}
	}
	return nil
}

// SetBaseURLForTesting points the adapter at a local test server
func (a *PayPalAdapter) SetBaseURLForTesting(baseURL string) {
	a.baseURL = baseURL
}
