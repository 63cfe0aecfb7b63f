package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/payment"
)

func testConfig() PayPalConfig {
	return PayPalConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Mode:         "sandbox",
		ReturnURL:    "https://store.example/checkout/return",
		CancelURL:    "https://store.example/checkout/cancel",
	}
}

func newTestAdapter(t *testing.T, serverURL string) *PayPalAdapter {
	adapter, err := NewPayPalAdapter(testConfig(), nil)
	require.NoError(t, err)
	adapter.SetBaseURLForTesting(serverURL)
	return adapter
}

// paypalServer fakes the token endpoint plus one API route
func paypalServer(t *testing.T, route string, handler http.HandlerFunc) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token": "fake-token", "token_type": "Bearer", "expires_in": 3600}`))
	})
	if route != "" {
		mux.HandleFunc(route, handler)
	}
	return httptest.NewServer(mux)
}

func createRequest() *payment.CreatePaymentRequest {
	return &payment.CreatePaymentRequest{
		ReferenceID: "ORD-1700000000",
		Description: "Storefront order ORD-1700000000",
		Items: []payment.Item{
			{Name: "Keyboard", SKU: "KB-1", Quantity: 1, UnitPrice: decimal.NewFromFloat(49.99)},
		},
		Subtotal: decimal.NewFromFloat(49.99),
		Tax:      decimal.NewFromFloat(5.00),
		Shipping: decimal.Zero,
		Total:    decimal.NewFromFloat(54.99),
		Currency: "USD",
	}
}

func TestPayPalConfig_Validate(t *testing.T) {
	cfg := testConfig()
	require.NoError(t, cfg.Validate())

	missing := testConfig()
	missing.ClientID = ""
	assert.ErrorIs(t, missing.Validate(), ErrPayPalMissingClientID)

	badMode := testConfig()
	badMode.Mode = "staging"
	assert.ErrorIs(t, badMode.Validate(), ErrPayPalInvalidMode)

	noReturn := testConfig()
	noReturn.ReturnURL = ""
	assert.ErrorIs(t, noReturn.Validate(), ErrPayPalMissingReturnURL)

	// Empty mode defaults to sandbox
	defaulted := testConfig()
	defaulted.Mode = ""
	require.NoError(t, defaulted.Validate())
	assert.Equal(t, "sandbox", defaulted.Mode)
}

func TestPayPalConfig_BaseURL(t *testing.T) {
	cfg := testConfig()
	assert.Contains(t, cfg.BaseURL(), "sandbox")

	cfg.Mode = "live"
	assert.NotContains(t, cfg.BaseURL(), "sandbox")
}

func TestCreatePayment(t *testing.T) {
	var gotBody map[string]any
	server := paypalServer(t, "/v1/payments/payment", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer fake-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{
			"id": "PAY-123",
			"state": "created",
			"links": [
				{"href": "https://sandbox.paypal.com/self", "rel": "self"},
				{"href": "https://sandbox.paypal.com/approve/PAY-123", "rel": "approval_url"}
			]
		}`))
	})
	defer server.Close()

	adapter := newTestAdapter(t, server.URL)
	resp, err := adapter.CreatePayment(context.Background(), createRequest())
	require.NoError(t, err)

	assert.Equal(t, "PAY-123", resp.PaymentID)
	assert.Equal(t, "https://sandbox.paypal.com/approve/PAY-123", resp.ApprovalURL)
	assert.Equal(t, "created", resp.State)
	assert.Equal(t, "sale", gotBody["intent"])
}

func TestCreatePayment_Validation(t *testing.T) {
	adapter := newTestAdapter(t, "http://unused")

	req := createRequest()
	req.Items = nil
	_, err := adapter.CreatePayment(context.Background(), req)
	assert.Error(t, err)

	req = createRequest()
	req.Total = decimal.Zero
	_, err = adapter.CreatePayment(context.Background(), req)
	assert.Error(t, err)
}

func TestCreatePayment_ProviderError(t *testing.T) {
	server := paypalServer(t, "/v1/payments/payment", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"name": "VALIDATION_ERROR", "message": "Invalid request", "debug_id": "abc123"}`))
	})
	defer server.Close()

	adapter := newTestAdapter(t, server.URL)
	_, err := adapter.CreatePayment(context.Background(), createRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VALIDATION_ERROR")
}

func TestExecutePayment(t *testing.T) {
	server := paypalServer(t, "/v1/payments/payment/PAY-123/execute", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "PAYER-1", body["payer_id"])
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "PAY-123",
			"state": "approved",
			"payer": {"payer_info": {"email": "buyer@example.com"}},
			"transactions": [{
				"related_resources": [{"sale": {"id": "SALE-9", "state": "completed"}}]
			}]
		}`))
	})
	defer server.Close()

	adapter := newTestAdapter(t, server.URL)
	resp, err := adapter.ExecutePayment(context.Background(), &payment.ExecutePaymentRequest{
		PaymentID: "PAY-123",
		PayerID:   "PAYER-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "PAY-123", resp.PaymentID)
	assert.Equal(t, "approved", resp.State)
	assert.Equal(t, "SALE-9", resp.TransactionID)
	assert.Equal(t, "buyer@example.com", resp.PayerEmail)
	assert.True(t, resp.Approved())
}

func TestExecutePayment_NotApproved(t *testing.T) {
	server := paypalServer(t, "/v1/payments/payment/PAY-123/execute", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "PAY-123", "state": "failed"}`))
	})
	defer server.Close()

	adapter := newTestAdapter(t, server.URL)
	_, err := adapter.ExecutePayment(context.Background(), &payment.ExecutePaymentRequest{
		PaymentID: "PAY-123",
		PayerID:   "PAYER-1",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not approved")
}

func TestExecutePayment_RequiresIDs(t *testing.T) {
	adapter := newTestAdapter(t, "http://unused")

	_, err := adapter.ExecutePayment(context.Background(), &payment.ExecutePaymentRequest{PaymentID: "PAY-1"})
	assert.Error(t, err)
}

func TestTokenIsCached(t *testing.T) {
	tokenCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token": "fake-token", "expires_in": 3600}`))
	})
	mux.HandleFunc("/v1/payments/payment", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "PAY-1", "state": "created"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	adapter := newTestAdapter(t, server.URL)
	for i := 0; i < 3; i++ {
		_, err := adapter.CreatePayment(context.Background(), createRequest())
		require.NoError(t, err)
	}
	assert.Equal(t, 1, tokenCalls)
}

func TestParseWebhookEvent(t *testing.T) {
	adapter := newTestAdapter(t, "http://unused")

	event, err := adapter.ParseWebhookEvent([]byte(`{
		"id": "WH-1",
		"event_type": "PAYMENT.SALE.COMPLETED",
		"summary": "Payment completed",
		"resource": {"id": "SALE-9"}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "WH-1", event.ID)
	assert.Equal(t, "PAYMENT.SALE.COMPLETED", event.EventType)
	assert.Equal(t, "SALE-9", event.ResourceID)

	_, err = adapter.ParseWebhookEvent([]byte(`not json`))
	assert.Error(t, err)

	_, err = adapter.ParseWebhookEvent([]byte(`{"id": "WH-2"}`))
	assert.Error(t, err)
}
