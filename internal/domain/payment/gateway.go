package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

// Item describes one purchasable line sent to the payment provider
type Item struct {
	Name      string
	SKU       string
	Quantity  int
	UnitPrice decimal.Decimal
	Currency  string
}

// CreatePaymentRequest contains everything needed to open a payment
// session with the provider.
type CreatePaymentRequest struct {
	ReferenceID string // our order number or cart reference
	Description string
	Items       []Item
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	Shipping    decimal.Decimal
	Total       decimal.Decimal
	Currency    string
}

// CreatePaymentResponse is the provider's handle for an approved-pending
// payment session.
type CreatePaymentResponse struct {
	PaymentID   string
	ApprovalURL string
	State       string
}

// ExecutePaymentRequest captures a previously approved payment
type ExecutePaymentRequest struct {
	PaymentID string
	PayerID   string
}

// ExecutePaymentResponse reports the capture outcome
type ExecutePaymentResponse struct {
	PaymentID     string
	State         string
	TransactionID string
	PayerEmail    string
}

// Approved reports whether the provider accepted the capture
func (r *ExecutePaymentResponse) Approved() bool {
	return r.State == "approved" || r.State == "completed"
}

// WebhookEvent is a parsed provider notification
type WebhookEvent struct {
	ID          string
	EventType   string
	ResourceID  string
	Summary     string
	RawResource []byte
}

// Gateway is the port for an external payment provider.
// Implementations live in infrastructure.
type Gateway interface {
	// CreatePayment opens a payment session and returns the approval handle.
	CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*CreatePaymentResponse, error)
	// ExecutePayment captures an approved session.
	ExecutePayment(ctx context.Context, req *ExecutePaymentRequest) (*ExecutePaymentResponse, error)
	// ParseWebhookEvent decodes a provider notification payload.
	ParseWebhookEvent(payload []byte) (*WebhookEvent, error)
}
