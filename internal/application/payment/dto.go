package payment

import (
	apporder "github.com/storefront/backend/internal/application/order"
)

// CreatePaymentResponse returns the provider handle for an order
// awaiting payment approval.
type CreatePaymentResponse struct {
	Order       apporder.OrderResponse `json:"order"`
	PaymentID   string                 `json:"payment_id"`
	ApprovalURL string                 `json:"approval_url,omitempty"`
	State       string                 `json:"state"`
}

// ExecutePaymentRequest captures an approved payment for an order
type ExecutePaymentRequest struct {
	OrderNumber string `json:"order_number" binding:"required,max=40"`
	PaymentID   string `json:"payment_id" binding:"required,max=100"`
	PayerID     string `json:"payer_id" binding:"required,max=100"`
}

// ExecutePaymentResponse reports the capture outcome
type ExecutePaymentResponse struct {
	Order         apporder.OrderResponse `json:"order"`
	TransactionID string                 `json:"transaction_id,omitempty"`
	State         string                 `json:"state"`
}

// WebhookResponse acknowledges a processed provider notification
type WebhookResponse struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
}
