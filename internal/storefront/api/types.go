package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// Address is a shipping address as exchanged with the backend
type Address struct {
	FullName   string `json:"full_name,omitempty"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// OrderItemInput selects a product and quantity for purchase
type OrderItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderRequest places a new order
type CreateOrderRequest struct {
	Items           []OrderItemInput `json:"items"`
	ShippingAddress Address          `json:"shipping_address"`
	PaymentMethod   string           `json:"payment_method"`
	Number          string           `json:"number,omitempty"`
	PaymentID       string           `json:"payment_id,omitempty"`
	Notes           string           `json:"notes,omitempty"`
}

// OrderItem is an order line as returned by the backend
type OrderItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// Order is an order as returned by the backend. Locally built orders
// that were never accepted by the server have an empty ID.
type Order struct {
	ID              string          `json:"id,omitempty"`
	Number          string          `json:"number"`
	Items           []OrderItem     `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Currency        string          `json:"currency,omitempty"`
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"payment_status"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentID       string          `json:"payment_id,omitempty"`
	ShippingAddress Address         `json:"shipping_address"`
	CreatedAt       time.Time       `json:"created_at"`
}

// PaymentSessionResponse is the provider handle returned by the
// create-order payment endpoint.
type PaymentSessionResponse struct {
	Order       Order  `json:"order"`
	PaymentID   string `json:"payment_id"`
	ApprovalURL string `json:"approval_url,omitempty"`
	State       string `json:"state"`
}

// CaptureOrderRequest captures an approved provider payment
type CaptureOrderRequest struct {
	OrderNumber string `json:"order_number"`
	PaymentID   string `json:"payment_id"`
	PayerID     string `json:"payer_id"`
}

// CaptureOrderResponse reports the capture outcome
type CaptureOrderResponse struct {
	Order         Order  `json:"order"`
	TransactionID string `json:"transaction_id,omitempty"`
	State         string `json:"state"`
}

// TokenPair holds the issued access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// User is an account as returned by the backend
type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
}

// AuthResponse carries the authenticated user and their tokens
type AuthResponse struct {
	User   User       `json:"user"`
	Tokens *TokenPair `json:"tokens"`
}
