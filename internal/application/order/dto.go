package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// OrderItemRequest selects a product and quantity for purchase
type OrderItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,gte=1"`
}

// CreateOrderRequest places a new order
type CreateOrderRequest struct {
	Items           []OrderItemRequest  `json:"items" binding:"required,min=1,dive"`
	ShippingAddress valueobject.Address `json:"shipping_address" binding:"required"`
	PaymentMethod   string              `json:"payment_method" binding:"required,oneof=CARD PAYPAL"`
	// Number is an optional client-generated order number; the server
	// assigns one when absent or taken.
	Number string `json:"number" binding:"omitempty,max=40"`
	// PaymentID is the capture reference for orders already paid at
	// submission time.
	PaymentID string `json:"payment_id" binding:"omitempty,max=100"`
	Discount  string `json:"discount" binding:"omitempty"`
	Notes     string `json:"notes" binding:"omitempty,max=1000"`
}

// UpdateOrderStatusRequest moves an order through its lifecycle
type UpdateOrderStatusRequest struct {
	Status         string `json:"status" binding:"required,oneof=CONFIRMED PROCESSING SHIPPED DELIVERED CANCELLED REFUNDED"`
	TrackingNumber string `json:"tracking_number" binding:"omitempty,max=100"`
	Carrier        string `json:"carrier" binding:"omitempty,max=100"`
}

// ListOrdersQuery filters the order listing
type ListOrdersQuery struct {
	Page          int
	PageSize      int
	OrderBy       string
	OrderDir      string
	Status        string
	PaymentStatus string
	PaymentMethod string
	UserID        string
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	Number          string              `json:"number"`
	UserID          uuid.UUID           `json:"user_id"`
	Items           []OrderItemResponse `json:"items"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	TaxAmount       decimal.Decimal     `json:"tax_amount"`
	ShippingCost    decimal.Decimal     `json:"shipping_cost"`
	DiscountAmount  decimal.Decimal     `json:"discount_amount"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	Currency        string              `json:"currency"`
	Status          string              `json:"status"`
	PaymentStatus   string              `json:"payment_status"`
	PaymentMethod   string              `json:"payment_method"`
	PaymentID       string              `json:"payment_id,omitempty"`
	ShippingAddress valueobject.Address `json:"shipping_address"`
	TrackingNumber  string              `json:"tracking_number,omitempty"`
	Carrier         string              `json:"carrier,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	ItemCount       int                 `json:"item_count"`
	ConfirmedAt     *time.Time          `json:"confirmed_at,omitempty"`
	ShippedAt       *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time          `json:"delivered_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// ToOrderResponse converts an order aggregate to its response form
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			SKU:         it.SKU,
			ImageURL:    it.ImageURL,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice.Amount(),
			TotalPrice:  it.TotalPrice.Amount(),
		})
	}

	return OrderResponse{
		ID:              o.ID,
		Number:          o.Number,
		UserID:          o.UserID,
		Items:           items,
		Subtotal:        o.Subtotal.Amount(),
		TaxAmount:       o.TaxAmount.Amount(),
		ShippingCost:    o.ShippingCost.Amount(),
		DiscountAmount:  o.DiscountAmount.Amount(),
		TotalAmount:     o.TotalAmount.Amount(),
		Currency:        string(o.TotalAmount.Currency()),
		Status:          string(o.Status),
		PaymentStatus:   string(o.PaymentStatus),
		PaymentMethod:   string(o.PaymentMethod),
		PaymentID:       o.PaymentID,
		ShippingAddress: o.ShippingAddress,
		TrackingNumber:  o.TrackingNumber,
		Carrier:         o.Carrier,
		Notes:           o.Notes,
		ItemCount:       o.ItemCount(),
		ConfirmedAt:     o.ConfirmedAt,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
