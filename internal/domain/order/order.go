package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusConfirmed  OrderStatus = "CONFIRMED"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
	StatusRefunded   OrderStatus = "REFUNDED"
)

// CanTransitionTo checks if a status transition is valid
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	transitions := map[OrderStatus][]OrderStatus{
		StatusPending:    {StatusConfirmed, StatusProcessing, StatusCancelled},
		StatusConfirmed:  {StatusProcessing, StatusShipped, StatusCancelled},
		StatusProcessing: {StatusShipped, StatusCancelled},
		StatusShipped:    {StatusDelivered},
		StatusDelivered:  {StatusRefunded},
		StatusCancelled:  {},
		StatusRefunded:   {},
	}
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true when no further transitions are possible
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusRefunded
}

// PaymentStatus represents the payment state of an order
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// PaymentMethod identifies how an order was paid
type PaymentMethod string

const (
	MethodCard   PaymentMethod = "CARD"
	MethodPayPal PaymentMethod = "PAYPAL"
)

// Item is an immutable snapshot of a purchased product.
// Product details are copied at order time so later catalog edits
// never change what the customer bought.
type Item struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID         `gorm:"type:uuid;not null"`
	ProductName string            `gorm:"type:varchar(200);not null"`
	SKU         string            `gorm:"type:varchar(50)"`
	ImageURL    string            `gorm:"type:varchar(500)"`
	Quantity    int               `gorm:"not null"`
	UnitPrice   valueobject.Money `gorm:"type:decimal(18,2);not null"`
	TotalPrice  valueobject.Money `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "order_items"
}

// NewItem creates an order item snapshot from product details
func NewItem(productID uuid.UUID, name, sku, imageURL string, quantity int, unitPrice valueobject.Money) (Item, error) {
	if quantity <= 0 {
		return Item{}, shared.NewDomainError("INVALID_QUANTITY", "item quantity must be positive")
	}
	if name == "" {
		return Item{}, shared.NewDomainError("INVALID_ITEM", "item product name is required")
	}
	return Item{
		ID:          uuid.New(),
		ProductID:   productID,
		ProductName: name,
		SKU:         sku,
		ImageURL:    imageURL,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TotalPrice:  unitPrice.MultiplyByInt(int64(quantity)),
	}, nil
}

// Order is the aggregate root for a customer purchase.
// Items and amounts are fixed at creation; only status, tracking and
// notes change afterwards.
type Order struct {
	shared.BaseEntity
	Number          string              `gorm:"type:varchar(40);not null;uniqueIndex"`
	UserID          uuid.UUID           `gorm:"type:uuid;not null;index"`
	Items           []Item              `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Subtotal        valueobject.Money   `gorm:"type:decimal(18,2);not null"`
	TaxAmount       valueobject.Money   `gorm:"type:decimal(18,2);not null"`
	ShippingCost    valueobject.Money   `gorm:"type:decimal(18,2);not null"`
	DiscountAmount  valueobject.Money   `gorm:"type:decimal(18,2);not null"`
	TotalAmount     valueobject.Money   `gorm:"type:decimal(18,2);not null"`
	Status          OrderStatus         `gorm:"type:varchar(20);not null;index"`
	PaymentStatus   PaymentStatus       `gorm:"type:varchar(20);not null;index"`
	PaymentMethod   PaymentMethod       `gorm:"type:varchar(20);not null"`
	PaymentID       string              `gorm:"type:varchar(100)"`
	ShippingAddress valueobject.Address `gorm:"embedded;embeddedPrefix:shipping_"`
	TrackingNumber  string              `gorm:"type:varchar(100)"`
	Carrier         string              `gorm:"type:varchar(100)"`
	Notes           string              `gorm:"type:text"`
	ConfirmedAt     *time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// Amounts groups the priced totals supplied at order creation
type Amounts struct {
	Subtotal     valueobject.Money
	TaxAmount    valueobject.Money
	ShippingCost valueobject.Money
	Discount     valueobject.Money
}

// NewNumber generates an order number from the given time
func NewNumber(t time.Time) string {
	return fmt.Sprintf("ORD-%d", t.Unix())
}

// NewOrder creates a pending order from item snapshots and priced amounts.
// The total is recomputed from the parts so the stored breakdown always
// satisfies total = subtotal + tax + shipping - discount.
func NewOrder(userID uuid.UUID, number string, items []Item, amounts Amounts, address valueobject.Address, method PaymentMethod) (*Order, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "order must contain at least one item")
	}
	if err := address.Validate(); err != nil {
		return nil, err
	}
	if number == "" {
		number = NewNumber(time.Now())
	}

	subtotal := amounts.Subtotal
	if subtotal.IsZero() {
		subtotal = valueobject.ZeroUSD()
		for _, it := range items {
			subtotal = subtotal.MustAdd(it.TotalPrice)
		}
	}

	total := subtotal.
		MustAdd(amounts.TaxAmount).
		MustAdd(amounts.ShippingCost).
		MustAdd(amounts.Discount.Negate())
	if total.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "order total cannot be negative")
	}

	return &Order{
		BaseEntity:      shared.NewBaseEntity(),
		Number:          number,
		UserID:          userID,
		Items:           items,
		Subtotal:        subtotal,
		TaxAmount:       amounts.TaxAmount,
		ShippingCost:    amounts.ShippingCost,
		DiscountAmount:  amounts.Discount,
		TotalAmount:     total,
		Status:          StatusPending,
		PaymentStatus:   PaymentPending,
		PaymentMethod:   method,
		ShippingAddress: address,
	}, nil
}

// ItemCount returns the total quantity across all items
func (o *Order) ItemCount() int {
	count := 0
	for _, it := range o.Items {
		count += it.Quantity
	}
	return count
}

// MarkPaid records a successful payment capture
func (o *Order) MarkPaid(paymentID string) error {
	if o.PaymentStatus == PaymentPaid {
		return shared.NewDomainError("ALREADY_PAID", "order is already paid")
	}
	if o.Status.IsTerminal() {
		return shared.ErrInvalidState
	}
	o.PaymentStatus = PaymentPaid
	o.PaymentID = paymentID
	o.Touch()
	return nil
}

// MarkPaymentFailed records a declined capture attempt. The order stays
// pending so the customer can retry with another method.
func (o *Order) MarkPaymentFailed() {
	if o.PaymentStatus == PaymentPending {
		o.PaymentStatus = PaymentFailed
		o.Touch()
	}
}

// RetryPayment resets a failed payment back to pending
func (o *Order) RetryPayment() error {
	if o.PaymentStatus != PaymentFailed {
		return shared.NewDomainError("INVALID_STATE", "payment is not in a failed state")
	}
	o.PaymentStatus = PaymentPending
	o.Touch()
	return nil
}

// Confirm moves a pending order to confirmed
func (o *Order) Confirm() error {
	if !o.Status.CanTransitionTo(StatusConfirmed) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("cannot confirm order in status %s", o.Status))
	}
	now := time.Now()
	o.Status = StatusConfirmed
	o.ConfirmedAt = &now
	o.Touch()
	return nil
}

// TransitionTo applies a validated status change
func (o *Order) TransitionTo(target OrderStatus) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("cannot transition order from %s to %s", o.Status, target))
	}
	now := time.Now()
	switch target {
	case StatusConfirmed:
		o.ConfirmedAt = &now
	case StatusShipped:
		o.ShippedAt = &now
	case StatusDelivered:
		o.DeliveredAt = &now
	case StatusRefunded:
		o.PaymentStatus = PaymentRefunded
	}
	o.Status = target
	o.Touch()
	return nil
}

// Ship marks the order shipped with tracking details
func (o *Order) Ship(trackingNumber, carrier string) error {
	if err := o.TransitionTo(StatusShipped); err != nil {
		return err
	}
	o.TrackingNumber = trackingNumber
	o.Carrier = carrier
	return nil
}

// Cancel cancels the order if it has not shipped
func (o *Order) Cancel() error {
	return o.TransitionTo(StatusCancelled)
}

// VerifyTotal checks the breakdown identity against the stored total
func (o *Order) VerifyTotal() bool {
	expected := o.Subtotal.
		MustAdd(o.TaxAmount).
		MustAdd(o.ShippingCost).
		MustAdd(o.DiscountAmount.Negate())
	return expected.Equals(o.TotalAmount)
}

// SubtotalFromItems recomputes the subtotal from item snapshots
func (o *Order) SubtotalFromItems() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range o.Items {
		sum = sum.Add(it.TotalPrice.Amount())
	}
	return sum
}
