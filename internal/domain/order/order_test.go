package order

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

func testAddress() valueobject.Address {
	return valueobject.Address{
		Street:     "1 Analytical Way",
		City:       "London",
		State:      "LND",
		PostalCode: "E1 6AN",
	}
}

func testItems(t *testing.T) []Item {
	keyboard, err := NewItem(uuid.New(), "Keyboard", "KB-1", "", 1, valueobject.NewMoneyUSDFromFloat(49.99))
	require.NoError(t, err)
	mice, err := NewItem(uuid.New(), "Mouse", "MS-1", "", 2, valueobject.NewMoneyUSDFromFloat(19.99))
	require.NoError(t, err)
	return []Item{keyboard, mice}
}

func testAmounts() Amounts {
	return Amounts{
		Subtotal:     valueobject.NewMoneyUSDFromFloat(89.97),
		TaxAmount:    valueobject.NewMoneyUSDFromFloat(9.00),
		ShippingCost: valueobject.ZeroUSD(),
		Discount:     valueobject.ZeroUSD(),
	}
}

func newTestOrder(t *testing.T) *Order {
	o, err := NewOrder(uuid.New(), "ORD-1700000000", testItems(t), testAmounts(), testAddress(), MethodCard)
	require.NoError(t, err)
	return o
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusDelivered, false},
		{StatusConfirmed, StatusShipped, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusProcessing, StatusShipped, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, false},
		{StatusDelivered, StatusRefunded, true},
		{StatusDelivered, StatusShipped, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusRefunded, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusRefunded.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusDelivered.IsTerminal())
}

func TestNewItem(t *testing.T) {
	item, err := NewItem(uuid.New(), "Keyboard", "KB-1", "http://img", 3, valueobject.NewMoneyUSDFromFloat(49.99))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, item.ID)
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, "149.97", item.TotalPrice.StringFixed(2))
}

func TestNewItem_Validation(t *testing.T) {
	_, err := NewItem(uuid.New(), "Keyboard", "", "", 0, valueobject.ZeroUSD())
	assert.Error(t, err)

	_, err = NewItem(uuid.New(), "", "", "", 1, valueobject.ZeroUSD())
	assert.Error(t, err)
}

func TestNewNumber(t *testing.T) {
	at := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "ORD-1788004800", NewNumber(at))
}

func TestNewOrder(t *testing.T) {
	o := newTestOrder(t)

	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, PaymentPending, o.PaymentStatus)
	assert.Equal(t, MethodCard, o.PaymentMethod)
	assert.Equal(t, "98.97", o.TotalAmount.StringFixed(2))
	assert.Equal(t, 3, o.ItemCount())
	assert.True(t, o.VerifyTotal())
}

func TestNewOrder_ComputesSubtotalFromItems(t *testing.T) {
	amounts := testAmounts()
	amounts.Subtotal = valueobject.ZeroUSD()

	o, err := NewOrder(uuid.New(), "", testItems(t), amounts, testAddress(), MethodCard)
	require.NoError(t, err)

	assert.Equal(t, "89.97", o.Subtotal.StringFixed(2))
	assert.True(t, o.VerifyTotal())
}

func TestNewOrder_GeneratesNumberWhenEmpty(t *testing.T) {
	o, err := NewOrder(uuid.New(), "", testItems(t), testAmounts(), testAddress(), MethodCard)
	require.NoError(t, err)
	assert.Contains(t, o.Number, "ORD-")
}

func TestNewOrder_Validation(t *testing.T) {
	_, err := NewOrder(uuid.New(), "ORD-1", nil, testAmounts(), testAddress(), MethodCard)
	assert.Error(t, err)

	_, err = NewOrder(uuid.New(), "ORD-1", testItems(t), testAmounts(), valueobject.Address{}, MethodCard)
	assert.Error(t, err)
}

func TestNewOrder_RejectsNegativeTotal(t *testing.T) {
	amounts := testAmounts()
	amounts.Discount = valueobject.NewMoneyUSDFromFloat(500)

	_, err := NewOrder(uuid.New(), "ORD-1", testItems(t), amounts, testAddress(), MethodCard)
	assert.Error(t, err)
}

func TestOrder_MarkPaid(t *testing.T) {
	o := newTestOrder(t)

	require.NoError(t, o.MarkPaid("PAY-1"))
	assert.Equal(t, PaymentPaid, o.PaymentStatus)
	assert.Equal(t, "PAY-1", o.PaymentID)

	// Double payment is rejected
	assert.Error(t, o.MarkPaid("PAY-2"))
	assert.Equal(t, "PAY-1", o.PaymentID)
}

func TestOrder_MarkPaidRejectedOnTerminalOrder(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.Cancel())

	assert.Error(t, o.MarkPaid("PAY-1"))
}

func TestOrder_PaymentFailureAndRetry(t *testing.T) {
	o := newTestOrder(t)

	o.MarkPaymentFailed()
	assert.Equal(t, PaymentFailed, o.PaymentStatus)

	require.NoError(t, o.RetryPayment())
	assert.Equal(t, PaymentPending, o.PaymentStatus)

	// Retry only applies to failed payments
	assert.Error(t, o.RetryPayment())
}

func TestOrder_MarkPaymentFailedIgnoredWhenPaid(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.MarkPaid("PAY-1"))

	o.MarkPaymentFailed()
	assert.Equal(t, PaymentPaid, o.PaymentStatus)
}

func TestOrder_Confirm(t *testing.T) {
	o := newTestOrder(t)

	require.NoError(t, o.Confirm())
	assert.Equal(t, StatusConfirmed, o.Status)
	require.NotNil(t, o.ConfirmedAt)

	assert.Error(t, o.Confirm())
}

func TestOrder_Ship(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.Confirm())

	require.NoError(t, o.Ship("1Z999", "UPS"))
	assert.Equal(t, StatusShipped, o.Status)
	assert.Equal(t, "1Z999", o.TrackingNumber)
	assert.Equal(t, "UPS", o.Carrier)
	require.NotNil(t, o.ShippedAt)

	// Shipped orders cannot be cancelled
	assert.Error(t, o.Cancel())
}

func TestOrder_FullLifecycle(t *testing.T) {
	o := newTestOrder(t)

	require.NoError(t, o.MarkPaid("PAY-1"))
	require.NoError(t, o.Confirm())
	require.NoError(t, o.Ship("1Z999", "UPS"))
	require.NoError(t, o.TransitionTo(StatusDelivered))
	require.NotNil(t, o.DeliveredAt)

	require.NoError(t, o.TransitionTo(StatusRefunded))
	assert.Equal(t, StatusRefunded, o.Status)
	assert.Equal(t, PaymentRefunded, o.PaymentStatus)
	assert.True(t, o.Status.IsTerminal())
}

func TestOrder_SubtotalFromItems(t *testing.T) {
	o := newTestOrder(t)
	assert.Equal(t, "89.97", o.SubtotalFromItems().StringFixed(2))
}
