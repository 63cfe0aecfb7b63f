package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

func usd(amount float64) valueobject.Money {
	return valueobject.NewMoneyUSDFromFloat(amount)
}

func rulesWithShipping() Rules {
	return Rules{
		TaxRate:               decimal.NewFromFloat(0.10),
		ShippingFee:           decimal.NewFromFloat(7.50),
		FreeShippingThreshold: decimal.NewFromInt(100),
	}
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name     string
		subtotal float64
		discount float64
		tax      string
		shipping string
		total    string
	}{
		{"below threshold pays shipping", 50, 0, "5.00", "7.50", "62.50"},
		{"at threshold ships free", 100, 0, "10.00", "0.00", "110.00"},
		{"above threshold ships free", 250, 0, "25.00", "0.00", "275.00"},
		{"discount reduces taxable amount", 100, 20, "8.00", "0.00", "88.00"},
		{"zero subtotal", 0, 0, "0.00", "7.50", "7.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Calculate(usd(tt.subtotal), usd(tt.discount), rulesWithShipping())

			assert.Equal(t, tt.tax, q.Tax.StringFixed(2))
			assert.Equal(t, tt.shipping, q.Shipping.StringFixed(2))
			assert.Equal(t, tt.total, q.Total.StringFixed(2))
		})
	}
}

func TestCalculate_IdentityHolds(t *testing.T) {
	q := Calculate(usd(89.97), usd(10), rulesWithShipping())

	// total = subtotal - discount + tax + shipping
	expected := q.Subtotal.
		MustAdd(q.Discount.Negate()).
		MustAdd(q.Tax).
		MustAdd(q.Shipping)
	assert.True(t, expected.Equals(q.Total), "got %s, want %s", q.Total, expected)
}

func TestCalculate_DiscountExceedingSubtotal(t *testing.T) {
	q := Calculate(usd(30), usd(100), rulesWithShipping())

	// Discount is capped at the subtotal so the total never goes negative
	assert.Equal(t, "30.00", q.Discount.StringFixed(2))
	assert.Equal(t, "0.00", q.Tax.StringFixed(2))
	assert.Equal(t, "7.50", q.Total.StringFixed(2))
}

func TestCalculate_NegativeDiscountIgnored(t *testing.T) {
	q := Calculate(usd(50), usd(-10), rulesWithShipping())
	assert.Equal(t, "0.00", q.Discount.StringFixed(2))
	assert.Equal(t, "62.50", q.Total.StringFixed(2))
}

func TestCalculate_DefaultRules(t *testing.T) {
	q := Calculate(usd(42), valueobject.ZeroUSD(), DefaultRules())

	assert.Equal(t, "4.20", q.Tax.StringFixed(2))
	assert.Equal(t, "0.00", q.Shipping.StringFixed(2))
	assert.Equal(t, "46.20", q.Total.StringFixed(2))
}

func TestCalculate_TaxRounding(t *testing.T) {
	q := Calculate(usd(19.99), valueobject.ZeroUSD(), DefaultRules())
	assert.Equal(t, "2.00", q.Tax.StringFixed(2))
}

func TestCalculate_ThresholdDisabled(t *testing.T) {
	rules := rulesWithShipping()
	rules.FreeShippingThreshold = decimal.Zero

	q := Calculate(usd(500), valueobject.ZeroUSD(), rules)
	assert.Equal(t, "7.50", q.Shipping.StringFixed(2))
}
