package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Fallback values used when the store constants are unavailable
var (
	DefaultTaxRate               = decimal.NewFromFloat(0.10)
	DefaultShippingFee           = decimal.Zero
	DefaultFreeShippingThreshold = decimal.NewFromInt(100)
)

// Rules holds the store-wide pricing parameters
type Rules struct {
	// TaxRate is a fraction, e.g. 0.10 for 10%
	TaxRate decimal.Decimal
	// ShippingFee is the flat shipping cost per order
	ShippingFee decimal.Decimal
	// FreeShippingThreshold waives the shipping fee for subtotals at or
	// above this amount. Zero or negative disables free shipping.
	FreeShippingThreshold decimal.Decimal
}

// DefaultRules returns the fallback pricing rules
func DefaultRules() Rules {
	return Rules{
		TaxRate:               DefaultTaxRate,
		ShippingFee:           DefaultShippingFee,
		FreeShippingThreshold: DefaultFreeShippingThreshold,
	}
}

// Quote is a priced breakdown of a cart or order
type Quote struct {
	Subtotal valueobject.Money
	Discount valueobject.Money
	Tax      valueobject.Money
	Shipping valueobject.Money
	Total    valueobject.Money
}

// Calculate prices a subtotal under the given rules.
// Tax applies to the discounted subtotal, shipping is waived at or above
// the free shipping threshold, and every component is rounded to cents.
// The result satisfies total = subtotal - discount + tax + shipping.
func Calculate(subtotal, discount valueobject.Money, rules Rules) Quote {
	if discount.IsNegative() {
		discount = valueobject.Zero(discount.Currency())
	}

	taxable, err := subtotal.Subtract(discount)
	if err != nil || taxable.IsNegative() {
		taxable = valueobject.Zero(subtotal.Currency())
		discount = subtotal
	}

	tax := taxable.ApplyRate(rules.TaxRate).Round(2)

	shipping := valueobject.Zero(subtotal.Currency())
	if rules.ShippingFee.IsPositive() {
		shipping = mustMoney(rules.ShippingFee, subtotal.Currency())
		if rules.FreeShippingThreshold.IsPositive() &&
			subtotal.Amount().GreaterThanOrEqual(rules.FreeShippingThreshold) {
			shipping = valueobject.Zero(subtotal.Currency())
		}
	}

	total := taxable.MustAdd(tax).MustAdd(shipping).Round(2)

	return Quote{
		Subtotal: subtotal.Round(2),
		Discount: discount.Round(2),
		Tax:      tax,
		Shipping: shipping,
		Total:    total,
	}
}

func mustMoney(amount decimal.Decimal, currency valueobject.Currency) valueobject.Money {
	m, err := valueobject.NewMoney(amount, currency)
	if err != nil {
		return valueobject.Zero(valueobject.DefaultCurrency)
	}
	return m
}
