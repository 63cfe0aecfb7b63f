package pricing

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/storefront/api"
)

// Default constants used when the backend cannot be reached
var (
	defaultTaxRate               = decimal.NewFromFloat(0.10)
	defaultShippingFee           = decimal.Zero
	defaultFreeShippingThreshold = decimal.NewFromInt(100)
)

// Constants are the store pricing parameters
type Constants struct {
	TaxRate               decimal.Decimal
	ShippingFee           decimal.Decimal
	FreeShippingThreshold decimal.Decimal
}

// DefaultConstants returns the built-in fallback pricing parameters
func DefaultConstants() Constants {
	return Constants{
		TaxRate:               defaultTaxRate,
		ShippingFee:           defaultShippingFee,
		FreeShippingThreshold: defaultFreeShippingThreshold,
	}
}

// Breakdown is a priced cart summary
type Breakdown struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// Calculate prices a cart subtotal. Shipping is waived once the
// subtotal reaches the free-shipping threshold, tax applies to the
// subtotal, and total = subtotal + tax + shipping. All parts are
// rounded to cents.
func Calculate(subtotal decimal.Decimal, c Constants) Breakdown {
	subtotal = subtotal.Round(2)

	shipping := c.ShippingFee
	if subtotal.GreaterThanOrEqual(c.FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	shipping = shipping.Round(2)

	tax := subtotal.Mul(c.TaxRate).Round(2)

	return Breakdown{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping),
	}
}

// Fetcher loads pricing constants from the backend once per call,
// falling back to defaults on any failure.
type Fetcher struct {
	client *api.Client
	logger *zap.Logger
}

// NewFetcher creates a constants fetcher
func NewFetcher(client *api.Client, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{client: client, logger: logger}
}

// Fetch returns the backend pricing constants. Any fetch or parse
// failure yields the defaults; checkout must keep working offline.
func (f *Fetcher) Fetch(ctx context.Context) Constants {
	constants := DefaultConstants()
	if f.client == nil {
		return constants
	}

	values, err := f.client.Constants(ctx)
	if err != nil {
		f.logger.Debug("constants fetch failed, using defaults", zap.Error(err))
		return constants
	}

	if raw, ok := values["tax"]; ok {
		if rate, err := decimal.NewFromString(raw); err == nil && !rate.IsNegative() {
			constants.TaxRate = rate
		} else {
			f.logger.Debug("invalid tax constant", zap.String("value", raw))
		}
	}
	if raw, ok := values["shipping_fee"]; ok {
		if fee, err := decimal.NewFromString(raw); err == nil && !fee.IsNegative() {
			constants.ShippingFee = fee
		} else {
			f.logger.Debug("invalid shipping_fee constant", zap.String("value", raw))
		}
	}
	if raw, ok := values["free_shipping_threshold"]; ok {
		if threshold, err := decimal.NewFromString(raw); err == nil && !threshold.IsNegative() {
			constants.FreeShippingThreshold = threshold
		} else {
			f.logger.Debug("invalid free_shipping_threshold constant", zap.String("value", raw))
		}
	}
	return constants
}
