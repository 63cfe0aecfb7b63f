package pricing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/storefront/api"
)

func TestCalculate(t *testing.T) {
	constants := Constants{
		TaxRate:               decimal.NewFromFloat(0.10),
		ShippingFee:           decimal.NewFromFloat(7.50),
		FreeShippingThreshold: decimal.NewFromInt(100),
	}

	tests := []struct {
		name     string
		subtotal string
		tax      string
		shipping string
		total    string
	}{
		{"below threshold pays shipping", "50.00", "5.00", "7.50", "62.50"},
		{"at threshold ships free", "100.00", "10.00", "0.00", "110.00"},
		{"above threshold ships free", "250.00", "25.00", "0.00", "275.00"},
		{"tax rounds to cents", "19.99", "2.00", "7.50", "29.49"},
		{"empty cart", "0.00", "0.00", "7.50", "7.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subtotal, err := decimal.NewFromString(tt.subtotal)
			require.NoError(t, err)

			b := Calculate(subtotal, constants)

			assert.Equal(t, tt.tax, b.Tax.StringFixed(2))
			assert.Equal(t, tt.shipping, b.Shipping.StringFixed(2))
			assert.Equal(t, tt.total, b.Total.StringFixed(2))
		})
	}
}

func TestCalculate_ZeroShippingFee(t *testing.T) {
	b := Calculate(decimal.NewFromInt(42), DefaultConstants())

	assert.Equal(t, "0.00", b.Shipping.StringFixed(2))
	assert.Equal(t, "4.20", b.Tax.StringFixed(2))
	assert.Equal(t, "46.20", b.Total.StringFixed(2))
}

func TestDefaultConstants(t *testing.T) {
	c := DefaultConstants()

	assert.True(t, c.TaxRate.Equal(decimal.NewFromFloat(0.10)))
	assert.True(t, c.ShippingFee.IsZero())
	assert.True(t, c.FreeShippingThreshold.Equal(decimal.NewFromInt(100)))
}

func TestFetcher_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/constants", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"data": {
				"tax": "0.08",
				"shipping_fee": "5.00",
				"free_shipping_threshold": "75"
			}
		}`))
	}))
	defer server.Close()

	fetcher := NewFetcher(api.NewClient(server.URL), nil)
	c := fetcher.Fetch(context.Background())

	assert.True(t, c.TaxRate.Equal(decimal.NewFromFloat(0.08)))
	assert.True(t, c.ShippingFee.Equal(decimal.NewFromInt(5)))
	assert.True(t, c.FreeShippingThreshold.Equal(decimal.NewFromInt(75)))
}

func TestFetcher_FallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	fetcher := NewFetcher(api.NewClient(server.URL), nil)
	c := fetcher.Fetch(context.Background())

	assert.Equal(t, DefaultConstants(), c)
}

func TestFetcher_IgnoresInvalidValues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"data": {
				"tax": "not-a-number",
				"shipping_fee": "-3",
				"free_shipping_threshold": "120"
			}
		}`))
	}))
	defer server.Close()

	fetcher := NewFetcher(api.NewClient(server.URL), nil)
	c := fetcher.Fetch(context.Background())

	// Bad values keep their defaults, good ones apply
	assert.True(t, c.TaxRate.Equal(decimal.NewFromFloat(0.10)))
	assert.True(t, c.ShippingFee.IsZero())
	assert.True(t, c.FreeShippingThreshold.Equal(decimal.NewFromInt(120)))
}

func TestFetcher_NilClientUsesDefaults(t *testing.T) {
	fetcher := NewFetcher(nil, nil)
	assert.Equal(t, DefaultConstants(), fetcher.Fetch(context.Background()))
}
