package payment

import (
	"errors"

	"github.com/storefront/backend/internal/infrastructure/config"
)

// PayPal REST API base URLs
const (
	paypalSandboxBaseURL = "https://api.sandbox.paypal.com"
	paypalLiveBaseURL    = "https://api.paypal.com"
)

// Errors for configuration validation
var (
	ErrPayPalMissingClientID     = errors.New("paypal: missing client ID")
	ErrPayPalMissingClientSecret = errors.New("paypal: missing client secret")
	ErrPayPalInvalidMode         = errors.New("paypal: mode must be sandbox or live")
	ErrPayPalMissingReturnURL    = errors.New("paypal: missing return URL")
)

// PayPalConfig contains configuration for the PayPal REST API
type PayPalConfig struct {
	// ClientID is the REST application client ID
	ClientID string
	// ClientSecret is the REST application secret
	ClientSecret string
	// Mode selects the environment: "sandbox" or "live"
	Mode string
	// ReturnURL is where the payer lands after approving the payment
	ReturnURL string
	// CancelURL is where the payer lands after cancelling
	CancelURL string
	// WebhookID identifies the configured webhook endpoint
	WebhookID string
}

// NewPayPalConfig builds adapter configuration from application config
func NewPayPalConfig(cfg config.PayPalConfig) PayPalConfig {
	return PayPalConfig{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Mode:         cfg.Mode,
		ReturnURL:    cfg.ReturnURL,
		CancelURL:    cfg.CancelURL,
		WebhookID:    cfg.WebhookID,
	}
}

// Validate validates the configuration
func (c *PayPalConfig) Validate() error {
	if c.ClientID == "" {
		return ErrPayPalMissingClientID
	}
	if c.ClientSecret == "" {
		return ErrPayPalMissingClientSecret
	}
	if c.Mode == "" {
		c.Mode = "sandbox"
	}
	if c.Mode != "sandbox" && c.Mode != "live" {
		return ErrPayPalInvalidMode
	}
	if c.ReturnURL == "" {
		return ErrPayPalMissingReturnURL
	}
	return nil
}

// BaseURL returns the API base URL for the configured mode
func (c *PayPalConfig) BaseURL() string {
	if c.Mode == "live" {
		return paypalLiveBaseURL
	}
	return paypalSandboxBaseURL
}
