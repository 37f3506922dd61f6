package billing

import (
	"fmt"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v81"
)

// StripeConfig holds configuration for Stripe integration
type StripeConfig struct {
	// SecretKey is the Stripe secret API key (sk_test_xxx or sk_live_xxx)
	SecretKey string `json:"secret_key" mapstructure:"secret_key"`

	// WebhookSecret is the secret for verifying webhook signatures
	WebhookSecret string `json:"webhook_secret" mapstructure:"webhook_secret"`

	// IsTestMode indicates if using Stripe test mode
	IsTestMode bool `json:"is_test_mode" mapstructure:"is_test_mode"`

	// Currency is the currency for booth invoices (e.g. "usd")
	Currency string `json:"currency" mapstructure:"currency"`

	// DaysUntilDue is the payment term applied to issued invoices
	DaysUntilDue int `json:"days_until_due" mapstructure:"days_until_due"`

	// RequestTimeout bounds each outbound API call
	RequestTimeout time.Duration `json:"request_timeout" mapstructure:"request_timeout"`
}

// DefaultStripeConfig returns a default configuration for development/testing
func DefaultStripeConfig() *StripeConfig {
	return &StripeConfig{
		IsTestMode:     true,
		Currency:       "usd",
		DaysUntilDue:   30,
		RequestTimeout: 30 * time.Second,
	}
}

// Validate validates the Stripe configuration
func (c *StripeConfig) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("stripe: secret key is required")
	}

	if c.IsTestMode {
		if len(c.SecretKey) > 7 && c.SecretKey[:7] != "sk_test" {
			return fmt.Errorf("stripe: test mode enabled but secret key is not a test key")
		}
	} else {
		if len(c.SecretKey) > 7 && c.SecretKey[:7] != "sk_live" {
			return fmt.Errorf("stripe: live mode enabled but secret key is not a live key")
		}
	}

	if c.WebhookSecret == "" {
		return fmt.Errorf("stripe: webhook secret is required")
	}

	if c.Currency == "" {
		return fmt.Errorf("stripe: currency is required")
	}

	if c.DaysUntilDue <= 0 {
		return fmt.Errorf("stripe: days until due must be positive")
	}

	return nil
}

// InitStripeClient initializes the Stripe client with the configured API key
// and a bounded HTTP client
func (c *StripeConfig) InitStripeClient() {
	stripe.Key = c.SecretKey

	timeout := c.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	stripe.SetHTTPClient(&http.Client{Timeout: timeout})
}
