package billing

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
	"go.uber.org/zap"
)

// testConfig returns a valid test configuration
func testConfig() *StripeConfig {
	return &StripeConfig{
		SecretKey:      "sk_test_123456789",
		WebhookSecret:  "whsec_test_123456789",
		IsTestMode:     true,
		Currency:       "usd",
		DaysUntilDue:   30,
		RequestTimeout: 5 * time.Second,
	}
}

// testLogger returns a no-op logger for testing
func testLogger() *zap.Logger {
	return zap.NewNop()
}

// setupHTTPMockServer points the Stripe client at a local test server
func setupHTTPMockServer(handler http.HandlerFunc) (*httptest.Server, func()) {
	server := httptest.NewServer(handler)

	backendConfig := &stripe.BackendConfig{
		URL: stripe.String(server.URL),
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, backendConfig)
	stripe.SetBackend(stripe.APIBackend, backend)

	return server, func() {
		server.Close()
		stripe.SetBackend(stripe.APIBackend, nil)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func TestNewStripeAdapter_Success(t *testing.T) {
	adapter, err := NewStripeAdapter(testConfig(), testLogger())

	require.NoError(t, err)
	assert.NotNil(t, adapter)
}

func TestNewStripeAdapter_InvalidConfig(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*StripeConfig)
		expectedErr string
	}{
		{
			name:        "missing secret key",
			mutate:      func(c *StripeConfig) { c.SecretKey = "" },
			expectedErr: "secret key is required",
		},
		{
			name:        "test mode with live key",
			mutate:      func(c *StripeConfig) { c.SecretKey = "sk_live_123456789" },
			expectedErr: "test mode enabled but secret key is not a test key",
		},
		{
			name:        "live mode with test key",
			mutate:      func(c *StripeConfig) { c.IsTestMode = false },
			expectedErr: "live mode enabled but secret key is not a live key",
		},
		{
			name:        "missing webhook secret",
			mutate:      func(c *StripeConfig) { c.WebhookSecret = "" },
			expectedErr: "webhook secret is required",
		},
		{
			name:        "missing currency",
			mutate:      func(c *StripeConfig) { c.Currency = "" },
			expectedErr: "currency is required",
		},
		{
			name:        "non-positive payment term",
			mutate:      func(c *StripeConfig) { c.DaysUntilDue = 0 },
			expectedErr: "days until due must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := testConfig()
			tt.mutate(config)

			adapter, err := NewStripeAdapter(config, testLogger())

			assert.Error(t, err)
			assert.Nil(t, adapter)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestIssueInvoice_ExistingCustomer(t *testing.T) {
	adapter, err := NewStripeAdapter(testConfig(), testLogger())
	require.NoError(t, err)

	now := time.Now()
	var createdCustomer bool

	_, cleanup := setupHTTPMockServer(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "GET" && r.URL.Path == "/v1/customers":
			writeJSON(w, map[string]interface{}{
				"object":   "list",
				"has_more": false,
				"data": []map[string]interface{}{
					{"id": "cus_existing", "object": "customer", "email": "vendor@example.com"},
				},
			})
		case r.Method == "POST" && r.URL.Path == "/v1/customers":
			createdCustomer = true
			http.Error(w, "should not create", http.StatusBadRequest)
		case r.Method == "POST" && r.URL.Path == "/v1/invoices":
			writeJSON(w, map[string]interface{}{
				"id":       "in_test123",
				"object":   "invoice",
				"customer": "cus_existing",
				"status":   "draft",
				"created":  now.Unix(),
			})
		case r.Method == "POST" && r.URL.Path == "/v1/invoiceitems":
			writeJSON(w, map[string]interface{}{
				"id":     "ii_test123",
				"object": "invoiceitem",
			})
		case r.Method == "POST" && r.URL.Path == "/v1/invoices/in_test123/finalize":
			writeJSON(w, map[string]interface{}{
				"id":                 "in_test123",
				"object":             "invoice",
				"customer":           "cus_existing",
				"status":             "open",
				"amount_due":         50000,
				"hosted_invoice_url": "https://pay.stripe.test/in_test123",
				"created":            now.Unix(),
			})
		case r.Method == "POST" && r.URL.Path == "/v1/invoices/in_test123/send":
			writeJSON(w, map[string]interface{}{
				"id":     "in_test123",
				"object": "invoice",
				"status": "open",
			})
		default:
			http.Error(w, fmt.Sprintf("unexpected call: %s %s", r.Method, r.URL.Path), http.StatusNotFound)
		}
	})
	defer cleanup()

	output, err := adapter.IssueInvoice(context.Background(), IssueInvoiceInput{
		VendorID:       uuid.New(),
		Email:          "vendor@example.com",
		Name:           "Vendor One",
		AmountCents:    50000,
		Description:    "Booth reservation",
		IdempotencyKey: "issue-key-1",
	})

	require.NoError(t, err)
	assert.False(t, createdCustomer)
	assert.Equal(t, "in_test123", output.InvoiceRef)
	assert.Equal(t, "cus_existing", output.CustomerID)
	assert.Equal(t, InvoiceStatusOpen, output.Status)
	assert.Equal(t, "https://pay.stripe.test/in_test123", output.HostedInvoiceURL)
	assert.Equal(t, int64(50000), output.AmountDueCents)
}

func TestIssueInvoice_CreatesCustomerWhenMissing(t *testing.T) {
	adapter, err := NewStripeAdapter(testConfig(), testLogger())
	require.NoError(t, err)

	now := time.Now()

	_, cleanup := setupHTTPMockServer(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "GET" && r.URL.Path == "/v1/customers":
			writeJSON(w, map[string]interface{}{
				"object":   "list",
				"has_more": false,
				"data":     []map[string]interface{}{},
			})
		case r.Method == "POST" && r.URL.Path == "/v1/customers":
			writeJSON(w, map[string]interface{}{
				"id":     "cus_new",
				"object": "customer",
				"email":  "new@example.com",
			})
		case r.Method == "POST" && r.URL.Path == "/v1/invoices":
			writeJSON(w, map[string]interface{}{
				"id": "in_new", "object": "invoice", "customer": "cus_new",
				"status": "draft", "created": now.Unix(),
			})
		case r.Method == "POST" && r.URL.Path == "/v1/invoiceitems":
			writeJSON(w, map[string]interface{}{"id": "ii_new", "object": "invoiceitem"})
		case r.Method == "POST" && r.URL.Path == "/v1/invoices/in_new/finalize":
			writeJSON(w, map[string]interface{}{
				"id": "in_new", "object": "invoice", "customer": "cus_new",
				"status": "open", "amount_due": 12500, "created": now.Unix(),
			})
		case r.Method == "POST" && r.URL.Path == "/v1/invoices/in_new/send":
			writeJSON(w, map[string]interface{}{"id": "in_new", "object": "invoice", "status": "open"})
		default:
			http.Error(w, fmt.Sprintf("unexpected call: %s %s", r.Method, r.URL.Path), http.StatusNotFound)
		}
	})
	defer cleanup()

	output, err := adapter.IssueInvoice(context.Background(), IssueInvoiceInput{
		VendorID:    uuid.New(),
		Email:       "new@example.com",
		Name:        "New Vendor",
		AmountCents: 12500,
		Description: "Booth reservation",
	})

	require.NoError(t, err)
	assert.Equal(t, "in_new", output.InvoiceRef)
	assert.Equal(t, "cus_new", output.CustomerID)
}

func TestIssueInvoice_SendFailureIsNonFatal(t *testing.T) {
	adapter, err := NewStripeAdapter(testConfig(), testLogger())
	require.NoError(t, err)

	now := time.Now()

	_, cleanup := setupHTTPMockServer(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "GET" && r.URL.Path == "/v1/customers":
			writeJSON(w, map[string]interface{}{
				"object": "list", "has_more": false,
				"data": []map[string]interface{}{{"id": "cus_1", "object": "customer"}},
			})
		case r.Method == "POST" && r.URL.Path == "/v1/invoices":
			writeJSON(w, map[string]interface{}{
				"id": "in_1", "object": "invoice", "customer": "cus_1",
				"status": "draft", "created": now.Unix(),
			})
		case r.Method == "POST" && r.URL.Path == "/v1/invoiceitems":
			writeJSON(w, map[string]interface{}{"id": "ii_1", "object": "invoiceitem"})
		case r.Method == "POST" && r.URL.Path == "/v1/invoices/in_1/finalize":
			writeJSON(w, map[string]interface{}{
				"id": "in_1", "object": "invoice", "customer": "cus_1",
				"status": "open", "amount_due": 10000, "created": now.Unix(),
			})
		case r.Method == "POST" && r.URL.Path == "/v1/invoices/in_1/send":
			http.Error(w, "email service down", http.StatusInternalServerError)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	})
	defer cleanup()

	output, err := adapter.IssueInvoice(context.Background(), IssueInvoiceInput{
		VendorID:    uuid.New(),
		Email:       "vendor@example.com",
		AmountCents: 10000,
	})

	require.NoError(t, err)
	assert.Equal(t, "in_1", output.InvoiceRef)
	assert.Equal(t, InvoiceStatusOpen, output.Status)
}

func TestIssueInvoice_FinalizeError(t *testing.T) {
	adapter, err := NewStripeAdapter(testConfig(), testLogger())
	require.NoError(t, err)

	_, cleanup := setupHTTPMockServer(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "GET" && r.URL.Path == "/v1/customers":
			writeJSON(w, map[string]interface{}{
				"object": "list", "has_more": false,
				"data": []map[string]interface{}{{"id": "cus_1", "object": "customer"}},
			})
		case r.Method == "POST" && r.URL.Path == "/v1/invoices":
			writeJSON(w, map[string]interface{}{"id": "in_1", "object": "invoice", "status": "draft"})
		case r.Method == "POST" && r.URL.Path == "/v1/invoiceitems":
			writeJSON(w, map[string]interface{}{"id": "ii_1", "object": "invoiceitem"})
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	})
	defer cleanup()

	output, err := adapter.IssueInvoice(context.Background(), IssueInvoiceInput{
		VendorID:    uuid.New(),
		Email:       "vendor@example.com",
		AmountCents: 10000,
	})

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.Contains(t, err.Error(), "failed to finalize invoice")
}

func TestGetInvoice_Success(t *testing.T) {
	adapter, err := NewStripeAdapter(testConfig(), testLogger())
	require.NoError(t, err)

	_, cleanup := setupHTTPMockServer(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "GET" && r.URL.Path == "/v1/invoices/in_abc" {
			writeJSON(w, map[string]interface{}{
				"id":                 "in_abc",
				"object":             "invoice",
				"customer":           "cus_abc",
				"status":             "paid",
				"amount_due":         30000,
				"amount_paid":        30000,
				"hosted_invoice_url": "https://pay.stripe.test/in_abc",
			})
			return
		}
		http.Error(w, "not found", http.StatusNotFound)
	})
	defer cleanup()

	snapshot, err := adapter.GetInvoice(context.Background(), "in_abc")

	require.NoError(t, err)
	assert.Equal(t, "in_abc", snapshot.InvoiceRef)
	assert.Equal(t, "cus_abc", snapshot.CustomerID)
	assert.Equal(t, InvoiceStatusPaid, snapshot.Status)
	assert.Equal(t, int64(30000), snapshot.AmountPaidCents)
}

func TestVoidInvoice_Success(t *testing.T) {
	adapter, err := NewStripeAdapter(testConfig(), testLogger())
	require.NoError(t, err)

	_, cleanup := setupHTTPMockServer(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "POST" && r.URL.Path == "/v1/invoices/in_abc/void" {
			writeJSON(w, map[string]interface{}{
				"id": "in_abc", "object": "invoice", "status": "void", "amount_due": 30000,
			})
			return
		}
		http.Error(w, "not found", http.StatusNotFound)
	})
	defer cleanup()

	snapshot, err := adapter.VoidInvoice(context.Background(), "in_abc")

	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusVoid, snapshot.Status)
}

func TestDeleteDraftInvoice(t *testing.T) {
	adapter, err := NewStripeAdapter(testConfig(), testLogger())
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		_, cleanup := setupHTTPMockServer(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == "DELETE" && r.URL.Path == "/v1/invoices/in_draft" {
				writeJSON(w, map[string]interface{}{"id": "in_draft", "object": "invoice", "deleted": true})
				return
			}
			http.Error(w, "not found", http.StatusNotFound)
		})
		defer cleanup()

		assert.NoError(t, adapter.DeleteDraftInvoice(context.Background(), "in_draft"))
	})

	t.Run("not draft", func(t *testing.T) {
		_, cleanup := setupHTTPMockServer(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"message":"only draft invoices can be deleted"}}`, http.StatusBadRequest)
		})
		defer cleanup()

		err := adapter.DeleteDraftInvoice(context.Background(), "in_open")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to delete draft invoice")
	})
}

// signPayload builds a Stripe-style signature header for a webhook body
func signPayload(payload []byte, secret string, at time.Time) string {
	ts := fmt.Sprintf("%d", at.Unix())
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifyEvent(t *testing.T) {
	config := testConfig()
	adapter, err := NewStripeAdapter(config, testLogger())
	require.NoError(t, err)

	payload := []byte(`{"id":"evt_1","type":"invoice.paid","data":{"object":{"id":"in_1","object":"invoice"}}}`)

	t.Run("valid signature", func(t *testing.T) {
		header := signPayload(payload, config.WebhookSecret, time.Now())

		event, err := adapter.VerifyEvent(payload, header)

		require.NoError(t, err)
		assert.Equal(t, "evt_1", event.ID)
		assert.Equal(t, stripe.EventType("invoice.paid"), event.Type)
	})

	t.Run("wrong secret", func(t *testing.T) {
		header := signPayload(payload, "whsec_wrong", time.Now())

		_, err := adapter.VerifyEvent(payload, header)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "signature verification failed")
	})

	t.Run("tampered payload", func(t *testing.T) {
		header := signPayload(payload, config.WebhookSecret, time.Now())
		tampered := []byte(`{"id":"evt_2","type":"invoice.paid","data":{"object":{"id":"in_2"}}}`)

		_, err := adapter.VerifyEvent(tampered, header)
		assert.Error(t, err)
	})

	t.Run("stale timestamp", func(t *testing.T) {
		header := signPayload(payload, config.WebhookSecret, time.Now().Add(-time.Hour))

		_, err := adapter.VerifyEvent(payload, header)
		assert.Error(t, err)
	})

	t.Run("malformed header", func(t *testing.T) {
		_, err := adapter.VerifyEvent(payload, "not-a-signature")
		assert.Error(t, err)
	})
}

func TestMapStripeInvoiceStatus(t *testing.T) {
	tests := []struct {
		stripeStatus stripe.InvoiceStatus
		expected     InvoiceStatus
	}{
		{stripe.InvoiceStatusDraft, InvoiceStatusDraft},
		{stripe.InvoiceStatusOpen, InvoiceStatusOpen},
		{stripe.InvoiceStatusPaid, InvoiceStatusPaid},
		{stripe.InvoiceStatusVoid, InvoiceStatusVoid},
		{stripe.InvoiceStatusUncollectible, InvoiceStatusUncollectible},
	}

	for _, tt := range tests {
		t.Run(string(tt.stripeStatus), func(t *testing.T) {
			assert.Equal(t, tt.expected, mapStripeInvoiceStatus(tt.stripeStatus))
		})
	}
}

func TestInvoiceStatus_IsFinal(t *testing.T) {
	assert.True(t, InvoiceStatusPaid.IsFinal())
	assert.True(t, InvoiceStatusVoid.IsFinal())
	assert.True(t, InvoiceStatusUncollectible.IsFinal())
	assert.False(t, InvoiceStatusDraft.IsFinal())
	assert.False(t, InvoiceStatusOpen.IsFinal())
}
