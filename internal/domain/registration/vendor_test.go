package registration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  PaymentStatus
		isValid bool
	}{
		{PaymentStatusNone, true},
		{PaymentStatusPending, true},
		{PaymentStatusSent, true},
		{PaymentStatusPaid, true},
		{PaymentStatusFailed, true},
		{PaymentStatus("unknown"), false},
		{PaymentStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestPaymentStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    PaymentStatus
		to      PaymentStatus
		allowed bool
	}{
		{"none to pending", PaymentStatusNone, PaymentStatusPending, true},
		{"none to sent", PaymentStatusNone, PaymentStatusSent, false},
		{"none to paid", PaymentStatusNone, PaymentStatusPaid, false},
		{"pending to sent", PaymentStatusPending, PaymentStatusSent, true},
		{"pending to paid", PaymentStatusPending, PaymentStatusPaid, false},
		{"sent to paid", PaymentStatusSent, PaymentStatusPaid, true},
		{"sent to failed", PaymentStatusSent, PaymentStatusFailed, true},
		{"sent to pending", PaymentStatusSent, PaymentStatusPending, false},
		{"failed to pending retry", PaymentStatusFailed, PaymentStatusPending, true},
		{"failed to paid", PaymentStatusFailed, PaymentStatusPaid, false},
		{"paid is terminal", PaymentStatusPaid, PaymentStatusFailed, false},
		{"paid to pending", PaymentStatusPaid, PaymentStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestNewVendor(t *testing.T) {
	t.Run("creates vendor with normalized email", func(t *testing.T) {
		vendor, err := NewVendor("Acme Displays", "  Billing@Acme.COM ", "user-1")
		require.NoError(t, err)
		assert.Equal(t, "billing@acme.com", vendor.ContactEmail)
		assert.Equal(t, PaymentStatusNone, vendor.PaymentStatus)
		assert.False(t, vendor.Approved)
		assert.NotEqual(t, "", vendor.ID.String())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewVendor("", "billing@acme.com", "user-1")
		assert.Error(t, err)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewVendor("Acme", "not-an-email", "user-1")
		assert.Error(t, err)
	})
}

func TestVendor_RecordInvoiceIssued(t *testing.T) {
	t.Run("issues from initial state", func(t *testing.T) {
		vendor, _ := NewVendor("Acme", "billing@acme.com", "user-1")

		err := vendor.RecordInvoiceIssued("in_123", "https://pay.example/in_123", 50000)
		require.NoError(t, err)

		assert.Equal(t, PaymentStatusSent, vendor.PaymentStatus)
		assert.Equal(t, "in_123", vendor.LastInvoiceRef)
		assert.Equal(t, "https://pay.example/in_123", vendor.HostedInvoiceURL)
		assert.Equal(t, int64(50000), vendor.InvoiceAmountCents)
	})

	t.Run("retries after failure with a new reference", func(t *testing.T) {
		vendor, _ := NewVendor("Acme", "billing@acme.com", "user-1")
		require.NoError(t, vendor.RecordInvoiceIssued("in_old", "", 50000))
		require.NoError(t, vendor.MarkPaymentFailed("void"))

		err := vendor.RecordInvoiceIssued("in_new", "", 50000)
		require.NoError(t, err)
		assert.Equal(t, PaymentStatusSent, vendor.PaymentStatus)
		assert.Equal(t, "in_new", vendor.LastInvoiceRef)
	})

	t.Run("rejects issuance over a paid vendor", func(t *testing.T) {
		vendor, _ := NewVendor("Acme", "billing@acme.com", "user-1")
		require.NoError(t, vendor.RecordInvoiceIssued("in_123", "", 50000))
		require.NoError(t, vendor.MarkPaid(50000, time.Now()))

		err := vendor.RecordInvoiceIssued("in_456", "", 50000)
		assert.Error(t, err)
		assert.Equal(t, "in_123", vendor.LastInvoiceRef)
	})

	t.Run("rejects empty invoice reference", func(t *testing.T) {
		vendor, _ := NewVendor("Acme", "billing@acme.com", "user-1")
		err := vendor.RecordInvoiceIssued("", "", 50000)
		assert.Error(t, err)
	})
}

func TestVendor_MarkPaid(t *testing.T) {
	t.Run("marks an invoiced vendor paid", func(t *testing.T) {
		vendor, _ := NewVendor("Acme", "billing@acme.com", "user-1")
		require.NoError(t, vendor.RecordInvoiceIssued("in_123", "", 50000))

		paidAt := time.Now()
		err := vendor.MarkPaid(50000, paidAt)
		require.NoError(t, err)

		assert.Equal(t, PaymentStatusPaid, vendor.PaymentStatus)
		assert.Equal(t, int64(50000), vendor.PaidAmountCents)
		require.NotNil(t, vendor.PaidAt)
		assert.True(t, vendor.PaidAt.Equal(paidAt))
	})

	t.Run("is idempotent on duplicate delivery", func(t *testing.T) {
		vendor, _ := NewVendor("Acme", "billing@acme.com", "user-1")
		require.NoError(t, vendor.RecordInvoiceIssued("in_123", "", 50000))
		require.NoError(t, vendor.MarkPaid(50000, time.Now()))

		err := vendor.MarkPaid(50000, time.Now())
		assert.NoError(t, err)
		assert.Equal(t, PaymentStatusPaid, vendor.PaymentStatus)
	})

	t.Run("rejects payment on an unbilled vendor", func(t *testing.T) {
		vendor, _ := NewVendor("Acme", "billing@acme.com", "user-1")
		err := vendor.MarkPaid(50000, time.Now())
		assert.Error(t, err)
	})
}

func TestVendor_MarkPaymentFailed(t *testing.T) {
	t.Run("marks an invoiced vendor failed", func(t *testing.T) {
		vendor, _ := NewVendor("Acme", "billing@acme.com", "user-1")
		require.NoError(t, vendor.RecordInvoiceIssued("in_123", "", 50000))

		err := vendor.MarkPaymentFailed("void")
		require.NoError(t, err)
		assert.Equal(t, PaymentStatusFailed, vendor.PaymentStatus)
		assert.Equal(t, "void", vendor.LastInvoiceStatus)
	})

	t.Run("is idempotent on duplicate delivery", func(t *testing.T) {
		vendor, _ := NewVendor("Acme", "billing@acme.com", "user-1")
		require.NoError(t, vendor.RecordInvoiceIssued("in_123", "", 50000))
		require.NoError(t, vendor.MarkPaymentFailed("void"))

		err := vendor.MarkPaymentFailed("uncollectible")
		assert.NoError(t, err)
		assert.Equal(t, PaymentStatusFailed, vendor.PaymentStatus)
		assert.Equal(t, "uncollectible", vendor.LastInvoiceStatus)
	})

	t.Run("never downgrades a paid vendor", func(t *testing.T) {
		vendor, _ := NewVendor("Acme", "billing@acme.com", "user-1")
		require.NoError(t, vendor.RecordInvoiceIssued("in_123", "", 50000))
		require.NoError(t, vendor.MarkPaid(50000, time.Now()))

		err := vendor.MarkPaymentFailed("void")
		assert.Error(t, err)
		assert.Equal(t, PaymentStatusPaid, vendor.PaymentStatus)
	})
}

func TestVendor_MatchesInvoice(t *testing.T) {
	vendor, _ := NewVendor("Acme", "billing@acme.com", "user-1")
	assert.False(t, vendor.MatchesInvoice(""))
	assert.False(t, vendor.MatchesInvoice("in_123"))

	_ = vendor.RecordInvoiceIssued("in_123", "", 50000)
	assert.True(t, vendor.MatchesInvoice("in_123"))
	assert.False(t, vendor.MatchesInvoice("in_older"))
}
