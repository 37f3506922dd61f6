package registration

import (
	"strings"
	"time"

	"github.com/expohall/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents where a vendor sits in the billing lifecycle
type PaymentStatus string

const (
	PaymentStatusNone    PaymentStatus = "none"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSent    PaymentStatus = "payment_sent"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "payment_failed"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusNone, PaymentStatusPending, PaymentStatusSent, PaymentStatusPaid, PaymentStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// This is the single place the payment state machine is encoded; every
// mutation of a vendor's payment status goes through it.
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	switch s {
	case PaymentStatusNone:
		return target == PaymentStatusPending
	case PaymentStatusPending:
		return target == PaymentStatusSent
	case PaymentStatusSent:
		return target == PaymentStatusPaid || target == PaymentStatusFailed
	case PaymentStatusFailed:
		// A failed payment is retried through a fresh issuance call
		return target == PaymentStatusPending
	case PaymentStatusPaid:
		// Terminal for the current invoice reference
		return false
	}
	return false
}

// Vendor is a registrant entity that owes payment for its assigned booths
type Vendor struct {
	shared.BaseEntity
	Name                string
	ContactEmail        string
	OwnerUserID         string
	Approved            bool
	PaymentStatus       PaymentStatus
	ProcessorCustomerID string
	LastInvoiceRef      string
	LastInvoiceStatus   string
	HostedInvoiceURL    string
	InvoiceAmountCents  int64
	PaidAmountCents     int64
	PaidAt              *time.Time
	BoothNumbers        []string
	TotalOwed           decimal.Decimal
}

// NewVendor creates a vendor in its initial, unbilled state
func NewVendor(name, contactEmail, ownerUserID string) (*Vendor, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Vendor name cannot be empty")
	}
	email := NormalizeEmail(contactEmail)
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Vendor contact email is invalid")
	}

	return &Vendor{
		BaseEntity:    shared.NewBaseEntity(),
		Name:          name,
		ContactEmail:  email,
		OwnerUserID:   ownerUserID,
		PaymentStatus: PaymentStatusNone,
		TotalOwed:     decimal.Zero,
	}, nil
}

// NormalizeEmail trims and lowercases an email address for billing lookups
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RecordInvoiceIssued moves the vendor to payment_sent and caches the new
// invoice reference. Issuing a fresh invoice over a failed one is a retry;
// issuing over a paid vendor is rejected.
func (v *Vendor) RecordInvoiceIssued(invoiceRef, hostedURL string, amountCents int64) error {
	if invoiceRef == "" {
		return shared.NewDomainError("INVALID_INVOICE_REF", "Invoice reference cannot be empty")
	}
	status := v.PaymentStatus
	if status == PaymentStatusNone || status == PaymentStatusFailed {
		if !status.CanTransitionTo(PaymentStatusPending) {
			return shared.ErrInvalidState
		}
		status = PaymentStatusPending
	}
	if !status.CanTransitionTo(PaymentStatusSent) {
		return shared.ErrInvalidState
	}

	v.PaymentStatus = PaymentStatusSent
	v.LastInvoiceRef = invoiceRef
	v.LastInvoiceStatus = "open"
	v.HostedInvoiceURL = hostedURL
	v.InvoiceAmountCents = amountCents
	v.PaidAmountCents = 0
	v.PaidAt = nil
	v.UpdatedAt = time.Now()
	return nil
}

// MatchesInvoice reports whether an inbound event refers to the invoice the
// vendor is currently being reconciled against. Events for any other
// reference are stale and must be ignored.
func (v *Vendor) MatchesInvoice(invoiceRef string) bool {
	return invoiceRef != "" && invoiceRef == v.LastInvoiceRef
}

// MarkPaid applies a confirmed payment. Reapplying the same confirmation is
// a no-op so duplicate webhook deliveries are safe.
func (v *Vendor) MarkPaid(amountCents int64, paidAt time.Time) error {
	if v.PaymentStatus == PaymentStatusPaid {
		return nil
	}
	if !v.PaymentStatus.CanTransitionTo(PaymentStatusPaid) {
		return shared.ErrInvalidState
	}
	v.PaymentStatus = PaymentStatusPaid
	v.LastInvoiceStatus = "paid"
	v.PaidAmountCents = amountCents
	v.PaidAt = &paidAt
	v.UpdatedAt = time.Now()
	return nil
}

// MarkPaymentFailed applies a failed/voided/uncollectible outcome.
// Reapplying the same outcome is a no-op.
func (v *Vendor) MarkPaymentFailed(invoiceStatus string) error {
	if v.PaymentStatus == PaymentStatusFailed {
		v.LastInvoiceStatus = invoiceStatus
		return nil
	}
	if !v.PaymentStatus.CanTransitionTo(PaymentStatusFailed) {
		return shared.ErrInvalidState
	}
	v.PaymentStatus = PaymentStatusFailed
	v.LastInvoiceStatus = invoiceStatus
	v.UpdatedAt = time.Now()
	return nil
}

// AssignBooths replaces the vendor's booth assignment list and recomputes
// the total owed from the booth prices.
func (v *Vendor) AssignBooths(numbers []string, total decimal.Decimal) {
	v.BoothNumbers = numbers
	v.TotalOwed = total
	v.UpdatedAt = time.Now()
}

// Approve marks the vendor as approved for the show
func (v *Vendor) Approve() {
	v.Approved = true
	v.UpdatedAt = time.Now()
}
