package registration

import (
	"github.com/expohall/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event types published by the reconciliation path
const (
	EventTypePaymentConfirmed = "registration.payment_confirmed"
	EventTypePaymentFailed    = "registration.payment_failed"
)

// PaymentConfirmedEvent is published after a vendor's payment is reconciled
// as paid and its booths are committed
type PaymentConfirmedEvent struct {
	shared.BaseDomainEvent
	VendorID    uuid.UUID `json:"vendor_id"`
	OwnerUserID string    `json:"owner_user_id"`
	InvoiceRef  string    `json:"invoice_ref"`
	AmountCents int64     `json:"amount_cents"`
}

// NewPaymentConfirmedEvent creates a PaymentConfirmedEvent
func NewPaymentConfirmedEvent(vendorID uuid.UUID, ownerUserID, invoiceRef string, amountCents int64) *PaymentConfirmedEvent {
	return &PaymentConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentConfirmed, "Vendor", vendorID),
		VendorID:        vendorID,
		OwnerUserID:     ownerUserID,
		InvoiceRef:      invoiceRef,
		AmountCents:     amountCents,
	}
}

// PaymentFailedEvent is published after a vendor's payment is reconciled as
// failed, voided, or uncollectible
type PaymentFailedEvent struct {
	shared.BaseDomainEvent
	VendorID      uuid.UUID `json:"vendor_id"`
	InvoiceRef    string    `json:"invoice_ref"`
	InvoiceStatus string    `json:"invoice_status"`
}

// NewPaymentFailedEvent creates a PaymentFailedEvent
func NewPaymentFailedEvent(vendorID uuid.UUID, invoiceRef, invoiceStatus string) *PaymentFailedEvent {
	return &PaymentFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentFailed, "Vendor", vendorID),
		VendorID:        vendorID,
		InvoiceRef:      invoiceRef,
		InvoiceStatus:   invoiceStatus,
	}
}
