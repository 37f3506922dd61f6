package registration

import (
	"github.com/expohall/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Notification kinds
const (
	NotificationKindPaymentReceived = "payment_received"
)

// Notification is an append-only record created when a payment is confirmed.
// Delivery is handled by a separate collaborator; this system only records.
type Notification struct {
	shared.BaseEntity
	UserID      string
	Kind        string
	VendorID    uuid.UUID
	InvoiceRef  string
	AmountCents int64
	Read        bool
}

// NewPaymentReceivedNotification creates a payment-received notification for
// the vendor's owning user
func NewPaymentReceivedNotification(userID string, vendorID uuid.UUID, invoiceRef string, amountCents int64) *Notification {
	return &Notification{
		BaseEntity:  shared.NewBaseEntity(),
		UserID:      userID,
		Kind:        NotificationKindPaymentReceived,
		VendorID:    vendorID,
		InvoiceRef:  invoiceRef,
		AmountCents: amountCents,
	}
}
