package registration

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VendorPaymentPatch is a field-level merge applied to a vendor's payment
// state. Nil fields are left untouched, so a webhook landing while an admin
// edits the vendor's profile never clobbers unrelated fields.
type VendorPaymentPatch struct {
	PaymentStatus       *PaymentStatus
	ProcessorCustomerID *string
	LastInvoiceRef      *string
	LastInvoiceStatus   *string
	HostedInvoiceURL    *string
	InvoiceAmountCents  *int64
	PaidAmountCents     *int64
	PaidAt              *time.Time
}

// VendorRepository persists vendor aggregates
type VendorRepository interface {
	Create(ctx context.Context, vendor *Vendor) error
	FindByID(ctx context.Context, id uuid.UUID) (*Vendor, error)
	FindByEmail(ctx context.Context, email string) (*Vendor, error)
	// MergePayment applies a field-level merge to the vendor's payment state
	MergePayment(ctx context.Context, id uuid.UUID, patch VendorPaymentPatch) error
	// AssignBooths replaces the vendor's booth assignment list
	AssignBooths(ctx context.Context, id uuid.UUID, numbers []string, total decimal.Decimal) error
}

// BoothRepository persists booth inventory. The batch mutations are
// expressed as single guarded updates so each one is atomic and idempotent
// given the same target state.
type BoothRepository interface {
	Create(ctx context.Context, booth *Booth) error
	FindByNumber(ctx context.Context, number string) (*Booth, error)
	FindByNumbers(ctx context.Context, numbers []string) ([]Booth, error)
	FindAll(ctx context.Context) ([]Booth, error)
	// Reserve holds available booths for a vendor
	Reserve(ctx context.Context, vendorID uuid.UUID, numbers []string) error
	// ReleaseReserved reverts booths to available, but only those currently
	// reserved by the given vendor; sold booths are untouched
	ReleaseReserved(ctx context.Context, vendorID uuid.UUID, numbers []string) (int64, error)
	// MarkSold sets status=sold, vendor_id=vendorID for the given booth numbers
	MarkSold(ctx context.Context, vendorID uuid.UUID, numbers []string) (int64, error)
	// ReleaseForVendor reverts booths to available, but only those currently
	// sold to the given vendor
	ReleaseForVendor(ctx context.Context, vendorID uuid.UUID, numbers []string) (int64, error)
}

// NotificationRepository persists append-only notification records
type NotificationRepository interface {
	Create(ctx context.Context, notification *Notification) error
	FindByUser(ctx context.Context, userID string) ([]Notification, error)
}
