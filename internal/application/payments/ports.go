package payments

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/expohall/backend/internal/infrastructure/billing"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
)

// Invoice amount bounds in cents. Anything outside this window is a data
// entry mistake, not a billable total.
const (
	MinInvoiceAmountCents int64 = 100
	MaxInvoiceAmountCents int64 = 100_000_000
)

// InvoiceProcessor is the port to the external payment processor. The
// services in this package depend on it rather than the Stripe adapter so
// tests can substitute a fake processor.
type InvoiceProcessor interface {
	IssueInvoice(ctx context.Context, input billing.IssueInvoiceInput) (*billing.IssueInvoiceOutput, error)
	GetInvoice(ctx context.Context, invoiceRef string) (*billing.InvoiceSnapshot, error)
	VoidInvoice(ctx context.Context, invoiceRef string) (*billing.InvoiceSnapshot, error)
	DeleteDraftInvoice(ctx context.Context, invoiceRef string) error
	VerifyEvent(payload []byte, signatureHeader string) (stripe.Event, error)
}

// IssuanceKey derives the idempotency key for an invoice issuance request.
// It hashes the vendor, the amount, and the current hour, so retries of the
// same billing intent within an hour collapse into one processor invoice
// while a corrected amount immediately produces a fresh key.
func IssuanceKey(vendorID uuid.UUID, amountCents int64, now time.Time) string {
	bucket := now.UTC().Truncate(time.Hour).Unix()
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%d", vendorID, amountCents, bucket)))
	return hex.EncodeToString(sum[:])
}
