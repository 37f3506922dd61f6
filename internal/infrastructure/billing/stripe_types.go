package billing

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceStatus represents the status of a processor invoice
type InvoiceStatus string

const (
	// InvoiceStatusDraft indicates an invoice that has not been finalized
	InvoiceStatusDraft InvoiceStatus = "draft"

	// InvoiceStatusOpen indicates a finalized invoice awaiting payment
	InvoiceStatusOpen InvoiceStatus = "open"

	// InvoiceStatusPaid indicates a settled invoice
	InvoiceStatusPaid InvoiceStatus = "paid"

	// InvoiceStatusVoid indicates a canceled invoice
	InvoiceStatusVoid InvoiceStatus = "void"

	// InvoiceStatusUncollectible indicates an invoice written off as unpayable
	InvoiceStatusUncollectible InvoiceStatus = "uncollectible"
)

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsFinal returns true if the invoice can no longer collect payment
func (s InvoiceStatus) IsFinal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusVoid || s == InvoiceStatusUncollectible
}

// IssueInvoiceInput contains input for issuing a booth invoice
type IssueInvoiceInput struct {
	VendorID       uuid.UUID
	Email          string
	Name           string
	AmountCents    int64
	Description    string
	IdempotencyKey string
	Metadata       map[string]string
}

// IssueInvoiceOutput contains the result of issuing a booth invoice
type IssueInvoiceOutput struct {
	InvoiceRef       string
	CustomerID       string
	Status           InvoiceStatus
	HostedInvoiceURL string
	AmountDueCents   int64
	CreatedAt        time.Time
}

// InvoiceSnapshot is the processor's current view of an invoice
type InvoiceSnapshot struct {
	InvoiceRef       string
	CustomerID       string
	Status           InvoiceStatus
	HostedInvoiceURL string
	AmountDueCents   int64
	AmountPaidCents  int64
}
