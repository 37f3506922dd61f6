package payments

import (
	"context"

	"github.com/expohall/backend/internal/domain/registration"
	"github.com/expohall/backend/internal/domain/shared"
	"github.com/expohall/backend/internal/infrastructure/billing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Cancellation outcomes
const (
	CancelOutcomeDeleted     = "deleted"
	CancelOutcomeVoided      = "voided"
	CancelOutcomeAlreadyVoid = "already_void"
)

// CancellationService cancels a vendor's outstanding invoice at the payment
// processor. It always consults the processor's current view of the invoice
// first; the local copy of the invoice status may be behind a webhook that
// is still in flight.
type CancellationService struct {
	vendors   registration.VendorRepository
	processor InvoiceProcessor
	logger    *zap.Logger
}

// NewCancellationService creates a new CancellationService
func NewCancellationService(vendors registration.VendorRepository, processor InvoiceProcessor, logger *zap.Logger) *CancellationService {
	return &CancellationService{
		vendors:   vendors,
		processor: processor,
		logger:    logger,
	}
}

// CancellationResult describes what happened to the invoice
type CancellationResult struct {
	VendorID   uuid.UUID `json:"vendor_id"`
	InvoiceRef string    `json:"invoice_ref"`
	Outcome    string    `json:"outcome"`
}

// CancelInvoice cancels the vendor's current invoice. Drafts are deleted,
// open invoices are voided, already-void invoices are a no-op, and paid
// invoices are refused. Booth inventory is not touched here: voiding an open
// invoice triggers a processor webhook and the reconciliation path does the
// reverting.
func (s *CancellationService) CancelInvoice(ctx context.Context, vendorID uuid.UUID) (*CancellationResult, error) {
	vendor, err := s.vendors.FindByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if vendor.LastInvoiceRef == "" {
		return nil, shared.NewDomainError("NO_INVOICE", "Vendor has no invoice to cancel")
	}

	snapshot, err := s.processor.GetInvoice(ctx, vendor.LastInvoiceRef)
	if err != nil {
		s.logger.Error("failed to fetch invoice for cancellation",
			zap.String("vendor_id", vendorID.String()),
			zap.String("invoice_ref", vendor.LastInvoiceRef),
			zap.Error(err))
		return nil, shared.ErrExternalService
	}

	result := &CancellationResult{
		VendorID:   vendor.ID,
		InvoiceRef: vendor.LastInvoiceRef,
	}

	switch snapshot.Status {
	case billing.InvoiceStatusDraft:
		if err := s.processor.DeleteDraftInvoice(ctx, vendor.LastInvoiceRef); err != nil {
			return nil, shared.ErrExternalService
		}
		// A deleted draft emits no terminal webhook, so the vendor's state is
		// settled here instead of by the reconciliation path
		if err := vendor.MarkPaymentFailed("deleted"); err == nil {
			status := vendor.PaymentStatus
			invoiceStatus := vendor.LastInvoiceStatus
			if mergeErr := s.vendors.MergePayment(ctx, vendor.ID, registration.VendorPaymentPatch{
				PaymentStatus:     &status,
				LastInvoiceStatus: &invoiceStatus,
			}); mergeErr != nil {
				return nil, mergeErr
			}
		}
		result.Outcome = CancelOutcomeDeleted

	case billing.InvoiceStatusOpen:
		if _, err := s.processor.VoidInvoice(ctx, vendor.LastInvoiceRef); err != nil {
			return nil, shared.ErrExternalService
		}
		result.Outcome = CancelOutcomeVoided

	case billing.InvoiceStatusVoid, billing.InvoiceStatusUncollectible:
		// Someone else already canceled it; repeating the request succeeds
		result.Outcome = CancelOutcomeAlreadyVoid

	case billing.InvoiceStatusPaid:
		return nil, shared.ErrAlreadyPaid

	default:
		return nil, shared.NewDomainError("INVALID_STATE",
			"Invoice is in a state that cannot be canceled")
	}

	s.logger.Info("canceled invoice",
		zap.String("vendor_id", vendorID.String()),
		zap.String("invoice_ref", result.InvoiceRef),
		zap.String("outcome", result.Outcome))
	return result, nil
}
