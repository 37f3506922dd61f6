package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/expohall/backend/internal/domain/registration"
	"github.com/expohall/backend/internal/domain/shared"
	"github.com/expohall/backend/internal/infrastructure/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// centsPerUnit converts a decimal currency total into integer cents
var centsPerUnit = decimal.NewFromInt(100)

// IssuanceService issues booth invoices for vendors through the payment
// processor and records the issuance on the vendor.
type IssuanceService struct {
	vendors   registration.VendorRepository
	processor InvoiceProcessor
	logger    *zap.Logger
}

// NewIssuanceService creates a new IssuanceService
func NewIssuanceService(vendors registration.VendorRepository, processor InvoiceProcessor, logger *zap.Logger) *IssuanceService {
	return &IssuanceService{
		vendors:   vendors,
		processor: processor,
		logger:    logger,
	}
}

// IssuanceResult describes the invoice a vendor should pay
type IssuanceResult struct {
	VendorID         uuid.UUID `json:"vendor_id"`
	InvoiceRef       string    `json:"invoice_ref"`
	HostedInvoiceURL string    `json:"hosted_invoice_url"`
	AmountCents      int64     `json:"amount_cents"`
	PaymentStatus    string    `json:"payment_status"`
	Reissued         bool      `json:"reissued"`
}

// IssueInvoice bills a vendor for its assigned booth total. Calling it again
// while the previous invoice is still outstanding returns that invoice
// instead of creating another one; calling it after a failure issues a fresh
// invoice as a retry.
func (s *IssuanceService) IssueInvoice(ctx context.Context, vendorID uuid.UUID) (*IssuanceResult, error) {
	vendor, err := s.vendors.FindByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	switch vendor.PaymentStatus {
	case registration.PaymentStatusPaid:
		return nil, shared.ErrAlreadyPaid
	case registration.PaymentStatusSent:
		// The outstanding invoice is the answer; a second processor invoice
		// for the same debt would let the vendor pay twice
		s.logger.Info("invoice already outstanding, returning existing reference",
			zap.String("vendor_id", vendorID.String()),
			zap.String("invoice_ref", vendor.LastInvoiceRef))
		return &IssuanceResult{
			VendorID:         vendor.ID,
			InvoiceRef:       vendor.LastInvoiceRef,
			HostedInvoiceURL: vendor.HostedInvoiceURL,
			AmountCents:      vendor.InvoiceAmountCents,
			PaymentStatus:    vendor.PaymentStatus.String(),
		}, nil
	}

	amountCents := vendor.TotalOwed.Mul(centsPerUnit).IntPart()
	if amountCents < MinInvoiceAmountCents || amountCents > MaxInvoiceAmountCents {
		return nil, shared.NewDomainError("INVALID_AMOUNT",
			fmt.Sprintf("Invoice amount %d cents is outside the billable range", amountCents))
	}

	retry := vendor.PaymentStatus == registration.PaymentStatusFailed

	output, err := s.processor.IssueInvoice(ctx, billing.IssueInvoiceInput{
		VendorID:       vendor.ID,
		Email:          vendor.ContactEmail,
		Name:           vendor.Name,
		AmountCents:    amountCents,
		Description:    boothDescription(vendor.BoothNumbers),
		IdempotencyKey: IssuanceKey(vendor.ID, amountCents, time.Now()),
	})
	if err != nil {
		s.logger.Error("processor rejected invoice issuance",
			zap.String("vendor_id", vendorID.String()),
			zap.Error(err))
		return nil, shared.ErrExternalService
	}

	if err := vendor.RecordInvoiceIssued(output.InvoiceRef, output.HostedInvoiceURL, amountCents); err != nil {
		return nil, err
	}

	status := vendor.PaymentStatus
	invoiceStatus := output.Status.String()
	patch := registration.VendorPaymentPatch{
		PaymentStatus:       &status,
		ProcessorCustomerID: &output.CustomerID,
		LastInvoiceRef:      &output.InvoiceRef,
		LastInvoiceStatus:   &invoiceStatus,
		HostedInvoiceURL:    &output.HostedInvoiceURL,
		InvoiceAmountCents:  &amountCents,
	}
	if err := s.vendors.MergePayment(ctx, vendor.ID, patch); err != nil {
		return nil, err
	}

	s.logger.Info("issued booth invoice",
		zap.String("vendor_id", vendorID.String()),
		zap.String("invoice_ref", output.InvoiceRef),
		zap.Int64("amount_cents", amountCents),
		zap.Bool("retry", retry))

	return &IssuanceResult{
		VendorID:         vendor.ID,
		InvoiceRef:       output.InvoiceRef,
		HostedInvoiceURL: output.HostedInvoiceURL,
		AmountCents:      amountCents,
		PaymentStatus:    vendor.PaymentStatus.String(),
		Reissued:         retry,
	}, nil
}

func boothDescription(numbers []string) string {
	if len(numbers) == 0 {
		return "Exhibition booth reservation"
	}
	return fmt.Sprintf("Exhibition booth reservation (%d booths)", len(numbers))
}
