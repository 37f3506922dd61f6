package vendors

import (
	"context"
	"fmt"
	"time"

	"github.com/expohall/backend/internal/domain/registration"
	"github.com/expohall/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RegistrationService manages vendor registration and booth inventory ahead
// of billing. Booth state transitions tied to payment outcomes live in the
// payments package; this service only creates, assigns, and reads.
type RegistrationService struct {
	vendors registration.VendorRepository
	booths  registration.BoothRepository
	logger  *zap.Logger
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(vendors registration.VendorRepository, booths registration.BoothRepository, logger *zap.Logger) *RegistrationService {
	return &RegistrationService{
		vendors: vendors,
		booths:  booths,
		logger:  logger,
	}
}

// CreateVendorInput contains the data to register a vendor
type CreateVendorInput struct {
	Name         string `json:"name" binding:"required"`
	ContactEmail string `json:"contact_email" binding:"required,email"`
	OwnerUserID  string `json:"owner_user_id"`
}

// CreateVendor registers a new vendor in its unbilled state
func (s *RegistrationService) CreateVendor(ctx context.Context, input CreateVendorInput) (*registration.Vendor, error) {
	vendor, err := registration.NewVendor(input.Name, input.ContactEmail, input.OwnerUserID)
	if err != nil {
		return nil, err
	}

	if err := s.vendors.Create(ctx, vendor); err != nil {
		return nil, err
	}

	s.logger.Info("vendor registered",
		zap.String("vendor_id", vendor.ID.String()),
		zap.String("contact_email", vendor.ContactEmail))
	return vendor, nil
}

// GetVendor returns a vendor by ID
func (s *RegistrationService) GetVendor(ctx context.Context, id uuid.UUID) (*registration.Vendor, error) {
	return s.vendors.FindByID(ctx, id)
}

// CreateBoothInput contains the data to add a booth to inventory
type CreateBoothInput struct {
	Number string          `json:"number" binding:"required"`
	Price  decimal.Decimal `json:"price" binding:"required"`
}

// CreateBooth adds an available booth to inventory
func (s *RegistrationService) CreateBooth(ctx context.Context, input CreateBoothInput) (*registration.Booth, error) {
	booth, err := registration.NewBooth(input.Number, input.Price)
	if err != nil {
		return nil, err
	}

	if err := s.booths.Create(ctx, booth); err != nil {
		return nil, err
	}

	s.logger.Info("booth created",
		zap.String("number", booth.Number),
		zap.String("price", booth.Price.String()))
	return booth, nil
}

// ListBooths returns the full booth inventory ordered by number
func (s *RegistrationService) ListBooths(ctx context.Context) ([]registration.Booth, error) {
	return s.booths.FindAll(ctx)
}

// AssignmentResult describes a completed booth assignment
type AssignmentResult struct {
	VendorID     uuid.UUID       `json:"vendor_id"`
	BoothNumbers []string        `json:"booth_numbers"`
	TotalOwed    decimal.Decimal `json:"total_owed"`
}

// AssignBooths reserves the given booths for a vendor and recomputes the
// total owed from their prices. Assignment is frozen once an invoice is
// outstanding or paid; changing booths then would desync the billed amount.
func (s *RegistrationService) AssignBooths(ctx context.Context, vendorID uuid.UUID, numbers []string) (*AssignmentResult, error) {
	if len(numbers) == 0 {
		return nil, shared.NewDomainError("INVALID_ASSIGNMENT", "At least one booth number is required")
	}

	vendor, err := s.vendors.FindByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	switch vendor.PaymentStatus {
	case registration.PaymentStatusSent:
		return nil, shared.NewDomainError("BILLING_IN_PROGRESS", "Booth assignment cannot change while an invoice is outstanding")
	case registration.PaymentStatusPaid:
		return nil, shared.ErrAlreadyPaid
	}

	booths, err := s.booths.FindByNumbers(ctx, numbers)
	if err != nil {
		return nil, err
	}
	if len(booths) != len(numbers) {
		return nil, shared.NewDomainError("BOOTH_NOT_FOUND",
			fmt.Sprintf("Only %d of %d requested booths exist", len(booths), len(numbers)))
	}

	total := decimal.Zero
	for i := range booths {
		total = total.Add(booths[i].Price)
	}

	if err := s.booths.Reserve(ctx, vendorID, numbers); err != nil {
		return nil, err
	}

	// Booths dropped from the previous assignment go back to inventory;
	// leaving them reserved would strand them with nobody able to take them
	if dropped := droppedNumbers(vendor.BoothNumbers, numbers); len(dropped) > 0 {
		released, err := s.booths.ReleaseReserved(ctx, vendorID, dropped)
		if err != nil {
			return nil, err
		}
		s.logger.Info("released booths dropped from assignment",
			zap.String("vendor_id", vendorID.String()),
			zap.Strings("numbers", dropped),
			zap.Int64("released", released))
	}

	if err := s.vendors.AssignBooths(ctx, vendorID, numbers, total); err != nil {
		return nil, err
	}

	s.logger.Info("booths assigned",
		zap.String("vendor_id", vendorID.String()),
		zap.Strings("numbers", numbers),
		zap.String("total_owed", total.String()))

	return &AssignmentResult{
		VendorID:     vendorID,
		BoothNumbers: numbers,
		TotalOwed:    total,
	}, nil
}

// droppedNumbers returns the booth numbers in previous that are absent
// from current
func droppedNumbers(previous, current []string) []string {
	keep := make(map[string]struct{}, len(current))
	for _, n := range current {
		keep[n] = struct{}{}
	}

	var dropped []string
	for _, n := range previous {
		if _, ok := keep[n]; !ok {
			dropped = append(dropped, n)
		}
	}
	return dropped
}

// PaymentView is the read model exposed to payment-status consumers
type PaymentView struct {
	VendorID         uuid.UUID  `json:"vendor_id"`
	Name             string     `json:"name"`
	PaymentStatus    string     `json:"payment_status"`
	InvoiceRef       string     `json:"invoice_ref,omitempty"`
	InvoiceStatus    string     `json:"invoice_status,omitempty"`
	HostedInvoiceURL string     `json:"hosted_invoice_url,omitempty"`
	AmountCents      int64      `json:"amount_cents"`
	PaidAmountCents  int64      `json:"paid_amount_cents"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
	BoothNumbers     []string   `json:"booth_numbers"`
	TotalOwed        string     `json:"total_owed"`
}

// GetVendorPayment returns the payment status view for a vendor
func (s *RegistrationService) GetVendorPayment(ctx context.Context, vendorID uuid.UUID) (*PaymentView, error) {
	vendor, err := s.vendors.FindByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	return &PaymentView{
		VendorID:         vendor.ID,
		Name:             vendor.Name,
		PaymentStatus:    vendor.PaymentStatus.String(),
		InvoiceRef:       vendor.LastInvoiceRef,
		InvoiceStatus:    vendor.LastInvoiceStatus,
		HostedInvoiceURL: vendor.HostedInvoiceURL,
		AmountCents:      vendor.InvoiceAmountCents,
		PaidAmountCents:  vendor.PaidAmountCents,
		PaidAt:           vendor.PaidAt,
		BoothNumbers:     vendor.BoothNumbers,
		TotalOwed:        vendor.TotalOwed.String(),
	}, nil
}
