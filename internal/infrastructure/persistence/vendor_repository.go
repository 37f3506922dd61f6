package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/expohall/backend/internal/domain/registration"
	"github.com/expohall/backend/internal/domain/shared"
	"github.com/expohall/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormVendorRepository implements VendorRepository using GORM
type GormVendorRepository struct {
	db *gorm.DB
}

// NewGormVendorRepository creates a new GormVendorRepository
func NewGormVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

// Create persists a new vendor
func (r *GormVendorRepository) Create(ctx context.Context, vendor *registration.Vendor) error {
	var model models.VendorModel
	model.FromDomain(vendor)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID finds a vendor by its ID
func (r *GormVendorRepository) FindByID(ctx context.Context, id uuid.UUID) (*registration.Vendor, error) {
	var model models.VendorModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a vendor by its normalized contact email
func (r *GormVendorRepository) FindByEmail(ctx context.Context, email string) (*registration.Vendor, error) {
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	var model models.VendorModel
	if err := r.db.WithContext(ctx).
		Where("contact_email = ?", registration.NormalizeEmail(email)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// MergePayment applies a field-level merge to the vendor's payment state.
// Only the fields set in the patch are written, so concurrent edits to
// unrelated vendor fields survive a webhook landing at the same time.
func (r *GormVendorRepository) MergePayment(ctx context.Context, id uuid.UUID, patch registration.VendorPaymentPatch) error {
	fields := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if patch.PaymentStatus != nil {
		fields["payment_status"] = patch.PaymentStatus.String()
	}
	if patch.ProcessorCustomerID != nil {
		fields["processor_customer_id"] = *patch.ProcessorCustomerID
	}
	if patch.LastInvoiceRef != nil {
		fields["last_invoice_ref"] = *patch.LastInvoiceRef
	}
	if patch.LastInvoiceStatus != nil {
		fields["last_invoice_status"] = *patch.LastInvoiceStatus
	}
	if patch.HostedInvoiceURL != nil {
		fields["hosted_invoice_url"] = *patch.HostedInvoiceURL
	}
	if patch.InvoiceAmountCents != nil {
		fields["invoice_amount_cents"] = *patch.InvoiceAmountCents
	}
	if patch.PaidAmountCents != nil {
		fields["paid_amount_cents"] = *patch.PaidAmountCents
	}
	if patch.PaidAt != nil {
		fields["paid_at"] = *patch.PaidAt
	}

	result := r.db.WithContext(ctx).
		Model(&models.VendorModel{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// AssignBooths replaces the vendor's booth assignment list and total owed
func (r *GormVendorRepository) AssignBooths(ctx context.Context, id uuid.UUID, numbers []string, total decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&models.VendorModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"booth_numbers": models.MarshalBoothNumbers(numbers),
			"total_owed":    total,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
