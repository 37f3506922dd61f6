package registration

import (
	"time"

	"github.com/expohall/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BoothStatus represents the sale state of a single booth
type BoothStatus string

const (
	BoothStatusAvailable BoothStatus = "available"
	BoothStatusReserved  BoothStatus = "reserved"
	BoothStatusSold      BoothStatus = "sold"
)

// IsValid checks if the status is a valid BoothStatus
func (s BoothStatus) IsValid() bool {
	switch s {
	case BoothStatusAvailable, BoothStatusReserved, BoothStatusSold:
		return true
	}
	return false
}

// String returns the string representation of BoothStatus
func (s BoothStatus) String() string {
	return string(s)
}

// Booth is a physical inventory slot assignable to at most one vendor once sold
type Booth struct {
	shared.BaseEntity
	Number   string
	Price    decimal.Decimal
	Status   BoothStatus
	VendorID *uuid.UUID
}

// NewBooth creates an available booth
func NewBooth(number string, price decimal.Decimal) (*Booth, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_BOOTH_NUMBER", "Booth number cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Booth price cannot be negative")
	}
	return &Booth{
		BaseEntity: shared.NewBaseEntity(),
		Number:     number,
		Price:      price,
		Status:     BoothStatusAvailable,
	}, nil
}

// Reserve holds the booth for a vendor before payment completes
func (b *Booth) Reserve(vendorID uuid.UUID) error {
	if b.Status == BoothStatusSold {
		return shared.NewDomainError("BOOTH_SOLD", "Booth is already sold")
	}
	if b.Status == BoothStatusReserved && b.VendorID != nil && *b.VendorID != vendorID {
		return shared.NewDomainError("BOOTH_RESERVED", "Booth is reserved by another vendor")
	}
	b.Status = BoothStatusReserved
	b.VendorID = &vendorID
	b.UpdatedAt = time.Now()
	return nil
}

// Sell commits the booth to a vendor after payment confirmation.
// Selling an already-sold booth to the same vendor is a no-op; selling it to
// a different vendor is a conflict.
func (b *Booth) Sell(vendorID uuid.UUID) error {
	if b.Status == BoothStatusSold {
		if b.VendorID != nil && *b.VendorID == vendorID {
			return nil
		}
		return shared.NewDomainError("BOOTH_SOLD", "Booth is already sold to another vendor")
	}
	b.Status = BoothStatusSold
	b.VendorID = &vendorID
	b.UpdatedAt = time.Now()
	return nil
}

// Release reverts the booth to available, but only when it is currently
// sold to the given vendor. A booth reassigned to someone else in the
// interim is left untouched. Returns true if the booth changed.
func (b *Booth) Release(vendorID uuid.UUID) bool {
	if b.Status != BoothStatusSold || b.VendorID == nil || *b.VendorID != vendorID {
		return false
	}
	b.Status = BoothStatusAvailable
	b.VendorID = nil
	b.UpdatedAt = time.Now()
	return true
}
