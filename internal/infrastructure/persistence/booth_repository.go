package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/expohall/backend/internal/domain/registration"
	"github.com/expohall/backend/internal/domain/shared"
	"github.com/expohall/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBoothRepository implements BoothRepository using GORM.
// The batch mutations are single guarded UPDATE statements: the WHERE clause
// carries the expected current state, so a stale or duplicate call changes
// nothing instead of corrupting inventory.
type GormBoothRepository struct {
	db *gorm.DB
}

// NewGormBoothRepository creates a new GormBoothRepository
func NewGormBoothRepository(db *gorm.DB) *GormBoothRepository {
	return &GormBoothRepository{db: db}
}

// Create persists a new booth
func (r *GormBoothRepository) Create(ctx context.Context, booth *registration.Booth) error {
	var model models.BoothModel
	model.FromDomain(booth)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByNumber finds a booth by its display number
func (r *GormBoothRepository) FindByNumber(ctx context.Context, number string) (*registration.Booth, error) {
	var model models.BoothModel
	if err := r.db.WithContext(ctx).Where("number = ?", number).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumbers finds all booths matching the given numbers
func (r *GormBoothRepository) FindByNumbers(ctx context.Context, numbers []string) ([]registration.Booth, error) {
	if len(numbers) == 0 {
		return nil, nil
	}
	var boothModels []models.BoothModel
	if err := r.db.WithContext(ctx).Where("number IN ?", numbers).Find(&boothModels).Error; err != nil {
		return nil, err
	}

	booths := make([]registration.Booth, len(boothModels))
	for i, model := range boothModels {
		booths[i] = *model.ToDomain()
	}
	return booths, nil
}

// FindAll returns the full booth inventory ordered by number
func (r *GormBoothRepository) FindAll(ctx context.Context) ([]registration.Booth, error) {
	var boothModels []models.BoothModel
	if err := r.db.WithContext(ctx).Order("number asc").Find(&boothModels).Error; err != nil {
		return nil, err
	}

	booths := make([]registration.Booth, len(boothModels))
	for i, model := range boothModels {
		booths[i] = *model.ToDomain()
	}
	return booths, nil
}

// Reserve holds available booths for a vendor. Booths already held by the
// same vendor are counted as reserved, so retries succeed. If any requested
// booth is held by someone else the whole reservation fails.
func (r *GormBoothRepository) Reserve(ctx context.Context, vendorID uuid.UUID, numbers []string) error {
	if len(numbers) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.BoothModel{}).
			Where("number IN ? AND (status = ? OR (status = ? AND vendor_id = ?))",
				numbers, registration.BoothStatusAvailable.String(),
				registration.BoothStatusReserved.String(), vendorID).
			Updates(map[string]interface{}{
				"status":     registration.BoothStatusReserved.String(),
				"vendor_id":  vendorID,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != int64(len(numbers)) {
			return shared.NewDomainError("BOOTH_UNAVAILABLE", "One or more booths are not available")
		}
		return nil
	})
}

// ReleaseReserved reverts booths to available, touching only rows still
// reserved by the given vendor. Sold booths never match the guard; freeing
// those is the reconciliation path's job.
func (r *GormBoothRepository) ReleaseReserved(ctx context.Context, vendorID uuid.UUID, numbers []string) (int64, error) {
	if len(numbers) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.BoothModel{}).
		Where("number IN ? AND vendor_id = ? AND status = ?",
			numbers, vendorID, registration.BoothStatusReserved.String()).
		Updates(map[string]interface{}{
			"status":     registration.BoothStatusAvailable.String(),
			"vendor_id":  nil,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// MarkSold marks the vendor's booths sold. Booths already sold to the vendor
// match the guard too, so replayed confirmations are no-ops that still count.
func (r *GormBoothRepository) MarkSold(ctx context.Context, vendorID uuid.UUID, numbers []string) (int64, error) {
	if len(numbers) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.BoothModel{}).
		Where("number IN ? AND vendor_id = ? AND status IN ?",
			numbers, vendorID,
			[]string{registration.BoothStatusReserved.String(), registration.BoothStatusSold.String()}).
		Updates(map[string]interface{}{
			"status":     registration.BoothStatusSold.String(),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ReleaseForVendor reverts booths to available, touching only rows still
// sold to the given vendor. A booth reassigned to another vendor in the
// meantime does not match the guard and is left alone.
func (r *GormBoothRepository) ReleaseForVendor(ctx context.Context, vendorID uuid.UUID, numbers []string) (int64, error) {
	if len(numbers) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.BoothModel{}).
		Where("number IN ? AND vendor_id = ? AND status = ?",
			numbers, vendorID, registration.BoothStatusSold.String()).
		Updates(map[string]interface{}{
			"status":     registration.BoothStatusAvailable.String(),
			"vendor_id":  nil,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
