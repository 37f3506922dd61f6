package persistence

import (
	"context"

	"github.com/expohall/backend/internal/domain/registration"
	"github.com/expohall/backend/internal/domain/shared"
	"github.com/expohall/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAdminAllowlist implements auth.AdminAllowlist using GORM. Each check is
// a key-existence query; the table is small and rarely written, and skipping
// a cache means revocations apply on the next request.
type GormAdminAllowlist struct {
	db *gorm.DB
}

// NewGormAdminAllowlist creates a new GormAdminAllowlist
func NewGormAdminAllowlist(db *gorm.DB) *GormAdminAllowlist {
	return &GormAdminAllowlist{db: db}
}

// IsAllowed reports whether the normalized email is on the admin allowlist
func (r *GormAdminAllowlist) IsAllowed(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AdminAllowlistModel{}).
		Where("email = ?", registration.NormalizeEmail(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Grant adds an email to the allowlist. Granting an existing email is a no-op.
func (r *GormAdminAllowlist) Grant(ctx context.Context, email string) error {
	normalized := registration.NormalizeEmail(email)
	if normalized == "" {
		return shared.ErrInvalidInput
	}

	allowed, err := r.IsAllowed(ctx, normalized)
	if err != nil {
		return err
	}
	if allowed {
		return nil
	}

	model := models.AdminAllowlistModel{
		BaseModel: models.BaseModel{},
		Email:     normalized,
	}
	model.FromDomainBaseEntity(shared.NewBaseEntity())
	return r.db.WithContext(ctx).Create(&model).Error
}

// Revoke removes an email from the allowlist
func (r *GormAdminAllowlist) Revoke(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).
		Where("email = ?", registration.NormalizeEmail(email)).
		Delete(&models.AdminAllowlistModel{}).Error
}
