package persistence

import (
	"context"

	"github.com/expohall/backend/internal/domain/registration"
	"github.com/expohall/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormNotificationRepository implements NotificationRepository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create persists a new notification record
func (r *GormNotificationRepository) Create(ctx context.Context, notification *registration.Notification) error {
	var model models.NotificationModel
	model.FromDomain(notification)
	return r.db.WithContext(ctx).Create(&model).Error
}

// FindByUser returns a user's notifications, newest first
func (r *GormNotificationRepository) FindByUser(ctx context.Context, userID string) ([]registration.Notification, error) {
	var notificationModels []models.NotificationModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&notificationModels).Error; err != nil {
		return nil, err
	}

	notifications := make([]registration.Notification, len(notificationModels))
	for i, model := range notificationModels {
		notifications[i] = *model.ToDomain()
	}
	return notifications, nil
}
