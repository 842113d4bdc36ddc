package services

import (
	"context"

	"groompro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReminderLogRepository interface {
	// HasSent reports whether a reminder for the appointment was already delivered.
	HasSent(ctx context.Context, appointmentID uuid.UUID) (bool, error)
	Create(ctx context.Context, entry *models.ReminderLog) error
}

type gormReminderLogRepository struct {
	db *gorm.DB
}

func NewReminderLogRepository(db *gorm.DB) ReminderLogRepository {
	return &gormReminderLogRepository{db: db}
}

func (r *gormReminderLogRepository) HasSent(ctx context.Context, appointmentID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ReminderLog{}).
		Where("appointment_id = ? AND status = ?", appointmentID, models.ReminderSent).
		Count(&count).Error
	if err != nil {
		return false, translateDBError(err)
	}
	return count > 0, nil
}

func (r *gormReminderLogRepository) Create(ctx context.Context, entry *models.ReminderLog) error {
	return translateDBError(r.db.WithContext(ctx).Create(entry).Error)
}
