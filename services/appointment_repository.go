package services

import (
	"context"
	"time"

	"groompro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentFilter narrows a listing. Zero fields are ignored.
type AppointmentFilter struct {
	UserID     *uuid.UUID
	EmployeeID *string
	From       *time.Time
	To         *time.Time
	Statuses   []models.AppointmentStatus
}

type AppointmentRepository interface {
	List(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	Create(ctx context.Context, appt *models.Appointment) error
	// Update applies updates to exactly the row with id and returns it reloaded.
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type gormAppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &gormAppointmentRepository{db: db}
}

func (r *gormAppointmentRepository) List(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error) {
	q := r.db.WithContext(ctx).Preload("Pet").Preload("User").Order("scheduled_at")
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.EmployeeID != nil {
		q = q.Where("employee_id = ?", *f.EmployeeID)
	}
	if f.From != nil {
		q = q.Where("scheduled_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("scheduled_at < ?", *f.To)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}

	var appts []models.Appointment
	if err := q.Find(&appts).Error; err != nil {
		return nil, translateDBError(err)
	}
	return appts, nil
}

func (r *gormAppointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var appt models.Appointment
	err := r.db.WithContext(ctx).Preload("Pet").Preload("User").First(&appt, "id = ?", id).Error
	if err != nil {
		return nil, translateDBError(err)
	}
	return &appt, nil
}

func (r *gormAppointmentRepository) Create(ctx context.Context, appt *models.Appointment) error {
	return translateDBError(r.db.WithContext(ctx).Omit("User", "Pet").Create(appt).Error)
}

func (r *gormAppointmentRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Appointment, error) {
	if len(updates) > 0 {
		result := r.db.WithContext(ctx).Model(&models.Appointment{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, translateDBError(result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return r.FindByID(ctx, id)
}

func (r *gormAppointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Appointment{}, "id = ?", id)
	if result.Error != nil {
		return translateDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
