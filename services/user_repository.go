package services

import (
	"context"

	"groompro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByAuthID(ctx context.Context, authID uuid.UUID) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByRole(ctx context.Context, role models.Role, withPets bool) ([]models.User, error)
}

type gormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translateDBError(err)
	}
	return &user, nil
}

func (r *gormUserRepository) FindByAuthID(ctx context.Context, authID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "auth_id = ?", authID).Error; err != nil {
		return nil, translateDBError(err)
	}
	return &user, nil
}

func (r *gormUserRepository) Create(ctx context.Context, user *models.User) error {
	return translateDBError(r.db.WithContext(ctx).Create(user).Error)
}

func (r *gormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return translateDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormUserRepository) ListByRole(ctx context.Context, role models.Role, withPets bool) ([]models.User, error) {
	q := r.db.WithContext(ctx).Where("role = ?", role).Order("last_name, first_name")
	if withPets {
		q = q.Preload("Pets", func(db *gorm.DB) *gorm.DB { return db.Order("name") })
	}
	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, translateDBError(err)
	}
	return users, nil
}
