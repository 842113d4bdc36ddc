package services

import (
	"context"

	"groompro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PetRepository interface {
	// List returns every pet, or only ownerID's pets when it is set.
	List(ctx context.Context, ownerID *uuid.UUID) ([]models.Pet, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Pet, error)
	Create(ctx context.Context, pet *models.Pet) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Pet, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type gormPetRepository struct {
	db *gorm.DB
}

func NewPetRepository(db *gorm.DB) PetRepository {
	return &gormPetRepository{db: db}
}

func (r *gormPetRepository) List(ctx context.Context, ownerID *uuid.UUID) ([]models.Pet, error) {
	q := r.db.WithContext(ctx).Order("name")
	if ownerID != nil {
		q = q.Where("user_id = ?", *ownerID)
	}
	var pets []models.Pet
	if err := q.Find(&pets).Error; err != nil {
		return nil, translateDBError(err)
	}
	return pets, nil
}

func (r *gormPetRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Pet, error) {
	var pet models.Pet
	if err := r.db.WithContext(ctx).First(&pet, "id = ?", id).Error; err != nil {
		return nil, translateDBError(err)
	}
	return &pet, nil
}

func (r *gormPetRepository) Create(ctx context.Context, pet *models.Pet) error {
	return translateDBError(r.db.WithContext(ctx).Create(pet).Error)
}

func (r *gormPetRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Pet, error) {
	if len(updates) > 0 {
		result := r.db.WithContext(ctx).Model(&models.Pet{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, translateDBError(result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return r.FindByID(ctx, id)
}

func (r *gormPetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Pet{}, "id = ?", id)
	if result.Error != nil {
		return translateDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
