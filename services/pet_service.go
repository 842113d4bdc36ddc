package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"groompro-backend/models"
	"groompro-backend/utils"

	"github.com/google/uuid"
)

type PetService struct {
	pets PetRepository
}

func NewPetService(pets PetRepository) *PetService {
	return &PetService{pets: pets}
}

type PetInput struct {
	// UserID is honoured for admins only; clients always own what they create.
	UserID *uuid.UUID      `json:"user_id"`
	Name   *string         `json:"name"`
	Breed  *string         `json:"breed"`
	Size   *models.PetSize `json:"size"`
	Weight *float64        `json:"weight"`
	DOB    *string         `json:"dob"`
	Notes  *string         `json:"notes"`
}

// List returns the actor's pets, or every pet for admins.
func (s *PetService) List(ctx context.Context, actor models.User) ([]models.Pet, error) {
	if actor.Role == models.RoleAdmin {
		return s.pets.List(ctx, nil)
	}
	return s.pets.List(ctx, &actor.ID)
}

func (s *PetService) Create(ctx context.Context, actor models.User, in PetInput) (*models.Pet, error) {
	owner := actor.ID
	if actor.Role == models.RoleAdmin {
		if in.UserID == nil {
			return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
		}
		owner = *in.UserID
	}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	updates, err := in.fields()
	if err != nil {
		return nil, err
	}
	pet := &models.Pet{ID: uuid.New(), UserID: owner}
	applyPetFields(pet, updates)

	if err := s.pets.Create(ctx, pet); err != nil {
		return nil, fmt.Errorf("create pet: %w", err)
	}
	return pet, nil
}

func (s *PetService) Update(ctx context.Context, actor models.User, id uuid.UUID, in PetInput) (*models.Pet, error) {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return nil, err
	}
	updates, err := in.fields()
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	return s.pets.Update(ctx, id, updates)
}

func (s *PetService) Delete(ctx context.Context, actor models.User, id uuid.UUID) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	return s.pets.Delete(ctx, id)
}

func (s *PetService) owned(ctx context.Context, actor models.User, id uuid.UUID) (*models.Pet, error) {
	pet, err := s.pets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin && pet.UserID != actor.ID {
		return nil, ErrForbidden
	}
	return pet, nil
}

func (in PetInput) fields() (map[string]any, error) {
	updates := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		updates["name"] = name
	}
	if in.Breed != nil {
		updates["breed"] = strings.TrimSpace(*in.Breed)
	}
	if in.Size != nil {
		if !in.Size.Valid() {
			return nil, fmt.Errorf("%w: unknown size %q", ErrInvalidInput, *in.Size)
		}
		updates["size"] = *in.Size
	}
	if in.Weight != nil {
		if *in.Weight <= 0 {
			return nil, fmt.Errorf("%w: weight must be positive", ErrInvalidInput)
		}
		updates["weight"] = *in.Weight
	}
	if in.DOB != nil {
		dob, err := time.Parse(utils.DateLayout, *in.DOB)
		if err != nil {
			return nil, fmt.Errorf("%w: dob must be YYYY-MM-DD", ErrInvalidInput)
		}
		if dob.After(time.Now()) {
			return nil, fmt.Errorf("%w: dob is in the future", ErrInvalidInput)
		}
		updates["dob"] = dob
	}
	if in.Notes != nil {
		updates["notes"] = strings.TrimSpace(*in.Notes)
	}
	return updates, nil
}

func applyPetFields(pet *models.Pet, f map[string]any) {
	if v, ok := f["name"].(string); ok {
		pet.Name = v
	}
	if v, ok := f["breed"].(string); ok {
		pet.Breed = v
	}
	if v, ok := f["size"].(models.PetSize); ok {
		pet.Size = v
	}
	if v, ok := f["weight"].(float64); ok {
		pet.Weight = &v
	}
	if v, ok := f["dob"].(time.Time); ok {
		pet.DOB = &v
	}
	if v, ok := f["notes"].(string); ok {
		pet.Notes = v
	}
}
