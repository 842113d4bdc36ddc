package services

import (
	"context"
	"testing"

	"groompro-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestPetService_ClientOwnsWhatItCreates(t *testing.T) {
	client := models.User{ID: uuid.New(), Role: models.RoleClient}
	pets := newFakePets()
	svc := NewPetService(pets)
	ctx := context.Background()

	someoneElse := uuid.New()
	size := models.PetSizeLarge
	weight := 61.5
	pet, err := svc.Create(ctx, client, PetInput{
		UserID: &someoneElse,
		Name:   strPtr(" Rex "),
		Breed:  strPtr("Newfoundland"),
		Size:   &size,
		Weight: &weight,
		DOB:    strPtr("2020-04-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, client.ID, pet.UserID)
	assert.Equal(t, "Rex", pet.Name)
	assert.Equal(t, models.PetSizeLarge, pet.Size)
	require.NotNil(t, pet.DOB)
	assert.Equal(t, 2020, pet.DOB.Year())

	list, err := svc.List(ctx, client)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestPetService_AdminMustNameOwner(t *testing.T) {
	admin := models.User{ID: uuid.New(), Role: models.RoleAdmin}
	svc := NewPetService(newFakePets())
	ctx := context.Background()

	_, err := svc.Create(ctx, admin, PetInput{Name: strPtr("Rex")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	owner := uuid.New()
	pet, err := svc.Create(ctx, admin, PetInput{UserID: &owner, Name: strPtr("Rex")})
	require.NoError(t, err)
	assert.Equal(t, owner, pet.UserID)
}

func TestPetService_Validation(t *testing.T) {
	client := models.User{ID: uuid.New(), Role: models.RoleClient}
	svc := NewPetService(newFakePets())
	ctx := context.Background()

	bogus := models.PetSize("huge")
	negative := -3.0
	cases := []PetInput{
		{},
		{Name: strPtr("  ")},
		{Name: strPtr("Rex"), Size: &bogus},
		{Name: strPtr("Rex"), Weight: &negative},
		{Name: strPtr("Rex"), DOB: strPtr("April 1st")},
		{Name: strPtr("Rex"), DOB: strPtr("2999-01-01")},
	}
	for i, in := range cases {
		_, err := svc.Create(ctx, client, in)
		assert.ErrorIs(t, err, ErrInvalidInput, "case %d", i)
	}
}

func TestPetService_OwnershipOnUpdateAndDelete(t *testing.T) {
	owner := models.User{ID: uuid.New(), Role: models.RoleClient}
	stranger := models.User{ID: uuid.New(), Role: models.RoleClient}
	admin := models.User{ID: uuid.New(), Role: models.RoleAdmin}
	pet := models.Pet{ID: uuid.New(), UserID: owner.ID, Name: "Rex"}
	pets := newFakePets(pet)
	svc := NewPetService(pets)
	ctx := context.Background()

	_, err := svc.Update(ctx, stranger, pet.ID, PetInput{Name: strPtr("Max")})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, stranger, pet.ID), ErrForbidden)

	updated, err := svc.Update(ctx, owner, pet.ID, PetInput{Notes: strPtr("bites")})
	require.NoError(t, err)
	assert.Equal(t, "bites", updated.Notes)
	assert.Equal(t, "Rex", updated.Name)

	_, err = svc.Update(ctx, owner, pet.ID, PetInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, svc.Delete(ctx, admin, pet.ID))
	_, err = svc.Update(ctx, owner, pet.ID, PetInput{Name: strPtr("Max")})
	assert.ErrorIs(t, err, ErrNotFound)
}
