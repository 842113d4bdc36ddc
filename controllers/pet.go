package controllers

import (
	"context"
	"net/http"

	"groompro-backend/models"
	"groompro-backend/services"
	"groompro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Pets interface {
	List(ctx context.Context, actor models.User) ([]models.Pet, error)
	Create(ctx context.Context, actor models.User, in services.PetInput) (*models.Pet, error)
	Update(ctx context.Context, actor models.User, id uuid.UUID, in services.PetInput) (*models.Pet, error)
	Delete(ctx context.Context, actor models.User, id uuid.UUID) error
}

type PetController struct {
	pets Pets
}

func NewPetController(pets Pets) *PetController {
	return &PetController{pets: pets}
}

func (pc *PetController) GetPets(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	pets, err := pc.pets.List(c.Request.Context(), user)
	if err != nil {
		respondWithServiceError(c, err, "Failed to fetch pets")
		return
	}
	utils.RespondWithData(c, http.StatusOK, pets)
}

func (pc *PetController) CreatePet(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var input services.PetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	pet, err := pc.pets.Create(c.Request.Context(), user, input)
	if err != nil {
		respondWithServiceError(c, err, "Failed to create pet")
		return
	}
	utils.RespondWithData(c, http.StatusCreated, pet)
}

func (pc *PetController) UpdatePet(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input services.PetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	pet, err := pc.pets.Update(c.Request.Context(), user, id, input)
	if err != nil {
		respondWithServiceError(c, err, "Failed to update pet")
		return
	}
	utils.RespondWithData(c, http.StatusOK, pet)
}

func (pc *PetController) DeletePet(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := pc.pets.Delete(c.Request.Context(), user, id); err != nil {
		respondWithServiceError(c, err, "Failed to delete pet")
		return
	}
	utils.RespondWithData(c, http.StatusOK, gin.H{"id": id})
}
