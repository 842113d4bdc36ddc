package controllers

import (
	"context"
	"net/http"

	"groompro-backend/models"
	"groompro-backend/services"
	"groompro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Staff interface {
	List(ctx context.Context) ([]services.StaffMember, error)
	Create(ctx context.Context, in services.NewAccount) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type StaffController struct {
	staff Staff
}

func NewStaffController(staff Staff) *StaffController {
	return &StaffController{staff: staff}
}

func (sc *StaffController) GetStaff(c *gin.Context) {
	staff, err := sc.staff.List(c.Request.Context())
	if err != nil {
		respondWithServiceError(c, err, "Failed to fetch staff")
		return
	}
	utils.RespondWithData(c, http.StatusOK, staff)
}

// AddStaff provisions an employee login. The auth user is removed again if the
// profile cannot be stored.
func (sc *StaffController) AddStaff(c *gin.Context) {
	var input services.NewAccount
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	user, err := sc.staff.Create(c.Request.Context(), input)
	if err != nil {
		respondWithServiceError(c, err, "Failed to create staff member")
		return
	}

	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("Staff member created")
	utils.RespondWithData(c, http.StatusCreated, user)
}

func (sc *StaffController) DeleteStaff(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := sc.staff.Delete(c.Request.Context(), id); err != nil {
		respondWithServiceError(c, err, "Failed to delete staff member")
		return
	}
	utils.RespondWithData(c, http.StatusOK, gin.H{"id": id})
}
