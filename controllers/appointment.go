package controllers

import (
	"context"
	"net/http"

	"groompro-backend/clover"
	"groompro-backend/models"
	"groompro-backend/services"
	"groompro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Appointments interface {
	List(ctx context.Context, actor models.User, q services.ListQuery) ([]models.Appointment, error)
	Get(ctx context.Context, actor models.User, id uuid.UUID) (*models.Appointment, error)
	Create(ctx context.Context, actor models.User, in services.CreateAppointmentInput) (*models.Appointment, error)
	Update(ctx context.Context, id uuid.UUID, patch services.AppointmentPatch) (*models.Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Availability(ctx context.Context, employeeID, date string) ([]clover.Window, error)
}

type AppointmentController struct {
	appointments Appointments
}

func NewAppointmentController(appointments Appointments) *AppointmentController {
	return &AppointmentController{appointments: appointments}
}

// GetAppointments lists what the caller may see, optionally for one ?date= and ?status=.
func (ac *AppointmentController) GetAppointments(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	appts, err := ac.appointments.List(c.Request.Context(), user, services.ListQuery{
		Date:   c.Query("date"),
		Status: c.Query("status"),
	})
	if err != nil {
		respondWithServiceError(c, err, "Failed to fetch appointments")
		return
	}
	utils.RespondWithData(c, http.StatusOK, appts)
}

func (ac *AppointmentController) GetAppointment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	appt, err := ac.appointments.Get(c.Request.Context(), user, id)
	if err != nil {
		respondWithServiceError(c, err, "Failed to fetch appointment")
		return
	}
	utils.RespondWithData(c, http.StatusOK, appt)
}

func (ac *AppointmentController) CreateAppointment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input services.CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	appt, err := ac.appointments.Create(c.Request.Context(), user, input)
	if err != nil {
		respondWithServiceError(c, err, "Failed to create appointment")
		return
	}

	logrus.WithFields(logrus.Fields{
		"appointment_id": appt.ID,
		"user_id":        user.ID,
	}).Info("Appointment booked")
	utils.RespondWithData(c, http.StatusCreated, appt)
}

// UpdateAppointment changes exactly the row named by :id and returns it.
func (ac *AppointmentController) UpdateAppointment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var patch services.AppointmentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	appt, err := ac.appointments.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondWithServiceError(c, err, "Failed to update appointment")
		return
	}
	utils.RespondWithData(c, http.StatusOK, appt)
}

func (ac *AppointmentController) DeleteAppointment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := ac.appointments.Delete(c.Request.Context(), id); err != nil {
		respondWithServiceError(c, err, "Failed to delete appointment")
		return
	}
	utils.RespondWithData(c, http.StatusOK, gin.H{"id": id})
}
