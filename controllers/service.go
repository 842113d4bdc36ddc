// controllers/service.go
package controllers

import (
	"context"
	"net/http"

	"groompro-backend/clover"
	"groompro-backend/utils"

	"github.com/gin-gonic/gin"
)

// Catalog is the read side of the point of sale: grooming services and groomers.
type Catalog interface {
	Items(ctx context.Context) ([]clover.Item, error)
	Groomers(ctx context.Context) ([]clover.Employee, error)
}

type ServiceController struct {
	catalog      Catalog
	appointments Appointments
}

func NewServiceController(catalog Catalog, appointments Appointments) *ServiceController {
	return &ServiceController{catalog: catalog, appointments: appointments}
}

// GetServices lists priced Clover items sorted by name.
func (sc *ServiceController) GetServices(c *gin.Context) {
	items, err := sc.catalog.Items(c.Request.Context())
	if err != nil {
		respondWithServiceError(c, err, "Failed to fetch services")
		return
	}
	if items == nil {
		items = []clover.Item{}
	}
	utils.RespondWithData(c, http.StatusOK, items)
}

func (sc *ServiceController) GetGroomers(c *gin.Context) {
	groomers, err := sc.catalog.Groomers(c.Request.Context())
	if err != nil {
		respondWithServiceError(c, err, "Failed to fetch groomers")
		return
	}
	if groomers == nil {
		groomers = []clover.Employee{}
	}
	utils.RespondWithData(c, http.StatusOK, groomers)
}

// GetAvailability returns free slots for ?employee_id= on ?date=YYYY-MM-DD.
func (sc *ServiceController) GetAvailability(c *gin.Context) {
	slots, err := sc.appointments.Availability(c.Request.Context(), c.Query("employee_id"), c.Query("date"))
	if err != nil {
		respondWithServiceError(c, err, "Failed to fetch availability")
		return
	}
	if slots == nil {
		slots = []clover.Window{}
	}
	utils.RespondWithData(c, http.StatusOK, slots)
}
