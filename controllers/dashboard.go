package controllers

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"groompro-backend/clover"
	"groompro-backend/models"
	"groompro-backend/services"
	"groompro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

// LoadTemplates parses the dashboard pages. Times render in loc.
func LoadTemplates(loc *time.Location) (*template.Template, error) {
	if loc == nil {
		loc = time.UTC
	}
	funcs := template.FuncMap{
		"money": func(cents int64) string {
			return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
		},
		"clock": func(t time.Time) string { return t.In(loc).Format("3:04 PM") },
		"day":   func(t time.Time) string { return t.In(loc).Format("Mon Jan 2") },
		"date":  func(t time.Time) string { return t.In(loc).Format(utils.DateLayout) },
		"lbs":   func(w float64) string { return fmt.Sprintf("%.1f lbs", w) },
	}
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

type DashboardController struct {
	appointments Appointments
	pets         Pets
	staff        Staff
	reports      Reports
	catalog      Catalog
	loc          *time.Location
	now          func() time.Time
}

func NewDashboardController(appointments Appointments, pets Pets, staff Staff, reports Reports, catalog Catalog, loc *time.Location) *DashboardController {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardController{
		appointments: appointments,
		pets:         pets,
		staff:        staff,
		reports:      reports,
		catalog:      catalog,
		loc:          loc,
		now:          time.Now,
	}
}

func (dc *DashboardController) today() string {
	return dc.now().In(dc.loc).Format(utils.DateLayout)
}

func (dc *DashboardController) SignInPage(c *gin.Context) {
	c.HTML(http.StatusOK, "sign-in.html", gin.H{"Title": "Sign in", "Next": localPath(c.Query("next"))})
}

// localPath returns next when it is a path on this site, otherwise "".
func localPath(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	return next
}

func (dc *DashboardController) SignUpPage(c *gin.Context) {
	c.HTML(http.StatusOK, "sign-up.html", gin.H{"Title": "Create account"})
}

// AdminHome shows the monthly report and today's book.
func (dc *DashboardController) AdminHome(c *gin.Context) {
	user, _ := utils.CurrentUser(c)
	ctx := c.Request.Context()

	summary, err := dc.reports.Summary(ctx)
	if err != nil {
		dc.renderError(c, err, "Failed to load report")
		return
	}
	today, err := dc.appointments.List(ctx, user, services.ListQuery{Date: dc.today()})
	if err != nil {
		dc.renderError(c, err, "Failed to load appointments")
		return
	}

	c.HTML(http.StatusOK, "admin.html", gin.H{
		"Title":        "Dashboard",
		"User":         user,
		"Summary":      summary,
		"Appointments": today,
	})
}

func (dc *DashboardController) AdminAppointments(c *gin.Context) {
	user, _ := utils.CurrentUser(c)
	q := services.ListQuery{Date: c.Query("date"), Status: c.Query("status")}

	appts, err := dc.appointments.List(c.Request.Context(), user, q)
	if err != nil {
		dc.renderError(c, err, "Failed to load appointments")
		return
	}
	groomers, notice := dc.groomers(c.Request.Context())

	c.HTML(http.StatusOK, "admin-appointments.html", gin.H{
		"Title":        "Appointments",
		"User":         user,
		"Query":        q,
		"Appointments": appts,
		"Groomers":     groomers,
		"Statuses":     allStatuses,
		"Notice":       notice,
	})
}

func (dc *DashboardController) AdminStaff(c *gin.Context) {
	user, _ := utils.CurrentUser(c)
	staff, err := dc.staff.List(c.Request.Context())
	if err != nil {
		dc.renderError(c, err, "Failed to load staff")
		return
	}
	c.HTML(http.StatusOK, "admin-staff.html", gin.H{
		"Title": "Staff",
		"User":  user,
		"Staff": staff,
	})
}

// ClientHome lists the client's bookings next to the booking form.
func (dc *DashboardController) ClientHome(c *gin.Context) {
	user, _ := utils.CurrentUser(c)
	ctx := c.Request.Context()

	appts, err := dc.appointments.List(ctx, user, services.ListQuery{})
	if err != nil {
		dc.renderError(c, err, "Failed to load appointments")
		return
	}
	pets, err := dc.pets.List(ctx, user)
	if err != nil {
		dc.renderError(c, err, "Failed to load pets")
		return
	}

	groomers, notice := dc.groomers(ctx)
	items, err := dc.catalog.Items(ctx)
	if err != nil {
		logrus.WithError(err).Warn("Clover items unavailable for booking form")
		notice = "Online booking is temporarily unavailable."
	}

	c.HTML(http.StatusOK, "client.html", gin.H{
		"Title":        "My appointments",
		"User":         user,
		"Appointments": appts,
		"Pets":         pets,
		"Items":        items,
		"Groomers":     groomers,
		"Today":        dc.today(),
		"Notice":       notice,
	})
}

func (dc *DashboardController) ClientPets(c *gin.Context) {
	user, _ := utils.CurrentUser(c)
	pets, err := dc.pets.List(c.Request.Context(), user)
	if err != nil {
		dc.renderError(c, err, "Failed to load pets")
		return
	}
	c.HTML(http.StatusOK, "client-pets.html", gin.H{
		"Title": "My pets",
		"User":  user,
		"Pets":  pets,
		"Sizes": []models.PetSize{models.PetSizeSmall, models.PetSizeMedium, models.PetSizeLarge, models.PetSizeXLarge},
	})
}

// EmployeeHome shows the groomer's book for ?date= (default today).
func (dc *DashboardController) EmployeeHome(c *gin.Context) {
	user, _ := utils.CurrentUser(c)
	date := c.DefaultQuery("date", dc.today())

	appts, err := dc.appointments.List(c.Request.Context(), user, services.ListQuery{Date: date})
	if err != nil {
		dc.renderError(c, err, "Failed to load appointments")
		return
	}
	c.HTML(http.StatusOK, "employee.html", gin.H{
		"Title":        "My schedule",
		"User":         user,
		"Date":         date,
		"Appointments": appts,
		"Linked":       user.CloverEmployeeID != nil,
	})
}

var allStatuses = []models.AppointmentStatus{
	models.StatusScheduled,
	models.StatusConfirmed,
	models.StatusInProgress,
	models.StatusCompleted,
	models.StatusCancelled,
	models.StatusNoShow,
}

func (dc *DashboardController) groomers(ctx context.Context) ([]clover.Employee, string) {
	groomers, err := dc.catalog.Groomers(ctx)
	if err != nil {
		logrus.WithError(err).Warn("Clover groomers unavailable")
		return nil, "Groomer list is temporarily unavailable."
	}
	return groomers, ""
}

func (dc *DashboardController) renderError(c *gin.Context, err error, message string) {
	status := http.StatusInternalServerError
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"path":  c.Request.URL.Path,
			"error": err.Error(),
		}).Error(message)
	}
	if isInvalidInput(err) {
		status = http.StatusBadRequest
		message = err.Error()
	}
	c.HTML(status, "error.html", gin.H{"Title": "Something went wrong", "Message": message})
}
