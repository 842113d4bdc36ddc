package routes

import (
	"html/template"
	"net/http"

	"groompro-backend/config"
	"groompro-backend/controllers"
	"groompro-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the controllers the router mounts.
type Handlers struct {
	Auth         *controllers.AuthController
	Customers    *controllers.CustomerController
	Appointments *controllers.AppointmentController
	Services     *controllers.ServiceController
	Staff        *controllers.StaffController
	Pets         *controllers.PetController
	Reports      *controllers.ReportController
	Reminders    *controllers.ReminderController
	Dashboard    *controllers.DashboardController
}

// Options carries the non-handler wiring.
type Options struct {
	Origins  []string
	Sessions utils.SessionResolver
	Access   *utils.AccessTable
	Cookies  utils.CookieOptions
	Pages    *template.Template
}

func SetupRouter(opts Options, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     opts.Origins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())
	r.Use(utils.SessionMiddleware(opts.Sessions, opts.Access, opts.Cookies))

	if opts.Pages != nil {
		r.SetHTMLTemplate(opts.Pages)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(config.MetricsHandler()))

	// Pages
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, opts.Access.SignIn)
	})
	r.GET("/sign-in", h.Dashboard.SignInPage)
	r.GET("/sign-up", h.Dashboard.SignUpPage)
	r.GET("/admin", h.Dashboard.AdminHome)
	r.GET("/admin/appointments", h.Dashboard.AdminAppointments)
	r.GET("/admin/staff", h.Dashboard.AdminStaff)
	r.GET("/client", h.Dashboard.ClientHome)
	r.GET("/client/pets", h.Dashboard.ClientPets)
	r.GET("/employee", h.Dashboard.EmployeeHome)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/sign-in", h.Auth.SignIn)
			auth.POST("/sign-up", h.Auth.SignUp)
			auth.POST("/sign-out", h.Auth.SignOut)
		}
		api.GET("/me", h.Auth.Me)

		appointments := api.Group("/appointments")
		{
			appointments.GET("", h.Appointments.GetAppointments)
			appointments.POST("", h.Appointments.CreateAppointment)
			appointments.GET("/:id", h.Appointments.GetAppointment)
			appointments.PATCH("/:id", h.Appointments.UpdateAppointment)
			appointments.DELETE("/:id", h.Appointments.DeleteAppointment)
		}

		clover := api.Group("/clover")
		{
			clover.GET("/items", h.Services.GetServices)
			clover.GET("/groomers", h.Services.GetGroomers)
			clover.GET("/availability", h.Services.GetAvailability)
		}

		staff := api.Group("/staff")
		{
			staff.GET("", h.Staff.GetStaff)
			staff.POST("", h.Staff.AddStaff)
			staff.DELETE("/:id", h.Staff.DeleteStaff)
		}

		pets := api.Group("/pets")
		{
			pets.GET("", h.Pets.GetPets)
			pets.POST("", h.Pets.CreatePet)
			pets.PATCH("/:id", h.Pets.UpdatePet)
			pets.DELETE("/:id", h.Pets.DeletePet)
		}

		api.GET("/customers", h.Customers.GetCustomers)
		api.GET("/reports", h.Reports.GetReportAnalytics)
		api.POST("/reminders/send", h.Reminders.SendReminders)
	}

	return r
}
