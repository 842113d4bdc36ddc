package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"groompro-backend/clover"
	"groompro-backend/config"
	"groompro-backend/controllers"
	"groompro-backend/routes"
	"groompro-backend/services"
	"groompro-backend/supabase"
	"groompro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}
	config.SetupLogger(cfg)
	if cfg.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.RunMigrations {
		if err := config.RunMigrations(cfg.DBURL); err != nil {
			logrus.WithError(err).Fatal("Migrations failed")
		}
	}

	db, err := config.ConnectDB(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Database unavailable")
	}

	var sessionCache, cloverCache utils.Cache
	rdb, err := config.ConnectRedis(cfg)
	switch {
	case err != nil:
		logrus.WithError(err).Warn("Redis unavailable, running without cache")
	case rdb != nil:
		defer rdb.Close()
		sessionCache = utils.NewRedisCache(rdb, "groompro")
		cloverCache = utils.NewRedisCache(rdb, "groompro:clover")
	}

	loc := cfg.Business.Location()

	auth := supabase.New(supabase.Config{
		URL:        cfg.Supabase.URL,
		AnonKey:    cfg.Supabase.AnonKey,
		ServiceKey: cfg.Supabase.ServiceKey,
		JWTSecret:  cfg.Supabase.JWTSecret,
	})
	pos := clover.New(clover.Config{
		APIBase:    cfg.Clover.APIBase,
		APIToken:   cfg.Clover.APIToken,
		MerchantID: cfg.Clover.MerchantID,
		CacheTTL:   cfg.Clover.CacheTTL,
		RetryCount: cfg.Clover.RetryCount,
		RetryDelay: cfg.Clover.RetryDelay,
		RateLimit:  cfg.Clover.RateLimit,
		Timeout:    cfg.Clover.Timeout,
		Cache:      cloverCache,
		Calls:      config.CloverCalls,
	})
	if !pos.Enabled() {
		logrus.Warn("Clover credentials missing, booking and availability are disabled")
	}

	users := services.NewUserRepository(db)
	pets := services.NewPetRepository(db)
	appts := services.NewAppointmentRepository(db)

	sessions := services.NewSessionService(auth, users, sessionCache, cfg.Session.CacheTTL)
	accounts := services.NewAccountService(auth, users, sessions)
	staff := services.NewStaffService(auth, users, pos)
	petService := services.NewPetService(pets)
	reports := services.NewReportService(appts, loc)
	appointments := services.NewAppointmentService(appts, pets, pos, services.BusinessHours{
		Open:        cfg.Business.Open,
		Close:       cfg.Business.Close,
		SlotMinutes: cfg.Business.SlotMinutes,
		Location:    loc,
	})

	var reminders controllers.Reminders
	if cfg.Twilio.Enabled() {
		svc := services.NewReminderService(
			appts,
			services.NewReminderLogRepository(db),
			services.NewTwilioSender(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.PhoneNumber),
			loc,
			cfg.Twilio.ReminderCron,
			config.RemindersSent,
		)
		if err := svc.StartScheduler(); err != nil {
			logrus.WithError(err).Fatal("Failed to start reminder scheduler")
		}
		defer svc.Stop()
		reminders = svc
	} else {
		logrus.Info("Twilio credentials missing, appointment reminders are disabled")
	}

	pages, err := controllers.LoadTemplates(loc)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to parse page templates")
	}

	access := utils.DefaultAccessTable()
	cookies := utils.CookieOptions{
		Name:        cfg.Session.CookieName,
		RefreshName: cfg.Session.RefreshCookieName,
		Secure:      cfg.Session.CookieSecure,
	}

	r := routes.SetupRouter(routes.Options{
		Origins:  cfg.Origins(),
		Sessions: sessions,
		Access:   access,
		Cookies:  cookies,
		Pages:    pages,
	}, routes.Handlers{
		Auth:         controllers.NewAuthController(accounts, access, cookies),
		Customers:    controllers.NewCustomerController(accounts),
		Appointments: controllers.NewAppointmentController(appointments),
		Services:     controllers.NewServiceController(pos, appointments),
		Staff:        controllers.NewStaffController(staff),
		Pets:         controllers.NewPetController(petService),
		Reports:      controllers.NewReportController(reports),
		Reminders:    controllers.NewReminderController(reminders),
		Dashboard:    controllers.NewDashboardController(appointments, petService, staff, reports, pos, loc),
	})
	if !cfg.IsRelease() {
		printRoutes(r)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithField("port", cfg.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Graceful shutdown failed")
	}
}

func printRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
