package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/auth"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/calendar"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/config"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/db"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/httpapi"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/mailer"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/realtime"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/scheduler"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/service"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// -- Logger --
	logger := log.New(os.Stdout, "", log.LstdFlags)

	// -- Configs preload --
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config error: %v", err)
	}
	location := cfg.Location()

	// -- Connect to DB --
	database, err := db.Connect(cfg, logger)
	if err != nil {
		logger.Fatalf("database connection error: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		logger.Fatalf("database migration error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// -- Integrations --
	var provider calendar.Provider = calendar.Noop{}
	if cfg.Google.Enabled() {
		google, err := calendar.NewGoogle(ctx, cfg.Google)
		if err != nil {
			logger.Fatalf("calendar provider error: %v", err)
		}
		provider = google
	} else {
		logger.Printf("google calendar not configured, events stay local")
	}

	var mail mailer.Mailer = mailer.Noop{}
	if cfg.SMTP.Enabled() {
		mail = mailer.NewSMTP(cfg.SMTP)
	} else {
		logger.Printf("smtp not configured, credential e-mails are skipped")
	}

	hub := realtime.NewHub(logger)
	files := storage.NewDisk(cfg.StoragePath, cfg.AppURL+"/storage")
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)

	// -- Services --
	attendance := service.NewAttendanceService(database, provider, cfg.Google.HolidayCalendarID, location)
	loans := service.NewLoanService(database, hub)
	accounts := service.NewAccountService(database, tokens)

	services := httpapi.Services{
		Attendance:    attendance,
		Employees:     service.NewEmployeeService(database, files, mail, cfg.AppURL, logger),
		Projects:      service.NewProjectService(database),
		Calendar:      service.NewCalendarService(database, provider, cfg.Google.CalendarID, cfg.Google.HolidayCalendarID, location, logger),
		Holidays:      service.NewHolidayService(database),
		Loans:         loans,
		Notifications: service.NewNotificationService(database, loans),
		Dashboard:     service.NewDashboardService(database),
		Accounts:      accounts,
	}

	created, err := accounts.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		logger.Fatalf("bootstrap admin error: %v", err)
	}
	if created {
		logger.Printf("bootstrap admin %s created", cfg.AdminEmail)
	}

	// -- Background jobs --
	jobs, err := scheduler.New(attendance, cfg.BackfillSchedule, location, logger)
	if err != nil {
		logger.Fatalf("scheduler error: %v", err)
	}
	jobs.Start()

	// -- Router --
	gin.SetMode(gin.ReleaseMode)
	handler := httpapi.NewHandler(services, httpapi.Options{
		Tokens:      tokens,
		Realtime:    hub,
		StorageRoot: files.Root(),
		Logger:      logger,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// -- Startup --
	go func() {
		logger.Printf("starting server, listening to port %s...", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Printf("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Printf("server shutdown: %v", err)
	}
	jobs.Stop(shutdownCtx)
}
