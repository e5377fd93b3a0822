package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zzpboek/zzpboek/internal/accountant/email"
	httpapi "github.com/zzpboek/zzpboek/internal/accountant/http"
	"github.com/zzpboek/zzpboek/internal/accountant/service"
	"github.com/zzpboek/zzpboek/internal/accountant/store"
	"github.com/zzpboek/zzpboek/internal/accountant/store/drivers/sqlite"
	"github.com/zzpboek/zzpboek/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the accountant access service with all its
// dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	mailer email.Sender

	// Services
	inviteService       *service.InviteService
	sessionService      *service.SessionService
	tenantService       *service.TenantService
	auditService        *service.AuditService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "boekhoud-accountant",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initMailer()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("accountant service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down accountant service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("accountant service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initMailer picks SMTP when a host is configured, log-only otherwise so dev
// environments work without a relay.
func (app *Application) initMailer() {
	if app.cfg.SMTPHost == "" {
		app.logger.Warn("SMTP_HOST not set, invite mail will be logged only")
		app.mailer = &email.LogSender{Logger: app.logger}
		return
	}

	sender := email.NewSMTPSender(
		app.cfg.SMTPHost,
		app.cfg.SMTPPort,
		app.cfg.SMTPFrom,
		app.cfg.SMTPUser,
		app.cfg.SMTPPass,
	)
	sender.TLSMode = app.cfg.SMTPTLS
	app.mailer = sender
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.sessionService = &service.SessionService{
		Store:      app.db,
		SessionTTL: app.cfg.SessionTTL,
	}

	app.inviteService = &service.InviteService{
		Store:         app.db,
		Sessions:      app.sessionService,
		Mailer:        app.mailer,
		AcceptBaseURL: app.cfg.AcceptBaseURL,
		InviteTTL:     app.cfg.InviteTTL,
		OTPTTL:        app.cfg.OTPTTL,
		OTPPolicy: service.OTPPolicy{
			MaxAttempts: app.cfg.OTPMaxAttempts,
			Lockout:     app.cfg.OTPLockout,
		},
	}

	app.tenantService = &service.TenantService{Store: app.db}
	app.auditService = &service.AuditService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		[]byte(app.cfg.JWTSecret),
		app.cfg.JWTIssuer,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.InviteService = app.inviteService
	router.SessionService = app.sessionService
	router.TenantService = app.tenantService
	router.AuditService = app.auditService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
