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

	httpapi "github.com/aussiebroadwan/leadguard/internal/leadguard/http"
	"github.com/aussiebroadwan/leadguard/internal/leadguard/service"
	"github.com/aussiebroadwan/leadguard/internal/leadguard/store"
	"github.com/aussiebroadwan/leadguard/pkg/jwtx"
	"github.com/aussiebroadwan/leadguard/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"

	// SessionAudience is the aud claim on admin session tokens.
	SessionAudience = "leadguard-admin"
)

// Application encapsulates the leadguard service with all its dependencies
type Application struct {
	cfg     Config
	logger  *slog.Logger
	secrets Secrets

	// Core dependencies
	db        store.Store
	singleUse SingleUseBackend

	// Services
	integrityService    *service.IntegrityService
	submissionService   *service.SubmissionService
	reviewService       *service.ReviewService
	adminService        *service.AdminService
	housekeepingService *service.HousekeepingService
	sessionVerifier     jwtx.Verifier

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg:    cfg,
		logger: NewLogger(cfg, "leadguard"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	secrets, err := LoadSecrets(cfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}
	app.secrets = secrets

	ctx := context.Background()
	db, err := OpenStore(ctx, cfg, app.logger)
	if err != nil {
		return nil, err
	}
	app.db = db
	app.singleUse = OpenSingleUse(cfg, db, app.logger)

	if err := app.initServices(); err != nil {
		_ = app.singleUse.Close()
		_ = db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("leadguard starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			if shutdownErr := app.Shutdown(); shutdownErr != nil {
				app.logger.Error("cleanup after server failure", slogx.Err(shutdownErr))
			}
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
	app.logger.Info("shutting down leadguard...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", slogx.Err(err))
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", slogx.Err(err))
		}
	}

	app.housekeepingService.Stop()

	if err := app.singleUse.Close(); err != nil {
		app.logger.Error("error closing single-use store", slogx.Err(err))
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", slogx.Err(err))
		return err
	}

	app.logger.Info("leadguard stopped")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	var err error

	if app.integrityService, err = NewIntegrityService(app.cfg, app.secrets, app.singleUse.Store); err != nil {
		return err
	}

	classifier, err := NewClassifier(app.cfg)
	if err != nil {
		return err
	}
	if app.cfg.HeuristicsFile != "" {
		app.logger.Info("heuristic thresholds loaded", "path", app.cfg.HeuristicsFile)
	}

	fingerprinter, err := NewFingerprinter(app.cfg, app.secrets)
	if err != nil {
		return err
	}

	if app.sessionVerifier, err = NewSessionVerifier(app.cfg, app.secrets); err != nil {
		return err
	}
	if app.adminService, err = NewAdminService(app.cfg, app.secrets, app.db); err != nil {
		return err
	}

	app.submissionService = &service.SubmissionService{
		Store:         app.db,
		Integrity:     app.integrityService,
		Classifier:    classifier,
		Fingerprinter: fingerprinter,
	}
	app.reviewService = &service.ReviewService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.FingerprintRetention,
	)
	app.housekeepingService.MemoryTokens = app.singleUse.Memory

	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.sessionVerifier,
		BuildVersion,
		app.db,
		app.singleUse.Store,
		app.cfg.RateLimits,
		app.cfg.Proxies(),
		app.logger,
	)

	router.IntegrityService = app.integrityService
	router.SubmissionService = app.submissionService
	router.ReviewService = app.reviewService
	router.AdminService = app.adminService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
