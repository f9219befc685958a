package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/brightforge/sitepanel/internal/panel/http"
	"github.com/brightforge/sitepanel/internal/panel/mailer"
	"github.com/brightforge/sitepanel/internal/panel/service"
	"github.com/brightforge/sitepanel/internal/panel/store"
	"github.com/brightforge/sitepanel/internal/panel/store/drivers/sqlite"
	"github.com/brightforge/sitepanel/pkg/jwtx"
	"github.com/brightforge/sitepanel/pkg/slogx"
)

const (
	// BuildVersion is a placeholder until releases inject it with ldflags.
	BuildVersion = "v0.1.0"
)

// Application owns every long-lived dependency of the panel service and
// coordinates startup and shutdown ordering between them.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	signer   jwtx.Signer
	verifier jwtx.Verifier
	mail     *mailer.Mailer

	sessionService      *service.SessionService
	accountService      *service.AccountService
	resetService        *service.ResetService
	clientService       *service.ClientService
	siteService         *service.SiteService
	backupService       *service.BackupService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New wires the full service from config: logger, database, signing keys,
// mailer, services and the HTTP layer. Nothing starts running until Run.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "sitepanel",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	signer, verifier, err := initAuthKeys(cfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize signing keys: %w", err)
	}
	app.signer = signer
	app.verifier = verifier

	app.mail = mailer.New(cfg.PostmarkToken, cfg.FromEmail, cfg.AppBaseURL)
	if !app.mail.Configured() {
		app.logger.Warn("postmark token not set, outgoing email disabled")
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the background services and the HTTP listener, then blocks
// until the server fails or a termination signal arrives.
func (app *Application) Run() error {
	app.housekeepingService.Start()
	app.backupService.Start()

	app.logger.Info("panel service starting", "port", app.cfg.Port, "version", BuildVersion)

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

// Shutdown drains in reverse startup order: stop accepting requests, stop
// the background services, then close the database.
func (app *Application) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("server did not drain in time, closing", "err", err)
		_ = app.server.Close()
	}

	app.backupService.Stop()
	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("database close failed", "err", err)
		return err
	}

	app.logger.Info("panel service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations.
func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
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

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.sessionService = &service.SessionService{
		Store:      app.db,
		Mailer:     app.mail,
		Signer:     app.signer,
		Issuer:     app.cfg.Issuer,
		Audience:   app.cfg.Audience,
		AccessTTL:  jwtx.DefaultAccessTokenTTL,
		RefreshTTL: jwtx.DefaultRefreshTokenTTL,
	}

	app.accountService = &service.AccountService{
		Store:  app.db,
		Mailer: app.mail,
	}
	app.resetService = &service.ResetService{
		Store:  app.db,
		Mailer: app.mail,
	}
	app.clientService = &service.ClientService{Store: app.db}
	app.siteService = &service.SiteService{Store: app.db}

	app.backupService = service.NewBackupService(
		app.db,
		app.mail,
		app.logger,
		app.cfg.DatabaseFile,
		app.cfg.BackupDir,
	)

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.verifier,
		BuildVersion,
		app.cfg.SecureCookies,
		app.db,
		app.logger,
	)

	router.SessionService = app.sessionService
	router.AccountService = app.accountService
	router.ResetService = app.resetService
	router.ClientService = app.clientService
	router.SiteService = app.siteService
	router.BackupService = app.backupService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
