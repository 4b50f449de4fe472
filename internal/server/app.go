// Package server initializes and runs the portal: it opens storage, applies
// migrations, seeds reference data and serves HTTP until a signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/ukd-dev/ukdportal/internal/logging"
	"github.com/ukd-dev/ukdportal/internal/server/config"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/repomanager"
	"github.com/ukd-dev/ukdportal/internal/server/services"
	"github.com/ukd-dev/ukdportal/internal/server/sheets"
	"github.com/ukd-dev/ukdportal/internal/server/web"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	manager repomanager.RepositoryManager
	redis   *redis.Client
	http    *web.HTTPServer
}

// OpenStorage opens the configured backend and brings its schema up to date.
func OpenStorage(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, error) {
	m, err := repomanager.New(ctx, repomanager.Options{
		Driver:   c.StorageDriver,
		DSN:      c.DatabaseDSN,
		JSONPath: c.JSONStorePath,
	})
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	if err := m.RunMigrations(ctx); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}
	return m, nil
}

// NewSheetSource picks the Sheets API when a key and sheet id are set and
// the public CSV export otherwise.
func NewSheetSource(c *config.Config) sheets.Source {
	if c.GoogleAPIKey != "" && c.SheetID != "" {
		return sheets.NewAPISource(c.GoogleAPIKey, c.SheetID, c.SheetRange, c.SheetTimeout)
	}
	return sheets.NewCSVSource(c.SheetExportURL, c.SheetTimeout)
}

func NewImportService(m repomanager.RepositoryManager, c *config.Config, logger logging.Logger) *services.ImportService {
	return services.NewImportService(m, NewSheetSource(c), services.ImportConfig{
		HeaderRows:   c.SheetHeaderRows,
		Marker:       c.SheetMarker,
		SubjectID:    c.SheetSubjectID,
		DeadlineDays: c.ImportDeadlineDays,
	}, logger)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	for _, w := range c.Warnings() {
		logger.Warn(ctx, "insecure configuration", "detail", w)
	}

	m, err := OpenStorage(ctx, c)
	if err != nil {
		return nil, err
	}
	if err := services.Seed(ctx, m, c.AdminPassword, logger); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("seed error: %w", err)
	}

	app := &App{config: c, logger: logger, manager: m}

	var limiter web.Limiter = web.NewMemoryLimiter()
	if c.RedisAddr != "" {
		app.redis = redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		limiter = web.NewRedisLimiter(app.redis)
	}

	svc := web.Services{
		Auth:        services.NewAuthService(m, c),
		Profiles:    services.NewProfileService(m),
		Absences:    services.NewAbsenceService(m),
		Invitations: services.NewInvitationService(m),
		Admin:       services.NewAdminService(m),
		Import:      NewImportService(m, c, logger.With("module", "import")),
		Avatars:     services.NewAvatarService(c),
		Export:      services.NewExportService(m),
	}

	app.http, err = web.NewHTTPServer(c, logger, svc, limiter)
	if err != nil {
		app.close(ctx)
		return nil, fmt.Errorf("http init error: %w", err)
	}
	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.http.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) close(ctx context.Context) {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error(ctx, "redis close error", "error", err)
		}
	}
	if err := app.manager.Close(); err != nil {
		app.logger.Error(ctx, "storage close error", "error", err)
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageDriver)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close(ctx)
	app.logger.Info(ctx, "App stopped")
}
