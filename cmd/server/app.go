package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/taskwire/taskwire/internal/api"
	"github.com/taskwire/taskwire/internal/config"
	"github.com/taskwire/taskwire/internal/hub"
	"github.com/taskwire/taskwire/internal/platform/memory"
	"github.com/taskwire/taskwire/internal/platform/postgres"
	"github.com/taskwire/taskwire/internal/service"
	"github.com/taskwire/taskwire/internal/store"
	"github.com/taskwire/taskwire/internal/summary"
	"github.com/taskwire/taskwire/internal/ws"
)

// application holds all shared dependencies so startup wiring and shutdown
// cleanup live in one place.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil when the in-memory store is selected.
	db *sql.DB

	taskStore   store.TaskStore
	hub         *hub.Hub
	taskService service.TaskService

	taskHandler    *api.TaskHandler
	summaryHandler *api.SummaryHandler
	wsHandler      *ws.Handler
}

// newApplication initializes every dependency in order: store, broadcast
// hub, summary chain, service, and HTTP handlers.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	if err := app.setupStore(ctx); err != nil {
		return nil, err
	}

	// From here on the app owns resources (db pool, hub). A failure in a
	// later wiring step must release them before returning.
	wired := false
	defer func() {
		if !wired {
			app.cleanup()
		}
	}()

	app.hub = hub.New(logger)

	provider, err := setupSummaryProvider(ctx, cfg.Summary, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize summary provider: %w", err)
	}
	chain := summary.NewChain(
		provider,
		time.Duration(cfg.Summary.TimeoutSeconds)*time.Second,
		logger,
	)

	app.taskService, err = service.NewTaskService(app.taskStore, app.hub, chain, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.taskHandler = api.NewTaskHandler(app.taskService)
	app.summaryHandler = api.NewSummaryHandler(app.taskService)
	app.wsHandler = ws.NewHandler(app.hub, logger)

	logger.Info("Application initialized successfully")
	wired = true
	return app, nil
}

// setupStore selects the task store per configuration. The postgres driver
// connects, pings, and applies migrations before the server accepts traffic.
func (app *application) setupStore(ctx context.Context) error {
	switch app.config.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := setupDatabase(ctx, app.config.Store, app.logger)
		if err != nil {
			return fmt.Errorf("failed to set up database: %w", err)
		}
		app.db = db
		app.taskStore = postgres.NewTaskStore(db, app.logger)
		app.logger.Info("Using postgres task store")
	default:
		app.taskStore = memory.NewTaskStore(app.logger)
		app.logger.Info("Using in-memory task store")
	}
	return nil
}

// setupSummaryProvider builds the configured LLM provider. A missing API key
// is not an error: the chain runs without a provider and every summary comes
// from the local fallback.
func setupSummaryProvider(
	ctx context.Context,
	cfg config.SummaryConfig,
	logger *slog.Logger,
) (summary.Provider, error) {
	switch cfg.Provider {
	case config.SummaryProviderGemini:
		if cfg.GeminiAPIKey == "" {
			logger.Info("No Gemini API key configured, summaries use local fallback only")
			return nil, nil
		}
		return summary.NewGemini(ctx, cfg)
	default:
		if cfg.OpenAIAPIKey == "" {
			logger.Info("No OpenAI API key configured, summaries use local fallback only")
			return nil, nil
		}
		return summary.NewOpenAI(cfg), nil
	}
}

// Run serves HTTP until the context is canceled or a shutdown signal
// arrives.
func (app *application) Run(ctx context.Context) error {
	return app.startHTTPServer(ctx, app.setupRouter())
}

// cleanup releases application resources in reverse dependency order.
func (app *application) cleanup() {
	if app.hub != nil {
		app.hub.Close()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
