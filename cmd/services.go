package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/xvierd/focus-smile/internal/adapters/clock"
	"github.com/xvierd/focus-smile/internal/adapters/gemini"
	"github.com/xvierd/focus-smile/internal/adapters/notification"
	"github.com/xvierd/focus-smile/internal/adapters/storage"
	"github.com/xvierd/focus-smile/internal/config"
	"github.com/xvierd/focus-smile/internal/domain"
	"github.com/xvierd/focus-smile/internal/logging"
	"github.com/xvierd/focus-smile/internal/ports"
	"github.com/xvierd/focus-smile/internal/services"
	"go.uber.org/zap"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config   *config.Config
	logger   *zap.Logger
	store    ports.KeyValueStore
	notifier *notification.Notifier
	settings *services.SettingsService
	timer    *services.TimerService
	quotes   *services.QuoteService
	flow     *services.SmileFlow
	state    *services.StateService
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices() error {
	cfg, err := loadConfig()
	if err != nil {
		// If config loading fails, use defaults
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
		if cfg.Storage.DataDir, err = config.ExpandHome(cfg.Storage.DataDir); err != nil {
			return err
		}
	}
	if backend != "" {
		cfg.Storage.Backend = backend
	}
	app.config = cfg

	if err := os.MkdirAll(cfg.Storage.DataDir, 0750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	app.logger, err = logging.New(logging.Options{
		Level:   cfg.Log.Level,
		File:    config.GetLogPath(cfg),
		Verbose: verbose,
	})
	if err != nil {
		return err
	}

	location := storeLocation(cfg)
	if cfg.Storage.Backend == config.BackendSQLite || cfg.Storage.Backend == "" {
		if err := os.MkdirAll(filepath.Dir(location), 0750); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	app.store, err = storage.Open(cfg.Storage.Backend, location)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.logger.Debug("storage opened",
		zap.String("backend", cfg.Storage.Backend),
		zap.String("location", location))

	app.notifier = notification.New(&cfg.Notifications)

	factory := gemini.NewFactory(gemini.Options{
		Model:      cfg.AI.Model,
		ImageModel: cfg.AI.ImageModel,
		RecapModel: cfg.AI.RecapModel,
		Timeout:    time.Duration(cfg.AI.Timeout),
		Logger:     app.logger,
	})
	app.settings = services.NewSettingsService(app.store, factory, cfg.AI.APIKey, app.logger)

	defaults := domain.TimerSettings{
		Durations: cfg.TimerDurations(),
		Sound:     cfg.Notifications.Sound,
	}
	app.timer = services.NewTimerService(app.store, clock.NewWallTicker(time.Second), defaults,
		services.WithNotifier(app.notifier),
		services.WithLogger(app.logger),
	)

	ctx := context.Background()
	if err := app.timer.Restore(ctx); err != nil {
		return fmt.Errorf("failed to restore timer: %w", err)
	}

	app.quotes = services.NewQuoteService(app.store, app.settings, services.WithQuoteLogger(app.logger))
	if err := app.quotes.Load(ctx); err != nil {
		app.logger.Warn("quote collection unavailable", zap.Error(err))
	}
	app.flow = services.NewSmileFlow(app.timer, app.quotes)
	app.state = services.NewStateService(app.timer, app.quotes)

	return nil
}

// storeLocation resolves where the selected backend keeps its data. --db
// overrides the config.
func storeLocation(cfg *config.Config) string {
	if dbPath != "" {
		return dbPath
	}
	if cfg.Storage.Backend == config.BackendFile {
		return config.GetStoreDir(cfg)
	}
	return config.GetDBPath(cfg)
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

// cleanupServices persists the timer and closes all resources. It is safe
// to call more than once.
func cleanupServices() error {
	if app.timer != nil {
		app.timer.Shutdown(context.Background())
		app.timer = nil
	}
	var err error
	if app.store != nil {
		err = app.store.Close()
		app.store = nil
	}
	if app.logger != nil {
		_ = app.logger.Sync()
	}
	return err
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return ctx
}
