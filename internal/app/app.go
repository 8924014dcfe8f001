package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"selectsense/internal/actions"
	"selectsense/internal/assist"
	"selectsense/internal/config"
	"selectsense/internal/costtracker"
	"selectsense/internal/inputprocessor"
	"selectsense/internal/services"
	"selectsense/internal/store"
	"selectsense/internal/transformer/summarize"
	"selectsense/pkg/categorizer"
)

type App struct {
	Config *config.Config

	Classifier     *categorizer.Classifier
	Actions        *actions.Catalog
	Provider       assist.CompletionProvider
	ReplyCache     store.ReplyCache
	CostTracker    costtracker.CostTracker
	InputProcessor inputprocessor.Processor

	// --- Initialized Services ---
	ClassificationService *services.ClassificationService
	AssistService         *assist.Service
}

// NewApp wires every component from cfg. The caller must Close the result.
func NewApp(ctx context.Context, cfg *config.Config, inputProc inputprocessor.Processor) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	ConfigureLogging(cfg)

	app := &App{Config: cfg, InputProcessor: inputProc}
	if app.InputProcessor == nil {
		app.InputProcessor = inputprocessor.New(nil)
	}

	app.Classifier = categorizer.New(cfg.ClassifierOptions())
	app.ClassificationService = services.NewClassificationService(app.Classifier, cfg.Batch.Concurrency)
	app.CostTracker = costtracker.New(cfg.Pricing)

	if err := app.initActions(); err != nil {
		return nil, err
	}
	if err := app.initReplyCache(ctx); err != nil {
		return nil, err
	}
	if err := app.initProvider(ctx); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}

	app.AssistService = assist.NewService(app.Classifier, app.Actions, app.Provider, app.ReplyCache, app.CostTracker, cfg.Assist.Timeout)
	app.AssistService.SetPageTransformer(summarize.NewSummarizeTransformer(cfg.Assist.MaxPageChars))

	log.Debug("Application initialization complete.")
	return app, nil
}

// ConfigureLogging applies the log section. Invalid values were rejected by
// Validate, so parse errors fall back to info.
func ConfigureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)
	if strings.EqualFold(cfg.Log.Format, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// --- Private Helper Methods ---

func (a *App) initActions() error {
	a.Actions = actions.NewCatalog()
	if a.Config.Assist.PromptsFile == "" {
		return nil
	}
	if err := a.Actions.LoadOverrides(a.Config.Assist.PromptsFile); err != nil {
		return fmt.Errorf("init actions: %w", err)
	}
	log.Infof("Loaded prompt overrides from %s", a.Config.Assist.PromptsFile)
	return nil
}

func (a *App) initReplyCache(ctx context.Context) error {
	if a.Config.Cache.DSN == "" {
		log.Debug("No cache.dsn configured, keeping assist replies in memory.")
		a.ReplyCache = store.NewMemoryCache()
		return nil
	}
	c, err := store.NewSQLiteCache(ctx, a.Config.Cache.DSN)
	if err != nil {
		return fmt.Errorf("init reply cache: %w", err)
	}
	a.ReplyCache = c
	return nil
}

func (a *App) initProvider(ctx context.Context) error {
	p, err := assist.NewProvider(ctx, a.Config)
	if err != nil {
		return fmt.Errorf("init assist provider: %w", err)
	}
	a.Provider = p
	return nil
}

func (a *App) cleanupPartialInit() {
	if a.ReplyCache != nil {
		if err := a.ReplyCache.Close(); err != nil {
			log.Errorf("Error closing reply cache: %v", err)
		}
	}
}

// Close releases the reply cache and the provider client.
func (a *App) Close() error {
	var errs []error
	if a.Provider != nil {
		errs = append(errs, a.Provider.Close())
	}
	if a.ReplyCache != nil {
		errs = append(errs, a.ReplyCache.Close())
	}
	return errors.Join(errs...)
}
