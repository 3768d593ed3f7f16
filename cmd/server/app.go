package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexigo-app/lexigo-api/internal/config"
	"github.com/lexigo-app/lexigo-api/internal/domain/srs"
	"github.com/lexigo-app/lexigo-api/internal/generation"
	"github.com/lexigo-app/lexigo-api/internal/platform/gemini"
	"github.com/lexigo-app/lexigo-api/internal/platform/logger"
	"github.com/lexigo-app/lexigo-api/internal/platform/postgres"
	"github.com/lexigo-app/lexigo-api/internal/service/session"
	"github.com/lexigo-app/lexigo-api/internal/store"
	"github.com/lexigo-app/lexigo-api/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	profileStore store.ProfileStore
	vocabStore   store.VocabularyStore
	stateStore   store.ReviewStateStore

	srsService     srs.Service
	generator      generation.Generator
	taskRunner     *task.Runner
	sessionService session.Service
}

// initializeApp loads configuration and wires every application component.
func initializeApp(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"timezone", cfg.Server.Timezone)

	loc, err := loadLocation(cfg.Server.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", cfg.Server.Timezone, err)
	}

	db, err := setupAppDatabase(cfg, log)
	if err != nil {
		return nil, err
	}

	if err := postgres.RunMigrations(db, log); err != nil {
		return nil, err
	}

	app := &application{
		config:       cfg,
		logger:       log,
		db:           db,
		profileStore: postgres.NewProfileStore(db, log),
		vocabStore:   postgres.NewVocabularyStore(db, log),
		stateStore:   postgres.NewReviewStateStore(db, log),
		srsService:   srs.NewService(),
	}

	// An absent API key disables passage generation rather than failing
	// startup; the study loop works without it.
	if cfg.LLM.GeminiAPIKey != "" {
		gen, err := gemini.NewPassageGenerator(ctx, log, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to create passage generator: %w", err)
		}
		app.generator = gen
	} else {
		log.Info("no Gemini API key configured, passage generation disabled")
	}

	app.taskRunner = task.NewRunner(task.DefaultRunnerConfig(), log)
	app.taskRunner.Start()

	svc := session.NewService(
		app.srsService,
		app.generator,
		app.db,
		app.profileStore,
		app.vocabStore,
		app.stateStore,
		app.taskRunner,
		session.Config{
			NewItemCap:        cfg.Study.NewItemCap,
			DailyReviewTarget: cfg.Study.DailyReviewTarget,
			PassageWordCount:  cfg.Study.PassageWordCount,
			Location:          loc,
		},
		log,
	)
	if err := svc.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load session state: %w", err)
	}
	app.sessionService = svc

	return app, nil
}

// loadLocation resolves the configured calendar location.
func loadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

// cleanup releases application resources in reverse dependency order.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}
}
