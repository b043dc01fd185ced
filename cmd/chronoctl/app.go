package main

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/chronoplan/internal/config"
	"github.com/spec-kit/chronoplan/internal/events"
	"github.com/spec-kit/chronoplan/internal/generation"
	"github.com/spec-kit/chronoplan/internal/observability"
	"github.com/spec-kit/chronoplan/internal/persistence"
	"github.com/spec-kit/chronoplan/internal/repository"
	"github.com/spec-kit/chronoplan/internal/service"
)

// cliApp is the in-process stack a command runs against.
type cliApp struct {
	cfg        *config.Config
	logger     *zap.Logger
	location   *time.Location
	schedule   *service.ScheduleService
	generation *service.GenerationService
}

func newCLIApp(ctx context.Context) (*cliApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := zap.NewNop()
	if verbose {
		if logger, err = observability.NewLogger(cfg.Logger); err != nil {
			return nil, err
		}
	}

	loc := cfg.Display.Location()
	db := persistence.NewMemoryDB()
	if err := persistence.LoadSeed(db, cfg.Seed.Path, time.Now(), loc, logger); err != nil {
		return nil, err
	}

	var model generation.Model
	if cfg.Gemini.APIKey != "" {
		gemini, err := generation.NewGeminiModel(ctx, cfg.Gemini, &http.Client{})
		if err != nil {
			return nil, err
		}
		model = gemini
	}
	generator := generation.NewClient(model, generation.Options{
		Credential: cfg.Gemini.APIKey,
		Location:   loc,
		Timeout:    cfg.Gemini.Timeout(),
	}, logger)

	dispatcher := events.NewInMemoryDispatcher(logger)
	schedule := service.NewScheduleService(service.ScheduleDependencies{
		UserRepo:   repository.NewUserRepository(db),
		EventRepo:  repository.NewEventRepository(db),
		Dispatcher: dispatcher,
	})
	return &cliApp{
		cfg:      cfg,
		logger:   logger,
		location: loc,
		schedule: schedule,
		generation: service.NewGenerationService(service.GenerationDependencies{
			Schedule:   schedule,
			Generator:  generator,
			Dispatcher: dispatcher,
			Logger:     logger,
		}),
	}, nil
}
