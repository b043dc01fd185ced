package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/chronoplan/internal/api/http"
	"github.com/spec-kit/chronoplan/internal/api/http/handlers"
	"github.com/spec-kit/chronoplan/internal/config"
	"github.com/spec-kit/chronoplan/internal/events"
	"github.com/spec-kit/chronoplan/internal/generation"
	"github.com/spec-kit/chronoplan/internal/observability"
	"github.com/spec-kit/chronoplan/internal/persistence"
	"github.com/spec-kit/chronoplan/internal/repository"
	"github.com/spec-kit/chronoplan/internal/service"
	"github.com/spec-kit/chronoplan/internal/session"
	"github.com/spec-kit/chronoplan/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loc := cfg.Display.Location()
	db := persistence.NewMemoryDB()
	if err := persistence.LoadSeed(db, cfg.Seed.Path, time.Now(), loc, logger); err != nil {
		logger.Fatal("failed to load seed", zap.Error(err))
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var locker session.Locker
	if redis != nil {
		locker = session.NewRedisLocker(redis.Client, cfg.Redis.LockTTL())
	}

	var model generation.Model
	if cfg.Gemini.APIKey != "" {
		gemini, err := generation.NewGeminiModel(ctx, cfg.Gemini, &http.Client{})
		if err != nil {
			logger.Fatal("failed to init gemini client", zap.Error(err))
		}
		model = gemini
	} else {
		logger.Warn("API_KEY not provided; schedule generation disabled")
	}
	generator := generation.NewClient(model, generation.Options{
		Credential: cfg.Gemini.APIKey,
		Location:   loc,
		Timeout:    cfg.Gemini.Timeout(),
	}, logger)

	metrics := observability.NewMetrics()
	reporter, err := worker.StartMetricsReporter(cfg.Report.Cron, loc, metrics, logger)
	if err != nil {
		logger.Fatal("invalid METRICS_REPORT_CRON", zap.Error(err))
	}
	defer reporter.Stop()

	dispatcher := events.NewInMemoryDispatcher(logger)
	activityService := service.NewActivityService(dispatcher, logger, 0)
	worker.StartActivityWorker(activityService)

	scheduleService := service.NewScheduleService(service.ScheduleDependencies{
		UserRepo:   repository.NewUserRepository(db),
		EventRepo:  repository.NewEventRepository(db),
		Dispatcher: dispatcher,
	})
	generationService := service.NewGenerationService(service.GenerationDependencies{
		Schedule:   scheduleService,
		Generator:  generator,
		Tracker:    session.NewTracker(locker, logger),
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	display := handlers.Display{Location: loc, Locale: cfg.Display.Locale}
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, db, redis, generator.Configured),
		Users:      handlers.NewUsersHandler(scheduleService, activityService),
		Events:     handlers.NewEventsHandler(scheduleService, display),
		Generation: handlers.NewGenerationHandler(generationService, display),
		Metrics:    handlers.NewMetricsHandler(metrics),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.ShutdownWithTimeout(10 * time.Second)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
