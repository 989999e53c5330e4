package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-analytics/internal/api/http"
	"github.com/spec-kit/ticket-analytics/internal/api/http/handlers"
	"github.com/spec-kit/ticket-analytics/internal/auth"
	"github.com/spec-kit/ticket-analytics/internal/cache"
	"github.com/spec-kit/ticket-analytics/internal/config"
	"github.com/spec-kit/ticket-analytics/internal/events"
	"github.com/spec-kit/ticket-analytics/internal/observability"
	"github.com/spec-kit/ticket-analytics/internal/persistence"
	"github.com/spec-kit/ticket-analytics/internal/repository"
	"github.com/spec-kit/ticket-analytics/internal/service"
	"github.com/spec-kit/ticket-analytics/internal/worker"
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

	heuristics, err := config.LoadHeuristics(cfg.Analytics.SignaturesFile)
	if err != nil {
		logger.Fatal("failed to load signature library", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var reportCache cache.Store = cache.NewMemoryStore()
	if cfg.Analytics.CacheBackend == "redis" {
		reportCache = cache.NewRedisStore(redis.Client)
	}

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	ticketReader := repository.NewTicketRepository(pg.PoolHandle())
	analyticsService := service.NewAnalyticsService(cfg.Analytics, service.AnalyticsDependencies{
		TicketReader: ticketReader,
		Cache:        reportCache,
		Heuristics:   heuristics,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})

	metrics := observability.NewMetrics()
	authMiddleware := auth.NewMiddleware(auth.NewTokenManager(cfg.Auth.JWTSecret, 60))
	adminGuard := auth.NewAPIKeyGuard(cfg.Auth.AdminAPIKeyHash)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Analytics:      handlers.NewAnalyticsHandler(analyticsService, metrics),
		AuthMiddleware: authMiddleware,
		AdminGuard:     adminGuard,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
