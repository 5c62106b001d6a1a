package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/birdwatch-labs/rare-bird-finder/internal/api/http"
	"github.com/birdwatch-labs/rare-bird-finder/internal/api/http/handlers"
	"github.com/birdwatch-labs/rare-bird-finder/internal/auth"
	"github.com/birdwatch-labs/rare-bird-finder/internal/config"
	"github.com/birdwatch-labs/rare-bird-finder/internal/events"
	"github.com/birdwatch-labs/rare-bird-finder/internal/observability"
	"github.com/birdwatch-labs/rare-bird-finder/internal/persistence"
	"github.com/birdwatch-labs/rare-bird-finder/internal/repository"
	"github.com/birdwatch-labs/rare-bird-finder/internal/service"
	"github.com/birdwatch-labs/rare-bird-finder/internal/worker"
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

	if cfg.Auth.JWTSecret == config.InsecureJWTSecretDefault {
		logger.Warn("AUTH_JWT_SECRET not set; using insecure default signing secret, do not deploy like this")
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

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	searchRepo := repository.NewSearchRepository(pool)
	favoriteRepo := repository.NewFavoriteRepository(pool)
	locationRepo := repository.NewLocationRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:     userRepo,
		SearchRepo:   searchRepo,
		FavoriteRepo: favoriteRepo,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	birdService := service.NewBirdService(cfg.EBird, searchRepo, dispatcher, logger)
	speciesService := service.NewSpeciesService(cfg.EBird, service.NewRedisTaxonomyCache(redis.Client), logger)
	locationService := service.NewLocationService(locationRepo, logger)
	favoriteService := service.NewFavoriteService(favoriteRepo, dispatcher, logger)

	activityService := service.NewActivityService(dispatcher, logger)
	activityService.RegisterHandlers()

	worker.NewTaxonomyWorker(speciesService, cfg.EBird.TaxonomyCacheTTL(), logger).Start(ctx)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo.GetByEmail)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, birdService),
		Birds:          handlers.NewBirdsHandler(birdService, logger),
		Species:        handlers.NewSpeciesHandler(speciesService, locationService),
		Favorites:      handlers.NewFavoritesHandler(favoriteService),
		Locations:      handlers.NewLocationsHandler(locationService),
		AuthMiddleware: authMiddleware,
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
