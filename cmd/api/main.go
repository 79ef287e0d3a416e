package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/api"
	"github.com/pageza/nutriplan/backend/internal/database"
	"github.com/pageza/nutriplan/backend/internal/logger"
	"github.com/pageza/nutriplan/backend/internal/router"
	"github.com/pageza/nutriplan/backend/internal/server"
	"github.com/pageza/nutriplan/backend/internal/service"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(config.GetEnvironment())
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, zapLogger *zap.Logger) error {
	db, err := database.New(cfg, zapLogger)
	if err != nil {
		return err
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir, zapLogger); err != nil {
		return err
	}

	// Redis backs the menu cache and rate limiting; both work without it.
	var redisClient *redis.Client
	if client, err := database.NewRedisClient(cfg, zapLogger); err != nil {
		zapLogger.Warn("redis unavailable, menu cache and rate limiting disabled", zap.Error(err))
	} else {
		redisClient = client
		defer redisClient.Close()
	}

	var oracle service.Oracle
	if llm, err := service.NewLLMService(cfg, zapLogger); err != nil {
		zapLogger.Warn("oracle not configured, all generation will use the fallback catalog", zap.Error(err))
		oracle = service.UnavailableOracle{}
	} else {
		oracle = llm
	}

	cache := service.NewRedisMenuCache(redisClient, cfg.MenuCacheTTL, zapLogger)
	authService := service.NewAuthService(db, cfg.JWTSecret, cache, zapLogger)
	preferenceService := service.NewPreferenceService(db)
	mealPlanService := service.NewMealPlanService(
		authService,
		service.NewPlanStore(db),
		cache,
		oracle,
		preferenceService,
		zapLogger,
		service.Options{OracleTimeout: cfg.OracleTimeout},
	)

	var exporter api.PlanExporter
	if cfg.AWSRegion != "" {
		s3Config, err := config.NewS3Config(context.Background(), cfg)
		if err != nil {
			zapLogger.Warn("plan export disabled", zap.Error(err))
		} else {
			exporter = service.NewExportService(mealPlanService, s3Config, zapLogger)
		}
	}

	engine := router.SetupRouter(router.Deps{
		AuthHandler:       api.NewAuthHandler(authService),
		MealPlanHandler:   api.NewMealPlanHandler(mealPlanService, exporter),
		PreferenceHandler: api.NewPreferenceHandler(preferenceService),
		HealthHandler:     api.NewHealthHandler(db, redisClient),
		TokenValidator:    authService,
		Redis:             redisClient,
		GenerateRateLimit: cfg.GenerateRateLimit,
		AllowedOrigins:    cfg.AllowedOrigins,
		Logger:            zapLogger,
	})

	srv := server.NewServer(cfg.ServerHost, cfg.ServerPort, engine, zapLogger)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		zapLogger.Info("received signal", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
