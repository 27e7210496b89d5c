package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/KirillGluhov/gallery-api/internal/cache"
	"github.com/KirillGluhov/gallery-api/internal/config"
	"github.com/KirillGluhov/gallery-api/internal/database"
	"github.com/KirillGluhov/gallery-api/internal/events"
	"github.com/KirillGluhov/gallery-api/internal/handlers"
	"github.com/KirillGluhov/gallery-api/internal/jobs"
	"github.com/KirillGluhov/gallery-api/internal/log"
	"github.com/KirillGluhov/gallery-api/internal/repository"
	"github.com/KirillGluhov/gallery-api/internal/server"
	"github.com/KirillGluhov/gallery-api/internal/service"
	"github.com/KirillGluhov/gallery-api/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	if cfg.Postgres.Migrate {
		if err := database.Migrate(ctx, dbPool); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	files, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("failed to init file store")
	}

	publisher := events.NewPublisher(redisClient, cfg.Redis.Stream)

	deps := handlers.Deps{
		Environment: cfg.Environment,
		MaxUploadMB: cfg.HTTP.MaxUploadMB,
		Analytics:   service.NewAnalyticsService(repository.NewAnalyticsRepository(dbPool)),
		Gallery:     service.NewGalleryService(repository.NewImageRepository(dbPool), files, publisher, logger),
		Database:    dbPool,
	}
	if redisClient != nil {
		deps.Cache = cache.NewPinger(redisClient)
	}

	handlerSet := handlers.NewHandlerSet(logger, deps)
	httpServer, err := server.NewHTTPServer(cfg, logger, handlerSet)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build http server")
	}

	scheduler := jobs.NewScheduler(publisher, cfg.Jobs.SweepSchedule, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, dbPool, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *pgxpool.Pool, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	scheduler.Stop(shutdownCtx)

	db.Close()
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}

	logger.Info().Msg("server exited cleanly")
}
