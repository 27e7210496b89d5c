package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/KirillGluhov/gallery-api/internal/cache"
	"github.com/KirillGluhov/gallery-api/internal/config"
	"github.com/KirillGluhov/gallery-api/internal/database"
	"github.com/KirillGluhov/gallery-api/internal/log"
	"github.com/KirillGluhov/gallery-api/internal/queue"
	"github.com/KirillGluhov/gallery-api/internal/repository"
	"github.com/KirillGluhov/gallery-api/internal/storage"
	"github.com/KirillGluhov/gallery-api/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment).With().Str("component", "worker").Logger()

	if !cfg.Redis.Enabled {
		logger.Fatal().Msg("worker needs redis.enabled=true")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	defer client.Close()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer dbPool.Close()

	files, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init file store")
	}

	processor := tasks.NewProcessor(files, repository.NewImageRepository(dbPool), cfg.Jobs.OrphanGrace, logger)
	consumer := queue.NewConsumer(client, queue.Options{
		Stream:        cfg.Redis.Stream,
		Group:         cfg.Redis.Group,
		Consumer:      cfg.Redis.Consumer,
		ClaimInterval: cfg.Redis.ClaimInterval,
	}, logger, processor)

	logger.Info().Str("stream", cfg.Redis.Stream).Str("group", cfg.Redis.Group).Msg("worker started")
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("consumer stopped unexpectedly")
	}
	logger.Info().Msg("worker exited cleanly")
}
