package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"moneyman/internal/amqp"
	"moneyman/internal/config"
	applog "moneyman/internal/log"
	"moneyman/internal/storage"
	"moneyman/internal/worker"
)

func main() {
	// Load .env for local development; ignore errors in production/docker.
	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Component: applog.ComponentWorker,
	})
	applog.SetDefault(logger)

	logger.Info("Starting moneyman-worker")

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	// The worker reads pending rows directly, so it requires the sqlite
	// backend regardless of what the server uses.
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository",
			applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	var events *amqp.Client
	if cfg.AMQPURL != "" {
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		defer events.Close()
		logger.Info("AMQP event consumption enabled", "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled, running periodic mirror scan only")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	mirror := worker.NewMirrorWorker(repo, events, cfg.MirrorPath, cfg.MirrorBatchSize, cfg.MirrorInterval)

	// Catch up on rows committed while the worker was down.
	if err := mirror.MirrorPending(ctx); err != nil {
		logger.Error("Startup mirror scan failed", applog.FieldError, err)
		// Keep running; the periodic scan retries.
	}

	logger.Info("Mirror worker running",
		"path", cfg.MirrorPath,
		"batch_size", cfg.MirrorBatchSize,
		"interval", cfg.MirrorInterval.String())

	if err := mirror.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Mirror worker failed", applog.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
