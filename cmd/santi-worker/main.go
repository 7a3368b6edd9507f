package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"santi/internal/amqp"
	"santi/internal/config"
	"santi/internal/docstore"
	"santi/internal/docstore/firestore"
	"santi/internal/docstore/memory"
	"santi/internal/log"
	"santi/internal/storage"
	"santi/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig()).WithComponent(log.ComponentWorker)
	log.SetDefault(logger)

	logger.Info("Starting santi-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the mirror worker")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The worker reads from the same document store the server writes to.
	var store docstore.Store
	switch cfg.DocBackend {
	case "firestore":
		fs, err := firestore.New(ctx, cfg.FirebaseProjectID)
		if err != nil {
			logger.Error("Failed to initialize Firestore store", "error", err, "project", cfg.FirebaseProjectID)
			os.Exit(1)
		}
		store = fs
		logger.Info("Initialized Firestore backend", "project", cfg.FirebaseProjectID)
	default:
		store = memory.New()
		logger.Warn("Memory backend selected, the mirror will only see this process's writes")
	}

	sqliteRepo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer sqliteRepo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	mirror := worker.NewMirrorWorker(store, sqliteRepo)

	go func() {
		if err := amqpClient.ConsumeLedgerChanges(ctx, func(msg *amqp.LedgerChangedMessage) error {
			return mirror.HandleChangeMessage(ctx, msg)
		}); err != nil {
			if err != context.Canceled {
				logger.Error("Message consumption failed", "error", err)
			}
			cancel()
		}
	}()

	logger.Info("Mirror worker running", "queue", cfg.AMQPQueue, "db_path", cfg.SQLiteDBPath)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	case <-ctx.Done():
	}

	logger.Info("Worker stopped gracefully")
}
