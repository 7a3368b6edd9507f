package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"santi/internal/amqp"
	"santi/internal/bank"
	"santi/internal/config"
	"santi/internal/docstore"
	"santi/internal/docstore/firestore"
	"santi/internal/docstore/memory"
	apphttp "santi/internal/http"
	"santi/internal/identity"
	"santi/internal/log"
	"santi/internal/session"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Document store backend (default: memory).
	var store docstore.Store
	switch cfg.DocBackend {
	case "firestore":
		fs, err := firestore.New(ctx, cfg.FirebaseProjectID)
		if err != nil {
			logger.Error("Failed to initialize Firestore store", log.FieldError, err, "project", cfg.FirebaseProjectID)
			os.Exit(1)
		}
		store = fs
		logger.Info("Initialized Firestore backend", "project", cfg.FirebaseProjectID)
	default:
		store = memory.New()
		logger.Info("Initialized memory backend")
	}

	// Token verification. Without an API key, fall back to an empty static
	// verifier: every request is rejected, but health checks still work.
	var verifier identity.Verifier
	if cfg.FirebaseAPIKey != "" {
		fv, err := identity.NewFirebaseVerifier(ctx, cfg.FirebaseAPIKey)
		if err != nil {
			logger.Error("Failed to initialize token verifier", "error", err)
			os.Exit(1)
		}
		verifier = fv
	} else {
		logger.Warn("No FIREBASE_WEB_API_KEY set, all tokens will be rejected")
		verifier = &identity.StaticVerifier{}
	}

	// Change publisher is optional: without AMQP the mirror just lags.
	var publisher session.ChangePublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		publisher = client
		logger.Info("AMQP change publishing enabled", "exchange", cfg.AMQPExchange)
	} else {
		logger.Info("AMQP disabled, change messages will not be published")
	}

	sessions := session.NewManager(store, publisher)

	gateway := bank.NewClient(bank.Endpoints{
		CreateLinkToken:     cfg.BankLinkTokenURL,
		ExchangePublicToken: cfg.BankExchangeURL,
		Accounts:            cfg.BankAccountsURL,
		Transactions:        cfg.BankTransactionsURL,
	}, nil)

	srv := apphttp.NewServer(":"+cfg.Port, verifier, sessions, gateway, cfg.SnapshotTTL)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		// Drain best-effort persistence writes before exit.
		sessions.Flush()
		cancel()
	}()

	logger.Info("Starting santi server", "port", cfg.Port, log.FieldBackend, cfg.DocBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
