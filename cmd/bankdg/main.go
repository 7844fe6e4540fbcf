package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"bankdg/internal/amqp"
	"bankdg/internal/backend"
	"bankdg/internal/cache"
	"bankdg/internal/config"
	apphttp "bankdg/internal/http"
	applog "bankdg/internal/log"
	"bankdg/internal/services"
	"bankdg/internal/session"
	"bankdg/internal/worker"
)

func main() {
	// Load .env for local development; absent in containers.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	sess := session.New()

	backendCfg, err := backend.FromAppConfig(cfg, sess)
	if err != nil {
		logger.Error("Backend configuration failed", "error", err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger.Logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Backend initialization failed", "error", err, applog.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}()
	}
	store := result.Backend

	// AMQP is optional; without it transfers simply skip event publishing
	// and views expire by TTL alone.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP initialization failed, continuing without movement events", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
		}
	}
	var publisher services.Publisher
	if amqpClient != nil {
		publisher = amqpClient
	}

	accountViews := cache.NewLRU[services.AccountView](cfg.CacheSize, cfg.CacheTTL)
	cardViews := cache.NewLRU[services.CardView](cfg.CacheSize, cfg.CacheTTL)

	sweeper := cache.NewSweeper()
	sweeper.Register(accountViews)
	sweeper.Register(cardViews)
	sweeper.Start(10 * time.Minute)
	defer sweeper.Stop()

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Auth:      services.NewAuth(store, sess, logger),
		Accounts:  services.NewAccounts(store, store, accountViews, logger),
		Cards:     services.NewCards(store, store, store, cardViews, logger),
		Dashboard: services.NewDashboard(store, store, store, logger),
		Transfers: services.NewTransfers(store, store, publisher, logger),
		Session:   sess,
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Movement events drop cached views for the owners they mention.
	if amqpClient != nil {
		invalidator := worker.NewInvalidator(amqpClient, accountViews, cardViews)
		go func() {
			if err := invalidator.Run(ctx); err != nil && err != context.Canceled {
				logger.Error("Movement event consumption failed", "error", err)
			}
		}()
	}

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
		cancel()
	}()

	logger.Info("Starting bankdg server", "port", cfg.Port, applog.FieldBackend, cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
