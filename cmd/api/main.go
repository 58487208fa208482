// Package main is the entrypoint for the groupfund API server.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/groupfund/groupfund/internal/cache"
	"github.com/groupfund/groupfund/internal/config"
	"github.com/groupfund/groupfund/internal/events"
	"github.com/groupfund/groupfund/internal/handler"
	"github.com/groupfund/groupfund/internal/logging"
	"github.com/groupfund/groupfund/internal/metrics"
	"github.com/groupfund/groupfund/internal/middleware"
	"github.com/groupfund/groupfund/internal/server"
	"github.com/groupfund/groupfund/internal/service"
	"github.com/groupfund/groupfund/internal/storage"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stdout)

	// Initialize storage
	store, err := storage.Open(ctx, storageOptions(cfg))
	if err != nil {
		logger.Error("failed to open storage",
			slog.String("backend", cfg.DataBackend),
			slog.String("error", logging.SanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", logging.RedactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("storage_opened", "backend", cfg.DataBackend)

	recorder := metrics.NewPrometheus()

	// Optional Redis: summary cache and write rate limiting
	var (
		cacheClient  *cache.Cache
		summaryCache service.SummaryCache
		readiness    handler.HealthChecker
		limiter      middleware.WriteLimiter
	)
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL, cfg.SummaryCacheTTL)
		if err != nil {
			logger.Error("failed to connect to Redis",
				slog.String("error", logging.SanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", logging.RedactURL(cfg.RedisURL)),
			)
			store.Close()
			os.Exit(1)
		}
		summaryCache, readiness, limiter = cacheClient, cacheClient, cacheClient
		logger.Info("redis_connected")
	}

	// Optional RabbitMQ change events
	publisher := events.NewNoop()
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQP(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			logger.Error("failed to connect to RabbitMQ",
				slog.String("error", logging.SanitizeError(err, cfg.AMQPURL)),
				slog.String("amqp_url", logging.RedactURL(cfg.AMQPURL)),
			)
			store.Close()
			os.Exit(1)
		}
		publisher = amqpPublisher
		logger.Info("amqp_connected", "exchange", cfg.AMQPExchange)
	}

	ledger := service.NewLedgerService(store, summaryCache, publisher, recorder)
	reports := service.NewReportService(ledger, cfg.BootstrapRecentLimit)

	r := setupRouter(routerDeps{
		cfg:       cfg,
		logger:    logger,
		ledger:    ledger,
		reports:   reports,
		store:     store,
		readiness: readiness,
		limiter:   limiter,
		recorder:  recorder,
	})

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	srv.OnShutdown("storage", func(context.Context) error {
		store.Close()
		return nil
	})
	if cacheClient != nil {
		srv.OnShutdown("redis", func(context.Context) error { return cacheClient.Close() })
	}
	srv.OnShutdown("events", func(context.Context) error { return publisher.Close() })

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"backend", cfg.DataBackend,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func storageOptions(cfg *config.Config) storage.Options {
	return storage.Options{
		Backend:     cfg.DataBackend,
		DatabaseURL: cfg.DatabaseURL,
		SQLitePath:  cfg.SQLitePath,
		AutoMigrate: cfg.AutoMigrate,
	}
}
