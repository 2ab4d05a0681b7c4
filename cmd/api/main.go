package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/api/rest"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/infrastructure/cache"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/infrastructure/config"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/infrastructure/database"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/infrastructure/store"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/infrastructure/telemetry"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/metrics"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/service/analytics"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/service/fraud"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := telemetry.SetupLogger(cfg.LogLevel)

	ctx := context.Background()
	provider, err := telemetry.Initialize(ctx, &telemetry.Config{
		ServiceName:    "return-fraud-api",
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		Enabled:        cfg.Telemetry.Enabled,
		SamplingRate:   cfg.Telemetry.SamplingRate,
		ExportTimeout:  cfg.Telemetry.ExportTimeout,
		BatchTimeout:   cfg.Telemetry.BatchTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := provider.Shutdown(ctx); err != nil {
			logger.Error("telemetry shutdown failed", "error", err)
		}
	}()

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create infrastructure logger: %v", err)
	}
	defer zapLogger.Sync()

	pool, err := database.Connect(ctx, &cfg.Database, zapLogger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	appCache, err := cache.NewRedisCache(&cfg.Redis, zapLogger)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer appCache.Close()

	registry, err := metrics.NewRegistry("return-fraud-api")
	if err != nil {
		log.Fatalf("Failed to create metrics registry: %v", err)
	}

	st := store.NewPostgres(pool, zapLogger)
	fraudSvc := fraud.NewService(st, cfg.Fraud, logger, registry)
	analyticsSvc := analytics.NewService(st, fraudSvc, cfg.Fraud, cfg.Analytics, logger, registry)

	server := rest.NewServer(cfg, rest.Deps{
		Analytics:   analyticsSvc,
		Fraud:       fraudSvc,
		Cache:       appCache,
		RateLimiter: cache.NewRateLimiter(appCache.Client(), zapLogger),
		Metrics:     registry,
		Health: func(ctx context.Context) error {
			return pool.Ping(ctx)
		},
	}, logger)

	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
