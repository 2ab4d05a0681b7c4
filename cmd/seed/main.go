// Command seed populates the database with a synthetic dataset for demos
// and load testing, then recomputes customer risk scores over it.
package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/infrastructure/config"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/infrastructure/database"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/infrastructure/store"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/infrastructure/telemetry"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/metrics"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/seed"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/service/analytics"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/service/fraud"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	customers := flag.Int("customers", 1000, "Number of customers to generate")
	products := flag.Int("products", 500, "Number of products to generate")
	orders := flag.Int("orders", 5000, "Number of orders to generate")
	returnRate := flag.Float64("return-rate", 0.15, "Fraction of orders that get returned")
	randomSeed := flag.Int64("seed", 1, "Random seed for reproducible datasets")
	skipRefresh := flag.Bool("skip-refresh", false, "Skip recomputing customer risk scores")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := telemetry.SetupLogger(cfg.LogLevel)

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create infrastructure logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx := context.Background()
	pool, err := database.Connect(ctx, &cfg.Database, zapLogger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	st := store.NewPostgres(pool, zapLogger)

	gen := seed.New(st, seed.Config{
		Customers:  *customers,
		Products:   *products,
		Orders:     *orders,
		ReturnRate: *returnRate,
		Seed:       *randomSeed,
	}, logger)

	result, err := gen.Run(ctx)
	if err != nil {
		log.Fatalf("Data generation failed: %v", err)
	}
	logger.Info("dataset written",
		"customers", result.Customers,
		"products", result.Products,
		"orders", result.Orders,
		"returns", result.Returns,
		"refunds", result.Refunds)

	if *skipRefresh {
		return
	}

	registry, err := metrics.NewRegistry("return-fraud-seed")
	if err != nil {
		log.Fatalf("Failed to create metrics registry: %v", err)
	}
	fraudSvc := fraud.NewService(st, cfg.Fraud, logger, registry)
	analyticsSvc := analytics.NewService(st, fraudSvc, cfg.Fraud, cfg.Analytics, logger, registry)

	updated, err := analyticsSvc.RefreshCustomerRiskScores(ctx)
	if err != nil {
		log.Fatalf("Risk score refresh failed: %v", err)
	}
	logger.Info("customer risk scores refreshed", "updated", updated)
}
