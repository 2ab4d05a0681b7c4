package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/infrastructure/cache"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/infrastructure/config"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/infrastructure/telemetry"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/metrics"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/service/analytics"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/service/fraud"
)

// Deps carries the wired services the server exposes. The cache and rate
// limiter are optional; a nil cache disables response caching and a nil
// limiter disables throttling.
type Deps struct {
	Analytics   analytics.Service
	Fraud       fraud.Service
	Cache       *cache.Cache
	RateLimiter *cache.RateLimiter
	Metrics     *metrics.Registry
	Health      func(ctx context.Context) error
}

// Server is the HTTP front of the engine
type Server struct {
	cfg        *config.Config
	httpServer *http.Server
	handler    *Handler
	logger     *slog.Logger
	tracer     trace.Tracer
}

// NewServer assembles the router and middleware chain
func NewServer(cfg *config.Config, deps Deps, logger *slog.Logger) *Server {
	handler := NewHandler(deps, logger)

	middlewares := []Middleware{
		requestIDMiddleware,
		loggingMiddleware(logger),
		metricsMiddleware(deps.Metrics),
		recoveryMiddleware(logger),
		corsMiddleware,
	}
	if cfg.Server.RateLimit.Enabled && deps.RateLimiter != nil {
		middlewares = append(middlewares,
			rateLimitMiddleware(deps.RateLimiter, cfg.Server.RateLimit.RequestsPerMinute))
	}

	mux := setupRoutes(handler)
	var h http.Handler = mux
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}

	return &Server{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
		tracer:  telemetry.Tracer("api.rest"),
		httpServer: &http.Server{
			Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:        h,
			ReadTimeout:    cfg.Server.ReadTimeout,
			WriteTimeout:   cfg.Server.WriteTimeout,
			IdleTimeout:    120 * time.Second,
			MaxHeaderBytes: 1 << 20,
		},
	}
}

func setupRoutes(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.handleHealth)
	mux.Handle("GET /metrics", h.metricsHandler())

	v1 := http.NewServeMux()
	v1.HandleFunc("GET /analytics/dashboard", h.handleDashboard)
	v1.HandleFunc("GET /analytics/risk-profiles", h.handleRiskProfiles)
	v1.HandleFunc("GET /analytics/trends", h.handleTrends)
	v1.HandleFunc("POST /analytics/refresh", h.handleRefresh)
	v1.HandleFunc("POST /export", h.handleExport)

	v1.HandleFunc("GET /customers/{id}/fraud-score", h.handleCustomerScore)
	v1.HandleFunc("GET /fraud/patterns", h.handleFraudPatterns)

	v1.HandleFunc("GET /data/{type}", h.handleDataQuery)

	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", v1))
	return mux
}

// Start runs the server until an interrupt or a listener error
func (s *Server) Start() error {
	s.logger.Info("starting API server",
		"address", s.httpServer.Addr,
		"environment", s.cfg.Environment,
	)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed to start: %w", err)
	case sig := <-sigCh:
		s.logger.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown()
	}
}

// Shutdown drains in-flight requests within the configured timeout
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("failed to shutdown server", "error", err)
		return err
	}
	s.logger.Info("server shutdown complete")
	return nil
}
