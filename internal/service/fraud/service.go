package fraud

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/infrastructure/config"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/infrastructure/telemetry"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/metrics"
)

// service implements the Service interface. It is stateless between calls:
// every answer is computed from the store gateway on demand.
type service struct {
	store   Reader
	cfg     config.FraudConfig
	logger  *slog.Logger
	metrics *metrics.Registry
	tracer  trace.Tracer
}

// NewService creates the fraud detection engine
func NewService(store Reader, cfg config.FraudConfig, logger *slog.Logger, registry *metrics.Registry) Service {
	return &service{
		store:   store,
		cfg:     cfg,
		logger:  logger,
		metrics: registry,
		tracer:  telemetry.Tracer("fraud"),
	}
}

// CalculateFraudScore implements Service
func (s *service) CalculateFraudScore(ctx context.Context, customerID uuid.UUID) (*ScoreResult, error) {
	ctx, span := s.tracer.Start(ctx, "fraud.CalculateFraudScore",
		trace.WithAttributes(attribute.String("customer.id", customerID.String())))
	defer span.End()

	start := time.Now()
	bundle, err := s.ExtractSignals(ctx, customerID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	result := Score(bundle, s.cfg)
	s.metrics.RecordScoring(ctx, time.Since(start))

	s.logger.DebugContext(ctx, "fraud score computed",
		"customer_id", customerID,
		"score", result.Score,
		"risk_level", result.RiskLevel)
	return &result, nil
}
