package fraud

import (
	"context"

	"github.com/google/uuid"

	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/order"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/returns"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/infrastructure/store"
)

// Reader is the slice of the store gateway the fraud engine depends on.
// The engine only ever reads; it holds no state of its own between calls.
type Reader interface {
	Count(ctx context.Context, c store.Collection, f store.Filter) (int64, error)
	Aggregate(ctx context.Context, c store.Collection, p store.Pipeline) ([]*store.Group, error)
	ListOrders(ctx context.Context, f store.Filter, limit int) ([]*order.Order, error)
	ListReturns(ctx context.Context, f store.Filter, limit int) ([]*returns.Return, error)
}

// Service is the fraud detection engine
type Service interface {
	// ExtractSignals builds the per-customer signal bundle. A customer with
	// no orders yields (nil, nil).
	ExtractSignals(ctx context.Context, customerID uuid.UUID) (*SignalBundle, error)
	// CalculateFraudScore extracts signals and scores the customer
	CalculateFraudScore(ctx context.Context, customerID uuid.UUID) (*ScoreResult, error)
	// DetectAnomalies runs all pattern detectors over the full dataset
	DetectAnomalies(ctx context.Context) ([]Pattern, error)
}
