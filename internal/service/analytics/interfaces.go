package analytics

import (
	"context"

	"github.com/google/uuid"

	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/customer"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/order"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/refund"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/returns"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/infrastructure/store"
)

// Store is the slice of the store gateway the analytics engine uses. The
// risk refresh job is the only writer; everything else reads.
type Store interface {
	Count(ctx context.Context, c store.Collection, f store.Filter) (int64, error)
	Aggregate(ctx context.Context, c store.Collection, p store.Pipeline) ([]*store.Group, error)
	ListCustomers(ctx context.Context, f store.Filter, limit int) ([]*customer.Customer, error)
	ListOrders(ctx context.Context, f store.Filter, limit int) ([]*order.Order, error)
	ListReturns(ctx context.Context, f store.Filter, limit int) ([]*returns.Return, error)
	ListRefunds(ctx context.Context, f store.Filter, limit int) ([]*refund.Refund, error)
	UpdateCustomerRisk(ctx context.Context, id uuid.UUID, totalOrders, totalReturns int, returnRate, fraudScore float64, level customer.RiskLevel) error
}

// Service is the analytics engine
type Service interface {
	// DashboardMetrics builds the headline snapshot, optionally bounded by
	// a date filter on order and return dates
	DashboardMetrics(ctx context.Context, filter DateFilter) (*Metrics, error)
	// CustomerRiskProfiles scores a bounded customer population and ranks
	// it by score descending
	CustomerRiskProfiles(ctx context.Context, limit int) ([]CustomerRiskProfile, error)
	// TrendAnalysis aggregates returns into UTC day buckets over the
	// trailing window
	TrendAnalysis(ctx context.Context, days int) (*TrendAnalysis, error)
	// Export renders a dataset as CSV or JSON
	Export(ctx context.Context, req ExportRequest) (*ExportResult, error)
	// RefreshCustomerRiskScores recomputes and persists every customer's
	// totals, score, and band. Returns the number of customers updated.
	RefreshCustomerRiskScores(ctx context.Context) (int, error)
}
