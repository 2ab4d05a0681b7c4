package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/customer"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/infrastructure/config"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/infrastructure/store"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/infrastructure/telemetry"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/metrics"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/service/fraud"
)

// service implements the Service interface
type service struct {
	store    Store
	fraud    fraud.Service
	fraudCfg config.FraudConfig
	cfg      config.AnalyticsConfig
	logger   *slog.Logger
	metrics  *metrics.Registry
	tracer   trace.Tracer
}

// NewService creates the analytics engine
func NewService(st Store, fraudSvc fraud.Service, fraudCfg config.FraudConfig, cfg config.AnalyticsConfig, logger *slog.Logger, registry *metrics.Registry) Service {
	return &service{
		store:    st,
		fraud:    fraudSvc,
		fraudCfg: fraudCfg,
		cfg:      cfg,
		logger:   logger,
		metrics:  registry,
		tracer:   telemetry.Tracer("analytics"),
	}
}

func dateBound(field string, f DateFilter) store.Filter {
	filter := store.Filter{}
	if f.Start != nil {
		filter = filter.Where(field, store.OpGte, *f.Start)
	}
	if f.End != nil {
		filter = filter.Where(field, store.OpLte, *f.End)
	}
	return filter
}

// DashboardMetrics implements Service
func (s *service) DashboardMetrics(ctx context.Context, filter DateFilter) (*Metrics, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.DashboardMetrics")
	defer span.End()

	orderFilter := dateBound("order_date", filter)
	returnFilter := dateBound("return_date", filter)

	totalOrders, err := s.store.Count(ctx, store.Orders, orderFilter)
	if err != nil {
		return nil, err
	}
	totalReturns, err := s.store.Count(ctx, store.Returns, returnFilter)
	if err != nil {
		return nil, err
	}
	totalRefunds, err := s.store.Count(ctx, store.Refunds, store.Filter{})
	if err != nil {
		return nil, err
	}

	highRisk, err := s.store.Count(ctx, store.Customers,
		store.Filter{}.Where("risk_level", store.OpEq, customer.RiskLevelHigh))
	if err != nil {
		return nil, err
	}
	fraudFlagged, err := s.store.Count(ctx, store.Returns,
		store.Filter{}.Where("is_fraud_suspected", store.OpEq, true))
	if err != nil {
		return nil, err
	}

	// Mean processing time over refunds that actually completed
	processed, err := s.store.ListRefunds(ctx,
		store.Filter{}.Where("status", store.OpEq, "processed"), s.cfg.ExportMaxRecords)
	if err != nil {
		return nil, err
	}
	var processingSum float64
	var processingCount int
	for _, r := range processed {
		if r.ProcessingTimeDays != nil {
			processingSum += float64(*r.ProcessingTimeDays)
			processingCount++
		}
	}

	orders, err := s.store.ListOrders(ctx, orderFilter, s.cfg.ExportMaxRecords)
	if err != nil {
		return nil, err
	}
	var totalRevenue float64
	for _, o := range orders {
		totalRevenue += o.TotalAmount.Float64()
	}

	refunds, err := s.store.ListRefunds(ctx, store.Filter{}, s.cfg.ExportMaxRecords)
	if err != nil {
		return nil, err
	}
	var totalRefundAmount float64
	for _, r := range refunds {
		totalRefundAmount += r.Amount.Float64()
	}

	reasonGroups, err := s.store.Aggregate(ctx, store.Returns, store.Pipeline{
		GroupBy: "reason",
		Reducers: []store.Reducer{
			{Name: "count", Op: store.ReduceCount},
		},
		SortBy:   "count",
		SortDesc: true,
		Limit:    5,
	})
	if err != nil {
		return nil, err
	}
	topReasons := make(map[string]int64, len(reasonGroups))
	for _, g := range reasonGroups {
		topReasons[g.Key] = g.Counts["count"]
	}

	m := &Metrics{
		TotalOrders:       totalOrders,
		TotalReturns:      totalReturns,
		TotalRefunds:      totalRefunds,
		TotalRevenue:      totalRevenue,
		TotalRefundAmount: totalRefundAmount,
		HighRiskCustomers: highRisk,
		TopReturnReasons:  topReasons,
		DateRange:         map[string]string{},
	}
	if totalOrders > 0 {
		m.OverallReturnRate = float64(totalReturns) / float64(totalOrders)
	}
	if totalReturns > 0 {
		m.FraudDetectionRate = float64(fraudFlagged) / float64(totalReturns)
	}
	if processingCount > 0 {
		m.AvgProcessingTime = processingSum / float64(processingCount)
	}
	if filter.Start != nil && filter.End != nil {
		m.DateRange["start_date"] = filter.Start.Format("2006-01-02")
		m.DateRange["end_date"] = filter.End.Format("2006-01-02")
	}
	return m, nil
}

// CustomerRiskProfiles implements Service. The per-customer scoring loop
// fans out over a bounded worker pool; sequential round trips to the store
// would dominate latency otherwise.
func (s *service) CustomerRiskProfiles(ctx context.Context, limit int) ([]CustomerRiskProfile, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.CustomerRiskProfiles")
	defer span.End()
	start := time.Now()

	customers, err := s.store.ListCustomers(ctx, store.Filter{}, limit)
	if err != nil {
		return nil, err
	}

	workers := s.cfg.ProfileWorkers
	if workers < 1 {
		workers = 1
	}

	profiles := make([]CustomerRiskProfile, len(customers))
	errs := make([]error, len(customers))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				profiles[i], errs[i] = s.buildProfile(ctx, customers[i])
			}
		}()
	}
	for i := range customers {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	// Ties keep customer listing order
	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].RiskScore > profiles[j].RiskScore
	})

	s.metrics.ProfileBuildDuration.Record(ctx, float64(time.Since(start).Milliseconds()))
	return profiles, nil
}

func (s *service) buildProfile(ctx context.Context, c *customer.Customer) (CustomerRiskProfile, error) {
	bundle, err := s.fraud.ExtractSignals(ctx, c.ID)
	if err != nil {
		return CustomerRiskProfile{}, fmt.Errorf("profile for %s: %w", c.ID, err)
	}
	result := fraud.Score(bundle, s.fraudCfg)

	profile := CustomerRiskProfile{
		CustomerID:         c.ID.String(),
		Email:              c.Email,
		RiskScore:          result.Score,
		RiskLevel:          result.RiskLevel,
		SuspiciousPatterns: result.Indicators,
		Recommendation:     RecommendationFor(result.RiskLevel),
	}
	if bundle != nil {
		profile.ReturnFrequency = bundle.RecentReturns30d
		// Upstream reporting quirk kept for compatibility: the order-value
		// column carries the average return value
		profile.AvgOrderValue = bundle.AvgReturnValue
		profile.ReturnValueRatio = bundle.ReturnRate
	}
	return profile, nil
}

// TrendAnalysis implements Service
func (s *service) TrendAnalysis(ctx context.Context, days int) (*TrendAnalysis, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.TrendAnalysis")
	defer span.End()

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)

	groups, err := s.store.Aggregate(ctx, store.Returns, store.Pipeline{
		Match: store.Filter{}.
			Where("return_date", store.OpGte, start).
			Where("return_date", store.OpLte, end),
		GroupBy: "return_date",
		Bucket:  store.BucketDay,
		Reducers: []store.Reducer{
			{Name: "return_count", Op: store.ReduceCount},
			{Name: "fraud_count", Op: store.ReduceCountIf, Field: "is_fraud_suspected"},
			{Name: "total_refund", Op: store.ReduceSum, Field: "refund_amount"},
		},
	})
	if err != nil {
		return nil, err
	}

	analysis := &TrendAnalysis{
		DailyTrends: make([]TrendPoint, 0, len(groups)),
		ReturnTrend: TrendStable,
		FraudTrend:  TrendStable,
	}

	var returnSum, fraudSum int64
	for _, g := range groups {
		point := TrendPoint{
			Date:        g.Key,
			ReturnCount: g.Counts["return_count"],
			FraudCount:  g.Counts["fraud_count"],
			TotalRefund: g.Sums["total_refund"].InexactFloat64(),
		}
		analysis.DailyTrends = append(analysis.DailyTrends, point)
		returnSum += point.ReturnCount
		fraudSum += point.FraudCount
	}

	if n := len(analysis.DailyTrends); n > 1 {
		first, last := analysis.DailyTrends[0], analysis.DailyTrends[n-1]
		if last.ReturnCount > first.ReturnCount {
			analysis.ReturnTrend = TrendIncreasing
		}
		if last.FraudCount > first.FraudCount {
			analysis.FraudTrend = TrendIncreasing
		}
	}
	if n := len(analysis.DailyTrends); n > 0 {
		analysis.AvgDailyReturns = float64(returnSum) / float64(n)
		analysis.AvgDailyFraud = float64(fraudSum) / float64(n)
	}
	return analysis, nil
}

// RefreshCustomerRiskScores implements Service. This is the population
// update job and the only writer in the engine.
func (s *service) RefreshCustomerRiskScores(ctx context.Context) (int, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.RefreshCustomerRiskScores")
	defer span.End()

	customers, err := s.store.ListCustomers(ctx, store.Filter{}, 0)
	if err != nil {
		return 0, err
	}

	workers := s.cfg.ProfileWorkers
	if workers < 1 {
		workers = 1
	}

	errs := make([]error, len(customers))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				errs[i] = s.refreshOne(ctx, customers[i])
			}
		}()
	}
	for i := range customers {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	updated := 0
	for _, err := range errs {
		if err != nil {
			return updated, err
		}
		updated++
	}

	s.logger.InfoContext(ctx, "customer risk refresh complete", "updated", updated)
	return updated, nil
}

func (s *service) refreshOne(ctx context.Context, c *customer.Customer) error {
	bundle, err := s.fraud.ExtractSignals(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("refresh for %s: %w", c.ID, err)
	}
	result := fraud.Score(bundle, s.fraudCfg)

	var totalOrders, totalReturns int
	var returnRate float64
	if bundle != nil {
		totalOrders = bundle.TotalOrders
		totalReturns = bundle.TotalReturns
		returnRate = bundle.ReturnRate
	}
	return s.store.UpdateCustomerRisk(ctx, c.ID, totalOrders, totalReturns,
		returnRate, result.Score, result.RiskLevel)
}
