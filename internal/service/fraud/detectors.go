package fraud

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/customer"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/infrastructure/store"
)

// DetectAnomalies implements Service. The three detectors are independent
// and run concurrently; results are concatenated in a fixed order so output
// stays deterministic for a given dataset.
func (s *service) DetectAnomalies(ctx context.Context) ([]Pattern, error) {
	type detector struct {
		name string
		run  func(context.Context) ([]Pattern, error)
	}
	detectors := []detector{
		{"mass_return", s.detectMassReturns},
		{"fraud_ring", s.detectFraudRings},
		{"product_abuse", s.detectProductAbuse},
	}

	results := make([][]Pattern, len(detectors))
	errs := make([]error, len(detectors))

	var wg sync.WaitGroup
	for i, d := range detectors {
		wg.Add(1)
		go func(i int, d detector) {
			defer wg.Done()
			start := time.Now()
			patterns, err := d.run(ctx)
			if err != nil {
				errs[i] = fmt.Errorf("%s detector: %w", d.name, err)
				return
			}
			s.metrics.RecordDetector(ctx, d.name, time.Since(start), len(patterns))
			results[i] = patterns
		}(i, d)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	var all []Pattern
	for _, r := range results {
		all = append(all, r...)
	}
	s.logger.InfoContext(ctx, "anomaly detection complete",
		"patterns", len(all))
	return all, nil
}

// detectMassReturns flags customers with an unusually dense burst of returns
func (s *service) detectMassReturns(ctx context.Context) ([]Pattern, error) {
	windowStart := time.Now().AddDate(0, 0, -s.cfg.MassReturnWindowDays)

	groups, err := s.store.Aggregate(ctx, store.Returns, store.Pipeline{
		Match:   store.Filter{}.Where("return_date", store.OpGte, windowStart),
		GroupBy: "customer_id",
		Reducers: []store.Reducer{
			{Name: "return_count", Op: store.ReduceCount},
			{Name: "total_refund", Op: store.ReduceSum, Field: "refund_amount"},
			{Name: "customer_email", Op: store.ReduceFirst, Field: "customer_email"},
		},
		Having: []store.Having{
			{Name: "return_count", Op: store.OpGte, Value: float64(s.cfg.MassReturnMinCount)},
		},
	})
	if err != nil {
		return nil, err
	}

	patterns := make([]Pattern, 0, len(groups))
	for _, g := range groups {
		count := g.Counts["return_count"]
		refund := g.Sums["total_refund"].InexactFloat64()
		patterns = append(patterns, Pattern{
			ID:          uuid.New(),
			CustomerID:  g.Key,
			PatternType: PatternMassReturn,
			Description: fmt.Sprintf("Customer has %d returns in %d days totaling $%.2f",
				count, s.cfg.MassReturnWindowDays, refund),
			Severity:   customer.RiskLevelHigh,
			DetectedAt: time.Now().UTC(),
			Evidence: map[string]interface{}{
				"return_count_7d": count,
				"total_refund_7d": refund,
				"customer_email":  g.Firsts["customer_email"],
			},
		})
	}
	return patterns, nil
}

// detectFraudRings flags groups of customers sharing one shipping address
// with a collectively high return rate
func (s *service) detectFraudRings(ctx context.Context) ([]Pattern, error) {
	groups, err := s.store.Aggregate(ctx, store.Orders, store.Pipeline{
		GroupBy: "shipping_address",
		Reducers: []store.Reducer{
			{Name: "customers", Op: store.ReduceSet, Field: "customer_id"},
			{Name: "customer_emails", Op: store.ReduceSet, Field: "customer_email"},
			{Name: "order_count", Op: store.ReduceCount},
		},
		Having: []store.Having{
			{Name: "customers", Op: store.OpGte, Value: float64(s.cfg.RingMinCustomers)},
		},
	})
	if err != nil {
		return nil, err
	}

	var patterns []Pattern
	for _, g := range groups {
		customers := g.Sets["customers"]
		if len(customers) == 0 {
			continue
		}

		var rateSum float64
		for _, id := range customers {
			filter := store.Filter{}.Where("customer_id", store.OpEq, id)
			returnCount, err := s.store.Count(ctx, store.Returns, filter)
			if err != nil {
				return nil, err
			}
			orderCount, err := s.store.Count(ctx, store.Orders, filter)
			if err != nil {
				return nil, err
			}
			if orderCount > 0 {
				rateSum += float64(returnCount) / float64(orderCount)
			}
		}
		avgReturnRate := rateSum / float64(len(customers))
		if avgReturnRate <= s.cfg.RingMinAvgReturnRate {
			continue
		}

		// The group indicts an address, not a person; the first customer in
		// the set stands in as the nominal subject.
		patterns = append(patterns, Pattern{
			ID:          uuid.New(),
			CustomerID:  customers[0],
			PatternType: PatternFraudRing,
			Description: fmt.Sprintf("Multiple customers (%d) using same address with %.1f%% avg return rate",
				len(customers), avgReturnRate*100),
			Severity:   customer.RiskLevelCritical,
			DetectedAt: time.Now().UTC(),
			Evidence: map[string]interface{}{
				"shared_address":  g.Key,
				"customer_count":  len(customers),
				"avg_return_rate": avgReturnRate,
				"customer_emails": g.Sets["customer_emails"],
			},
		})
	}
	return patterns, nil
}

// detectProductAbuse flags products whose return rate against all orders
// containing them is anomalously high
func (s *service) detectProductAbuse(ctx context.Context) ([]Pattern, error) {
	groups, err := s.store.Aggregate(ctx, store.Returns, store.Pipeline{
		GroupBy: "product_id",
		Reducers: []store.Reducer{
			{Name: "return_count", Op: store.ReduceCount},
			{Name: "product_name", Op: store.ReduceFirst, Field: "product_name"},
			{Name: "customers", Op: store.ReduceSet, Field: "customer_id"},
			{Name: "avg_refund", Op: store.ReduceAvg, Field: "refund_amount"},
		},
		Having: []store.Having{
			{Name: "return_count", Op: store.OpGte, Value: float64(s.cfg.AbuseMinReturns)},
		},
	})
	if err != nil {
		return nil, err
	}

	var patterns []Pattern
	for _, g := range groups {
		// Membership counts every order containing the product as a line
		// item, not only orders where it was the sole item.
		totalOrders, err := s.store.Count(ctx, store.OrderItems,
			store.Filter{}.Where("product_id", store.OpEq, g.Key))
		if err != nil {
			return nil, err
		}
		if totalOrders == 0 {
			continue
		}

		returnCount := g.Counts["return_count"]
		returnRate := float64(returnCount) / float64(totalOrders)
		if returnRate <= s.cfg.AbuseMinReturnRate {
			continue
		}

		patterns = append(patterns, Pattern{
			ID:          uuid.New(),
			CustomerID:  SystemSubject,
			PatternType: PatternProductAbuse,
			Description: fmt.Sprintf("Product '%s' has %.1f%% return rate across %d customers",
				g.Firsts["product_name"], returnRate*100, len(g.Sets["customers"])),
			Severity:   customer.RiskLevelHigh,
			DetectedAt: time.Now().UTC(),
			Evidence: map[string]interface{}{
				"product_id":       g.Key,
				"product_name":     g.Firsts["product_name"],
				"return_rate":      returnRate,
				"return_count":     returnCount,
				"unique_customers": len(g.Sets["customers"]),
				"avg_refund":       g.Avgs["avg_refund"],
			},
		})
	}
	return patterns, nil
}
