package analytics

import (
	"context"
	"encoding/csv"
	"bytes"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/customer"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/errors"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/order"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/refund"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/returns"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/values"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/infrastructure/config"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/infrastructure/store"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/metrics"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/service/fraud"
)

func newTestService(t *testing.T, m *store.Memory) Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry, err := metrics.NewRegistry("analytics-test")
	require.NoError(t, err)
	fraudCfg := config.DefaultFraudConfig()
	fraudSvc := fraud.NewService(m, fraudCfg, logger, registry)
	return NewService(m, fraudSvc, fraudCfg,
		config.AnalyticsConfig{ProfileWorkers: 4, ExportMaxRecords: 10000},
		logger, registry)
}

func seedCustomer(t *testing.T, m *store.Memory, email string) *customer.Customer {
	t.Helper()
	c, err := customer.NewCustomer(email, "Test", "Customer")
	require.NoError(t, err)
	require.NoError(t, m.InsertCustomers(context.Background(), []*customer.Customer{c}))
	return c
}

func seedOrder(t *testing.T, m *store.Memory, c *customer.Customer, amount float64, when time.Time) *order.Order {
	t.Helper()
	o := &order.Order{
		ID:            uuid.New(),
		CustomerID:    c.ID,
		CustomerEmail: c.Email,
		Items: []order.Item{{
			ProductID:   uuid.New(),
			ProductName: "Widget",
			Quantity:    1,
			UnitPrice:   values.MustNewMoneyFromFloat(amount),
			TotalPrice:  values.MustNewMoneyFromFloat(amount),
		}},
		TotalAmount:     values.MustNewMoneyFromFloat(amount),
		OrderDate:       when,
		Status:          order.StatusDelivered,
		ShippingAddress: "1 Main St",
		PaymentMethod:   "credit_card",
		CreatedAt:       when,
	}
	require.NoError(t, m.InsertOrders(context.Background(), []*order.Order{o}))
	return o
}

func seedReturn(t *testing.T, m *store.Memory, o *order.Order, reason returns.Reason, amount float64, when time.Time, fraudSuspected bool) *returns.Return {
	t.Helper()
	r := &returns.Return{
		ID:               uuid.New(),
		OrderID:          o.ID,
		CustomerID:       o.CustomerID,
		CustomerEmail:    o.CustomerEmail,
		ProductID:        o.Items[0].ProductID,
		ProductName:      o.Items[0].ProductName,
		QuantityReturned: 1,
		Reason:           reason,
		ReturnDate:       when,
		RefundAmount:     values.MustNewMoneyFromFloat(amount),
		IsFraudSuspected: fraudSuspected,
		CreatedAt:        when,
	}
	require.NoError(t, m.InsertReturns(context.Background(), []*returns.Return{r}))
	return r
}

func seedProcessedRefund(t *testing.T, m *store.Memory, r *returns.Return, amount float64, days int) {
	t.Helper()
	processed := r.ReturnDate.AddDate(0, 0, days)
	m2 := &refund.Refund{
		ID:                 uuid.New(),
		ReturnID:           r.ID,
		OrderID:            r.OrderID,
		CustomerID:         r.CustomerID,
		Amount:             values.MustNewMoneyFromFloat(amount),
		Status:             refund.StatusProcessed,
		RequestedDate:      r.ReturnDate,
		ProcessedDate:      &processed,
		ProcessingTimeDays: &days,
		RefundMethod:       "original_payment",
		CreatedAt:          r.ReturnDate,
	}
	require.NoError(t, m.InsertRefunds(context.Background(), []*refund.Refund{m2}))
}

func TestDashboardMetrics(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	now := time.Now()

	c := seedCustomer(t, m, "dash@example.com")
	o1 := seedOrder(t, m, c, 100, now.AddDate(0, 0, -10))
	o2 := seedOrder(t, m, c, 300, now.AddDate(0, 0, -5))
	seedOrder(t, m, c, 200, now.AddDate(0, 0, -3))
	seedOrder(t, m, c, 400, now.AddDate(0, 0, -1))

	r1 := seedReturn(t, m, o1, returns.ReasonDefective, 100, now.AddDate(0, 0, -8), true)
	seedReturn(t, m, o2, returns.ReasonChangedMind, 300, now.AddDate(0, 0, -4), false)
	seedProcessedRefund(t, m, r1, 100, 3)

	svc := newTestService(t, m)
	got, err := svc.DashboardMetrics(ctx, DateFilter{})
	require.NoError(t, err)

	assert.Equal(t, int64(4), got.TotalOrders)
	assert.Equal(t, int64(2), got.TotalReturns)
	assert.Equal(t, int64(1), got.TotalRefunds)
	assert.InDelta(t, 0.5, got.OverallReturnRate, 0.0001)
	assert.InDelta(t, 0.5, got.FraudDetectionRate, 0.0001)
	assert.InDelta(t, 3.0, got.AvgProcessingTime, 0.0001)
	assert.InDelta(t, 1000.0, got.TotalRevenue, 0.01)
	assert.InDelta(t, 100.0, got.TotalRefundAmount, 0.01)
	assert.Equal(t, int64(1), got.TopReturnReasons["defective"])
	assert.Equal(t, int64(1), got.TopReturnReasons["changed_mind"])
	assert.Empty(t, got.DateRange)
}

func TestDashboardMetricsEmptyStore(t *testing.T) {
	m := store.NewMemory()
	svc := newTestService(t, m)

	got, err := svc.DashboardMetrics(context.Background(), DateFilter{})
	require.NoError(t, err)
	assert.Zero(t, got.TotalOrders)
	assert.Zero(t, got.OverallReturnRate)
	assert.Zero(t, got.FraudDetectionRate)
	assert.Zero(t, got.AvgProcessingTime)
}

func TestDashboardMetricsDateFilter(t *testing.T) {
	m := store.NewMemory()
	now := time.Now()
	c := seedCustomer(t, m, "window@example.com")
	seedOrder(t, m, c, 100, now.AddDate(0, 0, -60))
	seedOrder(t, m, c, 200, now.AddDate(0, 0, -5))

	start := now.AddDate(0, 0, -30)
	end := now
	svc := newTestService(t, m)
	got, err := svc.DashboardMetrics(context.Background(), DateFilter{Start: &start, End: &end})
	require.NoError(t, err)

	assert.Equal(t, int64(1), got.TotalOrders)
	assert.InDelta(t, 200.0, got.TotalRevenue, 0.01)
	assert.Equal(t, start.Format("2006-01-02"), got.DateRange["start_date"])
}

func TestCustomerRiskProfilesRanked(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	now := time.Now()

	// Risky: 10 orders, 4 returns with suspicious reasons and high values
	risky := seedCustomer(t, m, "risky@example.com")
	var riskyOrders []*order.Order
	for i := 0; i < 10; i++ {
		riskyOrders = append(riskyOrders, seedOrder(t, m, risky, 600, now.AddDate(0, 0, -i-31)))
	}
	for i := 0; i < 4; i++ {
		seedReturn(t, m, riskyOrders[i], returns.ReasonChangedMind, 600, now.AddDate(0, 0, -i-1), false)
	}

	// Clean: 10 orders, no returns
	clean := seedCustomer(t, m, "clean@example.com")
	for i := 0; i < 10; i++ {
		seedOrder(t, m, clean, 50, now.AddDate(0, 0, -i-1))
	}

	// No orders at all
	empty := seedCustomer(t, m, "empty@example.com")

	svc := newTestService(t, m)
	profiles, err := svc.CustomerRiskProfiles(ctx, 100)
	require.NoError(t, err)
	require.Len(t, profiles, 3)

	assert.Equal(t, risky.ID.String(), profiles[0].CustomerID)
	assert.Greater(t, profiles[0].RiskScore, 0.0)
	assert.NotEmpty(t, profiles[0].SuspiciousPatterns)
	assert.Equal(t, RecommendationFor(profiles[0].RiskLevel), profiles[0].Recommendation)

	for _, p := range profiles[1:] {
		assert.LessOrEqual(t, p.RiskScore, profiles[0].RiskScore)
		assert.Equal(t, 0.0, p.RiskScore)
		assert.Equal(t, customer.RiskLevelLow, p.RiskLevel)
		assert.Equal(t, RecommendationLow, p.Recommendation)
	}

	_ = empty
}

func TestTrendAnalysis(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	now := time.Now().UTC()

	c := seedCustomer(t, m, "trend@example.com")
	dayOld := now.AddDate(0, 0, -5)
	dayNew := now.AddDate(0, 0, -1)

	o1 := seedOrder(t, m, c, 100, dayOld.AddDate(0, 0, -1))
	o2 := seedOrder(t, m, c, 100, dayNew.AddDate(0, 0, -1))
	o3 := seedOrder(t, m, c, 100, dayNew.AddDate(0, 0, -1))
	seedReturn(t, m, o1, returns.ReasonDefective, 100, dayOld, false)
	seedReturn(t, m, o2, returns.ReasonDefective, 100, dayNew, true)
	seedReturn(t, m, o3, returns.ReasonDefective, 100, dayNew, false)

	svc := newTestService(t, m)
	got, err := svc.TrendAnalysis(ctx, 30)
	require.NoError(t, err)

	require.Len(t, got.DailyTrends, 2)
	assert.Equal(t, dayOld.Format("2006-01-02"), got.DailyTrends[0].Date)
	assert.Equal(t, int64(1), got.DailyTrends[0].ReturnCount)
	assert.Equal(t, int64(2), got.DailyTrends[1].ReturnCount)
	assert.Equal(t, TrendIncreasing, got.ReturnTrend)
	assert.Equal(t, TrendIncreasing, got.FraudTrend)
	assert.InDelta(t, 1.5, got.AvgDailyReturns, 0.0001)
	assert.InDelta(t, 0.5, got.AvgDailyFraud, 0.0001)
}

func TestTrendAnalysisEmptyWindow(t *testing.T) {
	m := store.NewMemory()
	svc := newTestService(t, m)

	got, err := svc.TrendAnalysis(context.Background(), 30)
	require.NoError(t, err)
	assert.Empty(t, got.DailyTrends)
	assert.Equal(t, TrendStable, got.ReturnTrend)
	assert.Equal(t, TrendStable, got.FraudTrend)
	assert.Zero(t, got.AvgDailyReturns)
}

func TestTrendAnalysisEqualCountsStable(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	now := time.Now().UTC()
	c := seedCustomer(t, m, "flat@example.com")

	for _, day := range []time.Time{now.AddDate(0, 0, -5), now.AddDate(0, 0, -1)} {
		o := seedOrder(t, m, c, 100, day.AddDate(0, 0, -1))
		seedReturn(t, m, o, returns.ReasonDefective, 100, day, false)
	}

	svc := newTestService(t, m)
	got, err := svc.TrendAnalysis(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, TrendStable, got.ReturnTrend)
}

func TestRefreshCustomerRiskScores(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	now := time.Now()

	c := seedCustomer(t, m, "refresh@example.com")
	var orders []*order.Order
	for i := 0; i < 10; i++ {
		orders = append(orders, seedOrder(t, m, c, 600, now.AddDate(0, 0, -i-31)))
	}
	for i := 0; i < 4; i++ {
		seedReturn(t, m, orders[i], returns.ReasonChangedMind, 600, now.AddDate(0, 0, -i-1), false)
	}
	idle := seedCustomer(t, m, "idle@example.com")

	svc := newTestService(t, m)
	updated, err := svc.RefreshCustomerRiskScores(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	got, err := m.ListCustomers(ctx, store.Filter{}.Where("id", store.OpEq, c.ID), 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 10, got[0].TotalOrders)
	assert.Equal(t, 4, got[0].TotalReturns)
	assert.InDelta(t, 0.4, got[0].ReturnRate, 0.0001)
	assert.Greater(t, got[0].FraudScore, 0.0)
	assert.NotEqual(t, customer.RiskLevelLow, got[0].RiskLevel)

	gotIdle, err := m.ListCustomers(ctx, store.Filter{}.Where("id", store.OpEq, idle.ID), 1)
	require.NoError(t, err)
	require.Len(t, gotIdle, 1)
	assert.Equal(t, customer.RiskLevelLow, gotIdle[0].RiskLevel)
	assert.Zero(t, gotIdle[0].FraudScore)
}

func TestExportCSV(t *testing.T) {
	m := store.NewMemory()
	now := time.Now()
	c := seedCustomer(t, m, "csv@example.com")
	o := seedOrder(t, m, c, 100, now.AddDate(0, 0, -2))
	seedReturn(t, m, o, returns.ReasonDefective, 100, now.AddDate(0, 0, -1), false)

	svc := newTestService(t, m)
	got, err := svc.Export(context.Background(), ExportRequest{Format: ExportCSV, DataType: "returns"})
	require.NoError(t, err)

	assert.Equal(t, 1, got.RecordCount)
	assert.Equal(t, "text/csv", got.ContentType)
	assert.Contains(t, got.FileName, "returns_export_")

	records, err := csv.NewReader(bytes.NewReader(got.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "id", records[0][0])
	assert.Equal(t, "defective", records[1][4])
}

func TestExportJSON(t *testing.T) {
	m := store.NewMemory()
	c := seedCustomer(t, m, "json@example.com")
	_ = c

	svc := newTestService(t, m)
	got, err := svc.Export(context.Background(), ExportRequest{Format: ExportJSON, DataType: "customers"})
	require.NoError(t, err)

	assert.Equal(t, 1, got.RecordCount)
	assert.Equal(t, "application/json", got.ContentType)
	assert.Contains(t, string(got.Data), "json@example.com")
}

func TestExportUnknownDataType(t *testing.T) {
	m := store.NewMemory()
	svc := newTestService(t, m)

	_, err := svc.Export(context.Background(), ExportRequest{Format: ExportCSV, DataType: "sellers"})
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
}

func TestExportUnknownFormat(t *testing.T) {
	m := store.NewMemory()
	svc := newTestService(t, m)

	_, err := svc.Export(context.Background(), ExportRequest{Format: "excel", DataType: "orders"})
	require.Error(t, err)
}
