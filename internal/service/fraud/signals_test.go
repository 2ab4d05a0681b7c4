package fraud

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/customer"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/order"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/returns"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/values"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/infrastructure/config"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/infrastructure/store"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/metrics"
)

func newTestService(t *testing.T, st Reader) Service {
	t.Helper()
	registry, err := metrics.NewRegistry("fraud-test")
	require.NoError(t, err)
	return NewService(st, config.DefaultFraudConfig(), testLogger(), registry)
}

func deliveredOrder(customerID uuid.UUID, email string, amount float64, orderDate time.Time, deliveredAt *time.Time) *order.Order {
	return &order.Order{
		ID:            uuid.New(),
		CustomerID:    customerID,
		CustomerEmail: email,
		Items: []order.Item{{
			ProductID:   uuid.New(),
			ProductName: "Widget",
			Quantity:    1,
			UnitPrice:   values.MustNewMoneyFromFloat(amount),
			TotalPrice:  values.MustNewMoneyFromFloat(amount),
		}},
		TotalAmount:     values.MustNewMoneyFromFloat(amount),
		OrderDate:       orderDate,
		Status:          order.StatusDelivered,
		ShippingAddress: "1 Main St",
		PaymentMethod:   "credit_card",
		CreatedAt:       orderDate,
		UpdatedAt:       deliveredAt,
	}
}

func returnFor(o *order.Order, reason returns.Reason, amount float64, returnDate time.Time) *returns.Return {
	return &returns.Return{
		ID:               uuid.New(),
		OrderID:          o.ID,
		CustomerID:       o.CustomerID,
		CustomerEmail:    o.CustomerEmail,
		ProductID:        o.Items[0].ProductID,
		ProductName:      o.Items[0].ProductName,
		QuantityReturned: 1,
		Reason:           reason,
		ReturnDate:       returnDate,
		RefundAmount:     values.MustNewMoneyFromFloat(amount),
		CreatedAt:        returnDate,
	}
}

func TestExtractSignalsNoOrders(t *testing.T) {
	m := store.NewMemory()
	svc := newTestService(t, m)

	bundle, err := svc.ExtractSignals(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, bundle)
}

func TestCalculateFraudScoreNoOrders(t *testing.T) {
	m := store.NewMemory()
	svc := newTestService(t, m)

	result, err := svc.CalculateFraudScore(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Score)
	assert.Empty(t, result.Indicators)
	assert.Equal(t, customer.RiskLevelLow, result.RiskLevel)
}

func TestExtractSignalsBasics(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	customerID := uuid.New()
	now := time.Now()

	var orders []*order.Order
	for i := 0; i < 4; i++ {
		orders = append(orders, deliveredOrder(customerID, "sig@example.com", 100,
			now.AddDate(0, 0, -10-i), nil))
	}
	require.NoError(t, m.InsertOrders(ctx, orders))
	require.NoError(t, m.InsertReturns(ctx, []*returns.Return{
		returnFor(orders[0], returns.ReasonChangedMind, 50, now.AddDate(0, 0, -5)),
		returnFor(orders[1], returns.ReasonDefective, 150, now.AddDate(0, 0, -40)),
	}))

	svc := newTestService(t, m)
	bundle, err := svc.ExtractSignals(ctx, customerID)
	require.NoError(t, err)
	require.NotNil(t, bundle)

	assert.Equal(t, 4, bundle.TotalOrders)
	assert.Equal(t, 2, bundle.TotalReturns)
	assert.InDelta(t, 0.5, bundle.ReturnRate, 0.0001)
	assert.Equal(t, 1, bundle.RecentReturns30d)
	assert.InDelta(t, 100, bundle.AvgReturnValue, 0.0001)
	assert.Equal(t, 1, bundle.SuspiciousReasonCount)
}

func TestRapidReturnBoundary(t *testing.T) {
	customerID := uuid.New()
	orderDate := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	delivered := time.Date(2026, 5, 3, 12, 0, 0, 0, time.UTC)
	now := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		status     order.Status
		updatedAt  *time.Time
		returnDate time.Time
		wantRapid  int
	}{
		{
			name:       "exactly 24h after delivery counts",
			status:     order.StatusDelivered,
			updatedAt:  &delivered,
			returnDate: delivered.Add(24 * time.Hour),
			wantRapid:  1,
		},
		{
			name:       "one second past 24h does not count",
			status:     order.StatusDelivered,
			updatedAt:  &delivered,
			returnDate: delivered.Add(24*time.Hour + time.Second),
			wantRapid:  0,
		},
		{
			name:       "no update timestamp falls back to order date",
			status:     order.StatusDelivered,
			updatedAt:  nil,
			returnDate: orderDate.Add(12 * time.Hour),
			wantRapid:  1,
		},
		{
			name:       "undelivered order never counts",
			status:     order.StatusShipped,
			updatedAt:  &delivered,
			returnDate: delivered.Add(time.Hour),
			wantRapid:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := deliveredOrder(customerID, "rapid@example.com", 100, orderDate, tt.updatedAt)
			o.Status = tt.status
			r := returnFor(o, returns.ReasonDefective, 50, tt.returnDate)

			bundle := buildSignalBundle([]*order.Order{o}, []*returns.Return{r}, now)
			assert.Equal(t, tt.wantRapid, bundle.RapidReturnCount)
		})
	}
}
