package fraud

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/customer"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/order"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/returns"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/infrastructure/store"
)

func patternsOfType(patterns []Pattern, patternType string) []Pattern {
	var out []Pattern
	for _, p := range patterns {
		if p.PatternType == patternType {
			out = append(out, p)
		}
	}
	return out
}

func TestMassReturnDetector(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	now := time.Now()

	// Three returns inside the window fires
	heavy := uuid.New()
	var heavyOrders []*order.Order
	for i := 0; i < 3; i++ {
		heavyOrders = append(heavyOrders, deliveredOrder(heavy, "heavy@example.com", 100,
			now.AddDate(0, 0, -20), nil))
	}
	require.NoError(t, m.InsertOrders(ctx, heavyOrders))
	for i, o := range heavyOrders {
		require.NoError(t, m.InsertReturns(ctx, []*returns.Return{
			returnFor(o, returns.ReasonDefective, 100, now.AddDate(0, 0, -i-1)),
		}))
	}

	// Two returns inside the window stays quiet
	light := uuid.New()
	var lightOrders []*order.Order
	for i := 0; i < 2; i++ {
		lightOrders = append(lightOrders, deliveredOrder(light, "light@example.com", 100,
			now.AddDate(0, 0, -20), nil))
	}
	require.NoError(t, m.InsertOrders(ctx, lightOrders))
	for i, o := range lightOrders {
		require.NoError(t, m.InsertReturns(ctx, []*returns.Return{
			returnFor(o, returns.ReasonDefective, 100, now.AddDate(0, 0, -i-1)),
		}))
	}

	svc := newTestService(t, m)
	patterns, err := svc.DetectAnomalies(ctx)
	require.NoError(t, err)

	mass := patternsOfType(patterns, PatternMassReturn)
	require.Len(t, mass, 1)
	assert.Equal(t, heavy.String(), mass[0].CustomerID)
	assert.Equal(t, customer.RiskLevelHigh, mass[0].Severity)
	assert.EqualValues(t, 3, mass[0].Evidence["return_count_7d"])
	assert.InDelta(t, 300.0, mass[0].Evidence["total_refund_7d"].(float64), 0.01)
	assert.Equal(t, "heavy@example.com", mass[0].Evidence["customer_email"])
}

func TestMassReturnDetectorIgnoresOldReturns(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	now := time.Now()

	customerID := uuid.New()
	var orders []*order.Order
	for i := 0; i < 3; i++ {
		orders = append(orders, deliveredOrder(customerID, "old@example.com", 100,
			now.AddDate(0, 0, -60), nil))
	}
	require.NoError(t, m.InsertOrders(ctx, orders))
	for _, o := range orders {
		require.NoError(t, m.InsertReturns(ctx, []*returns.Return{
			returnFor(o, returns.ReasonDefective, 100, now.AddDate(0, 0, -30)),
		}))
	}

	svc := newTestService(t, m)
	patterns, err := svc.DetectAnomalies(ctx)
	require.NoError(t, err)
	assert.Empty(t, patternsOfType(patterns, PatternMassReturn))
}

func TestFraudRingDetector(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	now := time.Now()

	// Three customers share one address, each returning everything they buy
	sharedAddress := "500 Collusion Ct"
	var ringIDs []uuid.UUID
	for i := 0; i < 3; i++ {
		id := uuid.New()
		ringIDs = append(ringIDs, id)
		o := deliveredOrder(id, fmt.Sprintf("ring%d@example.com", i), 200,
			now.AddDate(0, 0, -15), nil)
		o.ShippingAddress = sharedAddress
		require.NoError(t, m.InsertOrders(ctx, []*order.Order{o}))
		require.NoError(t, m.InsertReturns(ctx, []*returns.Return{
			returnFor(o, returns.ReasonNotAsDescribed, 200, now.AddDate(0, 0, -14)),
		}))
	}

	// Two customers sharing another address never qualify
	pairAddress := "12 Modest St"
	for i := 0; i < 2; i++ {
		o := deliveredOrder(uuid.New(), fmt.Sprintf("pair%d@example.com", i), 200,
			now.AddDate(0, 0, -15), nil)
		o.ShippingAddress = pairAddress
		require.NoError(t, m.InsertOrders(ctx, []*order.Order{o}))
		require.NoError(t, m.InsertReturns(ctx, []*returns.Return{
			returnFor(o, returns.ReasonNotAsDescribed, 200, now.AddDate(0, 0, -14)),
		}))
	}

	svc := newTestService(t, m)
	patterns, err := svc.DetectAnomalies(ctx)
	require.NoError(t, err)

	rings := patternsOfType(patterns, PatternFraudRing)
	require.Len(t, rings, 1)
	assert.Equal(t, customer.RiskLevelCritical, rings[0].Severity)
	assert.Equal(t, ringIDs[0].String(), rings[0].CustomerID)
	assert.Equal(t, sharedAddress, rings[0].Evidence["shared_address"])
	assert.Equal(t, 3, rings[0].Evidence["customer_count"])
	assert.InDelta(t, 1.0, rings[0].Evidence["avg_return_rate"].(float64), 0.0001)
}

func TestFraudRingDetectorLowReturnRate(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	now := time.Now()

	// Three flatmates sharing an address with no returns at all
	sharedAddress := "77 Honest House"
	for i := 0; i < 3; i++ {
		o := deliveredOrder(uuid.New(), fmt.Sprintf("flat%d@example.com", i), 100,
			now.AddDate(0, 0, -10), nil)
		o.ShippingAddress = sharedAddress
		require.NoError(t, m.InsertOrders(ctx, []*order.Order{o}))
	}

	svc := newTestService(t, m)
	patterns, err := svc.DetectAnomalies(ctx)
	require.NoError(t, err)
	assert.Empty(t, patternsOfType(patterns, PatternFraudRing))
}

func TestProductAbuseDetector(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	now := time.Now()

	productID := uuid.New()

	// Ten orders include the product; five come back
	for i := 0; i < 10; i++ {
		o := deliveredOrder(uuid.New(), fmt.Sprintf("buyer%d@example.com", i), 80,
			now.AddDate(0, 0, -20), nil)
		o.Items[0].ProductID = productID
		o.Items[0].ProductName = "Suspicious Gadget"
		require.NoError(t, m.InsertOrders(ctx, []*order.Order{o}))
		if i < 5 {
			require.NoError(t, m.InsertReturns(ctx, []*returns.Return{
				returnFor(o, returns.ReasonDefective, 80, now.AddDate(0, 0, -10)),
			}))
		}
	}

	svc := newTestService(t, m)
	patterns, err := svc.DetectAnomalies(ctx)
	require.NoError(t, err)

	abuse := patternsOfType(patterns, PatternProductAbuse)
	require.Len(t, abuse, 1)
	assert.Equal(t, SystemSubject, abuse[0].CustomerID)
	assert.Equal(t, customer.RiskLevelHigh, abuse[0].Severity)
	assert.Equal(t, productID.String(), abuse[0].Evidence["product_id"])
	assert.Equal(t, "Suspicious Gadget", abuse[0].Evidence["product_name"])
	assert.InDelta(t, 0.5, abuse[0].Evidence["return_rate"].(float64), 0.0001)
	assert.Equal(t, 5, abuse[0].Evidence["unique_customers"])
}

func TestProductAbuseDetectorRateTooLow(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	now := time.Now()

	productID := uuid.New()

	// Five returns, but across twenty orders the rate stays under 40%
	for i := 0; i < 20; i++ {
		o := deliveredOrder(uuid.New(), fmt.Sprintf("ok%d@example.com", i), 80,
			now.AddDate(0, 0, -20), nil)
		o.Items[0].ProductID = productID
		require.NoError(t, m.InsertOrders(ctx, []*order.Order{o}))
		if i < 5 {
			require.NoError(t, m.InsertReturns(ctx, []*returns.Return{
				returnFor(o, returns.ReasonDefective, 80, now.AddDate(0, 0, -10)),
			}))
		}
	}

	svc := newTestService(t, m)
	patterns, err := svc.DetectAnomalies(ctx)
	require.NoError(t, err)
	assert.Empty(t, patternsOfType(patterns, PatternProductAbuse))
}
