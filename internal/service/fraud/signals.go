package fraud

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/order"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/returns"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/infrastructure/store"
)

// ExtractSignals implements Service
func (s *service) ExtractSignals(ctx context.Context, customerID uuid.UUID) (*SignalBundle, error) {
	filter := store.Filter{}.Where("customer_id", store.OpEq, customerID)

	orders, err := s.store.ListOrders(ctx, filter, s.cfg.SignalFetchLimit)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}

	rets, err := s.store.ListReturns(ctx, filter, s.cfg.SignalFetchLimit)
	if err != nil {
		return nil, err
	}

	return buildSignalBundle(orders, rets, time.Now()), nil
}

// buildSignalBundle computes the bundle from raw records. Pure; the clock
// is passed in so the 30-day window is testable.
func buildSignalBundle(orders []*order.Order, rets []*returns.Return, now time.Time) *SignalBundle {
	bundle := &SignalBundle{
		TotalOrders:   len(orders),
		TotalReturns:  len(rets),
		ReturnReasons: make(map[returns.Reason]int),
	}
	bundle.ReturnRate = float64(bundle.TotalReturns) / float64(bundle.TotalOrders)

	ordersByID := make(map[uuid.UUID]*order.Order, len(orders))
	for _, o := range orders {
		ordersByID[o.ID] = o
	}

	windowStart := now.AddDate(0, 0, -RecentReturnWindowDays)
	var refundTotal float64

	for _, r := range rets {
		if !r.ReturnDate.Before(windowStart) {
			bundle.RecentReturns30d++
		}
		refundTotal += r.RefundAmount.Float64()
		bundle.ReturnReasons[r.Reason]++

		// Rapid return: the order was delivered and the return landed within
		// 24h of the delivery timestamp. The last status update stands in
		// for the delivery time; orders never updated fall back to the
		// order date.
		if o, ok := ordersByID[r.OrderID]; ok && o.Status == order.StatusDelivered {
			deadline := o.DeliveryTime().Add(RapidReturnWindowHours * time.Hour)
			if !r.ReturnDate.After(deadline) {
				bundle.RapidReturnCount++
			}
		}
	}

	if bundle.TotalReturns > 0 {
		bundle.AvgReturnValue = refundTotal / float64(bundle.TotalReturns)
	}

	bundle.SuspiciousReasonCount = bundle.ReturnReasons[returns.ReasonChangedMind] +
		bundle.ReturnReasons[returns.ReasonNotAsDescribed]

	return bundle
}
