package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/customer"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/order"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/product"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/refund"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/returns"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/values"
)

// Memory is an in-process Store implementing the same contract as the
// Postgres gateway. It backs the engine tests and the seed tool's dry runs.
type Memory struct {
	mu        sync.RWMutex
	customers []*customer.Customer
	products  []*product.Product
	orders    []*order.Order
	returns   []*returns.Return
	refunds   []*refund.Refund
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{}
}

var _ Store = (*Memory)(nil)

// record is one generic row with named fields
type record map[string]interface{}

func (m *Memory) collect(c Collection) ([]record, error) {
	switch c {
	case Customers:
		recs := make([]record, 0, len(m.customers))
		for _, v := range m.customers {
			recs = append(recs, record{
				"id":                v.ID,
				"email":             v.Email,
				"risk_level":        v.RiskLevel,
				"return_rate":       v.ReturnRate,
				"fraud_score":       v.FraudScore,
				"is_blacklisted":    v.IsBlacklisted,
				"registration_date": v.RegistrationDate,
				"created_at":        v.CreatedAt,
			})
		}
		return recs, nil
	case Products:
		recs := make([]record, 0, len(m.products))
		for _, v := range m.products {
			recs = append(recs, record{
				"id":       v.ID,
				"name":     v.Name,
				"category": v.Category,
				"price":    v.Price,
			})
		}
		return recs, nil
	case Orders:
		recs := make([]record, 0, len(m.orders))
		for _, v := range m.orders {
			recs = append(recs, record{
				"id":               v.ID,
				"customer_id":      v.CustomerID,
				"customer_email":   v.CustomerEmail,
				"total_amount":     v.TotalAmount,
				"order_date":       v.OrderDate,
				"status":           v.Status,
				"shipping_address": v.ShippingAddress,
				"created_at":       v.CreatedAt,
			})
		}
		return recs, nil
	case OrderItems:
		var recs []record
		for _, o := range m.orders {
			for _, item := range o.Items {
				recs = append(recs, record{
					"order_id":    o.ID,
					"customer_id": o.CustomerID,
					"product_id":  item.ProductID,
					"quantity":    item.Quantity,
					"total_price": item.TotalPrice,
				})
			}
		}
		return recs, nil
	case Returns:
		recs := make([]record, 0, len(m.returns))
		for _, v := range m.returns {
			recs = append(recs, record{
				"id":                   v.ID,
				"order_id":             v.OrderID,
				"customer_id":          v.CustomerID,
				"customer_email":       v.CustomerEmail,
				"product_id":           v.ProductID,
				"product_name":         v.ProductName,
				"reason":               v.Reason,
				"return_date":          v.ReturnDate,
				"refund_amount":        v.RefundAmount,
				"is_fraud_suspected":   v.IsFraudSuspected,
				"processing_time_days": v.ProcessingTimeDays,
			})
		}
		return recs, nil
	case Refunds:
		recs := make([]record, 0, len(m.refunds))
		for _, v := range m.refunds {
			rec := record{
				"id":             v.ID,
				"return_id":      v.ReturnID,
				"order_id":       v.OrderID,
				"customer_id":    v.CustomerID,
				"amount":         v.Amount,
				"status":         v.Status,
				"requested_date": v.RequestedDate,
			}
			if v.ProcessedDate != nil {
				rec["processed_date"] = *v.ProcessedDate
			}
			if v.ProcessingTimeDays != nil {
				rec["processing_time_days"] = *v.ProcessingTimeDays
			}
			recs = append(recs, rec)
		}
		return recs, nil
	default:
		return nil, fmt.Errorf("unknown collection: %q", c)
	}
}

func matches(rec record, f Filter) bool {
	for _, cond := range f.Conditions {
		val, ok := rec[cond.Field]
		if !ok {
			return false
		}
		if !compare(val, cond.Op, cond.Value) {
			return false
		}
	}
	return true
}

func compare(recVal interface{}, op Op, condVal interface{}) bool {
	if rt, ok := asTime(recVal); ok {
		ct, ok := asTime(condVal)
		if !ok {
			return false
		}
		switch op {
		case OpEq:
			return rt.Equal(ct)
		case OpGt:
			return rt.After(ct)
		case OpGte:
			return !rt.Before(ct)
		case OpLt:
			return rt.Before(ct)
		case OpLte:
			return !rt.After(ct)
		}
		return false
	}

	if rb, ok := recVal.(bool); ok {
		cb, ok := condVal.(bool)
		return ok && op == OpEq && rb == cb
	}

	if rf, ok := asFloat(recVal); ok {
		cf, ok := asFloat(condVal)
		if !ok {
			return false
		}
		switch op {
		case OpEq:
			return rf == cf
		case OpGt:
			return rf > cf
		case OpGte:
			return rf >= cf
		case OpLt:
			return rf < cf
		case OpLte:
			return rf <= cf
		}
		return false
	}

	return op == OpEq && asString(recVal) == asString(condVal)
}

func asTime(v interface{}) (time.Time, bool) {
	t, ok := v.(time.Time)
	return t, ok
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case values.Money:
		return n.Float64(), true
	case decimal.Decimal:
		return n.InexactFloat64(), true
	default:
		return 0, false
	}
}

func asString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func asDecimal(v interface{}) decimal.Decimal {
	switch n := v.(type) {
	case values.Money:
		return n.Amount()
	case decimal.Decimal:
		return n
	case float64:
		return decimal.NewFromFloat(n)
	case int:
		return decimal.NewFromInt(int64(n))
	case int64:
		return decimal.NewFromInt(n)
	default:
		return decimal.Zero
	}
}

// Count implements Reader
func (m *Memory) Count(ctx context.Context, c Collection, f Filter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	recs, err := m.collect(c)
	if err != nil {
		return 0, err
	}

	var n int64
	for _, rec := range recs {
		if matches(rec, f) {
			n++
		}
	}
	return n, nil
}

// Aggregate implements Reader
func (m *Memory) Aggregate(ctx context.Context, c Collection, p Pipeline) ([]*Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	recs, err := m.collect(c)
	if err != nil {
		return nil, err
	}
	if p.GroupBy == "" {
		return nil, fmt.Errorf("pipeline requires a group-by field")
	}

	type accumulator struct {
		group    *Group
		avgSums  map[string]float64
		avgCount map[string]int64
		seen     map[string]map[string]bool
	}

	accs := make(map[string]*accumulator)
	var keys []string

	for _, rec := range recs {
		if !matches(rec, p.Match) {
			continue
		}

		raw, ok := rec[p.GroupBy]
		if !ok {
			continue
		}
		var key string
		if p.Bucket == BucketDay {
			t, ok := asTime(raw)
			if !ok {
				return nil, fmt.Errorf("field %q is not a timestamp", p.GroupBy)
			}
			key = t.UTC().Format("2006-01-02")
		} else {
			key = asString(raw)
		}

		acc, ok := accs[key]
		if !ok {
			acc = &accumulator{
				group:    newGroup(key),
				avgSums:  make(map[string]float64),
				avgCount: make(map[string]int64),
				seen:     make(map[string]map[string]bool),
			}
			accs[key] = acc
			keys = append(keys, key)
		}

		for _, r := range p.Reducers {
			switch r.Op {
			case ReduceCount:
				acc.group.Counts[r.Name]++
			case ReduceSum:
				acc.group.Sums[r.Name] = acc.group.Sums[r.Name].Add(asDecimal(rec[r.Field]))
			case ReduceAvg:
				if v, ok := asFloat(rec[r.Field]); ok {
					acc.avgSums[r.Name] += v
					acc.avgCount[r.Name]++
				}
			case ReduceFirst:
				if _, ok := acc.group.Firsts[r.Name]; !ok {
					acc.group.Firsts[r.Name] = asString(rec[r.Field])
				}
			case ReduceSet:
				v := asString(rec[r.Field])
				if acc.seen[r.Name] == nil {
					acc.seen[r.Name] = make(map[string]bool)
				}
				if !acc.seen[r.Name][v] {
					acc.seen[r.Name][v] = true
					acc.group.Sets[r.Name] = append(acc.group.Sets[r.Name], v)
				}
			case ReduceCountIf:
				if b, ok := rec[r.Field].(bool); ok && b {
					acc.group.Counts[r.Name]++
				} else if _, ok := acc.group.Counts[r.Name]; !ok {
					acc.group.Counts[r.Name] = 0
				}
			default:
				return nil, fmt.Errorf("unknown reducer op: %q", r.Op)
			}
		}
	}

	groups := make([]*Group, 0, len(keys))
	for _, key := range keys {
		acc := accs[key]
		for name, sum := range acc.avgSums {
			if n := acc.avgCount[name]; n > 0 {
				acc.group.Avgs[name] = sum / float64(n)
			}
		}
		if keepGroup(acc.group, p.Having) {
			groups = append(groups, acc.group)
		}
	}

	if p.SortBy != "" {
		sort.SliceStable(groups, func(i, j int) bool {
			a, b := groups[i].numericValue(p.SortBy), groups[j].numericValue(p.SortBy)
			if p.SortDesc {
				return a > b
			}
			return a < b
		})
	} else {
		// Deterministic output for the tests: key order
		sort.SliceStable(groups, func(i, j int) bool {
			return strings.Compare(groups[i].Key, groups[j].Key) < 0
		})
	}

	if p.Limit > 0 && len(groups) > p.Limit {
		groups = groups[:p.Limit]
	}
	return groups, nil
}

func keepGroup(g *Group, having []Having) bool {
	for _, h := range having {
		v := g.numericValue(h.Name)
		switch h.Op {
		case OpEq:
			if v != h.Value {
				return false
			}
		case OpGt:
			if !(v > h.Value) {
				return false
			}
		case OpGte:
			if !(v >= h.Value) {
				return false
			}
		case OpLt:
			if !(v < h.Value) {
				return false
			}
		case OpLte:
			if !(v <= h.Value) {
				return false
			}
		}
	}
	return true
}

// ListCustomers implements Reader
func (m *Memory) ListCustomers(ctx context.Context, f Filter, limit int) ([]*customer.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*customer.Customer
	for i, rec := range mustRecords(m, Customers) {
		if matches(rec, f) {
			out = append(out, m.customers[i])
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// ListOrders implements Reader
func (m *Memory) ListOrders(ctx context.Context, f Filter, limit int) ([]*order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*order.Order
	for i, rec := range mustRecords(m, Orders) {
		if matches(rec, f) {
			out = append(out, m.orders[i])
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// ListReturns implements Reader
func (m *Memory) ListReturns(ctx context.Context, f Filter, limit int) ([]*returns.Return, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*returns.Return
	for i, rec := range mustRecords(m, Returns) {
		if matches(rec, f) {
			out = append(out, m.returns[i])
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// ListRefunds implements Reader
func (m *Memory) ListRefunds(ctx context.Context, f Filter, limit int) ([]*refund.Refund, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*refund.Refund
	for i, rec := range mustRecords(m, Refunds) {
		if matches(rec, f) {
			out = append(out, m.refunds[i])
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// mustRecords is used where the collection is known valid
func mustRecords(m *Memory, c Collection) []record {
	recs, err := m.collect(c)
	if err != nil {
		panic(err)
	}
	return recs
}

// InsertCustomers implements Writer
func (m *Memory) InsertCustomers(ctx context.Context, cs []*customer.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers = append(m.customers, cs...)
	return nil
}

// InsertProducts implements Writer
func (m *Memory) InsertProducts(ctx context.Context, ps []*product.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = append(m.products, ps...)
	return nil
}

// InsertOrders implements Writer
func (m *Memory) InsertOrders(ctx context.Context, os []*order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, os...)
	return nil
}

// InsertReturns implements Writer
func (m *Memory) InsertReturns(ctx context.Context, rs []*returns.Return) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.returns = append(m.returns, rs...)
	return nil
}

// InsertRefunds implements Writer
func (m *Memory) InsertRefunds(ctx context.Context, rs []*refund.Refund) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refunds = append(m.refunds, rs...)
	return nil
}

// UpdateCustomerRisk implements Writer
func (m *Memory) UpdateCustomerRisk(ctx context.Context, id uuid.UUID, totalOrders, totalReturns int, returnRate, fraudScore float64, level customer.RiskLevel) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.customers {
		if c.ID == id {
			c.TotalOrders = totalOrders
			c.TotalReturns = totalReturns
			c.ReturnRate = returnRate
			c.FraudScore = fraudScore
			c.RiskLevel = level
			return nil
		}
	}
	return fmt.Errorf("customer %s not found", id)
}

// Reset implements Writer
func (m *Memory) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers = nil
	m.products = nil
	m.orders = nil
	m.returns = nil
	m.refunds = nil
	return nil
}
