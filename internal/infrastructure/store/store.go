// Package store is the data store gateway consumed by the analysis engine.
// It exposes bounded retrieval, counting and a small group-aggregation
// pipeline over the record collections, abstracted so the detectors and the
// rollup can run against an in-memory implementation in tests.
package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/customer"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/order"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/product"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/refund"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/returns"
)

// Collection identifies a record collection in the backing store
type Collection string

const (
	Customers  Collection = "customers"
	Products   Collection = "products"
	Orders     Collection = "orders"
	OrderItems Collection = "order_items"
	Returns    Collection = "returns"
	Refunds    Collection = "refunds"
)

// Op is a comparison operator usable in filters and having clauses
type Op string

const (
	OpEq  Op = "eq"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
)

// Condition compares a record field against a value
type Condition struct {
	Field string
	Op    Op
	Value interface{}
}

// Filter is a conjunction of conditions. The zero value matches everything.
type Filter struct {
	Conditions []Condition
}

// Where appends a condition and returns the filter for chaining
func (f Filter) Where(field string, op Op, value interface{}) Filter {
	f.Conditions = append(f.Conditions, Condition{Field: field, Op: op, Value: value})
	return f
}

// ReduceOp is a per-group reducer
type ReduceOp string

const (
	// ReduceCount counts records in the group
	ReduceCount ReduceOp = "count"
	// ReduceSum sums a monetary or numeric field
	ReduceSum ReduceOp = "sum"
	// ReduceAvg averages a numeric field
	ReduceAvg ReduceOp = "avg"
	// ReduceFirst picks one value of a field per group. Which record supplies
	// it is unspecified; callers must treat it as an arbitrary representative.
	ReduceFirst ReduceOp = "first"
	// ReduceSet collects the distinct values of a field
	ReduceSet ReduceOp = "set"
	// ReduceCountIf counts records where a boolean field is true
	ReduceCountIf ReduceOp = "count_if"
)

// Reducer names one per-group output value
type Reducer struct {
	Name  string
	Op    ReduceOp
	Field string // unused for ReduceCount
}

// Having filters groups after reduction. It compares the named reducer's
// numeric value (set reducers compare their cardinality).
type Having struct {
	Name  string
	Op    Op
	Value float64
}

// Bucket optionally coarsens the group-by key
type Bucket string

const (
	// BucketNone groups by the raw field value
	BucketNone Bucket = ""
	// BucketDay groups a timestamp field by UTC calendar day (YYYY-MM-DD)
	BucketDay Bucket = "day"
)

// Pipeline is a group-aggregation request: filter, group, reduce, then
// optionally filter/sort/limit the groups.
type Pipeline struct {
	Match    Filter
	GroupBy  string
	Bucket   Bucket
	Reducers []Reducer
	Having   []Having
	SortBy   string // reducer name; empty for no sort
	SortDesc bool
	Limit    int // 0 for no limit
}

// Group is one aggregation result row, keyed by the group-by value
type Group struct {
	Key    string
	Counts map[string]int64
	Sums   map[string]decimal.Decimal
	Avgs   map[string]float64
	Firsts map[string]string
	Sets   map[string][]string
}

func newGroup(key string) *Group {
	return &Group{
		Key:    key,
		Counts: make(map[string]int64),
		Sums:   make(map[string]decimal.Decimal),
		Avgs:   make(map[string]float64),
		Firsts: make(map[string]string),
		Sets:   make(map[string][]string),
	}
}

// numericValue resolves a reducer output to a float for having/sort checks
func (g *Group) numericValue(name string) float64 {
	if v, ok := g.Counts[name]; ok {
		return float64(v)
	}
	if v, ok := g.Sums[name]; ok {
		return v.InexactFloat64()
	}
	if v, ok := g.Avgs[name]; ok {
		return v
	}
	if v, ok := g.Sets[name]; ok {
		return float64(len(v))
	}
	return 0
}

// Reader is the read side of the gateway. List results are bounded by the
// caller-supplied limit; records beyond it are excluded, not paged.
type Reader interface {
	Count(ctx context.Context, c Collection, f Filter) (int64, error)
	Aggregate(ctx context.Context, c Collection, p Pipeline) ([]*Group, error)

	ListCustomers(ctx context.Context, f Filter, limit int) ([]*customer.Customer, error)
	ListOrders(ctx context.Context, f Filter, limit int) ([]*order.Order, error)
	ListReturns(ctx context.Context, f Filter, limit int) ([]*returns.Return, error)
	ListRefunds(ctx context.Context, f Filter, limit int) ([]*refund.Refund, error)
}

// Writer is the write side, used only by the seed tool and the population
// risk-refresh job. The analysis core never writes.
type Writer interface {
	InsertCustomers(ctx context.Context, cs []*customer.Customer) error
	InsertProducts(ctx context.Context, ps []*product.Product) error
	InsertOrders(ctx context.Context, os []*order.Order) error
	InsertReturns(ctx context.Context, rs []*returns.Return) error
	InsertRefunds(ctx context.Context, rs []*refund.Refund) error
	UpdateCustomerRisk(ctx context.Context, id uuid.UUID, totalOrders, totalReturns int, returnRate, fraudScore float64, level customer.RiskLevel) error
	Reset(ctx context.Context) error
}

// Store combines both sides
type Store interface {
	Reader
	Writer
}
