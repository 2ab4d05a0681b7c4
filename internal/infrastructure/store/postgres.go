package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/customer"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/errors"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/order"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/product"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/refund"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/returns"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/values"
)

// Postgres implements Store on top of a pgx connection pool. Filter and
// pipeline fields are validated against per-collection column whitelists
// before any SQL is built, so a bad field name surfaces as InvalidFilter
// rather than a database error.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres creates the production store gateway
func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) *Postgres {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Postgres{pool: pool, logger: logger}
}

var _ Store = (*Postgres)(nil)

var tables = map[Collection]string{
	Customers:  "customers",
	Products:   "products",
	Orders:     "orders",
	OrderItems: "order_items",
	Returns:    "returns",
	Refunds:    "refunds",
}

var columns = map[Collection]map[string]bool{
	Customers: {
		"id": true, "email": true, "risk_level": true, "return_rate": true,
		"fraud_score": true, "is_blacklisted": true, "registration_date": true,
		"created_at": true,
	},
	Products: {
		"id": true, "name": true, "category": true, "price": true,
	},
	Orders: {
		"id": true, "customer_id": true, "customer_email": true, "total_amount": true,
		"order_date": true, "status": true, "shipping_address": true, "created_at": true,
	},
	OrderItems: {
		"order_id": true, "customer_id": true, "product_id": true,
		"quantity": true, "total_price": true,
	},
	Returns: {
		"id": true, "order_id": true, "customer_id": true, "customer_email": true,
		"product_id": true, "product_name": true, "reason": true, "return_date": true,
		"refund_amount": true, "is_fraud_suspected": true, "processing_time_days": true,
	},
	Refunds: {
		"id": true, "return_id": true, "order_id": true, "customer_id": true,
		"amount": true, "status": true, "requested_date": true, "processed_date": true,
		"processing_time_days": true,
	},
}

func tableFor(c Collection) (string, map[string]bool, error) {
	t, ok := tables[c]
	if !ok {
		return "", nil, errors.NewValidationError("INVALID_FILTER",
			fmt.Sprintf("unknown collection %q", c))
	}
	return t, columns[c], nil
}

// buildWhere renders filter conditions as a WHERE clause with positional args
func buildWhere(f Filter, cols map[string]bool, args *[]interface{}) (string, error) {
	if len(f.Conditions) == 0 {
		return "", nil
	}
	ops := map[Op]string{OpEq: "=", OpGt: ">", OpGte: ">=", OpLt: "<", OpLte: "<="}

	clauses := make([]string, 0, len(f.Conditions))
	for _, cond := range f.Conditions {
		if !cols[cond.Field] {
			return "", errors.NewValidationError("INVALID_FILTER",
				fmt.Sprintf("unknown field %q", cond.Field))
		}
		sqlOp, ok := ops[cond.Op]
		if !ok {
			return "", errors.NewValidationError("INVALID_FILTER",
				fmt.Sprintf("unknown operator %q", cond.Op))
		}
		*args = append(*args, normalizeArg(cond.Value))
		clauses = append(clauses, fmt.Sprintf("%s %s $%d", cond.Field, sqlOp, len(*args)))
	}
	return " WHERE " + strings.Join(clauses, " AND "), nil
}

func normalizeArg(v interface{}) interface{} {
	switch n := v.(type) {
	case values.Money:
		return n.Amount()
	case fmt.Stringer:
		if _, ok := v.(uuid.UUID); ok {
			return v
		}
		if _, ok := v.(time.Time); ok {
			return v
		}
		return n.String()
	default:
		return v
	}
}

// Count implements Reader
func (p *Postgres) Count(ctx context.Context, c Collection, f Filter) (int64, error) {
	table, cols, err := tableFor(c)
	if err != nil {
		return 0, err
	}

	var args []interface{}
	where, err := buildWhere(f, cols, &args)
	if err != nil {
		return 0, err
	}

	var n int64
	query := "SELECT COUNT(*) FROM " + table + where
	if err := p.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, errors.NewInternalError("count query failed").WithCause(err)
	}
	return n, nil
}

// Aggregate implements Reader. Reducers translate to SQL aggregates:
// count COUNT(*), sum SUM, avg AVG, first MIN (arbitrary representative,
// matched by the in-memory gateway), set ARRAY_AGG(DISTINCT),
// count_if COUNT(*) FILTER (WHERE field).
func (p *Postgres) Aggregate(ctx context.Context, c Collection, pl Pipeline) ([]*Group, error) {
	table, cols, err := tableFor(c)
	if err != nil {
		return nil, err
	}
	if !cols[pl.GroupBy] {
		return nil, errors.NewValidationError("INVALID_FILTER",
			fmt.Sprintf("unknown group-by field %q", pl.GroupBy))
	}

	keyExpr := pl.GroupBy + "::text"
	if pl.Bucket == BucketDay {
		keyExpr = "to_char(" + pl.GroupBy + " AT TIME ZONE 'UTC', 'YYYY-MM-DD')"
	}

	selects := []string{keyExpr + " AS grp_key"}
	exprs := make(map[string]string, len(pl.Reducers))
	for i, r := range pl.Reducers {
		if r.Op != ReduceCount && !cols[r.Field] {
			return nil, errors.NewValidationError("INVALID_FILTER",
				fmt.Sprintf("unknown reducer field %q", r.Field))
		}
		var expr string
		switch r.Op {
		case ReduceCount:
			expr = "COUNT(*)"
		case ReduceSum:
			expr = "COALESCE(SUM(" + r.Field + "), 0)::text"
		case ReduceAvg:
			expr = "COALESCE(AVG(" + r.Field + "), 0)::float8"
		case ReduceFirst:
			expr = "MIN(" + r.Field + "::text)"
		case ReduceSet:
			expr = "ARRAY_AGG(DISTINCT " + r.Field + "::text)"
		case ReduceCountIf:
			expr = "COUNT(*) FILTER (WHERE " + r.Field + ")"
		default:
			return nil, errors.NewValidationError("INVALID_FILTER",
				fmt.Sprintf("unknown reducer op %q", r.Op))
		}
		exprs[r.Name] = expr
		selects = append(selects, fmt.Sprintf("%s AS agg_%d", expr, i))
	}

	var args []interface{}
	where, err := buildWhere(pl.Match, cols, &args)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + strings.Join(selects, ", "))
	sb.WriteString(" FROM " + table + where)
	sb.WriteString(" GROUP BY grp_key")

	if len(pl.Having) > 0 {
		havingOps := map[Op]string{OpEq: "=", OpGt: ">", OpGte: ">=", OpLt: "<", OpLte: "<="}
		clauses := make([]string, 0, len(pl.Having))
		for _, h := range pl.Having {
			expr, err := havingExpr(pl, h.Name, exprs)
			if err != nil {
				return nil, err
			}
			sqlOp, ok := havingOps[h.Op]
			if !ok {
				return nil, errors.NewValidationError("INVALID_FILTER",
					fmt.Sprintf("unknown operator %q", h.Op))
			}
			args = append(args, h.Value)
			clauses = append(clauses, fmt.Sprintf("%s %s $%d", expr, sqlOp, len(args)))
		}
		sb.WriteString(" HAVING " + strings.Join(clauses, " AND "))
	}

	if pl.SortBy != "" {
		expr, err := havingExpr(pl, pl.SortBy, exprs)
		if err != nil {
			return nil, err
		}
		sb.WriteString(" ORDER BY " + expr)
		if pl.SortDesc {
			sb.WriteString(" DESC")
		}
	} else {
		sb.WriteString(" ORDER BY grp_key")
	}
	if pl.Limit > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT %d", pl.Limit))
	}

	rows, err := p.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, errors.NewInternalError("aggregate query failed").WithCause(err)
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		g := newGroup("")
		targets := make([]interface{}, 0, len(pl.Reducers)+1)
		targets = append(targets, &g.Key)

		sums := make(map[string]*string)
		avgs := make(map[string]*float64)
		counts := make(map[string]*int64)
		firsts := make(map[string]**string)
		sets := make(map[string]*[]string)

		for _, r := range pl.Reducers {
			switch r.Op {
			case ReduceCount, ReduceCountIf:
				v := new(int64)
				counts[r.Name] = v
				targets = append(targets, v)
			case ReduceSum:
				v := new(string)
				sums[r.Name] = v
				targets = append(targets, v)
			case ReduceAvg:
				v := new(float64)
				avgs[r.Name] = v
				targets = append(targets, v)
			case ReduceFirst:
				v := new(*string)
				firsts[r.Name] = v
				targets = append(targets, v)
			case ReduceSet:
				v := new([]string)
				sets[r.Name] = v
				targets = append(targets, v)
			}
		}

		if err := rows.Scan(targets...); err != nil {
			return nil, errors.NewInternalError("aggregate scan failed").WithCause(err)
		}

		for name, v := range counts {
			g.Counts[name] = *v
		}
		for name, v := range sums {
			d, err := decimal.NewFromString(*v)
			if err != nil {
				return nil, errors.NewInternalError("aggregate sum parse failed").WithCause(err)
			}
			g.Sums[name] = d
		}
		for name, v := range avgs {
			g.Avgs[name] = *v
		}
		for name, v := range firsts {
			if *v != nil {
				g.Firsts[name] = **v
			}
		}
		for name, v := range sets {
			g.Sets[name] = *v
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternalError("aggregate rows failed").WithCause(err)
	}
	return groups, nil
}

// havingExpr resolves a reducer name to the SQL expression used in
// HAVING/ORDER BY. Set reducers compare by cardinality.
func havingExpr(pl Pipeline, name string, exprs map[string]string) (string, error) {
	for _, r := range pl.Reducers {
		if r.Name != name {
			continue
		}
		if r.Op == ReduceSet {
			return "COUNT(DISTINCT " + r.Field + ")", nil
		}
		return strings.TrimSuffix(exprs[name], "::text"), nil
	}
	return "", errors.NewValidationError("INVALID_FILTER",
		fmt.Sprintf("unknown reducer name %q", name))
}

const customerColumns = `id, email, first_name, last_name, phone, registration_date,
	total_orders, total_returns, return_rate, fraud_score, risk_level, is_blacklisted, created_at`

// ListCustomers implements Reader
func (p *Postgres) ListCustomers(ctx context.Context, f Filter, limit int) ([]*customer.Customer, error) {
	_, cols, _ := tableFor(Customers)
	var args []interface{}
	where, err := buildWhere(f, cols, &args)
	if err != nil {
		return nil, err
	}

	query := "SELECT " + customerColumns + " FROM customers" + where + " ORDER BY created_at"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.NewInternalError("customer query failed").WithCause(err)
	}
	defer rows.Close()

	var out []*customer.Customer
	for rows.Next() {
		var (
			c     customer.Customer
			level string
		)
		if err := rows.Scan(&c.ID, &c.Email, &c.FirstName, &c.LastName, &c.Phone,
			&c.RegistrationDate, &c.TotalOrders, &c.TotalReturns, &c.ReturnRate,
			&c.FraudScore, &level, &c.IsBlacklisted, &c.CreatedAt); err != nil {
			return nil, errors.NewInternalError("customer scan failed").WithCause(err)
		}
		c.RiskLevel = customer.RiskLevel(level)
		out = append(out, &c)
	}
	return out, rows.Err()
}

// ListOrders implements Reader. Line items are fetched in a second query
// keyed by the returned order ids.
func (p *Postgres) ListOrders(ctx context.Context, f Filter, limit int) ([]*order.Order, error) {
	_, cols, _ := tableFor(Orders)
	var args []interface{}
	where, err := buildWhere(f, cols, &args)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, customer_id, customer_email, total_amount::text, order_date, status,
		shipping_address, payment_method, is_returned, created_at, updated_at
		FROM orders` + where + " ORDER BY order_date"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.NewInternalError("order query failed").WithCause(err)
	}
	defer rows.Close()

	var (
		out   []*order.Order
		ids   []uuid.UUID
		index = make(map[uuid.UUID]*order.Order)
	)
	for rows.Next() {
		var (
			o      order.Order
			total  string
			status string
		)
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.CustomerEmail, &total, &o.OrderDate,
			&status, &o.ShippingAddress, &o.PaymentMethod, &o.IsReturned,
			&o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, errors.NewInternalError("order scan failed").WithCause(err)
		}
		amount, err := values.NewMoneyFromString(total)
		if err != nil {
			return nil, errors.NewInternalError("order amount parse failed").WithCause(err)
		}
		o.TotalAmount = amount
		o.Status = order.Status(status)
		out = append(out, &o)
		ids = append(ids, o.ID)
		index[o.ID] = &o
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternalError("order rows failed").WithCause(err)
	}
	if len(ids) == 0 {
		return out, nil
	}

	itemRows, err := p.pool.Query(ctx, `SELECT order_id, product_id, product_name, quantity,
		unit_price::text, total_price::text FROM order_items WHERE order_id = ANY($1) ORDER BY order_id`, ids)
	if err != nil {
		return nil, errors.NewInternalError("order item query failed").WithCause(err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			orderID     uuid.UUID
			item        order.Item
			unit, total string
		)
		if err := itemRows.Scan(&orderID, &item.ProductID, &item.ProductName,
			&item.Quantity, &unit, &total); err != nil {
			return nil, errors.NewInternalError("order item scan failed").WithCause(err)
		}
		if item.UnitPrice, err = values.NewMoneyFromString(unit); err != nil {
			return nil, errors.NewInternalError("item price parse failed").WithCause(err)
		}
		if item.TotalPrice, err = values.NewMoneyFromString(total); err != nil {
			return nil, errors.NewInternalError("item price parse failed").WithCause(err)
		}
		if o, ok := index[orderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return out, itemRows.Err()
}

// ListReturns implements Reader
func (p *Postgres) ListReturns(ctx context.Context, f Filter, limit int) ([]*returns.Return, error) {
	_, cols, _ := tableFor(Returns)
	var args []interface{}
	where, err := buildWhere(f, cols, &args)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, order_id, customer_id, customer_email, product_id, product_name,
		quantity_returned, reason, description, return_date, refund_amount::text,
		is_fraud_suspected, fraud_score, fraud_indicators, processing_time_days, created_at
		FROM returns` + where + " ORDER BY return_date"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.NewInternalError("return query failed").WithCause(err)
	}
	defer rows.Close()

	var out []*returns.Return
	for rows.Next() {
		var (
			r      returns.Return
			reason string
			amount string
		)
		if err := rows.Scan(&r.ID, &r.OrderID, &r.CustomerID, &r.CustomerEmail,
			&r.ProductID, &r.ProductName, &r.QuantityReturned, &reason, &r.Description,
			&r.ReturnDate, &amount, &r.IsFraudSuspected, &r.FraudScore,
			&r.FraudIndicators, &r.ProcessingTimeDays, &r.CreatedAt); err != nil {
			return nil, errors.NewInternalError("return scan failed").WithCause(err)
		}
		if r.RefundAmount, err = values.NewMoneyFromString(amount); err != nil {
			return nil, errors.NewInternalError("refund amount parse failed").WithCause(err)
		}
		r.Reason = returns.Reason(reason)
		out = append(out, &r)
	}
	return out, rows.Err()
}

// ListRefunds implements Reader
func (p *Postgres) ListRefunds(ctx context.Context, f Filter, limit int) ([]*refund.Refund, error) {
	_, cols, _ := tableFor(Refunds)
	var args []interface{}
	where, err := buildWhere(f, cols, &args)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, return_id, order_id, customer_id, amount::text, status,
		requested_date, processed_date, processing_time_days, refund_method, created_at
		FROM refunds` + where + " ORDER BY requested_date"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.NewInternalError("refund query failed").WithCause(err)
	}
	defer rows.Close()

	var out []*refund.Refund
	for rows.Next() {
		var (
			r      refund.Refund
			amount string
			status string
		)
		if err := rows.Scan(&r.ID, &r.ReturnID, &r.OrderID, &r.CustomerID, &amount,
			&status, &r.RequestedDate, &r.ProcessedDate, &r.ProcessingTimeDays,
			&r.RefundMethod, &r.CreatedAt); err != nil {
			return nil, errors.NewInternalError("refund scan failed").WithCause(err)
		}
		if r.Amount, err = values.NewMoneyFromString(amount); err != nil {
			return nil, errors.NewInternalError("refund amount parse failed").WithCause(err)
		}
		r.Status = refund.Status(status)
		out = append(out, &r)
	}
	return out, rows.Err()
}

// InsertCustomers implements Writer
func (p *Postgres) InsertCustomers(ctx context.Context, cs []*customer.Customer) error {
	batch := &pgx.Batch{}
	for _, c := range cs {
		batch.Queue(`INSERT INTO customers (id, email, first_name, last_name, phone,
			registration_date, total_orders, total_returns, return_rate, fraud_score,
			risk_level, is_blacklisted, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
			c.ID, c.Email, c.FirstName, c.LastName, c.Phone, c.RegistrationDate,
			c.TotalOrders, c.TotalReturns, c.ReturnRate, c.FraudScore,
			string(c.RiskLevel), c.IsBlacklisted, c.CreatedAt)
	}
	return p.sendBatch(ctx, batch, "customers")
}

// InsertProducts implements Writer
func (p *Postgres) InsertProducts(ctx context.Context, ps []*product.Product) error {
	batch := &pgx.Batch{}
	for _, pr := range ps {
		batch.Queue(`INSERT INTO products (id, name, category, sub_category, price, cost,
			margin, seller_id, created_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			pr.ID, pr.Name, pr.Category, pr.SubCategory, pr.Price.Amount(),
			pr.Cost.Amount(), pr.Margin, pr.SellerID, pr.CreatedAt)
	}
	return p.sendBatch(ctx, batch, "products")
}

// InsertOrders implements Writer. Items go to order_items in the same batch.
func (p *Postgres) InsertOrders(ctx context.Context, os []*order.Order) error {
	batch := &pgx.Batch{}
	for _, o := range os {
		batch.Queue(`INSERT INTO orders (id, customer_id, customer_email, total_amount,
			order_date, status, shipping_address, payment_method, is_returned, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			o.ID, o.CustomerID, o.CustomerEmail, o.TotalAmount.Amount(), o.OrderDate,
			string(o.Status), o.ShippingAddress, o.PaymentMethod, o.IsReturned,
			o.CreatedAt, o.UpdatedAt)
		for _, item := range o.Items {
			batch.Queue(`INSERT INTO order_items (order_id, customer_id, product_id,
				product_name, quantity, unit_price, total_price)
				VALUES ($1,$2,$3,$4,$5,$6,$7)`,
				o.ID, o.CustomerID, item.ProductID, item.ProductName, item.Quantity,
				item.UnitPrice.Amount(), item.TotalPrice.Amount())
		}
	}
	return p.sendBatch(ctx, batch, "orders")
}

// InsertReturns implements Writer
func (p *Postgres) InsertReturns(ctx context.Context, rs []*returns.Return) error {
	batch := &pgx.Batch{}
	for _, r := range rs {
		batch.Queue(`INSERT INTO returns (id, order_id, customer_id, customer_email,
			product_id, product_name, quantity_returned, reason, description, return_date,
			refund_amount, is_fraud_suspected, fraud_score, fraud_indicators,
			processing_time_days, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
			r.ID, r.OrderID, r.CustomerID, r.CustomerEmail, r.ProductID, r.ProductName,
			r.QuantityReturned, string(r.Reason), r.Description, r.ReturnDate,
			r.RefundAmount.Amount(), r.IsFraudSuspected, r.FraudScore,
			r.FraudIndicators, r.ProcessingTimeDays, r.CreatedAt)
	}
	return p.sendBatch(ctx, batch, "returns")
}

// InsertRefunds implements Writer
func (p *Postgres) InsertRefunds(ctx context.Context, rs []*refund.Refund) error {
	batch := &pgx.Batch{}
	for _, r := range rs {
		batch.Queue(`INSERT INTO refunds (id, return_id, order_id, customer_id, amount,
			status, requested_date, processed_date, processing_time_days, refund_method, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			r.ID, r.ReturnID, r.OrderID, r.CustomerID, r.Amount.Amount(), string(r.Status),
			r.RequestedDate, r.ProcessedDate, r.ProcessingTimeDays, r.RefundMethod, r.CreatedAt)
	}
	return p.sendBatch(ctx, batch, "refunds")
}

func (p *Postgres) sendBatch(ctx context.Context, batch *pgx.Batch, table string) error {
	if batch.Len() == 0 {
		return nil
	}
	results := p.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			p.logger.Error("batch insert failed",
				zap.String("table", table),
				zap.Int("statement", i),
				zap.Error(err))
			return errors.NewInternalError("insert into " + table + " failed").WithCause(err)
		}
	}
	return nil
}

// UpdateCustomerRisk implements Writer
func (p *Postgres) UpdateCustomerRisk(ctx context.Context, id uuid.UUID, totalOrders, totalReturns int, returnRate, fraudScore float64, level customer.RiskLevel) error {
	tag, err := p.pool.Exec(ctx, `UPDATE customers SET total_orders = $2, total_returns = $3,
		return_rate = $4, fraud_score = $5, risk_level = $6 WHERE id = $1`,
		id, totalOrders, totalReturns, returnRate, fraudScore, string(level))
	if err != nil {
		return errors.NewInternalError("customer risk update failed").WithCause(err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NewNotFoundError("customer")
	}
	return nil
}

// Reset implements Writer
func (p *Postgres) Reset(ctx context.Context) error {
	_, err := p.pool.Exec(ctx,
		`TRUNCATE customers, products, orders, order_items, returns, refunds`)
	if err != nil {
		return errors.NewInternalError("reset failed").WithCause(err)
	}
	return nil
}
