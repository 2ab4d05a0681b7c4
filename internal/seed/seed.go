// Package seed generates a synthetic e-commerce population with realistic
// return and fraud patterns, for demos and load testing. All randomness
// flows through one seeded source so runs are reproducible.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/customer"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/order"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/product"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/refund"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/returns"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/values"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/infrastructure/store"
)

// Config sizes the generated population
type Config struct {
	Customers  int
	Products   int
	Orders     int
	ReturnRate float64
	Seed       int64
}

// DefaultConfig mirrors the demo dataset proportions
func DefaultConfig() Config {
	return Config{
		Customers:  1000,
		Products:   500,
		Orders:     5000,
		ReturnRate: 0.15,
		Seed:       1,
	}
}

// Result reports how many records were written
type Result struct {
	Customers int
	Products  int
	Orders    int
	Returns   int
	Refunds   int
}

type persona int

const (
	personaLowRisk persona = iota
	personaMediumRisk
	personaHighRisk
)

var categories = map[string][]string{
	"Electronics":   {"Smartphones", "Laptops", "Tablets", "Accessories", "Gaming"},
	"Clothing":      {"Men's Fashion", "Women's Fashion", "Kids Fashion", "Shoes", "Accessories"},
	"Home & Garden": {"Furniture", "Kitchen", "Bedding", "Outdoor", "Tools"},
	"Sports":        {"Fitness", "Outdoor Sports", "Team Sports", "Water Sports", "Winter Sports"},
	"Beauty":        {"Skincare", "Makeup", "Hair Care", "Fragrance", "Personal Care"},
}

var categoryNames = []string{"Electronics", "Clothing", "Home & Garden", "Sports", "Beauty"}

// Baseline reason mix for the general population
var reasonWeights = map[returns.Reason]float64{
	returns.ReasonDefective:       0.15,
	returns.ReasonSizeIssue:       0.25,
	returns.ReasonNotAsDescribed:  0.20,
	returns.ReasonChangedMind:     0.15,
	returns.ReasonLateDelivery:    0.10,
	returns.ReasonDamagedShipping: 0.10,
	returns.ReasonDuplicateOrder:  0.05,
}

// Reason mix for high-risk personas, skewed toward suspicious reasons
var highRiskReasonWeights = map[returns.Reason]float64{
	returns.ReasonChangedMind:    0.40,
	returns.ReasonNotAsDescribed: 0.30,
	returns.ReasonSizeIssue:      0.15,
	returns.ReasonDefective:      0.15,
}

// Fraud likelihood by return reason
var fraudProbability = map[returns.Reason]float64{
	returns.ReasonChangedMind:     0.40,
	returns.ReasonNotAsDescribed:  0.30,
	returns.ReasonDefective:       0.10,
	returns.ReasonSizeIssue:       0.05,
	returns.ReasonLateDelivery:    0.02,
	returns.ReasonDamagedShipping: 0.02,
	returns.ReasonDuplicateOrder:  0.01,
}

var (
	firstNames = []string{"James", "Mary", "Robert", "Patricia", "John", "Jennifer",
		"Michael", "Linda", "David", "Elizabeth", "William", "Barbara", "Richard",
		"Susan", "Joseph", "Jessica", "Thomas", "Sarah", "Carol", "Daniel"}
	lastNames = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia",
		"Miller", "Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez",
		"Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin"}
	streetNames = []string{"Oak", "Maple", "Cedar", "Pine", "Elm", "Washington",
		"Lake", "Hill", "Park", "Main", "Church", "River", "Spring", "Ridge"}
	streetTypes = []string{"St", "Ave", "Blvd", "Dr", "Ln", "Ct"}
	cities      = []string{"Springfield", "Riverside", "Franklin", "Greenville",
		"Bristol", "Clinton", "Fairview", "Salem", "Madison", "Georgetown"}
	productAdjectives = []string{"Premium", "Deluxe", "Classic", "Modern", "Compact",
		"Ultra", "Smart", "Essential", "Signature", "Everyday"}
	paymentMethods = []string{"Credit Card", "Debit Card", "PayPal", "Apple Pay"}
	refundMethods  = []string{"Original Payment Method", "Store Credit", "Bank Transfer"}
)

// Generator writes a synthetic dataset through the store gateway
type Generator struct {
	store  store.Writer
	cfg    Config
	rng    *rand.Rand
	logger *slog.Logger
	now    time.Time
}

// New creates a generator with its own deterministic random source
func New(st store.Writer, cfg Config, logger *slog.Logger) *Generator {
	return &Generator{
		store:  st,
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		logger: logger,
		now:    time.Now().UTC(),
	}
}

// Run clears the store and generates the full dataset: products, customers,
// orders, then returns and refunds derived from them.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	g.logger.InfoContext(ctx, "starting data generation",
		"customers", g.cfg.Customers,
		"products", g.cfg.Products,
		"orders", g.cfg.Orders,
		"seed", g.cfg.Seed)

	if err := g.store.Reset(ctx); err != nil {
		return nil, fmt.Errorf("clearing existing data: %w", err)
	}

	products := g.generateProducts()
	if err := g.store.InsertProducts(ctx, products); err != nil {
		return nil, fmt.Errorf("inserting products: %w", err)
	}

	customers, personas := g.generateCustomers()
	if err := g.store.InsertCustomers(ctx, customers); err != nil {
		return nil, fmt.Errorf("inserting customers: %w", err)
	}

	orders := g.generateOrders(customers, personas, products)
	if err := g.store.InsertOrders(ctx, orders); err != nil {
		return nil, fmt.Errorf("inserting orders: %w", err)
	}

	rets := g.generateReturns(orders, personas)
	if err := g.store.InsertReturns(ctx, rets); err != nil {
		return nil, fmt.Errorf("inserting returns: %w", err)
	}

	refunds := g.generateRefunds(rets)
	if err := g.store.InsertRefunds(ctx, refunds); err != nil {
		return nil, fmt.Errorf("inserting refunds: %w", err)
	}

	result := &Result{
		Customers: len(customers),
		Products:  len(products),
		Orders:    len(orders),
		Returns:   len(rets),
		Refunds:   len(refunds),
	}
	g.logger.InfoContext(ctx, "data generation completed",
		"customers", result.Customers,
		"orders", result.Orders,
		"returns", result.Returns)
	return result, nil
}

func (g *Generator) generateProducts() []*product.Product {
	products := make([]*product.Product, 0, g.cfg.Products)
	for i := 0; i < g.cfg.Products; i++ {
		category := categoryNames[g.rng.Intn(len(categoryNames))]
		subs := categories[category]
		sub := subs[g.rng.Intn(len(subs))]

		var price float64
		switch category {
		case "Electronics":
			price = g.uniform(50, 2000)
		case "Clothing":
			price = g.uniform(15, 300)
		default:
			price = g.uniform(10, 500)
		}
		cost := price * g.uniform(0.3, 0.7)

		name := fmt.Sprintf("%s %s", productAdjectives[g.rng.Intn(len(productAdjectives))], sub)
		p, err := product.NewProduct(name, category,
			values.MustNewMoneyFromFloat(round2(price)),
			values.MustNewMoneyFromFloat(round2(cost)),
			uuid.New())
		if err != nil {
			continue
		}
		p.SubCategory = &sub
		products = append(products, p)
	}
	return products
}

func (g *Generator) generateCustomers() ([]*customer.Customer, map[uuid.UUID]persona) {
	customers := make([]*customer.Customer, 0, g.cfg.Customers)
	personas := make(map[uuid.UUID]persona, g.cfg.Customers)

	for i := 0; i < g.cfg.Customers; i++ {
		p := personaLowRisk
		switch {
		case float64(i) < float64(g.cfg.Customers)*0.05:
			p = personaHighRisk
		case float64(i) < float64(g.cfg.Customers)*0.15:
			p = personaMediumRisk
		}

		first := firstNames[g.rng.Intn(len(firstNames))]
		last := lastNames[g.rng.Intn(len(lastNames))]
		email := fmt.Sprintf("%s.%s.%d@example.com", first, last, i)

		c, err := customer.NewCustomer(email, first, last)
		if err != nil {
			continue
		}
		c.RegistrationDate = g.pastTime(2 * 365)
		c.CreatedAt = c.RegistrationDate
		customers = append(customers, c)
		personas[c.ID] = p
	}
	return customers, personas
}

func (g *Generator) generateOrders(customers []*customer.Customer, personas map[uuid.UUID]persona, products []*product.Product) []*order.Order {
	orders := make([]*order.Order, 0, g.cfg.Orders)
	if len(customers) == 0 || len(products) == 0 {
		return orders
	}

	for i := 0; i < g.cfg.Orders; i++ {
		c := customers[g.rng.Intn(len(customers))]

		// High-risk personas place fewer, pricier orders
		numItems := 1 + g.rng.Intn(4)
		multiplier := g.uniform(0.8, 1.2)
		if personas[c.ID] == personaHighRisk {
			numItems = 1 + g.rng.Intn(3)
			multiplier = g.uniform(1.2, 2.0)
		}

		items := make([]order.Item, 0, numItems)
		for j := 0; j < numItems; j++ {
			p := products[g.rng.Intn(len(products))]
			quantity := 1 + g.rng.Intn(2)
			unitPrice := round2(p.Price.Float64() * multiplier)
			items = append(items, order.Item{
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    quantity,
				UnitPrice:   values.MustNewMoneyFromFloat(unitPrice),
				TotalPrice:  values.MustNewMoneyFromFloat(round2(unitPrice * float64(quantity))),
			})
		}

		o, err := order.NewOrder(c.ID, c.Email, g.address(), paymentMethods[g.rng.Intn(len(paymentMethods))], items)
		if err != nil {
			continue
		}
		o.OrderDate = g.pastTime(180)
		o.CreatedAt = o.OrderDate
		o.Status = order.StatusShipped
		if g.rng.Intn(2) == 0 {
			o.Status = order.StatusDelivered
			delivered := o.OrderDate.AddDate(0, 0, 2+g.rng.Intn(5))
			o.UpdatedAt = &delivered
		}
		orders = append(orders, o)
	}
	return orders
}

func (g *Generator) generateReturns(orders []*order.Order, personas map[uuid.UUID]persona) []*returns.Return {
	var eligible []*order.Order
	for _, o := range orders {
		if o.Status == order.StatusDelivered {
			eligible = append(eligible, o)
		}
	}

	count := int(float64(len(orders)) * g.cfg.ReturnRate)
	if count > len(eligible) {
		count = len(eligible)
	}
	g.rng.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})

	rets := make([]*returns.Return, 0, count)
	for _, o := range eligible[:count] {
		highRisk := personas[o.CustomerID] == personaHighRisk

		weights := reasonWeights
		if highRisk {
			weights = highRiskReasonWeights
		}
		reason := g.weightedReason(weights)

		item := o.Items[g.rng.Intn(len(o.Items))]
		quantity := 1 + g.rng.Intn(item.Quantity)
		// 5% restocking fee comes off the refund
		refundAmount := round2(item.UnitPrice.Float64() * float64(quantity) * 0.95)

		returnDate := o.OrderDate.AddDate(0, 0, 1+g.rng.Intn(30))

		prob := fraudProbability[reason]
		if highRisk {
			prob *= 3
		}
		fraudSuspected := g.rng.Float64() < prob

		var fraudScore float64
		var indicators []string
		processingDays := 1 + g.rng.Intn(14)
		if fraudSuspected {
			fraudScore = g.uniform(70, 95)
			indicators = []string{
				fmt.Sprintf("Suspicious return reason: %s", reason),
				"Pattern matches known fraud indicators",
			}
			processingDays = 7 + g.rng.Intn(15)
		}

		r, err := returns.NewReturn(o, item.ProductID, item.ProductName, quantity,
			reason, returnDate, values.MustNewMoneyFromFloat(refundAmount))
		if err != nil {
			continue
		}
		r.IsFraudSuspected = fraudSuspected
		r.FraudScore = round2(fraudScore)
		r.FraudIndicators = indicators
		r.ProcessingTimeDays = processingDays
		rets = append(rets, r)
	}
	return rets
}

func (g *Generator) generateRefunds(rets []*returns.Return) []*refund.Refund {
	refunds := make([]*refund.Refund, 0, len(rets))
	for _, r := range rets {
		f, err := refund.NewRefund(r.ID, r.OrderID, r.CustomerID, r.RefundAmount,
			refundMethods[g.rng.Intn(len(refundMethods))])
		if err != nil {
			continue
		}
		f.RequestedDate = r.ReturnDate
		f.CreatedAt = r.ReturnDate

		// Fraud cases are sometimes refused outright
		if r.IsFraudSuspected && g.rng.Float64() < 0.3 {
			f.Status = refund.StatusRejected
		} else {
			f.Status = refund.StatusApproved
			if g.rng.Intn(2) == 0 {
				f.Status = refund.StatusProcessed
			}
			processed := r.ReturnDate.AddDate(0, 0, r.ProcessingTimeDays)
			days := r.ProcessingTimeDays
			f.ProcessedDate = &processed
			f.ProcessingTimeDays = &days
		}
		refunds = append(refunds, f)
	}
	return refunds
}

func (g *Generator) weightedReason(weights map[returns.Reason]float64) returns.Reason {
	// Iterate in a fixed order so the same seed always picks the same reason
	ordered := []returns.Reason{
		returns.ReasonDefective, returns.ReasonSizeIssue, returns.ReasonNotAsDescribed,
		returns.ReasonChangedMind, returns.ReasonLateDelivery,
		returns.ReasonDamagedShipping, returns.ReasonDuplicateOrder,
	}

	var total float64
	for _, r := range ordered {
		total += weights[r]
	}
	target := g.rng.Float64() * total
	for _, r := range ordered {
		target -= weights[r]
		if target <= 0 && weights[r] > 0 {
			return r
		}
	}
	return returns.ReasonDefective
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func (g *Generator) pastTime(maxDaysAgo int) time.Time {
	days := g.rng.Intn(maxDaysAgo)
	return g.now.AddDate(0, 0, -days).Add(-time.Duration(g.rng.Intn(86400)) * time.Second)
}

func (g *Generator) address() string {
	return fmt.Sprintf("%d %s %s, %s",
		1+g.rng.Intn(9999),
		streetNames[g.rng.Intn(len(streetNames))],
		streetTypes[g.rng.Intn(len(streetTypes))],
		cities[g.rng.Intn(len(cities))])
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
