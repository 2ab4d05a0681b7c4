package fraud

import (
	"time"

	"github.com/google/uuid"

	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/customer"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/returns"
)

// SignalBundle is the per-customer pre-aggregation the scoring function
// consumes. A customer with no orders has no bundle at all.
type SignalBundle struct {
	TotalOrders           int                   `json:"total_orders"`
	TotalReturns          int                   `json:"total_returns"`
	ReturnRate            float64               `json:"return_rate"`
	RecentReturns30d      int                   `json:"recent_returns_30d"`
	AvgReturnValue        float64               `json:"avg_return_value"`
	RapidReturnCount      int                   `json:"rapid_returns"`
	SuspiciousReasonCount int                   `json:"suspicious_reason_count"`
	ReturnReasons         map[returns.Reason]int `json:"return_reasons"`
}

// ScoreResult is the outcome of scoring one customer
type ScoreResult struct {
	Score      float64            `json:"score"`
	Indicators []string           `json:"indicators"`
	RiskLevel  customer.RiskLevel `json:"risk_level"`
}

// Pattern is a detected system-wide fraud pattern. CustomerID is a string
// rather than uuid.UUID: the product-abuse detector indicts no customer and
// uses the "SYSTEM" sentinel instead.
type Pattern struct {
	ID          uuid.UUID              `json:"id"`
	CustomerID  string                 `json:"customer_id"`
	PatternType string                 `json:"pattern_type"`
	Description string                 `json:"description"`
	Severity    customer.RiskLevel     `json:"severity"`
	DetectedAt  time.Time              `json:"detected_date"`
	Evidence    map[string]interface{} `json:"evidence"`
}
