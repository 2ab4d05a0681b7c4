package analytics

import (
	"time"

	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/customer"
)

// Metrics is the dashboard snapshot
type Metrics struct {
	TotalOrders       int64            `json:"total_orders"`
	TotalReturns      int64            `json:"total_returns"`
	TotalRefunds      int64            `json:"total_refunds"`
	OverallReturnRate float64          `json:"overall_return_rate"`
	FraudDetectionRate float64         `json:"fraud_detection_rate"`
	AvgProcessingTime float64          `json:"avg_processing_time"`
	TotalRevenue      float64          `json:"total_revenue"`
	TotalRefundAmount float64          `json:"total_refund_amount"`
	HighRiskCustomers int64            `json:"high_risk_customers"`
	TopReturnReasons  map[string]int64 `json:"top_return_reasons"`
	DateRange         map[string]string `json:"date_range"`
}

// CustomerRiskProfile is one customer's ranked risk assessment. Immutable
// once returned.
type CustomerRiskProfile struct {
	CustomerID         string             `json:"customer_id"`
	Email              string             `json:"email"`
	RiskScore          float64            `json:"risk_score"`
	RiskLevel          customer.RiskLevel `json:"risk_level"`
	ReturnFrequency    int                `json:"return_frequency"`
	AvgOrderValue      float64            `json:"avg_order_value"`
	ReturnValueRatio   float64            `json:"return_value_ratio"`
	SuspiciousPatterns []string           `json:"suspicious_patterns"`
	Recommendation     string             `json:"recommendation"`
}

// TrendPoint is one UTC calendar day's aggregate
type TrendPoint struct {
	Date        string  `json:"date"`
	ReturnCount int64   `json:"return_count"`
	FraudCount  int64   `json:"fraud_count"`
	TotalRefund float64 `json:"total_refund"`
}

// TrendAnalysis summarizes return and fraud activity over a trailing window
type TrendAnalysis struct {
	DailyTrends     []TrendPoint `json:"daily_trends"`
	ReturnTrend     string       `json:"return_trend"`
	FraudTrend      string       `json:"fraud_trend"`
	AvgDailyReturns float64      `json:"avg_daily_returns"`
	AvgDailyFraud   float64      `json:"avg_daily_fraud"`
}

// Trend labels. A window with fewer than two buckets is always stable.
const (
	TrendIncreasing = "increasing"
	TrendStable     = "stable"
)

// DateFilter bounds a query to [Start, End]. Either side may be nil.
type DateFilter struct {
	Start *time.Time
	End   *time.Time
}

// ExportFormat selects the serialization of an export
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportJSON ExportFormat = "json"
)

// ExportRequest selects a dataset for download
type ExportRequest struct {
	Format   ExportFormat `json:"export_type"`
	DataType string       `json:"data_type"`
	Filter   DateFilter   `json:"-"`
}

// ExportResult carries a rendered export
type ExportResult struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	RecordCount int    `json:"record_count"`
	Data        []byte `json:"-"`
}

// Band recommendations, fixed mapping
const (
	RecommendationCritical = "IMMEDIATE ACTION: Suspend account and investigate. Consider fraud team review."
	RecommendationHigh     = "Monitor closely. Require additional verification for returns."
	RecommendationMedium   = "Flag for review. Consider return policy restrictions."
	RecommendationLow      = "Low risk. Continue normal processing."
)

// RecommendationFor maps a risk band to its operator guidance
func RecommendationFor(level customer.RiskLevel) string {
	switch level {
	case customer.RiskLevelCritical:
		return RecommendationCritical
	case customer.RiskLevelHigh:
		return RecommendationHigh
	case customer.RiskLevelMedium:
		return RecommendationMedium
	default:
		return RecommendationLow
	}
}
