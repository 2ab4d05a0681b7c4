package returns

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/order"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/values"
)

type Reason string

const (
	ReasonDefective       Reason = "defective"
	ReasonSizeIssue       Reason = "size_issue"
	ReasonNotAsDescribed  Reason = "not_as_described"
	ReasonChangedMind     Reason = "changed_mind"
	ReasonLateDelivery    Reason = "late_delivery"
	ReasonDamagedShipping Reason = "damaged_shipping"
	ReasonDuplicateOrder  Reason = "duplicate_order"
)

// ParseReason converts a stored string into a return Reason
func ParseReason(s string) (Reason, error) {
	switch Reason(strings.ToLower(s)) {
	case ReasonDefective, ReasonSizeIssue, ReasonNotAsDescribed, ReasonChangedMind,
		ReasonLateDelivery, ReasonDamagedShipping, ReasonDuplicateOrder:
		return Reason(strings.ToLower(s)), nil
	default:
		return "", fmt.Errorf("unknown return reason: %q", s)
	}
}

func (r Reason) String() string {
	return string(r)
}

type Return struct {
	ID                 uuid.UUID    `json:"id"`
	OrderID            uuid.UUID    `json:"order_id"`
	CustomerID         uuid.UUID    `json:"customer_id"`
	CustomerEmail      string       `json:"customer_email"`
	ProductID          uuid.UUID    `json:"product_id"`
	ProductName        string       `json:"product_name"`
	QuantityReturned   int          `json:"quantity_returned"`
	Reason             Reason       `json:"reason"`
	Description        *string      `json:"description,omitempty"`
	ReturnDate         time.Time    `json:"return_date"`
	RefundAmount       values.Money `json:"refund_amount"`
	IsFraudSuspected   bool         `json:"is_fraud_suspected"`
	FraudScore         float64      `json:"fraud_score"`
	FraudIndicators    []string     `json:"fraud_indicators,omitempty"`
	ProcessingTimeDays int          `json:"processing_time_days"`
	CreatedAt          time.Time    `json:"created_at"`
}

// NewReturn creates a return against an order. The return date cannot precede
// the order date.
func NewReturn(o *order.Order, productID uuid.UUID, productName string, quantity int, reason Reason, returnDate time.Time, refund values.Money) (*Return, error) {
	if o == nil {
		return nil, fmt.Errorf("order is required")
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("returned quantity must be positive")
	}
	if returnDate.Before(o.OrderDate) {
		return nil, fmt.Errorf("return date %s precedes order date %s", returnDate, o.OrderDate)
	}

	return &Return{
		ID:            uuid.New(),
		OrderID:       o.ID,
		CustomerID:    o.CustomerID,
		CustomerEmail: o.CustomerEmail,
		ProductID:     productID,
		ProductName:   productName,
		QuantityReturned: quantity,
		Reason:        reason,
		ReturnDate:    returnDate,
		RefundAmount:  refund,
		CreatedAt:     time.Now().UTC(),
	}, nil
}
