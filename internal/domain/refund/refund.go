package refund

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/values"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusProcessed Status = "processed"
	StatusRejected  Status = "rejected"
)

// ParseStatus converts a stored string into a refund Status
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(s)) {
	case StatusPending, StatusApproved, StatusProcessed, StatusRejected:
		return Status(strings.ToLower(s)), nil
	default:
		return "", fmt.Errorf("unknown refund status: %q", s)
	}
}

func (s Status) String() string {
	return string(s)
}

type Refund struct {
	ID                 uuid.UUID    `json:"id"`
	ReturnID           uuid.UUID    `json:"return_id"`
	OrderID            uuid.UUID    `json:"order_id"`
	CustomerID         uuid.UUID    `json:"customer_id"`
	Amount             values.Money `json:"amount"`
	Status             Status       `json:"status"`
	RequestedDate      time.Time    `json:"requested_date"`
	ProcessedDate      *time.Time   `json:"processed_date,omitempty"`
	ProcessingTimeDays *int         `json:"processing_time_days,omitempty"`
	RefundMethod       string       `json:"refund_method"`
	CreatedAt          time.Time    `json:"created_at"`
}

// NewRefund opens a pending refund for a return
func NewRefund(returnID, orderID, customerID uuid.UUID, amount values.Money, method string) (*Refund, error) {
	if returnID == uuid.Nil || orderID == uuid.Nil || customerID == uuid.Nil {
		return nil, fmt.Errorf("return, order and customer ids are required")
	}

	now := time.Now().UTC()
	return &Refund{
		ID:            uuid.New(),
		ReturnID:      returnID,
		OrderID:       orderID,
		CustomerID:    customerID,
		Amount:        amount,
		Status:        StatusPending,
		RequestedDate: now,
		RefundMethod:  method,
		CreatedAt:     now,
	}, nil
}

// MarkProcessed completes the refund and records how long it took
func (r *Refund) MarkProcessed(processedAt time.Time) error {
	if r.Status == StatusRejected {
		return fmt.Errorf("cannot process a rejected refund")
	}
	days := int(processedAt.Sub(r.RequestedDate).Hours() / 24)
	r.Status = StatusProcessed
	r.ProcessedDate = &processedAt
	r.ProcessingTimeDays = &days
	return nil
}
