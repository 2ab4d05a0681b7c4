package order

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
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// ParseStatus converts a stored string into an order Status
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(s)) {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return Status(strings.ToLower(s)), nil
	default:
		return "", fmt.Errorf("unknown order status: %q", s)
	}
}

func (s Status) String() string {
	return string(s)
}

// Item is a single order line. Product-level return rates count membership
// per line item, not per distinct order.
type Item struct {
	ProductID   uuid.UUID    `json:"product_id"`
	ProductName string       `json:"product_name"`
	Quantity    int          `json:"quantity"`
	UnitPrice   values.Money `json:"unit_price"`
	TotalPrice  values.Money `json:"total_price"`
}

type Order struct {
	ID              uuid.UUID    `json:"id"`
	CustomerID      uuid.UUID    `json:"customer_id"`
	CustomerEmail   string       `json:"customer_email"`
	Items           []Item       `json:"items"`
	TotalAmount     values.Money `json:"total_amount"`
	OrderDate       time.Time    `json:"order_date"`
	Status          Status       `json:"status"`
	ShippingAddress string       `json:"shipping_address"`
	PaymentMethod   string       `json:"payment_method"`
	IsReturned      bool         `json:"is_returned"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       *time.Time   `json:"updated_at,omitempty"`
}

// NewOrder creates an order, summing the line totals into TotalAmount
func NewOrder(customerID uuid.UUID, customerEmail, shippingAddress, paymentMethod string, items []Item) (*Order, error) {
	if customerID == uuid.Nil {
		return nil, fmt.Errorf("customer id is required")
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("order requires at least one item")
	}
	if shippingAddress == "" {
		return nil, fmt.Errorf("shipping address is required")
	}

	total := values.Zero
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("item quantity must be positive")
		}
		total = total.Add(item.TotalPrice)
	}

	now := time.Now().UTC()
	return &Order{
		ID:              uuid.New(),
		CustomerID:      customerID,
		CustomerEmail:   customerEmail,
		Items:           items,
		TotalAmount:     total,
		OrderDate:       now,
		Status:          StatusPending,
		ShippingAddress: shippingAddress,
		PaymentMethod:   paymentMethod,
		CreatedAt:       now,
	}, nil
}

// DeliveryTime approximates when the order reached the customer. True
// delivery time is not tracked separately, so the last-updated timestamp
// stands in for it, falling back to the order date.
func (o *Order) DeliveryTime() time.Time {
	if o.UpdatedAt != nil {
		return *o.UpdatedAt
	}
	return o.OrderDate
}
