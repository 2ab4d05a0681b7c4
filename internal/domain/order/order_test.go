package order

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/values"
)

func testItems() []Item {
	return []Item{
		{
			ProductID:   uuid.New(),
			ProductName: "Widget",
			Quantity:    2,
			UnitPrice:   values.MustNewMoneyFromFloat(10),
			TotalPrice:  values.MustNewMoneyFromFloat(20),
		},
		{
			ProductID:   uuid.New(),
			ProductName: "Gadget",
			Quantity:    1,
			UnitPrice:   values.MustNewMoneyFromFloat(5.50),
			TotalPrice:  values.MustNewMoneyFromFloat(5.50),
		},
	}
}

func TestNewOrder(t *testing.T) {
	customerID := uuid.New()

	t.Run("sums line totals", func(t *testing.T) {
		o, err := NewOrder(customerID, "c@example.com", "1 Main St", "Credit Card", testItems())
		require.NoError(t, err)
		assert.Equal(t, StatusPending, o.Status)
		assert.InDelta(t, 25.50, o.TotalAmount.Float64(), 0.001)
		assert.False(t, o.IsReturned)
		assert.Nil(t, o.UpdatedAt)
	})

	t.Run("requires customer id", func(t *testing.T) {
		_, err := NewOrder(uuid.Nil, "c@example.com", "1 Main St", "Credit Card", testItems())
		assert.Error(t, err)
	})

	t.Run("requires items", func(t *testing.T) {
		_, err := NewOrder(customerID, "c@example.com", "1 Main St", "Credit Card", nil)
		assert.Error(t, err)
	})

	t.Run("requires shipping address", func(t *testing.T) {
		_, err := NewOrder(customerID, "c@example.com", "", "Credit Card", testItems())
		assert.Error(t, err)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		items := testItems()
		items[0].Quantity = 0
		_, err := NewOrder(customerID, "c@example.com", "1 Main St", "Credit Card", items)
		assert.Error(t, err)
	})
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    Status
		wantErr bool
	}{
		{input: "pending", want: StatusPending},
		{input: "Confirmed", want: StatusConfirmed},
		{input: "SHIPPED", want: StatusShipped},
		{input: "delivered", want: StatusDelivered},
		{input: "cancelled", want: StatusCancelled},
		{input: "lost", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeliveryTime(t *testing.T) {
	o, err := NewOrder(uuid.New(), "c@example.com", "1 Main St", "PayPal", testItems())
	require.NoError(t, err)

	assert.Equal(t, o.OrderDate, o.DeliveryTime(), "falls back to order date")

	delivered := o.OrderDate.Add(72 * time.Hour)
	o.UpdatedAt = &delivered
	assert.Equal(t, delivered, o.DeliveryTime())
}
