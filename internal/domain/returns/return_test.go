package returns

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/order"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/values"
)

func testOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(uuid.New(), "c@example.com", "1 Main St", "Credit Card", []order.Item{
		{
			ProductID:   uuid.New(),
			ProductName: "Widget",
			Quantity:    2,
			UnitPrice:   values.MustNewMoneyFromFloat(40),
			TotalPrice:  values.MustNewMoneyFromFloat(80),
		},
	})
	require.NoError(t, err)
	return o
}

func TestNewReturn(t *testing.T) {
	o := testOrder(t)
	item := o.Items[0]
	refundAmount := values.MustNewMoneyFromFloat(76)

	t.Run("links to the order", func(t *testing.T) {
		r, err := NewReturn(o, item.ProductID, item.ProductName, 1,
			ReasonDefective, o.OrderDate.AddDate(0, 0, 5), refundAmount)
		require.NoError(t, err)
		assert.Equal(t, o.ID, r.OrderID)
		assert.Equal(t, o.CustomerID, r.CustomerID)
		assert.Equal(t, o.CustomerEmail, r.CustomerEmail)
		assert.False(t, r.IsFraudSuspected)
		assert.Empty(t, r.FraudIndicators)
	})

	t.Run("requires an order", func(t *testing.T) {
		_, err := NewReturn(nil, item.ProductID, item.ProductName, 1,
			ReasonDefective, time.Now(), refundAmount)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewReturn(o, item.ProductID, item.ProductName, 0,
			ReasonDefective, o.OrderDate.AddDate(0, 0, 5), refundAmount)
		assert.Error(t, err)
	})

	t.Run("return cannot predate the order", func(t *testing.T) {
		_, err := NewReturn(o, item.ProductID, item.ProductName, 1,
			ReasonDefective, o.OrderDate.AddDate(0, 0, -1), refundAmount)
		assert.Error(t, err)
	})
}

func TestParseReason(t *testing.T) {
	tests := []struct {
		input   string
		want    Reason
		wantErr bool
	}{
		{input: "defective", want: ReasonDefective},
		{input: "Size_Issue", want: ReasonSizeIssue},
		{input: "NOT_AS_DESCRIBED", want: ReasonNotAsDescribed},
		{input: "changed_mind", want: ReasonChangedMind},
		{input: "late_delivery", want: ReasonLateDelivery},
		{input: "damaged_shipping", want: ReasonDamagedShipping},
		{input: "duplicate_order", want: ReasonDuplicateOrder},
		{input: "no_reason", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseReason(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
