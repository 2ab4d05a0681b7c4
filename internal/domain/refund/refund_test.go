package refund

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/values"
)

func TestNewRefund(t *testing.T) {
	amount := values.MustNewMoneyFromFloat(47.50)

	t.Run("opens pending", func(t *testing.T) {
		r, err := NewRefund(uuid.New(), uuid.New(), uuid.New(), amount, "Store Credit")
		require.NoError(t, err)
		assert.Equal(t, StatusPending, r.Status)
		assert.Nil(t, r.ProcessedDate)
		assert.Nil(t, r.ProcessingTimeDays)
	})

	t.Run("requires all ids", func(t *testing.T) {
		_, err := NewRefund(uuid.Nil, uuid.New(), uuid.New(), amount, "Store Credit")
		assert.Error(t, err)
		_, err = NewRefund(uuid.New(), uuid.Nil, uuid.New(), amount, "Store Credit")
		assert.Error(t, err)
		_, err = NewRefund(uuid.New(), uuid.New(), uuid.Nil, amount, "Store Credit")
		assert.Error(t, err)
	})
}

func TestMarkProcessed(t *testing.T) {
	amount := values.MustNewMoneyFromFloat(20)

	t.Run("records processing time", func(t *testing.T) {
		r, err := NewRefund(uuid.New(), uuid.New(), uuid.New(), amount, "Bank Transfer")
		require.NoError(t, err)

		processedAt := r.RequestedDate.Add(5 * 24 * time.Hour)
		require.NoError(t, r.MarkProcessed(processedAt))

		assert.Equal(t, StatusProcessed, r.Status)
		require.NotNil(t, r.ProcessedDate)
		assert.Equal(t, processedAt, *r.ProcessedDate)
		require.NotNil(t, r.ProcessingTimeDays)
		assert.Equal(t, 5, *r.ProcessingTimeDays)
	})

	t.Run("rejected refunds stay rejected", func(t *testing.T) {
		r, err := NewRefund(uuid.New(), uuid.New(), uuid.New(), amount, "Bank Transfer")
		require.NoError(t, err)
		r.Status = StatusRejected

		err = r.MarkProcessed(time.Now())
		assert.Error(t, err)
		assert.Equal(t, StatusRejected, r.Status)
	})
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    Status
		wantErr bool
	}{
		{input: "pending", want: StatusPending},
		{input: "Approved", want: StatusApproved},
		{input: "PROCESSED", want: StatusProcessed},
		{input: "rejected", want: StatusRejected},
		{input: "voided", wantErr: true},
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
