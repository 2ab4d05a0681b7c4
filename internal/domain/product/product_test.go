package product

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/values"
)

func TestNewProduct(t *testing.T) {
	sellerID := uuid.New()

	t.Run("derives margin", func(t *testing.T) {
		p, err := NewProduct("Laptop", "Electronics",
			values.MustNewMoneyFromFloat(1000),
			values.MustNewMoneyFromFloat(600),
			sellerID)
		require.NoError(t, err)
		assert.InDelta(t, 40.0, p.Margin, 0.001)
		assert.Equal(t, sellerID, p.SellerID)
		assert.Nil(t, p.SubCategory)
	})

	t.Run("zero price yields zero margin", func(t *testing.T) {
		p, err := NewProduct("Freebie", "Beauty", values.Zero, values.Zero, sellerID)
		require.NoError(t, err)
		assert.Zero(t, p.Margin)
	})

	t.Run("requires a name", func(t *testing.T) {
		_, err := NewProduct("", "Electronics",
			values.MustNewMoneyFromFloat(10),
			values.MustNewMoneyFromFloat(5),
			sellerID)
		assert.Error(t, err)
	})

	t.Run("cost cannot exceed price", func(t *testing.T) {
		_, err := NewProduct("Loss Leader", "Sports",
			values.MustNewMoneyFromFloat(10),
			values.MustNewMoneyFromFloat(15),
			sellerID)
		assert.Error(t, err)
	})
}
