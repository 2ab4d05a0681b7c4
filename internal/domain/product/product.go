package product

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/values"
)

type Product struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Category    string       `json:"category"`
	SubCategory *string      `json:"sub_category,omitempty"`
	Price       values.Money `json:"price"`
	Cost        values.Money `json:"cost"`
	Margin      float64      `json:"margin"`
	SellerID    uuid.UUID    `json:"seller_id"`
	CreatedAt   time.Time    `json:"created_at"`
}

// NewProduct creates a product, deriving the margin from price and cost
func NewProduct(name, category string, price, cost values.Money, sellerID uuid.UUID) (*Product, error) {
	if name == "" {
		return nil, fmt.Errorf("product name is required")
	}
	if cost.GreaterThan(price) {
		return nil, fmt.Errorf("cost %s exceeds price %s", cost, price)
	}

	margin := 0.0
	if !price.IsZero() {
		margin = (price.Float64() - cost.Float64()) / price.Float64() * 100
	}

	return &Product{
		ID:        uuid.New(),
		Name:      name,
		Category:  category,
		Price:     price,
		Cost:      cost,
		Margin:    margin,
		SellerID:  sellerID,
		CreatedAt: time.Now().UTC(),
	}, nil
}
