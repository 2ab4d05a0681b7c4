package values

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money represents a non-negative USD monetary value. Order totals and refund
// amounts are stored as Money so aggregation sums never accumulate float error.
type Money struct {
	amount decimal.Decimal
}

// Zero is the zero monetary value.
var Zero = Money{amount: decimal.Zero}

// NewMoney creates a Money value object
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, fmt.Errorf("amount cannot be negative: %s", amount)
	}
	return Money{amount: amount}, nil
}

// NewMoneyFromFloat creates Money from a float64 amount
func NewMoneyFromFloat(amount float64) (Money, error) {
	return NewMoney(decimal.NewFromFloat(amount))
}

// NewMoneyFromString creates Money from a decimal string, as read back from
// the database.
func NewMoneyFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid money value %q: %w", amount, err)
	}
	return NewMoney(d)
}

// MustNewMoneyFromFloat creates Money from a float64 and panics on a negative
// amount. For tests and seed data only.
func MustNewMoneyFromFloat(amount float64) Money {
	m, err := NewMoneyFromFloat(amount)
	if err != nil {
		panic(err)
	}
	return m
}

// Amount returns the underlying decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Float64 returns the amount as float64. Scoring math works in float space;
// the conversion happens only at that boundary.
func (m Money) Float64() float64 {
	return m.amount.InexactFloat64()
}

// Add returns the sum of two Money values
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// GreaterThan reports whether m exceeds other
func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

// IsZero reports whether the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// String formats the amount with two decimal places
func (m Money) String() string {
	return m.amount.StringFixed(2)
}

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	f, _ := m.amount.Round(2).Float64()
	return json.Marshal(f)
}

// UnmarshalJSON implements json.Unmarshaler
func (m *Money) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	parsed, err := NewMoneyFromFloat(f)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer for database storage
func (m Money) Value() (driver.Value, error) {
	return m.amount.StringFixed(2), nil
}

// Scan implements sql.Scanner for database retrieval
func (m *Money) Scan(value interface{}) error {
	if value == nil {
		*m = Zero
		return nil
	}

	var dec decimal.Decimal
	switch v := value.(type) {
	case string:
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("invalid money value %q: %w", v, err)
		}
		dec = parsed
	case []byte:
		parsed, err := decimal.NewFromString(string(v))
		if err != nil {
			return fmt.Errorf("invalid money value %q: %w", v, err)
		}
		dec = parsed
	case float64:
		dec = decimal.NewFromFloat(v)
	case int64:
		dec = decimal.NewFromInt(v)
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}

	*m = Money{amount: dec}
	return nil
}
