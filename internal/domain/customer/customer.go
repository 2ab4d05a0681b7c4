package customer

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RiskLevel classifies a customer by fraud score. It is derived solely from
// the numeric score via fixed bands; nothing else feeds into it.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

// ParseRiskLevel converts a stored string into a RiskLevel
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch RiskLevel(strings.ToLower(s)) {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh, RiskLevelCritical:
		return RiskLevel(strings.ToLower(s)), nil
	default:
		return "", fmt.Errorf("unknown risk level: %q", s)
	}
}

func (r RiskLevel) String() string {
	return string(r)
}

type Customer struct {
	ID               uuid.UUID  `json:"id"`
	Email            string     `json:"email"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	Phone            *string    `json:"phone,omitempty"`
	RegistrationDate time.Time  `json:"registration_date"`
	TotalOrders      int        `json:"total_orders"`
	TotalReturns     int        `json:"total_returns"`
	ReturnRate       float64    `json:"return_rate"`
	FraudScore       float64    `json:"fraud_score"`
	RiskLevel        RiskLevel  `json:"risk_level"`
	IsBlacklisted    bool       `json:"is_blacklisted"`
	CreatedAt        time.Time  `json:"created_at"`
}

// NewCustomer creates a customer with a fresh identity and a clean risk slate
func NewCustomer(email, firstName, lastName string) (*Customer, error) {
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email: %q", email)
	}
	if firstName == "" || lastName == "" {
		return nil, fmt.Errorf("first and last name are required")
	}

	now := time.Now().UTC()
	return &Customer{
		ID:               uuid.New(),
		Email:            strings.ToLower(email),
		FirstName:        firstName,
		LastName:         lastName,
		RegistrationDate: now,
		RiskLevel:        RiskLevelLow,
		CreatedAt:        now,
	}, nil
}
