package fraud

import (
	"fmt"
	"math"

	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/customer"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/infrastructure/config"
)

// Score evaluates a signal bundle against the configured thresholds. Pure
// function: same bundle and thresholds always produce the same result. A nil
// bundle (customer with no orders) scores zero at LOW risk.
func Score(bundle *SignalBundle, cfg config.FraudConfig) ScoreResult {
	if bundle == nil {
		return ScoreResult{Score: 0, Indicators: []string{}, RiskLevel: customer.RiskLevelLow}
	}

	score := 0.0
	indicators := []string{}

	if bundle.ReturnRate > cfg.HighReturnRateThreshold {
		score += math.Min(ReturnRateFactorCap, bundle.ReturnRate*ReturnRateMultiplier)
		indicators = append(indicators,
			fmt.Sprintf("High return rate: %.2f%%", bundle.ReturnRate*100))
	}

	if bundle.RecentReturns30d > cfg.RecentReturnsThreshold {
		score += math.Min(FrequencyFactorCap, float64(bundle.RecentReturns30d)*FrequencyMultiplier)
		indicators = append(indicators,
			fmt.Sprintf("Frequent returner: %d returns in 30 days", bundle.RecentReturns30d))
	}

	if bundle.AvgReturnValue > cfg.HighValueReturnThreshold {
		score += math.Min(ReturnValueFactorCap,
			(bundle.AvgReturnValue/cfg.HighValueReturnThreshold)*ReturnValueMultiplier)
		indicators = append(indicators,
			fmt.Sprintf("High-value returns: avg $%.2f", bundle.AvgReturnValue))
	}

	if bundle.RapidReturnCount > 0 {
		score += math.Min(RapidReturnFactorCap, float64(bundle.RapidReturnCount)*RapidReturnMultiplier)
		indicators = append(indicators,
			fmt.Sprintf("Rapid returns: %d returns within 24h of delivery", bundle.RapidReturnCount))
	}

	if bundle.SuspiciousReasonCount > cfg.SuspiciousReasonsThreshold {
		score += math.Min(SuspiciousReasonFactorCap,
			float64(bundle.SuspiciousReasonCount)*SuspiciousReasonMultiplier)
		indicators = append(indicators,
			fmt.Sprintf("Suspicious return reasons: %d occurrences", bundle.SuspiciousReasonCount))
	}

	score = math.Min(MaxScore, score)

	return ScoreResult{
		Score:      score,
		Indicators: indicators,
		RiskLevel:  RiskLevelForScore(score),
	}
}

// RiskLevelForScore maps a fraud score to its risk band
func RiskLevelForScore(score float64) customer.RiskLevel {
	switch {
	case score >= CriticalScoreCutoff:
		return customer.RiskLevelCritical
	case score >= HighScoreCutoff:
		return customer.RiskLevelHigh
	case score >= MediumScoreCutoff:
		return customer.RiskLevelMedium
	default:
		return customer.RiskLevelLow
	}
}
