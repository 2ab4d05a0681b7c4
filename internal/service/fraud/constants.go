package fraud

// Scoring factor caps and weights. Factor contributions are additive and
// separately capped; the final score clamps to [0, 100].
const (
	ReturnRateFactorCap       = 30.0
	ReturnRateMultiplier      = 100.0
	FrequencyFactorCap        = 25.0
	FrequencyMultiplier       = 4.0
	ReturnValueFactorCap      = 20.0
	ReturnValueMultiplier     = 10.0
	RapidReturnFactorCap      = 15.0
	RapidReturnMultiplier     = 7.0
	SuspiciousReasonFactorCap = 10.0
	SuspiciousReasonMultiplier = 2.0

	MaxScore = 100.0

	CriticalScoreCutoff = 70.0
	HighScoreCutoff     = 50.0
	MediumScoreCutoff   = 25.0

	// RecentReturnWindowDays is the lookback for the frequency factor
	RecentReturnWindowDays = 30

	// RapidReturnWindowHours bounds how soon after delivery a return counts
	// as rapid
	RapidReturnWindowHours = 24
)

// Pattern type identifiers emitted by the detectors
const (
	PatternMassReturn   = "mass_return_event"
	PatternFraudRing    = "potential_fraud_ring"
	PatternProductAbuse = "product_return_abuse"
)

// SystemSubject marks patterns that indict a product rather than a customer
const SystemSubject = "SYSTEM"
