package models

import "time"

// ChallengeStatus represents the evaluation state of a funded-account
// challenge.
type ChallengeStatus string

const (
	ChallengePassing  ChallengeStatus = "PASSING"
	ChallengeCaution  ChallengeStatus = "CAUTION"
	ChallengeFailed   ChallengeStatus = "FAILED"
	ChallengeComplete ChallengeStatus = "COMPLETE"
	ChallengeExpired  ChallengeStatus = "EXPIRED"
)

// ChallengeSettings configures a prop-firm style evaluation. Created once
// when challenge mode is enabled; read-only thereafter except toggling
// IsActive off. MinTradingDays and TimeLimitDays of zero mean the rule is
// not enforced.
type ChallengeSettings struct {
	IsActive            bool
	StartDate           time.Time
	AccountSize         float64
	DailyLossLimitPct   float64
	MaxTotalDrawdownPct float64
	ProfitTargetPct     float64
	MinTradingDays      int
	TimeLimitDays       int
}

// DefaultChallengeSettings returns the usual funded-account rule set.
func DefaultChallengeSettings() ChallengeSettings {
	return ChallengeSettings{
		DailyLossLimitPct:   5,
		MaxTotalDrawdownPct: 10,
		ProfitTargetPct:     8,
	}
}

// ChallengeMetrics is fully derived from ChallengeSettings plus the trades
// closed at or after StartDate; it has no independent lifecycle.
type ChallengeMetrics struct {
	CurrentDailyLoss   float64
	MaxDailyLossAmount float64
	DailyLossProgress  float64 // 0-100

	CurrentTotalDrawdown   float64
	MaxTotalDrawdownAmount float64
	TotalDrawdownProgress  float64 // 0-100

	// MaxPeakDrawdown is the largest peak-to-trough equity drop observed
	// over the challenge, reported for display alongside the total-loss
	// drawdown model used for status.
	MaxPeakDrawdown float64

	NetProfit            float64
	ProfitTargetAmount   float64
	ProfitTargetProgress float64 // 0-100

	TradingDaysCount int
	DaysActive       int
	DaysRemaining    int

	Status ChallengeStatus
}
