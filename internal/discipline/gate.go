package discipline

import (
	"fmt"
	"time"

	"forex-coach/internal/models"
)

// Gate validates whether new trade analysis may begin. The cooldown is
// checked before the loss-limit lock: while a cooldown is in the future,
// selecting a pair is rejected regardless of any other gate.
type Gate struct {
	Limits Limits
}

// NewGate creates a gate with the given loss limits.
func NewGate(limits Limits) *Gate {
	return &Gate{Limits: limits}
}

// GateResult contains the result of a gate check.
type GateResult struct {
	Allowed      bool
	BlockReason  string
	ChecksPassed []string
	ChecksFailed []string
}

// Check determines whether a new pair may be selected for analysis.
func (g *Gate) Check(state State, trades []models.Trade, balance float64, now time.Time) GateResult {
	result := GateResult{Allowed: true}

	// Check 1: cooldown after a losing trade
	if state.InCooldown(now) {
		result.Allowed = false
		result.BlockReason = fmt.Sprintf("cooldown active for another %s",
			state.CooldownRemaining(now).Round(time.Second))
		result.ChecksFailed = append(result.ChecksFailed, "cooldown")
		return result
	}
	result.ChecksPassed = append(result.ChecksPassed, "cooldown")

	// Check 2: daily/weekly loss-limit lockout
	lock := LockStatus(trades, g.Limits, balance, now)
	if lock.Locked {
		result.Allowed = false
		result.BlockReason = lock.Reason
		result.ChecksFailed = append(result.ChecksFailed, "loss_limit")
		return result
	}
	result.ChecksPassed = append(result.ChecksPassed, "loss_limit")

	return result
}
