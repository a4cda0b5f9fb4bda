// Package discipline enforces trading-discipline guardrails: the dynamic
// risk ratchet, the post-loss cooldown, and the daily/weekly loss-limit
// circuit breaker.
package discipline

import (
	"time"

	"forex-coach/internal/models"
	"forex-coach/internal/risk"
)

const (
	// RiskStep is the fixed increment the dynamic risk percentage moves by
	// per closed trade.
	RiskStep = 0.25
	// MinRiskPercent and MaxRiskPercent bound the ratchet.
	MinRiskPercent = 0.25
	MaxRiskPercent = 1.0
	// CooldownDuration is the mandatory pause after a losing trade.
	CooldownDuration = 15 * time.Minute
)

// State is the serializable discipline state owned by the session. It is
// mutated only as a side effect of a trade transitioning to Closed.
type State struct {
	// RiskPercent is the recommended risk percentage, always a multiple of
	// RiskStep within [MinRiskPercent, MaxRiskPercent].
	RiskPercent float64
	// CooldownUntil is non-nil while new trade analysis is blocked.
	CooldownUntil *time.Time
}

// DefaultState returns the starting discipline state: the ratchet at its
// floor and no cooldown.
func DefaultState() State {
	return State{RiskPercent: MinRiskPercent}
}

// Clamp snaps the risk percentage into its legal range. Used when loading
// persisted state.
func (s State) Clamp() State {
	if s.RiskPercent < MinRiskPercent {
		s.RiskPercent = MinRiskPercent
	}
	if s.RiskPercent > MaxRiskPercent {
		s.RiskPercent = MaxRiskPercent
	}
	return s
}

// InCooldown reports whether the cooldown is active at the given time.
func (s State) InCooldown(now time.Time) bool {
	return s.CooldownUntil != nil && now.Before(*s.CooldownUntil)
}

// CooldownRemaining returns how long the cooldown has left, or zero.
func (s State) CooldownRemaining(now time.Time) time.Duration {
	if !s.InCooldown(now) {
		return 0
	}
	return s.CooldownUntil.Sub(now)
}

// ApplyTradeClosed returns the state after a trade transitions to Closed.
// A win steps the risk percentage up, a loss steps it down and starts a
// cooldown anchored at the wall-clock now (not backdated to the trade's
// close timestamp). A zero or indeterminable PnL leaves the state
// untouched. Called exactly once per trade, at the moment of closing.
func ApplyTradeClosed(t models.Trade, s State, now time.Time) State {
	pnl := risk.TradePnL(t)
	if pnl == nil || *pnl == 0 {
		return s
	}

	if *pnl > 0 {
		s.RiskPercent += RiskStep
		if s.RiskPercent > MaxRiskPercent {
			s.RiskPercent = MaxRiskPercent
		}
		return s
	}

	s.RiskPercent -= RiskStep
	if s.RiskPercent < MinRiskPercent {
		s.RiskPercent = MinRiskPercent
	}
	until := now.Add(CooldownDuration)
	s.CooldownUntil = &until
	return s
}

// ExpireCooldown clears an elapsed cooldown. The bool is true exactly when
// the cooldown ended on this call, giving the caller its one-time
// notification signal.
func ExpireCooldown(s State, now time.Time) (State, bool) {
	if s.CooldownUntil == nil || now.Before(*s.CooldownUntil) {
		return s, false
	}
	s.CooldownUntil = nil
	return s, true
}
