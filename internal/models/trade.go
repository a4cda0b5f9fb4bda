package models

import (
	"fmt"
	"time"
)

// RiskPlan captures the committed sizing for a trade. It is created once by
// the calculator, attached to the trade at open time, and never mutated
// afterward except as a whole replacement. Nil fields mean "not computable"
// rather than zero.
type RiskPlan struct {
	RiskPercent      *float64
	EntryPrice       *float64
	StopLossPrice    *float64
	TakeProfitPrice  *float64
	RiskRewardRatio  *float64
	PositionSizeLots *float64
}

// Trade represents one journaled operation. A trade is created Open when a
// RiskPlan is committed and transitions to Closed exactly once, fixing
// ExitPrice, ExitReason and CloseTimestamp permanently.
type Trade struct {
	ID             string
	Symbol         Symbol
	Direction      Direction
	OpenTimestamp  time.Time
	CloseTimestamp *time.Time
	RiskPlan       RiskPlan
	Status         TradeStatus
	ExitPrice      *float64
	ExitReason     string
	Notes          []string
}

// IsClosed reports whether the trade has completed its lifecycle.
func (t *Trade) IsClosed() bool {
	return t.Status == StatusClosed
}

// ClosedAfter reports whether the trade closed at or after the given time.
// Open trades never match.
func (t *Trade) ClosedAfter(boundary time.Time) bool {
	return t.IsClosed() && t.CloseTimestamp != nil && !t.CloseTimestamp.Before(boundary)
}

// Close transitions the trade to Closed. It is an error to close a trade
// twice or to close it before it was opened.
func (t *Trade) Close(exitPrice float64, exitReason string, now time.Time) error {
	if t.IsClosed() {
		return fmt.Errorf("trade %s: already closed", t.ID)
	}
	if now.Before(t.OpenTimestamp) {
		return fmt.Errorf("trade %s: close time precedes open time", t.ID)
	}
	if exitPrice <= 0 {
		return fmt.Errorf("trade %s: exit price must be positive", t.ID)
	}
	t.Status = StatusClosed
	t.ExitPrice = &exitPrice
	t.ExitReason = exitReason
	ts := now
	t.CloseTimestamp = &ts
	return nil
}

// Float64Ptr returns a pointer to v. Convenience for building plans in
// callers and tests.
func Float64Ptr(v float64) *float64 { return &v }
