package discipline

import (
	"fmt"
	"time"

	"forex-coach/internal/models"
	"forex-coach/internal/risk"
)

// Limits configures the loss-limit circuit breaker. Percentages of account
// balance; a value of zero or less disables that limit.
type Limits struct {
	DailyLossPct  float64
	WeeklyLossPct float64
}

// Lock is the derived lockout status. It is recomputed from the trade
// history on every relevant state change, never stored, so it resets
// implicitly when the day or week boundary passes.
type Lock struct {
	Locked bool
	Reason string
}

// StartOfDay returns local midnight for the given time.
func StartOfDay(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// StartOfWeek returns the most recent Monday 00:00 local. Sunday counts as
// six days since Monday.
func StartOfWeek(now time.Time) time.Time {
	daysSinceMonday := int(now.Weekday()) - 1
	if now.Weekday() == time.Sunday {
		daysSinceMonday = 6
	}
	return StartOfDay(now).AddDate(0, 0, -daysSinceMonday)
}

// LockStatus derives whether trading is locked out by the daily or weekly
// loss limit. The daily limit is checked first. Disabled limits or a
// non-positive balance never lock.
func LockStatus(trades []models.Trade, limits Limits, balance float64, now time.Time) Lock {
	if balance <= 0 || (limits.DailyLossPct <= 0 && limits.WeeklyLossPct <= 0) {
		return Lock{}
	}

	startOfDay := StartOfDay(now)
	startOfWeek := StartOfWeek(now)

	var dailyPnL, weeklyPnL float64
	for _, t := range trades {
		pnl := risk.TradePnL(t)
		if pnl == nil {
			continue
		}
		if t.ClosedAfter(startOfWeek) {
			weeklyPnL += *pnl
		}
		if t.ClosedAfter(startOfDay) {
			dailyPnL += *pnl
		}
	}

	if limits.DailyLossPct > 0 {
		dailyLossAmount := balance * limits.DailyLossPct / 100
		if dailyPnL <= -dailyLossAmount {
			return Lock{
				Locked: true,
				Reason: fmt.Sprintf("daily loss limit (%.4g%%) reached; trading resumes tomorrow", limits.DailyLossPct),
			}
		}
	}

	if limits.WeeklyLossPct > 0 {
		weeklyLossAmount := balance * limits.WeeklyLossPct / 100
		if weeklyPnL <= -weeklyLossAmount {
			return Lock{
				Locked: true,
				Reason: fmt.Sprintf("weekly loss limit (%.4g%%) reached; trading resumes next week", limits.WeeklyLossPct),
			}
		}
	}

	return Lock{}
}
