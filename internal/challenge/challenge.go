// Package challenge evaluates funded-account (prop-firm style) challenge
// progress from the trade journal.
package challenge

import (
	"math"
	"sort"
	"time"

	"forex-coach/internal/discipline"
	"forex-coach/internal/models"
	"forex-coach/internal/risk"
)

// CautionThreshold is the progress percentage above which a limit is
// considered close enough to warrant a caution status.
const CautionThreshold = 80.0

// Evaluate derives challenge metrics from the settings and the trades
// closed at or after the challenge start. It is a pure recomputation on
// demand: no intermediate state is persisted. Returns nil when the
// challenge is not configured or not active.
//
// Status precedence, first match wins: FAILED when the daily loss or total
// drawdown limit is hit; EXPIRED when the time limit elapsed short of the
// profit target; COMPLETE when the profit target and minimum trading days
// are both met; CAUTION when either loss limit is more than 80% consumed;
// otherwise PASSING. Meeting the profit target without the minimum trading
// days intentionally stays PASSING; the trader must keep trading.
func Evaluate(trades []models.Trade, settings *models.ChallengeSettings, now time.Time) *models.ChallengeMetrics {
	if settings == nil || !settings.IsActive {
		return nil
	}

	challengeTrades := filterChallengeTrades(trades, settings.StartDate)

	m := &models.ChallengeMetrics{
		MaxDailyLossAmount:     settings.AccountSize * settings.DailyLossLimitPct / 100,
		MaxTotalDrawdownAmount: settings.AccountSize * settings.MaxTotalDrawdownPct / 100,
		ProfitTargetAmount:     settings.AccountSize * settings.ProfitTargetPct / 100,
	}

	// Daily loss: net PnL of trades closed today, counted only when negative.
	startOfDay := discipline.StartOfDay(now)
	var todaysPnL float64
	for _, t := range challengeTrades {
		if !t.ClosedAfter(startOfDay) {
			continue
		}
		if pnl := risk.TradePnL(t); pnl != nil {
			todaysPnL += *pnl
		}
	}
	if todaysPnL < 0 {
		m.CurrentDailyLoss = -todaysPnL
	}
	m.DailyLossProgress = progress(m.CurrentDailyLoss, m.MaxDailyLossAmount)

	// Equity walk: running peak-to-trough drop for display, plus the
	// total-loss drawdown model (equity below starting balance) that the
	// status rules score against.
	equity := settings.AccountSize
	peak := settings.AccountSize
	for _, t := range challengeTrades {
		pnl := risk.TradePnL(t)
		if pnl == nil {
			continue
		}
		equity += *pnl
		if equity > peak {
			peak = equity
		}
		if drop := peak - equity; drop > m.MaxPeakDrawdown {
			m.MaxPeakDrawdown = drop
		}
	}

	m.NetProfit = equity - settings.AccountSize
	if m.NetProfit < 0 {
		m.CurrentTotalDrawdown = -m.NetProfit
	}
	m.TotalDrawdownProgress = progress(m.CurrentTotalDrawdown, m.MaxTotalDrawdownAmount)
	m.ProfitTargetProgress = math.Max(0, progress(m.NetProfit, m.ProfitTargetAmount))

	m.TradingDaysCount = countTradingDays(challengeTrades)
	m.DaysActive = daysActive(settings.StartDate, now)
	if settings.TimeLimitDays > 0 {
		m.DaysRemaining = settings.TimeLimitDays - m.DaysActive
		if m.DaysRemaining < 0 {
			m.DaysRemaining = 0
		}
	}

	m.Status = status(m, settings)
	return m
}

func status(m *models.ChallengeMetrics, settings *models.ChallengeSettings) models.ChallengeStatus {
	switch {
	case m.CurrentDailyLoss >= m.MaxDailyLossAmount || m.CurrentTotalDrawdown >= m.MaxTotalDrawdownAmount:
		return models.ChallengeFailed
	case settings.TimeLimitDays > 0 && m.DaysRemaining == 0 && m.NetProfit < m.ProfitTargetAmount:
		return models.ChallengeExpired
	case m.NetProfit >= m.ProfitTargetAmount && m.TradingDaysCount >= settings.MinTradingDays:
		return models.ChallengeComplete
	case m.DailyLossProgress > CautionThreshold || m.TotalDrawdownProgress > CautionThreshold:
		return models.ChallengeCaution
	default:
		return models.ChallengePassing
	}
}

// filterChallengeTrades keeps trades closed at or after the start date,
// sorted by close time.
func filterChallengeTrades(trades []models.Trade, startDate time.Time) []models.Trade {
	var out []models.Trade
	for _, t := range trades {
		if t.ClosedAfter(startDate) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CloseTimestamp.Before(*out[j].CloseTimestamp)
	})
	return out
}

// countTradingDays counts distinct local calendar days with at least one
// closed challenge trade.
func countTradingDays(trades []models.Trade) int {
	days := make(map[string]struct{})
	for _, t := range trades {
		if t.CloseTimestamp == nil {
			continue
		}
		days[t.CloseTimestamp.Format("2006-01-02")] = struct{}{}
	}
	return len(days)
}

// daysActive is the elapsed challenge time rounded up to whole days.
func daysActive(start, now time.Time) int {
	elapsed := now.Sub(start)
	if elapsed <= 0 {
		return 0
	}
	return int(math.Ceil(elapsed.Hours() / 24))
}

// progress returns current/limit as a percentage capped at 100. A
// non-positive limit reports zero.
func progress(current, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	p := current / limit * 100
	if p > 100 {
		return 100
	}
	return p
}
