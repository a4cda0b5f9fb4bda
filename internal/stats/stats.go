// Package stats aggregates closed-trade performance statistics from the
// trade journal.
package stats

import (
	"math"
	"sort"
	"time"

	"forex-coach/internal/models"
	"forex-coach/internal/risk"
)

// closedTrade pairs a trade with its computed PnL so every aggregate below
// works from the same number.
type closedTrade struct {
	models.Trade
	pnl float64
}

// BuildReport computes the full performance report over the journal.
// Trades whose PnL cannot be determined (missing plan fields) are skipped
// rather than counted as zero. All PnL figures come from risk.TradePnL,
// the single implementation shared with single-trade display, so the
// aggregate and per-trade views can never diverge.
func BuildReport(trades []models.Trade, initialBalance float64) models.PerformanceReport {
	closed := collectClosed(trades)

	var report models.PerformanceReport
	report.Summary = summarize(closed)
	report.EquityCurve, report.Summary.MaxDrawdownPct = equityCurve(closed, initialBalance)
	report.BySymbol, report.ByDirection, report.ByWeekday, report.ByMonth = buckets(closed)
	report.Summary.AvgHoldDuration = avgHold(closed)
	return report
}

func collectClosed(trades []models.Trade) []closedTrade {
	var out []closedTrade
	for _, t := range trades {
		pnl := risk.TradePnL(t)
		if pnl == nil {
			continue
		}
		out = append(out, closedTrade{Trade: t, pnl: *pnl})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CloseTimestamp.Before(*out[j].CloseTimestamp)
	})
	return out
}

func summarize(closed []closedTrade) models.PerformanceSummary {
	var s models.PerformanceSummary
	s.TotalTrades = len(closed)

	var winStreak, lossStreak int
	for _, t := range closed {
		switch {
		case t.pnl > 0:
			s.WinningTrades++
			s.GrossProfit += t.pnl
			winStreak++
			lossStreak = 0
		case t.pnl < 0:
			s.LosingTrades++
			s.GrossLoss += t.pnl
			lossStreak++
			winStreak = 0
		}
		if winStreak > s.MaxConsecWins {
			s.MaxConsecWins = winStreak
		}
		if lossStreak > s.MaxConsecLosses {
			s.MaxConsecLosses = lossStreak
		}
		if t.pnl > s.BestTrade {
			s.BestTrade = t.pnl
		}
		if t.pnl < s.WorstTrade {
			s.WorstTrade = t.pnl
		}
	}

	s.TotalNetProfit = s.GrossProfit + s.GrossLoss
	if s.GrossLoss != 0 {
		s.ProfitFactor = math.Abs(s.GrossProfit / s.GrossLoss)
	}
	if s.TotalTrades > 0 {
		s.WinRate = float64(s.WinningTrades) / float64(s.TotalTrades) * 100
	}
	if s.WinningTrades > 0 {
		s.AverageWin = s.GrossProfit / float64(s.WinningTrades)
	}
	if s.LosingTrades > 0 {
		s.AverageLoss = s.GrossLoss / float64(s.LosingTrades)
	}
	return s
}

// equityCurve walks the running balance and reports the maximum
// peak-to-trough drawdown as a percentage of the peak equity.
func equityCurve(closed []closedTrade, initialBalance float64) ([]models.EquityPoint, float64) {
	var curve []models.EquityPoint
	balance := initialBalance
	peak := initialBalance
	var maxDrawdownPct float64

	for _, t := range closed {
		balance += t.pnl
		curve = append(curve, models.EquityPoint{Time: *t.CloseTimestamp, Balance: balance})
		if balance > peak {
			peak = balance
		}
		if peak > 0 {
			if dd := (peak - balance) / peak * 100; dd > maxDrawdownPct {
				maxDrawdownPct = dd
			}
		}
	}
	return curve, maxDrawdownPct
}

func buckets(closed []closedTrade) (bySymbol, byDirection, byWeekday []models.BucketPnL, byMonth []models.MonthlyPnL) {
	symbolPnL := make(map[string]float64)
	directionPnL := map[string]float64{
		string(models.DirectionLong):  0,
		string(models.DirectionShort): 0,
	}
	weekdayPnL := make(map[time.Weekday]float64)
	type monthKey struct {
		year  int
		month time.Month
	}
	monthPnL := make(map[monthKey]float64)

	for _, t := range closed {
		symbolPnL[string(t.Symbol)] += t.pnl
		directionPnL[string(t.Direction)] += t.pnl
		weekdayPnL[t.CloseTimestamp.Weekday()] += t.pnl
		monthPnL[monthKey{t.CloseTimestamp.Year(), t.CloseTimestamp.Month()}] += t.pnl
	}

	for label, pnl := range symbolPnL {
		bySymbol = append(bySymbol, models.BucketPnL{Label: label, PnL: pnl})
	}
	sort.Slice(bySymbol, func(i, j int) bool { return bySymbol[i].Label < bySymbol[j].Label })

	byDirection = []models.BucketPnL{
		{Label: string(models.DirectionLong), PnL: directionPnL[string(models.DirectionLong)]},
		{Label: string(models.DirectionShort), PnL: directionPnL[string(models.DirectionShort)]},
	}

	for day := time.Sunday; day <= time.Saturday; day++ {
		if pnl, ok := weekdayPnL[day]; ok {
			byWeekday = append(byWeekday, models.BucketPnL{Label: day.String(), PnL: pnl})
		}
	}

	for key, pnl := range monthPnL {
		byMonth = append(byMonth, models.MonthlyPnL{Year: key.year, Month: key.month, PnL: pnl})
	}
	sort.Slice(byMonth, func(i, j int) bool {
		if byMonth[i].Year != byMonth[j].Year {
			return byMonth[i].Year < byMonth[j].Year
		}
		return byMonth[i].Month < byMonth[j].Month
	})

	return bySymbol, byDirection, byWeekday, byMonth
}

func avgHold(closed []closedTrade) time.Duration {
	if len(closed) == 0 {
		return 0
	}
	var total time.Duration
	for _, t := range closed {
		total += t.CloseTimestamp.Sub(t.OpenTimestamp)
	}
	return total / time.Duration(len(closed))
}
