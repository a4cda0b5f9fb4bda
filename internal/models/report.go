package models

import "time"

// PerformanceReport aggregates closed-trade statistics from the journal.
type PerformanceReport struct {
	Summary     PerformanceSummary
	EquityCurve []EquityPoint

	BySymbol    []BucketPnL
	ByDirection []BucketPnL
	ByWeekday   []BucketPnL
	ByMonth     []MonthlyPnL
}

// PerformanceSummary holds headline statistics.
type PerformanceSummary struct {
	TotalTrades     int
	WinningTrades   int
	LosingTrades    int
	WinRate         float64 // 0-100
	GrossProfit     float64
	GrossLoss       float64 // negative or zero
	TotalNetProfit  float64
	ProfitFactor    float64
	AverageWin      float64
	AverageLoss     float64 // negative or zero
	BestTrade       float64
	WorstTrade      float64
	MaxConsecWins   int
	MaxConsecLosses int
	MaxDrawdownPct  float64
	AvgHoldDuration time.Duration
}

// EquityPoint is one step of the running balance walk.
type EquityPoint struct {
	Time    time.Time
	Balance float64
}

// BucketPnL is a labelled profit/loss aggregate.
type BucketPnL struct {
	Label string
	PnL   float64
}

// MonthlyPnL is a per-calendar-month aggregate.
type MonthlyPnL struct {
	Year  int
	Month time.Month
	PnL   float64
}
