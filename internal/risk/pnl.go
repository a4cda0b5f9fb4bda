package risk

import (
	"forex-coach/internal/models"
)

// TradePnL computes the realized profit/loss of a closed trade in USD.
//
// It returns nil when the trade is not closed or any required plan field is
// missing; callers must treat nil as "not yet determinable", never as
// zero.
//
// The pip value per standard lot is converted into USD with the same
// quote/base/cross logic as the sizing calculator; a cross pair with no
// rate context is approximated 1:1, an accepted simplification for the
// journal rather than a verified conversion. This is the single PnL
// implementation used by statistics, discipline and challenge evaluation
// alike so single-trade and aggregate views can never disagree.
func TradePnL(t models.Trade) *float64 {
	return TradePnLWithRates(t, nil)
}

// TradePnLWithRates is TradePnL with an optional rate snapshot for
// cross-pair conversion.
func TradePnLWithRates(t models.Trade, rates models.RateTable) *float64 {
	if !t.IsClosed() ||
		t.ExitPrice == nil ||
		t.RiskPlan.EntryPrice == nil ||
		t.RiskPlan.PositionSizeLots == nil {
		return nil
	}

	entry := *t.RiskPlan.EntryPrice
	exit := *t.ExitPrice
	lots := *t.RiskPlan.PositionSizeLots

	var pips float64
	if t.Direction == models.DirectionLong {
		pips = (exit - entry) * t.Symbol.PipMultiplier()
	} else {
		pips = (entry - exit) * t.Symbol.PipMultiplier()
	}

	pipValueQuote := t.Symbol.PipValuePerLot()
	pipValueUSD, _ := quoteToUSD(pipValueQuote, t.Symbol, exit, rates)
	if pipValueUSD <= 0 {
		return nil
	}

	pnl := pips * pipValueUSD * lots
	return &pnl
}
