package store

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"forex-coach/internal/models"
	"forex-coach/internal/risk"
)

// csvHeader is the column layout of a journal export.
var csvHeader = []string{
	"id", "symbol", "direction", "open_time", "close_time", "status",
	"risk_percent", "entry", "stop_loss", "take_profit", "ratio", "lots",
	"exit_price", "exit_reason", "pnl",
}

// ExportCSV writes the journal as CSV. PnL is recomputed per trade; trades
// whose PnL cannot be determined export an empty cell rather than zero.
func ExportCSV(w io.Writer, trades []models.Trade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, t := range trades {
		record := []string{
			t.ID,
			string(t.Symbol),
			string(t.Direction),
			t.OpenTimestamp.Format(time.RFC3339),
			formatTime(t.CloseTimestamp),
			string(t.Status),
			formatFloat(t.RiskPlan.RiskPercent),
			formatFloat(t.RiskPlan.EntryPrice),
			formatFloat(t.RiskPlan.StopLossPrice),
			formatFloat(t.RiskPlan.TakeProfitPrice),
			formatFloat(t.RiskPlan.RiskRewardRatio),
			formatFloat(t.RiskPlan.PositionSizeLots),
			formatFloat(t.ExitPrice),
			t.ExitReason,
			formatFloat(risk.TradePnL(t)),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
