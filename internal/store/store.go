// Package store provides trade journal persistence interfaces and
// implementations.
package store

import (
	"context"
	"time"

	"forex-coach/internal/discipline"
	"forex-coach/internal/models"
)

// TradeStore defines the interface for journal persistence.
type TradeStore interface {
	// Trades
	SaveTrade(ctx context.Context, trade *models.Trade) error
	UpdateTrade(ctx context.Context, trade *models.Trade) error
	GetTrade(ctx context.Context, id string) (*models.Trade, error)
	ListTrades(ctx context.Context, filter TradeFilter) ([]models.Trade, error)
	AppendNote(ctx context.Context, tradeID, note string) error

	// Discipline state
	SaveDisciplineState(ctx context.Context, state discipline.State) error
	LoadDisciplineState(ctx context.Context) (discipline.State, error)

	// Lifecycle
	Close() error
}

// TradeFilter represents filters for querying trades.
type TradeFilter struct {
	Symbol      models.Symbol
	Status      models.TradeStatus
	ClosedSince time.Time
	Limit       int
}

// Matches reports whether a trade passes the filter.
func (f TradeFilter) Matches(t *models.Trade) bool {
	if f.Symbol != "" && t.Symbol != f.Symbol {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if !f.ClosedSince.IsZero() && !t.ClosedAfter(f.ClosedSince) {
		return false
	}
	return true
}
