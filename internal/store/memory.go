package store

import (
	"context"
	"sort"
	"sync"

	"forex-coach/internal/discipline"
	"forex-coach/internal/errors"
	"forex-coach/internal/models"
)

// MemoryStore is an in-memory TradeStore for tests and dry runs.
type MemoryStore struct {
	mu       sync.RWMutex
	trades   map[string]models.Trade
	state    discipline.State
	hasState bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{trades: make(map[string]models.Trade)}
}

// SaveTrade inserts a new trade record.
func (m *MemoryStore) SaveTrade(_ context.Context, trade *models.Trade) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trades[trade.ID] = *trade
	return nil
}

// UpdateTrade rewrites an existing trade record.
func (m *MemoryStore) UpdateTrade(_ context.Context, trade *models.Trade) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trades[trade.ID]; !ok {
		return errors.ErrTradeNotFound
	}
	m.trades[trade.ID] = *trade
	return nil
}

// GetTrade retrieves a trade by ID.
func (m *MemoryStore) GetTrade(_ context.Context, id string) (*models.Trade, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.trades[id]
	if !ok {
		return nil, errors.ErrTradeNotFound
	}
	return &t, nil
}

// ListTrades retrieves trades matching the filter, ordered by open time.
func (m *MemoryStore) ListTrades(_ context.Context, filter TradeFilter) ([]models.Trade, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Trade
	for _, t := range m.trades {
		trade := t
		if filter.Matches(&trade) {
			out = append(out, trade)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].OpenTimestamp.Before(out[j].OpenTimestamp)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// AppendNote adds a note to an existing trade.
func (m *MemoryStore) AppendNote(_ context.Context, tradeID, note string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trades[tradeID]
	if !ok {
		return errors.ErrTradeNotFound
	}
	t.Notes = append(t.Notes, note)
	m.trades[tradeID] = t
	return nil
}

// SaveDisciplineState stores the discipline state.
func (m *MemoryStore) SaveDisciplineState(_ context.Context, state discipline.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	m.hasState = true
	return nil
}

// LoadDisciplineState returns the stored state, or the default.
func (m *MemoryStore) LoadDisciplineState(context.Context) (discipline.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.hasState {
		return discipline.DefaultState(), nil
	}
	return m.state.Clamp(), nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error { return nil }
