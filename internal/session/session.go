// Package session owns the mutable trading state. All mutations (opening
// a trade, closing a trade, discipline transitions) funnel through one
// Session so there are never concurrent writers to the discipline state or
// the journal.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"forex-coach/internal/challenge"
	"forex-coach/internal/discipline"
	"forex-coach/internal/errors"
	"forex-coach/internal/models"
	"forex-coach/internal/rates"
	"forex-coach/internal/risk"
	"forex-coach/internal/stats"
	"forex-coach/internal/store"
	"forex-coach/pkg/id"
)

// BalanceProvider supplies the current account balance. The session treats
// it as an opaque input per calculation.
type BalanceProvider func() float64

// Event is a one-time occurrence surfaced by Tick for the host to present.
type Event struct {
	Kind    string
	Message string
}

// EventCooldownEnded is emitted exactly once when a cooldown expires.
const EventCooldownEnded = "cooldown_ended"

// Session serializes all core mutations.
type Session struct {
	mu sync.Mutex

	store     store.TradeStore
	rates     *rates.CachedProvider
	balance   BalanceProvider
	limits    discipline.Limits
	challenge *models.ChallengeSettings
	logger    zerolog.Logger

	state discipline.State
	gate  *discipline.Gate
}

// New creates a session, loading persisted discipline state from the store.
func New(ctx context.Context, st store.TradeStore, rp *rates.CachedProvider, balance BalanceProvider, limits discipline.Limits, cs *models.ChallengeSettings, logger zerolog.Logger) (*Session, error) {
	state, err := st.LoadDisciplineState(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading discipline state")
	}

	return &Session{
		store:     st,
		rates:     rp,
		balance:   balance,
		limits:    limits,
		challenge: cs,
		logger:    logger,
		state:     state,
		gate:      discipline.NewGate(limits),
	}, nil
}

// State returns a copy of the current discipline state.
func (s *Session) State() discipline.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// AnalyzePair checks whether new trade analysis may begin on a pair. It is
// rejected while a cooldown is active or the loss-limit lock is engaged.
func (s *Session) AnalyzePair(ctx context.Context, symbol models.Symbol, now time.Time) (discipline.GateResult, error) {
	if err := symbol.Validate(); err != nil {
		return discipline.GateResult{}, err
	}

	trades, err := s.closedTrades(ctx)
	if err != nil {
		return discipline.GateResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.gate.Check(s.state, trades, s.balance(), now)
	if !result.Allowed {
		s.logger.Info().
			Str("symbol", string(symbol)).
			Str("reason", result.BlockReason).
			Msg("Pair selection blocked")
	}
	return result, nil
}

// PlanTrade runs the sizing calculator with the session's dynamic risk
// percentage and a fresh rate snapshot.
func (s *Session) PlanTrade(ctx context.Context, symbol models.Symbol, direction models.Direction, entry, stopLoss, takeProfit float64) (risk.PlanInput, risk.PlanResult) {
	s.mu.Lock()
	riskPercent := s.state.RiskPercent
	s.mu.Unlock()

	in := risk.PlanInput{
		Symbol:          symbol,
		Direction:       direction,
		AccountBalance:  s.balance(),
		RiskPercent:     riskPercent,
		EntryPrice:      entry,
		StopLossPrice:   stopLoss,
		TakeProfitPrice: takeProfit,
	}
	if s.rates != nil {
		in.Rates = s.rates.Snapshot(ctx)
	}
	return in, risk.ComputePlan(in)
}

// OpenTrade commits a computed plan as a new Open trade. The commit gate
// is enforced here as well as in the interface layer: a plan below the
// minimum risk/reward ratio is rejected with no side effect.
func (s *Session) OpenTrade(ctx context.Context, in risk.PlanInput, result risk.PlanResult, now time.Time) (*models.Trade, error) {
	if result.Incomplete {
		return nil, errors.ErrPlanIncomplete
	}
	if result.PriceError != nil {
		return nil, result.PriceError
	}
	if !result.CommitAllowed() {
		return nil, errors.ErrRatioBelowMinimum
	}

	plan := result.Plan(in)
	trade := &models.Trade{
		ID:            id.New(),
		Symbol:        in.Symbol,
		Direction:     in.Direction,
		OpenTimestamp: now,
		RiskPlan:      *plan,
		Status:        models.StatusOpen,
	}

	if err := s.store.SaveTrade(ctx, trade); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("trade_id", trade.ID).
		Str("symbol", string(trade.Symbol)).
		Str("direction", string(trade.Direction)).
		Float64("lots", *plan.PositionSizeLots).
		Msg("Trade opened")
	return trade, nil
}

// CloseTrade transitions a trade to Closed exactly once, applies the
// discipline transition, and persists both.
func (s *Session) CloseTrade(ctx context.Context, tradeID string, exitPrice float64, exitReason string, now time.Time) (*models.Trade, error) {
	trade, err := s.store.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if trade.IsClosed() {
		return nil, errors.ErrAlreadyClosed
	}
	if err := trade.Close(exitPrice, exitReason, now); err != nil {
		return nil, err
	}

	if err := s.store.UpdateTrade(ctx, trade); err != nil {
		return nil, err
	}

	s.mu.Lock()
	prev := s.state
	s.state = discipline.ApplyTradeClosed(*trade, s.state, now)
	next := s.state
	s.mu.Unlock()

	if err := s.store.SaveDisciplineState(ctx, next); err != nil {
		s.logger.Error().Err(err).Msg("Failed to persist discipline state")
	}

	logEvent := s.logger.Info().
		Str("trade_id", trade.ID).
		Float64("exit_price", exitPrice).
		Float64("risk_percent", next.RiskPercent)
	if pnl := risk.TradePnL(*trade); pnl != nil {
		logEvent = logEvent.Float64("pnl", *pnl)
	}
	if next.CooldownUntil != nil && (prev.CooldownUntil == nil || !prev.CooldownUntil.Equal(*next.CooldownUntil)) {
		logEvent = logEvent.Time("cooldown_until", *next.CooldownUntil)
	}
	logEvent.Msg("Trade closed")

	return trade, nil
}

// AppendNote adds a note to a trade.
func (s *Session) AppendNote(ctx context.Context, tradeID, note string) error {
	return s.store.AppendNote(ctx, tradeID, note)
}

// Tick advances time-based state. It clears an elapsed cooldown and emits
// the one-time cooldown-ended event. Intended to be called from a periodic
// poll; calling it repeatedly is safe.
func (s *Session) Tick(ctx context.Context, now time.Time) []Event {
	s.mu.Lock()
	state, ended := discipline.ExpireCooldown(s.state, now)
	s.state = state
	s.mu.Unlock()

	if !ended {
		return nil
	}

	if err := s.store.SaveDisciplineState(ctx, state); err != nil {
		s.logger.Error().Err(err).Msg("Failed to persist discipline state")
	}
	s.logger.Info().Msg("Cooldown ended")
	return []Event{{Kind: EventCooldownEnded, Message: "Cooldown ended, trading analysis available again"}}
}

// LockStatus derives the current loss-limit lockout.
func (s *Session) LockStatus(ctx context.Context, now time.Time) (discipline.Lock, error) {
	trades, err := s.closedTrades(ctx)
	if err != nil {
		return discipline.Lock{}, err
	}
	return discipline.LockStatus(trades, s.limits, s.balance(), now), nil
}

// Challenge evaluates the funded-account challenge, or nil when inactive.
func (s *Session) Challenge(ctx context.Context, now time.Time) (*models.ChallengeMetrics, error) {
	trades, err := s.closedTrades(ctx)
	if err != nil {
		return nil, err
	}
	return challenge.Evaluate(trades, s.challenge, now), nil
}

// Report builds the performance report over the full journal.
func (s *Session) Report(ctx context.Context, initialBalance float64) (models.PerformanceReport, error) {
	trades, err := s.store.ListTrades(ctx, store.TradeFilter{})
	if err != nil {
		return models.PerformanceReport{}, err
	}
	return stats.BuildReport(trades, initialBalance), nil
}

// Trades lists journal entries matching the filter.
func (s *Session) Trades(ctx context.Context, filter store.TradeFilter) ([]models.Trade, error) {
	return s.store.ListTrades(ctx, filter)
}

func (s *Session) closedTrades(ctx context.Context) ([]models.Trade, error) {
	return s.store.ListTrades(ctx, store.TradeFilter{Status: models.StatusClosed})
}
