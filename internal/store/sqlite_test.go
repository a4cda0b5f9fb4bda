package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"forex-coach/internal/discipline"
	"forex-coach/internal/errors"
	"forex-coach/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleTrade(id string, openedAt time.Time) *models.Trade {
	return &models.Trade{
		ID:            id,
		Symbol:        "EURUSD",
		Direction:     models.DirectionLong,
		OpenTimestamp: openedAt,
		Status:        models.StatusOpen,
		RiskPlan: models.RiskPlan{
			RiskPercent:      models.Float64Ptr(1),
			EntryPrice:       models.Float64Ptr(1.1000),
			StopLossPrice:    models.Float64Ptr(1.0990),
			TakeProfitPrice:  models.Float64Ptr(1.1020),
			RiskRewardRatio:  models.Float64Ptr(2),
			PositionSizeLots: models.Float64Ptr(1),
		},
	}
}

func TestSQLiteTradeRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	opened := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	trade := sampleTrade("01HRT00001", opened)
	if err := store.SaveTrade(ctx, trade); err != nil {
		t.Fatalf("SaveTrade() = %v", err)
	}

	got, err := store.GetTrade(ctx, trade.ID)
	if err != nil {
		t.Fatalf("GetTrade() = %v", err)
	}
	if got.Symbol != trade.Symbol || got.Direction != trade.Direction || got.Status != models.StatusOpen {
		t.Errorf("got %+v", got)
	}
	if got.RiskPlan.EntryPrice == nil || *got.RiskPlan.EntryPrice != 1.1000 {
		t.Error("risk plan entry price lost in round trip")
	}
	if got.RiskPlan.PositionSizeLots == nil || *got.RiskPlan.PositionSizeLots != 1 {
		t.Error("risk plan lot size lost in round trip")
	}
	if got.ExitPrice != nil || got.CloseTimestamp != nil {
		t.Error("open trade must have no exit fields")
	}

	// Close it and update.
	closedAt := opened.Add(3 * time.Hour)
	if err := got.Close(1.1020, "Take profit hit", closedAt); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if err := store.UpdateTrade(ctx, got); err != nil {
		t.Fatalf("UpdateTrade() = %v", err)
	}

	closed, err := store.GetTrade(ctx, trade.ID)
	if err != nil {
		t.Fatalf("GetTrade() = %v", err)
	}
	if !closed.IsClosed() || closed.ExitPrice == nil || *closed.ExitPrice != 1.1020 {
		t.Errorf("closed trade = %+v", closed)
	}
	if closed.CloseTimestamp == nil || !closed.CloseTimestamp.Equal(closedAt) {
		t.Errorf("CloseTimestamp = %v, want %v", closed.CloseTimestamp, closedAt)
	}
}

func TestSQLiteTradeNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.GetTrade(ctx, "missing"); !errors.Is(err, errors.ErrTradeNotFound) {
		t.Errorf("GetTrade(missing) = %v, want ErrTradeNotFound", err)
	}
	if err := store.UpdateTrade(ctx, sampleTrade("missing", time.Now())); !errors.Is(err, errors.ErrTradeNotFound) {
		t.Errorf("UpdateTrade(missing) = %v, want ErrTradeNotFound", err)
	}
	if err := store.AppendNote(ctx, "missing", "note"); !errors.Is(err, errors.ErrTradeNotFound) {
		t.Errorf("AppendNote(missing) = %v, want ErrTradeNotFound", err)
	}
}

func TestSQLiteListTradesFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	eur := sampleTrade("01HLIST001", base)
	gbp := sampleTrade("01HLIST002", base.Add(time.Hour))
	gbp.Symbol = "GBPUSD"
	closed := sampleTrade("01HLIST003", base.Add(2*time.Hour))

	for _, tr := range []*models.Trade{eur, gbp, closed} {
		if err := store.SaveTrade(ctx, tr); err != nil {
			t.Fatalf("SaveTrade() = %v", err)
		}
	}

	closedAt := base.Add(5 * time.Hour)
	if err := closed.Close(1.1020, "Take profit hit", closedAt); err != nil {
		t.Fatal(err)
	}
	if err := store.UpdateTrade(ctx, closed); err != nil {
		t.Fatal(err)
	}

	all, err := store.ListTrades(ctx, TradeFilter{})
	if err != nil {
		t.Fatalf("ListTrades() = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(all) = %d", len(all))
	}
	// Ordered by open time.
	if all[0].ID != "01HLIST001" || all[2].ID != "01HLIST003" {
		t.Errorf("order = %s, %s, %s", all[0].ID, all[1].ID, all[2].ID)
	}

	bySymbol, _ := store.ListTrades(ctx, TradeFilter{Symbol: "GBPUSD"})
	if len(bySymbol) != 1 || bySymbol[0].ID != "01HLIST002" {
		t.Errorf("bySymbol = %+v", bySymbol)
	}

	open, _ := store.ListTrades(ctx, TradeFilter{Status: models.StatusOpen})
	if len(open) != 2 {
		t.Errorf("len(open) = %d", len(open))
	}

	since, _ := store.ListTrades(ctx, TradeFilter{ClosedSince: base.Add(4 * time.Hour)})
	if len(since) != 1 || since[0].ID != "01HLIST003" {
		t.Errorf("since = %+v", since)
	}

	limited, _ := store.ListTrades(ctx, TradeFilter{Limit: 2})
	if len(limited) != 2 {
		t.Errorf("len(limited) = %d", len(limited))
	}
}

func TestSQLiteNotes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	trade := sampleTrade("01HNOTE001", time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	if err := store.SaveTrade(ctx, trade); err != nil {
		t.Fatal(err)
	}

	if err := store.AppendNote(ctx, trade.ID, "clean break of the level"); err != nil {
		t.Fatalf("AppendNote() = %v", err)
	}
	if err := store.AppendNote(ctx, trade.ID, "held through news"); err != nil {
		t.Fatalf("AppendNote() = %v", err)
	}

	got, err := store.GetTrade(ctx, trade.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Notes) != 2 || got.Notes[0] != "clean break of the level" {
		t.Errorf("Notes = %v", got.Notes)
	}
}

func TestSQLiteDisciplineState(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// No row yet: defaults.
	state, err := store.LoadDisciplineState(ctx)
	if err != nil {
		t.Fatalf("LoadDisciplineState() = %v", err)
	}
	if state.RiskPercent != discipline.MinRiskPercent || state.CooldownUntil != nil {
		t.Errorf("default state = %+v", state)
	}

	until := time.Date(2026, 3, 2, 14, 15, 0, 0, time.UTC)
	if err := store.SaveDisciplineState(ctx, discipline.State{RiskPercent: 0.75, CooldownUntil: &until}); err != nil {
		t.Fatalf("SaveDisciplineState() = %v", err)
	}

	state, err = store.LoadDisciplineState(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if state.RiskPercent != 0.75 {
		t.Errorf("RiskPercent = %v", state.RiskPercent)
	}
	if state.CooldownUntil == nil || !state.CooldownUntil.Equal(until) {
		t.Errorf("CooldownUntil = %v, want %v", state.CooldownUntil, until)
	}

	// Upsert replaces the single row; out-of-range values clamp on load.
	if err := store.SaveDisciplineState(ctx, discipline.State{RiskPercent: 9}); err != nil {
		t.Fatal(err)
	}
	state, _ = store.LoadDisciplineState(ctx)
	if state.RiskPercent != discipline.MaxRiskPercent {
		t.Errorf("RiskPercent = %v, want clamped to %v", state.RiskPercent, discipline.MaxRiskPercent)
	}
	if state.CooldownUntil != nil {
		t.Error("upsert must clear the cooldown column")
	}
}
