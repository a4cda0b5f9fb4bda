package models

import (
	"testing"
	"time"
)

func TestSymbolParts(t *testing.T) {
	tests := []struct {
		symbol Symbol
		base   string
		quote  string
	}{
		{"EURUSD", "EUR", "USD"},
		{"USDJPY", "USD", "JPY"},
		{"GBPJPY", "GBP", "JPY"},
		{"AUDCAD", "AUD", "CAD"},
	}
	for _, tt := range tests {
		if got := tt.symbol.Base(); got != tt.base {
			t.Errorf("%s.Base() = %s, want %s", tt.symbol, got, tt.base)
		}
		if got := tt.symbol.Quote(); got != tt.quote {
			t.Errorf("%s.Quote() = %s, want %s", tt.symbol, got, tt.quote)
		}
	}
}

func TestSymbolValidate(t *testing.T) {
	valid := []Symbol{"EURUSD", "USDJPY", "GBPJPY"}
	for _, s := range valid {
		if err := s.Validate(); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", s, err)
		}
	}

	invalid := []Symbol{"", "EUR", "EURUSDX", "EUR/US", "123456", "gbpusd"}
	for _, s := range invalid {
		if err := s.Validate(); err == nil {
			t.Errorf("Validate(%q) = nil, want error", s)
		}
	}
}

func TestPipConventions(t *testing.T) {
	tests := []struct {
		symbol      Symbol
		pipSize     float64
		multiplier  float64
		valuePerLot float64
	}{
		{"EURUSD", 0.0001, 10000, 10},
		{"GBPUSD", 0.0001, 10000, 10},
		{"USDJPY", 0.01, 100, 1000},
		{"EURJPY", 0.01, 100, 1000},
	}
	for _, tt := range tests {
		if got := tt.symbol.PipSize(); got != tt.pipSize {
			t.Errorf("%s.PipSize() = %v, want %v", tt.symbol, got, tt.pipSize)
		}
		if got := tt.symbol.PipMultiplier(); got != tt.multiplier {
			t.Errorf("%s.PipMultiplier() = %v, want %v", tt.symbol, got, tt.multiplier)
		}
		if got := tt.symbol.PipValuePerLot(); got != tt.valuePerLot {
			t.Errorf("%s.PipValuePerLot() = %v, want %v", tt.symbol, got, tt.valuePerLot)
		}
	}
}

func TestRateTable(t *testing.T) {
	table := RateTable{"USD": 1, "JPY": 150, "CHF": 0.9}

	if rate, ok := table.Rate("JPY"); !ok || rate != 150 {
		t.Errorf("Rate(JPY) = %v, %v", rate, ok)
	}
	if _, ok := table.Rate("NZD"); ok {
		t.Error("Rate(NZD) should be missing")
	}
	if rate, ok := table.Rate("XYZ"); ok || rate != 0 {
		t.Errorf("Rate(XYZ) = %v, %v, want 0, false", rate, ok)
	}

	clone := table.Clone()
	clone["JPY"] = 1
	if table["JPY"] != 150 {
		t.Error("Clone must not alias the original table")
	}
}

func TestTradeClose(t *testing.T) {
	opened := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	trade := Trade{
		ID:            "01ARZ3NDEK",
		Symbol:        "EURUSD",
		Direction:     DirectionLong,
		OpenTimestamp: opened,
		Status:        StatusOpen,
	}

	if err := trade.Close(1.1010, "Take profit hit", opened.Add(-time.Hour)); err == nil {
		t.Fatal("closing before open time should fail")
	}

	for _, bad := range []float64{0, -1.1010} {
		if err := trade.Close(bad, "Stopped out", opened.Add(time.Hour)); err == nil {
			t.Fatalf("exit price %v should be rejected", bad)
		}
	}
	if trade.IsClosed() {
		t.Fatal("rejected close must leave the trade open")
	}

	closeTime := opened.Add(2 * time.Hour)
	if err := trade.Close(1.1010, "Take profit hit", closeTime); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if !trade.IsClosed() {
		t.Error("trade should be closed")
	}
	if trade.ExitPrice == nil || *trade.ExitPrice != 1.1010 {
		t.Error("exit price not recorded")
	}
	if trade.CloseTimestamp == nil || !trade.CloseTimestamp.Equal(closeTime) {
		t.Error("close timestamp not recorded")
	}

	if err := trade.Close(1.2000, "again", closeTime.Add(time.Hour)); err == nil {
		t.Fatal("double close should fail")
	}
	if *trade.ExitPrice != 1.1010 {
		t.Error("failed close must not mutate the trade")
	}
}

func TestClosedAfter(t *testing.T) {
	boundary := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	open := Trade{Status: StatusOpen}
	if open.ClosedAfter(boundary) {
		t.Error("open trades never match")
	}

	at := boundary
	closedAt := Trade{Status: StatusClosed, CloseTimestamp: &at}
	if !closedAt.ClosedAfter(boundary) {
		t.Error("a trade closed exactly at the boundary counts")
	}

	before := boundary.Add(-time.Second)
	closedBefore := Trade{Status: StatusClosed, CloseTimestamp: &before}
	if closedBefore.ClosedAfter(boundary) {
		t.Error("a trade closed before the boundary must not count")
	}
}
