// Package models provides domain models for the trading coach.
package models

import (
	"fmt"
	"strings"
)

// Direction represents the side of a trade.
type Direction string

const (
	DirectionLong  Direction = "Long"
	DirectionShort Direction = "Short"
)

// TradeStatus represents the lifecycle state of a trade.
type TradeStatus string

const (
	StatusOpen   TradeStatus = "OPEN"
	StatusClosed TradeStatus = "CLOSED"
)

// StandardLotUnits is the number of base-currency units in one standard lot.
const StandardLotUnits = 100000.0

// USD is the account currency; all monetary outputs are expressed in it.
const USD = "USD"

// Symbol is a 6-letter currency pair code, e.g. "EURUSD".
type Symbol string

// Validate checks that the symbol is a 6-letter uppercase pair code.
func (s Symbol) Validate() error {
	if len(s) != 6 {
		return fmt.Errorf("symbol %q: must be a 6-letter pair code", string(s))
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return fmt.Errorf("symbol %q: must be uppercase letters", string(s))
		}
	}
	return nil
}

// Base returns the base currency (first three letters).
func (s Symbol) Base() string {
	if len(s) < 3 {
		return ""
	}
	return string(s[:3])
}

// Quote returns the quote currency (last three letters).
func (s Symbol) Quote() string {
	if len(s) < 6 {
		return ""
	}
	return string(s[3:6])
}

// IsJPY reports whether the pair involves the Japanese yen.
// JPY pairs quote with a 0.01 pip instead of the usual 0.0001.
func (s Symbol) IsJPY() bool {
	return strings.Contains(string(s), "JPY")
}

// PipSize returns the price increment of one pip for this pair.
func (s Symbol) PipSize() float64 {
	if s.IsJPY() {
		return 0.01
	}
	return 0.0001
}

// PipMultiplier converts a price distance into pips.
func (s Symbol) PipMultiplier() float64 {
	if s.IsJPY() {
		return 100
	}
	return 10000
}

// PipValuePerLot returns the quote-currency value of one pip for one
// standard lot (pip size times lot units).
func (s Symbol) PipValuePerLot() float64 {
	if s.IsJPY() {
		return 1000
	}
	return 10
}

// MajorPairs lists the pairs offered by the pair selector.
var MajorPairs = []Symbol{
	"EURUSD", "GBPUSD", "AUDUSD", "NZDUSD", "USDCAD", "USDJPY", "USDCHF",
}

// RateTable maps a 3-letter currency code to its rate relative to USD,
// expressed as units of that currency per 1 USD. A minimal table is
// {USD: 1}; calculators must tolerate missing keys.
type RateTable map[string]float64

// Rate returns the USD-relative rate for a currency code.
func (t RateTable) Rate(code string) (float64, bool) {
	if t == nil {
		return 0, false
	}
	r, ok := t[code]
	if !ok || r <= 0 {
		return 0, false
	}
	return r, true
}

// Convert converts an amount between two currencies via USD.
// If either rate is missing the amount is returned unchanged.
func (t RateTable) Convert(amount float64, from, to string) float64 {
	if from == to {
		return amount
	}
	fromRate, okFrom := t.Rate(from)
	toRate, okTo := t.Rate(to)
	if !okFrom || !okTo {
		return amount
	}
	return amount / fromRate * toRate
}

// Clone returns an independent copy of the table so a calculation works
// from an immutable snapshot.
func (t RateTable) Clone() RateTable {
	if t == nil {
		return nil
	}
	out := make(RateTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// MinimalRates is the fallback table used when no rate source is available.
func MinimalRates() RateTable {
	return RateTable{USD: 1}
}

// ExitReasons lists the standard reasons recorded when a trade is closed.
var ExitReasons = []string{
	"Take profit hit",
	"Stop loss hit",
	"Discretionary close on weakness/strength",
	"Time-based close",
	"Analysis error",
}
