package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"forex-coach/internal/config"
	"forex-coach/internal/discipline"
	apperrors "forex-coach/internal/errors"
	"forex-coach/internal/models"
	"forex-coach/internal/rates"
	"forex-coach/internal/session"
	"forex-coach/internal/store"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	rp := rates.NewCachedProvider(rates.Static(models.MinimalRates()), time.Hour, zerolog.Nop())
	st := store.NewMemoryStore()

	sess, err := session.New(context.Background(), st, rp,
		func() float64 { return 10000 }, discipline.Limits{}, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("session.New() = %v", err)
	}

	return &App{
		Config:  &config.Config{},
		Logger:  zerolog.Nop(),
		Store:   st,
		Rates:   rp,
		Session: sess,
	}
}

func runCommand(t *testing.T, add func(*cobra.Command, *App), app *App, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "coach", SilenceUsage: true, SilenceErrors: true}
	add(root, app)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    models.Direction
		wantErr bool
	}{
		{"long", models.DirectionLong, false},
		{"Long", models.DirectionLong, false},
		{"buy", models.DirectionLong, false},
		{"short", models.DirectionShort, false},
		{"SELL", models.DirectionShort, false},
		{"", "", true},
		{"up", "", true},
	}
	for _, tt := range tests {
		got, err := parseDirection(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseDirection(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDirection(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// A long typed with the stop above the entry must surface the price logic
// error, not be reinterpreted as a short.
func TestSizeCommandWrongSideStop(t *testing.T) {
	app := newTestApp(t)

	out, err := runCommand(t, addSizeCommand, app, "size", "EURUSD",
		"--balance", "10000", "--risk", "1",
		"-e", "1.1000", "-s", "1.1010", "-t", "1.1040")
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if !strings.Contains(out, "stop loss must be below entry for a long") {
		t.Errorf("output missing price logic error:\n%s", out)
	}
	if strings.Contains(out, "short") {
		t.Errorf("direction was flipped to short:\n%s", out)
	}
}

func TestSizeCommandShortDirection(t *testing.T) {
	app := newTestApp(t)

	out, err := runCommand(t, addSizeCommand, app, "size", "EURUSD",
		"--balance", "10000", "--risk", "1", "-d", "short",
		"-e", "1.1000", "-s", "1.1010", "-t", "1.0970")
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if strings.Contains(out, "Price logic error") {
		t.Errorf("valid short reported a price error:\n%s", out)
	}
	if !strings.Contains(out, "Money at risk:     $100.00") {
		t.Errorf("output missing money at risk:\n%s", out)
	}
}

func TestSizeCommandRejectsBadDirection(t *testing.T) {
	app := newTestApp(t)

	_, err := runCommand(t, addSizeCommand, app, "size", "EURUSD",
		"-d", "sideways", "-e", "1.1", "-s", "1.09", "-t", "1.12")
	if err == nil || !strings.Contains(err.Error(), "direction") {
		t.Fatalf("Execute() = %v, want direction error", err)
	}
}

func TestOpenCommandWrongSideStop(t *testing.T) {
	app := newTestApp(t)

	_, err := runCommand(t, addTradeCommands, app, "open", "EURUSD",
		"-e", "1.1000", "-s", "1.1010", "-t", "1.1040")
	var priceErr *apperrors.PriceLogicError
	if !apperrors.As(err, &priceErr) {
		t.Fatalf("Execute() = %v, want PriceLogicError", err)
	}
	if priceErr.Field != "stop_loss" {
		t.Errorf("Field = %q, want stop_loss", priceErr.Field)
	}

	trades, listErr := app.Store.ListTrades(context.Background(), store.TradeFilter{})
	if listErr != nil {
		t.Fatalf("ListTrades() = %v", listErr)
	}
	if len(trades) != 0 {
		t.Errorf("journal has %d trades after rejected open, want 0", len(trades))
	}
}
