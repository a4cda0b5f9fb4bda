package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"forex-coach/internal/models"
)

// countingProvider counts fetches and can be told to fail.
type countingProvider struct {
	table   models.RateTable
	fail    bool
	fetches int
}

func (p *countingProvider) FetchRates(context.Context) (models.RateTable, error) {
	p.fetches++
	if p.fail {
		return nil, fmt.Errorf("upstream down")
	}
	return p.table.Clone(), nil
}

func TestCachedProviderCachesWithinTTL(t *testing.T) {
	upstream := &countingProvider{table: models.RateTable{"USD": 1, "JPY": 150}}
	provider := NewCachedProvider(upstream, time.Hour, zerolog.Nop())
	ctx := context.Background()

	first := provider.Snapshot(ctx)
	if rate, ok := first.Rate("JPY"); !ok || rate != 150 {
		t.Fatalf("Rate(JPY) = %v, %v", rate, ok)
	}
	provider.Snapshot(ctx)
	provider.Snapshot(ctx)

	if upstream.fetches != 1 {
		t.Errorf("fetches = %d, want 1 within the TTL", upstream.fetches)
	}
	if provider.FetchedAt().IsZero() {
		t.Error("FetchedAt must be set after a successful fetch")
	}
}

func TestCachedProviderFallsBackToLastGood(t *testing.T) {
	upstream := &countingProvider{table: models.RateTable{"USD": 1, "JPY": 150}}
	provider := NewCachedProvider(upstream, time.Nanosecond, zerolog.Nop())
	ctx := context.Background()

	provider.Snapshot(ctx)

	// Upstream breaks; the TTL is already expired.
	upstream.fail = true
	time.Sleep(time.Millisecond)

	table := provider.Snapshot(ctx)
	if rate, ok := table.Rate("JPY"); !ok || rate != 150 {
		t.Errorf("want the last good snapshot, got %v", table)
	}
}

func TestCachedProviderMinimalFallback(t *testing.T) {
	upstream := &countingProvider{fail: true}
	provider := NewCachedProvider(upstream, time.Hour, zerolog.Nop())

	table := provider.Snapshot(context.Background())
	if rate, ok := table.Rate("USD"); !ok || rate != 1 {
		t.Errorf("want the minimal {USD: 1} table, got %v", table)
	}
	if !provider.FetchedAt().IsZero() {
		t.Error("a failed fetch must not count as fetched")
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	upstream := &countingProvider{table: models.RateTable{"USD": 1, "JPY": 150}}
	provider := NewCachedProvider(upstream, time.Hour, zerolog.Nop())
	ctx := context.Background()

	snap := provider.Snapshot(ctx)
	snap["JPY"] = 1

	if rate, _ := provider.Snapshot(ctx).Rate("JPY"); rate != 150 {
		t.Error("mutating a snapshot must not affect the cache")
	}
}

func TestHTTPProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]float64{"JPY": 150, "CHF": 0.9})
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.URL, 5*time.Second)
	table, err := provider.FetchRates(context.Background())
	if err != nil {
		t.Fatalf("FetchRates() = %v", err)
	}
	if rate, ok := table.Rate("JPY"); !ok || rate != 150 {
		t.Errorf("Rate(JPY) = %v, %v", rate, ok)
	}
	// USD anchors to 1 when the feed omits it.
	if rate, ok := table.Rate("USD"); !ok || rate != 1 {
		t.Errorf("Rate(USD) = %v, %v, want anchored to 1", rate, ok)
	}
}

func TestHTTPProviderErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.URL, 5*time.Second)
	if _, err := provider.FetchRates(context.Background()); err == nil {
		t.Error("a 500 response must surface as an error")
	}
}
