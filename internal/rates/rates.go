// Package rates provides USD-relative exchange-rate snapshots for the
// position sizing calculator.
package rates

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"forex-coach/internal/models"
)

// DefaultCacheTTL is how long a fetched rate table stays fresh.
const DefaultCacheTTL = time.Hour

// Provider fetches a fresh rate table. Implementations may block on the
// network; callers pass a context with a deadline.
type Provider interface {
	FetchRates(ctx context.Context) (models.RateTable, error)
}

// Static wraps a fixed table as a Provider. Useful for tests and offline
// operation.
type Static models.RateTable

// FetchRates returns the wrapped table.
func (s Static) FetchRates(context.Context) (models.RateTable, error) {
	return models.RateTable(s), nil
}

// CachedProvider caches rate tables from an upstream provider. A fetch
// failure degrades to the last good snapshot, or to the minimal {USD: 1}
// table when nothing was ever fetched; position sizing must never block
// on rates.
type CachedProvider struct {
	upstream Provider
	ttl      time.Duration
	logger   zerolog.Logger

	mu        sync.Mutex
	snapshot  models.RateTable
	fetchedAt time.Time
}

// NewCachedProvider creates a caching provider. A non-positive ttl uses
// DefaultCacheTTL.
func NewCachedProvider(upstream Provider, ttl time.Duration, logger zerolog.Logger) *CachedProvider {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedProvider{
		upstream: upstream,
		ttl:      ttl,
		logger:   logger,
	}
}

// Snapshot returns an immutable rate table for one calculation. It never
// returns an error: the worst case is the minimal fallback table.
func (c *CachedProvider) Snapshot(ctx context.Context) models.RateTable {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot != nil && time.Since(c.fetchedAt) < c.ttl {
		return c.snapshot.Clone()
	}

	table, err := c.upstream.FetchRates(ctx)
	if err != nil || len(table) == 0 {
		if err != nil {
			c.logger.Warn().Err(err).Msg("Rate fetch failed, using last good snapshot")
		}
		if c.snapshot != nil {
			return c.snapshot.Clone()
		}
		return models.MinimalRates()
	}

	c.snapshot = table
	c.fetchedAt = time.Now()
	c.logger.Debug().Int("currencies", len(table)).Msg("Rate snapshot refreshed")
	return c.snapshot.Clone()
}

// FetchedAt returns when the current snapshot was taken; zero when no
// fetch has succeeded yet.
func (c *CachedProvider) FetchedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetchedAt
}
