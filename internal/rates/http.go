package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"forex-coach/internal/models"
)

// HTTPProvider fetches a USD-relative rate table from a JSON endpoint of
// the form {"USD": 1, "EUR": 0.92, ...}.
type HTTPProvider struct {
	url    string
	client *http.Client
}

// NewHTTPProvider creates a provider for the given endpoint.
func NewHTTPProvider(url string, timeout time.Duration) *HTTPProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPProvider{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// FetchRates fetches and decodes the rate table.
func (p *HTTPProvider) FetchRates(ctx context.Context) (models.RateTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("building rates request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching rates: unexpected status %d", resp.StatusCode)
	}

	var table models.RateTable
	if err := json.NewDecoder(resp.Body).Decode(&table); err != nil {
		return nil, fmt.Errorf("decoding rates: %w", err)
	}
	if _, ok := table.Rate(models.USD); !ok {
		// The table is USD-relative; anchor it explicitly.
		table[models.USD] = 1
	}
	return table, nil
}
