package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pulsegraph-io/pulsegraph-stack/common/config"
)

// HTTPProvider fetches market data from an aggregator API.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPProvider builds a provider from config.
func NewHTTPProvider(cfg config.MarketConfig) *HTTPProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPProvider{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// CollectionStats fetches NFT collection market stats.
func (p *HTTPProvider) CollectionStats(ctx context.Context, collection string) (CollectionStats, error) {
	var stats CollectionStats
	err := p.get(ctx, "/v1/collections/"+url.PathEscape(collection)+"/stats", &stats)
	return stats, err
}

// TokenInfo fetches token metadata and price.
func (p *HTTPProvider) TokenInfo(ctx context.Context, token string) (TokenInfo, error) {
	var info TokenInfo
	err := p.get(ctx, "/v1/tokens/"+url.PathEscape(token), &info)
	return info, err
}

// TransactionDetails fetches on-chain transaction details by signature.
func (p *HTTPProvider) TransactionDetails(ctx context.Context, signature string) (TransactionDetails, error) {
	var details TransactionDetails
	err := p.get(ctx, "/v1/transactions/"+url.PathEscape(signature), &details)
	return details, err
}

func (p *HTTPProvider) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building market request: %w", err)
	}
	if p.apiKey != "" {
		req.Header.Set("X-API-Key", p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("market request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("market request %s returned status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding market response: %w", err)
	}
	return nil
}
