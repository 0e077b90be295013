// Package market provides the pluggable market-data source used to enrich
// blockchain events. Production uses the HTTP provider; tests and local dev
// use the deterministic static provider.
package market

import "context"

// CollectionStats describes an NFT collection's market state.
type CollectionStats struct {
	FloorPrice  float64 `json:"floor_price"`
	Volume24h   float64 `json:"volume_24h"`
	Trend       string  `json:"trend"`
	Holders     int     `json:"holders,omitempty"`
	TotalSupply int     `json:"total_supply,omitempty"`
}

// TokenInfo describes a fungible token and its current price.
type TokenInfo struct {
	Name      string  `json:"name"`
	Symbol    string  `json:"symbol"`
	PriceUSD  float64 `json:"price_usd"`
	MarketCap float64 `json:"market_cap,omitempty"`
	Volume24h float64 `json:"volume_24h,omitempty"`
}

// TransactionDetails describes an on-chain transaction lookup.
type TransactionDetails struct {
	BlockHeight int64   `json:"block_height,omitempty"`
	Timestamp   string  `json:"timestamp,omitempty"`
	Fee         float64 `json:"fee,omitempty"`
	Status      string  `json:"status"`
}

// Provider looks up market data for event enrichment. Implementations must be
// safe for concurrent use; errors signal the caller to degrade, not to fail
// the event.
type Provider interface {
	CollectionStats(ctx context.Context, collection string) (CollectionStats, error)
	TokenInfo(ctx context.Context, token string) (TokenInfo, error)
	TransactionDetails(ctx context.Context, signature string) (TransactionDetails, error)
}

// NeutralCollectionStats is the degraded value used when a lookup fails.
func NeutralCollectionStats() CollectionStats {
	return CollectionStats{Trend: "neutral"}
}

// UnknownTokenInfo is the degraded value used when a lookup fails.
func UnknownTokenInfo() TokenInfo {
	return TokenInfo{Name: "Unknown", Symbol: "UNK"}
}

// UnknownTransaction is the degraded value used when a lookup fails.
func UnknownTransaction() TransactionDetails {
	return TransactionDetails{Status: "unknown"}
}
