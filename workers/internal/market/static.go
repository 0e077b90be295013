package market

import (
	"context"
	"hash/fnv"
	"strings"
	"time"
)

// StaticProvider derives stable fixture data from its inputs. The same
// collection or token always yields the same values, which makes enrichment
// reproducible without a network dependency.
type StaticProvider struct{}

// NewStaticProvider returns the fixture-backed provider.
func NewStaticProvider() *StaticProvider { return &StaticProvider{} }

func (StaticProvider) CollectionStats(_ context.Context, collection string) (CollectionStats, error) {
	h := hash64(collection)
	return CollectionStats{
		FloorPrice:  max(0.1, float64(h%10)),
		Volume24h:   max(100, float64(h%10000)),
		Trend:       []string{"bullish", "bearish", "neutral"}[h%3],
		Holders:     int(max(100, h%5000)),
		TotalSupply: int(max(1000, h%10000)),
	}, nil
}

func (StaticProvider) TokenInfo(_ context.Context, token string) (TokenInfo, error) {
	h := hash64(token)
	return TokenInfo{
		Name:      "Token " + truncate(token, 8),
		Symbol:    strings.ToUpper(truncate(token, 4)),
		PriceUSD:  max(0.01, float64(h%1000)/100),
		MarketCap: max(1_000_000, float64(h%100_000_000)),
		Volume24h: max(10_000, float64(h%1_000_000)),
	}, nil
}

func (StaticProvider) TransactionDetails(_ context.Context, signature string) (TransactionDetails, error) {
	h := hash64(signature)
	return TransactionDetails{
		BlockHeight: int64(h % 1_000_000),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Fee:         float64(h%100) / 1_000_000,
		Status:      "confirmed",
	}, nil
}

func hash64(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
