package blockchain

import (
	"context"

	"github.com/pulsegraph-io/pulsegraph-stack/workers/internal/market"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/pkg/event"
)

// NFTSale is the enriched analysis of an NFT sale event.
type NFTSale struct {
	Collection         string                     `json:"collection"`
	TokenID            string                     `json:"token_id"`
	Price              float64                    `json:"price"`
	Currency           string                     `json:"currency"`
	Buyer              string                     `json:"buyer"`
	Seller             string                     `json:"seller"`
	Signature          string                     `json:"signature,omitempty"`
	TransactionDetails *market.TransactionDetails `json:"transaction_details,omitempty"`
	MarketData         market.CollectionStats     `json:"market_data"`
	Analysis           NFTSaleAnalysis            `json:"analysis"`
}

// NFTSaleAnalysis holds the computed sale metrics.
type NFTSaleAnalysis struct {
	FloorPrice        float64 `json:"floor_price"`
	PremiumPercentage float64 `json:"premium_percentage"`
	PriceCategory     string  `json:"price_category"`
	MarketTrend       string  `json:"market_trend"`
	Volume24h         float64 `json:"volume_24h"`
}

func (p *Processor) processNFTSale(ctx context.Context, evt *event.RawEvent) (NFTSale, []string) {
	collection := evt.StringOr("collection", "Unknown")
	price := evt.Float("price")

	stats := p.collectionStats(ctx, collection)
	premium := PremiumPercentage(price, stats.FloorPrice)

	sale := NFTSale{
		Collection: collection,
		TokenID:    evt.StringOr("token_id", "Unknown"),
		Price:      price,
		Currency:   evt.StringOr("currency", "SOL"),
		Buyer:      evt.StringOr("buyer", "Unknown"),
		Seller:     evt.StringOr("seller", "Unknown"),
		Signature:  evt.String("signature"),
		MarketData: stats,
		Analysis: NFTSaleAnalysis{
			FloorPrice:        stats.FloorPrice,
			PremiumPercentage: round2(premium),
			PriceCategory:     CategorizePrice(premium),
			MarketTrend:       stats.Trend,
			Volume24h:         stats.Volume24h,
		},
	}

	if sale.Signature != "" {
		details := p.transactionDetails(ctx, sale.Signature)
		sale.TransactionDetails = &details
	}

	return sale, nftInsights(price, premium)
}

// PremiumPercentage is the sale premium over the floor price. A zero or
// missing floor yields 0 rather than a division blowup.
func PremiumPercentage(price, floorPrice float64) float64 {
	if floorPrice <= 0 {
		return 0
	}
	return (price - floorPrice) / floorPrice * 100
}

// CategorizePrice buckets a sale by its premium over floor.
func CategorizePrice(premium float64) string {
	switch {
	case premium > 50:
		return "premium"
	case premium > 0:
		return "above_floor"
	case premium > -20:
		return "near_floor"
	default:
		return "below_floor"
	}
}

func nftInsights(price, premium float64) []string {
	var insights []string

	switch {
	case premium > 100:
		insights = append(insights, "Exceptional premium sale - potential rare trait")
	case premium > 50:
		insights = append(insights, "High premium sale - strong buyer interest")
	case premium < -10:
		insights = append(insights, "Below floor sale - potential distressed seller")
	}

	if price > 10 {
		insights = append(insights, "High-value transaction - monitor for market impact")
	}

	return insights
}
