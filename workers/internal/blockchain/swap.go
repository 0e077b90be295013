package blockchain

import (
	"context"

	"github.com/pulsegraph-io/pulsegraph-stack/workers/internal/market"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/pkg/event"
)

// DefiSwap is the enriched analysis of a DEX swap event.
type DefiSwap struct {
	UserAddress  string           `json:"user_address"`
	TokenIn      string           `json:"token_in"`
	TokenOut     string           `json:"token_out"`
	AmountIn     float64          `json:"amount_in"`
	AmountOut    float64          `json:"amount_out"`
	DEX          string           `json:"dex"`
	TokenInInfo  market.TokenInfo `json:"token_in_info"`
	TokenOutInfo market.TokenInfo `json:"token_out_info"`
	Analysis     SwapAnalysis     `json:"analysis"`
}

// SwapAnalysis holds the computed swap metrics.
type SwapAnalysis struct {
	USDValueIn         float64 `json:"usd_value_in"`
	USDValueOut        float64 `json:"usd_value_out"`
	SlippagePercentage float64 `json:"slippage_percentage"`
	SwapCategory       string  `json:"swap_category"`
}

func (p *Processor) processDefiSwap(ctx context.Context, evt *event.RawEvent) (DefiSwap, []string) {
	tokenIn := evt.StringOr("token_in", "Unknown")
	tokenOut := evt.StringOr("token_out", "Unknown")
	amountIn := evt.Float("amount_in")
	amountOut := evt.Float("amount_out")

	inInfo := p.tokenInfo(ctx, tokenIn)
	outInfo := p.tokenInfo(ctx, tokenOut)

	usdIn := amountIn * inInfo.PriceUSD
	usdOut := amountOut * outInfo.PriceUSD
	slippage := Slippage(usdIn, usdOut)

	swap := DefiSwap{
		UserAddress:  evt.StringOr("user", "Unknown"),
		TokenIn:      tokenIn,
		TokenOut:     tokenOut,
		AmountIn:     amountIn,
		AmountOut:    amountOut,
		DEX:          evt.StringOr("dex", "Unknown"),
		TokenInInfo:  inInfo,
		TokenOutInfo: outInfo,
		Analysis: SwapAnalysis{
			USDValueIn:         round2(usdIn),
			USDValueOut:        round2(usdOut),
			SlippagePercentage: round2(slippage),
			SwapCategory:       CategorizeSwapSize(usdIn),
		},
	}

	return swap, swapInsights(usdIn, slippage)
}

// Slippage is the percentage of input value lost in the swap. A zero input
// value yields 0.
func Slippage(usdIn, usdOut float64) float64 {
	if usdIn <= 0 {
		return 0
	}
	return (usdIn - usdOut) / usdIn * 100
}

// CategorizeSwapSize buckets a swap by its USD input value.
func CategorizeSwapSize(usdValue float64) string {
	switch {
	case usdValue > 100_000:
		return "whale"
	case usdValue > 10_000:
		return "large"
	case usdValue > 1_000:
		return "medium"
	default:
		return "small"
	}
}

func swapInsights(usdValue, slippage float64) []string {
	var insights []string

	if slippage > 5 {
		insights = append(insights, "High slippage detected - large trade or low liquidity")
	}
	if usdValue > 50_000 {
		insights = append(insights, "Large swap - potential market impact")
	}

	return insights
}
