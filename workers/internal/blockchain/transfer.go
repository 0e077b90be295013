package blockchain

import (
	"context"
	"hash/fnv"

	"github.com/pulsegraph-io/pulsegraph-stack/workers/internal/market"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/pkg/event"
)

// TokenTransfer is the enriched analysis of a token transfer event.
type TokenTransfer struct {
	FromAddress string           `json:"from_address"`
	ToAddress   string           `json:"to_address"`
	Amount      float64          `json:"amount"`
	Token       string           `json:"token"`
	Signature   string           `json:"signature,omitempty"`
	TokenInfo   market.TokenInfo `json:"token_info"`
	USDValue    float64          `json:"usd_value"`
	Analysis    TransferAnalysis `json:"analysis"`
}

// TransferAnalysis classifies the transfer pattern.
type TransferAnalysis struct {
	TransferType   string `json:"transfer_type"`
	AmountCategory string `json:"amount_category"`
	RiskScore      int    `json:"risk_score"`
	Pattern        string `json:"pattern"`
}

func (p *Processor) processTokenTransfer(ctx context.Context, evt *event.RawEvent) (TokenTransfer, []string) {
	from := evt.StringOr("from", "Unknown")
	to := evt.StringOr("to", "Unknown")
	amount := evt.Float("amount")
	token := evt.StringOr("token", "Unknown")

	info := p.tokenInfo(ctx, token)
	usdValue := round2(amount * info.PriceUSD)
	analysis := AnalyzeTransfer(from, to, amount)

	transfer := TokenTransfer{
		FromAddress: from,
		ToAddress:   to,
		Amount:      amount,
		Token:       token,
		Signature:   evt.String("signature"),
		TokenInfo:   info,
		USDValue:    usdValue,
		Analysis:    analysis,
	}

	return transfer, transferInsights(usdValue, analysis)
}

// AnalyzeTransfer classifies a transfer by size and a deterministic risk
// score. The score depends only on the address pair, so repeated transfers
// between the same parties always score identically.
func AnalyzeTransfer(from, to string, amount float64) TransferAnalysis {
	return TransferAnalysis{
		TransferType:   "peer_to_peer",
		AmountCategory: categorizeAmount(amount),
		RiskScore:      RiskScore(from, to),
		Pattern:        "normal",
	}
}

// RiskScore maps an address pair to a stable score in [0, 100).
func RiskScore(from, to string) int {
	h := fnv.New32a()
	h.Write([]byte(from))
	h.Write([]byte(to))
	return int(h.Sum32() % 100)
}

func categorizeAmount(amount float64) string {
	switch {
	case amount > 1000:
		return "large"
	case amount > 100:
		return "medium"
	default:
		return "small"
	}
}

func transferInsights(usdValue float64, analysis TransferAnalysis) []string {
	var insights []string

	if usdValue > 100_000 {
		insights = append(insights, "Large transfer detected - potential whale movement")
	}
	if analysis.RiskScore > 80 {
		insights = append(insights, "High risk transfer - review for compliance")
	}

	return insights
}
