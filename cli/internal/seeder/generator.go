// Package seeder generates realistic demo events for the pipeline.
package seeder

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
)

var companySizes = []string{"1-10", "10-100", "100-1000", "1000+", "enterprise", "medium", "startup"}

var leadSources = []string{"referral", "linkedin", "conference", "cold_email", "advertisement", "website"}

var chatMessages = []string{
	"good work on the launch, great results so far!",
	"this is terrible, the deploy broke everything again",
	"anyone seen the metrics dashboard? numbers look amazing",
	"CLICK HERE NOW!!! limited offer, buy now and win a prize!!!",
	"thanks @%s, shipping the fix in #%s",
	"meeting moved to 3pm, see you all there",
	"love the new design, excellent improvement over the old one",
	"check https://%s/docs for the updated runbook",
}

var chatPlatforms = []string{"discord", "slack", "telegram"}

var nftCollections = []string{"degods", "okay_bears", "mad_lads", "claynosaurz", "tensorians"}

var marketplaces = []string{"magic_eden", "tensor", "opensea"}

var swapProtocols = []string{"jupiter", "raydium", "orca"}

var tokens = []string{"SOL", "USDC", "BONK", "JTO", "PYTH"}

// Generator produces event payloads for the pipeline's worker types.
type Generator struct {
	rand *rand.Rand
}

// New seeds a generator. The same seed yields the same event stream.
func New(seed int64) *Generator {
	gofakeit.Seed(seed)
	return &Generator{rand: rand.New(rand.NewSource(seed))}
}

// Lead builds a lead scoring payload.
func (g *Generator) Lead() map[string]interface{} {
	return map[string]interface{}{
		"name":         gofakeit.Name(),
		"email":        gofakeit.Email(),
		"company":      gofakeit.Company(),
		"title":        gofakeit.JobTitle(),
		"company_size": pick(g.rand, companySizes),
		"industry":     gofakeit.BuzzWord(),
		"source":       pick(g.rand, leadSources),
		"phone":        gofakeit.Phone(),
	}
}

// Chat builds a chat analysis payload.
func (g *Generator) Chat() map[string]interface{} {
	message := pick(g.rand, chatMessages)
	if strings.Contains(message, "%s") {
		message = fmt.Sprintf(message, gofakeit.Username(), gofakeit.Word())
	}
	return map[string]interface{}{
		"message":  message,
		"user":     gofakeit.Username(),
		"channel":  gofakeit.Word(),
		"platform": pick(g.rand, chatPlatforms),
	}
}

// Blockchain builds a blockchain event payload of a random sub-type.
func (g *Generator) Blockchain() map[string]interface{} {
	switch g.rand.Intn(3) {
	case 0:
		return g.NFTSale()
	case 1:
		return g.TokenTransfer()
	default:
		return g.DefiSwap()
	}
}

// NFTSale builds an NFT sale payload.
func (g *Generator) NFTSale() map[string]interface{} {
	return map[string]interface{}{
		"event_type":  "nft_sale",
		"collection":  pick(g.rand, nftCollections),
		"price":       round2(g.rand.Float64()*200 + 0.5),
		"floor_price": round2(g.rand.Float64()*50 + 0.1),
		"marketplace": pick(g.rand, marketplaces),
		"buyer":       g.address(),
		"seller":      g.address(),
		"signature":   g.signature(),
	}
}

// TokenTransfer builds a token transfer payload.
func (g *Generator) TokenTransfer() map[string]interface{} {
	return map[string]interface{}{
		"event_type":   "token_transfer",
		"from_address": g.address(),
		"to_address":   g.address(),
		"amount":       round2(g.rand.Float64() * 5000),
		"token":        pick(g.rand, tokens),
		"signature":    g.signature(),
	}
}

// DefiSwap builds a DeFi swap payload.
func (g *Generator) DefiSwap() map[string]interface{} {
	tokenIn := pick(g.rand, tokens)
	tokenOut := pick(g.rand, tokens)
	for tokenOut == tokenIn {
		tokenOut = pick(g.rand, tokens)
	}
	return map[string]interface{}{
		"event_type": "defi_swap",
		"token_in":   tokenIn,
		"token_out":  tokenOut,
		"amount_in":  round2(g.rand.Float64() * 20000),
		"amount_out": round2(g.rand.Float64() * 20000),
		"protocol":   pick(g.rand, swapProtocols),
		"signature":  g.signature(),
	}
}

// Generate builds a payload for the given pipeline event type.
func (g *Generator) Generate(eventType string) (map[string]interface{}, error) {
	switch eventType {
	case "lead_scoring":
		return g.Lead(), nil
	case "chat_analysis":
		return g.Chat(), nil
	case "blockchain_events":
		return g.Blockchain(), nil
	default:
		return nil, fmt.Errorf("unknown event type %q", eventType)
	}
}

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

func (g *Generator) address() string {
	return g.base58(44)
}

func (g *Generator) signature() string {
	return g.base58(88)
}

func (g *Generator) base58(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base58Alphabet[g.rand.Intn(len(base58Alphabet))]
	}
	return string(b)
}

func pick(r *rand.Rand, options []string) string {
	return options[r.Intn(len(options))]
}

func round2(v float64) float64 {
	return float64(int(v*100)) / 100
}
