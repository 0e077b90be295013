// Package blockchain enriches on-chain events (NFT sales, token transfers,
// DeFi swaps) with market data. Enrichment failures degrade to neutral market
// values; only unknown sub-types and missing fields produce error results.
package blockchain

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/pulsegraph-io/pulsegraph-stack/common/logging"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/internal/market"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/internal/metrics"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/internal/validate"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/pkg/event"
)

// Event sub-types the processor understands.
const (
	EventNFTSale       = "nft_sale"
	EventTokenTransfer = "token_transfer"
	EventDefiSwap      = "defi_swap"
)

const (
	workerName = "blockchain_worker"
	idPrefix   = "blockchain"

	resultType      = "blockchain_event"
	errorResultType = "blockchain"
)

// ErrUnknownEventType reports an event_type the processor has no handler for.
var ErrUnknownEventType = errors.New("unknown blockchain event type")

// Processor enriches blockchain_events envelopes.
type Processor struct {
	provider market.Provider
	log      *logging.Logger
	clock    event.Clock
}

// NewProcessor builds a blockchain processor. A nil provider degrades every
// enrichment to neutral values.
func NewProcessor(provider market.Provider, log *logging.Logger, clock event.Clock) *Processor {
	if clock == nil {
		clock = event.SystemClock
	}
	if log == nil {
		log = logging.Default()
	}
	return &Processor{provider: provider, log: log, clock: clock}
}

// Type returns the event type this processor consumes.
func (p *Processor) Type() string { return event.TypeBlockchainEvents }

// Process enriches one blockchain envelope, dispatching on its event_type.
func (p *Processor) Process(ctx context.Context, evt *event.RawEvent) *event.Result {
	now := p.clock()

	if err := validate.Blockchain(evt); err != nil {
		return event.NewErrorResult(idPrefix, errorResultType, workerName, evt, err, now)
	}

	var (
		analysis any
		insights []string
	)
	switch subType := evt.String("event_type"); subType {
	case EventNFTSale:
		analysis, insights = p.processNFTSale(ctx, evt)
	case EventTokenTransfer:
		analysis, insights = p.processTokenTransfer(ctx, evt)
	case EventDefiSwap:
		analysis, insights = p.processDefiSwap(ctx, evt)
	default:
		err := fmt.Errorf("%w: %q", ErrUnknownEventType, subType)
		return event.NewErrorResult(idPrefix, errorResultType, workerName, evt, err, now)
	}

	return event.NewResult(idPrefix, resultType, workerName, evt, analysis, insights, now)
}

func (p *Processor) collectionStats(ctx context.Context, collection string) market.CollectionStats {
	if p.provider == nil {
		return market.NeutralCollectionStats()
	}
	stats, err := p.provider.CollectionStats(ctx, collection)
	if err != nil {
		p.degraded(ctx, "collection stats lookup failed", err)
		return market.NeutralCollectionStats()
	}
	return stats
}

func (p *Processor) tokenInfo(ctx context.Context, token string) market.TokenInfo {
	if p.provider == nil {
		return market.UnknownTokenInfo()
	}
	info, err := p.provider.TokenInfo(ctx, token)
	if err != nil {
		p.degraded(ctx, "token info lookup failed", err)
		return market.UnknownTokenInfo()
	}
	return info
}

func (p *Processor) transactionDetails(ctx context.Context, signature string) market.TransactionDetails {
	if p.provider == nil {
		return market.UnknownTransaction()
	}
	details, err := p.provider.TransactionDetails(ctx, signature)
	if err != nil {
		p.degraded(ctx, "transaction lookup failed", err)
		return market.UnknownTransaction()
	}
	return details
}

func (p *Processor) degraded(ctx context.Context, msg string, err error) {
	p.log.WarnContext(ctx, msg, logging.FieldWorker, workerName, logging.Error(err))
	metrics.DegradedAnalyses.WithLabelValues(event.TypeBlockchainEvents).Inc()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
