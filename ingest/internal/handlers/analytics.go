package handlers

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pulsegraph-io/pulsegraph-stack/common/logging"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/pkg/event"
)

// AnalyticsHandler serves read-only summaries over the result cache. The TTL
// on results bounds every view to roughly the last hour of activity.
type AnalyticsHandler struct {
	rdb *redis.Client
	log *logging.Logger
}

// NewAnalyticsHandler builds the analytics handler.
func NewAnalyticsHandler(rdb *redis.Client, log *logging.Logger) *AnalyticsHandler {
	if log == nil {
		log = logging.Default()
	}
	return &AnalyticsHandler{rdb: rdb, log: log}
}

// Dashboard reports processed counts and queue depths per event type.
func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	eventCounts := make(map[string]int, len(event.Types()))
	queueDepths := make(map[string]int64, len(event.Types()))
	totalProcessed := 0
	var totalPending int64
	activeQueues := 0

	for _, t := range event.Types() {
		keys, err := h.rdb.Keys(ctx, "processed:"+t+":*").Result()
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"detail": "failed to get dashboard data"})
			return
		}
		eventCounts[t] = len(keys)
		totalProcessed += len(keys)

		depth, err := h.rdb.LLen(ctx, event.QueueName(t)).Result()
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"detail": "failed to get dashboard data"})
			return
		}
		queueDepths[t] = depth
		totalPending += depth
		if depth > 0 {
			activeQueues++
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"overview": map[string]any{
			"total_events_processed": totalProcessed,
			"active_queues":          activeQueues,
			"total_pending":          totalPending,
		},
		"event_counts": eventCounts,
		"queue_depths": queueDepths,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Leads summarizes recent lead scoring results.
func (h *AnalyticsHandler) Leads(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	results, err := h.recentResults(ctx, event.TypeLeadScoring, 50)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"detail": "failed to get lead analytics"})
		return
	}

	var hot, warm, cold int
	for _, res := range results {
		switch category(res) {
		case "hot":
			hot++
		case "warm":
			warm++
		default:
			cold++
		}
	}

	total := len(results)
	conversionRate := 0.0
	if total > 0 {
		conversionRate = round2(float64(hot) / float64(total) * 100)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_leads":  total,
		"recent_leads": tail(results, 10),
		"summary": map[string]any{
			"hot_leads":       hot,
			"warm_leads":      warm,
			"cold_leads":      cold,
			"conversion_rate": conversionRate,
		},
	})
}

// Blockchain summarizes recent blockchain enrichment results.
func (h *AnalyticsHandler) Blockchain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	results, err := h.recentResults(ctx, event.TypeBlockchainEvents, 50)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"detail": "failed to get blockchain analytics"})
		return
	}

	var nftSales, transfers, swaps int
	var totalVolume float64
	for _, res := range results {
		analysis, _ := res["analysis"].(map[string]any)
		if analysis == nil {
			continue
		}
		switch {
		case hasKey(analysis, "collection"):
			nftSales++
			if price, ok := analysis["price"].(float64); ok {
				totalVolume += price
			}
		case hasKey(analysis, "from_address"):
			transfers++
		case hasKey(analysis, "token_in"):
			swaps++
		}
	}

	avgPrice := 0.0
	if nftSales > 0 {
		avgPrice = round2(totalVolume / float64(nftSales))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_events":  len(results),
		"recent_events": tail(results, 10),
		"summary": map[string]any{
			"total_volume":    round2(totalVolume),
			"nft_sales":       nftSales,
			"token_transfers": transfers,
			"defi_swaps":      swaps,
			"avg_price":       avgPrice,
		},
	})
}

// Chat summarizes recent chat analysis results.
func (h *AnalyticsHandler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	results, err := h.recentResults(ctx, event.TypeChatAnalysis, 50)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"detail": "failed to get chat analytics"})
		return
	}

	var positive, negative, neutral int
	var totalEngagement float64
	for _, res := range results {
		analysis, _ := res["analysis"].(map[string]any)
		if analysis == nil {
			neutral++
			continue
		}

		label := "neutral"
		if sentiment, ok := analysis["sentiment"].(map[string]any); ok {
			if l, ok := sentiment["label"].(string); ok {
				label = l
			}
		}
		switch label {
		case "positive":
			positive++
		case "negative":
			negative++
		default:
			neutral++
		}

		if engagement, ok := analysis["engagement_score"].(float64); ok {
			totalEngagement += engagement
		}
	}

	total := len(results)
	avgEngagement, sentimentRatio := 0.0, 0.0
	if total > 0 {
		avgEngagement = round2(totalEngagement / float64(total))
		sentimentRatio = round2(float64(positive) / float64(total))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_messages":  total,
		"recent_messages": tail(results, 10),
		"summary": map[string]any{
			"positive_sentiment": positive,
			"negative_sentiment": negative,
			"neutral_sentiment":  neutral,
			"sentiment_ratio":    sentimentRatio,
			"avg_engagement":     avgEngagement,
		},
	})
}

// recentResults loads up to limit decoded results for a worker type, oldest
// first. Error results are included; callers filter by shape.
func (h *AnalyticsHandler) recentResults(ctx context.Context, workerType string, limit int) ([]map[string]any, error) {
	keys, err := h.rdb.Keys(ctx, "processed:"+workerType+":*").Result()
	if err != nil {
		return nil, err
	}

	sort.Strings(keys)
	if len(keys) > limit {
		keys = keys[len(keys)-limit:]
	}

	results := make([]map[string]any, 0, len(keys))
	for _, key := range keys {
		raw, err := h.rdb.Get(ctx, key).Result()
		if err != nil {
			continue
		}
		var decoded map[string]any
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			continue
		}
		results = append(results, decoded)
	}
	return results, nil
}

func category(res map[string]any) string {
	analysis, _ := res["analysis"].(map[string]any)
	if analysis == nil {
		return ""
	}
	c, _ := analysis["category"].(string)
	return c
}

func hasKey(m map[string]any, key string) bool {
	_, ok := m[key]
	return ok
}

func tail(results []map[string]any, n int) []map[string]any {
	if len(results) <= n {
		return results
	}
	return results[len(results)-n:]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
