package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/pulsegraph-io/pulsegraph-stack/workers/internal/blockchain"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/internal/chat"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/internal/lead"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/pkg/event"
)

const leadQuery = `
MERGE (l:Lead {id: $lead_id})
SET l.name = $name,
    l.email = $email,
    l.company = $company,
    l.score = $score,
    l.category = $category,
    l.processed_at = $processed_at

MERGE (c:Company {name: $company})
MERGE (l)-[:WORKS_AT]->(c)

WITH l
MATCH (u:User {id: $user_id})
MERGE (u)-[:PROCESSED]->(l)
`

const blockchainQuery = `
MERGE (e:BlockchainEvent {id: $event_id})
SET e.type = $event_type,
    e.processed_at = $processed_at,
    e.data = $data

WITH e
MATCH (u:User {id: $user_id})
MERGE (u)-[:PROCESSED]->(e)
`

const chatQuery = `
MERGE (m:ChatMessage {id: $message_id})
SET m.content = $content,
    m.sentiment = $sentiment,
    m.engagement_score = $engagement,
    m.processed_at = $processed_at

MERGE (u:ChatUser {username: $username})
MERGE (c:Channel {name: $channel})
MERGE (u)-[:POSTED]->(m)
MERGE (m)-[:IN_CHANNEL]->(c)

WITH m
MATCH (processor:User {id: $processor_id})
MERGE (processor)-[:PROCESSED]->(m)
`

// Graph mirrors successful results into Neo4j.
type Graph struct {
	driver neo4j.DriverWithContext
}

// NewGraph builds a graph mirror over an established driver.
func NewGraph(driver neo4j.DriverWithContext) *Graph {
	return &Graph{driver: driver}
}

// Close releases the underlying driver.
func (g *Graph) Close(ctx context.Context) error {
	return g.driver.Close(ctx)
}

// Mirror upserts the graph shape for one successful result. Unrecognized
// result types are ignored; new worker types opt in here explicitly.
func (g *Graph) Mirror(ctx context.Context, res *event.Result) error {
	switch res.Type {
	case event.TypeLeadScoring:
		return g.mirrorLead(ctx, res)
	case "blockchain_event":
		return g.mirrorBlockchainEvent(ctx, res)
	case event.TypeChatAnalysis:
		return g.mirrorChatMessage(ctx, res)
	default:
		return nil
	}
}

func (g *Graph) mirrorLead(ctx context.Context, res *event.Result) error {
	analysis, ok := res.Analysis.(lead.Analysis)
	if !ok {
		return fmt.Errorf("result %s carries unexpected analysis type %T", res.ID, res.Analysis)
	}

	original := func(key string) string {
		s, _ := res.OriginalData[key].(string)
		return s
	}

	return g.run(ctx, leadQuery, map[string]any{
		"lead_id":      res.ID,
		"name":         original("name"),
		"email":        original("email"),
		"company":      original("company"),
		"score":        analysis.Score,
		"category":     analysis.Category,
		"processed_at": res.ProcessedAt.Format(time.RFC3339),
		"user_id":      res.ProcessedBy,
	})
}

func (g *Graph) mirrorBlockchainEvent(ctx context.Context, res *event.Result) error {
	// Blockchain analyses are heterogeneous; the graph stores the full
	// result as a JSON property.
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encoding result %s: %w", res.ID, err)
	}

	var subType string
	switch res.Analysis.(type) {
	case blockchain.NFTSale:
		subType = blockchain.EventNFTSale
	case blockchain.TokenTransfer:
		subType = blockchain.EventTokenTransfer
	case blockchain.DefiSwap:
		subType = blockchain.EventDefiSwap
	default:
		subType = res.Type
	}

	return g.run(ctx, blockchainQuery, map[string]any{
		"event_id":     res.ID,
		"event_type":   subType,
		"processed_at": res.ProcessedAt.Format(time.RFC3339),
		"data":         string(raw),
		"user_id":      res.ProcessedBy,
	})
}

func (g *Graph) mirrorChatMessage(ctx context.Context, res *event.Result) error {
	analysis, ok := res.Analysis.(chat.Analysis)
	if !ok {
		return fmt.Errorf("result %s carries unexpected analysis type %T", res.ID, res.Analysis)
	}

	return g.run(ctx, chatQuery, map[string]any{
		"message_id":   res.ID,
		"content":      analysis.Message,
		"sentiment":    analysis.Sentiment.Label,
		"engagement":   analysis.EngagementScore,
		"processed_at": res.ProcessedAt.Format(time.RFC3339),
		"username":     analysis.User,
		"channel":      analysis.Channel,
		"processor_id": res.ProcessedBy,
	})
}

func (g *Graph) run(ctx context.Context, query string, params map[string]any) error {
	_, err := neo4j.ExecuteQuery(ctx, g.driver, query, params, neo4j.EagerResultTransformer)
	if err != nil {
		return fmt.Errorf("graph upsert failed: %w", err)
	}
	return nil
}
