package chat

import (
	"context"

	"github.com/pulsegraph-io/pulsegraph-stack/workers/internal/validate"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/pkg/event"
)

const (
	workerName = "chat_analysis_worker"
	idPrefix   = "chat"
)

// Analysis is the full per-message analysis recorded in the result.
type Analysis struct {
	Message         string       `json:"message"`
	User            string       `json:"user"`
	Channel         string       `json:"channel"`
	Platform        string       `json:"platform"`
	Sentiment       Sentiment    `json:"sentiment"`
	Toxicity        Toxicity     `json:"toxicity"`
	Spam            Spam         `json:"spam"`
	Keywords        []string     `json:"keywords,omitempty"`
	Entities        Entities     `json:"entities"`
	Language        Language     `json:"language"`
	EngagementScore int          `json:"engagement_score"`
	MessageStats    MessageStats `json:"message_stats"`
	Moderation      Moderation   `json:"moderation"`
}

// Processor turns chat_analysis envelopes into results. Every envelope yields
// exactly one result; failures become error results, never panics or retries.
type Processor struct {
	analyzer *Analyzer
	clock    event.Clock
}

// NewProcessor builds a chat processor. A nil clock uses the system clock.
func NewProcessor(lex *Lexicon, clock event.Clock) *Processor {
	if clock == nil {
		clock = event.SystemClock
	}
	return &Processor{analyzer: NewAnalyzer(lex), clock: clock}
}

// Type returns the event type this processor consumes.
func (p *Processor) Type() string { return event.TypeChatAnalysis }

// Process analyzes one chat message envelope.
func (p *Processor) Process(_ context.Context, evt *event.RawEvent) *event.Result {
	now := p.clock()

	if err := validate.Chat(evt); err != nil {
		return event.NewErrorResult(idPrefix, event.TypeChatAnalysis, workerName, evt, err, now)
	}

	message := evt.String("message")

	sentiment := p.analyzer.Sentiment(message)
	toxicity := p.analyzer.Toxicity(message)
	spam := p.analyzer.Spam(message)
	engagement := p.analyzer.EngagementScore(message)

	analysis := Analysis{
		Message:         message,
		User:            evt.String("user"),
		Channel:         evt.StringOr("channel", "general"),
		Platform:        evt.StringOr("platform", "unknown"),
		Sentiment:       sentiment,
		Toxicity:        toxicity,
		Spam:            spam,
		Keywords:        p.analyzer.Keywords(message),
		Entities:        p.analyzer.Entities(message),
		Language:        p.analyzer.Language(message),
		EngagementScore: engagement,
		MessageStats:    p.analyzer.Stats(message),
		Moderation:      p.analyzer.ModerationFlags(toxicity, spam),
	}

	insights := p.analyzer.Insights(sentiment, toxicity, engagement)

	return event.NewResult(idPrefix, event.TypeChatAnalysis, workerName, evt, analysis, insights, now)
}
