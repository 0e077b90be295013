package lead

import (
	"context"

	"github.com/pulsegraph-io/pulsegraph-stack/common/logging"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/internal/ai"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/internal/metrics"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/internal/validate"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/pkg/event"
)

const (
	workerName = "lead_scoring_worker"
	idPrefix   = "lead"

	// Source values recorded on the analysis. Degradation is visible in the
	// result itself, never hidden behind an error.
	SourceAI       = "ai"
	SourceFallback = "fallback"
)

// Analysis is the scoring outcome recorded in the result.
type Analysis struct {
	RawAnalysis     string   `json:"ai_analysis"`
	Score           int      `json:"lead_score"`
	Category        string   `json:"category"`
	ModelUsed       string   `json:"model_used,omitempty"`
	Source          string   `json:"source"`
	Recommendations []string `json:"recommendations"`
}

// Processor scores lead_scoring envelopes.
type Processor struct {
	completer ai.Completer
	model     string
	log       *logging.Logger
	clock     event.Clock
}

// NewProcessor builds a lead processor. A nil completer forces the rule-based
// path for every event.
func NewProcessor(completer ai.Completer, model string, log *logging.Logger, clock event.Clock) *Processor {
	if clock == nil {
		clock = event.SystemClock
	}
	if log == nil {
		log = logging.Default()
	}
	return &Processor{completer: completer, model: model, log: log, clock: clock}
}

// Type returns the event type this processor consumes.
func (p *Processor) Type() string { return event.TypeLeadScoring }

// Process scores one lead envelope. An AI failure degrades to rule-based
// scoring and still yields a success result.
func (p *Processor) Process(ctx context.Context, evt *event.RawEvent) *event.Result {
	now := p.clock()

	if err := validate.Lead(evt); err != nil {
		return event.NewErrorResult(idPrefix, event.TypeLeadScoring, workerName, evt, err, now)
	}

	raw, source := p.analyze(ctx, evt)
	score := ExtractScore(raw)
	category := Categorize(score)

	analysis := Analysis{
		RawAnalysis:     raw,
		Score:           score,
		Category:        category,
		Source:          source,
		Recommendations: Recommendations(category),
	}
	if source == SourceAI {
		analysis.ModelUsed = p.model
	}

	return event.NewResult(idPrefix, event.TypeLeadScoring, workerName, evt, analysis, nil, now)
}

func (p *Processor) analyze(ctx context.Context, evt *event.RawEvent) (raw, source string) {
	if p.completer == nil {
		return FallbackAnalysis(evt), SourceFallback
	}

	content, err := p.completer.Complete(ctx, BuildPrompt(evt))
	if err != nil {
		p.log.WarnContext(ctx, "AI analysis failed, using rule-based scoring",
			logging.FieldWorker, workerName, logging.Error(err))
		metrics.DegradedAnalyses.WithLabelValues(event.TypeLeadScoring).Inc()
		return FallbackAnalysis(evt), SourceFallback
	}
	return content, SourceAI
}
