package lead

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pulsegraph-io/pulsegraph-stack/workers/pkg/event"
)

func leadEvent(data map[string]any) *event.RawEvent {
	return &event.RawEvent{EventType: event.TypeLeadScoring, Data: data}
}

func TestExtractScore(t *testing.T) {
	tests := []struct {
		name     string
		analysis string
		want     int
	}{
		{"valid json", `{"score": 85, "category": "hot"}`, 85},
		{"json float score", `{"score": 72.4}`, 72},
		{"regex fallback on prose", `The lead rates {"score": 63} overall, promising.`, 63},
		{"unparseable defaults to 50", "no score anywhere", 50},
		{"json without score field", `{"category": "warm"}`, 50},
		{"clamped above 100", `{"score": 150}`, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractScore(tt.analysis))
		})
	}
}

func TestCategorize(t *testing.T) {
	assert.Equal(t, "hot", Categorize(100))
	assert.Equal(t, "hot", Categorize(80))
	assert.Equal(t, "warm", Categorize(79))
	assert.Equal(t, "warm", Categorize(60))
	assert.Equal(t, "cold", Categorize(59))
	assert.Equal(t, "cold", Categorize(0))
}

func TestFallbackScore(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
		want int
	}{
		{
			name: "enterprise executive via referral",
			data: map[string]any{
				"name":         "Ada Lovelace",
				"email":        "ada@bigcorp.com",
				"company_size": "enterprise",
				"title":        "CEO",
				"source":       "referral",
			},
			// 50 base +5 business email +20 enterprise +15 title +10 source.
			want: 100,
		},
		{
			name: "free email cold outreach",
			data: map[string]any{
				"name":   "Bob",
				"email":  "bob@gmail.com",
				"source": "cold_email",
			},
			want: 35,
		},
		{
			name: "university contact",
			data: map[string]any{
				"name":  "Prof. Chen",
				"email": "chen@stanford.edu",
			},
			want: 65,
		},
		{
			name: "medium company manager on linkedin",
			data: map[string]any{
				"name":         "Dana",
				"email":        "dana@shop.io",
				"company_size": "medium (100-1000)",
				"title":        "Engineering Manager",
				"source":       "linkedin",
			},
			want: 90,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FallbackScore(leadEvent(tt.data)))
		})
	}
}

func TestFallbackAnalysis_ExtractableScore(t *testing.T) {
	evt := leadEvent(map[string]any{"name": "Bob", "email": "bob@gmail.com", "source": "cold_email"})

	raw := FallbackAnalysis(evt)
	assert.Equal(t, 35, ExtractScore(raw))
	assert.Contains(t, raw, "Rule-based scoring")
}

func TestRecommendations(t *testing.T) {
	assert.Contains(t, Recommendations("hot"), "Contact within 1 hour")
	assert.Contains(t, Recommendations("warm"), "Add to nurture campaign")
	assert.Contains(t, Recommendations("cold"), "Follow up in 1 week")
	assert.Len(t, Recommendations("hot"), 4)
}

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt(leadEvent(map[string]any{"name": "Ada", "email": "ada@acme.io"}))

	assert.Contains(t, got, "- Name: Ada")
	assert.Contains(t, got, "- Email: ada@acme.io")
	assert.Contains(t, got, "- Company: Unknown")
	assert.Contains(t, got, "- Phone: Not provided")
	assert.Contains(t, got, `"score": <number>`)
}
