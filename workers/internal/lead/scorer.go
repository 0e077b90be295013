// Package lead scores sales leads with an AI completion, falling back to
// rule-based scoring when the AI call fails. Degraded results are marked by
// their source field rather than by an error.
package lead

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pulsegraph-io/pulsegraph-stack/workers/pkg/event"
)

// Score boundaries for lead categories.
const (
	HotThreshold  = 80
	WarmThreshold = 60
)

const defaultScore = 50

var scoreRe = regexp.MustCompile(`"score":\s*(\d+)`)

// BuildPrompt renders the scoring prompt for one lead payload. Missing fields
// are sent as "Unknown" so the model sees a stable shape.
func BuildPrompt(evt *event.RawEvent) string {
	var b strings.Builder
	b.WriteString("Analyze this lead and provide a comprehensive assessment:\n\n")
	b.WriteString("Lead Information:\n")
	fmt.Fprintf(&b, "- Name: %s\n", evt.StringOr("name", "Unknown"))
	fmt.Fprintf(&b, "- Email: %s\n", evt.StringOr("email", "Unknown"))
	fmt.Fprintf(&b, "- Company: %s\n", evt.StringOr("company", "Unknown"))
	fmt.Fprintf(&b, "- Title: %s\n", evt.StringOr("title", "Unknown"))
	fmt.Fprintf(&b, "- Source: %s\n", evt.StringOr("source", "Unknown"))
	fmt.Fprintf(&b, "- Phone: %s\n", evt.StringOr("phone", "Not provided"))
	fmt.Fprintf(&b, "- Industry: %s\n", evt.StringOr("industry", "Unknown"))
	fmt.Fprintf(&b, "- Company Size: %s\n", evt.StringOr("company_size", "Unknown"))
	b.WriteString(`
Please provide:
1. Lead Score (0-100)
2. Category (hot/warm/cold)
3. Reasoning for the score
4. Key strengths and concerns
5. Recommended next actions

Return as JSON format:
{
    "score": <number>,
    "category": "<hot/warm/cold>",
    "reasoning": "<detailed explanation>",
    "strengths": ["<strength1>", "<strength2>"],
    "concerns": ["<concern1>", "<concern2>"],
    "next_actions": ["<action1>", "<action2>"]
}
`)
	return b.String()
}

// ExtractScore pulls the numeric score out of an analysis string. It tries a
// JSON parse first, then a regex match, then falls back to 50. The result is
// clamped to [0, 100] regardless of what the model claimed.
func ExtractScore(analysis string) int {
	score := defaultScore

	var parsed map[string]any
	if err := json.Unmarshal([]byte(analysis), &parsed); err == nil {
		if v, ok := parsed["score"].(float64); ok {
			score = int(v)
		}
	} else if m := scoreRe.FindStringSubmatch(analysis); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			score = v
		}
	}

	return min(100, max(0, score))
}

// Categorize maps a score to hot, warm, or cold.
func Categorize(score int) string {
	switch {
	case score >= HotThreshold:
		return "hot"
	case score >= WarmThreshold:
		return "warm"
	default:
		return "cold"
	}
}

// Recommendations returns the playbook actions for a category.
func Recommendations(category string) []string {
	switch category {
	case "hot":
		return []string{
			"Contact within 1 hour",
			"Schedule demo call",
			"Send personalized proposal",
			"Assign to senior sales rep",
		}
	case "warm":
		return []string{
			"Follow up within 24 hours",
			"Send relevant case studies",
			"Schedule discovery call",
			"Add to nurture campaign",
		}
	default:
		return []string{
			"Add to long-term nurture sequence",
			"Send educational content",
			"Follow up in 1 week",
			"Qualify budget and timeline",
		}
	}
}

// FallbackScore computes the rule-based score for a lead payload.
func FallbackScore(evt *event.RawEvent) int {
	score := defaultScore

	email := strings.ToLower(evt.String("email"))
	switch {
	case containsAny(email, "gmail.com", "yahoo.com", "hotmail.com"):
		score -= 10
	case containsAny(email, ".edu", ".gov", ".org"):
		score += 15
	default:
		score += 5
	}

	companySize := strings.ToLower(evt.String("company_size"))
	if containsAny(companySize, "enterprise", "1000+") {
		score += 20
	} else if containsAny(companySize, "medium", "100-1000") {
		score += 10
	}

	if containsAny(strings.ToLower(evt.String("title")), "ceo", "cto", "vp", "director", "manager") {
		score += 15
	}

	switch strings.ToLower(evt.String("source")) {
	case "referral", "linkedin", "conference":
		score += 10
	case "cold_email", "advertisement":
		score -= 5
	}

	return min(100, max(0, score))
}

// FallbackAnalysis renders the rule-based score in the same JSON shape the AI
// is asked for, so score extraction works on either path.
func FallbackAnalysis(evt *event.RawEvent) string {
	score := FallbackScore(evt)
	raw, _ := json.Marshal(map[string]any{
		"score":        score,
		"category":     Categorize(score),
		"reasoning":    fmt.Sprintf("Rule-based scoring: %d/100 based on email domain, company size, title, and source", score),
		"strengths":    []string{"Automated scoring available"},
		"concerns":     []string{"AI analysis unavailable"},
		"next_actions": []string{"Follow up within 24 hours", "Qualify budget and timeline"},
	})
	return string(raw)
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
