// Package chat analyzes chat and social media messages: sentiment, toxicity,
// spam, entity extraction, engagement scoring, and moderation flags.
package chat

import "regexp"

// Lexicon holds the word sets and patterns the analyzer matches against.
// It is built once at startup and passed by value injection; analyzers never
// reach for process-wide globals.
type Lexicon struct {
	Positive map[string]bool
	Negative map[string]bool
	Toxic    map[string]bool

	// Toxicity sub-lists used for category tagging.
	HateWords   map[string]bool
	SpamWords   map[string]bool
	ThreatWords map[string]bool

	SpamPatterns []*regexp.Regexp
	StopWords    map[string]bool
}

// DefaultLexicon returns the built-in English/crypto lexicon.
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		Positive: wordSet(
			"good", "great", "awesome", "amazing", "excellent", "fantastic",
			"wonderful", "brilliant", "outstanding", "superb", "perfect",
			"love", "like", "enjoy", "happy", "excited", "thrilled",
			"bullish", "moon", "rocket", "gem", "diamond", "hands",
			"hodl", "buy", "pump", "green", "profit", "gains",
			"best", "top", "winner", "success", "victory", "champion",
			"positive", "optimistic", "confident", "strong", "solid",
			"thank", "thanks", "grateful", "appreciate", "blessed",
		),
		Negative: wordSet(
			"bad", "terrible", "awful", "horrible", "disgusting", "hate",
			"dislike", "angry", "mad", "furious", "disappointed", "sad",
			"bearish", "dump", "crash", "red", "loss", "losses",
			"scam", "fraud", "fake", "lie", "lying", "cheat",
			"worst", "bottom", "loser", "failure", "defeat", "disaster",
			"negative", "pessimistic", "worried", "concerned", "afraid",
			"panic", "fear", "scared", "anxious", "stressed", "broken",
		),
		Toxic: wordSet(
			"spam", "scam", "fraud", "fake", "bot", "shill",
			"pump", "dump", "rugpull", "ponzi", "pyramid",
			"hate", "toxic", "troll", "fud", "manipulation",
			"stupid", "idiot", "moron", "dumb",
			"kill", "die", "death", "suicide", "harm",
		),
		HateWords:   wordSet("hate", "toxic", "stupid", "idiot", "moron", "dumb"),
		SpamWords:   wordSet("spam", "scam", "fraud", "fake", "bot", "shill"),
		ThreatWords: wordSet("kill", "die", "death", "suicide", "harm"),
		SpamPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)click\s+here`),
			regexp.MustCompile(`(?i)free\s+money`),
			regexp.MustCompile(`(?i)guaranteed\s+profit`),
			regexp.MustCompile(`(?i)100%\s+returns?`),
			regexp.MustCompile(`(?i)risk\s+free`),
			regexp.MustCompile(`(?i)limited\s+time`),
			regexp.MustCompile(`(?i)act\s+now`),
			regexp.MustCompile(`(?i)dm\s+me`),
			regexp.MustCompile(`(?i)private\s+message`),
			regexp.MustCompile(`https?://\S+`),
			regexp.MustCompile(`(?i)telegram\.me`),
			regexp.MustCompile(`(?i)whatsapp\.com`),
		},
		StopWords: wordSet(
			"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
			"of", "with", "by", "is", "are", "was", "were", "be", "been", "being",
			"have", "has", "had", "do", "does", "did", "will", "would", "could",
			"should", "may", "might", "must", "can", "this", "that", "these", "those",
		),
	}
}

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
