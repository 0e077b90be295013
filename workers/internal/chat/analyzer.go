package chat

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

var (
	wordRe    = regexp.MustCompile(`\b\w+\b`)
	mentionRe = regexp.MustCompile(`@(\w+)`)
	hashtagRe = regexp.MustCompile(`#(\w+)`)
	urlRe     = regexp.MustCompile(`https?://\S+`)
	emailRe   = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe   = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
	addressRe = regexp.MustCompile(`\b[13][a-km-zA-HJ-NP-Z1-9]{25,34}\b`)
	emojiRe   = regexp.MustCompile(`[\x{1F600}-\x{1F64F}\x{1F300}-\x{1F5FF}\x{1F680}-\x{1F6FF}\x{1F1E0}-\x{1F1FF}]`)
	punctRe   = regexp.MustCompile(`[^\w\s]`)
	splitRe   = regexp.MustCompile(`[.!?]+`)
)

// Sentiment is the lexicon-based sentiment result for one message.
type Sentiment struct {
	Score         float64 `json:"score"`
	Label         string  `json:"label"`
	Confidence    float64 `json:"confidence"`
	PositiveWords int     `json:"positive_words"`
	NegativeWords int     `json:"negative_words"`
}

// Toxicity is the toxic-content detection result.
type Toxicity struct {
	IsToxic    bool     `json:"is_toxic"`
	Score      float64  `json:"score"`
	Level      string   `json:"level"`
	Confidence float64  `json:"confidence"`
	ToxicWords []string `json:"toxic_words,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// Spam is the spam detection result.
type Spam struct {
	IsSpam     bool     `json:"is_spam"`
	Score      float64  `json:"score"`
	Confidence float64  `json:"confidence"`
	Indicators []string `json:"indicators,omitempty"`
	RiskLevel  string   `json:"risk_level"`
}

// Entities holds the extracted entity lists. Empty categories are omitted.
type Entities struct {
	Mentions     []string `json:"mentions,omitempty"`
	Hashtags     []string `json:"hashtags,omitempty"`
	URLs         []string `json:"urls,omitempty"`
	Emails       []string `json:"emails,omitempty"`
	PhoneNumbers []string `json:"phone_numbers,omitempty"`
	Addresses    []string `json:"crypto_addresses,omitempty"`
}

// MessageStats holds basic shape statistics about the message.
type MessageStats struct {
	CharacterCount   int     `json:"character_count"`
	WordCount        int     `json:"word_count"`
	SentenceCount    int     `json:"sentence_count"`
	AvgWordLength    float64 `json:"avg_word_length"`
	UppercaseRatio   float64 `json:"uppercase_ratio"`
	PunctuationCount int     `json:"punctuation_count"`
}

// Language is the naive language detection result.
type Language struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

// Moderation carries the flags and recommended actions derived from toxicity
// and spam results.
type Moderation struct {
	Flags               []string `json:"flags"`
	RecommendedActions  []string `json:"recommended_actions"`
	RequiresHumanReview bool     `json:"requires_human_review"`
	AutoModerate        bool     `json:"auto_moderate"`
}

// Analyzer runs the individual chat analyses against an injected lexicon.
type Analyzer struct {
	lex *Lexicon
}

// NewAnalyzer creates an analyzer for the given lexicon.
func NewAnalyzer(lex *Lexicon) *Analyzer {
	if lex == nil {
		lex = DefaultLexicon()
	}
	return &Analyzer{lex: lex}
}

// Tokenize splits a message into lowercase word tokens.
func (a *Analyzer) Tokenize(message string) []string {
	return wordRe.FindAllString(strings.ToLower(message), -1)
}

// Sentiment scores the message in [-1, 1] against the positive/negative word
// sets. A message with no sentiment words is neutral with zero confidence.
func (a *Analyzer) Sentiment(message string) Sentiment {
	words := a.Tokenize(message)

	positive, negative := 0, 0
	for _, w := range words {
		if a.lex.Positive[w] {
			positive++
		}
		if a.lex.Negative[w] {
			negative++
		}
	}

	total := positive + negative
	if total == 0 || len(words) == 0 {
		return Sentiment{Label: "neutral", PositiveWords: positive, NegativeWords: negative}
	}

	score := min(1, max(-1, float64(positive-negative)/float64(len(words))))

	label := "neutral"
	if score > 0.1 {
		label = "positive"
	} else if score < -0.1 {
		label = "negative"
	}

	return Sentiment{
		Score:         round3(score),
		Label:         label,
		Confidence:    round3(min(1, float64(total)/float64(len(words)))),
		PositiveWords: positive,
		NegativeWords: negative,
	}
}

// Toxicity scores the message against the toxic word set. Scores are monotonic
// non-decreasing in the number of matched words.
func (a *Analyzer) Toxicity(message string) Toxicity {
	words := a.Tokenize(message)

	var matches []string
	for _, w := range words {
		if a.lex.Toxic[w] {
			matches = append(matches, w)
		}
	}

	wordCount := len(words)
	if wordCount == 0 {
		wordCount = 1
	}
	score := min(1, float64(len(matches))/float64(wordCount)*10)

	level := "none"
	switch {
	case score > 0.7:
		level = "high"
	case score > 0.3:
		level = "medium"
	case score > 0:
		level = "low"
	}

	return Toxicity{
		IsToxic:    score > 0.3,
		Score:      round3(score),
		Level:      level,
		Confidence: round3(min(1, float64(len(matches))/float64(wordCount)*5)),
		ToxicWords: matches,
		Categories: a.toxicityCategories(matches),
	}
}

func (a *Analyzer) toxicityCategories(matches []string) []string {
	var categories []string
	if anyIn(matches, a.lex.HateWords) {
		categories = append(categories, "hate_speech")
	}
	if anyIn(matches, a.lex.SpamWords) {
		categories = append(categories, "spam")
	}
	if anyIn(matches, a.lex.ThreatWords) {
		categories = append(categories, "threats")
	}
	return categories
}

// Spam checks the message against the spam patterns and structural heuristics.
func (a *Analyzer) Spam(message string) Spam {
	var indicators []string

	for _, pattern := range a.lex.SpamPatterns {
		if pattern.MatchString(message) {
			indicators = append(indicators, pattern.String())
		}
	}

	if len(message) > 500 {
		indicators = append(indicators, "excessive_length")
	}
	if strings.Count(message, "!") > 5 {
		indicators = append(indicators, "excessive_punctuation")
	}
	if diversityRatio(message) < 0.3 {
		indicators = append(indicators, "low_diversity")
	}

	score := min(1, float64(len(indicators))/5)

	riskLevel := "low"
	switch {
	case score > 0.7:
		riskLevel = "high"
	case score > 0.3:
		riskLevel = "medium"
	}

	return Spam{
		IsSpam:     score > 0.5,
		Score:      round3(score),
		Confidence: round3(min(1, float64(len(indicators))/3)),
		Indicators: indicators,
		RiskLevel:  riskLevel,
	}
}

// Keywords returns up to 10 de-duplicated tokens longer than 3 characters that
// are not stop words, in order of first occurrence.
func (a *Analyzer) Keywords(message string) []string {
	seen := make(map[string]bool)
	var keywords []string
	for _, w := range a.Tokenize(message) {
		if len(w) <= 3 || a.lex.StopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		keywords = append(keywords, w)
		if len(keywords) == 10 {
			break
		}
	}
	return keywords
}

// Entities extracts mentions, hashtags, URLs, emails, phone numbers, and
// address-like tokens.
func (a *Analyzer) Entities(message string) Entities {
	return Entities{
		Mentions:     captures(mentionRe, message),
		Hashtags:     captures(hashtagRe, message),
		URLs:         urlRe.FindAllString(message, -1),
		Emails:       emailRe.FindAllString(message, -1),
		PhoneNumbers: phoneRe.FindAllString(message, -1),
		Addresses:    addressRe.FindAllString(message, -1),
	}
}

// EngagementScore estimates likely audience interaction on a 0-100 scale.
func (a *Analyzer) EngagementScore(message string) int {
	score := 50

	length := len(message)
	switch {
	case length >= 50 && length <= 200:
		score += 10
	case length > 500:
		score -= 10
	case length < 10:
		score -= 5
	}

	score += min(10, strings.Count(message, "?")*5)
	score += min(10, strings.Count(message, "!")*2)
	score += min(15, len(mentionRe.FindAllString(message, -1))*5)
	score += min(10, len(hashtagRe.FindAllString(message, -1))*3)
	score += min(15, len(emojiRe.FindAllString(message, -1))*3)

	return min(100, max(0, score))
}

// Language is a naive English detector based on function-word density.
func (a *Analyzer) Language(message string) Language {
	englishWords := map[string]bool{
		"the": true, "and": true, "or": true, "but": true, "is": true,
		"are": true, "was": true, "were": true, "have": true, "has": true,
	}

	words := a.Tokenize(message)
	wordCount := len(words)
	if wordCount == 0 {
		wordCount = 1
	}

	english := 0
	for _, w := range words {
		if englishWords[w] {
			english++
		}
	}

	ratio := float64(english) / float64(wordCount)
	if ratio > 0.1 {
		return Language{Language: "en", Confidence: round3(min(1, ratio*2))}
	}
	return Language{Language: "unknown", Confidence: 0.5}
}

// Stats computes basic message shape statistics.
func (a *Analyzer) Stats(message string) MessageStats {
	words := a.Tokenize(message)

	wordCount := len(words)
	avgLen := 0.0
	if wordCount > 0 {
		total := 0
		for _, w := range words {
			total += len(w)
		}
		avgLen = float64(total) / float64(wordCount)
	}

	upper := 0
	for _, r := range message {
		if unicode.IsUpper(r) {
			upper++
		}
	}
	charCount := len(message)
	upperRatio := 0.0
	if charCount > 0 {
		upperRatio = float64(upper) / float64(charCount)
	}

	return MessageStats{
		CharacterCount:   charCount,
		WordCount:        wordCount,
		SentenceCount:    len(splitRe.Split(message, -1)),
		AvgWordLength:    round2(avgLen),
		UppercaseRatio:   round3(upperRatio),
		PunctuationCount: len(punctRe.FindAllString(message, -1)),
	}
}

// ModerationFlags derives flags and actions from toxicity and spam results.
// auto_moderate is set only for high toxicity.
func (a *Analyzer) ModerationFlags(tox Toxicity, spam Spam) Moderation {
	flags := []string{}
	actions := []string{}

	if tox.IsToxic {
		flags = append(flags, "toxic_content")
		if tox.Level == "high" {
			actions = append(actions, "auto_remove")
		} else {
			actions = append(actions, "flag_for_review")
		}
	}

	if spam.IsSpam {
		flags = append(flags, "spam_content")
		actions = append(actions, "flag_for_review")
	}

	return Moderation{
		Flags:               flags,
		RecommendedActions:  actions,
		RequiresHumanReview: len(flags) > 0,
		AutoModerate:        containsStr(actions, "auto_remove"),
	}
}

// Insights summarizes notable analysis outcomes as human-readable strings.
func (a *Analyzer) Insights(sentiment Sentiment, tox Toxicity, engagement int) []string {
	var insights []string

	if sentiment.Label == "positive" && engagement > 70 {
		insights = append(insights, "High-engagement positive message - potential viral content")
	}
	if sentiment.Label == "negative" && sentiment.Confidence > 0.7 {
		insights = append(insights, "Strong negative sentiment detected - monitor for escalation")
	}
	if tox.IsToxic {
		insights = append(insights, "Toxic content detected - requires moderation")
	}
	if engagement > 80 {
		insights = append(insights, "High engagement potential - consider promoting")
	} else if engagement < 30 {
		insights = append(insights, "Low engagement - content may need improvement")
	}

	return insights
}

func diversityRatio(message string) float64 {
	if message == "" {
		return 1
	}
	unique := make(map[rune]bool)
	total := 0
	for _, r := range strings.ToLower(message) {
		unique[r] = true
		total++
	}
	return float64(len(unique)) / float64(total)
}

func captures(re *regexp.Regexp, s string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(s, -1) {
		out = append(out, m[1])
	}
	return out
}

func anyIn(words []string, set map[string]bool) bool {
	for _, w := range words {
		if set[w] {
			return true
		}
	}
	return false
}

func containsStr(list []string, target string) bool {
	for _, s := range list {
		if s == target {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
