package usecase

import (
	"strings"
	"time"
	"unicode"

	"news-chatbot/internal/domain"
)

// QueryAnalyzer classifies a user message and extracts the structure that
// drives retrieval: a rewritten query, optional category and recency
// filters, and whether retrieval is needed at all.
type QueryAnalyzer interface {
	Analyze(message string, history []domain.Message) domain.QueryIntent
}

// Known category vocabulary for whole-token matching. Members double as
// the filter values stored on indexed articles.
var knownCategories = map[string]struct{}{
	"technology":    {},
	"business":      {},
	"sports":        {},
	"politics":      {},
	"science":       {},
	"health":        {},
	"entertainment": {},
	"world":         {},
}

// recencyPhrases maps explicit time phrases to a window relative to now.
// Longer phrases are listed first so "last week" wins over "week".
var recencyPhrases = []struct {
	phrase string
	start  time.Duration // how far back the window opens
	end    time.Duration // how far back the window closes (0 = now)
}{
	{"this week", 7 * 24 * time.Hour, 0},
	{"past week", 7 * 24 * time.Hour, 0},
	{"last week", 7 * 24 * time.Hour, 0},
	{"this month", 30 * 24 * time.Hour, 0},
	{"yesterday", 48 * time.Hour, 24 * time.Hour},
	{"today", 24 * time.Hour, 0},
	{"latest", 72 * time.Hour, 0},
	{"recent", 72 * time.Hour, 0},
}

// smalltalkExact matches messages that are pure conversational filler.
var smalltalkExact = map[string]struct{}{
	"hi": {}, "hello": {}, "hey": {}, "thanks": {}, "thank you": {},
	"ok": {}, "okay": {}, "bye": {}, "goodbye": {}, "good morning": {},
	"good evening": {}, "who are you": {}, "what can you do": {},
	"how are you": {},
}

// clarificationPrefixes match follow-ups about the assistant's own prior
// statement. They only short-circuit retrieval when history exists.
var clarificationPrefixes = []string{
	"what do you mean",
	"can you explain that again",
	"can you repeat",
	"say that again",
	"repeat that",
	"rephrase that",
}

// anaphorTokens signal that the message leans on a prior turn.
var anaphorTokens = map[string]struct{}{
	"it": {}, "its": {}, "that": {}, "this": {}, "they": {}, "them": {},
	"those": {}, "these": {}, "he": {}, "she": {}, "his": {}, "her": {},
}

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {}, "of": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "with": {}, "about": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "do": {},
	"does": {}, "did": {}, "can": {}, "could": {}, "will": {}, "would": {},
	"what": {}, "who": {}, "when": {}, "where": {}, "why": {}, "how": {},
	"tell": {}, "me": {}, "you": {}, "your": {}, "i": {}, "my": {}, "we": {},
	"please": {}, "news": {}, "latest": {}, "recent": {}, "today": {},
}

type queryAnalyzer struct {
	now func() time.Time
}

// NewQueryAnalyzer creates the rule-based analyzer. It never fails: any
// input it cannot classify degrades to the permissive default of
// retrieving with no filters.
func NewQueryAnalyzer() QueryAnalyzer {
	return &queryAnalyzer{now: time.Now}
}

func (a *queryAnalyzer) Analyze(message string, history []domain.Message) domain.QueryIntent {
	intent := domain.QueryIntent{
		RawText:        message,
		RewrittenQuery: message,
		NeedsRetrieval: true,
	}

	normalized := normalize(message)
	if normalized == "" {
		return intent
	}
	tokens := tokenize(normalized)

	if a.isSmalltalk(normalized, history) {
		intent.NeedsRetrieval = false
		return intent
	}

	if cats := matchCategories(tokens); len(cats) > 0 {
		intent.CategoryFilter = cats
	}
	if win := a.matchRecency(normalized); win != nil {
		intent.RecencyWindow = win
	}
	if rewritten := rewriteWithAntecedent(message, tokens, history); rewritten != "" {
		intent.RewrittenQuery = rewritten
	}

	return intent
}

// isSmalltalk classifies pure conversational continuations. The tie-break
// on low confidence is always "retrieve anyway".
func (a *queryAnalyzer) isSmalltalk(normalized string, history []domain.Message) bool {
	if _, ok := smalltalkExact[normalized]; ok {
		return true
	}
	if len(history) == 0 {
		return false
	}
	for _, prefix := range clarificationPrefixes {
		if strings.HasPrefix(normalized, prefix) {
			return true
		}
	}
	return false
}

func matchCategories(tokens []string) []string {
	var cats []string
	seen := make(map[string]struct{})
	for _, tok := range tokens {
		if _, known := knownCategories[tok]; !known {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		cats = append(cats, tok)
	}
	return cats
}

func (a *queryAnalyzer) matchRecency(normalized string) *domain.RecencyWindow {
	now := a.now()
	for _, rp := range recencyPhrases {
		if !strings.Contains(normalized, rp.phrase) {
			continue
		}
		return &domain.RecencyWindow{
			Start: now.Add(-rp.start),
			End:   now.Add(-rp.end),
		}
	}
	return nil
}

// rewriteWithAntecedent expands a message that leans on the previous turn
// pair with that turn's content keywords, so retrieval is not blind to
// conversational context. Returns "" when no rewrite applies.
func rewriteWithAntecedent(message string, tokens []string, history []domain.Message) string {
	if len(history) == 0 {
		return ""
	}
	if !hasAnaphor(message, tokens) {
		return ""
	}

	session := domain.Session{Messages: history}
	prevUser, prevAssistant := session.LastTurnPair()

	keywords := antecedentKeywords(prevUser)
	if len(keywords) == 0 {
		keywords = antecedentKeywords(prevAssistant)
	}
	if len(keywords) == 0 {
		return ""
	}

	var missing []string
	present := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		present[tok] = struct{}{}
	}
	for _, kw := range keywords {
		if _, ok := present[kw]; !ok {
			missing = append(missing, kw)
		}
	}
	if len(missing) == 0 {
		return ""
	}
	return message + " " + strings.Join(missing, " ")
}

func hasAnaphor(message string, tokens []string) bool {
	normalized := normalize(message)
	if strings.HasPrefix(normalized, "what about") ||
		strings.HasPrefix(normalized, "how about") ||
		strings.HasPrefix(normalized, "and ") {
		return true
	}
	for _, tok := range tokens {
		if _, ok := anaphorTokens[tok]; ok {
			return true
		}
	}
	// Very short follow-ups are treated as elliptical.
	return len(tokens) <= 3
}

const maxAntecedentKeywords = 8

func antecedentKeywords(msg *domain.Message) []string {
	if msg == nil {
		return nil
	}
	var keywords []string
	for _, tok := range tokenize(normalize(msg.Text)) {
		if _, stop := stopwords[tok]; stop {
			continue
		}
		if _, anaphor := anaphorTokens[tok]; anaphor {
			continue
		}
		keywords = append(keywords, tok)
		if len(keywords) == maxAntecedentKeywords {
			break
		}
	}
	return keywords
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.TrimRightFunc(s, func(r rune) bool {
		return unicode.IsPunct(r)
	})
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
