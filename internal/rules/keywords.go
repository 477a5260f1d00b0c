package rules

import (
	"strings"
	"unicode"

	"github.com/MrSnakeDoc/curator/internal/domain"
)

const (
	// Scoring weights
	ScoreWordHit   = 1.0
	ScorePhraseHit = 2.0 // multi-word keywords are more specific
)

// ScoreKeywords runs keyword voting over the extracted text and
// returns the category with the strictly-highest positive score.
// Ties keep the first-declared category; a zero score across the
// board returns nil. User keyword rules are consulted before the
// built-in ones and therefore win ties against them.
func (e *Engine) ScoreKeywords(text string) *Match {
	e.mu.RLock()
	defer e.mu.RUnlock()

	text = strings.ToLower(text)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	counts := tokenCounts(text)

	var (
		bestCategory string
		bestScore    float64
	)
	for _, kr := range e.user.Keywords {
		if s := scoreRule(kr, text, counts); s > bestScore {
			bestScore = s
			bestCategory = kr.Category
		}
	}
	for _, kr := range builtinKeywords {
		if s := scoreRule(kr, text, counts); s > bestScore {
			bestScore = s
			bestCategory = kr.Category
		}
	}

	if bestScore <= 0 {
		return nil
	}
	return &Match{Slug: e.normalize(bestCategory), Source: domain.SourceKeyword}
}

// scoreRule sums the votes of one category. Single words are matched
// against whole tokens so "art" does not fire inside "artificial";
// phrases are counted as substrings.
func scoreRule(kr KeywordRule, text string, counts map[string]int) float64 {
	var total float64
	for _, w := range kr.Words {
		if strings.Contains(w, " ") {
			total += ScorePhraseHit * float64(strings.Count(text, w))
		} else {
			total += ScoreWordHit * float64(counts[w])
		}
	}
	return total
}

// tokenCounts splits text on non-alphanumeric runes and counts each
// token once per occurrence.
func tokenCounts(text string) map[string]int {
	counts := make(map[string]int)
	for _, tok := range strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		counts[tok]++
	}
	return counts
}
