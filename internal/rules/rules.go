// Package rules implements the deterministic part of bookmark
// classification: hostname table, ordered path patterns and keyword
// scoring, all funneled through the taxonomy normalizer.
package rules

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/MrSnakeDoc/curator/internal/domain"
)

// Match is a single rule decision. Slug is already normalized.
type Match struct {
	Slug   string
	Source domain.Source
}

// PathRule pairs a compiled pattern with its category. Rules are kept
// in declaration order; the first match wins.
type PathRule struct {
	Pattern  *regexp.Regexp
	Category string
}

// KeywordRule associates a category with the words that vote for it.
// Declaration order breaks score ties.
type KeywordRule struct {
	Category string
	Words    []string
}

// UserRules is the overlay loaded from rules.yaml. User entries take
// priority over the built-in tables.
type UserRules struct {
	Domains  map[string]string
	Paths    []PathRule
	Keywords []KeywordRule
}

// Engine evaluates classification rules. The built-in tables are
// immutable; the user overlay may be swapped at runtime by the rules
// file reloader.
type Engine struct {
	mu   sync.RWMutex
	user UserRules
}

// New returns an Engine with only the built-in tables active.
func New() *Engine {
	return &Engine{}
}

// SetUserRules replaces the user overlay. Safe for concurrent use
// with match calls.
func (e *Engine) SetUserRules(u UserRules) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.user = u
}

// MatchURL runs the domain rule, then the ordered path rules, against
// the given host and path+query. Returns nil when neither table has
// an opinion.
func (e *Engine) MatchURL(host, pathAndQuery string) *Match {
	e.mu.RLock()
	defer e.mu.RUnlock()

	host = strings.ToLower(strings.TrimPrefix(host, "www."))

	if cat, ok := e.user.Domains[host]; ok {
		return &Match{Slug: e.normalize(cat), Source: domain.SourceDomain}
	}
	if cat, ok := builtinDomains[host]; ok {
		return &Match{Slug: e.normalize(cat), Source: domain.SourceDomain}
	}

	p := strings.ToLower(pathAndQuery)
	for _, rule := range e.user.Paths {
		if rule.Pattern.MatchString(p) {
			return &Match{Slug: e.normalize(rule.Category), Source: domain.SourcePath}
		}
	}
	for _, rule := range builtinPaths {
		if rule.Pattern.MatchString(p) {
			return &Match{Slug: e.normalize(rule.Category), Source: domain.SourcePath}
		}
	}

	return nil
}

// Normalize maps a fine-grained slug onto the general taxonomy.
// Unmapped slugs pass through unchanged.
func (e *Engine) Normalize(raw string) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.normalize(raw)
}

func (e *Engine) normalize(raw string) string {
	if general, ok := normalization[raw]; ok {
		return general
	}
	return raw
}

// Candidates returns the distinct normalized slugs the built-in and
// user tables can produce. Used as the candidate list handed to
// remote providers.
func (e *Engine) Candidates() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	seen := make(map[string]bool)
	out := make([]string, 0, 32)

	add := func(raw string) {
		s := e.normalize(raw)
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	for _, kr := range e.user.Keywords {
		add(kr.Category)
	}
	for _, kr := range builtinKeywords {
		add(kr.Category)
	}
	for _, cat := range e.user.Domains {
		add(cat)
	}
	for _, cat := range builtinDomains {
		add(cat)
	}

	sort.Strings(out)
	return out
}
