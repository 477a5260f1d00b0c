package rulesfile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/MrSnakeDoc/curator/internal/domain"
	"github.com/MrSnakeDoc/curator/internal/rules"
	"github.com/MrSnakeDoc/curator/internal/slug"
)

// Mapper converts parsed files into engine and taxonomy inputs.
type Mapper struct{}

func NewMapper() *Mapper {
	return &Mapper{}
}

// MapRules compiles a RulesFile into the user overlay. A single bad
// pattern fails the whole mapping so a reload never half-applies.
func (m *Mapper) MapRules(rf *RulesFile) (rules.UserRules, error) {
	var out rules.UserRules
	if rf == nil {
		return out, nil
	}

	if len(rf.Domains) > 0 {
		out.Domains = make(map[string]string, len(rf.Domains))
		for host, category := range rf.Domains {
			host = strings.ToLower(strings.TrimSpace(host))
			host = strings.TrimPrefix(host, "www.")
			if host == "" || strings.TrimSpace(category) == "" {
				continue
			}
			out.Domains[host] = strings.TrimSpace(category)
		}
	}

	for _, entry := range rf.Paths {
		if entry.Pattern == "" || entry.Category == "" {
			continue
		}
		re, err := regexp.Compile(entry.Pattern)
		if err != nil {
			return rules.UserRules{}, fmt.Errorf("failed to compile path pattern %q: %w", entry.Pattern, err)
		}
		out.Paths = append(out.Paths, rules.PathRule{
			Pattern:  re,
			Category: entry.Category,
		})
	}

	for _, entry := range rf.Keywords {
		if entry.Category == "" || len(entry.Words) == 0 {
			continue
		}
		words := make([]string, 0, len(entry.Words))
		for _, w := range entry.Words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				words = append(words, w)
			}
		}
		if len(words) == 0 {
			continue
		}
		out.Keywords = append(out.Keywords, rules.KeywordRule{
			Category: entry.Category,
			Words:    words,
		})
	}

	return out, nil
}

// MapTaxonomy converts a TaxonomyFile into category definitions.
// Slugs are derived from names when absent; nameless entries are
// dropped.
func (m *Mapper) MapTaxonomy(tf *TaxonomyFile) []domain.Category {
	if tf == nil {
		return nil
	}

	out := make([]domain.Category, 0, len(tf.Categories))
	for _, entry := range tf.Categories {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			continue
		}

		s := strings.TrimSpace(entry.Slug)
		if s == "" {
			s = slug.Make(name)
		}
		if s == "" {
			continue
		}

		out = append(out, domain.Category{
			Slug:       s,
			Name:       name,
			Emoji:      strings.TrimSpace(entry.Emoji),
			ParentSlug: strings.TrimSpace(entry.Parent),
			Order:      entry.Order,
		})
	}
	return out
}
