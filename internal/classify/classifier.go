// Package classify runs the per-bookmark classification cascade:
// manual override, page fetch, deterministic URL rules, remote
// providers, keyword scoring, and finally the catch-all category.
package classify

import (
	"context"
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/curator/internal/domain"
	"github.com/MrSnakeDoc/curator/internal/extract"
	"github.com/MrSnakeDoc/curator/internal/logger"
	"github.com/MrSnakeDoc/curator/internal/metrics"
	"github.com/MrSnakeDoc/curator/internal/rules"
	"github.com/MrSnakeDoc/curator/internal/store"
)

// Fetcher retrieves page text. *extract.Fetcher satisfies it; tests
// substitute a fake so the cascade stays deterministic.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*extract.TextBag, error)
}

type Deps struct {
	Meta      store.MetaStore
	Taxonomy  store.TaxonomyStore
	Fetcher   Fetcher
	Rules     *rules.Engine
	Providers []Provider
	Pacer     *Pacer
	Metrics   *metrics.Metrics
	Log       logger.Logger
}

type Classifier struct {
	meta      store.MetaStore
	taxonomy  store.TaxonomyStore
	fetcher   Fetcher
	rules     *rules.Engine
	providers []Provider
	pacer     *Pacer
	metrics   *metrics.Metrics
	log       logger.Logger
}

func New(d Deps) *Classifier {
	return &Classifier{
		meta:      d.Meta,
		taxonomy:  d.Taxonomy,
		fetcher:   d.Fetcher,
		rules:     d.Rules,
		providers: d.Providers,
		pacer:     d.Pacer,
		metrics:   d.Metrics,
		log:       d.Log,
	}
}

// Classify runs the cascade for one bookmark. It never fails: every
// stage error falls through and the final stage always decides. The
// returned category is normalized onto the general taxonomy.
func (c *Classifier) Classify(ctx context.Context, item *domain.Bookmark) *domain.Classification {
	if cls := c.fromManual(ctx, item); cls != nil {
		return c.decided(cls)
	}

	bag := c.fetchText(ctx, item)

	if cls := c.fromRules(item, bag); cls != nil {
		return c.decided(cls)
	}
	if cls := c.fromProviders(ctx, item, bag); cls != nil {
		return c.decided(cls)
	}
	if cls := c.fromKeywords(bag); cls != nil {
		return c.decided(cls)
	}

	return c.decided(&domain.Classification{
		Category:    c.rules.Normalize("other"),
		Description: bag.Summary(),
		Source:      domain.SourceDefault,
	})
}

func (c *Classifier) decided(cls *domain.Classification) *domain.Classification {
	c.metrics.Classification(string(cls.Source))
	return cls
}

// fromManual returns the user-curated assignment when one exists.
func (c *Classifier) fromManual(ctx context.Context, item *domain.Bookmark) *domain.Classification {
	rec, err := c.meta.Meta(ctx, item.ID)
	if err != nil || rec == nil {
		return nil
	}
	if !rec.Manual || rec.Primary == "" {
		return nil
	}
	return &domain.Classification{
		Category:    rec.Primary,
		Description: rec.Description,
		Source:      domain.SourceManual,
	}
}

// fetchText loads the page, degrading to a title-only bag on any
// failure so the later stages always have something to chew on.
func (c *Classifier) fetchText(ctx context.Context, item *domain.Bookmark) *extract.TextBag {
	if c.fetcher == nil {
		return &extract.TextBag{Title: item.Title}
	}
	bag, err := c.fetcher.Fetch(ctx, item.URL)
	if err != nil || bag == nil {
		c.metrics.FetchFailure()
		c.log.Debug("page fetch failed",
			logger.String("url", item.URL),
			logger.Error(err))
		return &extract.TextBag{Title: item.Title}
	}
	if bag.Title == "" {
		bag.Title = item.Title
	}
	return bag
}

func (c *Classifier) fromRules(item *domain.Bookmark, bag *extract.TextBag) *domain.Classification {
	u, err := url.Parse(item.URL)
	if err != nil || u.Host == "" {
		return nil
	}

	pathAndQuery := u.Path
	if u.RawQuery != "" {
		pathAndQuery += "?" + u.RawQuery
	}

	m := c.rules.MatchURL(u.Hostname(), pathAndQuery)
	if m == nil {
		return nil
	}
	return &domain.Classification{
		Category:    m.Slug,
		Description: bag.Summary(),
		Source:      m.Source,
	}
}

// fromProviders walks the configured providers in order. Calls are
// spaced by the pacer; provider errors count as no opinion so a dead
// backend never takes the job down with it.
func (c *Classifier) fromProviders(ctx context.Context, item *domain.Bookmark, bag *extract.TextBag) *domain.Classification {
	if len(c.providers) == 0 {
		return nil
	}

	in := ProviderInput{
		URL:        item.URL,
		Title:      bag.Title,
		Text:       bag.Joined(),
		Candidates: c.candidates(ctx),
	}

	for _, p := range c.providers {
		if err := c.pacer.Wait(ctx); err != nil {
			return nil
		}

		res, err := p.Classify(ctx, in)
		c.metrics.ProviderCall(p.Name(), err)
		if err != nil {
			c.log.Warn("provider error ignored",
				logger.String("provider", p.Name()),
				logger.String("url", item.URL),
				logger.Error(err))
			continue
		}
		if res == nil || strings.TrimSpace(res.Category) == "" {
			continue
		}

		desc := res.Description
		if desc == "" {
			desc = bag.Summary()
		}
		return &domain.Classification{
			Category:    c.rules.Normalize(strings.ToLower(strings.TrimSpace(res.Category))),
			Description: desc,
			Source:      domain.SourceRemote,
		}
	}
	return nil
}

func (c *Classifier) fromKeywords(bag *extract.TextBag) *domain.Classification {
	m := c.rules.ScoreKeywords(bag.Joined())
	if m == nil {
		return nil
	}
	return &domain.Classification{
		Category:    m.Slug,
		Description: bag.Summary(),
		Source:      m.Source,
	}
}

// candidates merges the slugs the rule tables can produce with the
// slugs already defined in the taxonomy.
func (c *Classifier) candidates(ctx context.Context) []string {
	out := c.rules.Candidates()
	seen := make(map[string]bool, len(out))
	for _, s := range out {
		seen[s] = true
	}

	if c.taxonomy != nil {
		cats, err := c.taxonomy.Categories(ctx)
		if err != nil {
			c.log.Warn("failed to list categories for provider candidates", logger.Error(err))
			return out
		}
		for _, cat := range cats {
			if !seen[cat.Slug] {
				seen[cat.Slug] = true
				out = append(out, cat.Slug)
			}
		}
	}
	return out
}
