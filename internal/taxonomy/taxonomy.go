// Package taxonomy manages category definitions and their
// materialized folders in the bookmark tree.
package taxonomy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/MrSnakeDoc/curator/internal/domain"
	"github.com/MrSnakeDoc/curator/internal/logger"
	"github.com/MrSnakeDoc/curator/internal/slug"
	"github.com/MrSnakeDoc/curator/internal/store"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// DefaultRootTitle names the folder all category folders live
	// under when no override is configured.
	DefaultRootTitle = "🗂️ Organized"

	// FallbackSlug is the sink category for items whose category was
	// deleted and for classifications nothing else claimed.
	FallbackSlug = "other"

	defaultEmoji = "🔖"
)

var titleCaser = cases.Title(language.Und)

// Manager owns the category set. Create-on-demand and folder
// materialization are serialized through its mutex so a batch run
// racing a manual add cannot mint the same category twice.
type Manager struct {
	store     store.Store
	log       logger.Logger
	rootTitle string
	mu        sync.Mutex
}

// NewManager builds a Manager. An empty rootTitle selects
// DefaultRootTitle.
func NewManager(st store.Store, rootTitle string, log logger.Logger) *Manager {
	if rootTitle == "" {
		rootTitle = DefaultRootTitle
	}
	return &Manager{
		store:     st,
		log:       log,
		rootTitle: rootTitle,
	}
}

// RootTitle returns the configured organized-folder title.
func (m *Manager) RootTitle() string {
	return m.rootTitle
}

// Seed inserts every given definition that does not exist yet.
// Existing definitions are left untouched so user edits survive
// restarts and rules-file reloads.
func (m *Manager) Seed(ctx context.Context, defs []domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range defs {
		def := defs[i]
		_, err := m.store.Category(ctx, def.Slug)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("failed to check category %s: %w", def.Slug, err)
		}
		if err := m.store.SaveCategory(ctx, &def); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", def.Slug, err)
		}
	}
	return nil
}

// SeedDefaults seeds the built-in category set.
func (m *Manager) SeedDefaults(ctx context.Context) error {
	return m.Seed(ctx, BuiltinCategories())
}

// Ensure resolves raw — a slug, a compound group/sub slug, or a
// display name — to its definition, creating one on demand. The
// second return reports whether a definition was created.
func (m *Manager) Ensure(ctx context.Context, raw string) (*domain.Category, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = FallbackSlug
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if c, err := m.store.Category(ctx, raw); err == nil {
		return c, false, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to look up category %s: %w", raw, err)
	}

	// Compound slugs ("developer/programming") keep their form.
	if strings.Contains(raw, "/") {
		parent, name := splitCompound(raw)
		c := &domain.Category{
			Slug:       raw,
			Name:       name,
			Emoji:      defaultEmoji,
			ParentSlug: parent,
			Order:      50,
		}
		if err := m.store.SaveCategory(ctx, c); err != nil {
			return nil, false, fmt.Errorf("failed to create category %s: %w", raw, err)
		}
		m.log.Info("category created", logger.String("slug", c.Slug))
		return c, true, nil
	}

	// Display names collapse onto their slugified form.
	base := slug.Make(raw)
	if base == "" {
		base = FallbackSlug
	}
	if base != raw {
		if c, err := m.store.Category(ctx, base); err == nil {
			return c, false, nil
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, false, fmt.Errorf("failed to look up category %s: %w", base, err)
		}
	}

	c := &domain.Category{
		Slug:  base,
		Name:  Humanize(base),
		Emoji: defaultEmoji,
		Order: 50,
	}
	if err := m.store.SaveCategory(ctx, c); err != nil {
		return nil, false, fmt.Errorf("failed to create category %s: %w", base, err)
	}
	m.log.Info("category created", logger.String("slug", c.Slug))
	return c, true, nil
}

// Create always mints a new category from a display name, probing
// slug collisions with numeric suffixes.
func (m *Manager) Create(ctx context.Context, name, emoji, parent string) (*domain.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("category name must not be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var probeErr error
	s := slug.Unique(name, func(candidate string) bool {
		_, err := m.store.Category(ctx, candidate)
		if err == nil {
			return true
		}
		if !errors.Is(err, store.ErrNotFound) {
			probeErr = err
		}
		return false
	})
	if probeErr != nil {
		return nil, fmt.Errorf("failed to probe slug for %s: %w", name, probeErr)
	}

	if emoji == "" {
		emoji = defaultEmoji
	}
	c := &domain.Category{
		Slug:       s,
		Name:       strings.TrimSpace(name),
		Emoji:      emoji,
		ParentSlug: parent,
		Order:      50,
	}
	if err := m.store.SaveCategory(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create category %s: %w", s, err)
	}
	m.log.Info("category created", logger.String("slug", c.Slug), logger.String("name", c.Name))
	return c, nil
}

// Categories lists all definitions in display order.
func (m *Manager) Categories(ctx context.Context) ([]*domain.Category, error) {
	return m.store.Categories(ctx)
}

// Humanize turns a slug segment into a display name:
// "design-tools" becomes "Design Tools".
func Humanize(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	return titleCaser.String(s)
}

func splitCompound(s string) (parent, name string) {
	parts := strings.Split(s, "/")
	return parts[0], Humanize(parts[len(parts)-1])
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
