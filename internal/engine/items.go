package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrSnakeDoc/curator/internal/domain"
	"github.com/MrSnakeDoc/curator/internal/logger"
	"github.com/MrSnakeDoc/curator/internal/store"
)

// AddOverride lets the caller pin a category when adding a bookmark.
// Category may be an existing slug or a display name for a new one.
type AddOverride struct {
	Category string
	Tags     []string
}

// ClassifyAndPlace classifies a single bookmark and creates it
// directly inside its category folder. With an override the record
// is marked manual so later job runs leave it alone.
func (e *Engine) ClassifyAndPlace(ctx context.Context, rawURL, title string, ov *AddOverride) (*domain.Bookmark, *domain.BookmarkMeta, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, nil, errors.New("url must not be empty")
	}
	if strings.TrimSpace(title) == "" {
		title = rawURL
	}

	var cls *domain.Classification
	manual := false
	if ov != nil && strings.TrimSpace(ov.Category) != "" {
		cls = &domain.Classification{Category: ov.Category, Source: domain.SourceManual}
		manual = true
	} else {
		cls = e.classifier.Classify(ctx, &domain.Bookmark{Title: title, URL: rawURL})
	}

	cat, _, err := e.taxonomy.Ensure(ctx, cls.Category)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to ensure category %s: %w", cls.Category, err)
	}
	folder, err := e.taxonomy.EnsureFolder(ctx, cat)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to ensure folder for %s: %w", cat.Slug, err)
	}

	node, err := e.store.CreateNode(ctx, &domain.Bookmark{
		Title:    title,
		URL:      rawURL,
		ParentID: folder.ID,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create bookmark: %w", err)
	}

	rec := &domain.BookmarkMeta{
		ItemID:      node.ID,
		Primary:     cat.Slug,
		Description: cls.Description,
		Manual:      manual,
		Organized:   true,
		OrganizedAt: time.Now(),
	}
	if ov != nil {
		rec.Tags = ov.Tags
	}
	if err := e.store.SaveMeta(ctx, rec); err != nil {
		return nil, nil, fmt.Errorf("failed to save meta: %w", err)
	}

	if e.index != nil {
		if err := e.index.IndexBookmark(node, rec); err != nil {
			e.log.Warn("failed to index added bookmark",
				logger.String("id", node.ID),
				logger.Error(err))
		}
	}

	e.bumpStats(ctx, cat.Slug)
	e.metrics.ItemOrganized()
	e.log.Info("bookmark added",
		logger.String("title", title),
		logger.String("category", cat.Slug))
	return node, rec, nil
}

// UpdateItemCategory pins an item to a category. The record becomes
// manual; the node is physically moved only when it already lives
// inside the organized subtree.
func (e *Engine) UpdateItemCategory(ctx context.Context, id, category string, tags []string) (*domain.BookmarkMeta, error) {
	node, err := e.store.Node(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load node %s: %w", id, err)
	}

	cat, _, err := e.taxonomy.Ensure(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure category %s: %w", category, err)
	}

	rec, err := e.store.Meta(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("failed to load meta: %w", err)
		}
		rec = &domain.BookmarkMeta{ItemID: id}
	}

	rec.Primary = cat.Slug
	rec.Manual = true
	rec.Stale = false
	if tags != nil {
		rec.Tags = tags
	}
	if err := e.store.SaveMeta(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save meta: %w", err)
	}

	if e.insideOrganized(ctx, node) {
		folder, err := e.taxonomy.EnsureFolder(ctx, cat)
		if err != nil {
			return nil, fmt.Errorf("failed to ensure folder for %s: %w", cat.Slug, err)
		}
		if node.ParentID != folder.ID {
			if err := e.store.MoveNode(ctx, id, folder.ID); err != nil {
				return nil, fmt.Errorf("failed to move into %s: %w", cat.Slug, err)
			}
		}
	}

	if e.index != nil {
		if err := e.index.IndexBookmark(node, rec); err != nil {
			e.log.Warn("failed to reindex item",
				logger.String("id", id),
				logger.Error(err))
		}
	}
	return rec, nil
}

// MarkStale requests reclassification of one item on the next run.
func (e *Engine) MarkStale(ctx context.Context, id string) error {
	if _, err := e.store.Node(ctx, id); err != nil {
		return fmt.Errorf("failed to load node %s: %w", id, err)
	}

	rec, err := e.store.Meta(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("failed to load meta: %w", err)
		}
		// No record yet means the next run classifies it anyway.
		return nil
	}

	rec.Stale = true
	if err := e.store.SaveMeta(ctx, rec); err != nil {
		return fmt.Errorf("failed to save meta: %w", err)
	}
	return nil
}

func (e *Engine) insideOrganized(ctx context.Context, node *domain.Bookmark) bool {
	root, err := e.taxonomy.Root(ctx)
	if err != nil {
		return false
	}

	nodes, err := e.store.ListTree(ctx)
	if err != nil {
		return false
	}
	byID := make(map[string]*domain.Bookmark, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	return node.Under(root.ID, byID)
}

// bumpStats adjusts the persisted snapshot for a single placement.
// Best effort: the next full run rebuilds it anyway.
func (e *Engine) bumpStats(ctx context.Context, slug string) {
	stats, err := e.store.Stats(ctx)
	if err != nil {
		e.log.Warn("failed to read stats", logger.Error(err))
		return
	}
	if stats.PerCategory == nil {
		stats.PerCategory = make(map[string]int)
	}
	if stats.PerCategory[slug] == 0 {
		stats.CategoriesCreated++
	}
	stats.PerCategory[slug]++
	stats.TotalBookmarks++
	stats.RecentCount++
	if err := e.store.SaveStats(ctx, stats); err != nil {
		e.log.Warn("failed to save stats", logger.Error(err))
	}
}
