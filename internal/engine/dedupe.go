package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/curator/internal/domain"
	"github.com/MrSnakeDoc/curator/internal/logger"
	"github.com/MrSnakeDoc/curator/internal/store"
)

// DedupeResult reports a reconciler sweep. Removed may be lower than
// Found when individual removals fail.
type DedupeResult struct {
	Found   int `json:"duplicatesFound"`
	Removed int `json:"duplicatesRemoved"`
}

// RemoveDuplicates sweeps the organized subtree. Two groupings mark
// duplicates: exact normalized-URL plus title, and normalized-URL
// alone split by case-folded title. Each group keeps its oldest
// member by DateAdded; everything else goes, metadata included.
func (e *Engine) RemoveDuplicates(ctx context.Context) (*DedupeResult, error) {
	root, err := e.taxonomy.Root(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Nothing organized yet, nothing to sweep.
			return &DedupeResult{}, nil
		}
		return nil, fmt.Errorf("failed to resolve organized root: %w", err)
	}

	nodes, err := e.store.ListTree(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tree: %w", err)
	}

	byID := make(map[string]*domain.Bookmark, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	var organized []*domain.Bookmark
	for _, n := range nodes {
		if n.IsFolder() {
			continue
		}
		if n.Under(root.ID, byID) {
			organized = append(organized, n)
		}
	}
	domain.SortBookmarks(organized)

	exact := make(map[string][]*domain.Bookmark)
	byURL := make(map[string]map[string][]*domain.Bookmark)
	for _, n := range organized {
		nu := NormalizeURL(n.URL)
		exact[nu+"|"+n.Title] = append(exact[nu+"|"+n.Title], n)

		nt := normalizeTitle(n.Title)
		if byURL[nu] == nil {
			byURL[nu] = make(map[string][]*domain.Bookmark)
		}
		byURL[nu][nt] = append(byURL[nu][nt], n)
	}

	toRemove := make(map[string]bool)
	mark := func(group []*domain.Bookmark) {
		if len(group) < 2 {
			return
		}
		oldest := group[0]
		for _, n := range group[1:] {
			if n.DateAdded < oldest.DateAdded {
				oldest = n
			}
		}
		for _, n := range group {
			if n.ID != oldest.ID {
				toRemove[n.ID] = true
			}
		}
	}

	for _, group := range exact {
		mark(group)
	}
	for _, titles := range byURL {
		for _, group := range titles {
			mark(group)
		}
	}

	result := &DedupeResult{Found: len(toRemove)}
	for id := range toRemove {
		if err := e.store.RemoveNode(ctx, id); err != nil {
			e.log.Warn("failed to remove duplicate",
				logger.String("id", id),
				logger.Error(err))
			continue
		}
		if err := e.store.DeleteMeta(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
			e.log.Warn("failed to remove duplicate meta",
				logger.String("id", id),
				logger.Error(err))
		}
		if e.index != nil {
			if err := e.index.DeleteBookmark(id); err != nil {
				e.log.Warn("failed to unindex duplicate",
					logger.String("id", id),
					logger.Error(err))
			}
		}
		result.Removed++
	}

	e.metrics.DuplicatesRemoved(result.Removed)
	if result.Found > 0 {
		e.log.Info("duplicate sweep",
			logger.Int("found", result.Found),
			logger.Int("removed", result.Removed))
	}
	return result, nil
}
