package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/curator/internal/domain"
	"github.com/MrSnakeDoc/curator/internal/logger"
	"github.com/MrSnakeDoc/curator/internal/search"
	"github.com/MrSnakeDoc/curator/internal/store"
	"github.com/MrSnakeDoc/curator/internal/taxonomy"
)

// Reindexer rebuilds the search index from the store at startup so
// the index and the tree agree after a restart.
type Reindexer struct {
	store    store.Store
	taxonomy *taxonomy.Manager
	index    *search.Index
	logger   logger.Logger
}

// NewReindexer creates a new reindexer
func NewReindexer(
	st store.Store,
	tax *taxonomy.Manager,
	idx *search.Index,
	log logger.Logger,
) *Reindexer {
	return &Reindexer{
		store:    st,
		taxonomy: tax,
		index:    idx,
		logger:   log,
	}
}

// Sync indexes every bookmark inside the organized subtree.
func (ri *Reindexer) Sync(ctx context.Context) error {
	ri.logger.Info("rebuilding search index from store")

	root, err := ri.taxonomy.Root(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ri.logger.Info("no organized folder yet, search index stays empty")
			return nil
		}
		return fmt.Errorf("failed to resolve organized root: %w", err)
	}

	nodes, err := ri.store.ListTree(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tree: %w", err)
	}
	byID := make(map[string]*domain.Bookmark, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	allMeta, err := ri.store.AllMeta(ctx)
	if err != nil {
		return fmt.Errorf("failed to list meta records: %w", err)
	}

	var docs []search.Document
	for _, n := range nodes {
		if n.IsFolder() || !n.Under(root.ID, byID) {
			continue
		}
		doc := search.Document{ID: n.ID, Title: n.Title, URL: n.URL}
		if rec := allMeta[n.ID]; rec != nil {
			doc.Description = rec.Description
			doc.Category = rec.Primary
			doc.Tags = rec.Tags
		}
		docs = append(docs, doc)
	}

	if err := ri.index.Rebuild(docs); err != nil {
		return fmt.Errorf("failed to rebuild index: %w", err)
	}
	return nil
}
