package netscape

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/curator/internal/domain"
	"github.com/MrSnakeDoc/curator/internal/logger"
	"github.com/MrSnakeDoc/curator/internal/store"
)

// ImportResult counts what an import created.
type ImportResult struct {
	Folders   int `json:"folders"`
	Bookmarks int `json:"bookmarks"`
}

// Importer loads parsed entries into the bookmark tree.
type Importer struct {
	store store.TreeStore
	log   logger.Logger
}

func NewImporter(st store.TreeStore, log logger.Logger) *Importer {
	return &Importer{store: st, log: log}
}

// Import creates every entry under parentID, preserving the folder
// structure of the export. An empty parentID targets the tree top
// level.
func (im *Importer) Import(ctx context.Context, entries []Entry, parentID string) (*ImportResult, error) {
	res := &ImportResult{}
	if err := im.importLevel(ctx, entries, parentID, res); err != nil {
		return nil, err
	}
	im.log.Info("bookmark import finished",
		logger.Int("folders", res.Folders),
		logger.Int("bookmarks", res.Bookmarks))
	return res, nil
}

func (im *Importer) importLevel(ctx context.Context, entries []Entry, parentID string, res *ImportResult) error {
	for _, e := range entries {
		node, err := im.store.CreateNode(ctx, &domain.Bookmark{
			Title:     e.Title,
			URL:       e.URL,
			ParentID:  parentID,
			DateAdded: e.AddDate,
		})
		if err != nil {
			return fmt.Errorf("failed to create %q: %w", e.Title, err)
		}

		if e.IsFolder() {
			res.Folders++
			if err := im.importLevel(ctx, e.Children, node.ID, res); err != nil {
				return err
			}
		} else {
			res.Bookmarks++
		}
	}
	return nil
}
