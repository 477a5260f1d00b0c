package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/curator/internal/store"
)

// OrganizedItem is one bookmark in the organized view.
type OrganizedItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Manual      bool     `json:"manual,omitempty"`
	DateAdded   int64    `json:"dateAdded,omitempty"`
}

// OrganizedCategory is one category folder with its items, in the
// taxonomy's display order.
type OrganizedCategory struct {
	Slug  string          `json:"slug"`
	Name  string          `json:"name"`
	Emoji string          `json:"emoji,omitempty"`
	Count int             `json:"count"`
	Items []OrganizedItem `json:"items"`
}

// OrganizedView renders the organized subtree grouped by category.
// Categories without a materialized folder are omitted: nothing has
// ever been placed in them.
func (e *Engine) OrganizedView(ctx context.Context) ([]OrganizedCategory, error) {
	cats, err := e.taxonomy.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	allMeta, err := e.store.AllMeta(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list meta records: %w", err)
	}

	out := make([]OrganizedCategory, 0, len(cats))
	for _, cat := range cats {
		folder, err := e.taxonomy.Folder(ctx, cat)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, err
		}

		children, err := e.store.Children(ctx, folder.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list folder of %s: %w", cat.Slug, err)
		}

		view := OrganizedCategory{
			Slug:  cat.Slug,
			Name:  cat.Name,
			Emoji: cat.Emoji,
			Items: make([]OrganizedItem, 0, len(children)),
		}
		for _, n := range children {
			if n.IsFolder() {
				continue
			}
			item := OrganizedItem{
				ID:        n.ID,
				Title:     n.Title,
				URL:       n.URL,
				DateAdded: n.DateAdded,
			}
			if rec := allMeta[n.ID]; rec != nil {
				item.Description = rec.Description
				item.Tags = rec.Tags
				item.Manual = rec.Manual
			}
			view.Items = append(view.Items, item)
		}
		view.Count = len(view.Items)
		out = append(out, view)
	}
	return out, nil
}
