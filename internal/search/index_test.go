package search

import (
	"testing"

	"github.com/MrSnakeDoc/curator/internal/domain"
	"github.com/MrSnakeDoc/curator/internal/logger"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Open("", logger.NewNop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestIndexAndSearch(t *testing.T) {
	idx := newTestIndex(t)

	items := []struct {
		node *domain.Bookmark
		meta *domain.BookmarkMeta
	}{
		{
			&domain.Bookmark{ID: "a", Title: "Terminal multiplexer", URL: "https://github.com/tmux/tmux"},
			&domain.BookmarkMeta{ItemID: "a", Primary: "developer/programming", Description: "tmux source code"},
		},
		{
			&domain.Bookmark{ID: "b", Title: "Sourdough starter guide", URL: "https://bread.example/starter"},
			&domain.BookmarkMeta{ItemID: "b", Primary: "lifestyle/recipes", Description: "How to feed a sourdough starter"},
		},
	}
	for _, it := range items {
		if err := idx.IndexBookmark(it.node, it.meta); err != nil {
			t.Fatalf("index %s: %v", it.node.ID, err)
		}
	}

	hits, err := idx.Search("sourdough", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "b" {
		t.Fatalf("hits = %+v", hits)
	}
	if hits[0].Title != "Sourdough starter guide" {
		t.Errorf("title = %q", hits[0].Title)
	}
	if hits[0].Category != "lifestyle/recipes" {
		t.Errorf("category = %q", hits[0].Category)
	}

	n, err := idx.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}

func TestDeleteBookmark(t *testing.T) {
	idx := newTestIndex(t)

	_ = idx.IndexBookmark(&domain.Bookmark{ID: "a", Title: "Something", URL: "https://x.example"}, nil)
	if err := idx.DeleteBookmark("a"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	hits, err := idx.Search("something", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("hits after delete = %+v", hits)
	}
}

func TestRebuildReplacesContents(t *testing.T) {
	idx := newTestIndex(t)

	// A leftover from a previous process life, gone from the store.
	stale := []Document{
		{ID: "stale", Title: "Removed page", URL: "https://gone.example", Category: "other"},
	}
	if err := idx.Rebuild(stale); err != nil {
		t.Fatalf("seed rebuild: %v", err)
	}

	docs := []Document{
		{ID: "a", Title: "Alpha page", URL: "https://a.example", Category: "other"},
		{ID: "b", Title: "Beta page", URL: "https://b.example", Category: "other"},
	}
	if err := idx.Rebuild(docs); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	n, _ := idx.Count()
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}

	hits, err := idx.Search("alpha", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "a" {
		t.Errorf("hits = %+v", hits)
	}

	gone, err := idx.Search("removed", 10)
	if err != nil {
		t.Fatalf("search stale: %v", err)
	}
	if len(gone) != 0 {
		t.Errorf("stale document survived rebuild: %+v", gone)
	}
}
