package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/MrSnakeDoc/curator/internal/domain"
	"github.com/MrSnakeDoc/curator/internal/store"
)

func TestTreeCreateAndPaths(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	root, err := s.CreateNode(ctx, &domain.Bookmark{Title: "Bookmarks"})
	if err != nil {
		t.Fatalf("create root: %v", err)
	}
	if root.ID == "" {
		t.Fatal("root ID not assigned")
	}
	if root.DateAdded == 0 {
		t.Fatal("DateAdded not stamped")
	}

	folder, err := s.CreateNode(ctx, &domain.Bookmark{Title: "Work", ParentID: root.ID})
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	leaf, err := s.CreateNode(ctx, &domain.Bookmark{
		Title:    "Example",
		URL:      "https://example.com",
		ParentID: folder.ID,
	})
	if err != nil {
		t.Fatalf("create leaf: %v", err)
	}

	all, err := s.ListTree(ctx)
	if err != nil {
		t.Fatalf("list tree: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("tree size = %d, want 3", len(all))
	}

	for _, n := range all {
		if n.ID != leaf.ID {
			continue
		}
		if len(n.Path) != 2 || n.Path[0] != "Bookmarks" || n.Path[1] != "Work" {
			t.Errorf("leaf path = %v", n.Path)
		}
	}
}

func TestTreeChildrenOrdered(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	root, _ := s.CreateNode(ctx, &domain.Bookmark{Title: "root"})
	_, _ = s.CreateNode(ctx, &domain.Bookmark{Title: "b", URL: "https://b", ParentID: root.ID, DateAdded: 200})
	_, _ = s.CreateNode(ctx, &domain.Bookmark{Title: "a", URL: "https://a", ParentID: root.ID, DateAdded: 100})

	children, err := s.Children(ctx, root.ID)
	if err != nil {
		t.Fatalf("children: %v", err)
	}
	if len(children) != 2 {
		t.Fatalf("children = %d, want 2", len(children))
	}
	if children[0].Title != "a" || children[1].Title != "b" {
		t.Errorf("order = [%s %s], want [a b]", children[0].Title, children[1].Title)
	}
}

func TestTreeMoveAndRemoveSubtree(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	root, _ := s.CreateNode(ctx, &domain.Bookmark{Title: "root"})
	f1, _ := s.CreateNode(ctx, &domain.Bookmark{Title: "f1", ParentID: root.ID})
	f2, _ := s.CreateNode(ctx, &domain.Bookmark{Title: "f2", ParentID: root.ID})
	leaf, _ := s.CreateNode(ctx, &domain.Bookmark{Title: "x", URL: "https://x", ParentID: f1.ID})

	if err := s.MoveNode(ctx, leaf.ID, f2.ID); err != nil {
		t.Fatalf("move: %v", err)
	}
	moved, _ := s.Node(ctx, leaf.ID)
	if moved.ParentID != f2.ID {
		t.Errorf("parent = %s, want %s", moved.ParentID, f2.ID)
	}

	if err := s.RemoveSubtree(ctx, f2.ID); err != nil {
		t.Fatalf("remove subtree: %v", err)
	}
	if _, err := s.Node(ctx, leaf.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("leaf survived subtree removal: %v", err)
	}
	if _, err := s.Node(ctx, f1.ID); err != nil {
		t.Errorf("sibling folder removed: %v", err)
	}
}

func TestMetaRoundtrip(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if _, err := s.Meta(ctx, "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing meta error = %v, want ErrNotFound", err)
	}

	m := &domain.BookmarkMeta{ItemID: "id-1", Primary: "developer/programming", Manual: true}
	if err := s.SaveMeta(ctx, m); err != nil {
		t.Fatalf("save meta: %v", err)
	}

	got, err := s.Meta(ctx, "id-1")
	if err != nil {
		t.Fatalf("get meta: %v", err)
	}
	if got.Primary != "developer/programming" || !got.Manual {
		t.Errorf("meta = %+v", got)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not stamped")
	}

	// Mutating the returned copy must not leak into the store.
	got.Primary = "changed"
	again, _ := s.Meta(ctx, "id-1")
	if again.Primary != "developer/programming" {
		t.Error("store aliased returned record")
	}

	if err := s.DeleteMeta(ctx, "id-1"); err != nil {
		t.Fatalf("delete meta: %v", err)
	}
	if _, err := s.Meta(ctx, "id-1"); !errors.Is(err, store.ErrNotFound) {
		t.Error("meta survived delete")
	}
}

func TestMetaBatchSave(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	batch := []*domain.BookmarkMeta{
		{ItemID: "id-1", Primary: "developer/programming"},
		{ItemID: "id-2", Primary: "reading/news"},
	}
	if err := s.SaveMetaMany(ctx, batch); err != nil {
		t.Fatalf("save batch: %v", err)
	}

	for _, want := range batch {
		got, err := s.Meta(ctx, want.ItemID)
		if err != nil {
			t.Fatalf("get %s: %v", want.ItemID, err)
		}
		if got.Primary != want.Primary {
			t.Errorf("%s primary = %s, want %s", want.ItemID, got.Primary, want.Primary)
		}
		if got.UpdatedAt.IsZero() {
			t.Errorf("%s UpdatedAt not stamped", want.ItemID)
		}
	}

	if err := s.SaveMetaMany(ctx, nil); err != nil {
		t.Errorf("empty batch: %v", err)
	}
}

func TestCategoriesSorted(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_ = s.SaveCategory(ctx, &domain.Category{Slug: "media/video", Name: "Video", ParentSlug: "media", Order: 2})
	_ = s.SaveCategory(ctx, &domain.Category{Slug: "media/music", Name: "Music", ParentSlug: "media", Order: 1})
	_ = s.SaveCategory(ctx, &domain.Category{Slug: "developer/programming", Name: "Programming", ParentSlug: "developer", Order: 1})

	cats, err := s.Categories(ctx)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(cats) != 3 {
		t.Fatalf("len = %d, want 3", len(cats))
	}
	if cats[0].Slug != "developer/programming" {
		t.Errorf("first = %s", cats[0].Slug)
	}
	if cats[1].Slug != "media/music" || cats[2].Slug != "media/video" {
		t.Errorf("media order wrong: %s, %s", cats[1].Slug, cats[2].Slug)
	}
}

func TestStateDefaults(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	state, err := s.JobState(ctx)
	if err != nil {
		t.Fatalf("job state: %v", err)
	}
	if state.Status != domain.JobIdle {
		t.Errorf("default status = %s, want idle", state.Status)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.PerCategory == nil {
		t.Error("PerCategory map not initialized")
	}

	state.Status = domain.JobRunning
	state.Total = 10
	if err := s.SaveJobState(ctx, state); err != nil {
		t.Fatalf("save state: %v", err)
	}
	got, _ := s.JobState(ctx)
	if got.Status != domain.JobRunning || got.Total != 10 {
		t.Errorf("state = %+v", got)
	}
}
