package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrSnakeDoc/curator/internal/domain"
	"github.com/MrSnakeDoc/curator/internal/logger"
	"github.com/MrSnakeDoc/curator/internal/store"
	"github.com/MrSnakeDoc/curator/internal/store/memory"
	"github.com/MrSnakeDoc/curator/internal/taxonomy"
)

type fakeClassifier struct {
	byURL map[string]string
	gate  chan struct{}
}

func (f *fakeClassifier) Classify(_ context.Context, item *domain.Bookmark) *domain.Classification {
	if f.gate != nil {
		<-f.gate
	}
	if cat, ok := f.byURL[item.URL]; ok {
		return &domain.Classification{
			Category:    cat,
			Description: "about " + item.Title,
			Source:      domain.SourceDomain,
		}
	}
	return &domain.Classification{Category: "other", Source: domain.SourceDefault}
}

type flakyStore struct {
	store.Store
	failTitle string
}

func (f *flakyStore) CreateNode(ctx context.Context, n *domain.Bookmark) (*domain.Bookmark, error) {
	if f.failTitle != "" && n.Title == f.failTitle {
		return nil, errors.New("simulated write failure")
	}
	return f.Store.CreateNode(ctx, n)
}

func newEngine(st store.Store, cls Classifier) *Engine {
	log := logger.NewNop()
	return New(Deps{
		Store:      st,
		Classifier: cls,
		Taxonomy:   taxonomy.NewManager(st, "", log),
		Log:        log,
	})
}

func seedInbox(t *testing.T, st store.Store) (*domain.Bookmark, []*domain.Bookmark) {
	t.Helper()
	ctx := context.Background()

	inbox, err := st.CreateNode(ctx, &domain.Bookmark{Title: "Bookmarks Bar"})
	if err != nil {
		t.Fatalf("create inbox: %v", err)
	}

	specs := []struct {
		title string
		url   string
	}{
		{"My Repo", "https://github.com/me/repo"},
		{"Morning News", "https://news.example/today"},
		{"Mystery", "https://mystery.example/"},
	}
	items := make([]*domain.Bookmark, 0, len(specs))
	for i, s := range specs {
		n, err := st.CreateNode(ctx, &domain.Bookmark{
			Title:     s.title,
			URL:       s.url,
			ParentID:  inbox.ID,
			DateAdded: int64(1000 + i),
		})
		if err != nil {
			t.Fatalf("create item: %v", err)
		}
		items = append(items, n)
	}
	return inbox, items
}

func waitForStatus(t *testing.T, ch <-chan domain.JobState, want domain.JobStatus) []domain.JobState {
	t.Helper()
	deadline := time.After(3 * time.Second)
	var seen []domain.JobState
	for {
		select {
		case s, ok := <-ch:
			if !ok {
				t.Fatal("state stream closed")
			}
			seen = append(seen, s)
			if s.Status == want {
				return seen
			}
			if s.Status == domain.JobFailed && want != domain.JobFailed {
				t.Fatalf("job failed: %s", s.Error)
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", want)
		}
	}
}

func TestCloneRunOrganizesEverything(t *testing.T) {
	st := memory.NewStore()
	cls := &fakeClassifier{byURL: map[string]string{
		"https://github.com/me/repo": "developer/programming",
		"https://news.example/today": "reading/news",
		"https://mystery.example/":   "other",
	}}
	e := newEngine(st, cls)
	inbox, items := seedInbox(t, st)
	ctx := context.Background()

	ch, cancel := e.Broadcaster().Subscribe()
	defer cancel()

	if _, err := e.Start(ctx, domain.StrategyClone); err != nil {
		t.Fatalf("start: %v", err)
	}
	seen := waitForStatus(t, ch, domain.JobDone)

	final := seen[len(seen)-1]
	if final.Total != 3 || final.Done != 3 {
		t.Errorf("final = %d/%d, want 3/3", final.Done, final.Total)
	}

	// Progress never goes backwards.
	prev := -1
	for _, s := range seen {
		if s.Done < prev {
			t.Fatalf("progress went backwards: %v", seen)
		}
		prev = s.Done
	}

	// Originals stay where they were.
	for _, item := range items {
		n, err := st.Node(ctx, item.ID)
		if err != nil {
			t.Fatalf("original %s gone: %v", item.Title, err)
		}
		if n.ParentID != inbox.ID {
			t.Errorf("original %s moved to %s", item.Title, n.ParentID)
		}
		rec, err := st.Meta(ctx, item.ID)
		if err != nil {
			t.Fatalf("meta for %s: %v", item.Title, err)
		}
		if !rec.Organized || rec.Primary == "" {
			t.Errorf("meta for %s = %+v", item.Title, rec)
		}
	}

	// Each item got a clone inside the organized subtree.
	all, err := st.AllMeta(ctx)
	if err != nil {
		t.Fatalf("all meta: %v", err)
	}
	clones := 0
	for _, rec := range all {
		if rec.ClonedFrom != "" {
			clones++
		}
	}
	if clones != 3 {
		t.Errorf("clones = %d, want 3", clones)
	}

	root, err := e.taxonomy.Root(ctx)
	if err != nil {
		t.Fatalf("organized root: %v", err)
	}
	folders, err := st.Children(ctx, root.ID)
	if err != nil {
		t.Fatalf("folders: %v", err)
	}
	if len(folders) != 3 {
		t.Errorf("category folders = %d, want 3", len(folders))
	}

	stats, err := e.StatsSnapshot(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalBookmarks != 3 || stats.CategoriesCreated != 3 {
		t.Errorf("stats = %+v", stats)
	}
	for _, slug := range []string{"developer/programming", "reading/news", "other"} {
		if stats.PerCategory[slug] != 1 {
			t.Errorf("per-category %s = %d, want 1", slug, stats.PerCategory[slug])
		}
	}
}

func TestMoveRunRelocatesOriginals(t *testing.T) {
	st := memory.NewStore()
	cls := &fakeClassifier{byURL: map[string]string{
		"https://github.com/me/repo": "developer/programming",
	}}
	e := newEngine(st, cls)
	inbox, items := seedInbox(t, st)
	ctx := context.Background()

	ch, cancel := e.Broadcaster().Subscribe()
	defer cancel()

	if _, err := e.Start(ctx, domain.StrategyMove); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitForStatus(t, ch, domain.JobDone)

	moved := 0
	for _, item := range items {
		n, err := st.Node(ctx, item.ID)
		if err != nil {
			t.Fatalf("item %s gone: %v", item.Title, err)
		}
		if n.ParentID != inbox.ID {
			moved++
		}
	}
	if moved != len(items) {
		t.Errorf("moved = %d, want %d", moved, len(items))
	}

	all, _ := st.AllMeta(ctx)
	for _, rec := range all {
		if rec.ClonedFrom != "" {
			t.Errorf("move strategy produced a clone: %+v", rec)
		}
	}
}

func TestSecondStartRejected(t *testing.T) {
	st := memory.NewStore()
	gate := make(chan struct{})
	cls := &fakeClassifier{gate: gate}
	e := newEngine(st, cls)
	seedInbox(t, st)
	ctx := context.Background()

	ch, cancel := e.Broadcaster().Subscribe()
	defer cancel()

	if _, err := e.Start(ctx, domain.StrategyClone); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if _, err := e.Start(ctx, domain.StrategyClone); !errors.Is(err, ErrJobRunning) {
		t.Errorf("second start err = %v, want ErrJobRunning", err)
	}

	close(gate)
	waitForStatus(t, ch, domain.JobDone)

	// Terminal state accepts a fresh start.
	if _, err := e.Start(ctx, domain.StrategyClone); err != nil {
		t.Errorf("restart after done: %v", err)
	}
}

func TestResetStopsRunningJob(t *testing.T) {
	st := memory.NewStore()
	gate := make(chan struct{})
	cls := &fakeClassifier{gate: gate}
	e := newEngine(st, cls)
	seedInbox(t, st)
	ctx := context.Background()

	ch, cancel := e.Broadcaster().Subscribe()
	defer cancel()

	if _, err := e.Start(ctx, domain.StrategyClone); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Let exactly one item through, then pull the plug.
	gate <- struct{}{}
	deadline := time.After(3 * time.Second)
	for {
		var s domain.JobState
		select {
		case s = <-ch:
		case <-deadline:
			t.Fatal("no progress snapshot")
		}
		if s.Done >= 1 {
			break
		}
	}

	if _, err := e.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	close(gate)

	time.Sleep(100 * time.Millisecond)
	state, err := e.State(ctx)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if state.Status != domain.JobIdle {
		t.Errorf("status = %s, want idle", state.Status)
	}
	if state.Done != 0 {
		t.Errorf("reset state done = %d", state.Done)
	}
}

func TestItemFailureDoesNotAbort(t *testing.T) {
	base := memory.NewStore()
	st := &flakyStore{Store: base}
	cls := &fakeClassifier{}
	e := newEngine(st, cls)
	_, items := seedInbox(t, st)
	ctx := context.Background()

	// Break clone creation for one title only, after setup.
	st.failTitle = "Mystery"

	ch, cancel := e.Broadcaster().Subscribe()
	defer cancel()

	if _, err := e.Start(ctx, domain.StrategyClone); err != nil {
		t.Fatalf("start: %v", err)
	}
	seen := waitForStatus(t, ch, domain.JobDone)
	final := seen[len(seen)-1]
	if final.Done != 3 {
		t.Errorf("done = %d, want 3", final.Done)
	}

	var broken *domain.Bookmark
	for _, item := range items {
		if item.Title == "Mystery" {
			broken = item
		}
	}
	rec, err := st.Meta(ctx, broken.ID)
	if err != nil {
		t.Fatalf("meta: %v", err)
	}
	if !rec.OrganizeFailed || rec.LastError == "" {
		t.Errorf("failure not recorded: %+v", rec)
	}

	// The other two still made it.
	all, _ := st.AllMeta(ctx)
	clones := 0
	for _, m := range all {
		if m.ClonedFrom != "" {
			clones++
		}
	}
	if clones != 2 {
		t.Errorf("clones = %d, want 2", clones)
	}
}

func TestRecoverStale(t *testing.T) {
	st := memory.NewStore()
	e := newEngine(st, &fakeClassifier{})
	ctx := context.Background()

	_ = st.SaveJobState(ctx, &domain.JobState{
		Status: domain.JobRunning,
		Total:  10,
		Done:   4,
	})

	if err := e.RecoverStale(ctx); err != nil {
		t.Fatalf("recover: %v", err)
	}

	state, _ := e.State(ctx)
	if state.Status != domain.JobFailed {
		t.Errorf("status = %s, want failed", state.Status)
	}
	if state.Error == "" {
		t.Error("recovered state has no error message")
	}

	// Idle states are left alone.
	_ = st.SaveJobState(ctx, &domain.JobState{Status: domain.JobIdle})
	if err := e.RecoverStale(ctx); err != nil {
		t.Fatalf("recover idle: %v", err)
	}
	state, _ = e.State(ctx)
	if state.Status != domain.JobIdle {
		t.Errorf("idle state rewritten to %s", state.Status)
	}
}

func TestClassifyAndPlaceWithOverride(t *testing.T) {
	st := memory.NewStore()
	e := newEngine(st, &fakeClassifier{})
	ctx := context.Background()

	node, rec, err := e.ClassifyAndPlace(ctx, "https://blog.example/post", "A Post", &AddOverride{
		Category: "reading/news",
		Tags:     []string{"toread"},
	})
	if err != nil {
		t.Fatalf("classifyAndPlace: %v", err)
	}
	if !rec.Manual {
		t.Error("override must pin the record manual")
	}
	if rec.Primary != "reading/news" {
		t.Errorf("primary = %q", rec.Primary)
	}

	cat, err := st.Category(ctx, "reading/news")
	if err != nil {
		t.Fatalf("category: %v", err)
	}
	folder, err := e.taxonomy.Folder(ctx, cat)
	if err != nil {
		t.Fatalf("folder: %v", err)
	}
	if node.ParentID != folder.ID {
		t.Error("node not created inside its category folder")
	}

	stats, _ := e.StatsSnapshot(ctx)
	if stats.PerCategory["reading/news"] != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestUpdateItemCategoryMovesOrganizedItem(t *testing.T) {
	st := memory.NewStore()
	e := newEngine(st, &fakeClassifier{})
	ctx := context.Background()

	node, _, err := e.ClassifyAndPlace(ctx, "https://blog.example/post", "A Post", &AddOverride{Category: "reading/news"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec, err := e.UpdateItemCategory(ctx, node.ID, "media/video", []string{"watch"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if rec.Primary != "media/video" || !rec.Manual {
		t.Errorf("rec = %+v", rec)
	}

	moved, _ := st.Node(ctx, node.ID)
	cat, _ := st.Category(ctx, "media/video")
	folder, err := e.taxonomy.Folder(ctx, cat)
	if err != nil {
		t.Fatalf("folder: %v", err)
	}
	if moved.ParentID != folder.ID {
		t.Error("organized item not moved to its new folder")
	}
}

func TestDedupeKeepsOldest(t *testing.T) {
	st := memory.NewStore()
	e := newEngine(st, &fakeClassifier{})
	ctx := context.Background()

	cat, _, err := e.taxonomy.Ensure(ctx, "reading/news")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	folder, err := e.taxonomy.EnsureFolder(ctx, cat)
	if err != nil {
		t.Fatalf("folder: %v", err)
	}

	older, _ := st.CreateNode(ctx, &domain.Bookmark{
		Title: "Example Page", URL: "https://www.example.com/page", ParentID: folder.ID, DateAdded: 100,
	})
	newer, _ := st.CreateNode(ctx, &domain.Bookmark{
		Title: "example page", URL: "https://example.com/page?utm_source=mail", ParentID: folder.ID, DateAdded: 200,
	})
	distinct, _ := st.CreateNode(ctx, &domain.Bookmark{
		Title: "Another Thing", URL: "https://example.com/page", ParentID: folder.ID, DateAdded: 300,
	})
	_ = st.SaveMeta(ctx, &domain.BookmarkMeta{ItemID: newer.ID, Primary: cat.Slug})

	res, err := e.RemoveDuplicates(ctx)
	if err != nil {
		t.Fatalf("dedupe: %v", err)
	}
	if res.Found != 1 || res.Removed != 1 {
		t.Errorf("result = %+v, want 1/1", res)
	}

	if _, err := st.Node(ctx, older.ID); err != nil {
		t.Error("oldest duplicate removed")
	}
	if _, err := st.Node(ctx, newer.ID); !errors.Is(err, store.ErrNotFound) {
		t.Error("newer duplicate survived")
	}
	if _, err := st.Meta(ctx, newer.ID); !errors.Is(err, store.ErrNotFound) {
		t.Error("meta of removed duplicate survived")
	}

	// Same URL with a genuinely different title is not a duplicate.
	if _, err := st.Node(ctx, distinct.ID); err != nil {
		t.Error("distinct title removed")
	}
}

func TestDedupeOutsideOrganizedUntouched(t *testing.T) {
	st := memory.NewStore()
	e := newEngine(st, &fakeClassifier{})
	ctx := context.Background()

	inbox, _ := st.CreateNode(ctx, &domain.Bookmark{Title: "Inbox"})
	a, _ := st.CreateNode(ctx, &domain.Bookmark{Title: "Same", URL: "https://x.example/", ParentID: inbox.ID, DateAdded: 1})
	b, _ := st.CreateNode(ctx, &domain.Bookmark{Title: "Same", URL: "https://x.example/", ParentID: inbox.ID, DateAdded: 2})

	res, err := e.RemoveDuplicates(ctx)
	if err != nil {
		t.Fatalf("dedupe: %v", err)
	}
	if res.Found != 0 {
		t.Errorf("found = %d, want 0", res.Found)
	}
	for _, id := range []string{a.ID, b.ID} {
		if _, err := st.Node(ctx, id); err != nil {
			t.Error("unorganized item removed")
		}
	}
}

func TestCloneMetaDropsStaleFailure(t *testing.T) {
	st := memory.NewStore()
	cls := &fakeClassifier{byURL: map[string]string{
		"https://github.com/me/repo": "developer/programming",
		"https://news.example/today": "reading/news",
	}}
	e := newEngine(st, cls)
	_, items := seedInbox(t, st)
	ctx := context.Background()

	// A previous run left a failure on the source record.
	if err := st.SaveMeta(ctx, &domain.BookmarkMeta{
		ItemID:         items[0].ID,
		OrganizeFailed: true,
		LastError:      "simulated write failure",
	}); err != nil {
		t.Fatalf("seed meta: %v", err)
	}

	ch, cancel := e.Broadcaster().Subscribe()
	defer cancel()
	if _, err := e.Start(ctx, domain.StrategyClone); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitForStatus(t, ch, domain.JobDone)

	all, err := st.AllMeta(ctx)
	if err != nil {
		t.Fatalf("all meta: %v", err)
	}
	for _, rec := range all {
		if rec.ClonedFrom != items[0].ID {
			continue
		}
		if rec.OrganizeFailed || rec.LastError != "" {
			t.Errorf("clone meta kept failure: %+v", rec)
		}
		return
	}
	t.Fatal("no clone record found")
}

func TestOrganizedViewCounts(t *testing.T) {
	st := memory.NewStore()
	cls := &fakeClassifier{byURL: map[string]string{
		"https://github.com/me/repo": "developer/programming",
		"https://news.example/today": "developer/programming",
	}}
	e := newEngine(st, cls)
	seedInbox(t, st)
	ctx := context.Background()

	ch, cancel := e.Broadcaster().Subscribe()
	defer cancel()
	if _, err := e.Start(ctx, domain.StrategyClone); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitForStatus(t, ch, domain.JobDone)

	view, err := e.OrganizedView(ctx)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if len(view) == 0 {
		t.Fatal("empty view")
	}
	for _, cat := range view {
		if cat.Count != len(cat.Items) {
			t.Errorf("category %s count = %d, items = %d", cat.Slug, cat.Count, len(cat.Items))
		}
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.Example.com/Page/", "https://example.com/Page"},
		{"https://example.com/a?utm_source=x&utm_medium=y&id=7", "https://example.com/a?id=7"},
		{"https://example.com/a?fbclid=abc", "https://example.com/a"},
		{"https://example.com/a#section", "https://example.com/a"},
		{"HTTPS://example.com", "https://example.com"},
		{"not a url", "not a url"},
	}
	for _, tt := range tests {
		if got := NormalizeURL(tt.in); got != tt.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBroadcasterNeverBlocks(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe()

	// Overfill the buffer; publish must not block.
	for i := 0; i < subscriberBuffer*2; i++ {
		b.Publish(domain.JobState{Done: i})
	}

	got := 0
	for range len(ch) {
		<-ch
		got++
	}
	if got != subscriberBuffer {
		t.Errorf("buffered = %d, want %d", got, subscriberBuffer)
	}

	cancel()
	cancel() // idempotent

	if _, ok := <-ch; ok {
		t.Error("channel still open after cancel")
	}
}
