package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrSnakeDoc/curator/internal/classify"
	"github.com/MrSnakeDoc/curator/internal/domain"
	"github.com/MrSnakeDoc/curator/internal/engine"
	"github.com/MrSnakeDoc/curator/internal/logger"
	"github.com/MrSnakeDoc/curator/internal/rules"
	"github.com/MrSnakeDoc/curator/internal/store"
	"github.com/MrSnakeDoc/curator/internal/store/memory"
	"github.com/MrSnakeDoc/curator/internal/taxonomy"
)

// pipeline wires the real classification cascade (no page fetching,
// no remote providers) on top of the in-memory store, the way the
// daemon does at boot.
type pipeline struct {
	store    store.Store
	taxonomy *taxonomy.Manager
	engine   *engine.Engine
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()
	ctx := context.Background()
	log := logger.NewNop()

	st := memory.NewStore()

	tax := taxonomy.NewManager(st, "Organized", log)
	if err := tax.SeedDefaults(ctx); err != nil {
		t.Fatalf("seed defaults: %v", err)
	}

	cls := classify.New(classify.Deps{
		Meta:     st,
		Taxonomy: st,
		Rules:    rules.New(),
		Log:      log,
	})

	eng := engine.New(engine.Deps{
		Store:      st,
		Classifier: cls,
		Taxonomy:   tax,
		Log:        log,
	})

	return &pipeline{store: st, taxonomy: tax, engine: eng}
}

func (p *pipeline) seed(t *testing.T, specs map[string]string) {
	t.Helper()
	ctx := context.Background()

	inbox, err := p.store.CreateNode(ctx, &domain.Bookmark{Title: "Bookmarks Bar"})
	if err != nil {
		t.Fatalf("create inbox: %v", err)
	}

	i := 0
	for title, url := range specs {
		i++
		_, err := p.store.CreateNode(ctx, &domain.Bookmark{
			Title:     title,
			URL:       url,
			ParentID:  inbox.ID,
			DateAdded: int64(1000 + i),
		})
		if err != nil {
			t.Fatalf("create bookmark %q: %v", title, err)
		}
	}
}

// runJob starts an organize run and waits for the terminal state.
func (p *pipeline) runJob(t *testing.T, strategy domain.Strategy) *domain.JobState {
	t.Helper()
	ctx := context.Background()

	if _, err := p.engine.Start(ctx, strategy); err != nil {
		t.Fatalf("start job: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		state, err := p.engine.State(ctx)
		if err != nil {
			t.Fatalf("read state: %v", err)
		}
		if state.Status == domain.JobDone || state.Status == domain.JobFailed {
			return state
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("job did not reach a terminal state")
	return nil
}

// viewCounts flattens the organized view into slug -> item count.
func (p *pipeline) viewCounts(t *testing.T) map[string]int {
	t.Helper()
	view, err := p.engine.OrganizedView(context.Background())
	if err != nil {
		t.Fatalf("organized view: %v", err)
	}
	counts := make(map[string]int, len(view))
	for _, cat := range view {
		counts[cat.Slug] = len(cat.Items)
	}
	return counts
}

func TestOrganizeJobEndToEnd(t *testing.T) {
	p := newPipeline(t)
	p.seed(t, map[string]string{
		"My Repo":      "https://github.com/me/repo",
		"World News":   "https://www.bbc.com/news/world",
		"Mystery Page": "https://unknownsite.example/page",
	})

	state := p.runJob(t, domain.StrategyClone)

	if state.Status != domain.JobDone {
		t.Fatalf("expected done, got %s (error: %s)", state.Status, state.Error)
	}
	if state.Total != 3 || state.Done != 3 {
		t.Errorf("expected 3/3 processed, got %d/%d", state.Done, state.Total)
	}

	counts := p.viewCounts(t)
	if counts["developer/programming"] != 1 {
		t.Errorf("expected 1 item under developer/programming, got %d", counts["developer/programming"])
	}
	if counts["reading/news"] != 1 {
		t.Errorf("expected 1 item under reading/news, got %d", counts["reading/news"])
	}
	if counts[taxonomy.FallbackSlug] != 1 {
		t.Errorf("expected 1 item under %s, got %d", taxonomy.FallbackSlug, counts[taxonomy.FallbackSlug])
	}

	stats, err := p.engine.StatsSnapshot(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalBookmarks != 3 {
		t.Errorf("expected 3 bookmarks in stats, got %d", stats.TotalBookmarks)
	}
}

func TestOrganizeCloneLeavesOriginals(t *testing.T) {
	p := newPipeline(t)
	p.seed(t, map[string]string{
		"My Repo": "https://github.com/me/repo",
	})

	p.runJob(t, domain.StrategyClone)

	nodes, err := p.store.ListTree(context.Background())
	if err != nil {
		t.Fatalf("list tree: %v", err)
	}
	leaves := 0
	for _, n := range nodes {
		if !n.IsFolder() {
			leaves++
		}
	}
	// Original in the inbox plus the organized copy.
	if leaves != 2 {
		t.Errorf("expected 2 leaf nodes after clone run, got %d", leaves)
	}
}

func TestOrganizeRunIsIdempotent(t *testing.T) {
	p := newPipeline(t)
	p.seed(t, map[string]string{
		"My Repo":    "https://github.com/me/repo",
		"World News": "https://www.bbc.com/news/world",
	})

	p.runJob(t, domain.StrategyClone)
	first := p.viewCounts(t)

	// A second clone run re-copies the same originals; the duplicate
	// sweep at the end of the run must collapse them again.
	p.runJob(t, domain.StrategyClone)
	second := p.viewCounts(t)

	for slug, n := range first {
		if second[slug] != n {
			t.Errorf("category %s: expected %d items after rerun, got %d", slug, n, second[slug])
		}
	}
}

func TestSecondStartRejected(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	running := &domain.JobState{Status: domain.JobRunning, StartedAt: time.Now()}
	if err := p.store.SaveJobState(ctx, running); err != nil {
		t.Fatalf("save state: %v", err)
	}

	if _, err := p.engine.Start(ctx, domain.StrategyClone); !errors.Is(err, engine.ErrJobRunning) {
		t.Fatalf("expected ErrJobRunning, got %v", err)
	}

	// Reset returns the job to idle; now a start must go through.
	if _, err := p.engine.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := p.engine.Start(ctx, domain.StrategyClone); err != nil {
		t.Fatalf("start after reset: %v", err)
	}
}

func TestManualOverrideSurvivesRuns(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	// A github URL would classify as programming, but the caller pins
	// it to a category of their own.
	node, rec, err := p.engine.ClassifyAndPlace(ctx, "https://github.com/me/repo", "My Repo",
		&engine.AddOverride{Category: "Reading List"})
	if err != nil {
		t.Fatalf("classify and place: %v", err)
	}
	if !rec.Manual {
		t.Error("expected override to mark the record manual")
	}
	if rec.Primary == "developer/programming" {
		t.Errorf("expected pinned category, got %s", rec.Primary)
	}

	p.seed(t, map[string]string{
		"World News": "https://www.bbc.com/news/world",
	})
	p.runJob(t, domain.StrategyClone)

	after, err := p.store.Meta(ctx, node.ID)
	if err != nil {
		t.Fatalf("meta after run: %v", err)
	}
	if after.Primary != rec.Primary {
		t.Errorf("run moved a pinned item: %s -> %s", rec.Primary, after.Primary)
	}
	if !after.Manual {
		t.Error("run cleared the manual flag")
	}
}

func TestCrashedJobRecoversAsFailed(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	// Simulate a process that died mid-run.
	stale := &domain.JobState{
		Status:    domain.JobRunning,
		Total:     10,
		Done:      4,
		StartedAt: time.Now().Add(-time.Hour),
	}
	if err := p.store.SaveJobState(ctx, stale); err != nil {
		t.Fatalf("save state: %v", err)
	}

	if err := p.engine.RecoverStale(ctx); err != nil {
		t.Fatalf("recover: %v", err)
	}

	state, err := p.engine.State(ctx)
	if err != nil {
		t.Fatalf("read state: %v", err)
	}
	if state.Status != domain.JobFailed {
		t.Errorf("expected failed after recovery, got %s", state.Status)
	}
	if state.Error == "" {
		t.Error("expected an error message on the recovered state")
	}
	if state.Done != 4 {
		t.Errorf("recovery must preserve progress, got done=%d", state.Done)
	}
}
