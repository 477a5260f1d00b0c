// Package engine drives the organize job: snapshot eligible items,
// classify each one, place it into its category folder, persist and
// broadcast progress, and reconcile duplicates when cloning.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/curator/internal/domain"
	"github.com/MrSnakeDoc/curator/internal/logger"
	"github.com/MrSnakeDoc/curator/internal/metrics"
	"github.com/MrSnakeDoc/curator/internal/store"
	"github.com/MrSnakeDoc/curator/internal/taxonomy"
)

// ErrJobRunning is returned by Start when a job is already in
// flight. A second start is rejected, never queued.
var ErrJobRunning = errors.New("organize job already running")

// Classifier decides one bookmark. *classify.Classifier satisfies
// it; tests plug in deterministic fakes.
type Classifier interface {
	Classify(ctx context.Context, item *domain.Bookmark) *domain.Classification
}

// Indexer receives organized items for full-text search. The engine
// treats indexing as best effort: failures are logged, never fatal.
type Indexer interface {
	IndexBookmark(b *domain.Bookmark, m *domain.BookmarkMeta) error
	DeleteBookmark(id string) error
}

type Deps struct {
	Store       store.Store
	Classifier  Classifier
	Taxonomy    *taxonomy.Manager
	Broadcaster *Broadcaster
	Index       Indexer
	Metrics     *metrics.Metrics
	Log         logger.Logger

	// DefaultStrategy is used when Start gets an empty strategy.
	DefaultStrategy domain.Strategy

	// ProviderLabel names the active classifier mode in job state.
	ProviderLabel string
}

type Engine struct {
	store       store.Store
	classifier  Classifier
	taxonomy    *taxonomy.Manager
	broadcaster *Broadcaster
	index       Indexer
	metrics     *metrics.Metrics
	log         logger.Logger

	defaultStrategy domain.Strategy
	providerLabel   string

	// stateMu serializes every job-state read-modify-write so a
	// reset cannot be resurrected by a concurrent progress write.
	stateMu sync.Mutex
}

func New(d Deps) *Engine {
	if d.Broadcaster == nil {
		d.Broadcaster = NewBroadcaster()
	}
	if d.DefaultStrategy == "" {
		d.DefaultStrategy = domain.StrategyClone
	}
	return &Engine{
		store:           d.Store,
		classifier:      d.Classifier,
		taxonomy:        d.Taxonomy,
		broadcaster:     d.Broadcaster,
		index:           d.Index,
		metrics:         d.Metrics,
		log:             d.Log,
		defaultStrategy: d.DefaultStrategy,
		providerLabel:   d.ProviderLabel,
	}
}

// Broadcaster exposes the progress stream for SSE handlers.
func (e *Engine) Broadcaster() *Broadcaster {
	return e.broadcaster
}

// State returns the persisted job state snapshot.
func (e *Engine) State(ctx context.Context) (*domain.JobState, error) {
	return e.store.JobState(ctx)
}

// StatsSnapshot returns the persisted aggregate stats.
func (e *Engine) StatsSnapshot(ctx context.Context) (*domain.Stats, error) {
	return e.store.Stats(ctx)
}

// Start launches an organize run in the background and returns the
// initial running state. ErrJobRunning when one is already going.
func (e *Engine) Start(ctx context.Context, strategy domain.Strategy) (*domain.JobState, error) {
	if strategy == "" {
		strategy = e.defaultStrategy
	}
	if !strategy.Valid() {
		return nil, fmt.Errorf("unknown strategy %q", strategy)
	}

	e.stateMu.Lock()
	defer e.stateMu.Unlock()

	cur, err := e.store.JobState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read job state: %w", err)
	}
	if cur.Running() {
		return nil, ErrJobRunning
	}

	items, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	state := &domain.JobState{
		Status:    domain.JobRunning,
		Strategy:  strategy,
		Provider:  e.providerLabel,
		Total:     len(items),
		StartedAt: time.Now(),
	}
	if err := e.store.SaveJobState(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to persist job state: %w", err)
	}
	e.broadcaster.Publish(*state)
	e.metrics.JobStarted()
	e.log.Info("organize job started",
		logger.String("strategy", string(strategy)),
		logger.Int("total", len(items)))

	// The run outlives the request that started it.
	go e.run(context.WithoutCancel(ctx), strategy, items)

	return state, nil
}

// Reset returns the job to idle from any state. A running worker
// notices at its next between-items check and stops silently.
func (e *Engine) Reset(ctx context.Context) (*domain.JobState, error) {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()

	state := &domain.JobState{Status: domain.JobIdle}
	if err := e.store.SaveJobState(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to reset job state: %w", err)
	}
	e.broadcaster.Publish(*state)
	e.log.Info("organize job reset")
	return state, nil
}

// RecoverStale is called at boot: a state persisted as running can
// only be the leftover of a crashed process, so it becomes failed.
func (e *Engine) RecoverStale(ctx context.Context) error {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()

	st, err := e.store.JobState(ctx)
	if err != nil {
		return fmt.Errorf("failed to read job state: %w", err)
	}
	if !st.Running() {
		return nil
	}

	st.Status = domain.JobFailed
	st.Error = "interrupted by restart"
	st.CompletedAt = time.Now()
	if err := e.store.SaveJobState(ctx, st); err != nil {
		return fmt.Errorf("failed to persist recovered state: %w", err)
	}
	e.log.Warn("recovered interrupted organize job",
		logger.Int("done", st.Done),
		logger.Int("total", st.Total))
	return nil
}

// snapshot selects the items the run will process: leaf bookmarks
// that do not already live inside the organized subtree.
func (e *Engine) snapshot(ctx context.Context) ([]*domain.Bookmark, error) {
	nodes, err := e.store.ListTree(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tree: %w", err)
	}

	byID := make(map[string]*domain.Bookmark, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	rootID := ""
	if root, err := e.taxonomy.Root(ctx); err == nil {
		rootID = root.ID
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	var items []*domain.Bookmark
	for _, n := range nodes {
		if n.IsFolder() {
			continue
		}
		if rootID != "" && n.Under(rootID, byID) {
			continue
		}
		items = append(items, n)
	}
	domain.SortBookmarks(items)
	return items, nil
}

func (e *Engine) run(ctx context.Context, strategy domain.Strategy, items []*domain.Bookmark) {
	// Per-run caches: category folders resolved once, placements
	// accumulated for the stats rebuild.
	folders := make(map[string]string)
	placed := make(map[string]int)

	for i, item := range items {
		if ok, err := e.stillRunning(ctx); err != nil {
			e.fail(ctx, fmt.Errorf("failed to read job state: %w", err))
			return
		} else if !ok {
			e.log.Info("organize run stopped by reset", logger.Int("done", i))
			return
		}

		slug, err := e.step(ctx, item, strategy, folders)
		if err != nil {
			e.recordItemFailure(ctx, item, err)
		} else {
			placed[slug]++
			e.metrics.ItemOrganized()
		}

		ok, err := e.advance(ctx, i+1, item.Title)
		if err != nil {
			e.fail(ctx, fmt.Errorf("failed to persist progress: %w", err))
			return
		}
		if !ok {
			e.log.Info("organize run stopped by reset", logger.Int("done", i+1))
			return
		}
	}

	// Cloning leaves the originals in place, so the organized
	// subtree must be swept for the copies it accumulated.
	if strategy == domain.StrategyClone {
		if _, err := e.RemoveDuplicates(ctx); err != nil {
			e.fail(ctx, fmt.Errorf("failed to reconcile duplicates: %w", err))
			return
		}
	}

	if err := e.rebuildStats(ctx, items, placed); err != nil {
		e.log.Warn("failed to rebuild stats", logger.Error(err))
	}

	e.finish(ctx)
}

// stillRunning is the cooperative cancellation check. The persisted
// state is the sole source of truth.
func (e *Engine) stillRunning(ctx context.Context) (bool, error) {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()

	st, err := e.store.JobState(ctx)
	if err != nil {
		return false, err
	}
	return st.Running(), nil
}

// advance persists and broadcasts progress, unless the job was reset
// out from under the worker.
func (e *Engine) advance(ctx context.Context, done int, title string) (bool, error) {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()

	st, err := e.store.JobState(ctx)
	if err != nil {
		return false, err
	}
	if !st.Running() {
		return false, nil
	}

	st.Done = done
	st.LastTitle = title
	if err := e.store.SaveJobState(ctx, st); err != nil {
		return false, err
	}
	e.broadcaster.Publish(*st)
	return true, nil
}

func (e *Engine) finish(ctx context.Context) {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()

	st, err := e.store.JobState(ctx)
	if err != nil {
		e.log.Error("failed to read job state at finish", logger.Error(err))
		return
	}
	if !st.Running() {
		// Reset raced the finish; idle wins.
		return
	}

	st.Status = domain.JobDone
	st.CompletedAt = time.Now()
	if err := e.store.SaveJobState(ctx, st); err != nil {
		e.log.Error("failed to persist final job state", logger.Error(err))
		return
	}
	e.broadcaster.Publish(*st)
	e.metrics.JobCompleted()
	e.log.Info("organize job done",
		logger.Int("total", st.Total),
		logger.Int("done", st.Done))
}

// fail moves the job to failed with the engine-level error retained
// until an explicit reset.
func (e *Engine) fail(ctx context.Context, cause error) {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()

	e.log.Error("organize job failed", logger.Error(cause))
	e.metrics.JobFailed()

	st, err := e.store.JobState(ctx)
	if err != nil {
		e.log.Error("failed to read job state after failure", logger.Error(err))
		st = &domain.JobState{}
	}
	st.Status = domain.JobFailed
	st.Error = cause.Error()
	st.CompletedAt = time.Now()
	if err := e.store.SaveJobState(ctx, st); err != nil {
		e.log.Error("failed to persist failed job state", logger.Error(err))
		return
	}
	e.broadcaster.Publish(*st)
}

// step classifies and places one item, returning the slug it landed
// in. Per-item errors bubble up to be recorded, never to abort.
func (e *Engine) step(ctx context.Context, item *domain.Bookmark, strategy domain.Strategy, folders map[string]string) (string, error) {
	rec, err := e.store.Meta(ctx, item.ID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return "", fmt.Errorf("failed to load meta: %w", err)
		}
		rec = &domain.BookmarkMeta{ItemID: item.ID}
	}

	// A stored verdict is reused unless reclassification was
	// requested; manual records are never reclassified at all.
	needsClassify := rec.Primary == "" || (rec.Stale && !rec.Manual)
	if needsClassify {
		cls := e.classifier.Classify(ctx, item)
		rec.Primary = cls.Category
		rec.Description = cls.Description
		rec.Stale = false
		e.log.Debug("classified",
			logger.String("title", item.Title),
			logger.String("category", cls.Category),
			logger.String("source", string(cls.Source)))
	}

	folderID, ok := folders[rec.Primary]
	if !ok {
		cat, _, err := e.taxonomy.Ensure(ctx, rec.Primary)
		if err != nil {
			return "", fmt.Errorf("failed to ensure category %s: %w", rec.Primary, err)
		}
		rec.Primary = cat.Slug

		folder, err := e.taxonomy.EnsureFolder(ctx, cat)
		if err != nil {
			return "", fmt.Errorf("failed to ensure folder for %s: %w", cat.Slug, err)
		}
		folders[cat.Slug] = folder.ID
		folderID = folder.ID
	}

	now := time.Now()
	placedNode := item
	placedMeta := rec

	switch strategy {
	case domain.StrategyMove:
		if item.ParentID != folderID {
			if err := e.store.MoveNode(ctx, item.ID, folderID); err != nil {
				return "", fmt.Errorf("failed to move into %s: %w", rec.Primary, err)
			}
		}
	case domain.StrategyClone:
		clone, err := e.store.CreateNode(ctx, &domain.Bookmark{
			Title:     item.Title,
			URL:       item.URL,
			ParentID:  folderID,
			DateAdded: item.DateAdded,
		})
		if err != nil {
			return "", fmt.Errorf("failed to clone into %s: %w", rec.Primary, err)
		}

		cloneMeta := *rec
		cloneMeta.ItemID = clone.ID
		cloneMeta.ClonedFrom = item.ID
		cloneMeta.Organized = true
		cloneMeta.OrganizedAt = now
		// The source record may carry a failure from an earlier run.
		cloneMeta.OrganizeFailed = false
		cloneMeta.LastError = ""
		if err := e.store.SaveMeta(ctx, &cloneMeta); err != nil {
			return "", fmt.Errorf("failed to save clone meta: %w", err)
		}
		placedNode = clone
		placedMeta = &cloneMeta
	}

	rec.Organized = true
	rec.OrganizedAt = now
	rec.OrganizeFailed = false
	rec.LastError = ""
	if err := e.store.SaveMeta(ctx, rec); err != nil {
		return "", fmt.Errorf("failed to save meta: %w", err)
	}

	if e.index != nil {
		if err := e.index.IndexBookmark(placedNode, placedMeta); err != nil {
			e.log.Warn("failed to index organized item",
				logger.String("id", placedNode.ID),
				logger.Error(err))
		}
	}

	return rec.Primary, nil
}

// recordItemFailure marks the item's record and keeps the job going.
func (e *Engine) recordItemFailure(ctx context.Context, item *domain.Bookmark, cause error) {
	e.metrics.ItemFailed()
	e.log.Warn("failed to organize item",
		logger.String("id", item.ID),
		logger.String("title", item.Title),
		logger.Error(cause))

	rec, err := e.store.Meta(ctx, item.ID)
	if err != nil {
		rec = &domain.BookmarkMeta{ItemID: item.ID}
	}
	rec.OrganizeFailed = true
	rec.LastError = cause.Error()
	if err := e.store.SaveMeta(ctx, rec); err != nil {
		e.log.Error("failed to record item failure",
			logger.String("id", item.ID),
			logger.Error(err))
	}
}

// rebuildStats recomputes the aggregate snapshot from this run.
func (e *Engine) rebuildStats(ctx context.Context, items []*domain.Bookmark, placed map[string]int) error {
	per := make(map[string]int, len(placed))
	for slug, n := range placed {
		per[slug] = n
	}

	recent := 0
	cutoff := time.Now().Add(-7 * 24 * time.Hour).UnixMilli()
	for _, item := range items {
		if item.DateAdded >= cutoff {
			recent++
		}
	}

	return e.store.SaveStats(ctx, &domain.Stats{
		TotalBookmarks:    len(items),
		CategoriesCreated: len(per),
		PerCategory:       per,
		RecentCount:       recent,
	})
}
