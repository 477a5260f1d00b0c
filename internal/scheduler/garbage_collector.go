package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/curator/internal/logger"
	"github.com/MrSnakeDoc/curator/internal/store"
)

const (
	// DefaultGCThreshold is how long an orphaned record must sit
	// untouched before it is deleted. The grace period keeps the
	// sweep from racing a tree import in progress.
	DefaultGCThreshold = 7 * 24 * time.Hour
)

// GarbageCollector deletes classification records whose bookmark no
// longer exists in the tree. Records accumulate when nodes are
// removed out from under their metadata (external tree edits,
// partial imports).
type GarbageCollector struct {
	store     store.Store
	logger    logger.Logger
	interval  time.Duration
	threshold time.Duration
	stopCh    chan struct{}
}

// NewGarbageCollector creates a new garbage collector
func NewGarbageCollector(
	st store.Store,
	log logger.Logger,
	interval time.Duration,
	threshold time.Duration,
) *GarbageCollector {
	if threshold == 0 {
		threshold = DefaultGCThreshold
	}

	return &GarbageCollector{
		store:     st,
		logger:    log,
		interval:  interval,
		threshold: threshold,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic garbage collection process
func (gc *GarbageCollector) Start(ctx context.Context) error {
	// Run immediately on start
	if err := gc.Collect(ctx); err != nil {
		gc.logger.Warn("initial garbage collection failed",
			logger.Error(err))
	}

	// Start periodic collection
	ticker := time.NewTicker(gc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := gc.Collect(ctx); err != nil {
					gc.logger.Error("garbage collection failed",
						logger.Error(err))
				}
			case <-gc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the garbage collector
func (gc *GarbageCollector) Stop() {
	close(gc.stopCh)
}

// Collect removes metadata records that have been orphaned for
// longer than the threshold.
func (gc *GarbageCollector) Collect(ctx context.Context) error {
	gc.logger.Debug("running garbage collection for orphaned metadata")

	nodes, err := gc.store.ListTree(ctx)
	if err != nil {
		return err
	}
	alive := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		alive[n.ID] = true
	}

	all, err := gc.store.AllMeta(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	deleted := 0
	for id, rec := range all {
		if alive[id] {
			continue
		}
		if !rec.UpdatedAt.IsZero() && now.Sub(rec.UpdatedAt) < gc.threshold {
			continue
		}

		if err := gc.store.DeleteMeta(ctx, id); err != nil {
			gc.logger.Warn("failed to delete orphaned metadata",
				logger.String("item_id", id),
				logger.Error(err))
			continue
		}

		gc.logger.Info("garbage collected orphaned metadata",
			logger.String("item_id", id),
			logger.String("category", rec.Primary))
		deleted++
	}

	if deleted > 0 {
		gc.logger.Info("garbage collection completed",
			logger.Int("deleted", deleted))
	} else {
		gc.logger.Debug("no orphaned metadata to collect")
	}

	return nil
}
