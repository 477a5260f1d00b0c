package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/curator/internal/logger"
	"github.com/MrSnakeDoc/curator/internal/rules"
	"github.com/MrSnakeDoc/curator/internal/sources/rulesfile"
	"github.com/MrSnakeDoc/curator/internal/taxonomy"
)

// RulesReloader periodically reloads the user rules and taxonomy
// files, applying the rule overlay and seeding any new category
// definitions.
type RulesReloader struct {
	loader        *rulesfile.Loader
	mapper        *rulesfile.Mapper
	rules         *rules.Engine
	taxonomy      *taxonomy.Manager
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewRulesReloader creates a new rules reloader
func NewRulesReloader(
	rulesFile string,
	taxonomyFile string,
	eng *rules.Engine,
	tax *taxonomy.Manager,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *RulesReloader {
	return &RulesReloader{
		loader:        rulesfile.NewLoader(rulesFile, taxonomyFile),
		mapper:        rulesfile.NewMapper(),
		rules:         eng,
		taxonomy:      tax,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic reload process
func (rr *RulesReloader) Start(ctx context.Context) error {
	// Load immediately on start
	if err := rr.Reload(ctx); err != nil {
		return fmt.Errorf("initial reload failed: %w", err)
	}

	// Start periodic reload
	ticker := time.NewTicker(rr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := rr.Reload(ctx); err != nil {
					rr.logger.Error("failed to reload rules",
						logger.Error(err))
				}
			case <-rr.manualTrigger:
				rr.logger.Info("manual rules reload triggered")
				if err := rr.Reload(ctx); err != nil {
					rr.logger.Error("failed to reload rules",
						logger.Error(err))
				}
			case <-rr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (rr *RulesReloader) Stop() {
	close(rr.stopCh)
}

// Reload reads both files and applies what they define. A broken
// rules file leaves the previous overlay in place.
func (rr *RulesReloader) Reload(ctx context.Context) error {
	rf, err := rr.loader.LoadRules()
	if err != nil {
		return fmt.Errorf("failed to load rules file: %w", err)
	}
	if rf != nil {
		overlay, err := rr.mapper.MapRules(rf)
		if err != nil {
			return fmt.Errorf("failed to map rules file: %w", err)
		}
		rr.rules.SetUserRules(overlay)
		rr.logger.Info("user rules applied",
			logger.Int("domains", len(overlay.Domains)),
			logger.Int("paths", len(overlay.Paths)),
			logger.Int("keywords", len(overlay.Keywords)))
	}

	tf, err := rr.loader.LoadTaxonomy()
	if err != nil {
		return fmt.Errorf("failed to load taxonomy file: %w", err)
	}
	if tf != nil {
		defs := rr.mapper.MapTaxonomy(tf)
		// Seeding only adds definitions; removals go through the
		// reconciliation endpoint where the user confirms them.
		if err := rr.taxonomy.Seed(ctx, defs); err != nil {
			return fmt.Errorf("failed to seed taxonomy: %w", err)
		}
		rr.logger.Info("taxonomy definitions seeded",
			logger.Int("count", len(defs)))
	}

	return nil
}
