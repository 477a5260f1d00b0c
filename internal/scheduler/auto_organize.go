package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/MrSnakeDoc/curator/internal/engine"
	"github.com/MrSnakeDoc/curator/internal/logger"
)

// AutoOrganizer starts an organize job on a fixed interval. A start
// rejected because a job is already running is logged and skipped,
// never treated as a failure.
type AutoOrganizer struct {
	engine   *engine.Engine
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewAutoOrganizer creates a new auto organizer
func NewAutoOrganizer(
	eng *engine.Engine,
	log logger.Logger,
	interval time.Duration,
) *AutoOrganizer {
	return &AutoOrganizer{
		engine:   eng,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic organize process. The first run happens
// after one full interval, not at boot, so a restart never kicks off
// a surprise reorganization.
func (ao *AutoOrganizer) Start(ctx context.Context) error {
	ticker := time.NewTicker(ao.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ao.organize(ctx)
			case <-ao.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the auto organizer
func (ao *AutoOrganizer) Stop() {
	close(ao.stopCh)
}

func (ao *AutoOrganizer) organize(ctx context.Context) {
	state, err := ao.engine.Start(ctx, "")
	if err != nil {
		if errors.Is(err, engine.ErrJobRunning) {
			ao.logger.Info("auto organize skipped, job already running")
			return
		}
		ao.logger.Error("auto organize failed to start",
			logger.Error(err))
		return
	}

	ao.logger.Info("auto organize job started",
		logger.Int("total", state.Total))
}
