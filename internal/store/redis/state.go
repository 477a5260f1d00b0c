package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/curator/internal/domain"
	"github.com/redis/go-redis/v9"
)

// JobState retrieves the organize job state. A missing key yields a
// fresh idle state, never an error.
func (s *Store) JobState(ctx context.Context) (*domain.JobState, error) {
	data, err := s.client.Get(ctx, KeyJobState).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &domain.JobState{Status: domain.JobIdle}, nil
		}
		return nil, fmt.Errorf("failed to get job state: %w", err)
	}

	var state domain.JobState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job state: %w", err)
	}

	return &state, nil
}

// SaveJobState persists the organize job state
func (s *Store) SaveJobState(ctx context.Context, state *domain.JobState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal job state: %w", err)
	}

	if err := s.client.Set(ctx, KeyJobState, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save job state: %w", err)
	}

	return nil
}

// Stats retrieves the stats snapshot. A missing key yields an empty
// snapshot, never an error.
func (s *Store) Stats(ctx context.Context) (*domain.Stats, error) {
	data, err := s.client.Get(ctx, KeyStats).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &domain.Stats{PerCategory: map[string]int{}}, nil
		}
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	var stats domain.Stats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats: %w", err)
	}
	if stats.PerCategory == nil {
		stats.PerCategory = map[string]int{}
	}

	return &stats, nil
}

// SaveStats persists the stats snapshot
func (s *Store) SaveStats(ctx context.Context, stats *domain.Stats) error {
	stats.UpdatedAt = time.Now()

	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	if err := s.client.Set(ctx, KeyStats, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save stats: %w", err)
	}

	return nil
}
