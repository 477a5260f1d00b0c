package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/curator/internal/domain"
	"github.com/MrSnakeDoc/curator/internal/store"
	"github.com/redis/go-redis/v9"
)

// SaveMeta stores a classification record in Redis
func (s *Store) SaveMeta(ctx context.Context, m *domain.BookmarkMeta) error {
	m.UpdatedAt = time.Now()

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal meta: %w", err)
	}

	key := MetaKey(m.ItemID)

	// Store record data
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save meta: %w", err)
	}

	// Add to set of all records
	if err := s.client.SAdd(ctx, KeyAllMeta, m.ItemID).Err(); err != nil {
		return fmt.Errorf("failed to add meta to set: %w", err)
	}

	return nil
}

// Meta retrieves a classification record from Redis by node ID
func (s *Store) Meta(ctx context.Context, itemID string) (*domain.BookmarkMeta, error) {
	key := MetaKey(itemID)
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("meta %s: %w", itemID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get meta: %w", err)
	}

	var m domain.BookmarkMeta
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meta: %w", err)
	}

	return &m, nil
}

// AllMeta retrieves all classification records from Redis
func (s *Store) AllMeta(ctx context.Context) (map[string]*domain.BookmarkMeta, error) {
	ids, err := s.client.SMembers(ctx, KeyAllMeta).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get meta IDs: %w", err)
	}

	records := make(map[string]*domain.BookmarkMeta, len(ids))
	for _, id := range ids {
		m, err := s.Meta(ctx, id)
		if err != nil {
			// Skip records that couldn't be retrieved
			continue
		}
		records[id] = m
	}

	return records, nil
}

// DeleteMeta removes a classification record from Redis
func (s *Store) DeleteMeta(ctx context.Context, itemID string) error {
	key := MetaKey(itemID)

	// Delete record data
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete meta: %w", err)
	}

	// Remove from set of all records
	if err := s.client.SRem(ctx, KeyAllMeta, itemID).Err(); err != nil {
		return fmt.Errorf("failed to remove meta from set: %w", err)
	}

	return nil
}

// SaveMetaMany stores multiple classification records in Redis (bulk operation)
func (s *Store) SaveMetaMany(ctx context.Context, records []*domain.BookmarkMeta) error {
	pipe := s.client.Pipeline()

	now := time.Now()
	for _, m := range records {
		m.UpdatedAt = now

		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("failed to marshal meta %s: %w", m.ItemID, err)
		}

		pipe.Set(ctx, MetaKey(m.ItemID), data, 0)
		pipe.SAdd(ctx, KeyAllMeta, m.ItemID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save meta records: %w", err)
	}

	return nil
}
