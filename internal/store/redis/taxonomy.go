package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/curator/internal/domain"
	"github.com/MrSnakeDoc/curator/internal/store"
	"github.com/redis/go-redis/v9"
)

// SaveCategory stores a category definition in Redis
func (s *Store) SaveCategory(ctx context.Context, c *domain.Category) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal category: %w", err)
	}

	key := CategoryKey(c.Slug)

	// Store category data
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save category: %w", err)
	}

	// Add to set of all categories
	if err := s.client.SAdd(ctx, KeyAllCategories, c.Slug).Err(); err != nil {
		return fmt.Errorf("failed to add category to set: %w", err)
	}

	return nil
}

// Category retrieves a category definition from Redis by slug
func (s *Store) Category(ctx context.Context, slug string) (*domain.Category, error) {
	key := CategoryKey(slug)
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("category %s: %w", slug, store.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	var c domain.Category
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal category: %w", err)
	}

	return &c, nil
}

// Categories retrieves all category definitions, ordered by group,
// then Order, then name.
func (s *Store) Categories(ctx context.Context) ([]*domain.Category, error) {
	slugs, err := s.client.SMembers(ctx, KeyAllCategories).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get category slugs: %w", err)
	}

	cats := make([]*domain.Category, 0, len(slugs))
	for _, slug := range slugs {
		c, err := s.Category(ctx, slug)
		if err != nil {
			// Skip categories that couldn't be retrieved
			continue
		}
		cats = append(cats, c)
	}

	domain.SortCategories(cats)

	return cats, nil
}

// DeleteCategory removes a category definition from Redis
func (s *Store) DeleteCategory(ctx context.Context, slug string) error {
	key := CategoryKey(slug)

	// Delete category data
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	// Remove from set of all categories
	if err := s.client.SRem(ctx, KeyAllCategories, slug).Err(); err != nil {
		return fmt.Errorf("failed to remove category from set: %w", err)
	}

	return nil
}
