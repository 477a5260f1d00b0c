package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/curator/internal/domain"
	"github.com/MrSnakeDoc/curator/internal/store"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CreateNode stores a new tree node, assigning its ID and stamping
// DateAdded when the caller left it zero.
func (s *Store) CreateNode(ctx context.Context, n *domain.Bookmark) (*domain.Bookmark, error) {
	stored := *n
	stored.ID = uuid.NewString()
	if stored.DateAdded == 0 {
		stored.DateAdded = time.Now().UnixMilli()
	}
	stored.Path = nil

	if err := s.saveNode(ctx, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *Store) saveNode(ctx context.Context, n *domain.Bookmark) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal node: %w", err)
	}

	key := NodeKey(n.ID)

	// Store node data
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save node: %w", err)
	}

	// Add to set of all nodes
	if err := s.client.SAdd(ctx, KeyAllNodes, n.ID).Err(); err != nil {
		return fmt.Errorf("failed to add node to set: %w", err)
	}

	return nil
}

// Node retrieves a tree node from Redis by ID
func (s *Store) Node(ctx context.Context, id string) (*domain.Bookmark, error) {
	key := NodeKey(id)
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("node %s: %w", id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get node: %w", err)
	}

	var n domain.Bookmark
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("failed to unmarshal node: %w", err)
	}

	return &n, nil
}

// Children lists the direct children of a folder, ordered by
// DateAdded then title.
func (s *Store) Children(ctx context.Context, parentID string) ([]*domain.Bookmark, error) {
	all, err := s.allNodes(ctx)
	if err != nil {
		return nil, err
	}

	children := make([]*domain.Bookmark, 0)
	for _, n := range all {
		if n.ParentID == parentID {
			children = append(children, n)
		}
	}
	domain.SortBookmarks(children)

	return children, nil
}

// ListTree returns every node with its ancestor path filled in.
func (s *Store) ListTree(ctx context.Context) ([]*domain.Bookmark, error) {
	all, err := s.allNodes(ctx)
	if err != nil {
		return nil, err
	}

	domain.FillPaths(all)
	domain.SortBookmarks(all)

	return all, nil
}

// MoveNode reparents a node.
func (s *Store) MoveNode(ctx context.Context, id, newParentID string) error {
	n, err := s.Node(ctx, id)
	if err != nil {
		return err
	}

	n.ParentID = newParentID
	return s.saveNode(ctx, n)
}

// RemoveNode deletes a single node from Redis
func (s *Store) RemoveNode(ctx context.Context, id string) error {
	key := NodeKey(id)

	// Delete node data
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete node: %w", err)
	}

	// Remove from set of all nodes
	if err := s.client.SRem(ctx, KeyAllNodes, id).Err(); err != nil {
		return fmt.Errorf("failed to remove node from set: %w", err)
	}

	return nil
}

// RemoveSubtree deletes a folder and all of its descendants in one
// pipeline.
func (s *Store) RemoveSubtree(ctx context.Context, id string) error {
	all, err := s.allNodes(ctx)
	if err != nil {
		return err
	}

	byParent := make(map[string][]*domain.Bookmark, len(all))
	for _, n := range all {
		byParent[n.ParentID] = append(byParent[n.ParentID], n)
	}

	doomed := []string{id}
	for i := 0; i < len(doomed); i++ {
		for _, child := range byParent[doomed[i]] {
			doomed = append(doomed, child.ID)
		}
	}

	pipe := s.client.Pipeline()
	for _, nodeID := range doomed {
		pipe.Del(ctx, NodeKey(nodeID))
		pipe.SRem(ctx, KeyAllNodes, nodeID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to remove subtree: %w", err)
	}

	return nil
}

// allNodes retrieves every stored node without paths.
func (s *Store) allNodes(ctx context.Context) ([]*domain.Bookmark, error) {
	ids, err := s.client.SMembers(ctx, KeyAllNodes).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get node IDs: %w", err)
	}

	if len(ids) == 0 {
		return []*domain.Bookmark{}, nil
	}

	nodes := make([]*domain.Bookmark, 0, len(ids))
	for _, id := range ids {
		n, err := s.Node(ctx, id)
		if err != nil {
			// Skip nodes that couldn't be retrieved
			continue
		}
		nodes = append(nodes, n)
	}

	return nodes, nil
}
