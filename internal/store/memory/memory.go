// Package memory provides an in-process implementation of the store
// contracts. It backs tests and the CURATOR_STORE=memory mode for
// running without Redis; the tradeoff is that nothing survives a
// restart.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/curator/internal/domain"
	"github.com/MrSnakeDoc/curator/internal/store"
	"github.com/google/uuid"
)

// Store keeps the whole data set behind one RWMutex. Reads hand out
// copies so callers can mutate freely before saving back.
type Store struct {
	mu         sync.RWMutex
	nodes      map[string]*domain.Bookmark     // ID -> node
	meta       map[string]*domain.BookmarkMeta // node ID -> record
	categories map[string]*domain.Category     // slug -> definition
	jobState   *domain.JobState
	stats      *domain.Stats
}

// NewStore creates an empty memory store
func NewStore() *Store {
	return &Store{
		nodes:      make(map[string]*domain.Bookmark),
		meta:       make(map[string]*domain.BookmarkMeta),
		categories: make(map[string]*domain.Category),
	}
}

// ─────────────────────────────────────────────────────────────────
// Tree methods
// ─────────────────────────────────────────────────────────────────

// CreateNode stores a new tree node, assigning its ID and stamping
// DateAdded when the caller left it zero.
func (s *Store) CreateNode(_ context.Context, n *domain.Bookmark) (*domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *n
	stored.ID = uuid.NewString()
	if stored.DateAdded == 0 {
		stored.DateAdded = time.Now().UnixMilli()
	}
	stored.Path = nil

	s.nodes[stored.ID] = &stored

	out := stored
	return &out, nil
}

// Node retrieves a node by ID
func (s *Store) Node(_ context.Context, id string) (*domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node %s: %w", id, store.ErrNotFound)
	}
	out := *n
	return &out, nil
}

// Children lists the direct children of a folder, ordered by
// DateAdded then title.
func (s *Store) Children(_ context.Context, parentID string) ([]*domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	children := make([]*domain.Bookmark, 0)
	for _, n := range s.nodes {
		if n.ParentID == parentID {
			out := *n
			children = append(children, &out)
		}
	}
	domain.SortBookmarks(children)

	return children, nil
}

// ListTree returns every node with its ancestor path filled in.
func (s *Store) ListTree(_ context.Context) ([]*domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*domain.Bookmark, 0, len(s.nodes))
	for _, n := range s.nodes {
		out := *n
		all = append(all, &out)
	}

	domain.FillPaths(all)
	domain.SortBookmarks(all)

	return all, nil
}

// MoveNode reparents a node.
func (s *Store) MoveNode(_ context.Context, id, newParentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nodes[id]
	if !ok {
		return fmt.Errorf("node %s: %w", id, store.ErrNotFound)
	}
	n.ParentID = newParentID
	return nil
}

// RemoveNode deletes a single node.
func (s *Store) RemoveNode(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.nodes, id)
	return nil
}

// RemoveSubtree deletes a folder and everything under it.
func (s *Store) RemoveSubtree(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byParent := make(map[string][]string, len(s.nodes))
	for _, n := range s.nodes {
		byParent[n.ParentID] = append(byParent[n.ParentID], n.ID)
	}

	doomed := []string{id}
	for i := 0; i < len(doomed); i++ {
		doomed = append(doomed, byParent[doomed[i]]...)
	}

	for _, nodeID := range doomed {
		delete(s.nodes, nodeID)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────
// Meta methods
// ─────────────────────────────────────────────────────────────────

// SaveMeta stores a classification record
func (s *Store) SaveMeta(_ context.Context, m *domain.BookmarkMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.UpdatedAt = time.Now()
	stored := *m
	s.meta[m.ItemID] = &stored
	return nil
}

// SaveMetaMany stores multiple classification records (bulk operation)
func (s *Store) SaveMetaMany(_ context.Context, records []*domain.BookmarkMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, m := range records {
		m.UpdatedAt = now
		stored := *m
		s.meta[m.ItemID] = &stored
	}
	return nil
}

// Meta retrieves a classification record by node ID
func (s *Store) Meta(_ context.Context, itemID string) (*domain.BookmarkMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.meta[itemID]
	if !ok {
		return nil, fmt.Errorf("meta %s: %w", itemID, store.ErrNotFound)
	}
	out := *m
	return &out, nil
}

// AllMeta retrieves all classification records
func (s *Store) AllMeta(_ context.Context) (map[string]*domain.BookmarkMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make(map[string]*domain.BookmarkMeta, len(s.meta))
	for id, m := range s.meta {
		out := *m
		records[id] = &out
	}
	return records, nil
}

// DeleteMeta removes a classification record
func (s *Store) DeleteMeta(_ context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.meta, itemID)
	return nil
}

// ─────────────────────────────────────────────────────────────────
// Taxonomy methods
// ─────────────────────────────────────────────────────────────────

// SaveCategory stores a category definition
func (s *Store) SaveCategory(_ context.Context, c *domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *c
	s.categories[c.Slug] = &stored
	return nil
}

// Category retrieves a category definition by slug
func (s *Store) Category(_ context.Context, slug string) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[slug]
	if !ok {
		return nil, fmt.Errorf("category %s: %w", slug, store.ErrNotFound)
	}
	out := *c
	return &out, nil
}

// Categories retrieves all category definitions in display order.
func (s *Store) Categories(_ context.Context) ([]*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cats := make([]*domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out := *c
		cats = append(cats, &out)
	}
	domain.SortCategories(cats)

	return cats, nil
}

// DeleteCategory removes a category definition
func (s *Store) DeleteCategory(_ context.Context, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.categories, slug)
	return nil
}

// ─────────────────────────────────────────────────────────────────
// State methods
// ─────────────────────────────────────────────────────────────────

// JobState retrieves the organize job state, idle when never saved.
func (s *Store) JobState(_ context.Context) (*domain.JobState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.jobState == nil {
		return &domain.JobState{Status: domain.JobIdle}, nil
	}
	out := *s.jobState
	return &out, nil
}

// SaveJobState persists the organize job state
func (s *Store) SaveJobState(_ context.Context, state *domain.JobState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *state
	s.jobState = &stored
	return nil
}

// Stats retrieves the stats snapshot, empty when never saved.
func (s *Store) Stats(_ context.Context) (*domain.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.stats == nil {
		return &domain.Stats{PerCategory: map[string]int{}}, nil
	}

	out := *s.stats
	out.PerCategory = make(map[string]int, len(s.stats.PerCategory))
	for k, v := range s.stats.PerCategory {
		out.PerCategory[k] = v
	}
	return &out, nil
}

// SaveStats persists the stats snapshot
func (s *Store) SaveStats(_ context.Context, stats *domain.Stats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats.UpdatedAt = time.Now()
	stored := *stats
	stored.PerCategory = make(map[string]int, len(stats.PerCategory))
	for k, v := range stats.PerCategory {
		stored.PerCategory[k] = v
	}
	s.stats = &stored
	return nil
}
