// Package store defines the persistence contracts the engine relies
// on. Implementations live in the redis and memory subpackages; the
// engine never knows which one it is talking to.
package store

import (
	"context"
	"errors"

	"github.com/MrSnakeDoc/curator/internal/domain"
)

// ErrNotFound is returned by lookups for missing records.
var ErrNotFound = errors.New("not found")

// TreeStore is the bookmark tree. Nodes reference their parent by ID;
// the root is the node with an empty ParentID.
type TreeStore interface {
	// CreateNode persists n, assigning its ID (and DateAdded when
	// zero), and returns the stored copy.
	CreateNode(ctx context.Context, n *domain.Bookmark) (*domain.Bookmark, error)

	// Node returns one node by ID. ErrNotFound when missing.
	Node(ctx context.Context, id string) (*domain.Bookmark, error)

	// Children lists the direct children of a folder.
	Children(ctx context.Context, parentID string) ([]*domain.Bookmark, error)

	// ListTree returns every node with Path filled in.
	ListTree(ctx context.Context) ([]*domain.Bookmark, error)

	// MoveNode reparents a node.
	MoveNode(ctx context.Context, id, newParentID string) error

	// RemoveNode deletes a single node.
	RemoveNode(ctx context.Context, id string) error

	// RemoveSubtree deletes a folder and everything under it.
	RemoveSubtree(ctx context.Context, id string) error
}

// MetaStore holds classification records, keyed by node ID.
type MetaStore interface {
	Meta(ctx context.Context, itemID string) (*domain.BookmarkMeta, error)
	SaveMeta(ctx context.Context, m *domain.BookmarkMeta) error
	// SaveMetaMany persists a batch of records in one round trip.
	SaveMetaMany(ctx context.Context, records []*domain.BookmarkMeta) error
	DeleteMeta(ctx context.Context, itemID string) error
	AllMeta(ctx context.Context) (map[string]*domain.BookmarkMeta, error)
}

// TaxonomyStore holds category definitions, keyed by slug.
type TaxonomyStore interface {
	Category(ctx context.Context, slug string) (*domain.Category, error)
	SaveCategory(ctx context.Context, c *domain.Category) error
	DeleteCategory(ctx context.Context, slug string) error
	Categories(ctx context.Context) ([]*domain.Category, error)
}

// StateStore holds the job state and the stats snapshot. Missing
// records come back as zero values (idle state, empty stats), never
// as ErrNotFound: callers always see a coherent default.
type StateStore interface {
	JobState(ctx context.Context) (*domain.JobState, error)
	SaveJobState(ctx context.Context, s *domain.JobState) error
	Stats(ctx context.Context) (*domain.Stats, error)
	SaveStats(ctx context.Context, s *domain.Stats) error
}

// Store is the full persistence surface.
type Store interface {
	TreeStore
	MetaStore
	TaxonomyStore
	StateStore
}
