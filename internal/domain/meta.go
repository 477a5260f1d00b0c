package domain

import "time"

// BookmarkMeta is the classification record attached to a bookmark node.
//
// It lives outside the tree, keyed by the node ID, so the tree can be
// re-imported or reorganized without losing what the classifier learned.
type BookmarkMeta struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ItemID is the ID of the bookmark node this record describes.
	ItemID string

	// ─────────────────────────────
	// Classification
	// ─────────────────────────────

	// Primary is the slug of the category the item belongs to.
	Primary string

	// Description is a short summary of the page, at most a few
	// hundred characters.
	Description string

	// Tags are free-form labels attached by the user.
	Tags []string

	// Manual marks the record as user-curated. Automatic
	// classification must never overwrite Primary or Description
	// once Manual is set.
	Manual bool

	// ─────────────────────────────
	// Organization state
	// ─────────────────────────────

	// Organized is set once the item has been placed into a
	// category folder by a job or a single-item add.
	Organized bool

	// OrganizedAt is the time of the last successful placement.
	OrganizedAt time.Time

	// ClonedFrom is the ID of the source node when this record
	// belongs to a copy produced by a clone-strategy job.
	ClonedFrom string

	// Stale requests reclassification on the next job run even
	// though Primary is already set.
	Stale bool

	// ─────────────────────────────
	// Failure tracking
	// ─────────────────────────────

	// OrganizeFailed is set when the last attempt to place the
	// item failed. The job keeps going; the flag is for operators.
	OrganizeFailed bool

	// LastError holds the message of the last per-item failure.
	// Cleared on the next success.
	LastError string

	// ─────────────────────────────
	// Bookkeeping
	// ─────────────────────────────

	// UpdatedAt is updated on any mutation.
	UpdatedAt time.Time
}
